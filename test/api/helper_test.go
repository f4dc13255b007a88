//go:build integration

package api_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@example.com", prefix, time.Now().UnixNano())
}

// registerPatient creates a fresh patient and returns its email and token
func registerPatient(t *testing.T) (string, string) {
	t.Helper()
	email := uniqueEmail("patient")

	resp := makeRequest(http.MethodPost, "/auth/register", map[string]string{
		"email":      email,
		"password":   "correct-horse",
		"first_name": "Test",
		"last_name":  "Patient",
	}, "")
	require.Equal(t, http.StatusCreated, resp.Code, resp.Message)

	login := makeRequest(http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": "correct-horse",
	}, "")
	require.True(t, login.IsSuccess(), login.Message)
	return email, login.GetString("access_token")
}

func requireAdmin(t *testing.T) {
	t.Helper()
	if adminToken == "" {
		t.Skip("PORTAL_TEST_ADMIN_EMAIL not set")
	}
}
