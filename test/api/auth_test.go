//go:build integration

package api_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthFlow(t *testing.T) {
	email, token := registerPatient(t)

	exists := makeRequest(http.MethodGet, "/auth/email-exists?email="+url.QueryEscape(email), nil, "")
	require.True(t, exists.IsSuccess())
	assert.Equal(t, true, exists.Data["exists"])

	dup := makeRequest(http.MethodPost, "/auth/register", map[string]string{
		"email":      email,
		"password":   "correct-horse",
		"first_name": "Again",
	}, "")
	assert.Equal(t, http.StatusConflict, dup.Code)

	session := makeRequest(http.MethodGet, "/session", nil, token)
	require.True(t, session.IsSuccess(), session.Message)
	profile, _ := session.Data["profile"].(map[string]interface{})
	assert.Equal(t, "patient", profile["role"])
	assert.Equal(t, "basic", profile["plan_tier"])

	logout := makeRequest(http.MethodPost, "/auth/logout", nil, token)
	assert.Equal(t, http.StatusNoContent, logout.Code)

	after := makeRequest(http.MethodGet, "/session", nil, token)
	assert.Equal(t, http.StatusUnauthorized, after.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	email, _ := registerPatient(t)
	resp := makeRequest(http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestGate(t *testing.T) {
	_, token := registerPatient(t)

	allowed := makeRequest(http.MethodGet, "/session/gate?role=patient", nil, token)
	require.True(t, allowed.IsSuccess())
	assert.Equal(t, "allow", allowed.Data["decision"])

	denied := makeRequest(http.MethodGet, "/session/gate?role=admin", nil, token)
	require.True(t, denied.IsSuccess())
	assert.Equal(t, "redirect", denied.Data["decision"])

	admin := makeRequest(http.MethodGet, "/admin/stats", nil, token)
	assert.Equal(t, http.StatusForbidden, admin.Code)
	assert.NotEmpty(t, admin.Header.Get("Location"))
}
