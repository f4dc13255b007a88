package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/care-portal-api/internal/access"
	"github.com/jwalitptl/care-portal-api/internal/middleware"
	"github.com/jwalitptl/care-portal-api/internal/model"
	apperrors "github.com/jwalitptl/care-portal-api/pkg/errors"
)

type tokenAuth map[string]*model.Session

func (a tokenAuth) Authenticate(_ context.Context, token string) (*model.Session, error) {
	if s, ok := a[token]; ok {
		return s, nil
	}
	return nil, apperrors.Unauthorized(nil)
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	id := uuid.New()
	gate := access.NewGate("/login")
	auth := middleware.NewAuthMiddleware(tokenAuth{
		"patient": {
			User:    &model.AuthUser{ID: id},
			Profile: &model.Profile{Base: model.Base{ID: id}, Role: model.RolePatient},
		},
	}, gate, nil)

	r := gin.New()
	NewHandler(gate).RegisterRoutes(r.Group("/api/v1"), auth)
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decision(t *testing.T, w *httptest.ResponseRecorder) access.Decision {
	t.Helper()
	var body struct {
		Data access.Decision `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Data
}

func TestGate_AnonymousCallerIsRedirectedToLogin(t *testing.T) {
	r := newRouter()

	w := get(r, "/api/v1/session/gate?role=patient", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, access.Decision{Outcome: access.Redirect, Target: "/login"}, decision(t, w))
}

func TestGate_InvalidTokenIsTreatedAsAnonymous(t *testing.T) {
	r := newRouter()

	w := get(r, "/api/v1/session/gate?role=patient", "stale")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, access.Redirect, decision(t, w).Outcome)
}

func TestGate_MatchingRoleIsAllowed(t *testing.T) {
	r := newRouter()

	w := get(r, "/api/v1/session/gate?role=patient", "patient")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, access.Allow, decision(t, w).Outcome)

	w = get(r, "/api/v1/session/gate?role=admin", "patient")
	assert.Equal(t, access.Redirect, decision(t, w).Outcome)
}

func TestGate_RoleIsRequired(t *testing.T) {
	w := get(newRouter(), "/api/v1/session/gate", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCurrent_RequiresAuthentication(t *testing.T) {
	r := newRouter()
	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/v1/session", "").Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/v1/session", "patient").Code)
}
