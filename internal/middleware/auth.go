package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/care-portal-api/internal/access"
	"github.com/jwalitptl/care-portal-api/internal/model"
	apperrors "github.com/jwalitptl/care-portal-api/pkg/errors"
	"github.com/jwalitptl/care-portal-api/pkg/httputil"
	"github.com/jwalitptl/care-portal-api/pkg/metrics"
)

const ContextSession = "session"

var (
	errMissingToken = errors.New("missing authorization header")
	errTokenFormat  = errors.New("invalid authorization format")
)

// Authenticator resolves a bearer token into a session snapshot
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Session, error)
}

type AuthMiddleware struct {
	auth    Authenticator
	gate    *access.Gate
	metrics *metrics.Metrics
}

func NewAuthMiddleware(auth Authenticator, gate *access.Gate, m *metrics.Metrics) *AuthMiddleware {
	if m == nil {
		m = metrics.NewNop()
	}
	return &AuthMiddleware{auth: auth, gate: gate, metrics: m}
}

// Authenticate rejects requests without a valid bearer token
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Unauthorized(err))
			return
		}
		session, err := m.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}
		c.Set(ContextSession, session)
		c.Next()
	}
}

// OptionalAuth attaches a session when a valid token is present and an
// anonymous one otherwise
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := &model.Session{}
		if token, err := bearerToken(c); err == nil {
			if resolved, err := m.auth.Authenticate(c.Request.Context(), token); err == nil {
				session = resolved
			}
		}
		c.Set(ContextSession, session)
		c.Next()
	}
}

// RequireRole lets the request through only when the gate allows the role
func (m *AuthMiddleware) RequireRole(role model.Role) gin.HandlerFunc {
	return m.RequireAnyRole(role)
}

func (m *AuthMiddleware) RequireAnyRole(roles ...model.Role) gin.HandlerFunc {
	label := joinRoles(roles)
	return func(c *gin.Context) {
		decision := m.gate.EvaluateAny(Session(c), roles...)
		m.metrics.GateDecisions.WithLabelValues(label, string(decision.Outcome)).Inc()

		switch decision.Outcome {
		case access.Allow:
			c.Next()
		case access.Pending:
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": "pending", "decision": decision})
		default:
			c.Header("Location", decision.Target)
			c.AbortWithStatusJSON(http.StatusForbidden, httputil.Response{
				Status:  "error",
				Message: "access denied",
				Kind:    string(apperrors.KindForbidden),
				Data:    decision,
			})
		}
	}
}

// Session returns the request's session, or an anonymous one
func Session(c *gin.Context) *model.Session {
	if v, ok := c.Get(ContextSession); ok {
		if s, ok := v.(*model.Session); ok && s != nil {
			return s
		}
	}
	return &model.Session{}
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errTokenFormat
	}
	return strings.TrimSpace(parts[1]), nil
}

func joinRoles(roles []model.Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, "|")
}
