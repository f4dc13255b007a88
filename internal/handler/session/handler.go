package session

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/care-portal-api/internal/access"
	"github.com/jwalitptl/care-portal-api/internal/middleware"
	"github.com/jwalitptl/care-portal-api/internal/model"
	apperrors "github.com/jwalitptl/care-portal-api/pkg/errors"
	"github.com/jwalitptl/care-portal-api/pkg/httputil"
)

// Handler exposes the caller's session snapshot and lets clients ask the
// gate before rendering a restricted view
type Handler struct {
	gate *access.Gate
}

func NewHandler(gate *access.Gate) *Handler {
	return &Handler{gate: gate}
}

// RegisterRoutes mounts the session routes. The gate route accepts anonymous
// callers so they receive the login redirect instead of a 401.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, mw *middleware.AuthMiddleware) {
	sessions := r.Group("/session")
	sessions.GET("", mw.Authenticate(), h.Current)
	sessions.GET("/gate", mw.OptionalAuth(), h.Gate)
}

func (h *Handler) Current(c *gin.Context) {
	httputil.RespondWithSuccess(c, middleware.Session(c))
}

func (h *Handler) Gate(c *gin.Context) {
	role := model.Role(c.Query("role"))
	if role == "" {
		httputil.RespondWithError(c, apperrors.Validation("role is required"))
		return
	}
	httputil.RespondWithSuccess(c, h.gate.Evaluate(role, middleware.Session(c)))
}
