package profile

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/care-portal-api/internal/handler"
	"github.com/jwalitptl/care-portal-api/internal/middleware"
	"github.com/jwalitptl/care-portal-api/internal/model"
	"github.com/jwalitptl/care-portal-api/internal/service/profile"
	"github.com/jwalitptl/care-portal-api/pkg/httputil"
)

type Handler struct {
	svc profile.ProfileServicer
}

func NewHandler(svc profile.ProfileServicer) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(authed, admin *gin.RouterGroup) {
	me := authed.Group("/profiles/me")
	{
		me.GET("", h.Me)
		me.PUT("/plan", h.ChangePlan)
	}
	admin.PUT("/profiles/:id/role", h.ChangeRole)
}

func (h *Handler) Me(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), middleware.Session(c).ActorID())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) ChangePlan(c *gin.Context) {
	var req model.ChangePlanRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	p, err := h.svc.ChangePlan(c.Request.Context(), middleware.Session(c), req.PlanTier)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) ChangeRole(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}
	var req model.ChangeRoleRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	p, err := h.svc.ChangeRole(c.Request.Context(), middleware.Session(c).ActorID(), id, req.Role)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}
