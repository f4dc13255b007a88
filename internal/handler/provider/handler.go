package provider

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/care-portal-api/internal/handler"
	"github.com/jwalitptl/care-portal-api/internal/middleware"
	"github.com/jwalitptl/care-portal-api/internal/model"
	"github.com/jwalitptl/care-portal-api/internal/service/provider"
	apperrors "github.com/jwalitptl/care-portal-api/pkg/errors"
	"github.com/jwalitptl/care-portal-api/pkg/httputil"
)

var providerRoles = []model.Role{model.RoleDoctor, model.RolePharmacy, model.RoleDiagnostics, model.RoleAmbulance}

type Handler struct {
	svc provider.ProviderServicer
}

func NewHandler(svc provider.ProviderServicer) *Handler {
	return &Handler{svc: svc}
}

type verifyRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}

func (h *Handler) RegisterRoutes(r, admin *gin.RouterGroup, mw *middleware.AuthMiddleware) {
	r.GET("/providers/me", mw.Authenticate(), mw.RequireAnyRole(providerRoles...), h.Me)

	providers := admin.Group("/providers")
	{
		providers.GET("", h.List)
		providers.POST("/:id/verify", h.Verify)
	}
}

func (h *Handler) Me(c *gin.Context) {
	profile, err := h.svc.ForUser(c.Request.Context(), middleware.Session(c).ActorID())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, profile)
}

func (h *Handler) List(c *gin.Context) {
	filter := &model.ProviderFilter{ProviderType: model.ProviderType(c.Query("provider_type"))}
	if raw := c.Query("verified"); raw != "" {
		verified, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("verified must be true or false"))
			return
		}
		filter.Verified = &verified
	}

	profiles, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, profiles)
}

func (h *Handler) Verify(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}
	var req verifyRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	profile, err := h.svc.Verify(c.Request.Context(), id, *req.Verified, middleware.Session(c).ActorID())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, profile)
}
