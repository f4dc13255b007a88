package application

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/care-portal-api/internal/handler"
	"github.com/jwalitptl/care-portal-api/internal/middleware"
	"github.com/jwalitptl/care-portal-api/internal/model"
	"github.com/jwalitptl/care-portal-api/internal/service/application"
	"github.com/jwalitptl/care-portal-api/pkg/httputil"
)

type Handler struct {
	svc application.ApplicationServicer
}

func NewHandler(svc application.ApplicationServicer) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the applicant routes on r and the review routes on admin
func (h *Handler) RegisterRoutes(r, admin *gin.RouterGroup, mw *middleware.AuthMiddleware) {
	apps := r.Group("/applications")
	{
		apps.POST("", mw.OptionalAuth(), h.Submit)
		apps.POST("/:id/resubmit", mw.Authenticate(), h.Resubmit)
	}

	review := admin.Group("/applications")
	{
		review.GET("", h.List)
		review.GET("/:id", h.Get)
		review.POST("/:id/review", h.Review)
		review.POST("/:id/approve", h.Approve)
	}
	admin.GET("/stats", h.Stats)
}

func (h *Handler) Submit(c *gin.Context) {
	var req model.SubmitApplicationRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	var applicantID *uuid.UUID
	if session := middleware.Session(c); session.Authenticated() {
		id := session.ActorID()
		applicantID = &id
	}

	app, err := h.svc.Submit(c.Request.Context(), &req, applicantID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, app)
}

func (h *Handler) Resubmit(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}
	var req model.ResubmitApplicationRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	app, err := h.svc.Resubmit(c.Request.Context(), id, &req, middleware.Session(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, app)
}

func (h *Handler) List(c *gin.Context) {
	filter := &model.ApplicationFilter{
		Status:       model.ApplicationStatus(c.Query("status")),
		ProviderType: model.ProviderType(c.Query("provider_type")),
		Pagination:   handler.Pagination(c),
	}

	apps, total, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithPagination(c, apps, filter.Pagination.Page, filter.Pagination.PageSize, total)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}
	app, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, app)
}

func (h *Handler) Review(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}
	var req model.ReviewApplicationRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	app, err := h.svc.Review(c.Request.Context(), id, &req, middleware.Session(c).ActorID())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, app)
}

// Approve approves the application and provisions its provider profile
func (h *Handler) Approve(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}
	profile, err := h.svc.ApproveAndProvision(c.Request.Context(), id, middleware.Session(c).ActorID())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, profile)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, stats)
}
