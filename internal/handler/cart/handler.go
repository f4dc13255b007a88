package cart

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/care-portal-api/internal/handler"
	"github.com/jwalitptl/care-portal-api/internal/middleware"
	"github.com/jwalitptl/care-portal-api/internal/model"
	"github.com/jwalitptl/care-portal-api/internal/service/cart"
	"github.com/jwalitptl/care-portal-api/pkg/httputil"
)

type Handler struct {
	svc cart.CartServicer
}

func NewHandler(svc cart.CartServicer) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(authed *gin.RouterGroup, mw *middleware.AuthMiddleware) {
	authed.GET("/medicines", h.Medicines)
	authed.POST("/cart/quote", mw.RequireRole(model.RolePatient), h.Quote)
}

func (h *Handler) Medicines(c *gin.Context) {
	medicines, err := h.svc.Medicines(c.Request.Context(), c.Query("search"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, medicines)
}

// Quote prices the cart at the caller's plan tier
func (h *Handler) Quote(c *gin.Context) {
	var req model.QuoteRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	quote, err := h.svc.Quote(c.Request.Context(), &req, middleware.Session(c).PlanTier())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, quote)
}
