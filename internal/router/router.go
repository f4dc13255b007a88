package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/care-portal-api/internal/handler/application"
	"github.com/jwalitptl/care-portal-api/internal/handler/auth"
	"github.com/jwalitptl/care-portal-api/internal/handler/cart"
	"github.com/jwalitptl/care-portal-api/internal/handler/health"
	"github.com/jwalitptl/care-portal-api/internal/handler/profile"
	"github.com/jwalitptl/care-portal-api/internal/handler/prometheus"
	"github.com/jwalitptl/care-portal-api/internal/handler/provider"
	"github.com/jwalitptl/care-portal-api/internal/handler/session"
	"github.com/jwalitptl/care-portal-api/internal/middleware"
	"github.com/jwalitptl/care-portal-api/internal/model"
	"github.com/jwalitptl/care-portal-api/pkg/metrics"
)

type Handlers struct {
	Auth        *auth.Handler
	Application *application.Handler
	Provider    *provider.Handler
	Profile     *profile.Handler
	Cart        *cart.Handler
	Session     *session.Handler
	Health      *health.Handler
	Metrics     *prometheus.Handler
}

type RouterConfig struct {
	Mode        string
	RateLimit   rate.Limit
	RateBurst   int
	RateEnabled bool
	CORSConfig  middleware.CORSConfig
	MaxBodySize int64
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
	metrics  *metrics.Metrics
}

func NewRouter(auth *middleware.AuthMiddleware, handlers Handlers, m *metrics.Metrics, config RouterConfig) *Router {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}
	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
		metrics:  m,
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		r.metricsMiddleware(),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.CORS(config.CORSConfig),
		middleware.ClientInfo(),
		middleware.SizeLimit(config.MaxBodySize),
		middleware.Validation(),
	)

	if config.RateEnabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(limiter.RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	r.handlers.Health.RegisterRoutes(r.engine)
	r.handlers.Metrics.RegisterRoutes(r.engine)

	api := r.engine.Group("/api/v1")

	authed := api.Group("")
	authed.Use(r.auth.Authenticate())

	admin := api.Group("/admin")
	admin.Use(r.auth.Authenticate(), r.auth.RequireRole(model.RoleAdmin))

	r.handlers.Auth.RegisterRoutes(api, r.auth)
	r.handlers.Application.RegisterRoutes(api, admin, r.auth)
	r.handlers.Provider.RegisterRoutes(api, admin, r.auth)
	r.handlers.Profile.RegisterRoutes(authed, admin)
	r.handlers.Cart.RegisterRoutes(authed, r.auth)
	r.handlers.Session.RegisterRoutes(api, r.auth)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		r.metrics.HTTPRequests.WithLabelValues(c.Request.Method, path, status).Inc()
		r.metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
