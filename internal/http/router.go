package http

import (
	"net/http"
	"time"

	"github.com/geocoder89/admindash/internal/auth"
	"github.com/geocoder89/admindash/internal/cache"
	"github.com/geocoder89/admindash/internal/config"
	"github.com/geocoder89/admindash/internal/domain/user"
	"github.com/geocoder89/admindash/internal/http/handlers"
	"github.com/geocoder89/admindash/internal/http/middlewares"
	"github.com/geocoder89/admindash/internal/observability"
	"github.com/geocoder89/admindash/internal/repo"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps are the collaborators built by the serve command. Everything but
// Stores is optional.
type Deps struct {
	Stores repo.Stores
	Cache  cache.Cache
	Ping   handlers.Pinger
	// ShuttingDown flips /readyz to 503 while the server drains.
	ShuttingDown func() bool

	Prom           *observability.Prom
	MetricsHandler http.Handler

	Tokens *auth.Manager
	Admin  handlers.Admin
}

func NewRouter(cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(gin.Recovery())
	if cfg.TracingEnabled() {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	h := handlers.NewHealthHandler(deps.Ping, deps.ShuttingDown)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	opts := handlers.Options{
		Cache:   deps.Cache,
		Timeout: cfg.StoreTimeout,
	}
	if deps.Prom != nil {
		opts.Metrics = deps.Prom
	}

	api := r.Group("/api")
	api.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	api.Use(middlewares.RequireJSON())

	protected := api.Group("")
	if cfg.AuthEnabled() && deps.Tokens != nil {
		authHandler := handlers.NewAuthHandler(deps.Tokens, deps.Admin, deps.Stores.Users, opts)
		loginLimiter := middlewares.NewRateLimiter(10, time.Minute)
		api.POST("/auth/login", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Login)

		authMw := middlewares.NewAuthMiddleware(deps.Tokens)
		protected.Use(authMw.RequireAuth(), authMw.RequireRole(user.RoleAdmin))
	}

	handlers.NewResourceHandler(handlers.UserResource(), deps.Stores.Users, opts).Register(protected.Group("/users"))
	handlers.NewResourceHandler(handlers.PlanResource(), deps.Stores.Plans, opts).Register(protected.Group("/plans"))
	handlers.NewResourceHandler(handlers.PaymentResource(), deps.Stores.Payments, opts).Register(protected.Group("/payments"))
	handlers.NewResourceHandler(handlers.TemplateResource(), deps.Stores.Templates, opts).Register(protected.Group("/templates"))
	handlers.NewResourceHandler(handlers.SupportResource(), deps.Stores.Support, opts).Register(protected.Group("/support"))
	handlers.NewResourceHandler(handlers.FAQResource(), deps.Stores.FAQs, opts).Register(protected.Group("/faqs"))
	handlers.NewSettingsHandler(deps.Stores.Settings, opts).Register(protected.Group("/settings"))

	r.NoRoute(func(ctx *gin.Context) {
		handlers.RespondNotFound(ctx, "Route not found")
	})

	return r
}
