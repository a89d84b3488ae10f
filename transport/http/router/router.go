package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"pxltravel/config"
	"pxltravel/infras/metrics"
	"pxltravel/internal/handlers/auth"
	"pxltravel/internal/handlers/booking"
	"pxltravel/internal/handlers/inventory"
	"pxltravel/internal/handlers/user"
	"pxltravel/transport/http/middleware"
)

type DomainHandlers struct {
	Auth      auth.Handler
	Booking   booking.Handler
	Inventory inventory.Handler
	User      user.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	config         *config.Config
	app            middleware.AppMiddleware
	auth           middleware.AuthRole
}

func New(domainHandlers DomainHandlers, cfg *config.Config, app middleware.AppMiddleware, auth middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		config:         cfg,
		app:            app,
		auth:           auth,
	}
}

// SetupRoutes mounts the versioned API, /metrics and /swagger on router.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)
	router.Use(r.app.Tracing)

	if r.config.App.CORS.Enable {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   r.config.App.CORS.AllowedOrigins,
			AllowedMethods:   r.config.App.CORS.AllowedMethods,
			AllowedHeaders:   r.config.App.CORS.AllowedHeaders,
			AllowCredentials: r.config.App.CORS.AllowCredentials,
			MaxAge:           r.config.App.CORS.MaxAgeSeconds,
		}))
	}

	router.Method(http.MethodGet, "/metrics", metrics.Handler())
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.app.RateLimit())
		routerGroup.Use(chiMiddleware.Timeout(time.Minute))
		routerGroup.Use(r.auth.Auth)
		routerGroup.Use(r.auth.RBAC)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Inventory.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
	})
}
