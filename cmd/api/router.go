package main

import (
	"database/sql"
	"net/http"

	"github.com/crucial707/hrms/internal/auth"
	"github.com/crucial707/hrms/internal/config"
	"github.com/crucial707/hrms/internal/handlers"
	"github.com/crucial707/hrms/internal/middleware"
	"github.com/crucial707/hrms/internal/repo"
	"github.com/crucial707/hrms/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// services bundles what newRouter wires into handlers. The audit service is
// shared with the retention scheduler.
type services struct {
	Tokens    *auth.TokenManager
	Auth      *service.AuthService
	Employees *service.EmployeeService
	Teams     *service.TeamService
	Audit     *service.AuditService
}

func newServices(store *repo.Store, cfg config.Config, logger zerolog.Logger) services {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL(), cfg.JWTIssuer)
	return services{
		Tokens:    tokens,
		Auth:      service.NewAuthService(store, tokens, logger),
		Employees: service.NewEmployeeService(store, logger),
		Teams:     service.NewTeamService(store, logger),
		Audit:     service.NewAuditService(store, logger),
	}
}

func newRouter(db *sql.DB, cfg config.Config, logger zerolog.Logger) http.Handler {
	store := repo.NewStore(db)
	return buildRouter(store, newServices(store, cfg, logger), cfg, logger)
}

func buildRouter(store *repo.Store, svc services, cfg config.Config, logger zerolog.Logger) http.Handler {
	tokens := svc.Tokens

	authH := &handlers.AuthHandler{Service: svc.Auth}
	employeeH := &handlers.EmployeeHandler{Service: svc.Employees}
	teamH := &handlers.TeamHandler{Service: svc.Teams}
	auditH := &handlers.AuditHandler{Service: svc.Audit}
	healthH := &handlers.HealthHandler{DB: store}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	r.Get("/health", healthH.Live)
	r.Get("/ready", healthH.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthH.Live)

		limiter := middleware.NewAuthRateLimiter(cfg.AuthRatePerMinute, cfg.AuthRateBurst)
		r.Route("/auth", func(r chi.Router) {
			r.With(limiter.Middleware).Post("/register", authH.Register)
			r.With(limiter.Middleware).Post("/login", authH.Login)
			r.With(middleware.Authenticate(tokens)).Post("/logout", authH.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(tokens))

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", employeeH.List)
				r.Post("/", employeeH.Create)
				r.Get("/{id}", employeeH.Get)
				r.Put("/{id}", employeeH.Update)
				r.Delete("/{id}", employeeH.Delete)
				r.Get("/{id}/teams", employeeH.Teams)
				r.Put("/{id}/teams", employeeH.AssignTeams)
			})

			r.Route("/teams", func(r chi.Router) {
				r.Get("/", teamH.List)
				r.Post("/", teamH.Create)
				r.Get("/{id}", teamH.Get)
				r.Put("/{id}", teamH.Update)
				r.Delete("/{id}", teamH.Delete)
			})

			r.Route("/logs", func(r chi.Router) {
				r.Get("/", auditH.List)
				r.Get("/stats", auditH.Stats)
				r.Delete("/clear", auditH.Clear)
				r.Delete("/clear-old", auditH.ClearOld)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.JSONError(w, "Route not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.JSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	return r
}
