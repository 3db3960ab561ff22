package rest

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/church-management/internal/approval"
	"github.com/frahmantamala/church-management/internal/auth"
	"github.com/frahmantamala/church-management/internal/catalog"
	"github.com/frahmantamala/church-management/internal/document"
	"github.com/frahmantamala/church-management/internal/transport/middleware"
	"github.com/frahmantamala/church-management/internal/transport/swagger"
	"github.com/frahmantamala/church-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

type Handlers struct {
	Auth     *auth.Handler
	User     *user.Handler
	Approval *approval.Handler
	Catalog  *catalog.Handler
	Document *document.Handler
}

type Options struct {
	AllowedOrigins string
	RequestTimeout time.Duration
	// AuthLimiter throttles the credential endpoints. Nil disables it.
	AuthLimiter *middleware.RateLimiter
	// Metrics instruments every route. Nil disables it.
	Metrics *middleware.HTTPMetrics
	// MetricsPath and MetricsHandler expose the scrape endpoint when both are set.
	MetricsPath    string
	MetricsHandler http.Handler
	OpenAPI        []byte
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, opts Options, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)
	rbac := auth.NewRBACAuthorization(logger)

	router.Use(middleware.NewCORS(opts.AllowedOrigins).Handler)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Handler)
	}
	router.Use(chiMiddleware.StripSlashes)

	if len(opts.OpenAPI) > 0 {
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write(opts.OpenAPI)
		})
		router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))
	}
	if opts.MetricsPath != "" && opts.MetricsHandler != nil {
		router.Handle(opts.MetricsPath, opts.MetricsHandler)
	}

	throttle := func(next http.Handler) http.Handler {
		if opts.AuthLimiter == nil {
			return next
		}
		return opts.AuthLimiter.Handler(next)
	}

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(opts.RequestTimeout))

		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.With(throttle).Post("/auth/register", h.User.Register)
		r.With(throttle).Post("/token", h.Auth.Login)
		r.With(throttle).Post("/token/refresh", h.Auth.RefreshToken)

		r.Get("/configuracao", h.Catalog.SiteConfig)
		r.Get("/devocionais", h.Catalog.Devotionals)
		r.Get("/devocionais/recente", h.Catalog.LatestDevotional)
		r.Get("/lideranca", h.Catalog.Leadership)
		r.Get("/departamentos", h.Catalog.Departments)
		r.Get("/agenda", h.Catalog.Agenda)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/users/me", h.User.GetMe)
			pr.Put("/users/me", h.User.UpdateMe)
			pr.Patch("/users/me", h.User.UpdateMe)

			pr.Post("/documentos/gerar-carta-convite", h.Document.InvitationLetter)
			pr.Post("/documentos/gerar-certificado-batismo", h.Document.BaptismCertificate)

			// Non-superusers get an empty list here rather than a 403.
			pr.Get("/superusers/users-available", h.Approval.PromotionCandidates)

			pr.Group(func(sr chi.Router) {
				sr.Use(rbac.RequireSuperuser())
				sr.Get("/superusers", h.Approval.ListSuperusers)
				sr.Post("/superusers", h.Approval.Promote)
				sr.Delete("/superusers/{id}/demote", h.Approval.Demote)
			})

			pr.Route("/admin", func(ar chi.Router) {
				ar.Use(rbac.RequireSecretary())

				ar.Get("/users", h.User.AdminList)
				ar.Post("/users", h.User.AdminCreate)
				ar.Get("/users/{id}", h.User.AdminGet)
				ar.Put("/users/{id}", h.User.AdminUpdate)
				ar.Patch("/users/{id}", h.User.AdminUpdate)
				ar.Delete("/users/{id}", h.User.AdminDelete)

				ar.Get("/pending-users", h.Approval.ListPending)
				ar.Post("/users/{id}/approve", h.Approval.Approve)
				ar.Delete("/users/{id}/reject", h.Approval.Reject)

				ar.Get("/dashboard", h.User.Dashboard)
			})
		})
	})
}
