package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/prefab-leads/internal/infra/http/handlers"
	"github.com/xavierca1/prefab-leads/internal/infra/http/middleware"
)

type Handlers struct {
	Health   *handlers.HealthHandler
	Products *handlers.ProductHandler
	Leads    *handlers.LeadHandler
	Admin    *handlers.AdminLeadHandler
}

type Options struct {
	CORSOrigins []string
	AccessLog   bool
}

func New(h Handlers, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if opts.AccessLog {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.Products.List)
		r.Get("/{id}", h.Products.Get)
	})

	r.Post("/leads", h.Leads.CaptureLead)

	r.Route("/admin/leads", func(r chi.Router) {
		r.Get("/", h.Admin.List)
		r.Get("/{id}", h.Admin.Get)
		r.Put("/{id}/status", h.Admin.UpdateStatus)
		r.Post("/{id}/notes", h.Admin.AddNote)
	})

	return r
}
