package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/passkeep/passkeep-go/internal/middleware"
	"github.com/passkeep/passkeep-go/internal/repository"
	"github.com/passkeep/passkeep-go/internal/service"
)

// RouterConfig carries the dependencies of the API router.
type RouterConfig struct {
	Tiers          *repository.Tiers
	Backend        service.SimulatedBackend
	SessionSecret  string
	SessionTTL     time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter builds the API routes.
func NewRouter(cfg RouterConfig) http.Handler {
	genHandler := NewGeneratorHandler(service.NewGeneratorService())
	servicesHandler := NewServicesHandler(service.NewVaultService(cfg.Backend), cfg.Tiers)

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

		r.Post("/generate", genHandler.HandleGenerate)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(cfg.SessionSecret, cfg.SessionTTL))
			r.Get("/services", servicesHandler.HandleList)
			r.Post("/services", servicesHandler.HandleCreate)
			r.Put("/services/{name}", servicesHandler.HandleUpdate)
			r.Delete("/services/{name}", servicesHandler.HandleDelete)
		})
	})

	return r
}
