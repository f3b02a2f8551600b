package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/hamed0406/geocheck/internal/check"
	"github.com/hamed0406/geocheck/internal/domain"
	apimw "github.com/hamed0406/geocheck/internal/httpapi/middleware"
	"github.com/hamed0406/geocheck/internal/location"
	"github.com/hamed0406/geocheck/internal/metrics"
)

// Checks is the part of the orchestrator the API needs.
type Checks interface {
	RequestCheck(ctx context.Context, url, country, city string) (domain.CheckAttempt, error)
	Attempts(ctx context.Context) ([]domain.CheckAttempt, error)
	Get(ctx context.Context, id string) (domain.CheckAttempt, error)
	State() check.Session
	Locations() *location.Directory
	Subscribe(buffer int) (<-chan domain.CheckAttempt, func())
}

type Server struct {
	Logger   *zap.Logger
	Checks   Checks
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	validate *validator.Validate
}

func NewServer(l *zap.Logger, c Checks, m *metrics.Metrics, g prometheus.Gatherer) *Server {
	return &Server{Logger: l, Checks: c, Metrics: m, Gatherer: g, validate: validator.New()}
}

// RouterOptions tune the outer HTTP surface.
type RouterOptions struct {
	AllowedOrigins []string // empty allows any origin (local dev)
	PublicRPM      int      // requests per minute per client IP; 0 disables
	PublicBurst    int
}

func (s *Server) Router(opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(apimw.AccessLog(s.Logger))
	r.Use(apimw.Metrics(s.Metrics))
	r.Use(chimw.Recoverer)

	if len(opts.AllowedOrigins) == 0 {
		r.Use(cors.AllowAll().Handler)
	} else {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(s.Gatherer))
	}

	upgrader := newUpgrader(opts.AllowedOrigins)

	r.Route("/api", func(r chi.Router) {
		r.Use(apimw.RateLimit(opts.PublicRPM, opts.PublicBurst))

		r.Get("/locations", s.handleLocations)
		r.Get("/locations/{country}/cities", s.handleCities)
		r.Get("/state", s.handleState)

		r.Post("/checks", s.handleRequestCheck)
		r.Get("/checks", s.handleListChecks)
		r.Get("/checks/stream", s.handleStream(upgrader))
		r.Get("/checks/{id}", s.handleGetCheck)
	})

	return r
}
