// Package server wires the HTTP routes of the prediction learning service.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	adminhandlers "betlearning/handlers/admin"
	"betlearning/handlers/insights"
	"betlearning/handlers/predictions"
	"betlearning/handlers/verification"
	"betlearning/learning"
	"betlearning/middleware"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

// Service is everything the routes need from the learning service
type Service interface {
	predictions.Store
	verification.Verifier
	insights.Store
	adminhandlers.SnapshotStore
}

// Options configures the router
type Options struct {
	Service         Service
	Provider        verification.ResultsProvider
	WriteAPIKeyHash string
	AdminJWTSecret  string
	RateLimiter     *middleware.RateLimiter
	AllowedOrigins  []string
}

// NewRouter builds the full handler chain: CORS, request logging, rate
// limiting and then the routes.
func NewRouter(opts Options) http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	requireKey := middleware.RequireAPIKey(opts.WriteAPIKeyHash)
	write := func(h http.HandlerFunc) http.Handler { return requireKey(h) }

	p := router.PathPrefix("/predictions").Subrouter()
	p.Handle("/save", write(predictions.SavePredictionHandler(opts.Service))).Methods(http.MethodPost)
	p.Handle("/verify/{id:[0-9]+}", write(verification.VerifyPredictionHandler(opts.Service))).Methods(http.MethodPost)
	p.Handle("/verify-fixture/{fixture_id:[0-9]+}", write(verification.VerifyFixtureHandler(opts.Service))).Methods(http.MethodPost)
	if opts.Provider != nil {
		p.Handle("/verify-fixture/{fixture_id:[0-9]+}/auto",
			write(verification.AutoVerifyFixtureHandler(opts.Service, opts.Provider))).Methods(http.MethodPost)
	}
	p.HandleFunc("/metrics", predictions.MetricsHandler(opts.Service)).Methods(http.MethodGet)
	p.HandleFunc("/dashboard", predictions.DashboardHandler(opts.Service)).Methods(http.MethodGet)
	p.HandleFunc("/list", predictions.ListPredictionsHandler(opts.Service)).Methods(http.MethodGet)
	p.HandleFunc("/insights", insights.ListInsightsHandler(opts.Service)).Methods(http.MethodGet)
	p.Handle("/insights", write(insights.CreateInsightHandler(opts.Service))).Methods(http.MethodPost)
	// Registered last so the literal paths above win
	p.HandleFunc("/{id:[0-9]+}", predictions.GetPredictionHandler(opts.Service)).Methods(http.MethodGet)

	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdminJWT(opts.AdminJWTSecret))
	admin.HandleFunc("/snapshots", adminhandlers.CreateSnapshotHandler(opts.Service)).Methods(http.MethodPost)
	admin.HandleFunc("/snapshots", adminhandlers.ListSnapshotsHandler(opts.Service)).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, &middleware.HTTPError{StatusCode: http.StatusNotFound, Message: "route not found"})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, &middleware.HTTPError{StatusCode: http.StatusMethodNotAllowed, Message: "method not allowed"})
	})

	var handler http.Handler = router
	if opts.RateLimiter != nil {
		handler = opts.RateLimiter.Middleware(handler)
	}
	handler = middleware.RequestLogger(handler)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", middleware.APIKeyHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, "Retry-After"},
	})
	return c.Handler(handler)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

// Server owns the http.Server and its shutdown
type Server struct {
	httpServer *http.Server
}

func New(addr string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Start blocks serving requests until Shutdown is called
func (s *Server) Start() error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, giving up after timeout
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

var _ Service = (*learning.Service)(nil)
