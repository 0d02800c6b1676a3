package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/1cFE/1costingfe/pkg/costerr"
	"github.com/1cFE/1costingfe/pkg/model"
)

// Options configures a Server.
type Options struct {
	Port         int
	Logger       *zap.Logger
	ModelOptions []model.Option
	Workers      int // concurrent evaluations for compare and sweep; 0 uses GOMAXPROCS
}

// Server is the HTTP JSON API over the costing pipeline.
type Server struct {
	port      int
	log       *zap.Logger
	modelOpts []model.Option
	workers   int
	router    *chi.Mux
	registry  *prometheus.Registry
	metrics   *metrics
}

// New creates a server. Routes are registered immediately so Handler can
// be served without Start.
func New(o Options) *Server {
	log := o.Logger
	if log == nil {
		log = zap.NewNop()
	}
	reg := prometheus.NewRegistry()
	s := &Server{
		port:      o.Port,
		log:       log,
		modelOpts: o.ModelOptions,
		workers:   o.Workers,
		router:    chi.NewRouter(),
		registry:  reg,
		metrics:   newMetrics(reg),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.instrument)
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/concepts", s.handleConcepts)
		r.Get("/defaults/{concept}/{fuel}", s.handleDefaults)
		r.Post("/forward", s.handleForward)
		r.Post("/sensitivity", s.handleSensitivity)
		r.Post("/backcast", s.handleBackcast)
		r.Post("/compare", s.handleCompare)
		r.Post("/sweep", s.handleSweep)
	})
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info("server starting", zap.String("addr", "http://localhost"+srv.Addr))

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("server stopping")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// instrument records request counts and latency by route pattern and logs
// each request.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		elapsed := time.Since(start)
		s.metrics.observeRequest(route, r.Method, ww.Status(), elapsed)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", elapsed),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>costingfe</title></head>
<body style="margin:0;background:#111;color:#fff;font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh">
<div style="text-align:center">
<h1>costingfe</h1>
<p>Fusion plant LCOE API. POST a scenario to <code>/api/forward</code>.</p>
</div>
</body></html>`)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// envelope wraps every API result with a run identifier.
type envelope struct {
	RunID  string `json:"run_id"`
	Result any    `json:"result"`
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Param string `json:"param,omitempty"`
}

func writeResult(w http.ResponseWriter, result any) {
	writeJSON(w, http.StatusOK, envelope{RunID: uuid.NewString(), Result: result})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps input errors to 400 and infeasible designs to 422.
func writeError(w http.ResponseWriter, err error) {
	body := errorBody{Error: err.Error(), Kind: string(costerr.KindOf(err))}
	var ce *costerr.Error
	if errors.As(err, &ce) {
		body.Param = ce.Param
	}
	status := http.StatusInternalServerError
	switch {
	case costerr.IsInput(err):
		status = http.StatusBadRequest
	case costerr.IsInfeasible(err):
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, body)
}
