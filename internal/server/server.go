// Package server serves the dashboard pages over HTTP.
package server

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gcdash/gcdash/internal/config"
	"github.com/gcdash/gcdash/internal/reload"
	"github.com/gcdash/gcdash/pkg/errors"
	"github.com/gcdash/gcdash/pkg/fonts"
	"github.com/gcdash/gcdash/pkg/observability"
	"github.com/gcdash/gcdash/pkg/pages"
	"github.com/gcdash/gcdash/pkg/render"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server. Config and Embedder are required.
type Options struct {
	Config   *config.Config
	Embedder *fonts.Embedder
	Pages    *pages.Registry
	Logger   *log.Logger
}

// Server renders registered pages. Each request builds its page, embeds the
// font and renders the document independently.
type Server struct {
	cfg      *config.Config
	embedder *fonts.Embedder
	pages    *pages.Registry
	logger   *log.Logger
	renderer *render.Renderer

	registry *prometheus.Registry
	metrics  *Metrics
	hub      *reload.Hub
	router   chi.Router
}

// New builds the server and registers its metrics as the process-wide
// observability hooks.
func New(opts Options) (*Server, error) {
	if opts.Config == nil || opts.Embedder == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "server needs a config and a font embedder")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	renderer, err := render.New()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      opts.Config,
		embedder: opts.Embedder,
		pages:    opts.Pages,
		logger:   opts.Logger,
		renderer: renderer,
		registry: prometheus.NewRegistry(),
	}
	if s.pages == nil {
		s.pages = pages.Default()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}

	s.metrics = NewMetrics(s.registry)
	observability.SetRenderHooks(s.metrics)
	observability.SetCacheHooks(s.metrics)

	if s.cfg.Dev {
		s.hub = reload.NewHub(s.logger)
		s.hub.OnClients = s.metrics.SetReloadClients
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(logRequests(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)

	r.Get("/healthz", s.handleHealth)
	if s.hub != nil {
		r.Handle(render.DefaultReloadPath, s.hub)
	}
	r.Get("/", s.handlePage)
	r.Get("/{slug}", s.handlePage)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no route for %s", r.URL.Path))
	})
	s.router = r
}

// Handler returns the HTTP handler for the dashboard.
func (s *Server) Handler() http.Handler {
	return s.router
}

// MetricsHandler returns the Prometheus scrape handler.
func (s *Server) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}

// Hub returns the live reload hub, or nil outside dev mode.
func (s *Server) Hub() *reload.Hub {
	return s.hub
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	ctx := r.Context()

	in := pages.Input{Values: make(map[string]string)}
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			in.Values[k] = v[0]
		}
	}

	p, err := s.pages.Build(slug, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	style, err := s.embedder.BuildFontStyle(ctx)
	if err != nil {
		s.metrics.renderResult(p.Path(), err)
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	err = s.renderer.Document(ctx, &buf, render.Doc{
		Page:       p,
		Style:      style,
		Nav:        s.pages.Nav(p.Slug),
		LiveReload: s.hub != nil,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := s.embedder.Embed(r.Context()); err != nil {
		s.logger.Error("health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("font resource unavailable\n"))
		return
	}
	_, _ = w.Write([]byte("ok\n"))
}

// Run serves until ctx is done, then shuts down gracefully. In dev mode it
// also watches assets and pushes reloads to open pages.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "listen on %s", s.cfg.ListenAddr)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	servers := []*http.Server{{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}}
	listeners := []net.Listener{ln}

	if s.cfg.MetricsAddr != "" {
		mln, err := net.Listen("tcp", s.cfg.MetricsAddr)
		if err != nil {
			ln.Close()
			return errors.Wrap(errors.ErrCodeInternal, err, "listen on %s", s.cfg.MetricsAddr)
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", s.MetricsHandler())
		servers = append(servers, &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second})
		listeners = append(listeners, mln)
		s.logger.Info("metrics enabled", "addr", mln.Addr().String())
	}

	errc := make(chan error, len(servers))
	for i, srv := range servers {
		go func() {
			if err := srv.Serve(listeners[i]); err != nil && err != http.ErrServerClosed {
				errc <- err
			}
		}()
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	if s.hub != nil {
		go s.watch(watchCtx)
	}

	s.logger.Info("serving dashboard", "addr", ln.Addr().String(), "dev", s.cfg.Dev)

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-errc:
		runErr = errors.Wrap(errors.ErrCodeInternal, err, "serve")
	}

	stopWatch()
	if s.hub != nil {
		s.hub.Close()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil && runErr == nil {
			runErr = errors.Wrap(errors.ErrCodeInternal, err, "shutdown")
		}
	}
	s.logger.Info("server stopped")
	return runErr
}

// clearer is implemented by caches that can drop every entry.
type clearer interface {
	Clear(ctx context.Context) (int, error)
}

func (s *Server) watch(ctx context.Context) {
	w := &reload.Watcher{Paths: s.cfg.WatchPaths(), Logger: s.logger}
	w.OnChange(func(ctx context.Context, changed []string) {
		c, ok := s.embedder.Cache.(clearer)
		if !ok {
			return
		}
		if n, err := c.Clear(ctx); err != nil {
			s.logger.Warn("style cache invalidation failed", "error", err)
		} else if n > 0 {
			s.logger.Debug("style cache invalidated", "entries", n)
		}
	})
	w.OnChange(func(context.Context, []string) {
		s.hub.Reload()
	})
	if err := w.Run(ctx); err != nil {
		s.logger.Warn("hot reload disabled", "error", err)
	}
}
