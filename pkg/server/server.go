package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/messenger-dev/messenger-web/internal/locale"
	"github.com/messenger-dev/messenger-web/pkg/middleware"
	"github.com/messenger-dev/messenger-web/pkg/render"
	"github.com/messenger-dev/messenger-web/pkg/router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// Server is the HTTP host of the Messenger navigation table.
type Server struct {
	config   *Config
	table    *router.Table
	renderer *render.Renderer
	catalog  *locale.Catalog
	guards   []router.Guard
	metrics  *middleware.Metrics
	gatherer prometheus.Gatherer
	logger   *slog.Logger

	upgrader websocket.Upgrader
	handler  http.Handler

	mu      sync.Mutex
	sockets map[*socket]struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithRenderer sets the page shell renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(s *Server) {
		s.renderer = r
	}
}

// WithCatalog sets the message catalog used for not-found pages.
func WithCatalog(c *locale.Catalog) Option {
	return func(s *Server) {
		s.catalog = c
	}
}

// WithGuards installs guards on every navigation session.
func WithGuards(guards ...router.Guard) Option {
	return func(s *Server) {
		s.guards = append(s.guards, guards...)
	}
}

// WithMetrics records navigations with m and exposes g on the metrics
// listener. m is also installed as the outermost guard.
func WithMetrics(m *middleware.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a server for table.
func New(table *router.Table, config *Config, opts ...Option) (*Server, error) {
	if table == nil {
		return nil, errors.New("server: nil route table")
	}
	if config == nil {
		config = DefaultConfig()
	}

	s := &Server{
		config:  config.withDefaults(),
		table:   table,
		logger:  slog.Default().With("component", "server"),
		sockets: make(map[*socket]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.renderer == nil {
		s.renderer = render.NewRenderer(render.Config{Lang: s.config.Lang, BasePath: s.config.BasePath})
	}
	if s.catalog == nil {
		c, err := locale.New(s.config.Lang)
		if err != nil {
			return nil, err
		}
		s.catalog = c
	}
	if s.metrics != nil {
		s.guards = append([]router.Guard{s.metrics}, s.guards...)
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.config.CheckOrigin,
	}
	s.handler = s.routes()
	return s, nil
}

// Config returns the effective configuration.
func (s *Server) Config() *Config {
	return s.config
}

// Table returns the route table.
func (s *Server) Table() *router.Table {
	return s.table
}

// Logger returns the server logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// newRouter starts a navigation session.
func (s *Server) newRouter(logger *slog.Logger) *router.Router {
	return router.New(s.table,
		router.WithDefaultTitle(s.config.DefaultTitle),
		router.WithGuards(s.guards...),
		router.WithLogger(logger),
	)
}

// Sockets returns the number of open navigation sockets.
func (s *Server) Sockets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sockets)
}

// Run listens on the configured addresses and serves until ctx is
// canceled or a listener fails.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", s.config.Address, err)
	}

	var metricsLn net.Listener
	if s.config.MetricsAddress != "" && s.gatherer != nil {
		metricsLn, err = net.Listen("tcp", s.config.MetricsAddress)
		if err != nil {
			ln.Close()
			return fmt.Errorf("server: listen %s: %w", s.config.MetricsAddress, err)
		}
	}

	return s.Serve(ctx, ln, metricsLn)
}

// Serve serves on ln, and /metrics on metricsLn when it is not nil, until
// ctx is canceled. It then closes open sockets and waits up to
// ShutdownTimeout for in-flight requests.
func (s *Server) Serve(ctx context.Context, ln, metricsLn net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	servers := []*http.Server{s.httpServer(s.handler)}
	listeners := []net.Listener{ln}
	if metricsLn != nil {
		servers = append(servers, s.httpServer(s.metricsHandler()))
		listeners = append(listeners, metricsLn)
	}

	for i, srv := range servers {
		srv, l := srv, listeners[i]
		g.Go(func() error {
			s.logger.Info("server starting", "address", l.Addr().String())
			if err := srv.Serve(l); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ShutdownTimeout)
		defer cancel()

		s.closeSockets()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("shutdown error", "error", err)
				errs = append(errs, err)
			}
		}
		if len(errs) == 0 {
			s.logger.Info("server shutdown complete")
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

func (s *Server) httpServer(h http.Handler) *http.Server {
	return &http.Server{
		Handler:           h,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
}

func (s *Server) metricsHandler() http.Handler {
	r := chi.NewRouter()
	r.Handle(MetricsPath, s.promHandler())
	return r
}

func (s *Server) promHandler() http.Handler {
	g := s.gatherer
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{
		ErrorLog: slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	})
}
