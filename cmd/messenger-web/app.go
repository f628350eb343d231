package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/messenger-dev/messenger-web/internal/config"
	"github.com/messenger-dev/messenger-web/internal/locale"
	"github.com/messenger-dev/messenger-web/internal/routes"
	"github.com/messenger-dev/messenger-web/pkg/middleware"
	"github.com/messenger-dev/messenger-web/pkg/render"
	"github.com/messenger-dev/messenger-web/pkg/router"
	"github.com/messenger-dev/messenger-web/pkg/server"
	"github.com/messenger-dev/messenger-web/pkg/viewsrc"
)

// viewSource builds the deferred view source selected by cfg.
func viewSource(cfg *config.Config) viewsrc.Source {
	switch cfg.Views.Source {
	case config.SourceDir:
		return viewsrc.Dir(os.DirFS(cfg.ViewsDir()))
	case config.SourceS3:
		s3cfg := cfg.Views.S3
		client := viewsrc.NewS3Client(viewsrc.S3Options{
			Region:          s3cfg.Region,
			Endpoint:        s3cfg.Endpoint,
			UsePathStyle:    s3cfg.UsePathStyle,
			AccessKeyID:     s3cfg.AccessKeyID,
			SecretAccessKey: s3cfg.SecretAccessKey,
		})
		return viewsrc.S3(client, s3cfg.Bucket, s3cfg.Prefix)
	default:
		return viewsrc.None()
	}
}

// app is everything serve needs, built from a validated config.
type app struct {
	table    *router.Table
	server   *server.Server
	registry *prometheus.Registry
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{}

	var (
		tableOpts  = []routes.Option{routes.WithSource(viewSource(cfg)), routes.WithLogger(logger.With("component", "routes"))}
		serverOpts []server.Option
		guards     []router.Guard
	)

	if cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m := middleware.Prometheus(
			middleware.WithRegistry(a.registry),
			middleware.WithNamespace(cfg.Metrics.Namespace),
			middleware.WithConstLabels(prometheus.Labels{"app": cfg.Name}),
		)
		tableOpts = append(tableOpts, routes.WithLoaderWrap(m.InstrumentLoader))
		serverOpts = append(serverOpts, server.WithMetrics(m, a.registry))
	}
	if cfg.Tracing.Enabled {
		guards = append(guards, middleware.OpenTelemetry(middleware.WithTracerName(cfg.Tracing.TracerName)))
	}
	guards = append(guards, middleware.Logging(logger.With("component", "navigation")))

	table, err := routes.Table(tableOpts...)
	if err != nil {
		return nil, err
	}
	a.table = table

	catalog, err := locale.New(cfg.Lang)
	if err != nil {
		return nil, err
	}

	t := cfg.Timeouts()
	srvCfg := &server.Config{
		Address:           cfg.Address(),
		MetricsAddress:    cfg.Metrics.Address,
		BasePath:          cfg.Server.BasePath,
		ReadHeaderTimeout: t.ReadHeader,
		ReadTimeout:       t.Read,
		WriteTimeout:      t.Write,
		IdleTimeout:       t.Idle,
		ShutdownTimeout:   t.Shutdown,
		StaticDir:         cfg.StaticDir(),
		StaticPrefix:      cfg.Static.Prefix,
		DefaultTitle:      cfg.Title,
		Lang:              cfg.Lang,
	}
	if len(cfg.Server.AllowedOrigins) > 0 {
		srvCfg.CheckOrigin = server.AllowOrigins(cfg.Server.AllowedOrigins...)
	}

	serverOpts = append(serverOpts,
		server.WithGuards(guards...),
		server.WithCatalog(catalog),
		server.WithLogger(logger.With("component", "server")),
		server.WithRenderer(render.NewRenderer(render.Config{
			ClientScript: cfg.Static.Prefix + "app.js",
			StyleSheets:  []string{cfg.Static.Prefix + "app.css"},
			Lang:         cfg.Lang,
			BasePath:     cfg.Server.BasePath,
		})),
	)

	a.server, err = server.New(table, srvCfg, serverOpts...)
	if err != nil {
		return nil, fmt.Errorf("create server: %w", err)
	}
	return a, nil
}
