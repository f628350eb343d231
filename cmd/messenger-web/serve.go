package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/messenger-dev/messenger-web/internal/config"
)

func serveCmd(opts *globalOptions) *cobra.Command {
	var (
		host  string
		port  int
		quiet bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web app",
		Long: `Serve the Messenger web app.

Every GET request outside the reserved /_nav/ paths is resolved against
the route table. Matched routes get the page shell with the route's
title and view; unmatched ones get a 404 page with a suggestion.

Browser tabs navigate through the websocket at /_nav/ws. Deferred view
bundles are served from /_nav/views/.

Examples:
  messenger-web serve
  messenger-web serve --port 3000
  messenger-web serve -c deploy/messenger.yaml --log-format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, quiet)
		},
	}

	cmd.Flags().StringVar(&host, "host", config.DefaultHost, "Host to bind to")
	cmd.Flags().IntVarP(&port, "port", "p", config.DefaultPort, "Port to listen on")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Skip the startup banner")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, quiet bool) error {
	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}

	if !quiet {
		printBanner()
		success("Serving %d routes on http://%s%s", a.table.Len(), cfg.Address(), cfg.Server.BasePath)
		info("Views:   %s", cfg.Views.Source)
		if cfg.Metrics.Enabled {
			addr := cfg.Address()
			if cfg.Metrics.Address != "" {
				addr = cfg.Metrics.Address
			}
			path := "/metrics"
			if cfg.Metrics.Address == "" {
				path = cfg.Server.BasePath + "metrics"
			}
			info("Metrics: http://%s%s", addr, path)
		}
		if cfg.Tracing.Enabled {
			info("Tracing: %s", cfg.Tracing.TracerName)
		}
		if cfg.Server.Host != "localhost" && cfg.Server.Host != "127.0.0.1" && len(cfg.Server.AllowedOrigins) == 0 {
			warn("Listening on %q with same-origin sockets only", cfg.Server.Host)
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.server.Run(ctx)
}
