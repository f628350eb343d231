package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/messenger-dev/messenger-web/internal/routes"
	"github.com/messenger-dev/messenger-web/pkg/router"
)

func resolveCmd(opts *globalOptions) *cobra.Command {
	var load bool

	cmd := &cobra.Command{
		Use:   "resolve <path>",
		Short: "Resolve a path against the route table",
		Long: `Navigate to a path the way a browser tab would and print the
matched route, the view it mounts and the resulting document title.

Examples:
  messenger-web resolve /
  messenger-web resolve /dashboard --load`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			table, err := routes.Table(routes.WithSource(viewSource(cfg)))
			if err != nil {
				return err
			}

			r := router.New(table, router.WithDefaultTitle(cfg.Title))
			nav, err := r.Navigate(cmd.Context(), args[0])
			if err != nil {
				var nf *router.NotFoundError
				if errors.As(err, &nf) {
					return nf.Coded()
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Path:   %s\n", nav.URL())
			if nav.To.Name != "" {
				fmt.Fprintf(out, "Route:  %s (%s)\n", nav.To.Path, nav.To.Name)
			} else {
				fmt.Fprintf(out, "Route:  %s\n", nav.To.Path)
			}
			fmt.Fprintf(out, "View:   %s\n", nav.To.View.ID())
			fmt.Fprintf(out, "Title:  %s\n", nav.Title)

			if load {
				view, err := nav.View(cmd.Context())
				if err != nil {
					return fmt.Errorf("load view %s: %w", nav.To.View.ID(), err)
				}
				fmt.Fprintf(out, "Bundle: %d bytes\n", len(view.Bundle))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&load, "load", false, "Wait for the view to load and print its bundle size")

	return cmd
}
