package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/messenger-dev/messenger-web/internal/routes"
	"github.com/messenger-dev/messenger-web/pkg/server"
)

func routesCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the route table",
		Long: `List the route table in declaration order.

Deferred views show the URL their bundle is served from.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			table, err := routes.Table(routes.WithSource(viewSource(cfg)))
			if err != nil {
				return err
			}

			infos := server.Describe(table)
			if asJSON {
				data, err := sonic.ConfigStd.MarshalIndent(infos, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			return printRoutes(cmd.OutOrStdout(), infos, cfg.Title)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the table as JSON")

	return cmd
}

func printRoutes(w io.Writer, infos []server.RouteInfo, defaultTitle string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tNAME\tVIEW\tTITLE\tBUNDLE")
	for _, ri := range infos {
		name := ri.Name
		if name == "" {
			name = "-"
		}
		title := ri.Title
		if title == "" {
			title = defaultTitle + " (default)"
		}
		bundle := ri.Bundle
		if bundle == "" {
			bundle = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", ri.Path, name, ri.View, title, bundle)
	}
	return tw.Flush()
}
