package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apperrors "github.com/messenger-dev/messenger-web/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╔╦╗┌─┐┌─┐┌─┐┌─┐┌┐┌┌─┐┌─┐┬─┐
  ║║║├┤ └─┐└─┐├┤ ││││ ┬├┤ ├┬┘
  ╩ ╩└─┘└─┘└─┘└─┘┘└┘└─┘└─┘┴└─
`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		apperrors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "messenger-web",
		Short: "Serve the Messenger web app and its route table",
		Long: `messenger-web hosts the Messenger single-page app.

It resolves every request against the Messenger route table, sets the
document title for the matched route and serves the page shell that
mounts the route's view:

  /                 LoginPage        "Вход | Messenger"
  /register         RegistrationPage (deferred)
  /dashboard        DashboardView    (deferred)
  /forgot-password  ForgotPassword
  /reset-password   ResetPassword`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	opts.register(rootCmd)

	rootCmd.AddCommand(
		serveCmd(opts),
		routesCmd(opts),
		resolveCmd(opts),
		versionCmd(),
	)
	return rootCmd
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
