// Command mailserver is the FastCGI responder behind the trial registration
// form of joshinkan.de.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set at build time)
var version = "dev"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "mailserver",
		Short: "FastCGI responder that mails trial registrations",
		Long: `mailserver answers POST /api/trial-registration behind a FastCGI capable
web server. Each submission is mailed to the club and acknowledged to the
applicant.

Configuration is read from the environment and an optional .env file.
Command line flags override both.

Without --listen the FastCGI socket is expected on stdin, the way
spawn-fcgi starts responders.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.config(cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	f.register(cmd.Flags())
	return cmd
}
