// Package cli implements proposalctl, a command-line client for the proposal API.
package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/sujalbistaa/proposal/pkg/client"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	API        string
	AdminToken string
	Format     string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

func (o *RootOptions) client() *client.Client {
	return client.New(o.API, o.AdminToken)
}

// NewRootCommand creates the root command for proposalctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "proposalctl",
		Short: "Create and follow disposable proposals",
		Long: `proposalctl talks to a proposal server: create a proposal, answer one,
guess who sent an anonymous one, or watch the status until it is answered.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.API, "api", envOr("PROPOSAL_API", "http://localhost:8080"), "proposal server base URL")
	cmd.PersistentFlags().StringVar(&opts.AdminToken, "admin-token", os.Getenv("X_ADMIN_TOKEN"), "admin token for purge")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewCreateCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewRespondCommand(opts))
	cmd.AddCommand(NewGuessCommand(opts))
	cmd.AddCommand(NewPurgeCommand(opts))

	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
