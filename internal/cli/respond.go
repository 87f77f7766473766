package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewRespondCommand creates the respond command.
func NewRespondCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "respond <id> <yes|no>",
		Short:     "Answer a proposal",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"yes", "no"},
		RunE: func(cmd *cobra.Command, args []string) error {
			answer := args[1]
			if answer != "yes" && answer != "no" {
				return fmt.Errorf("answer must be yes or no, got %q", answer)
			}
			res, err := rootOpts.client().Respond(cmd.Context(), args[0], answer)
			if err != nil {
				return err
			}
			p := printer{format: rootOpts.Format, w: cmd.OutOrStdout()}
			return p.print(res, func(w io.Writer) {
				line(w, "Answered %s.", res.Response)
				if !res.Persisted {
					line(w, "Warning: the server could not save the answer; the sender will not see it.")
				}
			})
		},
	}
}

// NewGuessCommand creates the guess command.
func NewGuessCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "guess <id> <name>",
		Short: "Guess who sent an anonymous proposal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := rootOpts.client().Guess(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			p := printer{format: rootOpts.Format, w: cmd.OutOrStdout()}
			return p.print(res, func(w io.Writer) {
				switch {
				case res.Correct:
					line(w, "You got it! It was %s.", res.ProposerName)
				case res.GuessesLeft > 0:
					line(w, "Not quite. Guesses left: %d.", res.GuessesLeft)
				case res.Revealed:
					line(w, "Out of guesses! It was %s.", res.ProposerName)
				default:
					line(w, "Out of guesses!")
				}
				if !res.Persisted {
					line(w, "Warning: the server could not save this guess.")
				}
			})
		},
	}
}

// NewPurgeCommand creates the purge command.
func NewPurgeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete expired proposals (needs --admin-token)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := rootOpts.client().PurgeExpired(cmd.Context())
			if err != nil {
				return err
			}
			p := printer{format: rootOpts.Format, w: cmd.OutOrStdout()}
			return p.print(map[string]int64{"deleted": n}, func(w io.Writer) {
				line(w, "Deleted %d expired proposal(s).", n)
			})
		},
	}
}
