package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sujalbistaa/proposal/internal/tui"
	"github.com/sujalbistaa/proposal/pkg/client"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id>",
		Short: "Show whether a proposal has been answered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.client().GetStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			p := printer{format: rootOpts.Format, w: cmd.OutOrStdout()}
			return p.print(s, func(w io.Writer) { writeStatus(w, s) })
		},
	}
}

func writeStatus(w io.Writer, s *client.Status) {
	line(w, "%s proposal to %s", s.Config.Title, s.RecipientName)
	switch s.Response {
	case "":
		line(w, "Waiting for response...")
	default:
		line(w, "Answer: %s", s.Response)
		if s.RespondedAt != nil {
			line(w, "Responded on %s", s.RespondedAt.UTC().Format("Jan 2, 2006 at 15:04 UTC"))
		}
	}
	if s.IsAnonymous {
		guesses := "none"
		if len(s.Guesses) > 0 {
			guesses = strings.Join(s.Guesses, ", ")
		}
		line(w, "Guesses: %s", guesses)
		if s.GuessedCorrectly {
			line(w, "They guessed it was you.")
		}
	}
	line(w, "%s", s.TimeRemaining)
	line(w, "Link: %s", s.RevealLink)
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <id>",
		Short: "Follow a proposal in the terminal until it is answered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Watch(rootOpts.client(), args[0])
		},
	}
}
