package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/sujalbistaa/proposal/pkg/client"
)

// NewCreateCommand creates the create command.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var req client.CreateRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a proposal and print its links",
		Example: `  proposalctl create --from Alex --to Sam --message "Be mine"
  proposalctl create --type marriage --from Alex --email alex@example.com --to Sam --message "Forever?"
  proposalctl create --anonymous --from "Jordan Lee" --to Sam --message "Guess who"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := rootOpts.client().CreateProposal(cmd.Context(), req)
			if err != nil {
				return err
			}
			p := printer{format: rootOpts.Format, w: cmd.OutOrStdout()}
			return p.print(created, func(w io.Writer) {
				line(w, "Send this to %s: %s", req.RecipientName, created.RevealLink)
				line(w, "Keep this one:  %s", created.StatusLink)
			})
		},
	}

	cmd.Flags().StringVar(&req.Type, "type", "valentine", "proposal type (valentine|marriage|girlfriend|boyfriend)")
	cmd.Flags().StringVar(&req.ProposerName, "from", "", "your name")
	cmd.Flags().StringVar(&req.ProposerEmail, "email", "", "your email, to be told the answer")
	cmd.Flags().StringVar(&req.RecipientName, "to", "", "their name")
	cmd.Flags().StringVarP(&req.Message, "message", "m", "", "your message")
	cmd.Flags().StringVar(&req.Template, "template", "", "template (classic|modern|romantic|playful)")
	cmd.Flags().BoolVar(&req.IsAnonymous, "anonymous", false, "hide your name and let them guess")
	cmd.MarkFlagRequired("from")    //nolint:errcheck
	cmd.MarkFlagRequired("to")      //nolint:errcheck
	cmd.MarkFlagRequired("message") //nolint:errcheck

	return cmd
}
