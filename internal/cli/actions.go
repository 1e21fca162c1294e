package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/five82/monarchctl/internal/feedback"
	"github.com/five82/monarchctl/internal/monarch"
)

func newActionsCommand(_ *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List actions and feedback rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ACTION\tLABEL\tCOMMAND")
			fmt.Fprintln(w, "------\t-----\t-------")
			for _, a := range monarch.Actions() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", a, a.Label(), a.Command())
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "FEEDBACK\tVARIABLE\tCHOICES")
			fmt.Fprintln(w, "--------\t--------\t-------")
			for _, d := range feedback.Definitions() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", d.Kind, d.Variable, strings.Join(d.Choices, ", "))
			}
			return w.Flush()
		},
	}
}
