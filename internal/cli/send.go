package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/monarchctl/internal/app"
	"github.com/five82/monarchctl/internal/monarch"
)

func newSendCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "send <action>",
		Short: "Send one action to the device",
		Long: `Send one action to the device and wait for the outcome. Busy replies
are retried every two seconds, up to ten times. Run "monarchctl actions"
for the list of action names.`,
		Example: `  monarchctl send start-recording
  monarchctl send stop-recording-streaming --host 10.0.0.5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := monarch.ParseAction(args[0])
			if err != nil {
				return err
			}
			cfg, err := o.requireDevice()
			if err != nil {
				return err
			}
			log, closer, err := logger(cfg, false, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closer.Close()

			inst, err := app.NewInstance(cfg, app.InstanceOptions{Logger: log})
			if err != nil {
				return err
			}
			defer inst.Destroy()

			res := inst.Do(cmd.Context(), action)
			if res.Outcome != app.OutcomeOK {
				return fmt.Errorf("%s: %s after %d attempts: %w", action.Label(), res.Outcome, res.Attempts, res.Err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", action.Label())
			return nil
		},
	}
}
