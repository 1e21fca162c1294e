package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/monarchctl/internal/app"
	"github.com/five82/monarchctl/internal/state"
)

type statusOutput struct {
	Host          string `json:"host"`
	RecordStatus  string `json:"record_status"`
	StreamStatus  string `json:"stream_status"`
	Health        string `json:"health"`
	HealthMessage string `json:"health_message,omitempty"`
	PolledAt      string `json:"polled_at,omitempty"`
}

func newStatusCommand(o *rootOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Query the device status once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			if err := inst.PollOnce(cmd.Context()); err != nil {
				return fmt.Errorf("query status: %w", err)
			}
			snap := inst.Store().Snapshot()

			out := statusOutput{
				Host:          cfg.Host,
				RecordStatus:  snap.RecordStatus,
				StreamStatus:  snap.StreamStatus,
				Health:        snap.Health.String(),
				HealthMessage: snap.HealthMessage,
			}
			if !snap.LastPolled.IsZero() {
				out.PolledAt = snap.LastPolled.Format(time.RFC3339)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "VARIABLE\tLABEL\tVALUE")
			fmt.Fprintln(w, "--------\t-----\t-----")
			for _, v := range state.Variables() {
				value, _ := snap.Value(v.Name)
				fmt.Fprintf(w, "%s\t%s\t%s\n", v.Name, v.Label, value)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output the status as JSON")
	return cmd
}
