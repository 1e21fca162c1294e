package cli

import (
	"github.com/spf13/cobra"

	"github.com/five82/monarchctl/internal/app"
)

func newPanelCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "panel",
		Short: "Open the terminal control panel",
		Long: `Open a full-screen panel with one button per action and tiles that
recolor when the recorded or streamed status matches the panel rules.
Logs are written to the configured log file while the panel is open.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}
			log, closer, err := logger(cfg, true, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closer.Close()

			log.WithField("host", cfg.Host).Info("starting panel")
			return app.Run(cmd.Context(), app.Options{
				Config:    cfg,
				PrefsPath: o.prefsPath,
				Logger:    log,
			})
		},
	}
}
