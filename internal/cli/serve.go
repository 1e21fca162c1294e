package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kardianos/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/five82/monarchctl/internal/app"
	"github.com/five82/monarchctl/internal/config"
)

const serviceName = "monarchctl"

var serviceActions = []string{"install", "uninstall", "start", "stop", "restart"}

// program adapts a blocking run function to the service manager's
// non-blocking Start and Stop.
type program struct {
	ctx    context.Context
	run    func(ctx context.Context) error
	log    logrus.FieldLogger
	cancel context.CancelFunc
	done   chan error
}

func (p *program) Start(service.Service) error {
	ctx, cancel := context.WithCancel(p.ctx)
	p.cancel = cancel
	p.done = make(chan error, 1)
	go func() {
		err := p.run(ctx)
		if err != nil {
			p.log.WithError(err).Error("exporter stopped")
		}
		p.done <- err
	}()
	return nil
}

func (p *program) Stop(service.Service) error {
	p.log.Info("stopping service")
	if p.cancel == nil {
		return nil
	}
	p.cancel()
	return <-p.done
}

func newServeCommand(o *rootOptions) *cobra.Command {
	var serviceAction string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Poll the device and export Prometheus metrics",
		Long: `Start a long-running poller that exposes the device status and command
counters on /metrics. Can be installed as a system service.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.requireDevice()
			if err != nil {
				return err
			}
			// Exporting a device that is never polled is useless.
			cfg.PollEnabled = true

			log, closer, err := logger(cfg, false, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closer.Close()

			svcArgs, err := serviceArguments(o.configPath, cfg)
			if err != nil {
				return err
			}
			prg := &program{
				ctx: cmd.Context(),
				log: log,
				run: func(ctx context.Context) error {
					return app.Serve(ctx, app.ServeOptions{Config: cfg, Logger: log})
				},
			}
			s, err := service.New(prg, &service.Config{
				Name:        serviceName,
				DisplayName: "Matrox Monarch Exporter",
				Description: "Polls a Matrox Monarch encoder and exposes its status to Prometheus",
				Arguments:   svcArgs,
			})
			if err != nil {
				return fmt.Errorf("init service: %w", err)
			}

			if serviceAction != "" {
				if err := service.Control(s, serviceAction); err != nil {
					return fmt.Errorf("%s service: %w", serviceAction, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Service action '%s' completed successfully.\n", serviceAction)
				return nil
			}

			if err := s.Run(); err != nil {
				return fmt.Errorf("run service: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&serviceAction, "service", "", "service action: install, uninstall, start, stop, restart")
	cmd.Flags().String("metrics-addr", "", "address the metrics server listens on (default :9742)")
	o.bindFlag(keyMetricsAddr, cmd, "metrics-addr")

	cmd.PreRunE = func(*cobra.Command, []string) error {
		return validServiceAction(serviceAction)
	}
	return cmd
}

func validServiceAction(action string) error {
	if action == "" {
		return nil
	}
	for _, a := range serviceActions {
		if a == action {
			return nil
		}
	}
	return fmt.Errorf("unknown service action %q", action)
}

// serviceArguments pins the effective settings into the service command
// line, since the service manager runs without the caller's environment.
func serviceArguments(configPath string, cfg config.Config) ([]string, error) {
	path, err := config.ResolvePath(configPath)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	if cfg.Host == "" {
		return nil, errors.New("host is required to install the service")
	}
	args := []string{
		"serve",
		"--config", path,
		"--host", cfg.Host,
		"--metrics-addr", cfg.MetricsAddr,
		"--log-level", cfg.LogLevel,
	}
	if cfg.User != "" {
		args = append(args, "--user", cfg.User)
	}
	if cfg.Password != "" {
		args = append(args, "--password", cfg.Password)
	}
	if cfg.PollIntervalMS > 0 {
		args = append(args, "--poll-interval", strconv.Itoa(cfg.PollIntervalMS))
	}
	return args, nil
}
