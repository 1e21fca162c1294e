package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/five82/monarchctl/internal/config"
	"github.com/five82/monarchctl/internal/logging"
)

// Keys shared by the config file, the flag overlay and the MONARCH_*
// environment variables.
const (
	keyHost         = "host"
	keyUser         = "user"
	keyPassword     = "password"
	keyPoll         = "poll"
	keyPollInterval = "poll_interval_ms"
	keyLogFile      = "log_file"
	keyLogLevel     = "log_level"
	keyMetricsAddr  = "metrics_addr"
)

const envPrefix = "MONARCH"

// rootOptions carry state shared by every subcommand.
type rootOptions struct {
	v          *viper.Viper
	configPath string
	prefsPath  string
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "monarchctl: %v\n", err)
		return 1
	}
	return 0
}

// NewRootCommand builds the monarchctl command tree.
func NewRootCommand() *cobra.Command {
	o := &rootOptions{v: viper.New()}

	root := &cobra.Command{
		Use:   "monarchctl",
		Short: "Control a Matrox Monarch encoder",
		Long: `Start and stop recording and streaming on a Matrox Monarch encoder,
watch its status from a terminal panel, or export it to Prometheus.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&o.configPath, "config", "", "config file (default is "+config.DefaultPath()+")")
	flags.StringVar(&o.prefsPath, "prefs", "", "panel preferences file (default is ~/.config/monarchctl/prefs.toml)")
	flags.String("host", "", "device IP address or hostname")
	flags.String("user", "", "device username")
	flags.String("password", "", "device password")
	flags.Bool("poll", false, "enable status polling")
	flags.Int("poll-interval", 0, "status poll interval in milliseconds (minimum 2000)")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error")
	flags.String("log-file", "", "log file used while the panel owns the terminal")

	o.bindFlag(keyHost, root, "host")
	o.bindFlag(keyUser, root, "user")
	o.bindFlag(keyPassword, root, "password")
	o.bindFlag(keyPoll, root, "poll")
	o.bindFlag(keyPollInterval, root, "poll-interval")
	o.bindFlag(keyLogLevel, root, "log-level")
	o.bindFlag(keyLogFile, root, "log-file")

	o.v.SetEnvPrefix(envPrefix)
	o.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	o.v.AutomaticEnv()

	root.AddCommand(
		newPanelCommand(o),
		newSendCommand(o),
		newStatusCommand(o),
		newActionsCommand(o),
		newServeCommand(o),
		newConfigCommand(o),
	)
	return root
}

func (o *rootOptions) bindFlag(key string, cmd *cobra.Command, name string) {
	flag := cmd.PersistentFlags().Lookup(name)
	if flag == nil {
		flag = cmd.Flags().Lookup(name)
	}
	// Lookup only fails on a typo in this file.
	if err := o.v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", name, err))
	}
}

// loadConfig reads the config file and applies flag and environment
// overrides on top of it.
func (o *rootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	return overlay(cfg, o.v).Normalize(), nil
}

// overlay replaces file values with every flag or environment value that
// was explicitly set. Empty strings never clear a file value.
func overlay(cfg config.Config, v *viper.Viper) config.Config {
	overlayString(v, keyHost, &cfg.Host)
	overlayString(v, keyUser, &cfg.User)
	overlayString(v, keyPassword, &cfg.Password)
	overlayString(v, keyLogFile, &cfg.LogFile)
	overlayString(v, keyLogLevel, &cfg.LogLevel)
	overlayString(v, keyMetricsAddr, &cfg.MetricsAddr)
	if v.IsSet(keyPoll) {
		cfg.PollEnabled = v.GetBool(keyPoll)
	}
	if v.IsSet(keyPollInterval) {
		if ms := v.GetInt(keyPollInterval); ms > 0 {
			cfg.PollIntervalMS = ms
		}
	}
	return cfg
}

func overlayString(v *viper.Viper, key string, dst *string) {
	if !v.IsSet(key) {
		return
	}
	if s := strings.TrimSpace(v.GetString(key)); s != "" {
		*dst = s
	}
}

// logger builds the process logger. toFile sends output to cfg.LogFile so
// it does not draw over a full-screen program.
func logger(cfg config.Config, toFile bool, out io.Writer) (*logrus.Logger, io.Closer, error) {
	opts := logging.Options{Level: cfg.LogLevel, Out: out}
	if toFile {
		opts.File = cfg.LogFile
	}
	log, closer, err := logging.Setup(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logging: %w", err)
	}
	return log, closer, nil
}

// requireDevice loads the config and fails when no device is configured.
func (o *rootOptions) requireDevice() (config.Config, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("%w (set host in %s, --host or %s_HOST)", err, config.DefaultPath(), envPrefix)
	}
	return cfg, nil
}
