package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/five82/monarchctl/internal/config"
	"github.com/five82/monarchctl/internal/metrics"
	"github.com/five82/monarchctl/internal/prefs"
	"github.com/five82/monarchctl/internal/ui"
)

const (
	noticeBuffer    = 16
	shutdownTimeout = 5 * time.Second
)

// Options configure the interactive panel.
type Options struct {
	Config    config.Config
	PrefsPath string // empty uses default ~/.config/monarchctl/prefs.toml
	Logger    logrus.FieldLogger
	NewDevice DeviceFactory
}

// Run boots the control panel until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	inst, err := NewInstance(opts.Config, InstanceOptions{Logger: opts.Logger, NewDevice: opts.NewDevice})
	if err != nil {
		return err
	}

	// Notices are advisory; drop them rather than stall a dispatch when the
	// panel falls behind.
	notices := make(chan ui.Notice, noticeBuffer)
	inst.Observe(func(res Result) {
		select {
		case notices <- NoticeFor(res):
		default:
		}
	})

	cfg := inst.Config()
	return runPanel(ctx, inst, func(ctx context.Context) error {
		return ui.Run(ui.Options{
			Context:    ctx,
			Controller: inst,
			Store:      inst.Store(),
			Notices:    notices,
			Host:       cfg.Host,
			LogPath:    cfg.LogFile,
			Prefs:      prefs.Load(opts.PrefsPath),
			PrefsPath:  opts.PrefsPath,
		})
	})
}

// runPanel drives inst for the lifetime of panel. The context handed to the
// panel is cancelled as soon as it returns, so busy retries still pending
// are abandoned instead of holding up Destroy.
func runPanel(ctx context.Context, inst *Instance, panel func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	inst.Init()
	defer inst.Destroy()
	defer cancel()
	return panel(ctx)
}

// NoticeFor converts a dispatch result into a panel notice.
func NoticeFor(res Result) ui.Notice {
	return ui.Notice{
		Action:   res.Action,
		Outcome:  res.Outcome.String(),
		Attempts: res.Attempts,
		Err:      res.Err,
	}
}

// exporter registers the status collector for inst on reg and returns the
// HTTP surface of the served process: /metrics plus POST /actions/{name}.
// Background dispatches run under ctx.
func exporter(ctx context.Context, inst *Instance, reg *prometheus.Registry, log logrus.FieldLogger) (http.Handler, error) {
	collector := metrics.NewCollector(inst.Store())
	if err := reg.Register(collector); err != nil {
		return nil, fmt.Errorf("register collector: %w", err)
	}
	inst.Observe(func(res Result) {
		collector.ObserveCommand(string(res.Action), res.Outcome.String(), res.Attempts)
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg, log.WithField("component", "metrics")))
	mux.Handle("POST /actions/{name}", actionHandler(ctx, inst, log.WithField("component", "http")))
	return mux, nil
}

// ServeOptions configure the headless exporter.
type ServeOptions struct {
	Config    config.Config
	Logger    logrus.FieldLogger
	NewDevice DeviceFactory
	// Registry defaults to a fresh registry with the Go and process
	// collectors installed.
	Registry *prometheus.Registry
}

// Serve polls the device and exposes its status as Prometheus metrics until
// ctx is cancelled.
func Serve(ctx context.Context, opts ServeOptions) error {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	inst, err := NewInstance(opts.Config, InstanceOptions{Logger: log, NewDevice: opts.NewDevice})
	if err != nil {
		return err
	}

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	handler, err := exporter(ctx, inst, reg, log)
	if err != nil {
		return err
	}

	cfg := inst.Config()
	srv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	inst.Init()
	defer inst.Destroy()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", cfg.MetricsAddr).Info("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown metrics server: %w", err)
		}
		log.Info("metrics server stopped")
		return nil
	})
	return g.Wait()
}
