package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/monarchctl/internal/monarch"
	"github.com/five82/monarchctl/internal/state"
)

const (
	// MinPollInterval is the floor every configured interval is clamped to.
	MinPollInterval = 2 * time.Second
	// fallbackPollInterval applies when no configured interval reaches the timer.
	fallbackPollInterval = 5 * time.Second
	// requestHeadroom keeps each status request shorter than the tick.
	requestHeadroom = time.Second
)

// ClampInterval converts a configured interval in milliseconds into the
// poll period. Zero means nothing was configured and selects the 5s
// fallback; anything below MinPollInterval is raised to it.
func ClampInterval(ms int) time.Duration {
	if ms == 0 {
		return fallbackPollInterval
	}
	d := time.Duration(ms) * time.Millisecond
	if d < MinPollInterval {
		return MinPollInterval
	}
	return d
}

// pollTimeout bounds one status request so it ends before the next tick.
func pollTimeout(interval time.Duration) time.Duration {
	if timeout := interval - requestHeadroom; timeout > 0 {
		return timeout
	}
	return interval
}

// Poller periodically queries device status and publishes it to a store.
// At most one timer runs per Poller.
type Poller struct {
	source DeviceSource
	store  *state.Store
	log    logrus.FieldLogger
	floor  time.Duration

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	interval time.Duration

	loops    atomic.Int32
	inflight sync.WaitGroup
}

// NewPoller builds a stopped Poller.
func NewPoller(source DeviceSource, store *state.Store, log logrus.FieldLogger) *Poller {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Poller{
		source: source,
		store:  store,
		log:    log,
		floor:  MinPollInterval,
	}
}

// Start stops any running timer, then begins polling every interval. The
// first tick fires one interval after Start. Intervals below the floor are
// raised to it.
func (p *Poller) Start(interval time.Duration) {
	if interval < p.floor {
		interval = p.floor
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done
	p.interval = interval
	p.loops.Add(1)

	p.log.WithField("interval", interval).Info("starting status timer")
	go p.loop(ctx, done, interval)
}

// Stop cancels the timer. It is idempotent and safe to call before Start.
// A request already in flight is allowed to finish and publish its result.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Poller) stopLocked() {
	if p.cancel == nil {
		return
	}
	p.log.Info("stopping status timer")
	p.cancel()
	<-p.done
	p.cancel = nil
	p.done = nil
	p.interval = 0
}

// Running reports whether a timer is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

// Interval returns the active period, or zero when stopped.
func (p *Poller) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval
}

// Wait blocks until every in-flight status request has finished.
func (p *Poller) Wait() {
	p.inflight.Wait()
}

func (p *Poller) loop(ctx context.Context, done chan struct{}, interval time.Duration) {
	defer close(done)
	defer p.loops.Add(-1)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	timeout := pollTimeout(interval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Each tick's request runs on its own so a hung device never
			// delays the next tick. Stopping the timer does not cancel it.
			p.inflight.Add(1)
			go func() {
				defer p.inflight.Done()
				_ = p.Poll(context.WithoutCancel(ctx), timeout)
			}()
		}
	}
}

// Poll performs one status query with the given timeout and publishes the
// result. The returned error is informational; it has already been logged.
func (p *Poller) Poll(ctx context.Context, timeout time.Duration) error {
	var dev monarch.Device
	if p.source != nil {
		dev = p.source()
	}
	if dev == nil {
		p.log.WithError(errNoDevice).Error("cannot poll status")
		return errNoDevice
	}

	status, err := dev.FetchStatus(ctx, timeout)
	var httpErr *monarch.HTTPError
	switch {
	case err == nil:
	case errors.Is(err, monarch.ErrUnreachable):
		p.log.WithError(err).Error("connection failed")
		p.store.SetHealth(state.HealthError, "Matrox not found.")
		p.store.MarkPolled(err)
		return err
	case errors.Is(err, monarch.ErrTimeout):
		p.log.WithError(err).Error("read timeout waiting for status")
		p.store.MarkPolled(err)
		return err
	case errors.As(err, &httpErr):
		p.log.WithError(err).Error("non-successful response status code")
		p.store.MarkPolled(err)
		return err
	default:
		p.log.WithError(err).Error("status request failed")
		p.store.MarkPolled(err)
		return err
	}

	if status.Empty() {
		p.log.Debug("device returned an empty status body")
		return nil
	}

	p.log.WithFields(logrus.Fields{
		"record": status.Record,
		"stream": status.Stream,
	}).Debug("device replied status")

	if status.Record != "" {
		p.store.SetStatus(state.VarRecordStatus, status.Record)
	}
	if status.Stream != "" {
		p.store.SetStatus(state.VarStreamStatus, status.Stream)
	}
	p.store.MarkPolled(nil)
	p.store.SetHealth(state.HealthOK, "")
	return nil
}
