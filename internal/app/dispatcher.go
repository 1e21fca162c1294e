package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/monarchctl/internal/monarch"
	"github.com/five82/monarchctl/internal/state"
)

const (
	defaultRetryDelay = 2 * time.Second
	defaultMaxRetries = 10
)

var errNoDevice = errors.New("no device configured")

// Outcome classifies how a dispatched command ended.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeBusy
	OutcomeUnreachable
	OutcomeTimeout
	OutcomeHTTPError
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeBusy:
		return "busy"
	case OutcomeUnreachable:
		return "unreachable"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeHTTPError:
		return "http_error"
	default:
		return "failed"
	}
}

// Result describes one dispatched action. Retries is the busy-retry counter
// when the dispatch ended: zero after any non-busy reply. Attempts counts
// every request that was sent.
type Result struct {
	Action   monarch.Action
	Outcome  Outcome
	Retries  int
	Attempts int
	Err      error
}

// DeviceSource returns the device to use for the next request. It is
// consulted before every attempt so reconfiguration applies to retries.
type DeviceSource func() monarch.Device

// Dispatcher turns actions into device commands with a bounded busy-retry
// loop. Each dispatch owns its retry counter.
type Dispatcher struct {
	source     DeviceSource
	store      *state.Store
	log        logrus.FieldLogger
	retryDelay time.Duration
	maxRetries int
	observe    func(Result)

	wg sync.WaitGroup
}

// NewDispatcher builds a Dispatcher. observe may be nil.
func NewDispatcher(source DeviceSource, store *state.Store, log logrus.FieldLogger, observe func(Result)) *Dispatcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Dispatcher{
		source:     source,
		store:      store,
		log:        log,
		retryDelay: defaultRetryDelay,
		maxRetries: defaultMaxRetries,
		observe:    observe,
	}
}

// Dispatch sends action in the background and returns immediately. The
// outcome is only observable through logs, the store and the observer.
func (d *Dispatcher) Dispatch(ctx context.Context, action monarch.Action) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.Do(ctx, action)
	}()
}

// Wait blocks until every background dispatch has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Do sends action and blocks until it succeeds, fails, or exhausts its
// busy retries. Cancelling ctx aborts a pending retry delay.
func (d *Dispatcher) Do(ctx context.Context, action monarch.Action) Result {
	res := d.run(ctx, action)
	if d.observe != nil {
		d.observe(res)
	}
	return res
}

func (d *Dispatcher) run(ctx context.Context, action monarch.Action) Result {
	res := Result{Action: action}
	log := d.log.WithField("action", string(action))

	if !action.Valid() {
		res.Outcome = OutcomeFailed
		res.Err = fmt.Errorf("unknown action %q", action)
		log.WithError(res.Err).Error("rejecting action")
		return res
	}

	for {
		var dev monarch.Device
		if d.source != nil {
			dev = d.source()
		}
		if dev == nil {
			res.Outcome = OutcomeFailed
			res.Err = errNoDevice
			log.WithError(res.Err).Error("cannot send command")
			return res
		}

		res.Attempts++
		body, err := dev.Send(ctx, action.Command())

		var httpErr *monarch.HTTPError
		switch {
		case err == nil:
			res.Outcome = OutcomeOK
			res.Retries = 0
			res.Err = nil
			log.WithField("reply", body).Info("success")
			return res

		case errors.Is(err, monarch.ErrBusy):
			if res.Retries >= d.maxRetries {
				res.Outcome = OutcomeBusy
				res.Err = err
				log.WithField("retries", res.Retries).Warn("device still busy, dropping command")
				return res
			}
			log.WithField("retry", res.Retries+1).Info("attempting retry")
			select {
			case <-ctx.Done():
				res.Outcome = OutcomeFailed
				res.Err = fmt.Errorf("retry cancelled: %w", ctx.Err())
				return res
			case <-time.After(d.retryDelay):
			}
			res.Retries++

		case errors.Is(err, monarch.ErrUnreachable):
			res.Outcome = OutcomeUnreachable
			res.Err = err
			log.WithError(err).Error("connection failed")
			d.setHealth(state.HealthError, "Unreachable")
			return res

		case errors.Is(err, monarch.ErrTimeout):
			res.Outcome = OutcomeTimeout
			res.Err = err
			log.WithError(err).Error("read timeout waiting for response")
			d.setHealth(state.HealthError, "Timeout")
			return res

		case errors.As(err, &httpErr):
			res.Outcome = OutcomeHTTPError
			res.Err = err
			log.WithError(err).Error("non-successful response status code")
			return res

		default:
			res.Outcome = OutcomeFailed
			res.Err = err
			log.WithError(err).Error("command failed")
			return res
		}
	}
}

func (d *Dispatcher) setHealth(h state.Health, msg string) {
	if d.store != nil {
		d.store.SetHealth(h, msg)
	}
}
