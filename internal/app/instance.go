package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/five82/monarchctl/internal/config"
	"github.com/five82/monarchctl/internal/monarch"
	"github.com/five82/monarchctl/internal/state"
)

// DeviceFactory builds the device a config points at.
type DeviceFactory func(cfg config.Config, log logrus.FieldLogger) (monarch.Device, error)

// InstanceOptions configure an Instance.
type InstanceOptions struct {
	Logger logrus.FieldLogger
	// NewDevice defaults to a monarch.Client for cfg.Host.
	NewDevice DeviceFactory
}

// Instance is one configured control surface for one device. It owns its
// state store, dispatcher and poller; nothing is shared between instances.
type Instance struct {
	log       logrus.FieldLogger
	newDevice DeviceFactory

	store      *state.Store
	dispatcher *Dispatcher
	poller     *Poller

	mu     sync.RWMutex
	cfg    config.Config
	device monarch.Device

	obsMu     sync.RWMutex
	observers []func(Result)
}

// NewInstance builds an instance for cfg. No requests are issued until Init.
func NewInstance(cfg config.Config, opts InstanceOptions) (*Instance, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	newDevice := opts.NewDevice
	if newDevice == nil {
		newDevice = defaultDevice
	}

	inst := &Instance{
		log:       log,
		newDevice: newDevice,
		store:     state.NewStore(log.WithField("component", "state")),
	}
	inst.dispatcher = NewDispatcher(inst.currentDevice, inst.store, log.WithField("component", "dispatcher"), inst.notify)
	inst.poller = NewPoller(inst.currentDevice, inst.store, log.WithField("component", "poller"))

	if err := inst.applyConfig(cfg); err != nil {
		return nil, err
	}
	return inst, nil
}

func defaultDevice(cfg config.Config, log logrus.FieldLogger) (monarch.Device, error) {
	return monarch.NewClient(monarch.Endpoint{
		Host:     cfg.Host,
		User:     cfg.User,
		Password: cfg.Password,
	}, log.WithField("component", "client"))
}

// Init marks the instance as connecting and starts polling when enabled.
func (i *Instance) Init() {
	i.store.SetHealth(state.HealthWarning, "Connecting...")
	cfg := i.Config()
	if cfg.PollEnabled {
		i.poller.Start(ClampInterval(cfg.PollIntervalMS))
		return
	}
	i.store.SetHealth(state.HealthWarning, "Not polling")
}

// UpdateConfig replaces the configuration wholesale. Requests already in
// flight finish against the old device; the next request uses the new one.
func (i *Instance) UpdateConfig(cfg config.Config) error {
	if err := i.applyConfig(cfg); err != nil {
		return err
	}
	i.poller.Stop()
	if cfg.PollEnabled {
		i.poller.Start(ClampInterval(cfg.PollIntervalMS))
		return nil
	}
	i.store.Reset()
	i.store.SetHealth(state.HealthWarning, "Not polling")
	return nil
}

// Destroy stops polling and waits for background dispatches to finish.
func (i *Instance) Destroy() {
	i.poller.Stop()
	i.dispatcher.Wait()
}

// Dispatch sends action in the background.
func (i *Instance) Dispatch(ctx context.Context, action monarch.Action) {
	i.dispatcher.Dispatch(ctx, action)
}

// Do sends action and waits for the outcome.
func (i *Instance) Do(ctx context.Context, action monarch.Action) Result {
	return i.dispatcher.Do(ctx, action)
}

// PollOnce performs a single status query outside the timer.
func (i *Instance) PollOnce(ctx context.Context) error {
	return i.poller.Poll(ctx, pollTimeout(ClampInterval(i.Config().PollIntervalMS)))
}

// Store returns the instance's state store.
func (i *Instance) Store() *state.Store {
	return i.store
}

// Poller returns the instance's status poller.
func (i *Instance) Poller() *Poller {
	return i.poller
}

// Config returns the active configuration.
func (i *Instance) Config() config.Config {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.cfg
}

// Observe registers fn to receive every dispatch Result.
func (i *Instance) Observe(fn func(Result)) {
	i.obsMu.Lock()
	defer i.obsMu.Unlock()
	i.observers = append(i.observers, fn)
}

func (i *Instance) notify(res Result) {
	i.obsMu.RLock()
	defer i.obsMu.RUnlock()
	for _, fn := range i.observers {
		fn(res)
	}
}

func (i *Instance) currentDevice() monarch.Device {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.device
}

func (i *Instance) applyConfig(cfg config.Config) error {
	var dev monarch.Device
	if cfg.Validate() == nil {
		d, err := i.newDevice(cfg, i.log)
		if err != nil {
			return fmt.Errorf("init device client: %w", err)
		}
		dev = d
	}

	i.mu.Lock()
	i.cfg = cfg
	i.device = dev
	i.mu.Unlock()
	return nil
}
