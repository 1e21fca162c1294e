package app

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/five82/monarchctl/internal/monarch"
)

// fakeDevice records every request and answers from the configured funcs.
type fakeDevice struct {
	mu       sync.Mutex
	commands []monarch.Command
	polls    int
	timeouts []time.Duration

	send   func(n int, cmd monarch.Command) (string, error)
	status func(n int) (monarch.Status, error)
}

func (f *fakeDevice) Send(_ context.Context, cmd monarch.Command) (string, error) {
	f.mu.Lock()
	f.commands = append(f.commands, cmd)
	n := len(f.commands)
	send := f.send
	f.mu.Unlock()
	if send == nil {
		return "SUCCESS", nil
	}
	return send(n, cmd)
}

func (f *fakeDevice) FetchStatus(_ context.Context, timeout time.Duration) (monarch.Status, error) {
	f.mu.Lock()
	f.polls++
	n := f.polls
	f.timeouts = append(f.timeouts, timeout)
	status := f.status
	f.mu.Unlock()
	if status == nil {
		return monarch.ParseStatus("RECORD:READY,STREAM:READY,READY"), nil
	}
	return status(n)
}

func (f *fakeDevice) sent() []monarch.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]monarch.Command(nil), f.commands...)
}

func (f *fakeDevice) pollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}

func sourceOf(dev monarch.Device) DeviceSource {
	return func() monarch.Device { return dev }
}

func nullLogger() logrus.FieldLogger {
	log, _ := test.NewNullLogger()
	return log
}
