package state

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Published variable names.
const (
	VarRecordStatus = "record_status"
	VarStreamStatus = "stream_status"
)

// NotApplicable is the sentinel value held before the device reports anything.
const NotApplicable = "N/A"

// Variable describes a published status variable.
type Variable struct {
	Name  string
	Label string
}

var variables = []Variable{
	{Name: VarRecordStatus, Label: "Current Record Status"},
	{Name: VarStreamStatus, Label: "Current Stream Status"},
}

// Variables returns the published variable definitions.
func Variables() []Variable {
	out := make([]Variable, len(variables))
	copy(out, variables)
	return out
}

// Health is the connection indicator shown by the control surface.
type Health int

const (
	HealthUnknown Health = iota
	HealthOK
	HealthWarning
	HealthError
)

func (h Health) String() string {
	switch h {
	case HealthOK:
		return "ok"
	case HealthWarning:
		return "warning"
	case HealthError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot represents the latest published state.
type Snapshot struct {
	RecordStatus        string
	StreamStatus        string
	Health              Health
	HealthMessage       string
	LastPolled          time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the device has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Value returns the value of a published variable.
func (s Snapshot) Value(name string) (string, bool) {
	switch name {
	case VarRecordStatus:
		return s.RecordStatus, true
	case VarStreamStatus:
		return s.StreamStatus, true
	}
	return "", false
}

// Store holds the state of one control-surface instance and notifies
// subscribers after every change.
type Store struct {
	log logrus.FieldLogger

	mu       sync.RWMutex
	snapshot Snapshot

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(Snapshot)
}

// NewStore returns a store with both variables set to NotApplicable.
func NewStore(log logrus.FieldLogger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{
		log: log,
		snapshot: Snapshot{
			RecordStatus: NotApplicable,
			StreamStatus: NotApplicable,
		},
		subs: make(map[int]func(Snapshot)),
	}
}

// SetStatus updates a published variable. Unknown names are logged and
// ignored; the return value reports whether the write was applied.
func (s *Store) SetStatus(name, value string) bool {
	s.mu.Lock()
	switch name {
	case VarRecordStatus:
		s.snapshot.RecordStatus = value
	case VarStreamStatus:
		s.snapshot.StreamStatus = value
	default:
		s.mu.Unlock()
		s.log.WithField("variable", name).Warn("variable does not exist")
		return false
	}
	s.mu.Unlock()

	s.notify()
	return true
}

// Reset puts both variables back to NotApplicable.
func (s *Store) Reset() {
	s.mu.Lock()
	s.snapshot.RecordStatus = NotApplicable
	s.snapshot.StreamStatus = NotApplicable
	s.mu.Unlock()

	s.notify()
}

// SetHealth records the connection indicator.
func (s *Store) SetHealth(h Health, message string) {
	s.mu.Lock()
	s.snapshot.Health = h
	s.snapshot.HealthMessage = message
	s.mu.Unlock()

	s.notify()
}

// MarkPolled records the outcome of a poll tick. When err is non-nil the
// cached variables are kept but the error is recorded for visibility.
func (s *Store) MarkPolled(err error) {
	s.mu.Lock()
	s.snapshot.LastPolled = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
	} else {
		s.snapshot.LastError = nil
		s.snapshot.ConsecutiveFailures = 0
	}
	s.mu.Unlock()

	s.notify()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot
}

// Subscribe registers fn to be called with a fresh snapshot after every
// change. Callbacks run on the goroutine that made the change and must not
// block. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	if len(fns) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, fn := range fns {
		fn(snap)
	}
}
