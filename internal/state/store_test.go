package state

import (
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func newTestStore(t *testing.T) (*Store, *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()
	return NewStore(log), hook
}

func TestNewStore_DefaultsToNotApplicable(t *testing.T) {
	s, _ := newTestStore(t)
	snap := s.Snapshot()
	if snap.RecordStatus != NotApplicable || snap.StreamStatus != NotApplicable {
		t.Fatalf("defaults = %q/%q, want N/A", snap.RecordStatus, snap.StreamStatus)
	}
	if snap.Health != HealthUnknown {
		t.Fatalf("Health = %v, want unknown", snap.Health)
	}
}

func TestStore_SetStatus(t *testing.T) {
	s, _ := newTestStore(t)

	if !s.SetStatus(VarRecordStatus, "ON") {
		t.Fatal("SetStatus(record_status) = false")
	}
	if !s.SetStatus(VarStreamStatus, "READY") {
		t.Fatal("SetStatus(stream_status) = false")
	}
	snap := s.Snapshot()
	if snap.RecordStatus != "ON" || snap.StreamStatus != "READY" {
		t.Fatalf("snapshot = %q/%q, want ON/READY", snap.RecordStatus, snap.StreamStatus)
	}
	if v, ok := snap.Value(VarStreamStatus); !ok || v != "READY" {
		t.Fatalf("Value(stream_status) = %q, %v", v, ok)
	}
}

func TestStore_SetStatusUnknownNameIsNoop(t *testing.T) {
	s, hook := newTestStore(t)
	calls := 0
	s.Subscribe(func(Snapshot) { calls++ })

	before := s.Snapshot()
	if s.SetStatus("record_stauts", "ON") {
		t.Fatal("SetStatus with unknown name returned true")
	}
	after := s.Snapshot()
	if before.RecordStatus != after.RecordStatus || before.StreamStatus != after.StreamStatus {
		t.Fatalf("snapshot changed: %+v -> %+v", before, after)
	}
	if calls != 0 {
		t.Fatalf("subscribers notified %d times, want 0", calls)
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel {
		t.Fatalf("last log entry = %+v, want a warning", entry)
	}
	if _, ok := (Snapshot{}).Value("bogus"); ok {
		t.Fatal("Value(bogus) reported ok")
	}
}

func TestStore_Reset(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetStatus(VarRecordStatus, "ON")
	s.SetStatus(VarStreamStatus, "ON")
	s.Reset()
	snap := s.Snapshot()
	if snap.RecordStatus != NotApplicable || snap.StreamStatus != NotApplicable {
		t.Fatalf("after Reset = %q/%q, want N/A", snap.RecordStatus, snap.StreamStatus)
	}
}

func TestStore_MarkPolledErrorKeepsPreviousData(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetStatus(VarRecordStatus, "ON")

	before := time.Now()
	origErr := errors.New("boom")
	s.MarkPolled(origErr)

	snap := s.Snapshot()
	if snap.RecordStatus != "ON" {
		t.Fatalf("RecordStatus changed on error: %q", snap.RecordStatus)
	}
	if snap.LastPolled.Before(before) {
		t.Fatalf("LastPolled = %v, want >= %v", snap.LastPolled, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if snap.LastError != origErr {
		t.Fatalf("LastError = %v, want the recorded error value", snap.LastError)
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	s, _ := newTestStore(t)

	if s.Snapshot().IsOffline() {
		t.Fatal("IsOffline() = true, want false with 0 failures")
	}

	s.MarkPolled(errors.New("fail 1"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("after 1 failure: %d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.MarkPolled(errors.New("fail 2"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("after 2 failures: %d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.MarkPolled(nil)
	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() || snap.LastError != nil {
		t.Fatalf("after success: %+v", snap)
	}
}

func TestStore_SubscribeAndCancel(t *testing.T) {
	s, _ := newTestStore(t)

	var got []Snapshot
	cancel := s.Subscribe(func(snap Snapshot) { got = append(got, snap) })

	s.SetStatus(VarRecordStatus, "READY")
	s.SetHealth(HealthOK, "")
	if len(got) != 2 {
		t.Fatalf("notifications = %d, want 2", len(got))
	}
	if got[0].RecordStatus != "READY" || got[1].Health != HealthOK {
		t.Fatalf("notifications = %+v", got)
	}

	cancel()
	cancel()
	s.SetStatus(VarRecordStatus, "ON")
	if len(got) != 2 {
		t.Fatalf("notifications after cancel = %d, want 2", len(got))
	}
}

func TestHealthString(t *testing.T) {
	for h, want := range map[Health]string{
		HealthUnknown: "unknown",
		HealthOK:      "ok",
		HealthWarning: "warning",
		HealthError:   "error",
	} {
		if h.String() != want {
			t.Fatalf("%d.String() = %q, want %q", h, h.String(), want)
		}
	}
}

func TestVariablesReturnsCopy(t *testing.T) {
	vars := Variables()
	if len(vars) != 2 || vars[0].Name != VarRecordStatus || vars[1].Name != VarStreamStatus {
		t.Fatalf("Variables() = %+v", vars)
	}
	vars[0].Name = "x"
	if Variables()[0].Name != VarRecordStatus {
		t.Fatal("Variables() exposes internal slice")
	}
}
