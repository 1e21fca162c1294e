// Package state holds the published status of one control-surface instance.
//
// # Overview
//
// The Store is the meeting point between the status poller (the only writer
// of device values) and everything that renders or exports them: the panel,
// the Prometheus collector and feedback evaluation. Each instance constructs
// its own Store with NewStore; there is no package-level default.
//
// # Published Variables
//
// Exactly two variables exist:
//
//   - record_status: "Current Record Status"
//   - stream_status: "Current Stream Status"
//
// Both start at NotApplicable ("N/A"). SetStatus rejects any other name with
// a warning log line, which guards against typos in callers rather than
// supporting dynamic fields.
//
// # Concurrency Model
//
// The Store uses a readers-writer lock:
//
//   - SetStatus, Reset, SetHealth, MarkPolled: write lock
//   - Snapshot: read lock, returns a copy
//
// Subscribers registered with Subscribe run after the lock is released, on
// the goroutine that made the change. A poll tick that finishes after its
// poller was stopped still writes here; subscribers must tolerate that.
//
// # Error Propagation
//
//   - LastError: most recent poll error (nil after a successful poll)
//   - ConsecutiveFailures: reset to zero by a successful poll
//   - Health / HealthMessage: the connection indicator ("Matrox not found.",
//     "Not polling", ...)
package state
