// Package app provides the orchestration layer for monarchctl.
//
// # Overview
//
// An Instance is one configured control surface for one Matrox Monarch
// device. It owns a state.Store, a Dispatcher that turns actions into
// device commands, and a Poller that publishes record and stream status.
// Nothing is shared between instances, so several devices can be driven
// from one process.
//
// Run and Serve are the composition roots: Run wires an Instance to the
// Bubble Tea panel, Serve wires one to a Prometheus exporter that also
// accepts POST /actions/{name}.
//
// # Components
//
//   - instance.go: Init, UpdateConfig and Destroy lifecycle
//   - dispatcher.go: action dispatch with the busy-retry loop
//   - poller.go: interval clamping and the status timer
//   - app.go: Run and Serve
//   - actions_http.go: the served action endpoint
//
// # Dispatch
//
// A command that comes back with RETRY in its body means the device is
// still busy with the previous one. The dispatcher waits two seconds and
// sends the same command again, up to ten retries. Every dispatch counts
// its own retries so concurrent button presses never share a budget.
//
//	Dispatch(action)
//	  └─> Send(command) ──RETRY──> wait 2s ──> Send(command) ...
//	        ├─ ok          Result{Outcome: OutcomeOK}
//	        ├─ unreachable health=error "Unreachable"
//	        └─ timeout     health=error "Timeout"
//
// # Polling
//
// When polling is enabled the poller issues GetStatus every interval and
// publishes the reply to the store. Intervals below two seconds are raised
// to two seconds. Each tick's request runs in its own goroutine and is
// bounded to one second less than the interval, so a slow device never
// stacks requests behind the timer.
//
// Recoverable errors are logged and recorded in the store; the timer keeps
// running. An unreachable device sets health to error with the message
// "Matrox not found.".
package app
