// Package monarch provides an HTTP client for the Matrox Monarch SDK endpoint.
//
// # Overview
//
// Monarch encoders expose a single control endpoint:
//
//	GET http://{user}:{password}@{host}/Monarch/syncconnect/sdk.aspx?command={CMD}
//
// Commands start or stop streaming and recording; GetStatus returns a flat
// comma-separated status line. There is no JSON and no documented schema.
//
// # Architecture
//
//   - client.go: resty-based transport, basic auth, request timeouts
//   - command.go: the closed Action and Command enumerations
//   - status.go: positional parsing of GetStatus replies
//   - errors.go: error taxonomy and transport error classification
//
// # Error Handling
//
// Transport failures are classified so callers can react with errors.Is and
// errors.As:
//
//   - ErrUnreachable: dial failures, refused connections, DNS errors
//   - ErrTimeout: the per-request deadline expired
//   - *HTTPError: a status outside 200-299
//   - ErrBusy: a command reply containing RETRY
//
// A malformed status reply is not an error. ParseStatus leaves the missing
// fields empty and callers keep their previous values.
package monarch
