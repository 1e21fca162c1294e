package monarch

import "strings"

// Status is the subset of a GetStatus reply the control surface publishes.
// Empty fields mean the reply did not carry a value in that position.
type Status struct {
	Record string
	Stream string
	Raw    string
}

// ParseStatus extracts the record and stream tokens from a GetStatus body.
//
// The body is a flat comma-separated list. The record token is the text
// between the first and second colons of field 0 and the stream token is
// field 2. Surrounding whitespace of the whole body, such as a trailing
// CRLF, is trimmed before splitting, so a stream token at the end of the
// body loses it; otherwise field 2 is kept verbatim. Short or malformed
// bodies leave the corresponding field empty.
func ParseStatus(body string) Status {
	st := Status{Raw: body}
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return st
	}
	fields := strings.Split(trimmed, ",")
	if _, after, ok := strings.Cut(fields[0], ":"); ok {
		st.Record, _, _ = strings.Cut(after, ":")
	}
	if len(fields) > 2 {
		st.Stream = fields[2]
	}
	return st
}

// Empty reports whether the reply had no body at all.
func (s Status) Empty() bool {
	return strings.TrimSpace(s.Raw) == ""
}

// isBusy reports whether a command reply asks the caller to retry later.
func isBusy(body string) bool {
	return strings.Contains(body, "RETRY")
}
