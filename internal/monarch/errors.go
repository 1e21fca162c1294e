package monarch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

var (
	// ErrUnreachable means no connection to the device could be opened.
	ErrUnreachable = errors.New("device unreachable")
	// ErrTimeout means the device did not answer before the request deadline.
	ErrTimeout = errors.New("device request timed out")
	// ErrBusy means the device answered RETRY and did not accept the command.
	ErrBusy = errors.New("device busy")
)

// HTTPError reports a response status outside the 2xx range.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	text := http.StatusText(e.StatusCode)
	if text == "" {
		return fmt.Sprintf("device returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("device returned status %d %s", e.StatusCode, text)
}

// classify wraps a transport error with ErrTimeout or ErrUnreachable when it
// matches one of those conditions. Other errors are returned wrapped as-is.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isTimeout(err) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	if isUnreachable(err) {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	return fmt.Errorf("execute request: %w", err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isUnreachable(err error) bool {
	switch {
	case errors.Is(err, syscall.ENETUNREACH),
		errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ECONNREFUSED):
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
