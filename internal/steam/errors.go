package steam

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrNotFound means the call succeeded but there was nothing to return.
	ErrNotFound = errors.New("steam: not found")
	// ErrTimeout means the upstream did not answer within the client timeout.
	ErrTimeout = errors.New("steam: timeout")
	// ErrUnavailable covers transport faults and non-2xx responses.
	ErrUnavailable = errors.New("steam: unavailable")
	// ErrDecode means the upstream answered with a body we could not parse.
	ErrDecode = errors.New("steam: malformed response")
)

// StatusError is returned for non-2xx upstream responses. It matches ErrUnavailable.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("steam: API error: status %d, body: %s", e.Code, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUnavailable
}

// classify maps a raw transport error onto ErrTimeout or ErrUnavailable,
// keeping the original error in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnavailable) || errors.Is(err, ErrDecode) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// IsTransport reports whether err is a timeout or transport fault rather
// than a clean "nothing found".
func IsTransport(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnavailable) || errors.Is(err, ErrDecode)
}
