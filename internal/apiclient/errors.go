package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind classifies a failed request. The three kinds are mutually exclusive:
// a call fails in exactly one of these ways.
type Kind int

const (
	// KindSetup - the request was never sent (bad method, unparsable URL,
	// body could not be marshaled).
	KindSetup Kind = iota

	// KindNetwork - the request was sent but no response arrived (connection
	// failure or timeout).
	KindNetwork

	// KindServer - the server responded with a non-2xx status.
	KindServer
)

var kindNames = []string{"setup", "network", "server"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// RequestError is returned for every failed call. The client only observes
// and logs the failure before returning it - recovery policy (retry,
// redirect to login, user messaging) belongs to the caller.
type RequestError struct {
	Kind       Kind
	StatusCode int       // 0 unless a response was received
	Op         string    // request summary, e.g. "GET /health"
	Response   *Response // the server's response, set only for KindServer
	Err        error     // underlying cause, nil for pure status errors
}

func (e *RequestError) Error() string {
	switch e.Kind {
	case KindServer:
		return fmt.Sprintf("%s: server responded with status %d", e.Op, e.StatusCode)
	case KindNetwork:
		return fmt.Sprintf("%s: no response: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: request setup failed: %v", e.Op, e.Err)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Timeout reports whether a network failure was caused by the configured
// timeout (or a context deadline) expiring.
func (e *RequestError) Timeout() bool {
	if e.Kind != KindNetwork {
		return false
	}
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// IsUnauthorized reports whether the server rejected the call with a 401.
// Reacting to this (e.g. re-authenticating) is the caller's concern.
func (e *RequestError) IsUnauthorized() bool {
	return e.Kind == KindServer && e.StatusCode == http.StatusUnauthorized
}

// IsServerFault reports whether the server responded with a 5xx status.
func (e *RequestError) IsServerFault() bool {
	return e.Kind == KindServer && e.StatusCode >= 500
}
