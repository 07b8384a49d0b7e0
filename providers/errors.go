package providers

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed Magento call.
type ErrorKind string

const (
	KindAuthenticationFailed ErrorKind = "authentication_failed"
	KindNotFound             ErrorKind = "not_found"
	KindRemoteRejected       ErrorKind = "remote_rejected"
	KindGatewayTimeout       ErrorKind = "gateway_timeout"
	KindGatewayUnreachable   ErrorKind = "gateway_unreachable"
)

// MaxErrorBodyLen bounds remote error bodies carried into user-visible messages.
const MaxErrorBodyLen = 100

// ErrMissingCredentials is returned when the auth block lacks what its scheme needs.
var ErrMissingCredentials = errors.New("missing Magento credentials")

// GatewayError is returned by CatalogGateway implementations for every failed call.
type GatewayError struct {
	Kind   ErrorKind
	Status int
	Body   string
	Err    error
}

func (e *GatewayError) Error() string {
	switch e.Kind {
	case KindRemoteRejected:
		return fmt.Sprintf("magento API error (status %d): %s", e.Status, e.Body)
	case KindGatewayTimeout, KindGatewayUnreachable:
		return fmt.Sprintf("magento %s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("magento %s (status %d)", e.Kind, e.Status)
	}
}

func (e *GatewayError) Unwrap() error { return e.Err }

// KindOf reports the gateway error kind carried by err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Kind, true
	}
	return "", false
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
