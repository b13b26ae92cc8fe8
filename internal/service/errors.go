package service

import (
	"errors"
	"fmt"
)

// Business failures are signalled with sentinel errors so handlers can map
// them to status codes with errors.Is instead of string matching.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrInvalidState        = errors.New("invalid state")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrPaymentNotConfirmed = errors.New("payment not confirmed")
)

// GatewayError wraps a failure reported by the payment processor. The
// operation that hit it is aborted without retry and the gateway's message is
// surfaced to the caller.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway: %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
