// Package errortypes defines the typed errors the engine returns, so
// callers can tell business outcomes from infrastructure failures without
// string matching.
package errortypes

import "errors"

// Error codes returned by Code(). Stable values, safe to log and compare.
const (
	UnknownErrorCode = iota
	NotFoundErrorCode
	InvalidInputErrorCode
	CapExceededErrorCode
	UpstreamUnavailableErrorCode
)

// Coder is implemented by every error in this package.
type Coder interface {
	error
	Code() int
}

// NotFound means a referenced entity does not exist. Fatal for the call;
// no partial state is created.
type NotFound struct {
	Message string
}

func (err *NotFound) Error() string {
	return err.Message
}

func (err *NotFound) Code() int {
	return NotFoundErrorCode
}

// InvalidInput means the caller supplied a request the engine cannot act
// on, e.g. auctioning a request that is not pending.
type InvalidInput struct {
	Message string
}

func (err *InvalidInput) Error() string {
	return err.Message
}

func (err *InvalidInput) Code() int {
	return InvalidInputErrorCode
}

// CapExceeded means a frequency cap rejected the event. Inside the
// auction this is handled locally; it surfaces only from the standalone
// record-event API.
type CapExceeded struct {
	Message string
}

func (err *CapExceeded) Error() string {
	return err.Message
}

func (err *CapExceeded) Code() int {
	return CapExceededErrorCode
}

// UpstreamUnavailable means the persistent store (or another collaborator)
// failed or timed out. The operation must be treated as failed, never as
// "assume allowed".
type UpstreamUnavailable struct {
	Message string
	Cause   error
}

func (err *UpstreamUnavailable) Error() string {
	return err.Message
}

func (err *UpstreamUnavailable) Code() int {
	return UpstreamUnavailableErrorCode
}

func (err *UpstreamUnavailable) Unwrap() error {
	return err.Cause
}

// ReadCode extracts the error code, returning UnknownErrorCode for plain
// errors.
func ReadCode(err error) int {
	var c Coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return UnknownErrorCode
}

// IsNotFound reports whether err is a NotFound anywhere in its chain.
func IsNotFound(err error) bool {
	var target *NotFound
	return errors.As(err, &target)
}

// IsCapExceeded reports whether err is a CapExceeded anywhere in its chain.
func IsCapExceeded(err error) bool {
	var target *CapExceeded
	return errors.As(err, &target)
}

// IsUpstreamUnavailable reports whether err is an UpstreamUnavailable
// anywhere in its chain.
func IsUpstreamUnavailable(err error) bool {
	var target *UpstreamUnavailable
	return errors.As(err, &target)
}
