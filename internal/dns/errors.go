package dns

import (
	"errors"
	"fmt"
)

// ErrUnexpectedStatus is wrapped by registrar errors caused by a non-success HTTP status.
var ErrUnexpectedStatus = errors.New("unexpected status")

// FetchError is returned when the current records of a domain cannot be read.
type FetchError struct {
	Domain string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching records for %s: %v", e.Domain, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// PushError is returned when a record set could not be published.
type PushError struct {
	Domain string
	Err    error
}

func (e *PushError) Error() string {
	return fmt.Sprintf("pushing records for %s: %v", e.Domain, e.Err)
}

func (e *PushError) Unwrap() error { return e.Err }
