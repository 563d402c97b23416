package model

import (
	"errors"
	"fmt"
)

// Fatal errors. Anything else a pass runs into is a Diagnostic.
var (
	ErrMalformedDocument = errors.New("malformed workflow document")
	ErrInvalidCatalog    = errors.New("invalid replacement catalog")
	ErrInvalidRule       = errors.New("invalid patch rule")
	ErrOverwriteInput    = errors.New("refusing to overwrite input file")
	ErrTransportFailure  = errors.New("transport failure")
)

// TransportError is returned when the remote workflow API answers with a
// non-2xx status.
type TransportError struct {
	Status int
	Body   string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%v: HTTP %d: %s", ErrTransportFailure, e.Status, e.Body)
}

func (e *TransportError) StatusCode() int { return e.Status }

func (e *TransportError) Unwrap() error { return ErrTransportFailure }
