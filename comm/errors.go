package comm

import (
	"fmt"

	"github.com/juju/errors"
)

var (
	ErrDestroyed = errors.New("comm destroyed")
	ErrPerformed = errors.New("perform already called on this comm")
)

// ConnectionError is returned by New when any channel fails to open.
type ConnectionError struct {
	Kind Kind
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect channel=%s addr=%s: %v", e.Kind, e.Addr, e.Err)
}
func (e *ConnectionError) Unwrap() error { return e.Err }

// DecodeError is data listener failure on malformed payload.
// Index is 1-based position of the message in the data stream.
type DecodeError struct {
	Index int
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode message=%d: %v", e.Index, e.Err)
}
func (e *DecodeError) Unwrap() error { return e.Err }

func IsConnectionError(err error) bool {
	_, ok := errors.Cause(err).(*ConnectionError)
	return ok
}

func IsDecodeError(err error) bool {
	_, ok := errors.Cause(err).(*DecodeError)
	return ok
}
