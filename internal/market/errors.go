package market

import (
	"errors"
	"fmt"
)

// ErrUnknownResource is returned by Definition for resource names it does not serve
var ErrUnknownResource = errors.New("unknown market resource")

// DecodeError is returned when an API payload does not match the expected shape
type DecodeError struct {
	Resource string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s payload: %v", e.Resource, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeFailure marks the error for metrics categorisation
func (e *DecodeError) DecodeFailure() bool { return true }
