package robinhood

import "fmt"

//
// TransportError represents a failure to complete the HTTP exchange at all (DNS, TLS, connection
// resets, timeouts, or a cancelled context). No response was received.
//
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (o *TransportError) Error() string {
	return fmt.Sprintf("%s %s failed: %s", o.Method, o.Path, o.Err)
}

func (o *TransportError) Unwrap() error {
	return o.Err
}

//
// DecodeError represents a response payload that did not match the shape expected for an
// operation. The operation never returns a partially populated result alongside it.
//
type DecodeError struct {
	Operation string
	Body      []byte
	Err       error
}

func (o *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s response: %s", o.Operation, o.Err)
}

func (o *DecodeError) Unwrap() error {
	return o.Err
}
