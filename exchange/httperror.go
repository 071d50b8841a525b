package exchange

import "fmt"

//
// HTTPError represents an error due to a non-2xx response from an API endpoint. When dealing with
// cryptocurrency brokerage APIs, such a response almost always means that something critically
// wrong has occurred (a rejected signature, a malformed order, an unknown order id, etc.).
//
type HTTPError struct {
	statusCode int
	body       []byte
	apiErr     APIError
}

//
// NewHTTPError instantiates an HTTP error for the provided status code. The raw response body and
// the decoded API error (if the body held one) are optional and may be nil.
//
func NewHTTPError(statusCode int, body []byte, apiErr APIError) *HTTPError {
	return &HTTPError{
		statusCode: statusCode,
		body:       body,
		apiErr:     apiErr,
	}
}

func (o *HTTPError) StatusCode() int {
	return o.statusCode
}

//
// Body returns the raw response payload that accompanied the failing status code.
//
func (o *HTTPError) Body() []byte {
	return o.body
}

//
// API returns the first-class error that the endpoint provided in its response payload, or nil if
// the payload did not hold one.
//
func (o *HTTPError) API() APIError {
	return o.apiErr
}

func (o *HTTPError) Error() string {
	if o.apiErr != nil {
		return fmt.Sprintf("server responded with a %d status code (%s)", o.statusCode, o.apiErr.Error())
	}

	return fmt.Sprintf("server responded with a %d status code", o.statusCode)
}

//
// Unwrap exposes the decoded API error (if any) to errors.As and errors.Is.
//
func (o *HTTPError) Unwrap() error {
	if o.apiErr == nil {
		return nil
	}

	return o.apiErr
}
