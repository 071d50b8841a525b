package robinhood

import (
	"fmt"
	"strings"
)

//
// APIError implements the exchange.APIError interface for errors returned from Robinhood crypto
// trading API calls.
//
type APIError struct {
	Type   string        `json:"type"`
	Errors []ErrorDetail `json:"errors"`
}

//
// ErrorDetail is a single problem reported by the API. Attr names the offending request field and is
// empty for errors that are not tied to one.
//
type ErrorDetail struct {
	Detail string `json:"detail"`
	Attr   string `json:"attr"`
}

func (o *APIError) ErrorType() string {
	return o.Type
}

func (o *APIError) ErrorMessage() string {
	msgs := make([]string, 0, len(o.Errors))

	for _, e := range o.Errors {
		if e.Attr != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s", e.Attr, e.Detail))
		} else {
			msgs = append(msgs, e.Detail)
		}
	}

	return strings.Join(msgs, "; ")
}

func (o *APIError) Error() string {
	return fmt.Sprintf(
		"the Robinhood endpoint returned an API error (type: %s, message: %s)",
		o.ErrorType(), o.ErrorMessage(),
	)
}

//
// populated returns whether or not the structure appears to actually hold an error. This is useful
// when determining whether or not the deserialized response payload was actually an error that fit
// into the structure's model or not.
//
func (o *APIError) populated() bool {
	return o != nil && o.Type != "" && len(o.Errors) > 0
}
