package robinhood

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

//
// Float is a decimal value that the API transmits as a bare JSON number rather than as a string.
// It is decoded straight from the number's literal text, so no precision is lost to float64.
//
type Float struct {
	decimal.Decimal
}

//
// NewFloat wraps the provided decimal.
//
func NewFloat(d decimal.Decimal) Float {
	return Float{Decimal: d}
}

//
// MarshalJSON implements the json.Marshaler interface. The value is written as an unquoted number.
//
func (o Float) MarshalJSON() ([]byte, error) {
	return []byte(o.Decimal.String()), nil
}

//
// UnmarshalJSON implements the json.Unmarshaler interface. Numbers are expected, but a quoted number
// is tolerated so that a change in the upstream representation does not break decoding.
//
func (o *Float) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return errors.New("cannot decode null into a non-optional number")
	}

	return o.Decimal.UnmarshalJSON(data)
}
