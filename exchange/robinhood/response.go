package robinhood

import (
	"net/http"
)

//
// Response implements the exchange.Response interface for wrapped responses from the Robinhood
// crypto trading API.
//
type Response struct {
	response *http.Response
	body     []byte
}

func (o *Response) Raw() *http.Response {
	return o.response
}

func (o *Response) Body() []byte {
	return o.body
}
