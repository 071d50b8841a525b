package exchange

import "net/http"

//
// Signer generically provides an interface to objects that can authenticate an outbound request
// against a brokerage's API. Implementations must be safe for concurrent use and must produce fresh
// headers on every call, as signatures are normally bound to the moment they were produced.
//
type Signer interface {

	//
	// Headers returns the authentication headers for a request with the provided path (including
	// any encoded query string), upper-case HTTP method, and raw body ("" when there is none).
	//
	Headers(path string, method string, body string) (http.Header, error)
}
