package exchange

//
// APIError generically provides an interface to objects that represent a first-class error provided
// in the response of a request against a cryptocurrency brokerage's API.
//
type APIError interface {
	error

	//
	// ErrorType returns the error category provided by the API (e.g. "validation_error"), if there
	// was one.
	//
	ErrorType() string

	//
	// ErrorMessage returns the human-readable error detail(s) provided by the API, if there were
	// any.
	//
	ErrorMessage() string
}
