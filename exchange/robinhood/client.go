package robinhood

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lukehollenback/gosling/exchange"
	"github.com/pkg/errors"
)

var (
	_ exchange.Signer   = (*Credentials)(nil)
	_ exchange.Response = (*Response)(nil)
	_ exchange.APIError = (*APIError)(nil)
)

//
// Client is a binding to the Robinhood crypto trading REST API. Every request it makes is signed by
// the signer it was constructed with. A Client holds no mutable state and is safe for concurrent
// use.
//
// Whenever an endpoint fails – whether due to a transport failure, an HTTP error, or a payload that
// does not decode – the typed result is nil (or zero) and the error describes what happened. See
// TransportError, exchange.HTTPError, and DecodeError.
//
type Client struct {
	signer     exchange.Signer
	baseURL    string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
}

//
// Option customizes a Client at construction time.
//
type Option func(*Client)

//
// WithBaseURL points the client at an alternate origin (e.g. a test server).
//
func WithBaseURL(baseURL string) Option {
	return func(o *Client) {
		o.baseURL = strings.TrimRight(baseURL, "/")
	}
}

//
// WithHTTPClient replaces the HTTP client used to execute requests.
//
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *Client) {
		o.httpClient = httpClient
	}
}

//
// WithTimeout sets an overall timeout on each HTTP exchange.
//
func WithTimeout(timeout time.Duration) Option {
	return func(o *Client) {
		o.timeout = timeout
	}
}

//
// WithUserAgent sets the User-Agent header sent with each request.
//
func WithUserAgent(userAgent string) Option {
	return func(o *Client) {
		o.userAgent = userAgent
	}
}

//
// NewClient instantiates a client that signs every request with the provided signer (normally a
// *Credentials).
//
func NewClient(signer exchange.Signer, opts ...Option) *Client {
	o := &Client{
		signer:     signer,
		baseURL:    BaseURL,
		httpClient: &http.Client{},
	}

	for _, opt := range opts {
		opt(o)
	}

	// NOTE ~> The HTTP client is copied so that a timeout never leaks into a caller-provided client.
	if o.timeout > 0 {
		httpClient := *o.httpClient
		httpClient.Timeout = o.timeout
		o.httpClient = &httpClient
	}

	return o
}

//
// call makes the specified request, encoding the provided input (if non-nil) as the JSON body and
// decoding the successful response payload into out (if non-nil).
//
func (o *Client) call(ctx context.Context, operation string, method string, path string, in interface{}, out interface{}) (*Response, error) {
	//
	// Serialize the request body. The exact bytes produced here are both signed and sent.
	//
	var body []byte

	if in != nil {
		var err error

		body, err = json.Marshal(in)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode %s request", operation)
		}
	}

	//
	// Make the endpoint request and handle any errors along the way.
	//
	resp, err := o.request(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	if out == nil {
		return resp, nil
	}

	//
	// Parse the response.
	//
	if err := json.Unmarshal(resp.body, out); err != nil {
		return nil, &DecodeError{Operation: operation, Body: resp.body, Err: err}
	}

	if v, ok := out.(validator); ok {
		if err := v.validate(); err != nil {
			return nil, &DecodeError{Operation: operation, Body: resp.body, Err: err}
		}
	}

	return resp, nil
}

//
// request makes the specified request to the Robinhood API and returns a wrapped response and/or an
// error if something went wrong. Headers are produced fresh for every call; a retried request must
// go through here again so that it is re-signed with a new timestamp.
//
func (o *Client) request(ctx context.Context, method string, path string, body []byte) (*Response, error) {
	//
	// Sign the request.
	//
	headers, err := o.signer.Headers(path, method, string(body))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to sign %s %s", method, path)
	}

	//
	// Build the request.
	//
	var reader io.Reader

	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, o.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build %s %s", method, path)
	}

	for k, v := range headers {
		req.Header[k] = v
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if o.userAgent != "" {
		req.Header.Set("User-Agent", o.userAgent)
	}

	//
	// Make a request to the endpoint.
	//
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}

	defer resp.Body.Close()

	//
	// Read the response.
	//
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}

	wrappedResp := &Response{
		response: resp,
		body:     respBody,
	}

	//
	// Make sure the status code was a success. If not, check the payload for an API error so the
	// caller gets as much detail as possible.
	//
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr *APIError

		_ = json.Unmarshal(respBody, &apiErr)

		if apiErr.populated() {
			return wrappedResp, exchange.NewHTTPError(resp.StatusCode, respBody, apiErr)
		}

		return wrappedResp, exchange.NewHTTPError(resp.StatusCode, respBody, nil)
	}

	return wrappedResp, nil
}

//
// validator is implemented by response payloads that can tell whether a successful decode actually
// produced a complete result.
//
type validator interface {
	validate() error
}
