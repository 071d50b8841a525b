package robinhood

import (
	"crypto/ed25519"
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrMissingCredential = errors.New("missing required credential")
	ErrInvalidPrivateKey = errors.New("private signing key must be the base64 encoding of exactly 32 bytes")
	ErrInvalidRequest    = errors.New("invalid request descriptor")
)

//
// Credentials holds the API identity and Ed25519 signing key used to authenticate requests against
// the Robinhood crypto trading API. It is immutable once constructed and implements the
// exchange.Signer interface, so a single instance can be shared by any number of goroutines.
//
type Credentials struct {
	apiKey     string
	publicKey  string
	privateKey ed25519.PrivateKey
	now        func() time.Time
}

//
// Signature is the artifact produced by signing a single request. It must never be reused for a
// different request nor replayed later; sign again instead.
//
type Signature struct {
	Signature string
	Timestamp string
}

//
// CredentialOption customizes credentials at construction time.
//
type CredentialOption func(*Credentials)

//
// WithClock replaces the wall clock used to timestamp signatures. It exists for tests.
//
func WithClock(now func() time.Time) CredentialOption {
	return func(o *Credentials) {
		o.now = now
	}
}

//
// NewCredentials validates and decodes the provided API key, base64-encoded 32-byte Ed25519 private
// key (seed), and public key. Any missing value or a private key that does not decode to exactly
// 32 bytes results in an error; the key is never truncated or padded.
//
func NewCredentials(apiKey string, privateKeyB64 string, publicKey string, opts ...CredentialOption) (*Credentials, error) {
	//
	// Make sure every required value was actually provided.
	//
	required := []struct {
		name  string
		value string
	}{
		{APIKeyEnv, apiKey},
		{PrivateKeyEnv, privateKeyB64},
		{PublicKeyEnv, publicKey},
	}

	for _, v := range required {
		if strings.TrimSpace(v.value) == "" {
			return nil, errors.Wrap(ErrMissingCredential, v.name)
		}
	}

	//
	// Decode the private key exactly once. Every signature produced by these credentials will use
	// the very same key material.
	//
	seed, err := base64.StdEncoding.DecodeString(strings.TrimSpace(privateKeyB64))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidPrivateKey, "%s is not valid base64 (%s)", PrivateKeyEnv, err)
	}

	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(ErrInvalidPrivateKey, "%s decoded to %d bytes", PrivateKeyEnv, len(seed))
	}

	o := &Credentials{
		apiKey:     apiKey,
		publicKey:  publicKey,
		privateKey: ed25519.NewKeyFromSeed(seed),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

//
// APIKey returns the raw API key sent in the x-api-key header.
//
func (o *Credentials) APIKey() string {
	return o.apiKey
}

//
// PublicKey returns the configured public key. It is informational only and plays no part in
// signing.
//
func (o *Credentials) PublicKey() string {
	return o.publicKey
}

//
// VerifyingKey returns the Ed25519 public key derived from the private signing key.
//
func (o *Credentials) VerifyingKey() ed25519.PublicKey {
	return o.privateKey.Public().(ed25519.PublicKey)
}

//
// String keeps key material out of logs and formatted errors.
//
func (o *Credentials) String() string {
	return "robinhood.Credentials{api_key: " + o.apiKey + "}"
}

//
// Sign produces a fresh signature over the provided request descriptor, timestamped with the
// current wall clock time in Unix seconds.
//
func (o *Credentials) Sign(path string, method string, body string) (Signature, error) {
	if !strings.HasPrefix(path, "/") {
		return Signature{}, errors.Wrapf(ErrInvalidRequest, "path %q must begin with '/'", path)
	}

	if method != http.MethodGet && method != http.MethodPost {
		return Signature{}, errors.Wrapf(ErrInvalidRequest, "unsupported method %q", method)
	}

	ts := o.now().Unix()
	sig := ed25519.Sign(o.privateKey, []byte(message(o.apiKey, ts, path, method, body)))

	return Signature{
		Signature: base64.StdEncoding.EncodeToString(sig),
		Timestamp: strconv.FormatInt(ts, 10),
	}, nil
}

//
// Headers implements the exchange.Signer interface. The returned headers must be attached verbatim
// to exactly one outbound request.
//
func (o *Credentials) Headers(path string, method string, body string) (http.Header, error) {
	sig, err := o.Sign(path, method, body)
	if err != nil {
		return nil, err
	}

	h := http.Header{}
	h.Set(APIKeyHeader, o.apiKey)
	h.Set(TimestampHeader, sig.Timestamp)
	h.Set(SignatureHeader, sig.Signature)

	return h, nil
}

//
// Verify reports whether the base64-encoded signature is valid for the provided message under the
// provided public key.
//
func Verify(publicKey ed25519.PublicKey, msg string, signatureB64 string) bool {
	sig, err := base64.StdEncoding.DecodeString(signatureB64)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}

	return ed25519.Verify(publicKey, []byte(msg), sig)
}

//
// Message returns the exact byte sequence that is signed for a request: the API key, the decimal
// timestamp, the path, the method, and the body concatenated with no separators.
//
func Message(apiKey string, timestamp string, path string, method string, body string) string {
	return apiKey + timestamp + path + method + body
}

func message(apiKey string, ts int64, path string, method string, body string) string {
	return Message(apiKey, strconv.FormatInt(ts, 10), path, method, body)
}
