package didcomm

import "errors"

// Sentinel errors identifying the tagged failure kinds every fallible
// operation in the envelope pipeline surfaces. Callers discriminate with
// errors.Is; the wrapped text is for humans, never parsed.
var (
	// ErrGeneric covers structural violations with a human-readable reason:
	// a missing required field, an arity mismatch.
	ErrGeneric = errors.New("didcomm: generic error")

	// ErrJwsParse covers any JWS structural or verification failure.
	ErrJwsParse = errors.New("didcomm: jws parse error")

	// ErrJweParse covers JWE structural failures, and also a missing or
	// unresolvable "alg" during JWS verification (historical quirk carried
	// over from the original implementation, not a typo to be fixed here).
	ErrJweParse = errors.New("didcomm: jwe parse error")

	// ErrPlugCryptoFailure is returned when an injected cipher or signer
	// callable reports failure. On the decrypt path the concrete cause is
	// never returned, only handed to an injected logger, to avoid leaking
	// padding/MAC-oracle signal to the caller; Encrypt and Sign include the
	// cause's text in the wrapped error.
	ErrPlugCryptoFailure = errors.New("didcomm: plug-in crypto failure")

	// ErrTime is returned when the wall clock precedes the Unix epoch.
	ErrTime = errors.New("didcomm: clock precedes unix epoch")
)

// Generic wraps msg as an ErrGeneric failure.
func Generic(msg string) error {
	return &wrappedError{kind: ErrGeneric, msg: msg}
}

type wrappedError struct {
	kind error
	msg  string
}

func (e *wrappedError) Error() string {
	if e.msg == "" {
		return e.kind.Error()
	}
	return e.kind.Error() + ": " + e.msg
}

func (e *wrappedError) Unwrap() error {
	return e.kind
}
