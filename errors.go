package u2f

import (
	"github.com/gravitational/trace"
)

// Kind identifies the class of failure a verification step raised. Callers
// should branch on Kind rather than on error message text.
type Kind string

// The error taxonomy a caller may observe. There is no nested hierarchy:
// every failure is exactly one of these kinds.
const (
	// KindMemory covers nil/invalid-argument misuse and random-source
	// failures -- the closest Go analogue to the C core's allocation
	// failures.
	KindMemory Kind = "memory_error"
	// KindJSON covers a missing or mistyped JSON key, or an unparseable
	// JSON body.
	KindJSON Kind = "json_error"
	// KindChallenge covers a challenge mismatch, or a wrong-length
	// challenge passed to SetChallenge.
	KindChallenge Kind = "challenge_error"
	// KindOrigin covers an origin mismatch.
	KindOrigin Kind = "origin_error"
	// KindFormat covers any binary framing violation.
	KindFormat Kind = "format_error"
	// KindSignature covers an ECDSA verification failure.
	KindSignature Kind = "signature_error"
	// KindCrypto covers SHA-256/key-decoding infrastructure failures.
	KindCrypto Kind = "crypto_error"
)

// Error is the error type returned by every verification and ceremony-setup
// operation in this package. It carries a stable Kind plus a stack trace
// from the point it was raised.
type Error struct {
	kind  Kind
	trace trace.Error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return string(e.kind) + ": " + e.trace.Error()
}

// Kind reports the taxonomy class of the error.
func (e *Error) Kind() Kind {
	if e == nil {
		return ""
	}
	return e.kind
}

// Unwrap exposes the underlying cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.trace
}

func wrapErr(kind Kind, err error, format string, args ...interface{}) *Error {
	if err == nil {
		err = trace.Errorf(format, args...)
	}
	return &Error{
		kind:  kind,
		trace: trace.Wrap(err, format, args...),
	}
}

func newFormatError(format string, args ...interface{}) *Error {
	return wrapErr(KindFormat, nil, format, args...)
}

func newJSONError(err error, format string, args ...interface{}) *Error {
	return wrapErr(KindJSON, err, format, args...)
}

func newChallengeError(format string, args ...interface{}) *Error {
	return wrapErr(KindChallenge, nil, format, args...)
}

func newOriginError(format string, args ...interface{}) *Error {
	return wrapErr(KindOrigin, nil, format, args...)
}

func newSignatureError(format string, args ...interface{}) *Error {
	return wrapErr(KindSignature, nil, format, args...)
}

func newCryptoError(err error, format string, args ...interface{}) *Error {
	return wrapErr(KindCrypto, err, format, args...)
}

func newMemoryError(format string, args ...interface{}) *Error {
	return wrapErr(KindMemory, nil, format, args...)
}
