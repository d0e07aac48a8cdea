package ssecore

import "errors"

var (
	// ErrInvalidLength indicates a caller-supplied buffer has the wrong size.
	ErrInvalidLength = errors.New("ssecore: invalid length")

	// ErrInvalidArgument indicates an otherwise well-formed argument that
	// violates a documented precondition (empty plaintext, an out-of-range
	// pool order, a pool size of zero).
	ErrInvalidArgument = errors.New("ssecore: invalid argument")

	// ErrInvalidKey indicates that key material failed to parse or failed
	// its own consistency check.
	ErrInvalidKey = errors.New("ssecore: invalid key")

	// ErrAuthenticationFailed indicates an AEAD tag mismatch on decrypt.
	ErrAuthenticationFailed = errors.New("ssecore: authentication failed")

	// ErrInternalCryptoError wraps a failure reported by an underlying
	// big-integer or AEAD primitive. Reaching this in normal operation is
	// not expected; it is surfaced rather than panicked so callers can
	// still handle it.
	ErrInternalCryptoError = errors.New("ssecore: internal crypto error")
)

func IsErrInvalidLength(err error) bool {
	return errors.Is(err, ErrInvalidLength)
}

func IsErrInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsErrInvalidKey(err error) bool {
	return errors.Is(err, ErrInvalidKey)
}

func IsErrAuthenticationFailed(err error) bool {
	return errors.Is(err, ErrAuthenticationFailed)
}

func IsErrInternalCryptoError(err error) bool {
	return errors.Is(err, ErrInternalCryptoError)
}
