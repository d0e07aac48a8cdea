// Package cipher implements a wide-nonce authenticated cipher over
// ChaCha20-Poly1305. A 16-byte random nonce is expanded through the PRF
// into a fresh 32-byte sub-key and 12-byte sub-nonce for the underlying
// AEAD, which lets nonces be generated at random instead of requiring
// per-key state to avoid reuse.
package cipher

import (
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/pkg/errors"

	"github.com/brendoncarroll/ssecore"
	"github.com/brendoncarroll/ssecore/key"
	"github.com/brendoncarroll/ssecore/prf"
	"github.com/brendoncarroll/ssecore/random"
)

// KeySize is the length in bytes of the key required by New.
const KeySize = 32

// nonceSize is the size of the wide, randomly generated nonce prefixed
// to every ciphertext.
const nonceSize = 16

// CiphertextExpansion is the number of bytes Encrypt adds to a
// plaintext: nonceSize bytes of nonce plus the AEAD's own tag.
const CiphertextExpansion = nonceSize + chacha20poly1305.Overhead

// subKeyDomainLabel separates sub-key derivation from any other future
// use of the same PRF construction over the cipher key.
const subKeyDomainLabel = 0x01

// Cipher holds a 256-bit key for its lifetime and derives a fresh
// ChaCha20-Poly1305 sub-key and sub-nonce from that key and a random
// nonce on every call.
type Cipher struct {
	key []byte
}

// New requires k to hold exactly KeySize bytes and consumes it with
// Reveal.
func New(k *key.Secret) (*Cipher, error) {
	if k.Len() != KeySize {
		return nil, errors.Wrapf(ssecore.ErrInvalidKey, "cipher: expected %d byte key, got %d", KeySize, k.Len())
	}
	raw, err := k.Reveal()
	if err != nil {
		return nil, err
	}
	return &Cipher{key: raw}, nil
}

// CiphertextLength returns the length of the ciphertext Encrypt
// produces for a plaintext of length plaintextLen.
func CiphertextLength(plaintextLen int) int {
	return plaintextLen + CiphertextExpansion
}

// PlaintextLength returns the length of the plaintext Decrypt produces
// for a ciphertext of length ciphertextLen, or 0 if ciphertextLen is
// too small to hold a valid ciphertext.
func PlaintextLength(ciphertextLen int) int {
	if ciphertextLen <= CiphertextExpansion {
		return 0
	}
	return ciphertextLen - CiphertextExpansion
}

// subKeys derives the 32-byte AEAD sub-key and 12-byte sub-nonce used
// for one particular wide nonce.
func (c *Cipher) subKeys(nonce []byte) (subKey, subNonce []byte, err error) {
	expanded, err := prf.Expand(c.key, 32+chacha20poly1305.NonceSize, append([]byte{subKeyDomainLabel}, nonce...))
	if err != nil {
		return nil, nil, errors.Wrap(ssecore.ErrInternalCryptoError, err.Error())
	}
	return expanded[:32], expanded[32:], nil
}

// Encrypt computes the ciphertext of in: a random 16-byte nonce
// followed by the ChaCha20-Poly1305 sealing of in under the sub-key and
// sub-nonce derived from that nonce. in must be non-empty.
func (c *Cipher) Encrypt(in []byte) ([]byte, error) {
	if len(in) == 0 {
		return nil, errors.Wrap(ssecore.ErrInvalidArgument, "cipher: cannot encrypt an empty plaintext")
	}

	nonce, err := random.Bytes(nonceSize)
	if err != nil {
		return nil, err
	}
	subKey, subNonce, err := c.subKeys(nonce)
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.New(subKey)
	if err != nil {
		return nil, errors.Wrap(ssecore.ErrInternalCryptoError, err.Error())
	}

	out := make([]byte, 0, CiphertextLength(len(in)))
	out = append(out, nonce...)
	out = aead.Seal(out, subNonce, in, nil)
	return out, nil
}

// Decrypt recovers the plaintext from a ciphertext produced by Encrypt.
// in must be at least CiphertextExpansion+1 bytes long.
func (c *Cipher) Decrypt(in []byte) ([]byte, error) {
	if len(in) <= CiphertextExpansion {
		return nil, errors.Wrap(ssecore.ErrInvalidArgument, "cipher: ciphertext too short")
	}

	nonce := in[:nonceSize]
	sealed := in[nonceSize:]

	subKey, subNonce, err := c.subKeys(nonce)
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.New(subKey)
	if err != nil {
		return nil, errors.Wrap(ssecore.ErrInternalCryptoError, err.Error())
	}

	out, err := aead.Open(nil, subNonce, sealed, nil)
	if err != nil {
		return nil, errors.Wrap(ssecore.ErrAuthenticationFailed, "cipher: tag mismatch")
	}
	return out, nil
}

// Close wipes the retained key. It is safe to call more than once.
func (c *Cipher) Close() {
	random.SecureZero(c.key)
	c.key = nil
}
