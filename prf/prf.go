// Package prf implements a keyed pseudo-random function built on
// HMAC-SHA-512, with an output length chosen by the caller instead of
// fixed to the hash size.
package prf

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/brendoncarroll/ssecore"
	"github.com/brendoncarroll/ssecore/key"
	"github.com/brendoncarroll/ssecore/random"
)

// KeySize is the key length required by New. Expand itself accepts any
// key length, matching plain HMAC's own contract.
const KeySize = 32

// blockSize is the native HMAC-SHA-512 output size; Expand falls back
// to counter-mode block expansion above this.
const blockSize = sha512.Size

// Expand computes a keyed pseudo-random string of outputLen bytes from
// key and input. For outputLen <= 64 it is a direct truncation of
// HMAC-SHA-512(key, input); larger outputs are produced by
// concatenating HMAC-SHA-512(key, input || be-uint32(i)) for
// i = 0, 1, 2, ... until enough bytes have been generated.
func Expand(k []byte, outputLen int, input []byte) ([]byte, error) {
	if outputLen < 0 {
		return nil, errors.Wrap(ssecore.ErrInvalidArgument, "prf: negative output length")
	}
	if outputLen <= blockSize {
		mac := hmac.New(sha512.New, k)
		mac.Write(input)
		return mac.Sum(nil)[:outputLen], nil
	}

	out := make([]byte, 0, outputLen+blockSize)
	var ctr [4]byte
	for i := uint32(0); len(out) < outputLen; i++ {
		binary.BigEndian.PutUint32(ctr[:], i)
		mac := hmac.New(sha512.New, k)
		mac.Write(input)
		mac.Write(ctr[:])
		out = mac.Sum(out)
	}
	return out[:outputLen], nil
}

// PRF is a stateful wrapper around Expand that retains a 32-byte key
// for repeated use and wipes it on Close.
type PRF struct {
	key       []byte
	outputLen int
}

// New requires k to hold exactly KeySize bytes, consumes it with
// Reveal, and returns a PRF that produces outputLen bytes per Compute
// call.
func New(k *key.Secret, outputLen int) (*PRF, error) {
	if k.Len() != KeySize {
		return nil, errors.Wrapf(ssecore.ErrInvalidKey, "prf: expected %d byte key, got %d", KeySize, k.Len())
	}
	if outputLen < 0 {
		return nil, errors.Wrap(ssecore.ErrInvalidArgument, "prf: negative output length")
	}
	raw, err := k.Reveal()
	if err != nil {
		return nil, err
	}
	return &PRF{key: raw, outputLen: outputLen}, nil
}

// Compute returns the outputLen-byte pseudo-random string for input.
func (p *PRF) Compute(input []byte) []byte {
	out, err := Expand(p.key, p.outputLen, input)
	if err != nil {
		// Expand only fails on a negative output length, which New
		// already rejects.
		panic(err)
	}
	return out
}

// Close wipes the retained key. It is safe to call more than once.
func (p *PRF) Close() {
	random.SecureZero(p.key)
	p.key = nil
}
