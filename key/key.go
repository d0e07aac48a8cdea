// Package key implements Secret, a scoped owner of secret bytes that is
// wiped on every exit path and cannot be copied by value.
package key

import (
	"github.com/pkg/errors"

	"github.com/brendoncarroll/ssecore"
	"github.com/brendoncarroll/ssecore/random"
)

// Secret owns exactly Len() bytes of secret material. It must be
// constructed with New, consumed exactly once with Reveal by a
// primitive constructor, and is safe to Drop any number of times.
//
// Secret embeds noCopy so `go vet` flags accidental copies by value,
// the same defensive idiom the standard library uses for sync.Mutex
// and sync.WaitGroup.
type Secret struct {
	_    noCopy
	b    []byte
	used bool
}

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// New copies src (length bytes) into a freshly owned buffer and wipes
// src in place. It fails with ssecore.ErrInvalidLength if len(src) !=
// length.
func New(length int, src []byte) (*Secret, error) {
	if len(src) != length {
		return nil, errors.Wrapf(ssecore.ErrInvalidLength,
			"key: expected %d bytes, got %d", length, len(src))
	}
	b := make([]byte, length)
	copy(b, src)
	random.SecureZero(src)
	return &Secret{b: b}, nil
}

// Len returns the number of secret bytes still owned by s.
func (s *Secret) Len() int {
	return len(s.b)
}

// Reveal hands ownership of the underlying bytes to the caller and
// empties s. Calling Reveal a second time returns an error: a Secret is
// meant to be consumed exactly once by a primitive constructor.
func (s *Secret) Reveal() ([]byte, error) {
	if s.used {
		return nil, errors.New("key: secret already consumed")
	}
	s.used = true
	out := s.b
	s.b = nil
	return out, nil
}

// Drop wipes any remaining secret bytes. It is a no-op if the secret
// has already been revealed or dropped.
func (s *Secret) Drop() {
	if s.b != nil {
		random.SecureZero(s.b)
		s.b = nil
	}
	s.used = true
}
