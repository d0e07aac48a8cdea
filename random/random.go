// Package random is the sole source of entropy and secure zeroization
// for the rest of ssecore. Every other package draws randomness and
// wipes secrets exclusively through this package.
package random

import (
	"crypto/rand"
	"runtime"

	"github.com/pkg/errors"
)

// Bytes returns n cryptographically strong pseudo-random bytes read
// from the operating system's CSPRNG.
func Bytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, errors.Wrap(err, "random: failed to read from CSPRNG")
	}
	return buf, nil
}

// SecureZero overwrites buf with zeroes. The runtime.KeepAlive call
// after the loop keeps the compiler from proving the writes are dead
// and eliding them, which a plain "clear(buf)" is not guaranteed to
// survive once the escape analyzer can see buf is never read again.
func SecureZero(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	runtime.KeepAlive(buf)
}
