package tdp

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"math/big"

	"github.com/pkg/errors"

	"github.com/brendoncarroll/ssecore"
)

const privateKeyPEMType = "RSA PRIVATE KEY"

// Inverse is the private half of a trapdoor permutation: it can invert
// Core.Eval, and invert k successive applications of it at once
// without repeating the inversion k times.
type Inverse struct {
	Core
	priv    *rsa.PrivateKey
	pMinus1 *big.Int
	qMinus1 *big.Int
}

func newInverse(priv *rsa.PrivateKey) (*Inverse, error) {
	if len(priv.Primes) != 2 {
		return nil, errors.Wrap(ssecore.ErrInvalidKey, "tdp: only two-prime RSA keys are supported")
	}
	if err := priv.Validate(); err != nil {
		return nil, errors.Wrap(ssecore.ErrInvalidKey, err.Error())
	}
	priv.Precompute()

	one := big.NewInt(1)
	p, q := priv.Primes[0], priv.Primes[1]

	return &Inverse{
		Core:    Core{n: priv.N, e: big.NewInt(int64(priv.E))},
		priv:    priv,
		pMinus1: new(big.Int).Sub(p, one),
		qMinus1: new(big.Int).Sub(q, one),
	}, nil
}

// GenerateInverse generates a fresh two-prime RSA key of the given bit
// length (ModulusBits for the library's fixed message size) and its
// associated CRT precomputation.
func GenerateInverse(bits int) (*Inverse, error) {
	priv, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, errors.Wrap(ssecore.ErrInternalCryptoError, err.Error())
	}
	return newInverse(priv)
}

// NewInverseFromPrivateKeyPEM parses a PKCS#1-encoded RSA private key.
func NewInverseFromPrivateKeyPEM(data []byte) (*Inverse, error) {
	priv, err := parsePrivateKeyPEM(data)
	if err != nil {
		return nil, err
	}
	return newInverse(priv)
}

func parsePrivateKeyPEM(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.Wrap(ssecore.ErrInvalidKey, "tdp: no PEM block found")
	}
	priv, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, errors.Wrap(ssecore.ErrInvalidKey, err.Error())
	}
	return priv, nil
}

// PrivateKeyPEM serializes the key as PKCS#1/PEM.
func (inv *Inverse) PrivateKeyPEM() (string, error) {
	der := x509.MarshalPKCS1PrivateKey(inv.priv)
	block := &pem.Block{Type: privateKeyPEMType, Bytes: der}
	return string(pem.EncodeToMemory(block)), nil
}

// crtRecombine implements m = m2 + ((m1 - m2) * qInv mod p) * q, the
// standard two-prime CRT recombination.
func crtRecombine(m1, m2, p, q, qInv *big.Int) *big.Int {
	h := new(big.Int).Sub(m1, m2)
	h.Mul(h, qInv)
	h.Mod(h, p)

	m := new(big.Int).Mul(h, q)
	m.Add(m, m2)
	return m
}

// Invert computes the RSA private-key operation on y via CRT, using
// the key's precomputed Dp, Dq and Qinv. y is used as-is: it is not
// reduced modulo N, so callers must supply a value already in [0, N).
func (inv *Inverse) Invert(y []byte) ([]byte, error) {
	if len(y) != MessageSize {
		return nil, errors.Wrapf(ssecore.ErrInvalidArgument, "tdp: input must be %d bytes", MessageSize)
	}
	c := new(big.Int).SetBytes(y)

	p := inv.priv.Primes[0]
	q := inv.priv.Primes[1]
	dP := inv.priv.Precomputed.Dp
	dQ := inv.priv.Precomputed.Dq
	qInv := inv.priv.Precomputed.Qinv

	m1 := new(big.Int).Exp(c, dP, p)
	m2 := new(big.Int).Exp(c, dQ, q)

	m := crtRecombine(m1, m2, p, q, qInv)
	return encodeFixed(m), nil
}

// insecureModExpU32 computes base^exp mod mod by square-and-multiply,
// ported directly from mbedTLS's insecure_mod_exp helper so that it
// works with the even moduli p-1 and q-1. It leaks exp through timing
// and must only ever be used with a public k.
func insecureModExpU32(base *big.Int, exp uint32, mod *big.Int) *big.Int {
	x := big.NewInt(1)
	b := new(big.Int).Mod(base, mod)

	for exp > 0 {
		if exp&1 == 1 {
			x.Mul(x, b)
			x.Mod(x, mod)
		}
		exp >>= 1
		b.Mul(b, b)
		b.Mod(b, mod)
	}
	return x
}

// InvertMult applies Invert k times without repeating the modular
// exponentiation k times: it adjusts the CRT exponents to dP^k mod
// (p-1) and dQ^k mod (q-1) using insecureModExpU32, then performs a
// single CRT recombination. InvertMult(y, 0) returns y unchanged. y is
// not reduced modulo N.
func (inv *Inverse) InvertMult(y []byte, k uint32) ([]byte, error) {
	if len(y) != MessageSize {
		return nil, errors.Wrapf(ssecore.ErrInvalidArgument, "tdp: input must be %d bytes", MessageSize)
	}
	if k == 0 {
		out := make([]byte, MessageSize)
		copy(out, y)
		return out, nil
	}

	c := new(big.Int).SetBytes(y)

	p := inv.priv.Primes[0]
	q := inv.priv.Primes[1]
	qInv := inv.priv.Precomputed.Qinv

	dPk := insecureModExpU32(inv.priv.Precomputed.Dp, k, inv.pMinus1)
	dQk := insecureModExpU32(inv.priv.Precomputed.Dq, k, inv.qMinus1)

	m1 := new(big.Int).Exp(c, dPk, p)
	m2 := new(big.Int).Exp(c, dQk, q)

	m := crtRecombine(m1, m2, p, q, qInv)
	return encodeFixed(m), nil
}
