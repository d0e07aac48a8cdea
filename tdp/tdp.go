// Package tdp implements an RSA trapdoor permutation family: forward
// evaluation over a public key, private inversion, k-fold inversion,
// and a pool of public keys related by successive powers of a fixed
// public exponent.
package tdp

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"math/big"

	"github.com/pkg/errors"

	"github.com/brendoncarroll/ssecore"
	"github.com/brendoncarroll/ssecore/key"
	"github.com/brendoncarroll/ssecore/prf"
	"github.com/brendoncarroll/ssecore/random"
)

// MessageSize is the width in bytes of the permutation's domain and
// range: a fixed 2048-bit RSA modulus.
const MessageSize = 256

// RSAPrfSize is the number of random bytes drawn to derive a message
// with negligible bias when reduced modulo N.
const RSAPrfSize = MessageSize + 16

// StatisticalSecurity is the number of extra bits of randomness (over
// ModulusBits) that make the mod-N reduction bias negligible.
const StatisticalSecurity = 128

// BasePublicExponent is the exponent used for freshly generated keys
// and as the multiplier between successive pool orders.
const BasePublicExponent = 65537

// MaxPoolSize is the largest pool size supported: an order fits in a
// uint8.
const MaxPoolSize = 255

// ModulusBits is the bit length of the RSA modulus, MessageSize bytes.
const ModulusBits = MessageSize * 8

// publicKeyPEMType follows the convention crypto/x509 itself documents
// for PKIX/SubjectPublicKeyInfo DER: "PUBLIC KEY", not the PKCS#1
// "RSA PUBLIC KEY" header, so any standards-conformant reader dispatches
// on the header correctly.
const publicKeyPEMType = "PUBLIC KEY"

// minPublicModulusBits is the smallest modulus parsePublicKeyPEM will
// accept, matching mbedtls_rsa_check_pubkey's own lower bound.
const minPublicModulusBits = 128

// Core is the public half of a trapdoor permutation: forward
// evaluation and message sampling.
type Core struct {
	n *big.Int
	e *big.Int
}

func newCoreFromRSAPublicKey(pub *rsa.PublicKey) *Core {
	return &Core{n: pub.N, e: big.NewInt(int64(pub.E))}
}

// NewCoreFromPublicKeyPEM parses a PKIX-encoded RSA public key.
func NewCoreFromPublicKeyPEM(data []byte) (*Core, error) {
	pub, err := parsePublicKeyPEM(data)
	if err != nil {
		return nil, err
	}
	return newCoreFromRSAPublicKey(pub), nil
}

func parsePublicKeyPEM(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.Wrap(ssecore.ErrInvalidKey, "tdp: no PEM block found")
	}
	pubAny, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, errors.Wrap(ssecore.ErrInvalidKey, err.Error())
	}
	pub, ok := pubAny.(*rsa.PublicKey)
	if !ok {
		return nil, errors.Wrap(ssecore.ErrInvalidKey, "tdp: PEM block is not an RSA public key")
	}
	if err := checkPublicKey(pub); err != nil {
		return nil, errors.Wrap(ssecore.ErrInvalidKey, err.Error())
	}
	return pub, nil
}

// checkPublicKey performs the consistency check spec.md §4.5 requires
// before a parsed public key is trusted: a well-formed RSA modulus and
// public exponent, not merely a bit-length bound. It mirrors the
// checks mbedtls_rsa_check_pubkey performs on every key the original
// derives or parses.
func checkPublicKey(pub *rsa.PublicKey) error {
	if pub.N == nil || pub.N.Sign() <= 0 {
		return errors.New("modulus must be positive")
	}
	if pub.N.Bit(0) == 0 {
		return errors.New("modulus must be odd")
	}
	if pub.N.BitLen() < minPublicModulusBits {
		return errors.Errorf("modulus smaller than %d bits", minPublicModulusBits)
	}
	if pub.N.BitLen() > ModulusBits {
		return errors.Errorf("modulus larger than %d bits", ModulusBits)
	}
	if pub.E < 3 || pub.E%2 == 0 {
		return errors.New("public exponent must be odd and at least 3")
	}
	return nil
}

// PublicKeyPEM serializes the core's public key as PKIX/PEM. It only
// round-trips correctly when e fits a Go int, which holds for the base
// key (e == BasePublicExponent) but not for a pool's derived power
// keys.
func (c *Core) PublicKeyPEM() (string, error) {
	if !c.e.IsInt64() {
		return "", errors.Wrap(ssecore.ErrInvalidArgument, "tdp: exponent too large to serialize")
	}
	der, err := x509.MarshalPKIXPublicKey(&rsa.PublicKey{N: c.n, E: int(c.e.Int64())})
	if err != nil {
		return "", errors.Wrap(ssecore.ErrInternalCryptoError, err.Error())
	}
	block := &pem.Block{Type: publicKeyPEMType, Bytes: der}
	return string(pem.EncodeToMemory(block)), nil
}

// Copy returns an independent deep copy of c.
func (c *Core) Copy() *Core {
	return &Core{n: new(big.Int).Set(c.n), e: new(big.Int).Set(c.e)}
}

func encodeFixed(x *big.Int) []byte {
	out := make([]byte, MessageSize)
	x.FillBytes(out)
	return out
}

// Eval computes x^e mod N. x is reduced modulo N before exponentiating
// so that inputs outside [0, N) are accepted; the result is always
// encoded as exactly MessageSize bytes.
func (c *Core) Eval(x []byte) ([]byte, error) {
	if len(x) != MessageSize {
		return nil, errors.Wrapf(ssecore.ErrInvalidArgument, "tdp: input must be %d bytes", MessageSize)
	}
	v := new(big.Int).SetBytes(x)
	v.Mod(v, c.n)
	v.Exp(v, c.e, c.n)
	return encodeFixed(v), nil
}

// Sample draws a uniformly random element of the message space by
// reducing RSAPrfSize random bytes modulo N.
func (c *Core) Sample() ([]byte, error) {
	raw, err := random.Bytes(RSAPrfSize)
	if err != nil {
		return nil, err
	}
	v := new(big.Int).SetBytes(raw)
	v.Mod(v, c.n)
	return encodeFixed(v), nil
}

// Generate deterministically derives a message-space element from seed
// using p, reducing the PRF's output modulo N. p must have been
// constructed with an output length of at least RSAPrfSize bytes for
// the mod-N bias to be negligible.
func (c *Core) Generate(p *prf.PRF, seed []byte) ([]byte, error) {
	rnd := p.Compute(seed)
	v := new(big.Int).SetBytes(rnd)
	v.Mod(v, c.n)
	return encodeFixed(v), nil
}

// GenerateFromKey is a convenience wrapper around Generate that builds
// a one-shot RSAPrfSize-output PRF from k.
func (c *Core) GenerateFromKey(k *key.Secret, seed []byte) ([]byte, error) {
	p, err := prf.New(k, RSAPrfSize)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return c.Generate(p, seed)
}
