package tdp

import (
	"math/big"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/brendoncarroll/ssecore"
)

// powerKey holds one pool entry's modulus and exponent. It is not
// *rsa.PublicKey because e grows to BasePublicExponent^order, which
// overflows a Go int well before order reaches MaxPoolSize; pool
// entries are never PEM-serialized individually, so there is no need
// for rsa.PublicKey's own representation here.
type powerKey struct {
	n *big.Int
	e *big.Int
}

// Pool is a set of related public keys sharing a modulus N, where the
// order-i key's exponent is BasePublicExponent^(i-1) times the base key's
// exponent. Evaluating under order i composes i forward evaluations of
// the base permutation without repeating the exponentiation.
type Pool struct {
	base   Core
	inv    *Inverse
	powers []powerKey
}

// buildPowers computes the pool's exponent ladder BasePublicExponent^i
// * base.e for i in [1, size-1]. Each entry only depends on i, not on
// its neighbors, so the ladder is filled by an errgroup.Group fanning
// one goroutine out per entry rather than accumulating serially -
// worthwhile once size approaches MaxPoolSize and the higher entries'
// exponents run to several thousand bits.
func buildPowers(base Core, size uint8) ([]powerKey, error) {
	if size == 0 {
		return nil, errors.Wrap(ssecore.ErrInvalidArgument, "tdp: pool size must be > 0")
	}
	mult := big.NewInt(BasePublicExponent)
	powers := make([]powerKey, int(size)-1)
	var eg errgroup.Group
	for i := range powers {
		i := i
		eg.Go(func() error {
			e := new(big.Int).Exp(mult, big.NewInt(int64(i+1)), nil)
			e.Mul(e, base.e)
			powers[i] = powerKey{n: new(big.Int).Set(base.n), e: e}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, errors.Wrap(ssecore.ErrInternalCryptoError, err.Error())
	}
	return powers, nil
}

// NewPoolFromPrivateKeyPEM builds a pool of the given size around a
// PKCS#1-encoded RSA private key. The parsed private key is kept with
// the pool; Pool itself exposes only forward evaluation.
func NewPoolFromPrivateKeyPEM(data []byte, size uint8) (*Pool, error) {
	inv, err := NewInverseFromPrivateKeyPEM(data)
	if err != nil {
		return nil, err
	}
	powers, err := buildPowers(inv.Core, size)
	if err != nil {
		return nil, err
	}
	return &Pool{base: inv.Core, inv: inv, powers: powers}, nil
}

// NewPoolFromPublicKeyPEM builds a public-only pool of the given size
// around a PKIX-encoded RSA public key.
func NewPoolFromPublicKeyPEM(data []byte, size uint8) (*Pool, error) {
	core, err := NewCoreFromPublicKeyPEM(data)
	if err != nil {
		return nil, err
	}
	powers, err := buildPowers(*core, size)
	if err != nil {
		return nil, err
	}
	return &Pool{base: *core, powers: powers}, nil
}

// MaximumOrder returns the largest order EvalPool accepts.
func (p *Pool) MaximumOrder() uint8 {
	return uint8(len(p.powers) + 1)
}

// EvalPool evaluates x under the pool key of the given order: order 1
// is the base permutation, order i for i in [2, MaximumOrder()] is i
// compositions of it. Unlike Core.Eval, x is not reduced modulo N:
// callers must supply an input already in [0, N).
func (p *Pool) EvalPool(x []byte, order uint8) ([]byte, error) {
	if len(x) != MessageSize {
		return nil, errors.Wrapf(ssecore.ErrInvalidArgument, "tdp: input must be %d bytes", MessageSize)
	}
	var n, e *big.Int
	switch {
	case order == 1:
		n, e = p.base.n, p.base.e
	case order >= 2 && order <= p.MaximumOrder():
		pk := p.powers[order-2]
		n, e = pk.n, pk.e
	default:
		return nil, errors.Wrap(ssecore.ErrInvalidArgument, "tdp: order out of range for this pool")
	}

	v := new(big.Int).SetBytes(x)
	v.Exp(v, e, n)
	return encodeFixed(v), nil
}

// Copy returns an independent deep copy of p.
func (p *Pool) Copy() *Pool {
	powers := make([]powerKey, len(p.powers))
	for i, pk := range p.powers {
		powers[i] = powerKey{n: new(big.Int).Set(pk.n), e: new(big.Int).Set(pk.e)}
	}
	cp := &Pool{base: *p.base.Copy(), powers: powers}
	if p.inv != nil {
		invCopy := *p.inv
		invCopy.Core = *p.inv.Core.Copy()
		priv := *p.inv.priv
		priv.N = new(big.Int).Set(priv.N)
		priv.D = new(big.Int).Set(priv.D)
		priv.Primes = []*big.Int{new(big.Int).Set(priv.Primes[0]), new(big.Int).Set(priv.Primes[1])}
		priv.Precomputed.Dp = new(big.Int).Set(priv.Precomputed.Dp)
		priv.Precomputed.Dq = new(big.Int).Set(priv.Precomputed.Dq)
		priv.Precomputed.Qinv = new(big.Int).Set(priv.Precomputed.Qinv)
		invCopy.priv = &priv
		invCopy.pMinus1 = new(big.Int).Set(p.inv.pMinus1)
		invCopy.qMinus1 = new(big.Int).Set(p.inv.qMinus1)
		cp.inv = &invCopy
	}
	return cp
}
