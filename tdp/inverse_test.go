package tdp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInvertMultZeroIsIdentity(t *testing.T) {
	inv := newTestInverse(t)
	x, err := inv.Core.Sample()
	require.NoError(t, err)

	out, err := inv.InvertMult(x, 0)
	require.NoError(t, err)
	require.Equal(t, x, out)
}

func TestInvertMultOneMatchesInvert(t *testing.T) {
	inv := newTestInverse(t)
	x, err := inv.Core.Sample()
	require.NoError(t, err)
	y, err := inv.Core.Eval(x)
	require.NoError(t, err)

	viaInvert, err := inv.Invert(y)
	require.NoError(t, err)
	viaInvertMult, err := inv.InvertMult(y, 1)
	require.NoError(t, err)
	require.Equal(t, viaInvert, viaInvertMult)
}

func TestInvertMultComposesForwardEval(t *testing.T) {
	inv := newTestInverse(t)

	for _, k := range []uint32{1, 7, 256} {
		x, err := inv.Core.Sample()
		require.NoError(t, err)

		y := x
		for i := uint32(0); i < k; i++ {
			y, err = inv.Core.Eval(y)
			require.NoError(t, err)
		}

		back, err := inv.InvertMult(y, k)
		require.NoError(t, err)
		require.Equalf(t, x, back, "k-fold inversion mismatch for k=%d", k)
	}
}

func TestInvertRejectsWrongLength(t *testing.T) {
	inv := newTestInverse(t)
	_, err := inv.Invert(make([]byte, MessageSize+1))
	require.Error(t, err)
}

func TestPrivateKeyPEMRoundTrip(t *testing.T) {
	inv := newTestInverse(t)
	pemStr, err := inv.PrivateKeyPEM()
	require.NoError(t, err)

	inv2, err := NewInverseFromPrivateKeyPEM([]byte(pemStr))
	require.NoError(t, err)

	x, err := inv.Core.Sample()
	require.NoError(t, err)
	y, err := inv.Core.Eval(x)
	require.NoError(t, err)

	back, err := inv2.Invert(y)
	require.NoError(t, err)
	require.Equal(t, x, back)
}
