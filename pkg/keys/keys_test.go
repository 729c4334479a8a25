package keys

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/mina-signer-go/pkg/curve"
	"github.com/suffix-labs/mina-signer-go/pkg/encoding"
	"github.com/suffix-labs/mina-signer-go/pkg/field"
)

const (
	fixturePrivateKey = "EKFKgDtU3rcuFTVSEpmpXSkukjmX4cKefYREi6Sdsk7E7wsT7KRw"
	fixturePublicKey  = "B62qiy32p8kAKnny8ZFwoMhYpBppM1DWVCqAPBYNcXnsAHhnfAAuXgg"
	fixtureScalar     = "27605548526193316426392270696522474986296750573607217943669848328212086686934"

	// The fixture scalar plus q, encoded locally. Older generators could emit
	// such keys; this one only pins the reduction.
	legacyPrivateKey = "EKFL7mRLG3iMooqpqLyDdKStaBPV581gmrBFQ4uAUDGnMZEpJHJA"
)

func TestFixtureKeypair(t *testing.T) {
	sk, err := PrivateKeyFromBase58(fixturePrivateKey)
	require.NoError(t, err)
	assert.Equal(t, fixtureScalar, sk.Scalar().String())
	assert.Equal(t, fixturePrivateKey, sk.ToBase58())
	assert.Equal(t, fixturePublicKey, sk.PublicKey().ToBase58())

	pk, err := PublicKeyFromBase58(fixturePublicKey)
	require.NoError(t, err)
	assert.Equal(t, "22536877747820698688010660184495467853785925552441222123266613953322243475471", pk.X.String())
	assert.False(t, pk.IsOdd)
	require.NoError(t, VerifyKeypair(sk, pk))
}

func TestLegacyKeyMigration(t *testing.T) {
	_, err := PrivateKeyFromBase58(legacyPrivateKey)
	require.ErrorIs(t, err, ErrInvalidPrivateKey)

	sk, err := ConvertLegacyPrivateKey(legacyPrivateKey)
	require.NoError(t, err)
	assert.Equal(t, fixturePrivateKey, sk.ToBase58())
	assert.Equal(t, fixturePublicKey, sk.PublicKey().ToBase58())
}

func TestGenerateKey(t *testing.T) {
	sk, err := GenerateKey(nil)
	require.NoError(t, err)
	assert.True(t, field.Fq.IsCanonical(sk.Scalar()))
	assert.NotZero(t, sk.Scalar().Sign())

	back, err := PrivateKeyFromBase58(sk.ToBase58())
	require.NoError(t, err)
	assert.Equal(t, 0, back.Scalar().Cmp(sk.Scalar()))

	pk, err := PublicKeyFromBase58(sk.PublicKey().ToBase58())
	require.NoError(t, err)
	require.NoError(t, VerifyKeypair(sk, pk))
}

func TestGenerateKeyDeterministicReader(t *testing.T) {
	seed := bytes.Repeat([]byte{0x11}, 32)
	a, err := GenerateKey(bytes.NewReader(seed))
	require.NoError(t, err)
	b, err := GenerateKey(bytes.NewReader(seed))
	require.NoError(t, err)
	assert.Equal(t, a.ToBase58(), b.ToBase58())

	_, err = GenerateKey(bytes.NewReader(nil))
	require.Error(t, err)
}

func TestNewPrivateKeyRange(t *testing.T) {
	_, err := NewPrivateKey(big.NewInt(0))
	require.ErrorIs(t, err, ErrInvalidPrivateKey)
	_, err = NewPrivateKey(field.Fq.Modulus())
	require.ErrorIs(t, err, ErrInvalidPrivateKey)
	_, err = NewPrivateKey(big.NewInt(1))
	require.NoError(t, err)
}

func TestVerifyKeypairMismatch(t *testing.T) {
	a, err := NewPrivateKey(big.NewInt(1))
	require.NoError(t, err)
	b, err := NewPrivateKey(big.NewInt(2))
	require.NoError(t, err)
	require.ErrorIs(t, VerifyKeypair(a, b.PublicKey()), ErrKeypairMismatch)
}

func TestPublicKeyFromBase58Invalid(t *testing.T) {
	_, err := PublicKeyFromBase58(fixturePrivateKey)
	require.ErrorIs(t, err, encoding.ErrInvalidVersionByte)

	// x = 0 is not on the curve.
	payload := append([]byte{1, 1}, make([]byte, 33)...)
	_, err = PublicKeyFromBase58(encoding.Encode(payload, encoding.VersionPublicKey))
	require.ErrorIs(t, err, curve.ErrInvalidPoint)
}

func TestRawHex(t *testing.T) {
	pk, err := PublicKeyFromBase58(fixturePublicKey)
	require.NoError(t, err)
	raw := pk.ToRawHex()
	assert.Equal(t, "f0846cb52df5583f4eaee4efeb7bb597b77d3406b30eb4e4da4865897bb63d13", raw)

	back, err := PublicKeyFromRawHex(raw)
	require.NoError(t, err)
	assert.True(t, back.Equal(pk))

	odd := &PublicKey{X: pk.X, IsOdd: true}
	back, err = PublicKeyFromRawHex(odd.ToRawHex())
	require.NoError(t, err)
	assert.True(t, back.IsOdd)

	_, err = PublicKeyFromRawHex("zz")
	require.ErrorIs(t, err, ErrInvalidPublicKey)
}
