package nullifier

import (
	"bytes"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/suffix-labs/mina-signer-go/internal/poseidontest"
	"github.com/suffix-labs/mina-signer-go/pkg/curve"
	"github.com/suffix-labs/mina-signer-go/pkg/field"
	"github.com/suffix-labs/mina-signer-go/pkg/keys"
	"github.com/suffix-labs/mina-signer-go/pkg/poseidon"
)

const fixturePrivateKey = "EKFKgDtU3rcuFTVSEpmpXSkukjmX4cKefYREi6Sdsk7E7wsT7KRw"

func fixtureKey(t *testing.T) *keys.PrivateKey {
	t.Helper()
	poseidontest.InstallKimchi(t)
	sk, err := keys.PrivateKeyFromBase58(fixturePrivateKey)
	require.NoError(t, err)
	return sk
}

func mustKey(t *testing.T, n *Nullifier) *big.Int {
	t.Helper()
	k, err := Key(n)
	require.NoError(t, err)
	return k
}

func message(vs ...int64) []*big.Int {
	out := make([]*big.Int, len(vs))
	for i, v := range vs {
		out[i] = big.NewInt(v)
	}
	return out
}

func TestHashToGroup(t *testing.T) {
	poseidontest.InstallKimchi(t)
	p, err := HashToGroup(message(1, 2, 3))
	require.NoError(t, err)
	require.NoError(t, p.Validate(true))
	assert.False(t, field.Fp.IsOdd(p.Y))

	q, err := HashToGroup(message(1, 2, 3))
	require.NoError(t, err)
	assert.True(t, p.Equal(q))

	other, err := HashToGroup(message(1, 2, 4))
	require.NoError(t, err)
	assert.False(t, p.Equal(other))
}

func TestCreateVerify(t *testing.T) {
	sk := fixtureKey(t)
	msg := message(42, 7)

	n, err := Create(msg, sk)
	require.NoError(t, err)
	require.NoError(t, Verify(n, msg))
	assert.True(t, n.PublicKey.Equal(sk.Point()))

	err = Verify(n, message(42, 8))
	require.ErrorIs(t, err, ErrInvalidProof)
}

func TestCreateDeterministic(t *testing.T) {
	sk := fixtureKey(t)
	msg := message(1)

	a, err := Create(msg, sk)
	require.NoError(t, err)
	b, err := Create(msg, sk)
	require.NoError(t, err)

	aj, err := json.Marshal(a)
	require.NoError(t, err)
	bj, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, string(aj), string(bj))
	assert.Equal(t, mustKey(t, a), mustKey(t, b))
}

func TestKeyDependsOnMessageAndKey(t *testing.T) {
	sk := fixtureKey(t)
	other, err := keys.GenerateKey(bytes.NewReader(bytes.Repeat([]byte{0x33}, 32)))
	require.NoError(t, err)

	n1, err := Create(message(1), sk)
	require.NoError(t, err)
	n2, err := Create(message(2), sk)
	require.NoError(t, err)
	n3, err := Create(message(1), other)
	require.NoError(t, err)

	assert.NotEqual(t, mustKey(t, n1), mustKey(t, n2))
	assert.NotEqual(t, mustKey(t, n1), mustKey(t, n3))
}

func TestWithoutKimchiTables(t *testing.T) {
	sk := fixtureKey(t)
	msg := message(3)
	n, err := Create(msg, sk)
	require.NoError(t, err)

	poseidon.Reset()
	t.Cleanup(func() { poseidontest.InstallKimchi(t) })

	_, err = Create(msg, sk)
	require.ErrorIs(t, err, poseidon.ErrKimchiUnavailable)
	_, err = HashToGroup(msg)
	require.ErrorIs(t, err, poseidon.ErrKimchiUnavailable)
	_, err = Key(n)
	require.ErrorIs(t, err, poseidon.ErrKimchiUnavailable)

	err = Verify(n, msg)
	require.ErrorIs(t, err, poseidon.ErrKimchiUnavailable)
	assert.NotErrorIs(t, err, ErrInvalidProof)
}

func TestNonceIsCanonicalAndMessageBound(t *testing.T) {
	sk := fixtureKey(t)
	a := deriveNonce(message(1), sk.Fq())
	b := deriveNonce(message(2), sk.Fq())
	assert.False(t, a.IsZero())
	assert.True(t, field.Fq.IsCanonical(a.BigInt()))
	assert.NotEqual(t, a.BigInt(), b.BigInt())
	assert.Equal(t, a.BigInt(), deriveNonce(message(1), sk.Fq()).BigInt())
}

func TestVerifyTamper(t *testing.T) {
	sk := fixtureKey(t)
	msg := message(5, 6, 7)
	base, err := Create(msg, sk)
	require.NoError(t, err)

	g := curve.Generator()
	tampered := []func(n *Nullifier){
		func(n *Nullifier) { n.Public.S = field.Fq.Add(n.Public.S, big.NewInt(1)) },
		func(n *Nullifier) { n.Private.C = field.Fq.Add(n.Private.C, big.NewInt(1)) },
		func(n *Nullifier) { n.Private.GR = n.Private.GR.Add(g) },
		func(n *Nullifier) { n.Private.HMPKR = n.Private.HMPKR.Add(g) },
		func(n *Nullifier) { n.Public.Nullifier = n.Public.Nullifier.Add(g) },
		func(n *Nullifier) { n.PublicKey = n.PublicKey.Add(g) },
		func(n *Nullifier) { n.Public.Nullifier = curve.Identity() },
		func(n *Nullifier) { n.Public.S = nil },
	}
	for i, tamper := range tampered {
		n := *base
		tamper(&n)
		assert.ErrorIs(t, Verify(&n, msg), ErrInvalidProof, "tamper %d", i)
	}
	assert.ErrorIs(t, Verify(nil, msg), ErrInvalidProof)
}

func TestJSONRoundTrip(t *testing.T) {
	sk := fixtureKey(t)
	msg := message(9)
	n, err := Create(msg, sk)
	require.NoError(t, err)

	data, err := json.Marshal(n)
	require.NoError(t, err)

	var shape map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &shape))
	assert.Contains(t, shape["public"], "nullifier")
	assert.Contains(t, shape["public"], "s")
	assert.Contains(t, shape["private"], "c")
	assert.Contains(t, shape["private"], "g_r")
	assert.Contains(t, shape["private"], "h_m_pk_r")
	assert.Contains(t, shape["publicKey"], "x")

	var back Nullifier
	require.NoError(t, json.Unmarshal(data, &back))
	require.NoError(t, Verify(&back, msg))

	bad := bytes.Replace(data, []byte(`"x":"`), []byte(`"x":"1`), 1)
	require.Error(t, json.Unmarshal(bad, &back))
}

func TestCreateRejectsNonCanonicalMessage(t *testing.T) {
	sk := fixtureKey(t)
	_, err := Create([]*big.Int{field.Fp.Modulus()}, sk)
	require.ErrorIs(t, err, field.ErrOutOfRange)
}

func TestEmptyMessage(t *testing.T) {
	sk := fixtureKey(t)
	n, err := Create(nil, sk)
	require.NoError(t, err)
	require.NoError(t, Verify(n, nil))
}

func TestCreateVerifyProperty(t *testing.T) {
	sk := fixtureKey(t)
	rapid.Check(t, func(t *rapid.T) {
		vs := rapid.SliceOfN(rapid.Int64Min(0), 0, 4).Draw(t, "message")
		msg := message(vs...)
		n, err := Create(msg, sk)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := Verify(n, msg); err != nil {
			t.Fatalf("verify: %v", err)
		}
	})
}
