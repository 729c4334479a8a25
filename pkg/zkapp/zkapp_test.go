package zkapp

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/mina-signer-go/internal/poseidontest"
	"github.com/suffix-labs/mina-signer-go/pkg/encoding"
	"github.com/suffix-labs/mina-signer-go/pkg/keys"
	"github.com/suffix-labs/mina-signer-go/pkg/poseidon"
	"github.com/suffix-labs/mina-signer-go/pkg/signature"
)

const fixturePrivateKey = "EKFKgDtU3rcuFTVSEpmpXSkukjmX4cKefYREi6Sdsk7E7wsT7KRw"

func testKeys(t *testing.T) (*keys.PrivateKey, *keys.PrivateKey) {
	t.Helper()
	poseidontest.InstallKimchi(t)
	a, err := keys.PrivateKeyFromBase58(fixturePrivateKey)
	require.NoError(t, err)
	b, err := keys.GenerateKey(bytes.NewReader(bytes.Repeat([]byte{0x22}, 32)))
	require.NoError(t, err)
	return a, b
}

func update(pk *keys.PublicKey, depth int, signed bool) Body {
	return Body{
		PublicKey:         pk.ToBase58(),
		BalanceChange:     BalanceChange{Magnitude: "0", Sgn: SgnPositive},
		UseFullCommitment: signed,
		CallDepth:         depth,
		AuthorizationKind: AuthorizationKind{IsSigned: signed, IsProved: !signed},
	}
}

func buildCommand(t *testing.T, feePayer *keys.PublicKey, bodies ...Body) *Command {
	t.Helper()
	b := NewBuilder(feePayer, 7).WithFee(MinimumFee(make([]AccountUpdate, len(bodies))))
	require.NoError(t, b.SetMemo("zkapp memo"))
	for _, body := range bodies {
		require.NoError(t, b.AddAccountUpdate(body))
	}
	cmd, err := b.Build()
	require.NoError(t, err)
	return cmd
}

func TestMinimumFee(t *testing.T) {
	assert.Equal(t, uint64(0), MinimumFee(nil))
	assert.Equal(t, uint64(3_000_000), MinimumFee(make([]AccountUpdate, 3)))
}

func TestEmptyForestCommitment(t *testing.T) {
	a, _ := testKeys(t)
	cmd := buildCommand(t, a.PublicKey())

	cm, err := cmd.Commitments(signature.Testnet)
	require.NoError(t, err)
	assert.Equal(t, int64(0), cm.Commitment.Int64())
	assert.NotEqual(t, 0, cm.FullCommitment.Sign())
}

func TestSignVerifyFeePayerOnly(t *testing.T) {
	a, _ := testKeys(t)
	cmd := buildCommand(t, a.PublicKey())

	signed, err := Sign(cmd, a, signature.Mainnet)
	require.NoError(t, err)
	assert.Empty(t, cmd.FeePayer.Authorization, "input must not be modified")
	assert.NotEmpty(t, signed.FeePayer.Authorization)

	ok, err := Verify(signed, a.PublicKey(), signature.Mainnet)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Verify(signed, a.PublicKey(), signature.Testnet)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSignFeePayerMismatch(t *testing.T) {
	a, b := testKeys(t)
	cmd := buildCommand(t, a.PublicKey())
	_, err := Sign(cmd, b, signature.Testnet)
	require.ErrorIs(t, err, ErrFeePayerMismatch)
}

func TestSignOwnedUpdates(t *testing.T) {
	a, b := testKeys(t)
	cmd := buildCommand(t, a.PublicKey(),
		update(a.PublicKey(), 0, true),
		update(b.PublicKey(), 1, false),
		update(a.PublicKey(), 0, false),
	)

	signed, err := Sign(cmd, a, signature.Testnet)
	require.NoError(t, err)
	assert.NotEmpty(t, signed.AccountUpdates[0].Authorization.Signature)
	assert.Empty(t, signed.AccountUpdates[1].Authorization.Signature)
	assert.Empty(t, signed.AccountUpdates[2].Authorization.Signature)

	ok, err := Verify(signed, a.PublicKey(), signature.Testnet)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyAll(signed, signature.Testnet)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Verify(signed, b.PublicKey(), signature.Testnet)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyTamper(t *testing.T) {
	a, _ := testKeys(t)
	cmd := buildCommand(t, a.PublicKey(), update(a.PublicKey(), 0, true))
	signed, err := Sign(cmd, a, signature.Testnet)
	require.NoError(t, err)

	tampered := []func(*Command){
		func(c *Command) { c.FeePayer.Body.Fee = "1000001" },
		func(c *Command) { c.FeePayer.Body.Nonce = "8" },
		func(c *Command) { c.Memo = encoding.EmptyMemo.Base58() },
		func(c *Command) { c.AccountUpdates[0].Body.BalanceChange.Magnitude = "1" },
		func(c *Command) { c.AccountUpdates[0].Body.IncrementNonce = true },
		func(c *Command) { c.AccountUpdates[0].Authorization.Signature = "" },
	}
	for i, tamper := range tampered {
		c := signed.Clone()
		tamper(c)
		ok, err := Verify(c, a.PublicKey(), signature.Testnet)
		require.NoError(t, err)
		assert.False(t, ok, "tamper %d", i)
	}
}

func TestPartialCommitmentSurvivesMemoChange(t *testing.T) {
	a, b := testKeys(t)
	body := update(b.PublicKey(), 0, true)
	body.UseFullCommitment = false
	cmd := buildCommand(t, a.PublicKey(), body)

	s := NewSigner(cmd, signature.Testnet)
	n, err := s.Sign(b)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	signed := s.Finish()

	m, err := encoding.MemoFromString("another memo")
	require.NoError(t, err)
	signed.Memo = m.Base58()
	signed.FeePayer.Body.Fee = "5000000"

	cm, err := signed.Commitments(signature.Testnet)
	require.NoError(t, err)
	assert.True(t, verifyCommitment(signed.AccountUpdates[0].Authorization.Signature, cm.Commitment, b.PublicKey(), signature.Testnet))
	assert.False(t, verifyCommitment(signed.AccountUpdates[0].Authorization.Signature, cm.FullCommitment, b.PublicKey(), signature.Testnet))
}

func TestCallForestShape(t *testing.T) {
	a, b := testKeys(t)
	nested := buildCommand(t, a.PublicKey(), update(a.PublicKey(), 0, false), update(b.PublicKey(), 1, false))
	flat := buildCommand(t, a.PublicKey(), update(a.PublicKey(), 0, false), update(b.PublicKey(), 0, false))

	cn, err := nested.Commitments(signature.Testnet)
	require.NoError(t, err)
	cf, err := flat.Commitments(signature.Testnet)
	require.NoError(t, err)
	assert.NotEqual(t, cn.Commitment, cf.Commitment)

	// Network changes the body prefix.
	cm, err := flat.Commitments(signature.Mainnet)
	require.NoError(t, err)
	assert.NotEqual(t, cf.Commitment, cm.Commitment)
}

func TestInvalidCallDepth(t *testing.T) {
	a, _ := testKeys(t)

	builder := NewBuilder(a.PublicKey(), 0)
	err := builder.AddAccountUpdate(update(a.PublicKey(), 1, false))
	require.ErrorIs(t, err, ErrInvalidCallDepth)

	cmd := buildCommand(t, a.PublicKey(), update(a.PublicKey(), 0, false))
	cmd.AccountUpdates = append(cmd.AccountUpdates, AccountUpdate{Body: update(a.PublicKey(), 2, false)})
	_, err = cmd.Commitments(signature.Testnet)
	require.ErrorIs(t, err, ErrInvalidCallDepth)
}

func TestBuilderFeeTooLow(t *testing.T) {
	a, _ := testKeys(t)
	b := NewBuilder(a.PublicKey(), 0).WithFee(AccountUpdateFee - 1)
	require.NoError(t, b.AddAccountUpdate(update(a.PublicKey(), 0, false)))
	_, err := b.Build()
	require.ErrorIs(t, err, ErrFeeTooLow)

	require.ErrorIs(t, b.SetMemo(string(bytes.Repeat([]byte("x"), 33))), encoding.ErrMemoTooLong)
}

func TestBuilderValidUntil(t *testing.T) {
	a, _ := testKeys(t)
	without, err := NewBuilder(a.PublicKey(), 0).Build()
	require.NoError(t, err)
	with, err := NewBuilder(a.PublicKey(), 0).WithValidUntil(100).Build()
	require.NoError(t, err)
	require.NotNil(t, with.FeePayer.Body.ValidUntil)
	assert.Equal(t, "100", *with.FeePayer.Body.ValidUntil)

	c1, err := without.Commitments(signature.Testnet)
	require.NoError(t, err)
	c2, err := with.Commitments(signature.Testnet)
	require.NoError(t, err)
	assert.NotEqual(t, c1.FullCommitment, c2.FullCommitment)
}

func TestMultiPartySigning(t *testing.T) {
	a, b := testKeys(t)
	cmd := buildCommand(t, a.PublicKey(),
		update(a.PublicKey(), 0, true),
		update(b.PublicKey(), 1, true),
	)

	signerA := NewSigner(cmd, signature.Testnet)
	n, err := signerA.Sign(a)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	signerB := NewSigner(cmd, signature.Testnet)
	n, err = signerB.Sign(b)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ok, err := VerifyAll(signerA.Finish(), signature.Testnet)
	require.NoError(t, err)
	assert.False(t, ok, "b's update is still unsigned")

	combined, err := NewCombiner([]*Command{signerA.Finish(), signerB.Finish()}).Combine()
	require.NoError(t, err)

	ok, err = VerifyAll(combined, signature.Testnet)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Verify(combined, a.PublicKey(), signature.Testnet)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCombineConflicts(t *testing.T) {
	a, _ := testKeys(t)
	cmd := buildCommand(t, a.PublicKey(), update(a.PublicKey(), 0, true))

	testnet, err := Sign(cmd, a, signature.Testnet)
	require.NoError(t, err)
	mainnet, err := Sign(cmd, a, signature.Mainnet)
	require.NoError(t, err)

	_, err = NewCombiner([]*Command{testnet, mainnet}).Combine()
	require.ErrorIs(t, err, ErrConflictingData)

	other := testnet.Clone()
	other.FeePayer.Body.Nonce = "8"
	_, err = NewCombiner([]*Command{testnet, other}).Combine()
	require.ErrorIs(t, err, ErrIncompatible)

	same, err := NewCombiner([]*Command{testnet, testnet.Clone()}).Combine()
	require.NoError(t, err)
	assert.Equal(t, testnet, same)

	_, err = NewCombiner(nil).Combine()
	require.Error(t, err)
}

func TestParseErrors(t *testing.T) {
	a, _ := testKeys(t)
	cmd := buildCommand(t, a.PublicKey(), update(a.PublicKey(), 0, false))

	bad := cmd.Clone()
	bad.AccountUpdates[0].Body.BalanceChange.Sgn = "Sideways"
	_, err := bad.Commitments(signature.Testnet)
	require.Error(t, err)

	bad = cmd.Clone()
	bad.FeePayer.Body.Fee = "-1"
	_, err = Verify(bad, a.PublicKey(), signature.Testnet)
	require.Error(t, err)

	bad = cmd.Clone()
	bad.Memo = "not base58 memo"
	_, err = bad.Commitments(signature.Testnet)
	require.Error(t, err)
}

func TestCommandJSON(t *testing.T) {
	a, _ := testKeys(t)
	cmd := buildCommand(t, a.PublicKey(), update(a.PublicKey(), 0, true))
	signed, err := Sign(cmd, a, signature.Testnet)
	require.NoError(t, err)

	data, err := json.Marshal(signed)
	require.NoError(t, err)
	var back Command
	require.NoError(t, json.Unmarshal(data, &back))

	ok, err := Verify(&back, a.PublicKey(), signature.Testnet)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWithoutKimchiTables(t *testing.T) {
	a, _ := testKeys(t)
	cmd := buildCommand(t, a.PublicKey(), update(a.PublicKey(), 0, true))

	poseidon.Reset()
	t.Cleanup(func() { poseidontest.InstallKimchi(t) })

	_, err := cmd.Commitments(signature.Testnet)
	require.ErrorIs(t, err, poseidon.ErrKimchiUnavailable)
	_, err = Sign(cmd, a, signature.Testnet)
	require.ErrorIs(t, err, poseidon.ErrKimchiUnavailable)
	_, err = Verify(cmd, a.PublicKey(), signature.Testnet)
	require.ErrorIs(t, err, poseidon.ErrKimchiUnavailable)
	_, err = AccountUpdateHash(cmd.AccountUpdates[0], signature.Testnet)
	require.ErrorIs(t, err, poseidon.ErrKimchiUnavailable)

	// Parsing alone needs no tables.
	require.NoError(t, NewBuilder(a.PublicKey(), 0).AddAccountUpdate(update(a.PublicKey(), 0, false)))
}
