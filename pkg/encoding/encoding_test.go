package encoding

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/mina-signer-go/internal/poseidontest"
	"github.com/suffix-labs/mina-signer-go/pkg/poseidon"
)

func TestEmptyMemoBase58(t *testing.T) {
	assert.Equal(t, "E4YM2vTHhWEg66xpj52JErHUBU4pZ1yageL4TVDDpTTSsv8mK6YaH", EmptyMemo.Base58())

	m, err := MemoFromString("")
	require.NoError(t, err)
	assert.Equal(t, EmptyMemo, m)
}

func TestMemoBase58RoundTrip(t *testing.T) {
	m, err := MemoFromString("this is a memo")
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), m[0])
	assert.Equal(t, byte(14), m[1])
	assert.Equal(t, "E4Yq8cQXC1m9eCYL8mYtmfqfJ5cVdhZawrPQ6ahoAay1NDYfTi44K", m.Base58())

	back, err := MemoFromBase58(m.Base58())
	require.NoError(t, err)
	assert.Equal(t, "this is a memo", back.String())
}

func TestMemoTooLong(t *testing.T) {
	_, err := MemoFromString(strings.Repeat("a", 33))
	require.ErrorIs(t, err, ErrMemoTooLong)

	m, err := MemoFromString(strings.Repeat("a", 32))
	require.NoError(t, err)
	assert.Len(t, m.Payload(), 32)
}

func TestMemoFromBase58WrongVersion(t *testing.T) {
	s := Encode(make([]byte, MemoSize), VersionSignature)
	_, err := MemoFromBase58(s)
	require.ErrorIs(t, err, ErrInvalidVersionByte)
}

func TestDecodeChecksum(t *testing.T) {
	s := Encode([]byte{1, 2, 3}, VersionPublicKey)
	payload, err := Decode(s, VersionPublicKey)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, payload)

	// Flip the last character to break the checksum.
	last := s[len(s)-1]
	repl := byte('2')
	if last == repl {
		repl = '3'
	}
	broken := s[:len(s)-1] + string(repl)
	_, err = Decode(broken, VersionPublicKey)
	require.ErrorIs(t, err, ErrChecksumMismatch)

	_, err = Decode("0OIl", VersionPublicKey)
	require.ErrorIs(t, err, ErrChecksumMismatch)

	_, err = Decode(s, VersionPrivateKey)
	require.ErrorIs(t, err, ErrInvalidVersionByte)
}

func TestMemoHashDependsOnContent(t *testing.T) {
	a, err := MemoFromString("a")
	require.NoError(t, err)
	b, err := MemoFromString("b")
	require.NoError(t, err)

	poseidon.Reset()
	_, err = a.Hash()
	require.ErrorIs(t, err, poseidon.ErrKimchiUnavailable)

	poseidontest.InstallKimchi(t)
	t.Cleanup(poseidon.Reset)
	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, 0, ha.Cmp(hb))

	again, err := a.Hash()
	require.NoError(t, err)
	assert.Equal(t, 0, ha.Cmp(again))
}
