package encoding

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/suffix-labs/mina-signer-go/pkg/hashinput"
	"github.com/suffix-labs/mina-signer-go/pkg/poseidon"
)

// Memo layout: a tag byte, a length byte and up to 32 payload bytes padded
// with zeros.
const (
	MemoSize        = 34
	MemoPayloadSize = 32

	memoTagBytes byte = 0x01
)

// ErrMemoTooLong is returned for memo text longer than 32 bytes.
var ErrMemoTooLong = errors.New("encoding: memo longer than 32 bytes")

// ErrInvalidMemo is returned when decoding a malformed memo.
var ErrInvalidMemo = errors.New("encoding: invalid memo")

// Memo is the fixed-width encoded memo carried by every transaction.
type Memo [MemoSize]byte

// EmptyMemo is the encoding of "".
var EmptyMemo = Memo{memoTagBytes}

// MemoFromString encodes s. It fails with ErrMemoTooLong above 32 bytes.
func MemoFromString(s string) (Memo, error) {
	return MemoFromBytes([]byte(s))
}

// MemoFromBytes encodes raw payload bytes.
func MemoFromBytes(b []byte) (Memo, error) {
	var m Memo
	if len(b) > MemoPayloadSize {
		return m, fmt.Errorf("%w: %d bytes", ErrMemoTooLong, len(b))
	}
	m[0] = memoTagBytes
	m[1] = byte(len(b))
	copy(m[2:], b)
	return m, nil
}

// MemoFromBase58 decodes a Base58Check memo.
func MemoFromBase58(s string) (Memo, error) {
	var m Memo
	payload, err := Decode(s, VersionMemo)
	if err != nil {
		return m, err
	}
	if len(payload) != MemoSize {
		return m, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidMemo, MemoSize, len(payload))
	}
	copy(m[:], payload)
	if m[0] != memoTagBytes || int(m[1]) > MemoPayloadSize {
		return Memo{}, fmt.Errorf("%w: bad tag or length", ErrInvalidMemo)
	}
	return m, nil
}

// Base58 returns the Base58Check form used in JSON transactions.
func (m Memo) Base58() string {
	return Encode(m[:], VersionMemo)
}

// Payload returns the memo bytes without tag, length or padding.
func (m Memo) Payload() []byte {
	n := int(m[1])
	if n > MemoPayloadSize {
		n = MemoPayloadSize
	}
	return append([]byte{}, m[2:2+n]...)
}

// String returns the payload as text.
func (m Memo) String() string {
	return string(m.Payload())
}

// LegacyInput returns the memo as legacy hash input: all 34 bytes, least
// significant bit first.
func (m Memo) LegacyInput() hashinput.Legacy {
	return hashinput.Legacy{Bits: hashinput.BytesBits(m[:])}
}

// Hash returns the memo digest committed to by zkApp commands.
func (m Memo) Hash() (*big.Int, error) {
	return poseidon.HashWithPrefix(poseidon.PrefixZkappMemo, m.LegacyInput().ToFields())
}
