package keys

import (
	"fmt"

	"github.com/suffix-labs/mina-signer-go/pkg/field"
)

const hexDigits = "0123456789abcdef"

// ToRawHex returns the Rosetta raw encoding: the 32 little-endian bytes of x
// with the y parity stored in the unused top bit, each byte written as two
// hex digits with the low nibble first.
func (pk *PublicKey) ToRawHex() string {
	b := field.Fp.ToBytes(pk.X)
	if pk.IsOdd {
		b[len(b)-1] |= 0x80
	}
	out := make([]byte, 0, 2*len(b))
	for _, c := range b {
		out = append(out, hexDigits[c&0x0f], hexDigits[c>>4])
	}
	return string(out)
}

// PublicKeyFromRawHex parses the form produced by ToRawHex.
func PublicKeyFromRawHex(s string) (*PublicKey, error) {
	if len(s) != 2*field.ByteSize {
		return nil, fmt.Errorf("%w: raw key must be %d hex digits", ErrInvalidPublicKey, 2*field.ByteSize)
	}
	b := make([]byte, field.ByteSize)
	for i := range b {
		lo, ok1 := nibble(s[2*i])
		hi, ok2 := nibble(s[2*i+1])
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("%w: invalid hex digit", ErrInvalidPublicKey)
		}
		b[i] = hi<<4 | lo
	}
	odd := b[len(b)-1]&0x80 != 0
	b[len(b)-1] &= 0x7f
	x, err := field.Fp.FromBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	pk := &PublicKey{X: x, IsOdd: odd}
	if _, err := pk.Point(); err != nil {
		return nil, err
	}
	return pk, nil
}

func nibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
