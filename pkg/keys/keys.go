// Package keys implements Mina private and public keys.
//
// A private key is a non-zero scalar of the Pallas scalar field. The public
// key is sk*G, stored compressed as its x-coordinate and the parity of y.
//
// Key formats:
//   - Private keys: Base58Check, version 0x5a, payload 0x01 || sk (32 bytes LE).
//     Strings start with "EK".
//   - Public keys: Base58Check, version 0xcb, payload 0x01 0x01 || x (32 bytes
//     LE) || isOdd. Strings start with "B62".
//   - Raw public keys: the Rosetta hex form (see PublicKey.ToRawHex).
//
// Keys produced by some older wallets hold a scalar >= q. Those are rejected
// by PrivateKeyFromBase58 and must go through ConvertLegacyPrivateKey, which
// reduces them modulo q.
package keys

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/coinbase/kryptology/pkg/core/curves/native/pasta/fq"

	"github.com/suffix-labs/mina-signer-go/pkg/curve"
	"github.com/suffix-labs/mina-signer-go/pkg/encoding"
	"github.com/suffix-labs/mina-signer-go/pkg/field"
)

// ErrInvalidPrivateKey is returned for zero or out-of-range scalars and
// malformed payloads.
var ErrInvalidPrivateKey = errors.New("keys: invalid private key")

// ErrInvalidPublicKey is returned for malformed public key payloads.
var ErrInvalidPublicKey = errors.New("keys: invalid public key")

// ErrKeypairMismatch is returned by VerifyKeypair.
var ErrKeypairMismatch = errors.New("keys: public key does not match private key")

const (
	privateKeyPayloadSize = 1 + field.ByteSize
	publicKeyPayloadSize  = 2 + field.ByteSize + 1

	// Nonzero-curve-point and compressed-key version tags inside the payload.
	keyPayloadVersion byte = 0x01
)

// PrivateKey is a scalar in [1, q-1]. The scalar is held as an fq.Fq so
// signing arithmetic never routes it through big.Int.
type PrivateKey struct {
	scalar fq.Fq
}

// PublicKey is a compressed Pallas point.
type PublicKey struct {
	X     *big.Int
	IsOdd bool
}

// GenerateKey samples a private key from r, or crypto/rand when r is nil.
func GenerateKey(r io.Reader) (*PrivateKey, error) {
	if r == nil {
		r = rand.Reader
	}
	var buf [field.ByteSize]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, fmt.Errorf("failed to read randomness: %w", err)
		}
		// Clear the top bit so roughly half of all draws land below q.
		buf[field.ByteSize-1] &= 0x7f
		sk := new(PrivateKey)
		if _, err := sk.scalar.SetBytes(&buf); err == nil && !sk.scalar.IsZero() {
			return sk, nil
		}
	}
}

// NewPrivateKey wraps a scalar in [1, q-1].
func NewPrivateKey(scalar *big.Int) (*PrivateKey, error) {
	if scalar == nil || scalar.Sign() == 0 || !field.Fq.IsCanonical(scalar) {
		return nil, fmt.Errorf("%w: scalar out of range", ErrInvalidPrivateKey)
	}
	sk := new(PrivateKey)
	sk.scalar.SetBigInt(scalar)
	return sk, nil
}

// PrivateKeyFromBase58 decodes an "EK..." string.
func PrivateKeyFromBase58(s string) (*PrivateKey, error) {
	raw, err := decodePrivateScalar(s)
	if err != nil {
		return nil, err
	}
	sk := new(PrivateKey)
	if _, err := sk.scalar.SetBytes(&raw); err != nil || sk.scalar.IsZero() {
		return nil, fmt.Errorf("%w: scalar out of range", ErrInvalidPrivateKey)
	}
	return sk, nil
}

// ConvertLegacyPrivateKey decodes a private key whose scalar may be >= q and
// reduces it modulo q. It exists only to migrate keys made by older
// generators; PrivateKeyFromBase58 is the normal path.
func ConvertLegacyPrivateKey(s string) (*PrivateKey, error) {
	raw, err := decodePrivateScalar(s)
	if err != nil {
		return nil, err
	}
	var wide [2 * field.ByteSize]byte
	copy(wide[:], raw[:])
	sk := new(PrivateKey)
	sk.scalar.SetBytesWide(&wide)
	if sk.scalar.IsZero() {
		return nil, fmt.Errorf("%w: scalar is zero modulo q", ErrInvalidPrivateKey)
	}
	return sk, nil
}

func decodePrivateScalar(s string) ([field.ByteSize]byte, error) {
	var raw [field.ByteSize]byte
	payload, err := encoding.Decode(s, encoding.VersionPrivateKey)
	if err != nil {
		return raw, fmt.Errorf("failed to decode private key: %w", err)
	}
	if len(payload) != privateKeyPayloadSize || payload[0] != keyPayloadVersion {
		return raw, fmt.Errorf("%w: bad payload", ErrInvalidPrivateKey)
	}
	copy(raw[:], payload[1:])
	return raw, nil
}

// Scalar returns a copy of the secret scalar as an integer.
func (sk *PrivateKey) Scalar() *big.Int {
	return sk.scalar.BigInt()
}

// Fq returns a copy of the secret scalar.
func (sk *PrivateKey) Fq() *fq.Fq {
	return new(fq.Fq).Set(&sk.scalar)
}

// ToBase58 encodes the key as "EK...".
func (sk *PrivateKey) ToBase58() string {
	raw := sk.scalar.Bytes()
	payload := append([]byte{keyPayloadVersion}, raw[:]...)
	return encoding.Encode(payload, encoding.VersionPrivateKey)
}

// Point returns sk*G.
func (sk *PrivateKey) Point() curve.Point {
	return curve.ScalarBaseMulFq(sk.Fq())
}

// PublicKey derives the compressed public key.
func (sk *PrivateKey) PublicKey() *PublicKey {
	pk, _ := PublicKeyFromPoint(sk.Point())
	return pk
}

// PublicKeyFromPoint compresses a non-identity point.
func PublicKeyFromPoint(p curve.Point) (*PublicKey, error) {
	if err := p.Validate(true); err != nil {
		return nil, err
	}
	x, odd := p.Compress()
	return &PublicKey{X: x, IsOdd: odd}, nil
}

// PublicKeyFromBase58 decodes a "B62..." string and checks that it is a
// point on the curve.
func PublicKeyFromBase58(s string) (*PublicKey, error) {
	payload, err := encoding.Decode(s, encoding.VersionPublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode public key: %w", err)
	}
	if len(payload) != publicKeyPayloadSize || payload[0] != keyPayloadVersion || payload[1] != keyPayloadVersion {
		return nil, fmt.Errorf("%w: bad payload", ErrInvalidPublicKey)
	}
	parity := payload[publicKeyPayloadSize-1]
	if parity > 1 {
		return nil, fmt.Errorf("%w: bad parity byte", ErrInvalidPublicKey)
	}
	x, err := field.Fp.FromBytes(payload[2 : 2+field.ByteSize])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	pk := &PublicKey{X: x, IsOdd: parity == 1}
	if _, err := pk.Point(); err != nil {
		return nil, err
	}
	return pk, nil
}

// ToBase58 encodes the key as "B62...".
func (pk *PublicKey) ToBase58() string {
	payload := make([]byte, 0, publicKeyPayloadSize)
	payload = append(payload, keyPayloadVersion, keyPayloadVersion)
	payload = append(payload, field.Fp.ToBytes(pk.X)...)
	if pk.IsOdd {
		payload = append(payload, 1)
	} else {
		payload = append(payload, 0)
	}
	return encoding.Encode(payload, encoding.VersionPublicKey)
}

// Point decompresses the key, failing with curve.ErrInvalidPoint.
func (pk *PublicKey) Point() (curve.Point, error) {
	return curve.Decompress(pk.X, pk.IsOdd)
}

// Equal compares two public keys.
func (pk *PublicKey) Equal(o *PublicKey) bool {
	return pk != nil && o != nil && pk.IsOdd == o.IsOdd && pk.X.Cmp(o.X) == 0
}

func (pk *PublicKey) String() string {
	return pk.ToBase58()
}

// VerifyKeypair checks that pk = sk*G.
func VerifyKeypair(sk *PrivateKey, pk *PublicKey) error {
	if !sk.PublicKey().Equal(pk) {
		return ErrKeypairMismatch
	}
	return nil
}
