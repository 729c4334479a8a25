// Package signature implements Mina's Schnorr signatures over Pallas.
//
// A signature is a pair (r, s) with r in Fp and s in Fq. For a message m,
// key pair (sk, pk) and network n:
//
//	k = derived nonce, negated if (k*G).y is odd
//	r = (k*G).x
//	e = Poseidon(prefix(n), m || pk.x || pk.y || r)
//	s = k + e*sk mod q
//
// Verification recomputes e and accepts when R = s*G - e*pk is not the
// identity, has even y and R.x == r.
//
// Two message domains share this equation:
//
//   - Legacy: legacy hash input (fields + bits), legacy Poseidon
//     parameters. Used for strings, payments and delegations.
//   - Kimchi: packed hash input, kimchi Poseidon parameters. Used for field
//     messages and zkApp commitments.
//
// The nonce is BLAKE2b-256 over the message, the public key, the private key
// and the network id byte, so signing is deterministic and the nonce is
// never reused across messages or networks.
//
// References:
//   - o1js/src/mina-signer/src/signature.ts
//   - https://github.com/MinaProtocol/mina/blob/develop/docs/specs/signatures/description.md
package signature

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/suffix-labs/mina-signer-go/pkg/encoding"
	"github.com/suffix-labs/mina-signer-go/pkg/field"
)

// ErrInvalidSignature is returned for malformed signature encodings.
var ErrInvalidSignature = errors.New("signature: invalid signature encoding")

const (
	signaturePayloadVersion byte = 0x01
	signaturePayloadSize         = 1 + 2*field.ByteSize
)

// Signature is (r, s) with r in Fp and s in Fq.
type Signature struct {
	R *big.Int
	S *big.Int
}

// New checks that r and s are canonical.
func New(r, s *big.Int) (*Signature, error) {
	if !field.Fp.IsCanonical(r) || !field.Fq.IsCanonical(s) {
		return nil, fmt.Errorf("%w: component out of range", ErrInvalidSignature)
	}
	return &Signature{R: new(big.Int).Set(r), S: new(big.Int).Set(s)}, nil
}

// ToBase58 encodes 0x01 || r || s (little-endian) under version 0x9a.
func (sig *Signature) ToBase58() string {
	payload := make([]byte, 0, signaturePayloadSize)
	payload = append(payload, signaturePayloadVersion)
	payload = append(payload, field.Fp.ToBytes(sig.R)...)
	payload = append(payload, field.Fq.ToBytes(sig.S)...)
	return encoding.Encode(payload, encoding.VersionSignature)
}

// FromBase58 decodes a signature produced by ToBase58.
func FromBase58(s string) (*Signature, error) {
	payload, err := encoding.Decode(s, encoding.VersionSignature)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signature: %w", err)
	}
	if len(payload) != signaturePayloadSize || payload[0] != signaturePayloadVersion {
		return nil, fmt.Errorf("%w: bad payload", ErrInvalidSignature)
	}
	r, err := field.Fp.FromBytes(payload[1 : 1+field.ByteSize])
	if err != nil {
		return nil, fmt.Errorf("%w: r: %v", ErrInvalidSignature, err)
	}
	sc, err := field.Fq.FromBytes(payload[1+field.ByteSize:])
	if err != nil {
		return nil, fmt.Errorf("%w: s: %v", ErrInvalidSignature, err)
	}
	return &Signature{R: r, S: sc}, nil
}

// JSON is the {field, scalar} form used for string and field signatures.
type JSON struct {
	Field  string `json:"field"`
	Scalar string `json:"scalar"`
}

// ToJSON returns the decimal form.
func (sig *Signature) ToJSON() JSON {
	return JSON{Field: sig.R.String(), Scalar: sig.S.String()}
}

// FromJSON parses the decimal form.
func FromJSON(j JSON) (*Signature, error) {
	r, err := field.Fp.FromString(j.Field)
	if err != nil {
		return nil, fmt.Errorf("%w: field: %v", ErrInvalidSignature, err)
	}
	s, err := field.Fq.FromString(j.Scalar)
	if err != nil {
		return nil, fmt.Errorf("%w: scalar: %v", ErrInvalidSignature, err)
	}
	return &Signature{R: r, S: s}, nil
}

// MarshalJSON implements json.Marshaler.
func (sig *Signature) MarshalJSON() ([]byte, error) {
	return json.Marshal(sig.ToJSON())
}

// UnmarshalJSON implements json.Unmarshaler.
func (sig *Signature) UnmarshalJSON(data []byte) error {
	var j JSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	parsed, err := FromJSON(j)
	if err != nil {
		return err
	}
	*sig = *parsed
	return nil
}

// Equal compares two signatures.
func (sig *Signature) Equal(o *Signature) bool {
	return sig != nil && o != nil && sig.R.Cmp(o.R) == 0 && sig.S.Cmp(o.S) == 0
}
