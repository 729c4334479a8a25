// Package nullifier implements Mina nullifiers: a deterministic value bound
// to a private key and a message, with a proof that anyone holding the
// public key can check.
//
// Construction (a Chaum-Pedersen proof of equal discrete logs):
//
//	gm        = HashToGroup(message || pk.x || pk.y)
//	nullifier = sk*gm
//	r         = deterministic nonce from sk and message
//	g_r       = r*G
//	h_m_pk_r  = r*gm
//	c         = Poseidon(G, pk, gm, nullifier, g_r, h_m_pk_r)
//	s         = r + sk*c mod q
//
// A verifier recomputes gm, checks s*G == g_r + c*pk and
// s*gm == h_m_pk_r + c*nullifier, and recomputes c.
//
// References:
//   - o1js/src/mina-signer/src/nullifier.ts
//   - https://github.com/zk-nullifier-sig/zk-nullifier-sig
package nullifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/coinbase/kryptology/pkg/core/curves/native/pasta/fq"
	blake2b "github.com/minio/blake2b-simd"

	"github.com/suffix-labs/mina-signer-go/pkg/curve"
	"github.com/suffix-labs/mina-signer-go/pkg/field"
	"github.com/suffix-labs/mina-signer-go/pkg/keys"
	"github.com/suffix-labs/mina-signer-go/pkg/poseidon"
)

// ErrInvalidProof is returned by Verify for any nullifier that does not
// check out.
var ErrInvalidProof = errors.New("nullifier: invalid proof")

// ErrHashToGroup is returned when no curve point was found for an input.
var ErrHashToGroup = errors.New("nullifier: hash to group failed")

// maxHashToGroupAttempts bounds the try-and-increment loop. Each attempt
// succeeds with probability about one half.
const maxHashToGroupAttempts = 256

// Nullifier is a nullifier with its proof.
type Nullifier struct {
	PublicKey curve.Point
	Public    Public
	Private   Private
}

// Public is the part of the nullifier revealed on chain.
type Public struct {
	Nullifier curve.Point
	S         *big.Int
}

// Private holds the rest of the proof.
type Private struct {
	C     *big.Int
	GR    curve.Point
	HMPKR curve.Point
}

// HashToGroup maps field elements to a Pallas point with an even y. It hashes
// the input followed by a counter until the result is the x-coordinate of a
// point.
func HashToGroup(input []*big.Int) (curve.Point, error) {
	buf := append(append([]*big.Int{}, input...), nil)
	for ctr := int64(0); ctr < maxHashToGroupAttempts; ctr++ {
		buf[len(buf)-1] = big.NewInt(ctr)
		x, err := poseidon.HashWithPrefix(poseidon.PrefixHashToGroup, buf)
		if err != nil {
			return curve.Point{}, err
		}
		if p, err := curve.Decompress(x, false); err == nil {
			return p, nil
		}
	}
	return curve.Point{}, ErrHashToGroup
}

func messageGroupElement(message []*big.Int, pk curve.Point) (curve.Point, error) {
	return HashToGroup(append(append([]*big.Int{}, message...), pk.Fields()...))
}

// Create derives the nullifier of message under sk. The result depends only
// on message and sk.
func Create(message []*big.Int, sk *keys.PrivateKey) (*Nullifier, error) {
	for i, m := range message {
		if !field.Fp.IsCanonical(m) {
			return nil, fmt.Errorf("message element %d: %w", i, field.ErrOutOfRange)
		}
	}
	pk := sk.Point()
	gm, err := messageGroupElement(message, pk)
	if err != nil {
		return nil, err
	}
	scalar := sk.Fq()
	nullifier := gm.ScalarMulFq(scalar)

	r := deriveNonce(message, scalar)
	gr := curve.ScalarBaseMulFq(r)
	hmpkr := gm.ScalarMulFq(r)

	c, err := challenge(pk, gm, nullifier, gr, hmpkr)
	if err != nil {
		return nil, err
	}
	s := new(fq.Fq).Mul(scalar, new(fq.Fq).SetBigInt(c))
	s.Add(s, r)

	return &Nullifier{
		PublicKey: pk,
		Public:    Public{Nullifier: nullifier, S: s.BigInt()},
		Private:   Private{C: c, GR: gr, HMPKR: hmpkr},
	}, nil
}

// Verify checks n against message. Any failure is reported as
// ErrInvalidProof, except missing kimchi tables which surface as
// poseidon.ErrKimchiUnavailable.
func Verify(n *Nullifier, message []*big.Int) error {
	if n == nil || n.Public.S == nil || n.Private.C == nil {
		return fmt.Errorf("%w: incomplete nullifier", ErrInvalidProof)
	}
	if !field.Fq.IsCanonical(n.Public.S) || !field.Fq.IsCanonical(n.Private.C) {
		return fmt.Errorf("%w: scalar out of range", ErrInvalidProof)
	}
	for _, p := range []curve.Point{n.PublicKey, n.Public.Nullifier, n.Private.GR, n.Private.HMPKR} {
		if err := p.Validate(true); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidProof, err)
		}
	}
	gm, err := messageGroupElement(message, n.PublicKey)
	if errors.Is(err, poseidon.ErrKimchiUnavailable) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}

	c := n.Private.C
	s := n.Public.S
	if !curve.ScalarBaseMul(s).Equal(n.Private.GR.Add(n.PublicKey.ScalarMul(c))) {
		return fmt.Errorf("%w: s*G mismatch", ErrInvalidProof)
	}
	if !gm.ScalarMul(s).Equal(n.Private.HMPKR.Add(n.Public.Nullifier.ScalarMul(c))) {
		return fmt.Errorf("%w: s*gm mismatch", ErrInvalidProof)
	}
	want, err := challenge(n.PublicKey, gm, n.Public.Nullifier, n.Private.GR, n.Private.HMPKR)
	if err != nil {
		return err
	}
	if want.Cmp(c) != 0 {
		return fmt.Errorf("%w: challenge mismatch", ErrInvalidProof)
	}
	return nil
}

// Key returns the field element that identifies the nullifier on chain.
func Key(n *Nullifier) (*big.Int, error) {
	return poseidon.Hash(n.Public.Nullifier.Fields())
}

// challenge hashes the transcript. Its value is below p < q, so it is also a
// canonical scalar.
func challenge(pk, gm, nullifier, gr, hmpkr curve.Point) (*big.Int, error) {
	var input []*big.Int
	for _, p := range []curve.Point{curve.Generator(), pk, gm, nullifier, gr, hmpkr} {
		input = append(input, p.Fields()...)
	}
	return poseidon.HashWithPrefix(poseidon.PrefixNullifier, input)
}

// deriveNonce returns a non-zero scalar from BLAKE2b-512 over the secret and
// the message. The wide digest keeps the reduction bias negligible.
func deriveNonce(message []*big.Int, sk *fq.Fq) *fq.Fq {
	secret := sk.Bytes()
	for ctr := byte(0); ; ctr++ {
		h := blake2b.New512()
		h.Write([]byte(poseidon.PrefixNullifier))
		h.Write(secret[:])
		for _, m := range message {
			h.Write(field.Fp.ToBytes(m))
		}
		h.Write([]byte{ctr})
		var wide [2 * field.ByteSize]byte
		copy(wide[:], h.Sum(nil))
		r := new(fq.Fq).SetBytesWide(&wide)
		if !r.IsZero() {
			return r
		}
	}
}

// pointJSON is a point as decimal coordinates.
type pointJSON struct {
	X string `json:"x"`
	Y string `json:"y"`
}

type nullifierJSON struct {
	PublicKey pointJSON `json:"publicKey"`
	Public    struct {
		Nullifier pointJSON `json:"nullifier"`
		S         string    `json:"s"`
	} `json:"public"`
	Private struct {
		C     string    `json:"c"`
		GR    pointJSON `json:"g_r"`
		HMPKR pointJSON `json:"h_m_pk_r"`
	} `json:"private"`
}

func toPointJSON(p curve.Point) pointJSON {
	return pointJSON{X: p.X.String(), Y: p.Y.String()}
}

func (p pointJSON) point() (curve.Point, error) {
	x, err := field.Fp.FromString(p.X)
	if err != nil {
		return curve.Point{}, err
	}
	y, err := field.Fp.FromString(p.Y)
	if err != nil {
		return curve.Point{}, err
	}
	return curve.NewPoint(x, y)
}

// MarshalJSON writes
//
//	{publicKey:{x,y}, public:{nullifier:{x,y}, s}, private:{c, g_r:{x,y}, h_m_pk_r:{x,y}}}
//
// with decimal strings.
func (n *Nullifier) MarshalJSON() ([]byte, error) {
	var j nullifierJSON
	j.PublicKey = toPointJSON(n.PublicKey)
	j.Public.Nullifier = toPointJSON(n.Public.Nullifier)
	j.Public.S = n.Public.S.String()
	j.Private.C = n.Private.C.String()
	j.Private.GR = toPointJSON(n.Private.GR)
	j.Private.HMPKR = toPointJSON(n.Private.HMPKR)
	return json.Marshal(j)
}

// UnmarshalJSON parses the MarshalJSON shape. Points must lie on the curve.
func (n *Nullifier) UnmarshalJSON(data []byte) error {
	var j nullifierJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	var out Nullifier
	var err error
	if out.PublicKey, err = j.PublicKey.point(); err != nil {
		return fmt.Errorf("publicKey: %w", err)
	}
	if out.Public.Nullifier, err = j.Public.Nullifier.point(); err != nil {
		return fmt.Errorf("public.nullifier: %w", err)
	}
	if out.Public.S, err = field.Fq.FromString(j.Public.S); err != nil {
		return fmt.Errorf("public.s: %w", err)
	}
	if out.Private.C, err = field.Fq.FromString(j.Private.C); err != nil {
		return fmt.Errorf("private.c: %w", err)
	}
	if out.Private.GR, err = j.Private.GR.point(); err != nil {
		return fmt.Errorf("private.g_r: %w", err)
	}
	if out.Private.HMPKR, err = j.Private.HMPKR.point(); err != nil {
		return fmt.Errorf("private.h_m_pk_r: %w", err)
	}
	*n = out
	return nil
}
