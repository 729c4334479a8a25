package signature

import (
	"math/big"

	pastafp "github.com/coinbase/kryptology/pkg/core/curves/native/pasta/fp"
	"github.com/coinbase/kryptology/pkg/core/curves/native/pasta/fq"
	blake2b "github.com/minio/blake2b-simd"

	"github.com/suffix-labs/mina-signer-go/pkg/curve"
	"github.com/suffix-labs/mina-signer-go/pkg/field"
	"github.com/suffix-labs/mina-signer-go/pkg/hashinput"
	"github.com/suffix-labs/mina-signer-go/pkg/keys"
	"github.com/suffix-labs/mina-signer-go/pkg/poseidon"
)

var fp = field.Fp

// SignLegacy signs a legacy hash input.
func SignLegacy(msg hashinput.Legacy, sk *keys.PrivateKey, network NetworkID) *Signature {
	pk := sk.Point()
	kPrime := deriveNonceLegacy(msg, pk, sk, network)
	sig, _ := finishSign(kPrime, sk, func(r *big.Int) (*big.Int, error) {
		return hashMessageLegacy(msg, pk, r, network), nil
	})
	return sig
}

// VerifyLegacy checks a signature over a legacy hash input. It returns false
// for any invalid signature or key.
func VerifyLegacy(sig *Signature, msg hashinput.Legacy, pk *keys.PublicKey, network NetworkID) bool {
	return verify(sig, pk, func(p curve.Point) (*big.Int, error) {
		return hashMessageLegacy(msg, p, sig.R, network), nil
	})
}

// Sign signs a kimchi hash input. It fails only when the kimchi Poseidon
// tables are not installed.
func Sign(msg hashinput.Input, sk *keys.PrivateKey, network NetworkID) (*Signature, error) {
	pk := sk.Point()
	kPrime := deriveNonce(msg, pk, sk, network)
	return finishSign(kPrime, sk, func(r *big.Int) (*big.Int, error) {
		return hashMessage(msg, pk, r, network)
	})
}

// Verify checks a signature over a kimchi hash input.
func Verify(sig *Signature, msg hashinput.Input, pk *keys.PublicKey, network NetworkID) bool {
	return verify(sig, pk, func(p curve.Point) (*big.Int, error) {
		return hashMessage(msg, p, sig.R, network)
	})
}

// SignFields signs a list of field elements with the kimchi scheme.
func SignFields(fields []*big.Int, sk *keys.PrivateKey, network NetworkID) (*Signature, error) {
	return Sign(hashinput.Field(fields...), sk, network)
}

// VerifyFields verifies a SignFields signature.
func VerifyFields(sig *Signature, fields []*big.Int, pk *keys.PublicKey, network NetworkID) bool {
	return Verify(sig, hashinput.Field(fields...), pk, network)
}

// SignString signs a UTF-8 string with the legacy scheme.
func SignString(msg string, sk *keys.PrivateKey, network NetworkID) *Signature {
	return SignLegacy(hashinput.Legacy{Bits: hashinput.StringBits(msg)}, sk, network)
}

// VerifyString verifies a SignString signature.
func VerifyString(sig *Signature, msg string, pk *keys.PublicKey, network NetworkID) bool {
	return VerifyLegacy(sig, hashinput.Legacy{Bits: hashinput.StringBits(msg)}, pk, network)
}

// finishSign computes R = k'G, negates k' when R.y is odd, and returns
// (R.x, k + e*sk). The scalar work stays in fq.Fq and the negation is a
// constant-time select.
func finishSign(kPrime *fq.Fq, sk *keys.PrivateKey, challenge func(r *big.Int) (*big.Int, error)) (*Signature, error) {
	R := curve.ScalarBaseMulFq(kPrime)
	odd := 0
	if fp.IsOdd(R.Y) {
		odd = 1
	}
	k := new(fq.Fq).CMove(kPrime, new(fq.Fq).Neg(kPrime), odd)

	c, err := challenge(R.X)
	if err != nil {
		return nil, err
	}
	e := new(fq.Fq).SetBigInt(c)
	s := new(fq.Fq).Mul(e, sk.Fq())
	s.Add(s, k)
	return &Signature{R: new(big.Int).Set(R.X), S: s.BigInt()}, nil
}

func verify(sig *Signature, pk *keys.PublicKey, challenge func(p curve.Point) (*big.Int, error)) bool {
	if sig == nil || pk == nil || !fp.IsCanonical(sig.R) || !field.Fq.IsCanonical(sig.S) {
		return false
	}
	p, err := pk.Point()
	if err != nil {
		return false
	}
	e, err := challenge(p)
	if err != nil {
		return false
	}
	R := curve.ScalarBaseMul(sig.S).Sub(p.ScalarMul(e))
	if R.IsIdentity() || fp.IsOdd(R.Y) {
		return false
	}
	return R.X.Cmp(sig.R) == 0
}

func hashMessageLegacy(msg hashinput.Legacy, pk curve.Point, r *big.Int, network NetworkID) *big.Int {
	input := msg.Append(hashinput.Legacy{Fields: []*big.Int{pk.X, pk.Y, r}})
	return poseidon.HashLegacyWithPrefix(network.Prefix(), input.ToFields())
}

func hashMessage(msg hashinput.Input, pk curve.Point, r *big.Int, network NetworkID) (*big.Int, error) {
	input := msg.Append(hashinput.Field(pk.X, pk.Y, r))
	return poseidon.HashWithPrefix(network.Prefix(), input.PackToFields())
}

// deriveNonceLegacy hashes fields(msg, pk) || bits(msg) || sk || id.
func deriveNonceLegacy(msg hashinput.Legacy, pk curve.Point, sk *keys.PrivateKey, network NetworkID) *fq.Fq {
	input := msg.Append(hashinput.Legacy{Fields: []*big.Int{pk.X, pk.Y}})
	var bits []bool
	for _, f := range input.Fields {
		bits = append(bits, fp.ToBits(f)...)
	}
	bits = append(bits, input.Bits...)
	bits = append(bits, scalarBits(sk.Fq())...)
	bits = append(bits, hashinput.Uint8Bits(network.ID())...)
	return nonceFromBits(bits)
}

// deriveNonce hashes packToFields(msg || pk.x || pk.y || sk || id), with sk
// reduced into the base field.
func deriveNonce(msg hashinput.Input, pk curve.Point, sk *keys.PrivateKey, network NetworkID) *fq.Fq {
	input := msg.Append(hashinput.Input{
		Fields: []*big.Int{pk.X, pk.Y, scalarInBaseField(sk.Fq())},
		Packed: []hashinput.Packed{hashinput.Uint(uint64(network.ID()), 8)},
	})
	return nonceFromBits(input.Bits())
}

// scalarBits returns the 255 little-endian bits of s.
func scalarBits(s *fq.Fq) []bool {
	raw := s.Bytes()
	bits := make([]bool, field.BitSize)
	for i := range bits {
		bits[i] = raw[i/8]>>(i%8)&1 == 1
	}
	return bits
}

// scalarInBaseField reinterprets s as an integer modulo p.
func scalarInBaseField(s *fq.Fq) *big.Int {
	raw := s.Bytes()
	var wide [2 * field.ByteSize]byte
	copy(wide[:], raw[:])
	var x pastafp.Fp
	return x.SetBytesWide(&wide).BigInt()
}

// nonceFromBits clears the top two bits of the BLAKE2b-256 digest so the
// result is below q.
func nonceFromBits(bits []bool) *fq.Fq {
	digest := blake2b.Sum256(field.BitsToBytes(bits))
	digest[field.ByteSize-1] &= 0x3f
	k, err := new(fq.Fq).SetBytes(&digest)
	if err != nil {
		panic("signature: nonce above q")
	}
	return k
}
