// Package hashinput packs structured records into Poseidon input.
//
// Mina has two packing schemes:
//
//   - Legacy (payments, delegations, string messages): a list of full field
//     elements followed by a bit string. The bits are cut into 254-bit chunks
//     and each chunk becomes one field element, little-endian.
//   - Kimchi (field messages, zkApp commands): a list of full field elements
//     followed by (value, bit size) pairs. Consecutive pairs are packed into
//     a single field element for as long as their total size stays below
//     255 bits.
//
// The order of elements is part of the protocol. Appending records in a
// different order produces different hashes and invalid signatures.
//
// References:
//   - o1js/src/bindings/lib/provable-legacy.ts (HashInputLegacy)
//   - o1js/src/lib/provable/crypto/poseidon.ts (packToFields)
package hashinput

import (
	"math/big"

	"github.com/suffix-labs/mina-signer-go/pkg/field"
)

// LegacyChunkSize is the number of bits packed into one legacy field.
const LegacyChunkSize = field.BitSize - 1

// Legacy is the legacy input: fields then bits.
type Legacy struct {
	Fields []*big.Int
	Bits   []bool
}

// Append returns the concatenation of l and o.
func (l Legacy) Append(o Legacy) Legacy {
	return Legacy{
		Fields: append(append([]*big.Int{}, l.Fields...), o.Fields...),
		Bits:   append(append([]bool{}, l.Bits...), o.Bits...),
	}
}

// ToFields returns the Poseidon input for l.
func (l Legacy) ToFields() []*big.Int {
	out := append([]*big.Int{}, l.Fields...)
	for start := 0; start < len(l.Bits); start += LegacyChunkSize {
		end := start + LegacyChunkSize
		if end > len(l.Bits) {
			end = len(l.Bits)
		}
		out = append(out, field.BitsToBigInt(l.Bits[start:end]))
	}
	return out
}

// Packed is a value that occupies Size bits of a packed field.
type Packed struct {
	Value *big.Int
	Size  int
}

// Input is the kimchi input: fields then packed values.
type Input struct {
	Fields []*big.Int
	Packed []Packed
}

// Append returns the concatenation of in and o.
func (in Input) Append(o Input) Input {
	return Input{
		Fields: append(append([]*big.Int{}, in.Fields...), o.Fields...),
		Packed: append(append([]Packed{}, in.Packed...), o.Packed...),
	}
}

// PackToFields returns the Poseidon input for in. Earlier packed values
// end up in the higher bits of the shared field element.
func (in Input) PackToFields() []*big.Int {
	out := append([]*big.Int{}, in.Fields...)
	if len(in.Packed) == 0 {
		return out
	}
	current := new(big.Int).Set(in.Packed[0].Value)
	size := in.Packed[0].Size
	for _, p := range in.Packed[1:] {
		if size+p.Size < field.BitSize {
			current.Lsh(current, uint(p.Size))
			current.Add(current, p.Value)
			size += p.Size
			continue
		}
		out = append(out, current)
		current = new(big.Int).Set(p.Value)
		size = p.Size
	}
	return append(out, current)
}

// Bits returns the 255-bit encodings of every packed field, concatenated.
func (in Input) Bits() []bool {
	var bits []bool
	for _, f := range in.PackToFields() {
		bits = append(bits, field.Fp.ToBits(f)...)
	}
	return bits
}

// Field is a kimchi input holding whole field elements.
func Field(fs ...*big.Int) Input {
	return Input{Fields: append([]*big.Int{}, fs...)}
}

// Uint returns a packed unsigned value of the given width.
func Uint(v uint64, size int) Packed {
	return Packed{Value: new(big.Int).SetUint64(v), Size: size}
}

// Bool returns a packed single bit.
func Bool(b bool) Packed {
	if b {
		return Uint(1, 1)
	}
	return Uint(0, 1)
}

// Uint64Bits returns the 64 little-endian bits of v.
func Uint64Bits(v uint64) []bool {
	return uintBits(v, 64)
}

// Uint32Bits returns the 32 little-endian bits of v.
func Uint32Bits(v uint32) []bool {
	return uintBits(uint64(v), 32)
}

// Uint8Bits returns the 8 little-endian bits of v.
func Uint8Bits(v uint8) []bool {
	return uintBits(uint64(v), 8)
}

func uintBits(v uint64, n int) []bool {
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = (v>>uint(i))&1 == 1
	}
	return bits
}

// BytesBits returns the bits of b, least significant bit of each byte first.
func BytesBits(b []byte) []bool {
	bits := make([]bool, 0, 8*len(b))
	for _, c := range b {
		for i := 0; i < 8; i++ {
			bits = append(bits, (c>>uint(i))&1 == 1)
		}
	}
	return bits
}

// StringBits returns the bits of s, most significant bit of each byte first.
// This is the layout of legacy string messages.
func StringBits(s string) []bool {
	bits := make([]bool, 0, 8*len(s))
	for _, c := range []byte(s) {
		for i := 7; i >= 0; i-- {
			bits = append(bits, (c>>uint(i))&1 == 1)
		}
	}
	return bits
}
