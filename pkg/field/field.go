// Package field implements arithmetic over the two Pasta prime fields.
//
// Mina signs over the Pallas curve, whose coordinates live in the base field
// Fp and whose scalars (private keys, signature s-components) live in the
// scalar field Fq. The two primes differ only in their low 128 bits:
//
//	p = 0x40000000000000000000000000000000224698fc094cf91b992d30ed00000001
//	q = 0x40000000000000000000000000000000224698fc0994a8dd8c46eb2100000001
//
// Values cross the package boundary as *big.Int in canonical form [0, m).
// The arithmetic itself runs on the Montgomery-form fp.Fp and fq.Fq types
// from kryptology; big.Int is only the interchange format. Every operation
// allocates a fresh result and leaves its arguments untouched, so values can
// be shared freely between goroutines.
//
// References:
//   - Pasta curves: https://github.com/zcash/pasta
//   - Mina bigint encodings: o1js/src/bindings/crypto/finite-field.ts
package field

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/coinbase/kryptology/pkg/core/curves/native/pasta/fp"
	"github.com/coinbase/kryptology/pkg/core/curves/native/pasta/fq"
)

// ErrDivisionByZero is returned when inverting zero.
var ErrDivisionByZero = errors.New("field: division by zero")

// ErrOutOfRange is returned by strict decoders for values >= modulus.
var ErrOutOfRange = errors.New("field: value out of range")

// Size of a field element in bytes and bits.
const (
	ByteSize = 32
	BitSize  = 255
)

// Field is a prime field with modulus M.
type Field struct {
	name string
	m    *big.Int
	k    ops
}

var (
	// Fp is the Pallas base field.
	Fp = newField("Fp", "28948022309329048855892746252171976963363056481941560715954676764349967630337", kernel[fp.Fp, *fp.Fp]{})

	// Fq is the Pallas scalar field.
	Fq = newField("Fq", "28948022309329048855892746252171976963363056481941647379679742748393362948097", kernel[fq.Fq, *fq.Fq]{})
)

func newField(name, modulus string, k ops) *Field {
	m, ok := new(big.Int).SetString(modulus, 10)
	if !ok {
		panic("field: bad modulus for " + name)
	}
	return &Field{name: name, m: m, k: k}
}

// ops is the arithmetic a Field delegates to its element type.
type ops interface {
	add(a, b *big.Int) *big.Int
	sub(a, b *big.Int) *big.Int
	mul(a, b *big.Int) *big.Int
	square(a *big.Int) *big.Int
	neg(a *big.Int) *big.Int
	pow(a, e *big.Int) *big.Int
	inv(a *big.Int) (*big.Int, bool)
	sqrt(a *big.Int) (*big.Int, bool)
}

// element is the method set shared by fp.Fp and fq.Fq.
type element[E any] interface {
	*E
	SetBigInt(bi *big.Int) *E
	SetOne() *E
	BigInt() *big.Int
	Add(lhs, rhs *E) *E
	Sub(lhs, rhs *E) *E
	Mul(lhs, rhs *E) *E
	Square(elem *E) *E
	Neg(elem *E) *E
	Invert(elem *E) (*E, bool)
	Sqrt(elem *E) (*E, bool)
}

type kernel[E any, P element[E]] struct{}

func (kernel[E, P]) lift(x *big.Int) P {
	var e P = new(E)
	return e.SetBigInt(x)
}

func (kernel[E, P]) out(e P) *big.Int {
	return e.BigInt()
}

func (k kernel[E, P]) add(a, b *big.Int) *big.Int {
	var r P = new(E)
	return k.out(r.Add(k.lift(a), k.lift(b)))
}

func (k kernel[E, P]) sub(a, b *big.Int) *big.Int {
	var r P = new(E)
	return k.out(r.Sub(k.lift(a), k.lift(b)))
}

func (k kernel[E, P]) mul(a, b *big.Int) *big.Int {
	var r P = new(E)
	return k.out(r.Mul(k.lift(a), k.lift(b)))
}

func (k kernel[E, P]) square(a *big.Int) *big.Int {
	var r P = new(E)
	return k.out(r.Square(k.lift(a)))
}

func (k kernel[E, P]) neg(a *big.Int) *big.Int {
	var r P = new(E)
	return k.out(r.Neg(k.lift(a)))
}

// pow is left-to-right square and multiply over the bits of e.
func (k kernel[E, P]) pow(a, e *big.Int) *big.Int {
	base := k.lift(a)
	var acc P = new(E)
	acc.SetOne()
	for i := e.BitLen() - 1; i >= 0; i-- {
		acc.Square(acc)
		if e.Bit(i) == 1 {
			acc.Mul(acc, base)
		}
	}
	return k.out(acc)
}

func (k kernel[E, P]) inv(a *big.Int) (*big.Int, bool) {
	var r P = new(E)
	if _, ok := r.Invert(k.lift(a)); !ok {
		return nil, false
	}
	return k.out(r), true
}

func (k kernel[E, P]) sqrt(a *big.Int) (*big.Int, bool) {
	var r P = new(E)
	if _, ok := r.Sqrt(k.lift(a)); !ok {
		return nil, false
	}
	return k.out(r), true
}

// Modulus returns a copy of the field prime.
func (f *Field) Modulus() *big.Int {
	return new(big.Int).Set(f.m)
}

// Name returns "Fp" or "Fq".
func (f *Field) Name() string {
	return f.name
}

// Zero returns 0.
func (f *Field) Zero() *big.Int { return new(big.Int) }

// One returns 1.
func (f *Field) One() *big.Int { return big.NewInt(1) }

// FromBigInt reduces an arbitrary integer into the field.
func (f *Field) FromBigInt(x *big.Int) *big.Int {
	return new(big.Int).Mod(x, f.m)
}

// FromUint64 lifts a machine integer into the field.
func (f *Field) FromUint64(x uint64) *big.Int {
	return f.FromBigInt(new(big.Int).SetUint64(x))
}

// FromBigIntStrict accepts only canonical representatives.
func (f *Field) FromBigIntStrict(x *big.Int) (*big.Int, error) {
	if !f.IsCanonical(x) {
		return nil, fmt.Errorf("%w: %s element %s", ErrOutOfRange, f.name, x)
	}
	return new(big.Int).Set(x), nil
}

// IsCanonical reports whether 0 <= x < m.
func (f *Field) IsCanonical(x *big.Int) bool {
	return x != nil && x.Sign() >= 0 && x.Cmp(f.m) < 0
}

// FromString parses a decimal string and requires a canonical value.
func (f *Field) FromString(s string) (*big.Int, error) {
	x, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("field: invalid decimal %q", s)
	}
	return f.FromBigIntStrict(x)
}

// Add returns a + b.
func (f *Field) Add(a, b *big.Int) *big.Int { return f.k.add(a, b) }

// Sub returns a - b.
func (f *Field) Sub(a, b *big.Int) *big.Int { return f.k.sub(a, b) }

// Mul returns a * b.
func (f *Field) Mul(a, b *big.Int) *big.Int { return f.k.mul(a, b) }

// Square returns a^2.
func (f *Field) Square(a *big.Int) *big.Int { return f.k.square(a) }

// Neg returns -a.
func (f *Field) Neg(a *big.Int) *big.Int { return f.k.neg(a) }

// Pow returns a^e for a non-negative exponent.
func (f *Field) Pow(a *big.Int, e *big.Int) *big.Int {
	return f.k.pow(a, e)
}

// Inv returns a^-1, failing with ErrDivisionByZero for a == 0.
func (f *Field) Inv(a *big.Int) (*big.Int, error) {
	r, ok := f.k.inv(a)
	if !ok {
		return nil, ErrDivisionByZero
	}
	return r, nil
}

// Div returns a / b.
func (f *Field) Div(a, b *big.Int) (*big.Int, error) {
	inv, err := f.Inv(b)
	if err != nil {
		return nil, err
	}
	return f.Mul(a, inv), nil
}

// Equal compares two elements after reduction.
func (f *Field) Equal(a, b *big.Int) bool {
	return f.FromBigInt(a).Cmp(f.FromBigInt(b)) == 0
}

// IsZero reports whether a == 0 in the field.
func (f *Field) IsZero(a *big.Int) bool {
	return f.FromBigInt(a).Sign() == 0
}

// IsSquare reports whether a is a quadratic residue (zero counts).
func (f *Field) IsSquare(a *big.Int) bool {
	_, ok := f.k.sqrt(a)
	return ok
}

// Sqrt returns a square root of a, or false when a is not a square.
func (f *Field) Sqrt(a *big.Int) (*big.Int, bool) {
	return f.k.sqrt(a)
}

// IsOdd reports the parity of the canonical representative.
func (f *Field) IsOdd(a *big.Int) bool {
	return f.FromBigInt(a).Bit(0) == 1
}

// ToBytes encodes a canonical element as 32 little-endian bytes.
func (f *Field) ToBytes(a *big.Int) []byte {
	be := f.FromBigInt(a).FillBytes(make([]byte, ByteSize))
	return reverse(be)
}

// FromBytes decodes 32 little-endian bytes, rejecting non-canonical values.
func (f *Field) FromBytes(b []byte) (*big.Int, error) {
	if len(b) != ByteSize {
		return nil, fmt.Errorf("field: %s element must be %d bytes, got %d", f.name, ByteSize, len(b))
	}
	return f.FromBigIntStrict(BytesToBigInt(b))
}

// ToBits returns the 255 little-endian bits of the canonical representative.
func (f *Field) ToBits(a *big.Int) []bool {
	x := f.FromBigInt(a)
	bits := make([]bool, BitSize)
	for i := range bits {
		bits[i] = x.Bit(i) == 1
	}
	return bits
}

// FromBits packs little-endian bits into an element (must fit below m).
func (f *Field) FromBits(bits []bool) (*big.Int, error) {
	return f.FromBigIntStrict(BitsToBigInt(bits))
}

// BytesToBigInt reads a little-endian unsigned integer.
func BytesToBigInt(le []byte) *big.Int {
	return new(big.Int).SetBytes(reverse(le))
}

// BitsToBigInt reads little-endian bits as an unsigned integer.
func BitsToBigInt(bits []bool) *big.Int {
	x := new(big.Int)
	for i := len(bits) - 1; i >= 0; i-- {
		x.Lsh(x, 1)
		if bits[i] {
			x.SetBit(x, 0, 1)
		}
	}
	return x
}

// BitsToBytes packs bits LSB-first into bytes, zero padding the last byte.
func BitsToBytes(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b {
			out[i/8] |= 1 << (i % 8)
		}
	}
	return out
}

func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[len(b)-1-i] = b[i]
	}
	return out
}
