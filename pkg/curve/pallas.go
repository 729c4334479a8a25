// Package curve implements the Pallas elliptic curve group.
//
// Pallas is the short Weierstrass curve y^2 = x^3 + 5 over the Pasta base
// field Fp. Its group order is the scalar-field prime q, so every point other
// than the identity generates the whole group.
//
// Points are exposed in affine form with *big.Int coordinates. Group
// operations run on kryptology's Jacobian curves.Ep, and scalar
// multiplication uses its fixed 4-bit window over all 256 scalar bits.
// Secret scalars should go through ScalarMulFq and ScalarBaseMulFq so they
// never leave the fq.Fq representation.
//
// Arithmetic on a Point that is not on the curve panics. Untrusted
// coordinates go through NewPoint, Decompress or Validate first.
//
// References:
//   - o1js/src/bindings/crypto/elliptic-curve.ts
//   - github.com/coinbase/kryptology/pkg/core/curves/pallas_curve.go
package curve

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/coinbase/kryptology/pkg/core/curves"
	"github.com/coinbase/kryptology/pkg/core/curves/native/pasta/fq"

	"github.com/suffix-labs/mina-signer-go/pkg/field"
)

// ErrInvalidPoint is returned for coordinates that are not on Pallas.
var ErrInvalidPoint = errors.New("curve: invalid point")

// B is the curve constant in y^2 = x^3 + B.
var B = big.NewInt(5)

var fp = field.Fp

// Point is an affine Pallas point. The zero value is the identity.
type Point struct {
	X, Y     *big.Int
	Infinity bool
}

// Identity returns the point at infinity.
func Identity() Point {
	return Point{X: new(big.Int), Y: new(big.Int), Infinity: true}
}

// Generator returns the Mina generator (1, y).
func Generator() Point {
	return fromEp(new(curves.Ep).Generator())
}

// NewPoint validates (x, y) and returns the affine point.
func NewPoint(x, y *big.Int) (Point, error) {
	if !fp.IsCanonical(x) || !fp.IsCanonical(y) {
		return Point{}, fmt.Errorf("%w: (%s, %s)", ErrInvalidPoint, x, y)
	}
	p := Point{X: new(big.Int).Set(x), Y: new(big.Int).Set(y)}
	if !p.IsOnCurve() {
		return Point{}, fmt.Errorf("%w: (%s, %s)", ErrInvalidPoint, x, y)
	}
	return p, nil
}

// IsIdentity reports whether p is the point at infinity.
func (p Point) IsIdentity() bool {
	return p.Infinity || p.X == nil || p.Y == nil
}

// IsOnCurve checks y^2 == x^3 + 5. The identity counts as on-curve.
func (p Point) IsOnCurve() bool {
	if p.IsIdentity() {
		return true
	}
	if !fp.IsCanonical(p.X) || !fp.IsCanonical(p.Y) {
		return false
	}
	_, err := new(curves.Ep).FromAffineUncompressed(p.bytes())
	return err == nil
}

// Validate rejects off-curve points and, when requireNonIdentity is set, the
// identity.
func (p Point) Validate(requireNonIdentity bool) error {
	if p.IsIdentity() {
		if requireNonIdentity {
			return fmt.Errorf("%w: identity", ErrInvalidPoint)
		}
		return nil
	}
	if !p.IsOnCurve() {
		return fmt.Errorf("%w: not on curve", ErrInvalidPoint)
	}
	return nil
}

// Equal compares two points.
func (p Point) Equal(o Point) bool {
	if p.IsIdentity() || o.IsIdentity() {
		return p.IsIdentity() == o.IsIdentity()
	}
	return fp.Equal(p.X, o.X) && fp.Equal(p.Y, o.Y)
}

// Neg returns -p.
func (p Point) Neg() Point {
	return fromEp(new(curves.Ep).Neg(p.ep()))
}

// Add returns p + o.
func (p Point) Add(o Point) Point {
	return fromEp(new(curves.Ep).Add(p.ep(), o.ep()))
}

// Sub returns p - o.
func (p Point) Sub(o Point) Point {
	return fromEp(new(curves.Ep).Sub(p.ep(), o.ep()))
}

// Double returns 2p.
func (p Point) Double() Point {
	return fromEp(new(curves.Ep).Double(p.ep()))
}

// ScalarMul returns k*p for a scalar reduced modulo q.
func (p Point) ScalarMul(k *big.Int) Point {
	return p.ScalarMulFq(new(fq.Fq).SetBigInt(k))
}

// ScalarMulFq returns k*p.
func (p Point) ScalarMulFq(k *fq.Fq) Point {
	return fromEp(new(curves.Ep).Mul(p.ep(), k))
}

// ScalarBaseMul returns k*G.
func ScalarBaseMul(k *big.Int) Point {
	return ScalarBaseMulFq(new(fq.Fq).SetBigInt(k))
}

// ScalarBaseMulFq returns k*G.
func ScalarBaseMulFq(k *fq.Fq) Point {
	g := new(curves.Ep).Generator()
	return fromEp(new(curves.Ep).Mul(g, k))
}

// Fields returns [x, y] as hash input. The identity maps to [0, 0].
func (p Point) Fields() []*big.Int {
	if p.IsIdentity() {
		return []*big.Int{new(big.Int), new(big.Int)}
	}
	return []*big.Int{new(big.Int).Set(p.X), new(big.Int).Set(p.Y)}
}

// Compress returns the x-coordinate and the parity of y.
func (p Point) Compress() (*big.Int, bool) {
	return new(big.Int).Set(p.X), fp.IsOdd(p.Y)
}

// Decompress recovers the point with the given x and y parity.
func Decompress(x *big.Int, isOdd bool) (Point, error) {
	if !fp.IsCanonical(x) {
		return Point{}, fmt.Errorf("%w: x out of range", ErrInvalidPoint)
	}
	// x < 2^255 leaves the top bit free for the y parity.
	enc := fp.ToBytes(x)
	if isOdd {
		enc[field.ByteSize-1] |= 0x80
	}
	e, err := new(curves.Ep).FromAffineCompressed(enc)
	if err != nil {
		return Point{}, fmt.Errorf("%w: x is not on the curve", ErrInvalidPoint)
	}
	return fromEp(e), nil
}

func (p Point) String() string {
	if p.IsIdentity() {
		return "(infinity)"
	}
	return fmt.Sprintf("(%s, %s)", p.X, p.Y)
}

// bytes is x || y, each 32 bytes little-endian.
func (p Point) bytes() []byte {
	return append(fp.ToBytes(p.X), fp.ToBytes(p.Y)...)
}

func (p Point) ep() *curves.Ep {
	if p.IsIdentity() {
		return new(curves.Ep).Identity()
	}
	e, err := new(curves.Ep).FromAffineUncompressed(p.bytes())
	if err != nil {
		panic(fmt.Sprintf("curve: arithmetic on invalid point %s", p))
	}
	return e
}

func fromEp(e *curves.Ep) Point {
	if e.IsIdentity() {
		return Identity()
	}
	enc := e.ToAffineUncompressed()
	return Point{
		X: field.BytesToBigInt(enc[:field.ByteSize]),
		Y: field.BytesToBigInt(enc[field.ByteSize:]),
	}
}
