package field

import (
	"math/big"
	"testing"

	"github.com/coinbase/kryptology/pkg/core/curves/native/pasta/fq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestModuli(t *testing.T) {
	// The primes differ only in the low half.
	p := Fp.Modulus()
	q := Fq.Modulus()
	assert.Equal(t, 255, p.BitLen())
	assert.Equal(t, 255, q.BitLen())
	assert.Equal(t, 1, q.Cmp(p))
	assert.True(t, p.ProbablyPrime(20))
	assert.True(t, q.ProbablyPrime(20))
	assert.Equal(t, 0, q.Cmp(fq.BiModulus))
}

func TestArithmeticMatchesBigInt(t *testing.T) {
	// The kryptology kernels must agree with plain modular arithmetic.
	for _, f := range []*Field{Fp, Fq} {
		m := f.Modulus()
		a := new(big.Int).Sub(m, big.NewInt(3))
		b := new(big.Int).Lsh(big.NewInt(1), 200)

		want := new(big.Int).Mul(a, b)
		want.Mod(want, m)
		assert.Equal(t, 0, want.Cmp(f.Mul(a, b)), f.Name())

		want = new(big.Int).Add(a, b)
		want.Mod(want, m)
		assert.Equal(t, 0, want.Cmp(f.Add(a, b)), f.Name())

		want = new(big.Int).Exp(a, big.NewInt(7), m)
		assert.Equal(t, 0, want.Cmp(f.Pow(a, big.NewInt(7))), f.Name())

		inv, err := f.Inv(a)
		require.NoError(t, err)
		assert.Equal(t, 0, new(big.Int).ModInverse(a, m).Cmp(inv), f.Name())
	}
}

func TestInvZero(t *testing.T) {
	_, err := Fp.Inv(big.NewInt(0))
	require.ErrorIs(t, err, ErrDivisionByZero)

	_, err = Fq.Inv(Fq.Modulus())
	require.ErrorIs(t, err, ErrDivisionByZero)

	_, err = Fp.Div(big.NewInt(1), big.NewInt(0))
	require.ErrorIs(t, err, ErrDivisionByZero)
}

func TestFromBigIntReduces(t *testing.T) {
	p := Fp.Modulus()
	x := new(big.Int).Add(p, big.NewInt(7))
	assert.Equal(t, int64(7), Fp.FromBigInt(x).Int64())
	assert.Equal(t, 0, Fp.FromBigInt(big.NewInt(-1)).Cmp(new(big.Int).Sub(p, big.NewInt(1))))

	_, err := Fp.FromBigIntStrict(x)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestFromString(t *testing.T) {
	x, err := Fq.FromString("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), x.Int64())

	_, err = Fq.FromString("not a number")
	require.Error(t, err)

	_, err = Fq.FromString(Fq.Modulus().String())
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestBytesRoundTrip(t *testing.T) {
	x := big.NewInt(0x0102)
	b := Fp.ToBytes(x)
	require.Len(t, b, ByteSize)
	assert.Equal(t, byte(0x02), b[0])
	assert.Equal(t, byte(0x01), b[1])

	y, err := Fp.FromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, 0, x.Cmp(y))

	_, err = Fp.FromBytes(b[:31])
	require.Error(t, err)
}

func TestBitsToBytes(t *testing.T) {
	bits := []bool{true, false, false, false, false, false, false, false, true}
	assert.Equal(t, []byte{0x01, 0x01}, BitsToBytes(bits))
	assert.Equal(t, int64(257), BitsToBigInt(bits).Int64())
}

func TestSqrt(t *testing.T) {
	// 4 is an obvious square.
	r, ok := Fp.Sqrt(big.NewInt(4))
	require.True(t, ok)
	assert.True(t, Fp.Equal(Fp.Square(r), big.NewInt(4)))

	// 5 is the multiplicative generator, so it is a non-residue.
	_, ok = Fq.Sqrt(big.NewInt(5))
	assert.False(t, ok)
	assert.False(t, Fp.IsSquare(big.NewInt(5)))
	assert.True(t, Fp.IsSquare(big.NewInt(0)))
}

func genElement(f *Field) *rapid.Generator[*big.Int] {
	return rapid.Custom(func(t *rapid.T) *big.Int {
		b := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "bytes")
		return f.FromBigInt(new(big.Int).SetBytes(b))
	})
}

func TestFieldAxioms(t *testing.T) {
	for _, f := range []*Field{Fp, Fq} {
		f := f
		t.Run(f.Name(), func(t *testing.T) {
			rapid.Check(t, func(t *rapid.T) {
				a := genElement(f).Draw(t, "a")
				b := genElement(f).Draw(t, "b")
				c := genElement(f).Draw(t, "c")

				if !f.Equal(f.Add(a, b), f.Add(b, a)) {
					t.Fatal("addition not commutative")
				}
				if !f.Equal(f.Mul(a, f.Add(b, c)), f.Add(f.Mul(a, b), f.Mul(a, c))) {
					t.Fatal("not distributive")
				}
				if !f.IsZero(f.Add(a, f.Neg(a))) {
					t.Fatal("a + (-a) != 0")
				}
				if !f.Equal(f.Sub(f.Add(a, b), b), a) {
					t.Fatal("sub does not undo add")
				}
				if f.IsZero(a) {
					return
				}
				inv, err := f.Inv(a)
				if err != nil {
					t.Fatal(err)
				}
				if !f.Equal(f.Mul(a, inv), big.NewInt(1)) {
					t.Fatal("a * a^-1 != 1")
				}
				if !f.IsCanonical(inv) {
					t.Fatal("inverse not canonical")
				}
			})
		})
	}
}

func TestBitsRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := genElement(Fp).Draw(t, "a")
		back, err := Fp.FromBits(Fp.ToBits(a))
		if err != nil {
			t.Fatal(err)
		}
		if back.Cmp(a) != 0 {
			t.Fatalf("bits round trip: %s != %s", back, a)
		}
	})
}
