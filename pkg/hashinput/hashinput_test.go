package hashinput

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestLegacyToFieldsChunks(t *testing.T) {
	bits := make([]bool, LegacyChunkSize+3)
	bits[0] = true
	bits[LegacyChunkSize] = true
	bits[LegacyChunkSize+2] = true

	in := Legacy{Fields: []*big.Int{big.NewInt(9)}, Bits: bits}
	out := in.ToFields()
	require.Len(t, out, 3)
	assert.Equal(t, int64(9), out[0].Int64())
	assert.Equal(t, int64(1), out[1].Int64())
	assert.Equal(t, int64(5), out[2].Int64())
}

func TestLegacyAppendDoesNotAlias(t *testing.T) {
	a := Legacy{Bits: make([]bool, 1, 8)}
	b := a.Append(Legacy{Bits: []bool{true}})
	c := a.Append(Legacy{Bits: []bool{false}})
	assert.True(t, b.Bits[1])
	assert.False(t, c.Bits[1])
}

func TestPackToFields(t *testing.T) {
	in := Input{
		Fields: []*big.Int{big.NewInt(7)},
		Packed: []Packed{Uint(1, 1), Uint(2, 64), Bool(true)},
	}
	out := in.PackToFields()
	require.Len(t, out, 2)
	assert.Equal(t, int64(7), out[0].Int64())
	// 1 || 2 (64 bits) || 1
	want := new(big.Int).Lsh(big.NewInt(1), 64)
	want.Add(want, big.NewInt(2))
	want.Lsh(want, 1)
	want.Add(want, big.NewInt(1))
	assert.Equal(t, 0, want.Cmp(out[1]))
}

func TestPackToFieldsFlushes(t *testing.T) {
	in := Input{Packed: []Packed{Uint(1, 200), Uint(2, 54), Uint(3, 1)}}
	out := in.PackToFields()
	// 200 + 54 = 254 fits, adding one more bit would reach 255.
	require.Len(t, out, 2)
	assert.Equal(t, int64(3), out[1].Int64())

	assert.Empty(t, Input{}.PackToFields())
	assert.Len(t, Input{}.Bits(), 0)
}

func TestBitHelpers(t *testing.T) {
	assert.Equal(t, []bool{true, false, false, false, false, false, false, false}, Uint8Bits(1))
	assert.Len(t, Uint32Bits(1), 32)
	assert.Len(t, Uint64Bits(1), 64)

	// 'a' = 0x61 = 0110 0001
	assert.Equal(t, []bool{false, true, true, false, false, false, false, true}, StringBits("a"))
	assert.Equal(t, []bool{true, false, false, false, false, true, true, false}, BytesBits([]byte("a")))
}

func TestStringBitsReverseBytesBits(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "s")
		msb := StringBits(s)
		lsb := BytesBits([]byte(s))
		if len(msb) != len(lsb) {
			t.Fatalf("length mismatch")
		}
		for i := 0; i < len(msb); i += 8 {
			for j := 0; j < 8; j++ {
				if msb[i+j] != lsb[i+7-j] {
					t.Fatalf("byte %d bit %d differs", i/8, j)
				}
			}
		}
	})
}
