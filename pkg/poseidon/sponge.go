package poseidon

import (
	"fmt"
	"math/big"

	"github.com/coinbase/kryptology/pkg/core/curves/native/pasta/fp"

	"github.com/suffix-labs/mina-signer-go/pkg/field"
)

// State is the sponge state.
type State [Width]*big.Int

// InitialState returns the all-zero state.
func InitialState() State {
	return State{new(big.Int), new(big.Int), new(big.Int)}
}

type state [Width]fp.Fp

func (s *state) load(in State) {
	for i := range s {
		s[i].SetBigInt(in[i])
	}
}

func (s *state) export() State {
	return State{s[0].BigInt(), s[1].BigInt(), s[2].BigInt()}
}

// Permute applies the full permutation and returns the new state.
func (p *Params) Permute(s State) State {
	var st state
	st.load(s)
	p.permute(&st)
	return st.export()
}

func (p *Params) permute(s *state) {
	t := p.tables()
	offset := 0
	if p.InitialRoundConstant {
		for i := range s {
			s[i].Add(&s[i], &t.rc[0][i])
		}
		offset = 1
	}
	for r := 0; r < p.FullRounds; r++ {
		for i := range s {
			sbox(&s[i], p.Power)
		}
		var next state
		var term fp.Fp
		for i := 0; i < Width; i++ {
			for j := 0; j < Width; j++ {
				term.Mul(&t.mds[i][j], &s[j])
				next[i].Add(&next[i], &term)
			}
			next[i].Add(&next[i], &t.rc[r+offset][i])
		}
		*s = next
	}
}

// sbox raises x to the power 5 or 7.
func sbox(x *fp.Fp, power uint64) {
	var x2, x4 fp.Fp
	x2.Square(x)
	x4.Square(&x2)
	if power == 7 {
		x4.Mul(&x4, &x2)
	}
	x.Mul(&x4, x)
}

// Update absorbs input into s. Input is zero padded to a multiple of the
// rate; an empty input still permutes once.
func (p *Params) Update(s State, input []*big.Int) State {
	var st state
	st.load(s)
	p.absorb(&st, input)
	return st.export()
}

func (p *Params) absorb(s *state, input []*big.Int) {
	if len(input) == 0 {
		p.permute(s)
		return
	}
	var x fp.Fp
	for start := 0; start < len(input); start += Rate {
		for i := 0; i < Rate && start+i < len(input); i++ {
			s[i].Add(&s[i], x.SetBigInt(input[start+i]))
		}
		p.permute(s)
	}
}

// Hash returns the sponge output for input from the zero state.
func (p *Params) Hash(input []*big.Int) *big.Int {
	var st state
	p.absorb(&st, input)
	return st[0].BigInt()
}

// HashWithPrefix absorbs the prefix element first, then the input.
func (p *Params) HashWithPrefix(prefix string, input []*big.Int) *big.Int {
	var st state
	p.absorb(&st, []*big.Int{PrefixToField(prefix)})
	p.absorb(&st, input)
	return st[0].BigInt()
}

// EmptyHashWithPrefix is the first state element after absorbing only the
// prefix. zkApp events and actions use it as the hash of an empty list.
func (p *Params) EmptyHashWithPrefix(prefix string) *big.Int {
	var st state
	p.absorb(&st, []*big.Int{PrefixToField(prefix)})
	return st[0].BigInt()
}

// PrefixToField reads the ASCII bytes of prefix as a little-endian integer.
// Prefixes are at most 31 bytes so the value fits below p.
func PrefixToField(prefix string) *big.Int {
	if len(prefix) >= field.ByteSize {
		panic(fmt.Sprintf("poseidon: prefix %q too long", prefix))
	}
	return field.BytesToBigInt([]byte(prefix))
}

// Hash hashes with the installed kimchi parameters.
func Hash(input []*big.Int) (*big.Int, error) {
	p, err := Kimchi()
	if err != nil {
		return nil, err
	}
	return p.Hash(input), nil
}

// HashWithPrefix hashes with the installed kimchi parameters.
func HashWithPrefix(prefix string, input []*big.Int) (*big.Int, error) {
	p, err := Kimchi()
	if err != nil {
		return nil, err
	}
	return p.HashWithPrefix(prefix, input), nil
}

// HashLegacyWithPrefix hashes with the installed legacy parameters.
func HashLegacyWithPrefix(prefix string, input []*big.Int) *big.Int {
	return Legacy().HashWithPrefix(prefix, input)
}
