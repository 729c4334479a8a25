// Package poseidon implements the Poseidon sponge used by Mina.
//
// Two parameter sets are in use:
//
//   - Legacy: S-box x^5, 63 full rounds, an extra round-constant addition
//     before the first round. Used for legacy payment, delegation and string
//     signatures.
//   - Kimchi: S-box x^7, 55 full rounds, no initial round constant. Used for
//     field signatures, zkApp commitments and nullifiers.
//
// Both run a width-3 state with rate 2 and capacity 1, and use full rounds
// only. Domain separation is done by absorbing a prefix field element before
// the input (see HashWithPrefix), so network selection changes the prefix
// and never the permutation.
//
// The legacy tables are compiled in. The kimchi MDS matrix is compiled in,
// but its round constants are not: they must be installed with LoadFile or
// InstallFromEnv, and every kimchi hash fails with ErrKimchiUnavailable
// until they are. The permutation runs on kryptology's fp.Fp.
//
// References:
//   - o1js/src/bindings/crypto/poseidon.ts
//   - o1js/src/bindings/crypto/constants.ts
//   - https://eprint.iacr.org/2019/458
package poseidon

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/coinbase/kryptology/pkg/core/curves/native/pasta/fp"
	"github.com/pkg/errors"

	"github.com/suffix-labs/mina-signer-go/pkg/field"
)

// Width and Rate of the sponge.
const (
	Width = 3
	Rate  = 2
)

// Kind selects a parameter set.
type Kind string

const (
	KindLegacy Kind = "legacy"
	KindKimchi Kind = "kimchi"
)

// ErrKimchiUnavailable is returned by kimchi hashing until round constants
// have been installed.
var ErrKimchiUnavailable = errors.New("poseidon: kimchi round constants not installed")

// Params is a complete Poseidon parameter set.
//
// The tables are compiled to fp.Fp on first use, so a Params must not be
// modified after it has hashed anything.
type Params struct {
	Kind                 Kind
	FullRounds           int
	Power                uint64
	InitialRoundConstant bool
	MDS                  [Width][Width]*big.Int
	RoundConstants       [][Width]*big.Int

	once     sync.Once
	compiled *tables
}

type tables struct {
	mds [Width][Width]fp.Fp
	rc  [][Width]fp.Fp
}

// Validate checks table shapes and that every constant is canonical.
func (p *Params) Validate() error {
	if p.Kind != KindLegacy && p.Kind != KindKimchi {
		return fmt.Errorf("poseidon: unknown kind %q", p.Kind)
	}
	if p.FullRounds <= 0 {
		return fmt.Errorf("poseidon: %s: full rounds must be positive", p.Kind)
	}
	if p.Power != 5 && p.Power != 7 {
		return fmt.Errorf("poseidon: %s: unsupported power %d", p.Kind, p.Power)
	}
	want := p.FullRounds
	if p.InitialRoundConstant {
		want++
	}
	if len(p.RoundConstants) != want {
		return fmt.Errorf("poseidon: %s: want %d round-constant rows, got %d", p.Kind, want, len(p.RoundConstants))
	}
	for i, row := range p.MDS {
		for j, v := range row {
			if !field.Fp.IsCanonical(v) {
				return fmt.Errorf("poseidon: %s: mds[%d][%d] not canonical", p.Kind, i, j)
			}
		}
	}
	for r, row := range p.RoundConstants {
		for i, v := range row {
			if !field.Fp.IsCanonical(v) {
				return fmt.Errorf("poseidon: %s: rc[%d][%d] not canonical", p.Kind, r, i)
			}
		}
	}
	return nil
}

func (p *Params) tables() *tables {
	p.once.Do(func() {
		t := &tables{rc: make([][Width]fp.Fp, len(p.RoundConstants))}
		for i := range p.MDS {
			for j := range p.MDS[i] {
				t.mds[i][j].SetBigInt(p.MDS[i][j])
			}
		}
		for r := range p.RoundConstants {
			for i := range p.RoundConstants[r] {
				t.rc[r][i].SetBigInt(p.RoundConstants[r][i])
			}
		}
		p.compiled = t
	})
	return p.compiled
}

var (
	mu        sync.RWMutex
	installed = map[Kind]*Params{}
	initOnce  sync.Once
)

func ensureDefaults() {
	initOnce.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		if installed[KindLegacy] == nil {
			installed[KindLegacy] = DefaultLegacy()
		}
	})
}

// Legacy returns the installed legacy parameter set.
func Legacy() *Params {
	p, _ := Get(KindLegacy)
	return p
}

// Kimchi returns the installed kimchi parameter set, or ErrKimchiUnavailable.
func Kimchi() (*Params, error) {
	return Get(KindKimchi)
}

// Get returns the installed parameter set of the given kind.
func Get(kind Kind) (*Params, error) {
	ensureDefaults()
	mu.RLock()
	defer mu.RUnlock()
	p := installed[kind]
	if p == nil {
		if kind == KindKimchi {
			return nil, ErrKimchiUnavailable
		}
		return nil, fmt.Errorf("poseidon: unknown kind %q", kind)
	}
	return p, nil
}

// Install replaces the parameter set of p.Kind after validating it.
func Install(p *Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	ensureDefaults()
	mu.Lock()
	installed[p.Kind] = p
	mu.Unlock()
	return nil
}

// Reset restores the built-in legacy tables and uninstalls kimchi.
func Reset() {
	ensureDefaults()
	mu.Lock()
	installed[KindLegacy] = DefaultLegacy()
	delete(installed, KindKimchi)
	mu.Unlock()
}

// DefaultLegacy returns the compiled-in legacy tables.
func DefaultLegacy() *Params {
	p := &Params{
		Kind:                 KindLegacy,
		FullRounds:           63,
		Power:                5,
		InitialRoundConstant: true,
		MDS:                  parseMatrix(legacyMDS),
		RoundConstants:       make([][Width]*big.Int, len(legacyRoundConstants)),
	}
	for r, row := range legacyRoundConstants {
		for i, s := range row {
			p.RoundConstants[r][i] = mustDecimal(s)
		}
	}
	return p
}

// KimchiMDS returns the kimchi MDS matrix. Parameter files may omit it.
func KimchiMDS() [Width][Width]*big.Int {
	return parseMatrix(kimchiMDS)
}

var kimchiMDS = [Width][Width]string{
	{
		"12035446894107573964500871153637039653510326950134440362813193268448863222019",
		"25461374787957152039031444204194007219326765802730624564074257060397341542093",
		"27667907157110496066452777015908813333407980290333709698851344970789663080149",
	},
	{
		"4491931056866994439025447213644536587424785196363427220456343191847333476930",
		"14743631939509747387607291926699970421064627808101543132147270746750887019919",
		"9448400033389617131295304336481030167723486090288313334230651810071857784477",
	},
	{
		"10525578725509990281643336361904863911009900817790387635342941550657754064843",
		"27437632000253211280915908546961303399777448677029255413769125486614773776695",
		"27566319851776897085443681456689352477426926500749993803132851225169606086988",
	},
}

func parseMatrix(rows [Width][Width]string) [Width][Width]*big.Int {
	var m [Width][Width]*big.Int
	for i := range rows {
		for j := range rows[i] {
			m[i][j] = mustDecimal(rows[i][j])
		}
	}
	return m
}

func mustDecimal(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("poseidon: bad table literal " + s)
	}
	return v
}
