package poseidon

import (
	"encoding/json"
	"math/big"
	"os"

	"github.com/pkg/errors"

	"github.com/suffix-labs/mina-signer-go/pkg/field"
)

// EnvParams names the environment variable holding a parameter file path.
const EnvParams = "MINA_POSEIDON_PARAMS"

// ErrNoParams is returned when a parameter file contains no set.
var ErrNoParams = errors.New("poseidon: no parameter sets in file")

// paramsJSON is one parameter set with decimal-string constants. A kimchi
// set may omit mds to use the compiled-in matrix.
type paramsJSON struct {
	FullRounds           int        `json:"fullRounds"`
	Power                uint64     `json:"power"`
	InitialRoundConstant bool       `json:"initialRoundConstant"`
	MDS                  [][]string `json:"mds,omitempty"`
	RoundConstants       [][]string `json:"roundConstants"`
}

// fileJSON is the parameter file layout. Either set may be omitted.
type fileJSON struct {
	Legacy *paramsJSON `json:"legacy"`
	Kimchi *paramsJSON `json:"kimchi"`
}

// Parse decodes a parameter file. Missing sets are returned as nil.
func Parse(data []byte) (legacy, kimchi *Params, err error) {
	var f fileJSON
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, nil, errors.Wrap(err, "poseidon: decode parameter file")
	}
	if f.Legacy == nil && f.Kimchi == nil {
		return nil, nil, ErrNoParams
	}
	if f.Legacy != nil {
		if legacy, err = f.Legacy.toParams(KindLegacy); err != nil {
			return nil, nil, err
		}
	}
	if f.Kimchi != nil {
		if kimchi, err = f.Kimchi.toParams(KindKimchi); err != nil {
			return nil, nil, err
		}
	}
	return legacy, kimchi, nil
}

// LoadFile parses path and installs every set it contains.
func LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "poseidon: read %s", path)
	}
	legacy, kimchi, err := Parse(data)
	if err != nil {
		return errors.Wrapf(err, "poseidon: load %s", path)
	}
	for _, p := range []*Params{legacy, kimchi} {
		if p == nil {
			continue
		}
		if err := Install(p); err != nil {
			return errors.Wrapf(err, "poseidon: install %s set from %s", p.Kind, path)
		}
	}
	return nil
}

// InstallFromEnv loads the file named by EnvParams, if set. It reports
// whether anything was installed.
func InstallFromEnv() (bool, error) {
	path := os.Getenv(EnvParams)
	if path == "" {
		return false, nil
	}
	if err := LoadFile(path); err != nil {
		return false, err
	}
	return true, nil
}

// MarshalJSON encodes p in the parameter file's set layout.
func (p *Params) MarshalJSON() ([]byte, error) {
	out := paramsJSON{
		FullRounds:           p.FullRounds,
		Power:                p.Power,
		InitialRoundConstant: p.InitialRoundConstant,
	}
	for _, row := range p.MDS {
		out.MDS = append(out.MDS, decimalRow(row[:]))
	}
	for _, row := range p.RoundConstants {
		out.RoundConstants = append(out.RoundConstants, decimalRow(row[:]))
	}
	return json.Marshal(out)
}

func (j *paramsJSON) toParams(kind Kind) (*Params, error) {
	p := &Params{
		Kind:                 kind,
		FullRounds:           j.FullRounds,
		Power:                j.Power,
		InitialRoundConstant: j.InitialRoundConstant,
	}
	switch {
	case len(j.MDS) == 0 && kind == KindKimchi:
		p.MDS = KimchiMDS()
	case len(j.MDS) != Width:
		return nil, errors.Errorf("poseidon: %s: mds must have %d rows", kind, Width)
	}
	for i, row := range j.MDS {
		vals, err := parseRow(row)
		if err != nil {
			return nil, errors.Wrapf(err, "poseidon: %s: mds row %d", kind, i)
		}
		copy(p.MDS[i][:], vals)
	}
	p.RoundConstants = make([][Width]*big.Int, len(j.RoundConstants))
	for r, row := range j.RoundConstants {
		vals, err := parseRow(row)
		if err != nil {
			return nil, errors.Wrapf(err, "poseidon: %s: round constants row %d", kind, r)
		}
		copy(p.RoundConstants[r][:], vals)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func parseRow(row []string) ([]*big.Int, error) {
	if len(row) != Width {
		return nil, errors.Errorf("want %d entries, got %d", Width, len(row))
	}
	vals := make([]*big.Int, Width)
	for i, s := range row {
		v, err := field.Fp.FromString(s)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func decimalRow(row []*big.Int) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = v.String()
	}
	return out
}
