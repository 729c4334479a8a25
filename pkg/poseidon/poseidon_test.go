package poseidon

import (
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInt(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, "bad literal %s", s)
	return v
}

// installTestKimchi loads the synthetic kimchi round constants.
func installTestKimchi(t *testing.T) {
	t.Helper()
	_, filename, _, _ := runtime.Caller(0)
	path := filepath.Join(filepath.Dir(filename), "..", "..", "testdata", "poseidon", "kimchi_test_params.json")
	require.NoError(t, LoadFile(path))
	t.Cleanup(Reset)
}

func testKimchi(t *testing.T) *Params {
	t.Helper()
	installTestKimchi(t)
	p, err := Kimchi()
	require.NoError(t, err)
	return p
}

func TestLegacyMDSMatchesPublished(t *testing.T) {
	want := [Width][Width]string{
		{
			"5328350144166205084223774245058198666309664348635459768305312917086056785354",
			"15214731724107930304595906373487084110291887262136882623959435918484004667388",
			"22399519358931858664262538157042328690232277435337286643350379269028878354609",
		},
		{
			"10086628405675314879458652402278736459294354590428582803795166650930540770072",
			"17127968360683744052278857147989507037142007029142438136689352416106177192235",
			"14207324749280135281015658576564097509614634975132487654324863824516044294735",
		},
		{
			"3059104278162906687184746935153057867173086006783171716838577369156969739687",
			"16755849208683706534025643823697988418063305979108082130624352443958404325985",
			"16889774624482628108075965871448623911656600744832339664842346756371603433407",
		},
	}
	mds := DefaultLegacy().MDS
	for i := range want {
		for j := range want[i] {
			assert.Equal(t, 0, mustInt(t, want[i][j]).Cmp(mds[i][j]), "mds[%d][%d]", i, j)
		}
	}
}

func TestLegacyKnownAnswers(t *testing.T) {
	p := DefaultLegacy()
	require.NoError(t, p.Validate())
	assert.Len(t, p.RoundConstants, 64)
	assert.Equal(t, "1346081094044643970582493287085428191977688221215786919106342366360741041016", p.RoundConstants[0][0].String())

	assert.Equal(t, "10810255668636942098026103766265049994195917059170783454356350086236922262043",
		p.Hash(nil).String())
	assert.Equal(t, "16566105530312870715379965541462782029013594216508324686217424298199426772937",
		p.Hash([]*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)}).String())
}

func TestLegacySignaturePrefixStates(t *testing.T) {
	// Sponge states after absorbing each signature prefix. Signers
	// precompute these as the starting point of every challenge hash.
	cases := map[string][Width]string{
		PrefixSignatureTestnet: {
			"28132119227444686413214523693400847740858213284875453355294308721084881982354",
			"24895072146662946646133617369498198544578131474807621989761680811592073367193",
			"3216013753133880902260672769141972972810073620591719805178695684388949134646",
		},
		PrefixSignatureMainnet: {
			"25220214331362653986409717908235786107802222826119905443072293294098933388948",
			"7563646774167489166725044360539949525624365058064455335567047240620397351731",
			"171774671134240704318655896509797243441784148630375331692878460323037832932",
		},
	}
	p := DefaultLegacy()
	for prefix, want := range cases {
		got := p.Update(InitialState(), []*big.Int{PrefixToField(prefix)})
		for i := range want {
			assert.Equal(t, want[i], got[i].String(), "%s state[%d]", prefix, i)
		}
		assert.Equal(t, want[0], p.EmptyHashWithPrefix(prefix).String())
	}
}

func TestKimchiUnavailableUntilInstalled(t *testing.T) {
	Reset()
	_, err := Kimchi()
	require.ErrorIs(t, err, ErrKimchiUnavailable)
	_, err = Hash([]*big.Int{big.NewInt(1)})
	require.ErrorIs(t, err, ErrKimchiUnavailable)
	_, err = HashWithPrefix(PrefixZkappMemo, nil)
	require.ErrorIs(t, err, ErrKimchiUnavailable)

	p := testKimchi(t)
	assert.Equal(t, 0, KimchiMDS()[0][0].Cmp(p.MDS[0][0]))
	assert.Equal(t, "12035446894107573964500871153637039653510326950134440362813193268448863222019", p.MDS[0][0].String())
	h, err := Hash([]*big.Int{big.NewInt(1)})
	require.NoError(t, err)
	assert.Equal(t, 0, h.Cmp(p.Hash([]*big.Int{big.NewInt(1)})))
}

func TestPermuteMatchesReference(t *testing.T) {
	// Straight big.Int rendition of the round function.
	reference := func(p *Params, s State) State {
		m := p.MDS
		offset := 0
		if p.InitialRoundConstant {
			for i := range s {
				s[i] = new(big.Int).Add(s[i], p.RoundConstants[0][i])
			}
			offset = 1
		}
		mod, _ := new(big.Int).SetString("28948022309329048855892746252171976963363056481941560715954676764349967630337", 10)
		for r := 0; r < p.FullRounds; r++ {
			for i := range s {
				s[i] = new(big.Int).Exp(s[i], new(big.Int).SetUint64(p.Power), mod)
			}
			var next State
			for i := 0; i < Width; i++ {
				acc := new(big.Int).Set(p.RoundConstants[r+offset][i])
				for j := 0; j < Width; j++ {
					acc.Add(acc, new(big.Int).Mul(m[i][j], s[j]))
				}
				next[i] = acc.Mod(acc, mod)
			}
			s = next
		}
		return s
	}
	in := State{big.NewInt(7), big.NewInt(11), big.NewInt(13)}
	for _, p := range []*Params{DefaultLegacy(), testKimchi(t)} {
		got := p.Permute(in)
		want := reference(p, State{big.NewInt(7), big.NewInt(11), big.NewInt(13)})
		for i := range want {
			assert.Equal(t, 0, want[i].Cmp(got[i]), "%s state[%d]", p.Kind, i)
		}
	}
}

func TestHashDeterministicAndPadded(t *testing.T) {
	p := testKimchi(t)
	in := []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)}
	assert.Equal(t, 0, p.Hash(in).Cmp(p.Hash(in)))

	// A short final block is zero padded.
	padded := append(append([]*big.Int{}, in...), big.NewInt(0))
	assert.Equal(t, 0, p.Hash(in).Cmp(p.Hash(padded)))

	// An empty input still permutes.
	assert.NotEqual(t, 0, p.Hash(nil).Sign())
}

func TestHashWithPrefixSeparatesDomains(t *testing.T) {
	kimchi := testKimchi(t)
	for _, p := range []*Params{DefaultLegacy(), kimchi} {
		in := []*big.Int{big.NewInt(42)}
		a := p.HashWithPrefix(PrefixSignatureMainnet, in)
		b := p.HashWithPrefix(PrefixSignatureTestnet, in)
		assert.NotEqual(t, 0, a.Cmp(b), string(p.Kind))
		assert.NotEqual(t, 0, a.Cmp(p.Hash(in)), string(p.Kind))
	}
	assert.NotEqual(t, 0, DefaultLegacy().Hash(nil).Cmp(kimchi.Hash(nil)))
}

func TestPrefixToField(t *testing.T) {
	// "ab" little-endian = 0x6261.
	assert.Equal(t, int64(0x6261), PrefixToField("ab").Int64())
	assert.Panics(t, func() { PrefixToField("0123456789012345678901234567890123") })

	want := map[string]string{
		PrefixSignatureTestnet:  "240717916736854602989207148466022993262069182275",
		PrefixSignatureMainnet:  "664504924603203994814403132056773144791042910541",
		PrefixAccountUpdateNode: "240723076190006710499563866323038773312427551053",
		PrefixAccountUpdateCons: "240724299164776309086957670587464047627758102861",
		PrefixZkappBodyMainnet:  "240717916842166164586662382203211962340199719245",
		PrefixZkappBodyTestnet:  "240717916842166164586662382203211962340301038932",
		PrefixZkappMemo:         "240717916736854603779921821850996567543873694029",
		PrefixZkappURI:          "240717916736854598311956422142058746450874886477",
		PrefixZkappEvent:        "240717916736856104596548963441774427235934955853",
		PrefixZkappEvents:       "240717916737235142267222005858657153467968022861",
		PrefixZkappActions:      "240724301205318161792186176174257700316566677837",
		PrefixNullifier:         "240717916736854604015135382948247018308738378061",
		PrefixHashToGroup:       "240717916737219585742250850978173963028069771597",

		PrefixZkappEventsEmpty:         "693384563471832693600449059644340261158747269453",
		PrefixZkappActionsEmpty:        "177506448248789138428532547389498862569669436270925",
		PrefixZkappActionStateEmptyElt: "12260766097709750148011715642990268408042209227787631944230220228941",
	}
	for prefix, value := range want {
		assert.Equal(t, value, PrefixToField(prefix).String(), prefix)
	}
}

func TestParseRoundTrip(t *testing.T) {
	legacy := DefaultLegacy()
	kimchi := testKimchi(t)
	raw := map[string]*Params{"legacy": legacy, "kimchi": kimchi}
	data, err := json.Marshal(raw)
	require.NoError(t, err)

	gotLegacy, gotKimchi, err := Parse(data)
	require.NoError(t, err)
	require.NotNil(t, gotLegacy)
	require.NotNil(t, gotKimchi)
	assert.True(t, gotLegacy.InitialRoundConstant)
	assert.Equal(t, uint64(7), gotKimchi.Power)

	in := []*big.Int{big.NewInt(7)}
	assert.Equal(t, 0, legacy.Hash(in).Cmp(gotLegacy.Hash(in)))
	assert.Equal(t, 0, kimchi.Hash(in).Cmp(gotKimchi.Hash(in)))
}

func TestParseKimchiWithoutMDS(t *testing.T) {
	rows := make([][]string, 55)
	for i := range rows {
		rows[i] = []string{"1", "2", "3"}
	}
	data, err := json.Marshal(map[string]any{
		"kimchi": map[string]any{"fullRounds": 55, "power": 7, "roundConstants": rows},
	})
	require.NoError(t, err)
	_, kimchi, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, KimchiMDS(), kimchi.MDS)

	// Legacy sets must carry their matrix.
	legacyRows := make([][]string, 64)
	copy(legacyRows, rows)
	for i := 55; i < 64; i++ {
		legacyRows[i] = []string{"1", "2", "3"}
	}
	data, err = json.Marshal(map[string]any{
		"legacy": map[string]any{"fullRounds": 63, "power": 5, "initialRoundConstant": true, "roundConstants": legacyRows},
	})
	require.NoError(t, err)
	_, _, err = Parse(data)
	require.Error(t, err)
}

func TestParseErrors(t *testing.T) {
	_, _, err := Parse([]byte("{"))
	require.Error(t, err)

	_, _, err = Parse([]byte("{}"))
	require.ErrorIs(t, err, ErrNoParams)

	_, _, err = Parse([]byte(`{"kimchi":{"fullRounds":1,"power":7,"mds":[["1","2","3"]],"roundConstants":[]}}`))
	require.Error(t, err)
}

func TestLoadFileInstalls(t *testing.T) {
	kimchi := testKimchi(t)

	custom := &Params{
		Kind:           KindKimchi,
		FullRounds:     kimchi.FullRounds,
		Power:          kimchi.Power,
		MDS:            kimchi.MDS,
		RoundConstants: append([][Width]*big.Int{}, kimchi.RoundConstants...),
	}
	custom.RoundConstants[0] = [Width]*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)}
	data, err := json.Marshal(map[string]*Params{"kimchi": custom})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "params.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	before, err := Hash([]*big.Int{big.NewInt(1)})
	require.NoError(t, err)
	require.NoError(t, LoadFile(path))
	after, err := Hash([]*big.Int{big.NewInt(1)})
	require.NoError(t, err)
	assert.NotEqual(t, 0, before.Cmp(after))

	Reset()
	_, err = Hash([]*big.Int{big.NewInt(1)})
	require.ErrorIs(t, err, ErrKimchiUnavailable)
	assert.Equal(t, "10810255668636942098026103766265049994195917059170783454356350086236922262043",
		Legacy().Hash(nil).String())

	require.Error(t, LoadFile(filepath.Join(t.TempDir(), "missing.json")))
}

func TestInstallFromEnvUnset(t *testing.T) {
	t.Setenv(EnvParams, "")
	ok, err := InstallFromEnv()
	require.NoError(t, err)
	assert.False(t, ok)
}
