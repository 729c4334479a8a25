package zkapp

// Hash layout of an account update body. Every leaf is either a whole field
// or a packed value; the kimchi input lists all fields and then all packed
// values, each in leaf order:
//
//	publicKey                   x | isOdd
//	tokenId                     field
//	update                      appState[8], delegate, verificationKey,
//	                            permissions, zkappUri, tokenSymbol, timing,
//	                            votingFor
//	balanceChange               magnitude(64) | sgn
//	incrementNonce              bool
//	events, actions             list hash
//	callData                    field
//	preconditions               network, account, validWhile
//	useFullCommitment           bool
//	implicitAccountCreationFee  bool
//	mayUseToken                 parentsOwnToken, inheritFromParent
//	authorizationKind           isSigned, isProved | verificationKeyHash
//
// Optional leaves are an isSome bit followed by the value. A missing value
// hashes as its default: zero, the full interval, the dummy verification
// key hash, the empty action state or the empty receipt chain hash.
// callDepth is not hashed.

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/suffix-labs/mina-signer-go/pkg/currency"
	"github.com/suffix-labs/mina-signer-go/pkg/encoding"
	"github.com/suffix-labs/mina-signer-go/pkg/field"
	"github.com/suffix-labs/mina-signer-go/pkg/hashinput"
	"github.com/suffix-labs/mina-signer-go/pkg/keys"
	"github.com/suffix-labs/mina-signer-go/pkg/poseidon"
)

// tokenSymbolBits is the packed width of a token symbol of up to six bytes.
const tokenSymbolBits = 48

var (
	// DefaultTokenID is the id of the MINA token.
	DefaultTokenID = big.NewInt(1)

	// DummyVerificationKeyHash is the verification key hash of an account
	// without a verification key.
	DummyVerificationKeyHash, _ = new(big.Int).SetString(
		"3392518251768960475377392625298437850623664973002200885669375116181514017494", 10)
)

// authBits are (constant, signatureNecessary, signatureSufficient).
var authBits = map[AuthRequired][3]bool{
	AuthNone:       {true, false, true},
	AuthEither:     {false, false, true},
	AuthProof:      {false, false, false},
	AuthSignature:  {false, true, true},
	AuthImpossible: {true, true, false},
}

// leaf is one element of a body's hash input. lazy leaves are hashes that
// need the kimchi parameters and are computed when the body is hashed.
type leaf struct {
	field  *big.Int
	lazy   func(p *poseidon.Params) *big.Int
	packed *hashinput.Packed
}

// body is a parsed account update body.
type body struct {
	publicKey         *keys.PublicKey
	callDepth         int
	useFullCommitment bool
	isSigned          bool
	leaves            []leaf
}

func (b *body) input(p *poseidon.Params) hashinput.Input {
	var in hashinput.Input
	for _, l := range b.leaves {
		switch {
		case l.packed != nil:
			in.Packed = append(in.Packed, *l.packed)
		case l.lazy != nil:
			in.Fields = append(in.Fields, l.lazy(p))
		default:
			in.Fields = append(in.Fields, l.field)
		}
	}
	return in
}

func (b Body) parse() (*body, error) {
	if b.CallDepth < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCallDepth, b.CallDepth)
	}
	if b.AuthorizationKind.IsSigned && b.AuthorizationKind.IsProved {
		return nil, fmt.Errorf("%w: authorizationKind: both signed and proved", ErrInvalidBody)
	}

	w := &walker{}
	pk := w.publicKey("publicKey", b.PublicKey)
	w.tokenID("tokenId", b.TokenID)
	w.update("update", b.Update)
	w.balanceChange("balanceChange", b.BalanceChange)
	w.flag(b.IncrementNonce)
	w.events("events", b.Events, poseidon.PrefixZkappEvents, poseidon.PrefixZkappEventsEmpty)
	w.events("actions", b.Actions, poseidon.PrefixZkappActions, poseidon.PrefixZkappActionsEmpty)
	w.fieldString("callData", b.CallData, new(big.Int))
	w.preconditions("preconditions", b.Preconditions)
	w.flag(b.UseFullCommitment)
	w.flag(b.ImplicitAccountCreationFee)
	w.flag(b.MayUseToken.ParentsOwnToken)
	w.flag(b.MayUseToken.InheritFromParent)
	w.flag(b.AuthorizationKind.IsSigned)
	w.flag(b.AuthorizationKind.IsProved)
	w.fieldString("authorizationKind.verificationKeyHash", b.AuthorizationKind.VerificationKeyHash, DummyVerificationKeyHash)
	if w.err != nil {
		return nil, w.err
	}
	return &body{
		publicKey:         pk,
		callDepth:         b.CallDepth,
		useFullCommitment: b.UseFullCommitment,
		isSigned:          b.AuthorizationKind.IsSigned,
		leaves:            w.leaves,
	}, nil
}

// walker appends leaves in layout order and keeps the first error.
type walker struct {
	leaves []leaf
	err    error
}

func (w *walker) fail(path string, err error) {
	if w.err == nil {
		w.err = fmt.Errorf("%w: %s: %v", ErrInvalidBody, path, err)
	}
}

func (w *walker) field(v *big.Int) {
	w.leaves = append(w.leaves, leaf{field: v})
}

func (w *walker) lazy(f func(p *poseidon.Params) *big.Int) {
	w.leaves = append(w.leaves, leaf{lazy: f})
}

func (w *walker) packed(v uint64, size int) {
	p := hashinput.Uint(v, size)
	w.leaves = append(w.leaves, leaf{packed: &p})
}

func (w *walker) packedBig(v *big.Int, size int) {
	w.leaves = append(w.leaves, leaf{packed: &hashinput.Packed{Value: v, Size: size}})
}

func (w *walker) flag(b bool) {
	p := hashinput.Bool(b)
	w.leaves = append(w.leaves, leaf{packed: &p})
}

// option writes the isSome bit and then either value.
func (w *walker) option(isSome bool, some, none func()) {
	w.flag(isSome)
	if isSome {
		some()
		return
	}
	none()
}

// fieldString writes a decimal field element, or def when s is empty.
func (w *walker) fieldString(path, s string, def *big.Int) {
	if s == "" {
		w.field(def)
		return
	}
	v, err := field.Fp.FromString(s)
	if err != nil {
		w.fail(path, err)
		v = new(big.Int)
	}
	w.field(v)
}

func (w *walker) optField(path string, v *string, none func()) {
	w.option(v != nil, func() {
		if *v == "" {
			w.fail(path, errors.New("empty value"))
		}
		w.fieldString(path, *v, new(big.Int))
	}, none)
}

func (w *walker) zeroField() { w.field(new(big.Int)) }

func (w *walker) optBool(v *bool) {
	w.option(v != nil, func() { w.flag(*v) }, func() { w.flag(false) })
}

// uintN writes a decimal integer of the given width.
func (w *walker) uintN(path, s string, bits int) {
	var v uint64
	var err error
	if bits == 32 {
		var v32 uint32
		v32, err = currency.ParseUint32(s)
		v = uint64(v32)
	} else {
		v, err = currency.ParseUint64(s)
	}
	if err != nil {
		w.fail(path, err)
	}
	w.packed(v, bits)
}

// interval writes an optional closed interval. An ignored interval hashes
// as [0, max].
func (w *walker) interval(path string, iv *Interval, bits int) {
	top := uint64(math.MaxUint64)
	if bits == 32 {
		top = math.MaxUint32
	}
	w.option(iv != nil, func() {
		w.uintN(path+".lower", iv.Lower, bits)
		w.uintN(path+".upper", iv.Upper, bits)
	}, func() {
		w.packed(0, bits)
		w.packed(top, bits)
	})
}

func (w *walker) publicKey(path, s string) *keys.PublicKey {
	pk, err := keys.PublicKeyFromBase58(s)
	if err != nil {
		w.fail(path, err)
		w.emptyPublicKey()
		return nil
	}
	w.field(pk.X)
	w.flag(pk.IsOdd)
	return pk
}

func (w *walker) emptyPublicKey() {
	w.zeroField()
	w.flag(false)
}

func (w *walker) optPublicKey(path string, s *string) {
	w.option(s != nil, func() { w.publicKey(path, *s) }, w.emptyPublicKey)
}

// tokenID accepts a Base58 token id or a decimal field element.
func (w *walker) tokenID(path, s string) {
	if s == "" {
		w.field(DefaultTokenID)
		return
	}
	if payload, err := encoding.Decode(s, encoding.VersionTokenID); err == nil {
		v, err := field.Fp.FromBytes(payload)
		if err != nil {
			w.fail(path, err)
			v = new(big.Int)
		}
		w.field(v)
		return
	}
	w.fieldString(path, s, DefaultTokenID)
}

func (w *walker) auth(path string, a AuthRequired) {
	bits, ok := authBits[a]
	if !ok {
		w.fail(path, fmt.Errorf("unknown permission %q", a))
	}
	for _, b := range bits {
		w.flag(b)
	}
}

func (w *walker) update(path string, u Update) {
	if n := len(u.AppState); n != 0 && n != AppStateLength {
		w.fail(path+".appState", fmt.Errorf("want %d entries, got %d", AppStateLength, n))
	}
	for i := 0; i < AppStateLength; i++ {
		var v *string
		if i < len(u.AppState) {
			v = u.AppState[i]
		}
		w.optField(fmt.Sprintf("%s.appState[%d]", path, i), v, w.zeroField)
	}
	w.optPublicKey(path+".delegate", u.Delegate)
	w.option(u.VerificationKey != nil, func() {
		w.fieldString(path+".verificationKey.hash", u.VerificationKey.Hash, DummyVerificationKeyHash)
	}, func() { w.field(DummyVerificationKeyHash) })
	w.option(u.Permissions != nil, func() {
		w.permissions(path+".permissions", u.Permissions)
	}, func() { w.permissions(path+".permissions", nil) })
	w.option(u.ZkappURI != nil, func() {
		uri := *u.ZkappURI
		w.lazy(func(p *poseidon.Params) *big.Int { return zkappURIHash(p, uri) })
	}, func() {
		w.lazy(func(p *poseidon.Params) *big.Int {
			return p.Hash([]*big.Int{new(big.Int), new(big.Int)})
		})
	})
	w.option(u.TokenSymbol != nil, func() {
		w.tokenSymbol(path+".tokenSymbol", *u.TokenSymbol)
	}, func() { w.packed(0, tokenSymbolBits) })
	w.option(u.Timing != nil, func() {
		t := u.Timing
		w.uintN(path+".timing.initialMinimumBalance", t.InitialMinimumBalance, 64)
		w.uintN(path+".timing.cliffTime", t.CliffTime, 32)
		w.uintN(path+".timing.cliffAmount", t.CliffAmount, 64)
		w.uintN(path+".timing.vestingPeriod", t.VestingPeriod, 32)
		w.uintN(path+".timing.vestingIncrement", t.VestingIncrement, 64)
	}, func() {
		for _, bits := range []int{64, 32, 64, 32, 64} {
			w.packed(0, bits)
		}
	})
	w.optField(path+".votingFor", u.VotingFor, w.zeroField)
}

// permissions writes p, or the all-false placeholder when p is nil.
func (w *walker) permissions(path string, p *Permissions) {
	if p == nil {
		for i := 0; i < 13; i++ {
			w.flag(false)
			w.flag(false)
			w.flag(false)
			if i == 6 {
				w.packed(0, 32)
			}
		}
		return
	}
	w.auth(path+".editState", p.EditState)
	w.auth(path+".access", p.Access)
	w.auth(path+".send", p.Send)
	w.auth(path+".receive", p.Receive)
	w.auth(path+".setDelegate", p.SetDelegate)
	w.auth(path+".setPermissions", p.SetPermissions)
	w.auth(path+".setVerificationKey.auth", p.SetVerificationKey.Auth)
	w.uintN(path+".setVerificationKey.txnVersion", p.SetVerificationKey.TxnVersion, 32)
	w.auth(path+".setZkappUri", p.SetZkappURI)
	w.auth(path+".editActionState", p.EditActionState)
	w.auth(path+".setTokenSymbol", p.SetTokenSymbol)
	w.auth(path+".incrementNonce", p.IncrementNonce)
	w.auth(path+".setVotingFor", p.SetVotingFor)
	w.auth(path+".setTiming", p.SetTiming)
}

// tokenSymbol packs up to six bytes little-endian.
func (w *walker) tokenSymbol(path, s string) {
	if len(s) > tokenSymbolBits/8 {
		w.fail(path, fmt.Errorf("%q is longer than %d bytes", s, tokenSymbolBits/8))
		s = ""
	}
	w.packedBig(field.BytesToBigInt([]byte(s)), tokenSymbolBits)
}

func (w *walker) balanceChange(path string, bc BalanceChange) {
	w.uintN(path+".magnitude", bc.Magnitude, 64)
	switch bc.Sgn {
	case SgnPositive, "":
		w.flag(true)
	case SgnNegative:
		w.flag(false)
	default:
		w.fail(path+".sgn", fmt.Errorf("unknown sign %q", bc.Sgn))
		w.flag(true)
	}
}

// events parses a list of field lists and writes its hash.
func (w *walker) events(path string, list [][]string, prefix, emptyPrefix string) {
	parsed := make([][]*big.Int, len(list))
	for i, e := range list {
		parsed[i] = make([]*big.Int, len(e))
		for j, s := range e {
			v, err := field.Fp.FromString(s)
			if err != nil {
				w.fail(fmt.Sprintf("%s[%d][%d]", path, i, j), err)
				v = new(big.Int)
			}
			parsed[i][j] = v
		}
	}
	w.lazy(func(p *poseidon.Params) *big.Int {
		return listHash(p, parsed, prefix, emptyPrefix)
	})
}

func (w *walker) epochData(path string, e EpochDataPrecondition) {
	w.optField(path+".ledger.hash", e.Ledger.Hash, w.zeroField)
	w.interval(path+".ledger.totalCurrency", e.Ledger.TotalCurrency, 64)
	w.optField(path+".seed", e.Seed, w.zeroField)
	w.optField(path+".startCheckpoint", e.StartCheckpoint, w.zeroField)
	w.optField(path+".lockCheckpoint", e.LockCheckpoint, w.zeroField)
	w.interval(path+".epochLength", e.EpochLength, 32)
}

func (w *walker) preconditions(path string, pc Preconditions) {
	n := pc.Network
	w.optField(path+".network.snarkedLedgerHash", n.SnarkedLedgerHash, w.zeroField)
	w.interval(path+".network.blockchainLength", n.BlockchainLength, 32)
	w.interval(path+".network.minWindowDensity", n.MinWindowDensity, 32)
	w.interval(path+".network.totalCurrency", n.TotalCurrency, 64)
	w.interval(path+".network.globalSlotSinceGenesis", n.GlobalSlotSinceGenesis, 32)
	w.epochData(path+".network.stakingEpochData", n.StakingEpochData)
	w.epochData(path+".network.nextEpochData", n.NextEpochData)

	a := pc.Account
	w.interval(path+".account.balance", a.Balance, 64)
	w.interval(path+".account.nonce", a.Nonce, 32)
	w.optField(path+".account.receiptChainHash", a.ReceiptChainHash, func() {
		w.lazy(func(p *poseidon.Params) *big.Int {
			return p.EmptyHashWithPrefix(poseidon.PrefixReceiptChainEmpty)
		})
	})
	w.optPublicKey(path+".account.delegate", a.Delegate)
	if n := len(a.State); n != 0 && n != AppStateLength {
		w.fail(path+".account.state", fmt.Errorf("want %d entries, got %d", AppStateLength, n))
	}
	for i := 0; i < AppStateLength; i++ {
		var v *string
		if i < len(a.State) {
			v = a.State[i]
		}
		w.optField(fmt.Sprintf("%s.account.state[%d]", path, i), v, w.zeroField)
	}
	w.optField(path+".account.actionState", a.ActionState, func() {
		w.lazy(emptyActionState)
	})
	w.optBool(a.ProvedState)
	w.optBool(a.IsNew)

	w.interval(path+".validWhile", pc.ValidWhile, 32)
}

// listHash folds a list of events or actions from the last element to the
// first:
//
//	h = emptyHash(emptyPrefix)
//	h = H(prefix, [h, H(MinaZkappEvent, e)])
func listHash(p *poseidon.Params, list [][]*big.Int, prefix, emptyPrefix string) *big.Int {
	h := p.EmptyHashWithPrefix(emptyPrefix)
	for i := len(list) - 1; i >= 0; i-- {
		e := p.HashWithPrefix(poseidon.PrefixZkappEvent, list[i])
		h = p.HashWithPrefix(prefix, []*big.Int{h, e})
	}
	return h
}

func emptyActionState(p *poseidon.Params) *big.Int {
	return p.EmptyHashWithPrefix(poseidon.PrefixZkappActionStateEmptyElt)
}

// zkappURIHash hashes the bytes of uri followed by a single set bit.
func zkappURIHash(p *poseidon.Params, uri string) *big.Int {
	var in hashinput.Input
	for _, b := range append(hashinput.BytesBits([]byte(uri)), true) {
		in.Packed = append(in.Packed, hashinput.Bool(b))
	}
	return p.HashWithPrefix(poseidon.PrefixZkappURI, in.PackToFields())
}

// EventsHash returns the commitment to a list of events.
func EventsHash(events [][]*big.Int) (*big.Int, error) {
	p, err := poseidon.Kimchi()
	if err != nil {
		return nil, err
	}
	return listHash(p, events, poseidon.PrefixZkappEvents, poseidon.PrefixZkappEventsEmpty), nil
}

// ActionsHash returns the commitment to a list of actions.
func ActionsHash(actions [][]*big.Int) (*big.Int, error) {
	p, err := poseidon.Kimchi()
	if err != nil {
		return nil, err
	}
	return listHash(p, actions, poseidon.PrefixZkappActions, poseidon.PrefixZkappActionsEmpty), nil
}
