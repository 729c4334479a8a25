package zkapp

import (
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/suffix-labs/mina-signer-go/pkg/poseidon"
	"github.com/suffix-labs/mina-signer-go/pkg/signature"
)

// hasher hashes bodies for one network with the kimchi parameters.
type hasher struct {
	p       *poseidon.Params
	network signature.NetworkID
}

func newHasher(network signature.NetworkID) (*hasher, error) {
	p, err := poseidon.Kimchi()
	if err != nil {
		return nil, err
	}
	return &hasher{p: p, network: network}, nil
}

func (h *hasher) body(b *body) *big.Int {
	return h.p.HashWithPrefix(h.network.ZkappBodyPrefix(), b.input(h.p).PackToFields())
}

// AccountUpdateHash returns the hash of u's body.
func AccountUpdateHash(u AccountUpdate, network signature.NetworkID) (*big.Int, error) {
	b, err := u.Body.parse()
	if err != nil {
		return nil, err
	}
	h, err := newHasher(network)
	if err != nil {
		return nil, err
	}
	return h.body(b), nil
}

// AccountUpdate returns the account update the fee payer is hashed as: a
// negative balance change of the fee in the default token, a nonce
// precondition pinned to the nonce, a global slot precondition of
// [0, validUntil] and a signature authorization.
func (f FeePayerBody) AccountUpdate() Body {
	upper := strconv.FormatUint(math.MaxUint32, 10)
	if f.ValidUntil != nil {
		upper = *f.ValidUntil
	}
	b := Body{
		PublicKey:                  f.PublicKey,
		BalanceChange:              BalanceChange{Magnitude: f.Fee, Sgn: SgnNegative},
		IncrementNonce:             true,
		UseFullCommitment:          true,
		ImplicitAccountCreationFee: true,
		AuthorizationKind:          AuthorizationKind{IsSigned: true},
	}
	b.Preconditions.Network.GlobalSlotSinceGenesis = &Interval{Lower: "0", Upper: upper}
	b.Preconditions.Account.Nonce = NonceInterval(f.Nonce)
	return b
}

func (f FeePayerBody) parse() (*body, error) {
	b, err := f.AccountUpdate().parse()
	if err != nil {
		return nil, fmt.Errorf("feePayer: %w", err)
	}
	return b, nil
}

// tree is one node of the call forest.
type tree struct {
	body     *body
	children []*tree
}

// callForest groups updates into trees by call depth. The first update must
// be at depth 0 and each depth may grow by at most one.
func callForest(bodies []*body) ([]*tree, error) {
	prev := -1
	for i, b := range bodies {
		if b.callDepth > prev+1 {
			return nil, fmt.Errorf("%w: account update %d at depth %d follows depth %d",
				ErrInvalidCallDepth, i, b.callDepth, prev)
		}
		prev = b.callDepth
	}
	i := 0
	return buildForest(bodies, &i, 0), nil
}

func buildForest(bodies []*body, i *int, depth int) []*tree {
	var forest []*tree
	for *i < len(bodies) && bodies[*i].callDepth == depth {
		t := &tree{body: bodies[*i]}
		*i++
		t.children = buildForest(bodies, i, depth+1)
		forest = append(forest, t)
	}
	return forest
}

// forest folds the forest from the right. The empty forest hashes to 0.
func (h *hasher) forest(forest []*tree) *big.Int {
	stack := new(big.Int)
	for i := len(forest) - 1; i >= 0; i-- {
		t := forest[i]
		node := h.p.HashWithPrefix(poseidon.PrefixAccountUpdateNode,
			[]*big.Int{h.body(t.body), h.forest(t.children)})
		stack = h.p.HashWithPrefix(poseidon.PrefixAccountUpdateCons,
			[]*big.Int{node, stack})
	}
	return stack
}

// Commitments are the two values signed for a command.
type Commitments struct {
	Commitment     *big.Int
	FullCommitment *big.Int
}

// parsed is a command with every body decoded.
type parsed struct {
	feePayer *body
	updates  []*body
}

func (c *Command) parse() (*parsed, error) {
	fp, err := c.FeePayer.Body.parse()
	if err != nil {
		return nil, err
	}
	updates := make([]*body, len(c.AccountUpdates))
	for i, u := range c.AccountUpdates {
		if updates[i], err = u.Body.parse(); err != nil {
			return nil, fmt.Errorf("account update %d: %w", i, err)
		}
	}
	return &parsed{feePayer: fp, updates: updates}, nil
}

// Commitments computes the commitment and the full commitment of c.
func (c *Command) Commitments(network signature.NetworkID) (*Commitments, error) {
	p, err := c.parse()
	if err != nil {
		return nil, err
	}
	return c.commitments(p, network)
}

func (c *Command) commitments(p *parsed, network signature.NetworkID) (*Commitments, error) {
	memo, err := c.memo()
	if err != nil {
		return nil, err
	}
	forest, err := callForest(p.updates)
	if err != nil {
		return nil, err
	}
	h, err := newHasher(network)
	if err != nil {
		return nil, err
	}
	memoHash, err := memo.Hash()
	if err != nil {
		return nil, err
	}
	commitment := h.forest(forest)
	full := h.p.HashWithPrefix(poseidon.PrefixAccountUpdateCons,
		[]*big.Int{memoHash, h.body(p.feePayer), commitment})
	return &Commitments{Commitment: commitment, FullCommitment: full}, nil
}

// For returns the value an update with the given flag signs.
func (cm *Commitments) For(useFullCommitment bool) *big.Int {
	if useFullCommitment {
		return cm.FullCommitment
	}
	return cm.Commitment
}
