package zkapp

// Multi-party signing roles.
//
// A zkApp command often needs signatures from several keys: the fee payer
// and the owners of signature-authorized account updates. The roles split
// the work so each party only handles its own key:
//   - Builder: sets up the fee payer, memo and account updates
//   - Signer: adds the signatures one private key owns
//   - Combiner: merges the authorizations of independently signed copies
//
// Every party signs the same unsigned command; the Combiner then produces
// the fully signed command.

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/suffix-labs/mina-signer-go/pkg/encoding"
	"github.com/suffix-labs/mina-signer-go/pkg/keys"
	"github.com/suffix-labs/mina-signer-go/pkg/signature"
)

var (
	// ErrConflictingData is returned when two copies carry different
	// authorizations for the same slot.
	ErrConflictingData = errors.New("zkapp: conflicting authorization data")

	// ErrIncompatible is returned when combining copies of different commands.
	ErrIncompatible = errors.New("zkapp: commands are not copies of the same command")
)

// Builder assembles an unsigned command.
type Builder struct {
	feePayer   *keys.PublicKey
	fee        uint64
	nonce      uint32
	validUntil *uint32
	memo       encoding.Memo
	updates    []AccountUpdate
}

// NewBuilder starts a command paid for by feePayer at the given account nonce.
func NewBuilder(feePayer *keys.PublicKey, nonce uint32) *Builder {
	return &Builder{feePayer: feePayer, nonce: nonce, memo: encoding.EmptyMemo}
}

// WithFee sets the fee in nanomina.
func (b *Builder) WithFee(fee uint64) *Builder {
	b.fee = fee
	return b
}

// WithValidUntil bounds the global slot at which the command may be included.
func (b *Builder) WithValidUntil(slot uint32) *Builder {
	b.validUntil = &slot
	return b
}

// SetMemo sets the memo text. It fails for text longer than 32 bytes.
func (b *Builder) SetMemo(text string) error {
	m, err := encoding.MemoFromString(text)
	if err != nil {
		return err
	}
	b.memo = m
	return nil
}

// AddAccountUpdate appends an update. Its body must parse, and its call
// depth must be at most one deeper than the previous update.
func (b *Builder) AddAccountUpdate(body Body) error {
	parsedBody, err := body.parse()
	if err != nil {
		return fmt.Errorf("account update %d: %w", len(b.updates), err)
	}
	prev := -1
	if n := len(b.updates); n > 0 {
		prev = b.updates[n-1].Body.CallDepth
	}
	if parsedBody.callDepth > prev+1 {
		return fmt.Errorf("%w: depth %d after depth %d", ErrInvalidCallDepth, parsedBody.callDepth, prev)
	}
	b.updates = append(b.updates, AccountUpdate{Body: body})
	return nil
}

// Build returns the unsigned command. It fails with ErrFeeTooLow when the
// fee does not cover MinimumFee.
func (b *Builder) Build() (*Command, error) {
	if minFee := MinimumFee(b.updates); b.fee < minFee {
		return nil, fmt.Errorf("%w: %d < %d", ErrFeeTooLow, b.fee, minFee)
	}
	body := FeePayerBody{
		PublicKey: b.feePayer.ToBase58(),
		Fee:       strconv.FormatUint(b.fee, 10),
		Nonce:     strconv.FormatUint(uint64(b.nonce), 10),
	}
	if b.validUntil != nil {
		s := strconv.FormatUint(uint64(*b.validUntil), 10)
		body.ValidUntil = &s
	}
	return &Command{
		FeePayer:       FeePayer{Body: body},
		AccountUpdates: append([]AccountUpdate(nil), b.updates...),
		Memo:           b.memo.Base58(),
	}, nil
}

// Signer adds the signatures one key owns to a command.
//
// The fee payer is signed when the key owns it. Account updates are signed
// when they are signature-authorized and carry the key's public key. Parts
// owned by other keys are left untouched for their own Signer.
type Signer struct {
	cmd     *Command
	network signature.NetworkID
}

// NewSigner wraps a copy of cmd.
func NewSigner(cmd *Command, network signature.NetworkID) *Signer {
	return &Signer{cmd: cmd.Clone(), network: network}
}

// Sign adds sk's signatures and returns how many were added.
func (s *Signer) Sign(sk *keys.PrivateKey) (int, error) {
	p, err := s.cmd.parse()
	if err != nil {
		return 0, err
	}
	return signOwned(s.cmd, p, sk, s.network)
}

// Finish returns the signed command.
func (s *Signer) Finish() *Command {
	return s.cmd
}

// Combiner merges independently signed copies of one command.
type Combiner struct {
	cmds []*Command
}

// NewCombiner creates a Combiner over cmds.
func NewCombiner(cmds []*Command) *Combiner {
	return &Combiner{cmds: cmds}
}

// Combine merges every copy into a new command. Copies must agree on every
// body and on the memo. An authorization present in several copies must be
// identical, otherwise ErrConflictingData is returned.
func (c *Combiner) Combine() (*Command, error) {
	if len(c.cmds) == 0 {
		return nil, errors.New("zkapp: no commands to combine")
	}
	result := c.cmds[0].Clone()
	for i := 1; i < len(c.cmds); i++ {
		if err := c.mergeInto(result, c.cmds[i]); err != nil {
			return nil, fmt.Errorf("failed to merge command %d: %w", i, err)
		}
	}
	return result, nil
}

func (c *Combiner) mergeInto(dst, src *Command) error {
	if err := validateCompatible(dst, src); err != nil {
		return err
	}
	auth, err := mergeString(dst.FeePayer.Authorization, src.FeePayer.Authorization)
	if err != nil {
		return fmt.Errorf("fee payer: %w", err)
	}
	dst.FeePayer.Authorization = auth

	for i := range dst.AccountUpdates {
		d := &dst.AccountUpdates[i].Authorization
		s := src.AccountUpdates[i].Authorization
		if d.Signature, err = mergeString(d.Signature, s.Signature); err != nil {
			return fmt.Errorf("account update %d signature: %w", i, err)
		}
		if d.Proof, err = mergeString(d.Proof, s.Proof); err != nil {
			return fmt.Errorf("account update %d proof: %w", i, err)
		}
	}
	return nil
}

// validateCompatible checks that a and b differ at most in authorizations.
func validateCompatible(a, b *Command) error {
	if !reflect.DeepEqual(a.FeePayer.Body, b.FeePayer.Body) {
		return fmt.Errorf("%w: fee payer bodies differ", ErrIncompatible)
	}
	if a.Memo != b.Memo {
		return fmt.Errorf("%w: memos differ", ErrIncompatible)
	}
	if len(a.AccountUpdates) != len(b.AccountUpdates) {
		return fmt.Errorf("%w: %d != %d account updates", ErrIncompatible,
			len(a.AccountUpdates), len(b.AccountUpdates))
	}
	for i := range a.AccountUpdates {
		if !reflect.DeepEqual(a.AccountUpdates[i].Body, b.AccountUpdates[i].Body) {
			return fmt.Errorf("%w: account update %d bodies differ", ErrIncompatible, i)
		}
	}
	return nil
}

func mergeString(dst, src string) (string, error) {
	switch {
	case src == "" || src == dst:
		return dst, nil
	case dst == "":
		return src, nil
	}
	return "", ErrConflictingData
}
