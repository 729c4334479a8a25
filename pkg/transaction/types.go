// Package transaction implements legacy payments and stake delegations:
// their JSON shape, signing, verification and transaction hashes.
//
// A user command has a common part shared by both kinds and a body:
//
//	common: fee, fee payer, nonce, validUntil, memo
//	body:   payment {receiver, amount} | stake delegation {newDelegate}
//
// Signatures use the legacy scheme over the legacy hash input (see
// HashInput). Hashes are computed over the bin_prot encoding of the signed
// command; the Berkeley flag selects the current (V2) encoding instead of
// the pre-Berkeley (V1) one.
//
// References:
//   - o1js/src/mina-signer/src/sign-legacy.ts
//   - o1js/src/mina-signer/src/transaction-hash.ts
//   - mina/src/lib/mina_base/signed_command_payload.ml
package transaction

import (
	"fmt"

	"github.com/suffix-labs/mina-signer-go/pkg/currency"
	"github.com/suffix-labs/mina-signer-go/pkg/encoding"
	"github.com/suffix-labs/mina-signer-go/pkg/keys"
)

// DefaultValidUntil is the largest global slot, used when validUntil is
// omitted.
const DefaultValidUntil = "4294967295"

// Kind tags the body of a user command.
type Kind uint8

const (
	KindPayment Kind = iota
	KindStakeDelegation
)

func (k Kind) String() string {
	switch k {
	case KindPayment:
		return "payment"
	case KindStakeDelegation:
		return "stake_delegation"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Payment is the JSON shape of a payment. Numbers are decimal strings.
type Payment struct {
	To         string `json:"to"`
	From       string `json:"from"`
	Fee        string `json:"fee"`
	Amount     string `json:"amount"`
	Nonce      string `json:"nonce"`
	Memo       string `json:"memo,omitempty"`
	ValidUntil string `json:"validUntil,omitempty"`
}

// StakeDelegation is the JSON shape of a stake delegation.
type StakeDelegation struct {
	To         string `json:"to"`
	From       string `json:"from"`
	Fee        string `json:"fee"`
	Nonce      string `json:"nonce"`
	Memo       string `json:"memo,omitempty"`
	ValidUntil string `json:"validUntil,omitempty"`
}

// Common holds the fields shared by payments and delegations.
type Common struct {
	Fee        uint64
	FeePayer   *keys.PublicKey
	Nonce      uint32
	ValidUntil uint32
	Memo       encoding.Memo
}

// Command is a parsed payment or stake delegation. For a delegation,
// Receiver is the new delegate and Amount is zero.
type Command struct {
	Common
	Kind     Kind
	Receiver *keys.PublicKey
	Amount   uint64
}

// Source is the account the command acts on. It is always the fee payer.
func (c *Command) Source() *keys.PublicKey {
	return c.FeePayer
}

// Command parses p.
func (p Payment) Command() (*Command, error) {
	common, err := parseCommon(p.From, p.Fee, p.Nonce, p.ValidUntil, p.Memo)
	if err != nil {
		return nil, err
	}
	receiver, err := parsePublicKey("to", p.To)
	if err != nil {
		return nil, err
	}
	amount, err := parseUint64("amount", p.Amount)
	if err != nil {
		return nil, err
	}
	return &Command{Common: *common, Kind: KindPayment, Receiver: receiver, Amount: amount}, nil
}

// Command parses d.
func (d StakeDelegation) Command() (*Command, error) {
	common, err := parseCommon(d.From, d.Fee, d.Nonce, d.ValidUntil, d.Memo)
	if err != nil {
		return nil, err
	}
	delegate, err := parsePublicKey("to", d.To)
	if err != nil {
		return nil, err
	}
	return &Command{Common: *common, Kind: KindStakeDelegation, Receiver: delegate}, nil
}

// FieldError reports which JSON field failed to parse.
type FieldError struct {
	Field string
	Cause error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Cause)
}

func (e *FieldError) Unwrap() error {
	return e.Cause
}

func parseCommon(from, fee, nonce, validUntil, memo string) (*Common, error) {
	feePayer, err := parsePublicKey("from", from)
	if err != nil {
		return nil, err
	}
	f, err := parseUint64("fee", fee)
	if err != nil {
		return nil, err
	}
	n, err := parseUint32("nonce", nonce)
	if err != nil {
		return nil, err
	}
	if validUntil == "" {
		validUntil = DefaultValidUntil
	}
	v, err := parseUint32("validUntil", validUntil)
	if err != nil {
		return nil, err
	}
	m, err := encoding.MemoFromString(memo)
	if err != nil {
		return nil, &FieldError{Field: "memo", Cause: err}
	}
	return &Common{Fee: f, FeePayer: feePayer, Nonce: n, ValidUntil: v, Memo: m}, nil
}

func parsePublicKey(name, s string) (*keys.PublicKey, error) {
	pk, err := keys.PublicKeyFromBase58(s)
	if err != nil {
		return nil, &FieldError{Field: name, Cause: err}
	}
	return pk, nil
}

func parseUint64(name, s string) (uint64, error) {
	v, err := currency.ParseUint64(s)
	if err != nil {
		return 0, &FieldError{Field: name, Cause: err}
	}
	return v, nil
}

func parseUint32(name, s string) (uint32, error) {
	v, err := currency.ParseUint32(s)
	if err != nil {
		return 0, &FieldError{Field: name, Cause: err}
	}
	return v, nil
}
