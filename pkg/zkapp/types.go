// Package zkapp implements zkApp commands: their JSON shape, account update
// hashing, the call forest commitment and fee payer / account update
// signatures.
//
// A zkApp command is a fee payer plus an ordered list of account updates.
// The updates form a forest through their callDepth: an update at depth d+1
// is a child of the closest preceding update at depth d.
//
// Two commitments are signed:
//
//	commitment     = callForestHash(accountUpdates)
//	fullCommitment = H(MinaAcctUpdateCons, [memoHash, feePayerHash, commitment])
//
// The fee payer always signs the full commitment. An account update that is
// authorized by a signature signs the full commitment when useFullCommitment
// is set and the plain commitment otherwise, so it stays valid when the fee
// payer or the memo change.
//
// Bodies are hashed with the complete protocol layout (see layout.go). The
// fee payer is hashed as the account update it stands for.
//
// References:
//   - o1js/src/mina-signer/src/sign-zkapp-command.ts
//   - o1js/src/bindings/mina-transaction/gen/js-layout.ts
//   - mina/src/lib/mina_base/zkapp_command.ml
package zkapp

import (
	"errors"
	"fmt"

	"github.com/suffix-labs/mina-signer-go/pkg/encoding"
)

// AccountUpdateFee is the minimum fee, in nanomina, charged per account update.
const AccountUpdateFee uint64 = 1_000_000

// Balance change signs.
const (
	SgnPositive = "Positive"
	SgnNegative = "Negative"
)

// AppStateLength is the number of zkApp state fields of an account.
const AppStateLength = 8

var (
	// ErrInvalidCallDepth is returned when call depths do not describe a forest.
	ErrInvalidCallDepth = errors.New("zkapp: invalid call depth")

	// ErrFeePayerMismatch is returned when signing a command with a key that
	// is not the fee payer's.
	ErrFeePayerMismatch = errors.New("zkapp: private key does not own the fee payer")

	// ErrFeeTooLow is returned when the fee is below MinimumFee.
	ErrFeeTooLow = errors.New("zkapp: fee below minimum")

	// ErrInvalidBody is returned for a body field that does not parse.
	ErrInvalidBody = errors.New("zkapp: invalid account update body")
)

// Command is the JSON shape of a zkApp command.
type Command struct {
	FeePayer       FeePayer        `json:"feePayer"`
	AccountUpdates []AccountUpdate `json:"accountUpdates"`
	// Memo is the Base58Check memo. Empty means the empty memo.
	Memo string `json:"memo"`
}

// FeePayer is the fee payer part of a command.
type FeePayer struct {
	Body          FeePayerBody `json:"body"`
	Authorization string       `json:"authorization"`
}

// FeePayerBody holds the fee payer's account, fee and nonce.
type FeePayerBody struct {
	PublicKey  string  `json:"publicKey"`
	Fee        string  `json:"fee"`
	Nonce      string  `json:"nonce"`
	ValidUntil *string `json:"validUntil"`
}

// AccountUpdate is one account update with its authorization.
type AccountUpdate struct {
	Body          Body          `json:"body"`
	Authorization Authorization `json:"authorization"`
}

// Body is the committed part of an account update. Zero values stand for
// the protocol defaults: the default token, no state changes, no events and
// no preconditions.
type Body struct {
	PublicKey                  string            `json:"publicKey"`
	TokenID                    string            `json:"tokenId"`
	Update                     Update            `json:"update"`
	BalanceChange              BalanceChange     `json:"balanceChange"`
	IncrementNonce             bool              `json:"incrementNonce"`
	Events                     [][]string        `json:"events"`
	Actions                    [][]string        `json:"actions"`
	CallData                   string            `json:"callData"`
	CallDepth                  int               `json:"callDepth"`
	Preconditions              Preconditions     `json:"preconditions"`
	UseFullCommitment          bool              `json:"useFullCommitment"`
	ImplicitAccountCreationFee bool              `json:"implicitAccountCreationFee"`
	MayUseToken                MayUseToken       `json:"mayUseToken"`
	AuthorizationKind          AuthorizationKind `json:"authorizationKind"`
}

// Update lists the account fields an update sets. A nil entry keeps the
// current value.
type Update struct {
	AppState        []*string                `json:"appState"`
	Delegate        *string                  `json:"delegate"`
	VerificationKey *VerificationKeyWithHash `json:"verificationKey"`
	Permissions     *Permissions             `json:"permissions"`
	ZkappURI        *string                  `json:"zkappUri"`
	TokenSymbol     *string                  `json:"tokenSymbol"`
	Timing          *Timing                  `json:"timing"`
	VotingFor       *string                  `json:"votingFor"`
}

// VerificationKeyWithHash is a verification key and its hash. Only the hash
// is committed to.
type VerificationKeyWithHash struct {
	Data string `json:"data"`
	Hash string `json:"hash"`
}

// AuthRequired names the authorization a permission demands.
type AuthRequired string

// Permission levels.
const (
	AuthNone       AuthRequired = "None"
	AuthEither     AuthRequired = "Either"
	AuthProof      AuthRequired = "Proof"
	AuthSignature  AuthRequired = "Signature"
	AuthImpossible AuthRequired = "Impossible"
)

// Permissions are the per-field authorizations of an account.
type Permissions struct {
	EditState          AuthRequired              `json:"editState"`
	Access             AuthRequired              `json:"access"`
	Send               AuthRequired              `json:"send"`
	Receive            AuthRequired              `json:"receive"`
	SetDelegate        AuthRequired              `json:"setDelegate"`
	SetPermissions     AuthRequired              `json:"setPermissions"`
	SetVerificationKey VerificationKeyPermission `json:"setVerificationKey"`
	SetZkappURI        AuthRequired              `json:"setZkappUri"`
	EditActionState    AuthRequired              `json:"editActionState"`
	SetTokenSymbol     AuthRequired              `json:"setTokenSymbol"`
	IncrementNonce     AuthRequired              `json:"incrementNonce"`
	SetVotingFor       AuthRequired              `json:"setVotingFor"`
	SetTiming          AuthRequired              `json:"setTiming"`
}

// VerificationKeyPermission is the setVerificationKey permission, bound to
// the transaction version it was set under.
type VerificationKeyPermission struct {
	Auth       AuthRequired `json:"auth"`
	TxnVersion string       `json:"txnVersion"`
}

// Timing is a vesting schedule.
type Timing struct {
	InitialMinimumBalance string `json:"initialMinimumBalance"`
	CliffTime             string `json:"cliffTime"`
	CliffAmount           string `json:"cliffAmount"`
	VestingPeriod         string `json:"vestingPeriod"`
	VestingIncrement      string `json:"vestingIncrement"`
}

// BalanceChange is a signed nanomina amount.
type BalanceChange struct {
	Magnitude string `json:"magnitude"`
	Sgn       string `json:"sgn"`
}

// Interval is a closed range of integers.
type Interval struct {
	Lower string `json:"lower"`
	Upper string `json:"upper"`
}

// Preconditions are checked by the ledger. A nil entry is ignored.
type Preconditions struct {
	Network    NetworkPrecondition `json:"network"`
	Account    AccountPrecondition `json:"account"`
	ValidWhile *Interval           `json:"validWhile"`
}

// NetworkPrecondition constrains the chain state.
type NetworkPrecondition struct {
	SnarkedLedgerHash      *string               `json:"snarkedLedgerHash"`
	BlockchainLength       *Interval             `json:"blockchainLength"`
	MinWindowDensity       *Interval             `json:"minWindowDensity"`
	TotalCurrency          *Interval             `json:"totalCurrency"`
	GlobalSlotSinceGenesis *Interval             `json:"globalSlotSinceGenesis"`
	StakingEpochData       EpochDataPrecondition `json:"stakingEpochData"`
	NextEpochData          EpochDataPrecondition `json:"nextEpochData"`
}

// EpochDataPrecondition constrains one epoch.
type EpochDataPrecondition struct {
	Ledger          EpochLedgerPrecondition `json:"ledger"`
	Seed            *string                 `json:"seed"`
	StartCheckpoint *string                 `json:"startCheckpoint"`
	LockCheckpoint  *string                 `json:"lockCheckpoint"`
	EpochLength     *Interval               `json:"epochLength"`
}

// EpochLedgerPrecondition constrains an epoch ledger.
type EpochLedgerPrecondition struct {
	Hash          *string   `json:"hash"`
	TotalCurrency *Interval `json:"totalCurrency"`
}

// AccountPrecondition constrains the account the update applies to.
type AccountPrecondition struct {
	Balance          *Interval `json:"balance"`
	Nonce            *Interval `json:"nonce"`
	ReceiptChainHash *string   `json:"receiptChainHash"`
	Delegate         *string   `json:"delegate"`
	State            []*string `json:"state"`
	ActionState      *string   `json:"actionState"`
	ProvedState      *bool     `json:"provedState"`
	IsNew            *bool     `json:"isNew"`
}

// MayUseToken controls whether the update may use its parent's token.
type MayUseToken struct {
	ParentsOwnToken   bool `json:"parentsOwnToken"`
	InheritFromParent bool `json:"inheritFromParent"`
}

// AuthorizationKind declares how the update is authorized. An empty
// VerificationKeyHash means the dummy verification key.
type AuthorizationKind struct {
	IsSigned            bool   `json:"isSigned"`
	IsProved            bool   `json:"isProved"`
	VerificationKeyHash string `json:"verificationKeyHash"`
}

// Authorization carries the signature or proof of an update.
type Authorization struct {
	Signature string `json:"signature,omitempty"`
	Proof     string `json:"proof,omitempty"`
}

// MinimumFee returns the smallest fee accepted for a command with the given
// account updates.
func MinimumFee(updates []AccountUpdate) uint64 {
	return uint64(len(updates)) * AccountUpdateFee
}

// Clone returns a copy of c that shares no account update slice with it.
func (c *Command) Clone() *Command {
	out := *c
	out.AccountUpdates = append([]AccountUpdate(nil), c.AccountUpdates...)
	return &out
}

// NonceInterval returns the precondition that pins a nonce.
func NonceInterval(nonce string) *Interval {
	return &Interval{Lower: nonce, Upper: nonce}
}

func (c *Command) memo() (encoding.Memo, error) {
	if c.Memo == "" {
		return encoding.EmptyMemo, nil
	}
	m, err := encoding.MemoFromBase58(c.Memo)
	if err != nil {
		return m, fmt.Errorf("memo: %w", err)
	}
	return m, nil
}
