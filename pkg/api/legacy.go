package api

import (
	"errors"
	"math/big"

	"github.com/hashicorp/go-multierror"

	"github.com/suffix-labs/mina-signer-go/pkg/currency"
	"github.com/suffix-labs/mina-signer-go/pkg/encoding"
	"github.com/suffix-labs/mina-signer-go/pkg/field"
	"github.com/suffix-labs/mina-signer-go/pkg/signature"
	"github.com/suffix-labs/mina-signer-go/pkg/transaction"
)

// Signed is data with a Base58 signature.
type Signed[T any] struct {
	Signature string `json:"signature"`
	PublicKey string `json:"publicKey"`
	Data      T      `json:"data"`
}

// SignedLegacy is data with a legacy {field, scalar} signature.
type SignedLegacy[T any] struct {
	Signature signature.JSON `json:"signature"`
	PublicKey string         `json:"publicKey"`
	Data      T              `json:"data"`
}

// validator collects every input problem before returning.
type validator struct {
	c    *Client
	errs *multierror.Error
}

func (v *validator) add(err error) {
	if err != nil {
		v.errs = multierror.Append(v.errs, err)
	}
}

func (v *validator) publicKey(name, s string) {
	_, err := v.c.publicKey(name, s)
	v.add(err)
}

func (v *validator) uint64(name, s string) {
	if _, err := currency.ValidNonNegative(s); err != nil {
		v.add(validationError(ErrInvalidInput, name, "must be a non-negative integer", err))
	}
}

func (v *validator) uint32(name, s string) {
	if _, err := currency.ParseUint32(s); err != nil {
		v.add(validationError(ErrInvalidInput, name, "must be a non-negative 32-bit integer", err))
	}
}

func (v *validator) memo(s string) {
	if _, err := encoding.MemoFromString(s); err != nil {
		v.add(validationError(ErrInvalidMemo, "memo", "memo is at most 32 bytes", err))
	}
}

func (v *validator) err() error {
	return v.errs.ErrorOrNil()
}

// common validates the fields shared by payments and delegations and
// returns validUntil with its default applied.
func (v *validator) common(to, from, fee, nonce, validUntil, memo string) string {
	if validUntil == "" {
		validUntil = transaction.DefaultValidUntil
	}
	v.publicKey("to", to)
	v.publicKey("from", from)
	v.uint64("fee", fee)
	v.uint32("nonce", nonce)
	v.uint32("validUntil", validUntil)
	v.memo(memo)
	return validUntil
}

func (c *Client) validPayment(p transaction.Payment) (transaction.Payment, error) {
	v := &validator{c: c}
	p.ValidUntil = v.common(p.To, p.From, p.Fee, p.Nonce, p.ValidUntil, p.Memo)
	v.uint64("amount", p.Amount)
	return p, v.err()
}

func (c *Client) validDelegation(d transaction.StakeDelegation) (transaction.StakeDelegation, error) {
	v := &validator{c: c}
	d.ValidUntil = v.common(d.To, d.From, d.Fee, d.Nonce, d.ValidUntil, d.Memo)
	return d, v.err()
}

// commandError maps an error from the transaction package.
func commandError(err error) error {
	var fe *transaction.FieldError
	if errors.As(err, &fe) {
		return validationError(ErrInvalidInput, fe.Field, "invalid value", fe.Cause)
	}
	return validationError(ErrInvalidInput, "", "invalid command", err)
}

// ============================================================================
// Fields and messages
// ============================================================================

// SignFields signs a list of field elements with the kimchi scheme. The
// signature always uses the testnet domain so it can be checked in-circuit.
func (c *Client) SignFields(fields []*big.Int, privateKey string) (*Signed[[]*big.Int], error) {
	defer c.track("sign_fields")()

	if err := validFields(fields); err != nil {
		return nil, err
	}
	sk, err := c.privateKey(privateKey)
	if err != nil {
		return nil, err
	}
	if err := c.kimchiReady(); err != nil {
		return nil, err
	}
	sig, err := signature.SignFields(fields, sk, signature.Testnet)
	if err != nil {
		return nil, cryptoError(ErrHashParams, "cannot sign fields", err)
	}
	return &Signed[[]*big.Int]{
		Signature: sig.ToBase58(),
		PublicKey: sk.PublicKey().ToBase58(),
		Data:      copyFields(fields),
	}, nil
}

// VerifyFields verifies a SignFields result.
func (c *Client) VerifyFields(s Signed[[]*big.Int]) (bool, error) {
	defer c.track("verify_fields")()

	if err := validFields(s.Data); err != nil {
		return false, err
	}
	sig, err := parseSignature(s.Signature)
	if err != nil {
		return false, err
	}
	pk, err := c.publicKey("publicKey", s.PublicKey)
	if err != nil {
		return false, err
	}
	if err := c.kimchiReady(); err != nil {
		return false, err
	}
	ok := signature.VerifyFields(sig, s.Data, pk, signature.Testnet)
	return c.verified("verify_fields", s.PublicKey, ok), nil
}

func validFields(fields []*big.Int) error {
	var errs *multierror.Error
	for _, f := range fields {
		if !field.Fp.IsCanonical(f) {
			errs = multierror.Append(errs, validationError(ErrInvalidInput, "fields",
				"element is not a canonical field element", field.ErrOutOfRange))
		}
	}
	return errs.ErrorOrNil()
}

// SignMessage signs a string with the legacy scheme.
func (c *Client) SignMessage(message, privateKey string) (*SignedLegacy[string], error) {
	defer c.track("sign_message")()

	sk, err := c.privateKey(privateKey)
	if err != nil {
		return nil, err
	}
	sig := signature.SignString(message, sk, c.network)
	pk := sk.PublicKey().ToBase58()
	c.log.Debug().Str("op", "sign_message").Str("publicKey", pk).Msg("signed")
	return &SignedLegacy[string]{Signature: sig.ToJSON(), PublicKey: pk, Data: message}, nil
}

// VerifyMessage verifies a SignMessage result.
func (c *Client) VerifyMessage(s SignedLegacy[string]) (bool, error) {
	defer c.track("verify_message")()

	sig, err := parseSignatureJSON(s.Signature)
	if err != nil {
		return false, err
	}
	pk, err := c.publicKey("publicKey", s.PublicKey)
	if err != nil {
		return false, err
	}
	ok := signature.VerifyString(sig, s.Data, pk, c.network)
	return c.verified("verify_message", s.PublicKey, ok), nil
}

// ============================================================================
// Payments
// ============================================================================

// SignPayment validates and signs a payment. The returned data has
// validUntil filled in.
func (c *Client) SignPayment(p transaction.Payment, privateKey string) (*SignedLegacy[transaction.Payment], error) {
	defer c.track("sign_payment")()

	p, err := c.validPayment(p)
	if err != nil {
		return nil, err
	}
	sk, err := c.privateKey(privateKey)
	if err != nil {
		return nil, err
	}
	sig, err := transaction.SignPayment(p, sk, c.network)
	if err != nil {
		return nil, commandError(err)
	}
	c.log.Debug().Str("op", "sign_payment").Str("publicKey", p.From).Msg("signed")
	return &SignedLegacy[transaction.Payment]{Signature: sig.ToJSON(), PublicKey: p.From, Data: p}, nil
}

// VerifyPayment verifies a signed payment. The signer must be the sender.
func (c *Client) VerifyPayment(s SignedLegacy[transaction.Payment]) (bool, error) {
	defer c.track("verify_payment")()

	p, err := c.validPayment(s.Data)
	if err != nil {
		return false, err
	}
	sig, err := parseSignatureJSON(s.Signature)
	if err != nil {
		return false, err
	}
	if s.PublicKey != p.From {
		return c.verified("verify_payment", s.PublicKey, false), nil
	}
	ok, err := transaction.VerifyPayment(p, sig, c.network)
	if err != nil {
		return false, commandError(err)
	}
	return c.verified("verify_payment", s.PublicKey, ok), nil
}

// HashPayment returns the transaction hash of a signed payment.
func (c *Client) HashPayment(s SignedLegacy[transaction.Payment], opts transaction.HashOptions) (string, error) {
	defer c.track("hash_payment")()

	p, err := c.validPayment(s.Data)
	if err != nil {
		return "", err
	}
	sig, err := parseSignatureJSON(s.Signature)
	if err != nil {
		return "", err
	}
	h, err := transaction.HashPayment(p, sig, opts)
	if err != nil {
		return "", commandError(err)
	}
	return h, nil
}

// ============================================================================
// Stake delegations
// ============================================================================

// SignStakeDelegation validates and signs a stake delegation.
func (c *Client) SignStakeDelegation(d transaction.StakeDelegation, privateKey string) (*SignedLegacy[transaction.StakeDelegation], error) {
	defer c.track("sign_stake_delegation")()

	d, err := c.validDelegation(d)
	if err != nil {
		return nil, err
	}
	sk, err := c.privateKey(privateKey)
	if err != nil {
		return nil, err
	}
	sig, err := transaction.SignStakeDelegation(d, sk, c.network)
	if err != nil {
		return nil, commandError(err)
	}
	c.log.Debug().Str("op", "sign_stake_delegation").Str("publicKey", d.From).Msg("signed")
	return &SignedLegacy[transaction.StakeDelegation]{Signature: sig.ToJSON(), PublicKey: d.From, Data: d}, nil
}

// VerifyStakeDelegation verifies a signed stake delegation.
func (c *Client) VerifyStakeDelegation(s SignedLegacy[transaction.StakeDelegation]) (bool, error) {
	defer c.track("verify_stake_delegation")()

	d, err := c.validDelegation(s.Data)
	if err != nil {
		return false, err
	}
	sig, err := parseSignatureJSON(s.Signature)
	if err != nil {
		return false, err
	}
	if s.PublicKey != d.From {
		return c.verified("verify_stake_delegation", s.PublicKey, false), nil
	}
	ok, err := transaction.VerifyStakeDelegation(d, sig, c.network)
	if err != nil {
		return false, commandError(err)
	}
	return c.verified("verify_stake_delegation", s.PublicKey, ok), nil
}

// HashStakeDelegation returns the transaction hash of a signed delegation.
func (c *Client) HashStakeDelegation(s SignedLegacy[transaction.StakeDelegation], opts transaction.HashOptions) (string, error) {
	defer c.track("hash_stake_delegation")()

	d, err := c.validDelegation(s.Data)
	if err != nil {
		return "", err
	}
	sig, err := parseSignatureJSON(s.Signature)
	if err != nil {
		return "", err
	}
	h, err := transaction.HashStakeDelegation(d, sig, opts)
	if err != nil {
		return "", commandError(err)
	}
	return h, nil
}
