package api

import (
	"errors"

	"github.com/suffix-labs/mina-signer-go/pkg/currency"
	"github.com/suffix-labs/mina-signer-go/pkg/encoding"
	"github.com/suffix-labs/mina-signer-go/pkg/poseidon"
	"github.com/suffix-labs/mina-signer-go/pkg/zkapp"
)

// ZkappFeePayer is the fee payer of an unsigned zkApp command.
type ZkappFeePayer struct {
	PublicKey  string  `json:"publicKey"`
	Fee        string  `json:"fee"`
	Nonce      string  `json:"nonce"`
	ValidUntil *string `json:"validUntil,omitempty"`
}

// ZkappCommand is an unsigned zkApp command as handed to SignZkappCommand.
// Memo is plain text; it is encoded on signing.
type ZkappCommand struct {
	FeePayer       ZkappFeePayer         `json:"feePayer"`
	AccountUpdates []zkapp.AccountUpdate `json:"accountUpdates"`
	Memo           string                `json:"memo,omitempty"`
}

// GetAccountUpdateMinimumFee returns the smallest fee, in nanomina, accepted
// for a command with the given account updates.
func (c *Client) GetAccountUpdateMinimumFee(updates []zkapp.AccountUpdate) uint64 {
	return zkapp.MinimumFee(updates)
}

// command validates z and converts it into a zkapp.Command.
func (c *Client) command(z ZkappCommand) (*zkapp.Command, error) {
	if z.FeePayer.Fee == "" {
		return nil, validationError(ErrMissingFee, "feePayer.fee", "missing fee in fee payer", nil)
	}

	v := &validator{c: c}
	v.publicKey("feePayer.publicKey", z.FeePayer.PublicKey)
	v.uint64("feePayer.fee", z.FeePayer.Fee)
	v.uint32("feePayer.nonce", z.FeePayer.Nonce)
	if z.FeePayer.ValidUntil != nil {
		v.uint32("feePayer.validUntil", *z.FeePayer.ValidUntil)
	}
	v.memo(z.Memo)
	if err := v.err(); err != nil {
		return nil, err
	}

	fee, _ := currency.ParseUint64(z.FeePayer.Fee)
	if minFee := zkapp.MinimumFee(z.AccountUpdates); fee < minFee {
		return nil, validationError(ErrFeeTooLow, "feePayer.fee",
			"fee must be at least "+currency.FormatMina(minFee)+" MINA", zkapp.ErrFeeTooLow)
	}

	memo, _ := encoding.MemoFromString(z.Memo)
	return &zkapp.Command{
		FeePayer: zkapp.FeePayer{Body: zkapp.FeePayerBody{
			PublicKey:  z.FeePayer.PublicKey,
			Fee:        z.FeePayer.Fee,
			Nonce:      z.FeePayer.Nonce,
			ValidUntil: z.FeePayer.ValidUntil,
		}},
		AccountUpdates: z.AccountUpdates,
		Memo:           memo.Base58(),
	}, nil
}

// zkappError maps an error from the zkapp package.
func zkappError(err error) error {
	switch {
	case errors.Is(err, poseidon.ErrKimchiUnavailable):
		return cryptoError(ErrHashParams, "kimchi poseidon parameters not installed", err)
	case errors.Is(err, zkapp.ErrFeePayerMismatch):
		return cryptoError(ErrKeypairMismatch, "private key does not own the fee payer", err)
	case errors.Is(err, zkapp.ErrInvalidCallDepth):
		return validationError(ErrInvalidCommand, "accountUpdates", "invalid call depth", err)
	}
	return validationError(ErrInvalidCommand, "", "invalid zkApp command", err)
}

// SignZkappCommand signs the fee payer of z, and every signature-authorized
// account update owned by the same key. The returned signature is the fee
// payer's; Data is the command with all authorizations filled in.
func (c *Client) SignZkappCommand(z ZkappCommand, privateKey string) (*Signed[zkapp.Command], error) {
	defer c.track("sign_zkapp_command")()

	cmd, err := c.command(z)
	if err != nil {
		return nil, err
	}
	sk, err := c.privateKey(privateKey)
	if err != nil {
		return nil, err
	}
	signed, err := zkapp.Sign(cmd, sk, c.network)
	if err != nil {
		return nil, zkappError(err)
	}
	c.log.Debug().
		Str("op", "sign_zkapp_command").
		Str("publicKey", z.FeePayer.PublicKey).
		Int("accountUpdates", len(z.AccountUpdates)).
		Msg("signed")
	return &Signed[zkapp.Command]{
		Signature: signed.FeePayer.Authorization,
		PublicKey: z.FeePayer.PublicKey,
		Data:      *signed,
	}, nil
}

// VerifyZkappCommand checks that s.Signature is the fee payer authorization
// of s.Data and that it, and every signed account update owned by
// s.PublicKey, verifies.
func (c *Client) VerifyZkappCommand(s Signed[zkapp.Command]) (bool, error) {
	defer c.track("verify_zkapp_command")()

	pk, err := c.publicKey("publicKey", s.PublicKey)
	if err != nil {
		return false, err
	}
	if s.Signature != s.Data.FeePayer.Authorization {
		return c.verified("verify_zkapp_command", s.PublicKey, false), nil
	}
	ok, err := zkapp.Verify(&s.Data, pk, c.network)
	if err != nil {
		return false, zkappError(err)
	}
	return c.verified("verify_zkapp_command", s.PublicKey, ok), nil
}

// VerifyZkappCommandAll checks every signature in a fully signed command
// against the key that owns it.
func (c *Client) VerifyZkappCommandAll(cmd zkapp.Command) (bool, error) {
	defer c.track("verify_zkapp_command_all")()

	ok, err := zkapp.VerifyAll(&cmd, c.network)
	if err != nil {
		return false, zkappError(err)
	}
	return c.verified("verify_zkapp_command_all", cmd.FeePayer.Body.PublicKey, ok), nil
}

// CombineZkappCommands merges partially signed copies of one command, as
// produced by independent signers, into a single command.
func (c *Client) CombineZkappCommands(cmds []zkapp.Command) (*zkapp.Command, error) {
	defer c.track("combine_zkapp_commands")()

	ptrs := make([]*zkapp.Command, len(cmds))
	for i := range cmds {
		ptrs[i] = &cmds[i]
	}
	out, err := zkapp.NewCombiner(ptrs).Combine()
	if err != nil {
		return nil, validationError(ErrInvalidCommand, "", "cannot combine commands", err)
	}
	return out, nil
}
