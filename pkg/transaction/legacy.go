package transaction

import (
	"math/big"

	"github.com/suffix-labs/mina-signer-go/pkg/hashinput"
	"github.com/suffix-labs/mina-signer-go/pkg/keys"
	"github.com/suffix-labs/mina-signer-go/pkg/signature"
)

// Legacy constants. Only the default token exists for user commands.
const (
	defaultTokenID = 1
	tagBits        = 3
)

// tag returns the three body tag bits: payment 000, delegation 001.
func (k Kind) tag() []bool {
	bits := make([]bool, tagBits)
	if k == KindStakeDelegation {
		bits[2] = true
	}
	return bits
}

// HashInput packs c in protocol order:
//
//	fields: fee payer x, source x, receiver x
//	bits:   fee, fee token, fee payer parity, nonce, valid until, memo,
//	        tag, source parity, receiver parity, token id, amount, token locked
func (c *Command) HashInput() hashinput.Legacy {
	source := c.Source()
	var bits []bool
	bits = append(bits, hashinput.Uint64Bits(c.Fee)...)
	bits = append(bits, hashinput.Uint64Bits(defaultTokenID)...)
	bits = append(bits, c.FeePayer.IsOdd)
	bits = append(bits, hashinput.Uint32Bits(c.Nonce)...)
	bits = append(bits, hashinput.Uint32Bits(c.ValidUntil)...)
	bits = append(bits, c.Memo.LegacyInput().Bits...)
	bits = append(bits, c.Kind.tag()...)
	bits = append(bits, source.IsOdd, c.Receiver.IsOdd)
	bits = append(bits, hashinput.Uint64Bits(defaultTokenID)...)
	bits = append(bits, hashinput.Uint64Bits(c.Amount)...)
	bits = append(bits, false)
	return hashinput.Legacy{
		Fields: []*big.Int{c.FeePayer.X, source.X, c.Receiver.X},
		Bits:   bits,
	}
}

// Sign signs c with the legacy scheme.
func (c *Command) Sign(sk *keys.PrivateKey, network signature.NetworkID) *signature.Signature {
	return signature.SignLegacy(c.HashInput(), sk, network)
}

// Verify checks sig against c and its fee payer.
func (c *Command) Verify(sig *signature.Signature, network signature.NetworkID) bool {
	return signature.VerifyLegacy(sig, c.HashInput(), c.FeePayer, network)
}

// SignPayment parses and signs a payment.
func SignPayment(p Payment, sk *keys.PrivateKey, network signature.NetworkID) (*signature.Signature, error) {
	c, err := p.Command()
	if err != nil {
		return nil, err
	}
	return c.Sign(sk, network), nil
}

// VerifyPayment parses a payment and checks sig. Parse errors are returned;
// a bad signature is reported as false.
func VerifyPayment(p Payment, sig *signature.Signature, network signature.NetworkID) (bool, error) {
	c, err := p.Command()
	if err != nil {
		return false, err
	}
	return c.Verify(sig, network), nil
}

// SignStakeDelegation parses and signs a delegation.
func SignStakeDelegation(d StakeDelegation, sk *keys.PrivateKey, network signature.NetworkID) (*signature.Signature, error) {
	c, err := d.Command()
	if err != nil {
		return nil, err
	}
	return c.Sign(sk, network), nil
}

// VerifyStakeDelegation parses a delegation and checks sig.
func VerifyStakeDelegation(d StakeDelegation, sig *signature.Signature, network signature.NetworkID) (bool, error) {
	c, err := d.Command()
	if err != nil {
		return false, err
	}
	return c.Verify(sig, network), nil
}
