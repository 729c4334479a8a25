package zkapp

import (
	"math/big"

	"github.com/suffix-labs/mina-signer-go/pkg/keys"
	"github.com/suffix-labs/mina-signer-go/pkg/signature"
)

// Sign returns a copy of c signed by sk. sk must own the fee payer; every
// signature-authorized account update with sk's public key is signed too.
func Sign(c *Command, sk *keys.PrivateKey, network signature.NetworkID) (*Command, error) {
	p, err := c.parse()
	if err != nil {
		return nil, err
	}
	if !p.feePayer.publicKey.Equal(sk.PublicKey()) {
		return nil, ErrFeePayerMismatch
	}
	out := c.Clone()
	if _, err := signOwned(out, p, sk, network); err != nil {
		return nil, err
	}
	return out, nil
}

// signOwned fills in the authorizations of c that sk owns and returns how
// many it signed.
func signOwned(c *Command, p *parsed, sk *keys.PrivateKey, network signature.NetworkID) (int, error) {
	cm, err := c.commitments(p, network)
	if err != nil {
		return 0, err
	}
	pk := sk.PublicKey()
	signed := 0
	if p.feePayer.publicKey.Equal(pk) {
		if c.FeePayer.Authorization, err = signCommitment(cm.FullCommitment, sk, network); err != nil {
			return 0, err
		}
		signed++
	}
	for i, b := range p.updates {
		if !b.isSigned || !b.publicKey.Equal(pk) {
			continue
		}
		sig, err := signCommitment(cm.For(b.useFullCommitment), sk, network)
		if err != nil {
			return 0, err
		}
		c.AccountUpdates[i].Authorization.Signature = sig
		signed++
	}
	return signed, nil
}

// Verify reports whether pk is the fee payer of c and the fee payer and
// every signed account update owned by pk carry valid signatures. Parse
// failures are returned as errors.
func Verify(c *Command, pk *keys.PublicKey, network signature.NetworkID) (bool, error) {
	p, err := c.parse()
	if err != nil {
		return false, err
	}
	cm, err := c.commitments(p, network)
	if err != nil {
		return false, err
	}
	if !p.feePayer.publicKey.Equal(pk) {
		return false, nil
	}
	if !verifyCommitment(c.FeePayer.Authorization, cm.FullCommitment, pk, network) {
		return false, nil
	}
	for i, b := range p.updates {
		if !b.isSigned || !b.publicKey.Equal(pk) {
			continue
		}
		if !verifyCommitment(c.AccountUpdates[i].Authorization.Signature, cm.For(b.useFullCommitment), pk, network) {
			return false, nil
		}
	}
	return true, nil
}

// VerifyAll checks the fee payer signature and the signature of every
// signature-authorized account update against the key that owns it.
func VerifyAll(c *Command, network signature.NetworkID) (bool, error) {
	p, err := c.parse()
	if err != nil {
		return false, err
	}
	cm, err := c.commitments(p, network)
	if err != nil {
		return false, err
	}
	if !verifyCommitment(c.FeePayer.Authorization, cm.FullCommitment, p.feePayer.publicKey, network) {
		return false, nil
	}
	for i, b := range p.updates {
		if !b.isSigned {
			continue
		}
		if !verifyCommitment(c.AccountUpdates[i].Authorization.Signature, cm.For(b.useFullCommitment), b.publicKey, network) {
			return false, nil
		}
	}
	return true, nil
}

func signCommitment(msg *big.Int, sk *keys.PrivateKey, network signature.NetworkID) (string, error) {
	sig, err := signature.SignFields([]*big.Int{msg}, sk, network)
	if err != nil {
		return "", err
	}
	return sig.ToBase58(), nil
}

func verifyCommitment(b58 string, msg *big.Int, pk *keys.PublicKey, network signature.NetworkID) bool {
	if b58 == "" {
		return false
	}
	sig, err := signature.FromBase58(b58)
	if err != nil {
		return false
	}
	return signature.VerifyFields(sig, []*big.Int{msg}, pk, network)
}
