package api

import (
	"errors"
	"math/big"

	"github.com/suffix-labs/mina-signer-go/pkg/nullifier"
	"github.com/suffix-labs/mina-signer-go/pkg/poseidon"
)

// CreateNullifier derives the nullifier of message under privateKey. The
// result is deterministic.
func (c *Client) CreateNullifier(message []*big.Int, privateKey string) (*nullifier.Nullifier, error) {
	defer c.track("create_nullifier")()

	if err := validFields(message); err != nil {
		return nil, err
	}
	sk, err := c.privateKey(privateKey)
	if err != nil {
		return nil, err
	}
	if err := c.kimchiReady(); err != nil {
		return nil, err
	}
	n, err := nullifier.Create(message, sk)
	if err != nil {
		return nil, nullifierError("cannot create nullifier", err)
	}
	c.log.Debug().Str("op", "create_nullifier").Str("publicKey", sk.PublicKey().ToBase58()).Msg("created")
	return n, nil
}

// VerifyNullifier returns nil if n is a valid nullifier for message. A proof
// that does not check out is a *CryptoError wrapping nullifier.ErrInvalidProof.
func (c *Client) VerifyNullifier(n *nullifier.Nullifier, message []*big.Int) error {
	defer c.track("verify_nullifier")()

	if err := validFields(message); err != nil {
		return err
	}
	if err := c.kimchiReady(); err != nil {
		return err
	}
	if err := nullifier.Verify(n, message); err != nil {
		c.metrics.verifyFailed("verify_nullifier")
		return nullifierError("nullifier does not verify", err)
	}
	return nil
}

// NullifierKey returns the value stored on chain to mark n as used.
func (c *Client) NullifierKey(n *nullifier.Nullifier) (*big.Int, error) {
	if n == nil {
		return nil, validationError(ErrInvalidInput, "nullifier", "missing nullifier", nil)
	}
	key, err := nullifier.Key(n)
	if err != nil {
		return nil, nullifierError("cannot hash nullifier", err)
	}
	return key, nil
}

func nullifierError(message string, err error) *CryptoError {
	if errors.Is(err, poseidon.ErrKimchiUnavailable) {
		return cryptoError(ErrHashParams, message, err)
	}
	return cryptoError(ErrInvalidProof, message, err)
}
