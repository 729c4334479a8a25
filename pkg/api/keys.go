package api

import (
	"github.com/suffix-labs/mina-signer-go/pkg/keys"
	"github.com/suffix-labs/mina-signer-go/pkg/signature"
	"github.com/suffix-labs/mina-signer-go/pkg/zkapp"
)

// Keypair is a Base58 private key and its public key.
type Keypair struct {
	PrivateKey string `json:"privateKey"`
	PublicKey  string `json:"publicKey"`
}

// GenKeys generates a fresh keypair from crypto/rand.
func (c *Client) GenKeys() (*Keypair, error) {
	defer c.track("gen_keys")()

	sk, err := keys.GenerateKey(nil)
	if err != nil {
		return nil, err
	}
	pk := sk.PublicKey().ToBase58()
	c.log.Debug().Str("publicKey", pk).Msg("generated keypair")
	return &Keypair{PrivateKey: sk.ToBase58(), PublicKey: pk}, nil
}

// VerifyKeypair checks that kp.PublicKey is derived from kp.PrivateKey and
// that the private key can sign a transaction the public key verifies. It
// returns nil when both hold.
func (c *Client) VerifyKeypair(kp Keypair) error {
	defer c.track("verify_keypair")()

	sk, err := c.privateKey(kp.PrivateKey)
	if err != nil {
		return err
	}
	pk, err := c.publicKey("publicKey", kp.PublicKey)
	if err != nil {
		return err
	}
	if err := keys.VerifyKeypair(sk, pk); err != nil {
		return cryptoError(ErrKeypairMismatch, "public key not derivable from private key", err)
	}

	// Without kimchi tables the legacy scheme is the only signing path.
	if c.kimchiReady() != nil {
		sig := signature.SignString(kp.PublicKey, sk, c.network)
		if !signature.VerifyString(sig, kp.PublicKey, pk, c.network) {
			return cryptoError(ErrKeypairMismatch, "could not sign a message with private key", nil)
		}
		return nil
	}

	// A fee-payer-only command exercises the whole signing path.
	dummy := &zkapp.Command{FeePayer: zkapp.FeePayer{Body: zkapp.FeePayerBody{
		PublicKey: kp.PublicKey, Fee: "0", Nonce: "0",
	}}}
	signed, err := zkapp.Sign(dummy, sk, c.network)
	if err != nil {
		return cryptoError(ErrKeypairMismatch, "could not sign a transaction with private key", err)
	}
	ok, err := zkapp.Verify(signed, pk, c.network)
	if err != nil || !ok {
		return cryptoError(ErrKeypairMismatch, "could not sign a transaction with private key", err)
	}
	return nil
}

// DerivePublicKey returns the public key of a Base58 private key.
func (c *Client) DerivePublicKey(privateKey string) (string, error) {
	defer c.track("derive_public_key")()

	sk, err := c.privateKey(privateKey)
	if err != nil {
		return "", err
	}
	return sk.PublicKey().ToBase58(), nil
}

// DerivePublicKeyUnsafe is DerivePublicKey for keys made by older
// generators whose scalar may exceed the group order. The scalar is reduced
// modulo q first, so two different strings can yield the same key.
func (c *Client) DerivePublicKeyUnsafe(privateKey string) (string, error) {
	defer c.track("derive_public_key_unsafe")()

	sk, err := keys.ConvertLegacyPrivateKey(privateKey)
	if err != nil {
		return "", validationError(ErrInvalidKey, "privateKey", "cannot decode private key", err)
	}
	return sk.PublicKey().ToBase58(), nil
}

// ConvertPrivateKeyToBase58WithMod reduces an out-of-range private key
// modulo q and re-encodes it.
func (c *Client) ConvertPrivateKeyToBase58WithMod(privateKey string) (string, error) {
	defer c.track("convert_private_key")()

	sk, err := keys.ConvertLegacyPrivateKey(privateKey)
	if err != nil {
		return "", validationError(ErrInvalidKey, "privateKey", "cannot decode private key", err)
	}
	return sk.ToBase58(), nil
}

// PublicKeyToRaw returns the hex form of a public key used by Rosetta.
func (c *Client) PublicKeyToRaw(publicKey string) (string, error) {
	defer c.track("public_key_to_raw")()

	pk, err := c.publicKey("publicKey", publicKey)
	if err != nil {
		return "", err
	}
	return pk.ToRawHex(), nil
}
