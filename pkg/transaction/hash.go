package transaction

import (
	blake2b "github.com/minio/blake2b-simd"

	"github.com/suffix-labs/mina-signer-go/pkg/encoding"
	"github.com/suffix-labs/mina-signer-go/pkg/signature"
)

// digestSize is the BLAKE2b output length of a transaction hash.
const digestSize = 32

// HashOptions selects the signed-command encoding to hash.
type HashOptions struct {
	// Berkeley hashes the current (V2) encoding. The default is the
	// pre-Berkeley (V1) encoding.
	Berkeley bool
}

// Hash returns the transaction hash of sc:
//
//	V1: BLAKE2b-256(ASCII(Base58Check(0x13, EncodeV1(sc))))
//	V2: BLAKE2b-256(EncodeV2(sc))
//
// encoded as Base58Check(0x12, 0x20 || digest).
func (sc *SignedCommand) Hash(opts HashOptions) string {
	var digest [digestSize]byte
	if opts.Berkeley {
		digest = blake2b.Sum256(sc.EncodeV2())
	} else {
		b58 := encoding.Encode(sc.EncodeV1(), encoding.VersionSignedCommandV1)
		digest = blake2b.Sum256([]byte(b58))
	}
	payload := append([]byte{digestSize}, digest[:]...)
	return encoding.Encode(payload, encoding.VersionTransactionHash)
}

// HashPayment hashes a signed payment. The signer is the fee payer.
func HashPayment(p Payment, sig *signature.Signature, opts HashOptions) (string, error) {
	c, err := p.Command()
	if err != nil {
		return "", err
	}
	sc := &SignedCommand{Command: c, Signer: c.FeePayer, Signature: sig}
	return sc.Hash(opts), nil
}

// HashStakeDelegation hashes a signed stake delegation.
func HashStakeDelegation(d StakeDelegation, sig *signature.Signature, opts HashOptions) (string, error) {
	c, err := d.Command()
	if err != nil {
		return "", err
	}
	sc := &SignedCommand{Command: c, Signer: c.FeePayer, Signature: sig}
	return sc.Hash(opts), nil
}
