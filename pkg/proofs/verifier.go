// Package proofs is the boundary to the proof system. The signer never
// produces or inspects proofs; it only asks a Verifier whether a proof is
// valid for a verification key and public input.
//
// Groth16Verifier adapts the rapidsnark Groth16 verifier to that contract.
// Pool runs verifications concurrently on a bounded set of workers.
package proofs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iden3/go-rapidsnark/types"
	"github.com/iden3/go-rapidsnark/verifier"
)

// ErrMalformed is returned for proof or key bytes that cannot be decoded.
var ErrMalformed = errors.New("proofs: malformed input")

// Verifier checks a proof against a verification key and public input. A
// well-formed but invalid proof yields false and a nil error.
type Verifier interface {
	Verify(ctx context.Context, proof, verificationKey []byte, publicInput []string) (bool, error)
}

// VerifierFunc adapts a function to Verifier.
type VerifierFunc func(ctx context.Context, proof, verificationKey []byte, publicInput []string) (bool, error)

// Verify calls f.
func (f VerifierFunc) Verify(ctx context.Context, proof, verificationKey []byte, publicInput []string) (bool, error) {
	return f(ctx, proof, verificationKey, publicInput)
}

// Groth16Verifier verifies snarkjs-format Groth16 proofs over BN254.
//
// The proof is the JSON object {"pi_a": [...], "pi_b": [[...]], "pi_c": [...],
// "protocol": "groth16"}; the verification key is the snarkjs
// verification_key.json.
type Groth16Verifier struct{}

// Verify implements Verifier.
func (Groth16Verifier) Verify(ctx context.Context, proof, verificationKey []byte, publicInput []string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var data types.ProofData
	if err := json.Unmarshal(proof, &data); err != nil {
		return false, fmt.Errorf("%w: proof: %v", ErrMalformed, err)
	}
	if data.Protocol != "" && data.Protocol != "groth16" {
		return false, fmt.Errorf("%w: protocol %q is not supported", ErrMalformed, data.Protocol)
	}
	if len(data.A) == 0 || len(data.B) == 0 || len(data.C) == 0 {
		return false, fmt.Errorf("%w: proof is missing points", ErrMalformed)
	}
	if !json.Valid(verificationKey) {
		return false, fmt.Errorf("%w: verification key is not JSON", ErrMalformed)
	}
	zkProof := types.ZKProof{Proof: &data, PubSignals: publicInput}
	if err := verifier.VerifyGroth16(zkProof, verificationKey); err != nil {
		return false, nil
	}
	return true, nil
}
