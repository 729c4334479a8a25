package api

import (
	"context"

	"github.com/suffix-labs/mina-signer-go/pkg/proofs"
)

// VerifyMessages verifies signed messages concurrently on the client's
// worker pool. Results are in input order; a malformed entry reports its
// error in its own Result. The pool is started on first use and stopped by
// Close.
func (c *Client) VerifyMessages(ctx context.Context, msgs []SignedLegacy[string]) ([]proofs.Result, error) {
	pool := c.verifyPool()
	if pool == nil {
		return nil, proofs.ErrPoolClosed
	}
	tasks := make([]proofs.Task, len(msgs))
	for i, m := range msgs {
		m := m
		tasks[i] = func(context.Context) (bool, error) {
			return c.VerifyMessage(m)
		}
	}
	results := pool.Run(ctx, tasks)
	c.log.Debug().Str("op", "verify_messages").Int("count", len(msgs)).Msg("verified batch")
	return results, nil
}

// VerifyProofs checks proofs concurrently with v. A nil v uses
// proofs.Groth16Verifier.
func (c *Client) VerifyProofs(ctx context.Context, v proofs.Verifier, jobs []proofs.Job) ([]proofs.Result, error) {
	defer c.track("verify_proofs")()

	pool := c.verifyPool()
	if pool == nil {
		return nil, proofs.ErrPoolClosed
	}
	if v == nil {
		v = proofs.Groth16Verifier{}
	}
	results := pool.VerifyAll(ctx, v, jobs)
	for _, r := range results {
		if !r.OK {
			c.metrics.verifyFailed("verify_proofs")
		}
	}
	return results, nil
}
