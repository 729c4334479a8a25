// Package api provides the high-level client for Mina signing.
//
// This is the main entry point for applications using the library. A Client
// is bound to one network and exposes:
//
//  1. Keys - GenKeys, VerifyKeypair, DerivePublicKey, PublicKeyToRaw and the
//     legacy key conversions
//  2. Fields and messages - SignFields, VerifyFields, SignMessage, VerifyMessage
//  3. Payments and delegations - Sign*, Verify*, Hash*
//  4. zkApp commands - SignZkappCommand, VerifyZkappCommand,
//     GetAccountUpdateMinimumFee
//  5. Dispatch - SignTransaction, VerifyTransaction over a Payload
//  6. Nullifiers - CreateNullifier, VerifyNullifier
//  7. Batches - VerifyMessages, VerifyProofs
//
// Every operation validates its input first and reports malformed input as
// a *ValidationError. The client holds no secrets; keys are passed in as
// Base58 strings on each call.
package api

import (
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/suffix-labs/mina-signer-go/pkg/keys"
	"github.com/suffix-labs/mina-signer-go/pkg/poseidon"
	"github.com/suffix-labs/mina-signer-go/pkg/proofs"
	"github.com/suffix-labs/mina-signer-go/pkg/signature"
)

const (
	defaultKeyCacheSize  = 256
	defaultVerifyWorkers = 4
)

// Client signs and verifies for one network. It is safe for concurrent use.
type Client struct {
	network  signature.NetworkID
	log      zerolog.Logger
	metrics  *metrics
	registry prometheus.Registerer
	keyCache *lru.Cache[string, *keys.PublicKey]

	cacheSize int
	workers   int
	poolOnce  sync.Once
	pool      *proofs.Pool
	closed    atomic.Bool
}

// Option configures a Client.
type Option func(*Client)

// WithNetwork selects the signing network. The default is mainnet.
func WithNetwork(network signature.NetworkID) Option {
	return func(c *Client) { c.network = network }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.log = logger }
}

// WithMetrics registers the client's metrics on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Client) { c.registry = reg }
}

// WithKeyCacheSize sets how many decoded public keys are kept. Zero turns
// the cache off.
func WithKeyCacheSize(size int) Option {
	return func(c *Client) { c.cacheSize = size }
}

// WithVerifyWorkers sets the number of workers used by batch verification.
func WithVerifyWorkers(n int) Option {
	return func(c *Client) { c.workers = n }
}

// New creates a Client.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		network:   signature.Mainnet,
		log:       zerolog.Nop(),
		cacheSize: defaultKeyCacheSize,
		workers:   defaultVerifyWorkers,
	}
	for _, opt := range opts {
		opt(c)
	}
	if !c.network.Valid() {
		return nil, validationError(ErrInvalidInput, "network", "unknown network "+string(c.network), nil)
	}
	if c.cacheSize > 0 {
		cache, err := lru.New[string, *keys.PublicKey](c.cacheSize)
		if err != nil {
			return nil, err
		}
		c.keyCache = cache
	}
	if c.registry != nil {
		m, err := newMetrics(c.registry)
		if err != nil {
			return nil, err
		}
		c.metrics = m
	}
	c.log = c.log.With().
		Str("component", "mina-signer").
		Str("network", c.network.String()).
		Logger()
	return c, nil
}

// Network returns the client's network.
func (c *Client) Network() signature.NetworkID {
	return c.network
}

// Close stops the batch verification workers, if they were started. Batch
// calls made after Close return proofs.ErrPoolClosed.
func (c *Client) Close() {
	c.closed.Store(true)
	c.poolOnce.Do(func() {})
	if c.pool != nil {
		c.pool.Close()
	}
}

// verifyPool returns nil once the client is closed.
func (c *Client) verifyPool() *proofs.Pool {
	if c.closed.Load() {
		return nil
	}
	c.poolOnce.Do(func() {
		c.pool = proofs.NewPool(c.workers)
	})
	return c.pool
}

// kimchiReady reports missing kimchi Poseidon tables before any kimchi
// operation runs.
func (c *Client) kimchiReady() error {
	if _, err := poseidon.Kimchi(); err != nil {
		return cryptoError(ErrHashParams, "kimchi poseidon parameters not installed", err)
	}
	return nil
}

// track counts one operation and records its duration when the returned
// function runs.
func (c *Client) track(op string) func() {
	start := time.Now()
	return func() {
		c.metrics.observe(op, c.network.String(), start)
	}
}

// verified logs and counts the outcome of a verification.
func (c *Client) verified(op, publicKey string, ok bool) bool {
	if !ok {
		c.metrics.verifyFailed(op)
	}
	c.log.Debug().Str("op", op).Str("publicKey", publicKey).Bool("valid", ok).Msg("verified")
	return ok
}

// ============================================================================
// Key parsing
// ============================================================================

func (c *Client) privateKey(s string) (*keys.PrivateKey, error) {
	sk, err := keys.PrivateKeyFromBase58(s)
	if err != nil {
		return nil, validationError(ErrInvalidKey, "privateKey", "cannot decode private key", err)
	}
	return sk, nil
}

// publicKey decodes s, going through the cache. Decoding decompresses the
// point, which costs a square root.
func (c *Client) publicKey(field, s string) (*keys.PublicKey, error) {
	if c.keyCache != nil {
		if pk, ok := c.keyCache.Get(s); ok {
			return pk, nil
		}
	}
	pk, err := keys.PublicKeyFromBase58(s)
	if err != nil {
		return nil, validationError(ErrInvalidKey, field, "cannot decode public key", err)
	}
	if c.keyCache != nil {
		c.keyCache.Add(s, pk)
	}
	return pk, nil
}

func parseSignature(s string) (*signature.Signature, error) {
	sig, err := signature.FromBase58(s)
	if err != nil {
		return nil, validationError(ErrInvalidSignature, "signature", "cannot decode signature", err)
	}
	return sig, nil
}

func parseSignatureJSON(j signature.JSON) (*signature.Signature, error) {
	sig, err := signature.FromJSON(j)
	if err != nil {
		return nil, validationError(ErrInvalidSignature, "signature", "cannot decode signature", err)
	}
	return sig, nil
}

func copyFields(fields []*big.Int) []*big.Int {
	out := make([]*big.Int, len(fields))
	for i, f := range fields {
		out[i] = new(big.Int).Set(f)
	}
	return out
}
