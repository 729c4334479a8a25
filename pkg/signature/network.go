package signature

import (
	"fmt"
	"strings"

	"github.com/suffix-labs/mina-signer-go/pkg/poseidon"
)

// NetworkID selects the signing domain.
type NetworkID string

const (
	Mainnet NetworkID = "mainnet"
	Testnet NetworkID = "testnet"

	// Devnet is accepted by ParseNetworkID as an alias of Testnet.
	Devnet = "devnet"
)

// ParseNetworkID accepts "mainnet", "testnet" and "devnet" in any case.
func ParseNetworkID(s string) (NetworkID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Mainnet):
		return Mainnet, nil
	case string(Testnet), Devnet:
		return Testnet, nil
	}
	return "", fmt.Errorf("signature: unknown network %q", s)
}

// Valid reports whether n is one of the two signing domains.
func (n NetworkID) Valid() bool {
	return n == Mainnet || n == Testnet
}

// ID is the byte mixed into nonce derivation.
func (n NetworkID) ID() byte {
	if n == Mainnet {
		return 0x01
	}
	return 0x00
}

// Prefix is the Poseidon prefix of the signature challenge.
func (n NetworkID) Prefix() string {
	if n == Mainnet {
		return poseidon.PrefixSignatureMainnet
	}
	return poseidon.PrefixSignatureTestnet
}

// ZkappBodyPrefix is the Poseidon prefix of account update hashes.
func (n NetworkID) ZkappBodyPrefix() string {
	if n == Mainnet {
		return poseidon.PrefixZkappBodyMainnet
	}
	return poseidon.PrefixZkappBodyTestnet
}

func (n NetworkID) String() string {
	return string(n)
}
