// Package encoding implements Mina's Base58Check and memo encodings.
//
// Base58Check strings carry a one-byte version that identifies the payload
// type, followed by the payload and the first four bytes of
// SHA256(SHA256(version || payload)). This is the same construction Bitcoin
// uses, so the btcutil implementation is used directly.
//
// Version bytes:
//
//	0x5a  private key          payload: 0x01 || scalar (32 bytes LE)
//	0xcb  public key           payload: 0x01 0x01 || x (32 bytes LE) || isOdd
//	0x9a  signature            payload: 0x01 || r (32 bytes LE) || s (32 bytes LE)
//	0x14  user command memo    payload: 34-byte memo (see Memo)
//	0x12  transaction hash     payload: 0x20 || digest (32 bytes)
//	0x13  signed command (V1)  payload: bin_prot bytes
//	0x1c  token id             payload: field (32 bytes LE)
//
// References:
//   - mina/src/lib/base58_check/version_bytes.ml
//   - o1js/src/lib/util/base58.ts
package encoding

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
)

// Version bytes for Base58Check payloads.
const (
	VersionPrivateKey      byte = 0x5a
	VersionPublicKey       byte = 0xcb
	VersionSignature       byte = 0x9a
	VersionMemo            byte = 0x14
	VersionTransactionHash byte = 0x12
	VersionSignedCommandV1 byte = 0x13
	VersionTokenID         byte = 0x1c
)

// Errors returned by Decode.
var (
	ErrChecksumMismatch   = errors.New("encoding: base58 checksum mismatch")
	ErrInvalidVersionByte = errors.New("encoding: invalid version byte")
)

// Encode returns the Base58Check string of payload under version.
func Encode(payload []byte, version byte) string {
	return base58.CheckEncode(payload, version)
}

// Decode verifies the checksum and version of s and returns the payload.
func Decode(s string, version byte) ([]byte, error) {
	payload, got, err := base58.CheckDecode(s)
	if err != nil {
		if errors.Is(err, base58.ErrChecksum) || errors.Is(err, base58.ErrInvalidFormat) {
			return nil, fmt.Errorf("%w: %q", ErrChecksumMismatch, s)
		}
		return nil, err
	}
	if got != version {
		return nil, fmt.Errorf("%w: want 0x%02x, got 0x%02x", ErrInvalidVersionByte, version, got)
	}
	return payload, nil
}
