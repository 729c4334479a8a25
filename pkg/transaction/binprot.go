package transaction

// bin_prot encoding of signed commands, used only for transaction hashes.
//
// bin_prot is the OCaml binary protocol the Mina node serializes with:
//   - integers use a variable-length signed encoding: values in [0, 0x80)
//     are one byte, otherwise a marker (0xff int8, 0xfe int16, 0xfd int32,
//     0xfc int64) is followed by the little-endian value;
//   - lengths (nat0) use the same markers for u16/u32/u64;
//   - bools are one byte, strings are nat0 length || bytes;
//   - variants are a tag byte followed by the constructor arguments;
//   - field elements and scalars are 32 bytes little-endian.
//
// Unsigned 32- and 64-bit protocol numbers are written through their signed
// counterparts, so e.g. validUntil = 2^32-1 is written as int32 -1.
//
// The V1 (pre-Berkeley) encoding wraps every versioned type in a version
// byte; V2 drops the version bytes, the fee token, the token id and the
// payment source.

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/suffix-labs/mina-signer-go/pkg/encoding"
	"github.com/suffix-labs/mina-signer-go/pkg/field"
	"github.com/suffix-labs/mina-signer-go/pkg/keys"
	"github.com/suffix-labs/mina-signer-go/pkg/signature"
)

const (
	codeNegInt8 byte = 0xff
	codeInt16   byte = 0xfe
	codeInt32   byte = 0xfd
	codeInt64   byte = 0xfc

	versionTag byte = 0x01
)

// ErrDecode is returned for malformed bin_prot input.
var ErrDecode = errors.New("transaction: malformed bin_prot data")

// SignedCommand is a command together with its signer and signature.
type SignedCommand struct {
	Command   *Command
	Signer    *keys.PublicKey
	Signature *signature.Signature
}

// encodeInt writes a bin_prot int.
func encodeInt(w io.Writer, v int64) {
	var buf [8]byte
	switch {
	case v >= 0 && v < 0x80:
		w.Write([]byte{byte(v)})
	case v < 0 && v >= -0x80:
		w.Write([]byte{codeNegInt8, byte(int8(v))})
	case v >= math.MinInt16 && v <= math.MaxInt16:
		binary.LittleEndian.PutUint16(buf[:], uint16(int16(v)))
		w.Write(append([]byte{codeInt16}, buf[:2]...))
	case v >= math.MinInt32 && v <= math.MaxInt32:
		binary.LittleEndian.PutUint32(buf[:], uint32(int32(v)))
		w.Write(append([]byte{codeInt32}, buf[:4]...))
	default:
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		w.Write(append([]byte{codeInt64}, buf[:8]...))
	}
}

// encodeUint64 writes an unsigned 64-bit protocol number.
func encodeUint64(w io.Writer, v uint64) {
	encodeInt(w, int64(v))
}

// encodeUint32 writes an unsigned 32-bit protocol number.
func encodeUint32(w io.Writer, v uint32) {
	encodeInt(w, int64(int32(v)))
}

// encodeNat0 writes a bin_prot length.
func encodeNat0(w io.Writer, n uint64) {
	var buf [8]byte
	switch {
	case n < 0x80:
		w.Write([]byte{byte(n)})
	case n < 0x10000:
		binary.LittleEndian.PutUint16(buf[:], uint16(n))
		w.Write(append([]byte{codeInt16}, buf[:2]...))
	case n < 0x100000000:
		binary.LittleEndian.PutUint32(buf[:], uint32(n))
		w.Write(append([]byte{codeInt32}, buf[:4]...))
	default:
		binary.LittleEndian.PutUint64(buf[:], n)
		w.Write(append([]byte{codeInt64}, buf[:8]...))
	}
}

func encodeBytes(w io.Writer, b []byte) {
	encodeNat0(w, uint64(len(b)))
	w.Write(b)
}

func encodeBool(w io.Writer, b bool) {
	if b {
		w.Write([]byte{1})
		return
	}
	w.Write([]byte{0})
}

func encodePublicKey(w io.Writer, pk *keys.PublicKey) {
	w.Write(field.Fp.ToBytes(pk.X))
	encodeBool(w, pk.IsOdd)
}

func encodeSignature(w io.Writer, sig *signature.Signature) {
	w.Write(field.Fp.ToBytes(sig.R))
	w.Write(field.Fq.ToBytes(sig.S))
}

func encodeVersion(w io.Writer) {
	w.Write([]byte{versionTag})
}

// EncodeV1 writes the pre-Berkeley signed command.
func (sc *SignedCommand) EncodeV1() []byte {
	var buf bytes.Buffer
	c := sc.Command

	encodeVersion(&buf) // signed command
	encodeVersion(&buf) // payload
	encodeVersion(&buf) // common
	encodeVersion(&buf)
	encodeUint64(&buf, c.Fee)
	encodeVersion(&buf)
	encodeUint64(&buf, defaultTokenID)
	encodeVersion(&buf)
	encodePublicKey(&buf, c.FeePayer)
	encodeVersion(&buf)
	encodeUint32(&buf, c.Nonce)
	encodeVersion(&buf)
	encodeUint32(&buf, c.ValidUntil)
	encodeVersion(&buf)
	encodeBytes(&buf, c.Memo[:])

	encodeVersion(&buf) // body
	switch c.Kind {
	case KindPayment:
		buf.WriteByte(byte(KindPayment))
		encodeVersion(&buf)
		encodePublicKey(&buf, c.Source())
		encodePublicKey(&buf, c.Receiver)
		encodeVersion(&buf)
		encodeUint64(&buf, defaultTokenID)
		encodeVersion(&buf)
		encodeUint64(&buf, c.Amount)
	case KindStakeDelegation:
		buf.WriteByte(byte(KindStakeDelegation))
		encodeVersion(&buf)
		buf.WriteByte(0) // Set_delegate
		encodePublicKey(&buf, c.Source())
		encodePublicKey(&buf, c.Receiver)
	}

	encodeVersion(&buf)
	encodePublicKey(&buf, sc.Signer)
	encodeVersion(&buf)
	encodeSignature(&buf, sc.Signature)
	return buf.Bytes()
}

// EncodeV2 writes the Berkeley signed command.
func (sc *SignedCommand) EncodeV2() []byte {
	var buf bytes.Buffer
	c := sc.Command

	encodeUint64(&buf, c.Fee)
	encodePublicKey(&buf, c.FeePayer)
	encodeUint32(&buf, c.Nonce)
	buf.WriteByte(0) // Since_genesis
	encodeUint32(&buf, c.ValidUntil)
	encodeBytes(&buf, c.Memo[:])

	switch c.Kind {
	case KindPayment:
		buf.WriteByte(byte(KindPayment))
		encodePublicKey(&buf, c.Receiver)
		encodeUint64(&buf, c.Amount)
	case KindStakeDelegation:
		buf.WriteByte(byte(KindStakeDelegation))
		buf.WriteByte(0) // Set_delegate
		encodePublicKey(&buf, c.Receiver)
	}

	encodePublicKey(&buf, sc.Signer)
	encodeSignature(&buf, sc.Signature)
	return buf.Bytes()
}

// DecodeV2 parses the output of EncodeV2.
func DecodeV2(data []byte) (*SignedCommand, error) {
	r := bytes.NewReader(data)
	c := &Command{}

	var err error
	if c.Fee, err = decodeUint64(r); err != nil {
		return nil, err
	}
	if c.FeePayer, err = decodePublicKey(r); err != nil {
		return nil, err
	}
	if c.Nonce, err = decodeUint32(r); err != nil {
		return nil, err
	}
	if err = expectByte(r, 0); err != nil {
		return nil, err
	}
	if c.ValidUntil, err = decodeUint32(r); err != nil {
		return nil, err
	}
	memo, err := decodeBytes(r)
	if err != nil {
		return nil, err
	}
	if len(memo) != encoding.MemoSize {
		return nil, fmt.Errorf("%w: memo length %d", ErrDecode, len(memo))
	}
	copy(c.Memo[:], memo)

	tag, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	switch Kind(tag) {
	case KindPayment:
		c.Kind = KindPayment
		if c.Receiver, err = decodePublicKey(r); err != nil {
			return nil, err
		}
		if c.Amount, err = decodeUint64(r); err != nil {
			return nil, err
		}
	case KindStakeDelegation:
		c.Kind = KindStakeDelegation
		if err = expectByte(r, 0); err != nil {
			return nil, err
		}
		if c.Receiver, err = decodePublicKey(r); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown body tag %d", ErrDecode, tag)
	}

	sc := &SignedCommand{Command: c}
	if sc.Signer, err = decodePublicKey(r); err != nil {
		return nil, err
	}
	if sc.Signature, err = decodeSignature(r); err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrDecode, r.Len())
	}
	return sc, nil
}

func decodeInt(r *bytes.Reader) (int64, error) {
	code, err := r.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	var buf [8]byte
	switch code {
	case codeNegInt8:
		b, err := r.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return int64(int8(b)), nil
	case codeInt16:
		if _, err := io.ReadFull(r, buf[:2]); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return int64(int16(binary.LittleEndian.Uint16(buf[:2]))), nil
	case codeInt32:
		if _, err := io.ReadFull(r, buf[:4]); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return int64(int32(binary.LittleEndian.Uint32(buf[:4]))), nil
	case codeInt64:
		if _, err := io.ReadFull(r, buf[:8]); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return int64(binary.LittleEndian.Uint64(buf[:8])), nil
	}
	if code >= 0x80 {
		return 0, fmt.Errorf("%w: bad int code 0x%02x", ErrDecode, code)
	}
	return int64(code), nil
}

func decodeUint64(r *bytes.Reader) (uint64, error) {
	v, err := decodeInt(r)
	return uint64(v), err
}

func decodeUint32(r *bytes.Reader) (uint32, error) {
	v, err := decodeInt(r)
	return uint32(int32(v)), err
}

func decodeBytes(r *bytes.Reader) ([]byte, error) {
	code, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	var n uint64
	var buf [8]byte
	switch code {
	case codeInt16:
		if _, err := io.ReadFull(r, buf[:2]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		n = uint64(binary.LittleEndian.Uint16(buf[:2]))
	case codeInt32:
		if _, err := io.ReadFull(r, buf[:4]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		n = uint64(binary.LittleEndian.Uint32(buf[:4]))
	default:
		if code >= 0x80 {
			return nil, fmt.Errorf("%w: bad length code 0x%02x", ErrDecode, code)
		}
		n = uint64(code)
	}
	if n > uint64(r.Len()) {
		return nil, fmt.Errorf("%w: length %d exceeds input", ErrDecode, n)
	}
	out := make([]byte, n)
	_, _ = io.ReadFull(r, out)
	return out, nil
}

func decodePublicKey(r *bytes.Reader) (*keys.PublicKey, error) {
	var x [field.ByteSize]byte
	if _, err := io.ReadFull(r, x[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	odd, err := r.ReadByte()
	if err != nil || odd > 1 {
		return nil, fmt.Errorf("%w: bad public key parity", ErrDecode)
	}
	xv, err := field.Fp.FromBytes(x[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	pk := &keys.PublicKey{X: xv, IsOdd: odd == 1}
	if _, err := pk.Point(); err != nil {
		return nil, err
	}
	return pk, nil
}

func decodeSignature(r *bytes.Reader) (*signature.Signature, error) {
	var rb, sb [field.ByteSize]byte
	if _, err := io.ReadFull(r, rb[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if _, err := io.ReadFull(r, sb[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	rv, err := field.Fp.FromBytes(rb[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	sv, err := field.Fq.FromBytes(sb[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &signature.Signature{R: rv, S: sv}, nil
}

func expectByte(r *bytes.Reader, want byte) error {
	b, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if b != want {
		return fmt.Errorf("%w: want 0x%02x, got 0x%02x", ErrDecode, want, b)
	}
	return nil
}
