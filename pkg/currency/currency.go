// Package currency parses and formats Mina amounts.
//
// Every amount, fee and nonce in a transaction JSON is a decimal string of
// the smallest unit (nanomina for amounts and fees). User-facing values are
// written in MINA with up to nine fractional digits:
//
//	1 MINA = 1_000_000_000 nanomina
//
// Parsing is exact: no floating point is involved, so "0.1" is exactly
// 100_000_000 nanomina.
package currency

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// NanominaPerMina is the number of base units in one MINA.
const NanominaPerMina uint64 = 1_000_000_000

// Decimals is the number of fractional digits of a MINA amount.
const Decimals = 9

// Errors returned by the parsers.
var (
	ErrNotNumeric = errors.New("currency: not a non-negative decimal integer")
	ErrNegative   = errors.New("currency: value cannot be negative")
	ErrOverflow   = errors.New("currency: value out of range")
	ErrPrecision  = errors.New("currency: more than 9 fractional digits")
)

// ValidNonNegative checks that s is a plain decimal integer that fits in
// 64 bits and returns it unchanged.
func ValidNonNegative(s string) (string, error) {
	if _, err := ParseUint64(s); err != nil {
		return "", err
	}
	return s, nil
}

// ParseUint64 parses a decimal string of digits only.
func ParseUint64(s string) (uint64, error) {
	return parseUint(s, 64)
}

// ParseUint32 parses a decimal string of digits only into 32 bits.
func ParseUint32(s string) (uint32, error) {
	v, err := parseUint(s, 32)
	return uint32(v), err
}

func parseUint(s string, bits int) (uint64, error) {
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("%w: %q", ErrNegative, s)
	}
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}
	v, err := strconv.ParseUint(s, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrOverflow, s)
	}
	return v, nil
}

// ParseMina converts a MINA amount such as "1.5" to nanomina.
func ParseMina(s string) (uint64, error) {
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("%w: %q", ErrNegative, s)
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > Decimals {
		return 0, fmt.Errorf("%w: %q", ErrPrecision, s)
	}
	w, err := ParseUint64(whole)
	if err != nil {
		return 0, err
	}
	var f uint64
	if frac != "" {
		if f, err = ParseUint64(frac + strings.Repeat("0", Decimals-len(frac))); err != nil {
			return 0, err
		}
	}
	if w > (^uint64(0)-f)/NanominaPerMina {
		return 0, fmt.Errorf("%w: %q", ErrOverflow, s)
	}
	return w*NanominaPerMina + f, nil
}

// FormatMina renders nanomina as MINA without trailing zeros.
func FormatMina(nanomina uint64) string {
	whole := nanomina / NanominaPerMina
	frac := nanomina % NanominaPerMina
	if frac == 0 {
		return strconv.FormatUint(whole, 10)
	}
	fs := fmt.Sprintf("%09d", frac)
	return strconv.FormatUint(whole, 10) + "." + strings.TrimRight(fs, "0")
}
