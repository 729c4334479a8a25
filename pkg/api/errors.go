package api

import "fmt"

// ValidationError is returned when caller input is malformed. It is raised
// before any cryptographic work and is fixed by correcting the input.
type ValidationError struct {
	Code    string // Error code (e.g., ErrInvalidInput, ErrFeeTooLow)
	Field   string // JSON field at fault, if any
	Message string // Human-readable error message
	Cause   error  // Underlying error (if any)
}

func (e *ValidationError) Error() string {
	prefix := fmt.Sprintf("validation error [%s]", e.Code)
	if e.Field != "" {
		prefix += " " + e.Field
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// CryptoError is returned when a structurally valid input fails a
// cryptographic check, such as a point off the curve or a bad proof.
type CryptoError struct {
	Code    string // Error code (e.g., ErrInvalidKey, ErrInvalidProof)
	Message string // Human-readable error message
	Cause   error  // Underlying error (if any)
}

func (e *CryptoError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("crypto error [%s]: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("crypto error [%s]: %s", e.Code, e.Message)
}

func (e *CryptoError) Unwrap() error {
	return e.Cause
}

// Error codes used throughout the API.
const (
	ErrInvalidInput     = "INVALID_INPUT"     // Numeric field is not a non-negative decimal string
	ErrInvalidMemo      = "INVALID_MEMO"      // Memo is too long or malformed
	ErrInvalidKey       = "INVALID_KEY"       // Key does not decode or is not on the curve
	ErrInvalidSignature = "INVALID_SIGNATURE" // Signature does not decode
	ErrKeypairMismatch  = "KEYPAIR_MISMATCH"  // Public key is not derived from the private key
	ErrMissingFee       = "MISSING_FEE"       // zkApp fee payer has no fee
	ErrFeeTooLow        = "FEE_TOO_LOW"       // zkApp fee below the account update minimum
	ErrUnknownPayload   = "UNKNOWN_PAYLOAD"   // Payload kind is not signable
	ErrInvalidCommand   = "INVALID_COMMAND"   // zkApp command structure is invalid
	ErrInvalidProof     = "INVALID_PROOF"     // Nullifier proof does not verify
	ErrHashParams       = "HASH_PARAMS"       // Kimchi Poseidon round constants are not installed
)

func validationError(code, field, message string, cause error) *ValidationError {
	return &ValidationError{Code: code, Field: field, Message: message, Cause: cause}
}

func cryptoError(code, message string, cause error) *CryptoError {
	return &CryptoError{Code: code, Message: message, Cause: cause}
}
