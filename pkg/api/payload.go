package api

import (
	"fmt"

	"github.com/suffix-labs/mina-signer-go/pkg/signature"
	"github.com/suffix-labs/mina-signer-go/pkg/transaction"
	"github.com/suffix-labs/mina-signer-go/pkg/zkapp"
)

// PayloadKind tags the variant held by a Payload.
type PayloadKind int

const (
	KindMessage PayloadKind = iota + 1
	KindPayment
	KindStakeDelegation
	KindZkappCommand
)

func (k PayloadKind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindPayment:
		return "payment"
	case KindStakeDelegation:
		return "stake_delegation"
	case KindZkappCommand:
		return "zkapp_command"
	}
	return fmt.Sprintf("payload(%d)", int(k))
}

// Payload is one of the signable shapes. Build it with the constructor for
// its kind; only the field matching Kind is read.
type Payload struct {
	Kind            PayloadKind
	Message         string
	Payment         transaction.Payment
	StakeDelegation transaction.StakeDelegation
	ZkappCommand    ZkappCommand
}

func MessagePayload(msg string) Payload {
	return Payload{Kind: KindMessage, Message: msg}
}

func PaymentPayload(p transaction.Payment) Payload {
	return Payload{Kind: KindPayment, Payment: p}
}

func StakeDelegationPayload(d transaction.StakeDelegation) Payload {
	return Payload{Kind: KindStakeDelegation, StakeDelegation: d}
}

func ZkappCommandPayload(z ZkappCommand) Payload {
	return Payload{Kind: KindZkappCommand, ZkappCommand: z}
}

// SignedPayload is the result of SignTransaction. Legacy kinds fill
// LegacySignature; zkApp commands fill Signature and Command.
type SignedPayload struct {
	Kind            PayloadKind
	PublicKey       string
	Signature       string
	LegacySignature *signature.JSON
	Payload         Payload
	Command         *zkapp.Command
}

// legacySignature returns the zero value when absent, which fails to decode.
func (s SignedPayload) legacySignature() signature.JSON {
	if s.LegacySignature == nil {
		return signature.JSON{}
	}
	return *s.LegacySignature
}

func unknownPayload(k PayloadKind) error {
	return validationError(ErrUnknownPayload, "kind", "cannot sign payload of kind "+k.String(), nil)
}

// SignTransaction signs any payload kind.
func (c *Client) SignTransaction(p Payload, privateKey string) (*SignedPayload, error) {
	out := &SignedPayload{Kind: p.Kind}
	switch p.Kind {
	case KindMessage:
		s, err := c.SignMessage(p.Message, privateKey)
		if err != nil {
			return nil, err
		}
		out.PublicKey = s.PublicKey
		out.LegacySignature = &s.Signature
		out.Payload = MessagePayload(s.Data)
	case KindPayment:
		s, err := c.SignPayment(p.Payment, privateKey)
		if err != nil {
			return nil, err
		}
		out.PublicKey = s.PublicKey
		out.LegacySignature = &s.Signature
		out.Payload = PaymentPayload(s.Data)
	case KindStakeDelegation:
		s, err := c.SignStakeDelegation(p.StakeDelegation, privateKey)
		if err != nil {
			return nil, err
		}
		out.PublicKey = s.PublicKey
		out.LegacySignature = &s.Signature
		out.Payload = StakeDelegationPayload(s.Data)
	case KindZkappCommand:
		s, err := c.SignZkappCommand(p.ZkappCommand, privateKey)
		if err != nil {
			return nil, err
		}
		out.PublicKey = s.PublicKey
		out.Signature = s.Signature
		out.Payload = p
		out.Command = &s.Data
	default:
		return nil, unknownPayload(p.Kind)
	}
	return out, nil
}

// VerifyTransaction verifies a SignTransaction result.
func (c *Client) VerifyTransaction(s SignedPayload) (bool, error) {
	if s.Kind != s.Payload.Kind {
		return false, validationError(ErrUnknownPayload, "kind", "payload kind does not match", nil)
	}
	switch s.Kind {
	case KindMessage:
		return c.VerifyMessage(SignedLegacy[string]{
			Signature: s.legacySignature(), PublicKey: s.PublicKey, Data: s.Payload.Message,
		})
	case KindPayment:
		return c.VerifyPayment(SignedLegacy[transaction.Payment]{
			Signature: s.legacySignature(), PublicKey: s.PublicKey, Data: s.Payload.Payment,
		})
	case KindStakeDelegation:
		return c.VerifyStakeDelegation(SignedLegacy[transaction.StakeDelegation]{
			Signature: s.legacySignature(), PublicKey: s.PublicKey, Data: s.Payload.StakeDelegation,
		})
	case KindZkappCommand:
		if s.Command == nil {
			return false, validationError(ErrInvalidCommand, "command", "missing signed command", nil)
		}
		return c.VerifyZkappCommand(Signed[zkapp.Command]{
			Signature: s.Signature, PublicKey: s.PublicKey, Data: *s.Command,
		})
	}
	return false, unknownPayload(s.Kind)
}
