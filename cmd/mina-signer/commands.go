package main

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/suffix-labs/mina-signer-go/pkg/api"
	"github.com/suffix-labs/mina-signer-go/pkg/currency"
	"github.com/suffix-labs/mina-signer-go/pkg/field"
	"github.com/suffix-labs/mina-signer-go/pkg/nullifier"
	"github.com/suffix-labs/mina-signer-go/pkg/transaction"
	"github.com/suffix-labs/mina-signer-go/pkg/zkapp"
)

// ============================================================================
// Keys
// ============================================================================

var genKeysCmd = &cobra.Command{
	Use:   "genkeys",
	Short: "Generate a new keypair",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		kp, err := client.GenKeys()
		if err != nil {
			return err
		}
		return printJSON(kp)
	},
}

var flagUnsafe bool

var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Print the public key of the configured private key",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		sk, err := privateKey()
		if err != nil {
			return err
		}
		derive := client.DerivePublicKey
		if flagUnsafe {
			log.Warn().Msg("reducing private key modulo the group order")
			derive = client.DerivePublicKeyUnsafe
		}
		pk, err := derive(sk)
		if err != nil {
			return err
		}
		fmt.Println(pk)
		return nil
	},
}

func init() {
	deriveCmd.Flags().BoolVar(&flagUnsafe, "unsafe", false,
		"accept keys from older generators that exceed the group order")
}

// ============================================================================
// Messages and fields
// ============================================================================

var signMessageCmd = &cobra.Command{
	Use:   "sign-message <message>",
	Short: "Sign a string",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		sk, err := privateKey()
		if err != nil {
			return err
		}
		signed, err := client.SignMessage(args[0], sk)
		if err != nil {
			return err
		}
		return printJSON(signed)
	},
}

var verifyMessageCmd = &cobra.Command{
	Use:   "verify-message <file|->",
	Short: "Verify a signed string",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		var signed api.SignedLegacy[string]
		if err := readJSON(args[0], &signed); err != nil {
			return err
		}
		ok, err := client.VerifyMessage(signed)
		if err != nil {
			return err
		}
		return printVerified(ok)
	},
}

var signFieldsCmd = &cobra.Command{
	Use:   "sign-fields <field>...",
	Short: "Sign decimal field elements",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		sk, err := privateKey()
		if err != nil {
			return err
		}
		fields, err := parseFields(args)
		if err != nil {
			return err
		}
		signed, err := client.SignFields(fields, sk)
		if err != nil {
			return err
		}
		return printJSON(signed)
	},
}

func parseFields(args []string) ([]*big.Int, error) {
	out := make([]*big.Int, len(args))
	for i, a := range args {
		f, err := field.Fp.FromString(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = f
	}
	return out, nil
}

// ============================================================================
// Payments and delegations
// ============================================================================

type commandFlags struct {
	to         string
	fee        string
	nonce      string
	memo       string
	validUntil string
}

func (f *commandFlags) register(fs *pflag.FlagSet, toUsage string) {
	fs.StringVar(&f.to, "to", "", toUsage)
	fs.StringVar(&f.fee, "fee", "", "fee in MINA")
	fs.StringVar(&f.nonce, "nonce", "", "sender account nonce")
	fs.StringVar(&f.memo, "memo", "", "memo, at most 32 bytes")
	fs.StringVar(&f.validUntil, "valid-until", "", "last valid global slot")
}

// nanomina converts a MINA amount flag to a nanomina string.
func nanomina(name, mina string) (string, error) {
	n, err := currency.ParseMina(mina)
	if err != nil {
		return "", fmt.Errorf("--%s: %w", name, err)
	}
	return strconv.FormatUint(n, 10), nil
}

var (
	paymentFlags commandFlags
	flagAmount   string
)

var signPaymentCmd = &cobra.Command{
	Use:   "sign-payment",
	Short: "Sign a payment from the configured key",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		sk, err := privateKey()
		if err != nil {
			return err
		}
		from, err := client.DerivePublicKey(sk)
		if err != nil {
			return err
		}
		fee, err := nanomina("fee", paymentFlags.fee)
		if err != nil {
			return err
		}
		amount, err := nanomina("amount", flagAmount)
		if err != nil {
			return err
		}
		signed, err := client.SignPayment(transaction.Payment{
			To:         paymentFlags.to,
			From:       from,
			Fee:        fee,
			Amount:     amount,
			Nonce:      paymentFlags.nonce,
			Memo:       paymentFlags.memo,
			ValidUntil: paymentFlags.validUntil,
		}, sk)
		if err != nil {
			return err
		}
		return printJSON(signed)
	},
}

var verifyPaymentCmd = &cobra.Command{
	Use:   "verify-payment <file|->",
	Short: "Verify a signed payment",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		var signed api.SignedLegacy[transaction.Payment]
		if err := readJSON(args[0], &signed); err != nil {
			return err
		}
		ok, err := client.VerifyPayment(signed)
		if err != nil {
			return err
		}
		return printVerified(ok)
	},
}

var hashPaymentCmd = &cobra.Command{
	Use:   "hash-payment <file|->",
	Short: "Print the transaction hash of a signed payment",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		var signed api.SignedLegacy[transaction.Payment]
		if err := readJSON(args[0], &signed); err != nil {
			return err
		}
		h, err := client.HashPayment(signed, hashOptions())
		if err != nil {
			return err
		}
		fmt.Println(h)
		return nil
	},
}

var delegationFlags commandFlags

var signDelegationCmd = &cobra.Command{
	Use:   "sign-delegation",
	Short: "Delegate the configured key's stake",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		sk, err := privateKey()
		if err != nil {
			return err
		}
		from, err := client.DerivePublicKey(sk)
		if err != nil {
			return err
		}
		fee, err := nanomina("fee", delegationFlags.fee)
		if err != nil {
			return err
		}
		signed, err := client.SignStakeDelegation(transaction.StakeDelegation{
			To:         delegationFlags.to,
			From:       from,
			Fee:        fee,
			Nonce:      delegationFlags.nonce,
			Memo:       delegationFlags.memo,
			ValidUntil: delegationFlags.validUntil,
		}, sk)
		if err != nil {
			return err
		}
		return printJSON(signed)
	},
}

var verifyDelegationCmd = &cobra.Command{
	Use:   "verify-delegation <file|->",
	Short: "Verify a signed stake delegation",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		var signed api.SignedLegacy[transaction.StakeDelegation]
		if err := readJSON(args[0], &signed); err != nil {
			return err
		}
		ok, err := client.VerifyStakeDelegation(signed)
		if err != nil {
			return err
		}
		return printVerified(ok)
	},
}

var hashDelegationCmd = &cobra.Command{
	Use:   "hash-delegation <file|->",
	Short: "Print the transaction hash of a signed stake delegation",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		var signed api.SignedLegacy[transaction.StakeDelegation]
		if err := readJSON(args[0], &signed); err != nil {
			return err
		}
		h, err := client.HashStakeDelegation(signed, hashOptions())
		if err != nil {
			return err
		}
		fmt.Println(h)
		return nil
	},
}

func hashOptions() transaction.HashOptions {
	return transaction.HashOptions{Berkeley: viper.GetBool("berkeley")}
}

func init() {
	paymentFlags.register(signPaymentCmd.Flags(), "receiver public key")
	signPaymentCmd.Flags().StringVar(&flagAmount, "amount", "", "amount in MINA")
	delegationFlags.register(signDelegationCmd.Flags(), "delegate public key")
	for _, cmd := range []*cobra.Command{signPaymentCmd, signDelegationCmd} {
		for _, name := range []string{"to", "fee", "nonce"} {
			_ = cmd.MarkFlagRequired(name)
		}
	}
	_ = signPaymentCmd.MarkFlagRequired("amount")
}

// ============================================================================
// zkApp commands
// ============================================================================

var signZkappCmd = &cobra.Command{
	Use:   "sign-zkapp <file|->",
	Short: "Sign the fee payer of a zkApp command",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		sk, err := privateKey()
		if err != nil {
			return err
		}
		var cmd api.ZkappCommand
		if err := readJSON(args[0], &cmd); err != nil {
			return err
		}
		signed, err := client.SignZkappCommand(cmd, sk)
		if err != nil {
			return err
		}
		return printJSON(signed)
	},
}

var verifyZkappCmd = &cobra.Command{
	Use:   "verify-zkapp <file|->",
	Short: "Verify the fee payer signature of a signed zkApp command",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		var signed api.Signed[zkapp.Command]
		if err := readJSON(args[0], &signed); err != nil {
			return err
		}
		ok, err := client.VerifyZkappCommand(signed)
		if err != nil {
			return err
		}
		return printVerified(ok)
	},
}

// ============================================================================
// Nullifiers
// ============================================================================

var nullifierCmd = &cobra.Command{
	Use:   "nullifier <field>...",
	Short: "Create the nullifier of a message for the configured key",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		sk, err := privateKey()
		if err != nil {
			return err
		}
		message, err := parseFields(args)
		if err != nil {
			return err
		}
		n, err := client.CreateNullifier(message, sk)
		if err != nil {
			return err
		}
		return printJSON(n)
	},
}

var verifyNullifierCmd = &cobra.Command{
	Use:   "verify-nullifier <file|-> <field>...",
	Short: "Verify a nullifier against its message",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		var n nullifier.Nullifier
		if err := readJSON(args[0], &n); err != nil {
			return err
		}
		message, err := parseFields(args[1:])
		if err != nil {
			return err
		}
		if err := client.VerifyNullifier(&n, message); err != nil {
			return err
		}
		key, err := client.NullifierKey(&n)
		if err != nil {
			return err
		}
		fmt.Println("valid")
		fmt.Println("key:", key)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		fmt.Printf("mina-signer %s (network %s)\n", Version, client.Network())
		return nil
	},
}
