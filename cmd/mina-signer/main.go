// mina-signer CLI - Mina key, signature, hash and nullifier tool
//
// Every command runs against one network, selected with --network or
// MINA_SIGNER_NETWORK. Signed objects are printed as JSON and read back from
// a file argument, or stdin when the argument is "-".
//
// Example usage:
//
//	# Generate a keypair
//	mina-signer genkeys
//
//	# Sign and verify a message on devnet, reading the key from a file
//	mina-signer --network devnet sign-message --private-key-file key.txt "hello"
//	mina-signer --network devnet verify-message signed.json
//
//	# Sign a payment with the key on stdin and compute its Berkeley hash
//	pass mina/key | mina-signer sign-payment --private-key-file - --to B62... --amount 1.5 --fee 0.01 --nonce 3 > tx.json
//	mina-signer --berkeley hash-payment tx.json
//
//	# Field, zkApp and nullifier commands need the kimchi Poseidon tables
//	mina-signer --poseidon-params kimchi.json sign-fields --private-key-file key.txt 1 2 3
//
// --private-key and MINA_SIGNER_PRIVATE_KEY are still accepted, but both are
// visible to other processes of the same user; prefer --private-key-file.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/suffix-labs/mina-signer-go/pkg/api"
	"github.com/suffix-labs/mina-signer-go/pkg/poseidon"
	"github.com/suffix-labs/mina-signer-go/pkg/signature"
)

const envPrefix = "MINA_SIGNER"

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

var (
	flagConfig string

	log    zerolog.Logger
	client *api.Client
)

var rootCmd = &cobra.Command{
	Use:               "mina-signer",
	Short:             "Sign and verify Mina transactions",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if client != nil {
			client.Close()
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagConfig, "config", "", "config file (yaml, json or toml)")
	flags.String("network", string(signature.Mainnet), "network: mainnet, testnet or devnet")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("poseidon-params", "", "JSON file with Poseidon round constants")
	flags.Bool("berkeley", false, "hash with the Berkeley transaction encoding")
	flags.String("private-key", "", "Base58 private key (visible in the process list; prefer --private-key-file)")
	flags.String("private-key-file", "", `file holding the Base58 private key, or "-" for stdin`)
	_ = viper.BindPFlags(flags)

	log = zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger()

	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(
		genKeysCmd,
		deriveCmd,
		signMessageCmd,
		verifyMessageCmd,
		signFieldsCmd,
		signPaymentCmd,
		verifyPaymentCmd,
		hashPaymentCmd,
		signDelegationCmd,
		verifyDelegationCmd,
		hashDelegationCmd,
		signZkappCmd,
		verifyZkappCmd,
		nullifierCmd,
		verifyNullifierCmd,
		versionCmd,
	)
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if flagConfig != "" {
		viper.SetConfigFile(flagConfig)
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal().Err(err).Str("config", flagConfig).Msg("cannot read config file")
		}
	}
}

// setup applies the configuration and creates the client.
func setup(*cobra.Command, []string) error {
	level, err := zerolog.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log = log.Level(level)

	if path := viper.GetString("poseidon-params"); path != "" {
		if err := poseidon.LoadFile(path); err != nil {
			return err
		}
		log.Debug().Str("path", path).Msg("loaded poseidon parameters")
	}

	network, err := signature.ParseNetworkID(viper.GetString("network"))
	if err != nil {
		return err
	}
	client, err = api.New(api.WithNetwork(network), api.WithLogger(log))
	return err
}

// privateKey returns the configured private key. A key file takes
// precedence over --private-key and the environment.
func privateKey() (string, error) {
	if path := viper.GetString("private-key-file"); path != "" {
		return readPrivateKeyFile(path, os.Stdin)
	}
	sk := viper.GetString("private-key")
	if sk == "" {
		return "", fmt.Errorf("no private key: pass --private-key-file or set %s_PRIVATE_KEY", envPrefix)
	}
	if rootCmd.PersistentFlags().Changed("private-key") {
		log.Warn().Msg("--private-key exposes the key in the process list; use --private-key-file")
	}
	return sk, nil
}

// readPrivateKeyFile reads a key from the first line of path, or of stdin
// for "-". A key file readable by group or others is rejected.
func readPrivateKeyFile(path string, stdin io.Reader) (string, error) {
	r := stdin
	if path != "-" {
		info, err := os.Stat(path)
		if err != nil {
			return "", err
		}
		if info.Mode().Perm()&0o077 != 0 {
			return "", fmt.Errorf("private key file %s is accessible by others (mode %04o); chmod 600 it",
				path, info.Mode().Perm())
		}
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("cannot read private key: %w", err)
	}
	sk := strings.TrimSpace(line)
	if sk == "" {
		return "", fmt.Errorf("private key file %s is empty", path)
	}
	return sk, nil
}

// readJSON decodes the file at path, or stdin for "-", into v.
func readJSON(path string, v interface{}) error {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("cannot decode %s: %w", path, err)
	}
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printVerified prints the outcome and fails the command when ok is false.
func printVerified(ok bool) error {
	if !ok {
		fmt.Println("invalid")
		return fmt.Errorf("verification failed")
	}
	fmt.Println("valid")
	return nil
}
