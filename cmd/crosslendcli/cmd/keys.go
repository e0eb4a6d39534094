package cmd

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cosmos/go-bip39"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

const mnemonicEntropyBits = 256

// KeysCmd manages guardian keys.
func KeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Generate and inspect guardian keys",
	}
	cmd.AddCommand(generateKeyCmd(), recoverKeyCmd(), addressCmd())
	return cmd
}

// GuardianKeyFromMnemonic derives the guardian key of a BIP-39 mnemonic as
// keccak256 of its seed.
func GuardianKeyFromMnemonic(mnemonic string) (*ecdsa.PrivateKey, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("invalid mnemonic")
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, err
	}
	return crypto.ToECDSA(crypto.Keccak256(seed))
}

type keyView struct {
	Mnemonic   string `json:"mnemonic,omitempty"`
	PrivateKey string `json:"private_key"`
	Address    string `json:"address"`
}

func viewOf(key *ecdsa.PrivateKey, mnemonic string) keyView {
	return keyView{
		Mnemonic:   mnemonic,
		PrivateKey: hex.EncodeToString(crypto.FromECDSA(key)),
		Address:    crypto.PubkeyToAddress(key.PublicKey).Hex(),
	}
}

func generateKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate a guardian key backed by a new 24 word mnemonic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
			if err != nil {
				return err
			}
			mnemonic, err := bip39.NewMnemonic(entropy)
			if err != nil {
				return err
			}
			key, err := GuardianKeyFromMnemonic(mnemonic)
			if err != nil {
				return err
			}
			return printJSON(cmd, viewOf(key, mnemonic))
		},
	}
}

func recoverKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recover [mnemonic]",
		Short: "Recover the guardian key of a mnemonic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mnemonic := strings.Join(args, " ")
			key, err := GuardianKeyFromMnemonic(mnemonic)
			if err != nil {
				return err
			}
			return printJSON(cmd, viewOf(key, ""))
		},
	}
}

func addressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "address [private-key-hex]",
		Short: "Print the guardian address of a private key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := crypto.HexToECDSA(strings.TrimPrefix(args[0], "0x"))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), crypto.PubkeyToAddress(key.PublicKey).Hex())
			return err
		},
	}
}
