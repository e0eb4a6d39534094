package cmd

import (
	"encoding/hex"
	"fmt"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	gatewaytypes "github.com/paw-chain/crosslend/x/gateway/types"
	"github.com/paw-chain/crosslend/x/shared/asset"
	wormholetypes "github.com/paw-chain/crosslend/x/wormhole/types"
)

const (
	flagDenom          = "denom"
	flagContract       = "contract"
	flagRecipient      = "recipient"
	flagRecipientChain = "recipient-chain"
	flagFee            = "fee"
)

// TransferCmd groups token transfer payload commands.
func TransferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Encode and decode token bridge transfer payloads",
	}
	cmd.AddCommand(encodeTransferCmd(), decodeTransferCmd())
	return cmd
}

func encodeTransferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a transfer of a host asset as hex",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := getCLIContext(cmd)
			if err != nil {
				return err
			}
			denom, _ := cmd.Flags().GetString(flagDenom)
			contract, _ := cmd.Flags().GetString(flagContract)
			var info asset.Info
			switch {
			case denom != "" && contract == "":
				info = asset.NativeInfo(denom)
			case contract != "" && denom == "":
				info = asset.TokenInfo(contract)
			default:
				return fmt.Errorf("exactly one of --%s or --%s is required", flagDenom, flagContract)
			}
			token, err := wormholetypes.TokenAddress(info)
			if err != nil {
				return err
			}

			amount, err := amountFlag(cmd)
			if err != nil {
				return err
			}
			feeStr, _ := cmd.Flags().GetString(flagFee)
			fee, ok := math.NewIntFromString(feeStr)
			if !ok {
				return fmt.Errorf("--%s must be an integer, got %q", flagFee, feeStr)
			}
			recipientHex, _ := cmd.Flags().GetString(flagRecipient)
			recipient, err := parseBytes32(recipientHex)
			if err != nil {
				return fmt.Errorf("--%s: %w", flagRecipient, err)
			}
			recipientChain, _ := cmd.Flags().GetUint16(flagRecipientChain)
			if recipientChain == 0 {
				recipientChain = c.cfg.HostChain
			}

			bz, err := wormholetypes.TransferPayload{
				Amount:         amount,
				TokenAddress:   token,
				TokenChain:     c.cfg.HostChain,
				Recipient:      recipient,
				RecipientChain: recipientChain,
				Fee:            fee,
			}.Encode()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(bz))
			return err
		},
	}
	cmd.Flags().String(flagDenom, "", "native denom being transferred")
	cmd.Flags().String(flagContract, "", "token contract being transferred (bech32)")
	cmd.Flags().String(flagAmount, "", "amount in base units")
	cmd.Flags().String(flagFee, "0", "relayer fee taken out of the amount")
	cmd.Flags().String(flagRecipient, "", "recipient address (hex, left padded to 32 bytes)")
	cmd.Flags().Uint16(flagRecipientChain, 0, "recipient chain (defaults to host_chain)")
	return cmd
}

type transferView struct {
	Amount         string `json:"amount"`
	Asset          string `json:"asset"`
	TokenChain     uint16 `json:"token_chain"`
	Recipient      string `json:"recipient"`
	RecipientChain uint16 `json:"recipient_chain"`
	Fee            string `json:"fee"`
}

func decodeTransferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [hex]",
		Short: "Decode a transfer payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bz, err := parseHex(args[0])
			if err != nil {
				return err
			}
			p, err := wormholetypes.DecodeTransferPayload(bz)
			if err != nil {
				return err
			}
			view := transferView{
				Amount:         p.Amount.String(),
				Asset:          hex.EncodeToString(p.TokenAddress[:]),
				TokenChain:     p.TokenChain,
				Recipient:      hex.EncodeToString(p.Recipient[:]),
				RecipientChain: p.RecipientChain,
				Fee:            p.Fee.String(),
			}
			if info, err := wormholetypes.AssetInfoFromTokenAddress(p.TokenAddress); err == nil {
				view.Asset = info.String()
			}
			return printJSON(cmd, view)
		},
	}
}

// TransferInfoCmd decodes the record correlating an outbound transfer with its instruction.
func TransferInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer-info [hex]",
		Short: "Decode an outgoing transfer info message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bz, err := parseHex(args[0])
			if err != nil {
				return err
			}
			info, err := gatewaytypes.DecodeOutgoingTransferInfo(bz)
			if err != nil {
				return err
			}
			return printJSON(cmd, struct {
				Chain               uint16 `json:"chain"`
				Recipient           string `json:"recipient"`
				OutgoingSequence    uint64 `json:"outgoing_sequence"`
				InstructionSequence uint64 `json:"instruction_sequence"`
			}{info.ChainID, hex.EncodeToString(info.Recipient[:]), info.OutgoingSequence, info.InstructionSequence})
		},
	}
}
