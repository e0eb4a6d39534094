package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/paw-chain/crosslend/x/gateway/types"
)

const (
	flagSender           = "sender"
	flagExpectedSequence = "expected-sequence"
	flagToken            = "token"
	flagAmount           = "amount"
)

// InstructionCmd groups instruction codec commands.
func InstructionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instruction",
		Short: "Encode and decode gateway instructions",
	}
	cmd.AddCommand(encodeInstructionCmd(), decodeInstructionCmd())
	return cmd
}

func parseOpCode(name string) (types.OpCode, error) {
	for _, op := range types.OpCodes() {
		if op.String() == name || fmt.Sprintf("0x%02x", byte(op)) == strings.ToLower(name) {
			return op, nil
		}
	}
	names := make([]string, 0, len(types.OpCodes()))
	for _, op := range types.OpCodes() {
		names = append(names, op.String())
	}
	return 0, fmt.Errorf("unknown opcode %q, expected one of %s", name, strings.Join(names, ", "))
}

func encodeInstructionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode [opcode]",
		Short: "Encode an instruction payload as hex",
		Example: `  crosslendcli instruction encode deposit_stable --sender 0xabc... --expected-sequence 3
  crosslendcli instruction encode unlock_collateral --sender 0xabc... --token 0xdef... --amount 500`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := parseOpCode(args[0])
			if err != nil {
				return err
			}
			senderHex, _ := cmd.Flags().GetString(flagSender)
			sender, err := parseBytes32(senderHex)
			if err != nil {
				return fmt.Errorf("--%s: %w", flagSender, err)
			}

			in := types.Instruction{OpCode: op, SenderAddress: sender}
			switch op {
			case types.OpUnlockCollateral:
				tokenHex, _ := cmd.Flags().GetString(flagToken)
				token, err := parseBytes32(tokenHex)
				if err != nil {
					return fmt.Errorf("--%s: %w", flagToken, err)
				}
				amount, err := amountFlag(cmd)
				if err != nil {
					return err
				}
				in.Body = types.UnlockCollateralBody{Token: token, Amount: amount}
			case types.OpBorrowStable:
				amount, err := amountFlag(cmd)
				if err != nil {
					return err
				}
				in.Body = types.BorrowStableBody{Amount: amount}
			case types.OpClaimRewards:
				in.Body = types.ClaimRewardsBody{}
			default:
				seq, _ := cmd.Flags().GetUint64(flagExpectedSequence)
				in.Body = types.IncomingTransferBody{ExpectedSequence: seq}
			}

			bz, err := in.Encode()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(bz))
			return err
		},
	}
	cmd.Flags().String(flagSender, "", "sender address on the remote chain (hex, left padded to 32 bytes)")
	cmd.Flags().Uint64(flagExpectedSequence, 0, "sequence of the companion token transfer")
	cmd.Flags().String(flagToken, "", "collateral token address (hex, 32 bytes)")
	cmd.Flags().String(flagAmount, "", "amount in base units")
	return cmd
}

func amountFlag(cmd *cobra.Command) (math.Int, error) {
	s, _ := cmd.Flags().GetString(flagAmount)
	amount, ok := math.NewIntFromString(s)
	if !ok || !amount.IsPositive() {
		return math.Int{}, fmt.Errorf("--%s must be a positive integer, got %q", flagAmount, s)
	}
	return amount, nil
}

type instructionView struct {
	OpCode           string `json:"opcode"`
	Direction        string `json:"direction"`
	Sender           string `json:"sender"`
	ExpectedSequence uint64 `json:"expected_sequence,omitempty"`
	Token            string `json:"token,omitempty"`
	Amount           string `json:"amount,omitempty"`
}

func decodeInstructionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [hex]",
		Short: "Decode an instruction payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bz, err := parseHex(args[0])
			if err != nil {
				return err
			}
			in, err := types.DecodeInstruction(bz)
			if err != nil {
				return err
			}
			view := instructionView{
				OpCode:    in.OpCode.String(),
				Direction: in.Direction().String(),
				Sender:    hex.EncodeToString(in.SenderAddress[:]),
			}
			switch b := in.Body.(type) {
			case types.IncomingTransferBody:
				view.ExpectedSequence = b.ExpectedSequence
			case types.UnlockCollateralBody:
				view.Token = hex.EncodeToString(b.Token[:])
				view.Amount = b.Amount.String()
			case types.BorrowStableBody:
				view.Amount = b.Amount.String()
			}
			return printJSON(cmd, view)
		},
	}
}
