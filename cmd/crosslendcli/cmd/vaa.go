package cmd

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
	"github.com/wormhole-foundation/wormhole/sdk/vaa"

	wormholetypes "github.com/paw-chain/crosslend/x/wormhole/types"
)

const (
	flagPayload        = "payload"
	flagSequence       = "sequence"
	flagEmitterChain   = "emitter-chain"
	flagEmitterAddress = "emitter-address"
	flagNonce          = "nonce"
	flagTimestamp      = "timestamp"
	flagGuardians      = "guardians"
)

// VAACmd groups VAA signing and inspection.
func VAACmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vaa",
		Short: "Sign and inspect VAAs with the configured guardian keys",
	}
	cmd.AddCommand(signVAACmd(), inspectVAACmd())
	return cmd
}

func parseIndices(s string, n int) ([]int, error) {
	if s == "" {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		i, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		if i < 0 || i >= n {
			return nil, fmt.Errorf("guardian %d not configured", i)
		}
		if len(out) > 0 && i <= out[len(out)-1] {
			return nil, fmt.Errorf("guardian indices must be strictly increasing")
		}
		out = append(out, i)
	}
	return out, nil
}

func signVAACmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a payload as a VAA and print it as hex",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := getCLIContext(cmd)
			if err != nil {
				return err
			}
			if len(c.cfg.GuardianKeys) == 0 {
				return fmt.Errorf("no guardian keys configured; set %s in config.toml or %s_GUARDIAN_KEYS", KeyGuardianKeys, EnvPrefix)
			}

			payloadHex, _ := cmd.Flags().GetString(flagPayload)
			payload, err := parseHex(payloadHex)
			if err != nil {
				return fmt.Errorf("--%s: %w", flagPayload, err)
			}
			obs := wormholetypes.Observation{
				GuardianSetIndex: c.cfg.GuardianSetIndex,
				EmitterChain:     c.cfg.EmitterChain,
				EmitterAddress:   c.cfg.EmitterAddress,
				Payload:          payload,
			}
			if cmd.Flags().Changed(flagEmitterChain) {
				obs.EmitterChain, _ = cmd.Flags().GetUint16(flagEmitterChain)
			}
			if cmd.Flags().Changed(flagEmitterAddress) {
				s, _ := cmd.Flags().GetString(flagEmitterAddress)
				if obs.EmitterAddress, err = parseBytes32(s); err != nil {
					return fmt.Errorf("--%s: %w", flagEmitterAddress, err)
				}
			}
			if obs.EmitterChain == 0 {
				return fmt.Errorf("emitter chain is required")
			}
			obs.Sequence, _ = cmd.Flags().GetUint64(flagSequence)
			obs.Nonce, _ = cmd.Flags().GetUint32(flagNonce)
			ts, _ := cmd.Flags().GetInt64(flagTimestamp)
			if ts == 0 {
				ts = time.Now().Unix()
			}
			obs.Timestamp = time.Unix(ts, 0).UTC()

			guardians, _ := cmd.Flags().GetString(flagGuardians)
			indices, err := parseIndices(guardians, len(c.cfg.GuardianKeys))
			if err != nil {
				return fmt.Errorf("--%s: %w", flagGuardians, err)
			}
			all := c.cfg.Signers()
			signers := make([]wormholetypes.Signer, 0, len(indices))
			for _, i := range indices {
				signers = append(signers, all[i])
			}

			raw, err := wormholetypes.SignObservation(obs, signers...)
			if err != nil {
				return err
			}
			c.logger.Debug("vaa signed", "emitter_chain", obs.EmitterChain, "sequence", obs.Sequence, "signatures", len(signers))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(raw))
			return err
		},
	}
	cmd.Flags().String(flagPayload, "", "message payload (hex)")
	cmd.Flags().Uint64(flagSequence, 0, "emitter sequence")
	cmd.Flags().Uint16(flagEmitterChain, 0, "emitter chain (defaults to emitter_chain)")
	cmd.Flags().String(flagEmitterAddress, "", "emitter address (hex, defaults to emitter_address)")
	cmd.Flags().Uint32(flagNonce, 0, "message nonce")
	cmd.Flags().Int64(flagTimestamp, 0, "observation unix time (defaults to now)")
	cmd.Flags().String(flagGuardians, "", "comma separated guardian indices to sign with (defaults to all)")
	return cmd
}

type vaaView struct {
	Version          uint8    `json:"version"`
	GuardianSetIndex uint32   `json:"guardian_set_index"`
	Signers          []uint8  `json:"signers"`
	Timestamp        int64    `json:"timestamp"`
	Nonce            uint32   `json:"nonce"`
	EmitterChain     uint16   `json:"emitter_chain"`
	EmitterAddress   string   `json:"emitter_address"`
	Sequence         uint64   `json:"sequence"`
	Payload          string   `json:"payload"`
	Hash             string   `json:"hash"`
	Verified         *bool    `json:"verified,omitempty"`
	Guardians        []string `json:"guardians,omitempty"`
}

func inspectVAACmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [hex]",
		Short: "Decode a VAA and check it against the configured guardian keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getCLIContext(cmd)
			if err != nil {
				return err
			}
			raw, err := parseHex(args[0])
			if err != nil {
				return err
			}
			v, err := vaa.Unmarshal(raw)
			if err != nil {
				return err
			}
			bodyStart := 6 + 66*len(v.Signatures)
			if len(raw) < bodyStart {
				return fmt.Errorf("vaa shorter than its signatures")
			}

			view := vaaView{
				Version:          v.Version,
				GuardianSetIndex: v.GuardianSetIndex,
				Timestamp:        v.Timestamp.Unix(),
				Nonce:            v.Nonce,
				EmitterChain:     uint16(v.EmitterChain),
				EmitterAddress:   hex.EncodeToString(v.EmitterAddress[:]),
				Sequence:         v.Sequence,
				Payload:          hex.EncodeToString(v.Payload),
				Hash:             hex.EncodeToString(crypto.Keccak256(raw[bodyStart:])),
			}
			for _, sig := range v.Signatures {
				view.Signers = append(view.Signers, sig.Index)
			}
			if len(c.cfg.GuardianKeys) > 0 {
				addrs := make([]common.Address, len(c.cfg.GuardianKeys))
				for i, k := range c.cfg.GuardianKeys {
					addrs[i] = crypto.PubkeyToAddress(k.PublicKey)
					view.Guardians = append(view.Guardians, addrs[i].Hex())
				}
				ok := v.VerifySignatures(addrs) && len(v.Signatures) >= vaa.CalculateQuorum(len(addrs))
				view.Verified = &ok
			}
			return printJSON(cmd, view)
		},
	}
}
