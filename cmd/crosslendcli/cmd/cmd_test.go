package cmd_test

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/crosslend/cmd/crosslendcli/cmd"
	gatewaytypes "github.com/paw-chain/crosslend/x/gateway/types"
)

const (
	guardianKey0 = "4200000000000000000000000000000000000000000000000000000000000001"
	guardianKey1 = "4200000000000000000000000000000000000000000000000000000000000002"
	sender       = "ee00000000000000000000000000000000000000000000000000000000000001"
)

func run(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	root := cmd.NewRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--home", home}, args...))
	err := root.Execute()
	return strings.TrimSpace(out.String()), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.toml"), []byte(body), 0o600))
	return home
}

func TestInstructionEncodeDecode(t *testing.T) {
	home := t.TempDir()

	out, err := run(t, home, "instruction", "encode", "deposit_stable", "--sender", sender, "--expected-sequence", "3")
	require.NoError(t, err)
	bz, err := hex.DecodeString(out)
	require.NoError(t, err)
	require.Len(t, bz, gatewaytypes.HeaderLength+8)
	require.Equal(t, byte(0xC0), bz[0])

	out, err = run(t, home, "instruction", "decode", out)
	require.NoError(t, err)
	var view map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Equal(t, "deposit_stable", view["opcode"])
	require.Equal(t, "both", view["direction"])
	require.Equal(t, sender, view["sender"])
	require.EqualValues(t, 3, view["expected_sequence"])

	out, err = run(t, home, "instruction", "encode", "0x41", "--sender", sender, "--amount", "250")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "41"))

	_, err = run(t, home, "instruction", "encode", "borrow_stable", "--sender", sender)
	require.Error(t, err, "borrow needs an amount")
	_, err = run(t, home, "instruction", "encode", "flash_loan", "--sender", sender)
	require.Error(t, err)
}

func TestTransferEncodeDecode(t *testing.T) {
	home := t.TempDir()
	out, err := run(t, home, "transfer", "encode", "--denom", "uusd", "--amount", "1000", "--fee", "10", "--recipient", sender)
	require.NoError(t, err)
	bz, err := hex.DecodeString(out)
	require.NoError(t, err)
	require.Len(t, bz, 133)

	out, err = run(t, home, "transfer", "decode", out)
	require.NoError(t, err)
	var view map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Equal(t, "1000", view["amount"])
	require.Equal(t, "10", view["fee"])
	require.Equal(t, "uusd", view["asset"])
	require.EqualValues(t, 3, view["token_chain"])

	_, err = run(t, home, "transfer", "encode", "--amount", "1000", "--recipient", sender)
	require.Error(t, err, "asset is required")
}

func TestTransferInfoDecode(t *testing.T) {
	var recipient [32]byte
	recipient[31] = 0x01
	info := gatewaytypes.OutgoingTransferInfo{ChainID: 2, Recipient: recipient, OutgoingSequence: 5, InstructionSequence: 7}

	out, err := run(t, t.TempDir(), "transfer-info", hex.EncodeToString(info.Encode()))
	require.NoError(t, err)
	var view map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.EqualValues(t, 2, view["chain"])
	require.EqualValues(t, 5, view["outgoing_sequence"])
	require.EqualValues(t, 7, view["instruction_sequence"])

	_, err = run(t, t.TempDir(), "transfer-info", "00")
	require.Error(t, err)
}

func TestSignAndInspectVAA(t *testing.T) {
	home := writeConfig(t, `
emitter_chain = 2
emitter_address = "0x72656d6f74655f676174657761795f5f5f5f5f5f5f5f5f5f5f5f5f5f5f5f5f5f"
guardian_keys = ["`+guardianKey0+`", "`+guardianKey1+`"]
`)

	raw, err := run(t, home, "vaa", "sign", "--payload", "c0", "--sequence", "9", "--timestamp", "1700000000")
	require.NoError(t, err)

	out, err := run(t, home, "vaa", "inspect", raw)
	require.NoError(t, err)
	var view map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.EqualValues(t, 2, view["emitter_chain"])
	require.EqualValues(t, 9, view["sequence"])
	require.Equal(t, "c0", view["payload"])
	require.Equal(t, true, view["verified"])
	require.Len(t, view["signers"], 2)

	raw, err = run(t, home, "vaa", "sign", "--payload", "c0", "--guardians", "1")
	require.NoError(t, err)
	out, err = run(t, home, "vaa", "inspect", raw)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Equal(t, false, view["verified"], "one of two guardians is below quorum")

	_, err = run(t, home, "vaa", "sign", "--payload", "c0", "--guardians", "1,0")
	require.Error(t, err)
}

func TestEnvOverridesConfig(t *testing.T) {
	home := writeConfig(t, `emitter_chain = 2`)
	t.Setenv("CROSSLEND_EMITTER_CHAIN", "6")
	t.Setenv("CROSSLEND_GUARDIAN_KEYS", guardianKey0)

	raw, err := run(t, home, "vaa", "sign", "--payload", "00")
	require.NoError(t, err)
	out, err := run(t, home, "vaa", "inspect", raw)
	require.NoError(t, err)
	var view map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.EqualValues(t, 6, view["emitter_chain"])
	require.Equal(t, true, view["verified"])
}

func TestSignWithoutKeysFails(t *testing.T) {
	_, err := run(t, t.TempDir(), "vaa", "sign", "--payload", "00", "--emitter-chain", "2")
	require.Error(t, err)
}

func TestKeys(t *testing.T) {
	home := t.TempDir()
	out, err := run(t, home, "keys", "generate")
	require.NoError(t, err)
	var generated map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &generated))
	require.Len(t, strings.Fields(generated["mnemonic"]), 24)

	out, err = run(t, home, append([]string{"keys", "recover"}, strings.Fields(generated["mnemonic"])...)...)
	require.NoError(t, err)
	var recovered map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &recovered))
	require.Equal(t, generated["private_key"], recovered["private_key"])
	require.Equal(t, generated["address"], recovered["address"])

	out, err = run(t, home, "keys", "address", generated["private_key"])
	require.NoError(t, err)
	require.Equal(t, generated["address"], out)

	key, err := crypto.HexToECDSA(guardianKey0)
	require.NoError(t, err)
	out, err = run(t, home, "keys", "address", "0x"+guardianKey0)
	require.NoError(t, err)
	require.Equal(t, crypto.PubkeyToAddress(key.PublicKey).Hex(), out)

	_, err = run(t, home, "keys", "recover", "not", "a", "mnemonic")
	require.Error(t, err)
}

func TestTracingConfig(t *testing.T) {
	home := writeConfig(t, "trace_endpoint = \"http://localhost:4318\"\ntrace_sample_rate = 2.0\n")
	_, err := run(t, home, "keys", "generate")
	require.ErrorContains(t, err, "sample rate")

	home = writeConfig(t, "trace_endpoint = \"http://localhost:4318\"\ntrace_sample_rate = 0.5\n")
	out, err := run(t, home, "instruction", "encode", "claim_rewards", "--sender", sender)
	require.NoError(t, err)
	require.NotEmpty(t, out)
}
