package cmd

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/viper"

	"github.com/paw-chain/crosslend/x/shared/tracing"
	wormholetypes "github.com/paw-chain/crosslend/x/wormhole/types"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. CROSSLEND_HOST_CHAIN.
	EnvPrefix = "CROSSLEND"

	configName = "config"
	configType = "toml"
)

// Config keys
const (
	KeyHostChain        = "host_chain"
	KeyEmitterChain     = "emitter_chain"
	KeyEmitterAddress   = "emitter_address"
	KeyGuardianSetIndex = "guardian_set_index"
	KeyGuardianKeys     = "guardian_keys"
	KeyTraceEndpoint    = "trace_endpoint"
	KeyTraceSampleRate  = "trace_sample_rate"
)

// DefaultHome is the directory holding config.toml.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".crosslend"
	}
	return filepath.Join(home, ".crosslend")
}

// Config is the tool configuration read from config.toml and the environment.
type Config struct {
	HostChain        uint16
	EmitterChain     uint16
	EmitterAddress   [32]byte
	GuardianSetIndex uint32
	GuardianKeys     []*ecdsa.PrivateKey
	Tracing          tracing.Config
}

// newViper reads home/config.toml when present and layers CROSSLEND_* env
// vars on top.
func newViper(home string) (*viper.Viper, bool, error) {
	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(home)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyHostChain, wormholetypes.DefaultHostChain)
	v.SetDefault(KeyEmitterChain, 0)
	v.SetDefault(KeyEmitterAddress, "")
	v.SetDefault(KeyGuardianSetIndex, 0)
	v.SetDefault(KeyGuardianKeys, []string{})
	v.SetDefault(KeyTraceEndpoint, "")
	v.SetDefault(KeyTraceSampleRate, 1.0)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, false, nil
		}
		return nil, false, fmt.Errorf("read config: %w", err)
	}
	return v, true, nil
}

// configFromViper decodes and validates the settings.
func configFromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		HostChain:        uint16(v.GetUint(KeyHostChain)),
		EmitterChain:     uint16(v.GetUint(KeyEmitterChain)),
		GuardianSetIndex: v.GetUint32(KeyGuardianSetIndex),
		Tracing: tracing.Config{
			Enabled:    v.GetString(KeyTraceEndpoint) != "",
			Endpoint:   v.GetString(KeyTraceEndpoint),
			SampleRate: v.GetFloat64(KeyTraceSampleRate),
		},
	}
	if s := v.GetString(KeyEmitterAddress); s != "" {
		addr, err := parseBytes32(s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", KeyEmitterAddress, err)
		}
		cfg.EmitterAddress = addr
	}
	for i, s := range guardianKeyStrings(v) {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(s, "0x"))
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", KeyGuardianKeys, i, err)
		}
		cfg.GuardianKeys = append(cfg.GuardianKeys, key)
	}
	return cfg, nil
}

// guardianKeyStrings accepts a TOML array or a comma separated env value.
func guardianKeyStrings(v *viper.Viper) []string {
	var out []string
	for _, s := range v.GetStringSlice(KeyGuardianKeys) {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Signers returns every configured guardian key at its set index.
func (c *Config) Signers() []wormholetypes.Signer {
	out := make([]wormholetypes.Signer, len(c.GuardianKeys))
	for i, k := range c.GuardianKeys {
		out[i] = wormholetypes.Signer{Index: uint8(i), Key: k}
	}
	return out
}

func parseBytes32(s string) ([32]byte, error) {
	var out [32]byte
	bz, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return out, err
	}
	if len(bz) > 32 {
		return out, fmt.Errorf("%d bytes do not fit 32", len(bz))
	}
	copy(out[32-len(bz):], bz)
	return out, nil
}

func parseHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
}
