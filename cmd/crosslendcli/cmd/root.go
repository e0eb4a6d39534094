package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/paw-chain/crosslend/x/shared/tracing"
)

const flagHome = "home"

type ctxKey struct{}

type cliContext struct {
	cfg      *Config
	logger   log.Logger
	provider *tracing.Provider
	span     trace.Span
}

// NewRootCmd creates the crosslendcli root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "crosslendcli",
		Short: "Offline tooling for the crosslend relay",
		Long: `crosslendcli encodes and decodes relay instructions, transfer payloads and
transfer info records, and signs or inspects VAAs with locally configured guardian keys.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			logger := log.NewLogger(cmd.ErrOrStderr())
			home, err := cmd.Flags().GetString(flagHome)
			if err != nil {
				return err
			}
			v, found, err := newViper(home)
			if err != nil {
				return err
			}
			if found {
				logger.Debug("config loaded", "file", v.ConfigFileUsed())
			}
			cfg, err := configFromViper(v)
			if err != nil {
				return err
			}
			cfg.Tracing.ChainID = fmt.Sprintf("chain-%d", cfg.HostChain)
			provider, err := tracing.NewProvider(cfg.Tracing)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, span := tracing.StartModuleSpan(ctx, "cli", cmd.Name())
			cmd.SetContext(context.WithValue(ctx, ctxKey{}, &cliContext{
				cfg:      cfg,
				logger:   logger,
				provider: provider,
				span:     span,
			}))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			c, err := getCLIContext(cmd)
			if err != nil {
				return err
			}
			tracing.End(c.span, nil)
			return c.provider.Shutdown(cmd.Context())
		},
	}
	rootCmd.PersistentFlags().String(flagHome, DefaultHome(), "directory holding config.toml")

	rootCmd.AddCommand(
		InstructionCmd(),
		TransferCmd(),
		TransferInfoCmd(),
		VAACmd(),
		KeysCmd(),
	)
	return rootCmd
}

func getCLIContext(cmd *cobra.Command) (*cliContext, error) {
	c, ok := cmd.Context().Value(ctxKey{}).(*cliContext)
	if !ok {
		return nil, fmt.Errorf("command context not initialized")
	}
	return c, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}
