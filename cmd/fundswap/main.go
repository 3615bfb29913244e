package main

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/hxuan190/fundswap/internal/adapters/persistence"
	"github.com/hxuan190/fundswap/internal/aggregator"
	"github.com/hxuan190/fundswap/internal/common"
	"github.com/hxuan190/fundswap/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "fundswap",
		Short:        "Offline fund swap quoting over a snapshot seed file",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("seed", "./data/snapshot.yaml", "snapshot seed file (yaml or json)")
	root.PersistentFlags().Bool("parallel", false, "evaluate funds concurrently")
	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a swap against every fund in the seed",
		RunE:  runQuote,
	}
	quoteCmd.Flags().String("from", "", "input token mint")
	quoteCmd.Flags().String("to", "", "output token mint")
	quoteCmd.Flags().String("amount", "", "amount in decimal units of the input token")
	quoteCmd.Flags().String("wallet", "", "user wallet; when set, also build the swap instruction")
	quoteCmd.Flags().Uint16("slippage-bps", common.DefaultSlippageBps, "slippage tolerance in basis points")
	_ = quoteCmd.MarkFlagRequired("from")
	_ = quoteCmd.MarkFlagRequired("to")
	_ = quoteCmd.MarkFlagRequired("amount")
	root.AddCommand(quoteCmd)

	liquidityCmd := &cobra.Command{
		Use:   "liquidity <fund-address>",
		Short: "Show how much of each token a fund can absorb or release",
		Args:  cobra.ExactArgs(1),
		RunE:  runLiquidity,
	}
	root.AddCommand(liquidityCmd)

	tokensCmd := &cobra.Command{
		Use:   "tokens",
		Short: "List the tokens in the seed",
		RunE:  runTokens,
	}
	root.AddCommand(tokensCmd)

	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "List the accounts to fetch for the next snapshot",
		RunE:  runAccounts,
	}
	root.AddCommand(accountsCmd)

	return root
}

// loadService builds an aggregator service over the seed file with storage
// and scheduled reloads off.
func loadService(cmd *cobra.Command, slippageBps uint16) (*aggregator.Service, error) {
	seed, _ := cmd.Flags().GetString("seed")
	parallel, _ := cmd.Flags().GetBool("parallel")
	logLevel, _ := cmd.Flags().GetString("log-level")
	common.SetupLogger(logLevel, config.DevEnv)

	if seed == "" {
		return nil, fmt.Errorf("seed path is required")
	}
	snap, err := persistence.LoadSeedFile(seed)
	if err != nil {
		return nil, err
	}

	svc := aggregator.NewService(
		&config.SnapshotConfig{},
		&config.StorageConfig{},
		&config.QuoteConfig{Parallel: parallel, DefaultSlippageBps: slippageBps},
	)
	if err := svc.Configure(); err != nil {
		return nil, err
	}
	if err := svc.UpdateSnapshot(snap, aggregator.SourceSeed); err != nil {
		return nil, fmt.Errorf("load seed %s: %w", seed, err)
	}
	return svc, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	out, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
