package main

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
)

func runLiquidity(cmd *cobra.Command, args []string) error {
	address, err := solana.PublicKeyFromBase58(args[0])
	if err != nil {
		return fmt.Errorf("invalid fund address: %w", err)
	}

	svc, err := loadService(cmd, 0)
	if err != nil {
		return err
	}
	defer svc.Stop()

	caps, err := svc.GetLiquidityInfo(address)
	if err != nil {
		return err
	}
	return printJSON(cmd, caps)
}

func runTokens(cmd *cobra.Command, _ []string) error {
	svc, err := loadService(cmd, 0)
	if err != nil {
		return err
	}
	defer svc.Stop()

	tokens, err := svc.GetTokenList()
	if err != nil {
		return err
	}
	return printJSON(cmd, tokens)
}

func runAccounts(cmd *cobra.Command, _ []string) error {
	svc, err := loadService(cmd, 0)
	if err != nil {
		return err
	}
	defer svc.Stop()

	accounts, err := svc.AccountsForUpdate()
	if err != nil {
		return err
	}
	out := make([]string, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.String())
	}
	return printJSON(cmd, out)
}
