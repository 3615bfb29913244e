package main

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/hxuan190/fundswap/internal/domain"
)

type quoteOutput struct {
	Found bool          `json:"found"`
	Quote *domain.Quote `json:"quote"`
	// Set when --wallet is given and a route was found.
	Swap *domain.SwapResponse `json:"swap,omitempty"`
}

func runQuote(cmd *cobra.Command, _ []string) error {
	fromFlag, _ := cmd.Flags().GetString("from")
	toFlag, _ := cmd.Flags().GetString("to")
	amountFlag, _ := cmd.Flags().GetString("amount")
	walletFlag, _ := cmd.Flags().GetString("wallet")
	slippageBps, _ := cmd.Flags().GetUint16("slippage-bps")

	from, err := solana.PublicKeyFromBase58(fromFlag)
	if err != nil {
		return fmt.Errorf("invalid --from mint: %w", err)
	}
	to, err := solana.PublicKeyFromBase58(toFlag)
	if err != nil {
		return fmt.Errorf("invalid --to mint: %w", err)
	}
	amount, err := decimal.NewFromString(amountFlag)
	if err != nil {
		return fmt.Errorf("invalid --amount: %w", err)
	}

	svc, err := loadService(cmd, slippageBps)
	if err != nil {
		return err
	}
	defer svc.Stop()

	quote, err := svc.GetQuote(from, to, amount)
	if err != nil {
		return err
	}
	out := quoteOutput{Found: quote.Found(), Quote: quote}

	if walletFlag != "" && quote.Found() {
		wallet, err := solana.PublicKeyFromBase58(walletFlag)
		if err != nil {
			return fmt.Errorf("invalid --wallet: %w", err)
		}
		swap, err := svc.BuildSwap(&domain.SwapRequest{
			UserWallet:  wallet,
			InputMint:   from,
			OutputMint:  to,
			Amount:      amount,
			SlippageBps: slippageBps,
		})
		if err != nil {
			return err
		}
		out.Swap = swap
	}
	return printJSON(cmd, out)
}
