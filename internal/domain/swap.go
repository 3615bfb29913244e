package domain

import (
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

type SwapRequest struct {
	UserWallet solana.PublicKey

	// Optional. Zero accounts default to the wallet's associated token
	// accounts.
	UserSourceTokenAccount      solana.PublicKey
	UserDestinationTokenAccount solana.PublicKey

	InputMint  solana.PublicKey
	OutputMint solana.PublicKey

	// Amount is in decimal units of the input token.
	Amount decimal.Decimal

	SlippageBps uint16
}

type InstructionAccount struct {
	Pubkey     string `json:"pubkey"`
	IsSigner   bool   `json:"isSigner"`
	IsWritable bool   `json:"isWritable"`
}

// SwapResponse carries one unsigned instruction. The caller adds it to a
// transaction, sets the fee payer and blockhash, and signs.
type SwapResponse struct {
	ProgramID string               `json:"programId"`
	Accounts  []InstructionAccount `json:"accounts"`
	// Data is base64 encoded.
	Data string `json:"data"`

	FundAddress string `json:"fundAddress"`

	AmountIn     decimal.Decimal `json:"amountIn"`
	AmountOut    decimal.Decimal `json:"amountOut"`
	MinAmountOut decimal.Decimal `json:"minAmountOut"`

	// Raw amounts are encoded as JSON strings.
	AmountInRaw     uint64 `json:"amountInRaw,string"`
	AmountOutRaw    uint64 `json:"amountOutRaw,string"`
	MinAmountOutRaw uint64 `json:"minAmountOutRaw,string"`
	FeeAmountRaw    uint64 `json:"feeAmountRaw,string"`

	SlippageBps uint16 `json:"slippageBps"`
}
