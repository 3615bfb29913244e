package domain

import (
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// RouteData is a priced swap through one fund. Everything under SwapAccounts
// is pass-through addressing for instruction assembly.
type RouteData struct {
	FromTokenID TokenID `json:"fromTokenId"`
	ToTokenID   TokenID `json:"toTokenId"`

	// Decimal-adjusted amounts.
	FromAmount decimal.Decimal `json:"fromAmount"`
	ToAmount   decimal.Decimal `json:"toAmount"`

	FromAmountRaw uint64 `json:"fromAmountRaw"`
	ToAmountRaw   uint64 `json:"toAmountRaw"`
	// FeeRaw is the flat-fee baseline minus the curve quote, in destination units.
	FeeRaw uint64 `json:"feeRaw"`

	SwapAccounts SwapAccounts `json:"swapAccounts"`
}

// Found reports whether the route carries liquidity. The no-route sentinel has
// a zero output amount.
func (r *RouteData) Found() bool {
	return r != nil && r.ToAmountRaw > 0
}

type FeeAccounts struct {
	SwapFeeWallet solana.PublicKey `json:"swapFeeWallet"`
	HostWallet    solana.PublicKey `json:"hostWallet"`
	ManagerWallet solana.PublicKey `json:"managerWallet"`
	FeeTokenMint  solana.PublicKey `json:"feeTokenMint"`
}

type SwapAccounts struct {
	Program           solana.PublicKey      `json:"program"`
	FundState         solana.PublicKey      `json:"fundState"`
	Authority         solana.PublicKey      `json:"authority"`
	Source            solana.PublicKey      `json:"source"`
	Destination       solana.PublicKey      `json:"destination"`
	Fees              FeeAccounts           `json:"fees"`
	TokenInfo         solana.PublicKey      `json:"tokenInfo"`
	CurveData         solana.PublicKey      `json:"curveData"`
	RemainingAccounts []*solana.AccountMeta `json:"remainingAccounts"`
}

// TokenCapacity is the curve-free buy/sell headroom of one token in one fund.
// It is advisory and never used to price a trade.
type TokenCapacity struct {
	TokenID            TokenID         `json:"tokenId"`
	TokenMint          string          `json:"tokenMint"`
	ExternalPriceRefID string          `json:"externalPriceRefId"`
	UserCanSellToFund  decimal.Decimal `json:"userCanSellToFund"`
	UserCanBuyFromFund decimal.Decimal `json:"userCanBuyFromFund"`
	SellCapacityRaw    uint64          `json:"sellCapacityRaw"`
	BuyCapacityRaw     uint64          `json:"buyCapacityRaw"`
}
