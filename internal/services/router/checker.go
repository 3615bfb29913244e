package router

import (
	"errors"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/fundswap/internal/domain"
)

var (
	ErrUnknownToken  = errors.New("unknown token")
	ErrInvalidAmount = errors.New("invalid amount")

	// Per-fund rejections. They never escape route selection.
	ErrFundMissingToken     = errors.New("fund does not hold both tokens")
	ErrIncompleteFund       = errors.New("fund holds a token without info or price")
	ErrDegenerateFund       = errors.New("fund has zero worth or weight sum")
	ErrDestinationBelowBand = errors.New("destination would fall below its rebalance band")
	ErrSourceAboveBand      = errors.New("source would rise above its rebalance band")
)

type leg struct {
	id    domain.TokenID
	info  *domain.TokenInfo
	slot  int
	price uint64
}

func (q *Quoter) resolveLeg(fund *domain.FundState, id domain.TokenID) (leg, error) {
	info, ok := q.tokens.Get(id)
	if !ok {
		return leg{}, ErrUnknownToken
	}
	slot := fund.SlotOf(id)
	if slot < 0 {
		return leg{}, ErrFundMissingToken
	}
	price, ok := q.prices.Get(id)
	if !ok {
		return leg{}, ErrIncompleteFund
	}
	return leg{id: id, info: info, slot: slot, price: price}, nil
}

// CheckFund prices fromAmount (raw units) of from into to through one fund.
// It returns the route or the reason the fund cannot serve the trade.
func (q *Quoter) CheckFund(fund *domain.FundState, from, to domain.TokenID, fromAmount uint64) (*domain.RouteData, error) {
	src, err := q.resolveLeg(fund, from)
	if err != nil {
		return nil, err
	}
	dst, err := q.resolveLeg(fund, to)
	if err != nil {
		return nil, err
	}

	val, err := valueFund(q.tokens, q.prices, fund)
	if err != nil {
		return nil, err
	}
	if val.worth.IsZero() || fund.WeightSum == 0 {
		return nil, ErrDegenerateFund
	}

	srcExpo := Pow10(src.info.Decimals)
	dstExpo := Pow10(dst.info.Decimals)
	srcHeld := fund.CurrentCompAmount[src.slot]
	dstHeld := fund.CurrentCompAmount[dst.slot]

	rawValue := MulDiv(fromAmount, src.price, srcExpo)

	value := rawValue
	if !src.info.IsBaseAsset {
		value = OutputValueForSelling(
			srcHeld,
			val.targetAmount(src.slot, src.price, src.info.Decimals),
			src.price,
			fromAmount,
			q.curves.SellCurve(from),
			src.info.Decimals,
		)
	}

	var toAmount uint64
	if dst.info.IsBaseAsset {
		toAmount = MulDiv(value, dstExpo, dst.price)
	} else {
		toAmount = OutputAmountForBuying(
			dstHeld,
			val.targetAmount(dst.slot, dst.price, dst.info.Decimals),
			dst.price,
			value,
			q.curves.BuyCurve(to),
			dst.info.Decimals,
		)
	}

	baseline := flatFeeBaseline(rawValue, src.info, dst.info, dst.price)
	baseline = min(baseline, dstHeld)
	toAmount = min(toAmount, baseline)

	if val.BelowBand(dst.slot, dst.price, dst.info.Decimals, toAmount) {
		return nil, ErrDestinationBelowBand
	}
	if !src.info.IsBaseAsset && val.AboveBand(src.slot, src.price, src.info.Decimals, fromAmount) {
		return nil, ErrSourceAboveBand
	}

	route := &domain.RouteData{
		FromTokenID:   from,
		ToTokenID:     to,
		FromAmount:    FromRawAmount(fromAmount, src.info.Decimals),
		ToAmount:      FromRawAmount(toAmount, dst.info.Decimals),
		FromAmountRaw: fromAmount,
		ToAmountRaw:   toAmount,
		FeeRaw:        baseline - toAmount,
		SwapAccounts: domain.SwapAccounts{
			Program:     q.accounts.Program,
			FundState:   fund.Address,
			Authority:   q.accounts.Authority,
			Source:      src.info.PDAAccount,
			Destination: dst.info.PDAAccount,
			Fees: domain.FeeAccounts{
				SwapFeeWallet: q.accounts.SwapFeeWallet,
				HostWallet:    fund.HostWallet,
				ManagerWallet: fund.Manager,
				FeeTokenMint:  dst.info.Mint,
			},
			TokenInfo:         q.accounts.TokenInfo,
			CurveData:         q.accounts.CurveData,
			RemainingAccounts: q.oracleAccounts(fund),
		},
	}
	return route, nil
}

// flatFeeBaseline converts value to destination units charging only the flat
// fee on each non-base leg.
func flatFeeBaseline(value uint64, src, dst *domain.TokenInfo, dstPrice uint64) uint64 {
	if !src.IsBaseAsset {
		value = MulDiv(value, FeeDenominator-FlatFee, FeeDenominator)
	}
	amount := MulDiv(value, Pow10(dst.Decimals), dstPrice)
	if !dst.IsBaseAsset {
		amount = MulDiv(amount, FeeDenominator-FlatFee, FeeDenominator)
	}
	return amount
}

// oracleAccounts lists the oracle feed of every held token in slot order.
func (q *Quoter) oracleAccounts(fund *domain.FundState) []*solana.AccountMeta {
	metas := make([]*solana.AccountMeta, 0, fund.Slots())
	for i := 0; i < fund.Slots(); i++ {
		info, _ := q.tokens.Get(fund.CurrentCompToken[i])
		metas = append(metas, solana.Meta(info.OraclePriceFeed))
	}
	return metas
}
