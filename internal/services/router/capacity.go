package router

import (
	"github.com/holiman/uint256"

	"github.com/hxuan190/fundswap/internal/domain"
)

// EstimateCapacity reports, for every token a fund holds, how much a user could
// sell to or buy from it before the token leaves its rebalance band. It is a
// linear estimate that ignores the curves and must not be used for pricing.
func EstimateCapacity(tokens domain.TokenTable, fund *domain.FundState, prices domain.PriceTable) ([]domain.TokenCapacity, error) {
	val, err := valueFund(tokens, prices, fund)
	if err != nil {
		return nil, err
	}
	if fund.WeightSum == 0 {
		return nil, ErrDegenerateFund
	}

	out := make([]domain.TokenCapacity, 0, fund.Slots())
	for i := 0; i < fund.Slots(); i++ {
		id := fund.CurrentCompToken[i]
		info, _ := tokens.Get(id)
		price, _ := prices.Get(id)
		expo := Pow10(info.Decimals)

		value := u256(MulDiv(fund.CurrentCompAmount[i], price, expo))
		maxWorth := val.bandWorth(i, true)
		minWorth := val.bandWorth(i, false)

		var sellRaw, buyRaw uint64
		if maxWorth.Gt(value) {
			headroom := new(uint256.Int).Sub(maxWorth, value)
			sellRaw = saturateU64(mulDivU256(headroom, u256(expo), u256(price)))
		}
		if value.Gt(minWorth) {
			surplus := new(uint256.Int).Sub(value, minWorth)
			buyRaw = saturateU64(mulDivU256(surplus, u256(expo), u256(price)))
		}

		out = append(out, domain.TokenCapacity{
			TokenID:            id,
			TokenMint:          info.Mint.String(),
			ExternalPriceRefID: info.ExternalPriceRefID,
			UserCanSellToFund:  FromRawAmount(sellRaw, info.Decimals),
			UserCanBuyFromFund: FromRawAmount(buyRaw, info.Decimals),
			SellCapacityRaw:    sellRaw,
			BuyCapacityRaw:     buyRaw,
		})
	}
	return out, nil
}

// bandWorth is worth × weight / weightSum × (1 ± tolerance), in PriceScale.
func (v *fundValuation) bandWorth(slot int, upper bool) *uint256.Int {
	factor := domain.ToleranceScale
	switch {
	case upper:
		factor = saturatingAdd(factor, v.tol)
	case v.tol >= domain.ToleranceScale:
		return new(uint256.Int)
	default:
		factor -= v.tol
	}
	num := new(uint256.Int).Mul(v.worth, u256(v.fund.TargetWeight[slot]))
	den := new(uint256.Int).Mul(u256(v.fund.WeightSum), u256(domain.ToleranceScale))
	return mulDivU256(num, u256(factor), den)
}
