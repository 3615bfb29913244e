package router

import (
	"github.com/hxuan190/fundswap/internal/domain"
)

// CurvePrices is the running price after each curve point.
type CurvePrices [domain.CurvePoints]uint64

// Last is the price used for any amount beyond the configured curve range.
func (p CurvePrices) Last() uint64 {
	return p[domain.CurvePoints-1]
}

// BuyAnchor marks the oracle price up by the flat fee.
func BuyAnchor(oraclePrice uint64) uint64 {
	return MulDiv(oraclePrice, FeeDenominator+FlatFee, FeeDenominator)
}

// SellAnchor marks the oracle price down by the flat fee.
func SellAnchor(oraclePrice uint64) uint64 {
	return MulDiv(oraclePrice, FeeDenominator-FlatFee, FeeDenominator)
}

// blendPrice weighs a curve point 9:1 against the anchored oracle price.
func blendPrice(curvePrice, anchor uint64) uint64 {
	v := u256(curvePrice)
	v.Mul(v, u256(9))
	v.Add(v, u256(anchor))
	v.Div(v, u256(10))
	return saturateU64(v)
}

// BuyPrices folds the buy curve into running prices. The price starts at the
// buy anchor and only ever rises.
func BuyPrices(oraclePrice uint64, curve domain.PiecewiseCurve) CurvePrices {
	return ratchet(BuyAnchor(oraclePrice), curve, higher)
}

// SellPrices folds the sell curve into running prices. The price starts at the
// sell anchor and only ever falls.
func SellPrices(oraclePrice uint64, curve domain.PiecewiseCurve) CurvePrices {
	return ratchet(SellAnchor(oraclePrice), curve, lower)
}

func ratchet(anchor uint64, curve domain.PiecewiseCurve, keep func(prev, next uint64) uint64) CurvePrices {
	var prices CurvePrices
	running := anchor
	for i, point := range curve {
		running = keep(running, blendPrice(point.Price, anchor))
		prices[i] = running
	}
	return prices
}

func higher(prev, next uint64) uint64 { return max(prev, next) }

func lower(prev, next uint64) uint64 { return min(prev, next) }

type segment struct {
	amount uint64
	price  uint64
}

// reachableSegments returns the curve segments lying past offset, measured
// from the curve start. The first reachable segment is clipped at offset.
func reachableSegments(curve domain.PiecewiseCurve, prices CurvePrices, offset uint64) ([domain.CurvePoints]segment, int) {
	var (
		segs       [domain.CurvePoints]segment
		n          int
		cumulative uint64
	)
	for i, point := range curve {
		cumulative = saturatingAdd(cumulative, point.AmountDelta)
		if cumulative <= offset {
			continue
		}
		segs[n] = segment{
			amount: min(cumulative-offset, point.AmountDelta),
			price:  prices[i],
		}
		n++
	}
	return segs, n
}

// OutputAmountForBuying prices a purchase of a token from a fund. It spends
// value (PriceScale) along the buy curve starting at max(current, target) and
// returns the raw amount delivered. Value left after the last point is
// converted at the last running price.
func OutputAmountForBuying(currentAmount, targetAmount, oraclePrice, value uint64, curve domain.PiecewiseCurve, decimals uint8) uint64 {
	expo := Pow10(decimals)
	prices := BuyPrices(oraclePrice, curve)
	curveStart := max(currentAmount, targetAmount)
	segs, n := reachableSegments(curve, prices, curveStart-currentAmount)

	valueLeft := value
	var out uint64
	for _, seg := range segs[:n] {
		segValue := MulDiv(seg.amount, seg.price, expo)
		if segValue > valueLeft {
			return saturatingAdd(out, MulDiv(valueLeft, expo, seg.price))
		}
		out = saturatingAdd(out, seg.amount)
		valueLeft -= segValue
	}
	return saturatingAdd(out, MulDiv(valueLeft, expo, prices.Last()))
}

// OutputValueForSelling prices a sale of a token to a fund. It walks amount
// along the sell curve starting at min(current, target) and returns the value
// (PriceScale) received.
func OutputValueForSelling(currentAmount, targetAmount, oraclePrice, amount uint64, curve domain.PiecewiseCurve, decimals uint8) uint64 {
	expo := Pow10(decimals)
	prices := SellPrices(oraclePrice, curve)
	curveStart := min(currentAmount, targetAmount)
	segs, n := reachableSegments(curve, prices, currentAmount-curveStart)

	amountLeft := amount
	var out uint64
	for _, seg := range segs[:n] {
		if seg.amount > amountLeft {
			return saturatingAdd(out, MulDiv(amountLeft, seg.price, expo))
		}
		out = saturatingAdd(out, MulDiv(seg.amount, seg.price, expo))
		amountLeft -= seg.amount
	}
	return saturatingAdd(out, MulDiv(amountLeft, prices.Last(), expo))
}
