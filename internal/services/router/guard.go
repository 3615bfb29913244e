package router

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/hxuan190/fundswap/internal/domain"
)

var toleranceScale = bigU64(domain.ToleranceScale)

// fundValuation is the priced composition of one fund.
type fundValuation struct {
	fund  *domain.FundState
	worth *uint256.Int
	tol   uint64
}

// valueFund prices every held slot. Each slot's value is floored separately
// before summing.
func valueFund(tokens domain.TokenTable, prices domain.PriceTable, fund *domain.FundState) (*fundValuation, error) {
	worth := new(uint256.Int)
	for i := 0; i < fund.Slots(); i++ {
		id := fund.CurrentCompToken[i]
		info, ok := tokens.Get(id)
		if !ok {
			return nil, ErrIncompleteFund
		}
		price, ok := prices.Get(id)
		if !ok {
			return nil, ErrIncompleteFund
		}
		worth.Add(worth, u256(MulDiv(fund.CurrentCompAmount[i], price, Pow10(info.Decimals))))
	}
	return &fundValuation{
		fund:  fund,
		worth: worth,
		tol:   fund.ToleranceNumerator(),
	}, nil
}

// targetAmount is the raw holding that would put a slot exactly on its target
// weight: weight × worth × 10^decimals / (weightSum × price).
func (v *fundValuation) targetAmount(slot int, price uint64, decimals uint8) uint64 {
	den := u256(v.fund.WeightSum)
	den.Mul(den, u256(price))
	if den.IsZero() {
		return 0
	}
	num := u256(v.fund.TargetWeight[slot])
	num.Mul(num, v.worth)
	return saturateU64(mulDivU256(num, u256(Pow10(decimals)), den))
}

// bandEdge returns expo × worth × weight × (ToleranceScale ± tol), the right
// hand side of a band comparison scaled by weightSum × ToleranceScale.
func (v *fundValuation) bandEdge(slot int, decimals uint8, upper bool) *big.Int {
	edge := bigU64(domain.ToleranceScale)
	if upper {
		edge.Add(edge, bigU64(v.tol))
	} else if v.tol >= domain.ToleranceScale {
		return new(big.Int)
	} else {
		edge.SetUint64(domain.ToleranceScale - v.tol)
	}
	edge.Mul(edge, v.worth.ToBig())
	edge.Mul(edge, bigU64(v.fund.TargetWeight[slot]))
	edge.Mul(edge, bigU64(Pow10(decimals)))
	return edge
}

// scaledValue returns amount × price × weightSum × ToleranceScale, the left
// hand side of a band comparison.
func (v *fundValuation) scaledValue(amount *big.Int, price uint64) *big.Int {
	out := new(big.Int).Mul(amount, bigU64(price))
	out.Mul(out, bigU64(v.fund.WeightSum))
	return out.Mul(out, toleranceScale)
}

// BelowBand reports whether paying out leaves the slot's share of fund worth
// under target × (1 − tolerance).
func (v *fundValuation) BelowBand(slot int, price uint64, decimals uint8, out uint64) bool {
	held := v.fund.CurrentCompAmount[slot]
	after := new(big.Int)
	if out < held {
		after.SetUint64(held - out)
	}
	return v.scaledValue(after, price).Cmp(v.bandEdge(slot, decimals, false)) < 0
}

// AboveBand reports whether taking in pushes the slot's share of fund worth
// over target × (1 + tolerance).
func (v *fundValuation) AboveBand(slot int, price uint64, decimals uint8, in uint64) bool {
	after := bigU64(v.fund.CurrentCompAmount[slot])
	after.Add(after, bigU64(in))
	return v.scaledValue(after, price).Cmp(v.bandEdge(slot, decimals, true)) > 0
}
