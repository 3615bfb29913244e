package domain

// CurvePoints is the fixed number of points in every piecewise curve.
const CurvePoints = 10

// CurvePoint is one segment of a piecewise curve. AmountDelta is in raw token
// units, Price uses the oracle price scale.
type CurvePoint struct {
	AmountDelta uint64 `json:"amountDelta"`
	Price       uint64 `json:"price"`
}

type PiecewiseCurve [CurvePoints]CurvePoint

// CurveTable holds the buy and sell curves of every token, indexed by TokenID.
// Tokens without an entry trade on a zero curve.
type CurveTable struct {
	Buy  []PiecewiseCurve `json:"buy"`
	Sell []PiecewiseCurve `json:"sell"`
}

func (t CurveTable) BuyCurve(id TokenID) PiecewiseCurve {
	if int(id) >= len(t.Buy) {
		return PiecewiseCurve{}
	}
	return t.Buy[id]
}

func (t CurveTable) SellCurve(id TokenID) PiecewiseCurve {
	if int(id) >= len(t.Sell) {
		return PiecewiseCurve{}
	}
	return t.Sell[id]
}

// TotalAmount is the cumulative AmountDelta of all points.
func (c PiecewiseCurve) TotalAmount() uint64 {
	var total uint64
	for _, p := range c {
		if total+p.AmountDelta < total {
			return ^uint64(0)
		}
		total += p.AmountDelta
	}
	return total
}
