package domain

import (
	"github.com/shopspring/decimal"
)

// PriceDecimals is the fixed-point scale of oracle prices, curve prices and
// trade values (1e6).
const PriceDecimals = 6

const PriceScale uint64 = 1_000_000

type OraclePrice struct {
	// Price is the aggregate oracle price scaled by PriceScale.
	Price       uint64 `json:"price"`
	PublishSlot uint64 `json:"publishSlot,omitempty"`
}

// OraclePriceFromDecimal floors a human price onto the PriceScale grid.
func OraclePriceFromDecimal(price decimal.Decimal) OraclePrice {
	if price.IsNegative() {
		return OraclePrice{}
	}
	scaled := price.Shift(PriceDecimals).Floor()
	if !scaled.BigInt().IsUint64() {
		return OraclePrice{Price: ^uint64(0)}
	}
	return OraclePrice{Price: scaled.BigInt().Uint64()}
}

func (p OraclePrice) Decimal() decimal.Decimal {
	return decimal.NewFromUint64(p.Price).Shift(-PriceDecimals)
}

// PriceTable holds one oracle price per token, indexed by TokenID.
type PriceTable []OraclePrice

// Get returns the scaled price of a token. Missing or zero prices report false.
func (t PriceTable) Get(id TokenID) (uint64, bool) {
	if int(id) >= len(t) || t[id].Price == 0 {
		return 0, false
	}
	return t[id].Price, true
}
