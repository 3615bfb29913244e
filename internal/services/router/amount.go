package router

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ToRawAmount truncates a decimal token amount onto the token's raw unit grid.
func ToRawAmount(amount decimal.Decimal, decimals uint8) (uint64, error) {
	if amount.IsNegative() {
		return 0, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, amount)
	}
	raw := amount.Shift(int32(decimals)).Floor().BigInt()
	if !raw.IsUint64() {
		return 0, fmt.Errorf("%w: %s overflows %d decimals", ErrInvalidAmount, amount, decimals)
	}
	return raw.Uint64(), nil
}

func FromRawAmount(raw uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromUint64(raw).Shift(-int32(decimals))
}
