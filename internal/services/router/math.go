package router

import (
	"math/big"
	"sync"

	"github.com/holiman/uint256"
)

const (
	// FeeDenominator is the parts-per-million base of the flat fee.
	FeeDenominator uint64 = 1_000_000
	// FlatFee is the 5 ppm premium (buy) or discount (sell) applied to every
	// non-base leg of a trade.
	FlatFee uint64 = 5

	maxUint64 = ^uint64(0)
)

var pow10 = [...]uint64{
	1,
	10,
	100,
	1_000,
	10_000,
	100_000,
	1_000_000,
	10_000_000,
	100_000_000,
	1_000_000_000,
	10_000_000_000,
	100_000_000_000,
	1_000_000_000_000,
	10_000_000_000_000,
	100_000_000_000_000,
	1_000_000_000_000_000,
	10_000_000_000_000_000,
	100_000_000_000_000_000,
	1_000_000_000_000_000_000,
	10_000_000_000_000_000_000,
}

// Pow10 returns 10^decimals. Decimals beyond the uint64 range return 0, which
// every MulDiv caller treats as "no value".
func Pow10(decimals uint8) uint64 {
	if int(decimals) >= len(pow10) {
		return 0
	}
	return pow10[decimals]
}

// Object pools for the quoting hot path

var uint256Pool = sync.Pool{
	New: func() interface{} {
		return new(uint256.Int)
	},
}

// GetU256 gets a uint256.Int from the pool
func GetU256() *uint256.Int {
	return uint256Pool.Get().(*uint256.Int)
}

// PutU256 returns a uint256.Int to the pool
func PutU256(v *uint256.Int) {
	v.Clear()
	uint256Pool.Put(v)
}

// MulDiv performs floor(a * b / c) with a 256-bit intermediate.
// A zero divisor yields 0; results beyond uint64 saturate.
func MulDiv(a, b, c uint64) uint64 {
	if c == 0 {
		return 0
	}
	result := GetU256()
	temp := GetU256()
	defer func() {
		PutU256(result)
		PutU256(temp)
	}()

	result.SetUint64(a)
	temp.SetUint64(b)
	result.Mul(result, temp)
	temp.SetUint64(c)
	result.Div(result, temp)

	return saturateU64(result)
}

// mulDivU256 returns floor(x * y / d) as a fresh value. The product is computed
// at 512 bits; a 256-bit overflow of the quotient saturates.
func mulDivU256(x, y, d *uint256.Int) *uint256.Int {
	out, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow {
		return new(uint256.Int).SetAllOne()
	}
	return out
}

func saturateU64(v *uint256.Int) uint64 {
	if v.IsUint64() {
		return v.Uint64()
	}
	return maxUint64
}

func saturatingAdd(a, b uint64) uint64 {
	if a+b < a {
		return maxUint64
	}
	return a + b
}

func u256(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

func bigU64(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}
