package router

import (
	"math"
	"testing"
)

func TestMulDiv(t *testing.T) {
	tests := []struct {
		name     string
		a, b, c  uint64
		expected uint64
	}{
		{name: "exact", a: 100, b: 3, c: 3, expected: 100},
		{name: "floors", a: 10, b: 1, c: 3, expected: 3},
		{name: "zero divisor", a: 10, b: 10, c: 0, expected: 0},
		{name: "zero operand", a: 0, b: 1_000_000, c: 7, expected: 0},
		{name: "wide intermediate", a: math.MaxUint64, b: 1_000_000, c: 2_000_000, expected: math.MaxUint64 / 2},
		{name: "saturates", a: math.MaxUint64, b: 3, c: 2, expected: math.MaxUint64},
		{name: "buy anchor", a: 2_000_000, b: 1_000_005, c: 1_000_000, expected: 2_000_010},
		{name: "sell anchor", a: 2_000_000, b: 999_995, c: 1_000_000, expected: 1_999_990},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MulDiv(tt.a, tt.b, tt.c); got != tt.expected {
				t.Errorf("MulDiv(%d, %d, %d) = %d, want %d", tt.a, tt.b, tt.c, got, tt.expected)
			}
		})
	}
}

func TestPow10(t *testing.T) {
	if got := Pow10(0); got != 1 {
		t.Errorf("Pow10(0) = %d", got)
	}
	if got := Pow10(9); got != 1_000_000_000 {
		t.Errorf("Pow10(9) = %d", got)
	}
	if got := Pow10(19); got != 10_000_000_000_000_000_000 {
		t.Errorf("Pow10(19) = %d", got)
	}
	if got := Pow10(20); got != 0 {
		t.Errorf("Pow10(20) = %d, want 0 beyond uint64 range", got)
	}
}

func TestSaturatingAdd(t *testing.T) {
	if got := saturatingAdd(1, 2); got != 3 {
		t.Errorf("saturatingAdd(1, 2) = %d", got)
	}
	if got := saturatingAdd(math.MaxUint64, 1); got != math.MaxUint64 {
		t.Errorf("saturatingAdd overflow = %d", got)
	}
}

func TestMulDivU256Saturates(t *testing.T) {
	huge := u256(math.MaxUint64)
	huge.Mul(huge, huge)
	huge.Mul(huge, huge)

	got := mulDivU256(huge, u256(math.MaxUint64), u256(1))
	if saturateU64(got) != math.MaxUint64 {
		t.Errorf("expected saturation, got %s", got)
	}
	if mulDivU256(u256(7), u256(3), u256(2)).Uint64() != 10 {
		t.Error("mulDivU256(7, 3, 2) should floor to 10")
	}
}

func BenchmarkMulDiv(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = MulDiv(uint64(i)+1_000_000_000, 2_171_001, 1_000_000)
	}
}
