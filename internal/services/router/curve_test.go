package router

import (
	"math/rand"
	"testing"

	"github.com/hxuan190/fundswap/internal/domain"
)

func TestBuyPricesRatchetUp(t *testing.T) {
	got := BuyPrices(2_000_000, testBuyCurve())
	want := CurvePrices{2_009_001, 2_027_001, 2_045_001, 2_063_001, 2_081_001, 2_099_001, 2_117_001, 2_135_001, 2_153_001, 2_171_001}
	if got != want {
		t.Fatalf("BuyPrices = %v, want %v", got, want)
	}
}

func TestSellPricesRatchetDown(t *testing.T) {
	got := SellPrices(2_000_000, testSellCurve())
	want := CurvePrices{1_990_999, 1_972_999, 1_954_999, 1_936_999, 1_918_999, 1_900_999, 1_882_999, 1_864_999, 1_846_999, 1_828_999}
	if got != want {
		t.Fatalf("SellPrices = %v, want %v", got, want)
	}
}

func TestZeroCurveKeepsBuyAnchor(t *testing.T) {
	prices := BuyPrices(2_000_000, domain.PiecewiseCurve{})
	for i, p := range prices {
		if p != 2_000_010 {
			t.Errorf("step %d: price %d, want anchor 2000010", i, p)
		}
	}
}

// The ratchet must never retreat against the trade direction, whatever the
// curve looks like.
func TestRatchetMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 500; round++ {
		var curve domain.PiecewiseCurve
		for i := range curve {
			curve[i] = domain.CurvePoint{
				AmountDelta: uint64(rng.Int63n(1_000_000_000)),
				Price:       uint64(rng.Int63n(10_000_000)),
			}
		}
		oracle := uint64(rng.Int63n(10_000_000)) + 1

		buy := BuyPrices(oracle, curve)
		if buy[0] < BuyAnchor(oracle) {
			t.Fatalf("round %d: buy price %d below anchor %d", round, buy[0], BuyAnchor(oracle))
		}
		sell := SellPrices(oracle, curve)
		if sell[0] > SellAnchor(oracle) {
			t.Fatalf("round %d: sell price %d above anchor %d", round, sell[0], SellAnchor(oracle))
		}
		for i := 1; i < domain.CurvePoints; i++ {
			if buy[i] < buy[i-1] {
				t.Fatalf("round %d: buy price fell at step %d: %d < %d", round, i, buy[i], buy[i-1])
			}
			if sell[i] > sell[i-1] {
				t.Fatalf("round %d: sell price rose at step %d: %d > %d", round, i, sell[i], sell[i-1])
			}
		}
	}
}

func TestOutputAmountForBuying(t *testing.T) {
	tests := []struct {
		name     string
		current  uint64
		target   uint64
		value    uint64
		curve    domain.PiecewiseCurve
		expected uint64
	}{
		{name: "zero curve prices at anchor", current: 500_000_000, target: 500_000_000, value: 100_000_000, expected: 49_999_750},
		{name: "inside first segment", current: 500_000_000, target: 500_000_000, value: 10_000_000, curve: testBuyCurve(), expected: 4_977_598},
		{name: "spans segments", current: 500_000_000, target: 500_000_000, value: 1_000_000_000, curve: testBuyCurve(), expected: 489_187_655},
		{name: "starts past target deficit", current: 350_000_000, target: 500_000_000, value: 1_000_000_000, curve: testBuyCurve(), expected: 482_994_575},
		{name: "beyond curve range", current: 500_000_000, target: 500_000_000, value: 10_000_000_000, curve: testBuyCurve(), expected: 4_643_480_127},
		{name: "zero value", current: 500_000_000, target: 500_000_000, value: 0, curve: testBuyCurve(), expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OutputAmountForBuying(tt.current, tt.target, 2_000_000, tt.value, tt.curve, 6)
			if got != tt.expected {
				t.Errorf("OutputAmountForBuying = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestOutputValueForSelling(t *testing.T) {
	tests := []struct {
		name     string
		current  uint64
		target   uint64
		amount   uint64
		expected uint64
	}{
		{name: "one full segment", current: 500_000_000, target: 500_000_000, amount: 100_000_000, expected: 199_099_900},
		{name: "inside first segment", current: 500_000_000, target: 500_000_000, amount: 50_000_000, expected: 99_549_950},
		{name: "starts past target surplus", current: 650_000_000, target: 500_000_000, amount: 200_000_000, expected: 390_999_800},
		{name: "beyond curve range", current: 500_000_000, target: 500_000_000, amount: 2_000_000_000, expected: 3_738_998_000},
		{name: "zero amount", current: 500_000_000, target: 500_000_000, amount: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OutputValueForSelling(tt.current, tt.target, 2_000_000, tt.amount, testSellCurve(), 6)
			if got != tt.expected {
				t.Errorf("OutputValueForSelling = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestReachableSegmentsClipsOffset(t *testing.T) {
	curve := testBuyCurve()
	prices := BuyPrices(2_000_000, curve)

	segs, n := reachableSegments(curve, prices, 150_000_000)
	if n != 9 {
		t.Fatalf("expected 9 reachable segments, got %d", n)
	}
	if segs[0].amount != 50_000_000 || segs[0].price != prices[1] {
		t.Errorf("first segment = %+v, want half of point 1", segs[0])
	}
	if segs[1].amount != 100_000_000 || segs[1].price != prices[2] {
		t.Errorf("second segment = %+v, want all of point 2", segs[1])
	}
}

func BenchmarkOutputAmountForBuying(b *testing.B) {
	curve := testBuyCurve()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = OutputAmountForBuying(350_000_000, 500_000_000, 2_000_000, 1_000_000_000, curve, 6)
	}
}

func BenchmarkOutputValueForSelling(b *testing.B) {
	curve := testSellCurve()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = OutputValueForSelling(650_000_000, 500_000_000, 2_000_000, 200_000_000, curve, 6)
	}
}
