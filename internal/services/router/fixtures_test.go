package router

import (
	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/fundswap/internal/domain"
)

func testKey(tag byte) solana.PublicKey {
	var pk solana.PublicKey
	pk[0] = tag
	pk[31] = 0xA5
	return pk
}

// Token universe: 0 is the base asset at 1.0, 1 trades at 2.0, 2 has nine
// decimals and trades at 50.0.
func testTokens() domain.TokenTable {
	return domain.TokenTable{
		{ID: 0, Symbol: "USDC", Mint: testKey(0x10), PDAAccount: testKey(0x20), OraclePriceFeed: testKey(0x30), Decimals: 6, ExternalPriceRefID: "usd-coin", IsBaseAsset: true},
		{ID: 1, Symbol: "TK1", Mint: testKey(0x11), PDAAccount: testKey(0x21), OraclePriceFeed: testKey(0x31), Decimals: 6, ExternalPriceRefID: "token-one"},
		{ID: 2, Symbol: "TK2", Mint: testKey(0x12), PDAAccount: testKey(0x22), OraclePriceFeed: testKey(0x32), Decimals: 9, ExternalPriceRefID: "token-two"},
	}
}

func testPrices() domain.PriceTable {
	return domain.PriceTable{
		{Price: 1_000_000},
		{Price: 2_000_000},
		{Price: 50_000_000},
	}
}

// Ten segments of 100 token-1 units, 2.01 rising by 0.02 per segment.
func testBuyCurve() domain.PiecewiseCurve {
	var c domain.PiecewiseCurve
	for i := range c {
		c[i] = domain.CurvePoint{AmountDelta: 100_000_000, Price: 2_010_000 + uint64(i)*20_000}
	}
	return c
}

// Ten segments of 100 token-1 units, 1.99 falling by 0.02 per segment.
func testSellCurve() domain.PiecewiseCurve {
	var c domain.PiecewiseCurve
	for i := range c {
		c[i] = domain.CurvePoint{AmountDelta: 100_000_000, Price: 1_990_000 - uint64(i)*20_000}
	}
	return c
}

func testCurves() domain.CurveTable {
	return domain.CurveTable{
		Buy:  []domain.PiecewiseCurve{{}, testBuyCurve(), {}},
		Sell: []domain.PiecewiseCurve{{}, testSellCurve(), {}},
	}
}

func newTestFund(tag byte, ids []domain.TokenID, amounts, weights []uint64, weightSum, rebalance, lpOffset uint64) domain.FundState {
	return domain.FundState{
		Address:            testKey(tag),
		Manager:            testKey(tag + 1),
		HostWallet:         testKey(tag + 2),
		NumOfTokens:        len(ids),
		CurrentCompToken:   ids,
		CurrentCompAmount:  amounts,
		TargetWeight:       weights,
		WeightSum:          weightSum,
		RebalanceThreshold: rebalance,
		LpOffsetThreshold:  lpOffset,
	}
}

// balancedFund holds 1000 base and 500 token 1, both exactly on a 50/50 target
// with a 25% band.
func balancedFund() domain.FundState {
	return newTestFund(0x40, []domain.TokenID{0, 1}, []uint64{1_000_000_000, 500_000_000}, []uint64{1, 1}, 2, 5000, 5000)
}

// overweightFund holds token 1 at 40% of worth against a 25% target with a
// 25% band, so it cannot take any more token 1.
func overweightFund() domain.FundState {
	return newTestFund(0x50, []domain.TokenID{0, 1}, []uint64{3_000_000_000, 1_000_000_000}, []uint64{3, 1}, 4, 5000, 5000)
}

// depletedFund holds token 1 exactly on its lower band edge.
func depletedFund() domain.FundState {
	return newTestFund(0x60, []domain.TokenID{0, 1}, []uint64{1_000_000_000, 300_000_000}, []uint64{1, 1}, 2, 5000, 5000)
}

// thinFund holds only 10 token 1 but has a band wide enough to accept any trade.
func thinFund() domain.FundState {
	return newTestFund(0x70, []domain.TokenID{0, 1}, []uint64{1_000_000_000, 10_000_000}, []uint64{1, 1}, 2, 10000, 10000)
}

func threeTokenFund() domain.FundState {
	return newTestFund(0x80, []domain.TokenID{0, 1, 2}, []uint64{1_000_000_000, 500_000_000, 20_000_000_000}, []uint64{1, 1, 1}, 3, 5000, 5000)
}

func flatQuoter(opts ...Option) *Quoter {
	return NewQuoter(testTokens(), domain.CurveTable{}, testPrices(), opts...)
}

func curvedQuoter(opts ...Option) *Quoter {
	return NewQuoter(testTokens(), testCurves(), testPrices(), opts...)
}
