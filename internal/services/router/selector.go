package router

import (
	"github.com/gagliardetto/solana-go"
	"github.com/samber/lo"
	lop "github.com/samber/lo/parallel"
	"github.com/shopspring/decimal"

	"github.com/hxuan190/fundswap/internal/domain"
)

// Quoter prices swaps against one consistent set of tokens, curves and oracle
// prices. It holds no mutable state and is safe for concurrent use.
type Quoter struct {
	tokens   domain.TokenTable
	curves   domain.CurveTable
	prices   domain.PriceTable
	accounts domain.ProgramAccounts
	parallel bool
}

type Option func(*Quoter)

// WithParallel evaluates funds concurrently. Results are identical to the
// sequential evaluation.
func WithParallel(parallel bool) Option {
	return func(q *Quoter) {
		q.parallel = parallel
	}
}

func WithProgramAccounts(accounts domain.ProgramAccounts) Option {
	return func(q *Quoter) {
		q.accounts = accounts.WithDefaults()
	}
}

func NewQuoter(tokens domain.TokenTable, curves domain.CurveTable, prices domain.PriceTable, opts ...Option) *Quoter {
	q := &Quoter{
		tokens:   tokens,
		curves:   curves,
		prices:   prices,
		accounts: domain.DefaultProgramAccounts(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func NewSnapshotQuoter(s *domain.Snapshot, opts ...Option) *Quoter {
	opts = append([]Option{WithProgramAccounts(s.Accounts)}, opts...)
	return NewQuoter(s.Tokens, s.Curves, s.Prices, opts...)
}

// NoRoute is the zero-output route returned when no fund can serve a trade.
func (q *Quoter) NoRoute() domain.RouteData {
	return domain.RouteData{
		FromAmount: decimal.Zero,
		ToAmount:   decimal.Zero,
		SwapAccounts: domain.SwapAccounts{
			Program:   q.accounts.Program,
			Authority: q.accounts.Authority,
			Fees: domain.FeeAccounts{
				SwapFeeWallet: q.accounts.SwapFeeWallet,
			},
			TokenInfo:         q.accounts.TokenInfo,
			CurveData:         q.accounts.CurveData,
			RemainingAccounts: []*solana.AccountMeta{},
		},
	}
}

// BestRoute converts a decimal amount of from into raw units and selects the
// best route across funds.
func (q *Quoter) BestRoute(funds []domain.FundState, from, to domain.TokenID, amount decimal.Decimal) (*domain.RouteData, error) {
	info, ok := q.tokens.Get(from)
	if !ok {
		return nil, ErrUnknownToken
	}
	raw, err := ToRawAmount(amount, info.Decimals)
	if err != nil {
		return nil, err
	}
	return q.BestRouteRaw(funds, from, to, raw)
}

// BestRouteRaw returns the route with the strictly greatest output across all
// funds, or NoRoute when none qualifies. Only an unknown token is an error.
func (q *Quoter) BestRouteRaw(funds []domain.FundState, from, to domain.TokenID, amountRaw uint64) (*domain.RouteData, error) {
	if !q.tokens.Has(from) || !q.tokens.Has(to) {
		return nil, ErrUnknownToken
	}

	check := func(_ domain.FundState, i int) *domain.RouteData {
		route, err := q.CheckFund(&funds[i], from, to, amountRaw)
		if err != nil {
			return nil
		}
		return route
	}

	var candidates []*domain.RouteData
	if q.parallel {
		candidates = lop.Map(funds, check)
	} else {
		candidates = lo.Map(funds, check)
	}

	best := lo.Reduce(candidates, func(best domain.RouteData, candidate *domain.RouteData, _ int) domain.RouteData {
		if candidate != nil && candidate.ToAmountRaw > best.ToAmountRaw {
			return *candidate
		}
		return best
	}, q.NoRoute())
	return &best, nil
}

// SelectBestRoute quotes amount (decimal units of from) across funds.
func SelectBestRoute(
	tokens domain.TokenTable,
	curves domain.CurveTable,
	funds []domain.FundState,
	prices domain.PriceTable,
	from, to domain.TokenID,
	amount decimal.Decimal,
) (*domain.RouteData, error) {
	return NewQuoter(tokens, curves, prices).BestRoute(funds, from, to, amount)
}
