package aggregator

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/hxuan190/fundswap/internal/adapters/persistence"
	"github.com/hxuan190/fundswap/internal/config"
	"github.com/hxuan190/fundswap/internal/domain"
	"github.com/hxuan190/fundswap/internal/metrics"
	"github.com/hxuan190/fundswap/internal/services"
	"github.com/hxuan190/fundswap/internal/services/builder"
	"github.com/hxuan190/fundswap/internal/services/market"
	"github.com/hxuan190/fundswap/internal/services/router"
)

const AGGREGATOR_SERVICE = "aggregator-service"

const (
	SourceSeed    = "seed"
	SourceStorage = "storage"
	SourceAdmin   = "admin"
)

var (
	ErrFundNotFound = errors.New("fund not found")
	ErrSameToken    = errors.New("input and output token must differ")
	ErrNoSeedFile   = errors.New("no seed file configured")

	// Error aliases
	ErrNoSnapshot        = market.ErrNoSnapshot
	ErrUnknownToken      = router.ErrUnknownToken
	ErrInvalidAmount     = router.ErrInvalidAmount
	ErrNoRoute           = builder.ErrNoRoute
	ErrInvalidSlippage   = builder.ErrInvalidSlippage
	ErrInvalidUserWallet = builder.ErrInvalidUser
)

// SnapshotStorage keeps the last accepted snapshot across restarts.
type SnapshotStorage interface {
	SaveSnapshot(snap *domain.Snapshot) error
	LoadSnapshot() (*domain.Snapshot, error)
	Close() error
}

type Service struct {
	logger *services.ServiceLogger

	snapshotCfg *config.SnapshotConfig
	storageCfg  *config.StorageConfig
	quoteCfg    *config.QuoteConfig

	store     *market.SnapshotStore
	cache     *market.QuoteCache
	storage   SnapshotStorage
	refresher *market.Refresher
}

func NewService(snapshotCfg *config.SnapshotConfig, storageCfg *config.StorageConfig, quoteCfg *config.QuoteConfig) *Service {
	return &Service{
		snapshotCfg: snapshotCfg,
		storageCfg:  storageCfg,
		quoteCfg:    quoteCfg,
	}
}

func (svc *Service) ID() string {
	return AGGREGATOR_SERVICE
}

func (svc *Service) Configure() error {
	svc.logger = services.NewServiceLogger(svc)
	svc.store = market.NewSnapshotStore(router.WithParallel(svc.quoteCfg.Parallel))
	svc.cache = market.NewQuoteCache(svc.quoteCfg.CacheSize)

	if svc.storageCfg.Enabled && svc.storage == nil {
		storage, err := persistence.NewStorage(svc.storageCfg.DBPath)
		if err != nil {
			return fmt.Errorf("open snapshot storage: %w", err)
		}
		svc.storage = storage
	}

	if svc.snapshotCfg.Path != "" {
		svc.refresher = market.NewRefresher(svc.snapshotCfg.Path, svc.snapshotCfg.RefreshCron, func(snap *domain.Snapshot) error {
			return svc.UpdateSnapshot(snap, SourceSeed)
		})
	}
	return nil
}

// SetStorage replaces the storage opened by Configure. Call before Configure.
func (svc *Service) SetStorage(storage SnapshotStorage) {
	svc.storage = storage
}

// Start restores the stored snapshot, then loads the seed file on top of it.
// Neither is required: without a snapshot, quotes fail with ErrNoSnapshot
// until one is pushed.
func (svc *Service) Start() error {
	if svc.storage != nil {
		snap, err := svc.storage.LoadSnapshot()
		switch {
		case err == nil:
			if err := svc.apply(snap, SourceStorage); err != nil {
				svc.logger.Warn().Err(err).Msg("[aggregatorService] stored snapshot rejected")
			}
		case errors.Is(err, persistence.ErrNoStoredSnapshot):
			svc.logger.Info().Msg("[aggregatorService] no stored snapshot")
		default:
			svc.logger.Warn().Err(err).Msg("[aggregatorService] failed to load stored snapshot")
		}
	}

	if svc.refresher != nil {
		if _, err := os.Stat(svc.snapshotCfg.Path); err == nil {
			if err := svc.refresher.Refresh(); err != nil {
				svc.logger.Warn().Err(err).Str("path", svc.snapshotCfg.Path).Msg("[aggregatorService] initial seed load failed")
			}
		} else {
			svc.logger.Warn().Str("path", svc.snapshotCfg.Path).Msg("[aggregatorService] seed file not found")
		}
		if err := svc.refresher.Start(); err != nil {
			return err
		}
	}

	if _, err := svc.store.Current(); err != nil {
		svc.logger.Warn().Msg("[aggregatorService] starting without a snapshot")
	}
	return nil
}

func (svc *Service) Stop() error {
	if svc.refresher != nil {
		svc.refresher.Stop()
	}
	if svc.storage != nil {
		return svc.storage.Close()
	}
	return nil
}

// UpdateSnapshot makes snap current and persists it. A persistence failure is
// logged; the snapshot stays live.
func (svc *Service) UpdateSnapshot(snap *domain.Snapshot, source string) error {
	if err := svc.apply(snap, source); err != nil {
		return err
	}
	if svc.storage != nil {
		if err := svc.storage.SaveSnapshot(snap); err != nil {
			svc.logger.Error().Err(err).Uint64("slot", snap.Slot).Msg("[aggregatorService] failed to persist snapshot")
		}
	}
	return nil
}

func (svc *Service) apply(snap *domain.Snapshot, source string) error {
	if err := svc.store.Update(snap); err != nil {
		metrics.SnapshotUpdates.WithLabelValues(source, "rejected").Inc()
		return err
	}
	metrics.SnapshotUpdates.WithLabelValues(source, "ok").Inc()
	svc.logger.Info().
		Str("source", source).
		Uint64("slot", snap.Slot).
		Int("tokens", len(snap.Tokens)).
		Int("funds", len(snap.Funds)).
		Msg("[aggregatorService] snapshot updated")
	return nil
}

// ReloadSnapshot loads the seed file now.
func (svc *Service) ReloadSnapshot() error {
	if svc.refresher == nil {
		return ErrNoSeedFile
	}
	return svc.refresher.Refresh()
}

func (svc *Service) GetStats() market.Stats {
	return svc.store.Stats()
}

func (svc *Service) DefaultSlippageBps() uint16 {
	return svc.quoteCfg.DefaultSlippageBps
}

func (svc *Service) ResolveToken(mint solana.PublicKey) (domain.TokenID, error) {
	view, err := svc.store.Current()
	if err != nil {
		return 0, err
	}
	id, ok := view.Snapshot.Tokens.FindByMint(mint)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownToken, mint)
	}
	return id, nil
}

// GetQuote prices amount (decimal units of inputMint) across all funds. A
// trade no fund can serve is a quote whose route is the zero sentinel.
func (svc *Service) GetQuote(inputMint, outputMint solana.PublicKey, amount decimal.Decimal) (*domain.Quote, error) {
	start := time.Now()
	quote, err := svc.getQuote(inputMint, outputMint, amount)
	metrics.QuoteDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		metrics.QuoteRequests.WithLabelValues("error").Inc()
	case !quote.Found():
		metrics.QuoteRequests.WithLabelValues("no_route").Inc()
	default:
		metrics.QuoteRequests.WithLabelValues("success").Inc()
	}
	return quote, err
}

func (svc *Service) getQuote(inputMint, outputMint solana.PublicKey, amount decimal.Decimal) (*domain.Quote, error) {
	view, err := svc.store.Current()
	if err != nil {
		return nil, err
	}
	tokens := view.Snapshot.Tokens

	from, ok := tokens.FindByMint(inputMint)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownToken, inputMint)
	}
	to, ok := tokens.FindByMint(outputMint)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownToken, outputMint)
	}
	if from == to {
		return nil, ErrSameToken
	}

	raw, err := router.ToRawAmount(amount, tokens[from].Decimals)
	if err != nil {
		return nil, err
	}

	funds := view.Snapshot.Funds
	key := market.QuoteKey{Version: view.Version, From: from, To: to, AmountRaw: raw}
	route, hit := svc.cache.Get(key)
	if !hit {
		best, err := view.Quoter.BestRouteRaw(funds, from, to, raw)
		if err != nil {
			return nil, err
		}
		route = *best
		svc.cache.Set(key, route)
		metrics.FundsEvaluated.Observe(float64(len(funds)))
	}

	return &domain.Quote{
		InputMint:      inputMint,
		OutputMint:     outputMint,
		Route:          route,
		OutputDecimals: tokens[to].Decimals,
		FundsEvaluated: len(funds),
		SnapshotSlot:   view.Snapshot.Slot,
	}, nil
}

// BuildSwap quotes the request and assembles the unsigned swap instruction
// for the best fund.
func (svc *Service) BuildSwap(req *domain.SwapRequest) (*domain.SwapResponse, error) {
	logger := svc.logger.Method("BuildSwap")

	quote, err := svc.GetQuote(req.InputMint, req.OutputMint, req.Amount)
	if err != nil {
		metrics.SwapRequests.WithLabelValues("error").Inc()
		return nil, err
	}
	view, err := svc.store.Current()
	if err != nil {
		metrics.SwapRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	params, err := builder.BuildSwapParams(&quote.Route, view.Snapshot.Tokens, builder.UserAccounts{
		Wallet:           req.UserWallet,
		FromTokenAccount: req.UserSourceTokenAccount,
		ToTokenAccount:   req.UserDestinationTokenAccount,
	}, req.SlippageBps)
	if err != nil {
		metrics.SwapRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	data, err := params.Data()
	if err != nil {
		metrics.SwapRequests.WithLabelValues("error").Inc()
		logger.Error().Err(err).Msg("[aggregatorService] failed to encode swap instruction")
		return nil, err
	}

	metas := params.AccountMetas()
	accounts := make([]domain.InstructionAccount, 0, len(metas))
	for _, m := range metas {
		accounts = append(accounts, domain.InstructionAccount{
			Pubkey:     m.PublicKey.String(),
			IsSigner:   m.IsSigner,
			IsWritable: m.IsWritable,
		})
	}

	route := quote.Route
	metrics.SwapRequests.WithLabelValues("success").Inc()
	logger.Debug().
		Str("fund", route.SwapAccounts.FundState.String()).
		Uint64("amount_in", route.FromAmountRaw).
		Uint64("amount_out", route.ToAmountRaw).
		Uint64("min_out", params.Args.MinimumAmountOut).
		Msg("[aggregatorService] built swap instruction")

	return &domain.SwapResponse{
		ProgramID:       params.Program.String(),
		Accounts:        accounts,
		Data:            base64.StdEncoding.EncodeToString(data),
		FundAddress:     route.SwapAccounts.FundState.String(),
		AmountIn:        route.FromAmount,
		AmountOut:       route.ToAmount,
		MinAmountOut:    params.MinimumReceived,
		AmountInRaw:     route.FromAmountRaw,
		AmountOutRaw:    route.ToAmountRaw,
		MinAmountOutRaw: params.Args.MinimumAmountOut,
		FeeAmountRaw:    route.FeeRaw,
		SlippageBps:     params.SlippageBps,
	}, nil
}

// GetLiquidityInfo estimates how much of each held token the fund at address
// can absorb or release before leaving its rebalance band.
func (svc *Service) GetLiquidityInfo(address solana.PublicKey) ([]domain.TokenCapacity, error) {
	view, err := svc.store.Current()
	if err != nil {
		return nil, err
	}
	fund, ok := view.Snapshot.FindFund(address)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFundNotFound, address)
	}
	return router.EstimateCapacity(view.Snapshot.Tokens, fund, view.Snapshot.Prices)
}

func (svc *Service) GetTokenList() ([]domain.TokenListing, error) {
	view, err := svc.store.Current()
	if err != nil {
		return nil, err
	}
	return view.Snapshot.Tokens.Listings(), nil
}

func (svc *Service) ListFunds() ([]domain.FundState, error) {
	view, err := svc.store.Current()
	if err != nil {
		return nil, err
	}
	return view.Snapshot.Funds, nil
}

// AccountsForUpdate lists the accounts the external fetcher must refresh to
// build the next snapshot.
func (svc *Service) AccountsForUpdate() ([]solana.PublicKey, error) {
	view, err := svc.store.Current()
	if err != nil {
		return nil, err
	}
	return view.Snapshot.AccountsForUpdate(), nil
}

// Snapshot returns the current snapshot. It must not be modified.
func (svc *Service) Snapshot() (*domain.Snapshot, error) {
	view, err := svc.store.Current()
	if err != nil {
		return nil, err
	}
	return view.Snapshot, nil
}

var _ SnapshotStorage = (*persistence.Storage)(nil)
