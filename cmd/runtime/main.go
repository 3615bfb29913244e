package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/fundswap/internal/aggregator"
	"github.com/hxuan190/fundswap/internal/common"
	"github.com/hxuan190/fundswap/internal/config"
	"github.com/hxuan190/fundswap/internal/http"
)

// @title Fundswap Route API
// @version 1.0
// @description Quotes swaps against managed multi-token funds and builds the unsigned swapFundTokens instruction.
// @description
// @description ## - How quotes work
// @description - Every fund holding both tokens is priced from the oracle prices and the token's buy/sell curves
// @description - A fund is skipped if the swap would push either token outside its rebalance band
// @description - The fund paying the most output wins; ties keep the earlier fund
// @description
// @description ## - Usage Tips
// @description - Amounts are decimal token units ("10.5"); raw amounts in responses are smallest units
// @description - Default slippage is 50 bps (0.5%)
// @description - Admin routes need the X-Admin-Token header
// @description
// @BasePath /
// @schemes https http
// @tag.name quote
// @tag.description Best-fund quotes for a token pair
// @tag.name swap
// @tag.description Unsigned swap instructions ready to add to a transaction
// @tag.name funds
// @tag.description Fund state and liquidity headroom
// @tag.name tokens
// @tag.description Tokens known to the funds program
// @tag.name snapshot
// @tag.description State the quotes are priced on
// @tag.name admin
// @tag.description Snapshot push and reload

func main() {
	common.InitRuntime()

	// load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file, using process environment")
	}

	general := &config.GeneralConfig{}
	snapshotConf := &config.SnapshotConfig{}
	storageConf := &config.StorageConfig{}
	quoteConf := &config.QuoteConfig{}
	if err := config.LoadAll(general, snapshotConf, storageConf, quoteConf); err != nil {
		log.Error().Err(err).Msg("failed to load config")
		os.Exit(1)
	}
	common.SetupLogger(general.LogLevel, general.Env)

	aggregatorSvc := aggregator.NewService(snapshotConf, storageConf, quoteConf)
	if err := aggregatorSvc.Configure(); err != nil {
		log.Error().Err(err).Msg("failed to configure aggregator service")
		os.Exit(1)
	}
	if err := aggregatorSvc.Start(); err != nil {
		log.Error().Err(err).Msg("failed to start aggregator service")
		os.Exit(1)
	}

	httpSvc := http.NewHTTPService(general, snapshotConf, aggregatorSvc)
	if err := httpSvc.Configure(); err != nil {
		log.Error().Err(err).Msg("failed to configure http service")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSvc.Start()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
		}
	}

	log.Info().Msg("Shutting down services...")
	if err := httpSvc.Stop(); err != nil {
		log.Error().Err(err).Msg("error stopping http service")
	}
	if err := aggregatorSvc.Stop(); err != nil {
		log.Error().Err(err).Msg("error stopping aggregator service")
	}
	log.Info().Msg("Shutdown complete")
}
