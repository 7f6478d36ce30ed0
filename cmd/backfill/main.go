package main

// Backfills daily OHLCV bars from Yahoo Finance into ClickHouse so the
// technical analyzer and ML training have history before the first daily run.
//
// Usage:
//   go run ./cmd/backfill --symbols AAPL,MSFT --days 365

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	chclient "startrade/internal/adapters/clickhouse"
	"startrade/internal/adapters/config"
	"startrade/internal/adapters/marketdata"
	"startrade/internal/adapters/marketdata/yahoo"
	"startrade/internal/adapters/ratelimit"
	chrepo "startrade/internal/repository/clickhouse"
	marketdatasvc "startrade/internal/services/market_data"
	"startrade/internal/workers/pipeline"
	"startrade/pkg/errors"
	"startrade/pkg/logger"
)

func main() {
	symbolsFlag := flag.String("symbols", "", "Comma separated symbols (default: watchlist and portfolio)")
	days := flag.Int("days", 365, "Days of history to fetch")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()
	log := logger.Get().With("component", "backfill")

	symbols := pipeline.Union(cfg.Trading.Watchlist, cfg.Trading.Portfolio)
	if *symbolsFlag != "" {
		symbols = pipeline.Union(strings.Split(*symbolsFlag, ","))
	}
	if len(symbols) == 0 || *days <= 0 {
		log.Fatal("Nothing to backfill", "symbols", symbols, "days", *days)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, symbols, *days, log); err != nil {
		log.Fatal("Backfill failed", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, symbols []string, days int, log *logger.Logger) error {
	ch, err := chclient.NewClient(ctx, cfg.ClickHouse)
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := chrepo.EnsureSchema(ctx, ch.Conn()); err != nil {
		return err
	}

	store := marketdatasvc.NewService(chrepo.NewMarketDataRepository(ch.Conn()), log)
	limiter := ratelimit.New("backfill:"+yahoo.SourceName, ratelimit.PerHour(cfg.RateLimits.YahooPerHour), nil)
	client := yahoo.NewClient(cfg.MarketData.YahooBaseURL, marketdata.NewHTTPClient(30*time.Second).WithLimiter(limiter))

	log.Info("Starting backfill", "symbols", symbols, "days", days)

	errs := &errors.MultiError{}
	total := 0
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return err
		}

		bars, err := client.DailyBars(ctx, symbol, days)
		if err != nil {
			log.Warn("Fetch failed", "symbol", symbol, "error", err)
			errs.Add(errors.Wrap(err, symbol))
			continue
		}
		if err := store.StoreBars(ctx, bars); err != nil {
			errs.Add(errors.Wrap(err, symbol))
			continue
		}
		total += len(bars)
		log.Info("Backfilled", "symbol", symbol, "bars", len(bars))
	}

	log.Info("Backfill complete", "symbols", len(symbols), "bars", total, "failed", len(errs.Errors))
	return errs.ToError()
}
