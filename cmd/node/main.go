package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/meridian-dex/meridian/params"
	"github.com/meridian-dex/meridian/pkg/api"
	"github.com/meridian-dex/meridian/pkg/exchange"
	"github.com/meridian-dex/meridian/pkg/exchange/market"
	"github.com/meridian-dex/meridian/pkg/metrics"
	"github.com/meridian-dex/meridian/pkg/storage"
	"github.com/meridian-dex/meridian/pkg/util"
)

func main() {
	// Load config from .env file and environment variables
	cfg := params.LoadFromEnv("")

	var logger *zap.Logger
	var err error
	if cfg.Node.LogFile != "" {
		logger, err = util.NewLoggerWithFile(cfg.Node.LogFile)
	} else {
		logger, err = util.NewLogger()
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	sugar.Infow("logger_initialized", "log_file", cfg.Node.LogFile)

	// ---- Trading pairs (fixed set at startup) ----
	pairCfgs := cfg.Pairs
	if cfg.Node.PairsFile != "" {
		pairCfgs, err = params.LoadPairsFile(cfg.Node.PairsFile)
		if err != nil {
			sugar.Fatalw("pairs_file", "err", err)
		}
	}
	pairs := market.NewRegistry()
	for _, pc := range pairCfgs {
		p, err := pc.ToPair()
		if err != nil {
			sugar.Fatalw("bad_pair", "symbol", pc.Symbol, "err", err)
		}
		if err := pairs.Register(p); err != nil {
			sugar.Fatalw("register_pair", "symbol", pc.Symbol, "err", err)
		}
		sugar.Infow("pair_registered", "symbol", p.Symbol,
			"makerFeeBps", p.MakerFeeBps, "takerFeeBps", p.TakerFeeBps)
	}

	// ---- Durable store ----
	store, err := storage.NewPebbleStore(cfg.Node.DataDir)
	if err != nil {
		sugar.Fatalw("pebble_open", "path", cfg.Node.DataDir, "err", err)
	}
	defer store.Close()

	// ---- Metrics ----
	reg := prometheus.NewRegistry()
	met := metrics.New(reg)
	metrics.StartServer(cfg.Node.MetricsAddr, reg, logger)
	sugar.Infow("metrics_listening", "addr", cfg.Node.MetricsAddr)

	// ---- Exchange core ----
	ex := exchange.New(pairs,
		exchange.WithStore(store),
		exchange.WithLogger(logger),
		exchange.WithMetrics(met),
	)

	// ---- REST API ----
	srv := api.NewServer(ex, logger)
	errc := make(chan error, 1)
	go func() { errc <- srv.Start(cfg.Node.APIAddr) }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		sugar.Fatalw("api_server", "err", err)
	case sig := <-stop:
		sugar.Infow("shutting_down", "signal", sig.String())
	}
}
