package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xtding233/enhance-backend/internal/cascade"
	"github.com/xtding233/enhance-backend/internal/catalog"
	"github.com/xtding233/enhance-backend/internal/config"
	"github.com/xtding233/enhance-backend/internal/logging"
	"github.com/xtding233/enhance-backend/internal/market"
	"github.com/xtding233/enhance-backend/internal/pricing"
	"github.com/xtding233/enhance-backend/internal/transport/grpcapi"
	"github.com/xtding233/enhance-backend/internal/transport/httpapi"
)

const (
	prefetchTimeout = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	os.Exit(finish(log, run(cfg, log)))
}

// finish logs the run error and flushes the logger, returning the exit code.
func finish(log *zap.Logger, err error) int {
	code := 0
	if err != nil {
		log.Error("server exited", zap.Error(err))
		code = 1
	}
	_ = log.Sync()
	return code
}

func run(cfg config.Config, log *zap.Logger) error {
	store, err := catalog.NewStore(catalog.NewLoader(cfg.CatalogDir), log)
	if err != nil {
		return err
	}
	if cfg.Watch {
		if st, err := os.Stat(cfg.CatalogDir); err == nil && st.IsDir() {
			fw, err := store.Watch()
			if err != nil {
				log.Warn("catalog watch disabled", zap.Error(err))
			} else {
				defer func() { _ = fw.Stop() }()
			}
		}
	}

	src, err := market.NewSource(cfg.PriceSrc, cfg.PriceURL, cfg.MarketRPS, cfg.PriceTTL)
	if err != nil {
		return err
	}
	lookup := market.NewLookup(src, store, cfg.PriceTTL, log)
	prefetch(lookup, store.Current(), catalog.Region(cfg.Region), log)

	calc := cascade.NewCalculator(store, lookup, log)

	grpcSrv := grpcapi.NewServer(calc, log)
	if err := grpcSrv.Start(cfg.GRPCAddr); err != nil {
		return err
	}
	defer grpcSrv.Stop()

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewHandler(calc, log),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("address", cfg.HTTPAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		log.Info("shutting down", zap.String("signal", s.String()))
	case err := <-errCh:
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(ctx)
}

// prefetch warms the price cache for every catalog item.
func prefetch(lookup pricing.PriceLookup, cat *catalog.Catalog, region catalog.Region, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), prefetchTimeout)
	defer cancel()
	sheet, err := pricing.Collect(ctx, lookup, region, cat.ItemIDs())
	if err != nil {
		log.Warn("price prefetch incomplete", zap.Error(err))
		return
	}
	log.Info("prices prefetched", zap.String("region", string(region)), zap.Int("items", len(sheet)))
}
