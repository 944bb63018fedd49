// Package cli implements the enhance command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xtding233/enhance-backend/internal/cascade"
	"github.com/xtding233/enhance-backend/internal/catalog"
	"github.com/xtding233/enhance-backend/internal/config"
	"github.com/xtding233/enhance-backend/internal/enhance"
	"github.com/xtding233/enhance-backend/internal/logging"
	"github.com/xtding233/enhance-backend/internal/market"
	"github.com/xtding233/enhance-backend/internal/pricing"
	"github.com/xtding233/enhance-backend/internal/transport/grpcapi"
)

// backend is what the pricing commands need, served locally or over gRPC.
type backend interface {
	Cascade(ctx context.Context, req cascade.Request) (cascade.Result, error)
	Simulate(ctx context.Context, req cascade.SimRequest) (enhance.SimulationLog, error)
	FailstackCost(ctx context.Context, region catalog.Region, target int) (pricing.FailstackPlan, error)
}

type localBackend struct{ *cascade.Calculator }

func (l localBackend) Cascade(ctx context.Context, req cascade.Request) (cascade.Result, error) {
	return l.Compute(ctx, req)
}

type app struct {
	cfg    config.Config
	cfgErr error

	catalogDir  string
	region      string
	priceSource string
	remote      string
	output      string
	logLevel    string

	log    *zap.Logger
	lookup *market.Lookup
	calc   *cascade.Calculator
	closer io.Closer

	stdout io.Writer
	stderr io.Writer
}

func NewRootCommand() *cobra.Command {
	return newRootCommand(os.Stdout, os.Stderr)
}

func NewRootCommandWithIO(out, errOut io.Writer) *cobra.Command {
	return newRootCommand(out, errOut)
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	cfg, cfgErr := config.Load()
	a := &app{cfg: cfg, cfgErr: cfgErr, stdout: out, stderr: errOut}

	cmd := &cobra.Command{
		Use:           "enhance",
		Short:         "Enhancement economics calculator",
		Long:          "enhance prices enhancement attempts and multi-level cascades from success curves, failstacks and market prices.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.PersistentFlags().StringVar(&a.catalogDir, "catalog-dir", "", "directory with catalog.yaml and families/*.yaml overrides")
	cmd.PersistentFlags().StringVar(&a.region, "region", "", "market region (EU or NA)")
	cmd.PersistentFlags().StringVar(&a.priceSource, "price-source", "offline", "price source: trade, snapshot or offline")
	cmd.PersistentFlags().StringVar(&a.remote, "remote", "", "gRPC address of an enhance server; cascade, simulate and failstack run there")
	cmd.PersistentFlags().StringVarP(&a.output, "output", "o", "text", "output format: text or json")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level")

	cmd.AddCommand(
		newChanceCmd(a),
		newAttemptsCmd(a),
		newFamiliesCmd(a),
		newCascadeCmd(a),
		newSimulateCmd(a),
		newFailstackCmd(a),
		newPricesCmd(a),
	)
	return cmd
}

func (a *app) setup() error {
	if a.cfgErr != nil {
		return a.cfgErr
	}
	switch a.output {
	case "text", "json":
	default:
		return fmt.Errorf("unknown output format %q", a.output)
	}
	if a.catalogDir == "" {
		if st, err := os.Stat(a.cfg.CatalogDir); err == nil && st.IsDir() {
			a.catalogDir = a.cfg.CatalogDir
		}
	}
	if a.region == "" {
		a.region = a.cfg.Region
	}

	log, err := logging.New(a.logLevel)
	if err != nil {
		return err
	}
	a.log = log

	store, err := catalog.NewStore(catalog.NewLoader(a.catalogDir), log)
	if err != nil {
		return err
	}
	src, err := market.NewSource(a.priceSource, a.cfg.PriceURL, a.cfg.MarketRPS, a.cfg.PriceTTL)
	if err != nil {
		return err
	}
	a.lookup = market.NewLookup(src, store, a.cfg.PriceTTL, log)
	a.calc = cascade.NewCalculator(store, a.lookup, log)
	return nil
}

func (a *app) teardown() error {
	if a.closer != nil {
		if err := a.closer.Close(); err != nil {
			return err
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return nil
}

// backend dials the remote server when --remote is set.
func (a *app) backend() (backend, error) {
	if a.remote == "" {
		return localBackend{a.calc}, nil
	}
	c, err := grpcapi.Dial(a.remote)
	if err != nil {
		return nil, err
	}
	a.closer = c
	return c, nil
}
