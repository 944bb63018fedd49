package cascade

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xtding233/enhance-backend/internal/apperr"
	"github.com/xtding233/enhance-backend/internal/catalog"
	"github.com/xtding233/enhance-backend/internal/enhance"
	"github.com/xtding233/enhance-backend/internal/logging"
	"github.com/xtding233/enhance-backend/internal/metrics"
	"github.com/xtding233/enhance-backend/internal/pricing"
)

// Calculator binds the engine to a catalog source and a price lookup.
// It is safe for concurrent use.
type Calculator struct {
	catalogs catalog.Source
	prices   pricing.PriceLookup
	log      *zap.Logger
}

func NewCalculator(src catalog.Source, prices pricing.PriceLookup, log *zap.Logger) *Calculator {
	return &Calculator{catalogs: src, prices: prices, log: logging.OrNop(log)}
}

// Catalog returns the catalog new computations will use.
func (c *Calculator) Catalog() *catalog.Catalog { return c.catalogs.Current() }

// Compute validates req, collects every needed price, then evaluates.
// Invalid requests fail before any lookup.
func (c *Calculator) Compute(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	cat := c.catalogs.Current()

	p, err := resolve(cat, req)
	if err != nil {
		metrics.CascadesTotal.WithLabelValues(req.Family, "rejected").Inc()
		c.log.Debug("cascade rejected", zap.String("family", req.Family), zap.Error(err))
		return Result{}, err
	}
	sheet, err := pricing.Collect(ctx, c.prices, p.region, p.itemIDs(cat))
	if err != nil {
		metrics.CascadesTotal.WithLabelValues(req.Family, "error").Inc()
		return Result{}, fmt.Errorf("collect prices: %w", err)
	}
	res := evaluate(cat, p, sheet)

	elapsed := time.Since(start)
	metrics.CascadesTotal.WithLabelValues(req.Family, "ok").Inc()
	metrics.CascadeDurationSeconds.Observe(elapsed.Seconds())
	c.log.Debug("cascade computed",
		zap.String("family", res.Family),
		zap.String("start", string(res.Start)),
		zap.String("target", string(res.Target)),
		zap.Float64("total_cost", res.TotalCost),
		zap.Duration("elapsed", elapsed),
	)
	return res, nil
}

// SimRequest asks for a stochastic run at one level.
type SimRequest struct {
	Family string        `json:"family"`
	Level  catalog.Level `json:"level"`
	// StartingFS defaults to the level's recommended failstack.
	StartingFS *int           `json:"starting_fs,omitempty"`
	Attempts   int            `json:"attempts"`
	Seed       *uint64        `json:"seed,omitempty"`
	Region     catalog.Region `json:"region,omitempty"`

	Protected       bool                   `json:"protected,omitempty"`
	ProtectionKind  catalog.ProtectionKind `json:"protection_kind,omitempty"`
	IncludeRepair   bool                   `json:"include_repair,omitempty"`
	EfficientRepair bool                   `json:"efficient_repair,omitempty"`
}

// Simulate rolls req.Attempts attempts with per-attempt costs from the
// current prices. A nil Seed uses the crypto generator.
func (c *Calculator) Simulate(ctx context.Context, req SimRequest) (enhance.SimulationLog, error) {
	cat := c.catalogs.Current()
	if cat == nil {
		return enhance.SimulationLog{}, apperr.New(apperr.CodeConfigurationMissing, "catalog not loaded")
	}
	fam, ok := cat.Family(req.Family)
	if !ok {
		return enhance.SimulationLog{}, apperr.WithMetadata(apperr.CodeConfigurationMissing,
			fmt.Sprintf("unknown family %q", req.Family), map[string]string{"family": req.Family})
	}
	idx, ok := fam.Index(req.Level)
	if !ok || req.Level == fam.Terminal() {
		return enhance.SimulationLog{}, apperr.WithMetadata(apperr.CodeInvalidLadder,
			fmt.Sprintf("%s: level %q cannot be enhanced", req.Family, req.Level),
			map[string]string{"family": req.Family, "level": string(req.Level)})
	}
	if req.Attempts <= 0 || req.Attempts > enhance.MaxSimAttempts {
		return enhance.SimulationLog{}, invalidArg(enhance.ErrSimAttempts.Error(), map[string]string{"attempts": fmt.Sprint(req.Attempts)})
	}
	switch req.ProtectionKind {
	case "", catalog.ProtectionStandard, catalog.ProtectionPremium:
	default:
		return enhance.SimulationLog{}, invalidArg(fmt.Sprintf("unknown protection kind %q", req.ProtectionKind), nil)
	}
	region, err := resolveRegion(req.Region)
	if err != nil {
		return enhance.SimulationLog{}, err
	}

	model := enhance.Model{Catalog: cat}
	fs := model.RecommendedFS(req.Family, req.Level)
	if req.StartingFS != nil {
		if *req.StartingFS < 0 {
			return enhance.SimulationLog{}, invalidArg(fmt.Sprintf("negative failstack %d", *req.StartingFS), nil)
		}
		fs = *req.StartingFS
	}

	opts := pricing.AttemptOptions{ProtectionKind: req.ProtectionKind, IncludeRepair: req.IncludeRepair, EfficientRepair: req.EfficientRepair}
	var ids []catalog.ItemID
	if r, ok := fam.Requirement(req.Level); ok {
		for _, m := range r.Materials {
			ids = append(ids, m.Item)
		}
	}
	if req.IncludeRepair && cat.RepairItem() != 0 {
		ids = append(ids, cat.RepairItem())
	}
	sheet, err := pricing.Collect(ctx, c.prices, region, ids)
	if err != nil {
		return enhance.SimulationLog{}, fmt.Errorf("collect prices: %w", err)
	}

	curve, _ := fam.CurveFor(req.Level)
	rng := enhance.DefaultRNG()
	if req.Seed != nil {
		rng = enhance.NewSeededRNG(*req.Seed)
	}
	out, err := enhance.Simulate(enhance.SimParams{
		Curve:        curve,
		StartingFS:   fs,
		Attempts:     req.Attempts,
		Protected:    req.Protected,
		Downgradable: idx > 0,
		Price:        pricing.AttemptCost(cat, fam, req.Level, sheet, opts).Price(),
	}, rng)
	if err != nil {
		return enhance.SimulationLog{}, err
	}
	metrics.SimulatedAttemptsTotal.WithLabelValues(string(enhance.Success)).Add(float64(out.Successes))
	metrics.SimulatedAttemptsTotal.WithLabelValues(string(enhance.Fail)).Add(float64(out.Failures))
	return out, nil
}

// FailstackCost prices building a fresh stack to target.
func (c *Calculator) FailstackCost(ctx context.Context, region catalog.Region, target int) (pricing.FailstackPlan, error) {
	cat := c.catalogs.Current()
	if cat == nil {
		return pricing.FailstackPlan{}, apperr.New(apperr.CodeConfigurationMissing, "catalog not loaded")
	}
	if target < 0 {
		return pricing.FailstackPlan{}, invalidArg(fmt.Sprintf("negative failstack %d", target), nil)
	}
	r, err := resolveRegion(region)
	if err != nil {
		return pricing.FailstackPlan{}, err
	}
	sheet, err := pricing.Collect(ctx, c.prices, r, failstackItems(cat))
	if err != nil {
		return pricing.FailstackPlan{}, fmt.Errorf("collect prices: %w", err)
	}
	return pricing.NewFailstackModel(cat, sheet).BuildCost(target), nil
}

// ChanceQuote describes one (family, level, failstack) point.
type ChanceQuote struct {
	Family              string        `json:"family"`
	Level               catalog.Level `json:"level"`
	Failstack           int           `json:"failstack"`
	Chance              float64       `json:"chance"`
	MaxChance           float64       `json:"max_chance"`
	RecommendedFS       int           `json:"recommended_fs"`
	AttemptsProtected   float64       `json:"attempts_protected"`
	AttemptsUnprotected float64       `json:"attempts_unprotected"`
	UsedDefault         bool          `json:"used_default,omitempty"`
}

// Chance quotes the success chance. Unknown families and levels fall back
// to the default curve instead of failing.
func (c *Calculator) Chance(family string, level catalog.Level, fs int) (ChanceQuote, error) {
	if fs < 0 {
		return ChanceQuote{}, invalidArg(fmt.Sprintf("negative failstack %d", fs), nil)
	}
	model := enhance.Model{Catalog: c.catalogs.Current()}
	curve, ok := model.Curve(family, level)
	return ChanceQuote{
		Family:              family,
		Level:               level,
		Failstack:           fs,
		Chance:              enhance.Chance(curve, fs),
		MaxChance:           enhance.MaxChance(curve),
		RecommendedFS:       model.RecommendedFS(family, level),
		AttemptsProtected:   enhance.ExpectedAttemptsFor(curve, fs, true),
		AttemptsUnprotected: enhance.ExpectedAttemptsFor(curve, fs, false),
		UsedDefault:         !ok,
	}, nil
}
