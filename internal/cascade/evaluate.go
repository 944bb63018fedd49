package cascade

import (
	"math"

	"github.com/xtding233/enhance-backend/internal/catalog"
	"github.com/xtding233/enhance-backend/internal/enhance"
	"github.com/xtding233/enhance-backend/internal/pricing"
)

// Evaluate prices req against a fixed price sheet. It performs no I/O.
func Evaluate(cat *catalog.Catalog, req Request, sheet pricing.PriceSheet) (Result, error) {
	p, err := resolve(cat, req)
	if err != nil {
		return Result{}, err
	}
	return evaluate(cat, p, sheet), nil
}

// priced is what a finished step contributes to the recovery of later steps.
type priced struct {
	attempts  float64
	attempt   pricing.Attempt
	protected bool
}

func evaluate(cat *catalog.Catalog, p plan, sheet pricing.PriceSheet) Result {
	fam := p.family
	res := Result{
		Family:  fam.Key,
		Start:   fam.Ladder[p.startIdx],
		Target:  fam.Ladder[p.startIdx+p.steps()],
		Region:  p.region,
		Damping: p.damping,
		Steps:   make([]Step, 0, p.steps()),
	}
	attemptOpts := pricing.AttemptOptions{
		ProtectionKind:  p.opts.ProtectionKind,
		IncludeRepair:   p.opts.IncludeRepair,
		EfficientRepair: p.opts.EfficientRepair,
	}
	var fsModel pricing.FailstackModel
	if p.opts.IncludeFailstackBuildCost {
		fsModel = pricing.NewFailstackModel(cat, sheet)
	}

	prev := make([]priced, 0, p.steps())
	running := 0.0
	for i := 0; i < p.steps(); i++ {
		level := fam.Ladder[p.startIdx+i]
		curve, hasData := fam.CurveFor(level)
		fs := p.failstacks[i]
		chance := enhance.Chance(curve, fs)

		explicit := p.opts.Protection.At(i)
		// The first requested rung never drops below the caller's start.
		implicit := !explicit && i == 0 && p.startIdx > 0
		protected := explicit || implicit

		e := enhance.ExpectedAttemptsFor(curve, fs, protected)
		a := pricing.AttemptCost(cat, fam, level, sheet, attemptOpts)

		step := Step{
			From:               level,
			To:                 fam.Ladder[p.startIdx+i+1],
			Failstack:          fs,
			Chance:             chance,
			UsedDefault:        !hasData,
			Attempts:           e,
			RawAttempts:        100 / chance,
			Protected:          protected,
			ImplicitProtection: implicit,
		}
		step.Cost.Materials = a.Materials * e

		if protected {
			step.Cost.Protection = a.Protection * e
			step.Cost.Repair = a.Repair * e
			step.ProtectionStones = float64(a.ProtectionCount) * e
			step.RepairUnits = float64(a.RepairUnits) * e
		} else {
			// the successful attempt loses no durability
			step.Cost.Repair = a.Repair * (e - 1)
			step.RepairUnits = float64(a.RepairUnits) * (e - 1)

			if i > 0 {
				downgrades := (100 - chance) / chance
				for j := i - 1; j >= 0; j-- {
					k := i - j
					m := downgrades * math.Pow(p.damping, float64(k-1))
					pr := prev[j]
					climbs := pr.attempts * m
					charge := pr.attempt.Materials
					if pr.protected {
						charge += pr.attempt.Protection
						step.ProtectionStones += float64(pr.attempt.ProtectionCount) * climbs
					}
					step.Cost.Recovery += charge * climbs
					step.Cost.Repair += pr.attempt.Repair * climbs
					step.RepairUnits += float64(pr.attempt.RepairUnits) * climbs
					step.RecoveryAttempts += climbs
				}
			}
		}

		if p.opts.IncludeFailstackBuildCost {
			fp := fsModel.BuildCost(fs)
			step.Cost.Failstack = fp.Total
			step.Failstacks = &fp
		}

		step.StepTotal = step.Cost.Total()
		running += step.StepTotal
		step.RunningTotal = running

		res.Steps = append(res.Steps, step)
		res.Totals.add(step.Cost)
		res.DirectAttempts += step.Attempts
		res.TotalAttempts += step.Attempts + step.RecoveryAttempts
		res.ProtectionStones += step.ProtectionStones
		res.RepairUnits += step.RepairUnits
		res.UsedDefault = res.UsedDefault || step.UsedDefault

		prev = append(prev, priced{attempts: e, attempt: a, protected: protected})
	}
	res.TotalCost = running
	return res
}
