package enhance

import (
	"errors"

	"github.com/xtding233/enhance-backend/internal/catalog"
)

// MaxSimAttempts bounds a single simulated run.
const MaxSimAttempts = 1_000_000

var ErrSimAttempts = errors.New("attempt count must be in 1..1000000")

// AttemptPrice is the silver spent on one attempt, split by component.
type AttemptPrice struct {
	Materials  float64
	Protection float64
	Repair     float64 // charged on failures only
}

// SimParams describes one simulated run at a single level.
type SimParams struct {
	Curve        catalog.Curve
	StartingFS   int
	Attempts     int
	Protected    bool // failures add one failstack and never downgrade
	Downgradable bool // the level is above the ladder's first rung
	Price        AttemptPrice
}

// AttemptRecord is one line of the simulation log.
type AttemptRecord struct {
	Attempt    int     `json:"attempt"`
	Failstack  int     `json:"failstack"`
	Chance     float64 `json:"chance"`
	Outcome    Outcome `json:"outcome"`
	Downgraded bool    `json:"downgraded,omitempty"`
	Cost       float64 `json:"cost"`
}

// SimCosts totals a run by component.
type SimCosts struct {
	Materials  float64 `json:"materials"`
	Protection float64 `json:"protection"`
	Repair     float64 `json:"repair"`
	Total      float64 `json:"total"`
}

// SimulationLog is the result of Simulate.
type SimulationLog struct {
	Log        []AttemptRecord `json:"log"`
	Successes  int             `json:"successes"`
	Failures   int             `json:"failures"`
	Downgrades int             `json:"downgrades"`
	FinalFS    int             `json:"final_failstack"`
	Costs      SimCosts        `json:"costs"`
}

// Simulate rolls p.Attempts attempts at one level. A success resets the
// failstack to the starting value; a protected failure adds one.
func Simulate(p SimParams, rng RandomSource) (SimulationLog, error) {
	if p.Attempts <= 0 || p.Attempts > MaxSimAttempts {
		return SimulationLog{}, ErrSimAttempts
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	start := p.StartingFS
	if start < 0 {
		start = 0
	}

	out := SimulationLog{Log: make([]AttemptRecord, 0, p.Attempts)}
	fs := start
	for i := 0; i < p.Attempts; i++ {
		chance := Chance(p.Curve, fs)
		res, err := Roll(chance, rng)
		if err != nil {
			return SimulationLog{}, err
		}

		cost := p.Price.Materials
		out.Costs.Materials += p.Price.Materials
		if p.Protected {
			cost += p.Price.Protection
			out.Costs.Protection += p.Price.Protection
		}
		rec := AttemptRecord{Attempt: i + 1, Failstack: fs, Chance: chance, Outcome: res}

		if res == Success {
			out.Successes++
			fs = start
		} else {
			out.Failures++
			cost += p.Price.Repair
			out.Costs.Repair += p.Price.Repair
			if p.Protected {
				fs++
			} else if p.Downgradable {
				rec.Downgraded = true
				out.Downgrades++
			}
		}
		rec.Cost = cost
		out.Costs.Total += cost
		out.Log = append(out.Log, rec)
	}
	out.FinalFS = fs
	return out, nil
}
