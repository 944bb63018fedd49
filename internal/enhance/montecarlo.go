package enhance

import (
	"math"
	"sort"

	"github.com/xtding233/enhance-backend/internal/catalog"
)

// TrialParams describes the attempts-until-success experiment.
type TrialParams struct {
	Curve    catalog.Curve
	StartFS  int
	Feedback bool // failures add one failstack
}

// AttemptStats summarizes attempts-until-success over many trials.
type AttemptStats struct {
	Trials int     `json:"trials"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`
	Worst  int     `json:"worst"`
}

// summarize uses Welford's running variance over the samples.
func summarize(samples []int) AttemptStats {
	if len(samples) == 0 {
		return AttemptStats{}
	}
	var mean, m2 float64
	for k, v := range samples {
		x := float64(v)
		d := x - mean
		mean += d / float64(k+1)
		m2 += d * (x - mean)
	}
	sorted := append([]int(nil), samples...)
	sort.Ints(sorted)
	return AttemptStats{
		Trials: len(samples),
		Mean:   mean,
		StdDev: math.Sqrt(m2 / float64(len(samples))),
		P50:    quantile(sorted, 0.50),
		P90:    quantile(sorted, 0.90),
		P99:    quantile(sorted, 0.99),
		Worst:  sorted[len(sorted)-1],
	}
}

// quantile linearly interpolates between closest ranks of sorted.
func quantile(sorted []int, q float64) float64 {
	last := len(sorted) - 1
	switch {
	case q <= 0 || last == 0:
		return float64(sorted[0])
	case q >= 1:
		return float64(sorted[last])
	}
	pos := q * float64(last)
	lo := int(pos)
	if lo >= last {
		return float64(sorted[last])
	}
	frac := pos - float64(lo)
	return float64(sorted[lo]) + frac*float64(sorted[lo+1]-sorted[lo])
}

// attemptsUntilSuccess plays one trial, stopping at the pity horizon like
// the expectation solver does.
func attemptsUntilSuccess(p TrialParams, rng RandomSource) (int, error) {
	fs := p.StartFS
	n := 1
	for ; n <= PityHorizon; n++ {
		res, err := Roll(Chance(p.Curve, fs), rng)
		if err != nil {
			return 0, err
		}
		if res == Success {
			break
		}
		if p.Feedback {
			fs++
		}
	}
	return n, nil
}

// RunMonteCarlo estimates attempts until success from repeated trials.
func RunMonteCarlo(p TrialParams, trials int, rng RandomSource) (AttemptStats, error) {
	if trials <= 0 {
		return AttemptStats{}, nil
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	samples := make([]int, 0, trials)
	for range trials {
		n, err := attemptsUntilSuccess(p, rng)
		if err != nil {
			return AttemptStats{}, err
		}
		samples = append(samples, n)
	}
	return summarize(samples), nil
}
