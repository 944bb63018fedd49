package enhance

import (
	"github.com/xtding233/enhance-backend/internal/catalog"
)

// PityHorizon bounds the backward recurrence: after this many failures the
// next attempt is treated as a guaranteed success.
const PityHorizon = 100000

// ExpectedAttempts returns the expected number of attempts until success.
//
//   - fixed: the chance ignores failstack, so attempts are geometric: 100/base.
//   - feedback: every failure adds one failstack (protection active) and the
//     chance base + fs*base/10 (capped at 100) rises attempt by attempt.
//   - otherwise: 100 / chance(initialFS) with the 90% capped-linear chance.
func ExpectedAttempts(baseChance float64, initialFS int, feedback, fixed bool) float64 {
	if initialFS < 0 {
		initialFS = 0
	}
	if fixed {
		if baseChance <= 0 {
			return PityHorizon
		}
		return 100 / baseChance
	}
	if feedback {
		return ExpectedAttemptsCurve(func(fs int) float64 {
			return cappedLinear(baseChance, fs, 100)
		}, initialFS)
	}
	return 100 / Chance(catalog.Curve{Policy: catalog.PolicyCappedLinear, Base: baseChance}, initialFS)
}

// ExpectedAttemptsCurve solves E[a] = 1 + (1-P(a)) E[a+1] backward from the
// pity horizon, where P(a) = chance(initialFS+a)/100 and E[PityHorizon] = 1.
// chance must be non-decreasing in failstack.
func ExpectedAttemptsCurve(chance func(fs int) float64, initialFS int) float64 {
	if initialFS < 0 {
		initialFS = 0
	}
	next := 1.0 // E[PityHorizon]
	for a := PityHorizon - 1; a >= 0; a-- {
		p := chance(initialFS+a) / 100
		if p >= 1 {
			next = 1
			continue
		}
		if p < 0 {
			p = 0
		}
		next = 1 + (1-p)*next
	}
	return next
}

// ExpectedAttemptsFor picks the solver for a curve: fixed curves are
// geometric, protected attempts get failstack feedback, unprotected ones use
// the plain geometric mean at the starting failstack.
func ExpectedAttemptsFor(c catalog.Curve, initialFS int, protected bool) float64 {
	switch {
	case c.Policy == catalog.PolicyFixed:
		return ExpectedAttempts(c.Base, initialFS, false, true)
	case !protected:
		return 100 / Chance(c, initialFS)
	case c.Policy == catalog.PolicyPiecewise:
		return ExpectedAttemptsCurve(func(fs int) float64 { return Chance(c, fs) }, initialFS)
	default:
		return ExpectedAttempts(c.Base, initialFS, true, false)
	}
}
