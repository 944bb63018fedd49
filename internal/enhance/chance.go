// Package enhance models single enhancement attempts: success chance as a
// function of failstack, expected attempt counts, and stochastic runs.
package enhance

import (
	"github.com/xtding233/enhance-backend/internal/catalog"
)

const (
	// LinearCap is the ceiling of the capped-linear policy, in percent.
	LinearCap = 90.0
	// MinChance keeps every chance strictly positive so 100/chance stays finite.
	MinChance = 0.0001
)

// Chance returns the success percentage of curve at failstack fs, in (0, cap].
func Chance(c catalog.Curve, fs int) float64 {
	if fs < 0 {
		fs = 0
	}
	var p float64
	switch c.Policy {
	case catalog.PolicyFixed:
		p = c.Base
	case catalog.PolicyPiecewise:
		p = piecewise(c, fs)
	default:
		p = cappedLinear(c.Base, fs, LinearCap)
	}
	if p < MinChance {
		p = MinChance
	}
	return p
}

// cappedLinear is base + fs*base/10, clamped to limit.
func cappedLinear(base float64, fs int, limit float64) float64 {
	p := base + float64(fs)*base/10
	if p > limit {
		p = limit
	}
	return p
}

// piecewise interpolates base → softcap → hardcap and clamps past the hardcap.
func piecewise(c catalog.Curve, fs int) float64 {
	soft, hard := c.Softcap, c.Hardcap
	if fs >= hard.FS && hard.FS > soft.FS {
		return hard.Chance
	}
	if fs <= soft.FS {
		if soft.FS <= 0 {
			return soft.Chance
		}
		t := float64(fs) / float64(soft.FS)
		return c.Base + t*(soft.Chance-c.Base)
	}
	width := hard.FS - soft.FS
	if width <= 0 {
		return hard.Chance
	}
	t := float64(fs-soft.FS) / float64(width)
	p := soft.Chance + t*(hard.Chance-soft.Chance)
	if p > hard.Chance {
		p = hard.Chance
	}
	return p
}

// MaxChance is the best chance the curve can ever reach.
func MaxChance(c catalog.Curve) float64 {
	switch c.Policy {
	case catalog.PolicyFixed:
		return c.Base
	case catalog.PolicyPiecewise:
		return c.Hardcap.Chance
	default:
		return LinearCap
	}
}

// Model answers chance queries against a catalog.
type Model struct {
	Catalog *catalog.Catalog
}

// Chance returns the success percentage for (family, level, fs). Unknown
// families or levels use catalog.DefaultCurve; usedDefault reports it.
func (m Model) Chance(family string, level catalog.Level, fs int) (chance float64, usedDefault bool) {
	curve, ok := m.Curve(family, level)
	return Chance(curve, fs), !ok
}

// Curve resolves the chance curve with the same fallback as Chance.
func (m Model) Curve(family string, level catalog.Level) (catalog.Curve, bool) {
	if m.Catalog == nil {
		return catalog.DefaultCurve, false
	}
	f, ok := m.Catalog.Family(family)
	if !ok {
		return catalog.DefaultCurve, false
	}
	return f.CurveFor(level)
}

// RecommendedFS returns the level's recommended failstack. Levels without
// data get the default pair's value; levels with data but no
// recommendation get 0.
func (m Model) RecommendedFS(family string, level catalog.Level) int {
	if m.Catalog == nil {
		return catalog.DefaultRecommendedFS
	}
	f, ok := m.Catalog.Family(family)
	if !ok {
		return catalog.DefaultRecommendedFS
	}
	r, ok := f.Requirement(level)
	if !ok {
		return catalog.DefaultRecommendedFS
	}
	return r.RecommendedFS
}
