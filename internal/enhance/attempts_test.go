package enhance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/enhance-backend/internal/catalog"
)

func TestExpectedAttemptsFixed(t *testing.T) {
	assert.InDelta(t, 4.0, ExpectedAttempts(25, 0, false, true), 1e-9)
	assert.InDelta(t, 4.0, ExpectedAttempts(25, 200, true, true), 1e-9, "fixed ignores failstack and feedback")
	assert.Equal(t, float64(PityHorizon), ExpectedAttempts(0, 0, false, true))
}

func TestExpectedAttemptsUnprotected(t *testing.T) {
	assert.InDelta(t, 100/16.3, ExpectedAttempts(16.3, 0, false, false), 1e-9)
	assert.InDelta(t, 100/90.0, ExpectedAttempts(16.3, 100, false, false), 1e-9)
}

func TestExpectedAttemptsFeedbackIsLenient(t *testing.T) {
	fb := ExpectedAttempts(16.3, 0, true, false)
	assert.Less(t, fb, 100/16.3)
	assert.GreaterOrEqual(t, fb, 1.0)
}

func TestExpectedAttemptsCurveConstant(t *testing.T) {
	assert.InDelta(t, 2.0, ExpectedAttemptsCurve(func(int) float64 { return 50 }, 0), 1e-9)
	assert.InDelta(t, 1.0, ExpectedAttemptsCurve(func(int) float64 { return 100 }, 0), 1e-9)
}

func TestExpectedAttemptsRangeAndMonotone(t *testing.T) {
	bases := []float64{0.0025, 0.17, 2, 16.3, 50, 90}
	for _, base := range bases {
		prev := 0.0
		for i, fs := range []int{300, 100, 10, 0} {
			e := ExpectedAttempts(base, fs, true, false)
			require.GreaterOrEqual(t, e, 1.0, "base %v fs %d", base, fs)
			require.LessOrEqual(t, e, 100/Chance(linear(base), fs)+1e-9, "base %v fs %d", base, fs)
			if i > 0 {
				require.GreaterOrEqual(t, e, prev, "lower failstack must not need fewer attempts")
			}
			prev = e
		}
	}
}

func TestExpectedAttemptsForPolicies(t *testing.T) {
	cat, err := catalog.LoadDefault()
	require.NoError(t, err)

	fga, _ := cat.Family("fallen_gods_armor")
	c, _ := fga.CurveFor("BASE")
	assert.InDelta(t, 50.0, ExpectedAttemptsFor(c, 76, true), 1e-9)

	pw, _ := cat.Family("kharazad_enchant")
	c, _ = pw.CurveFor("BASE")
	protected := ExpectedAttemptsFor(c, 0, true)
	unprotected := ExpectedAttemptsFor(c, 0, false)
	assert.InDelta(t, 100/16.3, unprotected, 1e-9)
	assert.Less(t, protected, unprotected)

	kh, _ := cat.Family("kharazad")
	c, _ = kh.CurveFor("BASE")
	assert.InDelta(t, ExpectedAttempts(16.3, 38, true, false), ExpectedAttemptsFor(c, 38, true), 1e-12)
}
