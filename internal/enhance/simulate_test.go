package enhance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/enhance-backend/internal/catalog"
)

func fixed(base float64) catalog.Curve {
	return catalog.Curve{Policy: catalog.PolicyFixed, Base: base}
}

func TestSimulateRejectsAttemptCount(t *testing.T) {
	_, err := Simulate(SimParams{Curve: linear(10), Attempts: 0}, nil)
	assert.ErrorIs(t, err, ErrSimAttempts)
	_, err = Simulate(SimParams{Curve: linear(10), Attempts: MaxSimAttempts + 1}, nil)
	assert.ErrorIs(t, err, ErrSimAttempts)
}

func TestSimulateSeededIsReproducible(t *testing.T) {
	p := SimParams{Curve: linear(16.3), StartingFS: 20, Attempts: 500, Protected: true,
		Price: AttemptPrice{Materials: 100, Protection: 10, Repair: 5}}
	a, err := Simulate(p, NewSeededRNG(7))
	require.NoError(t, err)
	b, err := Simulate(p, NewSeededRNG(7))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 500, a.Successes+a.Failures)
	assert.Len(t, a.Log, 500)
}

func TestSimulateAlwaysSucceeds(t *testing.T) {
	p := SimParams{Curve: fixed(100), StartingFS: 12, Attempts: 10, Protected: true,
		Price: AttemptPrice{Materials: 100, Protection: 10, Repair: 5}}
	got, err := Simulate(p, NewSeededRNG(1))
	require.NoError(t, err)
	assert.Equal(t, 10, got.Successes)
	assert.Equal(t, 12, got.FinalFS)
	assert.InDelta(t, 1100.0, got.Costs.Total, 1e-9)
	assert.Zero(t, got.Costs.Repair)
	for _, r := range got.Log {
		assert.Equal(t, 12, r.Failstack)
	}
}

func TestSimulateProtectedFailuresStackUp(t *testing.T) {
	p := SimParams{Curve: fixed(0), StartingFS: 3, Attempts: 10, Protected: true, Downgradable: true,
		Price: AttemptPrice{Materials: 100, Protection: 10, Repair: 5}}
	got, err := Simulate(p, NewSeededRNG(3))
	require.NoError(t, err)
	require.Equal(t, 10, got.Failures)
	assert.Equal(t, 13, got.FinalFS)
	assert.Zero(t, got.Downgrades)
	for i, r := range got.Log {
		assert.Equal(t, 3+i, r.Failstack)
		assert.False(t, r.Downgraded)
		assert.InDelta(t, 115.0, r.Cost, 1e-9)
	}
	assert.InDelta(t, got.Costs.Materials+got.Costs.Protection+got.Costs.Repair, got.Costs.Total, 1e-9)
}

func TestSimulateUnprotectedDowngrades(t *testing.T) {
	p := SimParams{Curve: fixed(0), StartingFS: 3, Attempts: 5, Downgradable: true,
		Price: AttemptPrice{Materials: 100, Protection: 10, Repair: 5}}
	got, err := Simulate(p, NewSeededRNG(3))
	require.NoError(t, err)
	assert.Equal(t, 5, got.Downgrades)
	assert.Equal(t, 3, got.FinalFS)
	assert.Zero(t, got.Costs.Protection)
	assert.InDelta(t, 525.0, got.Costs.Total, 1e-9)
}

func TestMonteCarloMatchesSolver(t *testing.T) {
	cases := []struct {
		name     string
		params   TrialParams
		expected float64
	}{
		{"fixed", TrialParams{Curve: fixed(25)}, 4.0},
		{"feedback", TrialParams{Curve: linear(16.3), Feedback: true}, ExpectedAttempts(16.3, 0, true, false)},
		{"plain", TrialParams{Curve: linear(10), StartFS: 10}, 100 / 20.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st, err := RunMonteCarlo(tc.params, 20000, NewSeededRNG(99))
			require.NoError(t, err)
			assert.InDelta(t, tc.expected, st.Mean, tc.expected*0.05)
			assert.LessOrEqual(t, st.P50, st.P90)
			assert.LessOrEqual(t, st.P90, st.P99)
		})
	}
}

func TestSummarize(t *testing.T) {
	st := summarize([]int{5, 1, 4, 2, 3})
	assert.Equal(t, 5, st.Trials)
	assert.InDelta(t, 3.0, st.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt2, st.StdDev, 1e-9)
	assert.InDelta(t, 3.0, st.P50, 1e-9)
	assert.InDelta(t, 4.6, st.P90, 1e-9)
	assert.Equal(t, 5, st.Worst)
	assert.Equal(t, AttemptStats{}, summarize(nil))
	assert.InDelta(t, 7.0, quantile([]int{7}, 0.9), 1e-9)
}
