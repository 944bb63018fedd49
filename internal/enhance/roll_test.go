package enhance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollBounds(t *testing.T) {
	got, err := Roll(0, NewSeededRNG(1))
	require.NoError(t, err)
	assert.Equal(t, Fail, got, "zero chance should never succeed")

	got, err = Roll(100, NewSeededRNG(1))
	require.NoError(t, err)
	assert.Equal(t, Success, got, "full chance should always succeed")

	for _, bad := range []float64{-0.1, 100.1, math.NaN(), math.Inf(1)} {
		_, err := Roll(bad, nil)
		assert.ErrorIs(t, err, ErrInvalidChance, "chance %v", bad)
	}
}

func TestRollStatApprox(t *testing.T) {
	const p = 30.0
	const n = 100000
	rng := NewSeededRNG(42)
	hit := 0
	for i := 0; i < n; i++ {
		res, err := Roll(p, rng)
		require.NoError(t, err)
		if res == Success {
			hit++
		}
	}
	// should be around 30%
	freq := float64(hit) / float64(n) * 100
	assert.InDelta(t, p, freq, 1.0)
}
