package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/enhance-backend/internal/catalog"
)

func defaultModel(t *testing.T) FailstackModel {
	t.Helper()
	cat, err := catalog.LoadDefault()
	require.NoError(t, err)
	sheet := PriceSheet{}
	for _, id := range cat.ItemIDs() {
		p, _ := cat.DefaultPrice(catalog.RegionEU, id)
		sheet[id] = p
	}
	return NewFailstackModel(cat, sheet)
}

func lineSum(p FailstackPlan) float64 {
	var s float64
	for _, l := range p.Lines {
		s += l.Subtotal
	}
	return s
}

func TestBuildCostZero(t *testing.T) {
	m := defaultModel(t)
	p := m.BuildCost(0)
	assert.Zero(t, p.Total)
	assert.Empty(t, p.Lines)
	assert.Zero(t, m.BuildCost(-4).Total)
}

func TestBuildCostFreeOnly(t *testing.T) {
	p := defaultModel(t).BuildCost(3)
	require.Len(t, p.Lines, 1)
	assert.Equal(t, SourceFree, p.Lines[0].Source)
	assert.Equal(t, 3, p.Lines[0].Quantity)
	assert.Zero(t, p.Total)
	assert.Equal(t, 3, p.Reached)
}

func TestBuildCostPremium(t *testing.T) {
	m := defaultModel(t)
	assert.InDelta(t, 7*150000.0, m.BuildCost(12).Total, 1e-6)
	assert.InDelta(t, 20*150000.0, m.BuildCost(25).Total, 1e-6)
}

func requirePositiveLines(t *testing.T, p FailstackPlan) {
	t.Helper()
	for _, l := range p.Lines {
		require.Positive(t, l.Quantity, "target %d line %+v", p.Target, l)
		require.GreaterOrEqual(t, l.Subtotal, 0.0, "target %d line %+v", p.Target, l)
	}
	require.InDelta(t, p.Total, lineSum(p), 1e-6, "target %d", p.Target)
}

func TestBuildCostTieredInterpolation(t *testing.T) {
	m := defaultModel(t)

	// origin to (10, 15): 5 * 15 / 10 = 7.5, rounded up
	assert.Equal(t, 8, interpolate(m.tiers.Tiered[0].Checkpoints, 5, true))
	assert.Equal(t, 30, interpolate(m.tiers.Tiered[0].Checkpoints, 15, true))
	assert.Equal(t, 70, interpolate(m.tiers.Tiered[0].Checkpoints, 25, true))

	// 25 -> 30 is 5 points at 5 black stones per point
	p := m.BuildCost(30)
	assert.InDelta(t, 3_000_000+25*180_000.0, p.Total, 1e-6)
	requirePositiveLines(t, p)

	// 25 -> 26 is one point of the same interval
	tiered := m.BuildCost(26).Lines[2]
	assert.Equal(t, SourceTiered, tiered.Source)
	assert.Equal(t, 5, tiered.Quantity)
}

func TestBuildCostGapBridge(t *testing.T) {
	m := defaultModel(t)
	p := m.BuildCost(35)
	assert.InDelta(t, 3_000_000+25*180_000.0+4*2_500_000.0, p.Total, 1e-6)
	requirePositiveLines(t, p)

	gap := p.Lines[len(p.Lines)-1]
	assert.Equal(t, SourceGap, gap.Source)
	assert.Equal(t, catalog.ItemID(4987), gap.Item)
	assert.Equal(t, 4, gap.Quantity)
	assert.Equal(t, 30, gap.FromFS)
	assert.Equal(t, 35, gap.ToFS)
}

func TestBuildCostSecondItemBoughtFromItsTable(t *testing.T) {
	m := defaultModel(t)
	cases := []struct {
		target int
		units  int
	}{
		{40, 12},
		{45, 16}, // 12 + 8 * 5 / 10
		{60, 30},
		{100, 90},
	}
	for _, tc := range cases {
		p := m.BuildCost(tc.target)
		requirePositiveLines(t, p)
		require.Len(t, p.Lines, 3, "target %d", tc.target)
		l := p.Lines[2]
		assert.Equal(t, catalog.ItemID(4987), l.Item)
		assert.Equal(t, tc.units, l.Quantity, "target %d", tc.target)
		assert.Equal(t, 25, l.FromFS)
		assert.InDelta(t, 3_000_000+float64(tc.units)*2_500_000, p.Total, 1e-6, "target %d", tc.target)
		assert.Equal(t, tc.target, p.Reached)
	}
}

func TestBuildCostBulk(t *testing.T) {
	p := defaultModel(t).BuildCost(110)
	last := p.Lines[len(p.Lines)-1]
	assert.Equal(t, SourceBulk, last.Source)
	assert.Equal(t, 1, last.Quantity)
	assert.Equal(t, 112, p.Reached)
	assert.InDelta(t, 3_000_000+90*2_500_000.0+30_000_000.0, p.Total, 1e-6)
	requirePositiveLines(t, p)
}

func TestBuildCostCeiling(t *testing.T) {
	p := defaultModel(t).BuildCost(1000)
	assert.Equal(t, 299, p.Reached)
	assert.Equal(t, 299, p.Target)
}

func TestBuildCostNonDecreasing(t *testing.T) {
	m := defaultModel(t)
	prev := 0.0
	for fs := 0; fs <= 299; fs++ {
		p := m.BuildCost(fs)
		require.GreaterOrEqual(t, p.Total, prev, "fs %d", fs)
		require.GreaterOrEqual(t, p.Reached, fs, "fs %d", fs)
		requirePositiveLines(t, p)
		prev = p.Total
	}
}

func TestBuildCostPrefersCheaperHigherStack(t *testing.T) {
	m := FailstackModel{
		tiers: catalog.FailstackTiers{
			MaxTiered: 40,
			Tiered: []catalog.TierItem{
				{Item: 1, Checkpoints: []catalog.Checkpoint{{FS: 20, Qty: 100}}},
				{Item: 2, Checkpoints: []catalog.Checkpoint{{FS: 21, Qty: 1}, {FS: 40, Qty: 2}}},
			},
		},
		sheet: PriceSheet{1: 10, 2: 10},
	}
	// one unit of the second item reaches 21 for less than the first item reaches 20
	p := m.BuildCost(20)
	assert.Equal(t, 21, p.Reached)
	assert.InDelta(t, 10.0, p.Total, 1e-9)
	require.Len(t, p.Lines, 1)
	assert.Equal(t, catalog.ItemID(2), p.Lines[0].Item)

	prev := 0.0
	for fs := 0; fs <= 40; fs++ {
		p := m.BuildCost(fs)
		require.GreaterOrEqual(t, p.Total, prev, "fs %d", fs)
		require.GreaterOrEqual(t, p.Reached, fs, "fs %d", fs)
		requirePositiveLines(t, p)
		prev = p.Total
	}
}

func TestInterpolate(t *testing.T) {
	cps := []catalog.Checkpoint{{FS: 40, Qty: 12}, {FS: 50, Qty: 20}}
	assert.Equal(t, 12, interpolate(cps, 40, false))
	assert.Equal(t, 12, interpolate(cps, 30, false))
	assert.Equal(t, 16, interpolate(cps, 44, false)) // 12 + ceil(3.2)
	assert.Equal(t, 28, interpolate(cps, 60, false)) // slope extended
	assert.Equal(t, 0, interpolate(nil, 10, false))
}
