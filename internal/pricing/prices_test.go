package pricing

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/enhance-backend/internal/catalog"
)

type countingLookup struct {
	calls atomic.Int64
}

func (c *countingLookup) Price(_ context.Context, _ catalog.Region, id catalog.ItemID) int64 {
	c.calls.Add(1)
	return int64(id) * 10
}

func TestCollectDedupes(t *testing.T) {
	lookup := &countingLookup{}
	ids := []catalog.ItemID{1, 2, 2, 3, 1, 3, 3}
	sheet, err := Collect(context.Background(), lookup, catalog.RegionEU, ids)
	require.NoError(t, err)
	assert.Equal(t, int64(3), lookup.calls.Load())
	assert.Equal(t, PriceSheet{1: 10, 2: 20, 3: 30}, sheet)
	assert.Zero(t, sheet.Price(99))
}

func TestCollectCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Collect(ctx, &countingLookup{}, catalog.RegionEU, []catalog.ItemID{1, 2})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultPrices(t *testing.T) {
	cat, err := catalog.LoadDefault()
	require.NoError(t, err)
	d := DefaultPrices{Catalog: cat}
	assert.Equal(t, int64(180000), d.Price(context.Background(), catalog.RegionNA, 16001))
	assert.Zero(t, d.Price(context.Background(), catalog.RegionNA, 1))
	assert.Zero(t, DefaultPrices{}.Price(context.Background(), catalog.RegionNA, 16001))
}
