// Package pricing turns catalog quantities into silver: per-attempt cost,
// repair batching and the failstack build-cost model.
package pricing

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/xtding233/enhance-backend/internal/catalog"
)

// collectLimit caps concurrent price lookups in Collect.
const collectLimit = 8

// PriceLookup resolves the unit price of an item. Implementations never fail:
// an unavailable price comes back as a fallback or 0.
type PriceLookup interface {
	Price(ctx context.Context, region catalog.Region, id catalog.ItemID) int64
}

// PriceSheet is a snapshot of unit prices taken before a computation.
type PriceSheet map[catalog.ItemID]int64

// Price returns the unit price of id, 0 if absent.
func (s PriceSheet) Price(id catalog.ItemID) int64 { return s[id] }

// Collect looks up every distinct id concurrently and returns the sheet.
// Only context cancellation can fail it.
func Collect(ctx context.Context, lookup PriceLookup, region catalog.Region, ids []catalog.ItemID) (PriceSheet, error) {
	sheet := make(PriceSheet, len(ids))
	if len(ids) == 0 {
		return sheet, nil
	}

	seen := make(map[catalog.ItemID]struct{}, len(ids))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(collectLimit)
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := lookup.Price(gctx, region, id)
			mu.Lock()
			sheet[id] = p
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sheet, nil
}

// DefaultPrices serves the catalog's configured fallback prices. It backs
// offline runs and tests.
type DefaultPrices struct {
	Catalog *catalog.Catalog
}

func (d DefaultPrices) Price(_ context.Context, region catalog.Region, id catalog.ItemID) int64 {
	if d.Catalog == nil {
		return 0
	}
	p, _ := d.Catalog.DefaultPrice(region, id)
	return p
}
