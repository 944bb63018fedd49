package market

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/xtding233/enhance-backend/internal/apperr"
	"github.com/xtding233/enhance-backend/internal/catalog"
	"github.com/xtding233/enhance-backend/internal/logging"
	"github.com/xtding233/enhance-backend/internal/metrics"
)

// DefaultTTL is how long a fetched price is served without refetching.
const DefaultTTL = 30 * time.Minute

// Lookup resolves prices in order: fresh cache, live source, last known
// price, catalog default, 0. It never returns an error and is safe for
// concurrent use.
type Lookup struct {
	src      Source
	catalogs catalog.Source
	fresh    *gocache.Cache
	known    *gocache.Cache
	log      *zap.Logger
}

// NewLookup builds a lookup. A nil src serves catalog defaults only.
func NewLookup(src Source, catalogs catalog.Source, ttl time.Duration, log *zap.Logger) *Lookup {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Lookup{
		src:      src,
		catalogs: catalogs,
		fresh:    gocache.New(ttl, 2*ttl),
		known:    gocache.New(gocache.NoExpiration, 0),
		log:      logging.OrNop(log),
	}
}

func cacheKey(region catalog.Region, id catalog.ItemID) string {
	return fmt.Sprintf("%s:%d", region, id)
}

// Price implements pricing.PriceLookup.
func (l *Lookup) Price(ctx context.Context, region catalog.Region, id catalog.ItemID) int64 {
	key := cacheKey(region, id)
	if v, ok := l.fresh.Get(key); ok {
		l.count(region, "cache")
		return v.(int64)
	}

	if l.src != nil {
		start := time.Now()
		p, err := l.src.Fetch(ctx, region, id)
		metrics.MarketFetchDurationSeconds.WithLabelValues(l.src.Name()).Observe(time.Since(start).Seconds())
		if err == nil && p > 0 {
			l.fresh.SetDefault(key, p)
			l.known.SetDefault(key, p)
			l.count(region, "market")
			return p
		}
		l.log.Warn("price unavailable",
			zap.String("code", string(apperr.CodePriceUnavailable)),
			zap.String("source", l.src.Name()),
			zap.String("region", string(region)),
			zap.Int64("item", int64(id)),
			zap.Error(err),
		)
	}

	if v, ok := l.known.Get(key); ok {
		l.count(region, "stale")
		return v.(int64)
	}
	if l.catalogs != nil {
		if cat := l.catalogs.Current(); cat != nil {
			if p, ok := cat.DefaultPrice(region, id); ok {
				l.count(region, "default")
				return p
			}
		}
	}
	l.count(region, "missing")
	return 0
}

// Forget drops the fresh entry so the next lookup refetches. The last known
// price is kept as a fallback.
func (l *Lookup) Forget(region catalog.Region, id catalog.ItemID) {
	l.fresh.Delete(cacheKey(region, id))
}

func (l *Lookup) count(region catalog.Region, source string) {
	metrics.PriceLookupsTotal.WithLabelValues(string(region), source).Inc()
}
