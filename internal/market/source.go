// Package market resolves item prices from the in-game trade market, with
// caching and fallbacks so a lookup never fails.
package market

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/xtding233/enhance-backend/internal/catalog"
)

const (
	requestTimeout = 15 * time.Second
	userAgent      = "BlackDesert"
)

var (
	// ErrNoPrice means the upstream answered but had no usable price.
	ErrNoPrice = errors.New("no price in market response")
	// ErrUnknownRegion means the source has no endpoint for the region.
	ErrUnknownRegion = errors.New("no market endpoint for region")
)

// Source fetches one live price.
type Source interface {
	Name() string
	Fetch(ctx context.Context, region catalog.Region, id catalog.ItemID) (int64, error)
}

// client is the rate-limited HTTP plumbing shared by the sources.
type client struct {
	http    *http.Client
	limiter *rate.Limiter
}

// newClient allows rps requests per second; rps <= 0 disables throttling.
func newClient(hc *http.Client, rps float64) client {
	if hc == nil {
		hc = &http.Client{Timeout: requestTimeout}
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return client{http: hc, limiter: rate.NewLimiter(limit, 1)}
}

func (c client) do(ctx context.Context, req *http.Request) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("market request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read market response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("market request failed with status %d", resp.StatusCode)
	}
	return body, nil
}

// NewSource builds the source named by kind: "trade", "snapshot" or
// "offline" (nil source, catalog defaults only). url overrides the default
// endpoint of the snapshot source.
func NewSource(kind, url string, rps float64, ttl time.Duration) (Source, error) {
	switch kind {
	case "trade":
		return NewTradeSource(nil, nil, rps), nil
	case "snapshot":
		return NewSnapshotSource(url, nil, rps, ttl), nil
	case "offline", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown price source %q", kind)
	}
}
