package market

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/tidwall/gjson"

	"github.com/xtding233/enhance-backend/internal/catalog"
)

// DefaultSnapshotURL is the published price dump; %s is the lower-case region.
const DefaultSnapshotURL = "https://jackdaniels2507.github.io/bdo-calculator/bdo-prices-%s.json"

// SnapshotSource reads prices from a static JSON document shaped
// {"<id>": {"price": n}, ...}. Each region's document is downloaded at most
// once per ttl.
type SnapshotSource struct {
	urlFormat string
	client    client
	docs      *gocache.Cache
}

func NewSnapshotSource(urlFormat string, hc *http.Client, rps float64, ttl time.Duration) *SnapshotSource {
	if urlFormat == "" {
		urlFormat = DefaultSnapshotURL
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SnapshotSource{
		urlFormat: urlFormat,
		client:    newClient(hc, rps),
		docs:      gocache.New(ttl, 2*ttl),
	}
}

func (s *SnapshotSource) Name() string { return "snapshot" }

func (s *SnapshotSource) Fetch(ctx context.Context, region catalog.Region, id catalog.ItemID) (int64, error) {
	doc, err := s.document(ctx, region)
	if err != nil {
		return 0, err
	}
	p := gjson.Get(doc, strconv.FormatInt(int64(id), 10)+".price")
	if !p.Exists() || p.Int() <= 0 {
		return 0, fmt.Errorf("%w: item %d", ErrNoPrice, id)
	}
	return p.Int(), nil
}

func (s *SnapshotSource) document(ctx context.Context, region catalog.Region) (string, error) {
	key := string(region)
	if v, ok := s.docs.Get(key); ok {
		return v.(string), nil
	}
	url := s.urlFormat
	if strings.Contains(url, "%s") {
		url = fmt.Sprintf(url, strings.ToLower(string(region)))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create snapshot request: %w", err)
	}
	body, err := s.client.do(ctx, req)
	if err != nil {
		return "", err
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("parse snapshot %s: invalid JSON", url)
	}
	doc := string(body)
	s.docs.SetDefault(key, doc)
	return doc, nil
}

// Snapshot renders prices in the SnapshotSource document shape.
func Snapshot(prices map[catalog.ItemID]int64) map[string]map[string]int64 {
	out := make(map[string]map[string]int64, len(prices))
	for id, p := range prices {
		out[strconv.FormatInt(int64(id), 10)] = map[string]int64{"price": p}
	}
	return out
}
