package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/xtding233/enhance-backend/internal/catalog"
)

const tradePath = "/Trademarket/GetMarketPriceInfo"

// DefaultTradeHosts are the live trade-market endpoints per region.
var DefaultTradeHosts = map[catalog.Region]string{
	catalog.RegionEU: "https://eu-trade.naeu.playblackdesert.com",
	catalog.RegionNA: "https://na-trade.naeu.playblackdesert.com",
}

// TradeSource queries the trade market's price history endpoint.
type TradeSource struct {
	hosts  map[catalog.Region]string
	client client
}

// NewTradeSource uses DefaultTradeHosts when hosts is empty.
func NewTradeSource(hosts map[catalog.Region]string, hc *http.Client, rps float64) *TradeSource {
	if len(hosts) == 0 {
		hosts = DefaultTradeHosts
	}
	return &TradeSource{hosts: hosts, client: newClient(hc, rps)}
}

func (s *TradeSource) Name() string { return "trade" }

type tradeRequest struct {
	KeyType int   `json:"keyType"`
	MainKey int64 `json:"mainKey"`
	SubKey  int   `json:"subKey"`
}

// Fetch returns the most recent price in the item's history.
func (s *TradeSource) Fetch(ctx context.Context, region catalog.Region, id catalog.ItemID) (int64, error) {
	host, ok := s.hosts[region]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownRegion, region)
	}
	payload, err := json.Marshal(tradeRequest{KeyType: 0, MainKey: int64(id), SubKey: 0})
	if err != nil {
		return 0, fmt.Errorf("encode trade request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(host, "/")+tradePath, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("create trade request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := s.client.do(ctx, req)
	if err != nil {
		return 0, err
	}
	return parseTradeResponse(body)
}

// parseTradeResponse reads {"resultCode":0,"resultMsg":"p1-p2-...-pn"} and
// returns pn.
func parseTradeResponse(body []byte) (int64, error) {
	if !gjson.ValidBytes(body) {
		return 0, fmt.Errorf("parse trade response: invalid JSON")
	}
	res := gjson.ParseBytes(body)
	if code := res.Get("resultCode"); !code.Exists() || code.Int() != 0 {
		return 0, fmt.Errorf("trade api error %d: %s", code.Int(), res.Get("resultMsg").String())
	}
	history := strings.TrimSpace(res.Get("resultMsg").String())
	if history == "" {
		return 0, ErrNoPrice
	}
	parts := strings.Split(history, "-")
	p, err := strconv.ParseInt(strings.TrimSpace(parts[len(parts)-1]), 10, 64)
	if err != nil || p <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrNoPrice, history)
	}
	return p, nil
}
