package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.GRPCAddr != ":9090" {
		t.Fatalf("unexpected addrs %q %q", cfg.HTTPAddr, cfg.GRPCAddr)
	}
	if cfg.PriceTTL != 30*time.Minute {
		t.Fatalf("expected 30m ttl, got %s", cfg.PriceTTL)
	}
	if cfg.Region != "EU" || cfg.PriceSrc != "snapshot" || !cfg.Watch {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENHANCE_REGION", "NA")
	t.Setenv("ENHANCE_PRICE_TTL", "5m")
	t.Setenv("ENHANCE_WATCH", "false")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Region != "NA" || cfg.PriceTTL != 5*time.Minute || cfg.Watch {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"ENHANCE_REGION":       "KR",
		"ENHANCE_PRICE_SOURCE": "carrier-pigeon",
		"ENHANCE_PRICE_TTL":    "0s",
		"ENHANCE_MARKET_RPS":   "-1",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv(k, v)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", k, v)
			}
		})
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("ENHANCE_MARKET_RPS", "fast")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
