package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q", cfg.ServerPort)
	}
	if cfg.TermDelay != 3*time.Second {
		t.Errorf("TermDelay = %v", cfg.TermDelay)
	}
	if cfg.MarketplaceName != "eBay UK" {
		t.Errorf("MarketplaceName = %q", cfg.MarketplaceName)
	}
	if cfg.DefaultMaxItems != 20 {
		t.Errorf("DefaultMaxItems = %d", cfg.DefaultMaxItems)
	}
	if !cfg.RequiresAPIKey() {
		t.Error("firecrawl extractor should require an API key")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TERM_DELAY", "250ms")
	t.Setenv("FIRECRAWL_API_KEY", "fc-123")
	t.Setenv("EXTRACTOR", "browser")
	t.Setenv("PROXY_URLS", "http://a:1, ,http://b:2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TermDelay != 250*time.Millisecond {
		t.Errorf("TermDelay = %v", cfg.TermDelay)
	}
	if cfg.FirecrawlAPIKey != "fc-123" {
		t.Errorf("FirecrawlAPIKey = %q", cfg.FirecrawlAPIKey)
	}
	if cfg.RequiresAPIKey() {
		t.Error("browser extractor should not require an API key")
	}
	if got := cfg.Proxies(); len(got) != 2 || got[1] != "http://b:2" {
		t.Errorf("Proxies = %v", got)
	}
}
