package chromedp_crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/popguide/ingest-service/internal/entity"
	"github.com/popguide/ingest-service/internal/proxy"
)

const acceptLanguage = "en-GB,en;q=0.9"

// BrowserExtractor renders marketplace search pages in headless Chrome and
// scrapes the listing cards. It needs no third-party extraction API.
type BrowserExtractor struct {
	proxies *proxy.Manager
	timeout time.Duration
	logger  *zap.Logger
}

// NewBrowserExtractor creates an extractor that gives every page pageLoadTimeout to render.
func NewBrowserExtractor(proxies *proxy.Manager, pageLoadTimeout time.Duration, logger *zap.Logger) *BrowserExtractor {
	return &BrowserExtractor{
		proxies: proxies,
		timeout: pageLoadTimeout,
		logger:  logger,
	}
}

func (e *BrowserExtractor) Name() string { return "browser" }

// Extract starts a fresh browser per search so each page gets its own proxy and user agent.
func (e *BrowserExtractor) Extract(ctx context.Context, searchURL string) ([]entity.RawListing, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(e.proxies.UserAgent()),
	)
	if p := e.proxies.Proxy(); p != "" {
		opts = append(opts, chromedp.ProxyServer(p))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx, chromedp.WithLogf(e.logger.Sugar().Debugf))
	defer cancelTask()

	taskCtx, cancel := context.WithTimeout(taskCtx, e.timeout)
	defer cancel()

	start := time.Now()
	var htmlContent string
	err := chromedp.Run(taskCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": acceptLanguage}),
		chromedp.Navigate(searchURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &htmlContent, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", searchURL, err)
	}

	listings, err := ParseSearchResults(searchURL, htmlContent)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", searchURL, err)
	}
	e.logger.Debug("rendered search page",
		zap.String("url", searchURL),
		zap.Int("listings", len(listings)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return listings, nil
}
