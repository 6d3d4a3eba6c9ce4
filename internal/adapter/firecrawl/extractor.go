package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/popguide/ingest-service/internal/entity"
	"github.com/popguide/ingest-service/internal/repository"
)

const (
	scrapePath = "/v1/scrape"
	// transportSlack covers connection setup and response transfer on top of
	// the extraction timeout the service enforces itself.
	transportSlack = 15 * time.Second
	maxErrorBody   = 512
)

var listingFields = []string{
	"title", "price", "condition", "shipping", "sold_date",
	"listing_url", "image_url", "seller_info", "location",
}

// listingSchema asks the service for an array of listing objects with string fields.
var listingSchema = func() map[string]any {
	props := make(map[string]any, len(listingFields))
	for _, f := range listingFields {
		props[f] = map[string]string{"type": "string"}
	}
	return map[string]any{
		"listings": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":       "object",
				"properties": props,
			},
		},
	}
}()

type scrapeRequest struct {
	URL     string      `json:"url"`
	Formats []string    `json:"formats"`
	Extract extractSpec `json:"extract"`
	Timeout int64       `json:"timeout"`
}

type extractSpec struct {
	Schema map[string]any `json:"schema"`
}

// extractPayload keeps listings raw so one malformed element does not fail the whole page.
type extractPayload struct {
	Listings []json.RawMessage `json:"listings"`
}

// scrapeResponse accepts the extraction result at the top level or nested under data.
type scrapeResponse struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Extract *extractPayload `json:"extract"`
	Data    *struct {
		Extract *extractPayload `json:"extract"`
	} `json:"data"`
}

func (r *scrapeResponse) rawListings() []json.RawMessage {
	switch {
	case r.Extract != nil && r.Extract.Listings != nil:
		return r.Extract.Listings
	case r.Data != nil && r.Data.Extract != nil && r.Data.Extract.Listings != nil:
		return r.Data.Extract.Listings
	}
	return nil
}

// decodeListings decodes each element on its own and drops the ones that are
// not listing objects. It returns how many were dropped.
func decodeListings(raw []json.RawMessage) ([]entity.RawListing, int) {
	listings := make([]entity.RawListing, 0, len(raw))
	dropped := 0
	for _, item := range raw {
		var l entity.RawListing
		if err := json.Unmarshal(item, &l); err != nil {
			dropped++
			continue
		}
		listings = append(listings, l)
	}
	return listings, dropped
}

// Extractor implements repository.ListingExtractor against a Firecrawl-compatible
// scrape API.
type Extractor struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	limiter    *rate.Limiter
	httpClient *http.Client
	logger     *zap.Logger
}

// NewExtractor creates an extractor. rps limits calls made with the shared API key;
// zero or less disables the limit.
func NewExtractor(baseURL, apiKey string, rps float64, timeout time.Duration, logger *zap.Logger) *Extractor {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &Extractor{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		limiter: rate.NewLimiter(limit, 1),
		httpClient: &http.Client{
			Timeout:   timeout + transportSlack,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

func (e *Extractor) Name() string { return "firecrawl" }

// Extract asks the service to render searchURL and extract listings with listingSchema.
func (e *Extractor) Extract(ctx context.Context, searchURL string) ([]entity.RawListing, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(scrapeRequest{
		URL:     searchURL,
		Formats: []string{"extract"},
		Extract: extractSpec{Schema: listingSchema},
		Timeout: e.timeout.Milliseconds(),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+scrapePath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: %d: %s", repository.ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var sr scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("failed to decode scrape response: %w", err)
	}
	listings, dropped := decodeListings(sr.rawListings())
	if dropped > 0 {
		e.logger.Warn("dropped malformed listings",
			zap.String("url", searchURL),
			zap.Int("dropped", dropped),
			zap.Int("kept", len(listings)),
		)
	}
	return listings, nil
}
