package response

import "github.com/popguide/ingest-service/internal/entity"

type ScrapeCategoryResponse struct {
	Success              bool     `json:"success"`
	Category             string   `json:"category"`
	TotalFound           int      `json:"totalFound"`
	TotalCreated         int      `json:"totalCreated"`
	TotalExisting        int      `json:"totalExisting"`
	TotalPricesCollected int      `json:"totalPricesCollected"`
	Duration             int64    `json:"duration"` // milliseconds
	SearchTerms          []string `json:"searchTerms"`
}

// NewScrapeCategoryResponse maps run statistics to the wire format.
func NewScrapeCategoryResponse(stats *entity.RunStatistics) ScrapeCategoryResponse {
	terms := stats.SearchTerms
	if terms == nil {
		terms = []string{}
	}
	return ScrapeCategoryResponse{
		Success:              true,
		Category:             stats.Category,
		TotalFound:           stats.Found,
		TotalCreated:         stats.Created,
		TotalExisting:        stats.Existing,
		TotalPricesCollected: stats.PricesCollected,
		Duration:             stats.Duration.Milliseconds(),
		SearchTerms:          terms,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
