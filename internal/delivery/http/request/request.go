package request

// ScrapeCategoryRequest is the body of POST /api/scrape-category.
type ScrapeCategoryRequest struct {
	Category string `json:"category"`
	MaxItems *int   `json:"maxItems,omitempty"`
}
