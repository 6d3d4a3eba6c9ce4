package entity

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// LooseString accepts a JSON string, number, or null.
// Extraction payloads are model-generated and not always typed consistently.
type LooseString string

func (s *LooseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = LooseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*s = LooseString(n.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*s = LooseString(strconv.FormatBool(b))
		return nil
	}
	// Objects and arrays carry nothing usable for a scalar field.
	*s = ""
	return nil
}

// RawListing is one unvalidated listing as returned by an extractor.
// Every field is optional.
type RawListing struct {
	Title      LooseString `json:"title"`
	Price      LooseString `json:"price"`
	Condition  LooseString `json:"condition"`
	Shipping   LooseString `json:"shipping"`
	SoldDate   LooseString `json:"sold_date"`
	ListingURL LooseString `json:"listing_url"`
	ImageURL   LooseString `json:"image_url"`
	SellerInfo LooseString `json:"seller_info"`
	Location   LooseString `json:"location"`
}

// ParsedListing is the validated record produced from a RawListing.
type ParsedListing struct {
	Name        string
	Series      string
	Number      string
	Fandom      string
	Genre       string
	Price       float64
	Description string
}

// TermListings groups the listings returned for one search term.
type TermListings struct {
	Term      string
	SearchURL string
	Listings  []RawListing
}
