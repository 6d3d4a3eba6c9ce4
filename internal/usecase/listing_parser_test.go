package usecase

import (
	"testing"

	"github.com/popguide/ingest-service/internal/entity"
)

func TestParseListing(t *testing.T) {
	tests := []struct {
		name     string
		raw      entity.RawListing
		category string
		want     entity.ParsedListing
	}{
		{
			name:     "vinyl soda with fandom keyword",
			raw:      entity.RawListing{Title: "Darth Vader Vinyl Soda", Price: "£25.00"},
			category: "Vinyl Soda",
			want: entity.ParsedListing{
				Name:        "Darth Vader",
				Series:      "Star Wars Vinyl Soda",
				Fandom:      "Star Wars",
				Genre:       "Movies & TV",
				Price:       25,
				Description: "Vinyl Soda featuring Darth Vader",
			},
		},
		{
			name:     "brand noise and number",
			raw:      entity.RawListing{Title: "Funko Pop! Batman Bitty Pop 4 pack", Price: "£1,234.50"},
			category: "Bitty Pop!",
			want: entity.ParsedListing{
				Name:        "Batman",
				Series:      "DC Bitty Pops",
				Number:      "4",
				Fandom:      "DC",
				Genre:       "Movies & TV",
				Price:       1234.5,
				Description: "Bitty Pop! featuring Batman #4",
			},
		},
		{
			name:     "genre override",
			raw:      entity.RawListing{Title: "Pikachu Loungefly Mini Backpack", Price: "GBP 40.00 to GBP 55.00"},
			category: "Loungefly",
			want: entity.ParsedListing{
				Name:        "Pikachu",
				Series:      "Pokemon Loungefly",
				Fandom:      "Pokemon",
				Genre:       "Animation",
				Price:       40,
				Description: "Loungefly featuring Pikachu",
			},
		},
		{
			name:     "no rule matches",
			raw:      entity.RawListing{Title: "Stranger Things Eleven Bitty Pop", Price: "9.99"},
			category: "Bitty Pop!",
			want: entity.ParsedListing{
				Name:        "Stranger Things Eleven",
				Series:      "Various Bitty Pops",
				Fandom:      "Various",
				Genre:       "Movies & TV",
				Price:       9.99,
				Description: "Bitty Pop! featuring Stranger Things Eleven",
			},
		},
		{
			name:     "unknown category without suffix",
			raw:      entity.RawListing{Title: "Batman keychain", Price: "5"},
			category: "Keychain",
			want: entity.ParsedListing{
				Name:        "Unknown Keychain",
				Series:      "DC Keychain",
				Fandom:      "DC",
				Genre:       "Movies & TV",
				Price:       5,
				Description: "Keychain featuring Unknown Keychain",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseListing(tt.raw, tt.category)
			if !ok {
				t.Fatalf("ParseListing(%q) rejected listing", tt.raw.Title)
			}
			if *got != tt.want {
				t.Errorf("ParseListing(%q)\n got  %+v\n want %+v", tt.raw.Title, *got, tt.want)
			}
		})
	}
}

func TestParseListing_RejectsUnpricedListings(t *testing.T) {
	for _, price := range []entity.LooseString{"Free", "", "0.00", "£0"} {
		if got, ok := ParseListing(entity.RawListing{Title: "X", Price: price}, "Vinyl Soda"); ok {
			t.Errorf("price %q: got %+v, want rejection", price, got)
		}
	}
}

func TestClassify_FirstMatchingRuleWins(t *testing.T) {
	got := classify("marvel vs dc batman bitty pop", "Bitty Pop!")
	if got.fandom != "Marvel" {
		t.Errorf("fandom = %q, want Marvel", got.fandom)
	}
}

func TestClassify_MatchesWholeWordsOnly(t *testing.T) {
	// "sdcc" contains "dc" but is not the DC keyword.
	got := classify("sdcc exclusive darth vader vinyl soda", "Vinyl Soda")
	if got.fandom != "Star Wars" {
		t.Errorf("fandom = %q, want Star Wars", got.fandom)
	}
}

func TestClassify_PluralAndPossessiveKeywords(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"batmans vinyl soda", "DC"},
		{"vader's tie fighter bitty pop", "Star Wars"},
		{"mickey’s christmas loungefly", "Disney"},
		{"batmobile vinyl soda", "Various"},
	}
	for _, tt := range tests {
		if got := classify(tt.title, "Vinyl Soda"); got.fandom != tt.want {
			t.Errorf("classify(%q) fandom = %q, want %q", tt.title, got.fandom, tt.want)
		}
	}
}

func TestClassify_StrangerThingsOnlyForLoungefly(t *testing.T) {
	got := classify("Stranger Things Eleven Loungefly Mini Backpack", "Loungefly")
	if got.series != "Stranger Things Loungefly" || got.fandom != "Television" || got.genre != "Fashion" {
		t.Errorf("loungefly = %+v", got)
	}

	got = classify("Stranger Things Eleven Bitty Pop", "Bitty Pop!")
	if got.fandom != "Various" || got.series != "Various Bitty Pops" {
		t.Errorf("bitty pop = %+v", got)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"£25.00", 25, true},
		{"£1,234.50", 1234.5, true},
		{"GBP 12.99 to GBP 15.00", 12.99, true},
		{"12", 12, true},
		{"Free", 0, false},
		{"0", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParsePrice(tt.raw)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParsePrice(%q) = %v, %v; want %v, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSearchTerms(t *testing.T) {
	terms := SearchTerms("Vinyl Soda")
	if len(terms) != 12 || terms[0] != "Darth Vader Vinyl Soda" {
		t.Fatalf("unexpected Vinyl Soda terms: %v", terms)
	}

	terms[0] = "mutated"
	if SearchTerms("Vinyl Soda")[0] != "Darth Vader Vinyl Soda" {
		t.Error("SearchTerms exposed its backing slice")
	}

	if got := SearchTerms("Keychain"); len(got) != 1 || got[0] != "Keychain funko" {
		t.Errorf("unknown category terms = %v", got)
	}

	if got := termsToFetch(SearchTerms("Loungefly")); len(got) != MaxSearchTerms {
		t.Errorf("termsToFetch returned %d terms", len(got))
	}
}

func TestItemsPerTerm(t *testing.T) {
	tests := []struct{ maxItems, terms, want int }{
		{20, 12, 2},
		{60, 12, 5},
		{10, 1, 10},
		{1, 1, 2},
		{5, 0, 2},
	}
	for _, tt := range tests {
		if got := itemsPerTerm(tt.maxItems, tt.terms); got != tt.want {
			t.Errorf("itemsPerTerm(%d, %d) = %d, want %d", tt.maxItems, tt.terms, got, tt.want)
		}
	}
}
