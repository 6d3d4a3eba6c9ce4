package usecase

// MaxSearchTerms caps how many search terms a single run fetches.
const MaxSearchTerms = 5

var searchTermsByCategory = map[string][]string{
	"Bitty Pop!": {
		"Spider-Man Bitty Pop",
		"Batman Bitty Pop",
		"Harry Potter Bitty Pop",
		"Disney Bitty Pop 4-pack",
		"Marvel Bitty Pop",
		"DC Bitty Pop",
		"Star Wars Bitty Pop",
		"Pokemon Bitty Pop",
		"Stranger Things Bitty Pop",
		"The Office Bitty Pop",
		"Friends Bitty Pop",
		"Teenage Mutant Ninja Turtles Bitty Pop",
	},
	"Vinyl Soda": {
		"Darth Vader Vinyl Soda",
		"Batman Vinyl Soda",
		"Wonder Woman Vinyl Soda",
		"Spider-Man Vinyl Soda",
		"Deadpool Vinyl Soda",
		"Joker Vinyl Soda",
		"Superman Vinyl Soda",
		"Captain America Vinyl Soda",
		"Iron Man Vinyl Soda",
		"Thor Vinyl Soda",
		"Wolverine Vinyl Soda",
		"Flash Vinyl Soda",
	},
	"Loungefly": {
		"Disney Loungefly backpack",
		"Star Wars Loungefly",
		"Harry Potter Loungefly backpack",
		"Marvel Loungefly",
		"Stranger Things Loungefly",
		"Nightmare Before Christmas Loungefly",
		"Mickey Mouse Loungefly",
		"Batman Loungefly backpack",
		"Pokemon Loungefly",
		"The Office Loungefly",
		"Friends Loungefly backpack",
		"Mandalorian Loungefly",
	},
}

// SearchTerms returns the curated, ordered query phrases for a category.
// Unknown categories get a single "{category} funko" phrase.
func SearchTerms(category string) []string {
	terms, ok := searchTermsByCategory[category]
	if !ok {
		return []string{category + " funko"}
	}
	out := make([]string, len(terms))
	copy(out, terms)
	return out
}

// termsToFetch returns the prefix of terms a run will actually query.
func termsToFetch(terms []string) []string {
	if len(terms) > MaxSearchTerms {
		return terms[:MaxSearchTerms]
	}
	return terms
}
