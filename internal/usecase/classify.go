package usecase

import (
	"regexp"
	"strings"
)

const defaultGenre = "Movies & TV"

// categoryProfile holds the per-category parsing settings.
type categoryProfile struct {
	// suffix is the product-line phrase that follows the character name in titles.
	suffix *regexp.Regexp
	// seriesLabel is appended to the fandom to build the series name.
	seriesLabel string
	genre       string
}

var categoryProfiles = map[string]categoryProfile{
	"Bitty Pop!": {
		suffix:      regexp.MustCompile(`(?i)\s+bitty\s+pop`),
		seriesLabel: "Bitty Pops",
		genre:       defaultGenre,
	},
	"Vinyl Soda": {
		suffix:      regexp.MustCompile(`(?i)\s+vinyl\s+soda`),
		seriesLabel: "Vinyl Soda",
		genre:       defaultGenre,
	},
	"Loungefly": {
		suffix:      regexp.MustCompile(`(?i)\s+loungefly`),
		seriesLabel: "Loungefly",
		genre:       "Fashion",
	},
}

func profileFor(category string) categoryProfile {
	if p, ok := categoryProfiles[category]; ok {
		return p
	}
	return categoryProfile{seriesLabel: category, genre: defaultGenre}
}

// classificationRule maps a title predicate to a fandom. Genre, when set,
// overrides the category default. A rule with a category only applies to it.
type classificationRule struct {
	fandom   string
	series   string // series prefix, defaults to fandom
	genre    string
	category string
	pattern  *regexp.Regexp
}

func (r classificationRule) matches(lowerTitle, category string) bool {
	if r.category != "" && r.category != category {
		return false
	}
	return r.pattern.MatchString(lowerTitle)
}

// keywordPattern matches any keyword as a whole word in a lower-cased title,
// allowing a plural or possessive ending ("batmans", "vader's").
func keywordPattern(keywords ...string) *regexp.Regexp {
	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = regexp.QuoteMeta(k)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)(?:['’]?s)?\b`)
}

// classificationRules is evaluated in order; the first match wins.
var classificationRules = []classificationRule{
	{fandom: "Marvel", pattern: keywordPattern("marvel", "spider-man", "iron man", "captain america", "deadpool", "avengers")},
	{fandom: "DC", pattern: keywordPattern("dc", "batman", "superman", "wonder woman")},
	{fandom: "Disney", pattern: keywordPattern("disney", "mickey", "minnie")},
	{fandom: "Star Wars", pattern: keywordPattern("star wars", "vader", "luke", "mandalorian")},
	{fandom: "Harry Potter", pattern: keywordPattern("harry potter", "hogwarts")},
	{fandom: "Pokemon", genre: "Animation", pattern: keywordPattern("pokemon", "pokémon", "pikachu")},
	{fandom: "Television", series: "Stranger Things", category: "Loungefly", pattern: keywordPattern("stranger things")},
}

// classification is the result of running the rule table over a title.
type classification struct {
	series string
	fandom string
	genre  string
}

func classify(title, category string) classification {
	profile := profileFor(category)
	lower := strings.ToLower(title)

	for _, rule := range classificationRules {
		if !rule.matches(lower, category) {
			continue
		}
		genre := profile.genre
		if rule.genre != "" {
			genre = rule.genre
		}
		series := rule.series
		if series == "" {
			series = rule.fandom
		}
		return classification{
			series: series + " " + profile.seriesLabel,
			fandom: rule.fandom,
			genre:  genre,
		}
	}
	return classification{
		series: "Various " + profile.seriesLabel,
		fandom: "Various",
		genre:  profile.genre,
	}
}

// categoryLabel bounds the metric label set to the known categories.
func categoryLabel(category string) string {
	if _, ok := categoryProfiles[category]; ok {
		return category
	}
	return "other"
}
