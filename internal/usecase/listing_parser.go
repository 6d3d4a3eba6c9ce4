package usecase

import (
	"regexp"
	"strings"

	"github.com/popguide/ingest-service/internal/entity"
)

var (
	noiseWordsRegex = regexp.MustCompile(`(?i)\b(?:funko|pop|loungefly)\b!?`)
	spaceRegex      = regexp.MustCompile(`\s+`)
	numberRegex     = regexp.MustCompile(`\b(\d+)\b`)
)

// ParseListing validates one raw listing for category. It returns false when the
// listing carries no positive price. Nothing from the raw payload escapes except
// through the returned record.
func ParseListing(raw entity.RawListing, category string) (*entity.ParsedListing, bool) {
	price, ok := ParsePrice(string(raw.Price))
	if !ok {
		return nil, false
	}

	title := strings.TrimSpace(string(raw.Title))
	class := classify(title, category)

	name := extractName(title, category)
	number := ""
	if m := numberRegex.FindStringSubmatch(title); m != nil {
		number = m[1]
	}

	description := category + " featuring " + name
	if number != "" {
		description += " #" + number
	}

	return &entity.ParsedListing{
		Name:        name,
		Series:      class.series,
		Number:      number,
		Fandom:      class.fandom,
		Genre:       class.genre,
		Price:       price,
		Description: description,
	}, true
}

// extractName takes the text before the category suffix phrase and strips brand noise.
func extractName(title, category string) string {
	name := ""
	if suffix := profileFor(category).suffix; suffix != nil {
		if loc := suffix.FindStringIndex(title); loc != nil {
			name = title[:loc[0]]
		}
	}
	name = noiseWordsRegex.ReplaceAllString(name, " ")
	name = strings.TrimSpace(spaceRegex.ReplaceAllString(name, " "))
	if name == "" {
		return "Unknown " + category
	}
	return name
}
