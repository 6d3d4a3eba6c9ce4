package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var priceRegex = regexp.MustCompile(`[\d,]+\.?\d*`)

// ParsePrice extracts the first positive amount from a marketplace price string
// such as "£1,234.50" or "GBP 12.99 to GBP 15.00".
func ParsePrice(raw string) (float64, bool) {
	match := priceRegex.FindString(raw)
	if match == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil || math.IsNaN(val) || val <= 0 {
		return 0, false
	}
	return val, true
}
