package formatter

import (
	"regexp"
	"strings"
)

var (
	symbolWords = strings.NewReplacer("&", " and ", "+", " plus ", "%", " percent ")
	unspeakable = regexp.MustCompile(`[^\w\s\-\(\)]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

type abbreviation struct {
	pattern *regexp.Regexp
	full    string
}

var abbreviations = newAbbreviations(
	"mens", "men's",
	"womens", "women's",
	"kids", "children's",
	"xl", "extra large",
	"lg", "large",
	"md", "medium",
	"sm", "small",
	"xs", "extra small",
	"ml", "milliliters",
	"kg", "kilograms",
	"gm", "grams",
	"cm", "centimeters",
	"mm", "millimeters",
	"led", "L E D",
	"usb", "U S B",
	"wifi", "Wi-Fi",
	"bluetooth", "Bluetooth",
)

// CleanTitle makes a store title readable aloud: symbols become words,
// punctuation is dropped and unit abbreviations are expanded.
func CleanTitle(title string) string {
	s := symbolWords.Replace(title)
	s = unspeakable.ReplaceAllString(s, " ")
	for _, a := range abbreviations {
		s = a.pattern.ReplaceAllString(s, a.full)
	}
	s = strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
	if s == "" {
		return "Unknown product"
	}
	return s
}

func newAbbreviations(pairs ...string) []abbreviation {
	out := make([]abbreviation, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, abbreviation{
			pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(pairs[i]) + `\b`),
			full:    pairs[i+1],
		})
	}
	return out
}
