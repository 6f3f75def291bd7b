package nlp

import "strings"

// FallbackKeywords is the query used when nothing searchable was said.
const FallbackKeywords = "products"

const (
	fallbackKeywords = FallbackKeywords
	maxQueryKeywords = 3
)

// FormatSearchQuery builds the keyword string sent to product sources:
// category, brand, color and modifiers first, then up to three remaining
// keywords. It never returns an empty string.
func FormatSearchQuery(ent Entities) string {
	return formatKeywords(strings.Join(ent.Keywords, " "), ent)
}

func formatKeywords(text string, ent Entities) string {
	terms := make([]string, 0, 8)
	for _, v := range []string{ent.Category, ent.Brand, ent.Color} {
		if v != "" {
			terms = append(terms, v)
		}
	}
	terms = append(terms, ent.Modifiers...)

	added := 0
	for _, kw := range ent.Keywords {
		if added == maxQueryKeywords {
			break
		}
		if _, skip := querySkipWords[strings.ToLower(kw)]; skip || len(kw) <= 2 {
			continue
		}
		terms = append(terms, kw)
		added++
	}

	terms = dedupeFold(terms)
	if len(terms) == 0 {
		if mention := firstSynonym(text); mention != "" {
			return mention
		}
		return fallbackKeywords
	}
	return strings.Join(terms, " ")
}

func dedupeFold(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		k := strings.ToLower(s)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}

func firstSynonym(text string) string {
	for _, c := range categories {
		for _, syn := range c.synonyms {
			if strings.Contains(text, syn) {
				return syn
			}
		}
	}
	return ""
}
