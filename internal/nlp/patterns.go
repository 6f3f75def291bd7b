package nlp

import (
	"regexp"
	"strings"
)

type intentRule struct {
	intent Intent
	groups []*regexp.Regexp
}

// intentRules is ordered by tie-break priority: on equal scores the earlier
// intent wins.
var intentRules = []intentRule{
	{IntentViewCart, mustCompileAll(
		`\bshow\b.*\bcart\b|\bview\b.*\bcart\b|\bmy cart\b|\bwhat\b.*\bcart\b|\bcart\b.*\bcontents\b|\bin\b.*\bcart\b`,
	)},
	{IntentCheckout, mustCompileAll(
		`\bcheckout\b|\bproceed\b|\bbuy now\b|\bpurchase\b|\border\b|\bcomplete\b.*\border\b`,
	)},
	{IntentCompareProducts, mustCompileAll(
		`\bcompare\b|\bdifference\b|\bwhich\b.*\bbetter\b|\bversus\b|\bvs\b\.?|\bagainst\b`,
	)},
	{IntentHelp, mustCompileAll(
		`\bhelp\b|\bwhat\b.*\bdo\b|\bhow\b.*\bwork|\bcommands\b|\boptions\b|\bguide\b`,
	)},
	{IntentExit, mustCompileAll(
		`\bexit\b|\bquit\b|\bbye\b|\bgoodbye\b`,
	)},
	{IntentNavigation, mustCompileAll(
		`\bnext\b|\bprevious\b|\bback\b|\bforward\b|\bfirst\b|\blast\b|\bpage \d+`,
	)},
	{IntentAddToCart, mustCompileAll(
		`\badd\b.*\bcart\b|\bput\b.*\bcart\b|\bcart\b.*\badd\b|\bbuy this\b|\bpurchase this\b|\btake this\b`,
		`\bitem \d+|\bproduct \d+|\d+.*\bitem|\d+.*\bproduct`,
	)},
	{IntentProductDetails, mustCompileAll(
		`\btell me about\b|\bdescribe\b|\bdetails of\b|\binformation about\b|\bspecs of\b|\bmore about\b`,
		`\bitem \d+|\bproduct \d+|\d+.*\bitem|\d+.*\bproduct|\bthis\b.*\bitem|\bthis\b.*\bproduct`,
	)},
	{IntentSearchProduct, mustCompileAll(
		`\bfind\b|\bsearch\b|\blook for\b|\bshow me\b|\bget me\b|\bi want\b|\bi need\b|\blooking for\b`,
		`\bproducts?\b|\bitems?\b|\bthings?\b|\bstuff\b|\bshoes\b|\bmobile\b|\bphone\b|\blaptop\b|\bclothes\b|\bdress\b|\bshirt\b`,
	)},
}

var (
	productKeywords  = wordSet(`shoes`, `mobile`, `phone`, `laptop`, `clothes`, `dress`, `shirt`, `jeans`, `book`, `furniture`, `makeup`)
	searchIndicators = regexp.MustCompile(`\b(?:find|search|look for|show me|get me|i want|i need)\b`)

	itemMention   = regexp.MustCompile(`\b(?:item|product)s?\b`)
	hasDigit      = regexp.MustCompile(`\d`)
	addOrCart     = regexp.MustCompile(`\b(?:add|cart)\b`)
	detailsWord   = regexp.MustCompile(`\b(?:tell|about|details?)\b`)
	cartWord      = regexp.MustCompile(`\bcart\b`)
	explicitItem  = regexp.MustCompile(`\bitem\s*\d+|\bproduct\s*\d+`)
	itemNumberRef = regexp.MustCompile(`\b(?:item|product)\s*(?:number\s*|no\.?\s*|#\s*)?(\d+)|(\d+)\s*(?:items?|products?)\b`)
	tokenPattern  = regexp.MustCompile(`\b\w+\b`)
	numericToken  = regexp.MustCompile(`^\d+$`)
)

type category struct {
	name     string
	synonyms []string
	pattern  *regexp.Regexp
}

// categories is checked in declared order; a synonym matches when it begins a
// word, so "shoes" also covers "shoelaces" but "top" does not match "laptop".
var categories = []category{
	newCategory("footwear", "shoes", "sneakers", "boots", "sandals", "slippers", "heels", "flats", "loafers", "footwear"),
	newCategory("clothing", "clothes", "dress", "shirt", "pant", "jeans", "top", "kurta", "saree", "blouse", "jacket"),
	newCategory("electronics", "phone", "mobile", "laptop", "computer", "headphones", "speaker", "tablet", "gadget"),
	newCategory("books", "book", "novel", "textbook", "guide", "manual", "magazine", "journal"),
	newCategory("home", "furniture", "chair", "table", "bed", "sofa", "lamp", "decor", "cushion", "curtain"),
	newCategory("beauty", "makeup", "cosmetics", "cream", "lotion", "perfume", "shampoo", "skincare"),
}

type vocabEntry struct {
	value   string
	pattern *regexp.Regexp
}

var brands = newVocabulary(
	"nike", "adidas", "puma", "reebok", "levis", "samsung", "apple", "oneplus",
	"xiaomi", "sony", "lg", "dell", "hp", "lenovo", "asus", "acer",
	"zara", "h&m", "uniqlo", "forever21", "myntra", "biba", "fabindia",
)

var colors = newVocabulary(
	"red", "blue", "green", "yellow", "black", "white", "brown", "pink", "purple", "orange",
	"grey", "gray", "silver", "gold", "navy", "maroon", "beige", "cream", "tan", "cyan",
)

// sizePatterns capture the size value in group 1. Numeric sizes come first.
var sizePatterns = mustCompileAll(
	`\bsize\s*(\d+)\b`,
	`\b(\d+\s*(?:inch|inches))\b`,
	`\b(\d+\s*cm)\b`,
	`\b(xxxl|xxl|3xl|2xl|xl|xs|small|medium|large)\b`,
	`\bsize\s+(s|m|l)\b`,
)

var modifierPatterns = mustCompileAll(
	`\b(?:cheap|expensive|affordable|premium|luxury|high-quality|best|good|excellent|top)\b`,
	`\b(?:new|latest|old|vintage|classic|modern|trendy|stylish|fashionable)\b`,
	`\b(?:comfortable|durable|lightweight|heavy|soft|hard|waterproof|breathable)\b`,
)

var stopWords = wordSet(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by",
	"this", "that", "i", "you", "me", "my", "your", "is", "are", "was", "were", "be", "been",
	"have", "has", "had", "do", "does", "did", "will", "would", "could", "should", "can",
	"may", "might",
)

var querySkipWords = wordSet(
	"find", "search", "show", "get", "want", "need", "under", "above", "rupees", "rs", "price", "range",
)

type correction struct {
	pattern     *regexp.Regexp
	replacement string
}

// corrections fix common speech-to-text slips. Applied in order.
var corrections = newCorrections(
	"rupeas", "rupees",
	"rupes", "rupees",
	"under rupees", "under",
	"add too cart", "add to cart",
	"ad to cart", "add to cart",
	"tel me", "tell me",
	"show mee", "show me",
	"produck", "product",
	"itam", "item",
	"shoos", "shoes",
	"mobil", "mobile",
)

func mustCompileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(e))
	}
	return out
}

func newCategory(name string, synonyms ...string) category {
	quoted := make([]string, 0, len(synonyms))
	for _, s := range synonyms {
		quoted = append(quoted, regexp.QuoteMeta(s))
	}
	return category{
		name:     name,
		synonyms: synonyms,
		pattern:  regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)`),
	}
}

func newVocabulary(values ...string) []vocabEntry {
	out := make([]vocabEntry, 0, len(values))
	for _, v := range values {
		out = append(out, vocabEntry{value: v, pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(v) + `\b`)})
	}
	return out
}

func newCorrections(pairs ...string) []correction {
	out := make([]correction, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, correction{
			pattern:     regexp.MustCompile(`\b` + regexp.QuoteMeta(pairs[i]) + `\b`),
			replacement: pairs[i+1],
		})
	}
	return out
}

func wordSet(words ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}
