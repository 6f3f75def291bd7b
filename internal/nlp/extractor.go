package nlp

import (
	"strconv"
	"strings"
	"time"
)

const (
	suggestionThreshold = 0.7
	vagueThreshold      = 0.5

	searchCategoryBoost = 0.2
	itemReferenceBoost  = 0.3
)

const (
	ClarifyProductType = "product_type"
	ClarifyPriceRange  = "price_range"
	ClarifyItemNumber  = "item_number"
)

// Extractor turns free-form shopping utterances into an IntentResult. It has
// no mutable state and is safe for concurrent use.
type Extractor struct {
	now func() time.Time
}

// NewExtractor returns an Extractor stamping results with the wall clock.
func NewExtractor() *Extractor {
	return &Extractor{now: time.Now}
}

var defaultExtractor = NewExtractor()

// Analyze runs the default extractor.
func Analyze(text string) IntentResult {
	return defaultExtractor.Analyze(text)
}

// Analyze normalizes text and extracts intent, entities and a search query.
// Empty input yields IntentUnknown with zero confidence.
func (e *Extractor) Analyze(text string) IntentResult {
	norm := Normalize(text)
	result := IntentResult{
		Text:                 norm,
		Suggestions:          []string{},
		ClarificationsNeeded: []string{},
		Timestamp:            e.timestamp(),
	}
	if norm == "" {
		result.Intent = IntentUnknown
		result.Entities = Entities{Keywords: []string{}, Modifiers: []string{}}
		result.Query = ParsedQuery{Keywords: fallbackKeywords}
		return result
	}

	entities, priceIncomplete := extractEntities(norm)
	result.Intent = detectIntent(norm)
	result.Entities = entities
	result.Confidence = confidence(norm, result.Intent)
	result.Query = buildQuery(norm, entities)

	if result.Confidence < suggestionThreshold {
		result.Suggestions = suggestions(norm, result)
	}
	result.ClarificationsNeeded = clarifications(result, priceIncomplete)
	return result
}

func (e *Extractor) timestamp() time.Time {
	if e == nil || e.now == nil {
		return time.Now()
	}
	return e.now()
}

// Normalize lowercases, trims, collapses whitespace and fixes common
// transcription slips.
func Normalize(text string) string {
	s := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	for _, c := range corrections {
		s = c.pattern.ReplaceAllString(s, c.replacement)
	}
	return s
}

func detectIntent(text string) Intent {
	// Explicit item references outrank scoring.
	if itemMention.MatchString(text) && hasDigit.MatchString(text) {
		if addOrCart.MatchString(text) {
			return IntentAddToCart
		}
		if detailsWord.MatchString(text) {
			return IntentProductDetails
		}
	}
	if cartWord.MatchString(text) {
		if rule := ruleFor(IntentAddToCart); rule.groups[0].MatchString(text) {
			return IntentAddToCart
		}
		if rule := ruleFor(IntentViewCart); rule.groups[0].MatchString(text) {
			return IntentViewCart
		}
	}

	scores := make(map[Intent]int, len(intentRules))
	if mentionsProduct(text) || searchIndicators.MatchString(text) {
		scores[IntentSearchProduct] += 3
	}
	for _, rule := range intentRules {
		for _, g := range rule.groups {
			if g.MatchString(text) {
				scores[rule.intent]++
			}
		}
	}

	best, bestScore := IntentSearchProduct, 0
	for _, rule := range intentRules {
		if s := scores[rule.intent]; s > bestScore {
			best, bestScore = rule.intent, s
		}
	}
	return best
}

func mentionsProduct(text string) bool {
	for _, tok := range tokenPattern.FindAllString(text, -1) {
		if _, ok := productKeywords[tok]; ok {
			return true
		}
	}
	return false
}

func ruleFor(intent Intent) intentRule {
	for _, r := range intentRules {
		if r.intent == intent {
			return r
		}
	}
	return intentRule{intent: intent}
}

func confidence(text string, intent Intent) float64 {
	rule := ruleFor(intent)
	if len(rule.groups) == 0 {
		return 0
	}
	matched := 0
	for _, g := range rule.groups {
		if g.MatchString(text) {
			matched++
		}
	}
	c := float64(matched) / float64(len(rule.groups))

	switch intent {
	case IntentSearchProduct:
		if detectCategory(text) != "" {
			c += searchCategoryBoost
		}
	case IntentAddToCart, IntentProductDetails:
		if explicitItem.MatchString(text) {
			c += itemReferenceBoost
		}
	}
	if c > 1 {
		c = 1
	}
	if c < 0 {
		c = 0
	}
	return c
}

func extractEntities(text string) (Entities, bool) {
	ent := Entities{
		Category:  detectCategory(text),
		Brand:     firstWord(brands, text),
		Color:     firstWord(colors, text),
		Keywords:  keywords(text),
		Modifiers: modifiers(text),
	}

	size, sizeSpan := detectSize(text)
	ent.Size = size
	ent.ItemNumber = itemNumber(text)

	incomplete := false
	if ent.ItemNumber == 0 {
		priceText := text
		if sizeSpan != "" && hasDigit.MatchString(sizeSpan) {
			priceText = strings.Replace(priceText, sizeSpan, " ", 1)
		}
		p := extractPrice(priceText)
		ent.PriceRange = p.rng
		incomplete = p.incomplete
	}
	return ent, incomplete
}

// CategoryOf returns the first category whose synonyms text mentions, or "".
func CategoryOf(text string) string {
	return detectCategory(strings.ToLower(text))
}

func detectCategory(text string) string {
	for _, c := range categories {
		if c.pattern.MatchString(text) {
			return c.name
		}
	}
	return ""
}

func firstWord(vocab []vocabEntry, text string) string {
	for _, v := range vocab {
		if v.pattern.MatchString(text) {
			return v.value
		}
	}
	return ""
}

// detectSize returns the size value and the full matched span.
func detectSize(text string) (string, string) {
	for _, p := range sizePatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return m[1], m[0]
		}
	}
	return "", ""
}

func itemNumber(text string) int {
	m := itemNumberRef.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	for _, g := range m[1:] {
		if g == "" {
			continue
		}
		n, err := strconv.Atoi(g)
		if err == nil {
			return n
		}
	}
	return 0
}

func keywords(text string) []string {
	out := []string{}
	for _, tok := range tokenPattern.FindAllString(text, -1) {
		if len(tok) <= 2 || numericToken.MatchString(tok) {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func modifiers(text string) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, p := range modifierPatterns {
		for _, m := range p.FindAllString(text, -1) {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	return out
}

func buildQuery(text string, ent Entities) ParsedQuery {
	return ParsedQuery{
		Keywords:   formatKeywords(text, ent),
		MinPrice:   ent.PriceRange.Min,
		MaxPrice:   ent.PriceRange.Max,
		Category:   ent.Category,
		Brand:      ent.Brand,
		Color:      ent.Color,
		Size:       ent.Size,
		ItemNumber: ent.ItemNumber,
	}
}

func suggestions(text string, r IntentResult) []string {
	out := []string{}
	if r.Confidence < vagueThreshold {
		out = append(out, "Could you please be more specific about what you're looking for?")
	}
	if r.Entities.Category == "" {
		out = append(out, "What type of product are you interested in? (e.g., shoes, clothes, electronics)")
	}
	if r.Intent == IntentSearchProduct && len(r.Entities.Keywords) == 0 {
		out = append(out, "Please specify the product name or category you want to search for.")
	}
	if strings.Contains(text, "add") && cartWord.MatchString(text) && r.Entities.ItemNumber == 0 {
		out = append(out, "Which item would you like to add to cart? Please specify the item number.")
	}
	return out
}

func clarifications(r IntentResult, priceIncomplete bool) []string {
	out := []string{}
	if r.Intent == IntentSearchProduct {
		if r.Entities.Category == "" && len(r.Entities.Keywords) == 0 {
			out = append(out, ClarifyProductType)
		}
		if priceIncomplete {
			out = append(out, ClarifyPriceRange)
		}
	}
	if (r.Intent == IntentAddToCart || r.Intent == IntentProductDetails) && r.Entities.ItemNumber == 0 {
		out = append(out, ClarifyItemNumber)
	}
	return out
}
