// Package formatter renders products, prices and comparisons as sentences
// suited to a speech synthesizer.
package formatter

import (
	"fmt"
	"regexp"
	"strings"

	"vocalcart/internal/models"
)

const (
	lakh     = 100000
	thousand = 1000

	highValueThreshold = 10000
	unknownStore       = "unknown store"
)

// FormatPrice verbalizes an amount in rupees, e.g. 1500 becomes
// "1 thousand 500 rupees" and 250000 becomes "2 lakh 50 thousand rupees".
func FormatPrice(n int) string {
	if n < 0 {
		n = 0
	}
	if n < thousand {
		return fmt.Sprintf("%d rupees", n)
	}

	parts := make([]string, 0, 3)
	if n >= lakh {
		parts = append(parts, fmt.Sprintf("%d lakh", n/lakh))
		n %= lakh
	}
	if n >= thousand {
		parts = append(parts, fmt.Sprintf("%d thousand", n/thousand))
		n %= thousand
	}
	if n > 0 {
		parts = append(parts, fmt.Sprintf("%d", n))
	}
	return strings.Join(parts, " ") + " rupees"
}

// PriceTier buckets a price: budget below 1000, affordable below 5000,
// mid-range below 20000, premium below 50000, luxury above that.
func PriceTier(n int) string {
	switch {
	case n < 1000:
		return "budget"
	case n < 5000:
		return "affordable"
	case n < 20000:
		return "mid-range"
	case n < 50000:
		return "premium"
	default:
		return "luxury"
	}
}

func priceContext(n int) string {
	switch {
	case n < 500:
		return "This is very affordable"
	case n < 1000:
		return "This is budget-friendly"
	case n < 5000:
		return "This is reasonably priced"
	case n < 20000:
		return "This is a mid-range product"
	case n < 50000:
		return "This is a premium product"
	default:
		return "This is a luxury item"
	}
}

// DescribePrice gives the price, its tier and a short comparison.
func DescribePrice(n int) string {
	if n <= 0 {
		return "Price information not available"
	}
	return fmt.Sprintf("Priced at %s. This is in the %s range. %s", FormatPrice(n), PriceTier(n), priceContext(n))
}

// DescribeRating turns a store rating into words.
func DescribeRating(r models.Rating) string {
	if !r.Present() {
		return "Rating information not available"
	}
	v, ok := r.Value()
	if !ok {
		return fmt.Sprintf("Customer rating: %s", strings.TrimSpace(string(r)))
	}
	return fmt.Sprintf("Customer rating: %.1f out of 5 stars, which is %s", v, ratingQuality(v))
}

func ratingQuality(v float64) string {
	switch {
	case v >= 4.5:
		return "excellent"
	case v >= 4.0:
		return "very good"
	case v >= 3.5:
		return "good"
	case v >= 3.0:
		return "average"
	default:
		return "below average"
	}
}

type categoryHint struct {
	pattern *regexp.Regexp
	info    string
}

var categoryHints = []categoryHint{
	{regexp.MustCompile(`\b(?:shirt|tshirt|t-shirt|top|blouse|dress|pant|jean|trouser|short|kurta|saree)`),
		"This is a clothing item. Consider size, material, and washing instructions"},
	{regexp.MustCompile(`\b(?:shoe|sneaker|boot|sandal|slipper|heel|loafer)`),
		"This is footwear. Consider size, comfort, and occasion suitability"},
	{regexp.MustCompile(`\b(?:phone|mobile|smartphone|laptop|computer|tablet|headphone|speaker)`),
		"This is an electronic device. Check warranty, specifications, and compatibility"},
	{regexp.MustCompile(`\b(?:book|novel|guide|manual|textbook)`),
		"This is reading material. Consider format (physical or digital) and language"},
	{regexp.MustCompile(`\b(?:furniture|chair|table|bed|sofa|lamp|decor)`),
		"This is a home item. Consider dimensions, assembly requirements, and room fit"},
	{regexp.MustCompile(`\b(?:cream|lotion|makeup|perfume|shampoo|soap)`),
		"This is a beauty or personal care product. Check ingredients for allergies"},
}

const unknownCategory = "Product category could not be determined automatically"

// DetectCategory returns a shopping hint for the category a title suggests.
func DetectCategory(title string) string {
	lower := strings.ToLower(title)
	for _, h := range categoryHints {
		if h.pattern.MatchString(lower) {
			return h.info
		}
	}
	return unknownCategory
}

// StoreTips returns store and price specific advice, possibly none.
func StoreTips(p models.Product) []string {
	var tips []string
	source := strings.ToLower(p.Source)
	switch {
	case strings.Contains(source, "flipkart"):
		tips = append(tips, "Flipkart offers easy returns and customer support for accessibility needs")
	case strings.Contains(source, "myntra"):
		tips = append(tips, "Myntra provides detailed size guides and return policies")
	case strings.Contains(source, "amazon"):
		tips = append(tips, "Amazon offers voice shopping through Alexa and detailed product descriptions")
	}
	if p.Price.Int() > highValueThreshold {
		tips = append(tips, "For high-value items, consider reading customer reviews and checking return policies carefully")
	}
	return tips
}

func sourceName(p models.Product) string {
	if s := strings.TrimSpace(p.Source); s != "" {
		return s
	}
	return unknownStore
}
