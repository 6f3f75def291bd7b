package formatter

import (
	"fmt"
	"strings"

	"vocalcart/internal/models"
)

// DescribeProduct is the full accessible description: position, store,
// title, price with tier, rating, category hint and store tips. position 0
// omits the position.
func DescribeProduct(p models.Product, position int) string {
	parts := make([]string, 0, 8)
	if position > 0 {
		parts = append(parts, fmt.Sprintf("Product number %d", position))
	}
	parts = append(parts,
		"from "+sourceName(p),
		"Product name: "+CleanTitle(p.Title),
		DescribePrice(p.Price.Int()),
		DescribeRating(p.Rating),
		DetectCategory(p.Title),
	)
	parts = append(parts, StoreTips(p)...)
	return strings.Join(parts, ". ") + "."
}

// DescribeBrief is the one-line form used while navigating: title, price and
// rating when the store gave one.
func DescribeBrief(p models.Product, position int) string {
	var b strings.Builder
	if position > 0 {
		fmt.Fprintf(&b, "Product %d: ", position)
	}
	fmt.Fprintf(&b, "%s for %s.", CleanTitle(p.Title), FormatPrice(p.Price.Int()))
	if p.Rating.Present() {
		if v, ok := p.Rating.Value(); ok {
			fmt.Fprintf(&b, " Rating: %.1f stars.", v)
		} else {
			fmt.Fprintf(&b, " Rating: %s.", strings.TrimSpace(string(p.Rating)))
		}
	}
	return b.String()
}

// CompareProducts summarizes each product on one line, then reports the price
// spread, the cheapest and dearest options and the stores involved.
func CompareProducts(products []models.Product) string {
	if len(products) < 2 {
		return "I need at least 2 products to compare."
	}

	parts := []string{fmt.Sprintf("Comparing %d products for you", len(products))}
	for i, p := range products {
		parts = append(parts, fmt.Sprintf("Product %d: %s at %s from %s",
			i+1, CleanTitle(p.Title), FormatPrice(p.Price.Int()), sourceName(p)))
	}

	minIdx, maxIdx := -1, -1
	for i, p := range products {
		price := p.Price.Int()
		if price <= 0 {
			continue
		}
		if minIdx < 0 || price < products[minIdx].Price.Int() {
			minIdx = i
		}
		if maxIdx < 0 || price > products[maxIdx].Price.Int() {
			maxIdx = i
		}
	}
	if minIdx >= 0 {
		parts = append(parts,
			fmt.Sprintf("Price range: from %s to %s",
				FormatPrice(products[minIdx].Price.Int()), FormatPrice(products[maxIdx].Price.Int())),
			fmt.Sprintf("Most affordable: Product %d from %s", minIdx+1, sourceName(products[minIdx])),
			fmt.Sprintf("Most expensive: Product %d from %s", maxIdx+1, sourceName(products[maxIdx])),
		)
	}

	if stores := uniqueSources(products); len(stores) > 1 {
		parts = append(parts, fmt.Sprintf("Products are available from %d different stores: %s",
			len(stores), strings.Join(stores, ", ")))
	}

	for _, p := range products {
		if p.Rating.Present() {
			parts = append(parts, "Rating information available for some products")
			break
		}
	}

	if minIdx >= 0 {
		parts = append(parts, fmt.Sprintf("For best value, I recommend considering product %d as it offers the lowest price", minIdx+1))
	}
	return strings.Join(parts, ". ") + "."
}

// SummarizeSearch announces a result list: count, stores, price spread and how
// to ask for details.
func SummarizeSearch(products []models.Product, query string) string {
	if len(products) == 0 {
		return fmt.Sprintf("I'm sorry, I couldn't find any products matching '%s'. Try using different keywords or check spelling.", query)
	}

	stores := uniqueSources(products)
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d products for '%s' from %d stores: %s. ",
		len(products), query, len(stores), strings.Join(stores, ", "))

	lo, hi, sum, n := 0, 0, 0, 0
	for _, p := range products {
		price := p.Price.Int()
		if price <= 0 {
			continue
		}
		if n == 0 || price < lo {
			lo = price
		}
		if price > hi {
			hi = price
		}
		sum += price
		n++
	}
	if n > 0 {
		fmt.Fprintf(&b, "Prices range from %s to %s, with an average of %s. ",
			FormatPrice(lo), FormatPrice(hi), FormatPrice(sum/n))
	}
	b.WriteString("Products are sorted by price from lowest to highest. ")
	b.WriteString("Say 'tell me about item number' followed by a number to get detailed information about any product.")
	return b.String()
}

func uniqueSources(products []models.Product) []string {
	seen := make(map[string]struct{}, len(products))
	var out []string
	for _, p := range products {
		s := sourceName(p)
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// HelpText lists the spoken commands.
func HelpText() string {
	return strings.Join([]string{
		"Here are the commands you can use.",
		"To search, say find or search followed by what you want, like find white shoes under 500 rupees.",
		"To navigate, say next, previous, first, last, or repeat to hear the current product again.",
		"To pick a product, say item followed by a number, like item 3.",
		"To get details, say tell me about item 2, or tell me more about the current product.",
		"To compare, say compare, or compare item 1 and item 3.",
		"To manage your cart, say add item 2, add to cart, remove item 1, show cart, or clear cart.",
		"To finish, say checkout.",
		"To exit, say exit, quit, or bye.",
	}, " ")
}
