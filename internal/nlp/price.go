package nlp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// minPriceToken drops small numbers such as sizes and quantities.
const minPriceToken = 10

var (
	priceNumber = regexp.MustCompile(`\d+(?:,\d+)*`)

	betweenPattern = regexp.MustCompile(`\bbetween\b.*\band\b|\bfrom\b.*\bto\b|\brange\b.*\bto\b|\d\s*(?:-|to)\s*\d`)
	underPattern   = regexp.MustCompile(`\b(?:under|below|less than|cheaper than|within|upto|up to)\b`)
	abovePattern   = regexp.MustCompile(`\b(?:above|over|more than|starting from|minimum)\b`)
	aroundPattern  = regexp.MustCompile(`\b(?:around|about|exactly|approximately|precisely)\b`)
)

type priceExtraction struct {
	rng PriceRange
	// incomplete is set when a two-bound phrase carried fewer than two prices.
	incomplete bool
}

// ExtractPriceRange reads price bounds from already normalized text.
func ExtractPriceRange(text string) PriceRange {
	return extractPrice(text).rng
}

func extractPrice(text string) priceExtraction {
	var out priceExtraction

	nums := priceTokens(text)
	if len(nums) == 0 {
		return out
	}

	switch {
	case betweenPattern.MatchString(text) && len(nums) >= 2:
		lo, hi := minMax(nums)
		out.rng = PriceRange{Min: intPtr(lo), Max: intPtr(hi), Kind: PriceBetween}
	case underPattern.MatchString(text):
		_, hi := minMax(nums)
		out.rng = PriceRange{Max: intPtr(hi), Kind: PriceUnder}
	case abovePattern.MatchString(text):
		lo, _ := minMax(nums)
		out.rng = PriceRange{Min: intPtr(lo), Kind: PriceAbove}
	case aroundPattern.MatchString(text):
		n := nums[0]
		// floor(0.8n) and ceil(1.2n) in integer arithmetic.
		out.rng = PriceRange{Min: intPtr(n * 8 / 10), Max: intPtr((n*12 + 9) / 10), Kind: PriceAround}
	default:
		out.rng = PriceRange{Max: intPtr(nums[0]), Kind: PriceImplicitMax}
	}

	if betweenPattern.MatchString(text) && len(nums) < 2 {
		out.incomplete = true
	}

	if out.rng.Min != nil && out.rng.Max != nil && *out.rng.Min > *out.rng.Max {
		out.rng.Min, out.rng.Max = out.rng.Max, out.rng.Min
	}
	return out
}

func priceTokens(text string) []int {
	var nums []int
	for _, raw := range priceNumber.FindAllString(text, -1) {
		n, err := strconv.Atoi(strings.ReplaceAll(raw, ",", ""))
		if err != nil || n <= minPriceToken {
			continue
		}
		nums = append(nums, n)
	}
	return nums
}

func minMax(nums []int) (int, int) {
	lo, hi := nums[0], nums[0]
	for _, n := range nums[1:] {
		if n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}
	return lo, hi
}

// PriceRangeDescription renders bounds as a phrase that ExtractPriceRange reads
// back to the same bounds. It returns an empty string when both are nil.
func PriceRangeDescription(min, max *int) string {
	switch {
	case min != nil && max != nil:
		lo, hi := *min, *max
		if lo > hi {
			lo, hi = hi, lo
		}
		return fmt.Sprintf("between %d and %d", lo, hi)
	case max != nil:
		return fmt.Sprintf("under %d", *max)
	case min != nil:
		return fmt.Sprintf("above %d", *min)
	default:
		return ""
	}
}
