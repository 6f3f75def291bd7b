package nlp

import "time"

// Intent is the coarse goal behind an utterance.
type Intent string

const (
	IntentSearchProduct   Intent = "search_product"
	IntentNavigation      Intent = "navigation"
	IntentProductDetails  Intent = "product_details"
	IntentAddToCart       Intent = "add_to_cart"
	IntentViewCart        Intent = "view_cart"
	IntentCompareProducts Intent = "compare_products"
	IntentCheckout        Intent = "checkout"
	IntentHelp            Intent = "help"
	IntentExit            Intent = "exit"
	IntentUnknown         Intent = "unknown"
)

// PriceConstraint names which keyword class produced a price range.
type PriceConstraint string

const (
	PriceNone        PriceConstraint = ""
	PriceBetween     PriceConstraint = "between"
	PriceUnder       PriceConstraint = "under"
	PriceAbove       PriceConstraint = "above"
	PriceAround      PriceConstraint = "around"
	PriceImplicitMax PriceConstraint = "implicit_max"
)

// PriceRange holds optional bounds in rupees.
type PriceRange struct {
	Min  *int            `json:"min_price,omitempty"`
	Max  *int            `json:"max_price,omitempty"`
	Kind PriceConstraint `json:"type,omitempty"`
}

// IsEmpty reports whether neither bound is set.
func (r PriceRange) IsEmpty() bool {
	return r.Min == nil && r.Max == nil
}

// Entities are the structured values found in an utterance.
type Entities struct {
	Category   string     `json:"product_category,omitempty"`
	Brand      string     `json:"brand,omitempty"`
	Color      string     `json:"color,omitempty"`
	Size       string     `json:"size,omitempty"`
	PriceRange PriceRange `json:"price_range"`
	ItemNumber int        `json:"item_number,omitempty"`
	Keywords   []string   `json:"keywords"`
	Modifiers  []string   `json:"modifiers"`
}

// ParsedQuery is the search request handed to a product source.
type ParsedQuery struct {
	Keywords   string `json:"keywords"`
	MinPrice   *int   `json:"min_price,omitempty"`
	MaxPrice   *int   `json:"max_price,omitempty"`
	Category   string `json:"category,omitempty"`
	Brand      string `json:"brand,omitempty"`
	Color      string `json:"color,omitempty"`
	Size       string `json:"size,omitempty"`
	ItemNumber int    `json:"item_number,omitempty"`
}

// IntentResult is the full analysis of one utterance.
type IntentResult struct {
	Text                 string      `json:"text"`
	Intent               Intent      `json:"intent"`
	Entities             Entities    `json:"entities"`
	Query                ParsedQuery `json:"query"`
	Confidence           float64     `json:"confidence"`
	Suggestions          []string    `json:"suggestions"`
	ClarificationsNeeded []string    `json:"clarifications_needed"`
	Timestamp            time.Time   `json:"timestamp"`
}

func intPtr(v int) *int {
	return &v
}
