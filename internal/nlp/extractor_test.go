package nlp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var fixedTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func createTestExtractor() *Extractor {
	return &Extractor{now: func() time.Time { return fixedTime }}
}

// ==========================
// Analyze Tests
// ==========================

func TestExtractor_Analyze(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		expectedIntent Intent
		validateOutput func(t *testing.T, r IntentResult)
	}{
		{
			name:           "search with price ceiling",
			text:           "Find shoes under 2000 rupees",
			expectedIntent: IntentSearchProduct,
			validateOutput: func(t *testing.T, r IntentResult) {
				assert.Equal(t, "find shoes under 2000 rupees", r.Text)
				assert.Equal(t, "footwear", r.Entities.Category)
				assert.Contains(t, r.Entities.Keywords, "shoes")
				require.NotNil(t, r.Query.MaxPrice)
				assert.Equal(t, 2000, *r.Query.MaxPrice)
				assert.Nil(t, r.Query.MinPrice)
				assert.Equal(t, "footwear shoes", r.Query.Keywords)
				assert.InDelta(t, 1.0, r.Confidence, 0.0001)
				assert.Empty(t, r.Suggestions)
			},
		},
		{
			name:           "bare category word defaults to search",
			text:           "shoes",
			expectedIntent: IntentSearchProduct,
			validateOutput: func(t *testing.T, r IntentResult) {
				assert.Greater(t, r.Confidence, 0.0)
				assert.Equal(t, "footwear shoes", r.Query.Keywords)
			},
		},
		{
			name:           "unmatched text fails open to search",
			text:           "around 1000",
			expectedIntent: IntentSearchProduct,
			validateOutput: func(t *testing.T, r IntentResult) {
				require.NotNil(t, r.Query.MinPrice)
				require.NotNil(t, r.Query.MaxPrice)
				assert.Equal(t, 800, *r.Query.MinPrice)
				assert.Equal(t, 1200, *r.Query.MaxPrice)
				assert.Equal(t, "around", r.Query.Keywords)
				assert.Contains(t, r.Suggestions, "Could you please be more specific about what you're looking for?")
			},
		},
		{
			name:           "item number suppresses price extraction",
			text:           "show item 15",
			expectedIntent: IntentAddToCart,
			validateOutput: func(t *testing.T, r IntentResult) {
				assert.Equal(t, 15, r.Entities.ItemNumber)
				assert.True(t, r.Entities.PriceRange.IsEmpty())
				assert.Nil(t, r.Query.MaxPrice)
			},
		},
		{
			name:           "add item to cart",
			text:           "add item 3 to cart",
			expectedIntent: IntentAddToCart,
			validateOutput: func(t *testing.T, r IntentResult) {
				assert.Equal(t, 3, r.Entities.ItemNumber)
				assert.InDelta(t, 1.0, r.Confidence, 0.0001)
				assert.NotContains(t, r.ClarificationsNeeded, ClarifyItemNumber)
			},
		},
		{
			name:           "details with transcription slips",
			text:           "tel me about itam 4",
			expectedIntent: IntentProductDetails,
			validateOutput: func(t *testing.T, r IntentResult) {
				assert.Equal(t, "tell me about item 4", r.Text)
				assert.Equal(t, 4, r.Entities.ItemNumber)
			},
		},
		{
			name:           "item number spoken with number word",
			text:           "tell me about item number 7",
			expectedIntent: IntentProductDetails,
			validateOutput: func(t *testing.T, r IntentResult) {
				assert.Equal(t, 7, r.Entities.ItemNumber)
			},
		},
		{
			name:           "add to cart without number asks for one",
			text:           "add this to my cart",
			expectedIntent: IntentAddToCart,
			validateOutput: func(t *testing.T, r IntentResult) {
				assert.Contains(t, r.ClarificationsNeeded, ClarifyItemNumber)
			},
		},
		{
			name:           "view cart",
			text:           "what's in my cart",
			expectedIntent: IntentViewCart,
		},
		{
			name:           "compare beats item scoring on tie",
			text:           "compare item 1 and item 2",
			expectedIntent: IntentCompareProducts,
		},
		{
			name:           "checkout",
			text:           "checkout",
			expectedIntent: IntentCheckout,
		},
		{
			name:           "help",
			text:           "help",
			expectedIntent: IntentHelp,
		},
		{
			name:           "exit",
			text:           "goodbye",
			expectedIntent: IntentExit,
		},
		{
			name:           "navigation",
			text:           "next",
			expectedIntent: IntentNavigation,
		},
		{
			name:           "brand color and size",
			text:           "I want red Nike shoes size 9",
			expectedIntent: IntentSearchProduct,
			validateOutput: func(t *testing.T, r IntentResult) {
				assert.Equal(t, "nike", r.Entities.Brand)
				assert.Equal(t, "red", r.Entities.Color)
				assert.Equal(t, "9", r.Entities.Size)
				assert.Equal(t, "footwear", r.Entities.Category)
				assert.True(t, r.Entities.PriceRange.IsEmpty())
			},
		},
		{
			name:           "numeric size is not read as a price",
			text:           "15 inch laptop",
			expectedIntent: IntentSearchProduct,
			validateOutput: func(t *testing.T, r IntentResult) {
				assert.Equal(t, "15 inch", r.Entities.Size)
				assert.Equal(t, "electronics", r.Entities.Category)
				assert.True(t, r.Entities.PriceRange.IsEmpty())
			},
		},
		{
			name:           "category synonym must begin a word",
			text:           "search laptop",
			expectedIntent: IntentSearchProduct,
			validateOutput: func(t *testing.T, r IntentResult) {
				assert.Equal(t, "electronics", r.Entities.Category)
			},
		},
		{
			name:           "incomplete range asks for price range",
			text:           "shoes between 500 and",
			expectedIntent: IntentSearchProduct,
			validateOutput: func(t *testing.T, r IntentResult) {
				assert.Contains(t, r.ClarificationsNeeded, ClarifyPriceRange)
			},
		},
		{
			name:           "modifiers deduplicated in order",
			text:           "cheap comfortable shoes cheap",
			expectedIntent: IntentSearchProduct,
			validateOutput: func(t *testing.T, r IntentResult) {
				assert.Equal(t, []string{"cheap", "comfortable"}, r.Entities.Modifiers)
				assert.Equal(t, "footwear cheap comfortable shoes", r.Query.Keywords)
			},
		},
	}

	ext := createTestExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ext.Analyze(tt.text)
			assert.Equal(t, tt.expectedIntent, r.Intent)
			assert.Equal(t, fixedTime, r.Timestamp)
			assert.GreaterOrEqual(t, r.Confidence, 0.0)
			assert.LessOrEqual(t, r.Confidence, 1.0)
			assert.NotEmpty(t, r.Query.Keywords)
			if tt.validateOutput != nil {
				tt.validateOutput(t, r)
			}
		})
	}
}

func TestExtractor_Analyze_EmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		r := createTestExtractor().Analyze(text)
		assert.Equal(t, IntentUnknown, r.Intent)
		assert.Equal(t, 0.0, r.Confidence)
		assert.Equal(t, "products", r.Query.Keywords)
	}
}

func TestAnalyze_DefaultExtractor(t *testing.T) {
	r := Analyze("find a blue shirt")
	assert.Equal(t, IntentSearchProduct, r.Intent)
	assert.Equal(t, "clothing", r.Entities.Category)
	assert.Equal(t, "blue", r.Entities.Color)
	assert.False(t, r.Timestamp.IsZero())
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{in: "  Find   SHOES  ", expected: "find shoes"},
		{in: "shoes under rupees 500", expected: "shoes under 500"},
		{in: "ad to cart item 2", expected: "add to cart item 2"},
		{in: "show mee mobil phones", expected: "show me mobile phones"},
		{in: "automobile", expected: "automobile"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.in))
		})
	}
}

// ==========================
// Query Formatting Tests
// ==========================

func TestFormatSearchQuery(t *testing.T) {
	tests := []struct {
		name     string
		entities Entities
		expected string
	}{
		{
			name: "entities first then limited keywords",
			entities: Entities{
				Category: "footwear",
				Brand:    "nike",
				Keywords: []string{"find", "nike", "running", "shoes", "under", "rupees", "today"},
			},
			expected: "footwear nike running shoes",
		},
		{
			name:     "only skip words falls back",
			entities: Entities{Keywords: []string{"search", "under", "price"}},
			expected: "products",
		},
		{
			name:     "nothing at all",
			entities: Entities{},
			expected: "products",
		},
		{
			name:     "case insensitive dedupe",
			entities: Entities{Color: "black", Keywords: []string{"Black", "kurta"}},
			expected: "black kurta",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatSearchQuery(tt.entities))
		})
	}
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, "footwear", CategoryOf("Puma Red Sneakers"))
	assert.Equal(t, "clothing", CategoryOf("Red Cotton Kurta"))
	assert.Equal(t, "electronics", CategoryOf("Dell Laptop 15 inch"))
	assert.Equal(t, "", CategoryOf("Stop Watch"))
}
