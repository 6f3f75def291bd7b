package formatter

import (
	"strings"
	"testing"

	"vocalcart/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in       int
		expected string
	}{
		{in: -5, expected: "0 rupees"},
		{in: 0, expected: "0 rupees"},
		{in: 999, expected: "999 rupees"},
		{in: 1000, expected: "1 thousand rupees"},
		{in: 1500, expected: "1 thousand 500 rupees"},
		{in: 100000, expected: "1 lakh rupees"},
		{in: 100050, expected: "1 lakh 50 rupees"},
		{in: 250000, expected: "2 lakh 50 thousand rupees"},
		{in: 150500, expected: "1 lakh 50 thousand 500 rupees"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPrice(tt.in))
		})
	}
}

func TestPriceTier(t *testing.T) {
	tests := []struct {
		in       int
		expected string
	}{
		{in: 0, expected: "budget"},
		{in: 999, expected: "budget"},
		{in: 1000, expected: "affordable"},
		{in: 4999, expected: "affordable"},
		{in: 5000, expected: "mid-range"},
		{in: 19999, expected: "mid-range"},
		{in: 20000, expected: "premium"},
		{in: 50000, expected: "luxury"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, PriceTier(tt.in), "price %d", tt.in)
	}
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{name: "abbreviation and pipe", in: "Nike Mens Running Shoes (Black) | Size 9", expected: "Nike men's Running Shoes (Black) Size 9"},
		{name: "symbols become words", in: "Boat Bluetooth Speaker & USB-C", expected: "Boat Bluetooth Speaker and U S B-C"},
		{name: "percent and led", in: "50% off LED lamp 500ml", expected: "50 percent off L E D lamp 500ml"},
		{name: "plus", in: "Vitamin C+E serum", expected: "Vitamin C plus E serum"},
		{name: "empty", in: "", expected: "Unknown product"},
		{name: "only punctuation", in: "!!!", expected: "Unknown product"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanTitle(tt.in))
		})
	}
}

func TestDescribeRating(t *testing.T) {
	tests := []struct {
		in       models.Rating
		expected string
	}{
		{in: "4.6", expected: "Customer rating: 4.6 out of 5 stars, which is excellent"},
		{in: "4", expected: "Customer rating: 4.0 out of 5 stars, which is very good"},
		{in: "3.9 out of 5", expected: "Customer rating: 3.9 out of 5 stars, which is good"},
		{in: "3.0", expected: "Customer rating: 3.0 out of 5 stars, which is average"},
		{in: "2.1", expected: "Customer rating: 2.1 out of 5 stars, which is below average"},
		{in: "New", expected: "Customer rating: New"},
		{in: "", expected: "Rating information not available"},
		{in: "No rating", expected: "Rating information not available"},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.expected, DescribeRating(tt.in))
		})
	}
}

func TestDetectCategory(t *testing.T) {
	assert.Contains(t, DetectCategory("Dell Inspiron Laptop"), "electronic device")
	assert.Contains(t, DetectCategory("Cotton Kurta"), "clothing item")
	assert.Contains(t, DetectCategory("Puma Sneakers"), "footwear")
	assert.Equal(t, unknownCategory, DetectCategory("Widget"))
}

func TestStoreTips(t *testing.T) {
	tips := StoreTips(models.Product{Title: "TV", Price: 15000, Source: "Amazon"})
	assert.Len(t, tips, 2)
	assert.Contains(t, tips[0], "Alexa")

	assert.Empty(t, StoreTips(models.Product{Title: "Pen", Price: 100, Source: "Local"}))
}

func TestDescribeProduct(t *testing.T) {
	p := models.Product{Title: "Running Shoe", Price: 1500, Rating: "4.2", Source: "Flipkart"}

	desc := DescribeProduct(p, 2)

	assert.True(t, strings.HasPrefix(desc, "Product number 2. from Flipkart. Product name: Running Shoe. "))
	assert.Contains(t, desc, "Priced at 1 thousand 500 rupees. This is in the affordable range. This is reasonably priced")
	assert.Contains(t, desc, "Customer rating: 4.2 out of 5 stars, which is very good")
	assert.Contains(t, desc, "This is footwear")
	assert.Contains(t, desc, "Flipkart offers easy returns")
	assert.True(t, strings.HasSuffix(desc, "."))

	noPos := DescribeProduct(models.Product{Title: "Lamp"}, 0)
	assert.True(t, strings.HasPrefix(noPos, "from unknown store. "))
	assert.Contains(t, noPos, "Price information not available")
	assert.Contains(t, noPos, "Rating information not available")
}

func TestDescribeBrief(t *testing.T) {
	assert.Equal(t, "Product 1: Lamp for 499 rupees.", DescribeBrief(models.Product{Title: "Lamp", Price: 499}, 1))
	assert.Equal(t, "Kurta for 1 thousand rupees. Rating: 4.0 stars.",
		DescribeBrief(models.Product{Title: "Kurta", Price: 1000, Rating: "4"}, 0))
}

func TestCompareProducts(t *testing.T) {
	assert.Equal(t, "I need at least 2 products to compare.", CompareProducts(nil))
	assert.Equal(t, "I need at least 2 products to compare.", CompareProducts([]models.Product{{Title: "A"}}))

	out := CompareProducts([]models.Product{
		{Title: "Shoe A", Price: 2000, Source: "Amazon"},
		{Title: "Shoe B", Price: 1500, Source: "Flipkart", Rating: "4.1"},
	})

	assert.True(t, strings.HasPrefix(out, "Comparing 2 products for you. Product 1: Shoe A at 2 thousand rupees from Amazon"))
	assert.Contains(t, out, "Product 2: Shoe B at 1 thousand 500 rupees from Flipkart")
	assert.Contains(t, out, "Price range: from 1 thousand 500 rupees to 2 thousand rupees")
	assert.Contains(t, out, "Most affordable: Product 2 from Flipkart")
	assert.Contains(t, out, "Most expensive: Product 1 from Amazon")
	assert.Contains(t, out, "Products are available from 2 different stores: Amazon, Flipkart")
	assert.Contains(t, out, "Rating information available for some products")
	assert.Contains(t, out, "I recommend considering product 2")
}

func TestSummarizeSearch(t *testing.T) {
	empty := SummarizeSearch(nil, "unicorn")
	assert.Equal(t, "I'm sorry, I couldn't find any products matching 'unicorn'. Try using different keywords or check spelling.", empty)

	out := SummarizeSearch([]models.Product{
		{Title: "A", Price: 1000, Source: "Flipkart"},
		{Title: "B", Price: 2000, Source: "Amazon"},
		{Title: "C", Price: 0, Source: "Flipkart"},
	}, "shoes")

	assert.True(t, strings.HasPrefix(out, "Found 3 products for 'shoes' from 2 stores: Flipkart, Amazon. "))
	assert.Contains(t, out, "Prices range from 1 thousand rupees to 2 thousand rupees, with an average of 1 thousand 500 rupees.")
	assert.Contains(t, out, "Say 'tell me about item number' followed by a number")
}

func TestHelpText(t *testing.T) {
	help := HelpText()
	for _, want := range []string{"find", "next", "add item", "compare", "checkout", "exit"} {
		assert.Contains(t, help, want)
	}
}
