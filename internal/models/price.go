package models

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Price is an amount in whole rupees. It decodes from JSON numbers and from
// display strings such as "₹1,499", "Rs. 2,000.00" or "1,299 - 1,599".
type Price int

var priceDigits = regexp.MustCompile(`\d[\d,]*`)

// NormalizePrice converts a raw price of any supported shape into a
// non-negative integer. Anything unparsable becomes 0. For strings the first
// digit group is used after dropping thousands separators, so decimals and the
// upper half of a range are ignored.
func NormalizePrice(raw interface{}) int {
	switch v := raw.(type) {
	case nil:
		return 0
	case int:
		return clampPrice(int64(v))
	case int32:
		return clampPrice(int64(v))
	case int64:
		return clampPrice(v)
	case float32:
		return floatPrice(float64(v))
	case float64:
		return floatPrice(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return clampPrice(i)
		}
		if f, err := v.Float64(); err == nil {
			return floatPrice(f)
		}
		return 0
	case Price:
		return clampPrice(int64(v))
	case string:
		return parsePriceString(v)
	default:
		return 0
	}
}

func parsePriceString(s string) int {
	group := priceDigits.FindString(strings.TrimSpace(s))
	if group == "" {
		return 0
	}
	digits := strings.ReplaceAll(group, ",", "")
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return clampPrice(n)
}

func floatPrice(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f > math.MaxInt32 {
		return 0
	}
	return clampPrice(int64(f))
}

func clampPrice(n int64) int {
	if n < 0 || n > math.MaxInt32 {
		return 0
	}
	return int(n)
}

// Int returns the price as an int.
func (p Price) Int() int {
	return int(p)
}

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*p = 0
			return nil
		}
		*p = Price(parsePriceString(s))
		return nil
	}
	*p = Price(NormalizePrice(json.Number(string(data))))
	return nil
}
