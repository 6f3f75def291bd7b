package models

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Product is one catalog listing. Values are copied into session result
// lists and cart lines, never shared by pointer.
type Product struct {
	Title  string `json:"title"`
	Price  Price  `json:"price"`
	Rating Rating `json:"rating,omitempty"`
	Source string `json:"source"`
	URL    string `json:"url,omitempty"`
}

// IsZero reports whether p carries nothing worth adding to a cart.
func (p Product) IsZero() bool {
	return strings.TrimSpace(p.Title) == ""
}

// Key is the case-insensitive identity used for cart de-duplication.
func (p Product) Key() string {
	return strings.ToLower(strings.TrimSpace(p.Title))
}

// Rating keeps the store's rating text. Stores send numbers ("4.3"), strings
// ("4.3 out of 5") or placeholders ("No rating").
type Rating string

var ratingNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Value extracts the numeric rating, if any.
func (r Rating) Value() (float64, bool) {
	s := strings.TrimSpace(string(r))
	if s == "" || strings.EqualFold(s, "no rating") {
		return 0, false
	}
	m := ratingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Present reports whether the store supplied any rating text.
func (r Rating) Present() bool {
	s := strings.TrimSpace(string(r))
	return s != "" && !strings.EqualFold(s, "no rating")
}

func (r *Rating) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Rating(s)
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*r = ""
		return nil
	}
	*r = Rating(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}
