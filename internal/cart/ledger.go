// Package cart holds the per-session shopping cart.
package cart

import (
	"fmt"
	"strings"
	"time"

	apperrors "vocalcart/internal/common/errors"
	"vocalcart/internal/formatter"
	"vocalcart/internal/models"
)

// Line is one product in the cart. Product is a copy taken when it was added.
type Line struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
	AddedAt  time.Time      `json:"added_at"`
}

// Subtotal is price times quantity.
func (l Line) Subtotal() int {
	return l.Product.Price.Int() * l.Quantity
}

// RemoveRequest selects a line by title, or by 1-based index when Title is
// empty. ByIndex marks Index as supplied even when it is 0.
type RemoveRequest struct {
	Title   string
	Index   int
	ByIndex bool
}

// Snapshot is the persisted form of a ledger.
type Snapshot struct {
	Items     []Line    `json:"items"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`
}

// Ledger is an ordered set of cart lines keyed by case-insensitive title.
// It is not safe for concurrent use; the owning session serializes access.
type Ledger struct {
	lines     []Line
	createdAt time.Time
	updatedAt time.Time
	now       func() time.Time
}

// New returns an empty ledger.
func New() *Ledger {
	return newWithClock(time.Now)
}

func newWithClock(now func() time.Time) *Ledger {
	t := now().UTC()
	return &Ledger{createdAt: t, updatedAt: t, now: now}
}

func (l *Ledger) touch() time.Time {
	t := l.now().UTC()
	l.updatedAt = t
	return t
}

// AddItem adds quantity units of p, merging with an existing line of the same
// title. Quantities below 1 count as 1.
func (l *Ledger) AddItem(p models.Product, quantity int) (string, error) {
	if p.IsZero() {
		return "No product to add", apperrors.NewInvalidCommandError("no product to add")
	}
	if quantity < 1 {
		quantity = 1
	}
	if p.Price < 0 {
		p.Price = 0
	}
	title := formatter.CleanTitle(p.Title)

	if i := l.indexOf(p.Key()); i >= 0 {
		l.lines[i].Quantity += quantity
		l.touch()
		return fmt.Sprintf("Increased quantity of %s to %d", title, l.lines[i].Quantity), nil
	}

	l.lines = append(l.lines, Line{Product: p, Quantity: quantity, AddedAt: l.touch()})
	if quantity > 1 {
		return fmt.Sprintf("Added %d units of %s to your cart", quantity, title), nil
	}
	return fmt.Sprintf("Added %s to your cart", title), nil
}

// RemoveItem drops a whole line: the 1-based Index, or the first line whose
// title contains Title.
func (l *Ledger) RemoveItem(req RemoveRequest) (string, error) {
	if len(l.lines) == 0 {
		return "Your cart is empty", apperrors.NewCartEmptyError("remove")
	}

	title := strings.ToLower(strings.TrimSpace(req.Title))
	if title == "" {
		if req.Index == 0 && !req.ByIndex {
			return "Please specify which item to remove", apperrors.NewMissingItemNumberError("remove")
		}
		if req.Index < 1 || req.Index > len(l.lines) {
			return fmt.Sprintf("Invalid item number. Please choose between 1 and %d", len(l.lines)),
				apperrors.NewItemOutOfRangeError(req.Index, len(l.lines))
		}
		return l.removeAt(req.Index - 1), nil
	}

	for i, line := range l.lines {
		if strings.Contains(line.Product.Key(), title) {
			return l.removeAt(i), nil
		}
	}
	return fmt.Sprintf("Could not find %s in your cart", req.Title),
		apperrors.NewInvalidCommandError(fmt.Sprintf("no cart line matches %q", req.Title))
}

func (l *Ledger) removeAt(i int) string {
	removed := l.lines[i]
	l.lines = append(l.lines[:i], l.lines[i+1:]...)
	l.touch()
	return fmt.Sprintf("Removed %s from your cart", formatter.CleanTitle(removed.Product.Title))
}

// Clear empties the ledger.
func (l *Ledger) Clear() string {
	l.lines = nil
	t := l.touch()
	l.createdAt = t
	return "Your cart has been cleared"
}

// Summary reads the cart back line by line with the total.
func (l *Ledger) Summary() string {
	if len(l.lines) == 0 {
		return "Your cart is empty"
	}

	units := l.Units()
	plural := "s"
	if units == 1 {
		plural = ""
	}
	parts := []string{fmt.Sprintf("You have %d item%s in your cart", units, plural)}
	for i, line := range l.lines {
		title := formatter.CleanTitle(line.Product.Title)
		price := formatter.FormatPrice(line.Product.Price.Int())
		if line.Quantity > 1 {
			parts = append(parts, fmt.Sprintf("Item %d: %d units of %s at %s each", i+1, line.Quantity, title, price))
		} else {
			parts = append(parts, fmt.Sprintf("Item %d: %s at %s", i+1, title, price))
		}
	}
	parts = append(parts, "Total amount: "+formatter.FormatPrice(l.Total()))
	return strings.Join(parts, ". ") + "."
}

// Checkout returns the itemized confirmation and clears the ledger.
func (l *Ledger) Checkout() (string, error) {
	if len(l.lines) == 0 {
		return "Your cart is empty. Add some items before checkout.", apperrors.NewCartEmptyError("checkout")
	}
	msg := strings.Join([]string{
		"Proceeding to checkout.",
		l.Summary(),
		"To complete your purchase, you would be redirected to the store's payment page.",
		"Your order has been placed.",
		"Thank you for using VocalCart!",
	}, " ")
	l.Clear()
	return msg, nil
}

// Total is recomputed from the lines on every call.
func (l *Ledger) Total() int {
	total := 0
	for _, line := range l.lines {
		total += line.Subtotal()
	}
	return total
}

// Units counts every unit across lines.
func (l *Ledger) Units() int {
	n := 0
	for _, line := range l.lines {
		n += line.Quantity
	}
	return n
}

// Len is the number of distinct lines.
func (l *Ledger) Len() int {
	return len(l.lines)
}

// Lines returns a copy of the lines in insertion order.
func (l *Ledger) Lines() []Line {
	out := make([]Line, len(l.lines))
	copy(out, l.lines)
	return out
}

// Snapshot captures the ledger for persistence.
func (l *Ledger) Snapshot() Snapshot {
	return Snapshot{
		Items:     l.Lines(),
		Total:     l.Total(),
		CreatedAt: l.createdAt,
		UpdatedAt: l.updatedAt,
	}
}

// Restore replaces the ledger contents with s. Blank titles are dropped,
// quantities below 1 become 1 and lines sharing a title are merged. The stored
// total is ignored and recomputed.
func (l *Ledger) Restore(s Snapshot) {
	l.lines = nil
	for _, line := range s.Items {
		if line.Product.IsZero() {
			continue
		}
		if line.Quantity < 1 {
			line.Quantity = 1
		}
		if line.Product.Price < 0 {
			line.Product.Price = 0
		}
		if i := l.indexOf(line.Product.Key()); i >= 0 {
			l.lines[i].Quantity += line.Quantity
			continue
		}
		l.lines = append(l.lines, line)
	}
	if !s.CreatedAt.IsZero() {
		l.createdAt = s.CreatedAt
	}
	if !s.UpdatedAt.IsZero() {
		l.updatedAt = s.UpdatedAt
	}
}

func (l *Ledger) indexOf(key string) int {
	for i, line := range l.lines {
		if line.Product.Key() == key {
			return i
		}
	}
	return -1
}
