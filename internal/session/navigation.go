package session

import (
	"context"
	"fmt"

	"vocalcart/internal/command"
	apperrors "vocalcart/internal/common/errors"
	"vocalcart/internal/formatter"
	"vocalcart/internal/models"
)

const (
	noProductsMessage = "No products available. Please search for products first."

	promptMore   = " Say buy this to purchase, or next for more options."
	promptAtEnd  = " Say buy this to purchase, or previous to go back."
	promptRepeat = " Say buy this to purchase, next for the next product, or previous to go back."
)

// Next moves the cursor forward one product.
func (m *Manager) Next(ctx context.Context, sessionID string) Response {
	return m.move(ctx, sessionID, string(command.KindNext), func(st *State) (bool, string) {
		if st.index >= len(st.products)-1 {
			return false, "This is the last product. Say first to go back to the beginning, or search for new products."
		}
		st.index++
		return true, "Next product: "
	}, promptMore)
}

// Previous moves the cursor back one product.
func (m *Manager) Previous(ctx context.Context, sessionID string) Response {
	return m.move(ctx, sessionID, string(command.KindPrevious), func(st *State) (bool, string) {
		if st.index == 0 {
			return false, "This is the first product. Say next to move forward, or last to go to the end."
		}
		st.index--
		return true, "Previous product: "
	}, promptMore)
}

// First jumps to the first product.
func (m *Manager) First(ctx context.Context, sessionID string) Response {
	return m.move(ctx, sessionID, string(command.KindFirst), func(st *State) (bool, string) {
		st.index = 0
		return true, "First product: "
	}, promptMore)
}

// Last jumps to the final product.
func (m *Manager) Last(ctx context.Context, sessionID string) Response {
	return m.move(ctx, sessionID, string(command.KindLast), func(st *State) (bool, string) {
		st.index = len(st.products) - 1
		return true, "Last product: "
	}, promptAtEnd)
}

// Repeat reads the current product again, including its store.
func (m *Manager) Repeat(ctx context.Context, sessionID string) Response {
	action := string(command.KindRepeat)
	var resp Response
	m.registry.with(ctx, sessionID, func(st *State) {
		p, ok := st.current()
		if !ok {
			resp = m.noProducts(action)
			return
		}
		st.setFocus(p)
		msg := "Current product: " + formatter.DescribeBrief(p, 0)
		if p.Source != "" {
			msg += fmt.Sprintf(" Available on %s.", p.Source)
		}
		resp = m.productResponse(st, action, msg+promptRepeat, p)
	})
	return resp
}

// SelectItem moves the cursor to the 1-based item n.
func (m *Manager) SelectItem(ctx context.Context, sessionID string, n int) Response {
	action := string(command.KindSelectItem)
	var resp Response
	m.registry.with(ctx, sessionID, func(st *State) {
		if len(st.products) == 0 {
			resp = m.noProducts(action)
			return
		}
		p, ok := st.item(n)
		if !ok {
			resp = m.itemUnavailable(st, action, n)
			return
		}
		st.index = n - 1
		st.setFocus(p)
		resp = m.productResponse(st, action, formatter.DescribeBrief(p, n)+promptMore, p)
		resp.Data["item_number"] = n
	})
	return resp
}

// Buy reports the purchase details of item n, or of the current product when
// n is 0. It never changes the cart.
func (m *Manager) Buy(ctx context.Context, sessionID string, n int) Response {
	action := string(command.KindBuy)
	var resp Response
	m.registry.with(ctx, sessionID, func(st *State) {
		p, ok, unavailable := m.resolve(st, action, n)
		if !ok {
			resp = unavailable
			return
		}
		st.setFocus(p)

		msg := fmt.Sprintf("Great choice! You selected %s for %s. ",
			formatter.CleanTitle(p.Title), formatter.FormatPrice(p.Price.Int()))
		if p.URL != "" {
			msg += fmt.Sprintf("The product page on %s has the purchase link. ", storeName(p))
		}
		msg += "Say add to cart to put it in your cart, then say checkout when you are done."

		resp = m.productResponse(st, action, msg, p)
		resp.Data["purchase_url"] = p.URL
	})
	return resp
}

// Details gives the full description of item n, or of the product in focus
// when n is 0.
func (m *Manager) Details(ctx context.Context, sessionID string, n int) Response {
	action := string(command.KindDetails)
	var resp Response
	m.registry.with(ctx, sessionID, func(st *State) {
		p, ok, unavailable := m.resolve(st, action, n)
		if !ok {
			resp = unavailable
			return
		}
		position := n
		if position == 0 {
			position = st.positionOf(p)
		}
		st.setFocus(p)
		resp = m.productResponse(st, action, formatter.DescribeProduct(p, position), p)
	})
	return resp
}

// Compare compares the listed items. With fewer than two valid numbers it
// compares the first page of results.
func (m *Manager) Compare(ctx context.Context, sessionID string, numbers []int) Response {
	action := string(command.KindCompare)
	var resp Response
	m.registry.with(ctx, sessionID, func(st *State) {
		if len(st.products) == 0 {
			resp = m.noProducts(action)
			return
		}

		var picked []models.Product
		seen := make(map[int]bool)
		for _, n := range numbers {
			if p, ok := st.item(n); ok && !seen[n] {
				seen[n] = true
				picked = append(picked, p)
			}
		}
		if len(picked) < 2 {
			page := m.config.ItemsPerPage
			if page <= 0 || page > len(st.products) {
				page = len(st.products)
			}
			picked = append([]models.Product(nil), st.products[:page]...)
		}

		if len(picked) < 2 {
			resp = m.reject(action, formatter.CompareProducts(picked),
				apperrors.NewInvalidCommandError("fewer than two products to compare"))
			return
		}
		resp = Response{
			Success: true,
			Action:  action,
			Message: formatter.CompareProducts(picked),
			Data: map[string]interface{}{
				"compared":   len(picked),
				"navigation": st.navigation(),
			},
		}
	})
	return resp
}

// resolve picks item n, or the focus or current product when n is 0. On
// failure the third value is the response to return.
func (m *Manager) resolve(st *State, action string, n int) (models.Product, bool, Response) {
	if n == 0 {
		if st.focus != nil {
			return *st.focus, true, Response{}
		}
		if p, ok := st.current(); ok {
			return p, true, Response{}
		}
		return models.Product{}, false, m.noProducts(action)
	}
	if len(st.products) == 0 {
		return models.Product{}, false, m.noProducts(action)
	}
	p, ok := st.item(n)
	if !ok {
		return models.Product{}, false, m.itemUnavailable(st, action, n)
	}
	return p, true, Response{}
}

func (m *Manager) move(ctx context.Context, sessionID, action string, step func(st *State) (bool, string), prompt string) Response {
	var resp Response
	m.registry.with(ctx, sessionID, func(st *State) {
		if len(st.products) == 0 {
			resp = m.noProducts(action)
			return
		}
		moved, text := step(st)
		if !moved {
			resp = Response{
				Success: false,
				Action:  action,
				Message: text,
				Data:    map[string]interface{}{"navigation": st.navigation()},
				code:    apperrors.ErrCodeNavigationEnd,
			}
			return
		}
		p, _ := st.current()
		st.setFocus(p)
		resp = m.productResponse(st, action, text+formatter.DescribeBrief(p, 0)+prompt, p)
	})
	return resp
}

func (m *Manager) productResponse(st *State, action, message string, p models.Product) Response {
	return Response{
		Success: true,
		Action:  action,
		Message: message,
		Data: map[string]interface{}{
			"product":    p,
			"navigation": st.navigation(),
		},
	}
}

func (m *Manager) noProducts(action string) Response {
	return m.reject(action, noProductsMessage, apperrors.NewNoProductsError(""))
}

func (m *Manager) itemUnavailable(st *State, action string, n int) Response {
	total := len(st.products)
	resp := m.reject(action,
		fmt.Sprintf("Item %d is not available. I have %d products. Please choose a number between 1 and %d.", n, total, total),
		apperrors.NewItemOutOfRangeError(n, total))
	resp.Data = map[string]interface{}{"navigation": st.navigation()}
	return resp
}

// outOfRange answers a spoken item number below 1.
func (m *Manager) outOfRange(ctx context.Context, sessionID, action string, n int) Response {
	var resp Response
	m.registry.with(ctx, sessionID, func(st *State) {
		if len(st.products) == 0 {
			resp = m.noProducts(action)
			return
		}
		resp = m.itemUnavailable(st, action, n)
	})
	return resp
}

func storeName(p models.Product) string {
	if p.Source == "" {
		return "the store"
	}
	return p.Source
}
