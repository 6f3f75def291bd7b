package session

import (
	"context"

	"vocalcart/internal/cart"
	"vocalcart/internal/command"
	apperrors "vocalcart/internal/common/errors"
	"vocalcart/internal/common/metrics"
)

const noSelectionMessage = "No product selected. Please search for products and choose one first."

// AddToCart adds quantity units of item n, or of the product in focus when n
// is 0.
func (m *Manager) AddToCart(ctx context.Context, sessionID string, n, quantity int) Response {
	action := string(command.KindAddToCart)
	var resp Response
	m.registry.with(ctx, sessionID, func(st *State) {
		p, ok, unavailable := m.resolve(st, action, n)
		if !ok {
			if n == 0 {
				unavailable.Message = noSelectionMessage
			}
			resp = unavailable
			metrics.CartOperations.WithLabelValues("add", metrics.Outcome(false)).Inc()
			return
		}

		msg, err := st.cart.AddItem(p, quantity)
		resp = m.cartResponse(ctx, sessionID, st, action, "add", msg, err)
		if err == nil {
			st.setFocus(p)
			resp.Data["product"] = p
		}
	})
	return resp
}

// RemoveFromCart removes the cart line matching req.Title, or the 1-based
// line req.Index when the title is empty.
func (m *Manager) RemoveFromCart(ctx context.Context, sessionID string, req cart.RemoveRequest) Response {
	action := string(command.KindRemoveFromCart)
	var resp Response
	m.registry.with(ctx, sessionID, func(st *State) {
		msg, err := st.cart.RemoveItem(req)
		resp = m.cartResponse(ctx, sessionID, st, action, "remove", msg, err)
	})
	return resp
}

// ViewCart reads back the cart.
func (m *Manager) ViewCart(ctx context.Context, sessionID string) Response {
	action := string(command.KindViewCart)
	var resp Response
	m.registry.with(ctx, sessionID, func(st *State) {
		resp = Response{
			Success: true,
			Action:  action,
			Message: st.cart.Summary(),
			Data:    cartData(st.cart),
		}
	})
	return resp
}

// ClearCart empties the cart and drops the stored copy.
func (m *Manager) ClearCart(ctx context.Context, sessionID string) Response {
	action := string(command.KindClearCart)
	var resp Response
	m.registry.with(ctx, sessionID, func(st *State) {
		msg := st.cart.Clear()
		metrics.CartOperations.WithLabelValues("clear", metrics.Outcome(true)).Inc()
		resp = Response{Success: true, Action: action, Message: msg, Data: cartData(st.cart)}
		resp.Data["persisted"] = m.forget(ctx, sessionID)
	})
	return resp
}

// Checkout confirms the order and empties the cart.
func (m *Manager) Checkout(ctx context.Context, sessionID string) Response {
	action := string(command.KindCheckout)
	var resp Response
	m.registry.with(ctx, sessionID, func(st *State) {
		total := st.cart.Total()
		msg, err := st.cart.Checkout()
		metrics.CartOperations.WithLabelValues("checkout", metrics.Outcome(err == nil)).Inc()
		if err != nil {
			resp = m.cartFailure(action, msg, err)
			return
		}
		resp = Response{
			Success: true,
			Action:  action,
			Message: msg,
			Data:    map[string]interface{}{"order_total": total},
		}
		resp.Data["persisted"] = m.forget(ctx, sessionID)
		m.logger.Info("checkout complete", map[string]interface{}{
			"sessionId": sessionID,
			"total":     total,
		})
	})
	return resp
}

func (m *Manager) cartResponse(ctx context.Context, sessionID string, st *State, action, op, msg string, err error) Response {
	metrics.CartOperations.WithLabelValues(op, metrics.Outcome(err == nil)).Inc()
	if err != nil {
		return m.cartFailure(action, msg, err)
	}
	data := cartData(st.cart)
	data["persisted"] = m.persist(ctx, sessionID, st.cart)
	return Response{Success: true, Action: action, Message: msg, Data: data}
}

// cartFailure keeps the ledger's own wording as the spoken message.
func (m *Manager) cartFailure(action, msg string, err error) Response {
	se, ok := apperrors.AsStandardError(err)
	if !ok {
		se = apperrors.NewInternalError(err)
	}
	if msg == "" {
		msg = apperrors.UserMessage(se)
	}
	return m.reject(action, msg, se)
}

// persist writes the cart through to the store. A failure is logged; the
// in-memory cart stays authoritative for the session.
func (m *Manager) persist(ctx context.Context, sessionID string, l *cart.Ledger) bool {
	if m.store == nil {
		return false
	}
	if err := m.store.SaveCart(ctx, sessionID, l.Snapshot()); err != nil {
		m.errors.Handle(ctx, sessionID, err)
		return false
	}
	return true
}

func (m *Manager) forget(ctx context.Context, sessionID string) bool {
	if m.store == nil {
		return false
	}
	if err := m.store.DeleteCart(ctx, sessionID); err != nil {
		m.errors.Handle(ctx, sessionID, err)
		return false
	}
	return true
}

func cartData(l *cart.Ledger) map[string]interface{} {
	return map[string]interface{}{
		"items": l.Lines(),
		"units": l.Units(),
		"total": l.Total(),
	}
}
