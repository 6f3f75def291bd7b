package session

import (
	"context"
	"time"

	"vocalcart/internal/cart"
	"vocalcart/internal/catalog"
	apperrors "vocalcart/internal/common/errors"
	"vocalcart/internal/models"
	"vocalcart/internal/nlp"
)

// ProductSource supplies products for a query. Errors and timeouts are
// reported to the user as an empty result.
type ProductSource interface {
	Search(ctx context.Context, q catalog.Query) ([]models.Product, error)
}

// CartStore persists cart snapshots between runs. LoadCart returns nil, nil
// when nothing is stored.
type CartStore interface {
	SaveCart(ctx context.Context, sessionID string, snap cart.Snapshot) error
	LoadCart(ctx context.Context, sessionID string) (*cart.Snapshot, error)
	DeleteCart(ctx context.Context, sessionID string) error
}

// Response is what a transport speaks or renders for one command.
type Response struct {
	Success bool                   `json:"success"`
	Action  string                 `json:"action"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`

	code apperrors.ErrorCode
}

// ErrorCode is the failure code behind an unsuccessful response, if any.
func (r Response) ErrorCode() apperrors.ErrorCode {
	return r.code
}

// Navigation describes the cursor position within the current results.
type Navigation struct {
	Index       int  `json:"index"`
	Position    int  `json:"position"`
	Total       int  `json:"total"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// ConversationEntry is one logged utterance.
type ConversationEntry struct {
	Text       string     `json:"text"`
	Intent     nlp.Intent `json:"intent"`
	Confidence float64    `json:"confidence"`
	Timestamp  time.Time  `json:"timestamp"`
}

// StateView is a read-only copy of a session for inspection.
type StateView struct {
	SessionID    string              `json:"session_id"`
	LastQuery    string              `json:"last_query"`
	Products     int                 `json:"products"`
	Current      *models.Product     `json:"current,omitempty"`
	Navigation   Navigation          `json:"navigation"`
	CartItems    int                 `json:"cart_items"`
	CartTotal    int                 `json:"cart_total"`
	Conversation []ConversationEntry `json:"conversation"`
	CreatedAt    time.Time           `json:"created_at"`
	LastActive   time.Time           `json:"last_active"`
}
