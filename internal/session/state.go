package session

import (
	"time"

	"vocalcart/internal/cart"
	"vocalcart/internal/models"
	"vocalcart/internal/nlp"
)

// State is one conversation. It is only touched while its registry entry is
// locked.
type State struct {
	products  []models.Product
	index     int
	lastQuery string
	cart      *cart.Ledger
	log       []nlp.IntentResult
	logSize   int
	focus     *models.Product
	searchSeq uint64

	createdAt  time.Time
	lastActive time.Time
}

func newState(logSize int, now time.Time) *State {
	if logSize <= 0 {
		logSize = 10
	}
	return &State{
		cart:       cart.New(),
		logSize:    logSize,
		createdAt:  now,
		lastActive: now,
	}
}

// setProducts replaces the results with a copy of products and rewinds the
// cursor.
func (s *State) setProducts(products []models.Product, query string) {
	s.products = make([]models.Product, len(products))
	copy(s.products, products)
	s.index = 0
	s.lastQuery = query
	s.focus = nil
}

func (s *State) current() (models.Product, bool) {
	if len(s.products) == 0 {
		return models.Product{}, false
	}
	return s.products[s.index], true
}

// item resolves a 1-based item number.
func (s *State) item(n int) (models.Product, bool) {
	if n < 1 || n > len(s.products) {
		return models.Product{}, false
	}
	return s.products[n-1], true
}

func (s *State) setFocus(p models.Product) {
	s.focus = &p
}

// positionOf finds the 1-based position of p in the results, 0 if absent.
func (s *State) positionOf(p models.Product) int {
	for i, candidate := range s.products {
		if candidate.Key() == p.Key() && candidate.Source == p.Source {
			return i + 1
		}
	}
	return 0
}

func (s *State) record(r nlp.IntentResult) {
	s.log = append(s.log, r)
	if over := len(s.log) - s.logSize; over > 0 {
		s.log = append([]nlp.IntentResult(nil), s.log[over:]...)
	}
}

func (s *State) navigation() Navigation {
	n := len(s.products)
	if n == 0 {
		return Navigation{}
	}
	return Navigation{
		Index:       s.index,
		Position:    s.index + 1,
		Total:       n,
		HasNext:     s.index < n-1,
		HasPrevious: s.index > 0,
	}
}

func (s *State) view(sessionID string) StateView {
	v := StateView{
		SessionID:  sessionID,
		LastQuery:  s.lastQuery,
		Products:   len(s.products),
		Navigation: s.navigation(),
		CartItems:  s.cart.Units(),
		CartTotal:  s.cart.Total(),
		CreatedAt:  s.createdAt,
		LastActive: s.lastActive,
	}
	if p, ok := s.current(); ok {
		v.Current = &p
	}
	v.Conversation = make([]ConversationEntry, len(s.log))
	for i, r := range s.log {
		v.Conversation[i] = ConversationEntry{
			Text:       r.Text,
			Intent:     r.Intent,
			Confidence: r.Confidence,
			Timestamp:  r.Timestamp,
		}
	}
	return v
}
