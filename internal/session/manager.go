// Package session keeps per-conversation state and turns classified commands
// into spoken responses.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vocalcart/internal/cart"
	"vocalcart/internal/catalog"
	"vocalcart/internal/command"
	apperrors "vocalcart/internal/common/errors"
	"vocalcart/internal/common/logger"
	"vocalcart/internal/common/metrics"
	"vocalcart/internal/common/observability"
	"vocalcart/internal/formatter"
	"vocalcart/internal/models"
	"vocalcart/internal/nlp"
)

const (
	ActionSearch     = string(command.KindSearch)
	ActionEndSession = "end_session"
	ActionHelp       = string(command.KindHelp)
	ActionClarify    = "clarify"
	ActionInvalid    = "invalid"
	ActionError      = "error"
)

// Manager is the single entry point for every transport.
type Manager struct {
	config    *Config
	registry  *Registry
	source    ProductSource
	store     CartStore
	extractor *nlp.Extractor
	errors    *apperrors.ErrorHandler
	obs       *observability.Observability
	logger    logger.Logger
}

// NewManager wires a manager. store and obs may be nil.
func NewManager(cfg *Config, registry *Registry, source ProductSource, store CartStore, obs *observability.Observability, log logger.Logger) *Manager {
	if cfg == nil {
		cfg = LoadConfig()
	}
	l := logger.ForComponent(log, "session.manager")
	return &Manager{
		config:    cfg,
		registry:  registry,
		source:    source,
		store:     store,
		extractor: nlp.NewExtractor(),
		errors:    apperrors.NewErrorHandler(l),
		obs:       obs,
		logger:    l,
	}
}

// Handle classifies text and runs the matching operation. It never panics
// and always returns a speakable message.
func (m *Manager) Handle(ctx context.Context, sessionID, text string) (resp Response) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("recovered panic while handling command", map[string]interface{}{
				"sessionId": sessionID,
				"panic":     fmt.Sprint(r),
			})
			resp = m.fail(ctx, sessionID, ActionError, apperrors.NewInternalError(fmt.Errorf("panic: %v", r)))
		}
		m.observe(ctx, resp, time.Since(start))
	}()

	text = strings.TrimSpace(text)
	if text == "" {
		return m.reject(ActionInvalid,
			"I didn't hear anything. Please say what you are looking for, or say help.",
			apperrors.NewInvalidCommandError("empty input"))
	}

	analysis := m.extractor.Analyze(text)
	m.registry.with(ctx, sessionID, func(st *State) {
		st.record(analysis)
	})

	cmd := command.Classify(text)
	m.logger.Debug("command classified", map[string]interface{}{
		"sessionId":  sessionID,
		"kind":       string(cmd.Kind),
		"intent":     string(analysis.Intent),
		"confidence": analysis.Confidence,
	})

	if cmd.NumberGiven && cmd.ItemNumber < 1 && cmd.Kind != command.KindRemoveFromCart {
		return m.outOfRange(ctx, sessionID, string(cmd.Kind), cmd.ItemNumber)
	}
	if cmd.MissingItemNumber {
		return m.clarify(ctx, sessionID, analysis, itemNumberPrompt(cmd.Kind),
			apperrors.NewMissingItemNumberError(string(cmd.Kind)))
	}

	switch cmd.Kind {
	case command.KindNext:
		return m.Next(ctx, sessionID)
	case command.KindPrevious:
		return m.Previous(ctx, sessionID)
	case command.KindFirst:
		return m.First(ctx, sessionID)
	case command.KindLast:
		return m.Last(ctx, sessionID)
	case command.KindRepeat:
		return m.Repeat(ctx, sessionID)
	case command.KindSelectItem:
		return m.SelectItem(ctx, sessionID, cmd.ItemNumber)
	case command.KindBuy:
		return m.Buy(ctx, sessionID, cmd.ItemNumber)
	case command.KindDetails:
		return m.Details(ctx, sessionID, cmd.ItemNumber)
	case command.KindCompare:
		return m.Compare(ctx, sessionID, cmd.Numbers)
	case command.KindAddToCart:
		return m.AddToCart(ctx, sessionID, cmd.ItemNumber, 1)
	case command.KindRemoveFromCart:
		return m.RemoveFromCart(ctx, sessionID, cart.RemoveRequest{
			Title:   cmd.Title,
			Index:   cmd.ItemNumber,
			ByIndex: cmd.NumberGiven,
		})
	case command.KindViewCart:
		return m.ViewCart(ctx, sessionID)
	case command.KindClearCart:
		return m.ClearCart(ctx, sessionID)
	case command.KindCheckout:
		return m.Checkout(ctx, sessionID)
	case command.KindHelp:
		return m.Help()
	case command.KindExit:
		return m.EndSession(ctx, sessionID)
	default:
		return m.route(ctx, sessionID, cmd, analysis)
	}
}

// Search runs text as a product search and reads back the first result.
func (m *Manager) Search(ctx context.Context, sessionID, text string) Response {
	return m.search(ctx, sessionID, m.extractor.Analyze(text))
}

func (m *Manager) search(ctx context.Context, sessionID string, analysis nlp.IntentResult) Response {
	q := catalog.FromParsed(analysis.Query, m.config.MaxResults)

	var seq uint64
	m.registry.with(ctx, sessionID, func(st *State) {
		st.searchSeq++
		seq = st.searchSeq
	})

	products, searchErr := m.fetch(ctx, q)
	m.obs.RecordSearch(ctx, len(products))

	var resp Response
	m.registry.with(ctx, sessionID, func(st *State) {
		if st.searchSeq != seq {
			resp = Response{
				Success: false,
				Action:  ActionSearch,
				Message: "That search was replaced by a newer one.",
				Data:    map[string]interface{}{"superseded": true},
			}
			return
		}

		st.setProducts(products, q.Keywords)
		data := map[string]interface{}{
			"query":      analysis.Query,
			"count":      len(products),
			"navigation": st.navigation(),
		}
		if len(analysis.Suggestions) > 0 {
			data["suggestions"] = analysis.Suggestions
		}
		if len(analysis.ClarificationsNeeded) > 0 {
			data["clarifications"] = analysis.ClarificationsNeeded
		}

		if searchErr != nil {
			msg, se := m.errors.Handle(ctx, sessionID, searchErr)
			resp = Response{Success: false, Action: ActionSearch, Message: msg, Data: data, code: se.Code}
			return
		}
		if len(products) == 0 {
			resp = Response{
				Success: false,
				Action:  ActionSearch,
				Message: formatter.SummarizeSearch(nil, q.Keywords),
				Data:    data,
				code:    apperrors.ErrCodeNoProducts,
			}
			return
		}

		first := st.products[0]
		st.setFocus(first)
		data["product"] = first
		resp = Response{
			Success: true,
			Action:  ActionSearch,
			Message: formatter.SummarizeSearch(st.products, q.Keywords) + " " + formatter.DescribeProduct(first, 1),
			Data:    data,
		}
	})
	return resp
}

// fetch calls the source outside any session lock under the search deadline.
func (m *Manager) fetch(ctx context.Context, q catalog.Query) ([]models.Product, error) {
	if m.source == nil {
		return nil, apperrors.NewCatalogUnavailableError("none", catalog.ErrNoSources)
	}
	sctx, cancel := context.WithTimeout(ctx, m.config.SearchTimeout)
	defer cancel()

	start := time.Now()
	products, err := m.source.Search(sctx, q)
	if err != nil {
		if sctx.Err() == context.DeadlineExceeded {
			return nil, apperrors.NewCatalogTimeoutError("catalog", m.config.SearchTimeout)
		}
		return nil, err
	}
	m.logger.Info("search complete", map[string]interface{}{
		"keywords": q.Keywords,
		"results":  len(products),
		"duration": time.Since(start).String(),
	})
	return products, nil
}

// Help lists the supported commands.
func (m *Manager) Help() Response {
	return Response{Success: true, Action: ActionHelp, Message: formatter.HelpText()}
}

// NavigationState returns a copy of the session without creating it.
func (m *Manager) NavigationState(ctx context.Context, sessionID string) (StateView, error) {
	e, ok := m.registry.lookup(sessionID)
	if !ok {
		return StateView{}, apperrors.NewSessionNotFoundError(sessionID)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.view(sessionID), nil
}

// EndSession drops the session. A persisted cart is kept for the next visit.
func (m *Manager) EndSession(ctx context.Context, sessionID string) Response {
	existed := m.registry.Remove(sessionID)
	m.logger.Info("session ended", map[string]interface{}{
		"sessionId": sessionID,
		"existed":   existed,
	})
	return Response{
		Success: true,
		Action:  ActionEndSession,
		Message: "Thank you for using VocalCart. Goodbye!",
		Data:    map[string]interface{}{"end_session": true},
	}
}

func (m *Manager) fail(ctx context.Context, sessionID, action string, err error) Response {
	msg, se := m.errors.Handle(ctx, sessionID, err)
	return Response{Success: false, Action: action, Message: msg, code: se.Code}
}

// reject answers with a bespoke message for an expected failure.
func (m *Manager) reject(action, message string, se *apperrors.StandardError) Response {
	return Response{Success: false, Action: action, Message: message, code: se.Code}
}

func (m *Manager) observe(ctx context.Context, resp Response, elapsed time.Duration) {
	action := resp.Action
	if action == "" {
		action = ActionError
	}
	metrics.CommandsHandled.WithLabelValues(action).Inc()
	metrics.CommandDuration.WithLabelValues(action).Observe(elapsed.Seconds())
	if !resp.Success && resp.code != "" {
		metrics.CommandsFailed.WithLabelValues(action, apperrors.GetErrorCategory(resp.code)).Inc()
	}
	m.obs.RecordCommand(ctx, action, resp.Success, elapsed)
}
