package session

import (
	"context"
	"regexp"

	"vocalcart/internal/command"
	apperrors "vocalcart/internal/common/errors"
	"vocalcart/internal/nlp"
)

const (
	addItemPrompt     = "Which item would you like to add to your cart? Please say the item number, for example: add item 2."
	detailsItemPrompt = "Which item would you like to hear about? Please say the item number, for example: tell me about item 2."
	navigationPrompt  = "Say next or previous to move through the results, or first or last to jump to either end."
	checkoutPrompt    = "Did you want to check out? Say checkout to place your order."
	exitPrompt        = "Did you want to leave? Say exit or goodbye to end the session."
)

var intentPrompts = map[nlp.Intent]string{
	nlp.IntentAddToCart:      addItemPrompt,
	nlp.IntentProductDetails: detailsItemPrompt,
	nlp.IntentNavigation:     navigationPrompt,
	nlp.IntentCheckout:       checkoutPrompt,
	nlp.IntentExit:           exitPrompt,
}

// navigationWords are checked in order; the first hit picks the move.
var navigationWords = []struct {
	pattern *regexp.Regexp
	move    func(m *Manager, ctx context.Context, sessionID string) Response
}{
	{regexp.MustCompile(`\b(?:next|forward)\b`), (*Manager).Next},
	{regexp.MustCompile(`\b(?:previous|prev|back)\b`), (*Manager).Previous},
	{regexp.MustCompile(`\bfirst\b`), (*Manager).First},
	{regexp.MustCompile(`\blast\b`), (*Manager).Last},
}

func itemNumberPrompt(kind command.Kind) string {
	if kind == command.KindDetails {
		return detailsItemPrompt
	}
	return addItemPrompt
}

// route handles text no command rule claimed outright. Only a search intent
// reaches the catalog; anything else is served from the session or answered
// with a question, leaving the results and cursor alone.
func (m *Manager) route(ctx context.Context, sessionID string, cmd command.Command, analysis nlp.IntentResult) Response {
	switch analysis.Intent {
	case nlp.IntentSearchProduct, nlp.IntentUnknown:
		return m.search(ctx, sessionID, analysis)
	case nlp.IntentNavigation:
		for _, w := range navigationWords {
			if w.pattern.MatchString(analysis.Text) {
				return w.move(m, ctx, sessionID)
			}
		}
		return m.clarify(ctx, sessionID, analysis, navigationPrompt,
			apperrors.NewInvalidCommandError("navigation without a direction"))
	}

	// An explicit "find" or "show me" keeps its meaning.
	if cmd.Kind == command.KindSearch {
		return m.search(ctx, sessionID, analysis)
	}

	n := analysis.Entities.ItemNumber
	switch analysis.Intent {
	case nlp.IntentViewCart:
		return m.ViewCart(ctx, sessionID)
	case nlp.IntentHelp:
		return m.Help()
	case nlp.IntentCompareProducts:
		return m.Compare(ctx, sessionID, nil)
	case nlp.IntentAddToCart, nlp.IntentProductDetails:
		if n == 0 {
			return m.clarify(ctx, sessionID, analysis, intentPrompts[analysis.Intent],
				apperrors.NewMissingItemNumberError(string(analysis.Intent)))
		}
		if analysis.Intent == nlp.IntentAddToCart {
			return m.AddToCart(ctx, sessionID, n, 1)
		}
		return m.Details(ctx, sessionID, n)
	}

	prompt, ok := intentPrompts[analysis.Intent]
	if !ok {
		prompt = apperrors.UserMessage(apperrors.NewInvalidCommandError(""))
	}
	return m.clarify(ctx, sessionID, analysis, prompt,
		apperrors.NewInvalidCommandError("unconfirmed "+string(analysis.Intent)))
}

// clarify asks a follow-up question. Session results, cursor and cart are
// left untouched.
func (m *Manager) clarify(ctx context.Context, sessionID string, analysis nlp.IntentResult, prompt string, se *apperrors.StandardError) Response {
	resp := m.reject(ActionClarify, prompt, se)
	resp.Data = map[string]interface{}{"intent": string(analysis.Intent)}
	if len(analysis.ClarificationsNeeded) > 0 {
		resp.Data["clarifications"] = analysis.ClarificationsNeeded
	}
	if len(analysis.Suggestions) > 0 {
		resp.Data["suggestions"] = analysis.Suggestions
	}
	m.registry.with(ctx, sessionID, func(st *State) {
		resp.Data["navigation"] = st.navigation()
	})
	return resp
}
