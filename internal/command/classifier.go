// Package command maps a short spoken command onto a session action.
package command

import (
	"regexp"
	"strconv"
	"strings"

	"vocalcart/internal/nlp"
)

// Kind is the action a command resolves to. Values double as response
// action names.
type Kind string

const (
	KindNext           Kind = "next"
	KindPrevious       Kind = "previous"
	KindRepeat         Kind = "repeat"
	KindFirst          Kind = "first"
	KindLast           Kind = "last"
	KindAddToCart      Kind = "add_to_cart"
	KindRemoveFromCart Kind = "remove_from_cart"
	KindClearCart      Kind = "clear_cart"
	KindViewCart       Kind = "view_cart"
	KindDetails        Kind = "product_details"
	KindSelectItem     Kind = "select_item"
	KindBuy            Kind = "buy"
	KindCompare        Kind = "compare"
	KindCheckout       Kind = "checkout"
	KindHelp           Kind = "help"
	KindExit           Kind = "exit"
	KindSearch         Kind = "search"
	KindUnknown        Kind = "unknown"
)

// Command is a classified utterance.
type Command struct {
	Kind Kind
	// ItemNumber is the 1-based item the user named. NumberGiven tells a
	// spoken "0" apart from no number at all.
	ItemNumber  int
	NumberGiven bool
	Query       string
	Title       string
	Numbers     []int
	// MissingItemNumber is set when the command refers to "item" or
	// "product" without saying which one.
	MissingItemNumber bool
}

type rule struct {
	kind    Kind
	pattern *regexp.Regexp
	// exclude vetoes the rule when it matches.
	exclude *regexp.Regexp
	apply   func(cmd *Command, m []string, text string)
}

const itemRef = `(?:(?:item|product|number|no\.?)\s*)*`

// navLead and navTail allow polite filler around next and previous, as in
// "show me the next one" or "previous please".
const (
	navLead = `^(?:(?:please|ok|okay|now|and)\s+)*(?:(?:go|move|skip|jump)\s+to\s+|(?:show|give|take)\s+me\s+(?:to\s+)?)?(?:the\s+)?`
	navTail = `(?:\s+(?:one|item|product|result|option|page))?(?:\s+please)?$`
)

var ordinals = map[string]int{
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
}

var allNumbers = regexp.MustCompile(`\d+`)

// rules is evaluated top to bottom; the first match wins. Add and remove run
// before details, so "tell me about item 2 and add item 3" adds item 3.
var rules = []rule{
	{kind: KindNext, pattern: regexp.MustCompile(`^(?:next|next item|next product|next one|continue|forward|go forward)$`)},
	{kind: KindPrevious, pattern: regexp.MustCompile(`^(?:previous|prev|back|go back|previous item|previous product|previous one)$`)},
	{kind: KindRepeat, pattern: regexp.MustCompile(`^(?:repeat|say again|say that again|repeat that|again)$`)},
	{kind: KindFirst, pattern: regexp.MustCompile(`^(?:first|start|go to first|first one|go to start)$`)},
	{kind: KindLast, pattern: regexp.MustCompile(`^(?:last|end|go to last|last one|go to end)$`)},
	{kind: KindNext, pattern: regexp.MustCompile(navLead + `next` + navTail)},
	{kind: KindPrevious, pattern: regexp.MustCompile(navLead + `(?:previous|prev)` + navTail)},

	{kind: KindAddToCart, pattern: regexp.MustCompile(`\b(?:add|buy|purchase)\s+` + itemRef + `(\d+)\b`), apply: withItemNumber},
	{kind: KindAddToCart, pattern: regexp.MustCompile(`\badd\b.*?\b(?:item|product)\s*(?:number\s*)?(\d+)\b`), apply: withItemNumber},

	{kind: KindRemoveFromCart, pattern: regexp.MustCompile(`\b(?:remove|delete)\s+` + itemRef + `(\d+)\b`), apply: withItemNumber},
	{kind: KindRemoveFromCart, pattern: regexp.MustCompile(`\b(?:remove|delete)\s+(?:the\s+)?(.+?)\s+from\s+(?:my\s+|the\s+)?cart\b`), apply: withTitle},
	{kind: KindRemoveFromCart, pattern: regexp.MustCompile(`^(?:please\s+)?(?:remove|delete)\b\s*(.*)$`), apply: withTitle},

	{kind: KindClearCart, pattern: regexp.MustCompile(`\b(?:clear|empty)\s+(?:my\s+|the\s+)?cart\b`)},
	{
		kind:    KindViewCart,
		pattern: regexp.MustCompile(`\b(?:show|view|open|check)\s+(?:me\s+)?(?:my\s+|the\s+)?cart\b|\bmy cart\b|\bwhat'?s in (?:my|the) cart\b|^cart$`),
		exclude: regexp.MustCompile(`\b(?:add|put)\b`),
	},

	{
		kind:    KindAddToCart,
		pattern: regexp.MustCompile(`\b(?:add|put)\s+(?:an?\s+|the\s+|one\s+)?(?:item|product)s?\b`),
		exclude: regexp.MustCompile(`\d`),
		apply:   withoutItemNumber,
	},
	{kind: KindAddToCart, pattern: regexp.MustCompile(`\badd\b.*\bcart\b|\bput\b.*\bcart\b|\badd (?:this|it|that)\b`)},

	{kind: KindDetails, pattern: regexp.MustCompile(`\b(?:tell me about|tell me more about|details of|more about|describe|information about|details about)\s+` + itemRef + `(\d+)\b`), apply: withItemNumber},
	{
		kind:    KindDetails,
		pattern: regexp.MustCompile(`\b(?:tell me about|tell me more about|details of|more about|describe|information about|details about)\s+(?:an?\s+|the\s+)?(?:item|product)s?$`),
		apply:   withoutItemNumber,
	},
	{kind: KindDetails, pattern: regexp.MustCompile(`\btell me more\b|\bmore details\b|\bmore info\b|\bdescribe (?:this|it|that)\b|\btell me about (?:this|it|that)\b|^details$`)},

	{kind: KindSelectItem, pattern: regexp.MustCompile(`^(?:(?:go to|show|show me|select|open|pick)\s+)?(?:the\s+)?(?:item|number|product|option)\s*(?:number\s*)?(\d+)$`), apply: withItemNumber},
	{kind: KindSelectItem, pattern: regexp.MustCompile(`^(?:(?:go to|show|show me|select|open|pick)\s+)?(?:the\s+)?(\d+)(?:st|nd|rd|th)\s+(?:item|product|option|one)$`), apply: withItemNumber},
	{kind: KindSelectItem, pattern: regexp.MustCompile(`^(?:(?:go to|show|show me|select|open|pick)\s+)?(?:the\s+)?(first|second|third|fourth|fifth|sixth|seventh|eighth|ninth|tenth)\s+(?:item|product|option|one)$`), apply: withOrdinal},

	{kind: KindBuy, pattern: regexp.MustCompile(`\bbuy (?:this|it|that)\b|\bpurchase (?:this|it|that)\b|\bi want this\b|\bi'?ll take (?:this|it)\b`)},

	{kind: KindCompare, pattern: regexp.MustCompile(`\b(?:compare|difference|versus|vs)\b`), apply: withNumbers},

	{kind: KindCheckout, pattern: regexp.MustCompile(`\bcheck ?out\b|\bbuy now\b|\bpurchase\b|\bplace (?:my\s+|the\s+|an\s+)?order\b|\border\b`)},
	{kind: KindHelp, pattern: regexp.MustCompile(`\bhelp\b|\bcommands\b|\bwhat can you do\b`)},
	{kind: KindExit, pattern: regexp.MustCompile(`\b(?:exit|quit|bye|goodbye)\b|^stop$`)},

	{kind: KindSearch, pattern: regexp.MustCompile(`\b(?:search|find|look for|looking for|show me|get me)\b`), apply: withQuery},
}

// Classify resolves text to a Command. Unmatched text yields KindUnknown with
// the text as the query, which callers treat as an implicit search.
func Classify(text string) Command {
	norm := nlp.Normalize(text)
	if norm == "" {
		return Command{Kind: KindUnknown}
	}
	for _, r := range rules {
		m := r.pattern.FindStringSubmatch(norm)
		if m == nil {
			continue
		}
		if r.exclude != nil && r.exclude.MatchString(norm) {
			continue
		}
		cmd := Command{Kind: r.kind}
		if r.apply != nil {
			r.apply(&cmd, m, norm)
		}
		return cmd
	}
	return Command{Kind: KindUnknown, Query: norm}
}

func withItemNumber(cmd *Command, m []string, _ string) {
	if len(m) < 2 {
		return
	}
	if n, err := strconv.Atoi(m[1]); err == nil {
		cmd.ItemNumber = n
		cmd.NumberGiven = true
	}
}

func withOrdinal(cmd *Command, m []string, _ string) {
	if len(m) < 2 {
		return
	}
	if n, ok := ordinals[m[1]]; ok {
		cmd.ItemNumber = n
		cmd.NumberGiven = true
	}
}

var (
	cartSuffix = regexp.MustCompile(`\s*\bfrom\s+(?:my\s+|the\s+)?cart$`)
	articles   = regexp.MustCompile(`^(?:the|a|an|this|that)\s+`)
)

// placeholders name a cart line without saying which one.
var placeholders = map[string]bool{
	"": true, "it": true, "this": true, "that": true, "one": true,
	"item": true, "items": true, "product": true, "products": true,
	"something": true, "from cart": true,
}

func withTitle(cmd *Command, m []string, _ string) {
	if len(m) < 2 {
		return
	}
	title := strings.TrimSpace(cartSuffix.ReplaceAllString(m[1], ""))
	title = articles.ReplaceAllString(title, "")
	if placeholders[title] {
		return
	}
	cmd.Title = title
}

func withoutItemNumber(cmd *Command, _ []string, _ string) {
	cmd.MissingItemNumber = true
}

func withNumbers(cmd *Command, _ []string, text string) {
	for _, raw := range allNumbers.FindAllString(text, -1) {
		if n, err := strconv.Atoi(raw); err == nil {
			cmd.Numbers = append(cmd.Numbers, n)
		}
	}
}

func withQuery(cmd *Command, _ []string, text string) {
	cmd.Query = text
}
