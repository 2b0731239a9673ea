package document

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Window is one budgeted slice of the document's item sequence. HasMore
// reports whether further windows remain after this one. Windows are
// created fresh on each cursor advance and never mutated.
type Window struct {
	Items   []Item
	HasMore bool
}

// Empty reports whether the window carries no items.
func (w Window) Empty() bool {
	return len(w.Items) == 0
}

// Filter is a per-item predicate for cursor variants. A nil Filter matches
// everything (full scan).
type Filter func(Item) bool

// KeywordFilter returns a Filter matching items whose plain text or
// markdown contains any of the given keywords, case-insensitively. With no
// keywords the filter matches everything.
func KeywordFilter(keywords ...string) Filter {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			lowered = append(lowered, k)
		}
	}
	return func(it Item) bool {
		if len(lowered) == 0 {
			return true
		}
		text := strings.ToLower(it.Text)
		md := strings.ToLower(it.Markdown)
		for _, k := range lowered {
			if strings.Contains(text, k) || strings.Contains(md, k) {
				return true
			}
		}
		return false
	}
}

// CursorConfig configures a Cursor.
type CursorConfig struct {
	// Items is the frozen item list supplied by the document source.
	Items []Item

	// MaxItems caps the number of items per window (default 8).
	MaxItems int

	// MaxBytes caps the summed serialized size of a window's items
	// (default 4096). The first item of an otherwise-empty window is
	// accepted even when it alone exceeds the budget.
	MaxBytes int

	// StartAfter resumes the cursor immediately after the item whose
	// pointer matches. When nil, or when no item matches, the cursor
	// starts at the beginning.
	StartAfter *Pointer

	// IncludeHeadings controls whether heading items are eligible.
	IncludeHeadings bool

	// Filter restricts eligible items; nil matches everything.
	Filter Filter
}

// Cursor is a stateful, resumable iterator that partitions an item list
// into size-bounded windows. It must be driven by exactly one caller; the
// internal offset is not safe for concurrent advancement.
type Cursor struct {
	items           []Item
	pos             int
	exhausted       bool
	maxItems        int
	maxBytes        int
	includeHeadings bool
	filter          Filter
}

const (
	defaultWindowItems = 8
	defaultWindowBytes = 4096
)

// NewCursor builds a cursor over the configured item list.
func NewCursor(cfg CursorConfig) *Cursor {
	maxItems := cfg.MaxItems
	if maxItems <= 0 {
		maxItems = defaultWindowItems
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultWindowBytes
	}

	pos := 0
	if cfg.StartAfter != nil && !cfg.StartAfter.IsZero() {
		for i, it := range cfg.Items {
			if it.Ptr.Equal(*cfg.StartAfter) {
				pos = i + 1
				break
			}
		}
	}

	return &Cursor{
		items:           cfg.Items,
		pos:             pos,
		maxItems:        maxItems,
		maxBytes:        maxBytes,
		includeHeadings: cfg.IncludeHeadings,
		filter:          cfg.Filter,
	}
}

// Next returns the next window. Once the cursor is exhausted it keeps
// returning empty windows with HasMore=false.
//
// Items are accepted while the item-count budget holds and the byte budget
// would not go negative, except that the first item of an otherwise-empty
// window is always taken. Oversized single items must not deadlock the
// cursor; this rule guarantees forward progress.
func (c *Cursor) Next() Window {
	if c.exhausted || len(c.items) == 0 {
		c.exhausted = true
		return Window{HasMore: false}
	}

	var taken []Item
	budget := c.maxBytes
	i := c.pos
	for i < len(c.items) {
		it := c.items[i]
		if !c.eligible(it) {
			i++
			continue
		}
		if len(taken) >= c.maxItems {
			break
		}
		size := encodedSize(it)
		if len(taken) > 0 && budget-size < 0 {
			break
		}
		taken = append(taken, it)
		budget -= size
		i++
		if budget <= 0 {
			break
		}
	}

	c.pos = i
	hasMore := i < len(c.items)
	if !hasMore {
		c.exhausted = true
	}
	return Window{Items: taken, HasMore: hasMore}
}

// Exhausted reports whether the cursor has run out of items.
func (c *Cursor) Exhausted() bool {
	return c.exhausted
}

func (c *Cursor) eligible(it Item) bool {
	if !c.includeHeadings && it.Kind == KindHeading {
		return false
	}
	if c.filter != nil && !c.filter(it) {
		return false
	}
	return true
}

// wireItem is the shape used for the byte-budget proxy. It mirrors what the
// window payload ships to the model; it is not a wire format of its own.
type wireItem struct {
	Index   int    `json:"index"`
	Kind    Kind   `json:"kind"`
	Pointer string `json:"pointer"`
	Text    string `json:"text"`
}

// encodedSize returns the deterministic serialized size of an item.
func encodedSize(it Item) int {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(wireItem{Index: it.Index, Kind: it.Kind, Pointer: it.Ptr.String(), Text: it.Text}); err != nil {
		// Marshaling a struct of ints and strings cannot fail; fall back
		// to the raw text length if it somehow does.
		return len(it.Text)
	}
	return buf.Len()
}
