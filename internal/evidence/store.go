// Package evidence holds the deduplicated findings accumulated across scan
// windows. The store is an immutable value: Merge returns a new store and
// never mutates its input, which keeps the scan loop's state transitions
// auditable.
package evidence

import (
	"slices"
	"strings"

	"github.com/docscout/docscout/internal/document"
)

// Item is one candidate finding: a pointer, a verbatim excerpt attributed
// to it, and a short rationale.
type Item struct {
	Pointer document.Pointer `json:"pointer"`
	Excerpt string           `json:"excerpt"`
	Reason  string           `json:"reason"`
}

// Store is a capacity-bounded, deduplicated collection of evidence items.
// The zero value is an empty store.
type Store struct {
	items []Item
}

// NewStore builds a store from existing items without deduplication.
// Intended for tests and for rehydrating a threaded scan state.
func NewStore(items []Item) Store {
	return Store{items: slices.Clone(items)}
}

// Items returns a copy of the stored items in insertion order.
func (s Store) Items() []Item {
	return slices.Clone(s.items)
}

// Len returns the number of stored items.
func (s Store) Len() int {
	return len(s.items)
}

// Contains reports whether an item with the given pointer is present.
// Pointer comparison is case-insensitive on the canonical form.
func (s Store) Contains(ptr document.Pointer) bool {
	for _, it := range s.items {
		if it.Pointer.Equal(ptr) {
			return true
		}
	}
	return false
}

// ContainsLabel reports whether an item with the given canonical label is
// present, comparing case-insensitively.
func (s Store) ContainsLabel(label string) bool {
	for _, it := range s.items {
		if strings.EqualFold(it.Pointer.String(), label) {
			return true
		}
	}
	return false
}

// Pointers returns the canonical labels of all stored items in order.
func (s Store) Pointers() []string {
	out := make([]string, len(s.items))
	for i, it := range s.items {
		out[i] = it.Pointer.String()
	}
	return out
}

// Merge appends incoming items to the store, skipping any whose pointer is
// already present (first-seen wins, both against the store and within the
// incoming batch), then caps the result to capacity by dropping the oldest
// items. Keeping the most recent capacity items is deliberate: later
// windows are proposed with more accumulated context, so recent findings
// are the better-informed ones. capacity <= 0 means unbounded.
//
// Merge is pure: the input store is never mutated.
func Merge(s Store, incoming []Item, capacity int) Store {
	merged := slices.Clone(s.items)
	seen := make(map[string]struct{}, len(merged)+len(incoming))
	for _, it := range merged {
		seen[strings.ToLower(it.Pointer.String())] = struct{}{}
	}
	for _, it := range incoming {
		key := strings.ToLower(it.Pointer.String())
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, it)
	}
	if capacity > 0 && len(merged) > capacity {
		merged = slices.Clone(merged[len(merged)-capacity:])
	}
	return Store{items: merged}
}
