package evidence

import (
	"fmt"
	"testing"

	"github.com/docscout/docscout/internal/document"
)

func item(t *testing.T, label, excerpt string) Item {
	t.Helper()
	ptr, err := document.ParsePointer(label)
	if err != nil {
		t.Fatalf("ParsePointer(%q) error: %v", label, err)
	}
	return Item{Pointer: ptr, Excerpt: excerpt, Reason: "r"}
}

func TestMergeDeduplicates(t *testing.T) {
	a := item(t, "1.p1", "first")
	dup := item(t, "1.P1", "second") // same pointer, different case on input

	s := Merge(Store{}, []Item{a}, 10)
	s = Merge(s, []Item{dup}, 10)

	if s.Len() != 1 {
		t.Fatalf("store has %d items, want 1", s.Len())
	}
	if got := s.Items()[0].Excerpt; got != "first" {
		t.Errorf("excerpt = %q, want %q (first-seen wins)", got, "first")
	}
}

func TestMergeIdempotent(t *testing.T) {
	a := item(t, "1.p1", "x")
	b := item(t, "1.p2", "y")

	once := Merge(Store{}, []Item{a, b}, 10)
	twice := Merge(once, []Item{a, b}, 10)

	if once.Len() != twice.Len() {
		t.Errorf("merging the same items twice changed the store: %d != %d", once.Len(), twice.Len())
	}
}

func TestMergeDeduplicatesWithinBatch(t *testing.T) {
	s := Merge(Store{}, []Item{item(t, "2.p1", "a"), item(t, "2.p1", "b")}, 10)
	if s.Len() != 1 {
		t.Fatalf("store has %d items, want 1", s.Len())
	}
	if got := s.Items()[0].Excerpt; got != "a" {
		t.Errorf("excerpt = %q, want %q", got, "a")
	}
}

func TestMergeCapacityDropsOldest(t *testing.T) {
	var incoming []Item
	for i := 0; i < 6; i++ {
		incoming = append(incoming, item(t, fmt.Sprintf("1.p%d", i), fmt.Sprintf("e%d", i)))
	}

	s := Merge(Store{}, incoming, 4)
	if s.Len() != 4 {
		t.Fatalf("store has %d items, want exactly capacity 4", s.Len())
	}

	// Drop-oldest policy keeps the most recent four.
	want := []string{"1.p2", "1.p3", "1.p4", "1.p5"}
	for i, p := range s.Pointers() {
		if p != want[i] {
			t.Errorf("pointer[%d] = %q, want %q", i, p, want[i])
		}
	}
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	base := Merge(Store{}, []Item{item(t, "1.p1", "x")}, 10)
	before := base.Pointers()

	_ = Merge(base, []Item{item(t, "1.p2", "y"), item(t, "1.p3", "z")}, 2)

	after := base.Pointers()
	if len(before) != len(after) || before[0] != after[0] {
		t.Errorf("input store mutated: %v -> %v", before, after)
	}
	if base.Len() != 1 {
		t.Errorf("input store length changed to %d", base.Len())
	}
}

func TestStoreContains(t *testing.T) {
	s := Merge(Store{}, []Item{item(t, "1.2.p3", "x")}, 10)

	ptr, _ := document.ParsePointer("1.2.P3")
	if !s.Contains(ptr) {
		t.Error("Contains should match case-insensitively")
	}
	if !s.ContainsLabel("1.2.P3") {
		t.Error("ContainsLabel should match case-insensitively")
	}
	other, _ := document.ParsePointer("1.2.p4")
	if s.Contains(other) {
		t.Error("Contains matched an absent pointer")
	}
}

func TestMergeUnboundedCapacity(t *testing.T) {
	var incoming []Item
	for i := 0; i < 30; i++ {
		incoming = append(incoming, item(t, fmt.Sprintf("p%d", i), "e"))
	}
	s := Merge(Store{}, incoming, 0)
	if s.Len() != 30 {
		t.Errorf("capacity 0 should be unbounded, got %d items", s.Len())
	}
}
