package document

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Pointer is a hierarchical address for one document item: an ordered list
// of heading-counter numbers representing nesting, optionally followed by a
// paragraph ordinal scoped to the nearest heading. The canonical textual
// form joins the heading numbers with dots and appends ".p<N>" for the
// paragraph ordinal (e.g. "1.2.p3"). A bare "p7" is valid when no heading
// precedes the item.
//
// The zero Pointer is invalid; construct via NewPointer or ParsePointer.
type Pointer struct {
	heads   []int
	para    int
	hasPara bool
}

// NewPointer builds a pointer from a heading path and paragraph ordinal.
// Pass para < 0 for a heading-only (container) pointer. At least one of the
// two parts must be present.
func NewPointer(heads []int, para int) (Pointer, error) {
	hasPara := para >= 0
	if len(heads) == 0 && !hasPara {
		return Pointer{}, fmt.Errorf("pointer: needs a heading path or a paragraph ordinal")
	}
	for _, h := range heads {
		if h < 0 {
			return Pointer{}, fmt.Errorf("pointer: negative heading number %d", h)
		}
	}
	if !hasPara {
		para = 0
	}
	return Pointer{heads: slices.Clone(heads), para: para, hasPara: hasPara}, nil
}

// ParsePointer parses a pointer from any of its three surface forms: a bare
// label ("1.2.p3"), the legacy "<index>:<label>" form, or a small JSON
// object carrying a "label" field. All three normalize to the same canonical
// form or the parse fails.
func ParsePointer(raw string) (Pointer, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Pointer{}, fmt.Errorf("pointer: empty label")
	}

	if strings.HasPrefix(s, "{") {
		var obj struct {
			Label string `json:"label"`
		}
		if err := json.Unmarshal([]byte(s), &obj); err != nil {
			return Pointer{}, fmt.Errorf("pointer: invalid JSON form: %w", err)
		}
		if strings.TrimSpace(obj.Label) == "" {
			return Pointer{}, fmt.Errorf("pointer: JSON form missing label")
		}
		return parseLabel(obj.Label)
	}

	if i := strings.IndexByte(s, ':'); i >= 0 {
		if _, err := strconv.Atoi(strings.TrimSpace(s[:i])); err != nil {
			return Pointer{}, fmt.Errorf("pointer: invalid index prefix in %q", raw)
		}
		return parseLabel(s[i+1:])
	}

	return parseLabel(s)
}

// parseLabel parses the canonical grammar
// (<int>(.<int>)*)? (.p<int> | p<int>)? with at least one part present.
// The paragraph marker is case-insensitive and a missing separator before
// it is inserted.
func parseLabel(label string) (Pointer, error) {
	s := strings.ToLower(strings.TrimSpace(label))
	if s == "" {
		return Pointer{}, fmt.Errorf("pointer: empty label")
	}

	para, hasPara := 0, false
	if i := strings.IndexByte(s, 'p'); i >= 0 {
		n, err := strconv.Atoi(s[i+1:])
		if err != nil || n < 0 {
			return Pointer{}, fmt.Errorf("pointer: invalid paragraph ordinal in %q", label)
		}
		para, hasPara = n, true
		s = strings.TrimSuffix(s[:i], ".")
	}

	var heads []int
	if s != "" {
		for _, part := range strings.Split(s, ".") {
			n, err := strconv.Atoi(part)
			if err != nil || n < 0 {
				return Pointer{}, fmt.Errorf("pointer: invalid heading number %q in %q", part, label)
			}
			heads = append(heads, n)
		}
	}

	if len(heads) == 0 && !hasPara {
		return Pointer{}, fmt.Errorf("pointer: no heading path or paragraph ordinal in %q", label)
	}
	return Pointer{heads: heads, para: para, hasPara: hasPara}, nil
}

// String returns the canonical textual form.
func (p Pointer) String() string {
	var b strings.Builder
	for i, h := range p.heads {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(h))
	}
	if p.hasPara {
		if len(p.heads) > 0 {
			b.WriteByte('.')
		}
		b.WriteByte('p')
		b.WriteString(strconv.Itoa(p.para))
	}
	return b.String()
}

// IsZero reports whether the pointer is the invalid zero value.
func (p Pointer) IsZero() bool {
	return len(p.heads) == 0 && !p.hasPara
}

// HeadingPath returns a copy of the heading-counter path.
func (p Pointer) HeadingPath() []int {
	return slices.Clone(p.heads)
}

// Paragraph returns the paragraph ordinal and whether one is present.
func (p Pointer) Paragraph() (int, bool) {
	return p.para, p.hasPara
}

// Equal reports case-insensitive equality on the canonical form. This is
// the identity used for evidence deduplication.
func (p Pointer) Equal(o Pointer) bool {
	return strings.EqualFold(p.String(), o.String())
}

// Contains reports whether p, a heading-only container pointer, contains o:
// o's heading-number prefix must match p's path exactly up to p's length.
// A pointer with a paragraph ordinal contains nothing.
func (p Pointer) Contains(o Pointer) bool {
	if p.hasPara || len(p.heads) == 0 {
		return false
	}
	if len(o.heads) < len(p.heads) {
		return false
	}
	return slices.Equal(p.heads, o.heads[:len(p.heads)])
}

// Adjacent reports whether two paragraph pointers are within tolerance of
// each other. Closeness is defined only when both pointers carry a
// paragraph ordinal and share an identical heading path; distance is the
// absolute difference of the ordinals.
func (p Pointer) Adjacent(o Pointer, tolerance int) bool {
	if !p.hasPara || !o.hasPara {
		return false
	}
	if !slices.Equal(p.heads, o.heads) {
		return false
	}
	d := p.para - o.para
	if d < 0 {
		d = -d
	}
	return d <= tolerance
}

// MarshalJSON encodes the canonical form as a JSON string.
func (p Pointer) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts either a JSON string label or the object surface
// form with a "label" field.
func (p *Pointer) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := ParsePointer(s)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}
	parsed, err := ParsePointer(string(data))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
