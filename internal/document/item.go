// Package document defines the addressable unit model for scanned documents:
// items produced by an external markdown parser, the hierarchical pointers
// that address them, and the budgeted cursor that partitions an item list
// into windows.
//
// This package has no dependencies on other docscout packages to avoid
// import cycles.
package document

// Kind tags the structural role of an item.
type Kind string

const (
	KindHeading       Kind = "heading"
	KindParagraph     Kind = "paragraph"
	KindListItem      Kind = "list_item"
	KindCode          Kind = "code"
	KindThematicBreak Kind = "thematic_break"
	KindRawHTML       Kind = "raw_html"
)

// ParseKind converts a string tag to a Kind.
// Returns KindParagraph if the tag is not recognized.
func ParseKind(s string) Kind {
	switch Kind(s) {
	case KindHeading, KindParagraph, KindListItem, KindCode, KindThematicBreak, KindRawHTML:
		return Kind(s)
	default:
		return KindParagraph
	}
}

// Item is one addressable unit of a document. Items are produced by the
// document source and treated as immutable for the duration of a scan.
type Item struct {
	Index    int     // Ordinal position in the document's item list
	Kind     Kind    // Structural role
	Markdown string  // Original formatted text
	Text     string  // Extracted plain text
	Ptr      Pointer // Stable address within the heading hierarchy
}
