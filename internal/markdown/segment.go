// Package markdown segments a markdown source into the flat, addressable
// item list the scan cursor consumes. Pointers are assigned from the
// heading hierarchy: heading ordinals are 1-based per nesting level, and
// paragraph ordinals are 0-based within their section.
package markdown

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/docscout/docscout/internal/document"
)

// Segment parses src and flattens its block structure into document items.
func Segment(src []byte) ([]document.Item, error) {
	root := goldmark.New().Parser().Parse(text.NewReader(src))

	seg := &segmenter{src: src}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if err := seg.block(n); err != nil {
			return nil, err
		}
	}
	return seg.items, nil
}

type segmenter struct {
	src   []byte
	items []document.Item

	// heads holds the 1-based heading counter per nesting level; para is
	// the 0-based ordinal of the next body item in the current section.
	heads []int
	para  int
}

func (s *segmenter) block(n ast.Node) error {
	switch b := n.(type) {
	case *ast.Heading:
		return s.heading(b)
	case *ast.Paragraph, *ast.TextBlock:
		return s.body(document.KindParagraph, blockMarkdown(n, s.src), nodeText(n, s.src))
	case *ast.Blockquote:
		txt := nodeText(b, s.src)
		return s.body(document.KindParagraph, "> "+txt, txt)
	case *ast.List:
		for item := b.FirstChild(); item != nil; item = item.NextSibling() {
			txt := nodeText(item, s.src)
			if err := s.body(document.KindListItem, "- "+txt, txt); err != nil {
				return err
			}
		}
		return nil
	case *ast.FencedCodeBlock:
		code := blockLines(b, s.src)
		lang := string(b.Language(s.src))
		md := fmt.Sprintf("```%s\n%s```", lang, code)
		return s.body(document.KindCode, md, code)
	case *ast.CodeBlock:
		code := blockLines(b, s.src)
		return s.body(document.KindCode, code, code)
	case *ast.ThematicBreak:
		return s.body(document.KindThematicBreak, "---", "")
	case *ast.HTMLBlock:
		html := blockLines(b, s.src)
		return s.body(document.KindRawHTML, html, html)
	default:
		// Unhandled block kinds are flattened to paragraphs so nothing in
		// the source becomes unaddressable.
		txt := nodeText(n, s.src)
		md := blockMarkdown(n, s.src)
		if md == "" {
			md = txt
		}
		return s.body(document.KindParagraph, md, txt)
	}
}

func (s *segmenter) heading(h *ast.Heading) error {
	level := h.Level
	// A level deeper than the current path plus one has no parent to hang
	// from; clamp rather than invent intermediate sections.
	if level > len(s.heads)+1 {
		level = len(s.heads) + 1
	}
	s.heads = s.heads[:level-1]
	s.heads = append(s.heads, 0)
	s.heads[level-1]++
	s.para = 0

	ptr, err := document.NewPointer(append([]int(nil), s.heads...), -1)
	if err != nil {
		return fmt.Errorf("markdown: heading pointer: %w", err)
	}

	txt := nodeText(h, s.src)
	s.append(document.Item{
		Kind:     document.KindHeading,
		Markdown: strings.Repeat("#", h.Level) + " " + txt,
		Text:     txt,
		Ptr:      ptr,
	})
	return nil
}

func (s *segmenter) body(kind document.Kind, md, txt string) error {
	ptr, err := document.NewPointer(append([]int(nil), s.heads...), s.para)
	if err != nil {
		return fmt.Errorf("markdown: item pointer: %w", err)
	}
	s.para++

	s.append(document.Item{Kind: kind, Markdown: md, Text: txt, Ptr: ptr})
	return nil
}

func (s *segmenter) append(it document.Item) {
	it.Index = len(s.items)
	s.items = append(s.items, it)
}

// nodeText collects the plain text of a node's inline content.
func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// blockLines concatenates the raw source lines a block node spans.
func blockLines(n ast.Node, src []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(src))
	}
	return b.String()
}

func blockMarkdown(n ast.Node, src []byte) string {
	return strings.TrimSpace(blockLines(n, src))
}
