// Package extract recovers structured decisions from free-form generated
// text. Model output is adversarial by construction: it may wrap the JSON
// in prose or code fences, emit several candidate objects, or leave control
// characters unescaped inside string literals. Every rule here exists to
// keep the pipeline forward-progress-guaranteed, not to enforce strict
// correctness.
package extract

import "strings"

// Candidates scans raw text for JSON-object-shaped substrings. The scan is
// bracket-balanced and string-aware, so nested braces inside string values
// do not split a candidate, and leading/trailing prose or code fences are
// ignored. Candidates are returned in document order.
func Candidates(raw string) []string {
	var out []string
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					out = append(out, raw[start:i+1])
					start = -1
				}
			}
		}
	}
	return out
}

// sanitizeControlChars escapes unescaped newline, carriage return, and tab
// characters occurring inside string literals. Applied as a second chance
// when a candidate fails to parse directly.
func sanitizeControlChars(candidate string) string {
	var b strings.Builder
	b.Grow(len(candidate))
	inString := false
	escaped := false

	for i := 0; i < len(candidate); i++ {
		ch := candidate[i]
		if !inString {
			if ch == '"' {
				inString = true
			}
			b.WriteByte(ch)
			continue
		}
		switch {
		case escaped:
			escaped = false
			b.WriteByte(ch)
		case ch == '\\':
			escaped = true
			b.WriteByte(ch)
		case ch == '"':
			inString = false
			b.WriteByte(ch)
		case ch == '\n':
			b.WriteString(`\n`)
		case ch == '\r':
			b.WriteString(`\r`)
		case ch == '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}
