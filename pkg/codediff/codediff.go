// Package codediff compares two versions of a candidate's code line by line.
package codediff

import (
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	fromFile     = "previous_code"
	toFile       = "current_code"
	contextLines = 3
)

// SplitLines splits text into lines without terminators. "\r\n", a lone "\r", "\n" and the
// other Unicode line boundaries (\v, \f, \x1c-\x1e, NEL, LS, PS) all end a line. An empty
// text has no lines and a trailing terminator does not open a new one.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}

	var lines []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isLineBreak(r) {
			i += size
			continue
		}
		lines = append(lines, text[start:i])
		i += size
		if r == '\r' && i < len(text) && text[i] == '\n' {
			i++
		}
		start = i
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// ChangedLines counts the lines removed from oldText plus the lines added in newText, i.e.
// the '-' and '+' lines of a unified diff without its headers.
func ChangedLines(oldText, newText string) int {
	if oldText == newText {
		return 0
	}
	matcher := difflib.NewMatcher(SplitLines(oldText), SplitLines(newText))

	changed := 0
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'r':
			changed += (op.I2 - op.I1) + (op.J2 - op.J1)
		case 'd':
			changed += op.I2 - op.I1
		case 'i':
			changed += op.J2 - op.J1
		}
	}
	return changed
}

// Unified renders a unified diff from oldText to newText. It returns "" when there is no
// line-level change.
func Unified(oldText, newText string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        withTerminators(SplitLines(oldText)),
		B:        withTerminators(SplitLines(newText)),
		FromFile: fromFile,
		ToFile:   toFile,
		Context:  contextLines,
	}
	return difflib.GetUnifiedDiffString(diff)
}

func withTerminators(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line + "\n"
	}
	return out
}
