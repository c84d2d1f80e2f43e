package codediff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"single without newline", "a", []string{"a"}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"blank line kept", "a\n\nb", []string{"a", "", "b"}},
		{"lone carriage returns", "a\rb\rc\r", []string{"a", "b", "c"}},
		{"mixed terminators", "a\r\nb\rc\nd", []string{"a", "b", "c", "d"}},
		{"unicode separators", "a\u2028b\u0085c\fd", []string{"a", "b", "c", "d"}},
		{"blank line between carriage returns", "a\r\rb", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.text))
		})
	}
}

func TestChangedLines(t *testing.T) {
	base := "def f(x):\n    return x\n"

	tests := []struct {
		name     string
		old, new string
		want     int
	}{
		{"identical", base, base, 0},
		{"both empty", "", "", 0},
		{"from empty", "", "a\nb\nc\n", 3},
		{"to empty", "a\nb\n", "", 2},
		{"one line edited", base, "def f(x):\n    return x + 1\n", 2},
		{"lines appended", base, base + "\nprint(f(1))\nprint(f(2))\n", 3},
		{"trailing newline only", "a\nb", "a\nb\n", 0},
		{"classic mac line endings", "a\r", "a\rb\rc\rd\re\rf\r", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChangedLines(tt.old, tt.new))
		})
	}
}

func TestChangedLinesSelfIsZero(t *testing.T) {
	samples := []string{"", "x", "a\nb\nc", strings.Repeat("line\n", 300)}
	for _, s := range samples {
		assert.Equal(t, 0, ChangedLines(s, s))
	}
}

func TestChangedLinesMatchesUnifiedDiff(t *testing.T) {
	oldText := "a\nb\nc\nd\ne\n"
	newText := "a\nB\nc\ne\nf\ng\n"

	diff, err := Unified(oldText, newText)
	require.NoError(t, err)

	counted := 0
	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "---") || strings.HasPrefix(line, "+++") {
			continue
		}
		if strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-") {
			counted++
		}
	}
	assert.Equal(t, counted, ChangedLines(oldText, newText))
}

func TestUnified(t *testing.T) {
	diff, err := Unified("a\nb\n", "a\nc\n")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(diff, "--- previous_code\n+++ current_code\n"))
	assert.Contains(t, diff, "-b\n")
	assert.Contains(t, diff, "+c\n")

	same, err := Unified("a\nb\n", "a\nb\n")
	require.NoError(t, err)
	assert.Empty(t, same)
}
