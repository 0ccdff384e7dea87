package rtl

import (
	"strings"
	"testing"
)

func TestShapeEmpty(t *testing.T) {
	if got := Shape(""); got != "" {
		t.Errorf("Shape(\"\") = %q", got)
	}
}

func TestShapeLatinUnchanged(t *testing.T) {
	input := "Hello world"
	if got := Shape(input); got != input {
		t.Errorf("Shape(%q) = %q, want unchanged", input, got)
	}
}

func TestShapePreservesNewlines(t *testing.T) {
	tests := []string{
		"line one\nline two",
		"سطر اول\nسطر دوم",
		"trailing newline\n",
		"\nleading newline",
		"a\n\nb",
	}
	for _, input := range tests {
		got := Shape(input)
		if strings.Count(got, "\n") != strings.Count(input, "\n") {
			t.Errorf("Shape(%q) changed newline count: %q", input, got)
		}
		if strings.HasSuffix(input, "\n") != strings.HasSuffix(got, "\n") {
			t.Errorf("Shape(%q) lost trailing newline: %q", input, got)
		}
	}
}

func TestShapePersianReordersRunes(t *testing.T) {
	// A purely RTL line comes back with its (joined) runes in visual
	// order, i.e. reversed relative to logical order.
	input := "اب"
	got := Shape(input)
	if got == "" {
		t.Fatal("Shape returned empty")
	}
	if got == input {
		t.Errorf("expected joined presentation forms in visual order, got input back: %q", got)
	}
	if n := len([]rune(got)); n != 2 {
		t.Errorf("expected 2 runes, got %d (%q)", n, got)
	}
}

func TestShapeMixedDirection(t *testing.T) {
	// Embedded Latin keeps its own left-to-right rune order.
	input := "نتیجه abc است"
	got := Shape(input)
	if !strings.Contains(got, "abc") {
		t.Errorf("latin run was reordered: %q", got)
	}
}

func TestShapeIdempotentOnLatin(t *testing.T) {
	input := "plain ascii text 123"
	once := Shape(input)
	twice := Shape(once)
	if once != twice {
		t.Errorf("shaping latin text twice diverged: %q vs %q", once, twice)
	}
}
