package textnorm

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateBytesKeepsValidUTF8(t *testing.T) {
	t.Parallel()

	s := strings.Repeat("é", 101) // 202 bytes
	out := TruncateBytes(s, 200)
	if len(out) > 200 {
		t.Fatalf("expected at most 200 bytes, got %d", len(out))
	}
	if !utf8.ValidString(out) {
		t.Fatalf("truncation produced invalid UTF-8: %q", out)
	}
	if utf8.RuneCountInString(out) != 100 {
		t.Fatalf("expected 100 runes, got %d", utf8.RuneCountInString(out))
	}
}

func TestTruncateBytesShortInputUntouched(t *testing.T) {
	t.Parallel()

	if out := TruncateBytes("abc", 200); out != "abc" {
		t.Fatalf("unexpected result: %q", out)
	}
}

func TestTruncateBytesBacksOffToWordBoundary(t *testing.T) {
	t.Parallel()

	// A cut inside "three" drops the fragment.
	if out := TruncateBytes("one two three", 9); out != "one two" {
		t.Fatalf("unexpected result: %q", out)
	}
	// A cut landing exactly after a word keeps it.
	if out := TruncateBytes("one two three", 7); out != "one two" {
		t.Fatalf("unexpected result: %q", out)
	}
	// A single over-long word keeps the byte-level cut.
	if out := TruncateBytes(strings.Repeat("x", 20), 10); out != strings.Repeat("x", 10) {
		t.Fatalf("unexpected result: %q", out)
	}
}

func TestTruncateCharsBacksOffToWordBoundary(t *testing.T) {
	t.Parallel()

	if out := TruncateChars("héllo wörld extra", 8); out != "héllo" {
		t.Fatalf("unexpected result: %q", out)
	}
}

func TestTruncateChars(t *testing.T) {
	t.Parallel()

	if out := TruncateChars("héllo world", 5); out != "héllo" {
		t.Fatalf("unexpected result: %q", out)
	}
	if out := TruncateChars("short", 10); out != "short" {
		t.Fatalf("unexpected result: %q", out)
	}
}

func TestStripMarkup(t *testing.T) {
	t.Parallel()

	out := StripMarkup("<b>Steel</b> bottle &amp; more")
	if out != "Steel bottle & more" {
		t.Fatalf("unexpected result: %q", out)
	}
}

func TestStripMarkupKeepsSpacingBetweenBlocks(t *testing.T) {
	t.Parallel()

	out := StripMarkup("<p>one</p><p>two</p>")
	if out != "one two" {
		t.Fatalf("unexpected result: %q", out)
	}
}

func TestFlattenMarkdown(t *testing.T) {
	t.Parallel()

	out := FlattenMarkdown("**bold** and _quiet_")
	if strings.Contains(out, "*") || strings.Contains(out, "_") {
		t.Fatalf("markdown survived flattening: %q", out)
	}
	if !strings.Contains(out, "bold") || !strings.Contains(out, "quiet") {
		t.Fatalf("words lost in flattening: %q", out)
	}
}

func TestFoldKey(t *testing.T) {
	t.Parallel()

	if FoldKey("  Descripción   Corta ") != "descripcion corta" {
		t.Fatalf("unexpected fold: %q", FoldKey("  Descripción   Corta "))
	}
}

func TestCollapseSeparators(t *testing.T) {
	t.Parallel()

	out := CollapseWhitespace(CollapseSeparators("Acme | Steel ||| Bottle — Red"))
	if out != "Acme Steel Bottle Red" {
		t.Fatalf("unexpected result: %q", out)
	}
	if got := CollapseSeparators("real-world use"); got != "real-world use" {
		t.Fatalf("intra-word hyphen lost: %q", got)
	}
}

func TestNFKC(t *testing.T) {
	t.Parallel()

	// Full-width characters compose to ASCII under NFKC.
	if NFKC("Ａｃｍｅ") != "Acme" {
		t.Fatalf("unexpected NFKC result: %q", NFKC("Ａｃｍｅ"))
	}
}
