package textnorm

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NFKC applies canonical compatibility normalization. All character and byte
// counting downstream happens on NFKC-normalized text.
func NFKC(s string) string {
	return norm.NFKC.String(s)
}

// CollapseWhitespace squeezes runs of whitespace into single spaces and trims
// the edges.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FoldKey produces the dedupe/lookup key for a piece of text: lowercased,
// accent-folded, whitespace-collapsed.
func FoldKey(s string) string {
	return CollapseWhitespace(strings.ToLower(FoldAccents(s)))
}

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldAccents strips combining marks so that "Descripción" matches
// "Descripcion".
func FoldAccents(s string) string {
	out, _, err := transform.String(accentFolder, s)
	if err != nil {
		return s
	}
	return out
}

// StripMarkup removes HTML tags and decodes character entities, returning
// plain text. Text separated only by tags keeps a space between fragments.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	// A space before every tag open keeps adjacent text nodes apart once the
	// tags are gone.
	spaced := strings.ReplaceAll(s, "<", " <")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(spaced))
	if err != nil {
		return s
	}
	return CollapseWhitespace(doc.Text())
}

// FlattenMarkdown renders markdown to HTML and strips it, so model output
// like "**bold** claims" loses its markup but keeps its words.
func FlattenMarkdown(s string) string {
	if !strings.ContainsAny(s, "*_#`[<&") {
		return s
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(s), &buf); err != nil {
		return StripMarkup(s)
	}
	return StripMarkup(buf.String())
}

// TruncateBytes cuts s to at most n UTF-8 bytes, backing off first to a
// complete code point and then to the previous word boundary. A word fragment
// left by the cut could spell a word the full text never contained, so
// fragments never survive. A single word longer than n keeps the byte-level
// cut.
func TruncateBytes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return trimPartialWord(s[:n], s[n])
}

// TruncateChars cuts s to at most n code points, backing off to the previous
// word boundary like TruncateBytes.
func TruncateChars(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return trimPartialWord(s[:i], s[i])
		}
		count++
	}
	return s
}

// trimPartialWord drops a trailing word fragment produced by a cut: when the
// cut lands inside a word, the kept text backs off to the previous
// whitespace. next is the first byte past the cut.
func trimPartialWord(kept string, next byte) string {
	if len(kept) > 0 && !isSpaceByte(next) && !isSpaceByte(kept[len(kept)-1]) {
		if i := strings.LastIndexFunc(kept, unicode.IsSpace); i >= 0 {
			kept = kept[:i]
		}
	}
	return strings.TrimRight(kept, " \t\r\n")
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// RemoveSymbols replaces every occurrence of the given symbols with a space,
// so "Bed&Bath" stays two words. Callers collapse whitespace afterwards.
func RemoveSymbols(s string, symbols []string) string {
	for _, sym := range symbols {
		if sym == "" {
			continue
		}
		s = strings.ReplaceAll(s, sym, " ")
	}
	return s
}

var separatorRun = regexp.MustCompile(`[|•·▪‣◦]+`)
var spacedDash = regexp.MustCompile(`\s[-–—]+\s`)

// CollapseSeparators turns decorative separator runs (pipes, bullets, spaced
// dashes) into single spaces. Intra-word hyphens survive.
func CollapseSeparators(s string) string {
	s = separatorRun.ReplaceAllString(s, " ")
	s = spacedDash.ReplaceAllString(s, " ")
	return s
}

// TrimEdgePunct removes punctuation and whitespace hanging off both ends.
func TrimEdgePunct(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

// Words reports the number of whitespace-separated words.
func Words(s string) int {
	return len(strings.Fields(s))
}
