package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Apostrophe and quote variants that show up in scraped place names.
var apostrophes = strings.NewReplacer(
	"‘", "'", // left single quotation mark
	"’", "'", // right single quotation mark
	"`", "'",
)

var quotes = strings.NewReplacer(
	"“", `"`, // left double quotation mark
	"”", `"`, // right double quotation mark
	"„", `"`, // low double quotation mark
)

// Key canonicalizes a display name into a comparison key. Names that differ
// only in case, width (full-width vs half-width forms), quote style, edge
// punctuation or whitespace runs produce the same key. The key is used purely
// for grouping and is never displayed.
//
// The steps run in a fixed order so repeated runs over the same corpus group
// identically:
//
//  1. lowercase
//  2. trim surrounding whitespace
//  3. NFKC normalization (collapses full-width/half-width variants)
//  4. unify apostrophe variants
//  5. unify double-quote variants
//  6. collapse whitespace runs to a single space
//  7. strip leading/trailing runes outside ASCII alphanumerics and the
//     CJK block range U+3000..U+9FFF
//
// NFKC can introduce uppercase letters that the first lowercase pass never
// saw (U+1D40 folds to "T", U+2116 to "No"), so the case fold runs again
// after the fold to keep Key idempotent.
func Key(name string) string {
	s := strings.ToLower(name)
	s = strings.TrimSpace(s)
	s = strings.ToLower(norm.NFKC.String(s))
	s = apostrophes.Replace(s)
	s = quotes.Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimFunc(s, func(r rune) bool { return !isCoreRune(r) })
	return s
}

// isCoreRune reports whether r counts as name content for edge trimming.
func isCoreRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r >= 0x3000 && r <= 0x9fff:
		return true
	}
	return false
}

// IsBlank reports whether a name is empty after normalization. Blank names
// are excluded from grouping entirely; an empty key never forms a duplicate
// group on its own.
func IsBlank(name string) bool {
	return Key(name) == ""
}
