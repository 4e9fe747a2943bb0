// Package normalize cleans participant and drawing names
//
// Display keeps what a person typed minus control characters and stray whitespace
// Key folds a name for equality checks so "Ana", " ANA " and "Aná" collide
// Key pipeline
// 1 Display cleanup
// 2 Unicode NFKD decomposition
// 3 Remove combining marks
// 4 Case folding
// 5 Width fold fullwidth to ASCII
// 6 NFC recomposition
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// pool of fresh transformer chains, a chain is stateful and not shareable
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD,
			runes.Remove(runes.In(unicode.Mn)), // accents split off by NFKD
			runes.Remove(runes.In(unicode.Cf)), // ZWJ ZWNJ FEFF etc
			cases.Fold(),
			width.Fold,
			norm.NFC,
		)
	},
}

// Display returns s fit for storage and display
// invalid UTF-8, control and format runes are dropped, whitespace runs collapse to one space
func Display(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return ' '
		case unicode.IsControl(r), unicode.Is(unicode.Cf, r):
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// Key returns the comparison form of a name
func Key(s string) string {
	s = Display(s)
	if s == "" {
		return ""
	}
	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// Same reports whether a and b fold to the same non empty key
func Same(a, b string) bool {
	ka := Key(a)
	return ka != "" && ka == Key(b)
}
