package value

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Comparator compares two values of the same type. The default
// comparator delegates to Value.Compare for every type, including TEXT
// (byte-lexicographic). A locale-bound comparator delegates TEXT
// comparisons to a Unicode collator and everything else to Compare.
type Comparator func(a, b Value) int

// DefaultComparator is the byte-lexicographic comparator used unless a
// query explicitly binds a locale.
func DefaultComparator(a, b Value) int { return a.Compare(b) }

// NewLocaleComparator returns a Comparator whose TEXT ordering follows
// the Unicode collation rules of locale (e.g. "en", "de", "tr"). All
// other types fall back to Value.Compare, matching the source's rule
// that only TEXT comparison is locale-sensitive.
func NewLocaleComparator(locale string) Comparator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	col := collate.New(tag)
	return func(a, b Value) int {
		if a.typ == Text && b.typ == Text {
			if a.null && b.null {
				return 0
			}
			if a.null {
				return -1
			}
			if b.null {
				return 1
			}
			return col.CompareString(a.s, b.s)
		}
		return a.Compare(b)
	}
}
