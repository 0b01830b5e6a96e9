package syntax

import "strings"

// Flags is a bitmask of pattern options.
// The zero value is a plain, case-sensitive, single-match pattern.
type Flags uint8

const (
	// Global makes MatchAll collect every non-overlapping match ("g").
	Global Flags = 1 << iota

	// IgnoreCase folds literal, class and back-reference comparisons ("i").
	IgnoreCase

	// Multiline makes ^ and $ match at line terminators ("m").
	Multiline

	// DotAll makes . match line terminators ("s").
	DotAll

	// Sticky anchors matching at the scan offset instead of searching ("y").
	Sticky
)

var flagLetters = [...]struct {
	flag   Flags
	letter byte
}{
	{Global, 'g'},
	{IgnoreCase, 'i'},
	{Multiline, 'm'},
	{DotAll, 's'},
	{Sticky, 'y'},
}

// ParseFlags converts a flag string such as "gi" into Flags.
// Unknown or repeated letters are reported as a *Error with ErrInvalidFlags.
func ParseFlags(s string) (Flags, error) {
	var f Flags
	for i := 0; i < len(s); i++ {
		bit, ok := flagFor(s[i])
		if !ok || f&bit != 0 {
			return 0, &Error{Code: ErrInvalidFlags, Expr: s, Offset: i}
		}
		f |= bit
	}
	return f, nil
}

func flagFor(c byte) (Flags, bool) {
	for _, fl := range flagLetters {
		if fl.letter == c {
			return fl.flag, true
		}
	}
	return 0, false
}

// Has reports whether all bits of x are set in f.
func (f Flags) Has(x Flags) bool {
	return f&x == x
}

// String returns the canonical flag letters, e.g. "gi".
func (f Flags) String() string {
	var b strings.Builder
	for _, fl := range flagLetters {
		if f&fl.flag != 0 {
			b.WriteByte(fl.letter)
		}
	}
	return b.String()
}
