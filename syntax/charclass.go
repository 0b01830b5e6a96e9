package syntax

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// RuneRange is an inclusive range of code points.
type RuneRange struct {
	Lo, Hi rune
}

// Class is a normalized set of code points: sorted, non-overlapping,
// non-adjacent ranges. The zero value is the empty set.
type Class struct {
	ranges []RuneRange
}

var (
	digitRanges = []RuneRange{{'0', '9'}}
	wordRanges  = []RuneRange{{'0', '9'}, {'A', 'Z'}, {'_', '_'}, {'a', 'z'}}
	spaceRanges = []RuneRange{
		{'\t', '\r'}, {' ', ' '}, {0xa0, 0xa0}, {0x1680, 0x1680},
		{0x2000, 0x200a}, {0x2028, 0x2029}, {0x202f, 0x202f},
		{0x205f, 0x205f}, {0x3000, 0x3000}, {0xfeff, 0xfeff},
	}
	lineTerminators = []RuneRange{{'\n', '\n'}, {'\r', '\r'}, {0x2028, 0x2029}}
)

// NewClass builds a normalized class from arbitrary ranges.
func NewClass(ranges ...RuneRange) Class {
	var c Class
	for _, r := range ranges {
		c.AddRange(r.Lo, r.Hi)
	}
	return c
}

// AddRange adds lo..hi to the class. Ranges with lo > hi are ignored.
func (c *Class) AddRange(lo, hi rune) {
	if lo > hi {
		return
	}
	c.ranges = append(c.ranges, RuneRange{lo, hi})
	c.normalize()
}

// AddClass adds every code point of o to c.
func (c *Class) AddClass(o Class) {
	if len(o.ranges) == 0 {
		return
	}
	c.ranges = append(c.ranges, o.ranges...)
	c.normalize()
}

func (c *Class) normalize() {
	rs := c.ranges
	sort.Slice(rs, func(i, j int) bool { return rs[i].Lo < rs[j].Lo })
	out := rs[:0]
	for _, r := range rs {
		if n := len(out); n > 0 && r.Lo <= out[n-1].Hi+1 {
			if r.Hi > out[n-1].Hi {
				out[n-1].Hi = r.Hi
			}
			continue
		}
		out = append(out, r)
	}
	c.ranges = out
}

// Negate returns the complement of c over [0, unicode.MaxRune].
func (c Class) Negate() Class {
	var out []RuneRange
	next := rune(0)
	for _, r := range c.ranges {
		if r.Lo > next {
			out = append(out, RuneRange{next, r.Lo - 1})
		}
		next = r.Hi + 1
	}
	if next <= unicode.MaxRune {
		out = append(out, RuneRange{next, unicode.MaxRune})
	}
	return Class{ranges: out}
}

// Ranges returns the normalized ranges. The slice must not be modified.
func (c Class) Ranges() []RuneRange {
	return c.ranges
}

// Size returns the number of code points in the class.
func (c Class) Size() int {
	n := 0
	for _, r := range c.ranges {
		n += int(r.Hi-r.Lo) + 1
	}
	return n
}

// Contains reports whether r is a member of the class.
func (c Class) Contains(r rune) bool {
	rs := c.ranges
	// Binary search for the first range whose Hi >= r.
	i := sort.Search(len(rs), func(i int) bool { return rs[i].Hi >= r })
	return i < len(rs) && rs[i].Lo <= r
}

// ContainsFold reports whether r or any rune in its simple case-folding
// orbit is a member of the class.
func (c Class) ContainsFold(r rune) bool {
	if c.Contains(r) {
		return true
	}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if c.Contains(f) {
			return true
		}
	}
	return false
}

// EqualFold reports whether a and b are equal under simple case folding.
func EqualFold(a, b rune) bool {
	if a == b {
		return true
	}
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}

// IsWordChar reports whether r is an ASCII word character, [A-Za-z0-9_].
func IsWordChar(r rune) bool {
	return r < utf8.RuneSelf && (r == '_' || '0' <= r && r <= '9' ||
		'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z')
}

// IsLineTerminator reports whether r ends a line for ^, $ and '.'.
func IsLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == 0x2028 || r == 0x2029
}

func (c Class) String() string {
	var b strings.Builder
	for _, r := range c.ranges {
		writeClassRune(&b, r.Lo)
		if r.Hi != r.Lo {
			b.WriteByte('-')
			writeClassRune(&b, r.Hi)
		}
	}
	return b.String()
}

func writeClassRune(b *strings.Builder, r rune) {
	if unicode.IsPrint(r) && r != '-' && r != ']' && r != '\\' {
		b.WriteRune(r)
		return
	}
	b.WriteString(`\x{`)
	b.WriteString(strconv.FormatInt(int64(r), 16))
	b.WriteByte('}')
}
