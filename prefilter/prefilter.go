// Package prefilter provides fast candidate filtering for regex search using
// extracted literal sequences.
//
// A prefilter quickly rejects positions in the subject where no match can
// start. The global match driver asks the prefilter for the next candidate
// instead of retrying the backtracking matcher at every character.
//
// The package selects a strategy from the extracted prefix literals:
//   - Single byte → Memchr (bytes.IndexByte)
//   - Single substring → Memmem (bytes.Index)
//   - Several literals sharing a prefix → Memchr/Memmem on the prefix
//   - Several unrelated literals → Aho-Corasick automaton
//
// Example usage:
//
//	p, _ := syntax.Parse("(hello|world)", 0)
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(p.Root)
//
//	pf := prefilter.NewBuilder(prefixes).Build()
//	haystack := []byte("foo hello bar world baz")
//	pos := pf.Find(haystack, 0)
//	// pos == 4 (position of "hello")
package prefilter

import (
	"bytes"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/retrace/literal"
)

// Prefilter finds candidate match positions before the full matcher runs.
type Prefilter interface {
	// Find returns a candidate at or after start, or -1 if no literal occurs
	// there. No literal starts in [start, candidate), so skipping to the
	// candidate never skips a match. A candidate does NOT guarantee a match;
	// the caller must verify it.
	Find(haystack []byte, start int) int

	// IsComplete returns true if a candidate is always a full match of
	// exactly LiteralLen bytes.
	IsComplete() bool

	// LiteralLen returns the match length when IsComplete is true, else 0.
	LiteralLen() int

	// Kind names the strategy, for logging and stats.
	Kind() Kind
}

// Kind identifies a prefilter implementation.
type Kind string

// Prefilter kinds.
const (
	KindMemchr      Kind = "memchr"
	KindMemmem      Kind = "memmem"
	KindAhoCorasick Kind = "aho-corasick"
)

// Builder constructs the best prefilter for a prefix literal sequence.
//
// Selection strategy (in order of preference):
//  1. No literals, or the empty literal among them → nil
//  2. Single byte literal → Memchr
//  3. Single substring literal → Memmem
//  4. Several literals with a common prefix → Memchr/Memmem on the prefix
//  5. Several literals → Aho-Corasick
type Builder struct {
	prefixes   *literal.Seq
	minLiteral int
}

// NewBuilder creates a new prefilter builder from extracted prefixes.
// prefixes may be nil, indicating no literals were extracted.
func NewBuilder(prefixes *literal.Seq) *Builder {
	return &Builder{
		prefixes:   prefixes,
		minLiteral: 1,
	}
}

// MinLiteralLen rejects literal sets whose shortest literal is shorter
// than n bytes.
func (b *Builder) MinLiteralLen(n int) *Builder {
	b.minLiteral = n
	return b
}

// Build returns the prefilter, or nil if none is worthwhile.
// The builder's sequence is minimized in place.
func (b *Builder) Build() Prefilter {
	seq := b.prefixes
	if seq.IsEmpty() || seq.HasEmpty() {
		return nil
	}
	seq.Minimize()
	if seq.MinLen() < b.minLiteral {
		return nil
	}

	if seq.Len() == 1 {
		lit := seq.Get(0)
		return newSubstringPrefilter(lit.Bytes, lit.Complete)
	}
	if prefix := seq.LongestCommonPrefix(); len(prefix) >= b.minLiteral {
		return newSubstringPrefilter(prefix, false)
	}
	return newAhoCorasickPrefilter(seq)
}

func newSubstringPrefilter(needle []byte, complete bool) Prefilter {
	if len(needle) == 1 {
		return newMemchrPrefilter(needle[0], complete)
	}
	return newMemmemPrefilter(needle, complete)
}

// memchrPrefilter searches for a single byte.
//
// Example patterns:
//
//	/a.*/         → search for 'a'
//	/[x]yz?/      → search for 'x'
type memchrPrefilter struct {
	needle   byte
	complete bool
}

func newMemchrPrefilter(needle byte, complete bool) Prefilter {
	return &memchrPrefilter{
		needle:   needle,
		complete: complete,
	}
}

// Find implements Prefilter.Find using bytes.IndexByte.
func (p *memchrPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := bytes.IndexByte(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

func (p *memchrPrefilter) IsComplete() bool { return p.complete }

func (p *memchrPrefilter) LiteralLen() int {
	if p.complete {
		return 1
	}
	return 0
}

func (p *memchrPrefilter) Kind() Kind { return KindMemchr }

// memmemPrefilter searches for a single substring.
//
// Example patterns:
//
//	/hello/        → search for "hello"
//	/marke(ts|t)/  → after minimization → search for "market"
//	/markets*?/    → search for "market"
type memmemPrefilter struct {
	needle   []byte
	complete bool
}

// newMemmemPrefilter copies needle to prevent aliasing.
func newMemmemPrefilter(needle []byte, complete bool) Prefilter {
	return &memmemPrefilter{
		needle:   append([]byte(nil), needle...),
		complete: complete,
	}
}

// Find implements Prefilter.Find using bytes.Index.
func (p *memmemPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := bytes.Index(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

func (p *memmemPrefilter) IsComplete() bool { return p.complete }

func (p *memmemPrefilter) LiteralLen() int {
	if p.complete {
		return len(p.needle)
	}
	return 0
}

func (p *memmemPrefilter) Kind() Kind { return KindMemmem }

// ahoCorasickPrefilter searches for several literals at once.
//
// The automaton reports the occurrence that ends first, which is not always
// the one that starts first: for "abcd" and "bc" in "abcd" it finds "bc". Any
// occurrence starting earlier ends no sooner and is at most maxLen bytes
// long, so the candidate is moved back to end-maxLen. The matcher then walks
// forward from there.
//
// Example patterns:
//
//	/(cat|dog)s?/       → search for "cat" or "dog"
//	/[abc]x/            → search for "ax", "bx" or "cx"
type ahoCorasickPrefilter struct {
	automaton *ahocorasick.Automaton
	maxLen    int
}

// newAhoCorasickPrefilter builds the automaton; it returns nil if the
// automaton cannot be built, which callers treat as "no prefilter".
func newAhoCorasickPrefilter(seq *literal.Seq) Prefilter {
	builder := ahocorasick.NewBuilder()
	maxLen := 0
	for i := 0; i < seq.Len(); i++ {
		lit := seq.Get(i).Bytes
		builder.AddPattern(lit)
		maxLen = max(maxLen, len(lit))
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &ahoCorasickPrefilter{automaton: auto, maxLen: maxLen}
}

// Find implements Prefilter.Find.
func (p *ahoCorasickPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	m := p.automaton.Find(haystack, start)
	if m == nil {
		return -1
	}
	return max(start, m.End-p.maxLen)
}

// IsComplete is always false: literals of different lengths share one
// automaton, so the matcher must confirm the exact end.
func (p *ahoCorasickPrefilter) IsComplete() bool { return false }

func (p *ahoCorasickPrefilter) LiteralLen() int { return 0 }

func (p *ahoCorasickPrefilter) Kind() Kind { return KindAhoCorasick }
