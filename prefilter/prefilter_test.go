package prefilter

import (
	"testing"

	"github.com/coregx/retrace/literal"
	"github.com/coregx/retrace/syntax"
)

func lits(complete bool, ss ...string) *literal.Seq {
	out := make([]literal.Literal, len(ss))
	for i, s := range ss {
		out[i] = literal.NewLiteral([]byte(s), complete)
	}
	return literal.NewSeq(out...)
}

func TestBuilderSelection(t *testing.T) {
	tests := []struct {
		name     string
		seq      *literal.Seq
		minLen   int
		wantNil  bool
		wantKind Kind
	}{
		{name: "nil sequence", seq: nil, wantNil: true},
		{name: "empty sequence", seq: literal.NewSeq(), wantNil: true},
		{name: "empty literal", seq: lits(false, "", "abc"), wantNil: true},
		{name: "single byte", seq: lits(true, "a"), wantKind: KindMemchr},
		{name: "single substring", seq: lits(true, "market"), wantKind: KindMemmem},
		{name: "prefix absorbed", seq: lits(true, "markets", "market"), wantKind: KindMemmem},
		{name: "several literals", seq: lits(true, "cat", "dog"), wantKind: KindAhoCorasick},
		{name: "common prefix", seq: lits(true, "market", "marker"), wantKind: KindMemmem},
		{name: "common first byte", seq: lits(true, "ab", "ac"), wantKind: KindMemchr},
		{name: "common prefix below min length", seq: lits(true, "abx", "aby"), minLen: 3, wantKind: KindAhoCorasick},
		{name: "below min length", seq: lits(true, "ab"), minLen: 3, wantNil: true},
		{name: "at min length", seq: lits(true, "abc"), minLen: 3, wantKind: KindMemmem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(tt.seq)
			if tt.minLen > 0 {
				b.MinLiteralLen(tt.minLen)
			}
			pf := b.Build()
			if tt.wantNil {
				if pf != nil {
					t.Fatalf("Build() = %v, want nil", pf.Kind())
				}
				return
			}
			if pf == nil {
				t.Fatal("Build() = nil, want a prefilter")
			}
			if pf.Kind() != tt.wantKind {
				t.Errorf("Kind() = %q, want %q", pf.Kind(), tt.wantKind)
			}
		})
	}
}

func TestPrefilterFind(t *testing.T) {
	tests := []struct {
		name     string
		seq      *literal.Seq
		haystack string
		start    int
		want     int
	}{
		{"memchr first", lits(true, "x"), "aaxaax", 0, 2},
		{"memchr from start", lits(true, "x"), "aaxaax", 3, 5},
		{"memchr none", lits(true, "x"), "aaaa", 0, -1},
		{"memmem first", lits(true, "market"), "Stock market markets", 0, 6},
		{"memmem from start", lits(true, "market"), "Stock market markets", 7, 13},
		{"memmem none", lits(true, "market"), "Stock", 0, -1},
		{"aho-corasick first", lits(true, "world", "hello"), "foo hello bar world", 0, 4},
		{"aho-corasick longer literal starts first", lits(true, "abcd", "bc"), "abcd", 0, 0},
		{"aho-corasick candidate before start", lits(true, "xabcd", "bc"), "zxabcd", 0, 0},
		{"aho-corasick candidate clamped", lits(true, "xabcd", "bc"), "zxabcd", 2, 2},
		{"aho-corasick from start", lits(true, "world", "hello"), "foo hello bar world", 5, 14},
		{"aho-corasick none", lits(true, "cat", "dog"), "bird", 0, -1},
		{"start past end", lits(true, "a"), "aaa", 3, -1},
		{"negative start", lits(true, "a"), "aaa", -1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf := NewBuilder(tt.seq).Build()
			if pf == nil {
				t.Fatal("Build() = nil")
			}
			if got := pf.Find([]byte(tt.haystack), tt.start); got != tt.want {
				t.Errorf("Find(%q, %d) = %d, want %d", tt.haystack, tt.start, got, tt.want)
			}
		})
	}
}

func TestPrefilterCompleteness(t *testing.T) {
	pf := NewBuilder(lits(true, "market")).Build()
	if !pf.IsComplete() || pf.LiteralLen() != 6 {
		t.Errorf("complete memmem: IsComplete() = %v, LiteralLen() = %d", pf.IsComplete(), pf.LiteralLen())
	}

	pf = NewBuilder(lits(true, "markets", "market")).Build()
	if pf.IsComplete() || pf.LiteralLen() != 0 {
		t.Errorf("absorbed prefix must be incomplete: IsComplete() = %v, LiteralLen() = %d", pf.IsComplete(), pf.LiteralLen())
	}

	pf = NewBuilder(lits(true, "cat", "dog")).Build()
	if pf.IsComplete() || pf.LiteralLen() != 0 {
		t.Error("aho-corasick prefilter must never be complete")
	}

	pf = NewBuilder(lits(true, "market", "marker")).Build()
	if pf.IsComplete() || pf.LiteralLen() != 0 {
		t.Error("common prefix prefilter must be incomplete")
	}
}

// TestPrefilterFromPattern runs the whole pipeline: parse, extract, build.
func TestPrefilterFromPattern(t *testing.T) {
	tests := []struct {
		pattern  string
		wantNil  bool
		wantKind Kind
	}{
		{pattern: `markets*?`, wantKind: KindMemmem},
		{pattern: `marke(ts|t)`, wantKind: KindMemmem},
		{pattern: `(cat|dog)s?`, wantKind: KindAhoCorasick},
		{pattern: `\bfoo`, wantKind: KindMemmem},
		{pattern: `x+y`, wantKind: KindMemchr},
		{pattern: `([A-Za-z0-9-]+)`, wantNil: true},
		{pattern: `a*`, wantNil: true},
		{pattern: `foo|`, wantNil: true},
		{pattern: `(a)\1`, wantKind: KindMemchr},
		{pattern: `\(?([0-9]{3})`, wantNil: true},
	}

	extractor := literal.New(literal.DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			p, err := syntax.Parse(tt.pattern, 0)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.pattern, err)
			}
			pf := NewBuilder(extractor.ExtractPrefixes(p.Root)).Build()
			if tt.wantNil {
				if pf != nil {
					t.Fatalf("Build() = %v, want nil", pf.Kind())
				}
				return
			}
			if pf == nil {
				t.Fatal("Build() = nil, want a prefilter")
			}
			if pf.Kind() != tt.wantKind {
				t.Errorf("Kind() = %q, want %q", pf.Kind(), tt.wantKind)
			}
		})
	}
}
