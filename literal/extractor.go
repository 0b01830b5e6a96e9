package literal

import (
	"unicode/utf8"

	"github.com/coregx/retrace/syntax"
)

// ExtractorConfig configures literal extraction limits.
//
// These limits prevent excessive extraction from complex patterns:
//   - MaxLiterals: prevents memory bloat from alternations like (a|b|c|d|...)
//   - MaxLiteralLen: prevents extracting very long literals
//   - MaxClassSize: prevents expanding large character classes like [a-z]
type ExtractorConfig struct {
	// MaxLiterals limits the number of literals in one Seq. Default: 64.
	MaxLiterals int

	// MaxLiteralLen limits the length of each literal in bytes. Default: 64.
	MaxLiteralLen int

	// MaxClassSize limits the size of character classes to expand.
	// [abc] becomes ["a", "b", "c"]; [A-Za-z0-9-] is left alone. Default: 10.
	MaxClassSize int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// maxDepth guards the recursion on deeply nested trees.
const maxDepth = 100

// Extractor extracts prefix literal sequences from syntax trees.
//
// Example:
//
//	p, _ := syntax.Parse(`marke(ts|t)`, 0)
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(p.Root)
//	prefixes.Minimize()
//	// prefixes = ["market"] (incomplete: "markets" also matches)
type Extractor struct {
	config ExtractorConfig
}

// New creates a new Extractor with the given configuration.
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// ExtractPrefixes returns the literals every match of n must start with, or
// nil when no such finite set exists within the configured limits.
//
// Handles these node kinds:
//   - OpLiteral: the rune itself
//   - OpConcat: cross product of children while they stay complete
//   - OpAlternate: union of all branches
//   - OpCharClass: expansion of small, non-negated classes
//   - OpGroup: the group body
//   - OpQuantifier: min 0 makes the prefix optional (""); min >= 1 uses the body
//   - OpEmpty: the empty literal, complete
//   - OpAssert: the empty literal, incomplete (skipped inside a concatenation)
//   - OpBackRef: unknown
//
// Examples:
//
//	"market"        → ["market"]
//	"marke(ts|t)"   → ["markets", "market"]
//	"markets*?"     → ["market"] (incomplete)
//	"[A-Za-z]+"     → nil
func (e *Extractor) ExtractPrefixes(n *syntax.Node) *Seq {
	return e.prefixes(n, 0)
}

func (e *Extractor) prefixes(n *syntax.Node, depth int) *Seq {
	if depth > maxDepth {
		return nil
	}

	switch n.Op {
	case syntax.OpEmpty:
		return NewSeq(NewLiteral([]byte{}, true))

	case syntax.OpAssert:
		return NewSeq(NewLiteral([]byte{}, false))

	case syntax.OpLiteral:
		return NewSeq(NewLiteral(utf8.AppendRune(nil, n.Rune), true))

	case syntax.OpCharClass:
		return e.expandClass(n)

	case syntax.OpGroup:
		return e.prefixes(n.Sub[0], depth+1)

	case syntax.OpConcat:
		return e.concat(n.Sub, depth)

	case syntax.OpAlternate:
		union := NewSeq()
		for _, branch := range n.Sub {
			seq := e.prefixes(branch, depth+1)
			if seq == nil {
				return nil
			}
			union.literals = append(union.literals, seq.literals...)
			if union.Len() > e.config.MaxLiterals {
				return nil
			}
		}
		return union

	case syntax.OpQuantifier:
		if n.Min == 0 {
			return NewSeq(NewLiteral([]byte{}, false))
		}
		seq := e.prefixes(n.Sub[0], depth+1)
		if seq == nil || (n.Min == 1 && n.Max == 1) {
			return seq
		}
		for i := range seq.literals {
			seq.literals[i].Complete = false
		}
		return seq
	}
	return nil
}

// concat extends complete literals with the prefixes of each following
// child until every literal is incomplete or a limit is hit.
func (e *Extractor) concat(subs []*syntax.Node, depth int) *Seq {
	acc := NewSeq(NewLiteral([]byte{}, true))
	exact := true
	for _, sub := range subs {
		if !acc.anyComplete() {
			break
		}
		if sub.Op == syntax.OpAssert {
			// Zero-width: the literals still hold, but a candidate no longer
			// implies a match.
			exact = false
			continue
		}
		next := e.prefixes(sub, depth+1)
		if next == nil {
			acc.markIncomplete()
			break
		}
		crossed, ok := e.cross(acc, next)
		if !ok {
			acc.markIncomplete()
			break
		}
		acc = crossed
	}
	if !exact {
		acc.markIncomplete()
	}
	return acc
}

// cross appends every literal of next to each complete literal of acc.
// It reports false when the result would exceed the configured limits.
func (e *Extractor) cross(acc, next *Seq) (*Seq, bool) {
	out := NewSeq()
	for _, a := range acc.literals {
		if !a.Complete {
			out.literals = append(out.literals, a)
			continue
		}
		for _, b := range next.literals {
			if len(a.Bytes)+len(b.Bytes) > e.config.MaxLiteralLen {
				return nil, false
			}
			joined := make([]byte, 0, len(a.Bytes)+len(b.Bytes))
			joined = append(append(joined, a.Bytes...), b.Bytes...)
			out.literals = append(out.literals, NewLiteral(joined, b.Complete))
		}
		if out.Len() > e.config.MaxLiterals {
			return nil, false
		}
	}
	return out, true
}

func (e *Extractor) expandClass(n *syntax.Node) *Seq {
	if n.Negated || n.Class.Size() > e.config.MaxClassSize {
		return nil
	}
	seq := NewSeq()
	for _, r := range n.Class.Ranges() {
		for c := r.Lo; c <= r.Hi; c++ {
			seq.literals = append(seq.literals, NewLiteral(utf8.AppendRune(nil, c), true))
		}
	}
	return seq
}

func (s *Seq) anyComplete() bool {
	for _, lit := range s.literals {
		if lit.Complete {
			return true
		}
	}
	return false
}

func (s *Seq) markIncomplete() {
	for i := range s.literals {
		s.literals[i].Complete = false
	}
}
