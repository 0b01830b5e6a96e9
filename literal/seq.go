// Package literal extracts literal byte sequences from parsed patterns.
//
// The primary use is the prefilter: if every match of /marke(ts|t)/ must
// start with "market", a substring search can skip whole stretches of the
// subject where the backtracking matcher would only fail.
//
// Key concepts:
//   - A Literal is a concrete byte sequence that a match starts with
//   - A Seq is a set of alternative literals (e.g., from alternations like /foo|bar/)
//   - Minimize drops literals already covered by a shorter prefix
package literal

import (
	"bytes"
	"sort"
)

// Literal represents a literal byte sequence extracted from a pattern.
// Complete reports whether the literal is the entire match (true) or only a
// prefix of it (false).
//
// Example:
//   - Pattern /market/ → Literal{[]byte("market"), true}
//   - Pattern /markets*/ → Literal{[]byte("market"), false}
type Literal struct {
	Bytes    []byte
	Complete bool
}

// NewLiteral creates a new Literal from the given byte sequence and completeness flag.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{
		Bytes:    b,
		Complete: complete,
	}
}

// Seq represents a set of alternative literals: every match starts with at
// least one of them.
//
// A nil *Seq means "unknown": the pattern places no literal constraint on the
// start of a match. It is distinct from an empty, non-nil Seq, which can only
// arise from patterns that never match.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("foo"), true),
//	    literal.NewLiteral([]byte("bar"), true),
//	)
//	fmt.Printf("Sequence has %d literals\n", seq.Len()) // Output: Sequence has 2 literals
type Seq struct {
	literals []Literal
}

// NewSeq creates a new sequence from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{
		literals: lits,
	}
}

// Len returns the number of literals in the sequence.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the literal at the specified index.
// Panics if index is out of bounds.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty returns true if the sequence has no literals.
func (s *Seq) IsEmpty() bool {
	return s == nil || len(s.literals) == 0
}

// HasEmpty reports whether any literal is the empty string. Such a sequence
// accepts every position and is useless as a prefilter.
func (s *Seq) HasEmpty() bool {
	if s == nil {
		return false
	}
	for _, lit := range s.literals {
		if len(lit.Bytes) == 0 {
			return true
		}
	}
	return false
}

// MinLen returns the length of the shortest literal, or 0 for an empty sequence.
func (s *Seq) MinLen() int {
	if s.IsEmpty() {
		return 0
	}
	n := len(s.literals[0].Bytes)
	for _, lit := range s.literals[1:] {
		if len(lit.Bytes) < n {
			n = len(lit.Bytes)
		}
	}
	return n
}

// Minimize removes redundant literals from the sequence.
//
// For prefix matching, a literal L is redundant if a shorter kept literal S is
// a prefix of L: any position where L starts also has S starting there. A
// literal that absorbs a longer one may no longer describe a whole match, so
// it is marked incomplete unless both were identical.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("markets"), true),
//	    literal.NewLiteral([]byte("market"), true),
//	)
//	seq.Minimize()
//	fmt.Println(seq.Len()) // Output: 1 (only "market" remains)
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}

	// Shortest first; ties keep their original order.
	sort.SliceStable(s.literals, func(i, j int) bool {
		return len(s.literals[i].Bytes) < len(s.literals[j].Bytes)
	})

	kept := make([]Literal, 0, len(s.literals))
	for _, current := range s.literals {
		redundant := false
		for j := range kept {
			if isPrefix(kept[j].Bytes, current.Bytes) {
				if len(kept[j].Bytes) != len(current.Bytes) || !current.Complete {
					kept[j].Complete = false
				}
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, current)
		}
	}
	s.literals = kept
}

// LongestCommonPrefix returns the longest common prefix of all literals in the sequence.
// If the sequence is empty or has no common prefix, returns an empty slice.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("hello"), true),
//	    literal.NewLiteral([]byte("help"), true),
//	    literal.NewLiteral([]byte("hero"), true),
//	)
//	prefix := seq.LongestCommonPrefix()
//	fmt.Println(string(prefix)) // Output: he
func (s *Seq) LongestCommonPrefix() []byte {
	if s.IsEmpty() {
		return []byte{}
	}

	prefix := s.literals[0].Bytes
	for i := 1; i < len(s.literals); i++ {
		prefix = commonPrefix(prefix, s.literals[i].Bytes)
		if len(prefix) == 0 {
			return []byte{}
		}
	}

	result := make([]byte, len(prefix))
	copy(result, prefix)
	return result
}

// isPrefix returns true if prefix is a prefix of s.
func isPrefix(prefix, s []byte) bool {
	if len(prefix) > len(s) {
		return false
	}
	return bytes.Equal(prefix, s[:len(prefix)])
}

// commonPrefix returns the longest common prefix of a and b.
func commonPrefix(a, b []byte) []byte {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
