// Package backtrack implements an ordered backtracking matcher over the
// syntax tree produced by package syntax.
//
// Matching is recursive descent with explicit continuations: every node is
// matched against the subject and, on success, hands the new position to a
// continuation describing the rest of the pattern. A false return unwinds to
// the most recent choice point (alternation branch or quantifier count),
// which then tries its next option. This gives the usual Perl/ECMAScript
// semantics:
//   - alternation prefers branches in source order
//   - greedy quantifiers prefer more repetitions, lazy ones fewer
//   - captures are scoped to one attempt and rolled back on failure
//   - back-references compare against the current capture of their group
//
// Backtracking is exponential in the worst case. A Budget bounds the number of
// steps or the wall-clock time of one Search. Every pending continuation
// holds goroutine stack, so the nesting depth is always bounded: a search
// that would nest deeper than Budget.MaxDepth fails instead of overflowing
// the stack.
package backtrack

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/coregx/retrace/syntax"
)

// Budget limits the work of one Search. Zero values mean no limit.
type Budget struct {
	// MaxSteps caps the number of node visits across all attempts of a Search.
	MaxSteps uint64

	// Timeout caps the wall-clock time of a Search.
	Timeout time.Duration

	// MaxDepth caps the number of nested node matches of one attempt.
	// Zero means DefaultMaxDepth; the depth is never unbounded.
	MaxDepth int
}

// DefaultMaxDepth is the nesting bound used when Budget.MaxDepth is zero.
// Quantifiers over fixed-width bodies such as (?:ab)* run in a loop and do
// not count against it.
const DefaultMaxDepth = 100_000

// deadlineCheckMask sets how often (in steps) the clock is read.
const deadlineCheckMask = 1<<10 - 1

// Matcher runs attempts of a parsed pattern. It is immutable and safe for
// concurrent use; per-subject state lives in Search.
type Matcher struct {
	pattern   *syntax.Pattern
	budget    Budget
	maxDepth  int
	fold      bool
	multiline bool
}

// New creates a Matcher for p.
func New(p *syntax.Pattern, budget Budget) *Matcher {
	maxDepth := budget.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Matcher{
		pattern:   p,
		budget:    budget,
		maxDepth:  maxDepth,
		fold:      p.Flags.Has(syntax.IgnoreCase),
		multiline: p.Flags.Has(syntax.Multiline),
	}
}

// Pattern returns the pattern being matched.
func (m *Matcher) Pattern() *syntax.Pattern {
	return m.pattern
}

// NumSlots returns the length of the slot slices returned by TryMatch:
// two per group plus two for the whole match.
func (m *Matcher) NumSlots() int {
	return 2 * (m.pattern.NumGroups + 1)
}

// Search holds the state for matching one subject: the capture set being
// built and the budget consumed so far. A Search must not be shared between
// goroutines.
type Search struct {
	m        *Matcher
	input    string
	caps     []int
	steps    uint64
	depth    int
	started  time.Time
	deadline time.Time
}

// NewSearch starts a search over subject. The budget clock starts now.
func (m *Matcher) NewSearch(subject string) *Search {
	s := &Search{
		m:     m,
		input: subject,
		caps:  make([]int, m.NumSlots()),
	}
	if m.budget.Timeout > 0 {
		s.started = time.Now()
		s.deadline = s.started.Add(m.budget.Timeout)
	}
	return s
}

// Steps returns the number of node visits performed so far.
func (s *Search) Steps() uint64 {
	return s.steps
}

// TryMatch attempts a match starting exactly at byte offset at. It does not
// scan forward.
//
// On success it returns a fresh slot slice: slots[2*i] and slots[2*i+1] are
// the start and end of group i (group 0 is the whole match), -1 when the group
// did not participate. It returns nil, nil when there is no match at this
// offset and a *TimeoutError when the budget or the depth bound is
// exhausted.
func (s *Search) TryMatch(at int) (slots []int, err error) {
	if at < 0 || at > len(s.input) {
		return nil, nil
	}
	for i := range s.caps {
		s.caps[i] = -1
	}
	s.depth = 0
	defer func() {
		if r := recover(); r != nil {
			be, ok := r.(budgetExceeded)
			if !ok {
				panic(r)
			}
			slots, err = nil, s.timeoutError(be.limit)
		}
	}()

	end := -1
	accept := func(pos int) bool {
		end = pos
		return true
	}
	if !s.match(s.m.pattern.Root, at, accept) {
		return nil, nil
	}
	slots = make([]int, len(s.caps))
	copy(slots, s.caps)
	slots[0], slots[1] = at, end
	return slots, nil
}

func (s *Search) timeoutError(limit Limit) error {
	var elapsed time.Duration
	if !s.started.IsZero() {
		elapsed = time.Since(s.started)
	}
	return &TimeoutError{
		Pattern: s.m.pattern.Source,
		Limit:   limit,
		Steps:   s.steps,
		Elapsed: elapsed,
	}
}

func (s *Search) step() {
	s.steps++
	b := s.m.budget
	if b.MaxSteps != 0 && s.steps > b.MaxSteps {
		panic(budgetExceeded{limit: LimitSteps})
	}
	if b.Timeout > 0 && s.steps&deadlineCheckMask == 0 && time.Now().After(s.deadline) {
		panic(budgetExceeded{limit: LimitTimeout})
	}
}

// cont is the rest of the pattern. It reports whether the overall match
// succeeded from pos.
type cont func(pos int) bool

func (s *Search) match(n *syntax.Node, pos int, k cont) bool {
	s.depth++
	if s.depth > s.m.maxDepth {
		panic(budgetExceeded{limit: LimitDepth})
	}
	ok := s.matchNode(n, pos, k)
	s.depth--
	return ok
}

func (s *Search) matchNode(n *syntax.Node, pos int, k cont) bool {
	s.step()
	switch n.Op {
	case syntax.OpEmpty:
		return k(pos)

	case syntax.OpLiteral, syntax.OpCharClass:
		w := s.matchOne(n, pos)
		if w < 0 {
			return false
		}
		return k(pos + w)

	case syntax.OpConcat:
		return s.matchSeq(n.Sub, pos, k)

	case syntax.OpAlternate:
		for _, branch := range n.Sub {
			if s.match(branch, pos, k) {
				return true
			}
		}
		return false

	case syntax.OpGroup:
		return s.matchGroup(n, pos, k)

	case syntax.OpBackRef:
		start, end := s.caps[2*n.Index], s.caps[2*n.Index+1]
		if start < 0 {
			// Unset or still open: the branch fails.
			return false
		}
		next, ok := s.matchText(s.input[start:end], pos)
		if !ok {
			return false
		}
		return k(next)

	case syntax.OpQuantifier:
		if isFixed(n.Sub[0]) {
			return s.repeatFixed(n, pos, k)
		}
		return s.repeat(n, 0, pos, k)

	case syntax.OpAssert:
		if !s.assert(n.Assert, pos) {
			return false
		}
		return k(pos)
	}
	return false
}

// isSingle reports whether n always consumes exactly one rune and has no
// choice points.
func isSingle(n *syntax.Node) bool {
	return n.Op == syntax.OpLiteral || n.Op == syntax.OpCharClass
}

// isFixed reports whether n is a non-empty run of single-rune nodes: it has
// no choice points, no captures and always consumes input.
func isFixed(n *syntax.Node) bool {
	if isSingle(n) {
		return true
	}
	if n.Op != syntax.OpConcat || len(n.Sub) == 0 {
		return false
	}
	for _, sub := range n.Sub {
		if !isSingle(sub) {
			return false
		}
	}
	return true
}

// matchFixed returns the end of a fixed node matched at pos, or -1.
func (s *Search) matchFixed(n *syntax.Node, pos int) int {
	if isSingle(n) {
		if w := s.matchOne(n, pos); w >= 0 {
			return pos + w
		}
		return -1
	}
	for _, sub := range n.Sub {
		w := s.matchOne(sub, pos)
		if w < 0 {
			return -1
		}
		pos += w
	}
	return pos
}

// matchOne returns the width of the rune at pos if n accepts it, else -1.
func (s *Search) matchOne(n *syntax.Node, pos int) int {
	r, w := s.decode(pos)
	if w == 0 {
		return -1
	}
	switch n.Op {
	case syntax.OpLiteral:
		if r == n.Rune || s.m.fold && syntax.EqualFold(r, n.Rune) {
			return w
		}
	case syntax.OpCharClass:
		in := n.Class.Contains(r) || s.m.fold && n.Class.ContainsFold(r)
		if in != n.Negated {
			return w
		}
	}
	return -1
}

func (s *Search) matchSeq(subs []*syntax.Node, pos int, k cont) bool {
	// Single-rune nodes have no choice points; run them inline.
	for len(subs) > 0 && isSingle(subs[0]) {
		s.step()
		w := s.matchOne(subs[0], pos)
		if w < 0 {
			return false
		}
		pos += w
		subs = subs[1:]
	}
	switch len(subs) {
	case 0:
		return k(pos)
	case 1:
		return s.match(subs[0], pos, k)
	}
	rest := subs[1:]
	return s.match(subs[0], pos, func(next int) bool {
		return s.matchSeq(rest, next, k)
	})
}

func (s *Search) matchGroup(n *syntax.Node, pos int, k cont) bool {
	i := 2 * n.Index
	return s.match(n.Sub[0], pos, func(end int) bool {
		oldStart, oldEnd := s.caps[i], s.caps[i+1]
		s.caps[i], s.caps[i+1] = pos, end
		if k(end) {
			return true
		}
		s.caps[i], s.caps[i+1] = oldStart, oldEnd
		return false
	})
}

// repeat tries iterations count+1, count+2, ... of a general quantifier body.
func (s *Search) repeat(n *syntax.Node, count, pos int, k cont) bool {
	more := n.Max == syntax.Unbounded || count < n.Max
	if n.Lazy {
		if count >= n.Min && k(pos) {
			return true
		}
		return more && s.iterate(n, count, pos, k)
	}
	if more && s.iterate(n, count, pos, k) {
		return true
	}
	return count >= n.Min && k(pos)
}

func (s *Search) iterate(n *syntax.Node, count, pos int, k cont) bool {
	var saved []int
	lo, hi := 2*n.GroupLo, 2*n.GroupHi
	if hi > lo {
		saved = append(saved, s.caps[lo:hi]...)
		for i := lo; i < hi; i++ {
			s.caps[i] = -1
		}
	}
	ok := s.match(n.Sub[0], pos, func(end int) bool {
		if end == pos && count >= n.Min {
			// An empty iteration past the minimum cannot make progress.
			return false
		}
		return s.repeat(n, count+1, end, k)
	})
	if !ok && saved != nil {
		copy(s.caps[lo:hi], saved)
	}
	return ok
}

// repeatFixed handles a quantifier over a fixed node without recursing once
// per repetition. ends[i] is the position after i iterations.
func (s *Search) repeatFixed(n *syntax.Node, pos int, k cont) bool {
	body := n.Sub[0]
	ends := []int{pos}
	grow := func() bool {
		if n.Max != syntax.Unbounded && len(ends)-1 >= n.Max {
			return false
		}
		s.step()
		end := s.matchFixed(body, ends[len(ends)-1])
		if end < 0 {
			return false
		}
		ends = append(ends, end)
		return true
	}

	for len(ends)-1 < n.Min {
		if !grow() {
			return false
		}
	}
	if n.Lazy {
		for {
			if k(ends[len(ends)-1]) {
				return true
			}
			if !grow() {
				return false
			}
		}
	}
	for grow() {
	}
	for i := len(ends) - 1; i >= n.Min; i-- {
		if k(ends[i]) {
			return true
		}
	}
	return false
}

// matchText matches text literally at pos and returns the end offset.
func (s *Search) matchText(text string, pos int) (int, bool) {
	if !s.m.fold {
		if strings.HasPrefix(s.input[pos:], text) {
			return pos + len(text), true
		}
		return 0, false
	}
	for _, want := range text {
		r, w := s.decode(pos)
		if w == 0 || !syntax.EqualFold(r, want) {
			return 0, false
		}
		pos += w
	}
	return pos, true
}

func (s *Search) assert(a syntax.Assertion, pos int) bool {
	switch a {
	case syntax.AssertBegin:
		if pos == 0 {
			return true
		}
		r, _ := s.decodeBefore(pos)
		return s.m.multiline && syntax.IsLineTerminator(r)
	case syntax.AssertEnd:
		if pos == len(s.input) {
			return true
		}
		r, _ := s.decode(pos)
		return s.m.multiline && syntax.IsLineTerminator(r)
	case syntax.AssertWordBoundary, syntax.AssertNotWordBoundary:
		before, bw := s.decodeBefore(pos)
		after, aw := s.decode(pos)
		boundary := (bw > 0 && syntax.IsWordChar(before)) != (aw > 0 && syntax.IsWordChar(after))
		return boundary == (a == syntax.AssertWordBoundary)
	}
	return false
}

func (s *Search) decode(pos int) (rune, int) {
	if pos >= len(s.input) {
		return 0, 0
	}
	if c := s.input[pos]; c < utf8.RuneSelf {
		return rune(c), 1
	}
	return utf8.DecodeRuneInString(s.input[pos:])
}

func (s *Search) decodeBefore(pos int) (rune, int) {
	if pos <= 0 {
		return 0, 0
	}
	return utf8.DecodeLastRuneInString(s.input[:pos])
}
