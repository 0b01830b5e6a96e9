package meta

import (
	"log/slog"
	"unicode/utf8"

	"github.com/coregx/retrace/backtrack"
	"github.com/coregx/retrace/prefilter"
	"github.com/coregx/retrace/syntax"
)

// scanner is the per-call state of the global match driver: the matcher
// search (capture set and budget), the offset cursor and the prefilter
// tracker. It is created for one search call and never shared.
type scanner struct {
	e        *Engine
	subject  string
	search   *backtrack.Search
	tracker  *prefilter.Tracker
	haystack []byte
	retired  bool

	// literalLen is the match length when a prefilter candidate is itself
	// the whole match, else 0.
	literalLen int
}

// newScanner prepares a search call. Only forward scans use the prefilter.
func (e *Engine) newScanner(subject string, forward bool) *scanner {
	e.stats.searches.Add(1)
	s := &scanner{
		e:       e,
		subject: subject,
		search:  e.matcher.NewSearch(subject),
	}
	if forward && e.prefilter != nil {
		s.tracker = prefilter.NewTracker(e.prefilter)
		s.haystack = []byte(subject)
		if e.prefilter.IsComplete() && e.pattern.NumGroups == 0 {
			s.literalLen = e.prefilter.LiteralLen()
		}
	}
	return s
}

// finish publishes the scanner's counters and logs an aborted search.
func (s *scanner) finish(err error) {
	s.e.stats.steps.Add(s.search.Steps())
	s.e.stats.prefilterCandidates.Add(s.tracker.Candidates())
	if err == nil {
		return
	}
	s.e.stats.timeouts.Add(1)
	s.e.log.Warn("search aborted",
		slog.Int("subject_len", len(s.subject)),
		slog.Uint64("steps", s.search.Steps()),
		slog.Any("error", err),
	)
}

// attempt runs one anchored match at offset at.
func (s *scanner) attempt(at int) ([]int, error) {
	s.e.stats.attempts.Add(1)
	return s.search.TryMatch(at)
}

// next returns the leftmost match starting at or after at.
func (s *scanner) next(at int) ([]int, error) {
	for at <= len(s.subject) {
		if s.tracker.Active() {
			cand := s.tracker.Next(s.haystack, at)
			if cand < 0 {
				return nil, nil
			}
			at = cand
			if s.literalLen > 0 {
				// The literal is the whole pattern: the candidate is the match.
				s.tracker.Confirm()
				return []int{cand, cand + s.literalLen}, nil
			}
			if !s.tracker.Active() && !s.retired {
				s.retired = true
				s.e.stats.prefilterRetired.Add(1)
			}
		}

		slots, err := s.attempt(at)
		if err != nil {
			return nil, err
		}
		if slots != nil {
			if s.tracker.Active() {
				s.tracker.Confirm()
			}
			return slots, nil
		}
		at = s.advance(at)
	}
	return nil, nil
}

// advance moves past one character. At the end of the subject it moves past
// the end, which terminates every scan loop.
func (s *scanner) advance(at int) int {
	if at >= len(s.subject) {
		return at + 1
	}
	if c := s.subject[at]; c < utf8.RuneSelf {
		return at + 1
	}
	_, w := utf8.DecodeRuneInString(s.subject[at:])
	return at + w
}

func (s *scanner) match(slots []int) *Match {
	return newMatch(s.subject, slots, s.e.pattern.GroupNames)
}

// TryMatch attempts a single match starting exactly at byte offset at. It
// does not scan forward. It returns nil, nil when there is no match.
//
// Example:
//
//	engine, _ := meta.Compile(`\d+`, 0)
//	m, _ := engine.TryMatch("ab12", 2) // "12"
//	m, _ = engine.TryMatch("ab12", 1)  // nil
func (e *Engine) TryMatch(subject string, at int) (m *Match, err error) {
	s := e.newScanner(subject, false)
	defer func() { s.finish(err) }()

	slots, err := s.attempt(at)
	if err != nil || slots == nil {
		return nil, err
	}
	return s.match(slots), nil
}

// Find returns the leftmost match in subject, or nil if there is none.
// Under the Sticky flag only a match at offset 0 is accepted.
func (e *Engine) Find(subject string) (m *Match, err error) {
	s := e.newScanner(subject, !e.pattern.Flags.Has(syntax.Sticky))
	defer func() { s.finish(err) }()

	var slots []int
	if e.pattern.Flags.Has(syntax.Sticky) {
		slots, err = s.attempt(0)
	} else {
		slots, err = s.next(0)
	}
	if err != nil || slots == nil {
		return nil, err
	}
	return s.match(slots), nil
}

// FindAll returns successive non-overlapping matches in subject, at most n
// of them (n < 0 means all). The scan starts at offset 0; after a match it
// resumes at the match end, and after a zero-length match one character
// further. Under the Sticky flag each match must start where the previous
// one resumed, and the scan stops at the first failure.
//
// FindAll ignores the Global flag: it is the loop MatchAll runs for global
// patterns.
//
// Example:
//
//	engine, _ := meta.Compile(`a*`, syntax.Global)
//	ms, _ := engine.FindAll("bb", -1) // "", "", ""
func (e *Engine) FindAll(subject string, n int) (ms []*Match, err error) {
	if n == 0 {
		return nil, nil
	}
	sticky := e.pattern.Flags.Has(syntax.Sticky)
	s := e.newScanner(subject, !sticky)
	defer func() { s.finish(err) }()

	at := 0
	for n < 0 || len(ms) < n {
		if at > len(subject) {
			break
		}
		var slots []int
		if sticky {
			slots, err = s.attempt(at)
		} else {
			slots, err = s.next(at)
		}
		if err != nil {
			return nil, err
		}
		if slots == nil {
			break
		}
		ms = append(ms, s.match(slots))

		at = slots[1]
		if slots[1] == slots[0] {
			at = s.advance(at)
		}
	}
	return ms, nil
}

// MatchAll runs the global match driver and returns the match collection,
// empty when nothing matches.
//
// With the Global flag it returns every non-overlapping match (see FindAll).
// Without it, it is a single TryMatch at offset 0 wrapped in a one-element or
// empty slice.
//
// Example:
//
//	engine, _ := meta.Compile(`marke(ts|t)`, syntax.Global)
//	ms, _ := engine.MatchAll("market markets") // "market", "markets"
func (e *Engine) MatchAll(subject string) ([]*Match, error) {
	if e.pattern.Flags.Has(syntax.Global) {
		ms, err := e.FindAll(subject, -1)
		if ms == nil && err == nil {
			ms = []*Match{}
		}
		return ms, err
	}

	m, err := e.TryMatch(subject, 0)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return []*Match{}, nil
	}
	return []*Match{m}, nil
}
