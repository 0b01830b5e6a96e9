package meta

import (
	"log/slog"
	"sync/atomic"

	"github.com/coregx/retrace/backtrack"
	"github.com/coregx/retrace/prefilter"
	"github.com/coregx/retrace/syntax"
)

// Engine is the compiled form of one pattern: the parsed tree, the
// backtracking matcher and the optional prefilter, plus the global match
// driver that ties them together.
//
// Thread safety: the Engine is immutable after compilation. Each search call
// allocates its own capture set, cursor and budget, so multiple goroutines can
// safely call search methods on the same Engine concurrently. Stats are
// updated atomically.
//
// Example:
//
//	engine, err := meta.Compile(`markets*?`, syntax.Global)
//	if err != nil {
//	    return err
//	}
//	matches, _ := engine.MatchAll("market markets")
//	println(len(matches)) // 2
type Engine struct {
	// stats MUST be first for 8-byte alignment of atomics on 32-bit platforms.
	stats stats

	pattern   *syntax.Pattern
	matcher   *backtrack.Matcher
	prefilter prefilter.Prefilter
	strategy  Strategy
	config    Config
	log       *slog.Logger
}

// Stats tracks execution statistics for performance analysis.
type Stats struct {
	// Searches counts search calls (TryMatch, Find, FindAll, MatchAll).
	Searches uint64

	// Attempts counts anchored matcher attempts.
	Attempts uint64

	// Steps counts matcher node visits.
	Steps uint64

	// PrefilterCandidates counts offsets proposed by the prefilter.
	PrefilterCandidates uint64

	// PrefilterRetired counts searches that stopped using the prefilter
	// due to a high false-positive rate.
	PrefilterRetired uint64

	// Timeouts counts searches aborted by the budget.
	Timeouts uint64
}

type stats struct {
	searches            atomic.Uint64
	attempts            atomic.Uint64
	steps               atomic.Uint64
	prefilterCandidates atomic.Uint64
	prefilterRetired    atomic.Uint64
	timeouts            atomic.Uint64
}

// Pattern returns the parsed pattern.
func (e *Engine) Pattern() *syntax.Pattern {
	return e.pattern
}

// Flags returns the flags the pattern was compiled with.
func (e *Engine) Flags() syntax.Flags {
	return e.pattern.Flags
}

// Strategy returns the execution strategy selected for this engine.
//
// Example:
//
//	strategy := engine.Strategy()
//	println(strategy.String()) // "UsePrefilter"
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// Prefilter returns the prefilter, or nil for UseBacktrack.
func (e *Engine) Prefilter() prefilter.Prefilter {
	return e.prefilter
}

// NumGroups returns the number of capturing groups, excluding group 0.
func (e *Engine) NumGroups() int {
	return e.pattern.NumGroups
}

// GroupNames returns the names of capture groups. Index 0 is always ""
// (entire match); unnamed groups are "".
func (e *Engine) GroupNames() []string {
	return append([]string(nil), e.pattern.GroupNames...)
}

// Stats returns execution statistics.
//
// Example:
//
//	stats := engine.Stats()
//	println("attempts:", stats.Attempts)
func (e *Engine) Stats() Stats {
	return Stats{
		Searches:            e.stats.searches.Load(),
		Attempts:            e.stats.attempts.Load(),
		Steps:               e.stats.steps.Load(),
		PrefilterCandidates: e.stats.prefilterCandidates.Load(),
		PrefilterRetired:    e.stats.prefilterRetired.Load(),
		Timeouts:            e.stats.timeouts.Load(),
	}
}

// ResetStats resets execution statistics to zero.
func (e *Engine) ResetStats() {
	e.stats.searches.Store(0)
	e.stats.attempts.Store(0)
	e.stats.steps.Store(0)
	e.stats.prefilterCandidates.Store(0)
	e.stats.prefilterRetired.Store(0)
	e.stats.timeouts.Store(0)
}
