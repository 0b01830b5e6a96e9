package meta

import (
	"github.com/coregx/retrace/literal"
	"github.com/coregx/retrace/prefilter"
	"github.com/coregx/retrace/syntax"
)

// Strategy represents how the driver finds candidate start offsets.
//
// The backtracking matcher always confirms a match; the strategy only decides
// where it is tried:
//   - UseBacktrack: try every offset in turn
//   - UsePrefilter: jump to offsets where a required prefix literal occurs
//
// Strategy selection is automatic based on pattern analysis.
type Strategy int

const (
	// UseBacktrack tries the matcher at every character offset.
	// Selected for:
	//   - Patterns without a finite set of prefix literals ([A-Za-z]+, .*x)
	//   - Case-insensitive and sticky patterns
	//   - When EnablePrefilter is false in config
	UseBacktrack Strategy = iota

	// UsePrefilter skips to prefix literal occurrences before matching.
	// Selected for:
	//   - Patterns whose every match starts with one of a few literals
	//     (market, marke(ts|t), (cat|dog)s?)
	UsePrefilter
)

// String returns a human-readable representation of the Strategy.
func (s Strategy) String() string {
	switch s {
	case UseBacktrack:
		return "UseBacktrack"
	case UsePrefilter:
		return "UsePrefilter"
	default:
		return "Unknown"
	}
}

// Reasons reported by SelectStrategy for choosing UseBacktrack.
const (
	reasonDisabled   = "prefilter disabled"
	reasonIgnoreCase = "case-insensitive pattern"
	reasonSticky     = "sticky pattern"
	reasonNoLiterals = "no prefix literals"
	reasonLiterals   = "prefix literals"
)

// SelectStrategy analyzes the pattern and returns the strategy, the
// prefilter it needs (nil for UseBacktrack) and a short reason for logging.
//
// Algorithm:
//  1. Prefilter disabled, IgnoreCase or Sticky → UseBacktrack
//  2. Extract prefix literals from the tree
//  3. A usable prefilter can be built → UsePrefilter
//  4. Otherwise → UseBacktrack
//
// Literal comparison is byte-exact, so IgnoreCase patterns never use a
// prefilter. Sticky patterns only ever try one offset per match.
func SelectStrategy(p *syntax.Pattern, config Config) (Strategy, prefilter.Prefilter, string) {
	switch {
	case !config.EnablePrefilter:
		return UseBacktrack, nil, reasonDisabled
	case p.Flags.Has(syntax.IgnoreCase):
		return UseBacktrack, nil, reasonIgnoreCase
	case p.Flags.Has(syntax.Sticky):
		return UseBacktrack, nil, reasonSticky
	}

	extractor := literal.New(literal.ExtractorConfig{
		MaxLiterals:   config.MaxLiterals,
		MaxLiteralLen: 64,
		MaxClassSize:  config.MaxClassSize,
	})
	prefixes := extractor.ExtractPrefixes(p.Root)
	if prefixes == nil {
		return UseBacktrack, nil, reasonNoLiterals
	}

	pf := prefilter.NewBuilder(prefixes).MinLiteralLen(config.MinLiteralLen).Build()
	if pf == nil {
		return UseBacktrack, nil, reasonNoLiterals
	}
	return UsePrefilter, pf, reasonLiterals
}
