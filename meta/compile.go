package meta

import (
	"log/slog"

	"github.com/coregx/retrace/backtrack"
	"github.com/coregx/retrace/syntax"
)

// Compile compiles a pattern into an executable Engine with default config.
//
// Steps:
//  1. Parse pattern into a syntax tree
//  2. Build the backtracking matcher
//  3. Extract literals and select a strategy
//  4. Build the prefilter (if the strategy needs one)
//
// Returns an error if the pattern is invalid.
//
// Example:
//
//	engine, err := meta.Compile(`marke(ts|t)`, syntax.Global)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string, flags syntax.Flags) (*Engine, error) {
	return CompileWithConfig(pattern, flags, DefaultConfig())
}

// CompileWithConfig compiles a pattern with custom configuration.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.MaxSteps = 100_000
//	engine, err := meta.CompileWithConfig(`(a*)*b`, 0, config)
func CompileWithConfig(pattern string, flags syntax.Flags, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	p, err := syntax.ParseWithOptions(pattern, flags, syntax.Options{
		MaxRepeat: config.MaxRepeat,
		MaxDepth:  config.MaxDepth,
	})
	if err != nil {
		return nil, err
	}
	return CompileParsed(p, config)
}

// CompileParsed builds an Engine from an already parsed pattern.
func CompileParsed(p *syntax.Pattern, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	matcher := backtrack.New(p, backtrack.Budget{
		MaxSteps: config.MaxSteps,
		Timeout:  config.Timeout,
		MaxDepth: config.MaxRecursion,
	})
	strategy, pf, reason := SelectStrategy(p, config)

	log := config.logger().With(slog.String("pattern", p.Source))
	attrs := []any{
		slog.String("flags", p.Flags.String()),
		slog.Int("groups", p.NumGroups),
		slog.String("strategy", strategy.String()),
		slog.String("reason", reason),
	}
	if pf != nil {
		attrs = append(attrs,
			slog.String("prefilter", string(pf.Kind())),
			slog.Bool("complete", pf.IsComplete()),
		)
	}
	log.Debug("compiled pattern", attrs...)

	return &Engine{
		pattern:   p,
		matcher:   matcher,
		prefilter: pf,
		strategy:  strategy,
		config:    config,
		log:       log,
	}, nil
}
