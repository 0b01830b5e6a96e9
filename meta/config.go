// Package meta assembles a compiled pattern into a search engine and drives
// the global match loop.
//
// The engine coordinates three pieces:
//   - Parser (package syntax): pattern text to tree
//   - Prefilter: fast literal-based candidate finding (optional)
//   - Backtracker (package backtrack): ordered search with captures
//
// Strategy selection is based on:
//   - Literal prefixes of the pattern (good literals enable fast filtering)
//   - Flags (case-insensitive and sticky patterns never use a prefilter)
//
// The meta engine provides the API used by the root package, hiding the
// coordination of parser, prefilter and matcher from users.
package meta

import (
	"log/slog"
	"time"

	"github.com/coregx/retrace/backtrack"
)

// Config controls engine behavior, resource limits and logging.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.MaxSteps = 1_000_000 // Abort runaway backtracking
//	engine, err := meta.CompileWithConfig(`(a+)+b`, 0, config)
type Config struct {
	// EnablePrefilter enables literal-based prefiltering.
	// Default: true
	EnablePrefilter bool

	// MinLiteralLen is the minimum length for prefilter literals.
	// Default: 1
	MinLiteralLen int

	// MaxLiterals limits the number of literals to extract for prefiltering.
	// Default: 64
	MaxLiterals int

	// MaxClassSize is the largest character class expanded into literals.
	// Default: 10
	MaxClassSize int

	// MaxRepeat is the largest count accepted in a {m,n} quantifier.
	// Default: 1000
	MaxRepeat int

	// MaxDepth is the deepest accepted group nesting.
	// Default: 1000
	MaxDepth int

	// MaxSteps caps the matcher steps of one search call; 0 means unlimited.
	// Exceeding it fails the call with ErrMatchTimeout.
	// Default: 0
	MaxSteps uint64

	// Timeout caps the wall-clock time of one search call; 0 means unlimited.
	// Default: 0
	Timeout time.Duration

	// MaxRecursion caps the nesting of one matcher attempt. Quantified
	// groups such as (ab)* nest once per iteration; a search that would nest
	// deeper fails with ErrMatchTimeout instead of exhausting the stack.
	// Default: 100,000
	MaxRecursion int

	// Logger receives compile decisions (Debug) and aborted searches (Warn).
	// Default: nil (discard)
	Logger *slog.Logger
}

// DefaultConfig returns a configuration with sensible defaults: prefilter
// on, no search budget, logging off.
func DefaultConfig() Config {
	return Config{
		EnablePrefilter: true,
		MinLiteralLen:   1,
		MaxLiterals:     64,
		MaxClassSize:    10,
		MaxRepeat:       1000,
		MaxDepth:        1000,
		MaxRecursion:    backtrack.DefaultMaxDepth,
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of range.
//
// Valid ranges:
//   - MinLiteralLen: 1 to 64
//   - MaxLiterals: 1 to 1,000
//   - MaxClassSize: 1 to 256
//   - MaxRepeat: 1 to 100,000
//   - MaxDepth: 1 to 10,000
//   - Timeout: >= 0
//   - MaxRecursion: 1 to 1,000,000
func (c Config) Validate() error {
	if c.EnablePrefilter {
		if c.MinLiteralLen < 1 || c.MinLiteralLen > 64 {
			return &ConfigError{
				Field:   "MinLiteralLen",
				Message: "must be between 1 and 64",
			}
		}
		if c.MaxLiterals < 1 || c.MaxLiterals > 1_000 {
			return &ConfigError{
				Field:   "MaxLiterals",
				Message: "must be between 1 and 1,000",
			}
		}
		if c.MaxClassSize < 1 || c.MaxClassSize > 256 {
			return &ConfigError{
				Field:   "MaxClassSize",
				Message: "must be between 1 and 256",
			}
		}
	}

	if c.MaxRepeat < 1 || c.MaxRepeat > 100_000 {
		return &ConfigError{
			Field:   "MaxRepeat",
			Message: "must be between 1 and 100,000",
		}
	}
	if c.MaxDepth < 1 || c.MaxDepth > 10_000 {
		return &ConfigError{
			Field:   "MaxDepth",
			Message: "must be between 1 and 10,000",
		}
	}
	if c.MaxRecursion < 1 || c.MaxRecursion > 1_000_000 {
		return &ConfigError{
			Field:   "MaxRecursion",
			Message: "must be between 1 and 1,000,000",
		}
	}
	if c.Timeout < 0 {
		return &ConfigError{
			Field:   "Timeout",
			Message: "must not be negative",
		}
	}
	return nil
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "regexp: invalid config: " + e.Field + ": " + e.Message
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
