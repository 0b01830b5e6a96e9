package backtrack

import (
	"errors"
	"fmt"
	"time"
)

// ErrMatchTimeout is returned, wrapped in a *TimeoutError, when a search
// exhausts its Budget.
var ErrMatchTimeout = errors.New("regexp: match budget exceeded")

// Limit names the budget dimension that was exhausted.
type Limit string

// Budget limits.
const (
	LimitSteps   Limit = "steps"
	LimitTimeout Limit = "timeout"
	LimitDepth   Limit = "depth"
)

// TimeoutError reports an aborted search with the work done so far.
type TimeoutError struct {
	Pattern string
	Limit   Limit
	Steps   uint64
	Elapsed time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("regexp: match budget exceeded for pattern %q: %s limit reached after %d steps (%s)",
		e.Pattern, e.Limit, e.Steps, e.Elapsed)
}

// Unwrap returns ErrMatchTimeout.
func (e *TimeoutError) Unwrap() error {
	return ErrMatchTimeout
}

// budgetExceeded is panicked from deep inside the recursion and recovered by
// TryMatch.
type budgetExceeded struct {
	limit Limit
}
