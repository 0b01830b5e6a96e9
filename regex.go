// Package retrace provides a backtracking regular expression engine with
// JavaScript-flavoured semantics.
//
// retrace supports what a backtracking engine is good at:
//   - Ordered alternation: the first branch that lets the whole match succeed wins
//   - Greedy and lazy quantifiers (*, +, ?, {m,n} and their ?-suffixed forms)
//   - Numbered and named capturing groups, back-references (\1, \k<name>)
//   - Global match-all scanning with forward progress on empty matches
//   - Flags g, i, m, s and y
//
// Basic usage:
//
//	// Compile a pattern
//	re, err := retrace.Compile(`markets*?`, retrace.Global)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Collect all matches
//	words, _ := re.MatchAllString("the market and the markets")
//	fmt.Println(words) // [market market]
//
// Patterns written as JavaScript literals compile directly:
//
//	re := retrace.MustCompileLiteral(`/marke(ts|t)/g`)
//
// Advanced usage:
//
//	// Bound the work of every search
//	config := retrace.DefaultConfig()
//	config.MaxSteps = 1_000_000
//	re, err := retrace.CompileWithConfig(`(a*)*b`, 0, config)
//	_, err = re.MatchAll(strings.Repeat("a", 40))
//	if errors.Is(err, retrace.ErrMatchTimeout) {
//	    // pattern is too expensive for this input
//	}
//
// Performance characteristics:
//   - Patterns with literal prefixes: candidates found by memchr/memmem or Aho-Corasick
//   - Other patterns: one matcher attempt per character
//   - Worst case: exponential (bound it with Config.MaxSteps or Config.Timeout)
//
// Offsets in results are byte offsets into the UTF-8 subject.
package retrace

import (
	"strconv"
	"strings"

	"github.com/coregx/retrace/backtrack"
	"github.com/coregx/retrace/meta"
	"github.com/coregx/retrace/syntax"
)

// Regex represents a compiled regular expression.
//
// A Regex is safe to use concurrently from multiple goroutines, except for
// methods that modify internal state (like ResetStats).
//
// Example:
//
//	re := retrace.MustCompile(`hello`, 0)
//	if ok, _ := re.MatchString("hello world"); ok {
//	    println("matched!")
//	}
type Regex struct {
	engine  *meta.Engine
	pattern string
}

// Regexp is an alias for Regex, the name used by the stdlib regexp package.
type Regexp = Regex

// Match is the result of one successful match: span and capture set.
type Match = meta.Match

// Config controls compilation and the search budget. See DefaultConfig.
type Config = meta.Config

// ConfigError is returned by CompileWithConfig for an invalid Config.
type ConfigError = meta.ConfigError

// Flags is a set of pattern flags.
type Flags = syntax.Flags

// Pattern flags, named by their JavaScript letters.
const (
	Global     = syntax.Global     // g: MatchAll returns every match
	IgnoreCase = syntax.IgnoreCase // i: case-insensitive comparison
	Multiline  = syntax.Multiline  // m: ^ and $ match at line terminators
	DotAll     = syntax.DotAll     // s: . matches line terminators
	Sticky     = syntax.Sticky     // y: matches must start at the scan offset
)

// SyntaxError describes a malformed pattern. It is returned at compile time
// only.
type SyntaxError = syntax.Error

// TimeoutError describes a search aborted by Config.MaxSteps,
// Config.Timeout or Config.MaxRecursion. It wraps ErrMatchTimeout.
type TimeoutError = backtrack.TimeoutError

// ErrMatchTimeout is matched by errors.Is for every aborted search.
var ErrMatchTimeout = backtrack.ErrMatchTimeout

// Compile compiles a regular expression pattern with the given flags.
// Returns a *SyntaxError if the pattern is invalid.
//
// Example:
//
//	re, err := retrace.Compile(`\(?([0-9]{3})\)?([.-]?)([0-9]{3})\2([0-9]{4})`, retrace.Global)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string, flags Flags) (*Regex, error) {
	return CompileWithConfig(pattern, flags, meta.DefaultConfig())
}

// MustCompile compiles a regular expression pattern and panics if it fails.
//
// This is useful for patterns known to be valid at compile time.
//
// Example:
//
//	re := retrace.MustCompile(`\d+`, retrace.Global)
func MustCompile(pattern string, flags Flags) *Regex {
	re, err := Compile(pattern, flags)
	if err != nil {
		panic("regexp: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern with custom configuration.
//
// Example:
//
//	config := retrace.DefaultConfig()
//	config.Logger = slog.Default()
//	re, err := retrace.CompileWithConfig(`(cat|dog)s?`, retrace.Global, config)
func CompileWithConfig(pattern string, flags Flags, config Config) (*Regex, error) {
	engine, err := meta.CompileWithConfig(pattern, flags, config)
	if err != nil {
		return nil, err
	}
	return &Regex{
		engine:  engine,
		pattern: pattern,
	}, nil
}

// CompileLiteral compiles a pattern written as a JavaScript regular
// expression literal: /body/flags.
//
// Example:
//
//	re, err := retrace.CompileLiteral(`/markets*/g`)
func CompileLiteral(literal string) (*Regex, error) {
	body, flags, err := parseLiteral(literal)
	if err != nil {
		return nil, err
	}
	return Compile(body, flags)
}

// MustCompileLiteral is like CompileLiteral but panics on error.
func MustCompileLiteral(literal string) *Regex {
	re, err := CompileLiteral(literal)
	if err != nil {
		panic("regexp: CompileLiteral(`" + literal + "`): " + err.Error())
	}
	return re
}

// parseLiteral splits /body/flags. The body runs to the last slash.
func parseLiteral(literal string) (string, Flags, error) {
	end := strings.LastIndexByte(literal, '/')
	if len(literal) < 2 || literal[0] != '/' || end <= 0 {
		return "", 0, &SyntaxError{Code: syntax.ErrInvalidLiteral, Expr: literal, Offset: 0}
	}
	if end == 1 {
		// "//" starts a comment in JavaScript, not an empty pattern.
		return "", 0, &SyntaxError{Code: syntax.ErrInvalidLiteral, Expr: literal, Offset: 1}
	}
	flags, err := syntax.ParseFlags(literal[end+1:])
	if err != nil {
		return "", 0, err
	}
	return literal[1:end], flags, nil
}

// DefaultConfig returns the default configuration for compilation.
//
// Users can customize this and pass to CompileWithConfig.
//
// Example:
//
//	config := retrace.DefaultConfig()
//	config.Timeout = 50 * time.Millisecond
func DefaultConfig() Config {
	return meta.DefaultConfig()
}

// ParseFlags parses JavaScript flag letters ("gimsy").
func ParseFlags(s string) (Flags, error) {
	return syntax.ParseFlags(s)
}

// QuoteMeta returns a string that escapes all regular expression metacharacters
// inside the argument text; the returned string is a pattern that matches the
// literal text.
//
// Example:
//
//	escaped := retrace.QuoteMeta("(832)999-1111")
//	// escaped = `\(832\)999-1111`
func QuoteMeta(s string) string {
	const special = `\.+*?()|[]{}^$/`

	n := 0
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(special, s[i]) >= 0 {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, 0, len(s)+n)
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(special, s[i]) >= 0 {
			buf = append(buf, '\\')
		}
		buf = append(buf, s[i])
	}
	return string(buf)
}

// MatchAll runs the global match driver over s.
//
// With the Global flag it returns every non-overlapping match, scanning from
// offset 0 and advancing one character past empty matches. Without it, it
// returns the match at offset 0, if any. The result is empty, never nil, when
// nothing matches.
//
// Example:
//
//	re := retrace.MustCompile(`marke(ts|t)`, retrace.Global)
//	ms, _ := re.MatchAll("market markets")
//	// ms[0].String() == "market", ms[1].String() == "markets"
func (r *Regex) MatchAll(s string) ([]*Match, error) {
	return r.engine.MatchAll(s)
}

// MatchAllString is like MatchAll but returns the matched text only.
func (r *Regex) MatchAllString(s string) ([]string, error) {
	ms, err := r.engine.MatchAll(s)
	if err != nil {
		return nil, err
	}
	return matchStrings(ms), nil
}

// TryMatch attempts a match starting exactly at byte offset at, without
// scanning forward. Returns nil, nil if there is no match there.
func (r *Regex) TryMatch(s string, at int) (*Match, error) {
	return r.engine.TryMatch(s, at)
}

// Find returns the leftmost match in s, or nil if there is none.
//
// Example:
//
//	re := retrace.MustCompile(`\d{3}`, 0)
//	m, _ := re.Find("call 832 now")
//	// m.Start() == 5, m.String() == "832"
func (r *Regex) Find(s string) (*Match, error) {
	return r.engine.Find(s)
}

// FindString returns the text of the leftmost match in s.
// Returns empty string if no match is found.
func (r *Regex) FindString(s string) (string, error) {
	m, err := r.engine.Find(s)
	if err != nil || m == nil {
		return "", err
	}
	return m.String(), nil
}

// MatchString reports whether s contains any match of the pattern.
func (r *Regex) MatchString(s string) (bool, error) {
	m, err := r.engine.Find(s)
	return m != nil, err
}

// FindAll returns successive non-overlapping matches in s, regardless of the
// Global flag. If n >= 0, it returns at most n matches; n < 0 means all.
func (r *Regex) FindAll(s string, n int) ([]*Match, error) {
	return r.engine.FindAll(s, n)
}

// FindAllString is like FindAll but returns the matched text only.
func (r *Regex) FindAllString(s string, n int) ([]string, error) {
	ms, err := r.engine.FindAll(s, n)
	if err != nil || ms == nil {
		return nil, err
	}
	return matchStrings(ms), nil
}

func matchStrings(ms []*Match) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.String()
	}
	return out
}

// ReplaceAllString returns a copy of src with every match replaced by repl.
// Inside repl, $ sequences are expanded as in JavaScript:
//
//	$$       a literal $
//	$&       the whole match
//	$`       the text before the match
//	$'       the text after the match
//	$1..$99  a numbered group ("" if it did not participate)
//	$<name>  a named group
//
// Any other $ is copied literally.
//
// Example:
//
//	re := retrace.MustCompile(`(\w+)@(\w+)`, 0)
//	out, _ := re.ReplaceAllString("bob@host", "$2:$1")
//	// out == "host:bob"
func (r *Regex) ReplaceAllString(src, repl string) (string, error) {
	ms, err := r.engine.FindAll(src, -1)
	if err != nil {
		return "", err
	}
	if len(ms) == 0 {
		return src, nil
	}

	var b strings.Builder
	lastEnd := 0
	for _, m := range ms {
		b.WriteString(src[lastEnd:m.Start()])
		r.expand(&b, repl, src, m)
		lastEnd = m.End()
	}
	b.WriteString(src[lastEnd:])
	return b.String(), nil
}

// ReplaceAllStringFunc returns a copy of src with every match replaced by
// the return value of repl applied to the match. No $ expansion is done.
func (r *Regex) ReplaceAllStringFunc(src string, repl func(*Match) string) (string, error) {
	ms, err := r.engine.FindAll(src, -1)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	lastEnd := 0
	for _, m := range ms {
		b.WriteString(src[lastEnd:m.Start()])
		b.WriteString(repl(m))
		lastEnd = m.End()
	}
	b.WriteString(src[lastEnd:])
	return b.String(), nil
}

func (r *Regex) expand(b *strings.Builder, template, src string, m *Match) {
	i := 0
	for i < len(template) {
		if template[i] != '$' || i+1 >= len(template) {
			b.WriteByte(template[i])
			i++
			continue
		}

		switch next := template[i+1]; {
		case next == '$':
			b.WriteByte('$')
			i += 2
			continue
		case next == '&':
			b.WriteString(m.String())
			i += 2
			continue
		case next == '`':
			b.WriteString(src[:m.Start()])
			i += 2
			continue
		case next == '\'':
			b.WriteString(src[m.End():])
			i += 2
			continue
		case next >= '0' && next <= '9':
			if group, width := groupRef(template[i+1:], m.NumGroups()); width > 0 {
				text, _ := m.Group(group)
				b.WriteString(text)
				i += 1 + width
				continue
			}
		case next == '<':
			if end := strings.IndexByte(template[i+2:], '>'); end >= 0 {
				name := template[i+2 : i+2+end]
				if r.engine.Pattern().GroupIndex(name) >= 0 {
					text, _ := m.NamedGroup(name)
					b.WriteString(text)
					i += 3 + end
					continue
				}
			}
		}

		// Unknown $ escape, treat as literal
		b.WriteByte('$')
		i++
	}
}

// groupRef parses the one or two digit group number at the start of s.
// The two digit form wins when it names an existing group. It returns a
// width of 0 when neither form does.
func groupRef(s string, ngroups int) (group, width int) {
	if len(s) >= 2 && s[1] >= '0' && s[1] <= '9' {
		if n, err := strconv.Atoi(s[:2]); err == nil && n >= 1 && n <= ngroups {
			return n, 2
		}
	}
	if n := int(s[0] - '0'); n >= 1 && n <= ngroups {
		return n, 1
	}
	return 0, 0
}

// Split slices s into substrings separated by the pattern and returns the
// substrings between those matches.
//
// The count determines the number of substrings to return:
//   - n > 0: at most n substrings; the last substring will be the unsplit remainder
//   - n == 0: the result is nil (zero substrings)
//   - n < 0: all substrings
//
// Example:
//
//	re := retrace.MustCompile(`[,.]\s*`, 0)
//	parts, _ := re.Split("a, b. c", -1)
//	// parts = ["a", "b", "c"]
func (r *Regex) Split(s string, n int) ([]string, error) {
	if n == 0 {
		return nil, nil
	}
	if len(r.pattern) > 0 && len(s) == 0 {
		return []string{""}, nil
	}

	ms, err := r.engine.FindAll(s, -1)
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(ms)+1)
	beg := 0
	for _, m := range ms {
		if n > 0 && len(result) == n-1 {
			break
		}
		if m.End() != 0 {
			result = append(result, s[beg:m.Start()])
		}
		beg = m.End()
	}
	result = append(result, s[beg:])
	return result, nil
}

// String returns the source text used to compile the regular expression.
func (r *Regex) String() string {
	return r.pattern
}

// Literal returns the pattern as a JavaScript literal, /body/flags.
func (r *Regex) Literal() string {
	return "/" + r.pattern + "/" + r.engine.Flags().String()
}

// Flags returns the flags the pattern was compiled with.
func (r *Regex) Flags() Flags {
	return r.engine.Flags()
}

// NumSubexp returns the number of parenthesized subexpressions (capture groups).
func (r *Regex) NumSubexp() int {
	return r.engine.NumGroups()
}

// SubexpNames returns the names of the parenthesized subexpressions in this Regex.
// The name for the first sub-expression is names[1]; names[0] is always the
// empty string. Unnamed groups have empty names.
func (r *Regex) SubexpNames() []string {
	return r.engine.GroupNames()
}

// SubexpIndex returns the index of the first subexpression with the given
// name, or -1 if there is none.
func (r *Regex) SubexpIndex(name string) int {
	return r.engine.Pattern().GroupIndex(name)
}

// Stats returns execution statistics of the underlying engine.
func (r *Regex) Stats() meta.Stats {
	return r.engine.Stats()
}

// ResetStats resets execution statistics to zero.
func (r *Regex) ResetStats() {
	r.engine.ResetStats()
}
