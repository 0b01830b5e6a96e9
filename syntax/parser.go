package syntax

import (
	"unicode/utf8"
)

// Options bounds the resources a single Parse may use.
type Options struct {
	// MaxRepeat is the largest count allowed in a {m,n} quantifier.
	// Default: 1000
	MaxRepeat int

	// MaxDepth is the deepest allowed group nesting.
	// Default: 1000
	MaxDepth int
}

// DefaultOptions returns the limits used by Parse.
func DefaultOptions() Options {
	return Options{
		MaxRepeat: 1000,
		MaxDepth:  1000,
	}
}

// Parse parses pattern with the default Options.
//
// Example:
//
//	p, err := syntax.Parse(`([0-9]{3})-\1`, 0)
//	// p.NumGroups == 1
func Parse(pattern string, flags Flags) (*Pattern, error) {
	return ParseWithOptions(pattern, flags, DefaultOptions())
}

// ParseWithOptions parses pattern into a Pattern.
// It returns a *Error if the pattern is structurally invalid.
func ParseWithOptions(pattern string, flags Flags, opts Options) (*Pattern, error) {
	p := &parser{
		src:   pattern,
		flags: flags,
		opts:  opts,
		names: []string{""},
	}
	root, err := p.parseAlternate()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.src) {
		// parseAlternate only stops early at an unmatched ')'.
		return nil, p.error(ErrUnexpectedParen, p.pos)
	}
	return &Pattern{
		Source:     pattern,
		Flags:      flags,
		Root:       root,
		NumGroups:  p.ngroups,
		GroupNames: p.names,
	}, nil
}

type parser struct {
	src     string
	pos     int
	flags   Flags
	opts    Options
	depth   int
	ngroups int
	names   []string
}

func (p *parser) error(code ErrorCode, offset int) *Error {
	return &Error{Code: code, Expr: p.src, Offset: offset}
}

func (p *parser) more() bool {
	return p.pos < len(p.src)
}

func (p *parser) peek() byte {
	return p.src[p.pos]
}

func (p *parser) lookingAt(s string) bool {
	return len(p.src)-p.pos >= len(s) && p.src[p.pos:p.pos+len(s)] == s
}

func (p *parser) nextRune() rune {
	r, w := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += w
	return r
}

func (p *parser) parseAlternate() (*Node, error) {
	first, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	branches := []*Node{first}
	for p.more() && p.peek() == '|' {
		p.pos++
		next, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		branches = append(branches, next)
	}
	if len(branches) == 1 {
		return first, nil
	}
	return &Node{Op: OpAlternate, Sub: branches}, nil
}

func (p *parser) parseConcat() (*Node, error) {
	var parts []*Node
	for p.more() {
		if c := p.peek(); c == '|' || c == ')' {
			break
		}
		n, err := p.parseRepeat()
		if err != nil {
			return nil, err
		}
		parts = append(parts, n)
	}
	switch len(parts) {
	case 0:
		return &Node{Op: OpEmpty}, nil
	case 1:
		return parts[0], nil
	}
	return &Node{Op: OpConcat, Sub: parts}, nil
}

func (p *parser) parseRepeat() (*Node, error) {
	groupsBefore := p.ngroups
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	start := p.pos
	lo, hi, ok, err := p.parseQuantifier()
	if err != nil || !ok {
		return atom, err
	}
	if atom.Op == OpAssert {
		return nil, p.error(ErrMissingRepeatArgument, start)
	}
	lazy := false
	if p.more() && p.peek() == '?' {
		lazy = true
		p.pos++
	}
	if p.atQuantifier() {
		return nil, p.error(ErrInvalidRepeatOp, p.pos)
	}
	return &Node{
		Op:      OpQuantifier,
		Sub:     []*Node{atom},
		Min:     lo,
		Max:     hi,
		Lazy:    lazy,
		GroupLo: groupsBefore + 1,
		GroupHi: p.ngroups + 1,
	}, nil
}

// atQuantifier reports whether a quantifier starts at the current position.
func (p *parser) atQuantifier() bool {
	if !p.more() {
		return false
	}
	switch p.peek() {
	case '*', '+', '?':
		return true
	case '{':
		_, _, _, ok := scanBound(p.src, p.pos)
		return ok
	}
	return false
}

func (p *parser) parseQuantifier() (lo, hi int, ok bool, err error) {
	if !p.more() {
		return 0, 0, false, nil
	}
	switch p.peek() {
	case '*':
		p.pos++
		return 0, Unbounded, true, nil
	case '+':
		p.pos++
		return 1, Unbounded, true, nil
	case '?':
		p.pos++
		return 0, 1, true, nil
	case '{':
		start := p.pos
		lo, hi, end, ok := scanBound(p.src, p.pos)
		if !ok {
			// Not a bound: '{' is taken literally by parseAtom.
			return 0, 0, false, nil
		}
		if lo > p.opts.MaxRepeat || hi > p.opts.MaxRepeat || (hi != Unbounded && hi < lo) {
			return 0, 0, false, p.error(ErrInvalidRepeatSize, start)
		}
		p.pos = end
		return lo, hi, true, nil
	}
	return 0, 0, false, nil
}

// scanBound recognizes {m}, {m,} or {m,n} at s[i]. Counts saturate just above
// any sane limit so callers can reject them. end is the offset after '}'.
func scanBound(s string, i int) (lo, hi, end int, ok bool) {
	if i >= len(s) || s[i] != '{' {
		return 0, 0, 0, false
	}
	i++
	lo, i, ok = scanInt(s, i)
	if !ok || i >= len(s) {
		return 0, 0, 0, false
	}
	switch s[i] {
	case '}':
		return lo, lo, i + 1, true
	case ',':
		i++
		if i < len(s) && s[i] == '}' {
			return lo, Unbounded, i + 1, true
		}
		hi, i, ok = scanInt(s, i)
		if !ok || i >= len(s) || s[i] != '}' {
			return 0, 0, 0, false
		}
		return lo, hi, i + 1, true
	}
	return 0, 0, 0, false
}

const maxScannedInt = 1 << 20

func scanInt(s string, i int) (n, end int, ok bool) {
	start := i
	for i < len(s) && '0' <= s[i] && s[i] <= '9' {
		if n < maxScannedInt {
			n = n*10 + int(s[i]-'0')
		}
		i++
	}
	return n, i, i > start
}

func (p *parser) parseAtom() (*Node, error) {
	switch c := p.peek(); c {
	case '(':
		return p.parseGroup()
	case '[':
		return p.parseClass()
	case '.':
		p.pos++
		if p.flags.Has(DotAll) {
			return &Node{Op: OpCharClass, Negated: true}, nil
		}
		return &Node{Op: OpCharClass, Class: NewClass(lineTerminators...), Negated: true}, nil
	case '^':
		p.pos++
		return &Node{Op: OpAssert, Assert: AssertBegin}, nil
	case '$':
		p.pos++
		return &Node{Op: OpAssert, Assert: AssertEnd}, nil
	case '\\':
		return p.parseEscape()
	case '*', '+', '?':
		return nil, p.error(ErrMissingRepeatArgument, p.pos)
	case '{':
		if _, _, _, ok := scanBound(p.src, p.pos); ok {
			return nil, p.error(ErrMissingRepeatArgument, p.pos)
		}
	}
	return &Node{Op: OpLiteral, Rune: p.nextRune()}, nil
}

func (p *parser) parseGroup() (*Node, error) {
	open := p.pos
	p.depth++
	if p.depth > p.opts.MaxDepth {
		return nil, p.error(ErrNestingDepth, open)
	}
	defer func() { p.depth-- }()

	p.pos++ // '('
	capturing := true
	name := ""
	switch {
	case p.lookingAt("?:"):
		p.pos += 2
		capturing = false
	case p.lookingAt("?<") && !p.lookingAt("?<=") && !p.lookingAt("?<!"):
		p.pos += 2
		n, err := p.parseGroupName()
		if err != nil {
			return nil, err
		}
		if p.groupByName(n) >= 0 {
			return nil, p.error(ErrDuplicateName, open)
		}
		name = n
	case p.lookingAt("?"):
		return nil, p.error(ErrInvalidGroup, open)
	}

	index := 0
	if capturing {
		p.ngroups++
		index = p.ngroups
		p.names = append(p.names, name)
	}
	body, err := p.parseAlternate()
	if err != nil {
		return nil, err
	}
	if !p.more() || p.peek() != ')' {
		return nil, p.error(ErrMissingParen, open)
	}
	p.pos++
	if !capturing {
		return body, nil
	}
	return &Node{Op: OpGroup, Sub: []*Node{body}, Index: index, Name: name}, nil
}

// parseGroupName reads name> after "(?<" or "\k<".
func (p *parser) parseGroupName() (string, error) {
	start := p.pos
	for first := true; p.more() && p.peek() != '>'; first = false {
		if !isNameRune(p.nextRune(), first) {
			return "", p.error(ErrInvalidNamedCapture, start)
		}
	}
	if !p.more() || p.pos == start {
		return "", p.error(ErrInvalidNamedCapture, start)
	}
	name := p.src[start:p.pos]
	p.pos++ // '>'
	return name, nil
}

func isNameRune(r rune, first bool) bool {
	switch {
	case r == '_' || r == '$':
		return true
	case 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z':
		return true
	case '0' <= r && r <= '9':
		return !first
	}
	return r >= utf8.RuneSelf && r != utf8.RuneError
}

func (p *parser) groupByName(name string) int {
	for i, n := range p.names {
		if n != "" && n == name {
			return i
		}
	}
	return -1
}

// parseEscape handles a backslash sequence outside a character class.
func (p *parser) parseEscape() (*Node, error) {
	start := p.pos
	p.pos++ // '\\'
	if !p.more() {
		return nil, p.error(ErrTrailingBackslash, start)
	}
	switch c := p.peek(); {
	case '1' <= c && c <= '9':
		n, end, _ := scanInt(p.src, p.pos)
		if n > p.ngroups {
			return nil, p.error(ErrInvalidBackref, start)
		}
		p.pos = end
		return &Node{Op: OpBackRef, Index: n}, nil
	case c == 'k':
		p.pos++
		if !p.lookingAt("<") {
			return nil, p.error(ErrInvalidEscape, start)
		}
		p.pos++
		name, err := p.parseGroupName()
		if err != nil {
			return nil, err
		}
		idx := p.groupByName(name)
		if idx < 0 {
			return nil, p.error(ErrInvalidBackref, start)
		}
		return &Node{Op: OpBackRef, Index: idx}, nil
	case c == 'b':
		p.pos++
		return &Node{Op: OpAssert, Assert: AssertWordBoundary}, nil
	case c == 'B':
		p.pos++
		return &Node{Op: OpAssert, Assert: AssertNotWordBoundary}, nil
	}
	if cls, neg, ok := p.parsePerlClass(); ok {
		return &Node{Op: OpCharClass, Class: cls, Negated: neg}, nil
	}
	r, err := p.parseEscapedRune(start, false)
	if err != nil {
		return nil, err
	}
	return &Node{Op: OpLiteral, Rune: r}, nil
}

// parsePerlClass consumes \d \D \w \W \s \S; the backslash is already consumed.
func (p *parser) parsePerlClass() (Class, bool, bool) {
	var ranges []RuneRange
	neg := false
	switch c := p.peek(); c {
	case 'd', 'D':
		ranges, neg = digitRanges, c == 'D'
	case 'w', 'W':
		ranges, neg = wordRanges, c == 'W'
	case 's', 'S':
		ranges, neg = spaceRanges, c == 'S'
	default:
		return Class{}, false, false
	}
	p.pos++
	return NewClass(ranges...), neg, true
}

// parseEscapedRune decodes a single-rune escape; the backslash is already
// consumed and start is its offset.
func (p *parser) parseEscapedRune(start int, inClass bool) (rune, error) {
	c := p.nextRune()
	switch c {
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'f':
		return '\f', nil
	case 'v':
		return '\v', nil
	case 'b':
		if inClass {
			return '\b', nil
		}
	case '0':
		if p.more() && '0' <= p.peek() && p.peek() <= '9' {
			return 0, p.error(ErrInvalidEscape, start)
		}
		return 0, nil
	case 'x':
		return p.parseHex(start, 2)
	case 'u':
		if p.lookingAt("{") {
			return p.parseBracedHex(start)
		}
		return p.parseHex(start, 4)
	}
	if 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' {
		// Letters and digits without a defined meaning are reserved.
		return 0, p.error(ErrInvalidEscape, start)
	}
	return c, nil
}

func (p *parser) parseHex(start, digits int) (rune, error) {
	if len(p.src)-p.pos < digits {
		return 0, p.error(ErrInvalidEscape, start)
	}
	var r rune
	for i := 0; i < digits; i++ {
		d, ok := hexValue(p.src[p.pos+i])
		if !ok {
			return 0, p.error(ErrInvalidEscape, start)
		}
		r = r<<4 | d
	}
	p.pos += digits
	return r, nil
}

func (p *parser) parseBracedHex(start int) (rune, error) {
	p.pos++ // '{'
	var r rune
	n := 0
	for p.more() && p.peek() != '}' {
		d, ok := hexValue(p.peek())
		if !ok {
			return 0, p.error(ErrInvalidEscape, start)
		}
		r = r<<4 | d
		if r > utf8.MaxRune {
			return 0, p.error(ErrInvalidEscape, start)
		}
		p.pos++
		n++
	}
	if !p.more() || n == 0 {
		return 0, p.error(ErrInvalidEscape, start)
	}
	p.pos++ // '}'
	return r, nil
}

func hexValue(c byte) (rune, bool) {
	switch {
	case '0' <= c && c <= '9':
		return rune(c - '0'), true
	case 'a' <= c && c <= 'f':
		return rune(c-'a') + 10, true
	case 'A' <= c && c <= 'F':
		return rune(c-'A') + 10, true
	}
	return 0, false
}

func (p *parser) parseClass() (*Node, error) {
	open := p.pos
	p.pos++ // '['
	negated := false
	if p.more() && p.peek() == '^' {
		negated = true
		p.pos++
	}
	var cls Class
	for {
		if !p.more() {
			return nil, p.error(ErrMissingBracket, open)
		}
		if p.peek() == ']' {
			p.pos++
			break
		}
		itemStart := p.pos
		lo, set, isSet, err := p.parseClassAtom()
		if err != nil {
			return nil, err
		}
		// A '-' is a range operator unless it is last in the class.
		if p.lookingAt("-") && p.pos+1 < len(p.src) && p.src[p.pos+1] != ']' {
			p.pos++
			hi, _, hiIsSet, err := p.parseClassAtom()
			if err != nil {
				return nil, err
			}
			if isSet || hiIsSet || lo > hi {
				return nil, p.error(ErrInvalidCharRange, itemStart)
			}
			cls.AddRange(lo, hi)
			continue
		}
		if isSet {
			cls.AddClass(set)
		} else {
			cls.AddRange(lo, lo)
		}
	}
	return &Node{Op: OpCharClass, Class: cls, Negated: negated}, nil
}

// parseClassAtom reads one class member: a rune or a \d-style set.
func (p *parser) parseClassAtom() (rune, Class, bool, error) {
	if p.peek() != '\\' {
		return p.nextRune(), Class{}, false, nil
	}
	start := p.pos
	p.pos++
	if !p.more() {
		return 0, Class{}, false, p.error(ErrTrailingBackslash, start)
	}
	if cls, neg, ok := p.parsePerlClass(); ok {
		if neg {
			cls = cls.Negate()
		}
		return 0, cls, true, nil
	}
	if c := p.peek(); c == '-' {
		p.pos++
		return '-', Class{}, false, nil
	}
	r, err := p.parseEscapedRune(start, true)
	return r, Class{}, false, err
}
