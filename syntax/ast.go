// Package syntax parses regular expression patterns into an abstract syntax
// tree consumed by the backtracking matcher.
//
// The accepted syntax is the ECMAScript subset used by everyday patterns:
// literals, '.', character classes, ordered alternation, greedy and lazy
// quantifiers, capturing, non-capturing and named groups, numbered and named
// back-references, and the ^ $ \b \B assertions.
//
// Escapes differ from a browser engine in two places:
//   - \u{X...} is a code point escape in every pattern. No u flag exists or
//     is needed; \u{61} is always "a" and never "u" repeated 61 times.
//   - \N reads every following digit as one group number, and that group
//     must already be open. (a)\10 is a SyntaxError, not \1 followed by "0",
//     and there are no octal escapes.
//
// Example:
//
//	p, err := syntax.Parse(`marke(ts|t)`, syntax.Global)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(p.NumGroups) // 1
//	fmt.Println(p.Root)      // cat{lit{m}lit{a}lit{r}lit{k}lit{e}group1{alt{cat{lit{t}lit{s}}lit{t}}}}
package syntax

import (
	"strconv"
	"strings"
)

// Op identifies the kind of a Node.
type Op uint8

// Node kinds.
const (
	OpEmpty      Op = iota + 1 // matches the empty string
	OpLiteral                  // a single rune
	OpCharClass                // one rune from Class (complemented if Negated)
	OpConcat                   // Sub in order
	OpAlternate                // first Sub that lets the whole match succeed
	OpGroup                    // Sub[0], capturing into Index
	OpBackRef                  // the text captured by group Index
	OpQuantifier               // Sub[0] repeated Min..Max times
	OpAssert                   // zero-width Assertion
)

// Assertion identifies a zero-width check.
type Assertion uint8

// Zero-width assertions.
const (
	AssertBegin Assertion = iota + 1 // ^
	AssertEnd                        // $
	AssertWordBoundary               // \b
	AssertNotWordBoundary            // \B
)

// Unbounded is the Max of a quantifier without an upper bound.
const Unbounded = -1

// Node is one element of the pattern tree. Nodes are immutable once the
// Pattern that owns them has been returned from Parse.
type Node struct {
	Op Op

	Rune    rune  // OpLiteral
	Class   Class // OpCharClass
	Negated bool  // OpCharClass

	Sub []*Node // OpConcat, OpAlternate; single body for OpGroup, OpQuantifier

	Index int    // OpGroup, OpBackRef: 1-based group number
	Name  string // OpGroup: optional group name

	Min, Max int  // OpQuantifier; Max == Unbounded for no upper bound
	Lazy     bool // OpQuantifier

	// GroupLo and GroupHi delimit the groups [GroupLo, GroupHi) nested in a
	// quantifier body. Their captures are cleared at each iteration.
	GroupLo, GroupHi int

	Assert Assertion // OpAssert
}

// Pattern is a parsed regular expression.
type Pattern struct {
	Source     string
	Flags      Flags
	Root       *Node
	NumGroups  int
	GroupNames []string // GroupNames[i] names group i; index 0 is always ""
}

// GroupIndex returns the number of the group called name, or -1.
func (p *Pattern) GroupIndex(name string) int {
	if name == "" {
		return -1
	}
	for i, n := range p.GroupNames {
		if n == name {
			return i
		}
	}
	return -1
}

// String returns a compact dump of the tree, e.g. cat{lit{a}star{lit{b}}}.
func (n *Node) String() string {
	var b strings.Builder
	n.dump(&b)
	return b.String()
}

func (n *Node) dump(b *strings.Builder) {
	switch n.Op {
	case OpEmpty:
		b.WriteString("empty{}")
	case OpLiteral:
		b.WriteString("lit{")
		b.WriteRune(n.Rune)
		b.WriteByte('}')
	case OpCharClass:
		if n.Negated {
			b.WriteString("ncc{")
		} else {
			b.WriteString("cc{")
		}
		b.WriteString(n.Class.String())
		b.WriteByte('}')
	case OpConcat:
		n.dumpSubs(b, "cat")
	case OpAlternate:
		n.dumpSubs(b, "alt")
	case OpGroup:
		b.WriteString("group")
		b.WriteString(strconv.Itoa(n.Index))
		if n.Name != "" {
			b.WriteByte('<')
			b.WriteString(n.Name)
			b.WriteByte('>')
		}
		n.dumpSubs(b, "")
	case OpBackRef:
		b.WriteString("ref{")
		b.WriteString(strconv.Itoa(n.Index))
		b.WriteByte('}')
	case OpQuantifier:
		b.WriteString(n.quantifierName())
		if n.Lazy {
			b.WriteString("lazy")
		}
		n.dumpSubs(b, "")
	case OpAssert:
		b.WriteString(n.assertName())
		b.WriteString("{}")
	default:
		b.WriteString("op" + strconv.Itoa(int(n.Op)) + "{}")
	}
}

func (n *Node) dumpSubs(b *strings.Builder, name string) {
	b.WriteString(name)
	b.WriteByte('{')
	for _, sub := range n.Sub {
		sub.dump(b)
	}
	b.WriteByte('}')
}

func (n *Node) quantifierName() string {
	switch {
	case n.Min == 0 && n.Max == Unbounded:
		return "star"
	case n.Min == 1 && n.Max == Unbounded:
		return "plus"
	case n.Min == 0 && n.Max == 1:
		return "quest"
	case n.Max == Unbounded:
		return "rep{" + strconv.Itoa(n.Min) + ",}"
	default:
		return "rep{" + strconv.Itoa(n.Min) + "," + strconv.Itoa(n.Max) + "}"
	}
}

func (n *Node) assertName() string {
	switch n.Assert {
	case AssertBegin:
		return "bol"
	case AssertEnd:
		return "eol"
	case AssertWordBoundary:
		return "wb"
	case AssertNotWordBoundary:
		return "nwb"
	}
	return "assert"
}
