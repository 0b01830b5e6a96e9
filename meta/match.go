package meta

// Match is an immutable record of one successful match: the overall span
// and the capture set at the moment of success.
//
// Offsets are byte offsets into the subject. Group 0 is the whole match.
//
// Example:
//
//	m, _ := engine.Find("call 832-999-1111 now")
//	println(m.String())          // "832-999-1111"
//	println(m.Start(), m.End())  // 5, 17
type Match struct {
	subject string
	slots   []int
	names   []string
}

func newMatch(subject string, slots []int, names []string) *Match {
	return &Match{
		subject: subject,
		slots:   slots,
		names:   names,
	}
}

// Start returns the inclusive start offset of the match.
func (m *Match) Start() int {
	return m.slots[0]
}

// End returns the exclusive end offset of the match.
func (m *Match) End() int {
	return m.slots[1]
}

// Len returns the length of the match in bytes.
func (m *Match) Len() int {
	return m.slots[1] - m.slots[0]
}

// IsEmpty reports whether the match is zero-length.
func (m *Match) IsEmpty() bool {
	return m.slots[0] == m.slots[1]
}

// String returns the matched text.
func (m *Match) String() string {
	return m.subject[m.slots[0]:m.slots[1]]
}

// NumGroups returns the number of capturing groups, excluding group 0.
func (m *Match) NumGroups() int {
	return len(m.slots)/2 - 1
}

// GroupIndex returns the span of group i. ok is false when i is out of
// range or the group did not participate in the match.
func (m *Match) GroupIndex(i int) (start, end int, ok bool) {
	if i < 0 || 2*i+1 >= len(m.slots) || m.slots[2*i] < 0 {
		return -1, -1, false
	}
	return m.slots[2*i], m.slots[2*i+1], true
}

// Group returns the text of group i and whether it participated.
func (m *Match) Group(i int) (string, bool) {
	start, end, ok := m.GroupIndex(i)
	if !ok {
		return "", false
	}
	return m.subject[start:end], true
}

// NamedGroup returns the text of the group called name.
func (m *Match) NamedGroup(name string) (string, bool) {
	for i, n := range m.names {
		if n != "" && n == name {
			return m.Group(i)
		}
	}
	return "", false
}

// Groups returns the text of every group, group 0 first. Groups that did
// not participate are "".
func (m *Match) Groups() []string {
	out := make([]string, len(m.slots)/2)
	for i := range out {
		out[i], _ = m.Group(i)
	}
	return out
}

// Indices returns a copy of the slot pairs: [2*i, 2*i+1] is the span of
// group i, -1 for groups that did not participate.
func (m *Match) Indices() []int {
	return append([]int(nil), m.slots...)
}
