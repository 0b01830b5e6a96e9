package retrace

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/coregx/retrace/syntax"
)

const quote = "Stock market is supposed to drop when the Fed hikes interest rates. " +
	"So why are the markets rallying now?"

func TestMatchAllString(t *testing.T) {
	tests := []struct {
		name    string
		literal string
		subject string
		want    []string
	}{
		{"lazy", `/markets*?/g`, quote, []string{"market", "market"}},
		{"greedy", `/markets*/g`, quote, []string{"market", "markets"}},
		{"alternation", `/marke(ts|t)/g`, quote, []string{"market", "markets"}},
		{"phone numbers", `/\(?([0-9]{3})\)?([.-]?)([0-9]{3})\2([0-9]{4})/g`,
			"(832)999-1111,832-999-1111,832-abc-1111", []string{"832-999-1111"}},
		{"not global", `/\d/`, "a1", []string{}},
		{"not global at start", `/\d/`, "1a2", []string{"1"}},
		{"sticky", `/a/gy`, "aaba", []string{"a", "a"}},
		{"fold multibyte", `/é+/gi`, "xÉéx", []string{"Éé"}},
		{"empty matches", `/a*/g`, "baa", []string{"", "aa", ""}},
		{"overlapping alternatives", `/abcd|bc/g`, "abcd", []string{"abcd"}},
		{"overlapping alternatives later start", `/xabcd|bc/g`, "zxabcd bc", []string{"xabcd", "bc"}},
		{"three overlapping alternatives", `/abcdef|bcd|c/g`, "abcdefxbcd", []string{"abcdef", "bcd"}},
		{"shared prefix", `/market|marker/g`, "markers market", []string{"marker", "market"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := MustCompileLiteral(tt.literal)
			got, err := re.MatchAllString(tt.subject)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("MatchAllString(%q) mismatch (-want +got):\n%s", tt.subject, diff)
			}
		})
	}
}

func TestWordCount(t *testing.T) {
	re := MustCompile(`([A-Za-z0-9-]+)`, Global)
	words, err := re.MatchAllString(quote)
	if err != nil {
		t.Fatal(err)
	}
	if len(words) != 19 {
		t.Errorf("got %d words, want 19: %q", len(words), words)
	}
	if words[0] != "Stock" || words[18] != "now" {
		t.Errorf("first, last = %q, %q", words[0], words[18])
	}
}

func TestCompileLiteral(t *testing.T) {
	tests := []struct {
		literal     string
		wantPattern string
		wantFlags   Flags
	}{
		{`/marke(ts|t)/g`, `marke(ts|t)`, Global},
		{`/a\/b/i`, `a\/b`, IgnoreCase},
		{`/a/b/`, `a/b`, 0},
		{`/x/ysmig`, `x`, Global | IgnoreCase | Multiline | DotAll | Sticky},
	}

	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			re, err := CompileLiteral(tt.literal)
			if err != nil {
				t.Fatal(err)
			}
			if re.String() != tt.wantPattern || re.Flags() != tt.wantFlags {
				t.Errorf("got (%q, %v), want (%q, %v)", re.String(), re.Flags(), tt.wantPattern, tt.wantFlags)
			}
			again := MustCompileLiteral(re.Literal())
			if again.String() != re.String() || again.Flags() != re.Flags() {
				t.Errorf("Literal() %q does not round-trip", re.Literal())
			}
		})
	}
}

func TestLiteralCanonicalFlags(t *testing.T) {
	re := MustCompileLiteral(`/x/ysmig`)
	if got := re.Literal(); got != `/x/gimsy` {
		t.Errorf("Literal() = %q, want /x/gimsy", got)
	}
}

func TestFind(t *testing.T) {
	re := MustCompile(`\d{3}`, 0)

	m, err := re.Find("call 832 now")
	if err != nil || m == nil {
		t.Fatalf("Find() = %v, %v", m, err)
	}
	if m.Start() != 5 || m.String() != "832" {
		t.Errorf("Find() = %q at %d, want 832 at 5", m.String(), m.Start())
	}

	s, err := re.FindString("no digits")
	if err != nil || s != "" {
		t.Errorf("FindString() = %q, %v", s, err)
	}
	ok, err := re.MatchString("x 123")
	if err != nil || !ok {
		t.Errorf("MatchString() = %v, %v", ok, err)
	}
	ok, _ = re.MatchString("12")
	if ok {
		t.Error("MatchString(12) = true")
	}

	all, err := re.FindAllString("111 222 33", -1)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"111", "222"}, all); diff != "" {
		t.Errorf("FindAllString mismatch (-want +got):\n%s", diff)
	}
	if all, _ := re.FindAllString("none", -1); all != nil {
		t.Errorf("FindAllString(none) = %q, want nil", all)
	}

	m, err = re.TryMatch("ab123", 2)
	if err != nil || m == nil || m.String() != "123" {
		t.Errorf("TryMatch(2) = %v, %v", m, err)
	}
}

func TestReplaceAllString(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		src     string
		repl    string
		want    string
	}{
		{"swap groups", `(\w+)@(\w+)`, "bob@host and ann@web", "$2:$1", "host:bob and web:ann"},
		{"whole match", `(\w+)@(\w+)`, "bob@host and ann@web", "[$&]", "[bob@host] and [ann@web]"},
		{"dollar", `(\w+)@(\w+)`, "bob@host and ann@web", "$$", "$ and $"},
		{"missing group", `(\w+)@(\w+)`, "bob@host", "$3", "$3"},
		{"group zero", `(\w+)@(\w+)`, "bob@host", "$0", "$0"},
		{"trailing dollar", `b`, "abc", "x$", "ax$c"},
		{"unknown escape", `b`, "abc", "$x", "a$xc"},
		{"prefix", `b`, "abc", "$`", "aac"},
		{"suffix", `b`, "abc", "$'", "acc"},
		{"named", `(?<user>\w+)@(?<host>\w+)`, "bob@host", "$<host>/$<user>", "host/bob"},
		{"unknown name", `(?<user>\w+)@`, "bob@", "$<host>", "$<host>"},
		{"unset group", `(a)|b`, "ab", "[$1]", "[a][]"},
		{"two digits", `(a)(b)(c)(d)(e)(f)(g)(h)(i)(j)`, "abcdefghij", "$10", "j"},
		{"two digits fall back", `(a)(b)(c)(d)(e)(f)(g)(h)(i)(j)`, "abcdefghij", "$11", "a1"},
		{"empty matches", `x*`, "ab", "-", "-a-b-"},
		{"no match", `z`, "abc", "-", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MustCompile(tt.pattern, 0).ReplaceAllString(tt.src, tt.repl)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ReplaceAllString(%q, %q) = %q, want %q", tt.src, tt.repl, got, tt.want)
			}
		})
	}
}

func TestReplaceAllStringFunc(t *testing.T) {
	re := MustCompile(`[a-c]+`, 0)
	got, err := re.ReplaceAllStringFunc("xabcxbx", func(m *Match) string {
		return strings.ToUpper(m.String())
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != "xABCxBx" {
		t.Errorf("ReplaceAllStringFunc() = %q, want xABCxBx", got)
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		pattern string
		s       string
		n       int
		want    []string
	}{
		{`[,.]\s*`, "a, b. c", -1, []string{"a", "b", "c"}},
		{`[,.]\s*`, "a, b. c", 2, []string{"a", "b. c"}},
		{`[,.]\s*`, "a, b. c", 1, []string{"a, b. c"}},
		{`[,.]\s*`, "a, b. c", 0, nil},
		{`[,.]\s*`, "", -1, []string{""}},
		{`a`, "abc", -1, []string{"", "bc"}},
		{`z`, "abc", -1, []string{"abc"}},
	}

	for _, tt := range tests {
		got, err := MustCompile(tt.pattern, 0).Split(tt.s, tt.n)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Split(%q, %q, %d) mismatch (-want +got):\n%s", tt.pattern, tt.s, tt.n, diff)
		}
	}
}

func TestQuoteMeta(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"(832)999-1111", `\(832\)999-1111`},
		{"a.b/c", `a\.b\/c`},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := QuoteMeta(tt.in); got != tt.want {
			t.Errorf("QuoteMeta(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	// A quoted string matches itself literally.
	for _, s := range []string{`[x]{1,2}^$|/\ .*+?`, "a(b)c", "é.é"} {
		re := MustCompile(QuoteMeta(s), 0)
		m, err := re.TryMatch(s, 0)
		if err != nil || m == nil || m.String() != s {
			t.Errorf("QuoteMeta(%q) does not match itself: %v, %v", s, m, err)
		}
	}
}

func TestSubexp(t *testing.T) {
	re := MustCompile(`(?<area>\d{3})-(\d{4})`, 0)
	if re.NumSubexp() != 2 {
		t.Errorf("NumSubexp() = %d, want 2", re.NumSubexp())
	}
	if diff := cmp.Diff([]string{"", "area", ""}, re.SubexpNames()); diff != "" {
		t.Errorf("SubexpNames() mismatch (-want +got):\n%s", diff)
	}
	if re.SubexpIndex("area") != 1 || re.SubexpIndex("zip") != -1 {
		t.Errorf("SubexpIndex = %d, %d", re.SubexpIndex("area"), re.SubexpIndex("zip"))
	}
}

func TestMatchTimeout(t *testing.T) {
	config := DefaultConfig()
	config.MaxSteps = 10_000
	re, err := CompileWithConfig(`(a*)*b`, Global, config)
	if err != nil {
		t.Fatal(err)
	}

	words, err := re.MatchAllString(strings.Repeat("a", 40))
	if words != nil {
		t.Errorf("MatchAllString = %q, want nil", words)
	}
	if !errors.Is(err, ErrMatchTimeout) {
		t.Fatalf("error = %v, want ErrMatchTimeout", err)
	}
	var terr *TimeoutError
	if !errors.As(err, &terr) || terr.Pattern != `(a*)*b` {
		t.Errorf("error = %#v, want *TimeoutError for the pattern", err)
	}
	if _, err := re.ReplaceAllString(strings.Repeat("a", 40), ""); !errors.Is(err, ErrMatchTimeout) {
		t.Errorf("ReplaceAllString error = %v, want ErrMatchTimeout", err)
	}
	if re.Stats().Timeouts != 2 {
		t.Errorf("Stats().Timeouts = %d, want 2", re.Stats().Timeouts)
	}
	re.ResetStats()
	if re.Stats().Searches != 0 {
		t.Error("ResetStats() did not clear Searches")
	}
}

func TestFlagsAliases(t *testing.T) {
	f, err := ParseFlags("gimsy")
	if err != nil {
		t.Fatal(err)
	}
	if f != Global|IgnoreCase|Multiline|DotAll|Sticky {
		t.Errorf("ParseFlags(gimsy) = %v", f)
	}
	if !f.Has(syntax.Sticky) {
		t.Error("Has(Sticky) = false")
	}
}
