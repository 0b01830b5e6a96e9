package literal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// dump renders a sequence as "bytes/c" or "bytes/i" entries for comparison.
func dump(s *Seq) []string {
	if s == nil {
		return nil
	}
	out := make([]string, s.Len())
	for i := range out {
		lit := s.Get(i)
		suffix := "/i"
		if lit.Complete {
			suffix = "/c"
		}
		out[i] = string(lit.Bytes) + suffix
	}
	return out
}

func seqOf(complete bool, ss ...string) *Seq {
	out := make([]Literal, len(ss))
	for i, s := range ss {
		out[i] = NewLiteral([]byte(s), complete)
	}
	return NewSeq(out...)
}

func TestSeqQueries(t *testing.T) {
	var nilSeq *Seq
	if !nilSeq.IsEmpty() || nilSeq.Len() != 0 || nilSeq.HasEmpty() {
		t.Error("nil Seq should be empty without the empty literal")
	}

	s := seqOf(true, "hello", "hi", "")
	if s.IsEmpty() {
		t.Error("IsEmpty() = true, want false")
	}
	if !s.HasEmpty() {
		t.Error("HasEmpty() = false, want true")
	}
	if got := s.MinLen(); got != 0 {
		t.Errorf("MinLen() = %d, want 0", got)
	}
	if got := seqOf(true, "hello", "hi").MinLen(); got != 2 {
		t.Errorf("MinLen() = %d, want 2", got)
	}
}

func TestSeqMinimize(t *testing.T) {
	tests := []struct {
		name string
		seq  *Seq
		want []string
	}{
		{
			name: "longer literal absorbed",
			seq:  seqOf(true, "markets", "market"),
			want: []string{"market/i"},
		},
		{
			name: "identical complete literals stay complete",
			seq:  seqOf(true, "market", "market"),
			want: []string{"market/c"},
		},
		{
			name: "unrelated literals kept shortest first",
			seq:  seqOf(true, "dog", "ca"),
			want: []string{"ca/c", "dog/c"},
		},
		{
			name: "ties keep source order",
			seq:  seqOf(true, "dog", "cat"),
			want: []string{"dog/c", "cat/c"},
		},
		{
			name: "incomplete duplicate marks incomplete",
			seq:  NewSeq(NewLiteral([]byte("ab"), true), NewLiteral([]byte("ab"), false)),
			want: []string{"ab/i"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.seq.Minimize()
			if diff := cmp.Diff(tt.want, dump(tt.seq)); diff != "" {
				t.Errorf("Minimize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSeqLongestCommonPrefix(t *testing.T) {
	tests := []struct {
		name string
		seq  *Seq
		want string
	}{
		{"shared prefix", seqOf(true, "hello", "help", "hero"), "he"},
		{"single literal", seqOf(true, "market"), "market"},
		{"no common prefix", seqOf(true, "cat", "dog"), ""},
		{"empty sequence", NewSeq(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(tt.seq.LongestCommonPrefix()); got != tt.want {
				t.Errorf("LongestCommonPrefix() = %q, want %q", got, tt.want)
			}
		})
	}
}
