package syntax

import (
	"testing"
	"unicode"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestClassNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []RuneRange
		want []RuneRange
	}{
		{"empty", nil, nil},
		{"sorted", []RuneRange{{'x', 'z'}, {'a', 'c'}}, []RuneRange{{'a', 'c'}, {'x', 'z'}}},
		{"overlapping", []RuneRange{{'a', 'f'}, {'d', 'k'}}, []RuneRange{{'a', 'k'}}},
		{"adjacent", []RuneRange{{'a', 'c'}, {'d', 'f'}}, []RuneRange{{'a', 'f'}}},
		{"contained", []RuneRange{{'a', 'z'}, {'m', 'n'}}, []RuneRange{{'a', 'z'}}},
		{"inverted ignored", []RuneRange{{'z', 'a'}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewClass(tt.in...).Ranges()
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Ranges() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassContains(t *testing.T) {
	c := NewClass(RuneRange{'0', '9'}, RuneRange{'A', 'Z'}, RuneRange{'-', '-'})
	for _, r := range "09AZ-" {
		if !c.Contains(r) {
			t.Errorf("Contains(%q) = false, want true", r)
		}
	}
	for _, r := range "a/:[@ é" {
		if c.Contains(r) {
			t.Errorf("Contains(%q) = true, want false", r)
		}
	}
	if got := c.Size(); got != 37 {
		t.Errorf("Size() = %d, want 37", got)
	}
}

func TestClassNegate(t *testing.T) {
	c := NewClass(RuneRange{'b', 'y'})
	neg := c.Negate()
	want := []RuneRange{{0, 'a'}, {'z', unicode.MaxRune}}
	if diff := cmp.Diff(want, neg.Ranges()); diff != "" {
		t.Errorf("Negate() mismatch (-want +got):\n%s", diff)
	}
	if got := neg.Negate().Ranges(); !cmp.Equal(c.Ranges(), got) {
		t.Errorf("double Negate() = %v, want %v", got, c.Ranges())
	}

	var empty Class
	all := empty.Negate()
	if !all.Contains(0) || !all.Contains(unicode.MaxRune) {
		t.Error("negated empty class should contain everything")
	}
}

func TestClassFolding(t *testing.T) {
	c := NewClass(RuneRange{'a', 'c'})
	for _, r := range "abcABC" {
		if !c.ContainsFold(r) {
			t.Errorf("ContainsFold(%q) = false, want true", r)
		}
	}
	if c.ContainsFold('D') {
		t.Error("ContainsFold('D') = true, want false")
	}

	// The Kelvin sign folds to k.
	k := NewClass(RuneRange{'k', 'k'})
	if !k.ContainsFold('\u212A') {
		t.Error("ContainsFold(KELVIN SIGN) = false, want true")
	}

	tests := []struct {
		a, b rune
		want bool
	}{
		{'a', 'A', true},
		{'A', 'a', true},
		{'é', 'É', true},
		{'a', 'b', false},
		{'1', '1', true},
	}
	for _, tt := range tests {
		if got := EqualFold(tt.a, tt.b); got != tt.want {
			t.Errorf("EqualFold(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCharPredicates(t *testing.T) {
	for _, r := range "azAZ09_" {
		if !IsWordChar(r) {
			t.Errorf("IsWordChar(%q) = false", r)
		}
	}
	for _, r := range "-é " {
		if IsWordChar(r) {
			t.Errorf("IsWordChar(%q) = true", r)
		}
	}
	for _, r := range "\n\r\u2028\u2029" {
		if !IsLineTerminator(r) {
			t.Errorf("IsLineTerminator(%q) = false", r)
		}
	}
	if IsLineTerminator('\t') {
		t.Error("IsLineTerminator('\\t') = true")
	}
}
