package document

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func lines(d Document) []string {
	out := make([]string, 0, d.LineCount())
	for i := 0; i < d.LineCount(); i++ {
		out = append(out, d.Line(i))
	}
	return out
}

func TestNew(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"", []string{}},
		{"\n", []string{""}},
		{"one", []string{"one"}},
		{"one\n", []string{"one"}},
		{"one\ntwo", []string{"one", "two"}},
		{"one\n\nthree\n", []string{"one", "", "three"}},
	}
	for _, tc := range tests {
		if diff := cmp.Diff(tc.want, lines(New(tc.text))); diff != "" {
			t.Errorf("New(%q) mismatch (-want +got):\n%s", tc.text, diff)
		}
	}
}

func TestLineOutOfRange(t *testing.T) {
	d := FromBytes([]byte("a\nb\n"))
	for _, i := range []int{-1, 2, 100} {
		if got := d.Line(i); got != "" {
			t.Errorf("Line(%d) = %q, want empty", i, got)
		}
	}
	if Empty.LineCount() != 0 {
		t.Errorf("Empty.LineCount() = %d", Empty.LineCount())
	}
}
