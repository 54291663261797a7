package batch

import (
	"sort"
	"testing"
)

func TestNaturalLess(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"page2.png", "page10.png", true},
		{"page10.png", "page2.png", false},
		{"ch1", "ch1", false},
		{"Ch2", "ch10", true},
		{"9.png", "10.png", true},
		{"v1.2", "v1.10", true},
		{"a", "b", true},
		{"abc", "abcd", true},
	}
	for _, c := range cases {
		if got := naturalLess(c.a, c.b); got != c.want {
			t.Errorf("naturalLess(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestNaturalSortOrder(t *testing.T) {
	names := []string{"p10.png", "p2.png", "p1.png", "p20.png", "p3.png"}
	sort.Slice(names, func(i, j int) bool { return naturalLess(names[i], names[j]) })

	want := []string{"p1.png", "p2.png", "p3.png", "p10.png", "p20.png"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("position %d = %q, want %q (full order %v)", i, names[i], want[i], names)
		}
	}
}
