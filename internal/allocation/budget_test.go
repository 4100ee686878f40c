package allocation

import "testing"

func TestParseBudget(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"Under $500", 500},
		{"$500-750", 625},
		{"500-800", 625},
		{"$750-1000", 875},
		{"800-1000", 875},
		{"$1,000-1,500", 1250},
		{"$1500+", 2000},
		{"over 1500", 2000},
		{"around 77 dollars", 77},
		{"no idea", 1000},
		{"", 1000},
	}
	for _, c := range cases {
		if got := ParseBudget(c.in); got != c.want {
			t.Errorf("ParseBudget(%q): expected %v, got %v", c.in, c.want, got)
		}
	}
}
