package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		name string
		s    string
		def  int
		want int
	}{
		{"empty keeps default", "", 10, 10},
		{"plain int", "42", 0, 42},
		{"negative int", "-13", 1, -13},
		{"leading zeros", "0012", 99, 12},
		{"garbage keeps default", "x", 5, 5},
		{"no trimming", " 42", 7, 7},
		{"overflow keeps default", "999999999999999999999999", -1, -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AtoiDefault(tc.s, tc.def); got != tc.want {
				t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
			}
		})
	}
}
