package quantity

import "testing"

func TestExtract(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want int
	}{
		{"digits", "I count 12 bottles", 12},
		{"digits beat words regardless of position", "three cases and 7 singles", 7},
		{"simple word", "about seven cases of Corona", 7},
		{"teen word matches whole token", "nineteen bottles of lager", 19},
		{"compound takes first word", "twenty one bottles", 20},
		{"case insensitive", "Seven Bottles", 7},
		{"punctuation splits tokens", "fourteen, maybe fifteen", 14},
		{"word embedded in longer token", "check the onesie shelf", 0},
		{"digits glued to letters", "lot abc123def", 0},
		{"no quantity", "restock the cooler please", 0},
		{"empty transcript", "", 0},
		{"zero spoken", "zero bottles left", 0},
		{"twenty", "twenty", 20},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Extract(tc.in); got != tc.want {
				t.Errorf("Extract(%q) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}
