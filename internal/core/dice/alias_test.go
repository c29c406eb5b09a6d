package dice

import "testing"

func TestExpand(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		// Static aliases
		{"age", "2d6 + 1d6"},
		{"dndstats", "6 4d6 k3"},
		{"attack", "1d20"},
		{"skill", "1d20"},
		{"save", "1d20"},
		{"3df", "3d3 fudge"},
		{"4df", "4d3 fudge"},
		{"dh", "1d10 ie10"},
		{"wng", "1d6 wng"},
		{"hsn", "1d6 hsn"},
		{"hsk", "1d6 hsk"},
		{"hsh", "3d6 hsh"},

		// D&D checks with modifiers
		{"attack +5", "1d20+5"},
		{"save -2", "1d20-2"},

		// Advantage / disadvantage
		{"+d20", "2d20 k1"},
		{"-d20", "2d20 kl1"},
		{"+d%", "2d10 kl1 * 10 + 1d10 - 10"},
		{"-d%", "2d10 k1 * 10 + 1d10 - 10"},

		// Chronicles of Darkness
		{"4cod", "4d10 t8 ie10"},
		{"4cod8", "4d10 t7 ie10"},
		{"4cod9", "4d10 t6 ie10"},
		{"4codr", "4d10 t8 ie10 r1"},
		{"4cod +2", "4d10 t8 ie10 +2"},

		// World of Darkness
		{"5wod8", "5d10 f1 ie10 t8"},

		// Dark Heresy
		{"dh 3d10", "3d10 ie10"},

		// Fudge
		{"6df", "6d3 fudge"},

		// Warhammer
		{"3wh4+", "3d6 t4"},

		// Double digit
		{"dd34", "1d3 * 10 + 1d4"},

		// Percentile
		{"2d%", "2d100"},

		// Shadowrun, Storypath, Year Zero, Sunsails
		{"sr5", "5d6 t5"},
		{"sp4", "4d10 t8 ie10"},
		{"6yz", "6d6 t6"},
		{"snm5", "5d6 ie6 t4"},

		// D6 System
		{"d6s4", "4d6 + 1d6 ie"},
		{"d6s4+2", "4d6 + 1d6 ie+2"},

		// Hero System
		{"2hsn", "2d6 hsn"},
		{"2.5hsk", "2d6 + 1d3 hsk"},
		{"0.5hsn", "1d3 hsn"},
		{"2hsk1", "2d6 + 1d3 hsk"},
		{"3hsh", "3d6 hsh"},
		{"3hsn2", "3d6 hsn"},
		{"3hsh2", "3d6 + 3"},

		// Exalted
		{"ex5", "5d10 t7 t10"},
		{"ex5t8", "5d10 t8 t10"},

		// Godbound
		{"gb", "1d20 gb"},
		{"gbs", "1d20 gbs"},
		{"gb+5", "1d20 gb+5"},
		{"gb 2d8", "2d8 gb"},
		{"gbs 3d6 -1", "3d6 gbs-1"},

		// Wrath & Glory
		{"wng 4d6", "4d6 wng"},
		{"wng dn2 4d6", "4d6 wngdn2"},
		{"wng 4d6 !soak", "4d6 wngt"},
		{"wng dn3 5d6 !dmg", "5d6 wngdn3t"},

		// Earthdawn
		{"ed3", "1d4 ie"},
		{"ed9", "1d8 ie + 1d6 ie"},
		{"ed15", "1d12 ie + 2d6 ie"},
		{"ed4e15", "1d12 ie + 2d6 ie"},

		// Case and whitespace insensitivity
		{"  DNDSTATS  ", "6 4d6 k3"},
		{"Wng Dn2 4d6", "4d6 wngdn2"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := Expand(tt.input)
			if !ok {
				t.Fatalf("Expand(%q) not recognized, want %q", tt.input, tt.want)
			}
			if got != tt.want {
				t.Errorf("Expand(%q) got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExpandNoAlias(t *testing.T) {
	inputs := []string{
		"1d20",
		"4d6 k3",
		"hello",
		"ed0",
		"ed51",
		"",
	}

	for _, input := range inputs {
		if got, ok := Expand(input); ok {
			t.Errorf("Expand(%q) got %q, want no expansion", input, got)
		}
	}
}
