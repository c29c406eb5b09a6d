package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Alias rules rewrite game-system shorthand into canonical notation.
// The tables below are immutable process-wide data; parameterized rules
// run before the static lookup, and rule order matters only where
// patterns overlap.

var (
	gbDiceRe   = regexp.MustCompile(`^(gbs?)\s+(\d+)d(\d+)(?:\s*([+-]\s*\d+))?$`)
	gbSimpleRe = regexp.MustCompile(`^(gbs?)(?:\s*([+-]\s*\d+))?$`)
	wngRe      = regexp.MustCompile(`^wng(?:\s+dn(\d+))?\s+(\d+)d(\d+)(?:\s*!\s*(\w+))?$`)
	codRe      = regexp.MustCompile(`^(\d+)cod([89r]?)(?:\s*([+-]\s*\d+))?$`)
	wodRe      = regexp.MustCompile(`^(\d+)wod(\d+)(?:\s*([+-]\s*\d+))?$`)
	dhRe       = regexp.MustCompile(`^dh\s+(\d+)d(\d+)$`)
	dfRe       = regexp.MustCompile(`^(\d+)df$`)
	whRe       = regexp.MustCompile(`^(\d+)wh(\d+)\+$`)
	ddRe       = regexp.MustCompile(`^dd(\d)(\d)$`)
	advRe      = regexp.MustCompile(`^([+-])d(\d+)$`)
	percRe     = regexp.MustCompile(`^(\d+)d%$`)
	srRe       = regexp.MustCompile(`^sr(\d+)$`)
	spRe       = regexp.MustCompile(`^sp(\d+)$`)
	yzRe       = regexp.MustCompile(`^(\d+)yz$`)
	snmRe      = regexp.MustCompile(`^snm(\d+)$`)
	d6sRe      = regexp.MustCompile(`^d6s(\d+)(\s*\+\s*\d+)?$`)
	hsRe       = regexp.MustCompile(`^(\d+(?:\.\d+)?)hs([nkh])$`)
	hsFracRe   = regexp.MustCompile(`^(\d+)hs([nkh])(\d+)$`)
	exRe       = regexp.MustCompile(`^ex(\d+)(?:t(\d+))?$`)
	edRe       = regexp.MustCompile(`^ed(\d+)$`)
	ed4eRe     = regexp.MustCompile(`^ed4e(\d+)$`)
	dndRe      = regexp.MustCompile(`^(attack|skill|save)(\s*[+-]\s*\d+)?$`)
)

var staticAliases = map[string]string{
	"age":      "2d6 + 1d6",
	"dndstats": "6 4d6 k3",
	"attack":   "1d20",
	"skill":    "1d20",
	"save":     "1d20",
	"gb":       "1d20 gb",
	"gbs":      "1d20 gbs",
	"hsn":      "1d6 hsn",
	"hsk":      "1d6 hsk",
	"hsh":      "3d6 hsh",
	"3df":      "3d3 fudge",
	"4df":      "4d3 fudge",
	"dh":       "1d10 ie10",
	"wng":      "1d6 wng",
}

// Earthdawn step table: each step maps to a fixed combination of
// additive indefinitely-exploding dice. Fourth edition uses the same
// progression.
var earthdawnSteps = map[int]string{
	1:  "1d4 ie - 2",
	2:  "1d4 ie - 1",
	3:  "1d4 ie",
	4:  "1d6 ie",
	5:  "1d8 ie",
	6:  "1d10 ie",
	7:  "1d12 ie",
	8:  "2d6 ie",
	9:  "1d8 ie + 1d6 ie",
	10: "2d8 ie",
	11: "1d10 ie + 1d8 ie",
	12: "2d10 ie",
	13: "1d12 ie + 1d10 ie",
	14: "2d12 ie",
	15: "1d12 ie + 2d6 ie",
	16: "1d12 ie + 1d8 ie + 1d6 ie",
	17: "1d12 ie + 2d8 ie",
	18: "1d12 ie + 1d10 ie + 1d8 ie",
	19: "1d20 ie + 2d6 ie",
	20: "1d20 ie + 1d8 ie + 1d6 ie",
	21: "1d20 ie + 1d10 ie + 1d6 ie",
	22: "1d20 ie + 1d10 ie + 1d8 ie",
	23: "1d20 ie + 2d10 ie",
	24: "1d20 ie + 1d12 ie + 1d10 ie",
	25: "1d20 ie + 1d12 ie + 1d8 ie + 1d4 ie",
	26: "1d20 ie + 1d12 ie + 1d8 ie + 1d6 ie",
	27: "1d20 ie + 1d12 ie + 2d8 ie",
	28: "1d20 ie + 2d10 ie + 1d8 ie",
	29: "1d20 ie + 1d12 ie + 1d10 ie + 1d8 ie",
	30: "1d20 ie + 1d12 ie + 1d10 ie + 1d8 ie",
	31: "1d20 ie + 1d10 ie + 2d8 ie + 1d6 ie",
	32: "1d20 ie + 2d10 ie + 1d8 ie + 1d6 ie",
	33: "1d20 ie + 2d10 ie + 2d8 ie",
	34: "1d20 ie + 3d10 ie + 1d8 ie",
	35: "1d20 ie + 1d12 ie + 2d10 ie + 1d8 ie",
	36: "2d20 ie + 1d10 ie + 1d8 ie + 1d4 ie",
	37: "2d20 ie + 1d10 ie + 1d8 ie + 1d6 ie",
	38: "2d20 ie + 1d10 ie + 2d8 ie",
	39: "2d20 ie + 2d10 ie + 1d8 ie",
	40: "2d20 ie + 1d12 ie + 1d10 ie + 1d8 ie",
	41: "2d20 ie + 1d10 ie + 1d8 ie + 2d6 ie",
	42: "2d20 ie + 1d10 ie + 2d8 ie + 1d6 ie",
	43: "2d20 ie + 2d10 ie + 1d8 ie + 1d6 ie",
	44: "2d20 ie + 3d10 ie + 1d8 ie",
	45: "2d20 ie + 3d10 ie + 1d8 ie",
	46: "2d20 ie + 1d12 ie + 2d10 ie + 1d8 ie",
	47: "2d20 ie + 2d10 ie + 2d8 ie + 1d4 ie",
	48: "2d20 ie + 2d10 ie + 2d8 ie + 1d6 ie",
	49: "2d20 ie + 2d10 ie + 3d8 ie",
	50: "2d20 ie + 3d10 ie + 2d8 ie",
}

// Expand rewrites a shorthand alias into canonical notation. It reports
// false when no alias applies; callers then treat the input as already
// canonical. Matching is case-insensitive on trimmed input.
func Expand(input string) (string, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(input))

	if out, ok := expandParameterized(trimmed); ok {
		return out, true
	}
	if out, ok := staticAliases[trimmed]; ok {
		return out, true
	}
	return "", false
}

func expandParameterized(input string) (string, bool) {
	// Percentile advantage/disadvantage use a fixed tens/ones
	// decomposition; they must match before the general ±dN rule.
	if input == "+d%" {
		return "2d10 kl1 * 10 + 1d10 - 10", true
	}
	if input == "-d%" {
		return "2d10 k1 * 10 + 1d10 - 10", true
	}

	if m := hsRe.FindStringSubmatch(input); m != nil {
		switch m[2] {
		case "n":
			return heroSystemDice(m[1], "hsn")
		case "k":
			return heroSystemDice(m[1], "hsk")
		case "h":
			// To-hit is always 3d6 regardless of the dice count.
			return "3d6 hsh", true
		}
		return "", false
	}

	if m := gbDiceRe.FindStringSubmatch(input); m != nil {
		return fmt.Sprintf("%sd%s %s%s", m[2], m[3], m[1], strings.TrimSpace(m[4])), true
	}
	if m := gbSimpleRe.FindStringSubmatch(input); m != nil {
		return fmt.Sprintf("1d20 %s%s", m[1], strings.TrimSpace(m[2])), true
	}

	if m := wngRe.FindStringSubmatch(input); m != nil {
		dn, count, sides, special := m[1], m[2], m[3], m[4]
		useTotal := special == "soak" || special == "exempt" || special == "dmg"
		switch {
		case dn != "" && useTotal:
			return fmt.Sprintf("%sd%s wngdn%st", count, sides, dn), true
		case dn != "":
			return fmt.Sprintf("%sd%s wngdn%s", count, sides, dn), true
		case useTotal:
			return fmt.Sprintf("%sd%s wngt", count, sides), true
		default:
			return fmt.Sprintf("%sd%s wng", count, sides), true
		}
	}

	if m := codRe.FindStringSubmatch(input); m != nil {
		count, variant := m[1], m[2]
		suffix := ""
		if trimmedMod := strings.TrimSpace(m[3]); trimmedMod != "" {
			suffix = " " + trimmedMod
		}
		switch variant {
		case "8": // 8-again
			return fmt.Sprintf("%sd10 t7 ie10%s", count, suffix), true
		case "9": // 9-again
			return fmt.Sprintf("%sd10 t6 ie10%s", count, suffix), true
		case "r": // rote quality
			return fmt.Sprintf("%sd10 t8 ie10 r1%s", count, suffix), true
		default:
			return fmt.Sprintf("%sd10 t8 ie10%s", count, suffix), true
		}
	}

	if m := wodRe.FindStringSubmatch(input); m != nil {
		out := fmt.Sprintf("%sd10 f1 ie10 t%s", m[1], m[2])
		if trimmedMod := strings.TrimSpace(m[3]); trimmedMod != "" {
			out += " " + trimmedMod
		}
		return out, true
	}

	if m := dhRe.FindStringSubmatch(input); m != nil {
		return fmt.Sprintf("%sd%s ie%s", m[1], m[2], m[2]), true
	}

	if m := dfRe.FindStringSubmatch(input); m != nil {
		return m[1] + "d3 fudge", true
	}

	if m := whRe.FindStringSubmatch(input); m != nil {
		return fmt.Sprintf("%sd6 t%s", m[1], m[2]), true
	}

	if m := ddRe.FindStringSubmatch(input); m != nil {
		return fmt.Sprintf("1d%s * 10 + 1d%s", m[1], m[2]), true
	}

	if m := advRe.FindStringSubmatch(input); m != nil {
		if m[1] == "+" {
			return fmt.Sprintf("2d%s k1", m[2]), true
		}
		return fmt.Sprintf("2d%s kl1", m[2]), true
	}

	if m := percRe.FindStringSubmatch(input); m != nil {
		return m[1] + "d100", true
	}

	if m := srRe.FindStringSubmatch(input); m != nil {
		return m[1] + "d6 t5", true
	}

	if m := spRe.FindStringSubmatch(input); m != nil {
		return m[1] + "d10 t8 ie10", true
	}

	if m := yzRe.FindStringSubmatch(input); m != nil {
		return m[1] + "d6 t6", true
	}

	if m := snmRe.FindStringSubmatch(input); m != nil {
		return m[1] + "d6 ie6 t4", true
	}

	if m := d6sRe.FindStringSubmatch(input); m != nil {
		pips := strings.ReplaceAll(m[2], " ", "")
		return fmt.Sprintf("%sd6 + 1d6 ie%s", m[1], pips), true
	}

	if m := hsFracRe.FindStringSubmatch(input); m != nil {
		count, kind, fraction := m[1], m[2], m[3]
		switch {
		case kind == "k" && fraction == "1":
			// Killing damage with a half die: 2hsk1 = 2d6 + 1d3.
			return fmt.Sprintf("%sd6 + 1d3 hsk", count), true
		case kind == "n":
			return fmt.Sprintf("%sd6 hsn", count), true
		case kind == "h":
			return fmt.Sprintf("%sd6 + %s", count, count), true
		}
		return "", false
	}

	if m := exRe.FindStringSubmatch(input); m != nil {
		target := m[2]
		if target == "" {
			target = "7"
		}
		return fmt.Sprintf("%sd10 t%s t10", m[1], target), true
	}

	if m := edRe.FindStringSubmatch(input); m != nil {
		if step, err := strconv.Atoi(m[1]); err == nil {
			if expansion, ok := earthdawnSteps[step]; ok {
				return expansion, true
			}
		}
	}
	if m := ed4eRe.FindStringSubmatch(input); m != nil {
		if step, err := strconv.Atoi(m[1]); err == nil {
			if expansion, ok := earthdawnSteps[step]; ok {
				return expansion, true
			}
		}
	}

	if m := dndRe.FindStringSubmatch(input); m != nil {
		return "1d20" + strings.TrimSpace(m[2]), true
	}

	return "", false
}

// heroSystemDice maps a possibly fractional Hero System dice count to
// canonical d6 notation, with the half die rendered as 1d3.
func heroSystemDice(countStr, marker string) (string, bool) {
	count, err := strconv.ParseFloat(countStr, 64)
	if err != nil {
		return "", false
	}
	whole := int(count)
	fractional := count != float64(whole)

	if whole == 0 && fractional {
		return fmt.Sprintf("1d3 %s", marker), true
	}
	if fractional {
		return fmt.Sprintf("%dd6 + 1d3 %s", whole, marker), true
	}
	return fmt.Sprintf("%dd6 %s", whole, marker), true
}
