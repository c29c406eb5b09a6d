package dice

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/dicelang/internal/errors"
)

// Runaway-roll ceilings shared by explosions and rerolls.
const (
	maxExplosions     = 100
	maxRerolls        = 100
	maxRerollsPerDie  = 100
	singleRerollLimit = 1
)

// ResolveAll resolves every spec in order against the same random
// source. Resolution stops at the first error.
func ResolveAll(specs []RollSpec, rng Rand) ([]RollResult, error) {
	results := make([]RollResult, 0, len(specs))
	for _, spec := range specs {
		result, err := Resolve(spec, rng)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// Resolve rolls one specification. Phases run in a fixed order: initial
// rolls, explosions and rerolls (in modifier order), keep/drop
// selection, then arithmetic and game-system modifiers left to right
// with no precedence. Once a success-counting modifier has run,
// arithmetic applies to the success count instead of the total.
func Resolve(spec RollSpec, rng Rand) (RollResult, error) {
	if rng == nil {
		return RollResult{}, apperrors.New(apperrors.CodeMissingRand,
			"resolution requires a random source")
	}
	if spec.Count < 1 || spec.Count > maxDiceCount {
		return RollResult{}, apperrors.WithMetadata(apperrors.CodeCountRange,
			"dice count out of range",
			map[string]string{
				"Count": strconv.Itoa(spec.Count),
				"Max":   strconv.Itoa(maxDiceCount),
			})
	}
	if spec.Sides < 1 || spec.Sides > maxDiceSides {
		return RollResult{}, apperrors.WithMetadata(apperrors.CodeSidesRange,
			"dice sides out of range",
			map[string]string{
				"Sides": strconv.Itoa(spec.Sides),
				"Max":   strconv.Itoa(maxDiceSides),
			})
	}

	result := RollResult{
		Comment:            spec.Comment,
		Label:              spec.Label,
		Private:            spec.Private,
		Simple:             spec.Simple,
		NoResults:          spec.NoResults,
		Unsorted:           spec.Unsorted,
		OriginalExpression: spec.OriginalExpression,
	}

	pool := make([]int, spec.Count)
	for i := range pool {
		pool[i] = rollDie(rng, spec.Sides)
	}

	for _, mod := range spec.Modifiers {
		switch mod.Kind {
		case ModExplode, ModExplodeIndefinite:
			threshold := spec.Sides
			if mod.HasValue {
				threshold = mod.Value
			}
			pool = explodePool(pool, spec.Sides, threshold,
				mod.Kind == ModExplodeIndefinite, rng, &result.Notes)
		case ModReroll, ModRerollIndefinite:
			rerollPool(pool, spec.Sides, mod.Value,
				mod.Kind == ModRerollIndefinite, rng, &result.Notes)
		}
	}

	// Audit snapshot: every die that existed after explosions and
	// rerolls, in roll order. Targeting modifiers count over this pool
	// so keep/drop never hides a success or botch.
	result.IndividualRolls = append([]int(nil), pool...)

	kept := append([]int(nil), pool...)
	for _, mod := range spec.Modifiers {
		switch mod.Kind {
		case ModDrop:
			var dropped []int
			kept, dropped = dropLowest(kept, mod.Value)
			result.DroppedRolls = append(result.DroppedRolls, dropped...)
			if len(kept) == 0 && len(dropped) > 0 {
				result.Notes = append(result.Notes,
					fmt.Sprintf("All %d dice dropped", len(dropped)))
			}
		case ModKeepHigh:
			var dropped []int
			kept, dropped = keepExtreme(kept, mod.Value, true)
			result.DroppedRolls = append(result.DroppedRolls, dropped...)
		case ModKeepLow:
			var dropped []int
			kept, dropped = keepExtreme(kept, mod.Value, false)
			result.DroppedRolls = append(result.DroppedRolls, dropped...)
		}
	}
	result.KeptRolls = kept
	result.Total = sumInts(kept)

	result.Groups = append(result.Groups, DiceGroup{
		Rolls:   result.KeptRolls,
		Dropped: result.DroppedRolls,
		Origin:  GroupBase,
	})

	// Deferred game systems convert the final total, so they run after
	// the arithmetic pass below.
	var (
		godbound *Modifier
		fudge    bool
		hero     *Modifier
		hasMath  bool
	)
	for i := range spec.Modifiers {
		switch spec.Modifiers[i].Kind {
		case ModAdd, ModSubtract, ModMultiply, ModDivide:
			hasMath = true
		case ModGodbound:
			godbound = &spec.Modifiers[i]
		case ModFudge:
			fudge = true
		case ModHeroSystem:
			hero = &spec.Modifiers[i]
		}
	}

	for _, mod := range spec.Modifiers {
		switch mod.Kind {
		case ModAdd, ModSubtract, ModMultiply, ModDivide:
			if err := applyArithmetic(&result, mod); err != nil {
				return RollResult{}, err
			}

		case ModTarget:
			count := countMatching(result.IndividualRolls, func(v int) bool { return v >= mod.Value })
			if result.Successes == nil {
				result.Successes = new(int)
			}
			*result.Successes += count

		case ModFailure:
			count := countMatching(result.IndividualRolls, func(v int) bool { return v <= mod.Value })
			result.Failures = &count
			if result.Successes != nil {
				*result.Successes -= count
				if *result.Successes < 0 {
					*result.Successes = 0
				}
			}

		case ModBotch:
			threshold := 1
			if mod.HasValue {
				threshold = mod.Value
			}
			count := countMatching(result.IndividualRolls, func(v int) bool { return v <= threshold })
			result.Botches = &count
			if count > 0 {
				result.Notes = append(result.Notes,
					fmt.Sprintf("%s botched (≤%d)", diceNoun(count), threshold))
			}

		case ModWrathGlory:
			applyWrathGlory(&result, mod)

		case ModAddDice, ModSubtractDice:
			nested := *mod.Nested
			nested.Unsorted = spec.Unsorted
			nestedResult, err := Resolve(nested, rng)
			if err != nil {
				return RollResult{}, err
			}
			result.IndividualRolls = append(result.IndividualRolls, nestedResult.IndividualRolls...)
			result.DroppedRolls = append(result.DroppedRolls, nestedResult.DroppedRolls...)
			origin := GroupAdd
			if mod.Kind == ModSubtractDice {
				origin = GroupSubtract
				result.Total -= nestedResult.Total
			} else {
				result.Total += nestedResult.Total
			}
			result.Groups = append(result.Groups, DiceGroup{
				Rolls:   nestedResult.KeptRolls,
				Dropped: nestedResult.DroppedRolls,
				Origin:  origin,
			})
			result.Notes = append(result.Notes, nestedResult.Notes...)
		}
	}

	if !spec.Unsorted {
		sort.Sort(sort.Reverse(sort.IntSlice(result.KeptRolls)))
		for i := range result.Groups {
			sort.Sort(sort.Reverse(sort.IntSlice(result.Groups[i].Rolls)))
		}
	}

	if godbound != nil {
		applyGodbound(&result, *godbound, hasMath)
	}
	if fudge {
		applyFudge(&result)
	}
	if hero != nil {
		if err := applyHeroSystem(&result, *hero, rng); err != nil {
			return RollResult{}, err
		}
	}

	// Success-counting rolls report successes, not a total.
	if result.Successes != nil || result.Failures != nil || result.Botches != nil {
		result.Total = 0
	}

	return result, nil
}

func rollDie(rng Rand, sides int) int {
	return rng.Intn(sides) + 1
}

// explodePool appends a new die for each die at or above the threshold.
// Indefinite explosion feeds new dice back through the check; either
// way a hard ceiling stops runaway chains.
func explodePool(pool []int, sides, threshold int, indefinite bool, rng Rand, notes *[]string) []int {
	exploded := 0
	capped := false
	limit := len(pool)
	for i := 0; i < limit; i++ {
		if pool[i] < threshold {
			continue
		}
		if exploded >= maxExplosions {
			capped = true
			break
		}
		pool = append(pool, rollDie(rng, sides))
		exploded++
		if indefinite {
			limit = len(pool)
		}
	}

	if exploded > 0 {
		*notes = append(*notes, fmt.Sprintf("%s exploded", diceNoun(exploded)))
	}
	if capped {
		*notes = append(*notes, fmt.Sprintf("Maximum explosions reached (%d)", maxExplosions))
	}
	return pool
}

// rerollPool replaces dice at or below the threshold in place. The
// first replacement for each die is noted so the audit trail shows
// what changed.
func rerollPool(pool []int, sides, threshold int, indefinite bool, rng Rand, notes *[]string) {
	perDieLimit := singleRerollLimit
	if indefinite {
		perDieLimit = maxRerollsPerDie
	}

	total := 0
	diceRerolled := 0
	capped := false
	for i := range pool {
		perDie := 0
		for pool[i] <= threshold && perDie < perDieLimit {
			if total >= maxRerolls {
				capped = true
				break
			}
			old := pool[i]
			pool[i] = rollDie(rng, sides)
			if perDie == 0 {
				*notes = append(*notes, fmt.Sprintf("%d → %d", old, pool[i]))
			}
			perDie++
			total++
		}
		if perDie > 0 {
			diceRerolled++
		}
		if capped {
			break
		}
	}

	if diceRerolled > 0 {
		*notes = append(*notes, fmt.Sprintf("%s rerolled", diceNoun(diceRerolled)))
	}
	if capped {
		*notes = append(*notes, fmt.Sprintf("Maximum rerolls reached (%d)", maxRerolls))
	}
}

// dropLowest removes the n lowest dice, preferring earlier dice on
// ties. Dropping at least the whole pool drops everything.
func dropLowest(pool []int, n int) (kept, dropped []int) {
	if n >= len(pool) {
		return nil, pool
	}
	return partitionByRank(pool, len(pool)-n, true)
}

// keepExtreme keeps the n highest (or lowest) dice. Keeping at least
// the whole pool keeps everything.
func keepExtreme(pool []int, n int, highest bool) (kept, dropped []int) {
	if n >= len(pool) {
		return pool, nil
	}
	return partitionByRank(pool, n, highest)
}

// partitionByRank splits pool into the keep highest (or lowest) dice
// and the remainder, both in original roll order.
func partitionByRank(pool []int, keep int, highest bool) (kept, dropped []int) {
	indices := make([]int, len(pool))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		if highest {
			return pool[indices[a]] > pool[indices[b]]
		}
		return pool[indices[a]] < pool[indices[b]]
	})

	keepSet := make(map[int]bool, keep)
	for _, idx := range indices[:keep] {
		keepSet[idx] = true
	}

	for i, v := range pool {
		if keepSet[i] {
			kept = append(kept, v)
		} else {
			dropped = append(dropped, v)
		}
	}
	return kept, dropped
}

// applyArithmetic applies one math modifier. Once a success system is
// active, math adjusts the success count instead of the total.
func applyArithmetic(result *RollResult, mod Modifier) error {
	target := &result.Total
	if result.Successes != nil {
		target = result.Successes
	}

	switch mod.Kind {
	case ModAdd:
		*target += mod.Value
	case ModSubtract:
		*target -= mod.Value
	case ModMultiply:
		*target *= mod.Value
	case ModDivide:
		if mod.Value == 0 {
			return apperrors.New(apperrors.CodeDivideByZero, "division by zero")
		}
		*target /= mod.Value
	}
	return nil
}

// applyWrathGlory scores a Wrath & Glory pool. The first rolled die is
// the wrath die. Standard scoring converts each kept die to icons;
// damage and soak rolls (UseTotal) keep the raw total instead.
func applyWrathGlory(result *RollResult, mod Modifier) {
	wrathDie := 0
	if len(result.IndividualRolls) > 0 {
		wrathDie = result.IndividualRolls[0]
	}

	if mod.UseTotal {
		if wrathDie == 1 {
			result.Notes = append(result.Notes, "Wrath die rolled 1 - Complication!")
		}
		if mod.HasDifficulty {
			status := "FAIL"
			if result.Total >= mod.Difficulty {
				status = "PASS"
			}
			result.Notes = append(result.Notes,
				fmt.Sprintf("Difficulty %d: %s (needed %d, rolled %d)",
					mod.Difficulty, status, mod.Difficulty, result.Total))
		}
		return
	}

	icons := 0
	exalted := 0
	for _, v := range result.KeptRolls {
		switch {
		case v == 6:
			exalted++
		case v >= 4:
			icons++
		}
	}

	successes := icons + 2*exalted
	result.Successes = &successes
	result.System = SystemOutcome{
		Kind:         SystemWrathGlory,
		WrathDie:     wrathDie,
		Icons:        icons,
		ExaltedIcons: exalted,
	}

	switch wrathDie {
	case 1:
		result.Notes = append(result.Notes, "Wrath die rolled 1 - Complication!")
	case 6:
		result.Notes = append(result.Notes, "Wrath die rolled 6 - Critical/Glory!")
	}

	if mod.HasDifficulty {
		status := "FAIL"
		if successes >= mod.Difficulty {
			status = "PASS"
		}
		result.Notes = append(result.Notes,
			fmt.Sprintf("Difficulty %d: %s (needed %d)", mod.Difficulty, status, mod.Difficulty))
	}
}

// applyGodbound converts the roll through the Godbound damage chart.
// Rolls with math modifiers convert the adjusted total; plain rolls
// convert each kept die and sum the results. Straight damage bypasses
// the chart entirely.
func applyGodbound(result *RollResult, mod Modifier, hasMath bool) {
	result.System.Kind = SystemGodbound

	switch {
	case mod.StraightDamage:
		result.System.GodboundDamage = result.Total
		result.Notes = append(result.Notes, "Straight damage (bypasses chart)")

	case hasMath:
		damage := godboundChart(result.Total)
		result.System.GodboundDamage = damage
		result.Notes = append(result.Notes,
			fmt.Sprintf("Damage chart: %d → %d", result.Total, damage))

	default:
		damage := 0
		conversions := make([]string, 0, len(result.KeptRolls))
		for _, v := range result.KeptRolls {
			d := godboundChart(v)
			damage += d
			conversions = append(conversions, fmt.Sprintf("%d → %d", v, d))
		}
		result.System.GodboundDamage = damage
		if len(conversions) == 1 {
			result.Notes = append(result.Notes, "Damage chart: "+conversions[0])
		} else if len(conversions) > 1 {
			result.Notes = append(result.Notes,
				"Damage chart conversions: ["+strings.Join(conversions, ", ")+"]")
		}
	}

	result.Notes = append(result.Notes,
		"Using Godbound damage chart (1-=0, 2-5=1, 6-9=2, 10+=4)")
}

func godboundChart(value int) int {
	switch {
	case value <= 1:
		return 0
	case value <= 5:
		return 1
	case value <= 9:
		return 2
	default:
		return 4
	}
}

// applyFudge converts kept dice to Fudge faces: 1 is minus, 2 is
// blank, 3 is plus. The converted values replace the kept dice in the
// total so arithmetic modifiers still apply.
func applyFudge(result *RollResult) {
	symbols := make([]string, 0, len(result.KeptRolls))
	converted := 0
	for _, v := range result.KeptRolls {
		switch v {
		case 1:
			symbols = append(symbols, "-")
			converted--
		case 2:
			symbols = append(symbols, " ")
		default:
			symbols = append(symbols, "+")
			converted++
		}
	}

	result.Total += converted - sumInts(result.KeptRolls)
	result.System.Kind = SystemFudge
	result.System.FudgeSymbols = symbols
	result.Notes = append(result.Notes, "Fudge dice: 1=(-), 2=( ), 3=(+)")
}

// applyHeroSystem interprets the roll for Hero System damage or
// to-hit. Killing attacks roll a 1d3 STUN multiplier.
func applyHeroSystem(result *RollResult, mod Modifier, rng Rand) error {
	switch mod.Hero {
	case HeroNormal:
		result.Notes = append(result.Notes, "Normal damage")
	case HeroKilling:
		body := result.Total
		multiplier := rollDie(rng, 3)
		stun := body * multiplier
		result.Total = stun
		result.Notes = append(result.Notes,
			fmt.Sprintf("Killing damage: %d BODY, %d STUN (×%d)", body, stun, multiplier))
	case HeroToHit:
		result.Notes = append(result.Notes,
			"Hero System to-hit roll (3d6 roll-under)",
			"Target: 11 + OCV - DCV or less")
	}
	return nil
}

func countMatching(values []int, match func(int) bool) int {
	count := 0
	for _, v := range values {
		if match(v) {
			count++
		}
	}
	return count
}

func sumInts(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

func diceNoun(count int) string {
	if count == 1 {
		return "1 die"
	}
	return fmt.Sprintf("%d dice", count)
}
