// Package dice implements a textual dice-notation interpreter for
// tabletop RPG rolls.
//
// Input flows through four stages: shorthand aliases are expanded into
// canonical notation, the canonical expression is parsed into one or
// more RollSpec values, each spec is resolved against a random source
// into a RollResult, and results are rendered as display text.
//
// The package performs no I/O and holds no shared mutable state; every
// call owns its intermediate values, so concurrent calls need no
// synchronization beyond supplying independent random sources.
package dice

// Rand is the random source consumed by the resolution engine.
// *math/rand.Rand satisfies it; tests may script die faces.
type Rand interface {
	// Intn returns a non-negative pseudo-random number in [0, n).
	Intn(n int) int
}

// ModKind identifies a modifier variant.
type ModKind int

const (
	ModAdd ModKind = iota
	ModSubtract
	ModMultiply
	ModDivide
	ModExplode
	ModExplodeIndefinite
	ModDrop
	ModKeepHigh
	ModKeepLow
	ModReroll
	ModRerollIndefinite
	ModTarget
	ModFailure
	ModBotch
	ModAddDice
	ModSubtractDice
	ModWrathGlory
	ModFudge
	ModGodbound
	ModHeroSystem
)

// HeroKind selects the Hero System roll interpretation.
type HeroKind int

const (
	HeroNormal HeroKind = iota
	HeroKilling
	HeroToHit
)

// Modifier is one entry in a RollSpec's modifier list. Kind selects
// the variant; the remaining fields are meaningful per Kind:
//
//   - Add/Subtract/Multiply/Divide, Drop, KeepHigh, KeepLow, Reroll,
//     RerollIndefinite, Target, Failure: Value.
//   - Explode/ExplodeIndefinite, Botch: Value when HasValue, otherwise
//     the die maximum (explode) or 1 (botch).
//   - AddDice/SubtractDice: Nested.
//   - WrathGlory: Difficulty when HasDifficulty; UseTotal for
//     soak/damage rolls scored by raw total.
//   - Godbound: StraightDamage bypasses the damage chart.
//   - HeroSystem: Hero.
type Modifier struct {
	Kind           ModKind
	Value          int
	HasValue       bool
	Nested         *RollSpec
	Difficulty     int
	HasDifficulty  bool
	UseTotal       bool
	StraightDamage bool
	Hero           HeroKind
}

// RollSpec is one die-rolling instruction produced by the parser.
// It is immutable once returned.
type RollSpec struct {
	Count     int
	Sides     int
	Modifiers []Modifier

	Comment string
	Label   string

	Private   bool
	Simple    bool
	NoResults bool
	Unsorted  bool

	// OriginalExpression echoes the sub-expression that produced this
	// spec. Set only for semicolon-separated sub-rolls.
	OriginalExpression string
}

// GroupOrigin tags how a dice group joined the roll.
type GroupOrigin string

const (
	GroupBase     GroupOrigin = "base"
	GroupAdd      GroupOrigin = "add"
	GroupSubtract GroupOrigin = "subtract"
)

// DiceGroup records one displayed cluster of dice: the base pool or a
// nested added/subtracted pool.
type DiceGroup struct {
	Rolls   []int
	Dropped []int
	Origin  GroupOrigin
}

// SystemKind identifies which game-system outcome populated a result.
type SystemKind int

const (
	SystemNone SystemKind = iota
	SystemFudge
	SystemGodbound
	SystemWrathGlory
)

// SystemOutcome carries game-system specific result fields. Kind
// selects which fields are meaningful; SystemNone means the result is
// a plain total or generic success count.
type SystemOutcome struct {
	Kind SystemKind

	// SystemFudge
	FudgeSymbols []string

	// SystemGodbound
	GodboundDamage int

	// SystemWrathGlory (standard scoring mode)
	WrathDie     int
	Icons        int
	ExaltedIcons int
}

// RollResult is the full audit trail for one resolved RollSpec.
// It is immutable once returned by the resolution engine.
type RollResult struct {
	// IndividualRolls holds every die value produced before keep/drop
	// filtering, including dice spawned by explosions and values
	// substituted by rerolls.
	IndividualRolls []int
	KeptRolls       []int
	DroppedRolls    []int
	Groups          []DiceGroup

	// Total is the arithmetic result. It is forced to zero whenever a
	// success-counting system is active.
	Total int

	Successes *int
	Failures  *int
	Botches   *int

	Notes []string

	Comment string
	Label   string

	Private   bool
	Simple    bool
	NoResults bool
	Unsorted  bool

	OriginalExpression string

	System SystemOutcome
}

// Value reports the number a caller should treat as the outcome of the
// roll: chart damage for Godbound, the success count when one exists,
// and the numeric total otherwise.
func (r RollResult) Value() int {
	if r.System.Kind == SystemGodbound {
		return r.System.GodboundDamage
	}
	if r.Successes != nil {
		return *r.Successes
	}
	return r.Total
}

// ParseAndRoll is the top-level entry point: it parses input (expanding
// aliases first) and resolves every resulting specification against rng.
func ParseAndRoll(input string, rng Rand) ([]RollResult, error) {
	specs, err := Parse(input)
	if err != nil {
		return nil, err
	}
	return ResolveAll(specs, rng)
}
