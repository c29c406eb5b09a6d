package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultMessageLimit is the rendered-output ceiling used when a caller
// does not supply one. Beyond it RenderAllWithLimit falls back to a
// simplified rendering.
const DefaultMessageLimit = 2000

var commentTailRe = regexp.MustCompile(`\s*!\s*.*$`)

type renderOptions struct {
	suppressComment bool
	forceSimple     bool
}

// Render formats a single result with dice breakdown, value, comment
// and notes.
func Render(result RollResult) string {
	return renderOne(result, renderOptions{})
}

// RenderAll formats a batch of results. Roll sets (every label starts
// with "Set ") get per-line output plus a grand total; semicolon
// multi-rolls echo each request; anything else joins per-line output.
func RenderAll(results []RollResult) string {
	if len(results) == 0 {
		return "No dice to roll!"
	}
	if len(results) == 1 {
		return renderOne(results[0], renderOptions{})
	}

	if isRollSet(results) {
		return renderRollSet(results, results[0].Comment)
	}
	if isSemicolonSeparated(results) {
		lines := make([]string, 0, len(results))
		for _, result := range results {
			if expr := result.OriginalExpression; expr != "" {
				clean := stripCommentFromExpression(expr)
				lines = append(lines, fmt.Sprintf("Request: `%s` %s",
					clean, renderOne(result, renderOptions{})))
			} else {
				lines = append(lines, renderOne(result, renderOptions{}))
			}
		}
		return strings.Join(lines, "\n")
	}

	lines := make([]string, 0, len(results))
	for _, result := range results {
		lines = append(lines, renderOne(result, renderOptions{}))
	}
	return strings.Join(lines, "\n")
}

// RenderAllWithLimit renders the batch, falling back to a simplified
// value-only rendering when the full output exceeds the limit. A
// non-positive limit means DefaultMessageLimit.
func RenderAllWithLimit(results []RollResult, limit int) string {
	if limit <= 0 {
		limit = DefaultMessageLimit
	}

	full := RenderAll(results)
	if len(full) <= limit {
		return full
	}

	if len(results) == 1 {
		return renderOne(results[0], renderOptions{suppressComment: true, forceSimple: true})
	}
	if isRollSet(results) {
		return renderRollSet(results, "Simplified roll due to character limit")
	}

	lines := make([]string, 0, len(results))
	for _, result := range results {
		lines = append(lines, renderOne(result, renderOptions{suppressComment: true, forceSimple: true}))
	}
	return strings.Join(lines, "\n")
}

func isRollSet(results []RollResult) bool {
	if len(results) < 2 {
		return false
	}
	for _, result := range results {
		if !strings.HasPrefix(result.Label, "Set ") {
			return false
		}
	}
	return true
}

func isSemicolonSeparated(results []RollResult) bool {
	for _, result := range results {
		if result.OriginalExpression != "" {
			return true
		}
	}
	return false
}

// renderRollSet prints each set member with its comment suppressed,
// then a grand total with the shared comment shown once.
func renderRollSet(results []RollResult, comment string) string {
	var b strings.Builder
	sum := 0
	for i, result := range results {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(renderOne(result, renderOptions{suppressComment: true}))
		sum += result.Value()
	}
	fmt.Fprintf(&b, "\n**Total: %d**", sum)
	if comment != "" {
		fmt.Fprintf(&b, " Reason: `%s`", comment)
	}
	return b.String()
}

func renderOne(result RollResult, opts renderOptions) string {
	showDice := true
	showResult := true
	switch {
	case result.NoResults:
		showResult = false
	case result.Simple || opts.forceSimple:
		showDice = false
	}

	var b strings.Builder

	if result.Label != "" {
		fmt.Fprintf(&b, "**%s**: ", result.Label)
	}

	display := ""
	if showDice {
		display = diceDisplay(result)
		if display != "" {
			b.WriteString("Roll: ")
			b.WriteString(display)
		}
	}

	if showResult {
		value := resultValue(result)
		if showDice && display != "" {
			fmt.Fprintf(&b, " = %s", value)
		} else {
			fmt.Fprintf(&b, "= %s", value)
		}
	}

	if !opts.suppressComment && result.Comment != "" {
		fmt.Fprintf(&b, " Reason: `%s`", result.Comment)
	}
	for _, note := range result.Notes {
		fmt.Fprintf(&b, "\n*Note: %s*", note)
	}
	return b.String()
}

// diceDisplay shows the kept dice: Fudge faces for Fudge rolls,
// otherwise every dice group joined by its origin operator, each with
// its own struck-through dropped dice.
func diceDisplay(result RollResult) string {
	if result.System.Kind == SystemFudge {
		return "`[" + strings.Join(result.System.FudgeSymbols, ", ") + "]`"
	}

	if len(result.Groups) > 0 {
		var b strings.Builder
		for i, group := range result.Groups {
			if i > 0 {
				switch group.Origin {
				case GroupAdd:
					b.WriteString(" + ")
				case GroupSubtract:
					b.WriteString(" - ")
				default:
					b.WriteByte(' ')
				}
			}
			b.WriteString("`[" + joinInts(group.Rolls) + "]`")
			if len(group.Dropped) > 0 {
				b.WriteString(" ~~[" + joinInts(group.Dropped) + "]~~")
			}
		}
		return b.String()
	}

	if len(result.KeptRolls) > 0 {
		return "`[" + joinInts(result.KeptRolls) + "]`"
	}
	return ""
}

// resultValue prints the outcome: a Wrath & Glory breakdown, chart
// damage, a success count, or the plain total.
func resultValue(result RollResult) string {
	if result.System.Kind == SystemWrathGlory {
		return fmt.Sprintf(
			"Wrath: `%d` | TOTAL - Icons: `%d` Exalted Icons: `%d` (Value:%d)",
			result.System.WrathDie, result.System.Icons,
			result.System.ExaltedIcons, result.System.ExaltedIcons*2)
	}

	if result.System.Kind == SystemGodbound {
		return fmt.Sprintf("**%d** damage", result.System.GodboundDamage)
	}

	if result.Successes != nil {
		var b strings.Builder
		fmt.Fprintf(&b, "**%d** successes", *result.Successes)
		if result.Failures != nil && *result.Failures > 0 {
			fmt.Fprintf(&b, " (%d failures)", *result.Failures)
		}
		if result.Botches != nil && *result.Botches > 0 {
			fmt.Fprintf(&b, " (%d botches)", *result.Botches)
		}
		return b.String()
	}

	if result.Botches != nil {
		return fmt.Sprintf("**%d** total, **%d** botches", result.Total, *result.Botches)
	}

	return fmt.Sprintf("**%d**", result.Total)
}

func stripCommentFromExpression(expr string) string {
	return strings.TrimSpace(commentTailRe.ReplaceAllString(expr, ""))
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
