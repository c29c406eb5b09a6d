package dice

import (
	"strings"
	"testing"
)

func TestRenderBasic(t *testing.T) {
	// Faces 6, 1, 3, 5 with keep-three.
	results := mustRoll(t, "4d6 k3 ! stats", &fakeRand{values: []int{5, 0, 2, 4}})

	want := "Roll: `[6, 5, 3]` ~~[1]~~ = **14** Reason: `stats`"
	if got := Render(results[0]); got != want {
		t.Errorf("Render() got %q, want %q", got, want)
	}
}

func TestRenderLabelAndArithmetic(t *testing.T) {
	results := mustRoll(t, "(init) 1d20 + 3", &fakeRand{values: []int{14}})

	want := "**init**: Roll: `[15]` = **18**"
	if got := Render(results[0]); got != want {
		t.Errorf("Render() got %q, want %q", got, want)
	}
}

func TestRenderSimpleFlag(t *testing.T) {
	results := mustRoll(t, "s 2d6", &fakeRand{values: []int{2, 3}})

	want := "= **7**"
	if got := Render(results[0]); got != want {
		t.Errorf("Render() got %q, want %q", got, want)
	}
}

func TestRenderNoResultsFlag(t *testing.T) {
	results := mustRoll(t, "nr 2d6", &fakeRand{values: []int{2, 3}})

	want := "Roll: `[4, 3]`"
	if got := Render(results[0]); got != want {
		t.Errorf("Render() got %q, want %q", got, want)
	}
}

func TestRenderGroups(t *testing.T) {
	results := mustRoll(t, "1d20 + 2d4", &fakeRand{values: []int{14, 2, 1}})

	want := "Roll: `[15]` + `[3, 2]` = **20**"
	if got := Render(results[0]); got != want {
		t.Errorf("Render() got %q, want %q", got, want)
	}
}

func TestRenderNestedGroupDropped(t *testing.T) {
	// Base 1d20 rolls 15; the added 4d6 rolls 6, 1, 3, 5 and keeps 3.
	results := mustRoll(t, "1d20 + 4d6 k3", &fakeRand{values: []int{14, 5, 0, 2, 4}})

	want := "Roll: `[15]` + `[6, 5, 3]` ~~[1]~~ = **29**"
	if got := Render(results[0]); got != want {
		t.Errorf("Render() got %q, want %q", got, want)
	}
}

func TestRenderFudge(t *testing.T) {
	results := mustRoll(t, "4d3 fudge", &fakeRand{values: []int{0, 1, 2, 2}})

	got := Render(results[0])
	if !strings.HasPrefix(got, "Roll: `[+, +,  , -]` = **1**") {
		t.Errorf("Render() got %q, want fudge symbol display", got)
	}
	if !strings.Contains(got, "*Note: Fudge dice: 1=(-), 2=( ), 3=(+)*") {
		t.Errorf("Render() got %q, want fudge note", got)
	}
}

func TestRenderWrathGlory(t *testing.T) {
	results := mustRoll(t, "4d6 wng", &fakeRand{values: []int{0, 3, 5, 4}})

	got := Render(results[0])
	if !strings.Contains(got, "Wrath: `1` | TOTAL - Icons: `2` Exalted Icons: `1` (Value:2)") {
		t.Errorf("Render() got %q, want wrath & glory breakdown", got)
	}
	if !strings.Contains(got, "*Note: Wrath die rolled 1 - Complication!*") {
		t.Errorf("Render() got %q, want complication note", got)
	}
}

func TestRenderGodbound(t *testing.T) {
	results := mustRoll(t, "gb 2d8", &fakeRand{values: []int{6, 2}})

	got := Render(results[0])
	if !strings.Contains(got, "= **3** damage") {
		t.Errorf("Render() got %q, want damage value", got)
	}
}

func TestRenderSuccesses(t *testing.T) {
	results := mustRoll(t, "5d10 t8 f1", &fakeRand{values: []int{9, 7, 0, 0, 4}})

	got := Render(results[0])
	if !strings.Contains(got, "= **0** successes (2 failures)") {
		t.Errorf("Render() got %q, want successes with failures", got)
	}
}

func TestRenderBotchesOnly(t *testing.T) {
	results := mustRoll(t, "4d6 b", &fakeRand{values: []int{0, 0, 2, 5}})

	got := Render(results[0])
	if !strings.Contains(got, "= **0** total, **2** botches") {
		t.Errorf("Render() got %q, want botch display", got)
	}
}

func TestRenderAllEmpty(t *testing.T) {
	if got := RenderAll(nil); got != "No dice to roll!" {
		t.Errorf("RenderAll(nil) got %q", got)
	}
}

func TestRenderRollSet(t *testing.T) {
	// Two sets: faces 2+1 and 4+3.
	results := mustRoll(t, "2 2d6 ! damage", &fakeRand{values: []int{1, 0, 3, 2}})

	got := RenderAll(results)
	want := "**Set 1**: Roll: `[2, 1]` = **3**\n" +
		"**Set 2**: Roll: `[4, 3]` = **7**\n" +
		"**Total: 10** Reason: `damage`"
	if got != want {
		t.Errorf("RenderAll() got %q, want %q", got, want)
	}
}

func TestRenderSemicolonSeparated(t *testing.T) {
	results := mustRoll(t, "1d20 ! attack; 1d6", &fakeRand{values: []int{14, 3}})

	got := RenderAll(results)
	want := "Request: `1d20` Roll: `[15]` = **15** Reason: `attack`\n" +
		"Request: `1d6` Roll: `[4]` = **4**"
	if got != want {
		t.Errorf("RenderAll() got %q, want %q", got, want)
	}
}

func TestRenderWithLimitFallback(t *testing.T) {
	results := mustRoll(t, "4d6 k3 ! a very long reason", &fakeRand{values: []int{5, 0, 2, 4}})

	full := RenderAllWithLimit(results, DefaultMessageLimit)
	if !strings.Contains(full, "Roll:") {
		t.Errorf("full output got %q, want dice breakdown", full)
	}

	simplified := RenderAllWithLimit(results, 10)
	if simplified != "= **14**" {
		t.Errorf("simplified output got %q, want %q", simplified, "= **14**")
	}
}

func TestRenderIdempotent(t *testing.T) {
	results := mustRoll(t, "6 4d6 k3", &fakeRand{values: []int{5, 0, 2, 4, 1, 3}})

	first := RenderAll(results)
	second := RenderAll(results)
	if first != second {
		t.Errorf("rendering mutated the results: %q then %q", first, second)
	}
}
