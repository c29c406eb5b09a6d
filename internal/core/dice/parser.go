package dice

import (
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/dicelang/internal/errors"
)

// Parser ceilings. Violating a bound is a parse error, never a clamp.
const (
	maxInputLength = 1000
	maxDiceCount   = 500
	maxDiceSides   = 1000
	maxExpressions = 4
	minSetCount    = 2
	maxSetCount    = 20

	// maxExpansionDepth bounds recursive alias expansion.
	maxExpansionDepth = 8
)

var (
	diceTokenRe = regexp.MustCompile(`^(\d*)d(\d+|%)$`)
	diceHeadRe  = regexp.MustCompile(`^(\d*)d(\d+|%)`)
	setHeadRe   = regexp.MustCompile(`^(\d+)\s+(.+)$`)
	wngModRe    = regexp.MustCompile(`^wng(?:dn(\d+))?(t)?`)
)

// Parse turns one request into one or more RollSpec values. Dispatch
// order: alias expansion, semicolon multi-roll split, roll-set
// detection, single-expression parsing.
func Parse(input string) ([]RollSpec, error) {
	trimmed := strings.TrimSpace(input)
	if len(trimmed) > maxInputLength {
		return nil, apperrors.WithMetadata(apperrors.CodeInputTooLong,
			"input exceeds maximum length",
			map[string]string{"Max": strconv.Itoa(maxInputLength)})
	}
	if trimmed == "" {
		return nil, apperrors.WithMetadata(apperrors.CodeMalformed,
			"empty roll expression",
			map[string]string{"Expression": input})
	}

	segments := strings.Split(trimmed, ";")
	if len(segments) > maxExpressions {
		return nil, apperrors.New(apperrors.CodeTooManyExpressions,
			"too many semicolon-separated expressions")
	}

	if len(segments) == 1 {
		return parseSegment(trimmed)
	}

	var specs []RollSpec
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		parsed, err := parseSegment(segment)
		if err != nil {
			return nil, err
		}
		for i := range parsed {
			parsed[i].OriginalExpression = segment
		}
		specs = append(specs, parsed...)
	}
	return specs, nil
}

// parseSegment parses one semicolon-free request: flags, optional roll
// set, then a single expression.
func parseSegment(text string) ([]RollSpec, error) {
	text = strings.TrimSpace(text)

	var flags rollFlags
	text = flags.consume(text)

	// Whole-segment aliases run before anything else: some rules
	// consume what would otherwise read as a comment ("wng 4d6 ! soak").
	text = expandRecursive(text)

	return parseExpression(text, flags, true)
}

// parseExpression parses one expression with its decorations. Aliases
// expand again after the label and comment come off, so decorated
// shorthand ("(attack) 4cod", "4cod ! vampire") still resolves; an
// expansion that yields a roll set re-enters set handling.
func parseExpression(text string, flags rollFlags, allowSet bool) ([]RollSpec, error) {
	label, comment, body, err := splitDecorations(text)
	if err != nil {
		return nil, err
	}
	body = expandRecursive(strings.ToLower(body))

	if allowSet {
		if m := setHeadRe.FindStringSubmatch(body); m != nil {
			if specs, handled, err := parseRollSet(m[1], m[2], comment, flags); handled {
				return specs, err
			}
		}
	}

	spec, err := parseBody(body)
	if err != nil {
		return nil, err
	}
	spec.Label = label
	spec.Comment = comment
	flags.apply(&spec)
	return []RollSpec{spec}, nil
}

// parseRollSet handles a leading bare integer followed by a roll
// expression. A remainder that fails to parse under a plausible set
// count surfaces its own error ("6 4d6 k0"); under an implausible head
// the caller falls through to single-expression parsing instead.
func parseRollSet(countStr, rest, comment string, flags rollFlags) ([]RollSpec, bool, error) {
	inner, err := parseExpression(rest, flags, false)
	if err != nil {
		if count, convErr := strconv.Atoi(countStr); convErr == nil &&
			count >= minSetCount && count <= maxSetCount {
			return nil, true, err
		}
		return nil, false, nil
	}

	count, err := strconv.Atoi(countStr)
	if err != nil || count < minSetCount || count > maxSetCount {
		return nil, true, apperrors.New(apperrors.CodeSetRange,
			"set count out of range")
	}

	spec := inner[0]
	if spec.Comment == "" {
		spec.Comment = comment
	}
	specs := make([]RollSpec, 0, count)
	for i := 1; i <= count; i++ {
		copySpec := spec
		copySpec.Label = "Set " + strconv.Itoa(i)
		specs = append(specs, copySpec)
	}
	return specs, true, nil
}

// rollFlags are the leading toggle tokens consumed before parsing.
type rollFlags struct {
	private   bool
	simple    bool
	noResults bool
	unsorted  bool
}

// consume greedily strips flag prefixes in any order or combination.
// Flags match case-insensitively; the remaining text keeps its case
// for label and comment extraction.
func (f *rollFlags) consume(text string) string {
	for {
		lower := strings.ToLower(text)
		switch {
		case strings.HasPrefix(lower, "p "):
			f.private = true
			text = strings.TrimSpace(text[2:])
		case strings.HasPrefix(lower, "s "):
			f.simple = true
			text = strings.TrimSpace(text[2:])
		case strings.HasPrefix(lower, "nr "):
			f.noResults = true
			text = strings.TrimSpace(text[3:])
		case strings.HasPrefix(lower, "ul "):
			f.unsorted = true
			text = strings.TrimSpace(text[3:])
		default:
			return text
		}
	}
}

func (f rollFlags) apply(spec *RollSpec) {
	spec.Private = spec.Private || f.private
	spec.Simple = spec.Simple || f.simple
	spec.NoResults = spec.NoResults || f.noResults
	spec.Unsorted = spec.Unsorted || f.unsorted
}

// expandRecursive applies alias expansion until a fixed point.
func expandRecursive(text string) string {
	for i := 0; i < maxExpansionDepth; i++ {
		expanded, ok := Expand(text)
		if !ok {
			return text
		}
		text = expanded
	}
	return text
}

// splitDecorations strips the leading (label) and trailing ! comment.
// Both are kept verbatim; only the expression body between them gets
// case-normalized later.
func splitDecorations(text string) (label, comment, body string, err error) {
	body = strings.TrimSpace(text)

	if strings.HasPrefix(body, "(") {
		end := strings.Index(body, ")")
		if end < 0 {
			return "", "", "", apperrors.WithMetadata(apperrors.CodeMalformed,
				"unterminated label",
				map[string]string{"Expression": body})
		}
		label = body[1:end]
		body = strings.TrimSpace(body[end+1:])
	}

	if bang := strings.Index(body, "!"); bang >= 0 {
		comment = strings.TrimSpace(body[bang+1:])
		body = strings.TrimSpace(body[:bang])
	}

	if body == "" {
		return "", "", "", apperrors.WithMetadata(apperrors.CodeMalformed,
			"missing dice expression",
			map[string]string{"Expression": text})
	}
	return label, comment, body, nil
}

// parseBody parses one canonical, decoration-free expression.
func parseBody(text string) (RollSpec, error) {
	var spec RollSpec

	tokens := mergeOperatorTokens(tokenize(text))

	head := diceHeadRe.FindString(tokens[0])
	if head == "" {
		return RollSpec{}, apperrors.WithMetadata(apperrors.CodeMalformed,
			"expression must start with a dice token",
			map[string]string{"Expression": text})
	}

	count, sides, err := parseDiceToken(head)
	if err != nil {
		return RollSpec{}, err
	}
	spec.Count = count
	spec.Sides = sides

	rest := tokens[1:]
	if trailer := tokens[0][len(head):]; trailer != "" {
		// Compact form fused modifiers onto the core token ("4d6k3").
		rest = append([]string{trailer}, rest...)
	}

	if err := parseModifiers(&spec, rest); err != nil {
		return RollSpec{}, err
	}
	return spec, nil
}

// tokenize splits the expression body. Compact operator runs without
// whitespace ("4d10+2") are scanned byte-wise; everything else splits
// on whitespace.
func tokenize(text string) []string {
	if strings.ContainsAny(text, "+-*/") && !strings.ContainsAny(text, " \t") {
		return splitCompact(text)
	}
	return strings.Fields(text)
}

func splitCompact(text string) []string {
	var tokens []string
	i := 0
	for i < len(text) {
		if isOperator(text[i]) {
			j := i + 1
			for j < len(text) && (isDigit(text[j]) || text[j] == 'd' || text[j] == '%') {
				j++
			}
			tokens = append(tokens, text[i:j])
			i = j
			continue
		}
		j := i
		for j < len(text) && !isOperator(text[j]) {
			j++
		}
		tokens = append(tokens, text[i:j])
		i = j
	}
	return tokens
}

// mergeOperatorTokens joins standalone operator tokens with their
// operand so "4d6 + 2" and "4d6 +2" tokenize identically.
func mergeOperatorTokens(tokens []string) []string {
	merged := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if len(tok) == 1 && isOperator(tok[0]) && i+1 < len(tokens) {
			merged = append(merged, tok+tokens[i+1])
			i++
			continue
		}
		merged = append(merged, tok)
	}
	return merged
}

func isOperator(c byte) bool {
	return c == '+' || c == '-' || c == '*' || c == '/'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// parseDiceToken validates a [N]d<S|%> token against the parser
// ceilings.
func parseDiceToken(token string) (count, sides int, err error) {
	m := diceTokenRe.FindStringSubmatch(token)
	if m == nil {
		return 0, 0, apperrors.WithMetadata(apperrors.CodeMalformed,
			"invalid dice token",
			map[string]string{"Expression": token})
	}

	count = 1
	if m[1] != "" {
		count, err = strconv.Atoi(m[1])
		if err != nil {
			count = maxDiceCount + 1
		}
	}
	if m[2] == "%" {
		sides = 100
	} else {
		sides, err = strconv.Atoi(m[2])
		if err != nil {
			sides = maxDiceSides + 1
		}
	}

	if count < 1 || count > maxDiceCount {
		return 0, 0, apperrors.WithMetadata(apperrors.CodeCountRange,
			"dice count out of range",
			map[string]string{
				"Count": m[1],
				"Max":   strconv.Itoa(maxDiceCount),
			})
	}
	if sides < 1 || sides > maxDiceSides {
		return 0, 0, apperrors.WithMetadata(apperrors.CodeSidesRange,
			"dice sides out of range",
			map[string]string{
				"Sides": m[2],
				"Max":   strconv.Itoa(maxDiceSides),
			})
	}
	return count, sides, nil
}

// parseModifiers interprets the tokens after the core dice token.
func parseModifiers(spec *RollSpec, tokens []string) error {
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok == "" {
			continue
		}

		if isOperator(tok[0]) {
			op := tok[0]
			operand := strings.TrimSpace(tok[1:])
			if operand == "" {
				return apperrors.WithMetadata(apperrors.CodeModifierMissing,
					"operator without operand",
					map[string]string{"Modifier": tok})
			}

			if diceTokenRe.MatchString(operand) {
				nested, err := parseNestedDice(operand)
				if err != nil {
					return err
				}
				var kind ModKind
				switch op {
				case '+':
					kind = ModAddDice
				case '-':
					kind = ModSubtractDice
				default:
					return apperrors.WithMetadata(apperrors.CodeMalformed,
						"dice operands only support + and -",
						map[string]string{"Expression": tok})
				}

				// Modifier tokens immediately after an added pool
				// belong to that pool ("1d8 ie + 1d6 ie").
				for i+1 < len(tokens) && isModifierStart(tokens[i+1]) {
					i++
					mods, err := splitCluster(tokens[i])
					if err != nil {
						return err
					}
					nested.Modifiers = append(nested.Modifiers, mods...)
				}

				spec.Modifiers = append(spec.Modifiers, Modifier{Kind: kind, Nested: nested})
				continue
			}

			value, err := strconv.Atoi(operand)
			if err != nil {
				return apperrors.WithMetadata(apperrors.CodeMalformed,
					"invalid arithmetic operand",
					map[string]string{"Expression": tok})
			}
			spec.Modifiers = append(spec.Modifiers, Modifier{Kind: arithmeticKind(op), Value: value})
			continue
		}

		if allDigits(tok) {
			value, err := strconv.Atoi(tok)
			if err != nil {
				return apperrors.WithMetadata(apperrors.CodeMalformed,
					"invalid number",
					map[string]string{"Expression": tok})
			}
			spec.Modifiers = append(spec.Modifiers, Modifier{Kind: ModAdd, Value: value})
			continue
		}

		mods, err := splitCluster(tok)
		if err != nil {
			return err
		}
		spec.Modifiers = append(spec.Modifiers, mods...)
	}
	return nil
}

func arithmeticKind(op byte) ModKind {
	switch op {
	case '+':
		return ModAdd
	case '-':
		return ModSubtract
	case '*':
		return ModMultiply
	default:
		return ModDivide
	}
}

func parseNestedDice(token string) (*RollSpec, error) {
	count, sides, err := parseDiceToken(token)
	if err != nil {
		return nil, err
	}
	return &RollSpec{Count: count, Sides: sides}, nil
}

// isModifierStart reports whether a token begins with a known modifier
// prefix, so trailing modifiers can be routed to a nested dice pool.
func isModifierStart(token string) bool {
	if token == "" || isOperator(token[0]) || isDigit(token[0]) {
		return false
	}
	for _, prefix := range []string{
		"fudge", "wng", "gbs", "gb", "hsn", "hsk", "hsh",
		"ie", "ir", "kl", "e", "r", "k", "d", "t", "f", "b",
	} {
		if strings.HasPrefix(token, prefix) {
			return true
		}
	}
	return false
}

// splitCluster decomposes a fused modifier token ("e6k8") by stripping
// known prefixes longest-first: ie before e, ir before r, kl before k,
// wng as an atomic unit with optional dn digits and a trailing t.
func splitCluster(token string) ([]Modifier, error) {
	var mods []Modifier
	rest := token
	for rest != "" {
		switch {
		case strings.HasPrefix(rest, "fudge"):
			mods = append(mods, Modifier{Kind: ModFudge})
			rest = rest[len("fudge"):]

		case strings.HasPrefix(rest, "wng"):
			m := wngModRe.FindStringSubmatch(rest)
			mod := Modifier{Kind: ModWrathGlory}
			if m[1] != "" {
				difficulty, err := strconv.Atoi(m[1])
				if err != nil {
					return nil, unknownModifier(rest)
				}
				mod.Difficulty = difficulty
				mod.HasDifficulty = true
			}
			mod.UseTotal = m[2] == "t"
			mods = append(mods, mod)
			rest = rest[len(m[0]):]

		case strings.HasPrefix(rest, "gbs"):
			mods = append(mods, Modifier{Kind: ModGodbound, StraightDamage: true})
			rest = rest[3:]
		case strings.HasPrefix(rest, "gb"):
			mods = append(mods, Modifier{Kind: ModGodbound})
			rest = rest[2:]

		case strings.HasPrefix(rest, "hsn"):
			mods = append(mods, Modifier{Kind: ModHeroSystem, Hero: HeroNormal})
			rest = rest[3:]
		case strings.HasPrefix(rest, "hsk"):
			mods = append(mods, Modifier{Kind: ModHeroSystem, Hero: HeroKilling})
			rest = rest[3:]
		case strings.HasPrefix(rest, "hsh"):
			mods = append(mods, Modifier{Kind: ModHeroSystem, Hero: HeroToHit})
			rest = rest[3:]

		case strings.HasPrefix(rest, "ie"):
			mod, n, err := numericModifier(ModExplodeIndefinite, "ie", rest[2:], false)
			if err != nil {
				return nil, err
			}
			mods = append(mods, mod)
			rest = rest[2+n:]
		case strings.HasPrefix(rest, "ir"):
			mod, n, err := numericModifier(ModRerollIndefinite, "ir", rest[2:], true)
			if err != nil {
				return nil, err
			}
			mods = append(mods, mod)
			rest = rest[2+n:]
		case strings.HasPrefix(rest, "kl"):
			mod, n, err := numericModifier(ModKeepLow, "kl", rest[2:], true)
			if err != nil {
				return nil, err
			}
			mods = append(mods, mod)
			rest = rest[2+n:]

		case rest[0] == 'e':
			mod, n, err := numericModifier(ModExplode, "e", rest[1:], false)
			if err != nil {
				return nil, err
			}
			mods = append(mods, mod)
			rest = rest[1+n:]
		case rest[0] == 'r':
			mod, n, err := numericModifier(ModReroll, "r", rest[1:], true)
			if err != nil {
				return nil, err
			}
			mods = append(mods, mod)
			rest = rest[1+n:]
		case rest[0] == 'k':
			mod, n, err := numericModifier(ModKeepHigh, "k", rest[1:], true)
			if err != nil {
				return nil, err
			}
			mods = append(mods, mod)
			rest = rest[1+n:]
		case rest[0] == 'd':
			mod, n, err := numericModifier(ModDrop, "d", rest[1:], true)
			if err != nil {
				return nil, err
			}
			mods = append(mods, mod)
			rest = rest[1+n:]
		case rest[0] == 't':
			mod, n, err := numericModifier(ModTarget, "t", rest[1:], true)
			if err != nil {
				return nil, err
			}
			mods = append(mods, mod)
			rest = rest[1+n:]
		case rest[0] == 'f':
			mod, n, err := numericModifier(ModFailure, "f", rest[1:], true)
			if err != nil {
				return nil, err
			}
			mods = append(mods, mod)
			rest = rest[1+n:]
		case rest[0] == 'b':
			mod, n, err := numericModifier(ModBotch, "b", rest[1:], false)
			if err != nil {
				return nil, err
			}
			mods = append(mods, mod)
			rest = rest[1+n:]

		case isOperator(rest[0]):
			// Aliases can fuse arithmetic onto a cluster ("gb+5").
			op := rest[0]
			digits := leadingDigits(rest[1:])
			if digits == 0 {
				return nil, unknownModifier(rest)
			}
			value, err := strconv.Atoi(rest[1 : 1+digits])
			if err != nil {
				return nil, unknownModifier(rest)
			}
			mods = append(mods, Modifier{Kind: arithmeticKind(op), Value: value})
			rest = rest[1+digits:]

		default:
			return nil, unknownModifier(rest)
		}
	}
	return mods, nil
}

// numericModifier parses the digit suffix of a modifier prefix.
// Required suffixes must be present; a zero value is always rejected
// where the semantics need a positive count.
func numericModifier(kind ModKind, prefix, rest string, required bool) (Modifier, int, error) {
	digits := leadingDigits(rest)
	if digits == 0 {
		if required {
			return Modifier{}, 0, apperrors.WithMetadata(apperrors.CodeModifierMissing,
				"modifier requires a numeric suffix",
				map[string]string{"Modifier": prefix})
		}
		return Modifier{Kind: kind}, 0, nil
	}

	value, err := strconv.Atoi(rest[:digits])
	if err != nil {
		return Modifier{}, 0, apperrors.WithMetadata(apperrors.CodeMalformed,
			"invalid modifier value",
			map[string]string{"Expression": prefix + rest})
	}
	if value == 0 {
		return Modifier{}, 0, apperrors.WithMetadata(apperrors.CodeModifierZero,
			"modifier value must be positive",
			map[string]string{"Modifier": prefix + rest[:digits]})
	}
	return Modifier{Kind: kind, Value: value, HasValue: true}, digits, nil
}

func leadingDigits(s string) int {
	n := 0
	for n < len(s) && isDigit(s[n]) {
		n++
	}
	return n
}

func unknownModifier(rest string) error {
	return apperrors.WithMetadata(apperrors.CodeUnknownModifier,
		"unknown modifier",
		map[string]string{"Modifier": rest})
}
