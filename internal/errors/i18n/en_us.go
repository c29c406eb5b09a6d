package i18n

// Error codes must match the codes defined in internal/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeInputTooLong       = "DICE_INPUT_TOO_LONG"
	CodeCountRange         = "DICE_COUNT_RANGE"
	CodeSidesRange         = "DICE_SIDES_RANGE"
	CodeSetRange           = "DICE_SET_RANGE"
	CodeTooManyExpressions = "DICE_TOO_MANY_EXPRESSIONS"
	CodeMalformed          = "DICE_MALFORMED_EXPRESSION"
	CodeUnknownModifier    = "DICE_UNKNOWN_MODIFIER"
	CodeModifierMissing    = "DICE_MODIFIER_VALUE_MISSING"
	CodeModifierZero       = "DICE_MODIFIER_VALUE_ZERO"
	CodeDivideByZero       = "DICE_DIVIDE_BY_ZERO"
	CodeMissingRand        = "DICE_MISSING_RAND"
	CodeNotFound           = "NOT_FOUND"
	CodeStorage            = "STORAGE_FAILURE"
	CodeSeedFailure        = "SEED_FAILURE"
)

var enUSCatalog = NewCatalog("en-US", map[Code]string{
	CodeInputTooLong:       "Roll request is too long (maximum {{.Max}} characters)",
	CodeCountRange:         "Dice count must be between 1 and {{.Max}}, got {{.Count}}",
	CodeSidesRange:         "Dice sides must be between 1 and {{.Max}}, got {{.Sides}}",
	CodeSetRange:           "Set count must be between 2 and 20",
	CodeTooManyExpressions: "At most 4 rolls can be combined with semicolons",
	CodeMalformed:          "Could not understand the roll expression {{.Expression}}",
	CodeUnknownModifier:    "Unknown modifier: {{.Modifier}}",
	CodeModifierMissing:    "Modifier {{.Modifier}} requires a number",
	CodeModifierZero:       "Modifier {{.Modifier}} requires a value greater than zero",
	CodeDivideByZero:       "Cannot divide by zero",
	CodeMissingRand:        "A random source is required to roll dice",
	CodeNotFound:           "The requested record was not found",
	CodeStorage:            "Roll history is temporarily unavailable",
	CodeSeedFailure:        "Could not generate a random seed",
})

func init() {
	RegisterCatalog("en-US", enUSCatalog)
}
