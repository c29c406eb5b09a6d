// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Parse errors
	CodeInputTooLong       Code = "DICE_INPUT_TOO_LONG"
	CodeCountRange         Code = "DICE_COUNT_RANGE"
	CodeSidesRange         Code = "DICE_SIDES_RANGE"
	CodeSetRange           Code = "DICE_SET_RANGE"
	CodeTooManyExpressions Code = "DICE_TOO_MANY_EXPRESSIONS"
	CodeMalformed          Code = "DICE_MALFORMED_EXPRESSION"
	CodeUnknownModifier    Code = "DICE_UNKNOWN_MODIFIER"
	CodeModifierMissing    Code = "DICE_MODIFIER_VALUE_MISSING"
	CodeModifierZero       Code = "DICE_MODIFIER_VALUE_ZERO"

	// Resolution errors
	CodeDivideByZero Code = "DICE_DIVIDE_BY_ZERO"
	CodeMissingRand  Code = "DICE_MISSING_RAND"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
	CodeStorage  Code = "STORAGE_FAILURE"

	// Random/seed errors
	CodeSeedFailure Code = "SEED_FAILURE"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeInputTooLong,
		CodeCountRange,
		CodeSidesRange,
		CodeSetRange,
		CodeTooManyExpressions,
		CodeMalformed,
		CodeUnknownModifier,
		CodeModifierMissing,
		CodeModifierZero,
		CodeDivideByZero:
		return codes.InvalidArgument

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}
