// Package roller ties the dice interpreter together with seeded
// randomness, roll history, and tracing. It is the application-facing
// surface consumed by the CLI and the MCP server.
package roller

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/dicelang/internal/core/dice"
	apperrors "github.com/louisbranch/dicelang/internal/errors"
	"github.com/louisbranch/dicelang/internal/random"
	"github.com/louisbranch/dicelang/internal/services/roller/storage"
)

// Config carries the service's tunables.
type Config struct {
	// Locale selects the language for user-facing error messages.
	// Empty means en-US.
	Locale string

	// MessageLimit caps rendered output length; longer output falls
	// back to a simplified rendering. Non-positive means the default.
	MessageLimit int
}

// Service executes roll requests.
type Service struct {
	store        storage.Store
	locale       string
	messageLimit int
	tracer       trace.Tracer
}

// New creates a roller service. store may be nil, which disables roll
// history.
func New(cfg Config, store storage.Store) *Service {
	locale := cfg.Locale
	if locale == "" {
		locale = apperrors.DefaultLocale
	}
	limit := cfg.MessageLimit
	if limit <= 0 {
		limit = dice.DefaultMessageLimit
	}

	return &Service{
		store:        store,
		locale:       locale,
		messageLimit: limit,
		tracer:       otel.Tracer("dicelang/roller"),
	}
}

// Output is the outcome of one roll request.
type Output struct {
	Results  []dice.RollResult
	Rendered string

	// HistoryID is the stored history row, or zero when history is
	// disabled or the write failed.
	HistoryID int64
}

// Roll parses, resolves, and renders input with a fresh crypto-seeded
// generator, then records the roll in history. History write failures
// are logged, not returned; a roll the user already saw must not fail
// retroactively.
func (s *Service) Roll(ctx context.Context, input string) (Output, error) {
	rng, err := random.NewRand()
	if err != nil {
		return Output{}, apperrors.Wrap(apperrors.CodeSeedFailure, "seed roll generator", err)
	}
	return s.RollWithRand(ctx, input, rng)
}

// RollWithRand is Roll with a caller-supplied random source, used by
// tests and replay tooling.
func (s *Service) RollWithRand(ctx context.Context, input string, rng dice.Rand) (Output, error) {
	ctx, span := s.tracer.Start(ctx, "roller.Roll",
		trace.WithAttributes(attribute.String("dice.expression", input)))
	defer span.End()

	results, err := dice.ParseAndRoll(input, rng)
	if err != nil {
		span.RecordError(err)
		return Output{}, err
	}

	out := Output{
		Results:  results,
		Rendered: dice.RenderAllWithLimit(results, s.messageLimit),
	}
	span.SetAttributes(attribute.Int("dice.results", len(results)))

	if s.store != nil {
		id, err := s.store.SaveRoll(ctx, storage.RollRecord{
			Expression: input,
			Rendered:   out.Rendered,
			Total:      sumValues(results),
		})
		if err != nil {
			span.RecordError(err)
			log.Printf("save roll history: %v", err)
		} else {
			out.HistoryID = id
		}
	}

	return out, nil
}

// History lists recent rolls, newest first. Without a store it returns
// an empty history.
func (s *Service) History(ctx context.Context, limit int) ([]storage.RollRecord, error) {
	if s.store == nil {
		return nil, nil
	}

	ctx, span := s.tracer.Start(ctx, "roller.History")
	defer span.End()

	records, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return records, nil
}

// ExpandAlias reports the canonical expression for a shorthand alias.
func (s *Service) ExpandAlias(input string) (string, bool) {
	return dice.Expand(input)
}

// UserMessage formats an error for display in the service's locale.
func (s *Service) UserMessage(err error) string {
	return apperrors.UserMessage(err, s.locale)
}

func sumValues(results []dice.RollResult) int {
	total := 0
	for _, r := range results {
		total += r.Value()
	}
	return total
}
