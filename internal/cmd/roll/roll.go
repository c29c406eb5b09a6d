// Package roll parses roll command flags and executes a single roll
// request, or lists recent roll history.
package roll

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/dicelang/internal/platform/config"
	"github.com/louisbranch/dicelang/internal/platform/otel"
	"github.com/louisbranch/dicelang/internal/services/roller"
	"github.com/louisbranch/dicelang/internal/services/roller/storage"
	"github.com/louisbranch/dicelang/internal/services/roller/storage/sqlite"
)

// Config holds roll command configuration.
type Config struct {
	HistoryDB    string `env:"DICELANG_HISTORY_DB"`
	Locale       string `env:"DICELANG_LOCALE"        envDefault:"en-US"`
	MessageLimit int    `env:"DICELANG_MESSAGE_LIMIT" envDefault:"2000"`

	// History lists the last N rolls instead of rolling when positive.
	History int

	// Expression is the dice notation assembled from positional args.
	Expression string
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HistoryDB, "history-db", cfg.HistoryDB, "roll history database path (empty disables history)")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale for user-facing messages")
	fs.IntVar(&cfg.MessageLimit, "message-limit", cfg.MessageLimit, "rendered output limit before simplified fallback")
	fs.IntVar(&cfg.History, "history", 0, "list the last N rolls instead of rolling")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.Expression = strings.Join(fs.Args(), " ")
	return cfg, nil
}

// Run executes the roll command, writing output to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	shutdown, err := otel.Setup(ctx, "roll")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	var store storage.Store
	if cfg.HistoryDB != "" {
		sqliteStore, err := sqlite.Open(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer sqliteStore.Close()
		store = sqliteStore
	}

	svc := roller.New(roller.Config{
		Locale:       cfg.Locale,
		MessageLimit: cfg.MessageLimit,
	}, store)

	if cfg.History > 0 {
		return printHistory(ctx, svc, cfg.History, out)
	}

	if strings.TrimSpace(cfg.Expression) == "" {
		return errors.New("a dice expression is required, e.g. roll 4d6 k3")
	}

	result, err := svc.Roll(ctx, cfg.Expression)
	if err != nil {
		return errors.New(svc.UserMessage(err))
	}

	fmt.Fprintln(out, result.Rendered)
	return nil
}

func printHistory(ctx context.Context, svc *roller.Service, limit int, out io.Writer) error {
	records, err := svc.History(ctx, limit)
	if err != nil {
		return errors.New(svc.UserMessage(err))
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No rolls recorded yet.")
		return nil
	}

	for _, record := range records {
		fmt.Fprintf(out, "#%d %s (%s)\n%s\n",
			record.ID, record.Expression,
			record.CreatedAt.Format(time.RFC3339), record.Rendered)
	}
	return nil
}
