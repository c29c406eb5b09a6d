// Package mcp parses MCP command flags and serves the dicelang MCP
// server over stdio.
package mcp

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/louisbranch/dicelang/internal/platform/config"
	"github.com/louisbranch/dicelang/internal/platform/otel"
	mcpservice "github.com/louisbranch/dicelang/internal/services/mcp/service"
	"github.com/louisbranch/dicelang/internal/services/roller"
	"github.com/louisbranch/dicelang/internal/services/roller/storage"
	"github.com/louisbranch/dicelang/internal/services/roller/storage/sqlite"
)

// Config holds MCP command configuration.
type Config struct {
	HistoryDB    string `env:"DICELANG_HISTORY_DB"`
	Locale       string `env:"DICELANG_LOCALE"        envDefault:"en-US"`
	MessageLimit int    `env:"DICELANG_MESSAGE_LIMIT" envDefault:"2000"`
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
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "mcp")
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

	return mcpservice.Run(ctx, svc)
}
