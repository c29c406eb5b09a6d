package roll

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("roll", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"4d6", "k3"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Locale != "en-US" {
		t.Errorf("expected default locale, got %q", cfg.Locale)
	}
	if cfg.MessageLimit != 2000 {
		t.Errorf("expected default message limit, got %d", cfg.MessageLimit)
	}
	if cfg.Expression != "4d6 k3" {
		t.Errorf("expected joined expression, got %q", cfg.Expression)
	}
}

func TestParseConfigEnvAndFlags(t *testing.T) {
	t.Setenv("DICELANG_HISTORY_DB", "env.db")
	t.Setenv("DICELANG_MESSAGE_LIMIT", "500")

	fs := flag.NewFlagSet("roll", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-history-db", "flag.db", "-history", "3"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HistoryDB != "flag.db" {
		t.Errorf("expected flag to win, got %q", cfg.HistoryDB)
	}
	if cfg.MessageLimit != 500 {
		t.Errorf("expected env message limit, got %d", cfg.MessageLimit)
	}
	if cfg.History != 3 {
		t.Errorf("expected history 3, got %d", cfg.History)
	}
}

func TestRunRollsExpression(t *testing.T) {
	var out bytes.Buffer
	cfg := Config{Expression: "1d1", Locale: "en-US"}

	if err := Run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got := out.String(); got != "Roll: `[1]` = **1**\n" {
		t.Errorf("output got %q", got)
	}
}

func TestRunRequiresExpression(t *testing.T) {
	var out bytes.Buffer
	if err := Run(context.Background(), Config{}, &out); err == nil {
		t.Fatal("Run() without expression succeeded, want error")
	}
}

func TestRunParseErrorIsLocalized(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), Config{Expression: "not dice"}, &out)
	if err == nil {
		t.Fatal("Run() succeeded, want parse error")
	}
	if !strings.Contains(err.Error(), "Could not understand") {
		t.Errorf("error got %q, want localized message", err.Error())
	}
}

func TestRunHistory(t *testing.T) {
	db := filepath.Join(t.TempDir(), "rolls.db")

	var out bytes.Buffer
	if err := Run(context.Background(), Config{Expression: "1d1", HistoryDB: db}, &out); err != nil {
		t.Fatalf("Run() roll error: %v", err)
	}

	out.Reset()
	if err := Run(context.Background(), Config{History: 5, HistoryDB: db}, &out); err != nil {
		t.Fatalf("Run() history error: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "1d1") || !strings.Contains(got, "Roll: `[1]` = **1**") {
		t.Errorf("history output got %q", got)
	}
}

func TestRunHistoryEmpty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "rolls.db")

	var out bytes.Buffer
	if err := Run(context.Background(), Config{History: 5, HistoryDB: db}, &out); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !strings.Contains(out.String(), "No rolls recorded yet.") {
		t.Errorf("output got %q", out.String())
	}
}
