package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/dicelang/internal/services/roller/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "rolls.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndListRolls(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first, err := store.SaveRoll(ctx, storage.RollRecord{
		Expression: "4d6 k3",
		Rendered:   "Roll: `[6, 5, 3]` ~~[1]~~ = **14**",
		Total:      14,
		CreatedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("SaveRoll() error: %v", err)
	}
	second, err := store.SaveRoll(ctx, storage.RollRecord{
		Expression: "1d20",
		Rendered:   "Roll: `[15]` = **15**",
		Total:      15,
	})
	if err != nil {
		t.Fatalf("SaveRoll() error: %v", err)
	}
	if second <= first {
		t.Errorf("ids not increasing: %d then %d", first, second)
	}

	records, err := store.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("ListRecent() got %d records, want 2", len(records))
	}
	if records[0].Expression != "1d20" {
		t.Errorf("newest record got %q, want the last saved roll", records[0].Expression)
	}
	if records[1].Total != 14 {
		t.Errorf("oldest record total got %d, want 14", records[1].Total)
	}
	if records[1].CreatedAt != time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) {
		t.Errorf("created at got %v, want stored timestamp", records[1].CreatedAt)
	}
}

func TestListRecentLimits(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		if _, err := store.SaveRoll(ctx, storage.RollRecord{
			Expression: "1d6",
			Rendered:   "= **3**",
			Total:      3,
		}); err != nil {
			t.Fatalf("SaveRoll() error: %v", err)
		}
	}

	records, err := store.ListRecent(ctx, 0)
	if err != nil {
		t.Fatalf("ListRecent() error: %v", err)
	}
	if len(records) != 10 {
		t.Errorf("default limit got %d records, want 10", len(records))
	}

	records, err = store.ListRecent(ctx, 5)
	if err != nil {
		t.Fatalf("ListRecent() error: %v", err)
	}
	if len(records) != 5 {
		t.Errorf("limit 5 got %d records", len(records))
	}
}

func TestListRecentEmpty(t *testing.T) {
	store := openTestStore(t)

	records, err := store.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecent() error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records from empty store", len(records))
	}
}
