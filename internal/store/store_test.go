package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	apperrors "tally/internal/errors"
	"tally/internal/models"
)

func testClock() func() time.Time {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return fixed }
}

func TestOpen(t *testing.T) {
	t.Run("first_run_seeds_document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.json")

		st, err := open(path, testClock())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		err = st.View(func(doc *models.Document) error {
			if doc.Meta.Version != models.CurrentVersion {
				t.Errorf("expected version %d, got %d", models.CurrentVersion, doc.Meta.Version)
			}
			if doc.Meta.NextID != 100 {
				t.Errorf("expected nextId 100, got %d", doc.Meta.NextID)
			}
			if len(doc.Users) != 0 || len(doc.Accounts) != 0 || len(doc.Transactions) != 0 {
				t.Error("expected empty collections in fresh document")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// The seed must already be on disk.
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("expected seed file on disk: %v", err)
		}
		var doc models.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			t.Fatalf("seed file is not valid JSON: %v", err)
		}
	})

	t.Run("reopen_preserves_data", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.json")

		st, err := open(path, testClock())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		err = st.Update(func(doc *models.Document) error {
			doc.Users = append(doc.Users, models.User{ID: doc.NextID(), Username: "alice"})
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		st2, err := open(path, testClock())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		err = st2.View(func(doc *models.Document) error {
			if doc.FindUserByUsername("alice") == nil {
				t.Error("expected user alice to survive a reopen")
			}
			if doc.Meta.NextID != 101 {
				t.Errorf("expected nextId 101, got %d", doc.Meta.NextID)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("corrupt_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatal(err)
		}

		_, err := open(path, testClock())
		if err == nil {
			t.Fatal("expected error for corrupt document")
		}
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) || appErr.Code != "CORRUPT_STORE" {
			t.Errorf("expected CORRUPT_STORE, got %v", err)
		}
	})

	t.Run("empty_file_reseeds", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.json")
		if err := os.WriteFile(path, []byte("  \n"), 0o644); err != nil {
			t.Fatal(err)
		}

		st, err := open(path, testClock())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		err = st.View(func(doc *models.Document) error {
			if doc.Meta.Version != models.CurrentVersion {
				t.Errorf("expected version %d, got %d", models.CurrentVersion, doc.Meta.Version)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestUpdate(t *testing.T) {
	t.Run("failed_update_leaves_state_untouched", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.json")
		st, err := open(path, testClock())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		err = st.Update(func(doc *models.Document) error {
			doc.Users = append(doc.Users, models.User{ID: doc.NextID(), Username: "alice"})
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		before, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}

		boom := errors.New("boom")
		err = st.Update(func(doc *models.Document) error {
			doc.Users[0].Username = "mallory"
			doc.Accounts = append(doc.Accounts, models.Account{ID: doc.NextID(), Balance: decimal.Zero})
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}

		// In-memory state is unchanged.
		err = st.View(func(doc *models.Document) error {
			if doc.Users[0].Username != "alice" {
				t.Errorf("expected alice, got %s", doc.Users[0].Username)
			}
			if len(doc.Accounts) != 0 {
				t.Errorf("expected no accounts, got %d", len(doc.Accounts))
			}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// On-disk state is byte-identical.
		after, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(before) != string(after) {
			t.Error("expected disk state unchanged after failed update")
		}
	})

	t.Run("no_temp_files_left_behind", func(t *testing.T) {
		dir := t.TempDir()
		st, err := open(filepath.Join(dir, "ledger.json"), testClock())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i := 0; i < 3; i++ {
			err := st.Update(func(doc *models.Document) error {
				doc.Tags = append(doc.Tags, models.Tag{ID: doc.NextID(), Name: "t"})
				return nil
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), ".ledger-") {
				t.Errorf("leftover temp file: %s", e.Name())
			}
		}
		if len(entries) != 1 {
			t.Errorf("expected only the document file, got %d entries", len(entries))
		}
	})

	t.Run("amounts_persist_as_numbers", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.json")
		st, err := open(path, testClock())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		err = st.Update(func(doc *models.Document) error {
			doc.Accounts = append(doc.Accounts, models.Account{
				ID:      doc.NextID(),
				Name:    "Cash",
				Balance: decimal.RequireFromString("12.5"),
			})
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), `"balance": 12.5`) {
			t.Error("expected balance serialized as a plain JSON number")
		}
	})
}
