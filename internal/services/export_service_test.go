package services

import (
	"encoding/csv"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"tally/internal/models"
	"tally/internal/testutil"
)

func TestExport(t *testing.T) {
	t.Run("csv_column_order", func(t *testing.T) {
		st := testutil.SetupTestStore(t)
		f := seedQueryFixture(t, st)
		svc := NewExportService(st)

		result, err := svc.Export(f.userID, "", TransactionFilter{})
		testutil.AssertNoError(t, err)
		if result.MIME != "text/csv" {
			t.Errorf("expected text/csv, got %s", result.MIME)
		}

		records, err := csv.NewReader(strings.NewReader(result.Content)).ReadAll()
		if err != nil {
			t.Fatalf("export is not valid CSV: %v", err)
		}
		wantHeader := []string{"id", "date", "type", "amount", "currency", "accountId", "categoryId", "note", "tagIds"}
		if len(records[0]) != len(wantHeader) {
			t.Fatalf("expected %d columns, got %v", len(wantHeader), records[0])
		}
		for i, col := range wantHeader {
			if records[0][i] != col {
				t.Errorf("column %d: expected %s, got %s", i, col, records[0][i])
			}
		}
		if len(records) != 5 {
			t.Errorf("expected header plus 4 rows, got %d records", len(records))
		}
	})

	t.Run("csv_row_values", func(t *testing.T) {
		st := testutil.SetupTestStore(t)
		f := seedQueryFixture(t, st)
		svc := NewExportService(st)

		result, err := svc.Export(f.userID, "csv", TransactionFilter{Keyword: "team dinner"})
		testutil.AssertNoError(t, err)

		records, err := csv.NewReader(strings.NewReader(result.Content)).ReadAll()
		if err != nil {
			t.Fatalf("export is not valid CSV: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected header plus 1 row, got %d records", len(records))
		}
		row := records[1]
		if row[1] != "2025-02-10" {
			t.Errorf("expected date 2025-02-10, got %s", row[1])
		}
		if row[2] != "EXPENSE" {
			t.Errorf("expected type EXPENSE, got %s", row[2])
		}
		if row[3] != "45.00" {
			t.Errorf("expected amount 45.00, got %s", row[3])
		}
		if row[5] != strconv.FormatInt(f.card.ID, 10) {
			t.Errorf("expected accountId %d, got %s", f.card.ID, row[5])
		}
		wantTags := strconv.FormatInt(f.food.ID, 10) + "|" + strconv.FormatInt(f.work.ID, 10)
		if row[8] != wantTags {
			t.Errorf("expected tagIds %s, got %s", wantTags, row[8])
		}
	})

	t.Run("notes_with_special_characters_quoted", func(t *testing.T) {
		st := testutil.SetupTestStore(t)
		user := testutil.CreateTestUser(t, st)
		account := testutil.CreateTestAccount(t, st, user.ID, "Cash")
		txSvc := NewTransactionService(st)
		svc := NewExportService(st)

		note := `dinner, "fancy" place` + "\nsecond line"
		_, err := txSvc.CreateTransaction(user.ID, CreateTransactionParams{
			Date: "2025-01-01", Amount: decimal.RequireFromString("80"),
			Type: models.TransactionTypeExpense, AccountID: account.ID, Note: note,
		})
		testutil.AssertNoError(t, err)

		result, err := svc.Export(user.ID, "", TransactionFilter{})
		testutil.AssertNoError(t, err)

		records, err := csv.NewReader(strings.NewReader(result.Content)).ReadAll()
		if err != nil {
			t.Fatalf("export is not valid CSV: %v", err)
		}
		if got := records[1][7]; got != note {
			t.Errorf("expected note to round-trip, got %q", got)
		}
	})

	t.Run("json_format", func(t *testing.T) {
		st := testutil.SetupTestStore(t)
		f := seedQueryFixture(t, st)
		svc := NewExportService(st)

		result, err := svc.Export(f.userID, "JSON", TransactionFilter{})
		testutil.AssertNoError(t, err)
		if result.MIME != "application/json" {
			t.Errorf("expected application/json, got %s", result.MIME)
		}

		var rows []TaggedTransaction
		if err := json.Unmarshal([]byte(result.Content), &rows); err != nil {
			t.Fatalf("export is not valid JSON: %v", err)
		}
		if len(rows) != 4 {
			t.Errorf("expected 4 rows, got %d", len(rows))
		}
	})

	t.Run("filter_applies", func(t *testing.T) {
		st := testutil.SetupTestStore(t)
		f := seedQueryFixture(t, st)
		svc := NewExportService(st)

		result, err := svc.Export(f.userID, "", TransactionFilter{AccountID: f.cash.ID})
		testutil.AssertNoError(t, err)

		records, err := csv.NewReader(strings.NewReader(result.Content)).ReadAll()
		if err != nil {
			t.Fatalf("export is not valid CSV: %v", err)
		}
		if len(records) != 3 {
			t.Errorf("expected header plus 2 cash rows, got %d records", len(records))
		}
	})

	t.Run("empty_export", func(t *testing.T) {
		st := testutil.SetupTestStore(t)
		user := testutil.CreateTestUser(t, st)
		svc := NewExportService(st)

		result, err := svc.Export(user.ID, "", TransactionFilter{})
		testutil.AssertNoError(t, err)

		lines := strings.Split(strings.TrimSpace(result.Content), "\n")
		if len(lines) != 1 {
			t.Errorf("expected only the header line, got %d lines", len(lines))
		}
	})
}
