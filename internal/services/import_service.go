package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "tally/internal/encoding"
	apperrors "tally/internal/errors"
	"tally/internal/models"
	"tally/internal/store"
)

// requiredImportColumns must all appear in the CSV header, in any order.
var requiredImportColumns = []string{"date", "type", "amount", "accountName", "categoryName"}

// importService bulk-creates transactions from CSV text, creating the
// referenced accounts, categories, and tags on the fly.
type importService struct {
	store *store.Store
}

// NewImportService creates a new ImportServicer.
func NewImportService(st *store.Store) ImportServicer {
	return &importService{store: st}
}

// Template describes the expected CSV shape for callers building files by hand.
func (s *importService) Template() ImportTemplate {
	return ImportTemplate{
		Header: "date,type,amount,accountName,categoryName,tagNames,note",
		Example: strings.Join([]string{
			"2025-01-01,EXPENSE,12.50,Cash,Dining,breakfast|takeout,breakfast delivery",
			"2025-01-02,INCOME,8000.00,Cash,Salary,january|work,january salary",
		}, "\n"),
		Hint: "Separate tagNames with |; unknown accounts/categories/tags are created automatically",
	}
}

// ImportCSV parses the CSV and creates one transaction per data row. Rows
// are processed independently: a failing row is recorded against its
// 1-based line number (the header is row 1) and the remaining rows still
// commit.
func (s *importService) ImportCSV(userID int64, r io.Reader) (*ImportResult, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("invalid CSV: %v", err))
	}
	if len(records) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "CSV is empty")
	}

	cols := map[string]int{}
	for i, name := range records[0] {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range requiredImportColumns {
		if _, ok := cols[required]; !ok {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "missing column: "+required)
		}
	}

	result := &ImportResult{Total: len(records) - 1, Errors: []ImportRowError{}}
	err = s.store.Update(func(doc *models.Document) error {
		for i, record := range records[1:] {
			// 1-based row numbers counting the header as row 1.
			rowNum := i + 2
			if err := importRow(doc, userID, cols, record, time.Now()); err != nil {
				result.Fail++
				result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Message: err.Error()})
				continue
			}
			result.Success++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// importRow converts one CSV record into a transaction, resolving names to
// entities (creating them when absent, by exact case-sensitive match) and
// then running the normal transaction-create path.
func importRow(doc *models.Document, userID int64, cols map[string]int, record []string, now time.Time) error {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	date := field("date")
	if date == "" {
		return fmt.Errorf("date is required")
	}
	amount, err := decimal.NewFromString(field("amount"))
	if err != nil {
		return fmt.Errorf("invalid amount %q", field("amount"))
	}
	txType := models.TransactionType(field("type"))

	accountID := findOrCreateAccount(doc, userID, field("accountName"), now).ID
	categoryID := findOrCreateCategory(doc, userID, field("categoryName"), txType, now).ID

	var tagIDs []int64
	for _, name := range strings.Split(field("tagNames"), "|") {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		tagIDs = append(tagIDs, findOrCreateTag(doc, userID, name, now).ID)
	}

	_, err = createTransaction(doc, userID, CreateTransactionParams{
		Date:       date,
		Amount:     amount,
		Type:       txType,
		AccountID:  accountID,
		CategoryID: &categoryID,
		Note:       field("note"),
		TagIDs:     tagIDs,
	}, now)
	return err
}

func findOrCreateAccount(doc *models.Document, userID int64, name string, now time.Time) *models.Account {
	if name == "" {
		name = "Imported"
	}
	for i := range doc.Accounts {
		if doc.Accounts[i].UserID == userID && doc.Accounts[i].Name == name {
			return &doc.Accounts[i]
		}
	}
	doc.Accounts = append(doc.Accounts, models.Account{
		ID:        doc.NextID(),
		UserID:    userID,
		Name:      name,
		Currency:  defaultCurrency,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return &doc.Accounts[len(doc.Accounts)-1]
}

func findOrCreateCategory(doc *models.Document, userID int64, name string, txType models.TransactionType, now time.Time) *models.Category {
	if name == "" {
		name = "Imported"
	}
	for i := range doc.Categories {
		if doc.Categories[i].UserID == userID && doc.Categories[i].Name == name {
			return &doc.Categories[i]
		}
	}
	// New categories infer their type from the row's transaction type.
	catType := models.CategoryTypeExpense
	if txType == models.TransactionTypeIncome {
		catType = models.CategoryTypeIncome
	}
	doc.Categories = append(doc.Categories, models.Category{
		ID:        doc.NextID(),
		UserID:    userID,
		Name:      name,
		Type:      catType,
		Color:     defaultCategoryHue,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return &doc.Categories[len(doc.Categories)-1]
}

func findOrCreateTag(doc *models.Document, userID int64, name string, now time.Time) *models.Tag {
	for i := range doc.Tags {
		if doc.Tags[i].UserID == userID && doc.Tags[i].Name == name {
			return &doc.Tags[i]
		}
	}
	doc.Tags = append(doc.Tags, models.Tag{
		ID:        doc.NextID(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return &doc.Tags[len(doc.Tags)-1]
}
