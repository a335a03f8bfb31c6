package services

import (
	"encoding/csv"
	"encoding/json"
	"strconv"
	"strings"

	apperrors "tally/internal/errors"
	"tally/internal/models"
	"tally/internal/money"
	"tally/internal/store"
)

// exportColumns is the fixed CSV column order for exports.
var exportColumns = []string{"id", "date", "type", "amount", "currency", "accountId", "categoryId", "note", "tagIds"}

// exportService converts filtered transactions into CSV or JSON text.
type exportService struct {
	store *store.Store
}

// NewExportService creates a new ExportServicer.
func NewExportService(st *store.Store) ExportServicer {
	return &exportService{store: st}
}

// Export renders the user's filtered transactions. format is "CSV"
// (default) or "JSON", case-insensitive.
func (s *exportService) Export(userID int64, format string, filter TransactionFilter) (*ExportResult, error) {
	var rows []TaggedTransaction
	err := s.store.View(func(doc *models.Document) error {
		rows = listTransactions(doc, userID, filter)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(format, "json") {
		content, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &ExportResult{MIME: "application/json", Content: string(content)}, nil
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(exportColumns); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, r := range rows {
		categoryID := ""
		if r.CategoryID != nil {
			categoryID = strconv.FormatInt(*r.CategoryID, 10)
		}
		tagIDs := make([]string, 0, len(r.Tags))
		for _, id := range r.Tags {
			tagIDs = append(tagIDs, strconv.FormatInt(id, 10))
		}
		record := []string{
			strconv.FormatInt(r.ID, 10),
			r.Date,
			string(r.Type),
			money.Format(r.Amount),
			r.Currency,
			strconv.FormatInt(r.AccountID, 10),
			categoryID,
			r.Note,
			strings.Join(tagIDs, "|"),
		}
		if err := w.Write(record); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &ExportResult{MIME: "text/csv", Content: sb.String()}, nil
}
