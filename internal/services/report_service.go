package services

import (
	"strconv"

	"github.com/shopspring/decimal"

	apperrors "tally/internal/errors"
	"tally/internal/models"
	"tally/internal/money"
	"tally/internal/store"
)

// Recognized groupBy keys for Summary.
const (
	GroupByCategory = "category"
	GroupByAccount  = "account"
	GroupByMonth    = "month"
)

// reportService aggregates filtered transactions into grouped sums.
type reportService struct {
	store *store.Store
}

// NewReportService creates a new ReportServicer.
func NewReportService(st *store.Store) ReportServicer {
	return &reportService{store: st}
}

// Summary groups the user's transactions in the inclusive date range by
// category, account, or month (the year-month prefix of the date) and
// accumulates income, expense, and row counts per group.
func (s *reportService) Summary(userID int64, fromDate, toDate, groupBy string) (*Summary, error) {
	if groupBy == "" {
		groupBy = GroupByCategory
	}
	var keyFn func(t *models.Transaction) string
	switch groupBy {
	case GroupByCategory:
		keyFn = categoryKey
	case GroupByAccount:
		keyFn = func(t *models.Transaction) string { return strconv.FormatInt(t.AccountID, 10) }
	case GroupByMonth:
		keyFn = monthKey
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "groupBy must be category, account, or month")
	}

	summary := &Summary{GroupBy: groupBy, Groups: map[string]*GroupTotals{}}
	err := s.store.View(func(doc *models.Document) error {
		rows := listTransactions(doc, userID, TransactionFilter{FromDate: fromDate, ToDate: toDate})
		for i := range rows {
			t := &rows[i].Transaction
			k := keyFn(t)
			g := summary.Groups[k]
			if g == nil {
				g = &GroupTotals{Income: decimal.Zero, Expense: decimal.Zero}
				summary.Groups[k] = g
			}
			switch t.Type {
			case models.TransactionTypeIncome:
				g.Income = money.Round2(g.Income.Add(t.Amount))
			case models.TransactionTypeExpense:
				g.Expense = money.Round2(g.Expense.Add(t.Amount))
			}
			g.Count++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func categoryKey(t *models.Transaction) string {
	if t.CategoryID == nil {
		return "uncategorized"
	}
	return strconv.FormatInt(*t.CategoryID, 10)
}

func monthKey(t *models.Transaction) string {
	if len(t.Date) < 7 {
		return t.Date
	}
	return t.Date[:7]
}
