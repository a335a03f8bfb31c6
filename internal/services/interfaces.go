package services

import (
	"io"

	"github.com/shopspring/decimal"

	"tally/internal/models"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(username, email, password string) (*models.User, error)
	Login(username, password string) (*models.User, error)
	GetUserByID(id int64) (*models.User, error)
}

// AccountPatch holds the optional fields of an account update.
type AccountPatch struct {
	Name     *string
	Currency *string
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	ListAccounts(userID int64) ([]models.Account, error)
	CreateAccount(userID int64, name, currency string) (*models.Account, error)
	UpdateAccount(userID, accountID int64, patch AccountPatch) (*models.Account, error)
	DeleteAccount(userID, accountID int64) error
	RecomputeBalances() error
}

// CategoryPatch holds the optional fields of a category update.
type CategoryPatch struct {
	Name  *string
	Type  *models.CategoryType
	Color *string
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	ListCategories(userID int64) ([]models.Category, error)
	CreateCategory(userID int64, name string, categoryType models.CategoryType, color string) (*models.Category, error)
	UpdateCategory(userID, categoryID int64, patch CategoryPatch) (*models.Category, error)
	DeleteCategory(userID, categoryID int64) error
}

// TagPatch holds the optional fields of a tag update.
type TagPatch struct {
	Name *string
}

// TagServicer defines the contract for tag-related business logic.
type TagServicer interface {
	ListTags(userID int64) ([]models.Tag, error)
	CreateTag(userID int64, name string) (*models.Tag, error)
	UpdateTag(userID, tagID int64, patch TagPatch) (*models.Tag, error)
	DeleteTag(userID, tagID int64) error
}

// TransactionFilter holds optional filter parameters for listing
// transactions. Active filters are ANDed together; TagIDs matches a
// transaction carrying any of the given tags.
type TransactionFilter struct {
	FromDate  string
	ToDate    string
	AccountID int64
	TagIDs    []int64
	Keyword   string
}

// TaggedTransaction is a transaction enriched with its resolved tag ids.
type TaggedTransaction struct {
	models.Transaction
	Tags []int64 `json:"tags"`
}

// CreateTransactionParams holds the fields of a new transaction.
type CreateTransactionParams struct {
	Date       string
	Amount     decimal.Decimal
	Type       models.TransactionType
	AccountID  int64
	CategoryID *int64
	Currency   string
	Note       string
	Cleared    *bool
	TagIDs     []int64
}

// TransactionPatch holds the optional fields of a transaction update.
// A non-nil TagIDs replaces the transaction's whole tag set.
type TransactionPatch struct {
	Date       *string
	Amount     *decimal.Decimal
	Type       *models.TransactionType
	AccountID  *int64
	CategoryID *int64
	Currency   *string
	Note       *string
	Cleared    *bool
	TagIDs     *[]int64
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	ListTransactions(userID int64, filter TransactionFilter) ([]TaggedTransaction, error)
	CreateTransaction(userID int64, params CreateTransactionParams) (*TaggedTransaction, error)
	UpdateTransaction(userID, transactionID int64, patch TransactionPatch) (*TaggedTransaction, error)
	DeleteTransaction(userID, transactionID int64) error
}

// GroupTotals accumulates per-group report sums.
type GroupTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Count   int             `json:"count"`
}

// Summary is the result of a grouped report.
type Summary struct {
	GroupBy string                  `json:"groupBy"`
	Groups  map[string]*GroupTotals `json:"groups"`
}

// ReportServicer defines the contract for report aggregation.
type ReportServicer interface {
	Summary(userID int64, fromDate, toDate, groupBy string) (*Summary, error)
}

// ExportResult is a rendered export payload.
type ExportResult struct {
	MIME    string
	Content string
}

// ExportServicer defines the contract for exporting transactions.
type ExportServicer interface {
	Export(userID int64, format string, filter TransactionFilter) (*ExportResult, error)
}

// ImportRowError describes a single failed CSV row. Row numbers are
// 1-based and count the header line as row 1.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult summarizes a CSV import.
type ImportResult struct {
	Total   int              `json:"total"`
	Success int              `json:"success"`
	Fail    int              `json:"fail"`
	Errors  []ImportRowError `json:"errors"`
}

// ImportTemplate describes the expected CSV shape for callers.
type ImportTemplate struct {
	Header  string `json:"header"`
	Example string `json:"example"`
	Hint    string `json:"hint"`
}

// ImportServicer defines the contract for bulk CSV import.
type ImportServicer interface {
	ImportCSV(userID int64, r io.Reader) (*ImportResult, error)
	Template() ImportTemplate
}
