package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
	// TransactionTypeTransfer is reserved; no operation produces it yet.
	TransactionTypeTransfer TransactionType = "TRANSFER"
)

// Transaction represents a single ledger entry. Date is an ISO calendar
// date string (YYYY-MM-DD), which makes date ranges lexically comparable.
// Amount is always positive; Type decides the sign of the balance effect.
type Transaction struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"userId"`
	AccountID  int64           `json:"accountId"`
	CategoryID *int64          `json:"categoryId"`
	Date       string          `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	Type       TransactionType `json:"type"`
	Currency   string          `json:"currency"`
	Note       string          `json:"note"`
	Cleared    bool            `json:"cleared"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// BalanceEffect returns the signed adjustment this transaction applies to
// its account's balance: +Amount for INCOME, -Amount for EXPENSE.
func (t *Transaction) BalanceEffect() decimal.Decimal {
	switch t.Type {
	case TransactionTypeIncome:
		return t.Amount
	case TransactionTypeExpense:
		return t.Amount.Neg()
	}
	return decimal.Zero
}
