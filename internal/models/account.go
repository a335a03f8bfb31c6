package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a financial account. Balance is maintained
// incrementally by transaction mutations and always equals the signed sum
// of the surviving transactions referencing the account.
type Account struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"userId"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
