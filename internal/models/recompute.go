package models

import (
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/money"
)

// RecomputeBalances resets every account balance to zero and replays every
// transaction. The replay is a pure sum, so order does not matter; for any
// valid transaction set it must agree with incremental balance maintenance.
// Used by migrations and as a repair operation.
func (d *Document) RecomputeBalances(now time.Time) {
	byID := make(map[int64]*Account, len(d.Accounts))
	for i := range d.Accounts {
		d.Accounts[i].Balance = decimal.Zero
		byID[d.Accounts[i].ID] = &d.Accounts[i]
	}
	for i := range d.Transactions {
		t := &d.Transactions[i]
		acc, ok := byID[t.AccountID]
		if !ok {
			continue
		}
		acc.Balance = money.Round2(acc.Balance.Add(t.BalanceEffect()))
	}
	for i := range d.Accounts {
		d.Accounts[i].UpdatedAt = now
	}
}
