package store

import (
	"fmt"
	"strings"
	"time"

	"tally/internal/models"
)

// Default entity names seeded for every user. Older documents used
// legacyCashName for the seeded cash account.
const (
	defaultCashName = "Cash"
	defaultCardName = "Card"
	legacyCashName  = "Default Cash"
	oldCashPrefix   = "Cash (old"
	defaultCurrency = "USD"
)

// A migration step upgrades the document in place and reports whether it
// changed anything. Steps are re-run on every load regardless of the stored
// version, so each must be idempotent.
type migration struct {
	name  string
	apply func(doc *models.Document, now time.Time) bool
}

var migrations = []migration{
	{"normalize-document", normalizeDocument},
	{"default-accounts", ensureDefaultAccounts},
	{"merge-old-cash", mergeOldCashAccounts},
}

// Migrate applies all migration steps in order and reports whether the
// document changed.
func Migrate(doc *models.Document, now time.Time) bool {
	changed := false
	for _, m := range migrations {
		if m.apply(doc, now) {
			changed = true
		}
	}
	return changed
}

// normalizeDocument applies explicit field-by-field defaults to documents
// written by older builds: nil collections, a stale version number, a
// missing creation timestamp, or an id counter that lags behind an id
// already issued.
func normalizeDocument(doc *models.Document, now time.Time) bool {
	changed := false

	if doc.Users == nil {
		doc.Users = []models.User{}
		changed = true
	}
	if doc.Accounts == nil {
		doc.Accounts = []models.Account{}
		changed = true
	}
	if doc.Categories == nil {
		doc.Categories = []models.Category{}
		changed = true
	}
	if doc.Tags == nil {
		doc.Tags = []models.Tag{}
		changed = true
	}
	if doc.Transactions == nil {
		doc.Transactions = []models.Transaction{}
		changed = true
	}
	if doc.TransactionTags == nil {
		doc.TransactionTags = []models.TransactionTag{}
		changed = true
	}

	if doc.Meta.CreatedAt.IsZero() {
		doc.Meta.CreatedAt = now
		changed = true
	}
	if doc.Meta.Version != models.CurrentVersion {
		doc.Meta.Version = models.CurrentVersion
		changed = true
	}

	// The counter must stay ahead of every id ever issued.
	var maxID int64
	for i := range doc.Users {
		maxID = max(maxID, doc.Users[i].ID)
	}
	for i := range doc.Accounts {
		maxID = max(maxID, doc.Accounts[i].ID)
	}
	for i := range doc.Categories {
		maxID = max(maxID, doc.Categories[i].ID)
	}
	for i := range doc.Tags {
		maxID = max(maxID, doc.Tags[i].ID)
	}
	for i := range doc.Transactions {
		maxID = max(maxID, doc.Transactions[i].ID)
	}
	if doc.Meta.NextID <= maxID {
		doc.Meta.NextID = maxID + 1
		changed = true
	}

	return changed
}

// ensureDefaultAccounts guarantees every user has a "Cash" and a "Card"
// account. A legacy "Default Cash" account is renamed to "Cash" when that
// name is free; otherwise legacy accounts are renamed to disambiguated
// "Cash (old…)" names instead of losing data.
func ensureDefaultAccounts(doc *models.Document, now time.Time) bool {
	changed := false

	for ui := range doc.Users {
		uid := doc.Users[ui].ID

		var legacy []*models.Account
		hasCash := false
		hasCard := false
		for i := range doc.Accounts {
			a := &doc.Accounts[i]
			if a.UserID != uid {
				continue
			}
			switch a.Name {
			case legacyCashName:
				legacy = append(legacy, a)
			case defaultCashName:
				hasCash = true
			case defaultCardName:
				hasCard = true
			}
		}

		if len(legacy) > 0 {
			if !hasCash {
				legacy[0].Name = defaultCashName
				legacy[0].UpdatedAt = now
				legacy = legacy[1:]
				hasCash = true
				changed = true
			}
			for _, a := range legacy {
				a.Name = nextOldCashName(doc, uid)
				a.UpdatedAt = now
				changed = true
			}
		}

		if !hasCash {
			doc.Accounts = append(doc.Accounts, newDefaultAccount(doc, uid, defaultCashName, now))
			changed = true
		}
		if !hasCard {
			doc.Accounts = append(doc.Accounts, newDefaultAccount(doc, uid, defaultCardName, now))
			changed = true
		}
	}

	return changed
}

func newDefaultAccount(doc *models.Document, userID int64, name string, now time.Time) models.Account {
	return models.Account{
		ID:        doc.NextID(),
		UserID:    userID,
		Name:      name,
		Currency:  defaultCurrency,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// nextOldCashName returns the first free "Cash (old)" / "Cash (old2)" / …
// name for the user.
func nextOldCashName(doc *models.Document, userID int64) string {
	taken := map[string]bool{}
	for i := range doc.Accounts {
		if doc.Accounts[i].UserID == userID {
			taken[doc.Accounts[i].Name] = true
		}
	}
	name := "Cash (old)"
	for n := 2; taken[name]; n++ {
		name = fmt.Sprintf("Cash (old%d)", n)
	}
	return name
}

func isOldCashName(name string) bool {
	return strings.HasPrefix(name, oldCashPrefix)
}

// mergeOldCashAccounts folds every "Cash (old…)" account into the user's
// canonical "Cash" account: transactions are re-pointed, the old account
// rows are deleted, and all balances are recomputed from transaction
// history rather than merged arithmetically.
func mergeOldCashAccounts(doc *models.Document, now time.Time) bool {
	changed := false

	for ui := range doc.Users {
		uid := doc.Users[ui].ID

		var cash *models.Account
		oldIDs := map[int64]bool{}
		for i := range doc.Accounts {
			a := &doc.Accounts[i]
			if a.UserID != uid {
				continue
			}
			if a.Name == defaultCashName {
				cash = a
			} else if isOldCashName(a.Name) {
				oldIDs[a.ID] = true
			}
		}
		if cash == nil || len(oldIDs) == 0 {
			continue
		}

		for i := range doc.Transactions {
			t := &doc.Transactions[i]
			if t.UserID == uid && oldIDs[t.AccountID] {
				t.AccountID = cash.ID
				t.UpdatedAt = now
			}
		}

		kept := doc.Accounts[:0]
		for _, a := range doc.Accounts {
			if a.UserID == uid && oldIDs[a.ID] {
				continue
			}
			kept = append(kept, a)
		}
		doc.Accounts = kept
		changed = true
	}

	if changed {
		doc.RecomputeBalances(now)
	}
	return changed
}
