package testutil

import (
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/models"
	"tally/internal/store"
)

// counter keeps fixture names unique across a test binary.
var counter atomic.Int64

// SetupTestStore opens a fresh ledger store backed by a temp directory.
func SetupTestStore(t *testing.T) *store.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ledger.json")
	st, err := store.Open(path)
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	return st
}

// CreateTestUser inserts a user row directly into the document. It does
// not seed default accounts; tests create exactly what they need.
func CreateTestUser(t *testing.T, st *store.Store) *models.User {
	t.Helper()

	n := counter.Add(1)
	var user models.User
	err := st.Update(func(doc *models.Document) error {
		now := time.Now()
		user = models.User{
			ID:           doc.NextID(),
			Username:     fmt.Sprintf("user%d", n),
			Email:        fmt.Sprintf("user%d@example.com", n),
			PasswordHash: "x",
			DisplayName:  fmt.Sprintf("user%d", n),
			Locale:       "en-US",
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		doc.Users = append(doc.Users, user)
		return nil
	})
	AssertNoError(t, err)
	return &user
}

// CreateTestAccount inserts an account row with a zero balance.
func CreateTestAccount(t *testing.T, st *store.Store, userID int64, name string) *models.Account {
	t.Helper()

	var account models.Account
	err := st.Update(func(doc *models.Document) error {
		now := time.Now()
		account = models.Account{
			ID:        doc.NextID(),
			UserID:    userID,
			Name:      name,
			Balance:   decimal.Zero,
			Currency:  "USD",
			CreatedAt: now,
			UpdatedAt: now,
		}
		doc.Accounts = append(doc.Accounts, account)
		return nil
	})
	AssertNoError(t, err)
	return &account
}

// CreateTestCategory inserts a category row.
func CreateTestCategory(t *testing.T, st *store.Store, userID int64, categoryType models.CategoryType) *models.Category {
	t.Helper()

	n := counter.Add(1)
	var category models.Category
	err := st.Update(func(doc *models.Document) error {
		now := time.Now()
		category = models.Category{
			ID:        doc.NextID(),
			UserID:    userID,
			Name:      fmt.Sprintf("category%d", n),
			Type:      categoryType,
			Color:     "#60A5FA",
			CreatedAt: now,
			UpdatedAt: now,
		}
		doc.Categories = append(doc.Categories, category)
		return nil
	})
	AssertNoError(t, err)
	return &category
}

// CreateTestTag inserts a tag row.
func CreateTestTag(t *testing.T, st *store.Store, userID int64, name string) *models.Tag {
	t.Helper()

	var tag models.Tag
	err := st.Update(func(doc *models.Document) error {
		now := time.Now()
		tag = models.Tag{
			ID:        doc.NextID(),
			UserID:    userID,
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		}
		doc.Tags = append(doc.Tags, tag)
		return nil
	})
	AssertNoError(t, err)
	return &tag
}

// AccountBalance reads an account's current balance.
func AccountBalance(t *testing.T, st *store.Store, userID, accountID int64) decimal.Decimal {
	t.Helper()

	var balance decimal.Decimal
	err := st.View(func(doc *models.Document) error {
		acc := doc.FindAccount(userID, accountID)
		if acc == nil {
			t.Fatalf("account %d not found for user %d", accountID, userID)
		}
		balance = acc.Balance
		return nil
	})
	AssertNoError(t, err)
	return balance
}
