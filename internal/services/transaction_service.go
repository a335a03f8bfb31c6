package services

import (
	"time"

	"github.com/shopspring/decimal"

	apperrors "tally/internal/errors"
	"tally/internal/models"
	"tally/internal/money"
	"tally/internal/store"
)

// transactionService handles transaction-related business logic, including
// the balance-update protocol.
type transactionService struct {
	store *store.Store
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(st *store.Store) TransactionServicer {
	return &transactionService{store: st}
}

// ListTransactions returns the user's transactions matching the filter,
// sorted by date descending, each enriched with its tag ids.
func (s *transactionService) ListTransactions(userID int64, filter TransactionFilter) ([]TaggedTransaction, error) {
	var rows []TaggedTransaction
	err := s.store.View(func(doc *models.Document) error {
		rows = listTransactions(doc, userID, filter)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateTransaction validates and inserts a new transaction, attaches its
// tags, and applies the balance effect to the referenced account.
func (s *transactionService) CreateTransaction(userID int64, params CreateTransactionParams) (*TaggedTransaction, error) {
	var created TaggedTransaction
	err := s.store.Update(func(doc *models.Document) error {
		row, err := createTransaction(doc, userID, params, time.Now())
		if err != nil {
			return err
		}
		created = TaggedTransaction{Transaction: *row, Tags: doc.TagIDsFor(userID, row.ID)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTransaction applies a partial patch under the reverse-then-reapply
// protocol: the old balance effect is reversed on the old account, the
// patch is merged and re-validated, tag rows are replaced when a tag list
// is supplied, and the new effect is applied to the (possibly different)
// account. The whole sequence runs on a working copy, so a validation
// failure leaves the document untouched.
func (s *transactionService) UpdateTransaction(userID, transactionID int64, patch TransactionPatch) (*TaggedTransaction, error) {
	var updated TaggedTransaction
	err := s.store.Update(func(doc *models.Document) error {
		now := time.Now()

		tx := doc.FindTransaction(userID, transactionID)
		if tx == nil {
			return apperrors.ErrTransactionNotFound
		}

		if old := doc.FindAccount(userID, tx.AccountID); old != nil {
			applyEffect(old, tx.BalanceEffect().Neg(), now)
		}

		if patch.Date != nil {
			tx.Date = *patch.Date
		}
		if patch.Amount != nil {
			tx.Amount = *patch.Amount
		}
		if patch.Type != nil {
			tx.Type = *patch.Type
		}
		if patch.AccountID != nil {
			tx.AccountID = *patch.AccountID
		}
		if patch.CategoryID != nil {
			tx.CategoryID = patch.CategoryID
		}
		if patch.Currency != nil {
			tx.Currency = *patch.Currency
		}
		if patch.Note != nil {
			tx.Note = *patch.Note
		}
		if patch.Cleared != nil {
			tx.Cleared = *patch.Cleared
		}
		tx.UpdatedAt = now

		if err := validateTransaction(doc, userID, tx); err != nil {
			return err
		}
		tx.Amount = money.Round2(tx.Amount)

		if patch.TagIDs != nil {
			replaceTransactionTags(doc, userID, tx.ID, *patch.TagIDs)
		}

		account := doc.FindAccount(userID, tx.AccountID)
		applyEffect(account, tx.BalanceEffect(), now)

		updated = TaggedTransaction{Transaction: *tx, Tags: doc.TagIDsFor(userID, tx.ID)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTransaction reverses the balance effect and removes the
// transaction row together with all of its tag rows.
func (s *transactionService) DeleteTransaction(userID, transactionID int64) error {
	return s.store.Update(func(doc *models.Document) error {
		now := time.Now()

		tx := doc.FindTransaction(userID, transactionID)
		if tx == nil {
			return apperrors.ErrTransactionNotFound
		}

		if acc := doc.FindAccount(userID, tx.AccountID); acc != nil {
			applyEffect(acc, tx.BalanceEffect().Neg(), now)
		}

		keptTx := doc.Transactions[:0]
		for _, t := range doc.Transactions {
			if t.UserID == userID && t.ID == transactionID {
				continue
			}
			keptTx = append(keptTx, t)
		}
		doc.Transactions = keptTx

		keptJoins := doc.TransactionTags[:0]
		for _, tt := range doc.TransactionTags {
			if tt.UserID == userID && tt.TransactionID == transactionID {
				continue
			}
			keptJoins = append(keptJoins, tt)
		}
		doc.TransactionTags = keptJoins
		return nil
	})
}

// createTransaction inserts a validated transaction into the document. It
// is shared with the import engine, which creates rows through the exact
// same path.
func createTransaction(doc *models.Document, userID int64, params CreateTransactionParams, now time.Time) (*models.Transaction, error) {
	row := models.Transaction{
		UserID:     userID,
		AccountID:  params.AccountID,
		CategoryID: params.CategoryID,
		Date:       params.Date,
		Amount:     params.Amount,
		Type:       params.Type,
		Currency:   params.Currency,
		Note:       params.Note,
		Cleared:    true,
	}
	if params.Cleared != nil {
		row.Cleared = *params.Cleared
	}

	if err := validateTransaction(doc, userID, &row); err != nil {
		return nil, err
	}

	account := doc.FindAccount(userID, row.AccountID)
	if row.Currency == "" {
		row.Currency = account.Currency
	}
	row.ID = doc.NextID()
	row.Amount = money.Round2(row.Amount)
	row.CreatedAt = now
	row.UpdatedAt = now

	doc.Transactions = append(doc.Transactions, row)
	for _, tagID := range params.TagIDs {
		doc.TransactionTags = append(doc.TransactionTags, models.TransactionTag{
			TransactionID: row.ID,
			TagID:         tagID,
			UserID:        userID,
		})
	}

	applyEffect(account, row.BalanceEffect(), now)
	return &doc.Transactions[len(doc.Transactions)-1], nil
}

// validateTransaction checks the invariants shared by create and update:
// date present, amount non-zero, type INCOME or EXPENSE, and referenced
// account/category owned by the user.
func validateTransaction(doc *models.Document, userID int64, tx *models.Transaction) error {
	if tx.Date == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}
	if tx.Amount.IsZero() {
		return apperrors.ErrZeroAmount
	}
	if tx.Type != models.TransactionTypeIncome && tx.Type != models.TransactionTypeExpense {
		return apperrors.ErrInvalidTransactionType
	}
	if doc.FindAccount(userID, tx.AccountID) == nil {
		return apperrors.ErrAccountNotFound
	}
	if tx.CategoryID != nil && doc.FindCategory(userID, *tx.CategoryID) == nil {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

// applyEffect adds a signed balance effect to an account, rounding at the
// cent boundary.
func applyEffect(account *models.Account, effect decimal.Decimal, now time.Time) {
	if account == nil {
		return
	}
	account.Balance = money.Round2(account.Balance.Add(effect))
	account.UpdatedAt = now
}

// replaceTransactionTags swaps a transaction's whole tag set: every
// existing join row is removed before the new set is inserted.
func replaceTransactionTags(doc *models.Document, userID, transactionID int64, tagIDs []int64) {
	kept := doc.TransactionTags[:0]
	for _, tt := range doc.TransactionTags {
		if tt.UserID == userID && tt.TransactionID == transactionID {
			continue
		}
		kept = append(kept, tt)
	}
	doc.TransactionTags = kept

	for _, tagID := range tagIDs {
		doc.TransactionTags = append(doc.TransactionTags, models.TransactionTag{
			TransactionID: transactionID,
			TagID:         tagID,
			UserID:        userID,
		})
	}
}
