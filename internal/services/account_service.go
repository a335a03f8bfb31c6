package services

import (
	"time"

	apperrors "tally/internal/errors"
	"tally/internal/models"
	"tally/internal/store"
)

// accountService handles account-related business logic.
type accountService struct {
	store *store.Store
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(st *store.Store) AccountServicer {
	return &accountService{store: st}
}

// ListAccounts returns all accounts owned by the user.
func (s *accountService) ListAccounts(userID int64) ([]models.Account, error) {
	var accounts []models.Account
	err := s.store.View(func(doc *models.Document) error {
		accounts = []models.Account{}
		for _, a := range doc.Accounts {
			if a.UserID == userID {
				accounts = append(accounts, a)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// CreateAccount creates a new account with a zero balance.
func (s *accountService) CreateAccount(userID int64, name, currency string) (*models.Account, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}
	if currency == "" {
		currency = defaultCurrency
	}

	var created models.Account
	err := s.store.Update(func(doc *models.Document) error {
		now := time.Now()
		created = models.Account{
			ID:        doc.NextID(),
			UserID:    userID,
			Name:      name,
			Currency:  currency,
			CreatedAt: now,
			UpdatedAt: now,
		}
		doc.Accounts = append(doc.Accounts, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateAccount merges a partial patch into an existing account.
func (s *accountService) UpdateAccount(userID, accountID int64, patch AccountPatch) (*models.Account, error) {
	if patch.Name != nil && *patch.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}

	var updated models.Account
	err := s.store.Update(func(doc *models.Document) error {
		acc := doc.FindAccount(userID, accountID)
		if acc == nil {
			return apperrors.ErrAccountNotFound
		}
		if patch.Name != nil {
			acc.Name = *patch.Name
		}
		if patch.Currency != nil {
			acc.Currency = *patch.Currency
		}
		acc.UpdatedAt = time.Now()
		updated = *acc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteAccount removes an account. It fails with ACCOUNT_IN_USE while any
// transaction still references the account.
func (s *accountService) DeleteAccount(userID, accountID int64) error {
	return s.store.Update(func(doc *models.Document) error {
		if doc.FindAccount(userID, accountID) == nil {
			return apperrors.ErrAccountNotFound
		}
		for _, t := range doc.Transactions {
			if t.UserID == userID && t.AccountID == accountID {
				return apperrors.ErrAccountInUse
			}
		}

		kept := doc.Accounts[:0]
		for _, a := range doc.Accounts {
			if a.UserID == userID && a.ID == accountID {
				continue
			}
			kept = append(kept, a)
		}
		doc.Accounts = kept
		return nil
	})
}

// RecomputeBalances rebuilds every account balance from transaction
// history. A repair operation: for a consistent document it is a no-op
// apart from refreshed timestamps.
func (s *accountService) RecomputeBalances() error {
	return s.store.Update(func(doc *models.Document) error {
		doc.RecomputeBalances(time.Now())
		return nil
	})
}
