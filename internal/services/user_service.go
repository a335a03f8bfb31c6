package services

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	apperrors "tally/internal/errors"
	"tally/internal/models"
	"tally/internal/store"
)

// Seed data for new users.
const (
	seedCashAccount    = "Cash"
	seedCardAccount    = "Card"
	seedExpenseName    = "Dining"
	seedExpenseColor   = "#F87171"
	seedIncomeName     = "Salary"
	seedIncomeColor    = "#34D399"
	defaultLocale      = "en-US"
	defaultCurrency    = "USD"
	defaultCategoryHue = "#60A5FA"
)

// userService handles user-related business logic.
type userService struct {
	store *store.Store
}

// NewUserService creates a new UserServicer.
func NewUserService(st *store.Store) UserServicer {
	return &userService{store: st}
}

// Register creates a new user and seeds its default accounts and
// categories. The returned user carries its password hash stripped.
func (s *userService) Register(username, email, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "username and password are required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var created models.User
	err = s.store.Update(func(doc *models.Document) error {
		if doc.FindUserByUsername(username) != nil {
			return apperrors.ErrDuplicateUsername
		}

		now := time.Now()
		user := models.User{
			ID:           doc.NextID(),
			Username:     username,
			Email:        email,
			PasswordHash: string(hashed),
			DisplayName:  username,
			Locale:       defaultLocale,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		doc.Users = append(doc.Users, user)

		for _, name := range []string{seedCashAccount, seedCardAccount} {
			doc.Accounts = append(doc.Accounts, models.Account{
				ID:        doc.NextID(),
				UserID:    user.ID,
				Name:      name,
				Currency:  defaultCurrency,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
		doc.Categories = append(doc.Categories,
			models.Category{
				ID:        doc.NextID(),
				UserID:    user.ID,
				Name:      seedExpenseName,
				Type:      models.CategoryTypeExpense,
				Color:     seedExpenseColor,
				CreatedAt: now,
				UpdatedAt: now,
			},
			models.Category{
				ID:        doc.NextID(),
				UserID:    user.ID,
				Name:      seedIncomeName,
				Type:      models.CategoryTypeIncome,
				Color:     seedIncomeColor,
				CreatedAt: now,
				UpdatedAt: now,
			},
		)

		created = stripUser(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Login checks a user's credentials. A missing username fails with
// USER_NOT_FOUND; a credential mismatch fails with INVALID_CREDENTIALS.
func (s *userService) Login(username, password string) (*models.User, error) {
	var user models.User
	err := s.store.View(func(doc *models.Document) error {
		u := doc.FindUserByUsername(username)
		if u == nil {
			return apperrors.ErrUserNotFound
		}
		user = *u
		return nil
	})
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	user = stripUser(user)
	return &user, nil
}

// GetUserByID retrieves a user by id with its password hash stripped.
func (s *userService) GetUserByID(id int64) (*models.User, error) {
	var user models.User
	err := s.store.View(func(doc *models.Document) error {
		u := doc.FindUser(id)
		if u == nil {
			return apperrors.ErrUserNotFound
		}
		user = stripUser(*u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// stripUser blanks the password credential before a user leaves the store.
func stripUser(u models.User) models.User {
	u.PasswordHash = ""
	return u
}
