package services

import (
	"testing"

	"tally/internal/models"
	"tally/internal/testutil"
)

func TestRegister(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		st := testutil.SetupTestStore(t)
		svc := NewUserService(st)

		user, err := svc.Register("alice", "alice@example.com", "password123")
		testutil.AssertNoError(t, err)

		if user.ID == 0 {
			t.Fatal("expected non-zero user ID")
		}
		if user.Username != "alice" {
			t.Errorf("expected username alice, got %s", user.Username)
		}
		if user.PasswordHash != "" {
			t.Error("expected password hash stripped from returned user")
		}
		if user.Locale != "en-US" {
			t.Errorf("expected locale en-US, got %s", user.Locale)
		}
	})

	t.Run("seeds_accounts_and_categories", func(t *testing.T) {
		st := testutil.SetupTestStore(t)
		svc := NewUserService(st)

		user, err := svc.Register("alice", "", "password123")
		testutil.AssertNoError(t, err)

		err = st.View(func(doc *models.Document) error {
			var accounts []models.Account
			for _, a := range doc.Accounts {
				if a.UserID == user.ID {
					accounts = append(accounts, a)
				}
			}
			if len(accounts) != 2 {
				t.Fatalf("expected 2 seeded accounts, got %d", len(accounts))
			}
			if accounts[0].Name != "Cash" || accounts[1].Name != "Card" {
				t.Errorf("expected Cash and Card, got %s and %s", accounts[0].Name, accounts[1].Name)
			}
			for _, a := range accounts {
				if !a.Balance.IsZero() {
					t.Errorf("expected zero balance on %s, got %s", a.Name, a.Balance)
				}
				if a.Currency != "USD" {
					t.Errorf("expected USD on %s, got %s", a.Name, a.Currency)
				}
			}

			var categories []models.Category
			for _, c := range doc.Categories {
				if c.UserID == user.ID {
					categories = append(categories, c)
				}
			}
			if len(categories) != 2 {
				t.Fatalf("expected 2 seeded categories, got %d", len(categories))
			}
			if categories[0].Name != "Dining" || categories[0].Type != models.CategoryTypeExpense {
				t.Errorf("expected expense category Dining, got %s (%s)", categories[0].Name, categories[0].Type)
			}
			if categories[1].Name != "Salary" || categories[1].Type != models.CategoryTypeIncome {
				t.Errorf("expected income category Salary, got %s (%s)", categories[1].Name, categories[1].Type)
			}
			return nil
		})
		testutil.AssertNoError(t, err)
	})

	t.Run("duplicate_username", func(t *testing.T) {
		st := testutil.SetupTestStore(t)
		svc := NewUserService(st)

		_, err := svc.Register("alice", "", "password123")
		testutil.AssertNoError(t, err)

		_, err = svc.Register("alice", "", "otherpassword")
		testutil.AssertAppError(t, err, "DUPLICATE_USERNAME")
	})

	t.Run("missing_fields", func(t *testing.T) {
		st := testutil.SetupTestStore(t)
		svc := NewUserService(st)

		_, err := svc.Register("", "", "password123")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.Register("alice", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("hash_never_persisted_in_plain", func(t *testing.T) {
		st := testutil.SetupTestStore(t)
		svc := NewUserService(st)

		_, err := svc.Register("alice", "", "password123")
		testutil.AssertNoError(t, err)

		err = st.View(func(doc *models.Document) error {
			u := doc.FindUserByUsername("alice")
			if u.PasswordHash == "" || u.PasswordHash == "password123" {
				t.Error("expected a bcrypt hash in the stored document")
			}
			return nil
		})
		testutil.AssertNoError(t, err)
	})
}

func TestLogin(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		st := testutil.SetupTestStore(t)
		svc := NewUserService(st)

		registered, err := svc.Register("alice", "alice@example.com", "password123")
		testutil.AssertNoError(t, err)

		user, err := svc.Login("alice", "password123")
		testutil.AssertNoError(t, err)
		if user.ID != registered.ID {
			t.Errorf("expected user %d, got %d", registered.ID, user.ID)
		}
		if user.PasswordHash != "" {
			t.Error("expected password hash stripped from returned user")
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		st := testutil.SetupTestStore(t)
		svc := NewUserService(st)

		_, err := svc.Register("alice", "", "password123")
		testutil.AssertNoError(t, err)

		_, err = svc.Login("alice", "wrongpassword")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_user", func(t *testing.T) {
		st := testutil.SetupTestStore(t)
		svc := NewUserService(st)

		_, err := svc.Login("nobody", "password123")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestGetUserByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		st := testutil.SetupTestStore(t)
		svc := NewUserService(st)

		registered, err := svc.Register("alice", "", "password123")
		testutil.AssertNoError(t, err)

		user, err := svc.GetUserByID(registered.ID)
		testutil.AssertNoError(t, err)
		if user.Username != "alice" {
			t.Errorf("expected alice, got %s", user.Username)
		}
		if user.PasswordHash != "" {
			t.Error("expected password hash stripped")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		st := testutil.SetupTestStore(t)
		svc := NewUserService(st)

		_, err := svc.GetUserByID(9999)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}
