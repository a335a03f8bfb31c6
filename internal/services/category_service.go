package services

import (
	"time"

	apperrors "tally/internal/errors"
	"tally/internal/models"
	"tally/internal/store"
)

// categoryService handles category-related business logic.
type categoryService struct {
	store *store.Store
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(st *store.Store) CategoryServicer {
	return &categoryService{store: st}
}

func validCategoryType(t models.CategoryType) bool {
	return t == models.CategoryTypeIncome || t == models.CategoryTypeExpense
}

// ListCategories returns all categories owned by the user.
func (s *categoryService) ListCategories(userID int64) ([]models.Category, error) {
	var categories []models.Category
	err := s.store.View(func(doc *models.Document) error {
		categories = []models.Category{}
		for _, c := range doc.Categories {
			if c.UserID == userID {
				categories = append(categories, c)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory creates a new category.
func (s *categoryService) CreateCategory(userID int64, name string, categoryType models.CategoryType, color string) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if categoryType == "" {
		categoryType = models.CategoryTypeExpense
	}
	if !validCategoryType(categoryType) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category type must be income or expense")
	}
	if color == "" {
		color = defaultCategoryHue
	}

	var created models.Category
	err := s.store.Update(func(doc *models.Document) error {
		now := time.Now()
		created = models.Category{
			ID:        doc.NextID(),
			UserID:    userID,
			Name:      name,
			Type:      categoryType,
			Color:     color,
			CreatedAt: now,
			UpdatedAt: now,
		}
		doc.Categories = append(doc.Categories, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCategory merges a partial patch into an existing category.
func (s *categoryService) UpdateCategory(userID, categoryID int64, patch CategoryPatch) (*models.Category, error) {
	if patch.Name != nil && *patch.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if patch.Type != nil && !validCategoryType(*patch.Type) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category type must be income or expense")
	}

	var updated models.Category
	err := s.store.Update(func(doc *models.Document) error {
		cat := doc.FindCategory(userID, categoryID)
		if cat == nil {
			return apperrors.ErrCategoryNotFound
		}
		if patch.Name != nil {
			cat.Name = *patch.Name
		}
		if patch.Type != nil {
			cat.Type = *patch.Type
		}
		if patch.Color != nil {
			cat.Color = *patch.Color
		}
		cat.UpdatedAt = time.Now()
		updated = *cat
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCategory removes a category. It fails with CATEGORY_IN_USE while
// any transaction still references the category.
func (s *categoryService) DeleteCategory(userID, categoryID int64) error {
	return s.store.Update(func(doc *models.Document) error {
		if doc.FindCategory(userID, categoryID) == nil {
			return apperrors.ErrCategoryNotFound
		}
		for _, t := range doc.Transactions {
			if t.UserID == userID && t.CategoryID != nil && *t.CategoryID == categoryID {
				return apperrors.ErrCategoryInUse
			}
		}

		kept := doc.Categories[:0]
		for _, c := range doc.Categories {
			if c.UserID == userID && c.ID == categoryID {
				continue
			}
			kept = append(kept, c)
		}
		doc.Categories = kept
		return nil
	})
}
