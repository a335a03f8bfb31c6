package services

import (
	"time"

	apperrors "tally/internal/errors"
	"tally/internal/models"
	"tally/internal/store"
)

// tagService handles tag-related business logic.
type tagService struct {
	store *store.Store
}

// NewTagService creates a new TagServicer.
func NewTagService(st *store.Store) TagServicer {
	return &tagService{store: st}
}

// ListTags returns all tags owned by the user.
func (s *tagService) ListTags(userID int64) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.store.View(func(doc *models.Document) error {
		tags = []models.Tag{}
		for _, t := range doc.Tags {
			if t.UserID == userID {
				tags = append(tags, t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTag creates a new tag.
func (s *tagService) CreateTag(userID int64, name string) (*models.Tag, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "tag name is required")
	}

	var created models.Tag
	err := s.store.Update(func(doc *models.Document) error {
		now := time.Now()
		created = models.Tag{
			ID:        doc.NextID(),
			UserID:    userID,
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		}
		doc.Tags = append(doc.Tags, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTag merges a partial patch into an existing tag.
func (s *tagService) UpdateTag(userID, tagID int64, patch TagPatch) (*models.Tag, error) {
	if patch.Name != nil && *patch.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "tag name is required")
	}

	var updated models.Tag
	err := s.store.Update(func(doc *models.Document) error {
		tag := doc.FindTag(userID, tagID)
		if tag == nil {
			return apperrors.ErrTagNotFound
		}
		if patch.Name != nil {
			tag.Name = *patch.Name
		}
		tag.UpdatedAt = time.Now()
		updated = *tag
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTag removes a tag. Its join rows are cascaded away first, so
// transactions simply lose the tag rather than blocking the delete.
func (s *tagService) DeleteTag(userID, tagID int64) error {
	return s.store.Update(func(doc *models.Document) error {
		if doc.FindTag(userID, tagID) == nil {
			return apperrors.ErrTagNotFound
		}

		keptJoins := doc.TransactionTags[:0]
		for _, tt := range doc.TransactionTags {
			if tt.UserID == userID && tt.TagID == tagID {
				continue
			}
			keptJoins = append(keptJoins, tt)
		}
		doc.TransactionTags = keptJoins

		keptTags := doc.Tags[:0]
		for _, t := range doc.Tags {
			if t.UserID == userID && t.ID == tagID {
				continue
			}
			keptTags = append(keptTags, t)
		}
		doc.Tags = keptTags
		return nil
	})
}
