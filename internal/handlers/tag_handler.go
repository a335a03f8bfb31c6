package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "tally/internal/errors"
	"tally/internal/services"
)

// TagHandler handles tag-related requests
type TagHandler struct {
	tagService services.TagServicer
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tagService services.TagServicer) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// TagRequest represents the tag creation/update payload
type TagRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// ListTags returns all of the user's tags.
func (h *TagHandler) ListTags(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tags, err := h.tagService.ListTags(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// CreateTag creates a new tag.
func (h *TagHandler) CreateTag(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	tag, err := h.tagService.CreateTag(userID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"tag": tag})
}

// UpdateTag renames a tag.
func (h *TagHandler) UpdateTag(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tagID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	tag, err := h.tagService.UpdateTag(userID, tagID, services.TagPatch{Name: &req.Name})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tag": tag})
}

// DeleteTag removes a tag, cascading its join rows.
func (h *TagHandler) DeleteTag(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tagID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.tagService.DeleteTag(userID, tagID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
