package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "tally/internal/errors"
	"tally/internal/models"
	"tally/internal/services"
)

// TransactionHandler handles transaction-related requests
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the transaction creation payload
type CreateTransactionRequest struct {
	Date       string           `json:"date" binding:"required"`
	Amount     *decimal.Decimal `json:"amount" binding:"required"`
	Type       string           `json:"type" binding:"required,transaction_type"`
	AccountID  int64            `json:"accountId" binding:"required"`
	CategoryID *int64           `json:"categoryId"`
	Currency   string           `json:"currency" binding:"omitempty,currency_code"`
	Note       string           `json:"note"`
	Cleared    *bool            `json:"cleared"`
	TagIDs     []int64          `json:"tagIds"`
}

// UpdateTransactionRequest represents the transaction update payload.
// A non-nil tagIds replaces the whole tag set.
type UpdateTransactionRequest struct {
	Date       *string          `json:"date"`
	Amount     *decimal.Decimal `json:"amount"`
	Type       *string          `json:"type" binding:"omitempty,transaction_type"`
	AccountID  *int64           `json:"accountId"`
	CategoryID *int64           `json:"categoryId"`
	Currency   *string          `json:"currency" binding:"omitempty,currency_code"`
	Note       *string          `json:"note"`
	Cleared    *bool            `json:"cleared"`
	TagIDs     *[]int64         `json:"tagIds"`
}

// parseTransactionFilter reads the recognized list-filter query options.
func parseTransactionFilter(c *gin.Context) services.TransactionFilter {
	filter := services.TransactionFilter{
		FromDate: c.Query("from"),
		ToDate:   c.Query("to"),
		Keyword:  c.Query("keyword"),
	}
	if v := c.Query("accountId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.AccountID = id
		}
	}
	if v := c.Query("tagId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.TagIDs = append(filter.TagIDs, id)
		}
	}
	if v := c.Query("tagIds"); v != "" {
		for _, part := range strings.Split(v, ",") {
			if id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64); err == nil {
				filter.TagIDs = append(filter.TagIDs, id)
			}
		}
	}
	return filter
}

// ListTransactions returns the user's filtered transactions, newest first.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rows, err := h.transactionService.ListTransactions(userID, parseTransactionFilter(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": rows})
}

// CreateTransaction creates a new transaction and applies its balance effect.
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	row, err := h.transactionService.CreateTransaction(userID, services.CreateTransactionParams{
		Date:       req.Date,
		Amount:     *req.Amount,
		Type:       models.TransactionType(req.Type),
		AccountID:  req.AccountID,
		CategoryID: req.CategoryID,
		Currency:   req.Currency,
		Note:       req.Note,
		Cleared:    req.Cleared,
		TagIDs:     req.TagIDs,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": row})
}

// UpdateTransaction applies a partial patch to a transaction.
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	patch := services.TransactionPatch{
		Date:       req.Date,
		Amount:     req.Amount,
		AccountID:  req.AccountID,
		CategoryID: req.CategoryID,
		Currency:   req.Currency,
		Note:       req.Note,
		Cleared:    req.Cleared,
		TagIDs:     req.TagIDs,
	}
	if req.Type != nil {
		t := models.TransactionType(*req.Type)
		patch.Type = &t
	}

	row, err := h.transactionService.UpdateTransaction(userID, transactionID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": row})
}

// DeleteTransaction removes a transaction and reverses its balance effect.
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
