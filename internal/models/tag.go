package models

import "time"

// Tag represents a free-form transaction label.
type Tag struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TransactionTag is the transaction-to-tag join row. It has no independent
// id; its identity is the (transactionId, tagId) pair.
type TransactionTag struct {
	TransactionID int64 `json:"transactionId"`
	TagID         int64 `json:"tagId"`
	UserID        int64 `json:"userId"`
}
