package models

import "time"

// User represents a registered user. PasswordHash is persisted in the
// document but must never be exposed to callers; handlers build responses
// from explicit fields instead of marshaling the model.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	DisplayName  string    `json:"displayName"`
	Locale       string    `json:"locale"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
