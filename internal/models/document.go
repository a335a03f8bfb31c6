// Package models defines the ledger document: the single in-memory
// representation of all persisted entities plus metadata. The whole document
// is serialized to disk as one JSON file with the shape
// {meta, users, accounts, categories, tags, transactions, transactionTags}.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrentVersion is the schema version written by this build.
const CurrentVersion = 2

// firstID is the first entity id a fresh document issues.
const firstID = 100

func init() {
	// The document persists amounts as plain JSON numbers, matching the
	// historical on-disk format.
	decimal.MarshalJSONWithoutQuotes = true
}

// Meta holds document-level metadata. NextID is a single monotonic counter
// shared by every collection: ids are unique across the whole document, not
// per entity kind.
type Meta struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	NextID    int64     `json:"nextId"`
}

// Document is the complete persisted state.
type Document struct {
	Meta            Meta             `json:"meta"`
	Users           []User           `json:"users"`
	Accounts        []Account        `json:"accounts"`
	Categories      []Category       `json:"categories"`
	Tags            []Tag            `json:"tags"`
	Transactions    []Transaction    `json:"transactions"`
	TransactionTags []TransactionTag `json:"transactionTags"`
}

// NewDocument creates a freshly seeded empty document.
func NewDocument(now time.Time) *Document {
	return &Document{
		Meta: Meta{
			Version:   CurrentVersion,
			CreatedAt: now,
			UpdatedAt: now,
			NextID:    firstID,
		},
		Users:           []User{},
		Accounts:        []Account{},
		Categories:      []Category{},
		Tags:            []Tag{},
		Transactions:    []Transaction{},
		TransactionTags: []TransactionTag{},
	}
}

// NextID issues the next document-wide entity id.
func (d *Document) NextID() int64 {
	id := d.Meta.NextID
	d.Meta.NextID++
	return id
}

// Clone returns a deep copy of the document. Mutating operations work on a
// clone and swap it in only on success, so readers never observe a
// partially-applied state.
func (d *Document) Clone() *Document {
	c := &Document{
		Meta:            d.Meta,
		Users:           append([]User(nil), d.Users...),
		Accounts:        append([]Account(nil), d.Accounts...),
		Categories:      append([]Category(nil), d.Categories...),
		Tags:            append([]Tag(nil), d.Tags...),
		Transactions:    append([]Transaction(nil), d.Transactions...),
		TransactionTags: append([]TransactionTag(nil), d.TransactionTags...),
	}
	// Transaction.CategoryID is a pointer and needs its own copy.
	for i := range c.Transactions {
		if c.Transactions[i].CategoryID != nil {
			id := *c.Transactions[i].CategoryID
			c.Transactions[i].CategoryID = &id
		}
	}
	return c
}

// FindUser returns the user with the given id, or nil.
func (d *Document) FindUser(id int64) *User {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i]
		}
	}
	return nil
}

// FindUserByUsername returns the user with the given username, or nil.
func (d *Document) FindUserByUsername(username string) *User {
	for i := range d.Users {
		if d.Users[i].Username == username {
			return &d.Users[i]
		}
	}
	return nil
}

// FindAccount returns the account owned by userID with the given id, or nil.
func (d *Document) FindAccount(userID, id int64) *Account {
	for i := range d.Accounts {
		if d.Accounts[i].ID == id && d.Accounts[i].UserID == userID {
			return &d.Accounts[i]
		}
	}
	return nil
}

// FindCategory returns the category owned by userID with the given id, or nil.
func (d *Document) FindCategory(userID, id int64) *Category {
	for i := range d.Categories {
		if d.Categories[i].ID == id && d.Categories[i].UserID == userID {
			return &d.Categories[i]
		}
	}
	return nil
}

// FindTag returns the tag owned by userID with the given id, or nil.
func (d *Document) FindTag(userID, id int64) *Tag {
	for i := range d.Tags {
		if d.Tags[i].ID == id && d.Tags[i].UserID == userID {
			return &d.Tags[i]
		}
	}
	return nil
}

// FindTransaction returns the transaction owned by userID with the given id, or nil.
func (d *Document) FindTransaction(userID, id int64) *Transaction {
	for i := range d.Transactions {
		if d.Transactions[i].ID == id && d.Transactions[i].UserID == userID {
			return &d.Transactions[i]
		}
	}
	return nil
}

// TagIDsFor returns the tag ids attached to a transaction, in join-row order.
func (d *Document) TagIDsFor(userID, transactionID int64) []int64 {
	ids := []int64{}
	for _, tt := range d.TransactionTags {
		if tt.UserID == userID && tt.TransactionID == transactionID {
			ids = append(ids, tt.TagID)
		}
	}
	return ids
}
