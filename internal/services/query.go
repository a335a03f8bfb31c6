package services

import (
	"sort"
	"strings"

	"tally/internal/models"
)

// listTransactions is the query engine: it filters a user's transactions
// by inclusive date range, account, tag set (OR semantics), and keyword,
// ANDing the active filters, then sorts by date descending and enriches
// each row with its tag ids.
func listTransactions(doc *models.Document, userID int64, filter TransactionFilter) []TaggedTransaction {
	rows := []models.Transaction{}
	for _, t := range doc.Transactions {
		if t.UserID != userID {
			continue
		}
		if filter.FromDate != "" && t.Date < filter.FromDate {
			continue
		}
		if filter.ToDate != "" && t.Date > filter.ToDate {
			continue
		}
		if filter.AccountID != 0 && t.AccountID != filter.AccountID {
			continue
		}
		rows = append(rows, t)
	}

	if len(filter.TagIDs) > 0 {
		wanted := make(map[int64]bool, len(filter.TagIDs))
		for _, id := range filter.TagIDs {
			wanted[id] = true
		}
		matched := map[int64]bool{}
		for _, tt := range doc.TransactionTags {
			if tt.UserID == userID && wanted[tt.TagID] {
				matched[tt.TransactionID] = true
			}
		}
		kept := rows[:0]
		for _, t := range rows {
			if matched[t.ID] {
				kept = append(kept, t)
			}
		}
		rows = kept
	}

	if q := strings.ToLower(strings.TrimSpace(filter.Keyword)); q != "" {
		tagNames := tagNamesByTransaction(doc, userID)
		kept := rows[:0]
		for _, t := range rows {
			if matchesKeyword(&t, tagNames[t.ID], q) {
				kept = append(kept, t)
			}
		}
		rows = kept
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date > rows[j].Date
	})

	out := make([]TaggedTransaction, 0, len(rows))
	for _, t := range rows {
		out = append(out, TaggedTransaction{Transaction: t, Tags: doc.TagIDsFor(userID, t.ID)})
	}
	return out
}

// matchesKeyword reports whether the lowercased needle occurs in the note,
// the type name, or any tag name.
func matchesKeyword(t *models.Transaction, tagNames []string, q string) bool {
	if strings.Contains(strings.ToLower(t.Note), q) {
		return true
	}
	if strings.Contains(strings.ToLower(string(t.Type)), q) {
		return true
	}
	for _, name := range tagNames {
		if strings.Contains(name, q) {
			return true
		}
	}
	return false
}

// tagNamesByTransaction resolves the lowercased tag names attached to each
// of the user's transactions.
func tagNamesByTransaction(doc *models.Document, userID int64) map[int64][]string {
	nameByTag := map[int64]string{}
	for _, tag := range doc.Tags {
		if tag.UserID == userID {
			nameByTag[tag.ID] = strings.ToLower(tag.Name)
		}
	}
	names := map[int64][]string{}
	for _, tt := range doc.TransactionTags {
		if tt.UserID != userID {
			continue
		}
		if name, ok := nameByTag[tt.TagID]; ok {
			names[tt.TransactionID] = append(names[tt.TransactionID], name)
		}
	}
	return names
}
