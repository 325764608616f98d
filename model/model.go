package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is reference data: a fixed code plus its display name. The name is
// denormalized onto transactions so they stay displayable offline.
type Category struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Transaction is a single financial event. The id is generated on the client
// and stays stable across sync. Amount may be negative (refunds).
type Transaction struct {
	ID          string          `json:"id"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate *time.Time      `json:"expenseDate,omitempty"`
	CreatedDate *time.Time      `json:"createdDate,omitempty"`
	Category    Category        `json:"category"`
	UserID      string          `json:"userId,omitempty"`
}

// User is the profile shape shared by the auth endpoints and the client
// session storage.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Operation is the kind of a pending mutation.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// QueueEntry is one pending mutation awaiting remote submission. The queue
// holds at most one entry per transaction id; Timestamp orders submission.
type QueueEntry struct {
	EntryID     string      `json:"entryId"`
	Operation   Operation   `json:"operation"`
	Transaction Transaction `json:"transaction"`
	IsSynced    bool        `json:"isSynced"`
	Timestamp   int64       `json:"timestamp"`
}

// BulkResponse is what the bulk endpoints return. The server may accept some
// items and reject others; Success is false if anything failed.
type BulkResponse struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message,omitempty"`
	Errors       []string      `json:"errors,omitempty"`
	Transactions []Transaction `json:"transactions,omitempty"`
}

// LoginResponse is returned by login, register and verify-otp.
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Username     string `json:"username"`
	Email        string `json:"email"`
}
