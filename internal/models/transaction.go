package models

import (
	"time"
)

// TransactionRecord is one immutable audit entry in the ledger.
// Amount is signed: negative for debits, positive for credits. The
// charge path only ever writes debits, but the model stays symmetric.
//
// A record exists if and only if the account mutation it documents
// has been committed; records are never updated or deleted.
type TransactionRecord struct {
	ID        int64     `json:"id" db:"id"`
	AccountID int64     `json:"account_id" db:"account_id"`
	Action    string    `json:"action" db:"action"`
	Amount    int64     `json:"amount" db:"amount"` // in cents, signed
	Reference string    `json:"reference" db:"reference"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
