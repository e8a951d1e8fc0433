// Package store provides durable keyed access to accounts and
// append-only access to transaction records. Two backends implement
// the same contract: Postgres and an in-memory map.
package store

import (
	"context"

	"github.com/walletcore/backend/internal/models"
)

// Tx scopes a read-modify-write sequence on a single account. The
// backend holds per-account exclusivity (a row lock or a mutex) from
// GetAccountForUpdate until Commit or Rollback, which is what keeps
// concurrent charges against the same account from interleaving.
type Tx interface {
	Commit() error
	Rollback() error
}

// Store is the ledger storage contract. All policy validation lives
// in the balance service; the store only reports not-found and
// infrastructure failures.
type Store interface {
	BeginTx(ctx context.Context) (Tx, error)

	// GetAccount is a plain point lookup with no side effect.
	GetAccount(ctx context.Context, id int64) (*models.Account, error)

	// GetAccountForUpdate reads an account inside tx and holds
	// exclusive access to it until the tx ends.
	GetAccountForUpdate(ctx context.Context, tx Tx, id int64) (*models.Account, error)

	// SaveAccount overwrites the full mutable state of one account.
	SaveAccount(ctx context.Context, tx Tx, acct *models.Account) error

	// AppendTransaction stores one new record with a freshly assigned
	// id, reference and timestamp. Amount is signed.
	AppendTransaction(ctx context.Context, tx Tx, accountID int64, action string, amount int64) (*models.TransactionRecord, error)

	// ListTransactions returns an account's records in insertion order.
	ListTransactions(ctx context.Context, accountID int64) ([]models.TransactionRecord, error)

	// EnsureSeedAccount creates the account if absent, otherwise does
	// nothing. Called once at process start.
	EnsureSeedAccount(ctx context.Context, id, balance int64) error
}
