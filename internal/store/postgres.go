package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/walletcore/backend/internal/models"
)

// PostgresStore implements Store on top of database/sql + lib/pq.
// Per-account serialization comes from SELECT ... FOR UPDATE row
// locks held for the lifetime of the surrounding transaction.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// InitSchema creates the ledger tables if they do not exist.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS accounts (
		id BIGINT PRIMARY KEY,
		balance BIGINT NOT NULL CHECK (balance >= 0),
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id BIGSERIAL PRIMARY KEY,
		account_id BIGINT NOT NULL REFERENCES accounts(id),
		action TEXT NOT NULL,
		amount BIGINT NOT NULL,
		reference VARCHAR(36) NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_account_id ON transactions(account_id);`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create ledger schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

func (s *PostgresStore) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	var acct models.Account
	err := s.db.QueryRowContext(ctx,
		`SELECT id, balance, created_at, updated_at FROM accounts WHERE id = $1`,
		id,
	).Scan(&acct.ID, &acct.Balance, &acct.CreatedAt, &acct.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &acct, nil
}

func (s *PostgresStore) GetAccountForUpdate(ctx context.Context, tx Tx, id int64) (*models.Account, error) {
	sqlTx, err := sqlTxOf(tx)
	if err != nil {
		return nil, err
	}

	var acct models.Account
	err = sqlTx.QueryRowContext(ctx,
		`SELECT id, balance, created_at, updated_at FROM accounts WHERE id = $1 FOR UPDATE`,
		id,
	).Scan(&acct.ID, &acct.Balance, &acct.CreatedAt, &acct.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	return &acct, nil
}

func (s *PostgresStore) SaveAccount(ctx context.Context, tx Tx, acct *models.Account) error {
	sqlTx, err := sqlTxOf(tx)
	if err != nil {
		return err
	}

	result, err := sqlTx.ExecContext(ctx,
		`UPDATE accounts SET balance = $1, updated_at = $2 WHERE id = $3`,
		acct.Balance, time.Now().UTC(), acct.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrAccountNotFound
	}
	return nil
}

func (s *PostgresStore) AppendTransaction(ctx context.Context, tx Tx, accountID int64, action string, amount int64) (*models.TransactionRecord, error) {
	sqlTx, err := sqlTxOf(tx)
	if err != nil {
		return nil, err
	}

	record := models.TransactionRecord{
		AccountID: accountID,
		Action:    action,
		Amount:    amount,
		Reference: uuid.New().String(),
		CreatedAt: time.Now().UTC(),
	}

	err = sqlTx.QueryRowContext(ctx,
		`INSERT INTO transactions (account_id, action, amount, reference, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		record.AccountID, record.Action, record.Amount, record.Reference, record.CreatedAt,
	).Scan(&record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to append transaction: %w", err)
	}
	return &record, nil
}

func (s *PostgresStore) ListTransactions(ctx context.Context, accountID int64) ([]models.TransactionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, account_id, action, amount, reference, created_at
		 FROM transactions WHERE account_id = $1 ORDER BY id`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var records []models.TransactionRecord
	for rows.Next() {
		var r models.TransactionRecord
		if err := rows.Scan(&r.ID, &r.AccountID, &r.Action, &r.Amount, &r.Reference, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return records, nil
}

func (s *PostgresStore) EnsureSeedAccount(ctx context.Context, id, balance int64) error {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, balance, created_at, updated_at)
		 VALUES ($1, $2, $3, $3)
		 ON CONFLICT (id) DO NOTHING`,
		id, balance, now,
	)
	if err != nil {
		return fmt.Errorf("failed to seed account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to seed account: %w", err)
	}
	if rowsAffected == 1 {
		log.Printf("[SEED] Seeded account id=%d with balance=%d", id, balance)
	} else {
		log.Printf("[SEED] Account id=%d already exists", id)
	}
	return nil
}

func sqlTxOf(tx Tx) (*sql.Tx, error) {
	sqlTx, ok := tx.(*sql.Tx)
	if !ok {
		return nil, fmt.Errorf("store: expected *sql.Tx, got %T", tx)
	}
	return sqlTx, nil
}
