package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/walletcore/backend/internal/models"
)

func TestPostgresStore_GetAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)

	t.Run("existing account", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, balance, created_at, updated_at FROM accounts WHERE id = \\$1").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "balance", "created_at", "updated_at"}).
				AddRow(1, 1000, time.Now(), time.Now()))

		acct, err := store.GetAccount(context.Background(), 1)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), acct.ID)
		assert.Equal(t, int64(1000), acct.Balance)
	})

	t.Run("missing account", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, balance, created_at, updated_at FROM accounts WHERE id = \\$1").
			WithArgs(int64(999)).
			WillReturnError(sql.ErrNoRows)

		_, err := store.GetAccount(context.Background(), 999)
		assert.ErrorIs(t, err, models.ErrAccountNotFound)
	})
}

func TestPostgresStore_SaveAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)

	t.Run("overwrites balance", func(t *testing.T) {
		mock.ExpectBegin()
		tx, err := store.BeginTx(context.Background())
		assert.NoError(t, err)

		mock.ExpectExec("UPDATE accounts SET balance = \\$1, updated_at = \\$2 WHERE id = \\$3").
			WithArgs(int64(900), sqlmock.AnyArg(), int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = store.SaveAccount(context.Background(), tx, &models.Account{ID: 1, Balance: 900})
		assert.NoError(t, err)
	})

	t.Run("missing account", func(t *testing.T) {
		mock.ExpectBegin()
		tx, err := store.BeginTx(context.Background())
		assert.NoError(t, err)

		mock.ExpectExec("UPDATE accounts SET balance = \\$1, updated_at = \\$2 WHERE id = \\$3").
			WithArgs(int64(900), sqlmock.AnyArg(), int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = store.SaveAccount(context.Background(), tx, &models.Account{ID: 42, Balance: 900})
		assert.ErrorIs(t, err, models.ErrAccountNotFound)
	})
}

func TestPostgresStore_AppendTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)

	mock.ExpectBegin()
	tx, err := store.BeginTx(context.Background())
	assert.NoError(t, err)

	mock.ExpectQuery("INSERT INTO transactions").
		WithArgs(int64(1), "purchase", int64(-100), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	record, err := store.AppendTransaction(context.Background(), tx, 1, "purchase", -100)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), record.ID)
	assert.Equal(t, int64(1), record.AccountID)
	assert.Equal(t, "purchase", record.Action)
	assert.Equal(t, int64(-100), record.Amount)
	assert.NotEmpty(t, record.Reference)
	assert.False(t, record.CreatedAt.IsZero())
}

func TestPostgresStore_EnsureSeedAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)

	t.Run("creates when absent", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO accounts").
			WithArgs(int64(1), int64(1000), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := store.EnsureSeedAccount(context.Background(), 1, 1000)
		assert.NoError(t, err)
	})

	t.Run("no-op when present", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO accounts").
			WithArgs(int64(1), int64(1000), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.EnsureSeedAccount(context.Background(), 1, 1000)
		assert.NoError(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListTransactions(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)

	mock.ExpectQuery("SELECT id, account_id, action, amount, reference, created_at FROM transactions WHERE account_id = \\$1 ORDER BY id").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "action", "amount", "reference", "created_at"}).
			AddRow(1, 1, "purchase", -100, "ref-1", time.Now()).
			AddRow(2, 1, "refund", 100, "ref-2", time.Now()))

	records, err := store.ListTransactions(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "purchase", records[0].Action)
	assert.Equal(t, int64(100), records[1].Amount)
}
