package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walletcore/backend/internal/models"
)

func TestMemoryStore_EnsureSeedAccountIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.EnsureSeedAccount(ctx, 1, 1000))
	require.NoError(t, s.EnsureSeedAccount(ctx, 1, 1000))

	acct, err := s.GetAccount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), acct.ID)
	assert.Equal(t, int64(1000), acct.Balance)
}

func TestMemoryStore_SeedDoesNotOverwriteExistingBalance(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.EnsureSeedAccount(ctx, 1, 1000))

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	acct, err := s.GetAccountForUpdate(ctx, tx, 1)
	require.NoError(t, err)
	acct.Balance = 400
	require.NoError(t, s.SaveAccount(ctx, tx, acct))
	require.NoError(t, tx.Commit())

	// A restart re-runs the seed step; the mutated balance must survive.
	require.NoError(t, s.EnsureSeedAccount(ctx, 1, 1000))

	acct, err = s.GetAccount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(400), acct.Balance)
}

func TestMemoryStore_GetAccountMissing(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.GetAccount(context.Background(), 999)
	assert.ErrorIs(t, err, models.ErrAccountNotFound)
}

func TestMemoryStore_RollbackDiscardsStagedWrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.EnsureSeedAccount(ctx, 1, 1000))

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)

	acct, err := s.GetAccountForUpdate(ctx, tx, 1)
	require.NoError(t, err)
	acct.Balance = 0
	require.NoError(t, s.SaveAccount(ctx, tx, acct))
	_, err = s.AppendTransaction(ctx, tx, 1, "purchase", -1000)
	require.NoError(t, err)

	require.NoError(t, tx.Rollback())

	acct, err = s.GetAccount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), acct.Balance)

	records, err := s.ListTransactions(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMemoryStore_CommitAppliesWritesTogether(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.EnsureSeedAccount(ctx, 1, 1000))

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)

	acct, err := s.GetAccountForUpdate(ctx, tx, 1)
	require.NoError(t, err)
	acct.Balance -= 100
	require.NoError(t, s.SaveAccount(ctx, tx, acct))

	record, err := s.AppendTransaction(ctx, tx, 1, "purchase", -100)
	require.NoError(t, err)
	assert.NotEmpty(t, record.Reference)

	// Staged writes are invisible until commit.
	snapshot, err := s.GetAccount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), snapshot.Balance)

	require.NoError(t, tx.Commit())

	acct, err = s.GetAccount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(900), acct.Balance)

	records, err := s.ListTransactions(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(-100), records[0].Amount)
	assert.Equal(t, "purchase", records[0].Action)
}

func TestMemoryStore_ForUpdateMissingAccountReleasesLock(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	_, err = s.GetAccountForUpdate(ctx, tx, 7)
	assert.ErrorIs(t, err, models.ErrAccountNotFound)
	require.NoError(t, tx.Rollback())

	// The lock must be free for the next tx against the same id.
	require.NoError(t, s.EnsureSeedAccount(ctx, 7, 100))
	tx2, err := s.BeginTx(ctx)
	require.NoError(t, err)
	acct, err := s.GetAccountForUpdate(ctx, tx2, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(100), acct.Balance)
	require.NoError(t, tx2.Commit())
}

func TestMemoryStore_TransactionIDsAreMonotonic(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.EnsureSeedAccount(ctx, 1, 1000))

	var lastID int64
	for i := 0; i < 5; i++ {
		tx, err := s.BeginTx(ctx)
		require.NoError(t, err)
		acct, err := s.GetAccountForUpdate(ctx, tx, 1)
		require.NoError(t, err)
		acct.Balance -= 10
		require.NoError(t, s.SaveAccount(ctx, tx, acct))
		record, err := s.AppendTransaction(ctx, tx, 1, "purchase", -10)
		require.NoError(t, err)
		require.NoError(t, tx.Commit())

		assert.Greater(t, record.ID, lastID)
		lastID = record.ID
	}
}
