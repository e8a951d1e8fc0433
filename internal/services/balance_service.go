package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/walletcore/backend/internal/models"
	"github.com/walletcore/backend/internal/store"
)

// BalanceService implements the charge protocol on top of a ledger
// store: validate the request, debit the account, append the audit
// record. The balance overwrite and the record append commit as one
// unit, so a crash can never leave a balance change without its
// matching record.
type BalanceService struct {
	store    store.Store
	redis    *redis.Client
	cacheTTL time.Duration
}

// NewBalanceService wires the service. redisClient may be nil; the
// balance cache is then skipped entirely.
func NewBalanceService(st store.Store, redisClient *redis.Client, cacheTTL time.Duration) *BalanceService {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &BalanceService{
		store:    st,
		redis:    redisClient,
		cacheTTL: cacheTTL,
	}
}

// ChargeUser debits amount from the user's account and records the
// debit in the transaction log. On success it returns the post-charge
// balance; on any failure no mutation is observable.
//
// Concurrent charges against the same account are serialized by the
// store (row lock or per-account mutex) across the whole
// read-check-write sequence, so two debits can never both read the
// same balance and overwrite each other.
func (s *BalanceService) ChargeUser(ctx context.Context, userID int64, action string, amount int64) (int64, error) {
	// The boundary validates amount > 0 already; rejecting here keeps
	// the invariant even for internal callers.
	if amount <= 0 {
		return 0, models.ErrInvalidAmount
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("charge failed: %w", err)
	}
	defer tx.Rollback()

	acct, err := s.store.GetAccountForUpdate(ctx, tx, userID)
	if err != nil {
		return 0, err
	}

	if acct.Balance < amount {
		return 0, models.ErrInsufficientFunds
	}

	// newBalance >= 0 is guaranteed by the check above.
	acct.Balance -= amount

	// Balance first, record second: the record only ever documents a
	// mutation that is part of the same commit.
	if err := s.store.SaveAccount(ctx, tx, acct); err != nil {
		return 0, fmt.Errorf("charge failed: %w", err)
	}

	if _, err := s.store.AppendTransaction(ctx, tx, userID, action, -amount); err != nil {
		return 0, fmt.Errorf("charge failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("charge failed: %w", err)
	}

	s.invalidateBalance(ctx, userID)
	return acct.Balance, nil
}

// GetBalance returns the current balance, read through the Redis
// cache when one is configured.
func (s *BalanceService) GetBalance(ctx context.Context, userID int64) (int64, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, balanceKey(userID)).Result()
		if err == nil {
			if balance, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
				return balance, nil
			}
		} else if err != redis.Nil {
			log.Printf("[LEDGER] Balance cache read failed: %v", err)
		}
	}

	acct, err := s.store.GetAccount(ctx, userID)
	if err != nil {
		return 0, err
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, balanceKey(userID), strconv.FormatInt(acct.Balance, 10), s.cacheTTL).Err(); err != nil {
			log.Printf("[LEDGER] Balance cache write failed: %v", err)
		}
	}
	return acct.Balance, nil
}

// ListHistory returns the account's audit trail in insertion order.
func (s *BalanceService) ListHistory(ctx context.Context, userID int64) ([]models.TransactionRecord, error) {
	if _, err := s.store.GetAccount(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListTransactions(ctx, userID)
}

func (s *BalanceService) invalidateBalance(ctx context.Context, userID int64) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, balanceKey(userID)).Err(); err != nil {
		// The cached value expires on its own; a failed invalidation
		// only extends staleness up to the TTL.
		log.Printf("[LEDGER] Balance cache invalidation failed: %v", err)
	}
}

func balanceKey(userID int64) string {
	return fmt.Sprintf("balance:%d", userID)
}
