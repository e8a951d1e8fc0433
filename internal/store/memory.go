package store

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/walletcore/backend/internal/models"
)

// MemoryStore implements Store with plain maps. Per-account
// serialization uses one mutex per account id, acquired at
// GetAccountForUpdate and released when the tx ends, so charges
// against different accounts never contend.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[int64]*models.Account
	records  map[int64][]models.TransactionRecord
	locks    map[int64]*sync.Mutex
	nextID   int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[int64]*models.Account),
		records:  make(map[int64][]models.TransactionRecord),
		locks:    make(map[int64]*sync.Mutex),
	}
}

// memTx stages writes and applies them on Commit, so uncommitted
// state is never observable through plain reads.
type memTx struct {
	s       *MemoryStore
	lock    *sync.Mutex
	acct    *models.Account
	records []models.TransactionRecord
	done    bool
}

func (t *memTx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true

	t.s.mu.Lock()
	if t.acct != nil {
		cp := *t.acct
		cp.UpdatedAt = time.Now().UTC()
		t.s.accounts[cp.ID] = &cp
	}
	for _, r := range t.records {
		t.s.records[r.AccountID] = append(t.s.records[r.AccountID], r)
	}
	t.s.mu.Unlock()

	if t.lock != nil {
		t.lock.Unlock()
	}
	return nil
}

func (t *memTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	if t.lock != nil {
		t.lock.Unlock()
	}
	return nil
}

func (s *MemoryStore) BeginTx(ctx context.Context) (Tx, error) {
	return &memTx{s: s}, nil
}

func (s *MemoryStore) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[id]
	if !ok {
		return nil, models.ErrAccountNotFound
	}
	cp := *acct
	return &cp, nil
}

func (s *MemoryStore) GetAccountForUpdate(ctx context.Context, tx Tx, id int64) (*models.Account, error) {
	mtx, ok := tx.(*memTx)
	if !ok {
		return nil, fmt.Errorf("store: expected *memTx, got %T", tx)
	}

	lock := s.lockFor(id)
	lock.Lock()

	s.mu.RLock()
	acct, exists := s.accounts[id]
	s.mu.RUnlock()
	if !exists {
		lock.Unlock()
		return nil, models.ErrAccountNotFound
	}

	mtx.lock = lock
	cp := *acct
	return &cp, nil
}

func (s *MemoryStore) SaveAccount(ctx context.Context, tx Tx, acct *models.Account) error {
	mtx := tx.(*memTx)
	cp := *acct
	mtx.acct = &cp
	return nil
}

func (s *MemoryStore) AppendTransaction(ctx context.Context, tx Tx, accountID int64, action string, amount int64) (*models.TransactionRecord, error) {
	mtx := tx.(*memTx)

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.mu.Unlock()

	record := models.TransactionRecord{
		ID:        id,
		AccountID: accountID,
		Action:    action,
		Amount:    amount,
		Reference: uuid.New().String(),
		CreatedAt: time.Now().UTC(),
	}
	mtx.records = append(mtx.records, record)
	return &record, nil
}

func (s *MemoryStore) ListTransactions(ctx context.Context, accountID int64) ([]models.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.records[accountID]
	out := make([]models.TransactionRecord, len(records))
	copy(out, records)
	return out, nil
}

func (s *MemoryStore) EnsureSeedAccount(ctx context.Context, id, balance int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[id]; exists {
		log.Printf("[SEED] Account id=%d already exists", id)
		return nil
	}
	now := time.Now().UTC()
	s.accounts[id] = &models.Account{ID: id, Balance: balance, CreatedAt: now, UpdatedAt: now}
	log.Printf("[SEED] Seeded account id=%d with balance=%d", id, balance)
	return nil
}

func (s *MemoryStore) lockFor(id int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}
