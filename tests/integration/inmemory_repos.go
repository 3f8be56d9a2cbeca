package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"willbank-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// --- In-Memory Account Repo with per-account locking ---
//
// The postgres repo serializes balance mutations with SELECT ... FOR UPDATE
// inside a transaction. The in-memory equivalent holds one mutex per
// account: GetByNumberForUpdate acquires it through the tx, Commit and
// Rollback release it. Independent accounts do not contend.

type inMemoryAccountRepo struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
	rowLocks map[string]*sync.Mutex
}

func newInMemoryAccountRepo() *inMemoryAccountRepo {
	return &inMemoryAccountRepo{
		accounts: make(map[string]*domain.Account),
		rowLocks: make(map[string]*sync.Mutex),
	}
}

func (r *inMemoryAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[a.AccountNumber]; ok {
		return fmt.Errorf("account number already exists")
	}
	stored := *a
	r.accounts[a.AccountNumber] = &stored
	r.rowLocks[a.AccountNumber] = &sync.Mutex{}
	return nil
}

func (r *inMemoryAccountRepo) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[accountNumber]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (r *inMemoryAccountRepo) GetByCustomerID(ctx context.Context, customerID int64) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Account
	for _, a := range r.accounts {
		if a.CustomerID == customerID {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *inMemoryAccountRepo) GetByNumberForUpdate(ctx context.Context, tx pgx.Tx, accountNumber string) (*domain.Account, error) {
	r.mu.RLock()
	rowLock, ok := r.rowLocks[accountNumber]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	lt, isLocking := tx.(*lockingTx)
	if !isLocking {
		return nil, fmt.Errorf("tx does not support row locks")
	}
	lt.acquire(rowLock)

	return r.GetByNumber(ctx, accountNumber)
}

func (r *inMemoryAccountRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.ID == id {
			a.Balance = balance
			a.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("account not found")
}

func (r *inMemoryAccountRepo) UpdateStatus(ctx context.Context, accountNumber string, status domain.AccountStatus) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[accountNumber]
	if !ok {
		return nil, nil
	}
	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	copied := *a
	return &copied, nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]*domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{transactions: make(map[uuid.UUID]*domain.Transaction)}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *t
	r.transactions[t.ID] = &stored
	return nil
}

func (r *inMemoryTransactionRepo) GetByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.transactions {
		if t.TransactionReference == reference {
			copied := *t
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *inMemoryTransactionRepo) ListByAccount(ctx context.Context, accountNumber string) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Transaction
	for _, t := range r.transactions {
		if t.FromAccount == accountNumber || (t.ToAccount != nil && *t.ToAccount == accountNumber) {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *inMemoryTransactionRepo) Finalize(ctx context.Context, id uuid.UUID, status domain.TransactionStatus, processedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transactions[id]
	if !ok || t.Status != domain.TransactionStatusPending {
		return false, nil
	}
	t.Status = status
	t.ProcessedAt = &processedAt
	return true, nil
}

// countByStatus is a test helper.
func (r *inMemoryTransactionRepo) countByStatus(status domain.TransactionStatus) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, t := range r.transactions {
		if t.Status == status {
			n++
		}
	}
	return n
}

// --- In-Memory Idempotency Repo ---

type inMemoryIdempotencyRepo struct {
	mu      sync.RWMutex
	records map[string]*domain.IdempotencyRecord
}

func newInMemoryIdempotencyRepo() *inMemoryIdempotencyRepo {
	return &inMemoryIdempotencyRepo{records: make(map[string]*domain.IdempotencyRecord)}
}

func (r *inMemoryIdempotencyRepo) Create(ctx context.Context, rec *domain.IdempotencyRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[rec.Key]; ok {
		return fmt.Errorf("idempotency key already exists")
	}
	r.records[rec.Key] = rec
	return nil
}

func (r *inMemoryIdempotencyRepo) Get(ctx context.Context, key string) (*domain.IdempotencyRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[key]
	if !ok {
		return nil, nil
	}
	return rec, nil
}

// --- Locking Transactor ---

type lockingTransactor struct{}

func newLockingTransactor() *lockingTransactor {
	return &lockingTransactor{}
}

func (t *lockingTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &lockingTx{}, nil
}

// lockingTx tracks row locks acquired during the transaction and releases
// them exactly once on Commit or Rollback.
type lockingTx struct {
	noopTx
	mu       sync.Mutex
	held     []*sync.Mutex
	released bool
}

func (t *lockingTx) acquire(rowLock *sync.Mutex) {
	rowLock.Lock()
	t.mu.Lock()
	t.held = append(t.held, rowLock)
	t.mu.Unlock()
}

func (t *lockingTx) release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return
	}
	t.released = true
	for _, l := range t.held {
		l.Unlock()
	}
	t.held = nil
}

func (t *lockingTx) Commit(ctx context.Context) error {
	t.release()
	return nil
}

func (t *lockingTx) Rollback(ctx context.Context) error {
	t.release()
	return nil
}

// noopTx satisfies the rest of pgx.Tx for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
