package ports

import (
	"context"
	"time"

	"willbank-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountRepository defines persistence operations for accounts.
// Methods accepting pgx.Tx run inside transaction blocks so the balance
// read-modify-write can hold a row lock.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
	GetByCustomerID(ctx context.Context, customerID int64) ([]domain.Account, error)
	GetByNumberForUpdate(ctx context.Context, tx pgx.Tx, accountNumber string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance decimal.Decimal) error
	UpdateStatus(ctx context.Context, accountNumber string, status domain.AccountStatus) (*domain.Account, error)
}

// TransactionRepository defines persistence operations for the transaction
// ledger. Records are append-created and then finalized in place.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *domain.Transaction) error
	GetByReference(ctx context.Context, reference string) (*domain.Transaction, error)
	// ListByAccount returns transactions matching either side of the
	// movement, most recent first.
	ListByAccount(ctx context.Context, accountNumber string) ([]domain.Transaction, error)
	// Finalize transitions a PENDING record to a terminal status and stamps
	// processedAt. Returns false if the record was not PENDING, enforcing
	// the single terminal transition.
	Finalize(ctx context.Context, id uuid.UUID, status domain.TransactionStatus, processedAt time.Time) (bool, error)
}

// IdempotencyRepository defines persistence for idempotency records (DB backup).
type IdempotencyRepository interface {
	Create(ctx context.Context, record *domain.IdempotencyRecord) error
	Get(ctx context.Context, key string) (*domain.IdempotencyRecord, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
