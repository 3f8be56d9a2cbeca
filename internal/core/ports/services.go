package ports

import (
	"context"
	"time"

	"willbank-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

// IdempotencyCache is the Redis-layer idempotency check (fast path).
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// EventPublisher emits transaction lifecycle notifications. Delivery is
// currently log-only; a broker integration would implement this port.
type EventPublisher interface {
	TransactionCompleted(ctx context.Context, transaction *domain.Transaction)
}

// --- Service Ports (Business Logic) ---

// AccountService owns account records and the balance invariants.
type AccountService interface {
	Create(ctx context.Context, req CreateAccountRequest) (*domain.Account, error)
	GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
	GetBalance(ctx context.Context, accountNumber string) (decimal.Decimal, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error)
	AdjustBalance(ctx context.Context, accountNumber string, amount decimal.Decimal, op domain.BalanceOperation) (*domain.Account, error)
	SetStatus(ctx context.Context, accountNumber string, status domain.AccountStatus) (*domain.Account, error)
}

// CreateAccountRequest holds validated input for account creation.
type CreateAccountRequest struct {
	CustomerID     int64
	AccountType    domain.AccountType
	InitialBalance decimal.Decimal
}

// TransactionService drives the deposit/withdrawal orchestration.
type TransactionService interface {
	ProcessDeposit(ctx context.Context, req MovementRequest) (*domain.Transaction, error)
	ProcessWithdrawal(ctx context.Context, req MovementRequest) (*domain.Transaction, error)
	GetByReference(ctx context.Context, reference string) (*domain.Transaction, error)
	ListByAccount(ctx context.Context, accountNumber string) ([]domain.Transaction, error)
}

// MovementRequest holds validated input for a deposit or withdrawal.
// IdempotencyKey is an optional client token; when present, resubmission
// with the same token returns the prior transaction instead of creating a
// new record.
type MovementRequest struct {
	AccountNumber  string
	Amount         decimal.Decimal
	Description    string
	IdempotencyKey string
}
