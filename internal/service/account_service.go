package service

import (
	"context"
	"fmt"
	"time"

	"willbank-ledger/internal/core/domain"
	"willbank-ledger/internal/core/ports"
	"willbank-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// AccountServiceImpl implements ports.AccountService. It is the sole
// integrity boundary for account balances: every mutation runs inside a
// database transaction holding a row lock on the account, so the
// balance >= 0 invariant holds at every observable point.
type AccountServiceImpl struct {
	accountRepo ports.AccountRepository
	transactor  ports.DBTransactor
	log         zerolog.Logger
}

// NewAccountService creates a new AccountServiceImpl.
func NewAccountService(
	accountRepo ports.AccountRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *AccountServiceImpl {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
		transactor:  transactor,
		log:         log,
	}
}

// Create opens a new ACTIVE account with a generated account number.
func (s *AccountServiceImpl) Create(ctx context.Context, req ports.CreateAccountRequest) (*domain.Account, error) {
	if req.CustomerID <= 0 {
		return nil, apperror.Validation("customer_id must be positive")
	}
	if !domain.ValidAccountType(req.AccountType) {
		return nil, apperror.Validation(fmt.Sprintf("unknown account type %q", req.AccountType))
	}
	if req.InitialBalance.IsNegative() {
		return nil, apperror.Validation("initial_balance must not be negative")
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:            uuid.New(),
		AccountNumber: domain.NewAccountNumber(),
		CustomerID:    req.CustomerID,
		AccountType:   req.AccountType,
		Status:        domain.AccountStatusActive,
		Balance:       req.InitialBalance,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create account: %w", err))
	}

	s.log.Info().
		Str("account_number", account.AccountNumber).
		Int64("customer_id", account.CustomerID).
		Str("account_type", string(account.AccountType)).
		Msg("account created")

	return account, nil
}

// GetByNumber returns the account or NotFound.
func (s *AccountServiceImpl) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	account, err := s.accountRepo.GetByNumber(ctx, accountNumber)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrNotFound("Account")
	}
	return account, nil
}

// GetBalance returns the current balance of the account.
func (s *AccountServiceImpl) GetBalance(ctx context.Context, accountNumber string) (decimal.Decimal, error) {
	account, err := s.GetByNumber(ctx, accountNumber)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// ListByCustomer returns all accounts held by the customer, oldest first.
func (s *AccountServiceImpl) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error) {
	accounts, err := s.accountRepo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list accounts: %w", err))
	}
	return accounts, nil
}

// AdjustBalance applies a CREDIT or DEBIT under a row lock. Concurrent
// adjustments against the same account serialize on the lock; independent
// accounts proceed in parallel.
func (s *AccountServiceImpl) AdjustBalance(ctx context.Context, accountNumber string, amount decimal.Decimal, op domain.BalanceOperation) (*domain.Account, error) {
	if !amount.IsPositive() {
		return nil, apperror.Validation("amount must be positive")
	}
	if !domain.ValidBalanceOperation(op) {
		return nil, apperror.Validation(fmt.Sprintf("unknown balance operation %q", op))
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock & get account
	account, err := s.accountRepo.GetByNumberForUpdate(ctx, dbTx, accountNumber)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrNotFound("Account")
	}
	if !account.IsActive() {
		return nil, apperror.ErrInvalidState(fmt.Sprintf("account %s is %s", accountNumber, account.Status))
	}

	var newBalance decimal.Decimal
	switch op {
	case domain.OperationCredit:
		newBalance = account.Balance.Add(amount)
	case domain.OperationDebit:
		newBalance = account.Balance.Sub(amount)
		if newBalance.IsNegative() {
			return nil, apperror.ErrInsufficientFunds()
		}
	}

	if err := s.accountRepo.UpdateBalance(ctx, dbTx, account.ID, newBalance); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	account.Balance = newBalance
	account.UpdatedAt = time.Now().UTC()

	s.log.Info().
		Str("account_number", accountNumber).
		Str("operation", string(op)).
		Str("amount", amount.String()).
		Str("new_balance", newBalance.String()).
		Msg("balance adjusted")

	return account, nil
}

// SetStatus transitions the account to the given status. Any transition is
// accepted; closing an account with a nonzero balance is allowed.
func (s *AccountServiceImpl) SetStatus(ctx context.Context, accountNumber string, status domain.AccountStatus) (*domain.Account, error) {
	if !domain.ValidAccountStatus(status) {
		return nil, apperror.Validation(fmt.Sprintf("unknown account status %q", status))
	}

	account, err := s.accountRepo.UpdateStatus(ctx, accountNumber, status)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update status: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrNotFound("Account")
	}

	s.log.Info().
		Str("account_number", accountNumber).
		Str("status", string(status)).
		Msg("account status changed")

	return account, nil
}
