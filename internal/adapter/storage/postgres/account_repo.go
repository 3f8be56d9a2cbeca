package postgres

import (
	"context"
	"errors"
	"fmt"

	"willbank-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// Create inserts a new account into the database.
func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (id, account_number, customer_id, account_type, status, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.AccountNumber, a.CustomerID, a.AccountType,
		a.Status, a.Balance, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByNumber fetches an account by its account number (without locking).
func (r *AccountRepo) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	query := `SELECT id, account_number, customer_id, account_type, status, balance, created_at, updated_at
		FROM accounts WHERE account_number = $1`

	a := &domain.Account{}
	err := r.pool.QueryRow(ctx, query, accountNumber).Scan(
		&a.ID, &a.AccountNumber, &a.CustomerID, &a.AccountType,
		&a.Status, &a.Balance, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account by number: %w", err)
	}
	return a, nil
}

// GetByCustomerID fetches all accounts owned by a customer.
func (r *AccountRepo) GetByCustomerID(ctx context.Context, customerID int64) ([]domain.Account, error) {
	query := `SELECT id, account_number, customer_id, account_type, status, balance, created_at, updated_at
		FROM accounts WHERE customer_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list accounts by customer: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a := domain.Account{}
		err := rows.Scan(
			&a.ID, &a.AccountNumber, &a.CustomerID, &a.AccountType,
			&a.Status, &a.Balance, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}
	return accounts, nil
}

// GetByNumberForUpdate fetches an account with pessimistic locking. The row
// lock serializes concurrent balance mutations against the same account.
// This MUST be called within a transaction.
func (r *AccountRepo) GetByNumberForUpdate(ctx context.Context, tx pgx.Tx, accountNumber string) (*domain.Account, error) {
	query := `SELECT id, account_number, customer_id, account_type, status, balance, created_at, updated_at
		FROM accounts WHERE account_number = $1 FOR UPDATE`

	a := &domain.Account{}
	err := tx.QueryRow(ctx, query, accountNumber).Scan(
		&a.ID, &a.AccountNumber, &a.CustomerID, &a.AccountType,
		&a.Status, &a.Balance, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account for update: %w", err)
	}
	return a, nil
}

// UpdateBalance updates an account's balance within a transaction.
func (r *AccountRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance decimal.Decimal) error {
	query := `UPDATE accounts SET balance = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, balance, id)
	if err != nil {
		return fmt.Errorf("update account balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", id)
	}
	return nil
}

// UpdateStatus transitions an account's status unconditionally.
// Returns nil, nil if the account does not exist.
func (r *AccountRepo) UpdateStatus(ctx context.Context, accountNumber string, status domain.AccountStatus) (*domain.Account, error) {
	query := `UPDATE accounts SET status = $1, updated_at = NOW() WHERE account_number = $2
		RETURNING id, account_number, customer_id, account_type, status, balance, created_at, updated_at`

	a := &domain.Account{}
	err := r.pool.QueryRow(ctx, query, status, accountNumber).Scan(
		&a.ID, &a.AccountNumber, &a.CustomerID, &a.AccountType,
		&a.Status, &a.Balance, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update account status: %w", err)
	}
	return a, nil
}
