package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"willbank-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create appends a new transaction record.
func (r *TransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, transaction_reference, transaction_type, from_account, to_account,
		amount, description, status, created_at, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		t.ID, t.TransactionReference, t.TransactionType, t.FromAccount, t.ToAccount,
		t.Amount, t.Description, t.Status, t.CreatedAt, t.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByReference fetches a transaction by its client-visible reference.
func (r *TransactionRepo) GetByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	query := `SELECT id, transaction_reference, transaction_type, from_account, to_account,
		amount, description, status, created_at, processed_at
		FROM transactions WHERE transaction_reference = $1`

	return r.scanTransaction(r.pool.QueryRow(ctx, query, reference))
}

// ListByAccount fetches transactions touching an account, most recent first.
func (r *TransactionRepo) ListByAccount(ctx context.Context, accountNumber string) ([]domain.Transaction, error) {
	query := `SELECT id, transaction_reference, transaction_type, from_account, to_account,
		amount, description, status, created_at, processed_at
		FROM transactions WHERE from_account = $1 OR to_account = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		err := rows.Scan(
			&t.ID, &t.TransactionReference, &t.TransactionType, &t.FromAccount, &t.ToAccount,
			&t.Amount, &t.Description, &t.Status, &t.CreatedAt, &t.ProcessedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}

// Finalize transitions a PENDING record to a terminal status. The status
// guard in the WHERE clause enforces the single terminal transition at the
// storage level; false means the record was absent or already terminal.
func (r *TransactionRepo) Finalize(ctx context.Context, id uuid.UUID, status domain.TransactionStatus, processedAt time.Time) (bool, error) {
	query := `UPDATE transactions SET status = $1, processed_at = $2 WHERE id = $3 AND status = 'PENDING'`

	tag, err := r.pool.Exec(ctx, query, status, processedAt, id)
	if err != nil {
		return false, fmt.Errorf("finalize transaction: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// scanTransaction is a helper to scan a single row into a Transaction.
func (r *TransactionRepo) scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(
		&t.ID, &t.TransactionReference, &t.TransactionType, &t.FromAccount, &t.ToAccount,
		&t.Amount, &t.Description, &t.Status, &t.CreatedAt, &t.ProcessedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}
