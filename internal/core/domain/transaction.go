package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of money movement.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	// TransactionTypeTransfer is modeled via FromAccount/ToAccount but not
	// driven by the orchestrator; reserved for transfer-type records.
	TransactionTypeTransfer TransactionType = "TRANSFER"
)

// TransactionStatus represents the lifecycle state of a transaction record.
// PENDING is the only non-terminal state.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// Transaction is an append-only ledger entry recording a money movement
// attempt. A record is created PENDING before the remote balance mutation
// and transitions exactly once to COMPLETED or FAILED; it is never deleted
// or re-opened.
type Transaction struct {
	ID                   uuid.UUID         `json:"id"`
	TransactionReference string            `json:"transaction_reference"`
	TransactionType      TransactionType   `json:"transaction_type"`
	FromAccount          string            `json:"from_account"`
	ToAccount            *string           `json:"to_account,omitempty"`
	Amount               decimal.Decimal   `json:"amount"`
	Description          string            `json:"description"`
	Status               TransactionStatus `json:"status"`
	CreatedAt            time.Time         `json:"created_at"`
	ProcessedAt          *time.Time        `json:"processed_at,omitempty"`
}

// IsTerminal returns true if the transaction reached a final state.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusCompleted || t.Status == TransactionStatusFailed
}

// NewTransactionReference generates a client-visible reference of the form
// "TXN-" + 8 hex chars. Storage enforces uniqueness.
func NewTransactionReference() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "TXN-" + strings.ToUpper(raw[:8])
}

// NewPendingTransaction builds a PENDING record for the orchestrator.
// Description defaults by type when empty.
func NewPendingTransaction(txType TransactionType, fromAccount string, toAccount *string, amount decimal.Decimal, description string) *Transaction {
	if description == "" {
		switch txType {
		case TransactionTypeDeposit:
			description = "Deposit"
		case TransactionTypeWithdrawal:
			description = "Withdrawal"
		case TransactionTypeTransfer:
			description = "Transfer"
		}
	}
	return &Transaction{
		ID:                   uuid.New(),
		TransactionReference: NewTransactionReference(),
		TransactionType:      txType,
		FromAccount:          fromAccount,
		ToAccount:            toAccount,
		Amount:               amount,
		Description:          description,
		Status:               TransactionStatusPending,
		CreatedAt:            time.Now().UTC(),
	}
}
