package dto

import (
	"time"

	"willbank-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

// CreateAccountRequest is the request body for opening an account.
type CreateAccountRequest struct {
	CustomerID     int64           `json:"customer_id" binding:"required,gt=0"`
	AccountType    string          `json:"account_type" binding:"required,oneof=SAVINGS CHECKING FIXED_DEPOSIT"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// AdjustBalanceRequest is the request body for PUT .../balance.
type AdjustBalanceRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Operation string          `json:"operation" binding:"required,oneof=CREDIT DEBIT"`
}

// UpdateStatusRequest is the request body for PUT .../status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE FROZEN CLOSED"`
}

// MovementRequest is the request body for deposits and withdrawals.
type MovementRequest struct {
	AccountNumber string          `json:"account_number" binding:"required,account_number"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description" binding:"max=255"`
}

// AccountResponse is the response body for account queries.
type AccountResponse struct {
	AccountNumber string          `json:"account_number"`
	CustomerID    int64           `json:"customer_id"`
	AccountType   string          `json:"account_type"`
	Status        string          `json:"status"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

// BalanceResponse is the response body for balance queries.
type BalanceResponse struct {
	AccountNumber string          `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
}

// TransactionResponse is the response body for transaction results.
type TransactionResponse struct {
	TransactionReference string          `json:"transaction_reference"`
	TransactionType      string          `json:"transaction_type"`
	FromAccount          string          `json:"from_account"`
	ToAccount            *string         `json:"to_account,omitempty"`
	Amount               decimal.Decimal `json:"amount"`
	Description          string          `json:"description"`
	Status               string          `json:"status"`
	CreatedAt            string          `json:"created_at"`
	ProcessedAt          *string         `json:"processed_at,omitempty"`
}

// FromAccount maps a domain account to its response shape.
func FromAccount(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountNumber: a.AccountNumber,
		CustomerID:    a.CustomerID,
		AccountType:   string(a.AccountType),
		Status:        string(a.Status),
		Balance:       a.Balance,
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     a.UpdatedAt.Format(time.RFC3339),
	}
}

// FromTransaction maps a domain transaction to its response shape.
func FromTransaction(t *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionReference: t.TransactionReference,
		TransactionType:      string(t.TransactionType),
		FromAccount:          t.FromAccount,
		ToAccount:            t.ToAccount,
		Amount:               t.Amount,
		Description:          t.Description,
		Status:               string(t.Status),
		CreatedAt:            t.CreatedAt.Format(time.RFC3339),
	}
	if t.ProcessedAt != nil {
		processed := t.ProcessedAt.Format(time.RFC3339)
		resp.ProcessedAt = &processed
	}
	return resp
}
