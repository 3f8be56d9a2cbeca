package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType represents the product category of an account.
type AccountType string

const (
	AccountTypeSavings      AccountType = "SAVINGS"
	AccountTypeChecking     AccountType = "CHECKING"
	AccountTypeFixedDeposit AccountType = "FIXED_DEPOSIT"
)

// ValidAccountType reports whether t is a known account type.
func ValidAccountType(t AccountType) bool {
	switch t {
	case AccountTypeSavings, AccountTypeChecking, AccountTypeFixedDeposit:
		return true
	}
	return false
}

// AccountStatus represents the administrative state of an account.
// Any non-ACTIVE status blocks balance mutation.
type AccountStatus string

const (
	AccountStatusActive AccountStatus = "ACTIVE"
	AccountStatusFrozen AccountStatus = "FROZEN"
	AccountStatusClosed AccountStatus = "CLOSED"
)

// ValidAccountStatus reports whether s is a known account status.
func ValidAccountStatus(s AccountStatus) bool {
	switch s {
	case AccountStatusActive, AccountStatusFrozen, AccountStatusClosed:
		return true
	}
	return false
}

// BalanceOperation is the direction of a balance mutation.
type BalanceOperation string

const (
	OperationCredit BalanceOperation = "CREDIT"
	OperationDebit  BalanceOperation = "DEBIT"
)

// ValidBalanceOperation reports whether op is CREDIT or DEBIT.
func ValidBalanceOperation(op BalanceOperation) bool {
	return op == OperationCredit || op == OperationDebit
}

// Account is a customer account row. The balance invariant (balance >= 0 at
// every observable point) is enforced by the account service's adjust path;
// accounts are never deleted, closure is a status change.
type Account struct {
	ID            uuid.UUID       `json:"id"`
	AccountNumber string          `json:"account_number"`
	CustomerID    int64           `json:"customer_id"`
	AccountType   AccountType     `json:"account_type"`
	Status        AccountStatus   `json:"status"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// IsActive returns true if the account accepts balance mutations.
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// NewAccountNumber generates a collision-resistant account number of the
// form "WB" + 10 hex chars. Uniqueness is guaranteed by the storage
// constraint, not by generation alone.
func NewAccountNumber() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "WB" + strings.ToUpper(raw[:10])
}
