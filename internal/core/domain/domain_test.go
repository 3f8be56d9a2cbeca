package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccount_IsActive(t *testing.T) {
	tests := []struct {
		name   string
		status AccountStatus
		want   bool
	}{
		{"active", AccountStatusActive, true},
		{"frozen", AccountStatusFrozen, false},
		{"closed", AccountStatusClosed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Account{Status: tt.status}
			assert.Equal(t, tt.want, a.IsActive())
		})
	}
}

func TestTransaction_IsTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status TransactionStatus
		want   bool
	}{
		{"pending", TransactionStatusPending, false},
		{"completed", TransactionStatusCompleted, true},
		{"failed", TransactionStatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &Transaction{Status: tt.status}
			assert.Equal(t, tt.want, tx.IsTerminal())
		})
	}
}

func TestValidAccountType(t *testing.T) {
	assert.True(t, ValidAccountType(AccountTypeSavings))
	assert.True(t, ValidAccountType(AccountTypeChecking))
	assert.True(t, ValidAccountType(AccountTypeFixedDeposit))
	assert.False(t, ValidAccountType("CRYPTO"))
}

func TestValidAccountStatus(t *testing.T) {
	assert.True(t, ValidAccountStatus(AccountStatusActive))
	assert.True(t, ValidAccountStatus(AccountStatusFrozen))
	assert.True(t, ValidAccountStatus(AccountStatusClosed))
	assert.False(t, ValidAccountStatus("DORMANT"))
}

func TestValidBalanceOperation(t *testing.T) {
	assert.True(t, ValidBalanceOperation(OperationCredit))
	assert.True(t, ValidBalanceOperation(OperationDebit))
	assert.False(t, ValidBalanceOperation("TRANSFER"))
}

func TestNewAccountNumber_Format(t *testing.T) {
	n := NewAccountNumber()
	assert.True(t, strings.HasPrefix(n, "WB"))
	assert.Len(t, n, 12)
	assert.Equal(t, strings.ToUpper(n), n)
}

func TestNewTransactionReference_Format(t *testing.T) {
	ref := NewTransactionReference()
	assert.True(t, strings.HasPrefix(ref, "TXN-"))
	assert.Len(t, ref, 12)
	assert.Equal(t, strings.ToUpper(ref), ref)
}

func TestNewPendingTransaction_Defaults(t *testing.T) {
	amount := decimal.NewFromFloat(50.25)

	tx := NewPendingTransaction(TransactionTypeDeposit, "WB123", nil, amount, "")
	assert.Equal(t, TransactionStatusPending, tx.Status)
	assert.Equal(t, "Deposit", tx.Description)
	assert.Equal(t, "WB123", tx.FromAccount)
	assert.Nil(t, tx.ToAccount)
	assert.Nil(t, tx.ProcessedAt)
	assert.True(t, amount.Equal(tx.Amount))
	assert.NotEmpty(t, tx.TransactionReference)

	tx = NewPendingTransaction(TransactionTypeWithdrawal, "WB123", nil, amount, "")
	assert.Equal(t, "Withdrawal", tx.Description)

	tx = NewPendingTransaction(TransactionTypeWithdrawal, "WB123", nil, amount, "rent")
	assert.Equal(t, "rent", tx.Description)
}

func TestBuildIdempotencyKey(t *testing.T) {
	assert.Equal(t, "WB123:tok-1", BuildIdempotencyKey("WB123", "tok-1"))
}
