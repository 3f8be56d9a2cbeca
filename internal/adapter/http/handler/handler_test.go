package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"willbank-ledger/internal/core/domain"
	"willbank-ledger/internal/core/ports"
	"willbank-ledger/internal/core/ports/mocks"
	"willbank-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type handlerTestDeps struct {
	router     http.Handler
	accountSvc *mocks.MockAccountService
	txSvc      *mocks.MockTransactionService
	ctrl       *gomock.Controller
}

func setupRouter(t *testing.T) *handlerTestDeps {
	ctrl := gomock.NewController(t)
	d := &handlerTestDeps{
		accountSvc: mocks.NewMockAccountService(ctrl),
		txSvc:      mocks.NewMockTransactionService(ctrl),
		ctrl:       ctrl,
	}
	d.router = SetupRouter(RouterDeps{
		AccountSvc:     d.accountSvc,
		TransactionSvc: d.txSvc,
		Logger:         zerolog.Nop(),
	})
	return d
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sampleAccount() *domain.Account {
	now := time.Now().UTC()
	return &domain.Account{
		ID:            uuid.New(),
		AccountNumber: "WB1A2B3C4D5E",
		CustomerID:    42,
		AccountType:   domain.AccountTypeSavings,
		Status:        domain.AccountStatusActive,
		Balance:       decimal.NewFromInt(100),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func sampleTransaction(status domain.TransactionStatus) *domain.Transaction {
	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:                   uuid.New(),
		TransactionReference: "TXN-1A2B3C4D",
		TransactionType:      domain.TransactionTypeDeposit,
		FromAccount:          "WB1A2B3C4D5E",
		Amount:               decimal.NewFromInt(50),
		Description:          "Deposit",
		Status:               status,
		CreatedAt:            now,
	}
	if status != domain.TransactionStatusPending {
		txn.ProcessedAt = &now
	}
	return txn
}

// ==================== Account Endpoint Tests ====================

func TestCreateAccount_Success(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.accountSvc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sampleAccount(), nil)

	w := doRequest(t, d.router, http.MethodPost, "/api/v1/accounts", map[string]any{
		"customer_id":     42,
		"account_type":    "SAVINGS",
		"initial_balance": "100",
	}, nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "WB1A2B3C4D5E")
}

func TestCreateAccount_ValidationError(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	w := doRequest(t, d.router, http.MethodPost, "/api/v1/accounts", map[string]any{
		"customer_id":  42,
		"account_type": "LOTTERY",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ACC_001")
}

func TestGetAccount_NotFound(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.accountSvc.EXPECT().GetByNumber(gomock.Any(), "WB0000000000").
		Return(nil, apperror.ErrNotFound("Account"))

	w := doRequest(t, d.router, http.MethodGet, "/api/v1/accounts/WB0000000000", nil, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ACC_002")
}

func TestListAccountsByCustomer(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.accountSvc.EXPECT().ListByCustomer(gomock.Any(), int64(42)).
		Return([]domain.Account{*sampleAccount()}, nil)

	w := doRequest(t, d.router, http.MethodGet, "/api/v1/accounts/customer/42", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "WB1A2B3C4D5E")
}

func TestListAccountsByCustomer_BadID(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	w := doRequest(t, d.router, http.MethodGet, "/api/v1/accounts/customer/abc", nil, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBalance_Success(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.accountSvc.EXPECT().GetBalance(gomock.Any(), "WB1A2B3C4D5E").
		Return(decimal.NewFromFloat(99.95), nil)

	w := doRequest(t, d.router, http.MethodGet, "/api/v1/accounts/WB1A2B3C4D5E/balance", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "99.95")
}

func TestAdjustBalance_Success(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	account := sampleAccount()
	account.Balance = decimal.NewFromInt(150)

	d.accountSvc.EXPECT().
		AdjustBalance(gomock.Any(), "WB1A2B3C4D5E", gomock.Any(), domain.OperationCredit).
		Return(account, nil)

	w := doRequest(t, d.router, http.MethodPut, "/api/v1/accounts/WB1A2B3C4D5E/balance", map[string]any{
		"amount":    "50",
		"operation": "CREDIT",
	}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "150")
}

func TestAdjustBalance_InvalidOperation(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	w := doRequest(t, d.router, http.MethodPut, "/api/v1/accounts/WB1A2B3C4D5E/balance", map[string]any{
		"amount":    "50",
		"operation": "MULTIPLY",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdjustBalance_InsufficientFunds(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.accountSvc.EXPECT().
		AdjustBalance(gomock.Any(), "WB1A2B3C4D5E", gomock.Any(), domain.OperationDebit).
		Return(nil, apperror.ErrInsufficientFunds())

	w := doRequest(t, d.router, http.MethodPut, "/api/v1/accounts/WB1A2B3C4D5E/balance", map[string]any{
		"amount":    "500",
		"operation": "DEBIT",
	}, nil)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "ACC_004")
}

func TestUpdateStatus_Success(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	account := sampleAccount()
	account.Status = domain.AccountStatusFrozen

	d.accountSvc.EXPECT().
		SetStatus(gomock.Any(), "WB1A2B3C4D5E", domain.AccountStatusFrozen).
		Return(account, nil)

	w := doRequest(t, d.router, http.MethodPut, "/api/v1/accounts/WB1A2B3C4D5E/status", map[string]any{
		"status": "FROZEN",
	}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "FROZEN")
}

// ==================== Transaction Endpoint Tests ====================

func TestDeposit_Success(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.txSvc.EXPECT().ProcessDeposit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, req ports.MovementRequest) (*domain.Transaction, error) {
			assert.Equal(t, "WB1A2B3C4D5E", req.AccountNumber)
			assert.Empty(t, req.IdempotencyKey)
			return sampleTransaction(domain.TransactionStatusCompleted), nil
		})

	w := doRequest(t, d.router, http.MethodPost, "/api/v1/transactions/deposit", map[string]any{
		"account_number": "WB1A2B3C4D5E",
		"amount":         "50",
	}, nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "COMPLETED")
	assert.Contains(t, w.Body.String(), "TXN-1A2B3C4D")
}

func TestDeposit_IdempotencyKeyForwarded(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.txSvc.EXPECT().ProcessDeposit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, req ports.MovementRequest) (*domain.Transaction, error) {
			assert.Equal(t, "client-token-1", req.IdempotencyKey)
			return sampleTransaction(domain.TransactionStatusCompleted), nil
		})

	w := doRequest(t, d.router, http.MethodPost, "/api/v1/transactions/deposit", map[string]any{
		"account_number": "WB1A2B3C4D5E",
		"amount":         "50",
	}, map[string]string{HeaderIdempotencyKey: "client-token-1"})

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestDeposit_MalformedAccountNumber(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	w := doRequest(t, d.router, http.MethodPost, "/api/v1/transactions/deposit", map[string]any{
		"account_number": "not-an-account",
		"amount":         "50",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ACC_001")
}

func TestWithdrawal_InsufficientFunds(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.txSvc.EXPECT().ProcessWithdrawal(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrInsufficientFunds())

	w := doRequest(t, d.router, http.MethodPost, "/api/v1/transactions/withdrawal", map[string]any{
		"account_number": "WB1A2B3C4D5E",
		"amount":         "5000",
	}, nil)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "ACC_004")
}

func TestWithdrawal_AccountUnavailable(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.txSvc.EXPECT().ProcessWithdrawal(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrAccountUnavailable(errors.New("connection refused")))

	w := doRequest(t, d.router, http.MethodPost, "/api/v1/transactions/withdrawal", map[string]any{
		"account_number": "WB1A2B3C4D5E",
		"amount":         "10",
	}, nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "TXN_001")
}

func TestGetTransaction_Success(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.txSvc.EXPECT().GetByReference(gomock.Any(), "TXN-1A2B3C4D").
		Return(sampleTransaction(domain.TransactionStatusCompleted), nil)

	w := doRequest(t, d.router, http.MethodGet, "/api/v1/transactions/TXN-1A2B3C4D", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "TXN-1A2B3C4D")
}

func TestListTransactionsByAccount(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.txSvc.EXPECT().ListByAccount(gomock.Any(), "WB1A2B3C4D5E").
		Return([]domain.Transaction{*sampleTransaction(domain.TransactionStatusCompleted)}, nil)

	w := doRequest(t, d.router, http.MethodGet, "/api/v1/transactions/account/WB1A2B3C4D5E", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "TXN-1A2B3C4D")
}

// ==================== Health Tests ====================

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Ping(_ context.Context) error { return s.err }
func (s stubChecker) Name() string                 { return s.name }

func TestHealthCheck_Healthy(t *testing.T) {
	router := SetupRouter(RouterDeps{
		AccountSvc:     nil,
		TransactionSvc: nil,
		HealthCheckers: []ports.HealthChecker{stubChecker{name: "postgres"}, stubChecker{name: "redis"}},
		Logger:         zerolog.Nop(),
	})

	w := doRequest(t, router, http.MethodGet, "/health", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestHealthCheck_Degraded(t *testing.T) {
	router := SetupRouter(RouterDeps{
		HealthCheckers: []ports.HealthChecker{stubChecker{name: "postgres", err: errors.New("down")}},
		Logger:         zerolog.Nop(),
	})

	w := doRequest(t, router, http.MethodGet, "/health", nil, nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "degraded")
}
