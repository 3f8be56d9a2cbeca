package handler

import (
	"context"

	"willbank-ledger/internal/adapter/http/dto"
	"willbank-ledger/internal/core/domain"
	"willbank-ledger/internal/core/ports"
	"willbank-ledger/pkg/apperror"
	"willbank-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey carries the optional client resubmission token.
const HeaderIdempotencyKey = "X-Idempotency-Key"

// TransactionHandler handles deposit/withdrawal endpoints.
type TransactionHandler struct {
	txSvc ports.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(txSvc ports.TransactionService) *TransactionHandler {
	return &TransactionHandler{txSvc: txSvc}
}

// Deposit handles POST /api/v1/transactions/deposit.
func (h *TransactionHandler) Deposit(c *gin.Context) {
	h.processMovement(c, h.txSvc.ProcessDeposit)
}

// Withdrawal handles POST /api/v1/transactions/withdrawal.
func (h *TransactionHandler) Withdrawal(c *gin.Context) {
	h.processMovement(c, h.txSvc.ProcessWithdrawal)
}

func (h *TransactionHandler) processMovement(c *gin.Context, process func(context.Context, ports.MovementRequest) (*domain.Transaction, error)) {
	var req dto.MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	txn, err := process(c.Request.Context(), ports.MovementRequest{
		AccountNumber:  req.AccountNumber,
		Amount:         req.Amount,
		Description:    req.Description,
		IdempotencyKey: c.GetHeader(HeaderIdempotencyKey),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.FromTransaction(txn))
}

// Get handles GET /api/v1/transactions/:reference.
func (h *TransactionHandler) Get(c *gin.Context) {
	txn, err := h.txSvc.GetByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromTransaction(txn))
}

// ListByAccount handles GET /api/v1/transactions/account/:accountNumber.
func (h *TransactionHandler) ListByAccount(c *gin.Context) {
	txns, err := h.txSvc.ListByAccount(c.Request.Context(), c.Param("accountNumber"))
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		out = append(out, dto.FromTransaction(&txns[i]))
	}
	response.OK(c, out)
}
