package handler

import (
	"strconv"

	"willbank-ledger/internal/adapter/http/dto"
	"willbank-ledger/internal/core/domain"
	"willbank-ledger/internal/core/ports"
	"willbank-ledger/pkg/apperror"
	"willbank-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// AccountHandler handles account endpoints.
type AccountHandler struct {
	accountSvc ports.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountSvc ports.AccountService) *AccountHandler {
	return &AccountHandler{accountSvc: accountSvc}
}

// Create handles POST /api/v1/accounts.
func (h *AccountHandler) Create(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	account, err := h.accountSvc.Create(c.Request.Context(), ports.CreateAccountRequest{
		CustomerID:     req.CustomerID,
		AccountType:    domain.AccountType(req.AccountType),
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.FromAccount(account))
}

// Get handles GET /api/v1/accounts/:number.
func (h *AccountHandler) Get(c *gin.Context) {
	account, err := h.accountSvc.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromAccount(account))
}

// ListByCustomer handles GET /api/v1/accounts/customer/:customerId.
func (h *AccountHandler) ListByCustomer(c *gin.Context) {
	customerID, err := strconv.ParseInt(c.Param("customerId"), 10, 64)
	if err != nil {
		response.Error(c, apperror.Validation("customerId must be an integer"))
		return
	}

	accounts, err := h.accountSvc.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, dto.FromAccount(&accounts[i]))
	}
	response.OK(c, out)
}

// GetBalance handles GET /api/v1/accounts/:number/balance.
func (h *AccountHandler) GetBalance(c *gin.Context) {
	number := c.Param("number")
	balance, err := h.accountSvc.GetBalance(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.BalanceResponse{AccountNumber: number, Balance: balance})
}

// AdjustBalance handles PUT /api/v1/accounts/:number/balance.
func (h *AccountHandler) AdjustBalance(c *gin.Context) {
	var req dto.AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	account, err := h.accountSvc.AdjustBalance(
		c.Request.Context(),
		c.Param("number"),
		req.Amount,
		domain.BalanceOperation(req.Operation),
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{AccountNumber: account.AccountNumber, Balance: account.Balance})
}

// UpdateStatus handles PUT /api/v1/accounts/:number/status.
func (h *AccountHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	account, err := h.accountSvc.SetStatus(c.Request.Context(), c.Param("number"), domain.AccountStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.FromAccount(account))
}
