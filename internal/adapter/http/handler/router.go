package handler

import (
	"willbank-ledger/internal/adapter/http/middleware"
	"willbank-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AccountSvc     ports.AccountService
	TransactionSvc ports.TransactionService
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// API v1 routes
	v1 := r.Group("/api/v1")

	accountHandler := NewAccountHandler(deps.AccountSvc)
	accounts := v1.Group("/accounts")
	{
		accounts.POST("", accountHandler.Create)
		accounts.GET("/customer/:customerId", accountHandler.ListByCustomer)
		accounts.GET("/:number", accountHandler.Get)
		accounts.GET("/:number/balance", accountHandler.GetBalance)
		accounts.PUT("/:number/balance", accountHandler.AdjustBalance)
		accounts.PUT("/:number/status", accountHandler.UpdateStatus)
	}

	transactionHandler := NewTransactionHandler(deps.TransactionSvc)
	transactions := v1.Group("/transactions")
	{
		transactions.POST("/deposit", transactionHandler.Deposit)
		transactions.POST("/withdrawal", transactionHandler.Withdrawal)
		transactions.GET("/account/:accountNumber", transactionHandler.ListByAccount)
		transactions.GET("/:reference", transactionHandler.Get)
	}

	return r
}
