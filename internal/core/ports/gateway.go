package ports

import (
	"context"

	"willbank-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

// AccountGateway is the orchestrator's only view of the remote account
// ledger. Any transport satisfying this contract is conformant; the
// orchestrator assumes nothing beyond the error kinds the calls can raise
// (NotFound, InvalidState, InsufficientFunds, Unavailable).
type AccountGateway interface {
	ReadBalance(ctx context.Context, accountNumber string) (decimal.Decimal, error)
	AdjustBalance(ctx context.Context, accountNumber string, amount decimal.Decimal, op domain.BalanceOperation) error
}
