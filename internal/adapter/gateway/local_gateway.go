package gateway

import (
	"context"

	"willbank-ledger/internal/core/domain"
	"willbank-ledger/internal/core/ports"

	"github.com/shopspring/decimal"
)

// LocalGateway satisfies ports.AccountGateway with an in-process call into
// the account service. Used in single-deployment mode where both sides run
// in the same binary; the orchestrator still sees the gateway contract, so
// swapping in the HTTP adapter changes wiring only.
type LocalGateway struct {
	accounts ports.AccountService
}

func NewLocalGateway(accounts ports.AccountService) *LocalGateway {
	return &LocalGateway{accounts: accounts}
}

func (g *LocalGateway) ReadBalance(ctx context.Context, accountNumber string) (decimal.Decimal, error) {
	return g.accounts.GetBalance(ctx, accountNumber)
}

func (g *LocalGateway) AdjustBalance(ctx context.Context, accountNumber string, amount decimal.Decimal, op domain.BalanceOperation) error {
	_, err := g.accounts.AdjustBalance(ctx, accountNumber, amount, op)
	return err
}
