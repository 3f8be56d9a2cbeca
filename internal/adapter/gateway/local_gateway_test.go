package gateway

import (
	"context"
	"testing"

	"willbank-ledger/internal/core/domain"
	"willbank-ledger/internal/core/ports/mocks"
	"willbank-ledger/pkg/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestLocalGateway_ReadBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountService(ctrl)
	gw := NewLocalGateway(accounts)

	accounts.EXPECT().
		GetBalance(gomock.Any(), "WB1A2B3C4D5E").
		Return(decimal.NewFromInt(75), nil)

	balance, err := gw.ReadBalance(context.Background(), "WB1A2B3C4D5E")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(75)))
}

func TestLocalGateway_AdjustBalance_PassesErrorThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountService(ctrl)
	gw := NewLocalGateway(accounts)

	accounts.EXPECT().
		AdjustBalance(gomock.Any(), "WB1A2B3C4D5E", decimal.NewFromInt(100), domain.OperationDebit).
		Return(nil, apperror.ErrInsufficientFunds())

	err := gw.AdjustBalance(context.Background(), "WB1A2B3C4D5E", decimal.NewFromInt(100), domain.OperationDebit)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "ACC_004", appErr.Code)
}
