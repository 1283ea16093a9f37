package accounts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EffiQ-BookingService/internal/infra/storage/memory"
	"github.com/m04kA/EffiQ-BookingService/internal/service/accounts/models"
	"github.com/m04kA/EffiQ-BookingService/pkg/logger"
)

func TestAccounts(t *testing.T) {
	ctx := context.Background()
	service := NewService(memory.NewStore().Accounts(), logger.NewNop())

	acc, err := service.GetAccount(ctx, &models.GetAccountRequest{RequesterID: 5, UserID: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(0), acc.Balance)

	_, err = service.GetAccount(ctx, &models.GetAccountRequest{RequesterID: 6, UserID: 5})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = service.TopUp(ctx, &models.TopUpRequest{RequesterID: 5, UserID: 5, Amount: 50})
	assert.ErrorIs(t, err, ErrAccessDenied)

	tests := []struct {
		name   string
		amount int64
	}{
		{"zero", 0},
		{"negative", -10},
		{"too large", 1_000_001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.TopUp(ctx, &models.TopUpRequest{RequesterID: 1, IsAdmin: true, UserID: 5, Amount: tt.amount})
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	acc, err = service.TopUp(ctx, &models.TopUpRequest{RequesterID: 1, IsAdmin: true, UserID: 5, Amount: 150})
	require.NoError(t, err)
	assert.Equal(t, int64(150), acc.Balance)

	acc, err = service.GetAccount(ctx, &models.GetAccountRequest{RequesterID: 1, IsAdmin: true, UserID: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(150), acc.Balance)
}
