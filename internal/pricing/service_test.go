package pricing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "stockroom/internal/errors"
)

type mockPriceRepository struct {
	tierFn    func(ctx context.Context, productID int, customerGroup string, qty int) (float64, bool, error)
	defaultFn func(ctx context.Context, productID int) (float64, error)
}

func (m *mockPriceRepository) FindBestTierPrice(ctx context.Context, productID int, customerGroup string, qty int) (float64, bool, error) {
	return m.tierFn(ctx, productID, customerGroup, qty)
}

func (m *mockPriceRepository) FindDefaultPrice(ctx context.Context, productID int) (float64, error) {
	return m.defaultFn(ctx, productID)
}

func TestResolvePrice_TierWins(t *testing.T) {
	repo := &mockPriceRepository{
		tierFn: func(ctx context.Context, productID int, customerGroup string, qty int) (float64, bool, error) {
			assert.Equal(t, 10, productID)
			assert.Equal(t, "wholesale", customerGroup)
			assert.Equal(t, 50, qty)
			return 7.25, true, nil
		},
	}
	svc := NewService(repo, zap.NewNop())

	price, err := svc.ResolvePrice(context.Background(), 10, "wholesale", 50)
	require.NoError(t, err)
	assert.Equal(t, 7.25, price)
}

func TestResolvePrice_FallsBackToDefault(t *testing.T) {
	repo := &mockPriceRepository{
		tierFn: func(ctx context.Context, productID int, customerGroup string, qty int) (float64, bool, error) {
			return 0, false, nil
		},
		defaultFn: func(ctx context.Context, productID int) (float64, error) {
			return 9.99, nil
		},
	}
	svc := NewService(repo, zap.NewNop())

	price, err := svc.ResolvePrice(context.Background(), 10, "", 1)
	require.NoError(t, err)
	assert.Equal(t, 9.99, price)
}

func TestResolvePrice_UnknownProduct(t *testing.T) {
	repo := &mockPriceRepository{
		tierFn: func(ctx context.Context, productID int, customerGroup string, qty int) (float64, bool, error) {
			return 0, false, nil
		},
		defaultFn: func(ctx context.Context, productID int) (float64, error) {
			return 0, apperrors.NewNotFoundError("product with id 404 not found")
		},
	}
	svc := NewService(repo, zap.NewNop())

	_, err := svc.ResolvePrice(context.Background(), 404, "", 1)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestResolvePrice_NonPositiveQty(t *testing.T) {
	svc := NewService(&mockPriceRepository{}, zap.NewNop())

	_, err := svc.ResolvePrice(context.Background(), 10, "", 0)
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}
