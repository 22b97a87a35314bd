package pricing

import (
	"context"

	"go.uber.org/zap"

	apperrors "stockroom/internal/errors"
)

type PriceRepository interface {
	FindBestTierPrice(ctx context.Context, productID int, customerGroup string, qty int) (float64, bool, error)
	FindDefaultPrice(ctx context.Context, productID int) (float64, error)
}

// Service resolves a unit price for product and buyer: the best qualifying
// tier price, or the product's default. No shared state with the
// allocation core; order flows call both side by side.
type Service struct {
	prices PriceRepository
	logger *zap.Logger
}

func NewService(prices PriceRepository, logger *zap.Logger) *Service {
	return &Service{prices: prices, logger: logger}
}

func (s *Service) ResolvePrice(ctx context.Context, productID int, customerGroup string, qty int) (float64, error) {
	if qty <= 0 {
		return 0, apperrors.NewValidationError("qty must be a positive integer", apperrors.ValidationDetail{
			Field:   "qty",
			Message: "qty must be a positive integer",
		})
	}

	tier, found, err := s.prices.FindBestTierPrice(ctx, productID, customerGroup, qty)
	if err != nil {
		return 0, err
	}
	if found {
		return tier, nil
	}

	return s.prices.FindDefaultPrice(ctx, productID)
}
