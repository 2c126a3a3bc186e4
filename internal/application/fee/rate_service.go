package fee

import (
	"context"

	"github.com/propmgmt/backend/internal/domain/fee"
	"go.uber.org/zap"
)

// RateService maintains the rate table
type RateService struct {
	items  fee.ItemRepository
	rates  fee.RateRepository
	logger *zap.Logger
}

// NewRateService creates a new RateService
func NewRateService(items fee.ItemRepository, rates fee.RateRepository, logger *zap.Logger) *RateService {
	return &RateService{items: items, rates: rates, logger: logger}
}

// Create adds a rate. Earlier rates stay in place; the latest effective one wins.
func (s *RateService) Create(ctx context.Context, req CreateRateRequest) (*RateResponse, error) {
	item, err := s.items.FindByCode(ctx, req.FeeItem)
	if err != nil {
		return nil, err
	}

	rate, err := fee.NewFeeRate(req.CommunityID, item.ID, req.AssetKind, req.AssetType, req.UnitPrice, req.EffectiveDate)
	if err != nil {
		return nil, err
	}
	if err := s.rates.Save(ctx, rate); err != nil {
		return nil, err
	}

	s.logger.Info("Fee rate created",
		zap.String("community_id", rate.CommunityID.String()),
		zap.String("fee_item", string(item.Code)),
		zap.String("asset_type", rate.AssetType),
		zap.String("unit_price", rate.UnitPrice.String()))

	resp := ToRateResponse(rate)
	return &resp, nil
}

// List returns rates matching the filter
func (s *RateService) List(ctx context.Context, filter fee.RateFilter) ([]RateResponse, error) {
	rates, err := s.rates.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]RateResponse, len(rates))
	for i := range rates {
		out[i] = ToRateResponse(&rates[i])
	}
	return out, nil
}

// Items returns the fee item catalogue
func (s *RateService) Items(ctx context.Context) ([]fee.FeeItem, error) {
	return s.items.FindAll(ctx)
}
