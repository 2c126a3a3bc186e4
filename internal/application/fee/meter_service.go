package fee

import (
	"context"
	"errors"

	"github.com/propmgmt/backend/internal/domain/asset"
	"github.com/propmgmt/backend/internal/domain/fee"
	"github.com/propmgmt/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MeterService records water and electricity readings and bills the usage
type MeterService struct {
	assets     asset.Repository
	items      fee.ItemRepository
	rates      fee.RateRepository
	readings   fee.MeterReadingRepository
	waterPrice decimal.Decimal
	logger     *zap.Logger
}

// NewMeterService creates a new MeterService. waterPrice is used when a
// water reading carries no unit price.
func NewMeterService(
	assets asset.Repository,
	items fee.ItemRepository,
	rates fee.RateRepository,
	readings fee.MeterReadingRepository,
	waterPrice decimal.Decimal,
	logger *zap.Logger,
) *MeterService {
	return &MeterService{
		assets:     assets,
		items:      items,
		rates:      rates,
		readings:   readings,
		waterPrice: waterPrice,
		logger:     logger,
	}
}

// RecordWater stores a water reading priced at the given or default unit price
func (s *MeterService) RecordWater(ctx context.Context, req MeterReadingRequest) (*MeterReadingResponse, error) {
	prop, err := s.assets.FindProperty(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	price := s.waterPrice
	if req.UnitPrice != nil {
		price = *req.UnitPrice
	}
	return s.record(ctx, prop, fee.MeterWater, fee.ItemWaterFee, price, req)
}

// RecordElectricity stores an electricity reading priced from the rate table
func (s *MeterService) RecordElectricity(ctx context.Context, req MeterReadingRequest) (*MeterReadingResponse, error) {
	prop, err := s.assets.FindProperty(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	item, err := s.items.FindByCode(ctx, fee.ItemElectricityFee)
	if err != nil {
		return nil, err
	}
	rate, err := s.rates.FindEffective(ctx, fee.RateQuery{
		CommunityID: prop.CommunityID,
		FeeItemID:   item.ID,
		AssetKind:   asset.KindProperty,
		AssetType:   prop.PropertyType,
		Cutoff:      fee.DateOf(req.ReadingDate),
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrValidation.WithMessage("No electricity rate configured for this property type")
		}
		return nil, err
	}
	return s.record(ctx, prop, fee.MeterElectricity, fee.ItemElectricityFee, rate.UnitPrice, req)
}

func (s *MeterService) record(
	ctx context.Context,
	prop *asset.Property,
	meterType fee.MeterType,
	code fee.ItemCode,
	unitPrice decimal.Decimal,
	req MeterReadingRequest,
) (*MeterReadingResponse, error) {
	previous := decimal.Zero
	last, err := s.readings.FindLatest(ctx, prop.ID, meterType)
	switch {
	case err == nil:
		previous = last.CurrentReading
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	reading, err := fee.NewMeterReading(prop.ID, meterType, req.ReadingDate, previous, req.CurrentReading, unitPrice)
	if err != nil {
		return nil, err
	}
	if req.ReadingType != "" {
		reading.ReadingType = req.ReadingType
	}
	reading.PrepaidBalance = req.PrepaidBalance
	reading.Reader = req.Reader
	reading.Remark = req.Remark

	var record *fee.FeeRecord
	if reading.IsChargeable() {
		item, err := s.items.FindByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		// Usage bills carry no period so repeated readings never collide
		// with the one-bill-per-period index.
		record, err = fee.NewFeeRecord(fee.NewRecordParams{
			CommunityID: prop.CommunityID,
			AssetKind:   asset.KindProperty,
			AssetID:     prop.ID,
			OwnerID:     prop.OwnerID,
			FeeItemID:   item.ID,
			Amount:      reading.Amount,
			DueDate:     reading.DueDate(),
			Remark:      reading.Remark,
		})
		if err != nil {
			return nil, err
		}
		reading.FeeRecordID = &record.ID
	}

	if err := s.readings.Create(ctx, reading, record); err != nil {
		return nil, err
	}

	s.logger.Info("Meter reading recorded",
		zap.String("property_id", prop.ID.String()),
		zap.String("meter_type", string(meterType)),
		zap.String("usage", reading.Usage.String()),
		zap.String("amount", reading.Amount.String()),
		zap.Bool("fee_generated", record != nil))

	return &MeterReadingResponse{
		ReadingID:      reading.ID,
		UnitPrice:      reading.UnitPrice,
		UsageAmount:    reading.Usage,
		Amount:         reading.Amount,
		PrepaidBalance: reading.PrepaidBalance,
		FeeGenerated:   record != nil,
		FeeRecordID:    reading.FeeRecordID,
	}, nil
}
