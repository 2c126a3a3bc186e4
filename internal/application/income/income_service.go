package income

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/propmgmt/backend/internal/domain/asset"
	"github.com/propmgmt/backend/internal/domain/income"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Prices holds the default prices of the front-desk shortcuts
type Prices struct {
	AccessCard decimal.Decimal
	FireWater  decimal.Decimal
}

// RecordRequest is a generic daily income entry
type RecordRequest struct {
	CommunityID uuid.UUID
	PropertyID  *uuid.UUID
	RecordDate  time.Time
	IncomeType  string
	Amount      *decimal.Decimal
	Quantity    int
	UnitPrice   *decimal.Decimal
	Description string
	Collector   string
}

// AccessCardRequest sells one or more access cards
type AccessCardRequest struct {
	CommunityID uuid.UUID
	PropertyID  *uuid.UUID
	RecordDate  time.Time
	Count       int
	UnitPrice   *decimal.Decimal
	Collector   string
	Remark      string
}

// FireWaterRequest charges a fire hydrant water test
type FireWaterRequest struct {
	CommunityID uuid.UUID
	PropertyID  *uuid.UUID
	RecordDate  time.Time
	UnitPrice   *decimal.Decimal
	Collector   string
	Remark      string
}

// RecordResponse is the API view of an income entry
type RecordResponse struct {
	ID          uuid.UUID        `json:"id"`
	CommunityID uuid.UUID        `json:"community_id"`
	PropertyID  *uuid.UUID       `json:"property_id,omitempty"`
	RecordDate  string           `json:"record_date"`
	IncomeType  string           `json:"income_type"`
	Amount      decimal.Decimal  `json:"amount"`
	Quantity    int              `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	Description string           `json:"description,omitempty"`
	Collector   string           `json:"collector,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// ListResponse bundles records with their statistics
type ListResponse struct {
	Records    []RecordResponse  `json:"records"`
	Statistics income.Statistics `json:"statistics"`
}

func toRecordResponse(r *income.Record) RecordResponse {
	return RecordResponse{
		ID:          r.ID,
		CommunityID: r.CommunityID,
		PropertyID:  r.PropertyID,
		RecordDate:  r.RecordDate.Format("2006-01-02"),
		IncomeType:  r.IncomeType,
		Amount:      r.Amount,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		Description: r.Description,
		Collector:   r.Collector,
		CreatedAt:   r.CreatedAt,
	}
}

// DailyIncomeService records one-off front-desk income
type DailyIncomeService struct {
	records income.Repository
	assets  asset.Repository
	prices  Prices
	logger  *zap.Logger
}

// NewDailyIncomeService creates a new DailyIncomeService
func NewDailyIncomeService(records income.Repository, assets asset.Repository, prices Prices, logger *zap.Logger) *DailyIncomeService {
	return &DailyIncomeService{records: records, assets: assets, prices: prices, logger: logger}
}

// Record stores a generic income entry
func (s *DailyIncomeService) Record(ctx context.Context, req RecordRequest) (*RecordResponse, error) {
	return s.create(ctx, income.NewRecordParams{
		CommunityID: req.CommunityID,
		PropertyID:  req.PropertyID,
		RecordDate:  req.RecordDate,
		IncomeType:  req.IncomeType,
		Amount:      req.Amount,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		Description: req.Description,
		Collector:   req.Collector,
	})
}

// RecordAccessCard stores an access card sale
func (s *DailyIncomeService) RecordAccessCard(ctx context.Context, req AccessCardRequest) (*RecordResponse, error) {
	count := req.Count
	if count <= 0 {
		count = 1
	}
	price := s.prices.AccessCard
	if req.UnitPrice != nil {
		price = *req.UnitPrice
	}
	label, err := s.unitLabel(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}

	return s.create(ctx, income.NewRecordParams{
		CommunityID: req.CommunityID,
		PropertyID:  req.PropertyID,
		RecordDate:  req.RecordDate,
		IncomeType:  income.TypeAccessCard,
		Quantity:    count,
		UnitPrice:   &price,
		Description: income.AccessCardDescription(count, price, label, req.Remark),
		Collector:   req.Collector,
	})
}

// RecordFireWater stores a fire hydrant water test fee
func (s *DailyIncomeService) RecordFireWater(ctx context.Context, req FireWaterRequest) (*RecordResponse, error) {
	price := s.prices.FireWater
	if req.UnitPrice != nil {
		price = *req.UnitPrice
	}
	label, err := s.unitLabel(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}

	return s.create(ctx, income.NewRecordParams{
		CommunityID: req.CommunityID,
		PropertyID:  req.PropertyID,
		RecordDate:  req.RecordDate,
		IncomeType:  income.TypeFireWater,
		Quantity:    1,
		UnitPrice:   &price,
		Description: income.FireWaterDescription(price, label, req.Remark),
		Collector:   req.Collector,
	})
}

// List returns matching records and their statistics
func (s *DailyIncomeService) List(ctx context.Context, filter income.Filter) (*ListResponse, error) {
	records, err := s.records.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &ListResponse{
		Records:    make([]RecordResponse, len(records)),
		Statistics: income.Summarize(records),
	}
	for i := range records {
		resp.Records[i] = toRecordResponse(&records[i])
	}
	return resp, nil
}

// unitLabel renders "building-unit-room" for the property, or "" without one
func (s *DailyIncomeService) unitLabel(ctx context.Context, propertyID *uuid.UUID) (string, error) {
	if propertyID == nil {
		return "", nil
	}
	prop, err := s.assets.FindProperty(ctx, *propertyID)
	if err != nil {
		return "", err
	}
	return prop.Building + "-" + prop.Unit + "-" + prop.Room, nil
}

func (s *DailyIncomeService) create(ctx context.Context, p income.NewRecordParams) (*RecordResponse, error) {
	if p.RecordDate.IsZero() {
		p.RecordDate = time.Now().UTC()
	}
	r, err := income.NewRecord(p)
	if err != nil {
		return nil, err
	}
	if err := s.records.Create(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Info("Daily income recorded",
		zap.String("income_type", r.IncomeType),
		zap.String("community_id", r.CommunityID.String()),
		zap.String("amount", r.Amount.String()))

	resp := toRecordResponse(r)
	return &resp, nil
}
