package fee

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/propmgmt/backend/internal/domain/asset"
	"github.com/propmgmt/backend/internal/domain/fee"
	"github.com/propmgmt/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// billable is one (asset, fee item) pair priced by the engine
type billable struct {
	kind        asset.Kind
	id          uuid.UUID
	communityID uuid.UUID
	ownerID     *uuid.UUID
	assetType   string
	area        decimal.Decimal
	start       time.Time
	description string
}

func propertyBillable(p *asset.Property) billable {
	b := billable{
		kind:        asset.KindProperty,
		id:          p.ID,
		communityID: p.CommunityID,
		ownerID:     p.OwnerID,
		assetType:   p.PropertyType,
		area:        p.Area,
		description: p.Description(),
	}
	if p.HandoverDate != nil {
		b.start = *p.HandoverDate
	}
	return b
}

func parkingBillable(s *asset.ParkingSpace, start time.Time) billable {
	return billable{
		kind:        asset.KindParking,
		id:          s.ID,
		communityID: s.CommunityID,
		ownerID:     s.OwnerID,
		assetType:   s.ParkingType,
		area:        decimal.Zero,
		start:       start,
		description: s.Description(),
	}
}

// ownerBillables enumerates what an owner is billed for. Properties without a
// handover date and parking spaces without a resolvable start are left out.
func ownerBillables(props []asset.Property, spaces []asset.ParkingSpace) []billable {
	out := make([]billable, 0, len(props)+len(spaces))
	for i := range props {
		if !props[i].IsBillable() {
			continue
		}
		out = append(out, propertyBillable(&props[i]))
	}
	for i := range spaces {
		start := spaces[i].BillingStart(props)
		if start == nil {
			continue
		}
		out = append(out, parkingBillable(&spaces[i], *start))
	}
	return out
}

// OutstandingService prices what owners owe from their assets' billing start
// dates up to a cutoff
type OutstandingService struct {
	assets  asset.Repository
	items   fee.ItemRepository
	rates   fee.RateRepository
	records fee.RecordRepository
	logger  *zap.Logger
	today   func() time.Time
}

// NewOutstandingService creates a new OutstandingService
func NewOutstandingService(
	assets asset.Repository,
	items fee.ItemRepository,
	rates fee.RateRepository,
	records fee.RecordRepository,
	logger *zap.Logger,
) *OutstandingService {
	return &OutstandingService{
		assets:  assets,
		items:   items,
		rates:   rates,
		records: records,
		logger:  logger,
		today:   fee.Today,
	}
}

// CalculateForOwner computes the owner's outstanding property and parking
// fees as of asOf. A nil asOf means today. Only details with a positive
// outstanding amount are returned.
func (s *OutstandingService) CalculateForOwner(ctx context.Context, ownerID uuid.UUID, asOf *time.Time) (*OwnerOutstandingResponse, error) {
	cutoff := s.today()
	if asOf != nil {
		cutoff = fee.DateOf(*asOf)
	}

	if _, err := s.assets.FindOwner(ctx, ownerID); err != nil {
		return nil, err
	}

	details, err := s.ownerDetails(ctx, ownerID, cutoff)
	if err != nil {
		return nil, err
	}

	resp := &OwnerOutstandingResponse{
		OwnerID:            ownerID,
		CalculationDate:    fee.FormatDate(cutoff),
		TotalOutstanding:   decimal.Zero,
		OutstandingDetails: make([]OutstandingDetail, 0, len(details)),
	}
	for _, d := range details {
		if !d.OutstandingAmount.IsPositive() {
			continue
		}
		resp.TotalOutstanding = resp.TotalOutstanding.Add(d.OutstandingAmount)
		resp.OutstandingDetails = append(resp.OutstandingDetails, d)
	}

	resp.ExistingUnpaidTotal, err = s.records.SumUnpaidByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ownerTarget is a billable pair with its resolved fee item
type ownerTarget struct {
	billable
	item *fee.FeeItem
}

// ownerTargets lists the owner's billable pairs. Failing to load the owner's
// assets or the fee catalogue fails the whole call.
func (s *OutstandingService) ownerTargets(ctx context.Context, ownerID uuid.UUID) ([]ownerTarget, error) {
	props, err := s.assets.FindDeliveredPropertiesByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	spaces, err := s.assets.FindParkingSpacesByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	billables := ownerBillables(props, spaces)
	if len(billables) == 0 {
		return nil, nil
	}

	propertyItem, parkingItem, err := s.billingItems(ctx)
	if err != nil {
		return nil, err
	}

	targets := make([]ownerTarget, 0, len(billables))
	for _, b := range billables {
		item := propertyItem
		if b.kind == asset.KindParking {
			item = parkingItem
		}
		targets = append(targets, ownerTarget{billable: b, item: item})
	}
	return targets, nil
}

// ownerDetails prices every billable pair of the owner, including the ones
// that contribute nothing
func (s *OutstandingService) ownerDetails(ctx context.Context, ownerID uuid.UUID, cutoff time.Time) ([]OutstandingDetail, error) {
	targets, err := s.ownerTargets(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	details := make([]OutstandingDetail, 0, len(targets))
	for _, t := range targets {
		d, err := s.price(ctx, t.billable, t.item, cutoff)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, nil
}

// billingItems resolves the property and parking fee items from the catalogue
func (s *OutstandingService) billingItems(ctx context.Context) (*fee.FeeItem, *fee.FeeItem, error) {
	propertyItem, err := s.item(ctx, fee.ItemPropertyFee)
	if err != nil {
		return nil, nil, err
	}
	parkingItem, err := s.item(ctx, fee.ItemParkingFee)
	if err != nil {
		return nil, nil, err
	}
	return propertyItem, parkingItem, nil
}

func (s *OutstandingService) item(ctx context.Context, code fee.ItemCode) (*fee.FeeItem, error) {
	it, err := s.items.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("fee item %s is not configured", code)
		}
		return nil, err
	}
	return it, nil
}

// price runs rate lookup, month counting and paid netting for one pair
func (s *OutstandingService) price(ctx context.Context, b billable, item *fee.FeeItem, cutoff time.Time) (*OutstandingDetail, error) {
	d := &OutstandingDetail{
		AssetKind:         b.kind,
		AssetID:           b.id,
		AssetDescription:  b.description,
		CommunityID:       b.communityID,
		FeeItem:           item.Code,
		FeeItemID:         item.ID,
		UnitPrice:         decimal.Zero,
		TotalShouldPay:    decimal.Zero,
		PaidAmount:        decimal.Zero,
		OutstandingAmount: decimal.Zero,
		periodStart:       fee.DateOf(b.start),
		periodEnd:         cutoff,
	}
	if b.kind == asset.KindProperty {
		area := b.area
		d.Area = &area
	}

	rate, err := s.rates.FindEffective(ctx, fee.RateQuery{
		CommunityID: b.communityID,
		FeeItemID:   item.ID,
		AssetKind:   b.kind,
		AssetType:   b.assetType,
		Cutoff:      cutoff,
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Debug("No rate configured",
				zap.String("asset_kind", string(b.kind)),
				zap.String("asset_id", b.id.String()),
				zap.String("asset_type", b.assetType))
			d.Details = ReasonNoRate
			return d, nil
		}
		return nil, err
	}
	d.UnitPrice = rate.UnitPrice

	months := fee.MonthsBetween(b.start, cutoff)
	if months <= 0 {
		d.Details = ReasonNotDue
		return d, nil
	}

	paid, err := s.records.SumPaid(ctx, b.kind, b.id, item.ID)
	if err != nil {
		return nil, err
	}

	in := fee.AccrualInput{
		Kind:      b.kind,
		Area:      b.area,
		UnitPrice: rate.UnitPrice,
		Start:     b.start,
		Cutoff:    cutoff,
		PaidTotal: paid,
	}
	acc := fee.ComputeAccrual(in)

	d.PeriodStart = fee.FormatDate(d.periodStart)
	d.PeriodEnd = fee.FormatDate(cutoff)
	d.TotalMonths = acc.Months
	d.TotalShouldPay = acc.Gross
	d.PaidAmount = acc.Paid
	d.OutstandingAmount = acc.Outstanding
	d.Details = acc.Derivation(in)
	return d, nil
}
