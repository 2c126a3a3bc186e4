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
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/propmgmt/backend/internal/application/fee")

// DefaultOutstandingRemark is stored on bills created from an outstanding calculation
const DefaultOutstandingRemark = "auto-generated outstanding bill"

// BillGenerator turns priced periods into unpaid fee records. Every insert
// is guarded by a period existence check so reruns never double-bill.
type BillGenerator struct {
	assets      asset.Repository
	rates       fee.RateRepository
	records     fee.RecordRepository
	outstanding *OutstandingService
	lock        shared.RunLock
	lockConfig  shared.RunLockConfig
	logger      *zap.Logger
	today       func() time.Time
}

// NewBillGenerator creates a new BillGenerator. lock may be nil, in which
// case concurrent monthly runs are not guarded.
func NewBillGenerator(
	assets asset.Repository,
	rates fee.RateRepository,
	records fee.RecordRepository,
	outstanding *OutstandingService,
	lock shared.RunLock,
	lockConfig shared.RunLockConfig,
	logger *zap.Logger,
) *BillGenerator {
	return &BillGenerator{
		assets:      assets,
		rates:       rates,
		records:     records,
		outstanding: outstanding,
		lock:        lock,
		lockConfig:  lockConfig,
		logger:      logger,
		today:       fee.Today,
	}
}

// GenerateOutstanding bills every positive outstanding detail of the owner
// over the detail's own period. A pricing or insert failure on one asset is
// recorded in the result and the remaining assets are still billed.
func (g *BillGenerator) GenerateOutstanding(ctx context.Context, ownerID uuid.UUID, req GenerateOutstandingRequest) (*BillRunResult, error) {
	ctx, span := tracer.Start(ctx, "fee.GenerateOutstanding",
		trace.WithAttributes(attribute.String("owner_id", ownerID.String())))
	defer span.End()

	result, err := g.generateOutstanding(ctx, ownerID, req)
	endRunSpan(span, result, err)
	return result, err
}

func (g *BillGenerator) generateOutstanding(ctx context.Context, ownerID uuid.UUID, req GenerateOutstandingRequest) (*BillRunResult, error) {
	cutoff := g.today()
	if req.AsOf != nil {
		cutoff = fee.DateOf(*req.AsOf)
	}
	dueDate := g.today()
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}
	remark := req.Remark
	if remark == "" {
		remark = DefaultOutstandingRemark
	}

	if _, err := g.assets.FindOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	targets, err := g.outstanding.ownerTargets(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	result := newBillRunResult()
	for _, t := range targets {
		d, err := g.outstanding.price(ctx, t.billable, t.item, cutoff)
		if err != nil {
			g.fail(result, BillItemResult{AssetKind: t.kind, AssetID: t.id, FeeItem: t.item.Code}, err)
			continue
		}
		if !d.OutstandingAmount.IsPositive() {
			continue
		}
		start, end := d.periodStart, d.periodEnd
		g.insertOnce(ctx, result, fee.NewRecordParams{
			CommunityID: d.CommunityID,
			AssetKind:   d.AssetKind,
			AssetID:     d.AssetID,
			OwnerID:     &ownerID,
			FeeItemID:   d.FeeItemID,
			Amount:      d.OutstandingAmount,
			PeriodStart: &start,
			PeriodEnd:   &end,
			DueDate:     dueDate,
			Remark:      remark,
		}, d.FeeItem)
	}

	g.logger.Info("Outstanding bills generated",
		zap.String("owner_id", ownerID.String()),
		zap.Int("generated", result.GeneratedCount),
		zap.Int("skipped", result.SkippedCount),
		zap.Int("failed", result.FailedCount),
		zap.String("total_amount", result.TotalAmount.String()))
	return result, nil
}

// GenerateMonthly bills exactly one month for every delivered property and
// every owned parking space of the community, or of all communities when
// CommunityID is nil
func (g *BillGenerator) GenerateMonthly(ctx context.Context, req GenerateMonthlyRequest) (*BillRunResult, error) {
	ctx, span := tracer.Start(ctx, "fee.GenerateMonthly",
		trace.WithAttributes(attribute.String("bill_month", req.BillMonth)))
	defer span.End()

	result, err := g.generateMonthly(ctx, req)
	endRunSpan(span, result, err)
	return result, err
}

func (g *BillGenerator) generateMonthly(ctx context.Context, req GenerateMonthlyRequest) (*BillRunResult, error) {
	if req.BillMonth == "" || req.DueDate.IsZero() {
		return nil, shared.ErrValidation.WithMessage("bill_month and due_date are required")
	}
	periodStart, periodEnd, err := fee.MonthPeriod(req.BillMonth)
	if err != nil {
		return nil, shared.ErrValidation.WithMessage("bill_month must be formatted as YYYY-MM")
	}

	release, err := g.acquire(ctx, runLockKey(req.CommunityID, req.BillMonth))
	if err != nil {
		return nil, err
	}
	defer release()

	props, err := g.assets.FindDeliveredProperties(ctx, req.CommunityID)
	if err != nil {
		return nil, err
	}
	spaces, err := g.assets.FindOwnedParkingSpaces(ctx, req.CommunityID)
	if err != nil {
		return nil, err
	}

	propertyItem, parkingItem, err := g.outstanding.billingItems(ctx)
	if err != nil {
		return nil, err
	}

	result := newBillRunResult()
	result.PeriodStart = fee.FormatDate(periodStart)
	result.PeriodEnd = fee.FormatDate(periodEnd)

	period := monthlyPeriod{start: periodStart, end: periodEnd, due: req.DueDate}

	residents := make(map[ownerCommunity]struct{})
	for i := range props {
		p := &props[i]
		if p.OwnerID != nil {
			residents[ownerCommunity{owner: *p.OwnerID, community: p.CommunityID}] = struct{}{}
		}
		period.remark = req.BillMonth + " property fee"
		g.billMonth(ctx, result, propertyBillable(p), propertyItem, period)
	}
	for i := range spaces {
		s := &spaces[i]
		if s.OwnerID == nil {
			continue
		}
		if _, ok := residents[ownerCommunity{owner: *s.OwnerID, community: s.CommunityID}]; !ok {
			continue
		}
		period.remark = req.BillMonth + " parking fee"
		g.billMonth(ctx, result, parkingBillable(s, periodStart), parkingItem, period)
	}

	g.logger.Info("Monthly bills generated",
		zap.String("bill_month", req.BillMonth),
		zap.Int("generated", result.GeneratedCount),
		zap.Int("skipped", result.SkippedCount),
		zap.Int("failed", result.FailedCount),
		zap.String("total_amount", result.TotalAmount.String()))
	return result, nil
}

func endRunSpan(span trace.Span, result *BillRunResult, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetAttributes(
		attribute.Int("generated", result.GeneratedCount),
		attribute.Int("skipped", result.SkippedCount),
		attribute.Int("failed", result.FailedCount),
	)
}

type ownerCommunity struct {
	owner     uuid.UUID
	community uuid.UUID
}

type monthlyPeriod struct {
	start  time.Time
	end    time.Time
	due    time.Time
	remark string
}

func runLockKey(communityID *uuid.UUID, billMonth string) string {
	scope := "all"
	if communityID != nil {
		scope = communityID.String()
	}
	return fmt.Sprintf("bill-run:%s:%s", scope, billMonth)
}

// acquire takes the run lock and returns its release func
func (g *BillGenerator) acquire(ctx context.Context, key string) (func(), error) {
	if g.lock == nil || !g.lockConfig.Enabled {
		return func() {}, nil
	}
	ok, err := g.lock.Acquire(ctx, key, g.lockConfig.TTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire bill run lock: %w", err)
	}
	if !ok {
		return nil, fee.ErrBillRunInProgress
	}
	return func() {
		// the caller's context may already be cancelled
		if err := g.lock.Release(context.Background(), key); err != nil {
			g.logger.Warn("Failed to release bill run lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

func (g *BillGenerator) billMonth(ctx context.Context, result *BillRunResult, b billable, item *fee.FeeItem, period monthlyPeriod) {
	rate, err := g.rates.FindEffective(ctx, fee.RateQuery{
		CommunityID: b.communityID,
		FeeItemID:   item.ID,
		AssetKind:   b.kind,
		AssetType:   b.assetType,
		Cutoff:      period.start,
	})
	if err != nil {
		entry := BillItemResult{AssetKind: b.kind, AssetID: b.id, FeeItem: item.Code}
		if errors.Is(err, shared.ErrNotFound) {
			result.skipped(entry, ReasonNoRate)
			return
		}
		g.fail(result, entry, err)
		return
	}

	start, end := period.start, period.end
	g.insertOnce(ctx, result, fee.NewRecordParams{
		CommunityID: b.communityID,
		AssetKind:   b.kind,
		AssetID:     b.id,
		OwnerID:     b.ownerID,
		FeeItemID:   item.ID,
		Amount:      fee.MonthlyCharge(b.kind, b.area, rate.UnitPrice),
		PeriodStart: &start,
		PeriodEnd:   &end,
		DueDate:     period.due,
		Remark:      period.remark,
	}, item.Code)
}

// insertOnce creates the record unless its period is already billed
func (g *BillGenerator) insertOnce(ctx context.Context, result *BillRunResult, params fee.NewRecordParams, code fee.ItemCode) {
	entry := BillItemResult{
		AssetKind: params.AssetKind,
		AssetID:   params.AssetID,
		FeeItem:   code,
		Amount:    params.Amount,
	}

	exists, err := g.records.ExistsForPeriod(ctx, fee.PeriodKey{
		AssetKind:   params.AssetKind,
		AssetID:     params.AssetID,
		FeeItemID:   params.FeeItemID,
		PeriodStart: fee.DateOf(*params.PeriodStart),
		PeriodEnd:   fee.DateOf(*params.PeriodEnd),
	})
	if err != nil {
		g.fail(result, entry, err)
		return
	}
	if exists {
		result.skipped(entry, ReasonDuplicate)
		return
	}

	record, err := fee.NewFeeRecord(params)
	if err != nil {
		g.fail(result, entry, err)
		return
	}
	if err := g.records.Create(ctx, record); err != nil {
		if errors.Is(err, fee.ErrDuplicatePeriod) {
			result.skipped(entry, ReasonDuplicate)
			return
		}
		g.fail(result, entry, err)
		return
	}
	result.generated(entry, record.ID)
}

func (g *BillGenerator) fail(result *BillRunResult, entry BillItemResult, err error) {
	g.logger.Error("Failed to bill asset",
		zap.String("asset_kind", string(entry.AssetKind)),
		zap.String("asset_id", entry.AssetID.String()),
		zap.String("fee_item", string(entry.FeeItem)),
		zap.Error(err))
	result.failed(entry, err)
}
