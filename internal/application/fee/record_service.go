package fee

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/propmgmt/backend/internal/domain/fee"
	"go.uber.org/zap"
)

// FeeRecordService lists and settles fee records
type FeeRecordService struct {
	records fee.RecordRepository
	logger  *zap.Logger
	today   func() time.Time
}

// NewFeeRecordService creates a new FeeRecordService
func NewFeeRecordService(records fee.RecordRepository, logger *zap.Logger) *FeeRecordService {
	return &FeeRecordService{records: records, logger: logger, today: fee.Today}
}

// List returns a page of fee records along with statistics over the whole
// filtered set
func (s *FeeRecordService) List(ctx context.Context, filter fee.RecordFilter) (*FeeRecordListResponse, error) {
	page := filter.Pagination().Normalize()
	filter.Page, filter.PageSize = page.Page, page.PageSize

	records, total, err := s.records.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	stats, err := s.records.Statistics(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &FeeRecordListResponse{
		Records:  make([]FeeRecordResponse, len(records)),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Statistics: RecordStatisticsResponse{
			TotalCount:   stats.TotalCount,
			PaidCount:    stats.PaidCount,
			UnpaidCount:  stats.UnpaidCount,
			TotalAmount:  stats.TotalAmount,
			PaidAmount:   stats.PaidAmount,
			UnpaidAmount: stats.UnpaidAmount,
		},
	}
	for i := range records {
		resp.Records[i] = ToFeeRecordResponse(&records[i])
	}
	return resp, nil
}

// Pay settles a fee record dated today
func (s *FeeRecordService) Pay(ctx context.Context, id uuid.UUID, req PayFeeRecordRequest) (*FeeRecordResponse, error) {
	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := record.Pay(fee.Payment{
		PaidAmount:     req.PaidAmount,
		Method:         req.PaymentMethod,
		DiscountAmount: req.DiscountAmount,
		LateFee:        req.LateFee,
		Remark:         req.Remark,
		PaidOn:         s.today(),
	}); err != nil {
		return nil, err
	}

	if err := s.records.Save(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("Fee record paid",
		zap.String("fee_record_id", id.String()),
		zap.String("paid_amount", record.PaidAmount.String()),
		zap.String("payment_method", string(record.PaymentMethod)))

	resp := ToFeeRecordResponse(record)
	return &resp, nil
}
