package handler

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	feeapp "github.com/propmgmt/backend/internal/application/fee"
	"github.com/propmgmt/backend/internal/domain/fee"
)

// OutstandingCalculator prices an owner's unbilled periods
type OutstandingCalculator interface {
	CalculateForOwner(ctx context.Context, ownerID uuid.UUID, asOf *time.Time) (*feeapp.OwnerOutstandingResponse, error)
}

// BillRunner creates fee records in bulk
type BillRunner interface {
	GenerateOutstanding(ctx context.Context, ownerID uuid.UUID, req feeapp.GenerateOutstandingRequest) (*feeapp.BillRunResult, error)
	GenerateMonthly(ctx context.Context, req feeapp.GenerateMonthlyRequest) (*feeapp.BillRunResult, error)
}

// FeeRecordService lists and settles fee records
type FeeRecordService interface {
	List(ctx context.Context, filter fee.RecordFilter) (*feeapp.FeeRecordListResponse, error)
	Pay(ctx context.Context, id uuid.UUID, req feeapp.PayFeeRecordRequest) (*feeapp.FeeRecordResponse, error)
}

// RateService maintains the rate table
type RateService interface {
	Create(ctx context.Context, req feeapp.CreateRateRequest) (*feeapp.RateResponse, error)
	List(ctx context.Context, filter fee.RateFilter) ([]feeapp.RateResponse, error)
	Items(ctx context.Context) ([]fee.FeeItem, error)
}

// MeterService records meter readings
type MeterService interface {
	RecordWater(ctx context.Context, req feeapp.MeterReadingRequest) (*feeapp.MeterReadingResponse, error)
	RecordElectricity(ctx context.Context, req feeapp.MeterReadingRequest) (*feeapp.MeterReadingResponse, error)
}

// FeeHandler handles fee-related API endpoints
type FeeHandler struct {
	BaseHandler
	outstanding OutstandingCalculator
	bills       BillRunner
	records     FeeRecordService
	rates       RateService
	meters      MeterService
}

// NewFeeHandler creates a new FeeHandler
func NewFeeHandler(
	outstanding OutstandingCalculator,
	bills BillRunner,
	records FeeRecordService,
	rates RateService,
	meters MeterService,
) *FeeHandler {
	return &FeeHandler{
		outstanding: outstanding,
		bills:       bills,
		records:     records,
		rates:       rates,
		meters:      meters,
	}
}

// GetOutstanding godoc
// @Summary      Calculate an owner's outstanding fees
// @Tags         fees
// @Produce      json
// @Param        owner_id    path   string true  "Owner ID" format(uuid)
// @Param        as_of_date  query  string false "Cutoff date (YYYY-MM-DD), defaults to today"
// @Success      200 {object} APIResponse[feeapp.OwnerOutstandingResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /fees/outstanding/{owner_id} [get]
func (h *FeeHandler) GetOutstanding(c *gin.Context) {
	ownerID, ok := h.parseUUIDParam(c, "owner_id")
	if !ok {
		return
	}
	asOf, err := parseOptionalDate(c.Query("as_of_date"))
	if err != nil {
		h.BadRequest(c, "as_of_date must be formatted as YYYY-MM-DD")
		return
	}

	result, err := h.outstanding.CalculateForOwner(c.Request.Context(), ownerID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GenerateOutstanding godoc
// @Summary      Bill every outstanding period of an owner
// @Tags         fees
// @Accept       json
// @Produce      json
// @Param        owner_id  path  string                      true  "Owner ID" format(uuid)
// @Param        request   body  GenerateOutstandingRequest  false "Due date and remark"
// @Success      200 {object} APIResponse[feeapp.BillRunResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /fees/generate-outstanding/{owner_id} [post]
func (h *FeeHandler) GenerateOutstanding(c *gin.Context) {
	ownerID, ok := h.parseUUIDParam(c, "owner_id")
	if !ok {
		return
	}
	var req GenerateOutstandingRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.BindError(c, err)
		return
	}

	result, err := h.bills.GenerateOutstanding(c.Request.Context(), ownerID, req.toApp())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GenerateMonthly godoc
// @Summary      Bill one month for every delivered property and owned parking space
// @Tags         fees
// @Accept       json
// @Produce      json
// @Param        request body GenerateMonthlyRequest true "Bill month and due date"
// @Success      200 {object} APIResponse[feeapp.BillRunResult]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /fees/generate-monthly [post]
func (h *FeeHandler) GenerateMonthly(c *gin.Context) {
	var req GenerateMonthlyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.bills.GenerateMonthly(c.Request.Context(), req.toApp())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListItems godoc
// @Summary      List fee items
// @Tags         fees
// @Produce      json
// @Success      200 {object} APIResponse[[]FeeItemResponse]
// @Router       /fees/items [get]
func (h *FeeHandler) ListItems(c *gin.Context) {
	items, err := h.rates.Items(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toFeeItemResponses(items))
}

// ListRates godoc
// @Summary      List fee rates
// @Tags         fees
// @Produce      json
// @Param        community_id query string false "Community ID" format(uuid)
// @Param        fee_item_id  query string false "Fee item ID" format(uuid)
// @Param        asset_kind   query string false "property or parking"
// @Param        active_only  query bool   false "Only active rates"
// @Success      200 {object} APIResponse[[]feeapp.RateResponse]
// @Router       /fees/rates [get]
func (h *FeeHandler) ListRates(c *gin.Context) {
	var q ListRatesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	rates, err := h.rates.List(c.Request.Context(), q.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rates)
}

// CreateRate godoc
// @Summary      Add a fee rate
// @Tags         fees
// @Accept       json
// @Produce      json
// @Param        request body CreateRateRequest true "Rate"
// @Success      201 {object} APIResponse[feeapp.RateResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /fees/rates [post]
func (h *FeeHandler) CreateRate(c *gin.Context) {
	var req CreateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	rate, err := h.rates.Create(c.Request.Context(), req.toApp())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rate)
}

// ListRecords godoc
// @Summary      List fee records with statistics
// @Tags         fees
// @Produce      json
// @Param        community_id query string false "Community ID" format(uuid)
// @Param        owner_id     query string false "Owner ID" format(uuid)
// @Param        property_id  query string false "Property ID" format(uuid)
// @Param        fee_item_id  query string false "Fee item ID" format(uuid)
// @Param        status       query string false "unpaid or paid"
// @Param        start_date   query string false "Due on or after (YYYY-MM-DD)"
// @Param        end_date     query string false "Due on or before (YYYY-MM-DD)"
// @Param        page         query int    false "Page number" default(1)
// @Param        page_size    query int    false "Page size" default(20)
// @Param        sort_by      query string false "due_date, amount, period_start, paid_date, status or created_at"
// @Param        sort_order   query string false "asc or desc" default(desc)
// @Success      200 {object} APIResponse[feeapp.FeeRecordListResponse]
// @Router       /fees/records [get]
func (h *FeeHandler) ListRecords(c *gin.Context) {
	var q ListFeeRecordsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.records.List(c.Request.Context(), q.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result, result.Total, result.Page, result.PageSize)
}

// PayRecord godoc
// @Summary      Mark a fee record paid
// @Tags         fees
// @Accept       json
// @Produce      json
// @Param        id      path string              true "Fee record ID" format(uuid)
// @Param        request body PayFeeRecordRequest true "Payment"
// @Success      200 {object} APIResponse[feeapp.FeeRecordResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /fees/records/{id}/pay [post]
func (h *FeeHandler) PayRecord(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req PayFeeRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	record, err := h.records.Pay(c.Request.Context(), id, req.toApp())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// RecordWaterReading godoc
// @Summary      Record a water meter reading
// @Tags         fees
// @Accept       json
// @Produce      json
// @Param        request body MeterReadingRequest true "Reading"
// @Success      201 {object} APIResponse[feeapp.MeterReadingResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /fees/water-readings [post]
func (h *FeeHandler) RecordWaterReading(c *gin.Context) {
	h.recordReading(c, h.meters.RecordWater)
}

// RecordElectricityReading godoc
// @Summary      Record an electricity meter reading
// @Tags         fees
// @Accept       json
// @Produce      json
// @Param        request body MeterReadingRequest true "Reading"
// @Success      201 {object} APIResponse[feeapp.MeterReadingResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /fees/electricity-readings [post]
func (h *FeeHandler) RecordElectricityReading(c *gin.Context) {
	h.recordReading(c, h.meters.RecordElectricity)
}

func (h *FeeHandler) recordReading(
	c *gin.Context,
	record func(context.Context, feeapp.MeterReadingRequest) (*feeapp.MeterReadingResponse, error),
) {
	var req MeterReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := record(c.Request.Context(), req.toApp())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}
