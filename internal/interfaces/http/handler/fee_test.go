package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	feeapp "github.com/propmgmt/backend/internal/application/fee"
	"github.com/propmgmt/backend/internal/domain/fee"
	"github.com/propmgmt/backend/internal/domain/shared"
	"github.com/propmgmt/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOutstandingCalculator struct {
	mock.Mock
}

func (m *MockOutstandingCalculator) CalculateForOwner(ctx context.Context, ownerID uuid.UUID, asOf *time.Time) (*feeapp.OwnerOutstandingResponse, error) {
	args := m.Called(ctx, ownerID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feeapp.OwnerOutstandingResponse), args.Error(1)
}

type MockBillRunner struct {
	mock.Mock
}

func (m *MockBillRunner) GenerateOutstanding(ctx context.Context, ownerID uuid.UUID, req feeapp.GenerateOutstandingRequest) (*feeapp.BillRunResult, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feeapp.BillRunResult), args.Error(1)
}

func (m *MockBillRunner) GenerateMonthly(ctx context.Context, req feeapp.GenerateMonthlyRequest) (*feeapp.BillRunResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feeapp.BillRunResult), args.Error(1)
}

type MockFeeRecordService struct {
	mock.Mock
}

func (m *MockFeeRecordService) List(ctx context.Context, filter fee.RecordFilter) (*feeapp.FeeRecordListResponse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feeapp.FeeRecordListResponse), args.Error(1)
}

func (m *MockFeeRecordService) Pay(ctx context.Context, id uuid.UUID, req feeapp.PayFeeRecordRequest) (*feeapp.FeeRecordResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feeapp.FeeRecordResponse), args.Error(1)
}

type MockRateService struct {
	mock.Mock
}

func (m *MockRateService) Create(ctx context.Context, req feeapp.CreateRateRequest) (*feeapp.RateResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feeapp.RateResponse), args.Error(1)
}

func (m *MockRateService) List(ctx context.Context, filter fee.RateFilter) ([]feeapp.RateResponse, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]feeapp.RateResponse), args.Error(1)
}

func (m *MockRateService) Items(ctx context.Context) ([]fee.FeeItem, error) {
	args := m.Called(ctx)
	return args.Get(0).([]fee.FeeItem), args.Error(1)
}

type MockMeterService struct {
	mock.Mock
}

func (m *MockMeterService) RecordWater(ctx context.Context, req feeapp.MeterReadingRequest) (*feeapp.MeterReadingResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feeapp.MeterReadingResponse), args.Error(1)
}

func (m *MockMeterService) RecordElectricity(ctx context.Context, req feeapp.MeterReadingRequest) (*feeapp.MeterReadingResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feeapp.MeterReadingResponse), args.Error(1)
}

type feeMocks struct {
	outstanding *MockOutstandingCalculator
	bills       *MockBillRunner
	records     *MockFeeRecordService
	rates       *MockRateService
	meters      *MockMeterService
}

func setupFeeRouter() (*gin.Engine, *feeMocks) {
	m := &feeMocks{
		outstanding: new(MockOutstandingCalculator),
		bills:       new(MockBillRunner),
		records:     new(MockFeeRecordService),
		rates:       new(MockRateService),
		meters:      new(MockMeterService),
	}
	h := NewFeeHandler(m.outstanding, m.bills, m.records, m.rates, m.meters)

	r := gin.New()
	r.GET("/fees/outstanding/:owner_id", h.GetOutstanding)
	r.POST("/fees/generate-outstanding/:owner_id", h.GenerateOutstanding)
	r.POST("/fees/generate-monthly", h.GenerateMonthly)
	r.GET("/fees/items", h.ListItems)
	r.GET("/fees/rates", h.ListRates)
	r.POST("/fees/rates", h.CreateRate)
	r.GET("/fees/records", h.ListRecords)
	r.POST("/fees/records/:id/pay", h.PayRecord)
	r.POST("/fees/water-readings", h.RecordWaterReading)
	r.POST("/fees/electricity-readings", h.RecordElectricityReading)
	return r, m
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestFeeHandler_GetOutstanding(t *testing.T) {
	ownerID := uuid.New()

	t.Run("defaults to today", func(t *testing.T) {
		r, m := setupFeeRouter()
		m.outstanding.On("CalculateForOwner", mock.Anything, ownerID, (*time.Time)(nil)).
			Return(&feeapp.OwnerOutstandingResponse{
				OwnerID:          ownerID,
				CalculationDate:  "2024-06-30",
				TotalOutstanding: decimal.NewFromInt(1200),
			}, nil)

		w := doJSON(r, http.MethodGet, "/fees/outstanding/"+ownerID.String(), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "1200", data["total_outstanding"])
		m.outstanding.AssertExpectations(t)
	})

	t.Run("passes as_of_date", func(t *testing.T) {
		r, m := setupFeeRouter()
		m.outstanding.On("CalculateForOwner", mock.Anything, ownerID, mock.MatchedBy(func(d *time.Time) bool {
			return d != nil && fee.FormatDate(*d) == "2024-03-31"
		})).Return(&feeapp.OwnerOutstandingResponse{OwnerID: ownerID}, nil)

		w := doJSON(r, http.MethodGet, "/fees/outstanding/"+ownerID.String()+"?as_of_date=2024-03-31", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		m.outstanding.AssertExpectations(t)
	})

	t.Run("bad owner id", func(t *testing.T) {
		r, m := setupFeeRouter()
		w := doJSON(r, http.MethodGet, "/fees/outstanding/not-a-uuid", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid owner_id format", decodeResponse(t, w).Message)
		m.outstanding.AssertNotCalled(t, "CalculateForOwner")
	})

	t.Run("bad as_of_date", func(t *testing.T) {
		r, _ := setupFeeRouter()
		w := doJSON(r, http.MethodGet, "/fees/outstanding/"+ownerID.String()+"?as_of_date=31/03/2024", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("owner not found", func(t *testing.T) {
		r, m := setupFeeRouter()
		m.outstanding.On("CalculateForOwner", mock.Anything, ownerID, (*time.Time)(nil)).
			Return(nil, shared.ErrNotFound.WithMessage("Owner not found"))

		w := doJSON(r, http.MethodGet, "/fees/outstanding/"+ownerID.String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "Owner not found", resp.Message)
	})

	t.Run("data access failure surfaces message", func(t *testing.T) {
		r, m := setupFeeRouter()
		m.outstanding.On("CalculateForOwner", mock.Anything, ownerID, (*time.Time)(nil)).
			Return(nil, errors.New("database is closed"))

		w := doJSON(r, http.MethodGet, "/fees/outstanding/"+ownerID.String(), nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "database is closed", decodeResponse(t, w).Message)
	})
}

func TestFeeHandler_GenerateOutstanding(t *testing.T) {
	ownerID := uuid.New()

	t.Run("empty body", func(t *testing.T) {
		r, m := setupFeeRouter()
		m.bills.On("GenerateOutstanding", mock.Anything, ownerID, feeapp.GenerateOutstandingRequest{}).
			Return(&feeapp.BillRunResult{GeneratedCount: 2, TotalAmount: decimal.NewFromInt(800)}, nil)

		req := httptest.NewRequest(http.MethodPost, "/fees/generate-outstanding/"+ownerID.String(), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, float64(2), data["generated_count"])
		m.bills.AssertExpectations(t)
	})

	t.Run("due date and remark", func(t *testing.T) {
		r, m := setupFeeRouter()
		m.bills.On("GenerateOutstanding", mock.Anything, ownerID, mock.MatchedBy(func(req feeapp.GenerateOutstandingRequest) bool {
			return req.DueDate != nil && fee.FormatDate(*req.DueDate) == "2024-07-15" && req.Remark == "move-in"
		})).Return(&feeapp.BillRunResult{}, nil)

		w := doJSON(r, http.MethodPost, "/fees/generate-outstanding/"+ownerID.String(),
			map[string]any{"due_date": "2024-07-15", "remark": "move-in"})

		assert.Equal(t, http.StatusOK, w.Code)
		m.bills.AssertExpectations(t)
	})

	t.Run("malformed due date", func(t *testing.T) {
		r, m := setupFeeRouter()
		w := doJSON(r, http.MethodPost, "/fees/generate-outstanding/"+ownerID.String(),
			map[string]any{"due_date": "15/07/2024"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		m.bills.AssertNotCalled(t, "GenerateOutstanding")
	})
}

func TestFeeHandler_GenerateMonthly(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r, m := setupFeeRouter()
		communityID := uuid.New()
		m.bills.On("GenerateMonthly", mock.Anything, mock.MatchedBy(func(req feeapp.GenerateMonthlyRequest) bool {
			return req.BillMonth == "2024-05" &&
				fee.FormatDate(req.DueDate) == "2024-05-20" &&
				req.CommunityID != nil && *req.CommunityID == communityID
		})).Return(&feeapp.BillRunResult{GeneratedCount: 10, SkippedCount: 3}, nil)

		w := doJSON(r, http.MethodPost, "/fees/generate-monthly", map[string]any{
			"community_id": communityID.String(),
			"bill_month":   "2024-05",
			"due_date":     "2024-05-20",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, float64(10), data["generated_count"])
		assert.Equal(t, float64(3), data["skipped_count"])
		m.bills.AssertExpectations(t)
	})

	t.Run("missing bill month and due date", func(t *testing.T) {
		r, m := setupFeeRouter()
		w := doJSON(r, http.MethodPost, "/fees/generate-monthly", map[string]any{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Len(t, resp.Error.Details, 2)
		m.bills.AssertNotCalled(t, "GenerateMonthly")
	})

	t.Run("missing due date only", func(t *testing.T) {
		r, _ := setupFeeRouter()
		w := doJSON(r, http.MethodPost, "/fees/generate-monthly", map[string]any{"bill_month": "2024-05"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "due_date", resp.Error.Details[0].Field)
	})

	t.Run("run already in progress", func(t *testing.T) {
		r, m := setupFeeRouter()
		m.bills.On("GenerateMonthly", mock.Anything, mock.Anything).Return(nil, fee.ErrBillRunInProgress)

		w := doJSON(r, http.MethodPost, "/fees/generate-monthly", map[string]any{
			"bill_month": "2024-05",
			"due_date":   "2024-05-20",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeBillRunInProgress, decodeResponse(t, w).Error.Code)
	})
}

func TestFeeHandler_Rates(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		r, m := setupFeeRouter()
		communityID := uuid.New()
		m.rates.On("Create", mock.Anything, mock.MatchedBy(func(req feeapp.CreateRateRequest) bool {
			return req.CommunityID == communityID &&
				req.FeeItem == fee.ItemCode("PROPERTY_FEE") &&
				req.UnitPrice.Equal(decimal.RequireFromString("2.5")) &&
				fee.FormatDate(req.EffectiveDate) == "2024-01-01"
		})).Return(&feeapp.RateResponse{ID: uuid.New(), UnitPrice: decimal.RequireFromString("2.5")}, nil)

		w := doJSON(r, http.MethodPost, "/fees/rates", map[string]any{
			"community_id":   communityID.String(),
			"fee_item":       "PROPERTY_FEE",
			"asset_kind":     "property",
			"asset_type":     "residential",
			"unit_price":     2.5,
			"effective_date": "2024-01-01",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		m.rates.AssertExpectations(t)
	})

	t.Run("create duplicate active rate", func(t *testing.T) {
		r, m := setupFeeRouter()
		m.rates.On("Create", mock.Anything, mock.Anything).Return(nil, fee.ErrDuplicateRate)

		w := doJSON(r, http.MethodPost, "/fees/rates", map[string]any{
			"community_id":   uuid.New().String(),
			"fee_item":       "PROPERTY_FEE",
			"asset_kind":     "property",
			"asset_type":     "residential",
			"unit_price":     2.5,
			"effective_date": "2024-01-01",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeAlreadyExists, decodeResponse(t, w).Error.Code)
	})

	t.Run("create rejects negative price", func(t *testing.T) {
		r, m := setupFeeRouter()
		w := doJSON(r, http.MethodPost, "/fees/rates", map[string]any{
			"community_id":   uuid.New().String(),
			"fee_item":       "PROPERTY_FEE",
			"asset_kind":     "property",
			"asset_type":     "residential",
			"unit_price":     -1,
			"effective_date": "2024-01-01",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		m.rates.AssertNotCalled(t, "Create")
	})

	t.Run("list active", func(t *testing.T) {
		r, m := setupFeeRouter()
		m.rates.On("List", mock.Anything, mock.MatchedBy(func(f fee.RateFilter) bool {
			return f.ActiveOnly && f.CommunityID == nil
		})).Return([]feeapp.RateResponse{{ID: uuid.New()}}, nil)

		w := doJSON(r, http.MethodGet, "/fees/rates?active_only=true", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeResponse(t, w).Data, 1)
	})

	t.Run("items", func(t *testing.T) {
		r, m := setupFeeRouter()
		m.rates.On("Items", mock.Anything).Return([]fee.FeeItem{
			{ID: uuid.New(), Code: "PROPERTY_FEE", Name: "Property fee", CalculationMethod: "AREA"},
		}, nil)

		w := doJSON(r, http.MethodGet, "/fees/items", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		items := decodeResponse(t, w).Data.([]any)
		require.Len(t, items, 1)
		assert.Equal(t, "AREA", items[0].(map[string]any)["calculation_method"])
	})
}

func TestFeeHandler_Records(t *testing.T) {
	t.Run("list applies paging defaults", func(t *testing.T) {
		r, m := setupFeeRouter()
		m.records.On("List", mock.Anything, mock.MatchedBy(func(f fee.RecordFilter) bool {
			return f.Page == 1 && f.PageSize == 20 && f.Status == fee.Status("unpaid")
		})).Return(&feeapp.FeeRecordListResponse{
			Records:  []feeapp.FeeRecordResponse{},
			Total:    45,
			Page:     1,
			PageSize: 20,
		}, nil)

		w := doJSON(r, http.MethodGet, "/fees/records?status=unpaid", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(45), resp.Meta.Total)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})

	t.Run("list rejects unknown status", func(t *testing.T) {
		r, _ := setupFeeRouter()
		w := doJSON(r, http.MethodGet, "/fees/records?status=void", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("pay", func(t *testing.T) {
		r, m := setupFeeRouter()
		id := uuid.New()
		m.records.On("Pay", mock.Anything, id, mock.MatchedBy(func(req feeapp.PayFeeRecordRequest) bool {
			return req.PaymentMethod == fee.PaymentMethod("wechat") && req.PaidAmount == nil
		})).Return(&feeapp.FeeRecordResponse{ID: id, Status: fee.Status("paid")}, nil)

		w := doJSON(r, http.MethodPost, "/fees/records/"+id.String()+"/pay", map[string]any{"payment_method": "wechat"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "paid", decodeResponse(t, w).Data.(map[string]any)["status"])
	})

	t.Run("pay already paid", func(t *testing.T) {
		r, m := setupFeeRouter()
		id := uuid.New()
		m.records.On("Pay", mock.Anything, id, mock.Anything).Return(nil, fee.ErrFeeRecordAlreadyPaid)

		w := doJSON(r, http.MethodPost, "/fees/records/"+id.String()+"/pay", map[string]any{"payment_method": "cash"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidState, decodeResponse(t, w).Error.Code)
	})
}

func TestFeeHandler_MeterReadings(t *testing.T) {
	propertyID := uuid.New()
	body := map[string]any{
		"property_id":     propertyID.String(),
		"reading_date":    "2024-04-30",
		"current_reading": 1250.5,
	}

	t.Run("water", func(t *testing.T) {
		r, m := setupFeeRouter()
		m.meters.On("RecordWater", mock.Anything, mock.MatchedBy(func(req feeapp.MeterReadingRequest) bool {
			return req.PropertyID == propertyID && req.CurrentReading.Equal(decimal.RequireFromString("1250.5"))
		})).Return(&feeapp.MeterReadingResponse{}, nil)

		w := doJSON(r, http.MethodPost, "/fees/water-readings", body)

		assert.Equal(t, http.StatusCreated, w.Code)
		m.meters.AssertExpectations(t)
	})

	t.Run("electricity without rate", func(t *testing.T) {
		r, m := setupFeeRouter()
		m.meters.On("RecordElectricity", mock.Anything, mock.Anything).Return(nil, fee.ErrNoRateConfigured)

		w := doJSON(r, http.MethodPost, "/fees/electricity-readings", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeNoRateConfigured, decodeResponse(t, w).Error.Code)
	})

	t.Run("missing property", func(t *testing.T) {
		r, m := setupFeeRouter()
		w := doJSON(r, http.MethodPost, "/fees/water-readings", map[string]any{"reading_date": "2024-04-30"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		m.meters.AssertNotCalled(t, "RecordWater")
	})
}
