package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	incomeapp "github.com/propmgmt/backend/internal/application/income"
	"github.com/propmgmt/backend/internal/domain/income"
)

// IncomeService records front-desk income
type IncomeService interface {
	Record(ctx context.Context, req incomeapp.RecordRequest) (*incomeapp.RecordResponse, error)
	RecordAccessCard(ctx context.Context, req incomeapp.AccessCardRequest) (*incomeapp.RecordResponse, error)
	RecordFireWater(ctx context.Context, req incomeapp.FireWaterRequest) (*incomeapp.RecordResponse, error)
	List(ctx context.Context, filter income.Filter) (*incomeapp.ListResponse, error)
}

// IncomeHandler handles daily income endpoints
type IncomeHandler struct {
	BaseHandler
	income IncomeService
}

// NewIncomeHandler creates a new IncomeHandler
func NewIncomeHandler(svc IncomeService) *IncomeHandler {
	return &IncomeHandler{income: svc}
}

// List godoc
// @Summary      List daily income with per-type statistics
// @Tags         daily-income
// @Produce      json
// @Param        community_id query string false "Community ID" format(uuid)
// @Param        start_date   query string false "From (YYYY-MM-DD)"
// @Param        end_date     query string false "To (YYYY-MM-DD)"
// @Param        income_type  query string false "Income type"
// @Success      200 {object} APIResponse[incomeapp.ListResponse]
// @Router       /daily-income [get]
func (h *IncomeHandler) List(c *gin.Context) {
	var q ListIncomeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.income.List(c.Request.Context(), q.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Record godoc
// @Summary      Record a daily income entry
// @Tags         daily-income
// @Accept       json
// @Produce      json
// @Param        request body RecordIncomeRequest true "Income"
// @Success      201 {object} APIResponse[incomeapp.RecordResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /daily-income [post]
func (h *IncomeHandler) Record(c *gin.Context) {
	var req RecordIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.income.Record(c.Request.Context(), req.toApp())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// RecordAccessCard godoc
// @Summary      Sell access cards
// @Tags         daily-income
// @Accept       json
// @Produce      json
// @Param        request body AccessCardRequest true "Sale"
// @Success      201 {object} APIResponse[incomeapp.RecordResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /daily-income/access-card [post]
func (h *IncomeHandler) RecordAccessCard(c *gin.Context) {
	var req AccessCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.income.RecordAccessCard(c.Request.Context(), req.toApp())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// RecordFireWater godoc
// @Summary      Charge a fire hydrant water test
// @Tags         daily-income
// @Accept       json
// @Produce      json
// @Param        request body FireWaterRequest true "Charge"
// @Success      201 {object} APIResponse[incomeapp.RecordResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /daily-income/fire-water [post]
func (h *IncomeHandler) RecordFireWater(c *gin.Context) {
	var req FireWaterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.income.RecordFireWater(c.Request.Context(), req.toApp())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}
