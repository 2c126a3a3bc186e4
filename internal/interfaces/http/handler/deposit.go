package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	depositapp "github.com/propmgmt/backend/internal/application/deposit"
	"github.com/propmgmt/backend/internal/domain/deposit"
)

// DepositService manages property deposits
type DepositService interface {
	Create(ctx context.Context, req depositapp.CreateDepositRequest) (*depositapp.DepositResponse, error)
	List(ctx context.Context, filter deposit.Filter) ([]depositapp.DepositResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*depositapp.DepositResponse, error)
	Deductions(ctx context.Context, id uuid.UUID) ([]depositapp.DeductionResponse, error)
	Deduct(ctx context.Context, id uuid.UUID, req depositapp.DeductRequest) (*depositapp.DeductResult, error)
	Refund(ctx context.Context, id uuid.UUID, req depositapp.RefundRequest) (*depositapp.RefundResult, error)
}

// DepositHandler handles deposit-related API endpoints
type DepositHandler struct {
	BaseHandler
	deposits DepositService
}

// NewDepositHandler creates a new DepositHandler
func NewDepositHandler(deposits DepositService) *DepositHandler {
	return &DepositHandler{deposits: deposits}
}

// Create godoc
// @Summary      Register a deposit
// @Tags         deposits
// @Accept       json
// @Produce      json
// @Param        request body CreateDepositRequest true "Deposit"
// @Success      201 {object} APIResponse[depositapp.DepositResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /deposits [post]
func (h *DepositHandler) Create(c *gin.Context) {
	var req CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	dep, err := h.deposits.Create(c.Request.Context(), req.toApp())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dep)
}

// List godoc
// @Summary      List deposits
// @Tags         deposits
// @Produce      json
// @Param        property_id  query string false "Property ID" format(uuid)
// @Param        owner_id     query string false "Owner ID" format(uuid)
// @Param        deposit_type query string false "Deposit type"
// @Param        status       query string false "active, depleted or refunded"
// @Success      200 {object} APIResponse[[]depositapp.DepositResponse]
// @Router       /deposits [get]
func (h *DepositHandler) List(c *gin.Context) {
	var q ListDepositsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	deps, err := h.deposits.List(c.Request.Context(), q.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, deps)
}

// Get godoc
// @Summary      Get a deposit
// @Tags         deposits
// @Produce      json
// @Param        id path string true "Deposit ID" format(uuid)
// @Success      200 {object} APIResponse[depositapp.DepositResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /deposits/{id} [get]
func (h *DepositHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	dep, err := h.deposits.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dep)
}

// Deductions godoc
// @Summary      List a deposit's deductions
// @Tags         deposits
// @Produce      json
// @Param        id path string true "Deposit ID" format(uuid)
// @Success      200 {object} APIResponse[[]depositapp.DeductionResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /deposits/{id}/deductions [get]
func (h *DepositHandler) Deductions(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	entries, err := h.deposits.Deductions(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// Deduct godoc
// @Summary      Deduct from a deposit
// @Description  Lowers the balance and, when fee_record_id is given, settles that fee record in the same transaction.
// @Tags         deposits
// @Accept       json
// @Produce      json
// @Param        id      path string        true "Deposit ID" format(uuid)
// @Param        request body DeductRequest true "Deduction"
// @Success      200 {object} APIResponse[depositapp.DeductResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /deposits/{id}/deduct [post]
func (h *DepositHandler) Deduct(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req DeductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.deposits.Deduct(c.Request.Context(), id, req.toApp())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, result, "Deduction recorded")
}

// Refund godoc
// @Summary      Refund a deposit
// @Tags         deposits
// @Accept       json
// @Produce      json
// @Param        id      path string        true "Deposit ID" format(uuid)
// @Param        request body RefundRequest true "Refund"
// @Success      200 {object} APIResponse[depositapp.RefundResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /deposits/{id}/refund [post]
func (h *DepositHandler) Refund(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.deposits.Refund(c.Request.Context(), id, req.toApp())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, result, "Refund recorded")
}
