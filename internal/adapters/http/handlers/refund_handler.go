package handlers

import (
	"errors"
	"strconv"

	"refundhub/internal/adapters/http/middleware"
	"refundhub/internal/core/domain"
	"refundhub/internal/core/services"
	"refundhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RefundHandler handles refund endpoints
type RefundHandler struct {
	refundService *services.RefundService
}

// NewRefundHandler creates a new refund handler
func NewRefundHandler(refundService *services.RefundService) *RefundHandler {
	return &RefundHandler{
		refundService: refundService,
	}
}

// CreateRefundRequest represents refund creation request body
type CreateRefundRequest struct {
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Filename string  `json:"filename"`
}

// Create handles refund creation
// @Summary Create refund
// @Description Submit a new reimbursement request owned by the caller
// @Tags Refunds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateRefundRequest true "Refund data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /refunds [post]
func (h *RefundHandler) Create(c *fiber.Ctx) error {
	ident, ok := middleware.Identity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CreateRefundRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.CreateRefundInput{
		Name:     req.Name,
		Amount:   req.Amount,
		Category: req.Category,
		Filename: req.Filename,
	}

	refund, err := h.refundService.Create(c.Context(), ident, input)
	if err != nil {
		if verr, ok := domain.AsValidationError(err); ok {
			return response.ValidationFailed(c, verr.Fields)
		}
		return response.InternalServerError(c, "Failed to create refund")
	}

	return response.Created(c, "Refund created successfully", fiber.Map{
		"refund": refund,
	})
}

// List handles refund listing
// @Summary List refunds
// @Description Paginated refund listing; managers/admins see every user's refunds and may filter by owner name, employees see only their own
// @Tags Refunds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param name query string false "Owner name substring (manager/admin only)"
// @Param page query int false "Page number" default(1)
// @Param perPage query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /refunds [get]
func (h *RefundHandler) List(c *fiber.Ctx) error {
	ident, ok := middleware.Identity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	perPage, _ := strconv.Atoi(c.Query("perPage", "10"))

	input := &services.ListRefundsInput{
		Name:    c.Query("name"),
		Page:    page,
		PerPage: perPage,
	}

	result, err := h.refundService.List(c.Context(), ident, input)
	if err != nil {
		return response.InternalServerError(c, "Failed to list refunds")
	}

	return response.Success(c, "Refunds retrieved successfully", result)
}

// Get handles fetching a single refund
// @Summary Get refund by ID
// @Description Get a single refund; non-privileged callers may only see their own
// @Tags Refunds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Refund ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /refunds/{id} [get]
func (h *RefundHandler) Get(c *fiber.Ctx) error {
	ident, ok := middleware.Identity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid refund ID")
	}

	refund, err := h.refundService.Get(c.Context(), ident, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRefundNotFoundSvc):
			return response.NotFound(c, "Refund not found")
		case errors.Is(err, services.ErrRefundForbidden):
			return response.Forbidden(c, "You don't have permission to view this refund")
		default:
			return response.InternalServerError(c, "Failed to get refund")
		}
	}

	return response.Success(c, "Refund retrieved successfully", fiber.Map{
		"refund": refund,
	})
}
