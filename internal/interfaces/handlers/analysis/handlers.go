package analysis

import (
	"errors"

	analysissvc "proforma-backend/internal/application/analysis"
	"proforma-backend/internal/domain"
	"proforma-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *analysissvc.Service
}

// Run POST /api/v1/analysis/run
func (h *Handlers) Run(c *fiber.Ctx) error {
	var req analysissvc.Request
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	result, err := h.Service.Run(c.Context(), &req)
	if err != nil {
		return analysisError(c, err)
	}
	if len(result.Warnings) > 0 {
		return response.SuccessWithWarnings(c, "Analysis completed", result, result.Warnings)
	}
	return response.Success(c, "Analysis completed", result, nil)
}

// Get GET /api/v1/analysis/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for analysis id", fiber.StatusBadRequest, nil)
	}

	record, err := h.Service.Get(c.Context(), id)
	if err != nil {
		return analysisError(c, err)
	}
	return response.Success(c, "Analysis retrieved", record, nil)
}

func analysisError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return response.Error(c, verr.Message, fiber.StatusBadRequest, fiber.Map{"field": verr.Field})
	}
	if errors.Is(err, analysissvc.ErrNotFound) {
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	}
	return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
}
