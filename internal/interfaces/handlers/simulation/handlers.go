package simulation

import (
	"errors"

	simulationsvc "proforma-backend/internal/application/simulation"
	"proforma-backend/internal/domain"
	"proforma-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *simulationsvc.Service
}

// Run POST /api/v1/simulation/run
func (h *Handlers) Run(c *fiber.Ctx) error {
	var req simulationsvc.Request
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	result, err := h.Service.Run(c.Context(), &req)
	if err != nil {
		return simulationError(c, err)
	}
	if len(result.Simulation.Warnings) > 0 {
		return response.SuccessWithWarnings(c, "Simulation completed", result, result.Simulation.Warnings)
	}
	return response.Success(c, "Simulation completed", result, nil)
}

// Get GET /api/v1/simulation/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for simulation id", fiber.StatusBadRequest, nil)
	}

	record, err := h.Service.Get(c.Context(), id)
	if err != nil {
		return simulationError(c, err)
	}
	return response.Success(c, "Simulation retrieved", record, nil)
}

func simulationError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return response.Error(c, verr.Message, fiber.StatusBadRequest, fiber.Map{"field": verr.Field})
	}
	if errors.Is(err, simulationsvc.ErrNotFound) {
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	}
	return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
}
