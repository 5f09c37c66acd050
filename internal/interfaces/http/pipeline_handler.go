package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/prism-crm/prism-api/internal/application/dto"
	"github.com/prism-crm/prism-api/internal/application/pipeline"
	"github.com/prism-crm/prism-api/internal/domain"
	"github.com/prism-crm/prism-api/internal/domain/entity"
)

// PipelineHandler maneja el tablero Kanban del pipeline de ventas.
type PipelineHandler struct {
	uc *pipeline.UseCase
}

// NewPipelineHandler construye el handler.
func NewPipelineHandler(uc *pipeline.UseCase) *PipelineHandler {
	return &PipelineHandler{uc: uc}
}

// GetBoard godoc
// @Summary      Tablero Kanban del pipeline
// @Tags         pipeline
// @Produce      json
// @Success      200  {object}  dto.BoardResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/pipeline/board [get]
func (h *PipelineHandler) GetBoard(c *fiber.Ctx) error {
	out, err := h.uc.GetBoard(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MoveStage godoc
// @Summary      Mover cliente de etapa
// @Tags         pipeline
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del cliente"
// @Param        body  body  dto.MoveStageRequest  true  "etapa destino"
// @Success      200  {object}  dto.MoveStageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/pipeline/customers/{id}/stage [patch]
func (h *PipelineHandler) MoveStage(c *fiber.Ctx) error {
	var in dto.MoveStageRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	stage, ok := entity.ParsePipelineStage(in.Stage)
	if !ok {
		return respondError(c, domain.ErrInvalidStage)
	}
	out, err := h.uc.MoveStage(c.UserContext(), GetUserID(c), c.Params("id"), stage)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
