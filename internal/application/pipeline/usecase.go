package pipeline

import (
	"context"
	"fmt"

	"github.com/prism-crm/prism-api/internal/application/dto"
	"github.com/prism-crm/prism-api/internal/domain/entity"
)

// UseCase casos de uso del tablero Kanban sobre el Manager de tableros.
type UseCase struct {
	boards *Manager
}

// NewUseCase construye el caso de uso.
func NewUseCase(boards *Manager) *UseCase {
	return &UseCase{boards: boards}
}

// GetBoard recarga el tablero del usuario desde el store (fetch bajo demanda,
// no hay push en tiempo real) y lo devuelve agrupado en las tres columnas.
func (uc *UseCase) GetBoard(ctx context.Context, ownerID string) (*dto.BoardResponse, error) {
	board := uc.boards.Board(ownerID)
	if err := board.Refresh(ctx); err != nil {
		return nil, err
	}
	out := &dto.BoardResponse{Columns: make([]dto.BoardColumnDTO, 0, len(entity.Stages))}
	for _, stage := range entity.Stages {
		customers := board.ByStage(stage)
		out.Columns = append(out.Columns, dto.BoardColumnDTO{
			Stage:     string(stage),
			Label:     stage.Label(),
			Color:     stage.Color(),
			Customers: dto.NewCustomerResponses(customers),
		})
		out.Total += len(customers)
	}
	return out, nil
}

// MoveStage mueve un cliente a la etapa destino vía el motor del tablero y
// devuelve la notificación terminal del movimiento.
func (uc *UseCase) MoveStage(ctx context.Context, ownerID, customerID string, stage entity.PipelineStage) (*dto.MoveStageResponse, error) {
	board := uc.boards.Board(ownerID)
	if !board.Loaded() {
		if err := board.Refresh(ctx); err != nil {
			return nil, err
		}
	}
	if err := board.MoveToStage(ctx, customerID, stage); err != nil {
		return nil, err
	}
	out := &dto.MoveStageResponse{
		ID:         customerID,
		Stage:      string(stage),
		StageLabel: stage.Label(),
		Message:    fmt.Sprintf("Customer moved to %s", stage.Label()),
	}
	for _, c := range board.Customers() {
		if c.ID == customerID {
			out.StageUpdatedAt = c.StageUpdatedAt
		}
	}
	return out, nil
}
