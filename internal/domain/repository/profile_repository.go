package repository

import (
	"context"

	"github.com/prism-crm/prism-api/internal/domain/entity"
)

// ProfileRepository define el puerto de persistencia para Profile.
// user_id tiene constraint único: Create con un UserID existente devuelve
// domain.ErrDuplicate.
type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error
	GetByUserID(ctx context.Context, userID string) (*entity.Profile, error)
}
