package repository

import (
	"context"

	"github.com/jhoicas/wic-assist-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// FindByEmail devuelve nil (sin error) si el email no está registrado.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
