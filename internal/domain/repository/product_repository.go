package repository

import (
	"context"

	"github.com/jhoicas/wic-assist-api/internal/domain/entity"
)

// ProductRepository define el puerto de consulta y carga de la APL
// (Approved Product List), clave UPC.
type ProductRepository interface {
	// GetByUPC devuelve el producto, o nil (sin error) si el UPC no está en la APL.
	GetByUPC(ctx context.Context, upc string) (*entity.Product, error)
	// ListByCategory lista productos de una categoría canónica; eligibleOnly
	// filtra a solo elegibles WIC.
	ListByCategory(ctx context.Context, category string, eligibleOnly bool, limit int) ([]*entity.Product, error)
	// Upsert inserta o actualiza una entrada de la APL (usado por el importador).
	Upsert(ctx context.Context, p *entity.Product) error
	Count(ctx context.Context) (int, error)
}
