package repository

import (
	"context"

	"github.com/jhoicas/wic-assist-api/internal/domain/entity"
)

// LedgerRepository define el puerto de persistencia del documento de ledger
// (document store, un documento por usuario). Save usa semántica de merge:
// campos del documento fuera de balances/basket se preservan.
type LedgerRepository interface {
	// Load devuelve el documento del usuario, o nil (sin error) si no existe.
	Load(ctx context.Context, userID string) (*entity.LedgerDocument, error)
	Save(ctx context.Context, userID string, doc *entity.LedgerDocument) error
}
