package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wic-assist-api/internal/domain/entity"
	"github.com/jhoicas/wic-assist-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación del puerto LedgerRepository sobre PostgreSQL.
// El ledger de cada usuario vive como un documento jsonb en wic_ledgers;
// Save usa merge (operador ||): campos del documento fuera de balances y
// basket se preservan, y este repo es el único escritor de esos dos campos.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Load obtiene el documento del usuario; nil (sin error) si no existe.
func (r *LedgerRepo) Load(ctx context.Context, userID string) (*entity.LedgerDocument, error) {
	var raw []byte
	err := r.q.QueryRow(ctx,
		`SELECT doc FROM wic_ledgers WHERE user_id = $1`, userID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	var doc entity.LedgerDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode ledger doc: %w", err)
	}
	if doc.Balances == nil {
		doc.Balances = make(map[string]*entity.CategoryBalance)
	}
	return &doc, nil
}

// Save persiste el documento con semántica merge sobre el jsonb existente.
func (r *LedgerRepo) Save(ctx context.Context, userID string, doc *entity.LedgerDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode ledger doc: %w", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO wic_ledgers (user_id, doc, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (user_id)
		DO UPDATE SET doc = coalesce(wic_ledgers.doc, '{}'::jsonb) || excluded.doc, updated_at = now()`,
		userID, payload,
	)
	if err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}
