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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL.
// La APL vive en wic_products con UPC como clave; los nutrientes se guardan
// como jsonb para no multiplicar tablas por un snapshot de solo lectura.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de catálogo. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByUPC obtiene una entrada de la APL por UPC; nil (sin error) si no existe.
func (r *ProductRepo) GetByUPC(ctx context.Context, upc string) (*entity.Product, error) {
	query := `
		SELECT upc, name, brand, category, size, eligible, price, nutrients, created_at, updated_at
		FROM wic_products WHERE upc = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, upc))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// ListByCategory lista productos de una categoría canónica; limit <= 0 = sin tope.
func (r *ProductRepo) ListByCategory(ctx context.Context, category string, eligibleOnly bool, limit int) ([]*entity.Product, error) {
	query := `
		SELECT upc, name, brand, category, size, eligible, price, nutrients, created_at, updated_at
		FROM wic_products
		WHERE upper(regexp_replace(trim(category), '\s+', ' ', 'g')) = $1
		  AND ($2 = false OR eligible)
		ORDER BY name`
	args := []any{category, eligibleOnly}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Upsert inserta o actualiza una entrada de la APL (importador de feeds).
func (r *ProductRepo) Upsert(ctx context.Context, p *entity.Product) error {
	nutrients, err := json.Marshal(p.Nutrients)
	if err != nil {
		return fmt.Errorf("encode nutrients: %w", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO wic_products (upc, name, brand, category, size, eligible, price, nutrients, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, now(), now())
		ON CONFLICT (upc)
		DO UPDATE SET name = excluded.name, brand = excluded.brand, category = excluded.category,
		              size = excluded.size, eligible = excluded.eligible, price = excluded.price,
		              nutrients = excluded.nutrients, updated_at = now()`,
		p.UPC, p.Name, p.Brand, p.Category, p.Size, p.Eligible, p.Price, nutrients,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("upsert product %s: %w", p.UPC, err)
		}
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

// Count devuelve el total de entradas de la APL.
func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM wic_products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// scanProduct mapea una fila a entity.Product decodificando el jsonb de nutrientes.
func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var nutrients []byte
	err := row.Scan(&p.UPC, &p.Name, &p.Brand, &p.Category, &p.Size, &p.Eligible,
		&p.Price, &nutrients, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(nutrients) > 0 {
		if err := json.Unmarshal(nutrients, &p.Nutrients); err != nil {
			return nil, fmt.Errorf("decode nutrients: %w", err)
		}
	}
	return &p, nil
}
