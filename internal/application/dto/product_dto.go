package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/wic-assist-api/internal/domain/entity"
)

// NutrientResponse un nutriente declarado (por porción).
type NutrientResponse struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Unit   string          `json:"unit"`
}

// ProductResponse salida de una entrada de la APL.
type ProductResponse struct {
	UPC       string             `json:"upc"`
	Name      string             `json:"name"`
	Brand     string             `json:"brand,omitempty"`
	Category  string             `json:"category"` // canónica
	Size      string             `json:"size,omitempty"`
	Eligible  bool               `json:"eligible"`
	Price     decimal.Decimal    `json:"price"`
	Nutrients []NutrientResponse `json:"nutrients,omitempty"`
	Score     *decimal.Decimal   `json:"score,omitempty"` // puntaje nutricional en rankings
}

// SubstitutesResponse lista de sustitutos de una categoría.
type SubstitutesResponse struct {
	Category string            `json:"category"`
	Items    []ProductResponse `json:"items"`
}

// ToProductResponse mapea la entidad a DTO (categoría ya canonizada por el caso de uso).
func ToProductResponse(p *entity.Product, category string) *ProductResponse {
	if p == nil {
		return nil
	}
	out := &ProductResponse{
		UPC:      p.UPC,
		Name:     p.Name,
		Brand:    p.Brand,
		Category: category,
		Size:     p.Size,
		Eligible: p.Eligible,
		Price:    p.Price,
	}
	for _, n := range p.Nutrients {
		out.Nutrients = append(out.Nutrients, NutrientResponse{Name: n.Name, Amount: n.Amount, Unit: n.Unit})
	}
	return out
}
