package entity

import "github.com/shopspring/decimal"

// BasketLine una entrada de producto en la canasta activa.
// Un mismo UPC puede aparecer en dos líneas a la vez: una bajo su categoría
// WIC original y otra bajo la categoría sintética PAID cuando el cupo se
// agotó y el excedente se cobra como unidad pagada.
type BasketLine struct {
	UPC       string                     `json:"upc"`
	Name      string                     `json:"name"`
	Category  string                     `json:"category"` // canónica
	Qty       int                        `json:"qty"`
	Nutrition map[string]decimal.Decimal `json:"nutrition,omitempty"` // snapshot del catálogo al agregar
}
