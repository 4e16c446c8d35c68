package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Nutrient un nutriente declarado del producto (por porción).
type Nutrient struct {
	Name   string          `json:"name"` // energy_kcal, sugar_g, sodium_mg, sat_fat_g, trans_fat_g, fiber_g, protein_g, ...
	Amount decimal.Decimal `json:"amount"`
	Unit   string          `json:"unit"`
}

// Product representa una entrada de la APL (Approved Product List), clave UPC.
// Eligible indica si el producto puede comprarse con beneficio WIC; los no
// elegibles se mantienen en catálogo para poder informar al usuario al escanear.
type Product struct {
	UPC       string
	Name      string
	Brand     string
	Category  string // cruda tal como viene del feed; se canoniza al usarla
	Size      string // presentación, ej. "1 gal", "16 oz"
	Eligible  bool
	Price     decimal.Decimal // precio de referencia para excedentes PAID
	Nutrients []Nutrient
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NutritionMap aplana los nutrientes a mapa nombre->cantidad, el formato
// que viaja en el snapshot de la línea de canasta.
func (p *Product) NutritionMap() map[string]decimal.Decimal {
	if len(p.Nutrients) == 0 {
		return nil
	}
	m := make(map[string]decimal.Decimal, len(p.Nutrients))
	for _, n := range p.Nutrients {
		m[n.Name] = n.Amount
	}
	return m
}
