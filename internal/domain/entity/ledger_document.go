package entity

import "fmt"

// LedgerDocument es el documento persistido por usuario: saldos por categoría
// y líneas de la canasta. El Ledger es el único escritor de estos campos.
type LedgerDocument struct {
	Balances map[string]*CategoryBalance `json:"balances"`
	Basket   []*BasketLine               `json:"basket"`
}

// Validate verifica los invariantes del documento tras deserializar.
// Se valida en la frontera de persistencia para no propagar estado corrupto
// al dominio.
func (d *LedgerDocument) Validate() error {
	for key, b := range d.Balances {
		if b == nil {
			return fmt.Errorf("balance %q: entrada nula", key)
		}
		if b.Category != key {
			return fmt.Errorf("balance %q: clave no coincide con categoría %q", key, b.Category)
		}
		if b.Used < 0 {
			return fmt.Errorf("balance %q: used negativo (%d)", key, b.Used)
		}
		if b.Allowed != nil && *b.Allowed <= 0 {
			return fmt.Errorf("balance %q: allowed debe ser positivo (%d)", key, *b.Allowed)
		}
	}
	for i, line := range d.Basket {
		if line == nil {
			return fmt.Errorf("basket[%d]: línea nula", i)
		}
		if line.UPC == "" {
			return fmt.Errorf("basket[%d]: upc vacío", i)
		}
		if line.Qty <= 0 {
			return fmt.Errorf("basket[%d] %s: qty debe ser positivo (%d)", i, line.UPC, line.Qty)
		}
	}
	return nil
}
