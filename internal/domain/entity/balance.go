package entity

// CategoryBalance representa el consumo contra el cupo de una categoría WIC.
// Allowed nil significa cupo ilimitado (frutas/verduras, CVB y la categoría sintética PAID).
// Invariantes: Used >= 0 siempre; Used <= *Allowed cuando Allowed no es nil.
type CategoryBalance struct {
	Category string `json:"category"` // clave canónica (trim, espacios colapsados, mayúsculas)
	Allowed  *int   `json:"allowed,omitempty"`
	Used     int    `json:"used"`
}

// Unlimited indica si la categoría no tiene cupo.
func (b *CategoryBalance) Unlimited() bool {
	return b.Allowed == nil
}

// Remaining devuelve las unidades disponibles; -1 si el cupo es ilimitado.
func (b *CategoryBalance) Remaining() int {
	if b.Allowed == nil {
		return -1
	}
	r := *b.Allowed - b.Used
	if r < 0 {
		return 0
	}
	return r
}
