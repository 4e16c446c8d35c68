// Package benefit: reglas de beneficio WIC (servicio de dominio puro).
// Canonización de categorías, derivación de cupos por defecto y el agregado
// Ledger que lleva saldos por categoría y líneas de canasta.
package benefit

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PaidCategory categoría sintética sin cupo donde se cargan los excedentes
// cuando el cupo WIC original se agota.
const PaidCategory = "PAID"

var upper = cases.Upper(language.Und)

// Canon normaliza una categoría cruda a su forma canónica: recorta espacios
// en extremos, colapsa corridas internas de espacios a uno solo y pasa a
// mayúsculas. Función pura, total e idempotente: Canon(Canon(x)) == Canon(x).
func Canon(raw string) string {
	return upper.String(strings.Join(strings.Fields(raw), " "))
}
