package benefit

import "strings"

// allowanceRule una regla de cupo por defecto: si la categoría canónica
// contiene alguno de los substrings, aplica el cupo (nil = ilimitado).
type allowanceRule struct {
	substrings []string
	allowed    *int
}

func intPtr(n int) *int { return &n }

// Tabla de cupos por defecto. El orden es prioridad: gana la primera regla
// que coincida. Decisión de política del programa, no un valor calculado;
// los substrings y el orden deben conservarse tal cual.
var allowanceRules = []allowanceRule{
	{substrings: []string{"CVB", "FRUIT", "VEGETABLE"}, allowed: nil},
	{substrings: []string{"MILK", "CHEESE", "YOGURT", "DAIRY"}, allowed: intPtr(3)},
	{substrings: []string{"BREAD", "GRAIN", "CEREAL"}, allowed: intPtr(2)},
	{substrings: []string{"MEAT", "BEAN", "PEANUT"}, allowed: intPtr(1)},
	{substrings: []string{"JUICE"}, allowed: intPtr(1)},
}

// defaultAllowed cupo para categorías que no coinciden con ninguna regla.
const defaultAllowed = 2

// DeriveAllowed devuelve el cupo por defecto para una categoría canónica,
// aplicado solo la primera vez que la categoría aparece. nil = ilimitado.
func DeriveAllowed(canonical string) *int {
	c := strings.ToUpper(canonical)
	if c == PaidCategory {
		return nil
	}
	for _, rule := range allowanceRules {
		for _, sub := range rule.substrings {
			if strings.Contains(c, sub) {
				if rule.allowed == nil {
					return nil
				}
				return intPtr(*rule.allowed)
			}
		}
	}
	return intPtr(defaultAllowed)
}
