// Package nutrition: puntaje nutricional para ranking de sustitutos
// (servicio de dominio puro). Puntaje menor = más saludable.
package nutrition

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/wic-assist-api/internal/domain/entity"
)

// Nombres de nutrientes reconocidos en el snapshot del catálogo.
const (
	NutrientEnergy   = "energy_kcal"
	NutrientSugar    = "sugar_g"
	NutrientSodium   = "sodium_mg"
	NutrientSatFat   = "sat_fat_g"
	NutrientTransFat = "trans_fat_g"
	NutrientFiber    = "fiber_g"
	NutrientProtein  = "protein_g"
)

// Pesos del puntaje: suma ponderada de penalizaciones (energía, azúcar,
// sodio, grasa saturada + trans) menos bonificaciones (fibra, proteína).
// Constantes de política; la escala relativa importa, no el valor absoluto.
var (
	weightEnergy = decimal.NewFromFloat(0.01) // por kcal
	weightSugar  = decimal.NewFromFloat(2.0)  // por g
	weightSodium = decimal.NewFromFloat(0.05) // por mg
	weightSatFat = decimal.NewFromFloat(3.0)  // por g (aplica también a trans)
	bonusFiber   = decimal.NewFromFloat(2.0)  // por g
	bonusProtein = decimal.NewFromFloat(1.0)  // por g
)

// Score calcula el puntaje de un conjunto de nutrientes. Nutrientes ausentes
// cuentan como 0. Menor puntaje = más saludable.
func Score(nutrients []entity.Nutrient) decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(nutrients))
	for _, n := range nutrients {
		m[n.Name] = n.Amount
	}
	score := m[NutrientEnergy].Mul(weightEnergy).
		Add(m[NutrientSugar].Mul(weightSugar)).
		Add(m[NutrientSodium].Mul(weightSodium)).
		Add(m[NutrientSatFat].Add(m[NutrientTransFat]).Mul(weightSatFat))
	score = score.Sub(m[NutrientFiber].Mul(bonusFiber)).
		Sub(m[NutrientProtein].Mul(bonusProtein))
	return score
}

// RankHealthier filtra y ordena candidatos estrictamente más saludables que
// el producto base: solo puntajes menores al puntaje base, ascendente,
// truncado a limit (limit <= 0 = sin tope).
func RankHealthier(base *entity.Product, candidates []*entity.Product, limit int) []*entity.Product {
	baseScore := Score(base.Nutrients)
	var better []*entity.Product
	for _, c := range candidates {
		if c.UPC == base.UPC {
			continue
		}
		if Score(c.Nutrients).LessThan(baseScore) {
			better = append(better, c)
		}
	}
	sort.SliceStable(better, func(i, j int) bool {
		return Score(better[i].Nutrients).LessThan(Score(better[j].Nutrients))
	})
	if limit > 0 && len(better) > limit {
		better = better[:limit]
	}
	return better
}
