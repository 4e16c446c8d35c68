package nutrition_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wic-assist-api/internal/domain/entity"
	"github.com/jhoicas/wic-assist-api/internal/domain/nutrition"
)

func product(upc string, kcal, sugar, fiber float64) *entity.Product {
	return &entity.Product{
		UPC:  upc,
		Name: "producto " + upc,
		Nutrients: []entity.Nutrient{
			{Name: nutrition.NutrientEnergy, Amount: decimal.NewFromFloat(kcal), Unit: "kcal"},
			{Name: nutrition.NutrientSugar, Amount: decimal.NewFromFloat(sugar), Unit: "g"},
			{Name: nutrition.NutrientFiber, Amount: decimal.NewFromFloat(fiber), Unit: "g"},
		},
	}
}

func TestScore_PenalizaAzucarYBonificaFibra(t *testing.T) {
	dulce := product("A", 100, 20, 0)
	integral := product("B", 100, 2, 8)
	assert.True(t, nutrition.Score(integral.Nutrients).LessThan(nutrition.Score(dulce.Nutrients)),
		"menos azúcar y más fibra debe dar puntaje menor (más saludable)")
}

func TestScore_NutrientesAusentesCuentanComoCero(t *testing.T) {
	vacio := &entity.Product{UPC: "X"}
	assert.True(t, nutrition.Score(vacio.Nutrients).IsZero())
}

func TestRankHealthier_SoloEstrictamenteMejores_OrdenAscendente(t *testing.T) {
	base := product("BASE", 150, 10, 1)
	peor := product("P1", 200, 25, 0)
	igual := product("P2", 150, 10, 1)
	mejor := product("M1", 120, 5, 3)
	muchoMejor := product("M2", 80, 1, 6)

	out := nutrition.RankHealthier(base, []*entity.Product{peor, igual, mejor, muchoMejor}, 10)
	require.Len(t, out, 2, "solo candidatos con puntaje estrictamente menor al base")
	assert.Equal(t, "M2", out[0].UPC, "orden ascendente: el más saludable primero")
	assert.Equal(t, "M1", out[1].UPC)
}

func TestRankHealthier_TruncaAlLimite(t *testing.T) {
	base := product("BASE", 300, 30, 0)
	candidatos := []*entity.Product{
		product("A", 100, 1, 5),
		product("B", 120, 2, 4),
		product("C", 140, 3, 3),
	}
	out := nutrition.RankHealthier(base, candidatos, 2)
	assert.Len(t, out, 2)
}

func TestRankHealthier_ExcluyeElPropioUPC(t *testing.T) {
	base := product("BASE", 150, 10, 1)
	clon := product("BASE", 80, 1, 6) // mismo UPC con otros datos
	out := nutrition.RankHealthier(base, []*entity.Product{clon}, 10)
	assert.Empty(t, out)
}
