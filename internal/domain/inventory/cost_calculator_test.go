package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Gestor-api/internal/domain/inventory"
)

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// 10 unidades a 100 + 10 unidades a 200 = 150
	got := inventory.CostCalculator(
		decimal.NewFromInt(10), decimal.NewFromInt(100),
		decimal.NewFromInt(10), decimal.NewFromInt(200),
	)
	assert.True(t, got.Equal(decimal.NewFromInt(150)), "esperado 150, obtenido %s", got)
}

func TestCostCalculator_SinStock(t *testing.T) {
	got := inventory.CostCalculator(decimal.Zero, decimal.Zero, decimal.Zero, decimal.NewFromInt(10))
	assert.True(t, got.IsZero())
}

func TestEntryCost_UltimoPrecio(t *testing.T) {
	got := inventory.EntryCost(inventory.CostMethodLast, 5, decimal.NewFromInt(10), 5, decimal.NewFromInt(30))
	assert.True(t, got.Equal(decimal.NewFromInt(30)))
}

func TestEntryCost_PromedioIgnoraStockNegativo(t *testing.T) {
	got := inventory.EntryCost(inventory.CostMethodAverage, -3, decimal.NewFromInt(10), 4, decimal.NewFromInt(25))
	assert.True(t, got.Equal(decimal.NewFromInt(25)), "con stock previo negativo el costo es el de la entrada, obtenido %s", got)
}
