package inventory

import "github.com/shopspring/decimal"

// Métodos de costeo para entradas de stock.
const (
	CostMethodLast    = "last"    // costo = precio unitario de la última entrada
	CostMethodAverage = "average" // costo promedio ponderado
)

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}

// EntryCost devuelve el nuevo costo del producto tras una entrada según el método configurado.
// Un stock previo negativo se trata como cero para el promedio.
func EntryCost(method string, previousStock int, currentCost decimal.Decimal, quantity int, unitCost decimal.Decimal) decimal.Decimal {
	if method != CostMethodAverage {
		return unitCost
	}
	prev := previousStock
	if prev < 0 {
		prev = 0
	}
	return CostCalculator(
		decimal.NewFromInt(int64(prev)), currentCost,
		decimal.NewFromInt(int64(quantity)), unitCost,
	).Round(4)
}
