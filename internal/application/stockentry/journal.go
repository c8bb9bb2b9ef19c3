package stockentry

import (
	"context"

	"github.com/shopspring/decimal"
)

// productSnapshot stock y costo de un producto antes de la primera escritura de la entrada.
type productSnapshot struct {
	productID string
	stock     int
	cost      decimal.Decimal
}

// journal ids creados durante la secuencia de escritura, en orden.
type journal struct {
	invoiceID string
	items     []string
	serials   []string
	movements []string
	products  []productSnapshot
}

// touchProduct registra el estado previo del producto solo la primera vez.
func (j *journal) touchProduct(productID string, stock int, cost decimal.Decimal) {
	for _, p := range j.products {
		if p.productID == productID {
			return
		}
	}
	j.products = append(j.products, productSnapshot{productID: productID, stock: stock, cost: cost})
}

func (j *journal) empty() bool {
	return j.invoiceID == "" && len(j.items) == 0 && len(j.serials) == 0 &&
		len(j.movements) == 0 && len(j.products) == 0
}

// Pasos de compensación (etiqueta de métricas y logs).
const (
	stepRestoreProduct = "restore_product"
	stepDeleteMovement = "delete_movement"
	stepDeleteSerial   = "delete_serial"
	stepDeleteItem     = "delete_item"
	stepDeleteInvoice  = "delete_invoice"
)

// compensate deshace lo registrado en el journal en orden inverso de dependencias:
// productos → movimientos → series → ítems → nota. Un fallo se registra y se sigue.
func (uc *UseCase) compensate(ctx context.Context, tenantID string, repos EntryRepos, j *journal) {
	for _, p := range j.products {
		err := repos.Products.UpdateStock(ctx, tenantID, p.productID, p.stock, p.cost)
		uc.compensationResult(stepRestoreProduct, p.productID, err)
	}
	for i := len(j.movements) - 1; i >= 0; i-- {
		uc.compensationResult(stepDeleteMovement, j.movements[i], repos.Movements.Delete(ctx, j.movements[i]))
	}
	for i := len(j.serials) - 1; i >= 0; i-- {
		uc.compensationResult(stepDeleteSerial, j.serials[i], repos.Serials.Delete(ctx, j.serials[i]))
	}
	for i := len(j.items) - 1; i >= 0; i-- {
		uc.compensationResult(stepDeleteItem, j.items[i], repos.Invoices.DeleteItem(ctx, j.items[i]))
	}
	if j.invoiceID != "" {
		uc.compensationResult(stepDeleteInvoice, j.invoiceID, repos.Invoices.Delete(ctx, j.invoiceID))
	}
}

func (uc *UseCase) compensationResult(step, id string, err error) {
	uc.metrics.Compensation(step, err == nil)
	if err != nil {
		uc.log.Error().Err(err).Str("step", step).Str("id", id).Msg("compensación fallida; se continúa")
		return
	}
	uc.log.Debug().Str("step", step).Str("id", id).Msg("compensación aplicada")
}
