package entity

import "time"

// Estados del ciclo de vida de un número de serie.
const (
	SerialStatusAvailable = "disponivel"
	SerialStatusSold      = "vendido"
	SerialStatusInUse     = "em_uso"
	SerialStatusDefective = "defeituoso"
)

// SerialNumber identidad de una unidad de un producto serializado (única por tenant+producto).
type SerialNumber struct {
	ID              string
	TenantID        string
	ProductID       string
	SerialNumber    string
	Status          string
	InvoiceItemID   string
	WarrantyExpires *time.Time
	PurchaseDate    *time.Time
	CreatedAt       time.Time
}
