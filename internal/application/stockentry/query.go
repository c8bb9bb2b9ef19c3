package stockentry

import (
	"context"
	"fmt"

	"github.com/jhoicas/Gestor-api/internal/application/dto"
	"github.com/jhoicas/Gestor-api/internal/domain"
	"github.com/jhoicas/Gestor-api/internal/domain/entity"
)

// GetStockEntry devuelve la nota con sus ítems. ErrNotFound si no existe en el tenant.
func (uc *UseCase) GetStockEntry(ctx context.Context, tenantID, invoiceID string) (*dto.StockEntryResponse, error) {
	inv, items, err := uc.load(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	resp := &dto.StockEntryResponse{
		ID:            inv.ID,
		TenantID:      inv.TenantID,
		BranchID:      inv.BranchID,
		InvoiceNumber: inv.InvoiceNumber,
		Series:        inv.Series,
		AccessKey:     inv.AccessKey,
		IssueDate:     inv.IssueDate,
		SupplierID:    inv.SupplierID,
		TotalProducts: inv.TotalProducts,
		TotalInvoice:  inv.TotalInvoice,
		Notes:         inv.Notes,
		CreatedBy:     inv.CreatedBy,
		CreatedAt:     inv.CreatedAt,
		Items:         make([]dto.StockEntryItemResponse, 0, len(items)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.StockEntryItemResponse{
			ID:         it.ID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
			CFOP:       it.CFOP,
			NCM:        it.NCM,
		})
	}
	return resp, nil
}

// DownloadStockEntryPDF genera el comprobante PDF de la entrada.
// Retorna (pdfBytes, filename, nil) o ErrNotFound si la nota no existe en el tenant.
func (uc *UseCase) DownloadStockEntryPDF(ctx context.Context, tenantID, invoiceID string) ([]byte, string, error) {
	if uc.receipts == nil {
		return nil, "", fmt.Errorf("pdf: generador no configurado")
	}
	inv, items, err := uc.load(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, "", err
	}
	tenant, err := uc.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener tenant: %w", err)
	}
	if tenant == nil {
		return nil, "", domain.ErrNotFound
	}
	branch, err := uc.branches.GetByID(ctx, inv.BranchID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener sucursal: %w", err)
	}

	receipt := Receipt{Tenant: tenant, Branch: branch, Invoice: inv, Lines: make([]ReceiptLine, 0, len(items))}
	serialsByProduct := make(map[string][]*entity.SerialNumber)
	for _, it := range items {
		line := ReceiptLine{
			ProductCode: it.ProductID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
			CFOP:        it.CFOP,
			NCM:         it.NCM,
		}
		product, err := uc.products.GetByID(ctx, tenantID, it.ProductID)
		if err != nil {
			return nil, "", fmt.Errorf("pdf: obtener producto %s: %w", it.ProductID, err)
		}
		if product != nil {
			line.ProductCode = product.Code
			line.ProductName = product.Name
			if product.IsSerialized {
				list, ok := serialsByProduct[product.ID]
				if !ok {
					list, err = uc.serials.ListByProduct(ctx, tenantID, product.ID)
					if err != nil {
						return nil, "", fmt.Errorf("pdf: números de serie: %w", err)
					}
					serialsByProduct[product.ID] = list
				}
				for _, s := range list {
					if s.InvoiceItemID == it.ID {
						line.Serials = append(line.Serials, s.SerialNumber)
					}
				}
			}
		}
		receipt.Lines = append(receipt.Lines, line)
	}

	pdf, err := uc.receipts.GenerateStockEntryPDF(ctx, receipt)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("entrada-%s.pdf", inv.InvoiceNumber), nil
}

func (uc *UseCase) load(ctx context.Context, tenantID, invoiceID string) (*entity.Invoice, []*entity.InvoiceItem, error) {
	inv, err := uc.invoices.GetByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	if inv == nil {
		return nil, nil, domain.ErrNotFound
	}
	items, err := uc.invoices.ListItems(ctx, inv.ID)
	if err != nil {
		return nil, nil, err
	}
	return inv, items, nil
}
