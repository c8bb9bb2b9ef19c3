package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestor-api/internal/application/stockentry"
	"github.com/jhoicas/Gestor-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "R$ 0,00"},
		{"12.5", "R$ 12,50"},
		{"1234.567", "R$ 1.234,57"},
		{"1000000", "R$ 1.000.000,00"},
		{"-999.9", "R$ -999,90"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, formatMoney(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestSignatureImage(t *testing.T) {
	_, ok := signatureImage("")
	assert.False(t, ok)
	_, ok = signatureImage("data:image/gif;base64,R0lGOD")
	assert.False(t, ok)
	_, ok = signatureImage("data:image/png;base64,%%%")
	assert.False(t, ok)
}

func TestGenerateStockEntryPDF(t *testing.T) {
	g := NewMarotoPDFGenerator()
	receipt := stockentry.Receipt{
		Tenant: &entity.Tenant{Name: "Acme Ltda", Document: "12.345.678/0001-90"},
		Branch: &entity.Branch{Name: "Matriz", Code: "MATRIZ"},
		Invoice: &entity.Invoice{
			InvoiceNumber: "123", Series: "1", AccessKey: "35250312345678000190550010000001231000001234",
			IssueDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), CreatedAt: time.Now(),
			TotalProducts: decimal.NewFromInt(40), TotalInvoice: decimal.NewFromInt(40), Notes: "Entrega parcial",
		},
		Lines: []stockentry.ReceiptLine{
			{ProductCode: "P1", ProductName: "Roteador", Quantity: 2, UnitPrice: decimal.NewFromInt(20), TotalPrice: decimal.NewFromInt(40), CFOP: "1102", Serials: []string{"S1", "S2"}},
		},
	}
	out, err := g.GenerateStockEntryPDF(context.Background(), receipt)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = g.GenerateStockEntryPDF(context.Background(), stockentry.Receipt{})
	assert.Error(t, err)
}
