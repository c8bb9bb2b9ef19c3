package validation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestor-api/internal/application/dto"
	"github.com/jhoicas/Gestor-api/internal/domain"
)

func fieldNames(err error) []string {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	out := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		out = append(out, f.Field)
	}
	return out
}

func TestStruct_StockEntryPaths(t *testing.T) {
	v := New()
	req := dto.CreateStockEntryRequest{
		Invoice: dto.StockEntryInvoiceInput{IssueDate: "15/01/2025"},
		Items: []dto.StockEntryItemInput{
			{ProductID: "p1", Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
			{ProductID: "p2", Quantity: 0, UnitPrice: decimal.NewFromInt(-1)},
		},
	}

	err := v.Struct(&req, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	fields := fieldNames(err)
	assert.Contains(t, fields, "invoice.invoice_number")
	assert.Contains(t, fields, "invoice.issue_date")
	assert.Contains(t, fields, "items[1].quantity")
	assert.Contains(t, fields, "items[1].unit_price")
	assert.NotContains(t, fields, "items[0].quantity")
}

func TestStruct_EmptyItems(t *testing.T) {
	v := New()
	req := dto.CreateStockEntryRequest{
		Invoice: dto.StockEntryInvoiceInput{InvoiceNumber: "1", IssueDate: "2025-01-15"},
	}

	err := v.Struct(&req, "")
	assert.Equal(t, []string{"items"}, fieldNames(err))
}

func TestStruct_SlugAndPrefix(t *testing.T) {
	v := New()
	in := dto.NewTenantInput{Name: "Acme", Slug: "Acme Corp"}

	err := v.Struct(&in, "tenant")
	assert.Equal(t, []string{"tenant.slug"}, fieldNames(err))
}

func TestStruct_Valid(t *testing.T) {
	v := New()
	in := dto.NewAdminInput{Email: "a@acme.com", Password: "secret1", FullName: "Ana"}
	assert.NoError(t, v.Struct(&in, "admin"))
}

func TestIsSlug(t *testing.T) {
	assert.True(t, IsSlug("acme-2"))
	assert.False(t, IsSlug(""))
	assert.False(t, IsSlug("acme_2"))
	assert.False(t, IsSlug("Acme"))
}
