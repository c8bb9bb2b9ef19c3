// Package pdf genera el comprobante de una entrada de stock (nota fiscal de compra recibida).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tenant + documento  │  N° NF + serie + emisión     │
//	│  SUCURSAL / PROVEEDOR / CLAVE DE ACCESO                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cód | Producto | Cant | V.Unit | Total | CFOP/NCM    │
//	│         (seriales debajo de la línea)                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Productos / Nota                                   │
//	│  FOOTER: QR de la clave + firma de recepción                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestor-api/internal/application/stockentry"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var _ stockentry.ReceiptGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa stockentry.ReceiptGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateStockEntryPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateStockEntryPDF(_ context.Context, r stockentry.Receipt) ([]byte, error) {
	if r.Invoice == nil || r.Tenant == nil {
		return nil, fmt.Errorf("pdf: comprobante incompleto")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Entrada de mercadoria NF "+r.Invoice.InvoiceNumber, true).
		WithAuthor(r.Tenant.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(originRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(r.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(r))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRows(r)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: tenant + documento (izq) y número de nota + emisión (der).
func headerRow(r stockentry.Receipt) core.Row {
	number := r.Invoice.InvoiceNumber
	if r.Invoice.Series != "" {
		number += " / Série " + r.Invoice.Series
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(r.Tenant.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Documento: "+nonEmpty(r.Tenant.Document, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ENTRADA DE MERCADORIA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("NF "+number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Emissão: "+r.Invoice.IssueDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// originRow: sucursal receptora, proveedor y registro.
func originRow(r stockentry.Receipt) core.Row {
	branch := "—"
	if r.Branch != nil {
		branch = r.Branch.Name
		if r.Branch.Code != "" {
			branch += " (" + r.Branch.Code + ")"
		}
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("FILIAL: "+branch, props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 1,
			}),
			text.New(fmt.Sprintf("Fornecedor: %s   |   Registrado em: %s",
				nonEmpty(r.Invoice.SupplierID, "—"),
				r.Invoice.CreatedAt.Format("02/01/2006 15:04"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Código", 2, align.Left),
		h("Produto", 4, align.Left),
		h("Qtd.", 1, align.Center),
		h("V. Unit.", 2, align.Right),
		h("Total", 2, align.Right),
		h("CFOP/NCM", 1, align.Center),
	)
}

// tableDetailRows: una fila por línea y, si la hay, otra con sus números de serie.
func tableDetailRows(lines []stockentry.ReceiptLine) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		fiscal := strings.Trim(l.CFOP+"/"+l.NCM, "/")
		rows = append(rows, row.New(7).Add(
			col.New(2).Add(text.New(l.ProductCode, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(l.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatMoney(l.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatMoney(l.TotalPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(fiscal, props.Text{Size: 7, Align: align.Center, Top: 1})),
		))
		if len(l.Serials) > 0 {
			rows = append(rows, row.New(5).Add(col.New(12).Add(
				text.New("S/N: "+strings.Join(l.Serials, ", "), props.Text{Size: 7, Color: colorGray, Left: 3}),
			)))
		}
	}
	return rows
}

func totalsRow(r stockentry.Receipt) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	grand := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: top})
	}
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(
			label("Total produtos:"),
			text.New("TOTAL DA NOTA:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 6}),
		),
		col.New(3).Add(
			text.New(formatMoney(r.Invoice.TotalProducts), props.Text{Size: 9, Align: align.Right, Right: 1}),
			grand(formatMoney(r.Invoice.TotalInvoice), 6),
		),
	)
}

// footerRows: QR con la clave de acceso, observaciones y firma de recepción.
func footerRows(r stockentry.Receipt) []core.Row {
	var rows []core.Row
	if r.Invoice.Notes != "" {
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New("Observações: "+r.Invoice.Notes, props.Text{Size: 8, Top: 1}),
		)))
	}
	left := col.New(6)
	if r.Invoice.AccessKey != "" {
		left = col.New(6).Add(
			code.NewQr(r.Invoice.AccessKey, props.Rect{Percent: 60, Center: true}),
		)
	}
	right := col.New(6).Add(text.New("Recebido por: ________________________", props.Text{Size: 8, Top: 30}))
	if img, ok := signatureImage(r.Invoice.SignatureData); ok {
		right = col.New(6).Add(img)
	}
	rows = append(rows, row.New(40).Add(left, right))
	if r.Invoice.AccessKey != "" {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New("Chave de acesso: "+r.Invoice.AccessKey, props.Text{Size: 7, Color: colorGray, Top: 1}),
		)))
	}
	return rows
}

// signatureImage decodifica una firma "data:image/png;base64,..." (o jpeg).
func signatureImage(dataURL string) (core.Component, bool) {
	var ext extension.Type
	switch {
	case strings.HasPrefix(dataURL, "data:image/png;base64,"):
		ext = extension.Png
	case strings.HasPrefix(dataURL, "data:image/jpeg;base64,"), strings.HasPrefix(dataURL, "data:image/jpg;base64,"):
		ext = extension.Jpg
	default:
		return nil, false
	}
	raw, err := base64.StdEncoding.DecodeString(dataURL[strings.Index(dataURL, ",")+1:])
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	return image.NewFromBytes(raw, ext, props.Rect{Percent: 80, Center: true}), true
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formato brasileño: 1234.5 → "R$ 1.234,50".
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return "R$ " + sign + string(buf) + "," + frac
}
