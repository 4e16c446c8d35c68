// Package pdf implementa la generación del recibo de compra WIC.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Recibo de compra WIC │ Usuario + Fecha             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA BENEFICIO: Cant | Producto | Categoría               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA PAGADO: Cant | Producto (unidades fuera del cupo)    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: unidades con beneficio / unidades pagadas         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/wic-assist-api/internal/domain/benefit"
	"github.com/jhoicas/wic-assist-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 102, Blue: 68}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReceiptGenerator implementa receipt.ReceiptPDFGenerator usando Maroto v2.
type MarotoReceiptGenerator struct{}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator() *MarotoReceiptGenerator { return &MarotoReceiptGenerator{} }

// GenerateReceiptPDF genera el PDF del recibo y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateReceiptPDF(
	_ context.Context,
	user *entity.User,
	doc *entity.LedgerDocument,
	at time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo de compra WIC", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(user, at))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	wicLines, paidLines := splitLines(doc)

	m.AddRows(sectionTitleRow("Cubierto por el beneficio"))
	m.AddRows(tableHeaderRow())
	for _, l := range wicLines {
		m.AddRows(lineRow(l))
	}
	if len(wicLines) == 0 {
		m.AddRows(emptyRow())
	}

	if len(paidLines) > 0 {
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
		m.AddRows(sectionTitleRow("Pagado por el usuario (fuera del cupo)"))
		m.AddRows(tableHeaderRow())
		for _, l := range paidLines {
			m.AddRows(lineRow(l))
		}
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(wicLines, paidLines))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return out.GetBytes(), nil
}

// splitLines separa líneas con beneficio y líneas PAID, conservando el orden.
func splitLines(doc *entity.LedgerDocument) (wic, paid []*entity.BasketLine) {
	for _, l := range doc.Basket {
		if l.Category == benefit.PaidCategory {
			paid = append(paid, l)
		} else {
			wic = append(wic, l)
		}
	}
	return wic, paid
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(user *entity.User, at time.Time) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("Recibo de compra WIC", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(user.Name, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(at.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Top: 2, Align: align.Right, Color: colorGray,
			}),
		),
	)
}

func sectionTitleRow(title string) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 10, Top: 2, Color: colorPrimary}),
		),
	)
}

func tableHeaderRow() core.Row {
	return row.New(6).Add(
		col.New(2).Add(text.New("Cant", props.Text{Style: fontstyle.Bold, Size: 8})),
		col.New(6).Add(text.New("Producto", props.Text{Style: fontstyle.Bold, Size: 8})),
		col.New(4).Add(text.New("Categoría", props.Text{Style: fontstyle.Bold, Size: 8})),
	)
}

func lineRow(l *entity.BasketLine) core.Row {
	return row.New(5).Add(
		col.New(2).Add(text.New(fmt.Sprintf("%d", l.Qty), props.Text{Size: 8})),
		col.New(6).Add(text.New(l.Name, props.Text{Size: 8})),
		col.New(4).Add(text.New(l.Category, props.Text{Size: 8, Color: colorGray})),
	)
}

func emptyRow() core.Row {
	return row.New(5).Add(
		col.New(12).Add(text.New("— sin unidades —", props.Text{Size: 8, Color: colorGray})),
	)
}

func summaryRow(wic, paid []*entity.BasketLine) core.Row {
	wicUnits, paidUnits := 0, 0
	for _, l := range wic {
		wicUnits += l.Qty
	}
	for _, l := range paid {
		paidUnits += l.Qty
	}
	return row.New(10).Add(
		col.New(12).Add(
			text.New(
				fmt.Sprintf("Unidades con beneficio: %d    Unidades pagadas: %d", wicUnits, paidUnits),
				props.Text{Style: fontstyle.Bold, Size: 9, Top: 2, Align: align.Right},
			),
		),
	)
}
