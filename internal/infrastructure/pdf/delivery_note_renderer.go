// Package pdf genera el PDF de un albarán con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: ALBARÁN DE ENTREGA  │  Fecha                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Usuario / Cliente / Proyecto / Descripción                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MATERIALES: Cant | Unidad | Descripción | P.Unit | Subtotal │
//	│  HORAS: Trabajador | Horas | €/hora | Subtotal               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  COSTE TOTAL                                                 │
//	│  FIRMA: QR de la URL de la firma o "No firmado."             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/albaranes-api/internal/application/ports"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var _ ports.DeliveryNoteRenderer = (*MarotoRenderer)(nil)

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoRenderer implementa ports.DeliveryNoteRenderer usando Maroto v2.
type MarotoRenderer struct {
	printer *message.Printer
}

// NewMarotoRenderer construye el renderer con formato monetario es-ES.
func NewMarotoRenderer() *MarotoRenderer {
	return &MarotoRenderer{printer: message.NewPrinter(language.Spanish)}
}

// RenderDeliveryNote genera el PDF y devuelve sus bytes.
func (r *MarotoRenderer) RenderDeliveryNote(ctx context.Context, d ports.DeliveryNoteDocument) ([]byte, error) {
	if d.Note == nil {
		return nil, fmt.Errorf("pdf: albarán vacío")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Albarán "+d.Note.ID, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(d.Note))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(d))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if len(d.Note.Materials) > 0 {
		m.AddRows(sectionTitle("MATERIALES"))
		m.AddRows(materialsHeaderRow())
		m.AddRows(r.materialRows(d.Note.Materials)...)
	}
	if len(d.Note.Labor) > 0 {
		m.AddRows(sectionTitle("HORAS DE TRABAJO"))
		m.AddRows(laborHeaderRow())
		m.AddRows(r.laborRows(d.Note.Labor)...)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(r.totalRow(d.Note))
	m.AddRows(line.NewRow(3))
	m.AddRows(signatureRows(d.Note)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(n *entity.DeliveryNote) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("ALBARÁN DE ENTREGA", props.Text{
				Style: fontstyle.Bold, Size: 16, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("N° "+n.ID, props.Text{
				Size: 7, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Fecha: "+n.CreatedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func partiesRow(d ports.DeliveryNoteDocument) core.Row {
	var email, clientName, clientCIF, projectName string
	if d.User != nil {
		email = d.User.Email
	}
	if d.Client != nil {
		clientName, clientCIF = d.Client.Name, d.Client.CIF
	}
	if d.Project != nil {
		projectName = d.Project.Name
	}
	info := func(label, value string, top float64) core.Component {
		return text.New(label+": "+nonEmpty(value, "-"), props.Text{Size: 9, Top: top})
	}
	return row.New(26).Add(
		col.New(12).Add(
			info("Usuario", email, 1),
			info("Cliente", clientName+cifSuffix(clientCIF), 7),
			info("Proyecto", projectName, 13),
			info("Descripción", d.Note.Description, 19),
		),
	)
}

func sectionTitle(s string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2}),
	))
}

func headerCol(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a,
		Color: colorWhite, Top: 2, Left: 1, Right: 1,
	})).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func materialsHeaderRow() core.Row {
	return row.New(8).Add(
		headerCol("Cant.", 1, align.Center),
		headerCol("Unidad", 2, align.Left),
		headerCol("Descripción", 5, align.Left),
		headerCol("Precio Unit.", 2, align.Right),
		headerCol("Subtotal", 2, align.Right),
	)
}

func (r *MarotoRenderer) materialRows(items []entity.Material) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(text.New(it.Quantity.String(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(nonEmpty(it.Unit, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(5).Add(text.New(it.Description, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(r.money(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(r.money(it.Subtotal()), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func laborHeaderRow() core.Row {
	return row.New(8).Add(
		headerCol("Trabajador", 5, align.Left),
		headerCol("Horas", 2, align.Center),
		headerCol("€/hora", 2, align.Right),
		headerCol("Subtotal", 3, align.Right),
	)
}

func (r *MarotoRenderer) laborRows(items []entity.Labor) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, row.New(7).Add(
			col.New(5).Add(text.New(it.Worker, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(it.Hours.String(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(r.money(it.HourlyRate), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(r.money(it.Subtotal()), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func (r *MarotoRenderer) totalRow(n *entity.DeliveryNote) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("COSTE TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(3).Add(text.New(r.money(n.TotalCost), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

// signatureRows: QR con la URL de la firma o leyenda de albarán sin firmar.
func signatureRows(n *entity.DeliveryNote) []core.Row {
	rows := []core.Row{
		row.New(8).Add(col.New(12).Add(
			text.New("Firma del cliente:", props.Text{Style: fontstyle.Bold, Size: 10, Top: 2}),
		)),
	}
	if !n.Signed || n.SignatureURL == "" {
		return append(rows, row.New(8).Add(col.New(12).Add(
			text.New("No firmado.", props.Text{Size: 9, Top: 1, Color: colorGray}),
		)))
	}
	return append(rows, row.New(45).Add(
		col.New(4).Add(code.NewQr(n.SignatureURL, props.Rect{Percent: 95, Center: true})),
		col.New(8).Add(
			text.New("Escanea el código QR para ver la firma.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New(n.SignatureURL, props.Text{Size: 6.5, Top: 12, Left: 3, Color: colorGray}),
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money formatea un importe en euros con separadores es-ES: 1.234.567,50 €
func (r *MarotoRenderer) money(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return r.printer.Sprintf("%.2f €", f)
}

func cifSuffix(cif string) string {
	if cif == "" {
		return ""
	}
	return " (" + cif + ")"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
