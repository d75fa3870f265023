// Package pdf renders the priced proposal as a downloadable A4 document.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/propuesta-web/api/internal/domain"
)

// Brand is the agency identity printed on the header and footer.
type Brand struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
}

// Client identifies the prospect the proposal is addressed to.
type Client struct {
	Name string `json:"name,omitempty"`
}

// Meta carries optional reference data shown under the title.
type Meta struct {
	QuoteID    string     `json:"quoteId,omitempty"`
	ValidUntil *time.Time `json:"validUntil,omitempty"`
}

// Document is everything the renderer needs for one proposal PDF.
type Document struct {
	Brand       Brand
	Client      Client
	Meta        Meta
	Lines       []domain.QuoteLine
	Subtotal    int64
	IVA         int64
	Total       int64
	AnnualMin   int64
	AnnualMax   int64
	AnnualLabel string
	Notes       string
	Now         time.Time
}

// ErrNoLines is returned when a document carries nothing to itemise.
var ErrNoLines = errors.New("pdf: proposal has no lines")

const (
	pageMargin  = 16.0
	tableDescW  = 108.0
	tableTypeW  = 30.0
	tablePriceW = 40.0
	rowHeight   = 8.0
)

// Renderer lays out proposal documents. It holds no state and is safe for
// concurrent use.
type Renderer struct {
	defaultBrand Brand
}

func NewRenderer(defaultBrand Brand) *Renderer {
	if defaultBrand.Name == "" {
		defaultBrand.Name = "Tu Marca"
	}
	return &Renderer{defaultBrand: defaultBrand}
}

// Render produces the PDF bytes for the document.
func (r *Renderer) Render(doc Document) ([]byte, error) {
	if len(doc.Lines) == 0 {
		return nil, ErrNoLines
	}

	brand := doc.Brand
	if brand.Name == "" {
		brand = r.defaultBrand
	}
	clientName := doc.Client.Name
	if clientName == "" {
		clientName = "Cliente"
	}
	now := doc.Now
	if now.IsZero() {
		now = time.Now()
	}

	p := gofpdf.New("P", "mm", "A4", "")
	p.SetCreationDate(now)
	p.SetModificationDate(now)
	p.SetMargins(pageMargin, pageMargin, pageMargin)
	p.SetAutoPageBreak(true, 24)
	p.AliasNbPages("")
	tr := p.UnicodeTranslatorFromDescriptor("")

	p.SetFooterFunc(func() {
		p.SetY(-16)
		p.SetFont("Helvetica", "", 8)
		p.SetTextColor(107, 114, 128)
		left := brand.Name
		if brand.Website != "" {
			left += " - " + brand.Website
		}
		p.CellFormat(95, 6, tr(left), "", 0, "L", false, 0, "")
		p.CellFormat(83, 6, tr(fmt.Sprintf("Página %d de {nb}", p.PageNo())), "", 0, "R", false, 0, "")
	})

	p.AddPage()

	// Header: brand on the left, title and reference block on the right.
	p.SetFont("Helvetica", "B", 14)
	p.SetTextColor(17, 24, 39)
	p.CellFormat(100, 8, tr(brand.Name), "", 0, "L", false, 0, "")
	p.SetFont("Helvetica", "B", 16)
	p.CellFormat(78, 8, tr("Propuesta Web"), "", 1, "R", false, 0, "")

	p.SetFont("Helvetica", "", 9)
	p.SetTextColor(107, 114, 128)
	p.CellFormat(100, 5, tr(brandContactLine(brand)), "", 0, "L", false, 0, "")
	p.CellFormat(78, 5, tr(clientName+" - "+now.Format("02/01/2006")), "", 1, "R", false, 0, "")
	if doc.Meta.QuoteID != "" {
		p.CellFormat(178, 5, tr("Ref: "+doc.Meta.QuoteID), "", 1, "R", false, 0, "")
	}
	validity := "15 días"
	if doc.Meta.ValidUntil != nil {
		validity = doc.Meta.ValidUntil.Format("02/01/2006")
	}
	p.CellFormat(178, 5, tr("Validez: "+validity), "", 1, "R", false, 0, "")
	p.Ln(6)

	// Line-item table.
	p.SetFont("Helvetica", "B", 10)
	p.SetFillColor(249, 250, 251)
	p.SetDrawColor(229, 231, 235)
	p.SetTextColor(17, 24, 39)
	p.CellFormat(tableDescW, rowHeight, tr("Concepto"), "1", 0, "L", true, 0, "")
	p.CellFormat(tableTypeW, rowHeight, tr("Tipo"), "1", 0, "C", true, 0, "")
	p.CellFormat(tablePriceW, rowHeight, tr("Importe"), "1", 1, "R", true, 0, "")

	p.SetFont("Helvetica", "", 10)
	for _, line := range doc.Lines {
		kind := "Catálogo"
		if line.Type == domain.LineCustom {
			kind = "Extra"
		}
		p.CellFormat(tableDescW, rowHeight, tr(line.Title), "1", 0, "L", false, 0, "")
		p.SetTextColor(107, 114, 128)
		p.CellFormat(tableTypeW, rowHeight, tr(kind), "1", 0, "C", false, 0, "")
		p.SetTextColor(17, 24, 39)
		p.CellFormat(tablePriceW, rowHeight, tr(FormatEUR(line.Amount)), "1", 1, "R", false, 0, "")
	}
	p.Ln(4)

	// Totals box, right-aligned.
	totalsX := 210 - pageMargin - 70
	writeTotal := func(label string, amount int64, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		p.SetFont("Helvetica", style, 10)
		p.SetX(totalsX)
		p.CellFormat(35, 7, tr(label), "1", 0, "L", false, 0, "")
		p.CellFormat(35, 7, tr(FormatEUR(amount)), "1", 1, "R", false, 0, "")
	}
	writeTotal("Subtotal", doc.Subtotal, false)
	writeTotal("IVA (21%)", doc.IVA, false)
	writeTotal("Total", doc.Total, true)
	p.Ln(6)

	// Annual running costs, informational only.
	if doc.AnnualMin > 0 {
		label := doc.AnnualLabel
		if label == "" {
			label = "Dominio, hosting y mantenimiento"
		}
		p.SetFont("Helvetica", "B", 10)
		p.CellFormat(178, 6, tr("Coste anual estimado (no incluido en el total)"), "", 1, "L", false, 0, "")
		p.SetFont("Helvetica", "", 9)
		annual := fmt.Sprintf(
			"%s: %s - %s / año. El dominio es el nombre de la web (p. ej. tuacademia.com). Incluye alojamiento y mantenimiento (actualizaciones y soporte).",
			label, FormatEUR(doc.AnnualMin), FormatEUR(doc.AnnualMax),
		)
		p.MultiCell(178, 5, tr(annual), "", "L", false)
		p.Ln(4)
	}

	if doc.Notes != "" {
		p.SetFont("Helvetica", "B", 10)
		p.CellFormat(178, 6, tr("Notas"), "", 1, "L", false, 0, "")
		p.SetFont("Helvetica", "", 9)
		p.SetTextColor(107, 114, 128)
		p.MultiCell(178, 5, tr(doc.Notes), "", "L", false)
		p.SetTextColor(17, 24, 39)
		p.Ln(4)
	}

	p.SetFont("Helvetica", "", 8)
	p.SetTextColor(107, 114, 128)
	p.MultiCell(178, 4, tr("Alcance: incluye las partidas listadas. No incluye dominio/hosting salvo indicación. Cambios de alcance se presupuestan aparte."), "", "L", false)
	p.MultiCell(178, 4, tr("Plazos estimados y plan de pagos se confirmarán tras la aceptación."), "", "L", false)

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatEUR renders an amount as Spanish-style whole euros, dot-separated
// thousands with a trailing euro sign.
func FormatEUR(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b = append(b, '.')
		}
		b = append(b, d)
	}
	out := string(b) + " €"
	if neg {
		out = "-" + out
	}
	return out
}

func brandContactLine(b Brand) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{b.Email, b.Phone, b.Website} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	out := ""
	for i, part := range parts {
		if i > 0 {
			out += " - "
		}
		out += part
	}
	return out
}
