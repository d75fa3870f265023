package pdf

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/propuesta-web/api/internal/domain"
)

func sampleDocument() Document {
	return Document{
		Brand:  Brand{Name: "Estudio Web", Email: "hola@estudio.test"},
		Client: Client{Name: "Clínica Sol"},
		Lines: []domain.QuoteLine{
			{ID: "site.onepage", Title: "Web One-Page", Amount: 600, Type: domain.LineCatalog},
			{ID: "custom:galeria", Title: "Galería de fotos", Amount: 150, Type: domain.LineCustom},
		},
		Subtotal:    750,
		IVA:         158,
		Total:       908,
		AnnualMin:   192,
		AnnualMax:   390,
		AnnualLabel: "Dominio, hosting y mantenimiento",
		Notes:       "Propuesta inicial.",
		Now:         time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer(Brand{})

	out, err := r.Render(sampleDocument())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF, starts with %q", out[:min(8, len(out))])
	}
	if len(out) < 500 {
		t.Fatalf("suspiciously small output: %d bytes", len(out))
	}
}

func TestRenderRejectsEmptyProposal(t *testing.T) {
	r := NewRenderer(Brand{})

	if _, err := r.Render(Document{}); !errors.Is(err, ErrNoLines) {
		t.Fatalf("expected ErrNoLines, got %v", err)
	}
}

func TestRenderDeterministicForFixedClock(t *testing.T) {
	r := NewRenderer(Brand{})

	first, err := r.Render(sampleDocument())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	second, err := r.Render(sampleDocument())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("identical documents must render identically")
	}
}

func TestRenderDefaultsBrand(t *testing.T) {
	r := NewRenderer(Brand{Name: "Mi Agencia"})

	doc := sampleDocument()
	doc.Brand = Brand{}
	if _, err := r.Render(doc); err != nil {
		t.Fatalf("render with default brand: %v", err)
	}
}

func TestFormatEUR(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 €"},
		{600, "600 €"},
		{1053, "1.053 €"},
		{1234567, "1.234.567 €"},
		{-120, "-120 €"},
	}
	for _, tc := range cases {
		if got := FormatEUR(tc.in); got != tc.want {
			t.Errorf("FormatEUR(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
