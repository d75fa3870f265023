package textutil

import "testing"

func TestSlug(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "CRM integration", "crm-integration"},
		{"diacritics", "Galería de fotos", "galeria-de-fotos"},
		{"punctuation runs", "Área privada (recursos)", "area-privada-recursos"},
		{"leading and trailing", "  ¡Reservas online!  ", "reservas-online"},
		{"collapses runs", "a  --  b", "a-b"},
		{"empty", "", ""},
		{"only symbols", "¿¡!?", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Slug(tc.in); got != tc.want {
				t.Fatalf("Slug(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
