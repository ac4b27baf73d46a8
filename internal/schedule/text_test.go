package schedule

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "collapse whitespace", input: "  Cálculo   I \n Sala ", want: "Cálculo I Sala"},
		{name: "html entities", input: "Matem&aacute;ticas &amp; Física", want: "Matemáticas & Física"},
		{name: "empty", input: "", want: ""},
		{name: "only whitespace", input: " \t\n ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSelectionTextJoinsSiblings(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<table><tr><td><span>Cálculo I</span><span>/ Sala 301</span></td></tr></table>`))
	if err != nil {
		t.Fatal(err)
	}

	got := selectionText(doc.Find("td"))
	if got != `Cálculo I / Sala 301` {
		t.Errorf("selectionText = %q, want sibling texts joined by a space", got)
	}
}

func TestHeaderDay(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"Lunes 04", 4},
		{"Martes 5", 5},
		{"Miércoles 06 feriado", 6}, // standalone number fallback
		{"Sábado", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := headerDay(tt.input); got != tt.want {
			t.Errorf("headerDay(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestTrailingDayStrict(t *testing.T) {
	if got := trailingDay("Lunes 04"); got != 4 {
		t.Errorf("trailingDay = %d, want 4", got)
	}
	// The mobile title variant requires the number at the end.
	if got := trailingDay("04 Lunes"); got != 0 {
		t.Errorf("trailingDay = %d, want 0 for non-trailing number", got)
	}
}

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Cálculo I / Sala 301 - Prof. Pérez", "Cálculo I"},
		{"Taller sin separador", "Taller sin separador"},
		{" / Sala 301", "Sala 301"},
	}
	for _, tt := range tests {
		if got := splitTitle(tt.input); got != tt.want {
			t.Errorf("splitTitle(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
