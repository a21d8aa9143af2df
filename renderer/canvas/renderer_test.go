package canvasrenderer

import (
	"bytes"
	"math"
	"sync"
	"testing"

	"github.com/ByLCY/dietreport/layout"
)

func TestTextWidthScalesWithSize(t *testing.T) {
	r := NewRenderer()
	w10, err := r.TextWidth("Personalized Diet Chart", layout.FaceRegular, 10)
	if err != nil {
		t.Fatalf("TextWidth failed: %v", err)
	}
	w20, err := r.TextWidth("Personalized Diet Chart", layout.FaceRegular, 20)
	if err != nil {
		t.Fatalf("TextWidth failed: %v", err)
	}
	if w10 <= 0 {
		t.Fatalf("expected positive width, got %g", w10)
	}
	if diff := math.Abs(w20 - 2*w10); diff > 1e-3*w20 {
		t.Fatalf("width should scale linearly: 10pt=%g 20pt=%g", w10, w20)
	}
}

func TestTextWidthEmptyIsZero(t *testing.T) {
	w, err := NewRenderer().TextWidth("", layout.FaceBold, 12)
	if err != nil {
		t.Fatalf("TextWidth failed: %v", err)
	}
	if w != 0 {
		t.Fatalf("expected 0, got %g", w)
	}
}

func TestGreedyWrapWidthLimit(t *testing.T) {
	r := NewRenderer()
	limit := 120.0
	lines, err := layout.Wrap("Oats with milk, banana and a handful of almonds or walnuts", layout.FaceRegular, 10, limit, r)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	if len(lines) < 2 {
		t.Fatalf("expected wrapping into multiple lines, got %q", lines)
	}
	for i, ln := range lines {
		w, _ := r.TextWidth(ln, layout.FaceRegular, 10)
		if w-limit > 1e-6 {
			t.Fatalf("line %d width exceeds limit: width=%g limit=%g", i, w, limit)
		}
	}
}

func TestMissingFontFailsEveryCall(t *testing.T) {
	r := NewRendererWithOptions(Options{
		Fonts: map[layout.FontFace]layout.FontResource{
			layout.FaceBold: {Name: "Bold", Src: "/nonexistent/font.ttf"},
		},
	})
	if _, err := r.TextWidth("x", layout.FaceRegular, 10); err == nil {
		t.Fatalf("expected font load error")
	}
	if _, err := r.Render(sampleDocument()); err == nil {
		t.Fatalf("expected render to fail with the same error")
	}
}

func TestRenderProducesPDF(t *testing.T) {
	data, err := NewRenderer().Render(sampleDocument())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF: %q", data[:min(len(data), 8)])
	}
}

func TestRenderRejectsEmptyDocument(t *testing.T) {
	if _, err := NewRenderer().Render(&layout.Document{}); err == nil {
		t.Fatalf("expected error for document without pages")
	}
	if _, err := NewRenderer().Render(nil); err == nil {
		t.Fatalf("expected error for nil document")
	}
}

func TestConcurrentMeasuring(t *testing.T) {
	r := NewRenderer()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.TextWidth("Weekly Tips & Suggestions", layout.FaceBold, 14); err != nil {
				t.Errorf("TextWidth failed: %v", err)
			}
		}()
	}
	wg.Wait()
}

func sampleDocument() *layout.Document {
	bg := layout.Color{R: 3, G: 12, B: 23}
	page := layout.Page{
		Width:      layout.A4Width,
		Height:     layout.A4Height,
		Margin:     layout.DefaultMargin,
		Background: &bg,
		Texts: []layout.TextRun{
			{Text: "Personalized BMI & Diet Report", Size: 20, Font: layout.FaceBold, Color: layout.Color{R: 34, G: 211, B: 238}, X: 150, Y: 780},
			{Text: "BMI: 22.3    Category: Normal", Size: 12, Font: layout.FaceRegular, Color: layout.Color{R: 52, G: 211, B: 154}, X: 40, Y: 700},
		},
		Rules: []layout.Rule{{X1: 40, Y1: 760, X2: 555.28, Y2: 760, Color: layout.Color{R: 31, G: 41, B: 56}, Width: 0.5}},
	}
	second := page
	second.Texts = []layout.TextRun{{Text: "page two", Size: 10, Font: layout.FaceRegular, X: 40, Y: 790}}
	return &layout.Document{
		Pages: []layout.Page{page, second},
		Meta:  layout.DocumentMeta{Title: "report", Creator: "dietreport"},
	}
}
