package fpdfrenderer

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/ByLCY/dietreport/layout"
	"github.com/ByLCY/dietreport/renderer"
)

const (
	coreFamily       = "Helvetica"
	defaultRuleWidth = 0.5
)

// Renderer writes documents with the PDF core fonts (Helvetica and
// Helvetica-Bold) through go-pdf/fpdf. Nothing is embedded, so the output is
// small, but only Windows-1252 text can be shown; other runes become '?'.
type Renderer struct {
	mu      sync.Mutex
	measure *fpdf.Fpdf
}

var _ renderer.Backend = (*Renderer)(nil)

// NewRenderer creates a core-font renderer.
func NewRenderer() *Renderer {
	return &Renderer{measure: newPdf(layout.A4Width, layout.A4Height)}
}

func newPdf(width, height float64) *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	return pdf
}

// TextWidth implements layout.Typesetter using the core font metrics.
func (r *Renderer) TextWidth(text string, font layout.FontFace, size float64) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.measure.SetFont(coreFamily, fontStyle(font), size)
	w := r.measure.GetStringWidth(encode(text))
	if r.measure.Err() {
		return 0, fmt.Errorf("fpdf: measure %q: %w", text, r.measure.Error())
	}
	return w, nil
}

// Render renders the document into a PDF byte slice. fpdf uses a top-left
// origin, so every y coordinate is flipped against the page height.
func (r *Renderer) Render(doc *layout.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("fpdf: nothing to render")
	}
	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("fpdf: document has no pages")
	}

	first := doc.Pages[0]
	pdf := newPdf(first.Width, first.Height)
	applyMeta(pdf, doc.Meta)
	for _, page := range doc.Pages {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: page.Width, Ht: page.Height})
		drawPage(pdf, page)
		if pdf.Err() {
			return nil, fmt.Errorf("fpdf: draw page: %w", pdf.Error())
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("fpdf: write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func applyMeta(pdf *fpdf.Fpdf, meta layout.DocumentMeta) {
	pdf.SetTitle(meta.Title, true)
	pdf.SetSubject(meta.Subject, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetCreator(meta.Creator, true)
	pdf.SetKeywords(strings.Join(meta.Keywords, ", "), true)
}

func drawPage(pdf *fpdf.Fpdf, page layout.Page) {
	h := page.Height
	if bg := page.Background; bg != nil {
		pdf.SetFillColor(bg.R, bg.G, bg.B)
		pdf.Rect(0, 0, page.Width, page.Height, "F")
	}
	for _, ln := range page.Rules {
		w := ln.Width
		if w <= 0 {
			w = defaultRuleWidth
		}
		pdf.SetDrawColor(ln.Color.R, ln.Color.G, ln.Color.B)
		pdf.SetLineWidth(w)
		pdf.Line(ln.X1, h-ln.Y1, ln.X2, h-ln.Y2)
	}
	for _, run := range page.Texts {
		pdf.SetFont(coreFamily, fontStyle(run.Font), run.Size)
		pdf.SetTextColor(run.Color.R, run.Color.G, run.Color.B)
		pdf.Text(run.X, h-run.Y, encode(run.Text))
	}
}

func fontStyle(face layout.FontFace) string {
	if face == layout.FaceBold {
		return "B"
	}
	return ""
}

// encode converts UTF-8 to the Windows-1252 bytes the core fonts index by.
func encode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			c = '?'
		}
		b.WriteByte(c)
	}
	return b.String()
}
