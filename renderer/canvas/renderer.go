package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/dietreport/fonts"
	"github.com/ByLCY/dietreport/layout"
	"github.com/ByLCY/dietreport/renderer"
)

const defaultRuleWidth = 0.5 // pt

// Renderer draws documents via github.com/tdewolff/canvas and measures text
// with the same font family it embeds.
type Renderer struct {
	baseDir string
	fonts   map[layout.FontFace]layout.FontResource

	// fontMu guards the lazily loaded family and serializes face creation,
	// which is not documented as safe for concurrent use.
	fontMu  sync.Mutex
	family  *canvas.FontFamily
	loadErr error
}

var _ renderer.Backend = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[layout.FontFace]layout.FontResource // missing faces fall back to the Go fonts
}

// NewRenderer creates a renderer using the built-in Go fonts.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer with explicit font sources.
// Relative font paths are resolved against BaseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir: opts.BaseDir,
		fonts: map[layout.FontFace]layout.FontResource{
			layout.FaceRegular: {Name: "Regular", Src: "embed:" + fonts.Regular},
			layout.FaceBold:    {Name: "Bold", Src: "embed:" + fonts.Bold},
		},
	}
	for face, res := range opts.Fonts {
		if res.Src == "" {
			continue
		}
		r.fonts[face] = res
	}
	return r
}

// TextWidth implements layout.Typesetter. size is in points and so is the
// result.
func (r *Renderer) TextWidth(text string, font layout.FontFace, size float64) (float64, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	family, err := r.ensureFamily()
	if err != nil {
		return 0, err
	}
	face := family.Face(size, canvas.Black, fontStyle(font), canvas.FontNormal)
	return layout.ToPT(face.TextWidth(text)), nil
}

// Render renders the document into a PDF byte slice.
func (r *Renderer) Render(doc *layout.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("canvas: nothing to render")
	}
	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("canvas: document has no pages")
	}

	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	family, err := r.ensureFamily()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	first := doc.Pages[0]
	writer := pdf.New(&buf, layout.ToMM(first.Width), layout.ToMM(first.Height), nil)
	applyMeta(writer, doc.Meta)
	for i, page := range doc.Pages {
		if i > 0 {
			writer.NewPage(layout.ToMM(page.Width), layout.ToMM(page.Height))
		}
		c := canvas.New(layout.ToMM(page.Width), layout.ToMM(page.Height))
		ctx := canvas.NewContext(c)
		drawPage(ctx, family, page)
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("canvas: write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// drawPage paints the background first, then rules, then text. The context
// keeps canvas' default Cartesian system, which matches layout's y-up points.
func drawPage(ctx *canvas.Context, family *canvas.FontFamily, page layout.Page) {
	if page.Background != nil {
		ctx.SetFillColor(colorFromLayout(*page.Background))
		ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
		ctx.DrawPath(0, 0, canvas.Rectangle(layout.ToMM(page.Width), layout.ToMM(page.Height)))
	}

	for _, ln := range page.Rules {
		w := ln.Width
		if w <= 0 {
			w = defaultRuleWidth
		}
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		ctx.SetStrokeColor(colorFromLayout(ln.Color))
		ctx.SetStrokeWidth(layout.ToMM(w))
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(layout.ToMM(ln.X2-ln.X1), layout.ToMM(ln.Y2-ln.Y1))
		ctx.DrawPath(layout.ToMM(ln.X1), layout.ToMM(ln.Y1), p)
	}

	for _, run := range page.Texts {
		face := family.Face(run.Size, colorFromLayout(run.Color), fontStyle(run.Font), canvas.FontNormal)
		line := canvas.NewTextLine(face, run.Text, canvas.Left)
		ctx.DrawText(layout.ToMM(run.X), layout.ToMM(run.Y), line)
	}
}

// ensureFamily loads both faces once. A failure is remembered so every
// later call reports the same error. Callers hold fontMu.
func (r *Renderer) ensureFamily() (*canvas.FontFamily, error) {
	if r.family != nil || r.loadErr != nil {
		return r.family, r.loadErr
	}
	family := canvas.NewFontFamily("dietreport")
	for _, face := range []layout.FontFace{layout.FaceRegular, layout.FaceBold} {
		res := r.fonts[face]
		data, err := r.loadFontBytes(res)
		if err != nil {
			r.loadErr = err
			return nil, err
		}
		if err := family.LoadFont(data, 0, fontStyle(face)); err != nil {
			r.loadErr = fmt.Errorf("canvas: load font %s: %w", res.Src, err)
			return nil, r.loadErr
		}
	}
	r.family = family
	return family, nil
}

func (r *Renderer) loadFontBytes(font layout.FontResource) ([]byte, error) {
	src := font.Src
	if strings.HasPrefix(src, "embed:") || strings.HasPrefix(src, "builtin:") {
		return fonts.Load(strings.TrimPrefix(strings.TrimPrefix(src, "builtin:"), "embed:"))
	}
	path := src
	if !filepath.IsAbs(path) {
		if r.baseDir == "" {
			return nil, fmt.Errorf("canvas: relative font path %s needs a base directory (use embed: instead)", src)
		}
		path = filepath.Join(r.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("canvas: read font %s: %w", src, err)
	}
	return data, nil
}

func fontStyle(face layout.FontFace) canvas.FontStyle {
	if face == layout.FaceBold {
		return canvas.FontBold
	}
	return canvas.FontRegular
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
