package layout

// This file defines the laid-out document shared by the block renderers, the
// PDF renderers and the debug JSON dump. All coordinates are PDF points with
// the origin at the bottom-left corner of the page and y pointing up.

// Document holds the pages produced by one generation run.
type Document struct {
	Pages []Page       `json:"pages"`
	Meta  DocumentMeta `json:"meta"`
}

// Page records the page size, margin and the draw operations placed on it.
type Page struct {
	Width      float64   `json:"width"`
	Height     float64   `json:"height"`
	Margin     float64   `json:"margin"`
	Background *Color    `json:"background,omitempty"` // nil leaves the page unfilled
	Texts      []TextRun `json:"texts"`
	Rules      []Rule    `json:"rules,omitempty"`
}

// Color uses 0-255 RGB components.
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// FontFace identifies one of the two faces a document is set in.
type FontFace string

const (
	FaceRegular FontFace = "regular"
	FaceBold    FontFace = "bold"
)

// FontResource describes where the bytes of a face come from. Src may be a
// file path, "embed:<name>" for a built-in font or empty for the backend default.
type FontResource struct {
	Name string `json:"name"`
	Src  string `json:"src"`
}

// TextRun is one placed line of text. Y is the baseline.
type TextRun struct {
	Text  string   `json:"text"`
	Size  float64  `json:"size"`
	Font  FontFace `json:"font"`
	Color Color    `json:"color"`
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
}

// Rule is a straight line segment, used for dividers.
type Rule struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // <=0 lets the renderer pick a hairline
}

// DocumentMeta holds the PDF info dictionary values.
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}

// Lines returns the text of every run in page-then-placement order.
func (d *Document) Lines() []string {
	if d == nil {
		return nil
	}
	var out []string
	for _, p := range d.Pages {
		for _, t := range p.Texts {
			out = append(out, t.Text)
		}
	}
	return out
}
