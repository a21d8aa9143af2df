package layout

import "fmt"

// Fixed geometry of the block renderers, in points.
const (
	DefaultHeadingSize   = 14.0
	DefaultParagraphSize = 10.0
	DefaultFooterSize    = 7.0

	headingReserveExtra = 16.0
	headingAdvanceExtra = 8.0
	headingAfter        = 6.0

	lineReserveExtra = 6.0
	lineAdvanceExtra = 4.0

	dividerReserve   = 12.0
	dividerBefore    = 8.0
	dividerAfter     = 4.0
	dividerThickness = 0.5

	mealReserve    = 28.0
	mealLabelStep  = 14.0
	mealLabelSize  = 10.0
	mealLineStep   = 13.0
	mealLineSize   = 10.0
	mealLineIndent = 10.0

	footerLeadExtra = 2.0
)

// Block is one logical content unit placed by a single renderer call.
type Block interface {
	place(f *Flow) error
}

// Heading is a bold accent-coloured line. Size 0 means DefaultHeadingSize.
type Heading struct {
	Text string
	Size float64
}

// Paragraph is wrapped regular text. Runs of whitespace, including newlines,
// are drawn as a single space.
type Paragraph struct {
	Text  string
	Size  float64
	Color Color
}

// BoldParagraph is wrapped bold text, whitespace normalized like Paragraph.
type BoldParagraph struct {
	Text  string
	Size  float64
	Color Color
}

// Divider is a horizontal rule across the content width.
type Divider struct{}

// MealEntry is a bold label followed by an indented, wrapped description.
type MealEntry struct {
	Label       string
	Description string
}

// CenteredLine is a single unwrapped line centred on the page. Advance is
// both the space reserved and the distance the cursor moves before drawing.
type CenteredLine struct {
	Text    string
	Size    float64
	Font    FontFace
	Color   Color
	Advance float64
}

// Spacer moves the cursor down without drawing.
type Spacer struct {
	Height float64
}

// FooterParagraph is wrapped small print anchored to the bottom margin of
// the current page. It reserves its full height first, so it lands on a
// fresh page rather than overlapping content when the current one is full.
type FooterParagraph struct {
	Text  string
	Size  float64
	Color Color
}

// Flow places blocks onto the pages of a Paginator.
type Flow struct {
	pager *Paginator
	ts    Typesetter
	style Style
}

// NewFlow binds a paginator, a typesetter and the renderer colours.
func NewFlow(p *Paginator, ts Typesetter, style Style) (*Flow, error) {
	if p == nil {
		return nil, fmt.Errorf("layout: flow needs a paginator")
	}
	if ts == nil {
		return nil, ErrNoTypesetter
	}
	return &Flow{pager: p, ts: ts, style: style}, nil
}

// Place renders blocks in order and stops at the first error.
func (f *Flow) Place(blocks ...Block) error {
	for _, b := range blocks {
		if b == nil {
			continue
		}
		if err := b.place(f); err != nil {
			return err
		}
	}
	return nil
}

// Paginator exposes the underlying paginator.
func (f *Flow) Paginator() *Paginator { return f.pager }

func (f *Flow) left() float64 { return f.pager.opts.Margin }

func (f *Flow) contentWidth() float64 { return f.pager.opts.ContentWidth() }

func (f *Flow) draw(text string, font FontFace, size float64, c Color, x float64) {
	f.pager.curr().appendText(TextRun{
		Text:  text,
		Size:  size,
		Font:  font,
		Color: c,
		X:     x,
		Y:     f.pager.y,
	})
}

// wrappedLines places each wrapped line after reserving reserve and moving
// the cursor by step.
func (f *Flow) wrappedLines(text string, font FontFace, size float64, c Color, width, x, reserve, step float64) error {
	lines, err := Wrap(text, font, size, width, f.ts)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if err := f.pager.EnsureSpace(reserve); err != nil {
			return err
		}
		if err := f.pager.Advance(step); err != nil {
			return err
		}
		f.draw(line, font, size, c, x)
	}
	return nil
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

func (b Heading) place(f *Flow) error {
	size := orDefault(b.Size, DefaultHeadingSize)
	if err := f.pager.EnsureSpace(size + headingReserveExtra); err != nil {
		return err
	}
	if err := f.pager.Advance(size + headingAdvanceExtra); err != nil {
		return err
	}
	f.draw(b.Text, FaceBold, size, f.style.Accent, f.left())
	return f.pager.Advance(headingAfter)
}

func (b Paragraph) place(f *Flow) error {
	size := orDefault(b.Size, DefaultParagraphSize)
	return f.wrappedLines(b.Text, FaceRegular, size, b.Color, f.contentWidth(), f.left(), size+lineReserveExtra, size+lineAdvanceExtra)
}

func (b BoldParagraph) place(f *Flow) error {
	size := orDefault(b.Size, DefaultParagraphSize)
	return f.wrappedLines(b.Text, FaceBold, size, b.Color, f.contentWidth(), f.left(), size+lineReserveExtra, size+lineAdvanceExtra)
}

func (Divider) place(f *Flow) error {
	if err := f.pager.EnsureSpace(dividerReserve); err != nil {
		return err
	}
	if err := f.pager.Advance(dividerBefore); err != nil {
		return err
	}
	y := f.pager.y
	f.pager.curr().appendRule(Rule{
		X1:    f.left(),
		Y1:    y,
		X2:    f.left() + f.contentWidth(),
		Y2:    y,
		Color: f.style.Divider,
		Width: dividerThickness,
	})
	return f.pager.Advance(dividerAfter)
}

func (b MealEntry) place(f *Flow) error {
	if err := f.pager.EnsureSpace(mealReserve); err != nil {
		return err
	}
	if err := f.pager.Advance(mealLabelStep); err != nil {
		return err
	}
	f.draw(b.Label+":", FaceBold, mealLabelSize, f.style.MealLabel, f.left())
	return f.wrappedLines(b.Description, FaceRegular, mealLineSize, f.style.Text,
		f.contentWidth()-mealLineIndent, f.left()+mealLineIndent, mealLineStep, mealLineStep)
}

func (b CenteredLine) place(f *Flow) error {
	size := orDefault(b.Size, DefaultParagraphSize)
	font := b.Font
	if font == "" {
		font = FaceRegular
	}
	w, err := f.ts.TextWidth(b.Text, font, size)
	if err != nil {
		return fmt.Errorf("layout: measure %q: %w", b.Text, err)
	}
	if err := f.pager.EnsureSpace(b.Advance); err != nil {
		return err
	}
	if err := f.pager.Advance(b.Advance); err != nil {
		return err
	}
	f.draw(b.Text, font, size, b.Color, (f.pager.opts.Width-w)/2)
	return nil
}

func (b Spacer) place(f *Flow) error {
	return f.pager.Advance(b.Height)
}

func (b FooterParagraph) place(f *Flow) error {
	size := orDefault(b.Size, DefaultFooterSize)
	lines, err := Wrap(b.Text, FaceRegular, size, f.contentWidth(), f.ts)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	lead := size + footerLeadExtra
	if err := f.pager.EnsureSpace(float64(len(lines)) * lead); err != nil {
		return err
	}
	margin := f.pager.opts.Margin
	f.pager.y = margin + float64(len(lines)-1)*lead
	for i, line := range lines {
		if i > 0 {
			f.pager.y -= lead
		}
		f.draw(line, FaceRegular, size, b.Color, f.left())
	}
	f.pager.y = margin
	return nil
}
