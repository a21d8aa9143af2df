package layout

import (
	"errors"
	"fmt"
)

// Layout invariant violations. These indicate a defect in a block renderer
// or its caller, never bad input text.
var (
	ErrNoTypesetter         = errors.New("layout: no typesetter configured")
	ErrNegativeReservation  = errors.New("layout: negative space reservation")
	ErrOversizedReservation = errors.New("layout: reservation exceeds usable page height")
	ErrCursorBelowMargin    = errors.New("layout: cursor below bottom margin")
)

type pageAccumulator struct {
	texts []TextRun
	rules []Rule
}

func (p *pageAccumulator) appendText(t TextRun) {
	p.texts = append(p.texts, t)
}

func (p *pageAccumulator) appendRule(r Rule) {
	p.rules = append(p.rules, r)
}

// Paginator owns the pages of one document, the current page and the
// vertical cursor on it. Every block reserves space through EnsureSpace
// before it draws, which is what keeps content from running off a page.
type Paginator struct {
	opts    PageOptions
	accs    []*pageAccumulator
	current int
	y       float64
}

// NewPaginator validates the page geometry and opens the first page.
func NewPaginator(opts PageOptions) (*Paginator, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("layout: invalid page size %gx%g", opts.Width, opts.Height)
	}
	if opts.Margin < 0 || opts.BottomSlack < 0 {
		return nil, fmt.Errorf("layout: margin and slack must not be negative")
	}
	if opts.ContentWidth() <= 0 || opts.UsableHeight() <= 0 {
		return nil, fmt.Errorf("layout: margin %g leaves no content area", opts.Margin)
	}
	p := &Paginator{opts: opts}
	p.newPage()
	return p, nil
}

func (p *Paginator) newPage() *pageAccumulator {
	acc := &pageAccumulator{}
	p.accs = append(p.accs, acc)
	p.current = len(p.accs) - 1
	p.y = p.opts.Height - p.opts.Margin
	return acc
}

func (p *Paginator) curr() *pageAccumulator {
	return p.accs[p.current]
}

// EnsureSpace opens a new page when fewer than height points remain above
// the bottom margin plus slack. Reservations larger than a whole page are
// rejected instead of being placed past the bottom edge.
func (p *Paginator) EnsureSpace(height float64) error {
	if height < 0 {
		return fmt.Errorf("%w: %g", ErrNegativeReservation, height)
	}
	if height > p.opts.UsableHeight() {
		return fmt.Errorf("%w: %g > %g", ErrOversizedReservation, height, p.opts.UsableHeight())
	}
	if p.y-height < p.opts.Margin+p.opts.BottomSlack {
		p.newPage()
	}
	return nil
}

// Advance moves the cursor down by dy.
func (p *Paginator) Advance(dy float64) error {
	if dy < 0 {
		return fmt.Errorf("%w: advance by %g", ErrNegativeReservation, dy)
	}
	if p.y-dy < p.opts.Margin-widthEpsilon {
		return fmt.Errorf("%w: y=%g after advancing %g", ErrCursorBelowMargin, p.y-dy, dy)
	}
	p.y -= dy
	return nil
}

// Y returns the cursor position on the current page.
func (p *Paginator) Y() float64 { return p.y }

// PageCount returns the number of pages opened so far.
func (p *Paginator) PageCount() int { return len(p.accs) }

// Options returns the page geometry.
func (p *Paginator) Options() PageOptions { return p.opts }

// Document snapshots the pages into a Document. The paginator must not be
// used afterwards.
func (p *Paginator) Document(meta DocumentMeta) *Document {
	out := make([]Page, len(p.accs))
	for i, acc := range p.accs {
		var bg *Color
		if p.opts.Background != nil {
			c := *p.opts.Background
			bg = &c
		}
		out[i] = Page{
			Width:      p.opts.Width,
			Height:     p.opts.Height,
			Margin:     p.opts.Margin,
			Background: bg,
			Texts:      acc.texts,
			Rules:      acc.rules,
		}
	}
	return &Document{Pages: out, Meta: meta}
}
