package layout

// Typesetter measures text for the line wrapper and the block renderers.
// Widths are returned in points. An error means the face cannot be measured
// or embedded and aborts the whole build.
type Typesetter interface {
	TextWidth(text string, font FontFace, size float64) (float64, error)
}

// PageOptions fixes the page geometry for a whole document.
type PageOptions struct {
	Width       float64
	Height      float64
	Margin      float64
	BottomSlack float64 // extra space kept free above the bottom margin
	Background  *Color
}

// DefaultPageOptions returns A4 portrait with a 40pt margin on every side.
func DefaultPageOptions() PageOptions {
	return PageOptions{
		Width:       A4Width,
		Height:      A4Height,
		Margin:      DefaultMargin,
		BottomSlack: DefaultBottomSlack,
	}
}

// ContentWidth is the page width minus both side margins.
func (o PageOptions) ContentWidth() float64 { return o.Width - 2*o.Margin }

// UsableHeight is the largest reservation EnsureSpace accepts.
func (o PageOptions) UsableHeight() float64 { return o.Height - 2*o.Margin - o.BottomSlack }

// Style carries the colours the block renderers pick on their own, as opposed
// to the colours a block is given explicitly.
type Style struct {
	Accent    Color // headings
	Text      Color // paragraph default and meal descriptions
	Divider   Color
	MealLabel Color
}
