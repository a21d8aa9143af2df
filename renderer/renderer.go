package renderer

import "github.com/ByLCY/dietreport/layout"

// ContentType identifies the bytes every Renderer produces.
const ContentType = "application/pdf"

// Renderer serializes a laid-out document, e.g. into PDF bytes. It either
// returns the whole document or an error, never a partial buffer.
type Renderer interface {
	Render(doc *layout.Document) ([]byte, error)
}

// Backend is a Renderer that also measures text with the same fonts it
// embeds, so layout and output always agree on widths.
type Backend interface {
	Renderer
	layout.Typesetter
}
