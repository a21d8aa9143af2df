package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ByLCY/dietreport/dsl"
	"github.com/ByLCY/dietreport/layout"
)

// Palette holds every colour the report draws with.
type Palette struct {
	Background layout.Color
	Accent     layout.Color
	Green      layout.Color
	Amber      layout.Color
	Red        layout.Color
	White      layout.Color
	Muted      layout.Color
	Divider    layout.Color
}

// Texts holds the fixed strings of a report. Title, DateLine and FileName may
// reference ${name} and ${date}.
type Texts struct {
	Title       string
	DateLine    string
	DateLayout  string // time.Format layout used for ${date}
	BodyFatNote string
	Footer      string
	FileName    string
}

// Theme is the immutable look of a report. Callers get copies from
// DefaultTheme or LoadTheme and hand them to Assemble. Copies share the
// Fonts map; it must not be mutated, use FontSources for a private copy.
type Theme struct {
	Name    string
	Palette Palette
	Texts   Texts
	Fonts   map[layout.FontFace]layout.FontResource
	Meta    layout.DocumentMeta
}

// DefaultTheme is the dark report layout.
func DefaultTheme() Theme {
	return Theme{
		Name: "dark",
		Palette: Palette{
			Background: layout.Color{R: 3, G: 12, B: 23},
			Accent:     layout.Color{R: 34, G: 211, B: 238},
			Green:      layout.Color{R: 52, G: 211, B: 153},
			Amber:      layout.Color{R: 251, G: 191, B: 36},
			Red:        layout.Color{R: 248, G: 113, B: 113},
			White:      layout.Color{R: 245, G: 247, B: 250},
			Muted:      layout.Color{R: 148, G: 163, B: 181},
			Divider:    layout.Color{R: 31, G: 41, B: 56},
		},
		Texts: Texts{
			Title:       "Personalized BMI & Diet Report",
			DateLine:    "Generated on: ${date}",
			DateLayout:  "2 January 2006",
			BodyFatNote: "Estimates based on BMI + age + sex; not a medical diagnosis.",
			Footer: "This report is for informational purposes only. It does not constitute medical advice. " +
				"Consult a licensed healthcare professional.",
			FileName: "BMI-Diet-Report-${name}.pdf",
		},
		Meta: layout.DocumentMeta{
			Title:    "Personalized BMI & Diet Report",
			Subject:  "BMI analysis and diet plan",
			Creator:  "dietreport",
			Keywords: []string{"bmi", "diet", "nutrition"},
		},
	}
}

// FontSources returns a copy of the theme's font overrides, or nil when
// there are none.
func (t Theme) FontSources() map[layout.FontFace]layout.FontResource {
	if len(t.Fonts) == 0 {
		return nil
	}
	out := make(map[layout.FontFace]layout.FontResource, len(t.Fonts))
	for face, res := range t.Fonts {
		out[face] = res
	}
	return out
}

// CategoryColor picks the colour of the BMI line.
func (t Theme) CategoryColor(category string) layout.Color {
	switch category {
	case "Underweight":
		return t.Palette.Accent
	case "Normal":
		return t.Palette.Green
	case "Overweight":
		return t.Palette.Amber
	case "Obese":
		return t.Palette.Red
	default:
		return t.Palette.White
	}
}

func (t Theme) style() layout.Style {
	return layout.Style{
		Accent:    t.Palette.Accent,
		Text:      t.Palette.White,
		Divider:   t.Palette.Divider,
		MealLabel: t.Palette.Green,
	}
}

func (t Theme) pageOptions(base layout.PageOptions) layout.PageOptions {
	bg := t.Palette.Background
	base.Background = &bg
	return base
}

// LoadTheme reads a theme file and applies it on top of DefaultTheme:
//
//	theme Light v1 {
//	  colors { color background = #ffffff }
//	  fonts  { font bold { src: "embed:gomedium" } }
//	  texts  { footer: "Not medical advice." }
//	}
func LoadTheme(r io.Reader) (Theme, error) {
	ast, err := dsl.Parse(r)
	if err != nil {
		return Theme{}, fmt.Errorf("report: parse theme: %w", err)
	}
	theme := DefaultTheme()
	theme.Name = ast.Name

	for _, cmd := range ast.Commands("colors", "color") {
		if len(cmd.Args) < 2 {
			return Theme{}, fmt.Errorf("report: %s: color needs a name and a value", cmd.Pos)
		}
		name, value := cmd.Args[0].Value, cmd.Args[len(cmd.Args)-1].Value
		if err := theme.setColor(name, value); err != nil {
			return Theme{}, err
		}
	}
	for name, v := range ast.Find("colors") {
		if err := theme.setColor(name, v.Text()); err != nil {
			return Theme{}, err
		}
	}

	for _, cmd := range ast.Commands("fonts", "font") {
		if len(cmd.Args) == 0 {
			return Theme{}, fmt.Errorf("report: %s: font needs a face name", cmd.Pos)
		}
		face := layout.FontFace(strings.ToLower(cmd.Args[0].Value))
		if face != layout.FaceRegular && face != layout.FaceBold {
			return Theme{}, fmt.Errorf("report: unknown font face %q", cmd.Args[0].Value)
		}
		res := layout.FontResource{Name: cmd.Args[0].Value}
		if cmd.Block != nil {
			for _, stmt := range cmd.Block.Statements {
				if stmt.Assignment != nil && stmt.Assignment.Key == "src" {
					res.Src = stmt.Assignment.Value.Text()
				}
			}
		}
		if res.Src == "" {
			return Theme{}, fmt.Errorf("report: font %s has no src", face)
		}
		if theme.Fonts == nil {
			theme.Fonts = map[layout.FontFace]layout.FontResource{}
		}
		theme.Fonts[face] = res
	}

	for key, v := range ast.Find("texts") {
		if err := theme.setText(key, v.Text()); err != nil {
			return Theme{}, err
		}
	}

	for key, v := range ast.Find("meta") {
		switch key {
		case "title":
			theme.Meta.Title = v.Text()
		case "author":
			theme.Meta.Author = v.Text()
		case "subject":
			theme.Meta.Subject = v.Text()
		case "creator":
			theme.Meta.Creator = v.Text()
		case "keywords":
			theme.Meta.Keywords = v.Strings()
		default:
			return Theme{}, fmt.Errorf("report: unknown meta key %q", key)
		}
	}
	return theme, nil
}

func (t *Theme) setColor(name, value string) error {
	c, err := parseColor(value)
	if err != nil {
		return fmt.Errorf("report: colour %s: %w", name, err)
	}
	p := &t.Palette
	switch strings.ToLower(name) {
	case "background", "bg":
		p.Background = c
	case "accent":
		p.Accent = c
	case "green":
		p.Green = c
	case "amber":
		p.Amber = c
	case "red":
		p.Red = c
	case "white", "text":
		p.White = c
	case "muted":
		p.Muted = c
	case "divider":
		p.Divider = c
	default:
		return fmt.Errorf("report: unknown colour %q", name)
	}
	return nil
}

func (t *Theme) setText(key, value string) error {
	switch key {
	case "title":
		t.Texts.Title = value
	case "date":
		t.Texts.DateLine = value
	case "datelayout":
		t.Texts.DateLayout = value
	case "bodyfatnote":
		t.Texts.BodyFatNote = value
	case "footer":
		t.Texts.Footer = value
	case "filename":
		t.Texts.FileName = value
	default:
		return fmt.Errorf("report: unknown text %q", key)
	}
	return nil
}

func parseColor(value string) (layout.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return layout.Color{}, fmt.Errorf("cannot parse %q as #rgb or #rrggbb", value)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return layout.Color{}, fmt.Errorf("cannot parse %q: %w", value, err)
	}
	return layout.Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}
