package report

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/ByLCY/dietreport/binding"
	"github.com/ByLCY/dietreport/renderer"
)

// Generation stages reported by GenerationError.
const (
	StageValidate = "validate"
	StageLayout   = "layout"
	StageRender   = "render"
)

// GenerationError tells which stage of Generate failed.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("report: %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Artifact is a finished report ready to be written or served.
type Artifact struct {
	Data        []byte
	ContentType string
	FileName    string
}

// Generate validates c, lays it out with the backend's metrics and renders
// it with the same backend. No artifact is returned unless every stage
// succeeds.
func Generate(c *Content, theme Theme, backend renderer.Backend, opts Options) (*Artifact, error) {
	if backend == nil {
		return nil, &GenerationError{Stage: StageLayout, Err: errors.New("no rendering backend")}
	}
	if c == nil {
		return nil, &GenerationError{Stage: StageValidate, Err: &ValidationError{Problems: []string{"content is missing"}}}
	}
	if err := c.Validate(); err != nil {
		return nil, &GenerationError{Stage: StageValidate, Err: err}
	}
	doc, err := Assemble(c, theme, backend, opts)
	if err != nil {
		return nil, &GenerationError{Stage: StageLayout, Err: err}
	}
	data, err := backend.Render(doc)
	if err != nil {
		return nil, &GenerationError{Stage: StageRender, Err: err}
	}
	return &Artifact{
		Data:        data,
		ContentType: renderer.ContentType,
		FileName:    FileName(theme, c.User.Name),
	}, nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// FileName expands the theme's file name template for a user. Runs of
// whitespace in the name become a single underscore; an empty name is
// "User".
func FileName(theme Theme, name string) string {
	if name == "" {
		name = "User"
	}
	tmpl := theme.Texts.FileName
	if tmpl == "" {
		tmpl = DefaultTheme().Texts.FileName
	}
	return binding.Interpolate(tmpl, map[string]string{"name": whitespaceRun.ReplaceAllString(name, "_")})
}
