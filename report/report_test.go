package report

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/dietreport/layout"
)

// stubTypesetter gives every rune half the font size, bold a bit more.
type stubTypesetter struct{}

func (stubTypesetter) TextWidth(text string, font layout.FontFace, size float64) (float64, error) {
	factor := 0.5
	if font == layout.FaceBold {
		factor = 0.6
	}
	return float64(len([]rune(text))) * size * factor, nil
}

type failingTypesetter struct{}

func (failingTypesetter) TextWidth(string, layout.FontFace, float64) (float64, error) {
	return 0, errors.New("font not embeddable")
}

// stubBackend renders a fixed byte string so Generate can be tested without
// a PDF library.
type stubBackend struct {
	stubTypesetter
	err  error
	docs []*layout.Document
}

func (b *stubBackend) Render(doc *layout.Document) ([]byte, error) {
	b.docs = append(b.docs, doc)
	if b.err != nil {
		return nil, b.err
	}
	return []byte("%PDF-stub"), nil
}

var fixedNow = func() time.Time { return time.Date(2026, time.October, 19, 9, 30, 0, 0, time.UTC) }

func ptr(v float64) *float64 { return &v }

func sampleContent() *Content {
	return &Content{
		User: UserDetails{
			Name:           "Asha Rao",
			Age:            ptr(34),
			Gender:         "female",
			HeightCm:       ptr(162.5),
			WeightKg:       ptr(58),
			ActivityLevel:  "moderate",
			Goal:           "maintain",
			DietPreference: "vegetarian",
		},
		Plan: Plan{
			BMI:      22.345,
			Category: "Normal",
			Summary:  "Your BMI is in the healthy range.",
			CalorieTarget: CalorieTarget{
				DailyCalories: 1900,
				ProteinG:      95,
				CarbsG:        240,
				FatG:          60,
			},
			DietChart: DietChart{
				Breakfast:    "Oats with milk and banana",
				MidMorning:   "A handful of almonds",
				Lunch:        "Dal, rice and salad",
				EveningSnack: "Sprouts chaat",
				Dinner:       "Paneer with two rotis",
			},
			WeeklyTips:  []string{"Drink 8 glasses of water", "Walk 30 minutes daily"},
			Disclaimers: []string{"Not a substitute for medical advice."},
		},
	}
}

func assembleSample(t *testing.T, c *Content) *layout.Document {
	t.Helper()
	doc, err := Assemble(c, DefaultTheme(), stubTypesetter{}, Options{Now: fixedNow})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	return doc
}

func findRun(doc *layout.Document, text string) (layout.TextRun, int, bool) {
	for i, p := range doc.Pages {
		for _, r := range p.Texts {
			if r.Text == text {
				return r, i, true
			}
		}
	}
	return layout.TextRun{}, 0, false
}

func TestAssembleSinglePageReport(t *testing.T) {
	doc := assembleSample(t, sampleContent())
	if len(doc.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(doc.Pages))
	}

	want := []string{
		"Personalized BMI & Diet Report",
		"Generated on: 19 October 2026",
		"User Details",
		"Name: Asha Rao",
		"Phone: N/A",
		"Age: 34 Gender: female",
		"Height: 162.5 cm Weight: 58 kg",
		"Activity Level: moderate Goal: maintain",
		"Diet Preference: vegetarian",
		"Allergies: None",
		"Medical Notes: None",
		"BMI Analysis",
		"BMI: 22.3 Category: Normal",
		"Your BMI is in the healthy range.",
		"Daily Calorie & Macro Targets",
		"Calories: 1900 kcal",
		"Protein: 95g Carbs: 240g Fat: 60g",
		"Personalized Diet Chart",
		"Breakfast:", "Oats with milk and banana",
		"Mid-Morning:", "A handful of almonds",
		"Lunch:", "Dal, rice and salad",
		"Evening Snack:", "Sprouts chaat",
		"Dinner:", "Paneer with two rotis",
		"Weekly Tips & Suggestions",
		"- Drink 8 glasses of water",
		"- Walk 30 minutes daily",
		"Disclaimers",
		"[!] Not a substitute for medical advice.",
		DefaultTheme().Texts.Footer,
	}
	if diff := cmp.Diff(want, doc.Lines()); diff != "" {
		t.Fatalf("unexpected lines (-want +got):\n%s", diff)
	}

	if got := len(doc.Pages[0].Rules); got != 6 {
		t.Fatalf("expected 6 dividers, got %d", got)
	}
	if bg := doc.Pages[0].Background; bg == nil || *bg != DefaultTheme().Palette.Background {
		t.Fatalf("expected dark background, got %v", bg)
	}
	if doc.Meta.Title != "Personalized BMI & Diet Report" {
		t.Fatalf("unexpected meta title %q", doc.Meta.Title)
	}
}

func TestMetricLineUsesCategoryColour(t *testing.T) {
	doc := assembleSample(t, sampleContent())
	run, _, ok := findRun(doc, "BMI: 22.3 Category: Normal")
	if !ok {
		t.Fatalf("metric line missing")
	}
	theme := DefaultTheme()
	if run.Color != theme.Palette.Green || run.Font != layout.FaceBold || run.Size != 12 {
		t.Fatalf("unexpected metric run %+v", run)
	}
	heading, _, _ := findRun(doc, "BMI Analysis")
	if heading.Color != theme.Palette.Accent || heading.Font != layout.FaceBold || heading.Size != 14 {
		t.Fatalf("unexpected heading run %+v", heading)
	}
	title, _, _ := findRun(doc, "Personalized BMI & Diet Report")
	wantX := (layout.A4Width - 30*20*0.6) / 2
	if diff := title.X - wantX; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("title not centred: x=%g want %g", title.X, wantX)
	}
}

func TestBodyFatBlock(t *testing.T) {
	c := sampleContent()
	c.Plan.BodyFatPercent = ptr(24.96)
	c.Plan.BodyFatCategory = "Average"
	doc := assembleSample(t, c)

	lines := doc.Lines()
	idx := -1
	for i, ln := range lines {
		if ln == "Body Fat %: 25.0% Category: Average" {
			idx = i
		}
	}
	if idx < 0 {
		t.Fatalf("body fat line missing in %q", lines)
	}
	if lines[idx-1] != "BMI: 22.3 Category: Normal" || lines[idx+1] != DefaultTheme().Texts.BodyFatNote {
		t.Fatalf("unexpected order around body fat line: %q", lines[idx-1:idx+2])
	}

	metric, _, _ := findRun(doc, lines[idx-1])
	fat, _, _ := findRun(doc, lines[idx])
	// 8pt gap plus the 16pt line advance.
	if gap := metric.Y - fat.Y; gap < 23.999 || gap > 24.001 {
		t.Fatalf("expected 24pt between metric lines, got %g", gap)
	}
}

func TestLongContentFlowsOntoMorePages(t *testing.T) {
	c := sampleContent()
	for i := 0; i < 60; i++ {
		c.Plan.WeeklyTips = append(c.Plan.WeeklyTips, fmt.Sprintf("Tip number %d: keep portions moderate and sleep at least seven hours", i))
	}
	for i := 0; i < 20; i++ {
		c.Plan.Disclaimers = append(c.Plan.Disclaimers, fmt.Sprintf("Disclaimer %d", i))
	}
	doc := assembleSample(t, c)
	if len(doc.Pages) < 2 {
		t.Fatalf("expected several pages, got %d", len(doc.Pages))
	}

	single := assembleSample(t, sampleContent()).Lines()
	got := doc.Lines()
	if len(got) != len(single)+80 {
		t.Fatalf("expected %d lines, got %d", len(single)+80, len(got))
	}
	var tips []string
	for _, ln := range got {
		if strings.HasPrefix(ln, "- ") {
			tips = append(tips, ln)
		}
	}
	var wantTips []string
	for _, tip := range c.Plan.WeeklyTips {
		wantTips = append(wantTips, "- "+tip)
	}
	if diff := cmp.Diff(wantTips, tips); diff != "" {
		t.Fatalf("tips out of order (-want +got):\n%s", diff)
	}

	for i, p := range doc.Pages {
		if p.Background == nil {
			t.Fatalf("page %d has no background", i)
		}
		for _, r := range p.Texts {
			if r.Y < p.Margin-1e-9 || r.Y > p.Height-p.Margin+1e-9 {
				t.Fatalf("page %d: %q drawn outside the margins at y=%g", i, r.Text, r.Y)
			}
		}
	}

	footer, page, _ := findRun(doc, DefaultTheme().Texts.Footer)
	if page != len(doc.Pages)-1 || footer.Y != layout.DefaultMargin {
		t.Fatalf("footer on page %d at y=%g, want last page at the margin", page, footer.Y)
	}
}

func TestAssembleFailsAtomically(t *testing.T) {
	doc, err := Assemble(sampleContent(), DefaultTheme(), failingTypesetter{}, Options{Now: fixedNow})
	if err == nil || doc != nil {
		t.Fatalf("expected error and no document, got %v / %v", doc, err)
	}
	if _, err := Assemble(sampleContent(), DefaultTheme(), nil, Options{}); !errors.Is(err, layout.ErrNoTypesetter) {
		t.Fatalf("expected ErrNoTypesetter, got %v", err)
	}
}

func TestCategoryColor(t *testing.T) {
	theme := DefaultTheme()
	p := theme.Palette
	cases := map[string]layout.Color{
		"Underweight": p.Accent,
		"Normal":      p.Green,
		"Overweight":  p.Amber,
		"Obese":       p.Red,
		"normal":      p.White,
		"":            p.White,
	}
	for category, want := range cases {
		if got := theme.CategoryColor(category); got != want {
			t.Fatalf("CategoryColor(%q) = %v, want %v", category, got, want)
		}
	}
	seen := map[layout.Color]bool{}
	for _, c := range []string{"Underweight", "Normal", "Overweight", "Obese", "other"} {
		seen[theme.CategoryColor(c)] = true
	}
	if len(seen) != 5 {
		t.Fatalf("expected 5 distinct colours, got %d", len(seen))
	}
}

func TestFileName(t *testing.T) {
	theme := DefaultTheme()
	cases := map[string]string{
		"Asha Rao":            "BMI-Diet-Report-Asha_Rao.pdf",
		"Asha  Rao\tKumar":    "BMI-Diet-Report-Asha_Rao_Kumar.pdf",
		"":                    "BMI-Diet-Report-User.pdf",
		" lead and trail \n": "BMI-Diet-Report-_lead_and_trail_.pdf",
	}
	for name, want := range cases {
		if got := FileName(theme, name); got != want {
			t.Fatalf("FileName(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestGenerate(t *testing.T) {
	backend := &stubBackend{}
	art, err := Generate(sampleContent(), DefaultTheme(), backend, Options{Now: fixedNow})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if string(art.Data) != "%PDF-stub" || art.ContentType != "application/pdf" || art.FileName != "BMI-Diet-Report-Asha_Rao.pdf" {
		t.Fatalf("unexpected artifact %+v", art)
	}
	if len(backend.docs) != 1 || len(backend.docs[0].Pages) != 1 {
		t.Fatalf("expected one rendered single-page document")
	}
}

func TestGenerateReportsStage(t *testing.T) {
	renderErr := errors.New("disk full")
	_, err := Generate(sampleContent(), DefaultTheme(), &stubBackend{err: renderErr}, Options{Now: fixedNow})
	var gen *GenerationError
	if !errors.As(err, &gen) || gen.Stage != StageRender || !errors.Is(err, renderErr) {
		t.Fatalf("expected render stage error, got %v", err)
	}

	bad := sampleContent()
	bad.Plan.DietChart.Lunch = ""
	bad.Plan.BMI = 0
	art, err := Generate(bad, DefaultTheme(), &stubBackend{}, Options{Now: fixedNow})
	if art != nil {
		t.Fatalf("expected no artifact")
	}
	var verr *ValidationError
	if !errors.As(err, &gen) || gen.Stage != StageValidate || !errors.As(err, &verr) {
		t.Fatalf("expected validation stage error, got %v", err)
	}
	want := []string{"plan.bmi must be a positive number", "plan.dietChart: Lunch is required"}
	if diff := cmp.Diff(want, verr.Problems); diff != "" {
		t.Fatalf("unexpected problems (-want +got):\n%s", diff)
	}
}

func TestDrawnLinesCollapseWhitespace(t *testing.T) {
	c := sampleContent()
	c.Plan.Summary = "Healthy   range.\n\tKeep  going."
	c.Plan.WeeklyTips = []string{"  Walk\n daily  "}
	doc := assembleSample(t, c)

	for _, want := range []string{"Healthy range. Keep going.", "- Walk daily", "BMI: 22.3 Category: Normal"} {
		if _, _, ok := findRun(doc, want); !ok {
			t.Fatalf("line %q not drawn; got %q", want, doc.Lines())
		}
	}
	for _, ln := range doc.Lines() {
		if ln != strings.Join(strings.Fields(ln), " ") {
			t.Fatalf("line %q keeps unnormalized whitespace", ln)
		}
	}
}
