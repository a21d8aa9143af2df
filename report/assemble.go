package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ByLCY/dietreport/binding"
	"github.com/ByLCY/dietreport/layout"
)

const (
	titleSize      = 20.0
	titleAdvance   = 20.0
	dateSize       = 9.0
	dateAdvance    = 14.0
	metricSize     = 12.0
	metricGap      = 8.0
	noteGap        = 4.0
	noteSize       = 9.0
	caloriesSize   = 11.0
	disclaimerHead = 11.0
	disclaimerSize = 9.0
)

// Options tunes one Assemble call. The zero value lays out A4 with the
// current time.
type Options struct {
	Page layout.PageOptions
	Now  func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Page.Width == 0 && o.Page.Height == 0 {
		o.Page = layout.DefaultPageOptions()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Assemble lays out the whole report. It returns the finished document or an
// error, never a partial one.
func Assemble(c *Content, theme Theme, ts layout.Typesetter, opts Options) (*layout.Document, error) {
	if c == nil {
		return nil, fmt.Errorf("report: no content")
	}
	if ts == nil {
		return nil, layout.ErrNoTypesetter
	}
	opts = opts.withDefaults()

	pager, err := layout.NewPaginator(theme.pageOptions(opts.Page))
	if err != nil {
		return nil, err
	}
	flow, err := layout.NewFlow(pager, ts, theme.style())
	if err != nil {
		return nil, err
	}

	vars := templateData(c, theme, opts.Now())
	sections := [][]layout.Block{
		header(theme, vars),
		userSection(c.User, theme),
		metricSection(c.Plan, theme),
		targetSection(c.Plan.CalorieTarget, theme),
		mealSection(c.Plan.DietChart),
		tipSection(c.Plan.WeeklyTips, theme),
		disclaimerSection(c.Plan.Disclaimers, theme),
	}
	for i, blocks := range sections {
		if i < len(sections)-1 {
			blocks = append(blocks, layout.Divider{})
		}
		if err := flow.Place(blocks...); err != nil {
			return nil, fmt.Errorf("report: section %d: %w", i, err)
		}
	}
	footer := layout.FooterParagraph{Text: theme.Texts.Footer, Size: layout.DefaultFooterSize, Color: theme.Palette.Muted}
	if err := flow.Place(footer); err != nil {
		return nil, fmt.Errorf("report: footer: %w", err)
	}

	meta := theme.Meta
	meta.Title = binding.Interpolate(meta.Title, vars)
	return pager.Document(meta), nil
}

func templateData(c *Content, theme Theme, now time.Time) map[string]any {
	name := c.User.Name
	if name == "" {
		name = "User"
	}
	return map[string]any{
		"name":     name,
		"date":     now.Format(theme.Texts.DateLayout),
		"category": c.Plan.Category,
	}
}

func header(theme Theme, vars map[string]any) []layout.Block {
	return []layout.Block{
		layout.CenteredLine{
			Text:    binding.Interpolate(theme.Texts.Title, vars),
			Size:    titleSize,
			Font:    layout.FaceBold,
			Color:   theme.Palette.Accent,
			Advance: titleAdvance,
		},
		layout.CenteredLine{
			Text:    binding.Interpolate(theme.Texts.DateLine, vars),
			Size:    dateSize,
			Font:    layout.FaceRegular,
			Color:   theme.Palette.Muted,
			Advance: dateAdvance,
		},
	}
}

func userSection(u UserDetails, theme Theme) []layout.Block {
	lines := []string{
		"Name: " + orText(u.Name, "N/A"),
		"Phone: " + orText(u.Phone, "N/A"),
		fmt.Sprintf("Age: %s Gender: %s", number(u.Age), orText(u.Gender, "N/A")),
		fmt.Sprintf("Height: %s cm Weight: %s kg", number(u.HeightCm), number(u.WeightKg)),
		fmt.Sprintf("Activity Level: %s Goal: %s", orText(u.ActivityLevel, "N/A"), orText(u.Goal, "N/A")),
		"Diet Preference: " + orText(u.DietPreference, "N/A"),
		"Allergies: " + orText(u.Allergies, "None"),
		"Medical Notes: " + orText(u.MedicalNotes, "None"),
	}
	blocks := []layout.Block{layout.Heading{Text: "User Details"}}
	for _, ln := range lines {
		blocks = append(blocks, layout.Paragraph{Text: ln, Color: theme.Palette.White})
	}
	return blocks
}

func metricSection(p Plan, theme Theme) []layout.Block {
	blocks := []layout.Block{
		layout.Heading{Text: "BMI Analysis"},
		layout.BoldParagraph{
			Text:  fmt.Sprintf("BMI: %s Category: %s", oneDecimal(p.BMI), p.Category),
			Size:  metricSize,
			Color: theme.CategoryColor(p.Category),
		},
	}
	if p.BodyFatPercent != nil {
		blocks = append(blocks,
			layout.Spacer{Height: metricGap},
			layout.BoldParagraph{
				Text:  fmt.Sprintf("Body Fat %%: %s%% Category: %s", oneDecimal(*p.BodyFatPercent), orText(p.BodyFatCategory, "N/A")),
				Size:  metricSize,
				Color: theme.Palette.Accent,
			},
			layout.Spacer{Height: noteGap},
			layout.Paragraph{Text: theme.Texts.BodyFatNote, Size: noteSize, Color: theme.Palette.Muted},
		)
	}
	return append(blocks,
		layout.Spacer{Height: metricGap},
		layout.Paragraph{Text: p.Summary, Color: theme.Palette.Muted},
	)
}

func targetSection(t CalorieTarget, theme Theme) []layout.Block {
	return []layout.Block{
		layout.Heading{Text: "Daily Calorie & Macro Targets"},
		layout.BoldParagraph{Text: fmt.Sprintf("Calories: %s kcal", plain(t.DailyCalories)), Size: caloriesSize, Color: theme.Palette.White},
		layout.Paragraph{
			Text:  fmt.Sprintf("Protein: %sg Carbs: %sg Fat: %sg", plain(t.ProteinG), plain(t.CarbsG), plain(t.FatG)),
			Color: theme.Palette.White,
		},
	}
}

func mealSection(chart DietChart) []layout.Block {
	blocks := []layout.Block{layout.Heading{Text: "Personalized Diet Chart"}}
	for _, m := range chart.Meals() {
		blocks = append(blocks, layout.MealEntry{Label: m.Label, Description: m.Description})
	}
	return blocks
}

func tipSection(tips []string, theme Theme) []layout.Block {
	blocks := []layout.Block{layout.Heading{Text: "Weekly Tips & Suggestions"}}
	for _, tip := range tips {
		blocks = append(blocks, layout.Paragraph{Text: "- " + tip, Color: theme.Palette.White})
	}
	return blocks
}

func disclaimerSection(items []string, theme Theme) []layout.Block {
	blocks := []layout.Block{layout.Heading{Text: "Disclaimers", Size: disclaimerHead}}
	for _, d := range items {
		blocks = append(blocks, layout.Paragraph{Text: "[!] " + d, Size: disclaimerSize, Color: theme.Palette.Muted})
	}
	return blocks
}

func orText(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// oneDecimal formats scores and percentages: 22.345 -> "22.3".
func oneDecimal(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }

// plain prints a number the shortest way that round-trips: 2000 -> "2000",
// 62.5 -> "62.5".
func plain(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func number(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return plain(*v)
}
