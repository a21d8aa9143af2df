package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// Content is the input of one report: who it is for and the plan computed
// for them. It is decoded from the JSON request body or a YAML/JSON file.
type Content struct {
	User UserDetails `json:"userInput" yaml:"userInput"`
	Plan Plan        `json:"plan" yaml:"plan"`
}

// UserDetails are shown verbatim in the report. Empty strings and nil numbers
// are printed as placeholders.
type UserDetails struct {
	Name           string   `json:"name,omitempty" yaml:"name"`
	Phone          string   `json:"phone,omitempty" yaml:"phone"`
	Age            *float64 `json:"age,omitempty" yaml:"age"`
	Gender         string   `json:"gender,omitempty" yaml:"gender"`
	HeightCm       *float64 `json:"heightCm,omitempty" yaml:"heightCm"`
	WeightKg       *float64 `json:"weightKg,omitempty" yaml:"weightKg"`
	ActivityLevel  string   `json:"activityLevel,omitempty" yaml:"activityLevel"`
	Goal           string   `json:"goal,omitempty" yaml:"goal"`
	DietPreference string   `json:"dietPreference,omitempty" yaml:"dietPreference"`
	Allergies      string   `json:"allergies,omitempty" yaml:"allergies"`
	MedicalNotes   string   `json:"medicalNotes,omitempty" yaml:"medicalNotes"`
}

// Plan is the already computed analysis. Nothing here is recalculated.
type Plan struct {
	BMI             float64       `json:"bmi" yaml:"bmi"`
	Category        string        `json:"category" yaml:"category"`
	BodyFatPercent  *float64      `json:"bodyFatPercent,omitempty" yaml:"bodyFatPercent"`
	BodyFatCategory string        `json:"bodyFatCategory,omitempty" yaml:"bodyFatCategory"`
	Summary         string        `json:"summary" yaml:"summary"`
	CalorieTarget   CalorieTarget `json:"calorieTarget" yaml:"calorieTarget"`
	DietChart       DietChart     `json:"dietChart" yaml:"dietChart"`
	WeeklyTips      []string      `json:"weeklyTips" yaml:"weeklyTips"`
	Disclaimers     []string      `json:"disclaimers" yaml:"disclaimers"`
}

// CalorieTarget holds the daily energy and macro goals.
type CalorieTarget struct {
	DailyCalories float64 `json:"dailyCalories" yaml:"dailyCalories"`
	ProteinG      float64 `json:"proteinG" yaml:"proteinG"`
	CarbsG        float64 `json:"carbsG" yaml:"carbsG"`
	FatG          float64 `json:"fatG" yaml:"fatG"`
}

// DietChart has one free-text description per meal slot.
type DietChart struct {
	Breakfast    string `json:"breakfast" yaml:"breakfast"`
	MidMorning   string `json:"midMorning" yaml:"midMorning"`
	Lunch        string `json:"lunch" yaml:"lunch"`
	EveningSnack string `json:"eveningSnack" yaml:"eveningSnack"`
	Dinner       string `json:"dinner" yaml:"dinner"`
}

// Meal is one labelled slot of the diet chart.
type Meal struct {
	Label       string
	Description string
}

// Meals returns the chart in the order it is printed.
func (d DietChart) Meals() []Meal {
	return []Meal{
		{"Breakfast", d.Breakfast},
		{"Mid-Morning", d.MidMorning},
		{"Lunch", d.Lunch},
		{"Evening Snack", d.EveningSnack},
		{"Dinner", d.Dinner},
	}
}

// ValidationError lists every way a Content breaks the input contract.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "report: invalid content: " + strings.Join(e.Problems, "; ")
}

// DecodeContent reads a Content from YAML or JSON and validates it.
func DecodeContent(r io.Reader) (*Content, error) {
	var c Content
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		if err == io.EOF {
			return nil, &ValidationError{Problems: []string{"body is empty"}}
		}
		return nil, &ValidationError{Problems: []string{fmt.Sprintf("decode: %v", err)}}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the fields the report cannot be drawn without. It returns
// a *ValidationError or nil.
func (c *Content) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

	u := c.User
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"age", u.Age},
		{"heightCm", u.HeightCm},
		{"weightKg", u.WeightKg},
	} {
		if f.v != nil && (!finite(*f.v) || *f.v <= 0) {
			add("userInput.%s must be a positive number", f.name)
		}
	}

	p := c.Plan
	if !finite(p.BMI) || p.BMI <= 0 {
		add("plan.bmi must be a positive number")
	}
	if strings.TrimSpace(p.Category) == "" {
		add("plan.category is required")
	}
	if p.BodyFatPercent != nil && (!finite(*p.BodyFatPercent) || *p.BodyFatPercent < 0) {
		add("plan.bodyFatPercent must not be negative")
	}
	if strings.TrimSpace(p.Summary) == "" {
		add("plan.summary is required")
	}
	t := p.CalorieTarget
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"dailyCalories", t.DailyCalories},
		{"proteinG", t.ProteinG},
		{"carbsG", t.CarbsG},
		{"fatG", t.FatG},
	} {
		if !finite(f.v) || f.v < 0 {
			add("plan.calorieTarget.%s must not be negative", f.name)
		}
	}
	for _, m := range p.DietChart.Meals() {
		if strings.TrimSpace(m.Description) == "" {
			add("plan.dietChart: %s is required", m.Label)
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}
