package binding

import "testing"

func TestInterpolate(t *testing.T) {
	data := map[string]any{
		"date": "19 October 2026",
		"user": map[string]any{"name": "Asha"},
		"tips": []any{"drink water", "walk daily"},
	}
	cases := []struct {
		in, want string
	}{
		{"Generated on: ${date}", "Generated on: 19 October 2026"},
		{"Hi ${ user.name }", "Hi Asha"},
		{"First tip: ${tips[0]}", "First tip: drink water"},
		{"${tips[5]}", "${tips[5]}"},
		{"${missing}", "${missing}"},
		{"${}", "${}"},
		{"no placeholders", "no placeholders"},
	}
	for _, tc := range cases {
		if got := Interpolate(tc.in, data); got != tc.want {
			t.Fatalf("Interpolate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInterpolateStringMaps(t *testing.T) {
	got := Interpolate("BMI-Diet-Report-${name}.pdf", map[string]string{"name": "Asha_Rao"})
	if got != "BMI-Diet-Report-Asha_Rao.pdf" {
		t.Fatalf("unexpected result %q", got)
	}
	if got := Interpolate("${x}", nil); got != "${x}" {
		t.Fatalf("nil data should keep placeholders, got %q", got)
	}
}

func TestInterpolateTypedContainers(t *testing.T) {
	data := map[string]any{
		"user":  map[string]string{"name": "Asha", "goal": "maintain"},
		"tips":  []string{"drink water", "walk daily"},
		"meals": map[string]any{"lunch": []string{"dal", "rice"}},
	}
	cases := []struct {
		in, want string
	}{
		{"${user.name} wants to ${user.goal}", "Asha wants to maintain"},
		{"${tips[1]}", "walk daily"},
		{"${meals.lunch[0]} and ${meals.lunch[1]}", "dal and rice"},
		{"${user.phone}", "${user.phone}"},
		{"${user.name.first}", "${user.name.first}"},
		{"${user[0]}", "${user[0]}"},
		{"${tips[2]}", "${tips[2]}"},
		{"${tips[-1]}", "${tips[-1]}"},
		{"${tips[x]}", "${tips[x]}"},
		{"${tips.name}", "${tips.name}"},
	}
	for _, tc := range cases {
		if got := Interpolate(tc.in, data); got != tc.want {
			t.Fatalf("Interpolate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
