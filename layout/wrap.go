package layout

import (
	"fmt"
	"strings"
)

// Wrap breaks text into lines no wider than maxWidth using greedy word
// wrapping. Breaks only happen at whitespace; a single token wider than
// maxWidth is kept whole on its own line. Blank input yields no lines.
func Wrap(text string, font FontFace, size, maxWidth float64, ts Typesetter) ([]string, error) {
	if ts == nil {
		return nil, ErrNoTypesetter
	}
	if maxWidth <= 0 {
		return nil, fmt.Errorf("layout: wrap width must be positive, got %g", maxWidth)
	}

	var lines []string
	current := ""
	for _, token := range strings.Fields(text) {
		candidate := token
		if current != "" {
			candidate = current + " " + token
		}
		w, err := ts.TextWidth(candidate, font, size)
		if err != nil {
			return nil, fmt.Errorf("layout: measure %q: %w", candidate, err)
		}
		if exceeds(w, maxWidth) && current != "" {
			lines = append(lines, current)
			current = token
			continue
		}
		current = candidate
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines, nil
}
