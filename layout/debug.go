package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON dumps a laid-out document as JSON for inspection.
func WriteDebugJSON(doc *Document, path string) error {
	if doc == nil {
		return nil
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
