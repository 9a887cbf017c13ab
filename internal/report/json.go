package report

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/ubersicht-tools/widgetset/internal/util"
)

// WriteJSON writes v as indented JSON to path, creating parent directories.
// Markup characters and non-ASCII text are written as is.
func WriteJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	if err := util.EnsureParentDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
