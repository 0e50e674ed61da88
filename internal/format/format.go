package format

import (
	"encoding/json"
	"io"
)

// Formatter abstracts CLI output formatting.
type Formatter interface {
	Write(w io.Writer, payload any) error
}

// JSONFormatter writes JSON output. Indent is applied when non-empty;
// certificates are written indented so they read well as saved files.
type JSONFormatter struct {
	Indent string
}

// Write writes the JSON payload to a writer.
func (f JSONFormatter) Write(w io.Writer, payload any) error {
	enc := json.NewEncoder(w)
	if f.Indent != "" {
		enc.SetIndent("", f.Indent)
	}
	return enc.Encode(payload)
}
