package report

import (
	"encoding/json"
	"io"

	"seo_auditor/internal/domain/models"
)

// JSONWriter writes the full audit, findings included, as one JSON document.
type JSONWriter struct {
	// Indent enables pretty printing when non-empty.
	Indent string
}

func (j JSONWriter) Write(w io.Writer, audit *models.Audit) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if j.Indent != "" {
		enc.SetIndent("", j.Indent)
	}
	return enc.Encode(audit)
}
