package report

import (
	"io"

	"seo_auditor/internal/domain/models"

	"gopkg.in/yaml.v3"
)

// YAMLWriter writes the full audit as a YAML document.
type YAMLWriter struct{}

func (YAMLWriter) Write(w io.Writer, audit *models.Audit) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(audit); err != nil {
		return err
	}
	return enc.Close()
}
