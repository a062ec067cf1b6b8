package report

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"seo_auditor/internal/domain/models"
	"seo_auditor/internal/pkg/errors"
)

const fileNamePrefix = "seo_report_"

type Format string

const (
	FormatCSV      Format = "csv"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats lists every supported export format.
var Formats = []Format{FormatCSV, FormatHTML, FormatMarkdown, FormatJSON, FormatYAML}

// DefaultFormats are always written after a site audit.
var DefaultFormats = []Format{FormatCSV, FormatHTML}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "html":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown report format %q: must be one of csv, html, markdown, json, yaml", s)
}

func (f Format) Extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	}
	return "application/octet-stream"
}

// Writer renders a finished audit.
type Writer interface {
	Write(w io.Writer, audit *models.Audit) error
}

func NewWriter(f Format) (Writer, error) {
	switch f {
	case FormatCSV:
		return CSVWriter{}, nil
	case FormatHTML:
		return NewHTMLWriter(), nil
	case FormatMarkdown:
		return MarkdownWriter{}, nil
	case FormatJSON:
		return JSONWriter{Indent: "  "}, nil
	case FormatYAML:
		return YAMLWriter{}, nil
	}
	return nil, fmt.Errorf("unknown report format %q", f)
}

// FileName is the report file name for site, e.g. seo_report_example.com.csv.
func FileName(site string, f Format) string {
	return fileNamePrefix + siteHost(site) + "." + f.Extension()
}

func siteHost(site string) string {
	u, err := url.Parse(site)
	if err == nil && u.Host != "" {
		return u.Host
	}
	host := strings.TrimPrefix(strings.TrimPrefix(site, "https://"), "http://")
	host, _, _ = strings.Cut(host, "/")
	if host == "" {
		return "site"
	}
	return host
}

// WriteFile renders audit in format f into dir and returns the file path.
func WriteFile(dir string, audit *models.Audit, f Format) (string, error) {
	w, err := NewWriter(f)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, `failed to create output directory`)
	}

	path := filepath.Join(dir, FileName(audit.Site, f))
	file, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, `failed to create report file`)
	}

	if err := w.Write(file, audit); err != nil {
		_ = file.Close()
		return "", errors.Wrap(err, fmt.Sprintf(`failed to write %s report`, f))
	}
	if err := file.Close(); err != nil {
		return "", errors.Wrap(err, `failed to close report file`)
	}
	return path, nil
}
