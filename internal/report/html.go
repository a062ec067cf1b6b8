package report

import (
	"embed"
	"html/template"
	"io"
	"strings"

	"seo_auditor/internal/domain/models"
)

const (
	htmlTitlePreview = 30
	htmlImagePreview = 10
)

//go:embed templates/report.html.tmpl
var templatesFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templatesFS, "templates/report.html.tmpl"))

// HTMLWriter writes a self-contained, filterable HTML report with pages in
// severity order.
type HTMLWriter struct {
	tmpl *template.Template
}

func NewHTMLWriter() HTMLWriter {
	return HTMLWriter{tmpl: reportTemplate}
}

type htmlPage struct {
	Record
	Row        int
	Label      string
	ShortTitle string
	TypeLabel  string
	Details    []string
	Images     []string
	MoreImages int
}

type htmlView struct {
	Generated string
	Summary   Summary
	Pages     []htmlPage
}

func (h HTMLWriter) Write(w io.Writer, audit *models.Audit) error {
	report := audit.Report
	if report == nil {
		report = &models.Report{AggregateCounts: map[models.Rule]int{}}
	}

	view := htmlView{
		Generated: audit.FinishedAt.Format("2006-01-02 15:04"),
		Summary:   NewSummary(audit.Site, report),
		Pages:     make([]htmlPage, 0, len(report.Pages)),
	}
	for i, p := range report.Pages {
		view.Pages = append(view.Pages, newHTMLPage(i, p))
	}
	return h.tmpl.Execute(w, view)
}

func newHTMLPage(row int, p models.RankedPage) htmlPage {
	rec := NewRecord(p)
	page := htmlPage{
		Record:     rec,
		Row:        row,
		Label:      severityLabel(p.Severity),
		ShortTitle: shorten(rec.Title, htmlTitlePreview),
		TypeLabel:  strings.ToUpper(rec.Type),
	}
	for _, issue := range p.Finding.Issues {
		page.Details = append(page.Details, issue.Details...)
	}

	images := p.Finding.MissingAltImages
	page.Images = images[:min(len(images), htmlImagePreview)]
	page.MoreImages = len(images) - len(page.Images)
	return page
}

func severityLabel(s models.Severity) string {
	switch s {
	case models.SeverityCritical:
		return "🔴 Critical"
	case models.SeverityWarning:
		return "🟡 Warning"
	default:
		return "🟢 OK"
	}
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
