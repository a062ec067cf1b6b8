package report

import (
	"io"
	"strconv"
	"strings"

	"seo_auditor/internal/domain/models"

	"github.com/nao1215/markdown"
)

const markdownCellMax = 60

// MarkdownWriter writes a report suited to pull requests and wikis: summary,
// passes, one table per severity and the full issue list per page.
type MarkdownWriter struct{}

func (MarkdownWriter) Write(w io.Writer, audit *models.Audit) error {
	md := markdown.NewMarkdown(w)

	md.H1("SEO Audit Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Site", audit.Site},
			{"Generated", audit.FinishedAt.Format("2006-01-02 15:04 MST")},
			{"Audit ID", "`" + audit.ID + "`"},
		},
	})
	md.PlainText("")

	if audit.Report == nil {
		md.Note("This audit has no report.")
		return md.Build()
	}

	summary := NewSummary(audit.Site, audit.Report)
	writeMarkdownSummary(md, summary)
	writeMarkdownPasses(md, summary)
	writeMarkdownPages(md, audit.Report)

	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Generated by seo-auditor*")
	return md.Build()
}

func writeMarkdownSummary(md *markdown.Markdown, s Summary) {
	md.H2("Summary")
	md.PlainText("")

	plugin := s.PrimarySEOPlugin
	if plugin == "" {
		plugin = unknownPlugin
	}
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Pages Scanned", strconv.Itoa(s.Total)},
			{"Fully OK", strconv.Itoa(s.OK)},
			{"With Issues", strconv.Itoa(s.WithIssues)},
			{"Critical Issues", strconv.Itoa(s.Critical)},
			{"Primary SEO Plugin", plugin},
		},
	})
	md.PlainText("")

	switch {
	case s.Critical > 0:
		md.Cautionf("%d page(s) are not indexable or have no H1 and need attention first.", s.Critical)
	case s.WithIssues > 0:
		md.Warningf("%d page(s) have SEO warnings.", s.WithIssues)
	default:
		md.Tip("Every page passed all checks.")
	}
	md.PlainText("")
}

func writeMarkdownPasses(md *markdown.Markdown, s Summary) {
	md.H2("What's Working Well")
	md.PlainText("")

	lines := make([]string, 0, len(s.Passes))
	for _, p := range s.Passes {
		if p.Good() {
			lines = append(lines, strconv.Itoa(p.Passed)+"/"+strconv.Itoa(p.Total)+" "+p.Message)
			continue
		}
		lines = append(lines, p.Message)
	}
	md.BulletList(lines...)
	md.PlainText("")
}

func writeMarkdownPages(md *markdown.Markdown, r *models.Report) {
	md.H2("Pages")
	md.PlainText("")

	sections := []struct {
		severity models.Severity
		header   string
	}{
		{models.SeverityCritical, "### 🔴 Critical"},
		{models.SeverityWarning, "### 🟡 Warning"},
		{models.SeverityOK, "### 🟢 OK"},
	}

	for _, section := range sections {
		var records []Record
		for _, p := range r.Pages {
			if p.Severity == section.severity {
				records = append(records, NewRecord(p))
			}
		}
		if len(records) == 0 {
			continue
		}

		md.PlainText(section.header)
		md.PlainText("")

		rows := make([][]string, len(records))
		for i, rec := range records {
			rows[i] = []string{
				markdownCell(rec.Title),
				strings.ToUpper(rec.Type),
				rec.URL,
				markdownCell(rec.IssuesSummary),
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Title", "Type", "URL", "Issues"},
			Rows:   rows,
		})
		md.PlainText("")

		for _, rec := range records {
			if rec.IssuesSummary == noIssuesSummary {
				continue
			}
			md.Details(rec.URL, "- "+strings.ReplaceAll(rec.IssuesDetail, models.DetailSeparator, "\n- "))
		}
		md.PlainText("")
	}
}

// markdownCell keeps table cells on one line and within a readable width.
func markdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\n", " ")
	if r := []rune(s); len(r) > markdownCellMax {
		return string(r[:markdownCellMax-3]) + "..."
	}
	return s
}
