package report

import (
	"fmt"
	"io"
	"strconv"

	"seo_auditor/internal/domain/models"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Console prints audit results for a terminal.
type Console struct {
	out       io.Writer
	useColors bool
}

func NewConsole(out io.Writer, useColors bool) *Console {
	return &Console{out: out, useColors: useColors}
}

func (c *Console) colored(attr color.Attribute, format string, args ...any) {
	if c.useColors {
		color.New(attr).Fprintf(c.out, format, args...)
		return
	}
	fmt.Fprintf(c.out, format, args...)
}

// Summary prints the closing counts of an audit.
func (c *Console) Summary(s Summary) {
	fmt.Fprintln(c.out)
	c.colored(color.Bold, "Audit complete!\n")
	fmt.Fprintf(c.out, "Total pages: %d\n", s.Total)
	c.colored(color.FgRed, "Critical: %d\n", s.Critical)
	c.colored(color.FgYellow, "Warnings: %d\n", s.Warning)
	c.colored(color.FgGreen, "Clean: %d\n", s.OK)
	if s.PrimarySEOPlugin != "" {
		fmt.Fprintf(c.out, "SEO plugin: %s\n", s.PrimarySEOPlugin)
	}
}

// Pages prints one table row per page in report order.
func (c *Console) Pages(pages []models.RankedPage) {
	rows := make([][]string, len(pages))
	for i, p := range pages {
		rec := NewRecord(p)
		rows[i] = []string{
			c.severity(p.Severity),
			rec.URL,
			strconv.Itoa(len(p.Finding.Issues)),
			shorten(rec.IssuesSummary, 80),
		}
	}
	c.table([]string{"Status", "URL", "Issues", "Summary"}, rows)
}

// Finding prints every field of a single page analysis.
func (c *Console) Finding(pageURL string, f models.PageFinding, severity models.Severity) {
	rec := NewRecord(models.RankedPage{
		AuditedPage: models.AuditedPage{Ref: models.PageRef{URL: pageURL}, Finding: f},
		Severity:    severity,
	})

	rows := make([][]string, 0, len(Columns))
	for i, v := range rec.Values() {
		if i < 2 {
			// type and crawl title are unknown for a single page
			continue
		}
		rows = append(rows, []string{Columns[i], v})
	}
	rows = append(rows, []string{"Severity", c.severity(rec.Severity)})
	c.table([]string{"Field", "Value"}, rows)
}

// Audits prints stored audit summaries.
func (c *Console) Audits(audits []models.AuditSummary) {
	rows := make([][]string, len(audits))
	for i, a := range audits {
		rows[i] = []string{
			a.ID,
			a.Site,
			a.CreatedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(a.Pages),
			strconv.Itoa(a.Critical),
			strconv.Itoa(a.Warning),
			strconv.Itoa(a.OK),
		}
	}
	c.table([]string{"ID", "Site", "Date", "Pages", "Critical", "Warning", "OK"}, rows)
}

func (c *Console) severity(s models.Severity) string {
	if !c.useColors {
		return s.String()
	}
	switch s {
	case models.SeverityCritical:
		return color.RedString(s.String())
	case models.SeverityWarning:
		return color.YellowString(s.String())
	default:
		return color.GreenString(s.String())
	}
}

func (c *Console) table(header []string, rows [][]string) {
	table := tablewriter.NewTable(c.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	table.Header(header)
	_ = table.Bulk(rows)
	_ = table.Render()
}
