package models

import "time"

// Rule names the per-rule pass counts of a report summary.
type Rule string

const (
	RuleH1               Rule = "h1"
	RuleTitle            Rule = "title"
	RuleMetaDescription  Rule = "meta_description"
	RuleOpenGraph        Rule = "open_graph"
	RuleTwitterCard      Rule = "twitter_card"
	RuleBreadcrumbSchema Rule = "breadcrumb_schema"
)

// Rules lists every summarised rule in display order.
var Rules = []Rule{
	RuleH1,
	RuleTitle,
	RuleMetaDescription,
	RuleOpenGraph,
	RuleTwitterCard,
	RuleBreadcrumbSchema,
}

// AuditedPage pairs a page reference with its finding. Index is the page's
// position in crawl order.
type AuditedPage struct {
	Index   int         `json:"index" yaml:"index"`
	Ref     PageRef     `json:"ref" yaml:"ref"`
	Finding PageFinding `json:"finding" yaml:"finding"`
}

// RankedPage is an audited page together with the severity derived from its finding.
type RankedPage struct {
	AuditedPage `yaml:",inline"`
	Severity    Severity `json:"severity" yaml:"severity"`
}

type Report struct {
	Pages            []RankedPage `json:"pages" yaml:"pages"`
	AggregateCounts  map[Rule]int `json:"aggregate_counts" yaml:"aggregate_counts"`
	PrimarySEOPlugin string       `json:"primary_seo_plugin,omitempty" yaml:"primary_seo_plugin,omitempty"`
}

func (r *Report) Total() int {
	return len(r.Pages)
}

func (r *Report) CountSeverity(s Severity) int {
	n := 0
	for _, p := range r.Pages {
		if p.Severity == s {
			n++
		}
	}
	return n
}

// WithIssues counts pages that raised at least one issue.
func (r *Report) WithIssues() int {
	n := 0
	for _, p := range r.Pages {
		if len(p.Finding.Issues) > 0 {
			n++
		}
	}
	return n
}

// Audit is one complete run over a site.
type Audit struct {
	ID         string    `json:"id" yaml:"id"`
	Site       string    `json:"site" yaml:"site"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
	Report     *Report   `json:"report" yaml:"report"`
}

// AuditSummary is the listing view of a stored audit.
type AuditSummary struct {
	ID               string    `json:"id"`
	Site             string    `json:"site"`
	CreatedAt        time.Time `json:"created_at"`
	Pages            int       `json:"pages"`
	Critical         int       `json:"critical"`
	Warning          int       `json:"warning"`
	OK               int       `json:"ok"`
	PrimarySEOPlugin string    `json:"primary_seo_plugin,omitempty"`
}

func NewAuditSummary(a *Audit) AuditSummary {
	s := AuditSummary{
		ID:        a.ID,
		Site:      a.Site,
		CreatedAt: a.FinishedAt,
	}
	if a.Report != nil {
		s.Pages = a.Report.Total()
		s.Critical = a.Report.CountSeverity(SeverityCritical)
		s.Warning = a.Report.CountSeverity(SeverityWarning)
		s.OK = a.Report.CountSeverity(SeverityOK)
		s.PrimarySEOPlugin = a.Report.PrimarySEOPlugin
	}
	return s
}
