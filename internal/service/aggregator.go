package service

import (
	"cmp"
	"slices"

	"seo_auditor/internal/domain/models"
)

// SeverityOf classifies a finding. NoIndex and a missing H1 are critical; any
// other issue is a warning.
func SeverityOf(f models.PageFinding) models.Severity {
	switch {
	case f.IsNoIndex || f.H1Count == 0:
		return models.SeverityCritical
	case len(f.Issues) > 0:
		return models.SeverityWarning
	default:
		return models.SeverityOK
	}
}

// passChecks decides, per summarised rule, whether a finding follows it.
var passChecks = map[models.Rule]func(f models.PageFinding) bool{
	models.RuleH1: func(f models.PageFinding) bool {
		return !f.HasIssue(models.IssueMissingH1)
	},
	models.RuleTitle: func(f models.PageFinding) bool {
		return !f.HasIssue(models.IssueTitleTooShort) && !f.HasIssue(models.IssueTitleTooLong)
	},
	// The sentinel check repeats what the issue codes already say; both must hold.
	models.RuleMetaDescription: func(f models.PageFinding) bool {
		return !f.HasIssue(models.IssueMissingMetaDescription) &&
			!f.HasIssue(models.IssueMetaTooShort) &&
			!f.HasIssue(models.IssueMetaTooLong) &&
			f.MetaDescription != models.MetaDescriptionMissing
	},
	models.RuleOpenGraph: func(f models.PageFinding) bool {
		return !f.HasIssue(models.IssueMissingOpenGraph)
	},
	models.RuleTwitterCard: func(f models.PageFinding) bool {
		return !f.HasIssue(models.IssueMissingTwitterCard)
	},
	models.RuleBreadcrumbSchema: func(f models.PageFinding) bool {
		return !f.HasIssue(models.IssueMissingBreadcrumb)
	},
}

// Aggregate builds the site report. Pages are ranked CRITICAL, WARNING, OK;
// pages of equal severity keep their crawl order (Index), whatever order they
// arrive in. The input is not modified.
func Aggregate(pages []models.AuditedPage) *models.Report {
	ordered := slices.Clone(pages)
	slices.SortStableFunc(ordered, func(a, b models.AuditedPage) int {
		return cmp.Compare(a.Index, b.Index)
	})

	report := &models.Report{
		Pages:           make([]models.RankedPage, 0, len(ordered)),
		AggregateCounts: make(map[models.Rule]int, len(models.Rules)),
	}
	for _, rule := range models.Rules {
		report.AggregateCounts[rule] = 0
	}

	for _, p := range ordered {
		report.Pages = append(report.Pages, models.RankedPage{
			AuditedPage: p,
			Severity:    SeverityOf(p.Finding),
		})
		for _, rule := range models.Rules {
			if passChecks[rule](p.Finding) {
				report.AggregateCounts[rule]++
			}
		}
	}

	slices.SortStableFunc(report.Pages, func(a, b models.RankedPage) int {
		return cmp.Compare(b.Severity, a.Severity)
	})

	report.PrimarySEOPlugin = primaryPlugin(ordered)
	return report
}

// primaryPlugin returns the most frequently detected plugin. Among equally
// frequent plugins the one seen first in crawl order wins.
func primaryPlugin(pages []models.AuditedPage) string {
	counts := make(map[string]int)
	var seen []string
	for _, p := range pages {
		name := p.Finding.DetectedSEOPlugin
		if name == "" {
			continue
		}
		if counts[name] == 0 {
			seen = append(seen, name)
		}
		counts[name]++
	}

	primary := ""
	for _, name := range seen {
		if counts[name] > counts[primary] {
			primary = name
		}
	}
	return primary
}
