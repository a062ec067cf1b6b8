package report

import (
	"seo_auditor/internal/domain/models"
)

// RulePass is one line of the "what's working well" section.
type RulePass struct {
	Rule    models.Rule
	Passed  int
	Total   int
	Message string
}

// Summary is the headline view of a report shared by every renderer.
type Summary struct {
	Site             string
	Total            int
	OK               int
	WithIssues       int
	Critical         int
	Warning          int
	PrimarySEOPlugin string
	Passes           []RulePass
}

var passMessages = map[models.Rule]struct{ good, none string }{
	models.RuleH1: {
		good: "pages include an H1 tag",
		none: "All pages should have one H1. It helps search engines understand your content",
	},
	models.RuleTitle: {
		good: "pages have title tags within optimal length (30-60 characters)",
		none: "Consider optimizing titles. Google typically displays ~60 characters",
	},
	models.RuleMetaDescription: {
		good: "pages have complete and well-sized meta descriptions (50-160 chars)",
		none: "No pages have proper meta descriptions. They're missing or incorrectly sized",
	},
	models.RuleOpenGraph: {
		good: "pages include Open Graph tags for social sharing",
		none: "Add OG tags so links look great when shared on Facebook, LinkedIn, etc.",
	},
	models.RuleTwitterCard: {
		good: "pages support Twitter Cards",
		none: "None of your pages support Twitter Cards",
	},
	models.RuleBreadcrumbSchema: {
		good: "pages include breadcrumb schema (JSON-LD)",
		none: "Breadcrumb schema missing site-wide. It hurts rich snippets and navigation clarity",
	},
}

func NewSummary(site string, r *models.Report) Summary {
	s := Summary{
		Site:             site,
		Total:            r.Total(),
		OK:               r.Total() - r.WithIssues(),
		WithIssues:       r.WithIssues(),
		Critical:         r.CountSeverity(models.SeverityCritical),
		Warning:          r.CountSeverity(models.SeverityWarning),
		PrimarySEOPlugin: r.PrimarySEOPlugin,
	}

	for _, rule := range models.Rules {
		passed := r.AggregateCounts[rule]
		msg := passMessages[rule].none
		if passed > 0 {
			msg = passMessages[rule].good
		}
		s.Passes = append(s.Passes, RulePass{Rule: rule, Passed: passed, Total: s.Total, Message: msg})
	}
	return s
}

// Good reports whether at least one page passed the rule.
func (p RulePass) Good() bool {
	return p.Passed > 0
}
