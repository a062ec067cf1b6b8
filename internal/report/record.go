package report

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"seo_auditor/internal/domain/models"
)

const (
	issueSummarySeparator = "; "
	altURLSeparator       = "; "
	noIssuesSummary       = "OK"
	unknownPlugin         = "Unknown"
)

// Columns is the header of the flat, one-row-per-page export.
var Columns = []string{
	"Type",
	"Title",
	"URL",
	"Page Title",
	"H1 Count",
	"H1 Text",
	"Meta Description",
	"NoIndex",
	"OG Tags",
	"Twitter Card",
	"Missing Alt Count",
	"Missing Alt Image URLs",
	"Breadcrumb Schema",
	"Breadcrumb HTML",
	"SEO Plugin",
	"Issues Summary",
	"Issues Detail",
}

// Record is one page of a report flattened to display strings.
type Record struct {
	Type                string          `json:"type"`
	Title               string          `json:"title"`
	URL                 string          `json:"url"`
	PageTitle           string          `json:"page_title"`
	H1Count             int             `json:"h1_count"`
	H1Text              string          `json:"h1_text"`
	MetaDescription     string          `json:"meta_description"`
	NoIndex             string          `json:"noindex"`
	OGTags              string          `json:"og_tags"`
	TwitterCard         string          `json:"twitter_card"`
	MissingAltCount     int             `json:"missing_alt_count"`
	MissingAltImageURLs string          `json:"missing_alt_image_urls"`
	BreadcrumbSchema    string          `json:"breadcrumb_schema"`
	BreadcrumbHTML      string          `json:"breadcrumb_html"`
	SEOPlugin           string          `json:"seo_plugin"`
	IssuesSummary       string          `json:"issues_summary"`
	IssuesDetail        string          `json:"issues_detail"`
	Severity            models.Severity `json:"severity"`
}

func NewRecord(p models.RankedPage) Record {
	f := p.Finding

	summary := noIssuesSummary
	if len(f.Issues) > 0 {
		summary = strings.Join(f.IssueCodes(), issueSummarySeparator)
	}
	plugin := f.DetectedSEOPlugin
	if plugin == "" {
		plugin = unknownPlugin
	}

	return Record{
		Type:                string(p.Ref.ContentType),
		Title:               p.Ref.Title,
		URL:                 p.Ref.URL,
		PageTitle:           f.TitleTag,
		H1Count:             f.H1Count,
		H1Text:              f.H1Text,
		MetaDescription:     f.MetaDescription,
		NoIndex:             yesNo(f.IsNoIndex),
		OGTags:              yesNo(f.HasOpenGraph),
		TwitterCard:         yesNo(f.HasTwitterCard),
		MissingAltCount:     f.MissingAltCount(),
		MissingAltImageURLs: strings.Join(f.MissingAltImages, altURLSeparator),
		BreadcrumbSchema:    yesNo(f.HasBreadcrumbSchema),
		BreadcrumbHTML:      yesNo(f.HasBreadcrumbHTML),
		SEOPlugin:           plugin,
		IssuesSummary:       summary,
		IssuesDetail:        strings.Join(f.IssuesDetail(), models.DetailSeparator),
		Severity:            p.Severity,
	}
}

// NewRecords flattens pages, keeping their order.
func NewRecords(pages []models.RankedPage) []Record {
	records := make([]Record, len(pages))
	for i, p := range pages {
		records[i] = NewRecord(p)
	}
	return records
}

// CrawlOrder returns the report's pages in discovery order instead of
// severity order.
func CrawlOrder(r *models.Report) []models.RankedPage {
	pages := slices.Clone(r.Pages)
	slices.SortStableFunc(pages, func(a, b models.RankedPage) int {
		return cmp.Compare(a.Index, b.Index)
	})
	return pages
}

// Values returns the record's cells in Columns order.
func (r Record) Values() []string {
	return []string{
		r.Type,
		r.Title,
		r.URL,
		r.PageTitle,
		strconv.Itoa(r.H1Count),
		r.H1Text,
		r.MetaDescription,
		r.NoIndex,
		r.OGTags,
		r.TwitterCard,
		strconv.Itoa(r.MissingAltCount),
		r.MissingAltImageURLs,
		r.BreadcrumbSchema,
		r.BreadcrumbHTML,
		r.SEOPlugin,
		r.IssuesSummary,
		r.IssuesDetail,
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
