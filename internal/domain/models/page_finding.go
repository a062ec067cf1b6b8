package models

// MetaDescriptionMissing is stored in PageFinding.MetaDescription when the page
// has no usable meta description.
const MetaDescriptionMissing = "Missing"

// PageFinding is the result of running every SEO rule over one page.
type PageFinding struct {
	TitleTag            string   `json:"title_tag" yaml:"title_tag"`
	H1Count             int      `json:"h1_count" yaml:"h1_count"`
	H1Text              string   `json:"h1_text" yaml:"h1_text"`
	MetaDescription     string   `json:"meta_description" yaml:"meta_description"`
	IsNoIndex           bool     `json:"noindex" yaml:"noindex"`
	HasOpenGraph        bool     `json:"has_open_graph" yaml:"has_open_graph"`
	HasTwitterCard      bool     `json:"has_twitter_card" yaml:"has_twitter_card"`
	MissingAltImages    []string `json:"missing_alt_images" yaml:"missing_alt_images"`
	HasBreadcrumbSchema bool     `json:"has_breadcrumb_schema" yaml:"has_breadcrumb_schema"`
	HasBreadcrumbHTML   bool     `json:"has_breadcrumb_html" yaml:"has_breadcrumb_html"`
	DetectedSEOPlugin   string   `json:"detected_seo_plugin,omitempty" yaml:"detected_seo_plugin,omitempty"`
	Issues              []Issue  `json:"issues" yaml:"issues"`
}

// NewFailedFinding is the degraded finding recorded for a page whose markup
// could not be retrieved.
func NewFailedFinding(reason string) PageFinding {
	return PageFinding{
		MissingAltImages: []string{},
		Issues:           []Issue{FailedToLoadIssue(reason)},
	}
}

// IssueCodes returns the short code of every issue, in rule order.
func (f PageFinding) IssueCodes() []string {
	codes := make([]string, len(f.Issues))
	for i, issue := range f.Issues {
		codes[i] = issue.Code
	}
	return codes
}

// IssuesDetail returns one message per issue, aligned with IssueCodes.
func (f PageFinding) IssuesDetail() []string {
	details := make([]string, len(f.Issues))
	for i, issue := range f.Issues {
		details[i] = issue.Detail()
	}
	return details
}

func (f PageFinding) HasIssue(code string) bool {
	for _, issue := range f.Issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}

func (f PageFinding) MissingAltCount() int {
	return len(f.MissingAltImages)
}
