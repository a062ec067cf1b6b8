package models

import (
	"fmt"
	"strings"
)

// Issue codes. They double as the "Issues Summary" column of exported reports,
// so their text must stay stable.
const (
	IssueMissingTitle           = `Missing <title>`
	IssueTitleTooShort          = `Title too short`
	IssueTitleTooLong           = `Title too long`
	IssueMissingH1              = `Missing H1`
	IssueMultipleH1             = `Multiple H1s`
	IssueMissingMetaDescription = `Missing meta description`
	IssueMetaTooShort           = `Meta desc too short`
	IssueMetaTooLong            = `Meta desc too long`
	IssueNoIndex                = `NOINDEX`
	IssueMissingOpenGraph       = `Missing OG`
	IssueMissingTwitterCard     = `Missing Twitter Card`
	IssueMissingBreadcrumb      = `Missing breadcrumb schema`

	failedToLoadPrefix = `Failed to load: `
)

// DetailSeparator joins detail lines in flattened output.
const DetailSeparator = ` | `

// Issue is one SEO deficiency raised by a rule: a short code plus one or more
// human readable detail lines.
type Issue struct {
	Code    string   `json:"code" yaml:"code"`
	Details []string `json:"details" yaml:"details"`
}

// NewIssue builds an issue with a single detail line.
func NewIssue(code, detail string) Issue {
	return Issue{Code: code, Details: []string{detail}}
}

// Detail returns the detail lines joined into a single message.
func (i Issue) Detail() string {
	return strings.Join(i.Details, DetailSeparator)
}

// MissingAltIssueCode is the code raised when n content images lack alt text.
func MissingAltIssueCode(n int) string {
	return fmt.Sprintf(`%d images missing alt`, n)
}

// FailedToLoadIssue is the sole issue of a page that could not be fetched.
func FailedToLoadIssue(reason string) Issue {
	msg := failedToLoadPrefix + reason
	return NewIssue(msg, msg)
}

// IsFailedToLoad reports whether the code was produced by FailedToLoadIssue.
func IsFailedToLoad(code string) bool {
	return strings.HasPrefix(code, failedToLoadPrefix)
}
