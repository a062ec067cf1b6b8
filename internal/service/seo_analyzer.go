package service

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"unicode/utf8"

	"seo_auditor/internal/domain/models"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	titleMinLength       = 30
	titleMaxLength       = 60
	metaMinLength        = 50
	metaMaxLength        = 160
	h1PreviewLength      = 50
	missingAltPreviewMax = 5

	noIndexMarker          = `content="noindex`
	breadcrumbSchemaMarker = `"@type":"BreadcrumbList"`
	breadcrumbMarker       = `breadcrumb`
	inlineGIFMarker        = `data:image/gif;base64`
	spacerMarker           = `spacer`
)

var schemePrefix = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*:`)

// seoPlugins is checked in order; the first marker found wins.
var seoPlugins = []struct {
	name    string
	markers []string
}{
	{name: "Yoast SEO", markers: []string{"yoast"}},
	{name: "Rank Math", markers: []string{"rank-math", "data-rank-math"}},
	{name: "All in One SEO", markers: []string{"aioseo"}},
}

// page is the parsed input shared by every rule.
type page struct {
	url   string
	raw   string
	lower string
	doc   *goquery.Document
}

// seoRule inspects a page, records what it found on the finding and returns
// the issues it raises, in order.
type seoRule func(p *page, f *models.PageFinding) []models.Issue

var seoRules = []seoRule{
	pluginRule,
	titleRule,
	headingRule,
	metaDescriptionRule,
	noIndexRule,
	socialTagsRule,
	imageAltRule,
	breadcrumbSchemaRule,
	breadcrumbHTMLRule,
}

// Analyze runs every SEO rule over the markup of pageURL. It never fails: a
// rule that cannot evaluate leaves its fields at their defaults and raises nothing.
func Analyze(markup string, pageURL string) models.PageFinding {
	finding := models.PageFinding{
		MetaDescription:  models.MetaDescriptionMissing,
		MissingAltImages: []string{},
		Issues:           []models.Issue{},
	}

	p := &page{
		url:   pageURL,
		raw:   markup,
		lower: strings.ToLower(markup),
		doc:   parseDocument(markup),
	}

	for _, rule := range seoRules {
		finding.Issues = append(finding.Issues, runRule(rule, p, &finding)...)
	}
	return finding
}

func runRule(rule seoRule, p *page, f *models.PageFinding) (issues []models.Issue) {
	defer func() {
		if r := recover(); r != nil {
			issues = nil
		}
	}()
	return rule(p, f)
}

// parseDocument falls back to an empty document so structural rules simply
// find nothing.
func parseDocument(markup string) *goquery.Document {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		root = &html.Node{Type: html.DocumentNode}
	}
	return goquery.NewDocumentFromNode(root)
}

// DetectSEOPlugin names the SEO plugin whose fingerprint appears in markup, or
// returns "" when none does.
func DetectSEOPlugin(markup string) string {
	return detectPlugin(strings.ToLower(markup))
}

func detectPlugin(lower string) string {
	for _, plugin := range seoPlugins {
		for _, marker := range plugin.markers {
			if strings.Contains(lower, marker) {
				return plugin.name
			}
		}
	}
	return ""
}

func pluginRule(p *page, f *models.PageFinding) []models.Issue {
	f.DetectedSEOPlugin = detectPlugin(p.lower)
	return nil
}

func titleRule(p *page, f *models.PageFinding) []models.Issue {
	title := p.doc.Find("title").First()
	if title.Length() == 0 {
		return []models.Issue{models.NewIssue(models.IssueMissingTitle, `Missing <title> tag`)}
	}

	text := strings.TrimSpace(title.Text())
	f.TitleTag = text

	n := utf8.RuneCountInString(text)
	switch {
	case n < titleMinLength:
		return []models.Issue{models.NewIssue(models.IssueTitleTooShort, fmt.Sprintf(`Title too short (%d chars): %s`, n, text))}
	case n > titleMaxLength:
		return []models.Issue{models.NewIssue(models.IssueTitleTooLong, fmt.Sprintf(`Title too long (%d chars): %s`, n, text))}
	}
	return nil
}

func headingRule(p *page, f *models.PageFinding) []models.Issue {
	headings := p.doc.Find("h1")
	f.H1Count = headings.Length()
	if f.H1Count == 0 {
		return []models.Issue{models.NewIssue(models.IssueMissingH1, `No H1 tag found`)}
	}

	f.H1Text = strings.TrimSpace(headings.First().Text())
	if f.H1Count > 1 {
		detail := fmt.Sprintf(`Multiple H1s (%d): %s...`, f.H1Count, truncateRunes(f.H1Text, h1PreviewLength))
		return []models.Issue{models.NewIssue(models.IssueMultipleH1, detail)}
	}
	return nil
}

func metaDescriptionRule(p *page, f *models.PageFinding) []models.Issue {
	content, _ := p.doc.Find(`meta[name="description"]`).First().Attr("content")
	if content == "" {
		f.MetaDescription = models.MetaDescriptionMissing
		return []models.Issue{models.NewIssue(models.IssueMissingMetaDescription, `Missing meta description tag`)}
	}

	desc := strings.TrimSpace(content)
	f.MetaDescription = desc

	n := utf8.RuneCountInString(desc)
	switch {
	case n < metaMinLength:
		return []models.Issue{models.NewIssue(models.IssueMetaTooShort, fmt.Sprintf(`Meta description too short (%d chars)`, n))}
	case n > metaMaxLength:
		return []models.Issue{models.NewIssue(models.IssueMetaTooLong, fmt.Sprintf(`Meta description too long (%d chars)`, n))}
	}
	return nil
}

// noIndexRule is a plain text scan, so the marker counts wherever it appears
// in the markup, not only inside a robots meta tag.
func noIndexRule(p *page, f *models.PageFinding) []models.Issue {
	if !strings.Contains(p.lower, noIndexMarker) {
		return nil
	}
	f.IsNoIndex = true
	return []models.Issue{models.NewIssue(models.IssueNoIndex, `Page is set to NOINDEX`)}
}

func socialTagsRule(p *page, f *models.PageFinding) []models.Issue {
	var issues []models.Issue

	f.HasOpenGraph = p.doc.Find(`meta[property="og:title"]`).Length() > 0
	if !f.HasOpenGraph {
		issues = append(issues, models.NewIssue(models.IssueMissingOpenGraph, `Missing Open Graph tags`))
	}

	f.HasTwitterCard = p.doc.Find(`meta[name="twitter:card"]`).Length() > 0
	if !f.HasTwitterCard {
		issues = append(issues, models.NewIssue(models.IssueMissingTwitterCard, `Missing Twitter Card meta tag`))
	}
	return issues
}

func imageAltRule(p *page, f *models.PageFinding) []models.Issue {
	origin := pageOrigin(p.url)

	missing := []string{}
	p.doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		if src == "" || isDecorativeImage(src) {
			return
		}
		alt, _ := img.Attr("alt")
		if strings.TrimSpace(alt) != "" {
			return
		}
		missing = append(missing, resolveAgainst(origin, src))
	})

	f.MissingAltImages = missing
	if len(missing) == 0 {
		return nil
	}

	details := make([]string, 0, missingAltPreviewMax+1)
	for _, src := range missing[:min(len(missing), missingAltPreviewMax)] {
		details = append(details, `Image missing alt: `+src)
	}
	if rest := len(missing) - missingAltPreviewMax; rest > 0 {
		details = append(details, fmt.Sprintf(`... and %d more`, rest))
	}
	return []models.Issue{{Code: models.MissingAltIssueCode(len(missing)), Details: details}}
}

// isDecorativeImage reports whether src is an inline placeholder or spacer,
// which do not need alt text.
func isDecorativeImage(src string) bool {
	return strings.Contains(src, inlineGIFMarker) || strings.Contains(strings.ToLower(src), spacerMarker)
}

// breadcrumbSchemaRule matches the raw script text, so malformed or empty
// JSON-LD bodies are simply non-matches.
func breadcrumbSchemaRule(p *page, f *models.PageFinding) []models.Issue {
	p.doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, script *goquery.Selection) bool {
		if strings.Contains(script.Text(), breadcrumbSchemaMarker) {
			f.HasBreadcrumbSchema = true
			return false
		}
		return true
	})

	if f.HasBreadcrumbSchema {
		return nil
	}
	return []models.Issue{models.NewIssue(models.IssueMissingBreadcrumb, `Missing breadcrumb schema (JSON-LD)`)}
}

// breadcrumbHTMLRule is informational and never raises an issue.
func breadcrumbHTMLRule(p *page, f *models.PageFinding) []models.Issue {
	navs := p.doc.Find("nav").FilterFunction(func(_ int, nav *goquery.Selection) bool {
		return strings.Contains(strings.ToLower(nav.Text()), breadcrumbMarker)
	})
	classed := p.doc.Find("[class]").FilterFunction(func(_ int, el *goquery.Selection) bool {
		class, _ := el.Attr("class")
		return strings.Contains(strings.ToLower(class), breadcrumbMarker)
	})
	f.HasBreadcrumbHTML = navs.Length() > 0 || classed.Length() > 0
	return nil
}

// pageOrigin returns scheme://host[:port] of pageURL.
func pageOrigin(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err == nil && u.Scheme != "" && u.Host != "" {
		return u.Scheme + "://" + u.Host
	}
	parts := strings.SplitN(pageURL, "/", 4)
	return strings.Join(parts[:min(len(parts), 3)], "/")
}

// resolveAgainst makes src absolute relative to origin. The text of src is
// kept as written; values that already carry a scheme are returned unchanged.
func resolveAgainst(origin, src string) string {
	switch {
	case schemePrefix.MatchString(src):
		return src
	case strings.HasPrefix(src, "//"):
		if scheme, _, ok := strings.Cut(origin, "://"); ok {
			return scheme + ":" + src
		}
		return src
	case strings.HasPrefix(src, "?"), strings.HasPrefix(src, "#"):
		return origin + src
	}
	return origin + removeDotSegments("/"+strings.TrimPrefix(src, "/"))
}

// removeDotSegments resolves "." and ".." in the path part of ref and leaves
// any query or fragment alone.
func removeDotSegments(ref string) string {
	end := strings.IndexAny(ref, "?#")
	if end < 0 {
		end = len(ref)
	}
	p, rest := ref[:end], ref[end:]
	if !strings.Contains(p+"/", "/./") && !strings.Contains(p+"/", "/../") {
		return ref
	}

	cleaned := path.Clean(p)
	if cleaned != "/" && (strings.HasSuffix(p, "/") || strings.HasSuffix(p, "/.") || strings.HasSuffix(p, "/..")) {
		cleaned += "/"
	}
	return cleaned + rest
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
