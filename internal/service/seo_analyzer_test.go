package service

import (
	"fmt"
	"strings"
	"testing"

	"seo_auditor/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPageURL = "https://example.com/blog/post"

	ogTag      = `<meta property="og:title" content="Post">`
	twitterTag = `<meta name="twitter:card" content="summary">`
	schemaTag  = `<script type="application/ld+json">{"@context":"https://schema.org","@type":"BreadcrumbList","itemListElement":[]}</script>`
)

var (
	goodTitle = strings.Repeat("t", 45)
	goodMeta  = strings.Repeat("m", 80)
)

func titleTag(text string) string {
	return "<title>" + text + "</title>"
}

func metaTag(content string) string {
	return `<meta name="description" content="` + content + `">`
}

func htmlDoc(head, body string) string {
	return "<!DOCTYPE html><html><head>" + head + "</head><body>" + body + "</body></html>"
}

// cleanPage passes every rule.
func cleanPage() string {
	return htmlDoc(titleTag(goodTitle)+metaTag(goodMeta)+ogTag+twitterTag+schemaTag, `<h1>Welcome</h1><img src="/a.jpg" alt="A">`)
}

func TestAnalyze_CleanPage(t *testing.T) {
	f := Analyze(cleanPage(), testPageURL)

	assert.Empty(t, f.Issues)
	assert.Equal(t, goodTitle, f.TitleTag)
	assert.Equal(t, 1, f.H1Count)
	assert.Equal(t, "Welcome", f.H1Text)
	assert.Equal(t, goodMeta, f.MetaDescription)
	assert.False(t, f.IsNoIndex)
	assert.True(t, f.HasOpenGraph)
	assert.True(t, f.HasTwitterCard)
	assert.True(t, f.HasBreadcrumbSchema)
	assert.False(t, f.HasBreadcrumbHTML)
	assert.Empty(t, f.MissingAltImages)
	assert.Empty(t, f.DetectedSEOPlugin)
	assert.Equal(t, models.SeverityOK, SeverityOf(f))
}

func TestAnalyze_Title(t *testing.T) {
	tests := []struct {
		name     string
		head     string
		wantCode string
		wantText string
	}{
		{name: "missing", head: "", wantCode: models.IssueMissingTitle},
		{name: "29 chars", head: titleTag(strings.Repeat("a", 29)), wantCode: models.IssueTitleTooShort, wantText: strings.Repeat("a", 29)},
		{name: "30 chars", head: titleTag(strings.Repeat("a", 30)), wantText: strings.Repeat("a", 30)},
		{name: "45 chars", head: titleTag(strings.Repeat("a", 45)), wantText: strings.Repeat("a", 45)},
		{name: "60 chars", head: titleTag(strings.Repeat("a", 60)), wantText: strings.Repeat("a", 60)},
		{name: "61 chars", head: titleTag(strings.Repeat("a", 61)), wantCode: models.IssueTitleTooLong, wantText: strings.Repeat("a", 61)},
		{name: "trimmed", head: titleTag("   " + strings.Repeat("b", 40) + "\n"), wantText: strings.Repeat("b", 40)},
		{name: "counts characters not bytes", head: titleTag(strings.Repeat("é", 40)), wantText: strings.Repeat("é", 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Analyze(htmlDoc(tt.head, "<h1>x</h1>"), testPageURL)
			assert.Equal(t, tt.wantText, f.TitleTag)

			titleCodes := []string{}
			for _, code := range f.IssueCodes() {
				if strings.Contains(code, "itle") {
					titleCodes = append(titleCodes, code)
				}
			}
			if tt.wantCode == "" {
				assert.Empty(t, titleCodes)
				return
			}
			assert.Equal(t, []string{tt.wantCode}, titleCodes)
		})
	}
}

func TestAnalyze_TitleDetail(t *testing.T) {
	f := Analyze(htmlDoc(titleTag("Short title"), "<h1>x</h1>"), testPageURL)
	require.True(t, f.HasIssue(models.IssueTitleTooShort))
	assert.Contains(t, f.IssuesDetail(), "Title too short (11 chars): Short title")

	f = Analyze(htmlDoc("", "<h1>x</h1>"), testPageURL)
	assert.Contains(t, f.IssuesDetail(), "Missing <title> tag")
}

func TestAnalyze_Headings(t *testing.T) {
	longHeading := strings.Repeat("h", 70)

	tests := []struct {
		name       string
		body       string
		wantCount  int
		wantText   string
		wantCode   string
		wantDetail string
	}{
		{name: "none", body: "<p>no heading</p>", wantCount: 0, wantCode: models.IssueMissingH1, wantDetail: "No H1 tag found"},
		{name: "one", body: "<h1> Only </h1>", wantCount: 1, wantText: "Only"},
		{
			name:       "two",
			body:       "<h1>First heading</h1><h1>Second</h1>",
			wantCount:  2,
			wantText:   "First heading",
			wantCode:   models.IssueMultipleH1,
			wantDetail: "Multiple H1s (2): First heading...",
		},
		{
			name:       "long first heading is cut to 50 characters",
			body:       "<h1>" + longHeading + "</h1><h1>b</h1><h1>c</h1>",
			wantCount:  3,
			wantText:   longHeading,
			wantCode:   models.IssueMultipleH1,
			wantDetail: "Multiple H1s (3): " + strings.Repeat("h", 50) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Analyze(htmlDoc(titleTag(goodTitle), tt.body), testPageURL)
			assert.Equal(t, tt.wantCount, f.H1Count)
			assert.Equal(t, tt.wantText, f.H1Text)
			if tt.wantCode == "" {
				assert.False(t, f.HasIssue(models.IssueMissingH1))
				assert.False(t, f.HasIssue(models.IssueMultipleH1))
				return
			}
			assert.True(t, f.HasIssue(tt.wantCode))
			assert.Contains(t, f.IssuesDetail(), tt.wantDetail)
		})
	}
}

func TestAnalyze_HeadingSeverity(t *testing.T) {
	head := titleTag(goodTitle) + metaTag(goodMeta) + ogTag + twitterTag + schemaTag

	none := Analyze(htmlDoc(head, "<p>body</p>"), testPageURL)
	assert.Equal(t, models.SeverityCritical, SeverityOf(none))

	two := Analyze(htmlDoc(head, "<h1>a</h1><h1>b</h1>"), testPageURL)
	assert.Equal(t, []string{models.IssueMultipleH1}, two.IssueCodes())
	assert.Equal(t, models.SeverityWarning, SeverityOf(two))
}

func TestAnalyze_MetaDescription(t *testing.T) {
	tests := []struct {
		name       string
		head       string
		wantValue  string
		wantCode   string
		wantDetail string
	}{
		{name: "absent", head: "", wantValue: models.MetaDescriptionMissing, wantCode: models.IssueMissingMetaDescription, wantDetail: "Missing meta description tag"},
		{name: "empty content", head: metaTag(""), wantValue: models.MetaDescriptionMissing, wantCode: models.IssueMissingMetaDescription, wantDetail: "Missing meta description tag"},
		{name: "no content attribute", head: `<meta name="description">`, wantValue: models.MetaDescriptionMissing, wantCode: models.IssueMissingMetaDescription, wantDetail: "Missing meta description tag"},
		{name: "49 chars", head: metaTag(strings.Repeat("m", 49)), wantValue: strings.Repeat("m", 49), wantCode: models.IssueMetaTooShort, wantDetail: "Meta description too short (49 chars)"},
		{name: "50 chars", head: metaTag(strings.Repeat("m", 50)), wantValue: strings.Repeat("m", 50)},
		{name: "160 chars", head: metaTag(strings.Repeat("m", 160)), wantValue: strings.Repeat("m", 160)},
		{name: "161 chars", head: metaTag(strings.Repeat("m", 161)), wantValue: strings.Repeat("m", 161), wantCode: models.IssueMetaTooLong, wantDetail: "Meta description too long (161 chars)"},
		{name: "whitespace only", head: metaTag("   "), wantValue: "", wantCode: models.IssueMetaTooShort, wantDetail: "Meta description too short (0 chars)"},
		{name: "trimmed", head: metaTag("  " + goodMeta + "  "), wantValue: goodMeta},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Analyze(htmlDoc(titleTag(goodTitle)+tt.head, "<h1>x</h1>"), testPageURL)
			assert.Equal(t, tt.wantValue, f.MetaDescription)

			metaCodes := []string{models.IssueMissingMetaDescription, models.IssueMetaTooShort, models.IssueMetaTooLong}
			for _, code := range metaCodes {
				assert.Equal(t, code == tt.wantCode, f.HasIssue(code), code)
			}
			if tt.wantDetail != "" {
				assert.Contains(t, f.IssuesDetail(), tt.wantDetail)
			}
		})
	}
}

func TestAnalyze_NoIndex(t *testing.T) {
	tests := []struct {
		name string
		head string
		body string
		want bool
	}{
		{name: "robots meta", head: `<meta name="robots" content="noindex, follow">`, want: true},
		{name: "upper case", head: `<META NAME="ROBOTS" CONTENT="NOINDEX">`, want: true},
		{name: "anywhere in markup", body: `<p>Set content="noindex" to hide a page.</p>`, want: true},
		{name: "other robots value", head: `<meta name="robots" content="index, follow">`, want: false},
		{name: "single quotes do not match", head: `<meta name='robots' content='noindex'>`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Analyze(htmlDoc(titleTag(goodTitle)+tt.head, "<h1>x</h1>"+tt.body), testPageURL)
			assert.Equal(t, tt.want, f.IsNoIndex)
			assert.Equal(t, tt.want, f.HasIssue(models.IssueNoIndex))
			if tt.want {
				assert.Equal(t, models.SeverityCritical, SeverityOf(f))
				assert.Contains(t, f.IssuesDetail(), "Page is set to NOINDEX")
			}
		})
	}
}

func TestAnalyze_SocialTags(t *testing.T) {
	f := Analyze(htmlDoc(ogTag, "<h1>x</h1>"), testPageURL)
	assert.True(t, f.HasOpenGraph)
	assert.False(t, f.HasTwitterCard)
	assert.False(t, f.HasIssue(models.IssueMissingOpenGraph))
	assert.True(t, f.HasIssue(models.IssueMissingTwitterCard))
	assert.Contains(t, f.IssuesDetail(), "Missing Twitter Card meta tag")

	f = Analyze(htmlDoc(twitterTag+`<meta property="og:description" content="d">`, "<h1>x</h1>"), testPageURL)
	assert.False(t, f.HasOpenGraph)
	assert.True(t, f.HasTwitterCard)
	assert.True(t, f.HasIssue(models.IssueMissingOpenGraph))
	assert.Contains(t, f.IssuesDetail(), "Missing Open Graph tags")
}

func TestAnalyze_ImageAlt(t *testing.T) {
	tests := []struct {
		name    string
		pageURL string
		body    string
		want    []string
	}{
		{
			name:    "relative src resolves against the page origin",
			pageURL: "https://example.com/blog/post",
			body:    `<img src="/img/photo.jpg" alt="">`,
			want:    []string{"https://example.com/img/photo.jpg"},
		},
		{
			name:    "path relative src ignores the page path",
			pageURL: "https://example.com/blog/post",
			body:    `<img src="img/photo.jpg">`,
			want:    []string{"https://example.com/img/photo.jpg"},
		},
		{
			name:    "port is kept",
			pageURL: "http://localhost:8080/a/b",
			body:    `<img src="/x.png">`,
			want:    []string{"http://localhost:8080/x.png"},
		},
		{
			name:    "absolute and protocol relative",
			pageURL: testPageURL,
			body:    `<img src="https://cdn.example.net/x.png"><img src="//cdn.example.net/y.png">`,
			want:    []string{"https://cdn.example.net/x.png", "https://cdn.example.net/y.png"},
		},
		{
			name:    "inline gif is exempt",
			pageURL: testPageURL,
			body:    `<img src="data:image/gif;base64,AAAA">`,
			want:    []string{},
		},
		{
			name:    "spacer is exempt",
			pageURL: testPageURL,
			body:    `<img src="/images/Spacer.gif">`,
			want:    []string{},
		},
		{
			name:    "images without src are skipped",
			pageURL: testPageURL,
			body:    `<img alt=""><img src="">`,
			want:    []string{},
		},
		{
			name:    "whitespace alt counts as missing",
			pageURL: testPageURL,
			body:    `<img src="/a.jpg" alt="  "><img src="/b.jpg" alt="B">`,
			want:    []string{"https://example.com/a.jpg"},
		},
		{
			name:    "malformed absolute src is kept verbatim",
			pageURL: testPageURL,
			body:    `<img src="http://[::1">`,
			want:    []string{"http://[::1"},
		},
		{
			name:    "stray percent in relative src still resolves",
			pageURL: "https://example.com/blog/post",
			body:    `<img src="/uploads/50%off.jpg">`,
			want:    []string{"https://example.com/uploads/50%off.jpg"},
		},
		{
			name:    "relative src keeps spaces and non ascii text",
			pageURL: "https://example.com/blog/post",
			body:    `<img src="/img/my photo.jpg"><img src="/imágenes/foto.jpg">`,
			want:    []string{"https://example.com/img/my photo.jpg", "https://example.com/imágenes/foto.jpg"},
		},
		{
			name:    "dot segments are removed",
			pageURL: "https://example.com/blog/post",
			body:    `<img src="../img/a.jpg?v=1"><img src="./b/./c.jpg">`,
			want:    []string{"https://example.com/img/a.jpg?v=1", "https://example.com/b/c.jpg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Analyze(htmlDoc(titleTag(goodTitle), "<h1>x</h1>"+tt.body), tt.pageURL)
			assert.Equal(t, tt.want, f.MissingAltImages)
			assert.Equal(t, len(tt.want), f.MissingAltCount())
			if len(tt.want) > 0 {
				assert.True(t, f.HasIssue(models.MissingAltIssueCode(len(tt.want))))
			}
		})
	}
}

func TestAnalyze_ImageAltDetailTruncation(t *testing.T) {
	var body strings.Builder
	body.WriteString("<h1>x</h1>")
	for i := range 7 {
		fmt.Fprintf(&body, `<img src="/img/%d.jpg">`, i)
	}

	f := Analyze(htmlDoc(titleTag(goodTitle), body.String()), testPageURL)
	require.Len(t, f.MissingAltImages, 7)

	var issue models.Issue
	for _, i := range f.Issues {
		if i.Code == "7 images missing alt" {
			issue = i
		}
	}
	require.Equal(t, "7 images missing alt", issue.Code)
	assert.Equal(t, []string{
		"Image missing alt: https://example.com/img/0.jpg",
		"Image missing alt: https://example.com/img/1.jpg",
		"Image missing alt: https://example.com/img/2.jpg",
		"Image missing alt: https://example.com/img/3.jpg",
		"Image missing alt: https://example.com/img/4.jpg",
		"... and 2 more",
	}, issue.Details)
	assert.Len(t, f.IssueCodes(), len(f.IssuesDetail()))
}

func TestAnalyze_BreadcrumbSchema(t *testing.T) {
	tests := []struct {
		name string
		head string
		want bool
	}{
		{name: "valid", head: schemaTag, want: true},
		{name: "malformed json still matches", head: `<script type="application/ld+json">{"@type":"BreadcrumbList",</script>`, want: true},
		{name: "second script matches", head: `<script type="application/ld+json">{"@type":"WebPage"}</script>` + schemaTag, want: true},
		{name: "empty script", head: `<script type="application/ld+json"></script>`, want: false},
		{name: "spaced json is not matched", head: `<script type="application/ld+json">{"@type": "BreadcrumbList"}</script>`, want: false},
		{name: "plain script ignored", head: `<script>var x = {"@type":"BreadcrumbList"};</script>`, want: false},
		{name: "none", head: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Analyze(htmlDoc(titleTag(goodTitle)+tt.head, "<h1>x</h1>"), testPageURL)
			assert.Equal(t, tt.want, f.HasBreadcrumbSchema)
			assert.Equal(t, !tt.want, f.HasIssue(models.IssueMissingBreadcrumb))
		})
	}
}

func TestAnalyze_BreadcrumbHTML(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{name: "nav text", body: `<nav>Home &rsaquo; Breadcrumb trail</nav>`, want: true},
		{name: "class attribute", body: `<div class="site-Breadcrumbs">Home</div>`, want: true},
		{name: "plain nav", body: `<nav>Home</nav>`, want: false},
		{name: "none", body: `<p>text</p>`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Analyze(htmlDoc(titleTag(goodTitle), "<h1>x</h1>"+tt.body), testPageURL)
			assert.Equal(t, tt.want, f.HasBreadcrumbHTML)
		})
	}

	clean := Analyze(cleanPage(), testPageURL)
	withNav := Analyze(strings.Replace(cleanPage(), "<h1>", `<nav class="breadcrumb">Home</nav><h1>`, 1), testPageURL)
	assert.Equal(t, clean.Issues, withNav.Issues)
}

func TestDetectSEOPlugin(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{name: "yoast beats rank math", markup: `<!-- This site is optimized with the Yoast SEO plugin --><div class="rank-math-breadcrumb"></div>`, want: "Yoast SEO"},
		{name: "rank math", markup: `<meta name="generator" content="Rank-Math">`, want: "Rank Math"},
		{name: "rank math data attribute", markup: `<div data-rank-math="1"></div>`, want: "Rank Math"},
		{name: "aioseo", markup: `<!-- All in One SEO (AIOSEO) -->`, want: "All in One SEO"},
		{name: "rank math beats aioseo", markup: `aioseo rank-math`, want: "Rank Math"},
		{name: "none", markup: `<html></html>`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSEOPlugin(tt.markup))
			assert.Equal(t, tt.want, Analyze(tt.markup, testPageURL).DetectedSEOPlugin)
		})
	}
}

func TestAnalyze_IssuesStayAligned(t *testing.T) {
	inputs := []string{
		"",
		"<<<>>>",
		"\x00\xff\xfe binary",
		"<html><head><title>",
		cleanPage(),
		htmlDoc(`<meta name="robots" content="noindex">`, `<h1>a</h1><h1>b</h1><img src="/x.jpg">`),
	}

	for _, in := range inputs {
		f := Analyze(in, testPageURL)
		assert.Len(t, f.IssueCodes(), len(f.IssuesDetail()))
		assert.NotNil(t, f.MissingAltImages)
	}
}

func TestAnalyze_EmptyMarkup(t *testing.T) {
	f := Analyze("", "")

	assert.Equal(t, []string{
		models.IssueMissingTitle,
		models.IssueMissingH1,
		models.IssueMissingMetaDescription,
		models.IssueMissingOpenGraph,
		models.IssueMissingTwitterCard,
		models.IssueMissingBreadcrumb,
	}, f.IssueCodes())
	assert.Equal(t, models.MetaDescriptionMissing, f.MetaDescription)
	assert.Equal(t, models.SeverityCritical, SeverityOf(f))
}

func TestAnalyze_Deterministic(t *testing.T) {
	markup := htmlDoc(titleTag("Short")+`<meta name="robots" content="noindex">`, `<h1>a</h1><h1>b</h1><img src="/1.jpg"><img src="/2.jpg">`)
	assert.Equal(t, Analyze(markup, testPageURL), Analyze(markup, testPageURL))
}

func TestRunRule_RecoversPanics(t *testing.T) {
	f := models.PageFinding{}
	issues := runRule(func(*page, *models.PageFinding) []models.Issue {
		panic("boom")
	}, &page{}, &f)
	assert.Nil(t, issues)
}

func TestPageOrigin(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "https://example.com/blog/post", want: "https://example.com"},
		{in: "http://example.com:8080/a?b=c", want: "http://example.com:8080"},
		{in: "https://example.com", want: "https://example.com"},
		{in: "example.com/blog", want: "example.com/blog"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, pageOrigin(tt.in))
		})
	}
}
