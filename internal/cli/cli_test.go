package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"seo_auditor/internal/domain/models"
	"seo_auditor/internal/report"
	"seo_auditor/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloMarkup = `<!DOCTYPE html><html><head><title>Hello world</title></head><body><h1>Hello</h1></body></html>`

type testEnv struct {
	dir       string
	outputDir string
}

// setupCLITest runs the test in an empty directory with history and reports
// kept under it.
func setupCLITest(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	env := testEnv{dir: dir, outputDir: filepath.Join(dir, "reports")}
	for _, name := range []string{"APP_LOG_LEVEL", "APP_ENABLE_DEBUG", "SEO_REDIS_URL", "SEO_WORKERS", "SEO_PER_PAGE"} {
		t.Setenv(name, "")
	}
	t.Setenv("SEO_DB_DIR", filepath.Join(dir, "db"))
	t.Setenv("SEO_OUTPUT_DIR", env.outputDir)
	t.Setenv("SEO_PAGINATION_DELAY", "0s")
	t.Setenv("SEO_REQUEST_TIMEOUT", "5s")
	return env
}

func newWordPressSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var srvURL string
	mux.HandleFunc("/wp-json/wp/v2/posts", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, `[]`)
			return
		}
		fmt.Fprintf(w, `[{"title":{"rendered":"Hello world"},"link":"%s/hello-world/"}]`, srvURL)
	})
	mux.HandleFunc("/wp-json/wp/v2/pages", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, `[]`)
			return
		}
		fmt.Fprintf(w, `[{"title":{"rendered":"About"},"link":"%s/about/"}]`, srvURL)
	})
	mux.HandleFunc("/hello-world/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, helloMarkup)
	})

	srv := httptest.NewServer(mux)
	srvURL = srv.URL
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)

	cmd := NewRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand_Help(t *testing.T) {
	setupCLITest(t)

	out, _, err := execute(t, "", "--help")
	require.NoError(t, err)
	for _, name := range []string{"audit", "analyze", "serve", "history", "version"} {
		assert.Contains(t, out, name)
	}
}

func TestRootCommand_UnknownCommand(t *testing.T) {
	setupCLITest(t)

	_, _, err := execute(t, "", "nonexistent-command")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	setupCLITest(t)

	out, _, err := execute(t, "", "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", out)

	out, _, err = execute(t, "", "version", "--json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	for _, key := range []string{"version", "commit", "built", "goVersion", "platform"} {
		assert.Contains(t, info, key)
	}
}

func TestAuditCommand(t *testing.T) {
	env := setupCLITest(t)
	srv := newWordPressSite(t)

	out, _, err := execute(t, "", "audit", srv.URL, "--format", "md", "--format", "csv", "--workers", "2", "--pages")
	require.NoError(t, err)

	assert.Contains(t, out, "Starting SEO audit for: "+srv.URL)
	assert.Contains(t, out, "Total pages: 2")
	assert.Contains(t, out, "Critical: 1")
	assert.Contains(t, out, "Warnings: 1")
	assert.Contains(t, out, "Clean: 0")
	assert.Contains(t, out, srv.URL+"/about/")

	for _, f := range []report.Format{report.FormatCSV, report.FormatHTML, report.FormatMarkdown} {
		path := filepath.Join(env.outputDir, report.FileName(srv.URL, f))
		assert.FileExists(t, path)
		assert.Contains(t, out, path)
	}
	assert.NoFileExists(t, filepath.Join(env.outputDir, report.FileName(srv.URL, report.FormatJSON)))

	csv, err := os.ReadFile(filepath.Join(env.outputDir, report.FileName(srv.URL, report.FormatCSV)))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csv)), "\n")
	require.Len(t, lines, 3)
	// crawl order: posts first
	assert.Contains(t, lines[1], srv.URL+"/hello-world/")
	assert.Contains(t, lines[2], "Failed to load: 404 Not Found for url: "+srv.URL+"/about/")

	out, _, err = execute(t, "", "history", "--json")
	require.NoError(t, err)
	var audits []models.AuditSummary
	require.NoError(t, json.Unmarshal([]byte(out), &audits))
	require.Len(t, audits, 1)
	assert.Equal(t, srv.URL, audits[0].Site)
	assert.Equal(t, 2, audits[0].Pages)
	assert.Equal(t, 1, audits[0].Critical)

	exportDir := filepath.Join(env.dir, "exports")
	out, _, err = execute(t, "", "history", "export", audits[0].ID, "--format", "yaml", "--output-dir", exportDir)
	require.NoError(t, err)
	path := filepath.Join(exportDir, report.FileName(srv.URL, report.FormatYAML))
	assert.FileExists(t, path)
	assert.Equal(t, "Report saved: "+path+"\n", out)
}

func TestAuditCommand_Prompt(t *testing.T) {
	env := setupCLITest(t)
	srv := newWordPressSite(t)

	out, stderr, err := execute(t, "  "+srv.URL+"\n", "audit", "--no-save")
	require.NoError(t, err)

	assert.Contains(t, stderr, sitePrompt)
	assert.Contains(t, out, "Total pages: 2")
	assert.FileExists(t, filepath.Join(env.outputDir, report.FileName(srv.URL, report.FormatHTML)))

	out, _, err = execute(t, "", "history")
	require.NoError(t, err)
	assert.Equal(t, "No audits recorded yet.\n", out)
}

func TestAuditCommand_NoPages(t *testing.T) {
	env := setupCLITest(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	_, _, err := execute(t, "", "audit", srv.URL)
	require.ErrorIs(t, err, service.ErrNoPages)
	assert.Equal(t, noPagesMessage, errorMessage(err))
	assert.NoDirExists(t, env.outputDir)
}

func TestAuditCommand_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		args    []string
		wantErr string
	}{
		{name: "unknown format", args: []string{"audit", "example.com", "--format", "pdf"}, wantErr: "unknown report format"},
		{name: "zero workers", args: []string{"audit", "example.com", "--workers", "0"}, wantErr: "--workers must be at least 1"},
		{name: "empty prompt", stdin: "\n", args: []string{"audit"}, wantErr: "url is empty"},
		{name: "bad scheme", args: []string{"audit", "ftp://example.com"}, wantErr: "url is invalid"},
		{name: "too many args", args: []string{"audit", "a.com", "b.com"}, wantErr: "accepts at most 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)

			_, _, err := execute(t, tt.stdin, tt.args...)
			require.Error(t, err)
			assert.Contains(t, errorMessage(err), tt.wantErr)
		})
	}
}

func TestAnalyzeCommand(t *testing.T) {
	setupCLITest(t)
	srv := newWordPressSite(t)

	out, _, err := execute(t, "", "analyze", srv.URL+"/hello-world/", "--json")
	require.NoError(t, err)

	var got analysisOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, srv.URL+"/hello-world/", got.URL)
	assert.Equal(t, models.SeverityWarning, got.Severity)
	assert.Equal(t, "Hello world", got.Finding.TitleTag)
	assert.Equal(t, 1, got.Finding.H1Count)

	out, _, err = execute(t, "", "analyze", srv.URL+"/hello-world/")
	require.NoError(t, err)
	assert.Contains(t, out, "Hello world")
	assert.Contains(t, out, "WARNING")
}

func TestHistoryExport_Unknown(t *testing.T) {
	setupCLITest(t)

	_, _, err := execute(t, "", "history", "export", "missing")
	require.Error(t, err)
	assert.Contains(t, errorMessage(err), `no audit with id "missing"`)
}

func TestHistory_InvalidLimit(t *testing.T) {
	setupCLITest(t)

	_, _, err := execute(t, "", "history", "--limit", "0")
	require.Error(t, err)
}
