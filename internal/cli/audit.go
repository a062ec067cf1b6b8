package cli

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"

	"seo_auditor/internal/application"
	"seo_auditor/internal/pkg/errors"
	"seo_auditor/internal/report"

	"github.com/spf13/cobra"
)

const sitePrompt = "Enter your WordPress site URL (e.g., https://yoursite.com): "

type auditOptions struct {
	formats   []string
	outputDir string
	workers   int
	open      bool
	noSave    bool
	pages     bool
}

func newAuditCommand(root *rootOptions) *cobra.Command {
	opts := &auditOptions{}

	cmd := &cobra.Command{
		Use:   "audit [site]",
		Short: "Audit every published post and page of a WordPress site",
		Long: `Audit discovers the published posts and pages of a WordPress site, checks
each page and writes seo_report_<host>.csv and seo_report_<host>.html to the
output directory. Without a site argument the URL is read from stdin.

Examples:
  seo-auditor audit example.com
  seo-auditor audit https://example.com --format md --format json
  seo-auditor audit example.com --workers 4 --open`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd, root, opts, args)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.formats, "format", "f", nil, "additional report formats: markdown, json, yaml (repeatable)")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "report directory (default from SEO_OUTPUT_DIR)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "pages fetched concurrently (default from SEO_WORKERS)")
	cmd.Flags().BoolVar(&opts.open, "open", false, "open the HTML report in a browser")
	cmd.Flags().BoolVar(&opts.noSave, "no-save", false, "do not record the audit in history")
	cmd.Flags().BoolVar(&opts.pages, "pages", false, "print one row per page")
	return cmd
}

func runAudit(cmd *cobra.Command, root *rootOptions, opts *auditOptions, args []string) error {
	site, err := siteArg(cmd, args)
	if err != nil {
		return err
	}

	formats, err := reportFormats(opts.formats)
	if err != nil {
		return err
	}

	cfg := *root.cfg
	if cmd.Flags().Changed("workers") {
		if opts.workers < 1 {
			return errors.New("--workers must be at least 1")
		}
		cfg.Workers = opts.workers
	}
	outputDir := cfg.OutputDir
	if opts.outputDir != "" {
		outputDir = opts.outputDir
	}

	ctx := cmd.Context()
	app := application.New(ctx, root.log, &cfg)
	defer func() {
		if err := app.Close(); err != nil {
			root.log.WithError(err).Warn(`failed to close resources`)
		}
	}()

	if !opts.noSave {
		if _, err := app.OpenStore(ctx); err != nil {
			root.log.WithError(err).Warn(`audit history disabled`)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Starting SEO audit for: %s\n", site)

	audit, err := app.AuditSite(ctx, site)
	if audit == nil {
		return err
	}
	if err != nil {
		root.log.WithError(err).Warn(`audit was not recorded in history`)
	}

	var htmlPath string
	for _, f := range formats {
		path, err := report.WriteFile(outputDir, audit, f)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s report saved: %s\n", strings.ToUpper(string(f)), path)
		if f == report.FormatHTML {
			htmlPath = path
		}
	}

	console := report.NewConsole(out, root.useColors(out))
	if opts.pages {
		console.Pages(audit.Report.Pages)
	}
	console.Summary(report.NewSummary(audit.Site, audit.Report))

	if opts.open && htmlPath != "" {
		if err := report.OpenInBrowser(htmlPath); err != nil {
			root.log.WithError(err).Warn(`failed to open report`)
		}
	}
	return nil
}

// siteArg returns the site to audit, prompting on stdin when no argument was given.
func siteArg(cmd *cobra.Command, args []string) (string, error) {
	var input string
	if len(args) == 1 {
		input = args[0]
	} else {
		fmt.Fprint(cmd.ErrOrStderr(), sitePrompt)
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && err != io.EOF {
			return "", errors.Wrap(err, `failed to read site url`)
		}
		input = line
	}

	site := application.NormalizeSiteURL(input)
	if err := application.ValidateURL(site); err != nil {
		return "", errors.Wrap(err, `invalid site url`)
	}
	return site, nil
}

// reportFormats appends the requested formats to the default ones, without duplicates.
func reportFormats(extra []string) ([]report.Format, error) {
	formats := slices.Clone(report.DefaultFormats)
	for _, name := range extra {
		f, err := report.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	return formats, nil
}
