package cli

import (
	"encoding/json"

	"seo_auditor/internal/application"
	"seo_auditor/internal/domain/models"
	"seo_auditor/internal/pkg/errors"
	"seo_auditor/internal/report"
	"seo_auditor/internal/service"

	"github.com/spf13/cobra"
)

type analysisOutput struct {
	URL      string             `json:"url"`
	Severity models.Severity    `json:"severity"`
	Finding  models.PageFinding `json:"finding"`
}

func newAnalyzeCommand(root *rootOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "analyze <url>",
		Short: "Check a single page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageURL := application.NormalizeSiteURL(args[0])
			if err := application.ValidateURL(pageURL); err != nil {
				return errors.Wrap(err, `invalid page url`)
			}

			ctx := cmd.Context()
			app := application.New(ctx, root.log, root.cfg)
			defer func() {
				if err := app.Close(); err != nil {
					root.log.WithError(err).Warn(`failed to close resources`)
				}
			}()

			finding := app.AnalyzePage(ctx, pageURL)
			severity := service.SeverityOf(finding)

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				return enc.Encode(analysisOutput{URL: pageURL, Severity: severity, Finding: finding})
			}

			report.NewConsole(out, root.useColors(out)).Finding(pageURL, finding, severity)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}
