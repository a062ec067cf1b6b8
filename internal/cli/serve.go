package cli

import (
	"time"

	"seo_auditor/internal/application"
	apihttp "seo_auditor/internal/http"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with metrics and pprof servers",
		Long: `Serve exposes /ready, /analyze, /audit and /audits over HTTP. Server settings
are read from HTTP_SERVER_HOST and the HTTP_APP_*_TIMEOUT_DURATION variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root.log.SetFormatter(&log.JSONFormatter{
				TimestampFormat:   time.RFC3339,
				DisableHTMLEscape: true,
			})

			ctx := cmd.Context()
			app := application.New(ctx, root.log, root.cfg)
			defer func() {
				if err := app.Close(); err != nil {
					root.log.WithError(err).Warn(`failed to close resources`)
				}
			}()

			return apihttp.Init(ctx, root.log, root.cfg, app)
		},
	}
}
