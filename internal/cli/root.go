// Package cli holds the seo-auditor command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seo_auditor/internal/application/config"
	"seo_auditor/internal/pkg/errors"
	"seo_auditor/internal/service"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const noPagesMessage = "No pages found. Check your URL or site accessibility."

type rootOptions struct {
	verbose bool
	noColor bool

	cfg *config.AppConfig
	log *log.Logger
}

// NewRootCommand builds the command tree. Each call returns independent
// commands and flag state.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   config.AppName,
		Short: "SEO auditor for WordPress sites",
		Long: `seo-auditor discovers every published post and page of a WordPress site
through its REST API, checks each one against on-page SEO rules and ranks
the results by severity.

Example usage:
  seo-auditor audit example.com            # Audit a site, write CSV and HTML reports
  seo-auditor audit --format md --open     # Prompt for the site, add Markdown, open HTML
  seo-auditor analyze https://example.com/hello-world/
  seo-auditor history                      # List past audits
  seo-auditor serve                        # Run the HTTP API`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable coloured output")

	cmd.AddCommand(
		newAuditCommand(opts),
		newAnalyzeCommand(opts),
		newServeCommand(opts),
		newHistoryCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), errorMessage(err))
		return 1
	}
	return 0
}

func errorMessage(err error) string {
	if errors.Is(err, service.ErrNoPages) {
		return noPagesMessage
	}
	return "Error: " + errors.Summary(err)
}

func (o *rootOptions) init(logOut io.Writer) error {
	cfg, err := config.NewAppConfig()
	if err != nil {
		return errors.Wrap(err, `failed to load config`)
	}

	levelName := cfg.EffectiveLogLevel()
	if o.verbose {
		levelName = log.DebugLevel.String()
	}
	level, err := log.ParseLevel(levelName)
	if err != nil {
		return errors.Wrap(err, `failed to parse log level`)
	}

	o.cfg = cfg
	o.log = newLogger(logOut, level)
	o.log.WithFields(log.Fields{
		"workers":  cfg.Workers,
		"per_page": cfg.PerPage,
		"db_dir":   cfg.DBDir,
	}).Debug(`configuration loaded`)
	return nil
}

// newLogger logs as text so stdout stays free for reports.
func newLogger(out io.Writer, level log.Level) *log.Logger {
	logger := log.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	logger.SetFormatter(&log.TextFormatter{
		TimestampFormat: time.RFC3339,
		FullTimestamp:   true,
	})
	return logger
}

func (o *rootOptions) useColors(out io.Writer) bool {
	if o.noColor || color.NoColor {
		return false
	}
	return out == os.Stdout
}
