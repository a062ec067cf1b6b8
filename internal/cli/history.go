package cli

import (
	"encoding/json"
	"fmt"

	"seo_auditor/internal/adaptors"
	"seo_auditor/internal/pkg/errors"
	"seo_auditor/internal/report"

	"github.com/spf13/cobra"
)

func newHistoryCommand(root *rootOptions) *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past audits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return errors.New("--limit must be at least 1")
			}

			ctx := cmd.Context()
			store, err := adaptors.OpenSQLiteStore(ctx, root.cfg.DBDir, root.log)
			if err != nil {
				return err
			}
			defer store.Close()

			audits, err := store.List(ctx, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(audits)
			}
			if len(audits) == 0 {
				fmt.Fprintln(out, "No audits recorded yet.")
				return nil
			}
			report.NewConsole(out, root.useColors(out)).Audits(audits)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of audits to list")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	cmd.AddCommand(newHistoryExportCommand(root))
	return cmd
}

func newHistoryExportCommand(root *rootOptions) *cobra.Command {
	var (
		format    string
		outputDir string
		open      bool
	)

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Write a report for a past audit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			if outputDir == "" {
				outputDir = root.cfg.OutputDir
			}

			ctx := cmd.Context()
			store, err := adaptors.OpenSQLiteStore(ctx, root.cfg.DBDir, root.log)
			if err != nil {
				return err
			}
			defer store.Close()

			audit, err := store.Get(ctx, args[0])
			if errors.Is(err, errors.ErrNotFound) {
				return errors.New(fmt.Sprintf("no audit with id %q", args[0]))
			}
			if err != nil {
				return err
			}

			path, err := report.WriteFile(outputDir, audit, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report saved: %s\n", path)

			if open {
				if err := report.OpenInBrowser(path); err != nil {
					root.log.WithError(err).Warn(`failed to open report`)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatHTML), "report format: csv, html, markdown, json, yaml")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "report directory (default from SEO_OUTPUT_DIR)")
	cmd.Flags().BoolVar(&open, "open", false, "open the report with the default application")
	return cmd
}
