package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"agriconsole/internal/config"
	"agriconsole/internal/exporter"
	"agriconsole/internal/services"
	api "agriconsole/pkg/contracts/api/v1"
)

type buildFunc func(ctx context.Context) (*services.DashboardService, *slog.Logger, error)

func newExportCommand(build buildFunc, paths func() (*config.Paths, error)) *cobra.Command {
	var (
		flags   filterFlags
		formats []string
		archive bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write dashboard exports for a date range",
		Long: `Run one aggregation cycle and write the requested exports.

Formats:
  csv     analytics_data_{from}_to_{to}.csv
  xls     spreadsheet markup, analytics_report_{from}_to_{to}.xls
  xlsx    workbook with one sheet per section
  print   standalone print document (.html)
  pdf     print document rendered by headless Chrome

With --archive each file is also copied to the configured bucket and the
object locations are printed as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := flags.filter()
			if err != nil {
				return err
			}
			parsed := make([]exporter.Format, 0, len(formats))
			for _, f := range formats {
				format, err := exporter.ParseFormat(f)
				if err != nil {
					return fmt.Errorf("%w (want one of %s)", err, formatList())
				}
				parsed = append(parsed, format)
			}

			ctx := cmd.Context()
			svc, logger, err := build(ctx)
			if err != nil {
				return err
			}
			dir, err := flags.outDir(paths, func(p *config.Paths) string { return p.ExportsDir })
			if err != nil {
				return err
			}

			p := svc.Load(ctx, filter)
			var archived []api.ArchiveResponse
			for _, format := range parsed {
				result, err := svc.Export(ctx, p, format, archive)
				if err != nil {
					return err
				}
				path := filepath.Join(dir, result.Artifact.Filename)
				if err := os.WriteFile(path, result.Artifact.Body, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				logger.InfoContext(ctx, "Export written",
					slog.String("format", string(format)),
					slog.String("path", path),
					slog.Int("bytes", len(result.Artifact.Body)))
				fmt.Fprintln(cmd.OutOrStdout(), path)

				if result.Archived != nil {
					archived = append(archived, api.ArchiveResponse{
						Filename: result.Artifact.Filename,
						URI:      result.Archived.URI(),
						Size:     result.Archived.Size,
					})
				}
			}

			if len(archived) > 0 {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(archived)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringSliceVarP(&formats, "format", "f", []string{string(exporter.FormatCSV)}, "Export formats ("+formatList()+")")
	cmd.Flags().BoolVar(&archive, "archive", false, "Copy each export to the configured archive bucket")
	return cmd
}

func formatList() string {
	names := make([]string, len(exporter.Formats))
	for i, f := range exporter.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, "|")
}
