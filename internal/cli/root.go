// Package cli contains the dashctl commands. dashctl runs one aggregation
// cycle against the report sources and writes exports or chart snapshots
// to disk, optionally archiving them.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"agriconsole/internal/app"
	"agriconsole/internal/config"
	"agriconsole/internal/infrastructure"
	"agriconsole/internal/services"
	"agriconsole/pkg/contracts"
	api "agriconsole/pkg/contracts/api/v1"
	"agriconsole/pkg/contracts/domain"
)

// Options are the injectable collaborators of the CLI
type Options struct {
	// LoadConfig defaults to config.Load
	LoadConfig func() (*config.Config, error)
	// Deps are passed to app.BuildDashboard
	Deps app.DashboardDeps
	// Stderr receives logs; defaults to os.Stderr
	Stderr io.Writer
	// Paths resolves the default output directories; defaults to config.GetPaths
	Paths func() (*config.Paths, error)
}

// filterFlags are shared by every command that runs a cycle
type filterFlags struct {
	from        string
	to          string
	distributor int
	out         string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "End date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&f.distributor, "distributor", 0, "Distributor id (default: all distributors)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Output directory (default: the data directory next to the executable)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
}

// filter validates the flags the same way the HTTP API validates its query
func (f *filterFlags) filter() (domain.Filter, error) {
	q := api.DashboardQuery{From: f.from, To: f.to}
	if f.distributor != 0 {
		if f.distributor < 0 {
			return domain.Filter{}, fmt.Errorf("--distributor must be positive")
		}
		id := f.distributor
		q.DistributorID = &id
	}
	filter, err := q.Filter()
	if err != nil {
		return domain.Filter{}, err
	}
	if filter.Range.To.Before(filter.Range.From) {
		return domain.Filter{}, fmt.Errorf("--to must not be before --from")
	}
	return filter, nil
}

// outDir returns --out, or the directory pick selects from the application
// paths when --out was not given. The directory is created.
func (f *filterFlags) outDir(paths func() (*config.Paths, error), pick func(*config.Paths) string) (string, error) {
	dir := f.out
	if dir == "" {
		p, err := paths()
		if err != nil {
			return "", err
		}
		if err := p.EnsureDirectories(); err != nil {
			return "", err
		}
		dir = pick(p)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	return dir, nil
}

// NewRootCommand builds the dashctl command tree
func NewRootCommand(opts Options) *cobra.Command {
	if opts.LoadConfig == nil {
		opts.LoadConfig = config.Load
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Paths == nil {
		opts.Paths = config.GetPaths
	}

	var verbose bool
	root := &cobra.Command{
		Use:   "dashctl",
		Short: "Export the sales analytics dashboard from the command line",
		Long: `dashctl aggregates the report sources for a date range and writes the
same exports and chart snapshots the web dashboard offers.

Examples:
  dashctl export --from 2024-04-01 --to 2024-04-30 --format csv,xlsx -o out/
  dashctl export --from 2024-04-01 --to 2024-04-30 --format pdf --archive
  dashctl snapshot --from 2024-04-01 --to 2024-04-30 --chart sales-trend --image png`,
		Version:       contracts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// build loads configuration and assembles the engine for one run
	build := func(ctx context.Context) (*services.DashboardService, *slog.Logger, error) {
		cfg, err := opts.LoadConfig()
		if err != nil {
			return nil, nil, err
		}
		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		logger := infrastructure.WithComponent(infrastructure.NewLogger(opts.Stderr, level), "dashctl")
		svc, err := app.BuildDashboard(ctx, cfg, logger, opts.Deps)
		if err != nil {
			return nil, nil, err
		}
		return svc, logger, nil
	}

	root.AddCommand(newExportCommand(build, opts.Paths), newSnapshotCommand(build, opts.Paths))
	return root
}

// Execute runs dashctl with default options
func Execute() {
	if err := NewRootCommand(Options{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
