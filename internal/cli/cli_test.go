package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agriconsole/internal/app"
	"agriconsole/internal/config"
	"agriconsole/internal/sources"
	"agriconsole/pkg/contracts/domain"
)

func testFetcher() sources.Fetcher {
	return sources.FetcherFunc(func(_ context.Context, req domain.ReportRequest) (*domain.ReportResult, error) {
		result := domain.EmptyResult()
		switch req.Kind {
		case domain.KindDailyTrend:
			result.Rows = []domain.Row{{"date": req.Range.ToString(), "totalSales": 1200.0, "totalInvoices": 3.0}}
		case domain.KindCategorySales:
			result.Rows = []domain.Row{{"category": "Fertilizer", "totalAmount": 1200.0, "totalQuantity": 8.0}}
		}
		return result, nil
	})
}

func emptyFetcher() sources.Fetcher {
	return sources.FetcherFunc(func(context.Context, domain.ReportRequest) (*domain.ReportResult, error) {
		return domain.EmptyResult(), nil
	})
}

func run(t *testing.T, fetcher sources.Fetcher, args ...string) (string, error) {
	t.Helper()
	return runWithPaths(t, fetcher, config.NewPaths(t.TempDir()), args...)
}

func runWithPaths(t *testing.T, fetcher sources.Fetcher, paths *config.Paths, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(Options{
		LoadConfig: func() (*config.Config, error) { return config.Default(), nil },
		Deps:       app.DashboardDeps{Fetcher: fetcher},
		Stderr:     io.Discard,
		Paths:      func() (*config.Paths, error) { return paths, nil },
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExport_WritesFiles(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, testFetcher(), "export",
		"--from", "2024-04-01", "--to", "2024-04-30",
		"--format", "csv,xls,print", "-o", dir)
	require.NoError(t, err)

	for _, name := range []string{
		"analytics_data_2024-04-01_to_2024-04-30.csv",
		"analytics_report_2024-04-01_to_2024-04-30.xls",
		"analytics_report_2024-04-01_to_2024-04-30.html",
	} {
		path := filepath.Join(dir, name)
		assert.FileExists(t, path)
		assert.Contains(t, out, path)
	}

	csv, err := os.ReadFile(filepath.Join(dir, "analytics_data_2024-04-01_to_2024-04-30.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(csv), "Fertilizer")
}

func TestExport_DefaultOutputDir(t *testing.T) {
	paths := config.NewPaths(t.TempDir())

	_, err := runWithPaths(t, testFetcher(), paths, "export", "--from", "2024-04-01", "--to", "2024-04-30")
	require.NoError(t, err)
	assert.FileExists(t, paths.GetExportPath("analytics_data_2024-04-01_to_2024-04-30.csv"))

	_, err = runWithPaths(t, testFetcher(), paths, "snapshot", "--from", "2024-04-01", "--to", "2024-04-30", "--chart", "sales-trend")
	require.NoError(t, err)
	assert.FileExists(t, paths.GetSnapshotPath("sales-trend_2024-04-01_to_2024-04-30.svg"))
}

func TestExport_Errors(t *testing.T) {
	tests := []struct {
		name    string
		fetcher sources.Fetcher
		args    []string
		errText string
	}{
		{
			name:    "unknown format",
			fetcher: testFetcher(),
			args:    []string{"export", "--from", "2024-04-01", "--to", "2024-04-30", "--format", "docx"},
			errText: "csv|xls|xlsx|print|pdf",
		},
		{
			name:    "reversed range",
			fetcher: testFetcher(),
			args:    []string{"export", "--from", "2024-04-30", "--to", "2024-04-01"},
			errText: "--to must not be before --from",
		},
		{
			name:    "bad date",
			fetcher: testFetcher(),
			args:    []string{"export", "--from", "04/01/2024", "--to", "2024-04-30"},
			errText: "parse from date",
		},
		{
			name:    "missing flags",
			fetcher: testFetcher(),
			args:    []string{"export"},
			errText: "required flag",
		},
		{
			name:    "no data",
			fetcher: emptyFetcher(),
			args:    []string{"export", "--from", "2024-04-01", "--to", "2024-04-30", "-o", "DIR"},
			errText: "no data",
		},
		{
			name:    "archive disabled",
			fetcher: testFetcher(),
			args:    []string{"export", "--from", "2024-04-01", "--to", "2024-04-30", "--archive", "-o", "DIR"},
			errText: "archive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			args := make([]string, len(tt.args))
			for i, a := range tt.args {
				args[i] = strings.ReplaceAll(a, "DIR", dir)
			}
			_, err := run(t, tt.fetcher, args...)
			require.Error(t, err)
			assert.Contains(t, strings.ToLower(err.Error()), strings.ToLower(tt.errText))
		})
	}
}

func TestSnapshot_AllCharts(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, testFetcher(), "snapshot",
		"--from", "2024-04-01", "--to", "2024-04-30", "-o", dir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "sales-trend_2024-04-01_to_2024-04-30.svg"))
	assert.FileExists(t, filepath.Join(dir, "category-sales_2024-04-01_to_2024-04-30.svg"))
	assert.FileExists(t, filepath.Join(dir, "state-map_2024-04-01_to_2024-04-30.svg"))

	body, err := os.ReadFile(filepath.Join(dir, "sales-trend_2024-04-01_to_2024-04-30.svg"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(string(body)), "<"))
	assert.NotEmpty(t, out)
}

func TestSnapshot_Validation(t *testing.T) {
	_, err := run(t, testFetcher(), "snapshot", "--from", "2024-04-01", "--to", "2024-04-30", "--chart", "radar")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "radar")

	_, err = run(t, testFetcher(), "snapshot", "--from", "2024-04-01", "--to", "2024-04-30", "--image", "gif")
	require.Error(t, err)

	_, err = run(t, testFetcher(), "snapshot", "--from", "2024-04-01", "--to", "2024-04-30", "--tab", "weather")
	require.Error(t, err)
}
