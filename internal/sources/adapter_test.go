package sources

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agriconsole/internal/shared/testutil"
	"agriconsole/pkg/contracts/domain"
)

func TestAdapter_LoadSuccess(t *testing.T) {
	want := &domain.ReportResult{
		Summary: map[string]float64{},
		Rows:    []domain.Row{{domain.FieldCrop: "Paddy", domain.FieldTotalAmount: 10.0}},
	}
	a := NewAdapter(FetcherFunc(func(ctx context.Context, req domain.ReportRequest) (*domain.ReportResult, error) {
		return want, nil
	}), testLogger(), nil)

	got := a.Load(context.Background(), domain.ReportRequest{Kind: domain.KindCropSales, Range: testRange(t)})

	assert.False(t, got.Defaulted)
	assert.NoError(t, got.Err)
	assert.Same(t, want, got.Result)
	assert.Equal(t, domain.KindCropSales, got.Kind)
}

func TestAdapter_LoadDefaultsOnFailure(t *testing.T) {
	tests := []struct {
		name    string
		fetcher FetcherFunc
	}{
		{"error", func(ctx context.Context, req domain.ReportRequest) (*domain.ReportResult, error) {
			return nil, errors.New("connection reset")
		}},
		{"nil result", func(ctx context.Context, req domain.ReportRequest) (*domain.ReportResult, error) {
			return nil, nil
		}},
		{"panic", func(ctx context.Context, req domain.ReportRequest) (*domain.ReportResult, error) {
			panic("nil map write")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			a := NewAdapter(tt.fetcher, logger, nil)
			got := a.Load(context.Background(), domain.ReportRequest{Kind: domain.KindGSTAnalysis, Range: testRange(t)})

			assert.True(t, got.Defaulted)
			require.NotNil(t, got.Result)
			assert.Empty(t, got.Result.Rows)
			assert.NotNil(t, got.Result.Summary)

			r := testutil.AssertLogged(t, logs, slog.LevelWarn, "using empty result")
			assert.Equal(t, string(domain.KindGSTAnalysis), r.Attrs["kind"])
		})
	}
}
