package services

import (
	"context"
	"log/slog"

	"agriconsole/internal/archive"
	apierrors "agriconsole/internal/errors"
	"agriconsole/internal/exporter"
)

// ExportResult is a produced artifact and, when requested, its archived copy
type ExportResult struct {
	Artifact *exporter.Artifact
	Archived *archive.Object
}

// Export serializes a published state. Formats that embed charts get the
// views drawn by the render pass. With archive set the artifact is also
// stored; an archive failure fails the export.
func (s *DashboardService) Export(ctx context.Context, p *Published, format exporter.Format, archiveCopy bool) (*ExportResult, error) {
	if archiveCopy && s.archiver == nil {
		return nil, ErrArchiveDisabled
	}

	var images []exporter.ChartImage
	if format.NeedsCharts() {
		images = p.ChartImages()
	}

	artifact, err := s.exports.Export(ctx, format, p.State, images)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordExport(ctx, string(format))

	result := &ExportResult{Artifact: artifact}
	if !archiveCopy {
		return result, nil
	}

	obj, err := s.archiver.Archive(ctx, p.State.Range(), artifact)
	if err != nil {
		return nil, apierrors.NewStorageError("archive "+artifact.Filename, err)
	}
	s.logger.InfoContext(ctx, "Export archived",
		slog.String("filename", artifact.Filename),
		slog.String("uri", obj.URI()))
	result.Archived = obj
	return result, nil
}
