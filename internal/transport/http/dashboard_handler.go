package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"agriconsole/internal/charts"
	apierrors "agriconsole/internal/errors"
	"agriconsole/internal/exporter"
	"agriconsole/internal/middleware"
	"agriconsole/internal/services"
	api "agriconsole/pkg/contracts/api/v1"
)

// DashboardHandler serves the dashboard, chart snapshots and exports
type DashboardHandler struct {
	service      DashboardService
	validator    *middleware.Validator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardService, validator *middleware.Validator, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "dashboard")),
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetDashboard)
	r.Get("/charts/{chart}", h.GetChart)
	r.Get("/export/{format}", h.GetExport)
	return r
}

// GetDashboard handles GET /api/dashboard. Every call runs a new cycle.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	_, filter, err := h.validator.DashboardQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	p := h.service.Load(r.Context(), filter)
	v := p.State.View()
	render.JSON(w, r, api.DashboardResponse{
		ID:          v.ID,
		Generation:  v.Generation,
		From:        v.From,
		To:          v.To,
		TrendFrom:   v.TrendFrom,
		Distributor: v.Distributor,
		Loading:     v.Loading,
		ChartsReady: v.ChartsReady,
		KPI:         v.KPI,
		Reports:     v.Reports,
		Defaulted:   v.Defaulted,
		Charts:      p.Charts(),
	})
}

// GetChart handles GET /api/dashboard/charts/{chart}
func (h *DashboardHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	dq, filter, err := h.validator.DashboardQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	q := api.ChartQuery{
		DashboardQuery: dq,
		Chart:          chi.URLParam(r, "chart"),
		Format:         r.URL.Query().Get("format"),
		Tab:            r.URL.Query().Get("tab"),
	}
	if err := h.validator.ValidateStruct(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if !services.IsSnapshotName(q.Chart) {
		h.errorHandler.HandleError(w, r, apierrors.UnknownChartError(q.Chart))
		return
	}
	if q.Format == "" {
		q.Format = services.ImageSVG
	}

	p := h.service.Get(r.Context(), filter)
	snap, err := h.service.Snapshot(r.Context(), p, q.Chart, q.Format, charts.Tab(q.Tab))
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(q.Chart, q.Format, err))
		return
	}

	writeFile(w, snap.ContentType, snap.Filename, "attachment", snap.Body)
}

// GetExport handles GET /api/dashboard/export/{format}
func (h *DashboardHandler) GetExport(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "format")
	format, err := exporter.ParseFormat(raw)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.UnknownFormatError(raw))
		return
	}

	dq, filter, err := h.validator.DashboardQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	q := api.ExportQuery{DashboardQuery: dq, Format: string(format)}
	if v := r.URL.Query().Get("archive"); v != "" {
		archive, err := strconv.ParseBool(v)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("archive", "archive must be true or false"))
			return
		}
		q.Archive = archive
	}
	if err := h.validator.ValidateStruct(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	p := h.service.Get(r.Context(), filter)
	result, err := h.service.Export(r.Context(), p, format, q.Archive)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapError("", q.Format, err))
		return
	}

	if result.Archived != nil {
		w.Header().Set("X-Archive-URI", result.Archived.URI())
	}
	disposition := "attachment"
	if format == exporter.FormatPrint {
		// Opened in a new tab and sent to the print dialog
		disposition = "inline"
	}
	a := result.Artifact
	writeFile(w, a.ContentType, a.Filename, disposition, a.Body)
}

// mapError translates engine errors to API errors
func (h *DashboardHandler) mapError(chart, format string, err error) error {
	switch {
	case errors.Is(err, exporter.ErrNoData):
		return apierrors.ErrNoData
	case errors.Is(err, exporter.ErrUnknownFormat):
		return apierrors.UnknownFormatError(format)
	case errors.Is(err, exporter.ErrRasterizerUnavailable):
		return apierrors.ErrRasterizerUnavailable
	case errors.Is(err, charts.ErrUnknownChart):
		return apierrors.UnknownChartError(chart)
	case errors.Is(err, services.ErrArchiveDisabled):
		return apierrors.ErrValidation("archive", err.Error())
	}
	var apiErr *apierrors.APIError
	var appErr *apierrors.AppError
	if errors.As(err, &apiErr) || errors.As(err, &appErr) {
		return err
	}
	if format != "" && chart == "" {
		return apierrors.ExportError(format, err)
	}
	return err
}

func writeFile(w http.ResponseWriter, contentType, filename, disposition string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
