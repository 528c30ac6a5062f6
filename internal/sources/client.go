// Package sources fetches report data from the upstream report endpoints.
//
// Client is the raw HTTP adapter and reports every failure. Adapter wraps a
// Fetcher so that a failed fetch settles to an empty result instead.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"agriconsole/internal/config"
	apperrors "agriconsole/internal/errors"
	"agriconsole/pkg/contracts/domain"
)

// maxErrorBody caps how much of a failed response is kept for logging
const maxErrorBody = 512

// Fetcher loads one report
type Fetcher interface {
	Fetch(ctx context.Context, req domain.ReportRequest) (*domain.ReportResult, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context, req domain.ReportRequest) (*domain.ReportResult, error)

// Fetch calls f
func (f FetcherFunc) Fetch(ctx context.Context, req domain.ReportRequest) (*domain.ReportResult, error) {
	return f(ctx, req)
}

// Client talks to GET {base}/reports/{kind}
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient builds a report client from configuration
func NewClient(cfg config.ReportsConfig, logger *slog.Logger, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, apperrors.NewConfigError("invalid reports base url", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		baseURL: base,
		token:   cfg.Token,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger.With(slog.String("component", "report_client")),
	}
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// URL builds the request URL for a report
func (c *Client) URL(req domain.ReportRequest) string {
	u := *c.baseURL
	u.Path = u.Path + "/reports/" + string(req.Kind)

	q := url.Values{}
	q.Set("fromDate", req.Range.FromString())
	q.Set("toDate", req.Range.ToString())
	if req.DistributorID != nil {
		q.Set("distributorId", strconv.Itoa(*req.DistributorID))
	}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// envelope is the upstream response shape: {data: {summary?, data: []}}
type envelope struct {
	Data struct {
		Summary map[string]any `json:"summary"`
		Data    []domain.Row   `json:"data"`
	} `json:"data"`
}

// Fetch performs one report request. Every failure is returned as an error.
func (c *Client) Fetch(ctx context.Context, req domain.ReportRequest) (*domain.ReportResult, error) {
	if !req.Kind.Valid() {
		return nil, apperrors.NewSourceError(string(req.Kind), fmt.Errorf("unknown report kind"))
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, apperrors.NewSourceError(string(req.Kind), err)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(req), nil)
	if err != nil {
		return nil, apperrors.NewSourceError(string(req.Kind), err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, apperrors.NewNetworkError("report request failed", err).WithContext("kind", string(req.Kind))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, apperrors.NewSourceError(string(req.Kind),
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))).
			WithContext("status", resp.StatusCode)
	}

	return decode(resp.Body)
}

// decode normalizes the response body. Summary values that are not numbers
// are read as 0.
func decode(r io.Reader) (*domain.ReportResult, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var env envelope
	if err := dec.Decode(&env); err != nil {
		return nil, apperrors.NewParsingError("decode report response", err)
	}

	result := domain.EmptyResult()
	for k, v := range env.Data.Summary {
		result.Summary[k] = domain.ParseNumber(v)
	}
	for _, row := range env.Data.Data {
		if row != nil {
			result.Rows = append(result.Rows, row)
		}
	}
	return result, nil
}
