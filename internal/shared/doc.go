// Package shared holds helpers used across internal packages.
//
// testutil captures slog records so tests can assert what the dashboard
// engine logged without parsing JSON output.
package shared
