// Package events contains the WebSocket event contract of the dashboard.
package events

import (
	"time"

	"agriconsole/pkg/contracts/domain"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// MessageTypeConnection greets a newly connected client
	MessageTypeConnection MessageType = "connection"

	// MessageTypeDashboardLoading is sent when a cycle starts
	MessageTypeDashboardLoading MessageType = "dashboard:loading"

	// MessageTypeDashboardReady is sent once every source settled and the
	// render pass for the newest generation has run
	MessageTypeDashboardReady MessageType = "dashboard:ready"
)

// WebSocketMessage represents a complete WebSocket message
type WebSocketMessage struct {
	Type      MessageType `json:"type"`
	Data      any         `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// DashboardLoading announces a cycle in flight
type DashboardLoading struct {
	ID         string `json:"id"`
	Generation uint64 `json:"generation"`
	From       string `json:"from"`
	To         string `json:"to"`
}

// DashboardReady announces a published state
type DashboardReady struct {
	ID         string              `json:"id"`
	Generation uint64              `json:"generation"`
	From       string              `json:"from"`
	To         string              `json:"to"`
	Defaulted  []domain.ReportKind `json:"defaulted,omitempty"`
	DurationMS int64               `json:"duration_ms"`
	Charts     []string            `json:"charts"`
}
