package websocket

import (
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/gorilla/websocket"

	"agriconsole/internal/infrastructure"
)

// NewUpgrader returns an upgrader accepting same-origin requests and the
// listed origins. A "*" entry accepts any origin.
func NewUpgrader(allowedOrigins []string) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			if slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin) {
				return true
			}
			u, err := url.Parse(origin)
			return err == nil && strings.EqualFold(u.Host, r.Host)
		},
	}
}

// Handler upgrades HTTP requests and attaches the resulting clients to a hub
type Handler struct {
	hub      *Hub
	upgrader *websocket.Upgrader
}

// NewHandler creates a websocket endpoint handler
func NewHandler(hub *Hub, allowedOrigins []string) *Handler {
	return &Handler{hub: hub, upgrader: NewUpgrader(allowedOrigins)}
}

// ServeHTTP handles websocket requests from the peer
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := infrastructure.EnsureTraceID(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.hub.logger.WarnContext(ctx, "WebSocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("remote_addr", r.RemoteAddr))
		return
	}

	client := NewClient(h.hub, conn, r.RemoteAddr, infrastructure.GetTraceID(ctx))
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
