package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"repeater-test-service/internal/app"
	"repeater-test-service/internal/domain"
)

// WSHandler streams graded results to admin dashboards as they happen.
type WSHandler struct {
	service  *app.ExamService
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.ExamService, logger *slog.Logger) *WSHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage struct {
	Type    string              `json:"type"`
	Payload domain.GradedResult `json:"payload"`
}

// ServeWS upgrades the request and forwards the result feed until the client
// goes away. All writes happen on this goroutine; the reader goroutine only
// watches for the close.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	results, cancel := h.service.Feed().Subscribe()
	defer cancel()

	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case result, ok := <-results:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(outboundMessage{Type: "graded", Payload: result}); err != nil {
				h.logger.Warn("ws write failed", "error", err)
				return
			}
		case <-clientGone:
			return
		}
	}
}
