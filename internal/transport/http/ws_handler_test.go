package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repeater-test-service/internal/domain"
)

func TestWSHandlerStreamsGradedResults(t *testing.T) {
	service := newTestService(t)
	handler := NewWSHandler(service, nil)

	srv := httptest.NewServer(http.HandlerFunc(handler.ServeWS))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// Give the handler a moment to register its subscription.
	time.Sleep(50 * time.Millisecond)
	service.Feed().Publish(domain.GradedResult{
		ParticipantID:  "101",
		InstanceID:     "2200",
		PartOnePercent: 75,
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg outboundMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "graded", msg.Type)
	assert.Equal(t, "101", msg.Payload.ParticipantID)
	assert.Equal(t, 75, msg.Payload.PartOnePercent)
}
