package handlers_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/screeningscheduler/backend/internal/adapters/memory"
	"github.com/zatekoja/screeningscheduler/backend/internal/api/handlers"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/entities"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/providers"
)

// readEvent returns the next SSE event name
func readEvent(t *testing.T, scanner *bufio.Scanner) string {
	t.Helper()
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "event: ") {
			return strings.TrimPrefix(line, "event: ")
		}
	}
	t.Fatalf("stream ended: %v", scanner.Err())
	return ""
}

func TestSlotEventsHandler_StreamSlotEvents(t *testing.T) {
	t.Run("streams booked events for the requested type", func(t *testing.T) {
		bus := memory.NewEventBus()
		handler := handlers.NewSlotEventsHandler(bus).WithHeartbeatInterval(time.Hour)
		server := httptest.NewServer(http.HandlerFunc(handler.StreamSlotEvents))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"?examinationTypeId=t1", nil)
		require.NoError(t, err)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

		scanner := bufio.NewScanner(resp.Body)
		assert.Equal(t, "connected", readEvent(t, scanner))
		assert.Equal(t, 1, handler.ClientCount())

		require.NoError(t, bus.Publish(context.Background(), providers.GetExaminationTypeChannel("t1"), &entities.SlotEvent{
			ID:     "e1",
			Type:   entities.SlotEventBooked,
			SlotID: "s1",
		}))

		assert.Equal(t, string(entities.SlotEventBooked), readEvent(t, scanner))
	})

	t.Run("sends heartbeats", func(t *testing.T) {
		handler := handlers.NewSlotEventsHandler(memory.NewEventBus()).WithHeartbeatInterval(10 * time.Millisecond)
		server := httptest.NewServer(http.HandlerFunc(handler.StreamSlotEvents))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
		require.NoError(t, err)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		assert.Equal(t, "connected", readEvent(t, scanner))
		assert.Equal(t, "heartbeat", readEvent(t, scanner))
	})

	t.Run("unavailable without an event bus", func(t *testing.T) {
		handler := handlers.NewSlotEventsHandler(nil)
		rec := httptest.NewRecorder()

		handler.StreamSlotEvents(rec, httptest.NewRequest(http.MethodGet, "/api/slots/events", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
