package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/providers"
)

const defaultHeartbeatInterval = 30 * time.Second

// SlotEventsHandler streams slot pool changes as Server-Sent Events
type SlotEventsHandler struct {
	eventBus          providers.EventBus
	heartbeatInterval time.Duration
	clients           map[string]int
	mu                sync.RWMutex
}

// NewSlotEventsHandler creates a new slot events handler
func NewSlotEventsHandler(eventBus providers.EventBus) *SlotEventsHandler {
	return &SlotEventsHandler{
		eventBus:          eventBus,
		heartbeatInterval: defaultHeartbeatInterval,
		clients:           make(map[string]int),
	}
}

// WithHeartbeatInterval overrides how often idle streams receive a heartbeat
func (h *SlotEventsHandler) WithHeartbeatInterval(interval time.Duration) *SlotEventsHandler {
	h.heartbeatInterval = interval
	return h
}

// StreamSlotEvents handles GET /api/slots/events.
// The optional examinationTypeId query parameter narrows the stream to one examination type.
func (h *SlotEventsHandler) StreamSlotEvents(w http.ResponseWriter, r *http.Request) {
	if h.eventBus == nil {
		respondWithError(w, http.StatusServiceUnavailable, "slot events are not available")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	channel := providers.EventChannelSlotUpdates
	typeID := r.URL.Query().Get("examinationTypeId")
	if typeID != "" {
		channel = providers.GetExaminationTypeChannel(typeID)
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	eventChan, err := h.eventBus.Subscribe(ctx, channel)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("Failed to subscribe to slot events")
		respondWithError(w, http.StatusInternalServerError, "failed to subscribe to slot events")
		return
	}

	h.registerClient(channel)
	defer h.unregisterClient(channel)

	// Streams outlive the server write timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	h.sendEvent(w, "connected", map[string]interface{}{
		"channel":   channel,
		"timestamp": time.Now(),
	})
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("channel", channel).Msg("Client disconnected from slot stream")
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now(),
			})
			flusher.Flush()
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			h.sendEvent(w, string(event.Type), event)
			flusher.Flush()
		}
	}
}

// ClientCount returns the number of connected streams
func (h *SlotEventsHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, n := range h.clients {
		count += n
	}
	return count
}

func (h *SlotEventsHandler) registerClient(channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[channel]++
}

func (h *SlotEventsHandler) unregisterClient(channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[channel]--
	if h.clients[channel] <= 0 {
		delete(h.clients, channel)
	}
}

func (h *SlotEventsHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal event data")
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}
