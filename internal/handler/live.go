package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/eventgate/checkin-server-go/internal/errors"
	"github.com/eventgate/checkin-server-go/internal/repository"
	"github.com/eventgate/checkin-server-go/internal/sse"
)

// LiveFeedHandler streams check-in notifications for one event over SSE.
type LiveFeedHandler struct {
	broker *sse.Broker
	events repository.EventRepository
}

func NewLiveFeedHandler(broker *sse.Broker, events repository.EventRepository) *LiveFeedHandler {
	return &LiveFeedHandler{broker: broker, events: events}
}

func (h *LiveFeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	event, err := h.events.FindByID(r.Context(), eventID)
	if err != nil {
		writeError(w, apperrors.Database(err))
		return
	}
	if event == nil {
		writeError(w, apperrors.EventNotFound(eventID))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, apperrors.Internal("Streaming not supported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	client := h.broker.Subscribe(eventID)
	defer h.broker.Unsubscribe(client)

	log.Info().Str("eventId", eventID).Msg("live feed connection established")

	fmt.Fprintf(w, "event: connected\ndata: {\"eventId\":%q}\n\n", eventID)
	flusher.Flush()

	heartbeat := time.NewTicker(sse.HeartbeatInterval)
	defer heartbeat.Stop()

	ctx := r.Context()

	for {
		select {
		case <-ctx.Done():
			return

		case <-client.Done:
			return

		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()

		case n := <-client.Notifications:
			data, err := json.Marshal(n)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", n.Type, data)
			flusher.Flush()
		}
	}
}
