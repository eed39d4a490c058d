package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/servicepro/fieldsync-go/internal/handler/http/middleware"
	"github.com/servicepro/fieldsync-go/internal/handler/http/response"
	"github.com/servicepro/fieldsync-go/internal/pkg/jwt"
	"github.com/servicepro/fieldsync-go/internal/pkg/sse"
)

type EventsHandler interface {
	Stream(w http.ResponseWriter, r *http.Request)
	Token(w http.ResponseWriter, r *http.Request)
}

type eventsHandlerImpl struct {
	hub        *sse.Hub
	jwtService jwt.Service
}

func NewEventsHandler(hub *sse.Hub, jwtService jwt.Service) EventsHandler {
	return &eventsHandlerImpl{hub: hub, jwtService: jwtService}
}

// Token issues a short-lived SSE token for the authenticated caller.
// EventSource cannot set Authorization headers, so the stream endpoint
// authenticates via this token in the query string instead.
func (h *eventsHandlerImpl) Token(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "missing identity")
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(identity.TechnicianID)
	if err != nil {
		response.InternalServerError(w, "Failed to issue stream token")
		return
	}
	response.Success(w, map[string]any{"token": token, "expires_in": expiresIn})
}

// Stream pushes check-in sync events. ?topic= selects one job id;
// absent means the whole fleet.
func (h *eventsHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	if _, err := h.jwtService.ValidateSSEToken(r.URL.Query().Get("token")); err != nil {
		response.Unauthorized(w, "invalid stream token")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	topic := r.URL.Query().Get("topic")
	if topic == "" {
		topic = sse.TopicAll
	}
	ch, cleanup := h.hub.Subscribe(topic)
	defer cleanup()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-ch:
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()
		}
	}
}
