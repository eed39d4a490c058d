package sse

import (
	"sync"
)

// Event is one sync event pushed to dashboard subscribers.
type Event struct {
	Topic string
	Event string
	Data  interface{}
}

// TopicAll receives every published event.
const TopicAll = "*"

// Hub fans sync events out to SSE subscribers. Dashboards subscribe to
// a job id or to TopicAll for the whole fleet.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a subscriber for a topic and returns the event
// channel and a cleanup function.
func (h *Hub) Subscribe(topic string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 10)
	if h.subscribers[topic] == nil {
		h.subscribers[topic] = make(map[chan Event]struct{})
	}
	h.subscribers[topic][ch] = struct{}{}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subscribers[topic], ch)
		close(ch)
		if len(h.subscribers[topic]) == 0 {
			delete(h.subscribers, topic)
		}
	}
	return ch, cleanup
}

// Publish sends an event to the topic's subscribers and to TopicAll.
// Sends are non-blocking: a subscriber with a full channel misses the
// event rather than stalling the publisher.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, topic := range []string{event.Topic, TopicAll} {
		if topic == "" || (topic == TopicAll && event.Topic == TopicAll) {
			continue
		}
		for ch := range h.subscribers[topic] {
			select {
			case ch <- event:
			default:
			}
		}
	}
}

// SubscriberCount returns the number of active subscribers for a topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[topic])
}
