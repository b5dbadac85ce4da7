package kafka

import (
	"context"
	"fmt"
	"sort"
)

// HandlerFunc processes one decoded message payload.
type HandlerFunc func(ctx context.Context, payload []byte) error

// Router is the static topic-to-handler table. It is populated once at
// process start; there is no runtime discovery or rebinding.
type Router struct {
	handlers map[string]HandlerFunc
}

// NewRouter creates an empty routing table.
func NewRouter() *Router {
	return &Router{handlers: make(map[string]HandlerFunc)}
}

// Register binds a topic to a handler. Registering a topic twice is a
// programming error and panics at startup, before any message flows.
func (r *Router) Register(topic string, h HandlerFunc) *Router {
	if _, dup := r.handlers[topic]; dup {
		panic(fmt.Sprintf("kafka: duplicate handler for topic %q", topic))
	}
	r.handlers[topic] = h
	return r
}

// Lookup resolves the handler for a topic, routing retry and dead-letter
// variants to the base topic's handler.
func (r *Router) Lookup(topic string) (HandlerFunc, bool) {
	h, ok := r.handlers[baseTopic(topic)]
	return h, ok
}

// Topics returns the registered base topics in stable order.
func (r *Router) Topics() []string {
	topics := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics
}
