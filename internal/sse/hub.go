// Package sse fans rendered documents out to browser event streams.
package sse

import (
	"encoding/json"
	"sync"
)

type Hub struct {
	mu     sync.RWMutex
	subs   map[chan []byte]struct{}
	latest string
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan []byte]struct{})}
}

// Subscribe registers a stream. The returned function removes it and closes
// the channel; it must be called exactly once.
func (h *Hub) Subscribe() (chan []byte, func()) {
	ch := make(chan []byte, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
		close(ch)
	}
}

// Publish stores html as the latest render and sends it to every subscriber
// as a "render" event. Slow subscribers miss frames rather than block the
// caller.
func (h *Hub) Publish(html string) {
	payload := Frame(html)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = html
	for ch := range h.subs {
		select {
		case ch <- payload:
		default:
		}
	}
}

// Latest returns the most recent published render.
func (h *Hub) Latest() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

// Subscribers reports how many streams are attached.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Frame encodes html as one server-sent event.
func Frame(html string) []byte {
	data, _ := json.Marshal(struct {
		HTML string `json:"html"`
	}{html})
	out := make([]byte, 0, len(data)+24)
	out = append(out, "event: render\ndata: "...)
	out = append(out, data...)
	return append(out, "\n\n"...)
}
