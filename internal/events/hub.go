package events

import "sync"

// Hub fans out table-change hints to subscribed sessions. A hint only
// says "this table changed"; consumers re-fetch the full dataset, so
// pending hints for the same table coalesce into one.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[int]chan struct{}
	next int
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]chan struct{})}
}

// Subscribe registers interest in a table and returns a hint channel
// plus an unsubscribe function. The channel is buffered with size one;
// a hint already pending makes further publishes no-ops.
func (h *Hub) Subscribe(table string) (<-chan struct{}, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[table] == nil {
		h.subs[table] = make(map[int]chan struct{})
	}
	id := h.next
	h.next++
	ch := make(chan struct{}, 1)
	h.subs[table][id] = ch

	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[table], id)
	}
	return ch, unsubscribe
}

// Publish notifies every subscriber of the table. Never blocks: a
// subscriber that has not drained its pending hint is skipped.
func (h *Hub) Publish(table string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[table] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
