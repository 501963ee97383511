package ws

import "github.com/mmuslimabdulj/goat-call/internal/domain"

// History is a room's append-only message log, oldest first.
// With a positive capacity it behaves as a ring buffer and drops the oldest
// message on overflow; with capacity <= 0 it grows without limit.
type History struct {
	data []domain.ChatMessage
	head int // next write position (ring mode only)
	size int // current number of elements
	cap  int // maximum capacity, <= 0 means unbounded
}

// NewHistory creates a history with the given capacity
func NewHistory(capacity int) *History {
	h := &History{cap: capacity}
	if capacity > 0 {
		h.data = make([]domain.ChatMessage, capacity)
	}
	return h
}

// Add appends a message, overwriting the oldest if a capped history is full
func (h *History) Add(msg domain.ChatMessage) {
	if h.cap <= 0 {
		h.data = append(h.data, msg)
		h.size++
		return
	}

	h.data[h.head] = msg
	h.head = (h.head + 1) % h.cap

	if h.size < h.cap {
		h.size++
	}
}

// All returns a copy of every stored message in insertion order
func (h *History) All() []domain.ChatMessage {
	if h.size == 0 {
		return nil
	}

	result := make([]domain.ChatMessage, h.size)

	if h.cap <= 0 || h.size < h.cap {
		// Not wrapped yet, elements are at indices 0..size-1
		copy(result, h.data[:h.size])
	} else {
		// Full ring, head points to oldest element
		copy(result, h.data[h.head:])
		copy(result[h.cap-h.head:], h.data[:h.head])
	}

	return result
}

// Len returns the current number of messages
func (h *History) Len() int {
	return h.size
}

// Clear removes all messages
func (h *History) Clear() {
	h.head = 0
	h.size = 0
	if h.cap <= 0 {
		h.data = nil
		return
	}
	for i := range h.data {
		h.data[i] = domain.ChatMessage{}
	}
}
