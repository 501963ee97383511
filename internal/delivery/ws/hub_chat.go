package ws

import (
	"github.com/mmuslimabdulj/goat-call/internal/domain"
	"github.com/mmuslimabdulj/goat-call/internal/metrics"
)

// AppendMessage stores msg and broadcasts it to the room
func (h *Hub) AppendMessage(msg domain.ChatMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.appendLocked(msg)
}

// Replay sends every stored message, oldest first, to c only
func (h *Hub) Replay(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.replayLocked(c)
}

// History returns a snapshot of stored messages
func (h *Hub) History() []domain.ChatMessage {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.history.All()
}

// Typing broadcasts a typing indicator. Nothing is stored.
func (h *Hub) Typing(username string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcastLocked(domain.EventTyping, domain.TypingPayload{Username: username})
}

// StopTyping broadcasts the end of a typing indicator
func (h *Hub) StopTyping(username string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcastLocked(domain.EventStopTyping, domain.TypingPayload{Username: username})
}

func (h *Hub) appendLocked(msg domain.ChatMessage) {
	h.history.Add(msg)
	metrics.MessagesPosted.WithLabelValues(string(msg.Kind)).Inc()
	h.broadcastLocked(domain.EventMessage, msg)
}

func (h *Hub) replayLocked(c Conn) {
	for _, msg := range h.history.All() {
		h.sendTo(c, domain.EventMessage, msg)
	}
}
