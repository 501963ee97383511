package ws

import (
	"github.com/mmuslimabdulj/goat-call/internal/domain"
)

// encode builds an envelope, logging instead of failing the caller
func (h *Hub) encode(t domain.EventType, payload any) []byte {
	data, err := domain.NewEnvelope(t, payload)
	if err != nil {
		h.log.Error().Err(err).Str("event", string(t)).Msg("encode envelope")
		return nil
	}
	return data
}

// sendTo delivers one event to a single connection
func (h *Hub) sendTo(c Conn, t domain.EventType, payload any) {
	if c == nil {
		return
	}
	if data := h.encode(t, payload); data != nil {
		c.Send(data)
	}
}

// sendToMemberLocked delivers one event to the connection bound to username in this room.
// Returns false when no live binding exists.
func (h *Hub) sendToMemberLocked(username string, t domain.EventType, payload any) bool {
	c, ok := h.registry.Lookup(h.roomCode, username)
	if !ok {
		return false
	}
	h.sendTo(c, t, payload)
	return true
}

// broadcastLocked delivers one event to every bound member of the room, once per connection.
// NOTE: Caller must hold h.mu
func (h *Hub) broadcastLocked(t domain.EventType, payload any) {
	data := h.encode(t, payload)
	if data == nil {
		return
	}

	seen := make(map[string]struct{}, len(h.members))
	for _, m := range h.members {
		c, ok := h.registry.Lookup(h.roomCode, m.Username)
		if !ok {
			continue
		}
		if _, dup := seen[c.ConnID()]; dup {
			continue
		}
		seen[c.ConnID()] = struct{}{}
		c.Send(data)
	}
}

// membersViewLocked lists members in join order with busy recomputed from the active call
func (h *Hub) membersViewLocked() []domain.MemberView {
	out := make([]domain.MemberView, 0, len(h.members))
	for _, m := range h.members {
		out = append(out, domain.MemberView{
			Username: m.Username,
			Avatar:   m.Avatar,
			IsBusy:   h.isBusyLocked(m.Username),
		})
	}
	return out
}

// broadcastUsersLocked sends the current update_users list to the room
func (h *Hub) broadcastUsersLocked() {
	h.broadcastLocked(domain.EventUpdateUsers, domain.UsersPayload{Users: h.membersViewLocked()})
}

// announceLocked stores a system message and broadcasts it
func (h *Hub) announceLocked(text string) {
	h.appendLocked(domain.NewSystemMessage(text))
}

// notifyLocked broadcasts a system message without storing it
func (h *Hub) notifyLocked(text string) {
	h.broadcastLocked(domain.EventMessage, domain.NewSystemMessage(text))
}
