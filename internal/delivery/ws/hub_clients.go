package ws

import (
	"github.com/mmuslimabdulj/goat-call/internal/domain"
)

// Join adds username to the room if new and (re)binds c as its connection.
// A first join is announced unless isReconnect is set; every join refreshes
// the member list and replays history to c only.
func (h *Hub) Join(c Conn, username, avatar string, isReconnect bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return errRoomClosed
	}
	h.cancelIdleLocked()

	// Bind first so the joiner receives its own announcement
	h.registry.Bind(h.roomCode, username, c)

	if !h.hasMemberLocked(username) {
		h.members = append(h.members, domain.NewMember(username, avatar))
		if !isReconnect {
			h.notifyLocked(username + " has joined the room.")
		}
		h.log.Debug().Str("user", username).Bool("reconnect", isReconnect).Msg("member joined")
	}

	h.broadcastUsersLocked()
	h.replayLocked(c)
	return nil
}

// Leave removes username from the room. A leaving call party ends the call.
// Leaving a room one never joined still broadcasts the current state.
func (h *Hub) Leave(username string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	if idx := h.memberIndexLocked(username); idx >= 0 {
		if h.isBusyLocked(username) {
			h.endCallLocked()
			recordTransition("left")
		}
		h.members = append(h.members[:idx], h.members[idx+1:]...)
		h.registry.Unbind(h.roomCode, username)
		h.log.Debug().Str("user", username).Msg("member left")
	}

	h.notifyLocked(username + " has left the room.")
	h.broadcastUsersLocked()

	if !h.hasLiveMemberLocked() {
		h.scheduleIdleLocked()
	}
}

// ListMembers returns members in join order with their busy flags
func (h *Hub) ListMembers() []domain.MemberView {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.membersViewLocked()
}

// reconcileDisconnect drops the call of a user whose connection went away.
// Membership is kept and nothing is emitted. A user already rebound to a
// newer connection is left alone. Once nobody in the room is connected the
// idle eviction timer starts.
func (h *Hub) reconcileDisconnect(username string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, rebound := h.registry.Lookup(h.roomCode, username); rebound {
		return
	}

	if h.isBusyLocked(username) {
		s := h.clearCallLocked()
		recordTransition("disconnected")
		h.log.Info().Str("user", username).Str("call_id", s.ID).Msg("call dropped on disconnect")
	}

	if !h.hasLiveMemberLocked() {
		h.scheduleIdleLocked()
	}
}
