package ws

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mmuslimabdulj/goat-call/internal/domain"
)

// errRoomClosed is returned when a hub was evicted between lookup and use
var errRoomClosed = errors.New("room closed")

// Hub holds the state of one room: its ordered members, message history and
// at most one active call. Every mutation happens under mu, so a room never
// observes two call sessions or a half-applied join.
type Hub struct {
	mu sync.Mutex

	roomCode    string
	members     []*domain.Member // join order
	history     *History
	activeCall  *domain.CallSession
	ringTimer   *time.Timer
	idleTimer   *time.Timer
	closed      bool
	registry    *Registry
	roomManager *RoomManager

	ringTimeout time.Duration
	idleTimeout time.Duration
	log         zerolog.Logger
}

// NewHub creates a standalone hub for roomCode. Hubs created this way are
// never evicted; RoomManager wires eviction for the hubs it owns.
func NewHub(roomCode string, registry *Registry, opts Options) *Hub {
	return &Hub{
		roomCode:    roomCode,
		members:     make([]*domain.Member, 0),
		history:     NewHistory(opts.MaxHistorySize),
		registry:    registry,
		ringTimeout: opts.RingTimeout,
		idleTimeout: opts.RoomIdleTimeout,
		log:         opts.Logger.With().Str("room", roomCode).Logger(),
	}
}

// Code returns the room code
func (h *Hub) Code() string {
	return h.roomCode
}

// MemberCount returns the number of members
func (h *Hub) MemberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.members)
}

// ActiveCall returns a copy of the active call session, or nil
func (h *Hub) ActiveCall() *domain.CallSession {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.activeCall == nil {
		return nil
	}
	s := *h.activeCall
	return &s
}

// HistoryLen returns the number of stored messages
func (h *Hub) HistoryLen() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.history.Len()
}

// memberIndexLocked returns the position of username or -1. Caller must hold h.mu.
func (h *Hub) memberIndexLocked(username string) int {
	for i, m := range h.members {
		if m.Username == username {
			return i
		}
	}
	return -1
}

func (h *Hub) hasMemberLocked(username string) bool {
	return h.memberIndexLocked(username) >= 0
}

// isBusyLocked derives busy from the active call. Caller must hold h.mu.
func (h *Hub) isBusyLocked(username string) bool {
	return h.activeCall.HasParty(username)
}

// clearCallLocked drops the active call and its ring timer. Caller must hold h.mu.
func (h *Hub) clearCallLocked() *domain.CallSession {
	s := h.activeCall
	h.activeCall = nil
	if h.ringTimer != nil {
		h.ringTimer.Stop()
		h.ringTimer = nil
	}
	return s
}

// cancelIdleLocked stops a pending eviction timer
func (h *Hub) cancelIdleLocked() {
	if h.idleTimer != nil {
		h.idleTimer.Stop()
		h.idleTimer = nil
	}
}

// hasLiveMemberLocked reports whether any member still has a bound connection
func (h *Hub) hasLiveMemberLocked() bool {
	for _, m := range h.members {
		if _, ok := h.registry.Lookup(h.roomCode, m.Username); ok {
			return true
		}
	}
	return false
}

// scheduleIdleLocked starts the grace period before an unattended room is evicted
func (h *Hub) scheduleIdleLocked() {
	if h.roomManager == nil || h.idleTimeout <= 0 {
		return
	}
	h.cancelIdleLocked()
	h.idleTimer = time.AfterFunc(h.idleTimeout, func() {
		h.roomManager.evictIfEmpty(h)
	})
}

// closeIfEmpty marks the hub closed when no member has a live connection.
// Called by the room manager while it holds its own lock.
func (h *Hub) closeIfEmpty() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || h.hasLiveMemberLocked() {
		return false
	}
	h.closed = true
	h.clearCallLocked()
	h.members = nil
	h.history.Clear()
	return true
}
