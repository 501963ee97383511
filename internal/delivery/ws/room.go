package ws

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/mmuslimabdulj/goat-call/internal/domain"
	"github.com/mmuslimabdulj/goat-call/internal/metrics"
)

// Options tunes rooms and connections
type Options struct {
	MaxHistorySize  int           // 0 keeps every message
	RingTimeout     time.Duration // 0 disables ring expiry
	RoomIdleTimeout time.Duration // 0 never evicts empty rooms
	MaxMessageSize  int64
	EventRate       rate.Limit // 0 disables the per-connection limiter
	EventBurst      int
	Logger          zerolog.Logger
}

// DefaultOptions returns options matching the default configuration
func DefaultOptions() Options {
	return Options{
		MaxHistorySize:  domain.MaxHistorySize,
		RingTimeout:     domain.RingTimeout,
		RoomIdleTimeout: domain.RoomIdleTimeout,
		MaxMessageSize:  domain.MaxMessageSize,
		EventRate:       domain.DefaultRateLimitEvents,
		EventBurst:      domain.DefaultRateLimitEventsBurst,
		Logger:          zerolog.Nop(),
	}
}

// RoomInfo summarizes a room for inspection
type RoomInfo struct {
	Code       string `json:"code"`
	Members    int    `json:"members"`
	CallStatus string `json:"call_status,omitempty"`
}

// RoomManager owns every room hub and the connection registry.
// Lock order: RoomManager.mu, then Hub.mu, then Registry.mu.
type RoomManager struct {
	mu       sync.RWMutex
	rooms    map[string]*Hub // map[code]*Hub
	registry *Registry
	opts     Options
	log      zerolog.Logger
}

// NewRoomManager creates a new room manager
func NewRoomManager(opts Options) *RoomManager {
	return &RoomManager{
		rooms:    make(map[string]*Hub),
		registry: NewRegistry(),
		opts:     opts,
		log:      opts.Logger.With().Str("module", "rooms").Logger(),
	}
}

// Registry returns the connection registry
func (rm *RoomManager) Registry() *Registry {
	return rm.registry
}

// getOrCreate returns the hub for code, creating it on first use
func (rm *RoomManager) getOrCreate(code string) *Hub {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if hub, exists := rm.rooms[code]; exists {
		return hub
	}

	opts := rm.opts
	opts.Logger = rm.log
	hub := NewHub(code, rm.registry, opts)
	hub.roomManager = rm

	rm.rooms[code] = hub
	metrics.RoomsActive.Inc()
	rm.log.Debug().Str("room", code).Msg("room created")
	return hub
}

// GetRoom returns a room hub by its code, or nil
func (rm *RoomManager) GetRoom(code string) *Hub {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.rooms[code]
}

// RoomExists checks if a room exists
func (rm *RoomManager) RoomExists(code string) bool {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	_, exists := rm.rooms[code]
	return exists
}

// GetRoomCount returns the number of active rooms
func (rm *RoomManager) GetRoomCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}

// Rooms returns a summary of every room, sorted by code
func (rm *RoomManager) Rooms() []RoomInfo {
	rm.mu.RLock()
	hubs := make([]*Hub, 0, len(rm.rooms))
	for _, hub := range rm.rooms {
		hubs = append(hubs, hub)
	}
	rm.mu.RUnlock()

	out := make([]RoomInfo, 0, len(hubs))
	for _, hub := range hubs {
		info := RoomInfo{Code: hub.Code(), Members: hub.MemberCount()}
		if s := hub.ActiveCall(); s != nil {
			info.CallStatus = string(s.Status)
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// evictIfEmpty deletes hub if it is still registered and still empty
func (rm *RoomManager) evictIfEmpty(hub *Hub) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.rooms[hub.roomCode] != hub {
		return
	}
	if !hub.closeIfEmpty() {
		return
	}
	delete(rm.rooms, hub.roomCode)
	metrics.RoomsActive.Dec()
	rm.log.Debug().Str("room", hub.roomCode).Msg("idle room evicted")
}

// ==== Room-resolving operations ====

// Join binds c to username in room, creating the room if needed
func (rm *RoomManager) Join(c Conn, p domain.JoinPayload) {
	for {
		hub := rm.getOrCreate(p.Room)
		// An eviction may win the race between lookup and join; retry on a fresh hub
		if err := hub.Join(c, p.Username, p.Avatar, p.IsReconnect); !errors.Is(err, errRoomClosed) {
			return
		}
	}
}

// Leave removes username from room. Unknown rooms are ignored.
func (rm *RoomManager) Leave(p domain.LeavePayload) {
	if hub := rm.GetRoom(p.Room); hub != nil {
		hub.Leave(p.Username)
	}
}

// ListMembers returns the member view of room, or nil if it does not exist
func (rm *RoomManager) ListMembers(room string) []domain.MemberView {
	hub := rm.GetRoom(room)
	if hub == nil {
		return nil
	}
	return hub.ListMembers()
}

// SendMessage appends msg to room. Returns false if the room does not exist.
func (rm *RoomManager) SendMessage(room string, msg domain.ChatMessage) bool {
	hub := rm.GetRoom(room)
	if hub == nil {
		return false
	}
	hub.AppendMessage(msg)
	return true
}

// SetTyping broadcasts a typing or stop_typing indicator for username
func (rm *RoomManager) SetTyping(room, username string, typing bool) {
	hub := rm.GetRoom(room)
	if hub == nil {
		return
	}
	if typing {
		hub.Typing(username)
	} else {
		hub.StopTyping(username)
	}
}

// RequestCall runs a call request and answers failures on c.
// ErrUserBusy is answered by the hub with call_busy; other errors become call_error.
func (rm *RoomManager) RequestCall(c Conn, p domain.CallPayload) error {
	var err error
	if hub := rm.GetRoom(p.Room); hub == nil {
		err = domain.ErrInvalidRoom
	} else {
		err = hub.RequestCall(c, p.Caller, p.Target)
	}

	metrics.CallRequests.WithLabelValues(callResult(err)).Inc()
	if err != nil && !errors.Is(err, domain.ErrUserBusy) {
		data, encErr := domain.NewEnvelope(domain.EventCallError, domain.CallErrorPayload{Message: domain.CallErrorMessage(err)})
		if encErr == nil {
			c.Send(data)
		}
		rm.log.Debug().Err(err).Str("room", p.Room).Str("caller", p.Caller).Str("target", p.Target).Msg("call request rejected")
	}
	return err
}

// AcceptCall accepts the ringing call in room
func (rm *RoomManager) AcceptCall(p domain.CallPayload) domain.Outcome {
	hub := rm.GetRoom(p.Room)
	if hub == nil {
		return domain.OutcomeNoSession
	}
	return hub.AcceptCall(p.Caller, p.Target)
}

// DeclineCall declines the ringing call in room
func (rm *RoomManager) DeclineCall(room string) domain.Outcome {
	hub := rm.GetRoom(room)
	if hub == nil {
		return domain.OutcomeNoSession
	}
	return hub.DeclineCall()
}

// EndCall hangs up the active call in room
func (rm *RoomManager) EndCall(p domain.EndCallPayload) domain.Outcome {
	hub := rm.GetRoom(p.Room)
	if hub == nil {
		return domain.OutcomeNoSession
	}
	return hub.EndCall(p.Username)
}

// Relay forwards an offer, answer or ICE candidate to its target
func (rm *RoomManager) Relay(kind domain.EventType, p domain.SignalPayload) domain.Outcome {
	hub := rm.GetRoom(p.Room)
	if hub == nil {
		metrics.SignalsRelayed.WithLabelValues(string(kind), domain.OutcomeNoSession.String()).Inc()
		return domain.OutcomeNoSession
	}

	switch kind {
	case domain.EventOffer:
		return hub.RelayOffer(p.Target, p.Offer)
	case domain.EventAnswer:
		return hub.RelayAnswer(p.Target, p.Answer)
	default:
		return hub.RelayIceCandidate(p.Target, p.Candidate)
	}
}

// OnDisconnect reconciles every (room, username) still bound to c.
// Calls involving those users are dropped without notifying anyone; membership is kept
// until the room is evicted.
func (rm *RoomManager) OnDisconnect(c Conn) {
	for _, b := range rm.registry.UnbindConn(c) {
		if hub := rm.GetRoom(b.Room); hub != nil {
			hub.reconcileDisconnect(b.Username)
		}
	}
}

func callResult(err error) string {
	switch {
	case err == nil:
		return "ringing"
	case errors.Is(err, domain.ErrUserBusy):
		return "busy"
	case errors.Is(err, domain.ErrInvalidRoom):
		return "invalid_room"
	case errors.Is(err, domain.ErrInvalidCallData):
		return "invalid_call_data"
	case errors.Is(err, domain.ErrUserOffline):
		return "offline"
	case errors.Is(err, domain.ErrAlreadyInCall):
		return "already_in_call"
	case errors.Is(err, domain.ErrCallInProgress):
		return "in_progress"
	default:
		return "error"
	}
}
