package domain

import "time"

// ==== WebSocket Constants ====

// MaxMessageSize is the maximum allowed WebSocket frame size in bytes.
// SDP offers with many candidates run to several KB, so this is larger than a chat-only limit.
const MaxMessageSize = 64 * 1024

// MaxHistorySize is the default per-room history cap. Zero keeps every message.
const MaxHistorySize = 0

// ==== Presence Constants ====

// SystemAuthor is the reserved author name of server-generated messages
const SystemAuthor = "System"

// DefaultAvatar is used when a join carries no avatar
const DefaultAvatar = "1"

// ==== Rate Limit Constants ====

const (
	// DefaultRateLimitWS is the default rate limit for WebSocket upgrades (req/sec per IP)
	DefaultRateLimitWS = 5

	// DefaultRateLimitWSBurst is the burst allowed on top of DefaultRateLimitWS
	DefaultRateLimitWSBurst = 10

	// DefaultRateLimitEvents is the default inbound event rate per connection (events/sec).
	// ICE trickling bursts dozens of candidates at call setup.
	DefaultRateLimitEvents = 50

	// DefaultRateLimitEventsBurst is the burst allowed on top of DefaultRateLimitEvents
	DefaultRateLimitEventsBurst = 100
)

// ==== Timing Constants ====

const (
	// RoomIdleTimeout is the time to wait before destroying a room whose last member left
	RoomIdleTimeout = 60 * time.Second

	// RingTimeout is the default ringing timeout. Zero means a call rings until someone acts.
	RingTimeout = 0 * time.Second
)
