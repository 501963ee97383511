package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/mmuslimabdulj/goat-call/internal/domain"
	"github.com/mmuslimabdulj/goat-call/internal/metrics"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second // Relaxed to 60s for mobile stability

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Outbound queue per connection
	sendBufferSize = 256
)

// Client is one websocket connection. It may speak for several usernames
// across rooms; the registry holds those bindings.
type Client struct {
	ID      string
	manager *RoomManager
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewClient creates a Client for an upgraded connection
func NewClient(manager *RoomManager, conn *websocket.Conn) *Client {
	id := uuid.New().String()

	var limiter *rate.Limiter
	if manager.opts.EventRate > 0 {
		limiter = rate.NewLimiter(manager.opts.EventRate, manager.opts.EventBurst)
	}

	return &Client{
		ID:      id,
		manager: manager,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		limiter: limiter,
		log:     manager.log.With().Str("conn", id).Logger(),
	}
}

// ConnID returns the connection identity used by the registry
func (c *Client) ConnID() string {
	return c.ID
}

// ReadPump pumps frames from the websocket connection to the dispatcher.
// On exit the connection is reconciled and the send queue closed.
func (c *Client) ReadPump() {
	defer func() {
		c.manager.OnDisconnect(c)
		c.Close()
		c.conn.Close()
		metrics.ConnectionsActive.Dec()
	}()

	c.conn.SetReadLimit(c.manager.opts.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Debug().Err(err).Msg("unexpected close")
			}
			break
		}

		if c.limiter != nil && !c.limiter.Allow() {
			metrics.EventsDropped.WithLabelValues("rate_limited").Inc()
			continue
		}

		var env domain.Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			metrics.EventsDropped.WithLabelValues("bad_json").Inc()
			c.log.Debug().Err(err).Msg("invalid frame")
			continue
		}

		c.manager.Dispatch(c, env)
	}
}

// WritePump pumps queued frames to the websocket connection, one event per frame
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Queue closed by ReadPump
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.log.Debug().Err(err).Msg("write failed")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Send queues a frame without blocking. Frames are dropped when the queue
// is full or the connection is gone.
func (c *Client) Send(msg []byte) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		metrics.SendDropped.Inc()
		return
	}

	select {
	case c.send <- msg:
	default:
		metrics.SendDropped.Inc()
		c.log.Warn().Msg("send queue full, dropping frame")
	}
}

// Close closes the send queue. Safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}
