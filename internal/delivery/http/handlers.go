package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/mmuslimabdulj/goat-call/internal/delivery/ws"
	"github.com/mmuslimabdulj/goat-call/internal/metrics"
	"github.com/mmuslimabdulj/goat-call/internal/middleware"
)

type Handler struct {
	roomManager *ws.RoomManager
	upgrader    websocket.Upgrader
	log         zerolog.Logger
}

func NewHandler(rm *ws.RoomManager, origins *middleware.OriginChecker, logger zerolog.Logger) *Handler {
	return &Handler{
		roomManager: rm,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     origins.Check,
		},
		log: logger.With().Str("module", "http").Logger(),
	}
}

// HandleWebSocket upgrades HTTP to WebSocket. Rooms are joined over the socket.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		h.log.Debug().Err(err).Str("origin", r.Header.Get("Origin")).Msg("websocket upgrade failed")
		return
	}

	client := ws.NewClient(h.roomManager, conn)
	metrics.ConnectionsActive.Inc()
	h.log.Debug().Str("conn", client.ID).Str("remote_addr", r.RemoteAddr).Msg("websocket connected")

	// Start read/write pumps in goroutines
	go client.WritePump()
	go client.ReadPump()
}

// HandleListRooms returns every live room with its member count and call status
func (h *Handler) HandleListRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"rooms": h.roomManager.Rooms(),
	})
}

// HandleListMembers returns a room's members with their busy flags
func (h *Handler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "room")

	if !h.roomManager.RoomExists(code) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "room not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"room":  code,
		"users": h.roomManager.ListMembers(code),
	})
}

// HandleHealth reports liveness
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"rooms":  h.roomManager.GetRoomCount(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
