package ws

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/mmuslimabdulj/goat-call/internal/domain"
	"github.com/mmuslimabdulj/goat-call/internal/metrics"
)

// Dispatch routes one inbound event from c to the owning room operation.
// Malformed and unknown events are dropped.
func (rm *RoomManager) Dispatch(c Conn, env domain.Envelope) {
	switch env.Type {
	case domain.EventJoin:
		var p domain.JoinPayload
		if !rm.decode(env, &p) {
			return
		}
		if !IsValidUsername(p.Username) || !IsValidName(p.Room) {
			rm.drop(env, "bad_payload")
			return
		}
		rm.Join(c, p)

	case domain.EventLeave:
		var p domain.LeavePayload
		if !rm.decode(env, &p) {
			return
		}
		rm.Leave(p)

	case domain.EventMessage:
		var p domain.ChatPayload
		if !rm.decode(env, &p) {
			return
		}
		if p.Username == "" || strings.TrimSpace(p.Msg) == "" {
			rm.drop(env, "bad_payload")
			return
		}
		// Stamped on arrival, not by the sender
		if !rm.SendMessage(p.Room, domain.NewUserMessage(p.Username, p.Msg, time.Now())) {
			rm.log.Debug().Str("room", p.Room).Msg("message for unknown room")
		}

	case domain.EventTyping, domain.EventStopTyping:
		var p domain.TypingPayload
		if !rm.decode(env, &p) {
			return
		}
		rm.SetTyping(p.Room, p.Username, env.Type == domain.EventTyping)

	case domain.EventCallUser:
		var p domain.CallPayload
		if !rm.decode(env, &p) {
			return
		}
		rm.RequestCall(c, p)

	case domain.EventCallAccepted:
		var p domain.CallPayload
		if !rm.decode(env, &p) {
			return
		}
		rm.logOutcome(env.Type, p.Room, rm.AcceptCall(p))

	case domain.EventCallDeclined, domain.EventDeclineCall:
		var p domain.RoomPayload
		if !rm.decode(env, &p) {
			return
		}
		rm.logOutcome(env.Type, p.Room, rm.DeclineCall(p.Room))

	case domain.EventCallEnded:
		var p domain.EndCallPayload
		if !rm.decode(env, &p) {
			return
		}
		rm.logOutcome(env.Type, p.Room, rm.EndCall(p))

	case domain.EventOffer, domain.EventAnswer, domain.EventIceCandidate:
		var p domain.SignalPayload
		if !rm.decode(env, &p) {
			return
		}
		rm.logOutcome(env.Type, p.Room, rm.Relay(env.Type, p))

	default:
		rm.drop(env, "unknown_type")
		return
	}

	metrics.EventsReceived.WithLabelValues(string(env.Type)).Inc()
}

// decode unmarshals the envelope payload into v, counting failures as drops
func (rm *RoomManager) decode(env domain.Envelope, v any) bool {
	payload := env.Payload
	if len(payload) == 0 {
		payload = json.RawMessage(`{}`)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		rm.log.Debug().Err(err).Str("event", string(env.Type)).Msg("undecodable payload")
		metrics.EventsDropped.WithLabelValues("bad_payload").Inc()
		return false
	}
	return true
}

func (rm *RoomManager) drop(env domain.Envelope, reason string) {
	rm.log.Debug().Str("event", string(env.Type)).Str("reason", reason).Msg("event dropped")
	metrics.EventsDropped.WithLabelValues(reason).Inc()
}

// logOutcome records benign no-op races at debug level
func (rm *RoomManager) logOutcome(t domain.EventType, room string, o domain.Outcome) {
	if o == domain.OutcomeOK {
		return
	}
	rm.log.Debug().Str("event", string(t)).Str("room", room).Str("outcome", o.String()).Msg("nothing to do")
}
