package domain

import "encoding/json"

// EventType names an inbound or outbound event on the wire
type EventType string

// Inbound events (connection -> server)
const (
	EventJoin         EventType = "join"
	EventLeave        EventType = "leave"
	EventMessage      EventType = "message"
	EventTyping       EventType = "typing"
	EventStopTyping   EventType = "stop_typing"
	EventCallUser     EventType = "call_user"
	EventCallAccepted EventType = "call_accepted"
	EventCallDeclined EventType = "call_declined"
	EventDeclineCall  EventType = "decline_call" // alias of call_declined sent by the callee UI
	EventCallEnded    EventType = "call_ended"
	EventOffer        EventType = "offer"
	EventAnswer       EventType = "answer"
	EventIceCandidate EventType = "ice_candidate"
)

// Outbound-only events (server -> connection). message, typing, stop_typing,
// call_accepted, call_declined, call_ended, offer, answer and ice_candidate
// travel in both directions and reuse the inbound names.
const (
	EventUpdateUsers   EventType = "update_users"
	EventCallRinging   EventType = "call_ringing"
	EventIncomingCall  EventType = "incoming_call"
	EventCallBusy      EventType = "call_busy"
	EventCallError     EventType = "call_error"
	EventCallConnected EventType = "call_connected"
)

// Envelope is the frame wrapping every event in both directions
type Envelope struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ==== Inbound payloads ====

// JoinPayload is the payload of a join event
type JoinPayload struct {
	Username    string `json:"username"`
	Room        string `json:"room"`
	Avatar      string `json:"avatar,omitempty"`
	IsReconnect bool   `json:"isReconnect,omitempty"`
}

// LeavePayload is the payload of a leave event
type LeavePayload struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

// ChatPayload is the payload of an inbound chat message
type ChatPayload struct {
	Room     string `json:"room"`
	Username string `json:"username"`
	Msg      string `json:"msg"`
}

// TypingPayload is the payload of typing / stop_typing in both directions
type TypingPayload struct {
	Room     string `json:"room,omitempty"`
	Username string `json:"username"`
}

// CallPayload is the payload of call_user and call_accepted
type CallPayload struct {
	Room   string `json:"room"`
	Caller string `json:"caller"`
	Target string `json:"target"`
}

// RoomPayload is the payload of call_declined / decline_call
type RoomPayload struct {
	Room string `json:"room"`
}

// EndCallPayload is the payload of an inbound call_ended
type EndCallPayload struct {
	Room     string `json:"room"`
	Username string `json:"username"`
}

// SignalPayload is the payload of offer / answer / ice_candidate.
// Exactly one of Offer, Answer or Candidate is set; its content is never inspected.
type SignalPayload struct {
	Room      string          `json:"room"`
	Target    string          `json:"target"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

// ==== Outbound payloads ====

// UsersPayload is the payload of update_users
type UsersPayload struct {
	Users []MemberView `json:"users"`
}

// CallTargetPayload carries the callee name (call_ringing, call_busy, call_accepted)
type CallTargetPayload struct {
	Target string `json:"target"`
}

// IncomingCallPayload is delivered to the callee only
type IncomingCallPayload struct {
	Caller string `json:"caller"`
	Target string `json:"target"`
}

// CallConnectedPayload is delivered to the callee once the call is accepted
type CallConnectedPayload struct {
	Caller string `json:"caller"`
}

// CallErrorPayload is delivered to the acting connection when a call request fails
type CallErrorPayload struct {
	Message string `json:"message"`
}

// OfferPayload is the relayed offer
type OfferPayload struct {
	Offer json.RawMessage `json:"offer"`
}

// AnswerPayload is the relayed answer
type AnswerPayload struct {
	Answer json.RawMessage `json:"answer"`
}

// CandidatePayload is the relayed ICE candidate
type CandidatePayload struct {
	Candidate json.RawMessage `json:"candidate"`
}

// NewEnvelope marshals payload into an envelope of the given type.
// A nil payload produces an empty object so clients can always read .payload.
func NewEnvelope(t EventType, payload any) ([]byte, error) {
	raw := json.RawMessage(`{}`)
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return json.Marshal(Envelope{Type: t, Payload: raw})
}
