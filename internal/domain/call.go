package domain

import (
	"time"

	"github.com/google/uuid"
)

// CallStatus is the state of a stored call session.
// There is no ended status: an ended session is deleted.
type CallStatus string

const (
	CallStatusRinging   CallStatus = "ringing"
	CallStatusConnected CallStatus = "connected"
)

// CallSession is the single active call of a room
type CallSession struct {
	ID        string     `json:"id"`
	Room      string     `json:"room"`
	Caller    string     `json:"caller"`
	Target    string     `json:"target"`
	Status    CallStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewCallSession creates a ringing session
func NewCallSession(room, caller, target string) *CallSession {
	return &CallSession{
		ID:        uuid.New().String(),
		Room:      room,
		Caller:    caller,
		Target:    target,
		Status:    CallStatusRinging,
		CreatedAt: time.Now(),
	}
}

// HasParty reports whether username is the caller or the target
func (c *CallSession) HasParty(username string) bool {
	return c != nil && (c.Caller == username || c.Target == username)
}

// Outcome tags the result of operations whose "nothing to do" cases are benign races, not failures
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeNoSession
	OutcomeTargetUnresolved
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNoSession:
		return "no_session"
	case OutcomeTargetUnresolved:
		return "target_unresolved"
	default:
		return "unknown"
	}
}
