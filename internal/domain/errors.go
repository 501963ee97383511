package domain

import "errors"

// Call request failures. All are local to the acting connection.
var (
	ErrInvalidRoom     = errors.New("invalid room")
	ErrInvalidCallData = errors.New("invalid call data")
	ErrUserOffline     = errors.New("user is offline")
	ErrAlreadyInCall   = errors.New("already in a call")

	// ErrCallInProgress means the room's single call slot is held by two other members
	ErrCallInProgress = errors.New("call in progress")

	// ErrUserBusy is an expected outcome, reported as call_busy rather than call_error
	ErrUserBusy = errors.New("user is busy")
)

// CallErrorMessage returns the human-readable call_error text for a call request failure
func CallErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRoom):
		return "Invalid room"
	case errors.Is(err, ErrInvalidCallData):
		return "Invalid call data"
	case errors.Is(err, ErrUserOffline):
		return "User is offline"
	case errors.Is(err, ErrAlreadyInCall):
		return "You are already in a call"
	case errors.Is(err, ErrCallInProgress):
		return "Another call is in progress in this room"
	default:
		return "Call failed"
	}
}
