package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageKind separates chat lines typed by users from server announcements
type MessageKind string

const (
	MessageKindUser   MessageKind = "user"
	MessageKindSystem MessageKind = "system"
)

// ChatMessage is one line of room chat. Once appended to a room it is never mutated.
type ChatMessage struct {
	ID        string      `json:"id"`
	Text      string      `json:"msg"`
	Author    string      `json:"username"`
	Timestamp *time.Time  `json:"timestamp"` // nil for system messages
	Kind      MessageKind `json:"kind"`
}

// NewUserMessage creates a user message stamped at the given time
func NewUserMessage(author, text string, at time.Time) ChatMessage {
	return ChatMessage{
		ID:        uuid.New().String(),
		Text:      text,
		Author:    author,
		Timestamp: &at,
		Kind:      MessageKindUser,
	}
}

// NewSystemMessage creates a server announcement; clients add their own timestamp
func NewSystemMessage(text string) ChatMessage {
	return ChatMessage{
		ID:     uuid.New().String(),
		Text:   text,
		Author: SystemAuthor,
		Kind:   MessageKindSystem,
	}
}
