package ws

import (
	"encoding/json"
	"testing"

	"github.com/mmuslimabdulj/goat-call/internal/domain"
)

// === DISPATCH TESTS ===

func TestDispatch_JoinAndMessage(t *testing.T) {
	rm := newTestManager()
	alice := newMockClient(rm)

	rm.Dispatch(alice, envelope(t, domain.EventJoin, domain.JoinPayload{Username: "alice", Room: "r1", Avatar: "4"}))
	rm.Dispatch(alice, envelope(t, domain.EventMessage, domain.ChatPayload{Room: "r1", Username: "alice", Msg: "hi"}))

	members := rm.ListMembers("r1")
	if len(members) != 1 || members[0].Avatar != "4" {
		t.Fatalf("Expected alice with avatar 4, got %+v", members)
	}

	msgs := ofType(drain(t, alice), domain.EventMessage)
	if len(msgs) != 2 {
		t.Fatalf("Expected announcement and chat message, got %d", len(msgs))
	}
	chat := decodeAs[domain.ChatMessage](t, msgs[1])
	if chat.Text != "hi" || chat.Author != "alice" || chat.Kind != domain.MessageKindUser {
		t.Errorf("Unexpected chat message %+v", chat)
	}
	if chat.Timestamp == nil {
		t.Error("Expected server-stamped timestamp")
	}
}

func TestDispatch_DropsInvalidJoin(t *testing.T) {
	tests := []struct {
		name    string
		payload domain.JoinPayload
	}{
		{"empty username", domain.JoinPayload{Room: "r1"}},
		{"empty room", domain.JoinPayload{Username: "alice"}},
		{"reserved name", domain.JoinPayload{Username: "System", Room: "r1"}},
		{"control chars", domain.JoinPayload{Username: "al\nice", Room: "r1"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rm := newTestManager()
			c := newMockClient(rm)

			rm.Dispatch(c, envelope(t, domain.EventJoin, tc.payload))

			if rm.GetRoomCount() != 0 {
				t.Error("Expected invalid join to be dropped")
			}
		})
	}
}

func TestDispatch_DropsMalformed(t *testing.T) {
	rm := newTestManager()
	alice := newMockClient(rm)
	join(rm, alice, "r1", "alice", "1")
	drain(t, alice)

	rm.Dispatch(alice, domain.Envelope{Type: "dance", Payload: json.RawMessage(`{}`)})
	rm.Dispatch(alice, domain.Envelope{Type: domain.EventMessage, Payload: json.RawMessage(`"not an object"`)})
	rm.Dispatch(alice, envelope(t, domain.EventMessage, domain.ChatPayload{Room: "r1", Username: "alice", Msg: "   "}))
	rm.Dispatch(alice, envelope(t, domain.EventMessage, domain.ChatPayload{Room: "nowhere", Username: "alice", Msg: "hi"}))

	if n := len(drain(t, alice)); n != 0 {
		t.Errorf("Expected nothing emitted, got %d events", n)
	}
	if n := rm.GetRoom("r1").HistoryLen(); n != 0 {
		t.Errorf("Expected empty history, got %d", n)
	}
	if rm.RoomExists("nowhere") {
		t.Error("Expected message not to create a room")
	}
}

func TestDispatch_MissingPayloadIsEmptyObject(t *testing.T) {
	rm := newTestManager()
	alice, _ := setupPair(t, rm)

	rm.Dispatch(alice, domain.Envelope{Type: domain.EventCallUser})

	errs := ofType(drain(t, alice), domain.EventCallError)
	if len(errs) != 1 || decodeAs[domain.CallErrorPayload](t, errs[0]).Message != "Invalid room" {
		t.Errorf("Expected Invalid room error, got %v", errs)
	}
}

func TestDispatch_CallFlow(t *testing.T) {
	rm := newTestManager()
	alice, bob := setupPair(t, rm)

	rm.Dispatch(alice, envelope(t, domain.EventCallUser, domain.CallPayload{Room: "r1", Caller: "alice", Target: "bob"}))
	if len(ofType(drain(t, bob), domain.EventIncomingCall)) != 1 {
		t.Fatal("Expected bob to receive incoming_call")
	}

	// decline_call is the callee-side alias of call_declined
	rm.Dispatch(bob, envelope(t, domain.EventDeclineCall, domain.RoomPayload{Room: "r1"}))
	if len(ofType(drain(t, alice), domain.EventCallDeclined)) != 1 {
		t.Fatal("Expected alice to receive call_declined")
	}

	rm.Dispatch(alice, envelope(t, domain.EventCallUser, domain.CallPayload{Room: "r1", Caller: "alice", Target: "bob"}))
	rm.Dispatch(bob, envelope(t, domain.EventCallAccepted, domain.CallPayload{Room: "r1", Caller: "bob", Target: "bob"}))
	if s := rm.GetRoom("r1").ActiveCall(); s == nil || s.Status != domain.CallStatusConnected {
		t.Fatalf("Expected connected call, got %+v", s)
	}

	rm.Dispatch(alice, envelope(t, domain.EventCallEnded, domain.EndCallPayload{Room: "r1", Username: "alice"}))
	if rm.GetRoom("r1").ActiveCall() != nil {
		t.Error("Expected call ended")
	}
	if len(ofType(drain(t, bob), domain.EventCallEnded)) != 1 {
		t.Error("Expected bob to receive call_ended")
	}

	// Late duplicate from the other side is harmless
	drain(t, alice)
	rm.Dispatch(bob, envelope(t, domain.EventCallEnded, domain.EndCallPayload{Room: "r1", Username: "bob"}))
	if n := len(drain(t, alice)); n != 0 {
		t.Errorf("Expected no events after duplicate end, got %d", n)
	}
}

func TestDispatch_Leave(t *testing.T) {
	rm := newTestManager()
	alice, _ := setupPair(t, rm)

	rm.Dispatch(alice, envelope(t, domain.EventLeave, domain.LeavePayload{Username: "bob", Room: "r1"}))

	if n := len(rm.ListMembers("r1")); n != 1 {
		t.Errorf("Expected 1 member after leave, got %d", n)
	}
}
