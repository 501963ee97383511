package ws

import (
	"encoding/json"
	"testing"

	"github.com/mmuslimabdulj/goat-call/internal/domain"
)

// === RELAY TESTS ===

func TestRelay_Outcomes(t *testing.T) {
	rm := newTestManager()
	alice, bob := setupPair(t, rm)
	offer := json.RawMessage(`{"type":"offer","sdp":"v=0"}`)

	if o := rm.Relay(domain.EventOffer, domain.SignalPayload{Room: "r1", Target: "bob", Offer: offer}); o != domain.OutcomeNoSession {
		t.Errorf("Expected no_session before any call, got %s", o)
	}
	if len(drain(t, bob)) != 0 {
		t.Error("Expected nothing relayed without a session")
	}

	callUser(rm, alice, "alice", "bob")
	drain(t, alice)
	drain(t, bob)

	if o := rm.Relay(domain.EventOffer, domain.SignalPayload{Room: "r1", Target: "zed", Offer: offer}); o != domain.OutcomeTargetUnresolved {
		t.Errorf("Expected target_unresolved, got %s", o)
	}
	if o := rm.Relay(domain.EventOffer, domain.SignalPayload{Room: "nowhere", Target: "bob", Offer: offer}); o != domain.OutcomeNoSession {
		t.Errorf("Expected no_session for unknown room, got %s", o)
	}

	if o := rm.Relay(domain.EventOffer, domain.SignalPayload{Room: "r1", Target: "bob", Offer: offer}); o != domain.OutcomeOK {
		t.Fatalf("Expected ok, got %s", o)
	}
	offers := ofType(drain(t, bob), domain.EventOffer)
	if len(offers) != 1 {
		t.Fatalf("Expected bob to receive 1 offer, got %d", len(offers))
	}
	if got := decodeAs[domain.OfferPayload](t, offers[0]).Offer; string(got) != string(offer) {
		t.Errorf("Expected offer %s unchanged, got %s", offer, got)
	}
	if len(drain(t, alice)) != 0 {
		t.Error("Expected the sender not to receive its own offer")
	}
}

func TestRelay_OnlyToCallParties(t *testing.T) {
	rm := newTestManager()
	alice, bob := setupPair(t, rm)
	carol := newMockClient(rm)
	join(rm, carol, "r1", "carol", "3")
	callUser(rm, alice, "alice", "bob")
	drain(t, alice)
	drain(t, bob)
	drain(t, carol)

	offer := json.RawMessage(`{"type":"offer","sdp":"v=0"}`)
	if o := rm.Relay(domain.EventOffer, domain.SignalPayload{Room: "r1", Target: "carol", Offer: offer}); o != domain.OutcomeTargetUnresolved {
		t.Errorf("Expected target_unresolved for a member outside the call, got %s", o)
	}
	if n := len(ofType(drain(t, carol), domain.EventOffer)); n != 0 {
		t.Errorf("Expected carol to receive no offer, got %d", n)
	}

	if o := rm.Relay(domain.EventAnswer, domain.SignalPayload{Room: "r1", Target: "alice", Answer: offer}); o != domain.OutcomeOK {
		t.Errorf("Expected ok toward the caller, got %s", o)
	}
}

func TestRelay_AnswerAndCandidate(t *testing.T) {
	rm := newTestManager()
	alice, bob := setupPair(t, rm)
	callUser(rm, alice, "alice", "bob")
	rm.AcceptCall(domain.CallPayload{Room: "r1", Caller: "alice", Target: "bob"})
	drain(t, alice)
	drain(t, bob)

	answer := json.RawMessage(`{"type":"answer","sdp":"v=0"}`)
	candidate := json.RawMessage(`{"candidate":"candidate:1 1 udp 2122260223 10.0.0.1 54321 typ host","sdpMid":"0"}`)

	rm.Dispatch(bob, envelope(t, domain.EventAnswer, domain.SignalPayload{Room: "r1", Target: "alice", Answer: answer}))
	rm.Dispatch(bob, envelope(t, domain.EventIceCandidate, domain.SignalPayload{Room: "r1", Target: "alice", Candidate: candidate}))

	envs := drain(t, alice)
	answers := ofType(envs, domain.EventAnswer)
	if len(answers) != 1 || string(decodeAs[domain.AnswerPayload](t, answers[0]).Answer) != string(answer) {
		t.Errorf("Expected answer relayed unchanged, got %v", answers)
	}
	candidates := ofType(envs, domain.EventIceCandidate)
	if len(candidates) != 1 || string(decodeAs[domain.CandidatePayload](t, candidates[0]).Candidate) != string(candidate) {
		t.Errorf("Expected candidate relayed unchanged, got %v", candidates)
	}
}

// === DISCONNECT TESTS ===

func TestDisconnect_AllRoomsReconciled(t *testing.T) {
	rm := newTestManager()
	shared := newMockClient(rm)
	bob := newMockClient(rm)
	carol := newMockClient(rm)

	join(rm, shared, "r1", "alice", "1")
	join(rm, shared, "r2", "alice", "1")
	join(rm, bob, "r1", "bob", "2")
	join(rm, carol, "r2", "carol", "3")

	if err := rm.RequestCall(shared, domain.CallPayload{Room: "r1", Caller: "alice", Target: "bob"}); err != nil {
		t.Fatalf("Expected call in r1, got %v", err)
	}
	if err := rm.RequestCall(shared, domain.CallPayload{Room: "r2", Caller: "alice", Target: "carol"}); err != nil {
		t.Fatalf("Expected call in r2, got %v", err)
	}
	drain(t, bob)
	drain(t, carol)

	rm.OnDisconnect(shared)

	for _, room := range []string{"r1", "r2"} {
		if rm.GetRoom(room).ActiveCall() != nil {
			t.Errorf("Expected session in %s removed", room)
		}
	}
	if len(drain(t, bob)) != 0 || len(drain(t, carol)) != 0 {
		t.Error("Expected disconnect reconciliation to emit nothing")
	}
	for _, room := range []string{"r1", "r2"} {
		if _, ok := rm.Registry().Lookup(room, "alice"); ok {
			t.Errorf("Expected alice's %s binding released", room)
		}
	}
}

func TestDisconnect_ReboundUserKeepsCall(t *testing.T) {
	rm := newTestManager()
	alice, _ := setupPair(t, rm)
	callUser(rm, alice, "alice", "bob")

	// alice reconnects on a new socket before the old one is reaped
	fresh := newMockClient(rm)
	rm.Join(fresh, domain.JoinPayload{Username: "alice", Room: "r1", IsReconnect: true})

	rm.OnDisconnect(alice)

	if rm.GetRoom("r1").ActiveCall() == nil {
		t.Error("Expected the call to survive the stale socket's disconnect")
	}
	if c, ok := rm.Registry().Lookup("r1", "alice"); !ok || c.ConnID() != fresh.ID {
		t.Error("Expected alice to stay bound to the new connection")
	}
}

func TestDisconnect_UnknownConnIsNoop(t *testing.T) {
	rm := newTestManager()
	setupPair(t, rm)

	rm.OnDisconnect(newMockClient(rm))

	if n := len(rm.ListMembers("r1")); n != 2 {
		t.Errorf("Expected 2 members, got %d", n)
	}
}
