package ws

import (
	"encoding/json"

	"github.com/mmuslimabdulj/goat-call/internal/domain"
	"github.com/mmuslimabdulj/goat-call/internal/metrics"
)

// RelayOffer forwards an opaque offer to target
func (h *Hub) RelayOffer(target string, offer json.RawMessage) domain.Outcome {
	return h.relay(domain.EventOffer, target, domain.OfferPayload{Offer: offer})
}

// RelayAnswer forwards an opaque answer to target
func (h *Hub) RelayAnswer(target string, answer json.RawMessage) domain.Outcome {
	return h.relay(domain.EventAnswer, target, domain.AnswerPayload{Answer: answer})
}

// RelayIceCandidate forwards an opaque ICE candidate to target
func (h *Hub) RelayIceCandidate(target string, candidate json.RawMessage) domain.Outcome {
	return h.relay(domain.EventIceCandidate, target, domain.CandidatePayload{Candidate: candidate})
}

// relay delivers a negotiation payload to a party of the room's active call.
// Payload content is never inspected.
func (h *Hub) relay(kind domain.EventType, target string, payload any) domain.Outcome {
	h.mu.Lock()
	defer h.mu.Unlock()

	outcome := domain.OutcomeOK
	if h.activeCall == nil {
		outcome = domain.OutcomeNoSession
	} else if !h.activeCall.HasParty(target) {
		outcome = domain.OutcomeTargetUnresolved
	} else if c, ok := h.registry.Lookup(h.roomCode, target); !ok {
		outcome = domain.OutcomeTargetUnresolved
	} else {
		h.sendTo(c, kind, payload)
	}

	metrics.SignalsRelayed.WithLabelValues(string(kind), outcome.String()).Inc()
	return outcome
}
