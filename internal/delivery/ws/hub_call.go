package ws

import (
	"time"

	"github.com/mmuslimabdulj/goat-call/internal/domain"
	"github.com/mmuslimabdulj/goat-call/internal/metrics"
)

func recordTransition(t string) {
	metrics.CallTransitions.WithLabelValues(t).Inc()
}

// RequestCall starts a ringing call from caller to target. Replies go to c,
// the acting connection. The whole check-then-set runs under the hub lock,
// so two concurrent requests can never both create a session.
//
// Errors are domain sentinels; ErrUserBusy has already been answered with
// call_busy by the time it is returned.
func (h *Hub) RequestCall(c Conn, caller, target string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || len(h.members) == 0 {
		return domain.ErrInvalidRoom
	}
	if caller == "" || target == "" || caller == target || !h.hasMemberLocked(caller) {
		return domain.ErrInvalidCallData
	}

	h.healCallLocked()

	if !h.hasMemberLocked(target) {
		return domain.ErrUserOffline
	}
	targetConn, ok := h.registry.Lookup(h.roomCode, target)
	if !ok {
		return domain.ErrUserOffline
	}
	if h.isBusyLocked(target) {
		h.sendTo(c, domain.EventCallBusy, domain.CallTargetPayload{Target: target})
		return domain.ErrUserBusy
	}
	if h.isBusyLocked(caller) {
		return domain.ErrAlreadyInCall
	}
	if h.activeCall != nil {
		return domain.ErrCallInProgress
	}

	s := domain.NewCallSession(h.roomCode, caller, target)
	h.activeCall = s
	h.armRingTimerLocked(s)

	h.sendTo(c, domain.EventCallRinging, domain.CallTargetPayload{Target: target})
	h.sendTo(targetConn, domain.EventIncomingCall, domain.IncomingCallPayload{Caller: caller, Target: target})
	h.broadcastUsersLocked()

	h.log.Info().Str("call_id", s.ID).Str("caller", caller).Str("target", target).Msg("call ringing")
	return nil
}

// AcceptCall moves the ringing call to connected. Notices are routed by the
// stored session parties; the names in the request are advisory.
func (h *Hub) AcceptCall(caller, target string) domain.Outcome {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.activeCall
	if s == nil {
		return domain.OutcomeNoSession
	}
	if caller != s.Caller && target != s.Target {
		h.log.Debug().Str("caller", caller).Str("target", target).Str("call_id", s.ID).Msg("accept names differ from session")
	}

	if s.Status == domain.CallStatusRinging {
		s.Status = domain.CallStatusConnected
		if h.ringTimer != nil {
			h.ringTimer.Stop()
			h.ringTimer = nil
		}
		recordTransition("accepted")
		h.log.Info().Str("call_id", s.ID).Msg("call connected")
	}

	h.sendToMemberLocked(s.Caller, domain.EventCallAccepted, domain.CallTargetPayload{Target: s.Target})
	h.sendToMemberLocked(s.Target, domain.EventCallConnected, domain.CallConnectedPayload{Caller: s.Caller})
	h.broadcastUsersLocked()
	return domain.OutcomeOK
}

// DeclineCall drops the active call and tells the caller
func (h *Hub) DeclineCall() domain.Outcome {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.clearCallLocked()
	if s == nil {
		return domain.OutcomeNoSession
	}
	recordTransition("declined")

	h.sendToMemberLocked(s.Caller, domain.EventCallDeclined, nil)
	h.broadcastUsersLocked()
	h.log.Info().Str("call_id", s.ID).Msg("call declined")
	return domain.OutcomeOK
}

// EndCall drops the active call, notifies both parties and records "Call ended."
func (h *Hub) EndCall(username string) domain.Outcome {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.activeCall == nil {
		return domain.OutcomeNoSession
	}
	if !h.activeCall.HasParty(username) {
		h.log.Debug().Str("user", username).Str("call_id", h.activeCall.ID).Msg("call ended by non-party")
	}

	h.endCallLocked()
	recordTransition("ended")
	h.broadcastUsersLocked()
	return domain.OutcomeOK
}

// endCallLocked clears the call, sends call_ended to both parties and stores
// the system notice. Caller must hold h.mu and broadcast update_users itself.
func (h *Hub) endCallLocked() {
	s := h.clearCallLocked()
	if s == nil {
		return
	}
	h.sendToMemberLocked(s.Caller, domain.EventCallEnded, nil)
	h.sendToMemberLocked(s.Target, domain.EventCallEnded, nil)
	h.announceLocked("Call ended.")
	h.log.Info().Str("call_id", s.ID).Msg("call ended")
}

// healCallLocked drops a session whose caller or target is no longer a member
func (h *Hub) healCallLocked() {
	s := h.activeCall
	if s == nil {
		return
	}
	if h.hasMemberLocked(s.Caller) && h.hasMemberLocked(s.Target) {
		return
	}
	h.clearCallLocked()
	recordTransition("healed")
	h.log.Warn().Str("call_id", s.ID).Str("caller", s.Caller).Str("target", s.Target).Msg("dropped stale call session")
}

// armRingTimerLocked schedules expiry of a ringing session, if configured
func (h *Hub) armRingTimerLocked(s *domain.CallSession) {
	if h.ringTimeout <= 0 {
		return
	}
	id := s.ID
	h.ringTimer = time.AfterFunc(h.ringTimeout, func() {
		h.expireRinging(id)
	})
}

// expireRinging drops the session armed as callID if it is still ringing
func (h *Hub) expireRinging(callID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.activeCall
	if s == nil || s.ID != callID || s.Status != domain.CallStatusRinging {
		return
	}
	h.clearCallLocked()
	recordTransition("ring_timeout")

	h.sendToMemberLocked(s.Caller, domain.EventCallDeclined, nil)
	h.sendToMemberLocked(s.Target, domain.EventCallEnded, nil)
	h.broadcastUsersLocked()
	h.log.Info().Str("call_id", s.ID).Msg("call rang out")
}
