package engine

import (
	"fmt"
	"time"
)

// dispatchNext emits the next command for a session, or completes it when
// both queues are empty. At most one command is ever outstanding; callers
// only reach here after the previous pending action was confirmed (or
// deliberately abandoned by the advance-on-unparseable rule).
func (e *Engine) dispatchNext(s *Session, now time.Time) {
	if len(s.DismantleQueue) > 0 {
		item := s.DismantleQueue[0]
		s.DismantleQueue = s.DismantleQueue[1:]
		s.Pending = &PendingAction{
			Kind:      ActionDismantle,
			Target:    item,
			Requested: s.Virtual[item],
		}
		s.touch(now)
		e.send(s.ChannelID, fmt.Sprintf("```%s dismantle %s all```", e.cfg.CommandPrefix, item))
		e.audit(now, s, "dispatch", fmt.Sprintf("dismantle %s x%d", item, s.Pending.Requested))
		return
	}

	if len(s.TradeQueue) > 0 {
		// Peek, don't pop: the id stays queued until the confirmation-driven
		// rebuild drops the rule below its threshold.
		id := s.TradeQueue[0]
		s.Pending = &PendingAction{Kind: ActionTrade, Target: id}
		s.touch(now)
		e.send(s.ChannelID, fmt.Sprintf("```%s trade %s all```", e.cfg.CommandPrefix, id))
		e.audit(now, s, "dispatch", "trade "+id)
		return
	}

	e.send(s.ChannelID, fmt.Sprintf("✅ **Optimized!** Area %d finished.", s.LockedTier))
	e.audit(now, s, "complete", "")
	delete(e.sessions, s.ParticipantID)
}
