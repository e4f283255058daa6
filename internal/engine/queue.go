package engine

import "tradewright/internal/guide"

// rebuildQueues recomputes both action queues from the virtual inventory.
//
// The dismantle queue takes every guide material still held, reversed so the
// highest-tier material goes first: each dismantle yields exactly one tier
// below, so the rarest material must break down before its byproduct
// accumulates. The trade queue is built only once nothing is left to
// dismantle; the two queues are never populated at the same time.
func (e *Engine) rebuildQueues(s *Session) {
	g := e.guides.GuideFor(s.LogicTier)

	var todo []string
	for _, item := range g.Dismantle {
		if s.Virtual[item] > 0 {
			todo = append(todo, item)
		}
	}
	for i, j := 0, len(todo)-1; i < j; i, j = i+1, j-1 {
		todo[i], todo[j] = todo[j], todo[i]
	}
	s.DismantleQueue = todo

	s.TradeQueue = nil
	if len(s.DismantleQueue) > 0 {
		return
	}
	for _, decl := range g.Trades {
		rule, err := guide.ParseTradeRule(decl)
		if err != nil {
			e.log.Printf("guide tier %d: %v", s.LogicTier, err)
			continue
		}
		if s.Virtual[rule.Source] < e.guides.TradeThreshold(s.LockedTier, rule.Key) {
			continue
		}
		if id := e.guides.TradeID(rule.Key); id != "" {
			s.TradeQueue = append(s.TradeQueue, id)
		}
	}
}
