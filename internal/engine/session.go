package engine

import (
	"time"

	"tradewright/internal/inventory"
)

// Status is the session state machine position. COMPLETE is not stored:
// reaching it deletes the session.
type Status int

const (
	StatusAwaitingTierLock Status = iota
	StatusActive
)

func (s Status) String() string {
	switch s {
	case StatusAwaitingTierLock:
		return "AWAITING_TIER_LOCK"
	case StatusActive:
		return "ACTIVE"
	default:
		return "UNKNOWN"
	}
}

type ActionKind string

const (
	ActionDismantle ActionKind = "dismantle"
	ActionTrade     ActionKind = "trade"
)

// PendingAction is the single in-flight command. It exists only between
// dispatch and the matching confirmation.
type PendingAction struct {
	Kind      ActionKind
	Target    string // material name for dismantle, trade id for trade
	Requested int    // dismantle only: source amount the command covers
}

// Session is the complete automation state for one participant's run.
type Session struct {
	ParticipantID int64
	DisplayName   string // lower-cased, used for substring matching
	ChannelID     int64  // bound for the session's life

	Status     Status
	LockedTier int // real progression tier, write-once (0 = unset)
	LogicTier  int // remapped tier selecting the guide

	Virtual        inventory.Counts
	DismantleQueue []string
	TradeQueue     []string
	Pending        *PendingAction

	LastSeen time.Time
}

func (s *Session) touch(now time.Time) { s.LastSeen = now }
