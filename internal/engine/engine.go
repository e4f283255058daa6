package engine

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tradewright/internal/guide"
	"tradewright/internal/inventory"
	"tradewright/internal/protocol"
	"tradewright/internal/tuning"
)

// Sender delivers plain text to a channel. The gateway implements it; tests
// substitute a recorder.
type Sender interface {
	Send(channelID int64, text string) error
}

// AuditEntry is one engine decision worth keeping outside process memory.
type AuditEntry struct {
	At          time.Time `json:"at"`
	Participant int64     `json:"participant"`
	Channel     int64     `json:"channel"`
	Kind        string    `json:"kind"`
	Detail      string    `json:"detail,omitempty"`
}

// AuditLogger receives engine audit entries. Failures are logged, never
// propagated: the audit trail is a read model, not part of the protocol.
type AuditLogger interface {
	WriteAudit(AuditEntry) error
}

// Engine owns the session registry and processes every inbound message and
// the expiry sweep on one goroutine. Nothing mutates a session concurrently
// with anything else.
type Engine struct {
	cfg    tuning.Tuning
	guides *guide.Catalogs
	sender Sender
	log    *log.Logger

	auditLog AuditLogger

	sessions  map[int64]*Session
	inbox     chan protocol.Message
	listeners []Listener

	selfID int64

	now func() time.Time
}

func New(cfg tuning.Tuning, guides *guide.Catalogs, sender Sender, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		cfg:      cfg,
		guides:   guides,
		sender:   sender,
		log:      logger,
		sessions: map[int64]*Session{},
		inbox:    make(chan protocol.Message, 256),
		now:      time.Now,
	}
}

func (e *Engine) SetAuditLogger(l AuditLogger) { e.auditLog = l }

// Listener is an auxiliary message consumer (event tracker, calculator).
// Listeners run on the engine goroutine, after core handling, in
// registration order, so the whole system keeps single-threaded discipline.
type Listener func(protocol.Message, time.Time)

func (e *Engine) AddListener(l Listener) { e.listeners = append(e.listeners, l) }

// SetSelfID tells the engine its own gateway identity so it can ignore the
// messages it sends.
func (e *Engine) SetSelfID(id int64) { e.selfID = id }

// Inbox is the write side of the engine's event loop.
func (e *Engine) Inbox() chan<- protocol.Message { return e.inbox }

// Run processes messages and the idle sweep until ctx is cancelled. The sweep
// shares the select with message handling, so it never interrupts a message
// mid-processing and never races the registry.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.cfg.SweepEvery())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m := <-e.inbox:
			e.HandleMessage(m, e.now())
		case <-ticker.C:
			e.Sweep(e.now())
		}
	}
}

var dismantleCmdRE = regexp.MustCompile(`dismantle\s+(.*?)(?:\s+(all|\d+))?$`)

// HandleMessage is one turn of the event loop. Exported so the replayer and
// tests can drive the engine synchronously.
func (e *Engine) HandleMessage(m protocol.Message, now time.Time) {
	if m.AuthorID == e.selfID && e.selfID != 0 {
		return
	}

	content := strings.ToLower(m.Content)

	switch {
	case strings.HasPrefix(content, e.cfg.TriggerPrefix):
		e.start(m.AuthorID, strings.ToLower(m.Author), m.ChannelID, now)
	case m.AuthorID == e.cfg.ActorID:
		e.handleActorMessage(m, now)
	default:
		if s := e.sessions[m.AuthorID]; s != nil {
			e.trackParticipantCommand(s, content, now)
		}
	}

	for _, l := range e.listeners {
		l(m, now)
	}
}

// start creates a session, or silently does nothing when one already exists.
func (e *Engine) start(participantID int64, displayName string, channelID int64, now time.Time) {
	if _, exists := e.sessions[participantID]; exists {
		return
	}
	s := &Session{
		ParticipantID: participantID,
		DisplayName:   displayName,
		ChannelID:     channelID,
		Status:        StatusAwaitingTierLock,
		Virtual:       inventory.Counts{},
		LastSeen:      now,
	}
	e.sessions[participantID] = s
	e.log.Printf("session start participant=%d channel=%d", participantID, channelID)
	e.audit(now, s, "start", displayName)
}

// trackParticipantCommand keeps the session coherent when the human types
// commands the dispatcher would otherwise own. A manual dismantle records the
// pending action so its confirmation books correctly; any recognized command
// refreshes the idle timer.
func (e *Engine) trackParticipantCommand(s *Session, content string, now time.Time) {
	prefix := e.cfg.CommandPrefix + " "
	switch {
	case strings.Contains(content, prefix+"dismantle"):
		s.touch(now)
		sub := dismantleCmdRE.FindStringSubmatch(content)
		if sub == nil {
			return
		}
		item := strings.TrimSpace(sub[1])
		amount := 1
		switch sub[2] {
		case "all":
			amount = s.Virtual[item]
		case "":
		default:
			amount, _ = strconv.Atoi(sub[2])
		}
		s.Pending = &PendingAction{Kind: ActionDismantle, Target: item, Requested: amount}
	case strings.Contains(content, prefix+"trade"):
		s.touch(now)
	}
}

func (e *Engine) handleActorMessage(m protocol.Message, now time.Time) {
	s := e.resolveSession(m)
	if s == nil {
		return
	}
	// A session listens to exactly one channel for its whole life.
	if s.ChannelID != m.ChannelID {
		return
	}

	switch ev := Classify(m, s.DisplayName, e.cfg.CounterpartMarker).(type) {
	case TierPanel:
		e.applyTierLock(s, ev, now)
	case CraftSuccess:
		e.applyCraftSuccess(s, ev, now)
	case TradeConfirmation:
		e.applyTradeConfirmation(s, ev, now)
	case InventorySnapshot:
		e.applyInventorySnapshot(s, ev, now)
	case Unrecognized:
		// No state change; recovery is the idle sweep's job.
	}
}

// applyTierLock sets the write-once tier. Profile panels after the lock are
// stale and ignored.
func (e *Engine) applyTierLock(s *Session, ev TierPanel, now time.Time) {
	if s.Status != StatusAwaitingTierLock {
		return
	}
	s.LockedTier = ev.Tier
	s.LogicTier = e.guides.LogicTier(ev.Tier)
	s.Status = StatusActive
	s.touch(now)
	e.send(s.ChannelID, fmt.Sprintf(
		"⚠️ **Warning**! There might be malfunctions in the current testing phase.\n"+
			"Please do not use **work** commands during sessions!\n"+
			"✅ **Area %d** locked for **%s**. Please Run `%s i`.\n",
		ev.Tier, s.DisplayName, e.cfg.CommandPrefix))
	e.audit(now, s, "tier_lock", strconv.Itoa(ev.Tier))
}

// applyCraftSuccess books a confirmed dismantle: the requested source amount
// comes off (clamped), the reported yield goes on. The two are independent
// numbers; a mismatch against the theoretical yield is logged and the
// reported ground truth wins. An unparseable confirmation still advances the
// session so it cannot stall, at the cost of recoverable inventory drift.
func (e *Engine) applyCraftSuccess(s *Session, ev CraftSuccess, now time.Time) {
	if s.Status != StatusActive {
		return
	}
	s.touch(now)

	if ev.Parsed && s.Pending != nil && s.Pending.Kind == ActionDismantle {
		source := s.Pending.Target
		s.Virtual.Deduct(source, s.Pending.Requested)
		s.Virtual.Add(ev.Item, ev.Yield)

		if r, ok := e.guides.Recipes.BySource[source]; ok {
			if want := r.ExpectedYield(s.Pending.Requested); want != ev.Yield {
				e.log.Printf("yield mismatch participant=%d item=%s expected=%d reported=%d",
					s.ParticipantID, source, want, ev.Yield)
			}
		}
		e.audit(now, s, "dismantle_ok", fmt.Sprintf("-%d %s +%d %s", s.Pending.Requested, source, ev.Yield, ev.Item))
	} else if !ev.Parsed {
		e.audit(now, s, "dismantle_unparsed", "")
	}

	s.Pending = nil
	e.rebuildQueues(s)
	e.dispatchNext(s, now)
}

// applyTradeConfirmation books a confirmed trade symmetrically. A panel that
// does not name this participant is someone else's trade and is ignored.
func (e *Engine) applyTradeConfirmation(s *Session, ev TradeConfirmation, now time.Time) {
	if s.Status != StatusActive || !ev.Mine {
		return
	}
	s.touch(now)

	if ev.Parsed {
		s.Virtual.Deduct(ev.Gave, ev.GaveN)
		s.Virtual.Add(ev.Got, ev.GotN)
		e.audit(now, s, "trade_ok", fmt.Sprintf("-%d %s +%d %s", ev.GaveN, ev.Gave, ev.GotN, ev.Got))
	} else {
		e.audit(now, s, "trade_unparsed", "")
	}

	s.Pending = nil
	e.rebuildQueues(s)
	e.dispatchNext(s, now)
}

// applyInventorySnapshot reseeds the virtual inventory from ground truth:
// a full replacement, never a merge.
func (e *Engine) applyInventorySnapshot(s *Session, ev InventorySnapshot, now time.Time) {
	if s.Status != StatusActive {
		return
	}
	s.touch(now)

	inv := inventory.Counts{}
	for _, item := range e.cfg.BaseMaterials {
		inv[item] = inventory.CountFromMarkers(item, ev.Text)
	}
	for _, item := range e.guides.GuideFor(s.LogicTier).Dismantle {
		inv[item] = inventory.CountFromMarkers(item, ev.Text)
	}
	s.Virtual = inv

	e.audit(now, s, "inventory_seed", "")
	e.rebuildQueues(s)
	e.dispatchNext(s, now)
}

// Sweep expires idle sessions. Expiring ids are collected before any deletion
// so the registry is never mutated while being iterated.
func (e *Engine) Sweep(now time.Time) {
	var expired []int64
	for id, s := range e.sessions {
		if now.Sub(s.LastSeen) > e.cfg.IdleTimeout() {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		s := e.sessions[id]
		delete(e.sessions, id)
		e.send(s.ChannelID, fmt.Sprintf("⏰ Session for <@%d> expired due to inactivity.", id))
		e.audit(now, s, "expire", "")
		e.log.Printf("session expired participant=%d", id)
	}
}

// SessionView returns a copy of a session's state for inspection. Safe only
// from the goroutine running the engine (tests, replay).
func (e *Engine) SessionView(participantID int64) (Session, bool) {
	s, ok := e.sessions[participantID]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

func (e *Engine) SessionCount() int { return len(e.sessions) }

func (e *Engine) send(channelID int64, text string) {
	if err := e.sender.Send(channelID, text); err != nil {
		e.log.Printf("send channel=%d: %v", channelID, err)
	}
}

func (e *Engine) audit(at time.Time, s *Session, kind, detail string) {
	if e.auditLog == nil {
		return
	}
	err := e.auditLog.WriteAudit(AuditEntry{
		At:          at,
		Participant: s.ParticipantID,
		Channel:     s.ChannelID,
		Kind:        kind,
		Detail:      detail,
	})
	if err != nil {
		e.log.Printf("audit %s: %v", kind, err)
	}
}
