package events

import (
	"fmt"
	"log"
	"strings"
	"time"

	"tradewright/internal/protocol"
	"tradewright/internal/squad"
)

type Sender interface {
	Send(channelID int64, text string) error
}

// Tracker watches the simulation's timed-event panels. Event state rides on
// the interactive buttons: an enabled join-style button means the event just
// started, the same button disabled means it ended. Starts get a configured
// ping; squadron channels additionally unhide/hide around the event window.
type Tracker struct {
	sender  Sender
	squads  *squad.Manager
	store   *squad.Store
	actorID int64
	log     *log.Logger

	debounceStart time.Duration
	debounceEnd   time.Duration
	lastSeen      map[string]time.Time
}

func NewTracker(sender Sender, store *squad.Store, squads *squad.Manager, actorID int64, debounceStart, debounceEnd time.Duration, logger *log.Logger) *Tracker {
	if logger == nil {
		logger = log.Default()
	}
	return &Tracker{
		sender:        sender,
		squads:        squads,
		store:         store,
		actorID:       actorID,
		log:           logger,
		debounceStart: debounceStart,
		debounceEnd:   debounceEnd,
		lastSeen:      map[string]time.Time{},
	}
}

// ParseButtons detects the event a panel's buttons announce.
// Returns the event name and whether it is starting or ending.
func ParseButtons(m protocol.Message) (event string, starting, ending bool) {
	for _, btn := range m.Buttons {
		lbl := strings.ToUpper(btn.Label)
		emoji := strings.ToLower(btn.Emoji)

		var ev string
		switch lbl {
		case "JOIN":
			// Several events share the JOIN label; the emoji disambiguates.
			switch {
			case strings.Contains(emoji, "swords"):
				ev = "arena"
			case strings.Contains(emoji, "idlons"):
				ev = "lucky rewards"
			case strings.Contains(emoji, "dagger"):
				ev = "miniboss"
			}
		case "PACK":
			ev = "pack"
		case "OHMMM":
			ev = "ohmmm"
		case "SUMMON":
			ev = "summon"
		case "TIME TO FIGHT":
			ev = "boss"
		case "LETS GET THAT PICKAXE":
			ev = "pickaxe"
		case "CATCH":
			ev = "catch"
		case "CUT":
			ev = "cut"
		case "LURE":
			ev = "lure"
		}
		if ev != "" {
			return ev, !btn.Disabled, btn.Disabled
		}
	}
	return "", false, false
}

// HandleMessage runs on the engine goroutine. Edited messages come through
// the same path: the simulation flips buttons in place instead of posting.
func (t *Tracker) HandleMessage(m protocol.Message, now time.Time) {
	if m.AuthorID != t.actorID {
		return
	}
	event, starting, ending := ParseButtons(m)
	if event == "" {
		return
	}

	key := fmt.Sprintf("%d_%s", m.ChannelID, event)

	if starting {
		if now.Sub(t.lastSeen["start_"+key]) < t.debounceStart {
			return
		}
		t.lastSeen["start_"+key] = now

		msg := t.store.EventMessage(event)
		if msg == "" {
			msg = fmt.Sprintf("%s started!", strings.ToUpper(event))
		}
		t.send(m.ChannelID, "🔔 "+msg)

		if t.squads != nil {
			if ok, blocked := t.squads.EventStarted(m.ChannelID, event); ok && blocked != "" {
				switch blocked {
				case "squad_only":
					t.send(m.ChannelID, "ℹ️ *Squad-Only mode is ON. Channel remains hidden.*")
				case "events_disabled":
					t.send(m.ChannelID, "ℹ️ *Events unhide is OFF. Channel remains hidden.*")
				}
			}
		}
		return
	}

	if ending {
		if now.Sub(t.lastSeen["end_"+key]) < t.debounceEnd {
			return
		}
		t.lastSeen["end_"+key] = now

		if t.squads == nil {
			return
		}
		ok, remaining := t.squads.EventEnded(m.ChannelID, event)
		if !ok {
			return
		}
		if len(remaining) == 0 {
			t.send(m.ChannelID, fmt.Sprintf("🔒 **%s ended. Channel hidden.**", strings.ToUpper(event)))
		} else {
			t.send(m.ChannelID, fmt.Sprintf("✅ **%s ended.** (Still active: %s)",
				strings.ToUpper(event), strings.ToUpper(strings.Join(remaining, ", "))))
		}
	}
}

func (t *Tracker) send(channelID int64, text string) {
	if err := t.sender.Send(channelID, text); err != nil {
		t.log.Printf("event ping: %v", err)
	}
}
