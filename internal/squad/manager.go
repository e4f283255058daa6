package squad

import "log"

// ChannelAdmin is the messaging collaborator's visibility control. Changing
// who can see a channel is entirely the collaborator's business; the manager
// only decides when.
type ChannelAdmin interface {
	SetChannelHidden(channelID int64, hidden bool) error
}

// Manager applies squadron visibility policy around timed events.
type Manager struct {
	store *Store
	admin ChannelAdmin
	log   *log.Logger
}

func NewManager(store *Store, admin ChannelAdmin, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{store: store, admin: admin, log: logger}
}

// EventStarted records an active event on the channel's squadron and unhides
// the channel when policy allows. Returns whether the channel has a squadron
// and the blocking reason ("" when unhidden or not blocked).
func (m *Manager) EventStarted(channelID int64, event string) (bool, string) {
	sq, ok, err := m.store.Update(channelID, func(sq *Squadron) {
		for _, e := range sq.ActiveEvents {
			if e == event {
				return
			}
		}
		sq.ActiveEvents = append(sq.ActiveEvents, event)
	})
	if err != nil {
		m.log.Printf("squad store: %v", err)
	}
	if !ok {
		return false, ""
	}

	if sq.SquadOnlyMode {
		return true, "squad_only"
	}
	if !sq.EventsEnabled {
		return true, "events_disabled"
	}
	m.setHidden(channelID, false)
	return true, ""
}

// EventEnded removes the event; the channel hides again only once no events
// remain. Returns whether a squadron exists and the still-active events.
func (m *Manager) EventEnded(channelID int64, event string) (bool, []string) {
	sq, ok, err := m.store.Update(channelID, func(sq *Squadron) {
		kept := sq.ActiveEvents[:0]
		for _, e := range sq.ActiveEvents {
			if e != event {
				kept = append(kept, e)
			}
		}
		sq.ActiveEvents = kept
	})
	if err != nil {
		m.log.Printf("squad store: %v", err)
	}
	if !ok {
		return false, nil
	}
	if len(sq.ActiveEvents) == 0 {
		m.setHidden(channelID, true)
	}
	return true, sq.ActiveEvents
}

func (m *Manager) setHidden(channelID int64, hidden bool) {
	if m.admin == nil {
		return
	}
	if err := m.admin.SetChannelHidden(channelID, hidden); err != nil {
		m.log.Printf("channel %d hidden=%v: %v", channelID, hidden, err)
		return
	}
	if _, _, err := m.store.Update(channelID, func(sq *Squadron) { sq.Hidden = hidden }); err != nil {
		m.log.Printf("squad store: %v", err)
	}
}
