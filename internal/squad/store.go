package squad

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// Squadron is the per-channel group configuration. A squadron channel is
// hidden from the wider server by default and surfaces only while timed
// events run (unless configured otherwise).
type Squadron struct {
	ChannelID     int64    `json:"channel_id"`
	Name          string   `json:"name"`
	EventsEnabled bool     `json:"events_enabled"`
	SquadOnlyMode bool     `json:"squad_only_mode"`
	ActiveEvents  []string `json:"active_events"`
	Hidden        bool     `json:"is_hidden"`
}

// GlobalConfig carries server-wide settings: which event gets which ping text.
type GlobalConfig struct {
	EventMessages map[string]string `json:"event_messages"`
}

type fileData struct {
	Global    GlobalConfig         `json:"global"`
	Squadrons map[string]*Squadron `json:"squadrons"`
}

// Store persists squadron configuration to one JSON file, mirroring the
// shape it has always been stored in. Session state is never written here.
type Store struct {
	path string

	mu   sync.Mutex
	data fileData
}

func Load(path string) (*Store, error) {
	s := &Store{
		path: path,
		data: fileData{
			Global:    GlobalConfig{EventMessages: map[string]string{}},
			Squadrons: map[string]*Squadron{},
		},
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if s.data.Global.EventMessages == nil {
		s.data.Global.EventMessages = map[string]string{}
	}
	if s.data.Squadrons == nil {
		s.data.Squadrons = map[string]*Squadron{}
	}
	return s, nil
}

func (s *Store) save() error {
	b, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, b, 0o644)
}

func key(channelID int64) string { return strconv.FormatInt(channelID, 10) }

// Get returns a copy of the squadron bound to a channel.
func (s *Store) Get(channelID int64) (Squadron, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sq, ok := s.data.Squadrons[key(channelID)]
	if !ok {
		return Squadron{}, false
	}
	return *sq, true
}

// Upsert registers or updates a squadron and persists.
func (s *Store) Upsert(sq Squadron) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := sq
	s.data.Squadrons[key(sq.ChannelID)] = &cp
	return s.save()
}

// Update applies fn to the squadron bound to a channel and persists.
// No-op when the channel has no squadron.
func (s *Store) Update(channelID int64, fn func(*Squadron)) (Squadron, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sq, ok := s.data.Squadrons[key(channelID)]
	if !ok {
		return Squadron{}, false, nil
	}
	fn(sq)
	return *sq, true, s.save()
}

// EventMessage returns the configured ping text for an event, "" if unset.
func (s *Store) EventMessage(event string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Global.EventMessages[event]
}

// SetEventMessage updates the ping text for an event and persists.
func (s *Store) SetEventMessage(event, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Global.EventMessages[event] = msg
	return s.save()
}
