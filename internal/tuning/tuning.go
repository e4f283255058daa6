package tuning

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Tuning holds the runtime knobs that are environment-dependent rather than
// guide data: timings, the external actor's identity, and command literals.
type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	TriggerPrefix     string `yaml:"trigger_prefix"`
	CommandPrefix     string `yaml:"command_prefix"`
	ActorID           int64  `yaml:"actor_id"`
	CounterpartMarker string `yaml:"counterpart_marker"`

	SweepEverySeconds  int `yaml:"sweep_every_seconds"`
	IdleTimeoutSeconds int `yaml:"idle_timeout_seconds"`

	BaseMaterials []string `yaml:"base_materials"`

	EventDebounceStartSeconds int `yaml:"event_debounce_start_seconds"`
	EventDebounceEndSeconds   int `yaml:"event_debounce_end_seconds"`
}

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion:           "1.0",
		TriggerPrefix:             "rpg p trd",
		CommandPrefix:             "rpg",
		ActorID:                   555955826880413696,
		CounterpartMarker:         "epic npc**: ",
		SweepEverySeconds:         30,
		IdleTimeoutSeconds:        120,
		BaseMaterials:             []string{"wooden log", "normie fish", "apple", "ruby"},
		EventDebounceStartSeconds: 4,
		EventDebounceEndSeconds:   2,
	}
}

func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) SweepEvery() time.Duration {
	return time.Duration(t.SweepEverySeconds) * time.Second
}

func (t Tuning) IdleTimeout() time.Duration {
	return time.Duration(t.IdleTimeoutSeconds) * time.Second
}
