package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version" json:"protocol_version"`

	// MaxSteps ends an episode after this many steps; 0 means unbounded.
	MaxSteps int `yaml:"max_steps" json:"max_steps"`

	Rewards Rewards `yaml:"rewards" json:"rewards"`
}

// Rewards is the team shaping table. The death penalty is not listed: a step
// with deaths always pays minus the number of deaths.
type Rewards struct {
	GemCollected int `yaml:"gem_collected" json:"gem_collected"`
	AgentArrived int `yaml:"agent_arrived" json:"agent_arrived"`
	EndGame      int `yaml:"end_game" json:"end_game"`
}

func DefaultRewards() Rewards {
	return Rewards{
		GemCollected: 1,
		AgentArrived: 1,
		EndGame:      1,
	}
}

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion: "1.0",
		MaxSteps:        0,
		Rewards:         DefaultRewards(),
	}
}

// Load reads a tuning file. Keys missing from the file keep their defaults.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	if t.MaxSteps < 0 {
		return fmt.Errorf("max_steps must be >= 0, got %d", t.MaxSteps)
	}
	return nil
}
