package episode

import (
	"errors"
	"time"

	"gemgrid.ai/internal/sim/reward"
	"gemgrid.ai/internal/sim/world"
)

var (
	ErrStateShape = errors.New("state does not match level shape")
	ErrBadEvent   = errors.New("invalid event")
	ErrFinished   = errors.New("episode finished; reset required")
)

type DoneReason string

const (
	DoneNone       DoneReason = ""
	DoneAllArrived DoneReason = "ALL_ARRIVED"
	DoneAgentDied  DoneReason = "AGENT_DIED"
	DoneMaxSteps   DoneReason = "MAX_STEPS"
	DoneReset      DoneReason = "RESET"
)

// StepRecord is what one step produced. It is a self-contained copy: sinks and
// observers may keep it without racing the stepping loop.
type StepRecord struct {
	EpisodeID string         `json:"episode_id"`
	Level     string         `json:"level"`
	Step      uint64         `json:"step"`
	Events    []reward.Event `json:"events,omitempty"`
	State     world.State    `json:"state"`
	Digest    string         `json:"digest"`

	Reward        int `json:"reward"`
	GemsCollected int `json:"gems_collected"`
	AgentsArrived int `json:"agents_arrived"`

	Done   bool       `json:"done,omitempty"`
	Reason DoneReason `json:"reason,omitempty"`
}

type Summary struct {
	EpisodeID     string     `json:"episode_id"`
	Level         string     `json:"level"`
	NAgents       int        `json:"n_agents"`
	Steps         uint64     `json:"steps"`
	TotalReward   int        `json:"total_reward"`
	GemsCollected int        `json:"gems_collected"`
	AgentsArrived int        `json:"agents_arrived"`
	Reason        DoneReason `json:"reason"`
	StartedAt     time.Time  `json:"started_at"`
	EndedAt       time.Time  `json:"ended_at"`
}

// Sink receives step records and episode summaries. Sinks never influence the
// simulation; their errors are logged and otherwise ignored.
type Sink interface {
	WriteStep(rec StepRecord) error
	RecordEpisode(sum Summary)
}
