// Package episode drives one level through a sequence of steps: it feeds the
// driver's events to the team reward, tracks the live world state and hands a
// record of every step to the configured sinks.
package episode

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"gemgrid.ai/internal/sim/level"
	"gemgrid.ai/internal/sim/reward"
	"gemgrid.ai/internal/sim/tuning"
	"gemgrid.ai/internal/sim/world"
)

type Config struct {
	// MaxSteps ends the episode after this many steps; 0 means unbounded.
	MaxSteps int
	Rewards  tuning.Rewards
}

func ConfigFromTuning(t tuning.Tuning) Config {
	return Config{MaxSteps: t.MaxSteps, Rewards: t.Rewards}
}

// Runner is owned by a single stepping goroutine.
type Runner struct {
	lvl   *level.Level
	cfg   Config
	log   *log.Logger
	sinks []Sink

	team  *reward.TeamReward
	state world.State

	// Agents that exited and gems that were collected this episode.
	arrived  []bool
	gemTaken []bool

	id        string
	step      uint64
	total     int
	reason    DoneReason
	startedAt time.Time
}

func New(lvl *level.Level, cfg Config, logger *log.Logger, sinks ...Sink) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	r := &Runner{
		lvl:   lvl,
		cfg:   cfg,
		log:   logger,
		sinks: sinks,
		team:  reward.NewTeamReward(lvl.NAgents(), cfg.Rewards),
	}
	r.begin()
	return r
}

func (r *Runner) begin() {
	r.id = uuid.NewString()
	r.team.Reset()
	r.state = r.lvl.InitialState()
	r.arrived = make([]bool, r.lvl.NAgents())
	r.gemTaken = make([]bool, r.lvl.NGems())
	r.step = 0
	r.total = 0
	r.reason = DoneNone
	r.startedAt = time.Now().UTC()
}

func (r *Runner) ID() string          { return r.id }
func (r *Runner) Level() *level.Level { return r.lvl }
func (r *Runner) Step() uint64        { return r.step }
func (r *Runner) Done() bool          { return r.reason != DoneNone }
func (r *Runner) State() world.State  { return r.state.Clone() }

// StepOnce applies one step: next is the world state the driver computed for
// this step and events are what happened during it, in order.
func (r *Runner) StepOnce(next world.State, events []reward.Event) (StepRecord, error) {
	if r.Done() {
		return StepRecord{}, ErrFinished
	}
	if next.NAgents() != r.lvl.NAgents() || next.NGems() != r.lvl.NGems() {
		return StepRecord{}, fmt.Errorf("%w: got %d agents/%d gems, level has %d/%d",
			ErrStateShape, next.NAgents(), next.NGems(), r.lvl.NAgents(), r.lvl.NGems())
	}
	arrived := append([]bool(nil), r.arrived...)
	gemTaken := append([]bool(nil), r.gemTaken...)
	for _, e := range events {
		if err := r.checkEvent(e, arrived, gemTaken); err != nil {
			return StepRecord{}, err
		}
	}
	r.arrived, r.gemTaken = arrived, gemTaken

	died := false
	for _, e := range events {
		r.team.Notify(e)
		died = died || e.Kind == reward.AgentDied
	}
	rew := r.team.ConsumeStepReward()

	r.state = next.Clone()
	r.step++
	r.total += rew

	switch {
	case died:
		r.reason = DoneAgentDied
	case r.team.EpisodeAgentsArrived() >= r.lvl.NAgents():
		r.reason = DoneAllArrived
	case r.cfg.MaxSteps > 0 && r.step >= uint64(r.cfg.MaxSteps):
		r.reason = DoneMaxSteps
	}

	rec := StepRecord{
		EpisodeID:     r.id,
		Level:         r.lvl.Name,
		Step:          r.step,
		Events:        append([]reward.Event(nil), events...),
		State:         r.state.Clone(),
		Digest:        r.state.Digest(),
		Reward:        rew,
		GemsCollected: r.team.EpisodeGemsCollected(),
		AgentsArrived: r.team.EpisodeAgentsArrived(),
		Done:          r.Done(),
		Reason:        r.reason,
	}
	for _, s := range r.sinks {
		if err := s.WriteStep(rec); err != nil {
			r.log.Printf("episode %s: sink write step %d: %v", r.id, r.step, err)
		}
	}
	if rec.Done {
		r.finish()
	}
	return rec, nil
}

// checkEvent validates e and marks it in arrived and gemTaken, which are the
// caller's scratch copies of the episode's marks.
func (r *Runner) checkEvent(e reward.Event, arrived, gemTaken []bool) error {
	if e.AgentID < 0 || int(e.AgentID) >= r.lvl.NAgents() {
		return fmt.Errorf("%w: %s", ErrBadEvent, e)
	}
	switch e.Kind {
	case reward.GemCollected:
		if e.GemID < 0 || int(e.GemID) >= r.lvl.NGems() {
			return fmt.Errorf("%w: %s", ErrBadEvent, e)
		}
		if gemTaken[e.GemID] {
			return fmt.Errorf("%w: %s: gem already collected", ErrBadEvent, e)
		}
		gemTaken[e.GemID] = true
	case reward.AgentExit:
		if arrived[e.AgentID] {
			return fmt.Errorf("%w: %s: agent already exited", ErrBadEvent, e)
		}
		arrived[e.AgentID] = true
	case reward.AgentDied:
	default:
		return fmt.Errorf("%w: %s", ErrBadEvent, e)
	}
	return nil
}

// Reset ends the current episode (recording it if any step was taken) and
// starts a new one from the level's initial state.
func (r *Runner) Reset() world.State {
	if !r.Done() && r.step > 0 {
		r.reason = DoneReset
		r.finish()
	}
	r.begin()
	r.log.Printf("episode %s: start level=%s agents=%d gems=%d", r.id, r.lvl.Name, r.lvl.NAgents(), r.lvl.NGems())
	return r.state.Clone()
}

func (r *Runner) Summary() Summary {
	return Summary{
		EpisodeID:     r.id,
		Level:         r.lvl.Name,
		NAgents:       r.lvl.NAgents(),
		Steps:         r.step,
		TotalReward:   r.total,
		GemsCollected: r.team.EpisodeGemsCollected(),
		AgentsArrived: r.team.EpisodeAgentsArrived(),
		Reason:        r.reason,
		StartedAt:     r.startedAt,
	}
}

func (r *Runner) finish() {
	sum := r.Summary()
	sum.EndedAt = time.Now().UTC()
	for _, s := range r.sinks {
		s.RecordEpisode(sum)
	}
	r.log.Printf("episode %s: done reason=%s steps=%d reward=%d gems=%d arrived=%d/%d",
		sum.EpisodeID, sum.Reason, sum.Steps, sum.TotalReward, sum.GemsCollected, sum.AgentsArrived, sum.NAgents)
}
