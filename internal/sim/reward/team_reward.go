// Package reward turns the events of a simulation step into one team reward.
package reward

import "gemgrid.ai/internal/sim/tuning"

// DeathPenalty is added to the step reward for each agent death.
const DeathPenalty = -1

// TeamReward aggregates events into a shared reward for all agents.
//
// Within a step:
//   - a death voids any positive reward accrued so far and adds DeathPenalty;
//   - once an agent has died, later events are ignored, counters included;
//   - an exit pays AgentArrived, plus EndGame when it is the last agent out.
//
// ConsumeStepReward closes the step. A TeamReward belongs to one stepping loop
// and is not safe for concurrent use.
type TeamReward struct {
	stepReward     int
	nDead          uint32
	episodeGems    uint32
	episodeArrived uint32

	nAgents uint32
	rewards tuning.Rewards
}

func NewTeamReward(nAgents int, rewards tuning.Rewards) *TeamReward {
	return &TeamReward{
		nAgents: uint32(nAgents),
		rewards: rewards,
	}
}

// Notify applies one event to the live step.
func (r *TeamReward) Notify(e Event) {
	if e.Kind == AgentDied {
		r.nDead++
		r.stepReward = min(r.stepReward, 0) + DeathPenalty
		return
	}
	if r.nDead > 0 {
		return
	}

	switch e.Kind {
	case GemCollected:
		r.episodeGems++
		r.stepReward += r.rewards.GemCollected
	case AgentExit:
		r.episodeArrived++
		if r.episodeArrived == r.nAgents {
			r.stepReward += r.rewards.AgentArrived + r.rewards.EndGame
		} else {
			r.stepReward += r.rewards.AgentArrived
		}
	}
}

// ConsumeStepReward returns the reward of the current step and starts a new
// one. A step with deaths pays exactly minus the number of deaths. Episode
// counters are left untouched.
func (r *TeamReward) ConsumeStepReward() int {
	nDead := r.nDead
	reward := r.stepReward

	r.nDead = 0
	r.stepReward = 0

	if nDead > 0 {
		return -int(nDead)
	}
	return reward
}

// Reset clears step and episode counters. The team size is kept.
func (r *TeamReward) Reset() {
	r.stepReward = 0
	r.nDead = 0
	r.episodeGems = 0
	r.episodeArrived = 0
}

func (r *TeamReward) EpisodeGemsCollected() int { return int(r.episodeGems) }
func (r *TeamReward) EpisodeAgentsArrived() int { return int(r.episodeArrived) }
func (r *TeamReward) StepDeaths() int           { return int(r.nDead) }
func (r *TeamReward) NAgents() int              { return int(r.nAgents) }
func (r *TeamReward) Rewards() tuning.Rewards   { return r.rewards }

// Clone returns an aggregator with the same counters and no shared state.
func (r *TeamReward) Clone() *TeamReward {
	cp := *r
	return &cp
}
