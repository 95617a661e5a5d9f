package episode

import (
	"fmt"

	"gemgrid.ai/internal/sim/reward"
	"gemgrid.ai/internal/sim/tuning"
)

// Verifier re-derives logged steps: it replays each record's events through a
// fresh team reward and checks reward, counters and state digest.
type Verifier struct {
	rewards tuning.Rewards

	episodeID string
	team      *reward.TeamReward
	nextStep  uint64

	Checked  uint64
	Episodes int
}

func NewVerifier(rewards tuning.Rewards) *Verifier {
	return &Verifier{rewards: rewards}
}

func (v *Verifier) Check(rec StepRecord) error {
	if rec.EpisodeID != v.episodeID {
		v.episodeID = rec.EpisodeID
		v.team = reward.NewTeamReward(rec.State.NAgents(), v.rewards)
		v.nextStep = 1
		v.Episodes++
	}
	if rec.Step != v.nextStep {
		return fmt.Errorf("episode %s: step gap: want=%d got=%d", rec.EpisodeID, v.nextStep, rec.Step)
	}
	v.nextStep++

	for _, e := range rec.Events {
		v.team.Notify(e)
	}
	got := v.team.ConsumeStepReward()
	if got != rec.Reward {
		return fmt.Errorf("episode %s step %d: reward mismatch: got=%d want=%d", rec.EpisodeID, rec.Step, got, rec.Reward)
	}
	if g := v.team.EpisodeGemsCollected(); g != rec.GemsCollected {
		return fmt.Errorf("episode %s step %d: gems mismatch: got=%d want=%d", rec.EpisodeID, rec.Step, g, rec.GemsCollected)
	}
	if a := v.team.EpisodeAgentsArrived(); a != rec.AgentsArrived {
		return fmt.Errorf("episode %s step %d: arrivals mismatch: got=%d want=%d", rec.EpisodeID, rec.Step, a, rec.AgentsArrived)
	}
	if d := rec.State.Digest(); d != rec.Digest {
		return fmt.Errorf("episode %s step %d: digest mismatch: got=%s want=%s", rec.EpisodeID, rec.Step, d, rec.Digest)
	}
	v.Checked++
	return nil
}
