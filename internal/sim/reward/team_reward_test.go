package reward

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gemgrid.ai/internal/sim/tuning"
)

func newTeam(n int) *TeamReward { return NewTeamReward(n, tuning.DefaultRewards()) }

func TestTeamReward_Scenarios(t *testing.T) {
	r := tuning.Rewards{GemCollected: 3, AgentArrived: 5, EndGame: 100}
	cases := []struct {
		name        string
		nAgents     int
		events      []Event
		wantReward  int
		wantGems    int
		wantArrived int
	}{
		{
			name:        "gem then two exits",
			nAgents:     3,
			events:      []Event{Gem(0, 0), Exit(0), Exit(1)},
			wantReward:  r.GemCollected + 2*r.AgentArrived,
			wantGems:    1,
			wantArrived: 2,
		},
		{
			name:        "all agents exit",
			nAgents:     3,
			events:      []Event{Exit(0), Exit(1), Exit(2)},
			wantReward:  3*r.AgentArrived + r.EndGame,
			wantArrived: 3,
		},
		{
			name:        "gem, death, exit",
			nAgents:     3,
			events:      []Event{Gem(0, 0), Died(1), Exit(2)},
			wantReward:  -1,
			wantGems:    1,
			wantArrived: 0,
		},
		{
			name:        "two deaths override earlier reward",
			nAgents:     3,
			events:      []Event{Gem(0, 0), Exit(2), Died(0), Died(1)},
			wantReward:  -2,
			wantGems:    1,
			wantArrived: 1,
		},
		{
			name:        "death first drops everything after",
			nAgents:     2,
			events:      []Event{Died(0), Gem(1, 0), Exit(1), Exit(0)},
			wantReward:  -1,
			wantGems:    0,
			wantArrived: 0,
		},
		{
			name:       "no events",
			nAgents:    2,
			wantReward: 0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			team := NewTeamReward(tc.nAgents, r)
			for _, e := range tc.events {
				team.Notify(e)
			}
			if got := team.ConsumeStepReward(); got != tc.wantReward {
				t.Fatalf("reward=%d want %d", got, tc.wantReward)
			}
			if got := team.EpisodeGemsCollected(); got != tc.wantGems {
				t.Fatalf("gems=%d want %d", got, tc.wantGems)
			}
			if got := team.EpisodeAgentsArrived(); got != tc.wantArrived {
				t.Fatalf("arrived=%d want %d", got, tc.wantArrived)
			}
		})
	}
}

func TestTeamReward_EndGameAcrossSteps(t *testing.T) {
	team := newTeam(3)
	team.Notify(Exit(0))
	team.Notify(Exit(1))
	if got := team.ConsumeStepReward(); got != 2 {
		t.Fatalf("step 1 reward=%d want 2", got)
	}
	team.Notify(Exit(2))
	if got := team.ConsumeStepReward(); got != 2 {
		t.Fatalf("step 2 reward=%d want arrival+end_game=2", got)
	}
	if team.EpisodeAgentsArrived() != 3 {
		t.Fatalf("arrived=%d want 3", team.EpisodeAgentsArrived())
	}
}

func TestTeamReward_DeathClampsPositiveOnly(t *testing.T) {
	team := newTeam(2)
	team.Notify(Gem(0, 0))
	team.Notify(Gem(1, 1))
	team.Notify(Died(0))
	if team.stepReward != DeathPenalty {
		t.Fatalf("after first death stepReward=%d want %d", team.stepReward, DeathPenalty)
	}
	team.Notify(Died(1))
	if team.stepReward != 2*DeathPenalty {
		t.Fatalf("after second death stepReward=%d want %d", team.stepReward, 2*DeathPenalty)
	}
	if team.StepDeaths() != 2 {
		t.Fatalf("StepDeaths=%d want 2", team.StepDeaths())
	}
}

func TestTeamReward_ConsumeResetsStepOnly(t *testing.T) {
	team := newTeam(2)
	team.Notify(Gem(0, 0))
	team.Notify(Died(1))
	if got := team.ConsumeStepReward(); got != -1 {
		t.Fatalf("reward=%d want -1", got)
	}
	if team.StepDeaths() != 0 {
		t.Fatalf("death counter not reset")
	}
	if got := team.ConsumeStepReward(); got != 0 {
		t.Fatalf("second consume=%d want 0", got)
	}
	if team.EpisodeGemsCollected() != 1 {
		t.Fatalf("episode gems lost on consume")
	}

	// The next step accepts positive reward again.
	team.Notify(Gem(1, 1))
	if got := team.ConsumeStepReward(); got != 1 {
		t.Fatalf("reward after death step=%d want 1", got)
	}
}

func TestTeamReward_Reset(t *testing.T) {
	team := newTeam(3)
	team.Notify(Gem(0, 0))
	team.Notify(Exit(0))
	team.Notify(Died(1))
	team.Reset()

	if team.NAgents() != 3 {
		t.Fatalf("NAgents=%d want 3", team.NAgents())
	}
	if team.EpisodeGemsCollected() != 0 || team.EpisodeAgentsArrived() != 0 || team.StepDeaths() != 0 {
		t.Fatalf("counters not cleared")
	}
	if got := team.ConsumeStepReward(); got != 0 {
		t.Fatalf("consume after reset=%d want 0", got)
	}
}

func TestTeamReward_CloneIndependent(t *testing.T) {
	team := newTeam(2)
	team.Notify(Gem(0, 0))
	cp := team.Clone()

	cp.Notify(Exit(0))
	cp.Notify(Died(1))

	if team.EpisodeAgentsArrived() != 0 || team.StepDeaths() != 0 {
		t.Fatalf("clone shares counters with the original")
	}
	if got := team.ConsumeStepReward(); got != 1 {
		t.Fatalf("original reward=%d want 1", got)
	}
	if got := cp.ConsumeStepReward(); got != -1 {
		t.Fatalf("clone reward=%d want -1", got)
	}
}

func TestTeamReward_IsObserver(t *testing.T) {
	var obs Observer = newTeam(1)
	obs.Notify(Exit(0))
	if got := obs.(*TeamReward).ConsumeStepReward(); got != 2 {
		t.Fatalf("reward=%d want 2", got)
	}
}

func TestEvent_JSON(t *testing.T) {
	events := []Event{Gem(1, 4), Exit(2), Died(0)}
	b, err := json.Marshal(events)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"type":"GEM_COLLECTED","agent_id":1,"gem_id":4},{"type":"AGENT_EXIT","agent_id":2},{"type":"AGENT_DIED","agent_id":0}]`
	if string(b) != want {
		t.Fatalf("json=%s\nwant %s", b, want)
	}
	var back []Event
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(events, back); diff != "" {
		t.Fatalf("events (-want +got):\n%s", diff)
	}
	var bad Event
	if err := json.Unmarshal([]byte(`{"type":"TELEPORT","agent_id":0}`), &bad); err == nil {
		t.Fatalf("expected unknown type error")
	}
}
