package log

import (
	"path/filepath"
	"testing"

	"gemgrid.ai/internal/sim/episode"
	"gemgrid.ai/internal/sim/reward"
	"gemgrid.ai/internal/sim/world"
)

func TestStepLogger_WriteAndRead(t *testing.T) {
	dir := t.TempDir()
	l := NewStepLogger(dir)

	st := world.NewState([]world.Position{{Row: 1, Col: 2}}, []bool{true})
	recs := []episode.StepRecord{
		{EpisodeID: "e1", Level: "level1", Step: 1, State: st, Digest: st.Digest(), Reward: 1, GemsCollected: 1,
			Events: []reward.Event{reward.Gem(0, 0)}},
		{EpisodeID: "e1", Level: "level1", Step: 2, State: st, Digest: st.Digest(), Reward: 2, GemsCollected: 1, AgentsArrived: 1,
			Events: []reward.Event{reward.Exit(0)}, Done: true, Reason: episode.DoneAllArrived},
	}
	for _, r := range recs {
		if err := l.WriteStep(r); err != nil {
			t.Fatalf("WriteStep: %v", err)
		}
	}
	l.RecordEpisode(episode.Summary{EpisodeID: "e1"})
	if err := l.WriteStep(episode.StepRecord{EpisodeID: "e2", Step: 1, State: st, Digest: st.Digest()}); err != nil {
		t.Fatalf("WriteStep e2: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	files, err := ListStepFiles(filepath.Join(dir, "steps"))
	if err != nil {
		t.Fatalf("ListStepFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files=%v want 2", files)
	}

	var got []episode.StepRecord
	for _, f := range files {
		if err := ReadSteps(f, func(r episode.StepRecord) error {
			got = append(got, r)
			return nil
		}); err != nil {
			t.Fatalf("ReadSteps: %v", err)
		}
	}
	if len(got) != 3 {
		t.Fatalf("records=%d want 3", len(got))
	}
	byEpisode := map[string]int{}
	for _, r := range got {
		byEpisode[r.EpisodeID]++
		if !r.State.Equal(st) || r.Digest != st.Digest() {
			t.Fatalf("state lost in round trip: %+v", r)
		}
	}
	if byEpisode["e1"] != 2 || byEpisode["e2"] != 1 {
		t.Fatalf("records per episode: %v", byEpisode)
	}
}
