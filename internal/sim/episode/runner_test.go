package episode

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"gemgrid.ai/internal/sim/level"
	"gemgrid.ai/internal/sim/reward"
	"gemgrid.ai/internal/sim/tuning"
	"gemgrid.ai/internal/sim/world"
)

type memSink struct {
	steps     []StepRecord
	summaries []Summary
	failWrite bool
}

func (m *memSink) WriteStep(rec StepRecord) error {
	m.steps = append(m.steps, rec)
	if m.failWrite {
		return errors.New("disk full")
	}
	return nil
}

func (m *memSink) RecordEpisode(sum Summary) { m.summaries = append(m.summaries, sum) }

func newRunner(t *testing.T, text string, maxSteps int, sinks ...Sink) (*Runner, *bytes.Buffer) {
	t.Helper()
	lvl, err := level.Parse("test.txt", text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var buf bytes.Buffer
	logger := log.New(&buf, "[test] ", 0)
	return New(lvl, Config{MaxSteps: maxSteps, Rewards: tuning.DefaultRewards()}, logger, sinks...), &buf
}

const twoAgents = `
S0 . G X
S1 . . X
`

func TestRunner_StepsToCompletion(t *testing.T) {
	sink := &memSink{}
	r, _ := newRunner(t, twoAgents, 0, sink)
	id := r.ID()

	s := r.State()
	s.SetAgentPosition(0, world.Position{Row: 0, Col: 2})
	s.SetGemCollected(0, true)
	rec, err := r.StepOnce(s, []reward.Event{reward.Gem(0, 0)})
	if err != nil {
		t.Fatalf("step 1: %v", err)
	}
	if rec.Step != 1 || rec.Reward != 1 || rec.Done {
		t.Fatalf("step 1 record: %+v", rec)
	}
	if rec.Digest != s.Digest() {
		t.Fatalf("digest mismatch")
	}

	s.SetAgentPosition(0, world.Position{Row: 0, Col: 3})
	s.SetAgentPosition(1, world.Position{Row: 1, Col: 3})
	rec, err = r.StepOnce(s, []reward.Event{reward.Exit(0), reward.Exit(1)})
	if err != nil {
		t.Fatalf("step 2: %v", err)
	}
	if rec.Reward != 3 || !rec.Done || rec.Reason != DoneAllArrived {
		t.Fatalf("step 2 record: %+v", rec)
	}

	if _, err := r.StepOnce(s, nil); !errors.Is(err, ErrFinished) {
		t.Fatalf("expected ErrFinished, got %v", err)
	}
	if len(sink.steps) != 2 || len(sink.summaries) != 1 {
		t.Fatalf("sink got %d steps %d summaries", len(sink.steps), len(sink.summaries))
	}
	sum := sink.summaries[0]
	if sum.EpisodeID != id || sum.TotalReward != 4 || sum.Steps != 2 || sum.GemsCollected != 1 || sum.AgentsArrived != 2 {
		t.Fatalf("summary: %+v", sum)
	}

	next := r.Reset()
	if r.ID() == id {
		t.Fatalf("reset kept the episode id")
	}
	if !next.Equal(r.Level().InitialState()) || r.Step() != 0 || r.Done() {
		t.Fatalf("reset did not restore the initial state")
	}
	if len(sink.summaries) != 1 {
		t.Fatalf("reset after completion recorded the episode twice")
	}
}

func TestRunner_DeathEndsEpisode(t *testing.T) {
	r, _ := newRunner(t, twoAgents, 0)
	rec, err := r.StepOnce(r.State(), []reward.Event{reward.Gem(0, 0), reward.Died(1), reward.Exit(0)})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if rec.Reward != -1 || rec.GemsCollected != 1 || rec.AgentsArrived != 0 {
		t.Fatalf("record: %+v", rec)
	}
	if !rec.Done || rec.Reason != DoneAgentDied {
		t.Fatalf("expected death to end the episode: %+v", rec)
	}
}

func TestRunner_MaxSteps(t *testing.T) {
	r, _ := newRunner(t, twoAgents, 2)
	if rec, _ := r.StepOnce(r.State(), nil); rec.Done {
		t.Fatalf("done too early")
	}
	rec, err := r.StepOnce(r.State(), nil)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if !rec.Done || rec.Reason != DoneMaxSteps {
		t.Fatalf("expected max-steps stop: %+v", rec)
	}
}

func TestRunner_RejectsBadInput(t *testing.T) {
	r, _ := newRunner(t, twoAgents, 0)

	wrong := world.NewState([]world.Position{{Row: 0, Col: 0}}, []bool{false})
	if _, err := r.StepOnce(wrong, nil); !errors.Is(err, ErrStateShape) {
		t.Fatalf("expected ErrStateShape, got %v", err)
	}
	bad := [][]reward.Event{
		{reward.Exit(2)},
		{reward.Died(-1)},
		{reward.Gem(0, 1)},
		{{Kind: 0, AgentID: 0}},
	}
	for _, events := range bad {
		if _, err := r.StepOnce(r.State(), events); !errors.Is(err, ErrBadEvent) {
			t.Fatalf("events %v: expected ErrBadEvent, got %v", events, err)
		}
	}
	if r.Step() != 0 {
		t.Fatalf("rejected steps advanced the episode")
	}
}

func TestRunner_RejectsRepeatedExitAndGem(t *testing.T) {
	sink := &memSink{}
	r, _ := newRunner(t, twoAgents, 0, sink)

	if _, err := r.StepOnce(r.State(), []reward.Event{reward.Exit(0), reward.Gem(1, 0)}); err != nil {
		t.Fatalf("step 1: %v", err)
	}
	repeats := [][]reward.Event{
		{reward.Exit(0)},
		{reward.Gem(1, 0)},
		{reward.Gem(0, 0)},
		{reward.Exit(1), reward.Exit(1)},
	}
	for _, events := range repeats {
		if _, err := r.StepOnce(r.State(), events); !errors.Is(err, ErrBadEvent) {
			t.Fatalf("events %v: expected ErrBadEvent, got %v", events, err)
		}
	}
	if r.Step() != 1 || r.Done() || len(sink.steps) != 1 {
		t.Fatalf("rejected steps changed the episode: step=%d done=%v records=%d", r.Step(), r.Done(), len(sink.steps))
	}

	// The rejected duplicate pair must not have marked agent 1 as exited.
	rec, err := r.StepOnce(r.State(), []reward.Event{reward.Exit(1)})
	if err != nil {
		t.Fatalf("step 2: %v", err)
	}
	if !rec.Done || rec.Reason != DoneAllArrived || rec.AgentsArrived != 2 {
		t.Fatalf("step 2 record: %+v", rec)
	}

	r.Reset()
	if _, err := r.StepOnce(r.State(), []reward.Event{reward.Exit(0), reward.Gem(0, 0)}); err != nil {
		t.Fatalf("after reset: %v", err)
	}
}

func TestRunner_SinkErrorsAreLogged(t *testing.T) {
	sink := &memSink{failWrite: true}
	r, buf := newRunner(t, twoAgents, 0, sink)
	if _, err := r.StepOnce(r.State(), nil); err != nil {
		t.Fatalf("sink failure leaked into the step: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("disk full")) {
		t.Fatalf("sink error not logged: %q", buf.String())
	}
}

func TestRunner_ResetMidEpisodeRecordsSummary(t *testing.T) {
	sink := &memSink{}
	r, _ := newRunner(t, twoAgents, 0, sink)
	r.Reset()
	if len(sink.summaries) != 0 {
		t.Fatalf("reset before any step recorded an episode")
	}
	_, _ = r.StepOnce(r.State(), []reward.Event{reward.Gem(1, 0)})
	r.Reset()
	if len(sink.summaries) != 1 || sink.summaries[0].Reason != DoneReset {
		t.Fatalf("summaries: %+v", sink.summaries)
	}
}

func TestRunner_StateIsACopy(t *testing.T) {
	r, _ := newRunner(t, twoAgents, 0)
	s := r.State()
	s.SetAgentPosition(0, world.Position{Row: 1, Col: 1})
	if r.State().Equal(s) {
		t.Fatalf("State() exposed the live state")
	}
}

func TestVerifier_ReplaysRecords(t *testing.T) {
	sink := &memSink{}
	r, _ := newRunner(t, twoAgents, 0, sink)
	steps := [][]reward.Event{
		{reward.Gem(0, 0)},
		nil,
		{reward.Exit(0)},
		{reward.Exit(1)},
	}
	for _, ev := range steps {
		if _, err := r.StepOnce(r.State(), ev); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	r.Reset()
	if _, err := r.StepOnce(r.State(), []reward.Event{reward.Died(0)}); err != nil {
		t.Fatalf("step: %v", err)
	}

	v := NewVerifier(tuning.DefaultRewards())
	for _, rec := range sink.steps {
		if err := v.Check(rec); err != nil {
			t.Fatalf("verify: %v", err)
		}
	}
	if v.Checked != 5 || v.Episodes != 2 {
		t.Fatalf("checked=%d episodes=%d", v.Checked, v.Episodes)
	}

	tampered := sink.steps[0]
	tampered.Reward = 7
	if err := NewVerifier(tuning.DefaultRewards()).Check(tampered); err == nil {
		t.Fatalf("expected reward mismatch")
	}
	gap := sink.steps[1]
	if err := NewVerifier(tuning.DefaultRewards()).Check(gap); err == nil {
		t.Fatalf("expected step gap error")
	}
}
