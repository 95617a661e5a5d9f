package protocol

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"gemgrid.ai/internal/sim/reward"
	"gemgrid.ai/internal/sim/world"
)

func TestDecodeStep_Valid(t *testing.T) {
	raw := []byte(`{
	  "type":"STEP",
	  "protocol_version":"1.0",
	  "req_id":"r1",
	  "state":{"agents_positions":[[0,1],[2,3]],"gems_collected":[true,false]},
	  "events":[
	    {"type":"GEM_COLLECTED","agent_id":0,"gem_id":0},
	    {"type":"AGENT_EXIT","agent_id":1}
	  ]
	}`)
	m, err := DecodeStep(raw)
	if err != nil {
		t.Fatalf("DecodeStep: %v", err)
	}
	want := world.NewState([]world.Position{{Row: 0, Col: 1}, {Row: 2, Col: 3}}, []bool{true, false})
	if !m.State.Equal(want) {
		t.Fatalf("state=%s want %s", m.State, want)
	}
	wantEvents := []reward.Event{reward.Gem(0, 0), reward.Exit(1)}
	if diff := cmp.Diff(wantEvents, m.Events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	if m.ReqID != "r1" {
		t.Fatalf("req_id=%q", m.ReqID)
	}
}

func TestDecodeStep_Rejects(t *testing.T) {
	cases := map[string]string{
		"not json":         `{`,
		"wrong type":       `{"type":"RESET","protocol_version":"1.0","state":{"agents_positions":[],"gems_collected":[]},"events":[]}`,
		"missing state":    `{"type":"STEP","protocol_version":"1.0","events":[]}`,
		"short position":   `{"type":"STEP","protocol_version":"1.0","state":{"agents_positions":[[1]],"gems_collected":[]},"events":[]}`,
		"negative row":     `{"type":"STEP","protocol_version":"1.0","state":{"agents_positions":[[-1,0]],"gems_collected":[]},"events":[]}`,
		"unknown event":    `{"type":"STEP","protocol_version":"1.0","state":{"agents_positions":[],"gems_collected":[]},"events":[{"type":"JUMP","agent_id":0}]}`,
		"gem without id":   `{"type":"STEP","protocol_version":"1.0","state":{"agents_positions":[],"gems_collected":[]},"events":[{"type":"GEM_COLLECTED","agent_id":0}]}`,
		"gems not boolean": `{"type":"STEP","protocol_version":"1.0","state":{"agents_positions":[],"gems_collected":[1]},"events":[]}`,
	}
	for name, raw := range cases {
		if _, err := DecodeStep([]byte(raw)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestDecodeBase(t *testing.T) {
	b, err := DecodeBase([]byte(`{"type":"HELLO","protocol_version":"1.0","driver_name":"d"}`))
	if err != nil {
		t.Fatalf("DecodeBase: %v", err)
	}
	if b.Type != TypeHello || b.ProtocolVersion != Version {
		t.Fatalf("base=%+v", b)
	}
}
