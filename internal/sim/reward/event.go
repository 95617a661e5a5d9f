package reward

import (
	"encoding/json"
	"fmt"

	"gemgrid.ai/internal/sim/world"
)

type EventKind int

const (
	AgentExit EventKind = iota + 1
	GemCollected
	AgentDied
)

const (
	TypeAgentExit    = "AGENT_EXIT"
	TypeGemCollected = "GEM_COLLECTED"
	TypeAgentDied    = "AGENT_DIED"
)

func (k EventKind) String() string {
	switch k {
	case AgentExit:
		return TypeAgentExit
	case GemCollected:
		return TypeGemCollected
	case AgentDied:
		return TypeAgentDied
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

func ParseEventKind(s string) (EventKind, error) {
	switch s {
	case TypeAgentExit:
		return AgentExit, nil
	case TypeGemCollected:
		return GemCollected, nil
	case TypeAgentDied:
		return AgentDied, nil
	}
	return 0, fmt.Errorf("unknown event type %q", s)
}

// Event is something that happened during a step. AgentID names the agent
// involved; GemID is meaningful for GemCollected only.
type Event struct {
	Kind    EventKind
	AgentID world.AgentID
	GemID   world.GemID
}

func Exit(agent world.AgentID) Event { return Event{Kind: AgentExit, AgentID: agent} }
func Died(agent world.AgentID) Event { return Event{Kind: AgentDied, AgentID: agent} }

func Gem(agent world.AgentID, gem world.GemID) Event {
	return Event{Kind: GemCollected, AgentID: agent, GemID: gem}
}

func (e Event) String() string {
	if e.Kind == GemCollected {
		return fmt.Sprintf("%s(agent=%d, gem=%d)", e.Kind, e.AgentID, e.GemID)
	}
	return fmt.Sprintf("%s(agent=%d)", e.Kind, e.AgentID)
}

type eventJSON struct {
	Type    string        `json:"type"`
	AgentID world.AgentID `json:"agent_id"`
	GemID   *world.GemID  `json:"gem_id,omitempty"`
}

func (e Event) MarshalJSON() ([]byte, error) {
	v := eventJSON{Type: e.Kind.String(), AgentID: e.AgentID}
	if e.Kind == GemCollected {
		gem := e.GemID
		v.GemID = &gem
	}
	return json.Marshal(v)
}

func (e *Event) UnmarshalJSON(b []byte) error {
	var v eventJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	kind, err := ParseEventKind(v.Type)
	if err != nil {
		return err
	}
	*e = Event{Kind: kind, AgentID: v.AgentID}
	if v.GemID != nil {
		e.GemID = *v.GemID
	}
	return nil
}

// Observer receives events as they happen, in the order the stepping loop
// produces them.
type Observer interface {
	Notify(e Event)
}
