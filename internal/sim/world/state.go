package world

import (
	"encoding/json"
	"strconv"
	"strings"
)

// State is one instant of an episode: where every agent stands and which gems
// have been collected.
//
// State has value semantics. Its sequences are never shared with callers:
// constructors and setters copy their input, getters return copies. The zero
// value is an empty state with no agents and no gems.
type State struct {
	agentsPositions []Position
	gemsCollected   []bool
}

// NewState builds a state from explicit sequences. It performs no validation;
// shape checks against a level belong to the level parser and episode runner.
func NewState(agentsPositions []Position, gemsCollected []bool) State {
	return State{
		agentsPositions: clonePositions(agentsPositions),
		gemsCollected:   cloneBools(gemsCollected),
	}
}

func (s State) NAgents() int { return len(s.agentsPositions) }
func (s State) NGems() int   { return len(s.gemsCollected) }

// AgentsPositions returns a copy of the agent positions, indexed by AgentID.
func (s State) AgentsPositions() []Position { return clonePositions(s.agentsPositions) }

// GemsCollected returns a copy of the gem flags, indexed by GemID.
func (s State) GemsCollected() []bool { return cloneBools(s.gemsCollected) }

func (s *State) SetAgentsPositions(v []Position) { s.agentsPositions = clonePositions(v) }
func (s *State) SetGemsCollected(v []bool)        { s.gemsCollected = cloneBools(v) }

// AgentPosition panics if id is out of range, like a slice index would.
func (s State) AgentPosition(id AgentID) Position { return s.agentsPositions[id] }

func (s *State) SetAgentPosition(id AgentID, p Position) {
	// Copy before writing so a State obtained by plain assignment keeps its own view.
	s.agentsPositions = clonePositions(s.agentsPositions)
	s.agentsPositions[id] = p
}

func (s State) GemCollected(id GemID) bool { return s.gemsCollected[id] }

func (s *State) SetGemCollected(id GemID, collected bool) {
	s.gemsCollected = cloneBools(s.gemsCollected)
	s.gemsCollected[id] = collected
}

// Clone returns a fully independent copy.
func (s State) Clone() State { return NewState(s.agentsPositions, s.gemsCollected) }

// Equal reports element-wise equality of both sequences. A nil and an empty
// sequence compare equal.
func (s State) Equal(o State) bool {
	if len(s.agentsPositions) != len(o.agentsPositions) || len(s.gemsCollected) != len(o.gemsCollected) {
		return false
	}
	for i, p := range s.agentsPositions {
		if o.agentsPositions[i] != p {
			return false
		}
	}
	for i, g := range s.gemsCollected {
		if o.gemsCollected[i] != g {
			return false
		}
	}
	return true
}

// String renders both sequences verbatim. The format is stable for logs; it is
// not meant to be parsed back.
func (s State) String() string {
	var b strings.Builder
	b.WriteString("WorldState(agents_positions=[")
	for i, p := range s.agentsPositions {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString("], gems_collected=[")
	for i, g := range s.gemsCollected {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatBool(g))
	}
	b.WriteString("])")
	return b.String()
}

type stateJSON struct {
	AgentsPositions []Position `json:"agents_positions"`
	GemsCollected   []bool     `json:"gems_collected"`
}

func (s State) MarshalJSON() ([]byte, error) {
	v := stateJSON{AgentsPositions: s.agentsPositions, GemsCollected: s.gemsCollected}
	if v.AgentsPositions == nil {
		v.AgentsPositions = []Position{}
	}
	if v.GemsCollected == nil {
		v.GemsCollected = []bool{}
	}
	return json.Marshal(v)
}

func (s *State) UnmarshalJSON(b []byte) error {
	var v stateJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	s.agentsPositions = v.AgentsPositions
	s.gemsCollected = v.GemsCollected
	return nil
}

func clonePositions(v []Position) []Position {
	if v == nil {
		return nil
	}
	out := make([]Position, len(v))
	copy(out, v)
	return out
}

func cloneBools(v []bool) []bool {
	if v == nil {
		return nil
	}
	out := make([]bool, len(v))
	copy(out, v)
	return out
}
