package world

import (
	"encoding/json"
	"fmt"
)

// Position is a grid cell: Row counts down from the top of the level, Col
// counts right from its left edge. Both are 0-based.
type Position struct {
	Row int
	Col int
}

func (p Position) String() string { return fmt.Sprintf("(%d, %d)", p.Row, p.Col) }

// MarshalJSON encodes a position as a [row, col] pair.
func (p Position) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("[%d,%d]", p.Row, p.Col)), nil
}

func (p *Position) UnmarshalJSON(b []byte) error {
	var pair [2]int
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("position: %w", err)
	}
	p.Row, p.Col = pair[0], pair[1]
	return nil
}

// AgentID indexes State.AgentsPositions. The order is fixed at parse time.
type AgentID int

// GemID indexes State.GemsCollected. The order is fixed at parse time.
type GemID int
