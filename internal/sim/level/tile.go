package level

import (
	"fmt"
	"strconv"
)

// TileKind is the static role of a grid cell.
type TileKind int

const (
	Floor TileKind = iota
	Wall
	Gem
	Exit
	Start
	Void
	LaserSource
)

func (k TileKind) String() string {
	switch k {
	case Floor:
		return "Floor"
	case Wall:
		return "Wall"
	case Gem:
		return "Gem"
	case Exit:
		return "Exit"
	case Start:
		return "Start"
	case Void:
		return "Void"
	case LaserSource:
		return "LaserSource"
	}
	return fmt.Sprintf("TileKind(%d)", int(k))
}

// Direction is the facing of a laser source.
type Direction byte

const (
	North Direction = 'N'
	East  Direction = 'E'
	South Direction = 'S'
	West  Direction = 'W'
)

func (d Direction) valid() bool {
	switch d {
	case North, East, South, West:
		return true
	}
	return false
}

// Tile is one cell of a level. Agent is set for Start (the agent slot) and
// LaserSource (the agent colour); Dir only for LaserSource.
type Tile struct {
	Kind  TileKind
	Agent int
	Dir   Direction
}

// Token renders the tile in level text form.
func (t Tile) Token() string {
	switch t.Kind {
	case Wall:
		return "@"
	case Gem:
		return "G"
	case Exit:
		return "X"
	case Start:
		return "S" + strconv.Itoa(t.Agent)
	case Void:
		return "V"
	case LaserSource:
		return "L" + strconv.Itoa(t.Agent) + string(t.Dir)
	}
	return "."
}

// parseToken maps one whitespace-separated cell to a tile.
func parseToken(tok string) (Tile, bool) {
	switch tok {
	case ".":
		return Tile{Kind: Floor}, true
	case "@":
		return Tile{Kind: Wall}, true
	case "G":
		return Tile{Kind: Gem}, true
	case "X":
		return Tile{Kind: Exit}, true
	case "V":
		return Tile{Kind: Void}, true
	}
	switch tok[0] {
	case 'S':
		n, ok := agentNumber(tok[1:])
		if !ok {
			return Tile{}, false
		}
		return Tile{Kind: Start, Agent: n}, true
	case 'L':
		if len(tok) < 3 {
			return Tile{}, false
		}
		dir := Direction(tok[len(tok)-1])
		n, ok := agentNumber(tok[1 : len(tok)-1])
		if !ok || !dir.valid() {
			return Tile{}, false
		}
		return Tile{Kind: LaserSource, Agent: n, Dir: dir}, true
	}
	return Tile{}, false
}

// agentNumber accepts plain decimal digits only (no sign, no spaces).
func agentNumber(s string) (int, bool) {
	if s == "" || len(s) > 4 {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}
