package level

import (
	"errors"
	"fmt"

	"gemgrid.ai/internal/sim/world"
)

// ErrorKind enumerates the ways a level can fail validation.
type ErrorKind int

const (
	EmptyWorld ErrorKind = iota + 1
	NoAgents
	InvalidTile
	InvalidFileName
	NotEnoughExitTiles
	DuplicateStartTile
	InconsistentDimensions
)

var kindNames = map[ErrorKind]string{
	EmptyWorld:             "EmptyWorld",
	NoAgents:               "NoAgents",
	InvalidTile:            "InvalidTile",
	InvalidFileName:        "InvalidFileName",
	NotEnoughExitTiles:     "NotEnoughExitTiles",
	DuplicateStartTile:     "DuplicateStartTile",
	InconsistentDimensions: "InconsistentDimensions",
}

func (k ErrorKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Sentinels for errors.Is. A *ParseError matches the sentinel of its Kind.
var (
	ErrEmptyWorld             = errors.New("empty world")
	ErrNoAgents               = errors.New("no agents")
	ErrInvalidTile            = errors.New("invalid tile")
	ErrInvalidFileName        = errors.New("invalid file name")
	ErrNotEnoughExitTiles     = errors.New("not enough exit tiles")
	ErrDuplicateStartTile     = errors.New("duplicate start tile")
	ErrInconsistentDimensions = errors.New("inconsistent dimensions")
)

var kindSentinels = map[ErrorKind]error{
	EmptyWorld:             ErrEmptyWorld,
	NoAgents:               ErrNoAgents,
	InvalidTile:            ErrInvalidTile,
	InvalidFileName:        ErrInvalidFileName,
	NotEnoughExitTiles:     ErrNotEnoughExitTiles,
	DuplicateStartTile:     ErrDuplicateStartTile,
	InconsistentDimensions: ErrInconsistentDimensions,
}

// ParseError describes the first rule a level violated. Only the fields of
// its Kind are meaningful:
//
//	InvalidTile             TileStr, Line, Col
//	InvalidFileName         FileName
//	NotEnoughExitTiles      NStarts, NExits
//	DuplicateStartTile      AgentID, Slot, Start1, Start2
//	InconsistentDimensions  ExpectedNCols, ActualNCols, Row
//
// Line, Col and Row are 0-based indexes into the grid's non-blank rows and
// their cells. For DuplicateStartTile, AgentID is the agent that Start1 gives
// a position to and Slot is the n of the repeated S<n> token.
type ParseError struct {
	Kind ErrorKind

	TileStr string
	Line    int
	Col     int

	FileName string

	NStarts int
	NExits  int

	AgentID world.AgentID
	Slot    int
	Start1  world.Position
	Start2  world.Position

	ExpectedNCols int
	ActualNCols   int
	Row           int
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case EmptyWorld:
		return "empty world: the level has no rows"
	case NoAgents:
		return "no agents: the level has no start tile"
	case InvalidTile:
		return fmt.Sprintf("invalid tile %q at line %d, col %d", e.TileStr, e.Line, e.Col)
	case InvalidFileName:
		return fmt.Sprintf("invalid file name %q: expected level<N> or <name>.txt", e.FileName)
	case NotEnoughExitTiles:
		return fmt.Sprintf("not enough exit tiles: %d agents but %d exits", e.NStarts, e.NExits)
	case DuplicateStartTile:
		return fmt.Sprintf("duplicate start tile S%d for agent %d at %s and %s", e.Slot, e.AgentID, e.Start1, e.Start2)
	case InconsistentDimensions:
		return fmt.Sprintf("inconsistent dimensions: row %d has %d columns, expected %d", e.Row, e.ActualNCols, e.ExpectedNCols)
	}
	return "parse error: " + e.Kind.String()
}

func (e *ParseError) Is(target error) bool {
	s, ok := kindSentinels[e.Kind]
	return ok && s == target
}
