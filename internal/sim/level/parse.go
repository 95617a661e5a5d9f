// Package level validates level text and builds the initial world state of an
// episode.
//
// Level text is a grid of whitespace-separated tokens, one grid row per
// non-blank line:
//
//	.   floor          @   wall
//	G   gem            X   exit
//	V   void           S<n>  start tile of agent slot n
//	L<n><D>  laser source of agent colour n facing D (N, E, S or W)
//
// n is 1 to 4 decimal digits; longer numbers make the token an invalid tile.
// Agents are numbered by the scan order of their start tiles, not by n; n only
// has to be unique.
//
// Parse reports the first violated rule only.
package level

import (
	"strings"
	"unicode"

	"gemgrid.ai/internal/sim/world"
)

// Level is a validated grid. Starts, Exits, Gems, Lasers and Walls are listed
// in row-major scan order; index i of Starts is AgentID i and index i of Gems is
// GemID i.
type Level struct {
	Name   string
	Width  int
	Height int
	Grid   [][]Tile

	Starts []world.Position
	Exits  []world.Position
	Gems   []world.Position
	Lasers []world.Position
	Walls  []world.Position
}

// Parse validates text and returns the level, or a *ParseError.
func Parse(name, text string) (*Level, error) {
	rows := splitRows(text)
	if len(rows) == 0 {
		return nil, &ParseError{Kind: EmptyWorld}
	}
	if !validFileName(name) {
		return nil, &ParseError{Kind: InvalidFileName, FileName: name}
	}

	expected := len(rows[0])
	for i, r := range rows {
		if len(r) != expected {
			return nil, &ParseError{
				Kind:          InconsistentDimensions,
				ExpectedNCols: expected,
				ActualNCols:   len(r),
				Row:           i,
			}
		}
	}

	lvl := &Level{
		Name:   name,
		Width:  expected,
		Height: len(rows),
		Grid:   make([][]Tile, len(rows)),
	}
	for i, r := range rows {
		lvl.Grid[i] = make([]Tile, len(r))
		for j, tok := range r {
			tile, ok := parseToken(tok)
			if !ok {
				return nil, &ParseError{Kind: InvalidTile, TileStr: tok, Line: i, Col: j}
			}
			lvl.Grid[i][j] = tile
		}
	}

	type seenStart struct {
		id  world.AgentID
		pos world.Position
	}
	startBySlot := map[int]seenStart{}
	for i, row := range lvl.Grid {
		for j, tile := range row {
			pos := world.Position{Row: i, Col: j}
			switch tile.Kind {
			case Start:
				if first, dup := startBySlot[tile.Agent]; dup {
					return nil, &ParseError{
						Kind:    DuplicateStartTile,
						AgentID: first.id,
						Slot:    tile.Agent,
						Start1:  first.pos,
						Start2:  pos,
					}
				}
				startBySlot[tile.Agent] = seenStart{id: world.AgentID(len(lvl.Starts)), pos: pos}
				lvl.Starts = append(lvl.Starts, pos)
			case Exit:
				lvl.Exits = append(lvl.Exits, pos)
			case Gem:
				lvl.Gems = append(lvl.Gems, pos)
			case LaserSource:
				lvl.Lasers = append(lvl.Lasers, pos)
			case Wall:
				lvl.Walls = append(lvl.Walls, pos)
			}
		}
	}

	if len(lvl.Starts) == 0 {
		return nil, &ParseError{Kind: NoAgents}
	}
	if len(lvl.Exits) < len(lvl.Starts) {
		return nil, &ParseError{Kind: NotEnoughExitTiles, NStarts: len(lvl.Starts), NExits: len(lvl.Exits)}
	}
	return lvl, nil
}

func (l *Level) NAgents() int { return len(l.Starts) }
func (l *Level) NGems() int   { return len(l.Gems) }

// InitialState returns a fresh state: agents on their start tiles, no gem
// collected. Every call returns an independent value.
func (l *Level) InitialState() world.State {
	return world.NewState(l.Starts, make([]bool, len(l.Gems)))
}

// TileAt returns the tile under p and whether p is inside the grid.
func (l *Level) TileAt(p world.Position) (Tile, bool) {
	if p.Row < 0 || p.Row >= l.Height || p.Col < 0 || p.Col >= l.Width {
		return Tile{}, false
	}
	return l.Grid[p.Row][p.Col], true
}

// Render writes the grid back as level text. Parsing the result yields the
// same layout.
func (l *Level) Render() string {
	var b strings.Builder
	for _, row := range l.Grid {
		for j, t := range row {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(t.Token())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func splitRows(text string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		cells := strings.Fields(line)
		if len(cells) == 0 {
			continue
		}
		rows = append(rows, cells)
	}
	return rows
}

// validFileName accepts a built-in name ("level1", "level2", ...) or a path
// whose base name is "<stem>.txt". Whitespace is never allowed.
func validFileName(name string) bool {
	if name == "" || strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return false
	}
	if n, ok := strings.CutPrefix(name, "level"); ok {
		if num, ok := agentNumber(n); ok && num >= 1 && n[0] != '0' {
			return true
		}
	}
	base := name
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		base = name[i+1:]
	}
	stem, ok := strings.CutSuffix(base, ".txt")
	return ok && stem != ""
}
