package game

import (
	"github.com/taigrr/shiftmaze/pkg/doors"
	"github.com/taigrr/shiftmaze/pkg/items"
	"github.com/taigrr/shiftmaze/pkg/maze"
)

// Minimap glyphs. Later layers overwrite earlier ones: cells, then doors,
// then items, then enemies, then the player.
const (
	GlyphWall    = '#'
	GlyphDynamic = '~'
	GlyphEmpty   = '.'
	GlyphStart   = 'S'
	GlyphExit    = 'E'
	GlyphTrap    = '^'
	GlyphDoor    = 'D'
	GlyphOpen    = '/'
	GlyphCoin    = '$'
	GlyphKey     = 'k'
	GlyphPowerUp = '+'
	GlyphEnemy   = '!'
	GlyphPlayer  = '@'
)

func cellGlyph(c maze.Cell) rune {
	switch {
	case c == maze.Wall:
		return GlyphWall
	case c.IsDynamic():
		return GlyphDynamic
	case c == maze.Start:
		return GlyphStart
	case c == maze.Exit:
		return GlyphExit
	case c == maze.Trap:
		return GlyphTrap
	case c == maze.Door:
		return GlyphDoor
	}
	return GlyphEmpty
}

func itemGlyph(k items.Kind) rune {
	switch k {
	case items.Coin:
		return GlyphCoin
	case items.Key:
		return GlyphKey
	}
	return GlyphPowerUp
}

// Minimap draws the grid top-down, one rune per cell, as rows of constant z.
func (s *Session) Minimap() []string {
	grid := s.maze.Snapshot()
	runes := make([][]rune, len(grid))
	for z, row := range grid {
		runes[z] = make([]rune, len(row))
		for x, c := range row {
			runes[z][x] = cellGlyph(c)
		}
	}
	put := func(p maze.GridPos, r rune) {
		if s.maze.InBounds(p.X, p.Z) {
			runes[p.Z][p.X] = r
		}
	}

	for _, d := range s.doors.Doors() {
		if d.State == doors.Open {
			put(d.Cell, GlyphOpen)
		}
	}
	for _, it := range s.items.Items() {
		if !it.Collected {
			put(s.maze.CellOf(it.Position), itemGlyph(it.Kind))
		}
	}
	for _, e := range s.enemies.Enemies() {
		if e.Alive {
			put(s.maze.CellOf(e.Position), GlyphEnemy)
		}
	}
	put(s.PlayerCell(), GlyphPlayer)

	rows := make([]string, len(runes))
	for z, row := range runes {
		rows[z] = string(row)
	}
	return rows
}
