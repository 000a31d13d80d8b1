// Package level holds the level table and scoring.
package level

import (
	"errors"
	"fmt"
	"slices"

	"github.com/taigrr/shiftmaze/pkg/lighting"
	"github.com/taigrr/shiftmaze/pkg/maze"
)

var (
	// ErrUnknownLevel is returned by Get for an index outside the table.
	ErrUnknownLevel = errors.New("level: unknown level")
	// ErrInvalidLevel is returned by Level.Validate.
	ErrInvalidLevel = errors.New("level: invalid level")
)

// Level describes one stage of the game.
type Level struct {
	Name        string
	Description string

	MazeSize       int
	Enemies        int // Patrol and circular enemies
	ChaseEnemies   int
	Guard          bool
	TimeLimit      float64 // Seconds
	EnemySpeedMult float64
	ShiftInterval  float64 // Seconds
	DynamicWalls   int
	Keys           int
	Coins          int
	PowerUps       int
	Traps          int

	WallColor  lighting.Color
	FloorColor lighting.Color
	FogColor   lighting.Color
	FogDensity float64
}

// Table is the level progression, easiest first.
var Table = []Level{
	{
		Name:           "The Beginning",
		Description:    "A small maze to learn the walls that move.",
		MazeSize:       10,
		Enemies:        2,
		TimeLimit:      180,
		EnemySpeedMult: 1.0,
		ShiftInterval:  45,
		DynamicWalls:   3,
		Coins:          5,
		PowerUps:       2,
		WallColor:      lighting.RGB(0.6, 0.5, 0.4),
		FloorColor:     lighting.RGB(0.4, 0.5, 0.4),
		FogColor:       lighting.RGB(0.05, 0.05, 0.1),
		FogDensity:     0.015,
	},
	{
		Name:           "Dark Corridors",
		Description:    "Something has noticed you. Find the key.",
		MazeSize:       12,
		Enemies:        3,
		ChaseEnemies:   1,
		TimeLimit:      150,
		EnemySpeedMult: 1.2,
		ShiftInterval:  35,
		DynamicWalls:   5,
		Keys:           1,
		Coins:          7,
		PowerUps:       3,
		WallColor:      lighting.RGB(0.4, 0.35, 0.3),
		FloorColor:     lighting.RGB(0.3, 0.3, 0.35),
		FogColor:       lighting.RGB(0.02, 0.02, 0.05),
		FogDensity:     0.025,
	},
	{
		Name:           "The Labyrinth",
		Description:    "A guard keeps watch and the floor has teeth.",
		MazeSize:       15,
		Enemies:        4,
		ChaseEnemies:   2,
		Guard:          true,
		TimeLimit:      180,
		EnemySpeedMult: 1.4,
		ShiftInterval:  25,
		DynamicWalls:   8,
		Keys:           2,
		Coins:          10,
		PowerUps:       3,
		Traps:          1,
		WallColor:      lighting.RGB(0.5, 0.4, 0.5),
		FloorColor:     lighting.RGB(0.35, 0.3, 0.4),
		FogColor:       lighting.RGB(0.03, 0.02, 0.05),
		FogDensity:     0.02,
	},
	{
		Name:           "Chaos Zone",
		Description:    "The walls shift faster than you can map them.",
		MazeSize:       15,
		Enemies:        5,
		ChaseEnemies:   3,
		Guard:          true,
		TimeLimit:      150,
		EnemySpeedMult: 1.6,
		ShiftInterval:  20,
		DynamicWalls:   12,
		Keys:           3,
		Coins:          12,
		PowerUps:       4,
		Traps:          2,
		WallColor:      lighting.RGB(0.6, 0.3, 0.3),
		FloorColor:     lighting.RGB(0.4, 0.25, 0.25),
		FogColor:       lighting.RGB(0.05, 0.02, 0.02),
		FogDensity:     0.03,
	},
	{
		Name:           "The Final Escape",
		Description:    "Four keys, four hunters, one way out.",
		MazeSize:       18,
		Enemies:        6,
		ChaseEnemies:   4,
		Guard:          true,
		TimeLimit:      200,
		EnemySpeedMult: 1.8,
		ShiftInterval:  15,
		DynamicWalls:   15,
		Keys:           4,
		Coins:          15,
		PowerUps:       5,
		Traps:          3,
		WallColor:      lighting.RGB(0.2, 0.2, 0.25),
		FloorColor:     lighting.RGB(0.15, 0.15, 0.2),
		FogColor:       lighting.RGB(0.01, 0.01, 0.02),
		FogDensity:     0.035,
	},
}

// Count returns the number of levels.
func Count() int { return len(Table) }

// Get returns level i, counting from zero.
func Get(i int) (Level, error) {
	if i < 0 || i >= len(Table) {
		return Level{}, fmt.Errorf("index %d of %d: %w", i, len(Table), ErrUnknownLevel)
	}
	return Table[i], nil
}

// IsLast reports whether i is the final level.
func IsLast(i int) bool { return i == len(Table)-1 }

// Validate reports the first inconsistent field.
func (l Level) Validate() error {
	switch {
	case l.Name == "":
		return fmt.Errorf("empty name: %w", ErrInvalidLevel)
	case !slices.Contains(maze.Sizes, l.MazeSize):
		return fmt.Errorf("%s: maze size %d: %w", l.Name, l.MazeSize, ErrInvalidLevel)
	case l.Enemies < 0 || l.ChaseEnemies < 0 || l.Keys < 0 || l.Coins < 0 || l.PowerUps < 0 || l.Traps < 0:
		return fmt.Errorf("%s: negative count: %w", l.Name, ErrInvalidLevel)
	case l.TimeLimit <= 0:
		return fmt.Errorf("%s: time limit %v: %w", l.Name, l.TimeLimit, ErrInvalidLevel)
	case l.EnemySpeedMult <= 0:
		return fmt.Errorf("%s: enemy speed %v: %w", l.Name, l.EnemySpeedMult, ErrInvalidLevel)
	case l.ShiftInterval <= 0:
		return fmt.Errorf("%s: shift interval %v: %w", l.Name, l.ShiftInterval, ErrInvalidLevel)
	case l.FogDensity < 0:
		return fmt.Errorf("%s: fog density %v: %w", l.Name, l.FogDensity, ErrInvalidLevel)
	}
	return nil
}

// MazeConfig returns the maze settings for the level on top of
// maze.DefaultConfig.
func (l Level) MazeConfig() maze.Config {
	cfg := maze.DefaultConfig()
	cfg.Size = l.MazeSize
	cfg.ShiftInterval = l.ShiftInterval
	cfg.DynamicWalls = l.DynamicWalls
	cfg.Traps = l.Traps
	return cfg
}

// Fog returns the level's fog.
func (l Level) Fog() *lighting.Fog {
	return &lighting.Fog{Color: l.FogColor, Density: l.FogDensity}
}

// Score is the reward for finishing level index with remaining seconds left
// on the clock and coins collected.
func Score(remaining float64, coins, index int) int {
	return int(max(remaining, 0)*10) + coins*100 + (index+1)*500
}
