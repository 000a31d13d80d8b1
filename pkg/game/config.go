package game

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/taigrr/shiftmaze/pkg/level"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("game: invalid config")

// TerrainConfig shapes the rolling floor.
type TerrainConfig struct {
	Amplitude  float64
	Frequency  float64
	Resolution int // Quads per side
}

// Config holds the player and camera tuning for a session.
type Config struct {
	Seed  uint64
	Level int // Starting level, from zero

	PlayerRadius     float64
	PlayerHeight     float64 // Eye height
	MoveSpeed        float64 // World units per second
	MouseSensitivity float64 // Radians per input unit
	Lives            int

	FOV  float64 // Degrees
	Near float64
	Far  float64

	Terrain TerrainConfig

	Logger *log.Logger
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		PlayerRadius:     0.3,
		PlayerHeight:     1.5,
		MoveSpeed:        5,
		MouseSensitivity: 0.002,
		Lives:            3,
		FOV:              60,
		Near:             0.1,
		Far:              100,
		Terrain:          TerrainConfig{Amplitude: 0.15, Frequency: 0.3, Resolution: 40},
	}
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	switch {
	case c.Level < 0 || c.Level >= level.Count():
		return fmt.Errorf("level %d of %d: %w", c.Level, level.Count(), ErrInvalidConfig)
	case c.PlayerRadius <= 0:
		return fmt.Errorf("player radius %v: %w", c.PlayerRadius, ErrInvalidConfig)
	case c.PlayerHeight <= 0:
		return fmt.Errorf("player height %v: %w", c.PlayerHeight, ErrInvalidConfig)
	case c.MoveSpeed <= 0:
		return fmt.Errorf("move speed %v: %w", c.MoveSpeed, ErrInvalidConfig)
	case c.Lives < 1:
		return fmt.Errorf("lives %d: %w", c.Lives, ErrInvalidConfig)
	case c.FOV <= 0 || c.FOV >= 180:
		return fmt.Errorf("fov %v: %w", c.FOV, ErrInvalidConfig)
	case c.Near <= 0 || c.Far <= c.Near:
		return fmt.Errorf("clip planes %v..%v: %w", c.Near, c.Far, ErrInvalidConfig)
	case c.Terrain.Resolution < 1 || c.Terrain.Amplitude < 0:
		return fmt.Errorf("terrain %+v: %w", c.Terrain, ErrInvalidConfig)
	}
	return nil
}

func (c Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger.WithPrefix("game")
	}
	return log.New(io.Discard)
}
