package maze

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("maze: invalid config")

// Sizes lists the supported grid sizes.
var Sizes = []int{10, 12, 15, 18}

// Config controls generation and animation of a maze.
type Config struct {
	Size       int     // Cells per side; one of Sizes
	CellSize   float64 // World units per cell
	WallHeight float64

	ShiftInterval    float64 // Seconds between maze shifts
	TempWallLifetime float64 // Seconds a shift-spawned wall lives; 0 means two shift intervals
	DynamicWalls     int

	RotationSpeed float64 // Degrees per second
	SlideSpeed    float64 // Path parameter units per second
	ScaleSpeed    float64 // Spring frequency in Hz
	ScaleToggle   float64 // Seconds between scale target flips

	Traps  int
	Margin float64 // Gap between a static wall's collision box and its cell edge

	Logger *log.Logger
}

// DefaultConfig returns the configuration of the first level.
func DefaultConfig() Config {
	return Config{
		Size:          10,
		CellSize:      2,
		WallHeight:    2,
		ShiftInterval: 30,
		DynamicWalls:  5,
		RotationSpeed: 45,
		SlideSpeed:    0.3,
		ScaleSpeed:    1,
		ScaleToggle:   3,
		Margin:        0.1,
	}
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	switch {
	case !slices.Contains(Sizes, c.Size):
		return fmt.Errorf("size %d not in %v: %w", c.Size, Sizes, ErrInvalidConfig)
	case c.CellSize <= 0:
		return fmt.Errorf("cell size %v: %w", c.CellSize, ErrInvalidConfig)
	case c.WallHeight <= 0:
		return fmt.Errorf("wall height %v: %w", c.WallHeight, ErrInvalidConfig)
	case c.ShiftInterval <= 0:
		return fmt.Errorf("shift interval %v: %w", c.ShiftInterval, ErrInvalidConfig)
	case c.TempWallLifetime < 0:
		return fmt.Errorf("temporary wall lifetime %v: %w", c.TempWallLifetime, ErrInvalidConfig)
	case c.DynamicWalls < 0 || c.Traps < 0:
		return fmt.Errorf("negative wall or trap count: %w", ErrInvalidConfig)
	case c.Margin < 0 || c.Margin >= c.CellSize/2:
		return fmt.Errorf("margin %v for cell size %v: %w", c.Margin, c.CellSize, ErrInvalidConfig)
	case c.ScaleToggle <= 0 || c.ScaleSpeed <= 0:
		return fmt.Errorf("scale timing %v/%v: %w", c.ScaleToggle, c.ScaleSpeed, ErrInvalidConfig)
	}
	return nil
}

func (c Config) tempLifetime() float64 {
	if c.TempWallLifetime > 0 {
		return c.TempWallLifetime
	}
	return 2 * c.ShiftInterval
}

func (c Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger.WithPrefix("maze")
	}
	return log.New(io.Discard)
}
