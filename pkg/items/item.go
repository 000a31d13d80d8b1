// Package items places and animates pickups: coins, keys and power-ups.
package items

import (
	"math"

	"github.com/taigrr/shiftmaze/pkg/lighting"
	"github.com/taigrr/shiftmaze/pkg/math3d"
)

// Kind is the type of a pickup.
type Kind int

const (
	Coin Kind = iota
	Key
	SpeedBoost
	Invincibility
	TimeBonus
	Health
)

func (k Kind) String() string {
	if p, ok := properties[k]; ok {
		return p.name
	}
	return "unknown"
}

// IsPowerUp reports whether the kind is one of the random power-ups.
func (k Kind) IsPowerUp() bool {
	return k >= SpeedBoost && k <= Health
}

// Properties is the fixed per-kind tuning of an item.
type Properties struct {
	name      string
	Color     lighting.Color
	Radius    float64
	SpinSpeed float64 // Degrees per second
	Amplitude float64 // Float height
	Height    float64 // Rest height above the floor
	Duration  float64 // Seconds, for timed power-ups
	Value     float64 // Score, multiplier, seconds or lives, by kind
}

var properties = map[Kind]Properties{
	Coin:          {name: "coin", Color: lighting.RGB(1, 0.85, 0), Radius: 0.25, SpinSpeed: 120, Amplitude: 0.1, Height: 0.6, Value: 100},
	Key:           {name: "key", Color: lighting.RGB(0.7, 0.7, 0.8), Radius: 0.3, SpinSpeed: 60, Amplitude: 0.12, Height: 0.7, Value: 1},
	SpeedBoost:    {name: "speed", Color: lighting.RGB(0, 0.8, 1), Radius: 0.3, SpinSpeed: 180, Amplitude: 0.2, Height: 0.8, Duration: 8, Value: 1.5},
	Invincibility: {name: "invincible", Color: lighting.RGB(1, 0.5, 0), Radius: 0.35, SpinSpeed: 200, Amplitude: 0.25, Height: 0.8, Duration: 5, Value: 1},
	TimeBonus:     {name: "time", Color: lighting.RGB(0, 1, 0.5), Radius: 0.3, SpinSpeed: 90, Amplitude: 0.15, Height: 0.8, Value: 30},
	Health:        {name: "health", Color: lighting.RGB(1, 0.2, 0.2), Radius: 0.3, SpinSpeed: 45, Amplitude: 0.1, Height: 0.8, Value: 1},
}

// PropertiesOf returns the tuning for k.
func PropertiesOf(k Kind) Properties {
	return properties[k]
}

const (
	floatSpeed = 2.0
	pulseSpeed = 3.0
)

// Item is a single pickup in the world.
type Item struct {
	Kind      Kind
	Base      math3d.Vec3
	Position  math3d.Vec3
	Collected bool

	Spin       float64 // Radians about Y
	floatPhase float64
	pulsePhase float64
}

// New returns an item of kind k resting over the floor point p.
func New(k Kind, p math3d.Vec3) *Item {
	base := p.WithY(properties[k].Height)
	return &Item{Kind: k, Base: base, Position: base}
}

// Properties returns the item's tuning.
func (it *Item) Properties() Properties { return properties[it.Kind] }

// Update spins the item and bobs it on a sine wave.
func (it *Item) Update(dt float64) {
	if it.Collected || dt <= 0 {
		return
	}
	p := it.Properties()
	it.Spin = math.Mod(it.Spin+p.SpinSpeed*math.Pi/180*dt, 2*math.Pi)
	it.floatPhase = math.Mod(it.floatPhase+floatSpeed*dt, 2*math.Pi)
	it.pulsePhase = math.Mod(it.pulsePhase+pulseSpeed*dt, 2*math.Pi)
	it.Position = it.Base.WithY(it.Base.Y + p.Amplitude*math.Sin(it.floatPhase))
}

// Glow is the pulse intensity in [0.5, 1].
func (it *Item) Glow() float64 {
	return 0.75 + 0.25*math.Sin(it.pulsePhase)
}

// Collides reports whether a player of radius r at pos overlaps the item
// in the XZ plane. Height is ignored.
func (it *Item) Collides(pos math3d.Vec3, r float64) bool {
	if it.Collected {
		return false
	}
	sum := it.Properties().Radius + r
	dx, dz := it.Position.X-pos.X, it.Position.Z-pos.Z
	return dx*dx+dz*dz < sum*sum
}

// Transform is the model matrix for the item's mesh.
func (it *Item) Transform() math3d.Mat4 {
	return math3d.Translate(it.Position).Mul(math3d.RotateY(it.Spin))
}
