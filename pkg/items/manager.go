package items

import (
	"math/rand/v2"

	"github.com/taigrr/shiftmaze/pkg/level"
	"github.com/taigrr/shiftmaze/pkg/math3d"
	"github.com/taigrr/shiftmaze/pkg/maze"
)

// keyClearance is the preferred minimum grid distance from the start to a
// key.
const keyClearance = 3

// Pickup is one collected item, reported to the session.
type Pickup struct {
	Kind  Kind
	Value float64
	At    math3d.Vec3
}

// PowerUp is a running timed effect.
type PowerUp struct {
	Kind      Kind
	Remaining float64
}

// Manager owns a level's items and the player's timed effects.
type Manager struct {
	items        []*Item
	keysRequired int
	coins        int
	keys         int

	speedTimer      float64
	speedMultiplier float64
	invincibleTimer float64
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{speedMultiplier: 1}
}

// Add places an item.
func (m *Manager) Add(it *Item) {
	m.items = append(m.items, it)
	if it.Kind == Key {
		m.keysRequired++
	}
}

// Items returns every item, collected or not.
func (m *Manager) Items() []*Item { return m.items }

// Spawn replaces the items with those of lv. Keys go only on cells reached
// from the start without passing a door or a trap, so every locked door has
// its key on the near side and no key costs a life. Coins and power-ups go
// on any free cell.
func (m *Manager) Spawn(lv level.Level, mz *maze.Maze, rng *rand.Rand) {
	*m = *NewManager()
	used := map[maze.GridPos]bool{}
	start := mz.Start()
	dist := mz.Distances(start, func(p maze.GridPos) bool {
		c := mz.CellAt(p.X, p.Z)
		return c != maze.Door && c != maze.Trap
	})
	place := func(k Kind, exclude func(maze.GridPos) bool) bool {
		p, ok := mz.RandomEmptyCell(rng, func(p maze.GridPos) bool {
			return used[p] || exclude(p)
		})
		if !ok {
			return false
		}
		used[p] = true
		m.Add(New(k, mz.GridToWorld(p.X, p.Z)))
		return true
	}

	unreachable := func(p maze.GridPos) bool { return mz.DistanceAt(dist, p) < 0 }
	for range lv.Keys {
		if place(Key, func(p maze.GridPos) bool { return unreachable(p) || p.Manhattan(start) < keyClearance }) {
			continue
		}
		place(Key, unreachable)
	}

	nearStart := func(p maze.GridPos) bool { return p.Manhattan(start) < 2 }
	for range lv.Coins {
		place(Coin, nearStart)
	}
	for range lv.PowerUps {
		place(SpeedBoost+Kind(rng.IntN(4)), nearStart)
	}
}

// Update animates the items and counts down the timed effects.
func (m *Manager) Update(dt float64) {
	if dt <= 0 {
		return
	}
	for _, it := range m.items {
		it.Update(dt)
	}
	if m.speedTimer > 0 {
		m.speedTimer -= dt
		if m.speedTimer <= 0 {
			m.speedTimer = 0
			m.speedMultiplier = 1
		}
	}
	if m.invincibleTimer > 0 {
		m.invincibleTimer = max(m.invincibleTimer-dt, 0)
	}
}

// Collect picks up every item a player of radius r at pos touches and
// applies the timed effects. Time bonuses and health are left to the
// caller.
func (m *Manager) Collect(pos math3d.Vec3, r float64) []Pickup {
	var got []Pickup
	for _, it := range m.items {
		if !it.Collides(pos, r) {
			continue
		}
		it.Collected = true
		p := it.Properties()
		switch it.Kind {
		case Coin:
			m.coins++
		case Key:
			m.keys++
		case SpeedBoost:
			m.speedTimer = p.Duration
			m.speedMultiplier = p.Value
		case Invincibility:
			m.invincibleTimer = p.Duration
		}
		got = append(got, Pickup{Kind: it.Kind, Value: p.Value, At: it.Position})
	}
	return got
}

// SpeedMultiplier scales the player's move speed.
func (m *Manager) SpeedMultiplier() float64 { return m.speedMultiplier }

// Invincible reports whether enemy contact is harmless.
func (m *Manager) Invincible() bool { return m.invincibleTimer > 0 }

// Coins returns the number of coins collected.
func (m *Manager) Coins() int { return m.coins }

// TotalCoins returns the number of coins placed.
func (m *Manager) TotalCoins() int {
	n := 0
	for _, it := range m.items {
		if it.Kind == Coin {
			n++
		}
	}
	return n
}

// Keys returns the number of keys collected.
func (m *Manager) Keys() int { return m.keys }

// KeysRequired returns the number of keys placed.
func (m *Manager) KeysRequired() int { return m.keysRequired }

// HasAllKeys reports whether every placed key has been collected.
func (m *Manager) HasAllKeys() bool { return m.keys >= m.keysRequired }

// ActivePowerUps lists the running timed effects.
func (m *Manager) ActivePowerUps() []PowerUp {
	var out []PowerUp
	if m.speedTimer > 0 {
		out = append(out, PowerUp{Kind: SpeedBoost, Remaining: m.speedTimer})
	}
	if m.invincibleTimer > 0 {
		out = append(out, PowerUp{Kind: Invincibility, Remaining: m.invincibleTimer})
	}
	return out
}

// ClearEffects ends every timed effect.
func (m *Manager) ClearEffects() {
	m.speedTimer, m.invincibleTimer = 0, 0
	m.speedMultiplier = 1
}
