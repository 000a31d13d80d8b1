package enemy

import (
	"math/rand/v2"

	"github.com/taigrr/shiftmaze/pkg/level"
	"github.com/taigrr/shiftmaze/pkg/math3d"
	"github.com/taigrr/shiftmaze/pkg/maze"
)

const (
	// NoEnemyDistance is what NearestDistance reports with no live enemies.
	NoEnemyDistance = 1000.0
	// SpawnClearance is the minimum grid distance between an enemy's spawn
	// cell and the start.
	SpawnClearance = 3

	guardRadius    = 3.0
	maxPatrolCells = 4
)

// Manager owns the enemies of one level.
type Manager struct {
	enemies []*Enemy
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// Add registers e.
func (m *Manager) Add(e *Enemy) {
	m.enemies = append(m.enemies, e)
}

// Enemies returns the managed enemies. The slice must not be modified.
func (m *Manager) Enemies() []*Enemy { return m.enemies }

// Clear removes every enemy.
func (m *Manager) Clear() { m.enemies = nil }

// Spawn replaces the enemies with those of lv: patrols alternating with
// circular sweepers, the level's chasers and a guard where the level has
// one. No enemy starts within SpawnClearance cells of the start.
func (m *Manager) Spawn(lv level.Level, mz *maze.Maze, rng *rand.Rand) {
	m.Clear()
	used := map[maze.GridPos]bool{}
	pick := func() (maze.GridPos, bool) {
		p, ok := mz.RandomEmptyCell(rng, func(p maze.GridPos) bool {
			return used[p] || p.Manhattan(mz.Start()) < SpawnClearance
		})
		if ok {
			used[p] = true
		}
		return p, ok
	}
	world := func(p maze.GridPos) math3d.Vec3 { return mz.GridToWorld(p.X, p.Z) }

	for i := range lv.Enemies {
		p, ok := pick()
		if !ok {
			break
		}
		if i%2 == 1 {
			m.Add(NewCircular(world(p), mz.CellSize()*0.35))
			continue
		}
		m.Add(NewPatrol(world(p), world(patrolEnd(mz, p, rng))))
	}
	for range lv.ChaseEnemies {
		p, ok := pick()
		if !ok {
			break
		}
		m.Add(NewChase(world(p)))
	}
	if lv.Guard {
		if p, ok := pick(); ok {
			m.Add(NewGuard(world(p), guardRadius))
		}
	}
	m.SetSpeedMultiplier(lv.EnemySpeedMult)
}

// patrolEnd walks each open straight corridor leaving p, up to
// maxPatrolCells, and returns the far end of a random longest one. A
// dead-end pocket patrols in place.
func patrolEnd(mz *maze.Maze, p maze.GridPos, rng *rand.Rand) maze.GridPos {
	dirs := []maze.GridPos{{X: 0, Z: -1}, {X: 1, Z: 0}, {X: 0, Z: 1}, {X: -1, Z: 0}}
	rng.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })
	best, bestLen := p, 0
	for _, d := range dirs {
		q, n := p, 0
		for n < maxPatrolCells {
			next := q.Add(d)
			if mz.IsBlockingCell(next.X, next.Z) {
				break
			}
			q, n = next, n+1
		}
		if n > bestLen {
			best, bestLen = q, n
		}
	}
	return best
}

// Update moves every enemy against the same player position.
func (m *Manager) Update(dt float64, player math3d.Vec3) {
	for _, e := range m.enemies {
		e.Update(dt, player)
	}
}

// CheckPlayerCollision reports whether any enemy touches a player sphere of
// radius r at center. An invincible player never collides.
func (m *Manager) CheckPlayerCollision(center math3d.Vec3, r float64, invincible bool) bool {
	if invincible {
		return false
	}
	for _, e := range m.enemies {
		if e.Collides(center, r) {
			return true
		}
	}
	return false
}

// NearestDistance returns the distance from p to the closest live enemy.
func (m *Manager) NearestDistance(p math3d.Vec3) float64 {
	nearest := NoEnemyDistance
	for _, e := range m.enemies {
		if e.Alive {
			nearest = min(nearest, e.Distance(p))
		}
	}
	return nearest
}

// AnyChasing reports whether some enemy is hunting the player.
func (m *Manager) AnyChasing() bool {
	for _, e := range m.enemies {
		if e.Chasing {
			return true
		}
	}
	return false
}

// SetSpeedMultiplier scales every enemy's base speed.
func (m *Manager) SetSpeedMultiplier(mult float64) {
	for _, e := range m.enemies {
		e.Speed = e.BaseSpeed * mult
	}
}

// Reset sends every enemy home.
func (m *Manager) Reset() {
	for _, e := range m.enemies {
		e.Reset()
	}
}

// Count returns the number of enemies.
func (m *Manager) Count() int { return len(m.enemies) }

// ActiveCount returns the number of live enemies.
func (m *Manager) ActiveCount() int {
	n := 0
	for _, e := range m.enemies {
		if e.Alive {
			n++
		}
	}
	return n
}
