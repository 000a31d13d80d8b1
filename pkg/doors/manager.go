package doors

import (
	"math/rand/v2"

	"github.com/taigrr/shiftmaze/pkg/math3d"
	"github.com/taigrr/shiftmaze/pkg/maze"
)

// startClearance keeps doors away from the start so the first corridor is
// always free.
const startClearance = 3

// Manager owns a level's doors and how many have been unlocked.
type Manager struct {
	doors    []*Door
	unlocked int
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// Doors returns the doors. The slice must not be modified.
func (m *Manager) Doors() []*Door { return m.doors }

// Add registers d.
func (m *Manager) Add(d *Door) { m.doors = append(m.doors, d) }

// Spawn replaces the doors with up to count new ones on straight corridor
// cells, marking each cell as a door in mz. It returns the number placed.
func (m *Manager) Spawn(mz *maze.Maze, count int, rng *rand.Rand) int {
	m.doors, m.unlocked = nil, 0
	if count <= 0 {
		return 0
	}

	type slot struct {
		cell   maze.GridPos
		alongX bool
	}
	var slots []slot
	open := func(x, z int) bool {
		c := mz.CellAt(x, z)
		return !c.Blocking() && c != maze.Door
	}
	for z := 1; z < mz.Size()-1; z++ {
		for x := 1; x < mz.Size()-1; x++ {
			p := maze.GridPos{X: x, Z: z}
			if mz.CellAt(x, z) != maze.Empty || p.Manhattan(mz.Start()) < startClearance {
				continue
			}
			ew := open(x-1, z) && open(x+1, z)
			ns := open(x, z-1) && open(x, z+1)
			switch {
			case ew && mz.IsBlockingCell(x, z-1) && mz.IsBlockingCell(x, z+1):
				slots = append(slots, slot{p, false})
			case ns && mz.IsBlockingCell(x-1, z) && mz.IsBlockingCell(x+1, z):
				slots = append(slots, slot{p, true})
			}
		}
	}
	rng.Shuffle(len(slots), func(i, j int) { slots[i], slots[j] = slots[j], slots[i] })

	for _, s := range slots {
		if len(m.doors) >= count {
			break
		}
		if m.adjacent(s.cell) {
			continue
		}
		if !mz.SetCell(s.cell.X, s.cell.Z, maze.Door) {
			continue
		}
		m.Add(New(s.cell, mz.GridToWorld(s.cell.X, s.cell.Z), s.alongX))
	}
	return len(m.doors)
}

func (m *Manager) adjacent(p maze.GridPos) bool {
	for _, d := range m.doors {
		if d.Cell.Manhattan(p) <= 1 {
			return true
		}
	}
	return false
}

// Update animates every door.
func (m *Manager) Update(dt float64) {
	if dt <= 0 {
		return
	}
	for _, d := range m.doors {
		d.Update(dt)
	}
}

// Collides reports whether any blocking door stops a circle of radius r at
// pos.
func (m *Manager) Collides(pos math3d.Vec3, r float64) bool {
	for _, d := range m.doors {
		if d.Collides(pos, r) {
			return true
		}
	}
	return false
}

// Interact uses the nearest door within reach of pos. Each key held
// unlocks one door. Open doors close and closed ones open. It returns the
// door acted on, or nil.
func (m *Manager) Interact(pos math3d.Vec3, keys int) *Door {
	d := m.Nearest(pos)
	if d == nil {
		return nil
	}
	switch d.State {
	case Locked:
		if !d.TryOpen(m.unlocked < keys) {
			return nil
		}
		m.unlocked++
	case Closed:
		d.TryOpen(false)
	case Open:
		d.Close()
	default:
		return nil
	}
	return d
}

// Nearest returns the closest door within interaction distance of pos.
func (m *Manager) Nearest(pos math3d.Vec3) *Door {
	var best *Door
	for _, d := range m.doors {
		if !d.NearPlayer(pos) {
			continue
		}
		if best == nil || d.Position.DistanceXZ(pos) < best.Position.DistanceXZ(pos) {
			best = d
		}
	}
	return best
}

// DoorAt returns the door on cell p.
func (m *Manager) DoorAt(p maze.GridPos) *Door {
	for _, d := range m.doors {
		if d.Cell == p {
			return d
		}
	}
	return nil
}

// Locked returns the number of doors still locked.
func (m *Manager) Locked() int {
	n := 0
	for _, d := range m.doors {
		if d.State == Locked {
			n++
		}
	}
	return n
}

// Reset locks and shuts every door.
func (m *Manager) Reset() {
	m.unlocked = 0
	for _, d := range m.doors {
		d.State, d.Angle, d.t = Locked, 0, 0
	}
}
