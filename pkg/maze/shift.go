package maze

import "slices"

// maxSpawnAttempts bounds how many cells a shift tries for its temporary
// wall.
const maxSpawnAttempts = 4

// Update advances every wall and the shift timer by dt seconds. Each shift
// interval crossed fires one shift, so a long dt may fire several.
func (m *Maze) Update(dt float64) {
	if dt <= 0 {
		return
	}
	for _, w := range m.walls {
		w.Advance(dt)
	}
	m.expire()

	m.shiftTimer += dt
	for m.shiftTimer >= m.cfg.ShiftInterval {
		m.shiftTimer -= m.cfg.ShiftInterval
		m.TriggerShift()
	}
}

// expire removes temporary walls that have outlived their lifetime.
func (m *Maze) expire() {
	life := m.cfg.tempLifetime()
	m.walls = slices.DeleteFunc(m.walls, func(w *DynamicWall) bool {
		if !w.Temporary || w.Age < life {
			return false
		}
		delete(m.wallAt, w.Cell)
		m.set(w.Cell, Empty)
		m.log.Debug("temporary wall expired", "x", w.Cell.X, "z", w.Cell.Z)
		return true
	})
}

// TriggerShift re-rolls the behavior of about half the permanent dynamic
// walls and may raise one temporary scaling wall. A spawn that would cut
// the start or the protected cell off from the exit, or land on the
// protected cell, is skipped.
func (m *Maze) TriggerShift() {
	m.shifts++
	changed := 0
	for _, w := range m.walls {
		if w.Temporary || m.rng.IntN(2) == 0 {
			continue
		}
		kind := randomKind(m.rng)
		w.Behavior = m.newBehavior(kind, w.Cell)
		m.set(w.Cell, kind)
		changed++
	}

	spawned := false
	if m.rng.IntN(2) == 0 {
		spawned = m.spawnTemporary()
	}
	m.log.Debug("shift", "n", m.shifts, "changed", changed, "spawned", spawned)
}

func (m *Maze) spawnTemporary() bool {
	for range maxSpawnAttempts {
		p, ok := m.RandomEmptyCell(m.rng, func(p GridPos) bool {
			return m.protected != nil && *m.protected == p
		})
		if !ok {
			return false
		}
		if !m.pathExistsWithout(p) || !m.protectedEscapes(p) {
			m.log.Debug("temporary wall rejected", "x", p.X, "z", p.Z)
			continue
		}
		s := NewScaler(m.cfg.ScaleToggle, m.cfg.ScaleSpeed)
		s.Scale = 0
		m.addWall(&DynamicWall{Cell: p, Behavior: s, Temporary: true})
		return true
	}
	return false
}

// protectedEscapes reports whether the protected cell still reaches the
// exit with a wall on p. A protected cell that is itself blocked, such as
// a player caught inside a dynamic wall, is not checked.
func (m *Maze) protectedEscapes(p GridPos) bool {
	if m.protected == nil || m.IsBlockingCell(m.protected.X, m.protected.Z) {
		return true
	}
	return m.reachesExit(*m.protected, func(q GridPos) bool { return q != p })
}

// Protect marks p as a cell a shift must never build on, typically the
// player's cell. It replaces any previous protected cell.
func (m *Maze) Protect(p GridPos) {
	m.protected = &p
}

// Shifts returns how many shifts have fired since generation.
func (m *Maze) Shifts() int { return m.shifts }

// TimeToShift returns the seconds until the next shift.
func (m *Maze) TimeToShift() float64 {
	return m.cfg.ShiftInterval - m.shiftTimer
}
