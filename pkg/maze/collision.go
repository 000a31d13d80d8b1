package maze

import (
	"github.com/taigrr/shiftmaze/pkg/math3d"
)

// half returns the collision half extent of a wall cell.
func (m *Maze) half() float64 {
	return m.cs/2 - m.cfg.Margin
}

// CheckCollision reports whether a circle of radius r at pos, in the XZ
// plane, touches a static or dynamic wall.
func (m *Maze) CheckCollision(pos math3d.Vec3, r float64) bool {
	return m.CheckStaticCollision(pos, r) || m.checkDynamic(pos, r)
}

// CheckStaticCollision tests only static walls and out-of-range cells, in
// the 3x3 neighbourhood of pos.
func (m *Maze) CheckStaticCollision(pos math3d.Vec3, r float64) bool {
	gx, gz := m.WorldToGrid(pos)
	half := m.half()
	for dz := -1; dz <= 1; dz++ {
		for dx := -1; dx <= 1; dx++ {
			x, z := gx+dx, gz+dz
			if m.CellAt(x, z) != Wall {
				continue
			}
			if boxHit(m.GridToWorld(x, z), pos, half, r) {
				return true
			}
		}
	}
	return false
}

// checkDynamic tests every dynamic wall, since a sliding wall leaves its
// home cell.
func (m *Maze) checkDynamic(pos math3d.Vec3, r float64) bool {
	half := m.half()
	for _, w := range m.walls {
		if w.Behavior.Blocks(m.CellCenter(w.Cell), pos, r, half) {
			return true
		}
	}
	return false
}
