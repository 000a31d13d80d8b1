// Package maze generates grid mazes with animated walls and answers the
// collision and reachability queries the game runs every tick.
package maze

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/taigrr/shiftmaze/pkg/bezier"
	"github.com/taigrr/shiftmaze/pkg/math3d"
)

// Maze is a square grid of cells centred on the world origin. Cell (x, z)
// covers world X in [offset + x*cs, offset + (x+1)*cs) and likewise for Z.
type Maze struct {
	cfg    Config
	rng    *rand.Rand
	log    *log.Logger
	size   int
	cs     float64
	offset float64
	cells  []Cell

	start, exit GridPos

	walls  []*DynamicWall
	wallAt map[GridPos]*DynamicWall

	shiftTimer float64
	shifts     int
	protected  *GridPos
}

// New validates cfg and generates a maze. rng is used for generation and
// for every later shift; the caller keeps ownership.
func New(cfg Config, rng *rand.Rand) (*Maze, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("nil rng: %w", ErrInvalidConfig)
	}
	m := &Maze{
		cfg:    cfg,
		rng:    rng,
		log:    cfg.logger(),
		size:   cfg.Size,
		cs:     cfg.CellSize,
		offset: -float64(cfg.Size) * cfg.CellSize / 2,
		cells:  make([]Cell, cfg.Size*cfg.Size),
		start:  GridPos{1, 1},
		exit:   GridPos{cfg.Size - 2, cfg.Size - 2},
	}
	m.Generate()
	return m, nil
}

// Generate rebuilds the grid: carve, mark start and exit, repair, then add
// traps and dynamic walls.
func (m *Maze) Generate() {
	for i := range m.cells {
		m.cells[i] = Wall
	}
	m.walls = nil
	m.wallAt = make(map[GridPos]*DynamicWall)
	m.shiftTimer = 0
	m.shifts = 0

	m.carve(m.start)
	m.set(m.start, Start)
	m.set(m.exit, Exit)
	m.repair()
	m.placeTraps()
	m.addDynamicWalls()

	m.log.Debug("generated", "size", m.size, "walls", len(m.walls), "traps", m.cfg.Traps)
}

// carve is a randomized depth-first backtracker over the odd lattice,
// opening the cell between each pair it links.
func (m *Maze) carve(p GridPos) {
	m.set(p, Empty)
	dirs := [4]GridPos{{0, -2}, {2, 0}, {0, 2}, {-2, 0}}
	m.rng.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })
	for _, d := range dirs {
		n := p.Add(d)
		if n.X <= 0 || n.X >= m.size-1 || n.Z <= 0 || n.Z >= m.size-1 {
			continue
		}
		if m.at(n) == Wall {
			m.set(GridPos{p.X + d.X/2, p.Z + d.Z/2}, Empty)
			m.carve(n)
		}
	}
}

// repair walks a monotonic staircase from start to exit, stepping x then z,
// and clears any wall on it. The backtracker never reaches an even exit
// cell on its own, so this is what guarantees a solution.
func (m *Maze) repair() {
	p := m.start
	dig := func() {
		if m.at(p) == Wall {
			m.set(p, Empty)
		}
	}
	for p != m.exit {
		if p.X != m.exit.X {
			p.X += sign(m.exit.X - p.X)
			dig()
		}
		if p.Z != m.exit.Z {
			p.Z += sign(m.exit.Z - p.Z)
			dig()
		}
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// placeTraps scatters traps away from the start, never on a cell the
// trap-free route to the exit depends on.
func (m *Maze) placeTraps() {
	for range m.cfg.Traps {
		p, ok := m.RandomEmptyCell(m.rng, func(p GridPos) bool {
			return p.Manhattan(m.start) < 3 || !m.pathExistsWithout(p)
		})
		if !ok {
			return
		}
		m.set(p, Trap)
	}
}

// addDynamicWalls promotes random interior walls to dynamic ones, keeping
// a promotion only if start still reaches exit around every trap.
func (m *Maze) addDynamicWalls() {
	var candidates []GridPos
	for z := 1; z < m.size-1; z++ {
		for x := 1; x < m.size-1; x++ {
			if p := (GridPos{x, z}); m.at(p) == Wall {
				candidates = append(candidates, p)
			}
		}
	}
	m.rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	for _, p := range candidates {
		if len(m.walls) >= m.cfg.DynamicWalls {
			break
		}
		kind := randomKind(m.rng)
		m.set(p, kind)
		if !m.PathExists() {
			m.set(p, Wall)
			continue
		}
		m.addWall(&DynamicWall{Cell: p, Behavior: m.newBehavior(kind, p)})
	}
}

func randomKind(rng *rand.Rand) Cell {
	return DynamicRotate + Cell(rng.IntN(3))
}

func (m *Maze) addWall(w *DynamicWall) {
	m.walls = append(m.walls, w)
	m.wallAt[w.Cell] = w
	m.set(w.Cell, w.Kind())
}

// newBehavior builds a fresh behavior of the given kind for cell p.
func (m *Maze) newBehavior(kind Cell, p GridPos) Behavior {
	switch kind {
	case DynamicSlide:
		return &Slider{Path: m.slidePath(p), Speed: m.cfg.SlideSpeed, Dir: 1}
	case DynamicScale:
		return NewScaler(m.cfg.ScaleToggle, m.cfg.ScaleSpeed)
	default:
		return &Rotator{
			Angle: m.rng.Float64() * 2 * math.Pi,
			Speed: m.cfg.RotationSpeed * math.Pi / 180,
		}
	}
}

// slidePath is a gently curved cubic from the cell centre to the centre of
// a random in-bounds neighbour, preferring open neighbours so the motion is
// visible.
func (m *Maze) slidePath(p GridPos) *bezier.Curve {
	var open, inside []GridPos
	for _, d := range neighbours4 {
		n := p.Add(d)
		if n.X < 1 || n.X > m.size-2 || n.Z < 1 || n.Z > m.size-2 {
			continue
		}
		inside = append(inside, d)
		if !m.at(n).Blocking() {
			open = append(open, d)
		}
	}
	pool := open
	if len(pool) == 0 {
		pool = inside
	}
	d := GridPos{1, 0}
	if len(pool) > 0 {
		d = pool[m.rng.IntN(len(pool))]
	}

	from := m.CellCenter(p)
	dir := math3d.V3(float64(d.X), 0, float64(d.Z)).Scale(m.cs)
	perp := math3d.V3(-dir.Z, 0, dir.X).Scale(0.15)
	to := from.Add(dir)
	return bezier.MustCurve(
		from,
		from.Lerp(to, 1.0/3).Add(perp),
		from.Lerp(to, 2.0/3).Sub(perp),
		to,
	)
}

func (m *Maze) index(p GridPos) int { return p.Z*m.size + p.X }

func (m *Maze) at(p GridPos) Cell { return m.cells[m.index(p)] }

func (m *Maze) set(p GridPos, c Cell) { m.cells[m.index(p)] = c }

// Size returns the number of cells per side.
func (m *Maze) Size() int { return m.size }

// CellSize returns the world size of one cell.
func (m *Maze) CellSize() float64 { return m.cs }

// WallHeight returns the configured wall height.
func (m *Maze) WallHeight() float64 { return m.cfg.WallHeight }

// Config returns the configuration the maze was built with.
func (m *Maze) Config() Config { return m.cfg }

// Start returns the start cell.
func (m *Maze) Start() GridPos { return m.start }

// Exit returns the exit cell.
func (m *Maze) Exit() GridPos { return m.exit }

// InBounds reports whether (x, z) is inside the grid.
func (m *Maze) InBounds(x, z int) bool {
	return x >= 0 && x < m.size && z >= 0 && z < m.size
}

// CellAt returns the cell at (x, z). Everything outside the grid is wall.
func (m *Maze) CellAt(x, z int) Cell {
	if !m.InBounds(x, z) {
		return Wall
	}
	return m.at(GridPos{x, z})
}

// SetCell overwrites a cell that is not a dynamic wall. It is how doors mark
// their cells. It reports whether the write happened.
func (m *Maze) SetCell(x, z int, c Cell) bool {
	if !m.InBounds(x, z) || c.IsDynamic() || m.at(GridPos{x, z}).IsDynamic() {
		return false
	}
	m.set(GridPos{x, z}, c)
	return true
}

// IsBlockingCell reports whether path searches treat (x, z) as solid.
func (m *Maze) IsBlockingCell(x, z int) bool {
	return m.CellAt(x, z).Blocking()
}

// GridToWorld returns the world centre of cell (x, z) at floor height.
func (m *Maze) GridToWorld(x, z int) math3d.Vec3 {
	return math3d.V3(
		m.offset+float64(x)*m.cs+m.cs/2,
		0,
		m.offset+float64(z)*m.cs+m.cs/2,
	)
}

// CellCenter returns the world centre of p at half wall height, where wall
// boxes are centred.
func (m *Maze) CellCenter(p GridPos) math3d.Vec3 {
	return m.GridToWorld(p.X, p.Z).WithY(m.cfg.WallHeight / 2)
}

// WorldToGrid returns the cell containing world point p.
func (m *Maze) WorldToGrid(p math3d.Vec3) (x, z int) {
	x = int(math.Floor((p.X - m.offset) / m.cs))
	z = int(math.Floor((p.Z - m.offset) / m.cs))
	return x, z
}

// CellOf is WorldToGrid returning a GridPos.
func (m *Maze) CellOf(p math3d.Vec3) GridPos {
	x, z := m.WorldToGrid(p)
	return GridPos{x, z}
}

// StartPosition returns the centre of the start cell at the given height.
func (m *Maze) StartPosition(y float64) math3d.Vec3 {
	return m.GridToWorld(m.start.X, m.start.Z).WithY(y)
}

// CheckExit reports whether p is inside the exit cell.
func (m *Maze) CheckExit(p math3d.Vec3) bool {
	return m.CellOf(p) == m.exit
}

// Walls returns the dynamic walls. The slice must not be modified.
func (m *Maze) Walls() []*DynamicWall { return m.walls }

// WallAt returns the dynamic wall whose home is p, if any.
func (m *Maze) WallAt(p GridPos) (*DynamicWall, bool) {
	w, ok := m.wallAt[p]
	return w, ok
}

// Snapshot returns a copy of the grid as rows of constant z, for the
// minimap.
func (m *Maze) Snapshot() [][]Cell {
	rows := make([][]Cell, m.size)
	for z := range m.size {
		rows[z] = make([]Cell, m.size)
		copy(rows[z], m.cells[z*m.size:(z+1)*m.size])
	}
	return rows
}

// RandomEmptyCell picks a uniformly random Empty cell that exclude does not
// reject. After a bounded number of random probes it falls back to a scan
// from a random offset, so it only fails when no such cell exists.
func (m *Maze) RandomEmptyCell(rng *rand.Rand, exclude func(GridPos) bool) (GridPos, bool) {
	ok := func(p GridPos) bool {
		return m.at(p) == Empty && (exclude == nil || !exclude(p))
	}
	n := len(m.cells)
	for range 4 * n {
		i := rng.IntN(n)
		if p := (GridPos{i % m.size, i / m.size}); ok(p) {
			return p, true
		}
	}
	off := rng.IntN(n)
	for k := range n {
		i := (off + k) % n
		if p := (GridPos{i % m.size, i / m.size}); ok(p) {
			return p, true
		}
	}
	return GridPos{}, false
}
