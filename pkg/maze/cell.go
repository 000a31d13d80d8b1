package maze

// Cell is the content of one grid square.
type Cell uint8

const (
	Empty Cell = iota
	Wall
	DynamicRotate
	DynamicSlide
	DynamicScale
	Start
	Exit
	Trap
	Door
)

var cellNames = [...]string{
	Empty:         "empty",
	Wall:          "wall",
	DynamicRotate: "rotate",
	DynamicSlide:  "slide",
	DynamicScale:  "scale",
	Start:         "start",
	Exit:          "exit",
	Trap:          "trap",
	Door:          "door",
}

func (c Cell) String() string {
	if int(c) < len(cellNames) {
		return cellNames[c]
	}
	return "unknown"
}

// IsDynamic reports whether the cell holds an animated wall.
func (c Cell) IsDynamic() bool {
	return c == DynamicRotate || c == DynamicSlide || c == DynamicScale
}

// Blocking reports whether path searches treat the cell as solid. Dynamic
// walls count as solid because they may be at any point of their motion.
// Doors do not: they open.
func (c Cell) Blocking() bool {
	return c == Wall || c.IsDynamic()
}

// GridPos addresses a cell.
type GridPos struct {
	X, Z int
}

// Add offsets p by d.
func (p GridPos) Add(d GridPos) GridPos {
	return GridPos{p.X + d.X, p.Z + d.Z}
}

// Manhattan returns the taxicab distance between p and q.
func (p GridPos) Manhattan(q GridPos) int {
	return absInt(p.X-q.X) + absInt(p.Z-q.Z)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// neighbours4 are the four axis steps in a fixed order.
var neighbours4 = [4]GridPos{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
