package maze

// Reachable reports whether to can be reached from from, moving between
// non-blocking cells in four directions.
func (m *Maze) Reachable(from, to GridPos) bool {
	dist := m.Distances(from, nil)
	return dist[m.index(to)] >= 0
}

// PathExists reports whether the exit can be reached from the start
// without stepping on a trap. A trap costs a life and sends the player back
// to the start, so a route through one is no way out.
func (m *Maze) PathExists() bool {
	return m.reachesExit(m.start, nil)
}

// pathExistsWithout is PathExists with p treated as blocking.
func (m *Maze) pathExistsWithout(p GridPos) bool {
	return m.reachesExit(m.start, func(q GridPos) bool { return q != p })
}

// reachesExit runs a trap-free search from from to the exit. The origin
// itself is always allowed, so a player standing on a trap still counts.
func (m *Maze) reachesExit(from GridPos, passable func(GridPos) bool) bool {
	dist := m.Distances(from, func(q GridPos) bool {
		if q == from {
			return true
		}
		return m.at(q) != Trap && (passable == nil || passable(q))
	})
	return dist[m.index(m.exit)] >= 0
}

// Distances runs a breadth-first search from from and returns the step
// count to every cell, indexed z*Size+x, with -1 for unreachable cells. If
// passable is non-nil it further restricts which non-blocking cells may be
// entered. A blocking or out-of-range origin reaches nothing.
func (m *Maze) Distances(from GridPos, passable func(GridPos) bool) []int {
	dist := make([]int, len(m.cells))
	for i := range dist {
		dist[i] = -1
	}
	open := func(p GridPos) bool {
		return m.InBounds(p.X, p.Z) && !m.at(p).Blocking() && (passable == nil || passable(p))
	}
	if !open(from) {
		return dist
	}

	queue := make([]GridPos, 0, len(m.cells))
	queue = append(queue, from)
	dist[m.index(from)] = 0
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, d := range neighbours4 {
			n := p.Add(d)
			if !open(n) || dist[m.index(n)] >= 0 {
				continue
			}
			dist[m.index(n)] = dist[m.index(p)] + 1
			queue = append(queue, n)
		}
	}
	return dist
}

// DistanceAt reads a Distances result for p.
func (m *Maze) DistanceAt(dist []int, p GridPos) int {
	if !m.InBounds(p.X, p.Z) {
		return -1
	}
	return dist[m.index(p)]
}
