package items

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/taigrr/shiftmaze/pkg/level"
	"github.com/taigrr/shiftmaze/pkg/math3d"
	"github.com/taigrr/shiftmaze/pkg/maze"
)

func TestCollidesIgnoresHeight(t *testing.T) {
	coin := New(Coin, math3d.V3(2, 0, 2))
	tests := []struct {
		name string
		pos  math3d.Vec3
		want bool
	}{
		{"eye level above", math3d.V3(2, 1.5, 2), true},
		{"edge inside", math3d.V3(2.54, 1.5, 2), true},
		{"edge outside", math3d.V3(2.56, 1.5, 2), false},
		{"diagonal", math3d.V3(2.4, 0, 2.4), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coin.Collides(tt.pos, 0.3); got != tt.want {
				t.Errorf("Collides(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
	coin.Collected = true
	if coin.Collides(math3d.V3(2, 0, 2), 0.3) {
		t.Error("collected item still collides")
	}
}

func TestFloatAnimation(t *testing.T) {
	it := New(SpeedBoost, math3d.V3(0, 0, 0))
	if it.Base.Y != 0.8 {
		t.Fatalf("rest height = %v, want 0.8", it.Base.Y)
	}
	amp := it.Properties().Amplitude
	for range 200 {
		it.Update(0.03)
		if d := math.Abs(it.Position.Y - it.Base.Y); d > amp+1e-12 {
			t.Fatalf("floated %v from rest, amplitude %v", d, amp)
		}
		if g := it.Glow(); g < 0.5 || g > 1 {
			t.Fatalf("glow %v out of range", g)
		}
	}
	// A quarter period of the float wave is pi/4 seconds at speed 2.
	it = New(Coin, math3d.Zero3())
	it.Update(math.Pi / 4)
	if got, want := it.Position.Y, 0.6+0.1; math.Abs(got-want) > 1e-12 {
		t.Errorf("y at quarter period = %v, want %v", got, want)
	}
}

func TestPowerUpTimers(t *testing.T) {
	m := NewManager()
	m.Add(New(SpeedBoost, math3d.V3(0, 0, 0)))
	m.Add(New(Invincibility, math3d.V3(10, 0, 0)))

	got := m.Collect(math3d.V3(0, 1.5, 0), 0.3)
	if len(got) != 1 || got[0].Kind != SpeedBoost {
		t.Fatalf("Collect = %+v", got)
	}
	if m.SpeedMultiplier() != 1.5 {
		t.Errorf("SpeedMultiplier = %v, want 1.5", m.SpeedMultiplier())
	}
	m.Collect(math3d.V3(10, 1.5, 0), 0.3)
	if !m.Invincible() {
		t.Error("not invincible after pickup")
	}
	if n := len(m.ActivePowerUps()); n != 2 {
		t.Errorf("active power-ups = %d, want 2", n)
	}

	m.Update(5.5)
	if m.Invincible() {
		t.Error("invincibility outlasted 5s")
	}
	if m.SpeedMultiplier() != 1.5 {
		t.Error("speed boost ended early")
	}
	m.Update(3)
	if m.SpeedMultiplier() != 1 {
		t.Errorf("SpeedMultiplier after 8.5s = %v, want 1", m.SpeedMultiplier())
	}
	if len(m.ActivePowerUps()) != 0 {
		t.Errorf("active power-ups = %+v", m.ActivePowerUps())
	}
}

func TestCollectOnce(t *testing.T) {
	m := NewManager()
	m.Add(New(Coin, math3d.Zero3()))
	m.Add(New(Key, math3d.V3(0.1, 0, 0)))
	if m.HasAllKeys() {
		t.Error("HasAllKeys before pickup")
	}
	got := m.Collect(math3d.Zero3(), 0.3)
	if len(got) != 2 {
		t.Fatalf("picked up %d, want 2", len(got))
	}
	if got[0].Value != 100 {
		t.Errorf("coin value = %v", got[0].Value)
	}
	if len(m.Collect(math3d.Zero3(), 0.3)) != 0 {
		t.Error("picked up the same items twice")
	}
	if m.Coins() != 1 || m.Keys() != 1 || !m.HasAllKeys() {
		t.Errorf("coins=%d keys=%d all=%v", m.Coins(), m.Keys(), m.HasAllKeys())
	}
}

func TestSpawn(t *testing.T) {
	lv, err := level.Get(4)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewPCG(3, 4))
	mz, err := maze.New(lv.MazeConfig(), rng)
	if err != nil {
		t.Fatal(err)
	}
	m := NewManager()
	m.Spawn(lv, mz, rng)
	if m.TotalCoins() != lv.Coins {
		t.Errorf("coins = %d, want %d", m.TotalCoins(), lv.Coins)
	}
	if m.KeysRequired() != lv.Keys {
		t.Errorf("keys required = %d, want %d", m.KeysRequired(), lv.Keys)
	}

	// Put a door next to the start so part of the maze is behind it.
	for _, p := range []maze.GridPos{{X: 2, Z: 1}, {X: 1, Z: 2}} {
		if !mz.IsBlockingCell(p.X, p.Z) {
			mz.SetCell(p.X, p.Z, maze.Door)
			break
		}
	}
	m.Spawn(lv, mz, rng)
	if m.KeysRequired() > lv.Keys {
		t.Errorf("keys required = %d, want at most %d", m.KeysRequired(), lv.Keys)
	}

	dist := safeDistances(mz)
	seen := map[maze.GridPos]bool{}
	for _, it := range m.Items() {
		cell := mz.CellOf(it.Base)
		if seen[cell] {
			t.Errorf("two items on %v", cell)
		}
		seen[cell] = true
		if it.Kind == Key && mz.DistanceAt(dist, cell) < 0 {
			t.Errorf("key at %v is behind a door or trap", cell)
		}
		if c := mz.CellAt(cell.X, cell.Z); c != maze.Empty {
			t.Errorf("%v placed on %v cell", it.Kind, c)
		}
	}
}

// safeDistances is the search keys must be reachable by: no doors, no traps.
func safeDistances(mz *maze.Maze) []int {
	return mz.Distances(mz.Start(), func(p maze.GridPos) bool {
		c := mz.CellAt(p.X, p.Z)
		return c != maze.Door && c != maze.Trap
	})
}

func TestKeysNeverBehindTraps(t *testing.T) {
	lv, err := level.Get(level.Count() - 1)
	if err != nil {
		t.Fatal(err)
	}
	for seed := range uint64(30) {
		rng := rand.New(rand.NewPCG(seed, 99))
		mz, err := maze.New(lv.MazeConfig(), rng)
		if err != nil {
			t.Fatal(err)
		}
		// Trap one corridor leaving the start so half the maze sits behind it.
		for _, p := range []maze.GridPos{{X: 2, Z: 1}, {X: 1, Z: 2}} {
			if mz.CellAt(p.X, p.Z) == maze.Empty {
				mz.SetCell(p.X, p.Z, maze.Trap)
				break
			}
		}
		m := NewManager()
		m.Spawn(lv, mz, rng)
		dist := safeDistances(mz)
		for _, it := range m.Items() {
			if cell := mz.CellOf(it.Base); it.Kind == Key && mz.DistanceAt(dist, cell) < 0 {
				t.Errorf("seed %d: key at %v only reachable across a trap", seed, cell)
			}
		}
	}
}
