package doors

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/taigrr/shiftmaze/pkg/math3d"
	"github.com/taigrr/shiftmaze/pkg/maze"
)

func TestSmoothstepEndpoints(t *testing.T) {
	tests := []struct {
		t, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{2, 1},
	}
	for _, tt := range tests {
		if got := smoothstep(tt.t); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("smoothstep(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestOpenCloseCycle(t *testing.T) {
	d := New(maze.GridPos{X: 3, Z: 3}, math3d.V3(0, 0, 0), true)

	if d.TryOpen(false) {
		t.Fatal("locked door opened without a key")
	}
	if !d.TryOpen(true) || d.State != Opening {
		t.Fatalf("state = %v, want opening", d.State)
	}

	d.Update(0.5)
	if math.Abs(d.Angle-45) > 1e-9 {
		t.Errorf("angle at half time = %v, want 45", d.Angle)
	}
	if !d.Blocking() {
		t.Error("door at exactly 45 degrees should still block")
	}
	d.Update(0.6)
	if d.State != Open || d.Angle != MaxAngle {
		t.Fatalf("after 1.1s state=%v angle=%v", d.State, d.Angle)
	}
	if d.Blocking() {
		t.Error("open door blocks")
	}

	if !d.Close() {
		t.Fatal("Close refused an open door")
	}
	d.Update(0.4)
	if math.Abs(d.Angle-45) > 1e-9 {
		t.Errorf("angle at half close = %v, want 45", d.Angle)
	}
	d.Update(0.5)
	if d.State != Closed || d.Angle != 0 {
		t.Fatalf("after close state=%v angle=%v", d.State, d.Angle)
	}
	if !d.TryOpen(false) {
		t.Error("unlocked door should reopen without a key")
	}
}

func TestCollidesByOrientation(t *testing.T) {
	tests := []struct {
		name   string
		alongX bool
		pos    math3d.Vec3
		want   bool
	}{
		{"along x, beside the panel", true, math3d.V3(0.8, 1.5, 0.3), true},
		{"along x, in front", true, math3d.V3(0, 1.5, 0.5), false},
		{"along z, beside the panel", false, math3d.V3(0.3, 1.5, 0.8), true},
		{"along z, in front", false, math3d.V3(0.5, 1.5, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(maze.GridPos{}, math3d.Zero3(), tt.alongX)
			if got := d.Collides(tt.pos, 0.3); got != tt.want {
				t.Errorf("Collides = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransformSwingsAboutHinge(t *testing.T) {
	d := New(maze.GridPos{}, math3d.V3(4, 0, 2), true)
	hingeTop := math3d.V3(-Width/2, Height/2, 0)
	freeEdge := math3d.V3(Width/2, 0, 0)

	if got := d.Transform().TransformPoint(math3d.Zero3()); !got.ApproxEqual(math3d.V3(4, 1, 2), 1e-12) {
		t.Errorf("closed centre = %v", got)
	}

	d.Angle = 90
	m := d.Transform()
	if got := m.TransformPoint(hingeTop); !got.ApproxEqual(math3d.V3(4-Width/2, Height, 2), 1e-9) {
		t.Errorf("hinge moved to %v", got)
	}
	// A quarter turn about +Y carries +X to -Z.
	want := math3d.V3(4-Width/2, 1, 2-Width)
	if got := m.TransformPoint(freeEdge); !got.ApproxEqual(want, 1e-9) {
		t.Errorf("free edge = %v, want %v", got, want)
	}
	if !m.ApproxEqual(math3d.RotateAboutDecomposed(d.Hinge(), math3d.Up(), math.Pi/2).Mul(math3d.Translate(math3d.V3(4, 1, 2))), 1e-4) {
		t.Error("Transform disagrees with the decomposed rotation")
	}
}

func TestManagerSpawnAndInteract(t *testing.T) {
	cfg := maze.DefaultConfig()
	cfg.Size = 15
	rng := rand.New(rand.NewPCG(21, 22))
	mz, err := maze.New(cfg, rng)
	if err != nil {
		t.Fatal(err)
	}

	m := NewManager()
	n := m.Spawn(mz, 3, rng)
	if n == 0 {
		t.Fatal("no doors placed")
	}
	if !mz.PathExists() {
		t.Error("doors disconnected the maze")
	}
	for _, d := range m.Doors() {
		if c := mz.CellAt(d.Cell.X, d.Cell.Z); c != maze.Door {
			t.Errorf("door cell %v marked %v", d.Cell, c)
		}
		if d.Cell.Manhattan(mz.Start()) < startClearance {
			t.Errorf("door %v too close to start", d.Cell)
		}
		if m.DoorAt(d.Cell) != d {
			t.Errorf("DoorAt(%v) mismatch", d.Cell)
		}
	}

	d := m.Doors()[0]
	at := d.Position.WithY(1.5)
	if m.Interact(at, 0) != nil {
		t.Error("opened a locked door with no keys")
	}
	if m.Interact(at, 1) != d || d.State != Opening {
		t.Fatalf("state = %v, want opening", d.State)
	}
	if m.Locked() != n-1 {
		t.Errorf("locked = %d, want %d", m.Locked(), n-1)
	}
	if n > 1 {
		other := m.Doors()[1]
		if m.Interact(other.Position, 1) != nil {
			t.Error("one key unlocked two doors")
		}
	}

	m.Update(2)
	if d.State != Open || m.Collides(d.Position, 0.3) {
		t.Error("open door still collides")
	}
	m.Reset()
	if m.Locked() != n || !m.Collides(d.Position, 0.3) {
		t.Error("reset did not relock")
	}
}

func TestSpawnZero(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	mz, err := maze.New(maze.DefaultConfig(), rng)
	if err != nil {
		t.Fatal(err)
	}
	if n := NewManager().Spawn(mz, 0, rng); n != 0 {
		t.Errorf("placed %d doors", n)
	}
}
