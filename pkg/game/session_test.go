package game

import (
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/shiftmaze/pkg/enemy"
	"github.com/taigrr/shiftmaze/pkg/items"
	"github.com/taigrr/shiftmaze/pkg/level"
	"github.com/taigrr/shiftmaze/pkg/maze"
	"github.com/taigrr/shiftmaze/pkg/models"
	"github.com/taigrr/shiftmaze/pkg/render"
)

func newTestSession(t testing.TB, mutate func(*Config)) *Session {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = 42
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := NewSession(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"last level", func(c *Config) { c.Level = level.Count() - 1 }, true},
		{"level past table", func(c *Config) { c.Level = level.Count() }, false},
		{"negative level", func(c *Config) { c.Level = -1 }, false},
		{"zero radius", func(c *Config) { c.PlayerRadius = 0 }, false},
		{"zero height", func(c *Config) { c.PlayerHeight = 0 }, false},
		{"zero speed", func(c *Config) { c.MoveSpeed = 0 }, false},
		{"no lives", func(c *Config) { c.Lives = 0 }, false},
		{"flat fov", func(c *Config) { c.FOV = 180 }, false},
		{"far before near", func(c *Config) { c.Far = c.Near }, false},
		{"terrain resolution", func(c *Config) { c.Terrain.Resolution = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestNewSession(t *testing.T) {
	s := newTestSession(t, nil)
	lv, idx := s.Level()
	if idx != 0 || lv.Name != level.Table[0].Name {
		t.Errorf("level = %d %q", idx, lv.Name)
	}
	if s.State() != Playing {
		t.Errorf("state = %v, want playing", s.State())
	}
	if s.Lives() != 3 || s.Score() != 0 {
		t.Errorf("lives, score = %d, %d", s.Lives(), s.Score())
	}
	if s.Remaining() != lv.TimeLimit {
		t.Errorf("remaining = %v, want %v", s.Remaining(), lv.TimeLimit)
	}
	if want := s.Maze().StartPosition(1.5); !s.Camera().Position.ApproxEqual(want, 1e-9) {
		t.Errorf("camera at %v, want %v", s.Camera().Position, want)
	}
	if s.PlayerCell() != s.Maze().Start() {
		t.Errorf("player cell = %v, want start", s.PlayerCell())
	}
	if math.Abs(s.BodyCenter().Y-0.75) > 1e-9 {
		t.Errorf("body centre y = %v", s.BodyCenter().Y)
	}
}

func TestStepClampsAndGates(t *testing.T) {
	s := newTestSession(t, nil)
	start := s.Remaining()

	s.Step(0, Input{})
	s.Step(-1, Input{})
	if s.Remaining() != start {
		t.Fatalf("non-positive dt advanced the clock to %v", s.Remaining())
	}

	s.Step(5, Input{})
	if got := start - s.Remaining(); math.Abs(got-MaxStep) > 1e-9 {
		t.Errorf("clock advanced %v, want %v", got, MaxStep)
	}

	s.TogglePause()
	before := s.Remaining()
	s.Step(0.05, Input{Forward: true})
	if s.Remaining() != before {
		t.Error("paused session advanced")
	}
	s.TogglePause()
	if s.State() != Playing {
		t.Errorf("state = %v after resume", s.State())
	}
}

func TestMovementStopsAtWalls(t *testing.T) {
	s := newTestSession(t, nil)
	// The border row behind start is always a static wall.
	s.Camera().SetAngles(0, 0)
	startZ := s.Camera().Position.Z
	limit := s.Maze().CellSize()/2 + s.Maze().Config().Margin - s.cfg.PlayerRadius

	moved := false
	for range 30 {
		s.Step(0.1, Input{Forward: true})
		p := s.Camera().Position
		if p.Z < startZ-limit-1e-9 {
			t.Fatalf("walked into the border wall: z = %v, start %v", p.Z, startZ)
		}
		moved = moved || p.Z < startZ
	}
	if !moved {
		t.Error("player never moved")
	}
}

func TestLookRotates(t *testing.T) {
	s := newTestSession(t, nil)
	theta := s.Camera().Theta
	s.Step(0.01, Input{LookDX: 100})
	if got := s.Camera().Theta - theta; math.Abs(got-100*s.cfg.MouseSensitivity) > 1e-9 {
		t.Errorf("theta moved %v", got)
	}
}

func TestEnemyContactCostsLife(t *testing.T) {
	s := newTestSession(t, nil)
	s.Enemies().Clear()
	s.Enemies().Add(enemy.NewChase(s.BodyCenter()))

	s.Step(0.01, Input{})
	if s.Lives() != 3 {
		t.Fatalf("lives = %d during respawn grace", s.Lives())
	}

	s.grace = 0
	s.Step(0.01, Input{})
	if s.Lives() != 2 {
		t.Fatalf("lives = %d, want 2", s.Lives())
	}
	if !strings.Contains(s.Status().Message, "enemy") {
		t.Errorf("message = %q", s.Status().Message)
	}
	// The enemy went home, which is still touching, but grace applies.
	s.Step(0.01, Input{})
	if s.Lives() != 2 {
		t.Errorf("lives = %d right after respawn", s.Lives())
	}
}

func TestInvincibilityIgnoresEnemies(t *testing.T) {
	s := newTestSession(t, nil)
	s.Enemies().Clear()
	s.Enemies().Add(enemy.NewChase(s.BodyCenter()))
	s.Items().Add(items.New(items.Invincibility, s.Camera().Position))
	s.grace = 0

	s.Step(0.01, Input{})
	if s.Lives() != 3 {
		t.Errorf("lives = %d while invincible", s.Lives())
	}
	if len(s.PowerUps()) != 1 {
		t.Errorf("power-ups = %v", s.PowerUps())
	}
}

func TestLastLifeEndsGame(t *testing.T) {
	s := newTestSession(t, func(c *Config) { c.Lives = 1 })
	s.Enemies().Clear()
	s.Enemies().Add(enemy.NewChase(s.BodyCenter()))
	s.grace = 0

	s.Step(0.01, Input{})
	if s.State() != GameOver || s.Lives() != 0 {
		t.Errorf("state, lives = %v, %d", s.State(), s.Lives())
	}

	if err := s.Restart(); err != nil {
		t.Fatal(err)
	}
	if s.State() != Playing || s.Lives() != 1 || s.Score() != 0 {
		t.Errorf("after restart: %v, %d lives, %d", s.State(), s.Lives(), s.Score())
	}
}

func TestTrapCostsLife(t *testing.T) {
	s := newTestSession(t, nil)
	mz := s.Maze()
	start := mz.Start()

	var trap maze.GridPos
	found := false
	for _, d := range []maze.GridPos{{X: 1}, {Z: 1}} {
		if p := start.Add(d); mz.CellAt(p.X, p.Z) == maze.Empty {
			trap, found = p, true
			break
		}
	}
	if !found {
		t.Skip("no empty cell next to start")
	}
	if !mz.SetCell(trap.X, trap.Z, maze.Trap) {
		t.Fatal("could not place trap")
	}
	s.Camera().SetPosition(mz.GridToWorld(trap.X, trap.Z).WithY(1.5))

	s.Step(0.01, Input{})
	if s.Lives() != 2 {
		t.Fatalf("lives = %d, want 2", s.Lives())
	}
	if s.PlayerCell() != start {
		t.Errorf("respawned at %v, want %v", s.PlayerCell(), start)
	}
}

func TestTimeRunsOut(t *testing.T) {
	s := newTestSession(t, nil)
	s.remaining = 0.05
	s.Step(0.1, Input{})
	if s.State() != GameOver {
		t.Errorf("state = %v, want game over", s.State())
	}
	if s.Remaining() != 0 {
		t.Errorf("remaining = %v", s.Remaining())
	}
}

func TestTimeBonusAndHealth(t *testing.T) {
	s := newTestSession(t, nil)
	at := s.Camera().Position
	s.Items().Add(items.New(items.TimeBonus, at))
	s.Items().Add(items.New(items.Health, at))
	before := s.Remaining()

	s.Step(0.1, Input{})
	if got := s.Remaining() - before; math.Abs(got-(30-0.1)) > 1e-9 {
		t.Errorf("time bonus changed clock by %v", got)
	}
	if s.Lives() != 4 {
		t.Errorf("lives = %d, want 4", s.Lives())
	}
}

func TestReachExit(t *testing.T) {
	s := newTestSession(t, nil)
	exit := s.Maze().Exit()
	s.Camera().SetPosition(s.Maze().GridToWorld(exit.X, exit.Z).WithY(1.5))

	s.Step(0.1, Input{})
	if s.State() != Won {
		t.Fatalf("state = %v, want won", s.State())
	}
	want := level.Score(s.Remaining(), s.Items().Coins(), 0)
	if s.Score() != want || s.Status().LevelScore != want {
		t.Errorf("score = %d, want %d", s.Score(), want)
	}

	if err := s.NextLevel(); err != nil {
		t.Fatal(err)
	}
	if _, idx := s.Level(); idx != 1 {
		t.Errorf("level = %d, want 1", idx)
	}
	if s.State() != Playing || s.Score() != want || s.Lives() != 3 {
		t.Errorf("after next: %v score %d lives %d", s.State(), s.Score(), s.Lives())
	}
	if err := s.NextLevel(); !errors.Is(err, ErrNotWon) {
		t.Errorf("next level while playing: %v", err)
	}
}

func TestExitNeedsKeys(t *testing.T) {
	s := newTestSession(t, func(c *Config) { c.Level = level.Count() - 1 })
	if s.Items().KeysRequired() == 0 {
		t.Skip("no keys placed")
	}
	exit := s.Maze().Exit()
	at := s.Maze().GridToWorld(exit.X, exit.Z).WithY(1.5)
	s.Camera().SetPosition(at)

	s.Step(0.01, Input{})
	if s.State() != Playing {
		t.Fatalf("state = %v without keys", s.State())
	}

	for _, it := range s.Items().Items() {
		if it.Kind == items.Key {
			it.Base, it.Position = at, at
		}
	}
	s.Step(0.01, Input{})
	if s.State() != Victory {
		t.Errorf("state = %v, want victory", s.State())
	}
	if s.NextLevel() == nil {
		t.Error("next level after the last one")
	}
}

func TestSameSeedSameSession(t *testing.T) {
	a := newTestSession(t, nil)
	b := newTestSession(t, nil)
	if strings.Join(a.Minimap(), "\n") != strings.Join(b.Minimap(), "\n") {
		t.Error("sessions with the same seed differ")
	}
}

func TestMinimap(t *testing.T) {
	s := newTestSession(t, nil)
	rows := s.Minimap()
	n := s.Maze().Size()
	if len(rows) != n {
		t.Fatalf("rows = %d, want %d", len(rows), n)
	}
	for z, row := range rows {
		if len(row) != n {
			t.Fatalf("row %d has %d cells", z, len(row))
		}
	}
	if rows[0][0] != GlyphWall {
		t.Errorf("corner = %q", rows[0][0])
	}
	exit := s.Maze().Exit()
	if rows[exit.Z][exit.X] != GlyphExit {
		t.Errorf("exit = %q", rows[exit.Z][exit.X])
	}
	p := s.PlayerCell()
	if rows[p.Z][p.X] != GlyphPlayer {
		t.Errorf("player = %q", rows[p.Z][p.X])
	}
	for _, w := range s.Maze().Walls() {
		if got := rows[w.Cell.Z][w.Cell.X]; got != GlyphDynamic && got != GlyphEnemy {
			t.Errorf("dynamic wall at %v drawn as %q", w.Cell, got)
		}
	}
}

func TestSceneRender(t *testing.T) {
	s := newTestSession(t, nil)
	sc := NewScene(s, SceneOptions{Wireframe: true})
	fb := render.NewFramebuffer(64, 48)
	if err := sc.Render(fb); err != nil {
		t.Fatal(err)
	}

	lv, _ := s.Level()
	fog := lv.FogColor.RGBA()
	drawn := 0
	for _, p := range fb.Pixels {
		if p != fog {
			drawn++
		}
	}
	if drawn == 0 {
		t.Error("nothing drawn")
	}

	// A new level rebuilds the level geometry.
	exit := s.Maze().Exit()
	s.Camera().SetPosition(s.Maze().GridToWorld(exit.X, exit.Z).WithY(1.5))
	s.Step(0.1, Input{})
	if err := s.NextLevel(); err != nil {
		t.Fatal(err)
	}
	if err := sc.Render(fb); err != nil {
		t.Fatal(err)
	}
	if sc.builtFor != s.Maze() {
		t.Error("scene kept the old maze")
	}
}

func TestSceneExport(t *testing.T) {
	s := newTestSession(t, nil)
	sc := NewScene(s, SceneOptions{})
	meshes, err := sc.Meshes()
	if err != nil {
		t.Fatal(err)
	}
	want := 0
	for _, m := range meshes {
		want += m.TriangleCount()
	}

	path := filepath.Join(t.TempDir(), "maze.glb")
	if err := sc.ExportScene(path); err != nil {
		t.Fatal(err)
	}
	got, err := models.LoadGLB(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.TriangleCount() != want {
		t.Errorf("triangles = %d, want %d", got.TriangleCount(), want)
	}
}

func BenchmarkStep(b *testing.B) {
	s := newTestSession(b, nil)
	in := Input{Forward: true, LookDX: 3}
	for b.Loop() {
		s.Step(1.0/60, in)
		if s.State() != Playing {
			s.Restart()
		}
	}
}

func BenchmarkRender(b *testing.B) {
	s := newTestSession(b, nil)
	sc := NewScene(s, SceneOptions{})
	fb := render.NewFramebuffer(160, 90)
	for b.Loop() {
		sc.Render(fb)
	}
}
