package main

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/shiftmaze/pkg/game"
	"github.com/taigrr/shiftmaze/pkg/level"
)

func TestLevelTable(t *testing.T) {
	out := levelTable()
	for _, lv := range level.Table {
		if !strings.Contains(out, lv.Name) {
			t.Errorf("table is missing %q", lv.Name)
		}
	}
}

func TestRootCommand(t *testing.T) {
	root := rootCmd()
	for _, name := range []string{"seed", "level", "lives", "log-file", "log-level", "enemy-model", "floor-texture", "wireframe"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing flag --%s", name)
		}
	}
	for _, name := range []string{"play", "export", "screenshot", "levels"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("missing subcommand %s", name)
		}
	}
}

func TestOfflineCommands(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name  string
		args  []string
		out   string
		magic string
	}{
		{"screenshot", []string{"screenshot", "--width", "48", "--height", "24", "--scale", "2"}, "shot.png", "\x89PNG"},
		{"export", []string{"export", "--advance", "1"}, "level.glb", "glTF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(dir, tt.out)
			root := rootCmd()
			root.SetArgs(append(tt.args, "--seed", "11", "--log-file", filepath.Join(dir, tt.name+".log"), out))
			if err := root.Execute(); err != nil {
				t.Fatal(err)
			}
			data, err := os.ReadFile(out)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(string(data), tt.magic) {
				t.Errorf("%s does not start with %q", tt.out, tt.magic)
			}
		})
	}
}

func TestBadLogLevel(t *testing.T) {
	root := rootCmd()
	root.SetArgs([]string{"export", "--log-level", "loud", filepath.Join(t.TempDir(), "x.glb")})
	if err := root.Execute(); err == nil {
		t.Error("unknown log level accepted")
	}
}

func TestControlsHoldAndDrain(t *testing.T) {
	c := &controls{}
	if !c.handle(uv.KeyPressEvent{Code: 'w', Text: "w"}) {
		t.Fatal("w quit the game")
	}
	c.handle(uv.KeyPressEvent{Code: 'e', Text: "e"})
	c.handle(uv.MouseMotionEvent{X: 10, Y: 5})
	c.handle(uv.MouseMotionEvent{X: 13, Y: 4})
	c.handle(uv.WindowSizeEvent{Width: 80, Height: 24})

	now := time.Now()
	in := c.take(now)
	if !in.held[actForward] || in.held[actBack] {
		t.Errorf("held = %v", in.held)
	}
	if !in.interact {
		t.Error("interact not seen")
	}
	if in.lookX != 3 || in.lookY != -1 {
		t.Errorf("look = %v, %v", in.lookX, in.lookY)
	}
	if !in.resized || in.width != 80 || in.height != 24 {
		t.Errorf("resize = %v %dx%d", in.resized, in.width, in.height)
	}

	again := c.take(now)
	if again.interact || again.lookX != 0 || again.resized {
		t.Error("edges were not drained")
	}
	if !again.held[actForward] {
		t.Error("held key dropped before it expired")
	}
	if c.take(now.Add(keyHold)).held[actForward] {
		t.Error("held key never expired")
	}
}

func TestControlsQuit(t *testing.T) {
	c := &controls{}
	if c.handle(uv.KeyPressEvent{Code: 'q', Text: "q"}) {
		t.Error("q did not quit")
	}
}

func TestLookSettlesOnTarget(t *testing.T) {
	l := newLook(30)
	l.yawTarget = 1
	total := 0.0
	for range 120 {
		d, _ := l.update()
		total += d
	}
	if math.Abs(total-1) > 1e-3 {
		t.Errorf("turned %v, want 1", total)
	}
	l.yawTarget = 2
	l.update()
	l.settle()
	if l.yawVel != 0 || l.yawTarget != l.yaw {
		t.Error("settle left motion in flight")
	}
}

func TestAdvanceLevelIgnoresKeysWhilePlaying(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.Seed = 7
	s, err := game.NewSession(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := advanceLevel(s, frameInput{next: true, restart: true}); err != nil {
		t.Fatal(err)
	}
	if _, idx := s.Level(); idx != 0 || s.State() != game.Playing {
		t.Errorf("level %d, state %v", idx, s.State())
	}
}
