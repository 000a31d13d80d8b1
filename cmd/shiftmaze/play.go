package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/shiftmaze/pkg/game"
	"github.com/taigrr/shiftmaze/pkg/render"
)

const (
	// keyHold is how long a press counts as held without a repeat or a
	// release. Many terminals never report releases.
	keyHold = 600 * time.Millisecond
	// turnRate is the arrow-key turn speed in radians per second.
	turnRate = 2.2
	// cellLook is the look angle per terminal cell of mouse motion.
	cellLook  = 0.04
	pitchMax  = math.Pi/2 - 0.1
	lookFreq  = 8.0
	lookDamp  = 1.0
	frameClip = 0.1
)

type action int

const (
	actForward action = iota
	actBack
	actStrafeLeft
	actStrafeRight
	actTurnLeft
	actTurnRight
	numActions
)

var holdKeys = [numActions][]string{
	actForward:     {"w", "up"},
	actBack:        {"s", "down"},
	actStrafeLeft:  {"a"},
	actStrafeRight: {"d"},
	actTurnLeft:    {"left"},
	actTurnRight:   {"right"},
}

// controls collects input from the event goroutine for the frame loop.
type controls struct {
	mu sync.Mutex

	held      [numActions]time.Time
	lookX     float64 // Pending mouse motion in cells
	lookY     float64
	lastX     int
	lastY     int
	haveMouse bool

	interact, pause, next, restart bool
	wireframe, hud, minimap        bool

	resized       bool
	width, height int
}

// frameInput is what one frame consumes from controls.
type frameInput struct {
	held                           [numActions]bool
	lookX, lookY                   float64
	interact, pause, next, restart bool
	wireframe, hud, minimap        bool
	resized                        bool
	width, height                  int
}

// take drains the pending edges and motion.
func (c *controls) take(now time.Time) frameInput {
	c.mu.Lock()
	defer c.mu.Unlock()
	var in frameInput
	for a, t := range c.held {
		in.held[a] = !t.IsZero() && now.Sub(t) < keyHold
	}
	in.lookX, in.lookY = c.lookX, c.lookY
	in.interact, in.pause, in.next, in.restart = c.interact, c.pause, c.next, c.restart
	in.wireframe, in.hud, in.minimap = c.wireframe, c.hud, c.minimap
	in.resized, in.width, in.height = c.resized, c.width, c.height

	c.lookX, c.lookY = 0, 0
	c.interact, c.pause, c.next, c.restart = false, false, false, false
	c.wireframe, c.hud, c.minimap = false, false, false
	c.resized = false
	return in
}

// handle records one terminal event. It reports false when the player quits.
func (c *controls) handle(ev uv.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		c.resized, c.width, c.height = true, ev.Width, ev.Height

	case uv.KeyPressEvent:
		for a, keys := range holdKeys {
			if ev.MatchString(keys...) {
				c.held[a] = time.Now()
				return true
			}
		}
		switch {
		case ev.MatchString("escape", "q", "ctrl+c"):
			return false
		case ev.MatchString("e", "space"):
			c.interact = true
		case ev.MatchString("p"):
			c.pause = true
		case ev.MatchString("n", "enter"):
			c.next = true
		case ev.MatchString("r"):
			c.restart = true
		case ev.MatchString("x"):
			c.wireframe = true
		case ev.MatchString("m"):
			c.minimap = true
		case ev.MatchString("?", "shift+/"):
			c.hud = true
		}

	case uv.KeyReleaseEvent:
		for a, keys := range holdKeys {
			if ev.MatchString(keys...) {
				c.held[a] = time.Time{}
			}
		}

	case uv.MouseMotionEvent:
		if c.haveMouse {
			c.lookX += float64(ev.X - c.lastX)
			c.lookY += float64(ev.Y - c.lastY)
		}
		c.lastX, c.lastY, c.haveMouse = ev.X, ev.Y, true
	}
	return true
}

// look smooths the player's view on critically damped springs so coarse
// terminal mouse steps turn into an even sweep.
type look struct {
	yaw, yawVel, yawTarget       float64
	pitch, pitchVel, pitchTarget float64
	spring                       harmonica.Spring
}

func newLook(fps int) *look {
	return &look{spring: harmonica.NewSpring(harmonica.FPS(fps), lookFreq, lookDamp)}
}

// update returns the yaw and pitch change since the previous frame.
func (l *look) update() (dYaw, dPitch float64) {
	yaw, pitch := l.yaw, l.pitch
	l.yaw, l.yawVel = l.spring.Update(l.yaw, l.yawVel, l.yawTarget)
	l.pitch, l.pitchVel = l.spring.Update(l.pitch, l.pitchVel, l.pitchTarget)
	return l.yaw - yaw, l.pitch - pitch
}

// settle drops any motion still in flight, after a respawn or level change.
func (l *look) settle() {
	l.yawTarget, l.yawVel = l.yaw, 0
	l.pitchTarget, l.pitchVel = l.pitch, 0
}

func runPlay(ctx context.Context, opts *options, play *playOptions) error {
	if play.fps < 1 {
		return fmt.Errorf("fps %d: must be positive", play.fps)
	}
	logger, closeLog, err := opts.logger()
	if err != nil {
		return err
	}
	defer closeLog()

	session, scene, err := opts.session(logger)
	if err != nil {
		return err
	}
	sens := game.DefaultConfig().MouseSensitivity

	// Create terminal
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fb := render.NewFramebuffer(termRenderer.FramebufferSize())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	ctl := &controls{}
	go func() {
		for ev := range term.Events() {
			if !ctl.handle(ev) {
				cancel()
				return
			}
		}
	}()

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	hud := NewHUD(!play.noHUD, play.minimap)
	hud.Plain = play.noColor
	view := newLook(play.fps)
	targetDuration := time.Second / time.Duration(play.fps)
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			cleanup()
			logger.Info("quit", "score", session.Score())
			return nil
		default:
		}

		now := time.Now()
		dt := math.Min(now.Sub(lastFrame).Seconds(), frameClip)
		lastFrame = now

		in := ctl.take(now)
		if in.resized {
			width, height = in.width, in.height
			term.Erase()
			term.Resize(width, height)
			termRenderer = render.NewTerminalRenderer(term, width, height)
			fb = render.NewFramebuffer(termRenderer.FramebufferSize())
		}
		if in.wireframe {
			scene.SetWireframe(!scene.Wireframe())
		}
		if in.hud || in.minimap {
			hud.ShowHUD = hud.ShowHUD != in.hud
			hud.ShowMinimap = hud.ShowMinimap != in.minimap
			term.Erase()
		}
		if in.pause {
			session.TogglePause()
			term.Erase()
		}
		if err := advanceLevel(session, in); err != nil {
			cleanup()
			return err
		}
		if in.next || in.restart {
			view.settle()
			term.Erase()
		}

		turn := 0.0
		if in.held[actTurnLeft] {
			turn -= turnRate * dt
		}
		if in.held[actTurnRight] {
			turn += turnRate * dt
		}
		view.yawTarget += turn + in.lookX*cellLook
		view.pitchTarget = math.Max(-pitchMax, math.Min(pitchMax, view.pitchTarget+in.lookY*cellLook))
		dYaw, dPitch := view.update()

		lives := session.Lives()
		session.Step(dt, game.Input{
			Forward:  in.held[actForward],
			Back:     in.held[actBack],
			Left:     in.held[actStrafeLeft],
			Right:    in.held[actStrafeRight],
			LookDX:   dYaw / sens,
			LookDY:   dPitch / sens,
			Interact: in.interact,
		})
		if session.Lives() != lives {
			view.settle()
		}

		if err := scene.Render(fb); err != nil {
			cleanup()
			return fmt.Errorf("render: %w", err)
		}
		termRenderer.Render(fb)
		if err := termRenderer.Flush(); err != nil {
			cleanup()
			return fmt.Errorf("flush: %w", err)
		}

		hud.UpdateFPS()
		hud.Render(width, height, session)

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

// advanceLevel handles the between-levels keys.
func advanceLevel(s *game.Session, in frameInput) error {
	switch s.State() {
	case game.Won:
		if in.next {
			return s.NextLevel()
		}
	case game.Victory, game.GameOver:
		if in.restart {
			return s.Restart()
		}
	}
	return nil
}
