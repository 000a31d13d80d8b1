// Package game runs a play session: it owns the maze, enemies, items and
// doors of the current level and advances them in a fixed order each tick.
package game

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/taigrr/shiftmaze/pkg/doors"
	"github.com/taigrr/shiftmaze/pkg/enemy"
	"github.com/taigrr/shiftmaze/pkg/items"
	"github.com/taigrr/shiftmaze/pkg/level"
	"github.com/taigrr/shiftmaze/pkg/math3d"
	"github.com/taigrr/shiftmaze/pkg/maze"
	"github.com/taigrr/shiftmaze/pkg/render"
)

// ErrNotWon is returned by NextLevel before the current level is complete.
var ErrNotWon = errors.New("game: level not complete")

// MaxStep is the longest tick Step will simulate.
const MaxStep = 0.1

const (
	// respawnGrace is how long enemy contact is ignored after a respawn.
	respawnGrace = 1.5
	maxLives     = 5
)

// State is the phase of a session.
type State int

const (
	Playing State = iota
	Paused
	Won     // Level complete, waiting for NextLevel
	Victory // Last level complete
	GameOver
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Won:
		return "level complete"
	case Victory:
		return "victory"
	case GameOver:
		return "game over"
	}
	return "unknown"
}

// Input is the player's intent for one tick.
type Input struct {
	Forward, Back, Left, Right bool
	LookDX, LookDY             float64 // Raw look deltas, scaled by MouseSensitivity
	Interact                   bool
}

// Session is one run through the levels.
type Session struct {
	cfg Config
	log *log.Logger
	rng *rand.Rand

	state      State
	levelIndex int
	lv         level.Level

	maze    *maze.Maze
	enemies *enemy.Manager
	items   *items.Manager
	doors   *doors.Manager
	camera  *render.Camera

	lives      int
	score      int
	levelScore int
	remaining  float64
	grace      float64
	message    string
}

// NewSession validates cfg and sets up its starting level.
func NewSession(cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		cfg:     cfg,
		log:     cfg.logger(),
		rng:     rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x5eed)),
		enemies: enemy.NewManager(),
		items:   items.NewManager(),
		doors:   doors.NewManager(),
		camera:  render.NewCamera(),
		lives:   cfg.Lives,
	}
	s.camera.SetFOV(cfg.FOV)
	s.camera.SetClipPlanes(cfg.Near, cfg.Far)
	s.camera.MoveSpeed = cfg.MoveSpeed
	if err := s.loadLevel(cfg.Level); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) loadLevel(i int) error {
	lv, err := level.Get(i)
	if err != nil {
		return err
	}
	mcfg := lv.MazeConfig()
	mcfg.Logger = s.cfg.Logger
	mz, err := maze.New(mcfg, s.rng)
	if err != nil {
		return fmt.Errorf("level %d: %w", i, err)
	}

	s.levelIndex, s.lv, s.maze = i, lv, mz
	placed := s.doors.Spawn(mz, lv.Keys, s.rng)
	s.items.Spawn(lv, mz, s.rng)
	s.enemies.Spawn(lv, mz, s.rng)

	s.remaining = lv.TimeLimit
	s.levelScore = 0
	s.state = Playing
	s.message = lv.Description
	s.respawn()
	s.log.Info("level start", "level", i+1, "name", lv.Name, "size", lv.MazeSize,
		"enemies", s.enemies.Count(), "doors", placed, "keys", s.items.KeysRequired())
	return nil
}

// respawn puts the player on the start cell facing an open corridor.
func (s *Session) respawn() {
	start := s.maze.Start()
	s.camera.SetPosition(s.maze.StartPosition(s.cfg.PlayerHeight))
	theta := 0.0
	switch {
	case !s.maze.IsBlockingCell(start.X+1, start.Z):
		theta = math.Pi / 2
	case !s.maze.IsBlockingCell(start.X, start.Z+1):
		theta = math.Pi
	}
	s.camera.SetAngles(theta, 0)
	s.grace = respawnGrace
}

// Step advances the session by elapsed seconds, clamped to MaxStep. Nothing
// moves unless the session is playing.
func (s *Session) Step(elapsed float64, in Input) {
	dt := math.Min(elapsed, MaxStep)
	if dt <= 0 || s.state != Playing {
		return
	}

	s.movePlayer(dt, in)

	s.maze.Protect(s.PlayerCell())
	s.maze.Update(dt)

	s.enemies.Update(dt, s.camera.Position)

	s.collect()
	s.items.Update(dt)

	if in.Interact {
		if d := s.doors.Interact(s.camera.Position, s.items.Keys()); d != nil {
			s.message = "door " + d.State.String()
			s.log.Debug("door", "x", d.Cell.X, "z", d.Cell.Z, "state", d.State)
		} else if d := s.doors.Nearest(s.camera.Position); d != nil && d.State == doors.Locked {
			s.message = "the door is locked"
		}
	}
	s.doors.Update(dt)

	s.applyRules(dt)
}

// movePlayer turns, then walks, undoing the walk if it ends inside a wall
// or door. When a moving wall has already swept into the player, any walk
// that stays clear of static walls and doors is kept so they can get out.
func (s *Session) movePlayer(dt float64, in Input) {
	sens := s.cfg.MouseSensitivity
	s.camera.Rotate(in.LookDX*sens, -in.LookDY*sens)

	old := s.camera.Position
	s.camera.MoveSpeed = s.cfg.MoveSpeed * s.items.SpeedMultiplier()
	if in.Forward {
		s.camera.MoveForward(dt)
	}
	if in.Back {
		s.camera.MoveBackward(dt)
	}
	if in.Left {
		s.camera.MoveLeft(dt)
	}
	if in.Right {
		s.camera.MoveRight(dt)
	}
	if s.camera.Position == old {
		return
	}
	if s.blocked(s.camera.Position) && (!s.blocked(old) || s.blockedStatic(s.camera.Position)) {
		s.camera.SetPosition(old)
	}
}

func (s *Session) blocked(p math3d.Vec3) bool {
	r := s.cfg.PlayerRadius
	return s.maze.CheckCollision(p, r) || s.doors.Collides(p, r)
}

func (s *Session) blockedStatic(p math3d.Vec3) bool {
	r := s.cfg.PlayerRadius
	return s.maze.CheckStaticCollision(p, r) || s.doors.Collides(p, r)
}

func (s *Session) collect() {
	for _, p := range s.items.Collect(s.camera.Position, s.cfg.PlayerRadius) {
		switch p.Kind {
		case items.TimeBonus:
			s.remaining += p.Value
		case items.Health:
			s.lives = min(s.lives+int(p.Value), maxLives)
		}
		s.message = "picked up " + p.Kind.String()
		s.log.Debug("pickup", "kind", p.Kind, "value", p.Value)
	}
}

// applyRules checks traps, enemy contact, the clock and the exit, in that
// order.
func (s *Session) applyRules(dt float64) {
	s.grace = math.Max(0, s.grace-dt)

	if s.maze.CellAt(s.PlayerCell().X, s.PlayerCell().Z) == maze.Trap {
		s.loseLife("caught in a trap")
		return
	}
	if s.grace == 0 && s.enemies.CheckPlayerCollision(s.BodyCenter(), s.cfg.PlayerRadius, s.items.Invincible()) {
		s.loseLife("caught by an enemy")
		return
	}

	s.remaining -= dt
	if s.remaining <= 0 {
		s.remaining = 0
		s.state = GameOver
		s.message = "out of time"
		s.log.Info("game over", "reason", s.message, "score", s.score)
		return
	}

	if s.maze.CheckExit(s.camera.Position) {
		if !s.items.HasAllKeys() {
			s.message = fmt.Sprintf("the exit needs %d more keys", s.items.KeysRequired()-s.items.Keys())
			return
		}
		s.levelScore = level.Score(s.remaining, s.items.Coins(), s.levelIndex)
		s.score += s.levelScore
		s.state = Won
		if level.IsLast(s.levelIndex) {
			s.state = Victory
		}
		s.message = fmt.Sprintf("%s complete: +%d", s.lv.Name, s.levelScore)
		s.log.Info("level won", "level", s.levelIndex+1, "score", s.levelScore, "total", s.score)
	}
}

func (s *Session) loseLife(reason string) {
	s.lives--
	s.message = reason
	s.log.Info("life lost", "reason", reason, "lives", s.lives)
	if s.lives <= 0 {
		s.lives = 0
		s.state = GameOver
		s.log.Info("game over", "reason", reason, "score", s.score)
		return
	}
	s.items.ClearEffects()
	s.enemies.Reset()
	s.respawn()
}

// TogglePause pauses a playing session or resumes a paused one.
func (s *Session) TogglePause() {
	switch s.state {
	case Playing:
		s.state = Paused
	case Paused:
		s.state = Playing
	}
}

// NextLevel loads the following level after a win, keeping lives and score.
func (s *Session) NextLevel() error {
	if s.state != Won {
		return fmt.Errorf("next level while %s: %w", s.state, ErrNotWon)
	}
	return s.loadLevel(s.levelIndex + 1)
}

// Restart starts over from the configured level with fresh lives and score.
func (s *Session) Restart() error {
	s.lives = s.cfg.Lives
	s.score = 0
	return s.loadLevel(s.cfg.Level)
}

// Seed returns the seed the session was generated from.
func (s *Session) Seed() uint64 { return s.cfg.Seed }

// Camera returns the player's camera.
func (s *Session) Camera() *render.Camera { return s.camera }

// Maze returns the current maze.
func (s *Session) Maze() *maze.Maze { return s.maze }

// Enemies returns the enemy manager.
func (s *Session) Enemies() *enemy.Manager { return s.enemies }

// Items returns the item manager.
func (s *Session) Items() *items.Manager { return s.items }

// Doors returns the door manager.
func (s *Session) Doors() *doors.Manager { return s.doors }

// Level returns the current level and its index.
func (s *Session) Level() (level.Level, int) { return s.lv, s.levelIndex }

// State returns the session phase.
func (s *Session) State() State { return s.state }

// Remaining returns the seconds left on the clock.
func (s *Session) Remaining() float64 { return s.remaining }

// Score returns the total score.
func (s *Session) Score() int { return s.score }

// Lives returns the lives left.
func (s *Session) Lives() int { return s.lives }

// PlayerCell returns the grid cell under the player.
func (s *Session) PlayerCell() maze.GridPos {
	return s.maze.CellOf(s.camera.Position)
}

// BodyCenter is the centre of the player's body, half the eye height below
// the eye.
func (s *Session) BodyCenter() math3d.Vec3 {
	p := s.camera.Position
	return p.WithY(p.Y - s.cfg.PlayerHeight/2)
}

// PowerUps lists the running timed effects.
func (s *Session) PowerUps() []items.PowerUp { return s.items.ActivePowerUps() }

// Status is a snapshot for the HUD.
type Status struct {
	State        State
	Level        int // From one
	LevelName    string
	Lives        int
	Score        int
	LevelScore   int
	Remaining    float64
	NextShift    float64
	Coins        int
	TotalCoins   int
	Keys         int
	KeysRequired int
	Chased       bool
	Message      string
}

// Status returns the HUD snapshot.
func (s *Session) Status() Status {
	return Status{
		State:        s.state,
		Level:        s.levelIndex + 1,
		LevelName:    s.lv.Name,
		Lives:        s.lives,
		Score:        s.score,
		LevelScore:   s.levelScore,
		Remaining:    s.remaining,
		NextShift:    s.maze.TimeToShift(),
		Coins:        s.items.Coins(),
		TotalCoins:   s.items.TotalCoins(),
		Keys:         s.items.Keys(),
		KeysRequired: s.items.KeysRequired(),
		Chased:       s.enemies.AnyChasing(),
		Message:      s.message,
	}
}
