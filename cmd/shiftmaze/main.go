// shiftmaze - a first-person maze in the terminal whose walls keep moving.
//
// Controls:
//
//	W/S or Up/Down - Walk forward/back
//	A/D            - Strafe left/right
//	Left/Right     - Turn
//	Mouse          - Look around
//	E or Space     - Open, close or unlock the nearest door
//	P              - Pause
//	N or Enter     - Next level (after finishing one)
//	R              - Restart (after the game ends)
//	X              - Toggle wireframe overlay
//	M              - Toggle minimap
//	?              - Toggle HUD
//	Esc, Q         - Quit
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/taigrr/shiftmaze/pkg/game"
	"github.com/taigrr/shiftmaze/pkg/level"
	"github.com/taigrr/shiftmaze/pkg/models"
	"github.com/taigrr/shiftmaze/pkg/render"
)

var version = "dev"

// options are the flags shared by every subcommand.
type options struct {
	seed         uint64
	level        int // From one
	lives        int
	logFile      string
	logLevel     string
	enemyModel   string
	floorTexture string
	wireframe    bool
}

func main() {
	if err := fang.Execute(context.Background(), rootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &options{}
	play := &playOptions{}
	root := &cobra.Command{
		Use:   "shiftmaze",
		Short: "A first-person maze in your terminal whose walls keep moving",
		Long: "shiftmaze renders a 3D maze with a software rasterizer straight into the terminal.\n" +
			"Find the exit before the clock runs out while walls spin, slide and grow,\n" +
			"the maze reshuffles itself and enemies hunt you down.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(cmd.Context(), opts, play)
		},
	}

	pf := root.PersistentFlags()
	pf.Uint64Var(&opts.seed, "seed", 0, "random seed (0 picks one from the clock)")
	pf.IntVar(&opts.level, "level", 1, fmt.Sprintf("starting level, 1 to %d", level.Count()))
	pf.IntVar(&opts.lives, "lives", game.DefaultConfig().Lives, "lives at the start")
	pf.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	pf.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&opts.enemyModel, "enemy-model", "", "GLB model to draw enemies with")
	pf.StringVar(&opts.floorTexture, "floor-texture", "", "PNG or JPEG texture for the floor")
	pf.BoolVar(&opts.wireframe, "wireframe", false, "overlay dynamic wall bounds and motion paths")

	play.bind(root)

	root.AddCommand(
		playCmd(opts),
		exportCmd(opts),
		screenshotCmd(opts),
		levelsCmd(),
	)
	return root
}

// logger opens the log destination. The terminal belongs to the game while
// it runs, so logs only go to a file.
func (o *options) logger() (*log.Logger, func() error, error) {
	lvl, err := log.ParseLevel(o.logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	if o.logFile == "" {
		return log.New(io.Discard), func() error { return nil }, nil
	}
	f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		Prefix:          "shiftmaze",
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           lvl,
	})
	return logger, f.Close, nil
}

// session builds a game session and scene from the shared flags.
func (o *options) session(logger *log.Logger) (*game.Session, *game.Scene, error) {
	cfg := game.DefaultConfig()
	cfg.Seed = o.seed
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	cfg.Level = o.level - 1
	cfg.Lives = o.lives
	cfg.Logger = logger

	s, err := game.NewSession(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("session", "seed", cfg.Seed, "level", o.level)

	sceneOpts := game.SceneOptions{Wireframe: o.wireframe}
	if o.enemyModel != "" {
		sceneOpts.EnemyMesh, err = models.LoadGLB(o.enemyModel)
		if err != nil {
			return nil, nil, fmt.Errorf("enemy model: %w", err)
		}
	}
	if o.floorTexture != "" {
		sceneOpts.FloorTexture, err = render.LoadTexture(o.floorTexture)
		if err != nil {
			return nil, nil, fmt.Errorf("floor texture: %w", err)
		}
	}
	return s, game.NewScene(s, sceneOpts), nil
}
