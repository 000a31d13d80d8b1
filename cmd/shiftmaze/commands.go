package main

import (
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"
	"github.com/taigrr/shiftmaze/pkg/game"
	"github.com/taigrr/shiftmaze/pkg/level"
	"github.com/taigrr/shiftmaze/pkg/render"
)

// playOptions are the flags of the interactive game.
type playOptions struct {
	fps     int
	noHUD   bool
	noColor bool
	minimap bool
}

func (p *playOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&p.fps, "fps", 30, "target frames per second")
	f.BoolVar(&p.noHUD, "no-hud", false, "start with the HUD hidden")
	f.BoolVar(&p.noColor, "no-color-hud", false, "draw the HUD without colours")
	f.BoolVar(&p.minimap, "minimap", true, "show the minimap")
}

func playCmd(opts *options) *cobra.Command {
	play := &playOptions{}
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the game (the default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(cmd.Context(), opts, play)
		},
	}
	play.bind(cmd)
	return cmd
}

// advance runs a session forward with no input, for the offline commands.
func advance(s *game.Session, seconds float64) {
	const step = 1.0 / 30
	for t := 0.0; t < seconds && s.State() == game.Playing; t += step {
		s.Step(step, game.Input{})
	}
}

func exportCmd(opts *options) *cobra.Command {
	var seconds float64
	cmd := &cobra.Command{
		Use:   "export <out.glb>",
		Short: "Write the generated level to a binary glTF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			logger, closeLog, err := opts.logger()
			if err != nil {
				return err
			}
			defer closeLog()
			s, sc, err := opts.session(logger)
			if err != nil {
				return err
			}
			advance(s, seconds)
			if err := sc.ExportScene(args[0]); err != nil {
				return err
			}
			fmt.Printf("wrote %s (seed %d)\n", args[0], s.Seed())
			return nil
		},
	}
	cmd.Flags().Float64Var(&seconds, "advance", 0, "simulate this many seconds before exporting")
	return cmd
}

func screenshotCmd(opts *options) *cobra.Command {
	var (
		seconds       float64
		width, height int
		scale         int
	)
	cmd := &cobra.Command{
		Use:   "screenshot <out.png>",
		Short: "Render the player's view to a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			logger, closeLog, err := opts.logger()
			if err != nil {
				return err
			}
			defer closeLog()
			s, sc, err := opts.session(logger)
			if err != nil {
				return err
			}
			advance(s, seconds)
			fb := render.NewFramebuffer(width, height)
			if err := sc.Render(fb); err != nil {
				return err
			}
			if err := fb.SaveScaledPNG(args[0], scale); err != nil {
				return fmt.Errorf("save screenshot: %w", err)
			}
			fmt.Printf("wrote %s (%dx%d, seed %d)\n", args[0], width*scale, height*scale, s.Seed())
			return nil
		},
	}
	f := cmd.Flags()
	f.Float64Var(&seconds, "advance", 0, "simulate this many seconds before rendering")
	f.IntVar(&width, "width", 320, "framebuffer width in pixels")
	f.IntVar(&height, "height", 180, "framebuffer height in pixels")
	f.IntVar(&scale, "scale", 2, "integer upscale of the saved image")
	return cmd
}

func levelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List the levels",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Println(levelTable())
		},
	}
}

func levelTable() string {
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7DF9FF")).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Headers("#", "Name", "Size", "Time", "Enemies", "Keys", "Coins", "Traps", "Shift")
	for i, lv := range level.Table {
		guard := ""
		if lv.Guard {
			guard = "+G"
		}
		t.Row(
			strconv.Itoa(i+1),
			lv.Name,
			fmt.Sprintf("%dx%d", lv.MazeSize, lv.MazeSize),
			fmt.Sprintf("%.0fs", lv.TimeLimit),
			fmt.Sprintf("%d+%dC%s", lv.Enemies, lv.ChaseEnemies, guard),
			strconv.Itoa(lv.Keys),
			strconv.Itoa(lv.Coins),
			strconv.Itoa(lv.Traps),
			fmt.Sprintf("%.0fs", lv.ShiftInterval),
		)
	}
	return t.String()
}
