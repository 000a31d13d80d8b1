package main

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/taigrr/shiftmaze/pkg/game"
	"github.com/taigrr/shiftmaze/pkg/items"
)

var (
	barStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#101018")).
			Foreground(lipgloss.Color("#E0E0E0"))
	titleStyle   = barStyle.Bold(true).Foreground(lipgloss.Color("#7DF9FF"))
	livesStyle   = barStyle.Foreground(lipgloss.Color("#FF5F5F"))
	clockStyle   = barStyle.Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	lowTimeStyle = barStyle.Foreground(lipgloss.Color("#FF3030")).Bold(true).Blink(true)
	coinStyle    = barStyle.Foreground(lipgloss.Color("#FFD700"))
	keyStyle     = barStyle.Foreground(lipgloss.Color("#B0B0D0"))
	dimStyle     = barStyle.Faint(true)
	alertStyle   = barStyle.Foreground(lipgloss.Color("#FF8C00")).Bold(true)
	powerStyle   = map[items.Kind]lipgloss.Style{
		items.SpeedBoost:    barStyle.Foreground(lipgloss.Color("#00CCFF")),
		items.Invincibility: barStyle.Foreground(lipgloss.Color("#FF8000")),
	}

	minimapStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#555555")).
			Background(lipgloss.Color("#000000")).
			Foreground(lipgloss.Color("#A0A0A0"))
	playerGlyph = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)
	enemyGlyph  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF3030"))
	exitGlyph   = lipgloss.NewStyle().Foreground(lipgloss.Color("#30FF80"))
	itemGlyph   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))

	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#7DF9FF")).
			Padding(1, 4).
			Align(lipgloss.Center).
			Bold(true)
)

// HUD draws the status bars, minimap and banners over the rendered frame.
type HUD struct {
	ShowHUD     bool
	ShowMinimap bool
	Plain       bool // Strip colours and attributes

	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a HUD.
func NewHUD(show, minimap bool) *HUD {
	return &HUD{ShowHUD: show, ShowMinimap: minimap, fpsTime: time.Now()}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

func moveTo(row, col int) string {
	return fmt.Sprintf("\x1b[%d;%dH", row, col)
}

const clearLine = "\x1b[2K"

// place prints a rendered block with its top-left corner at (row, col).
func (h *HUD) place(block string, row, col int) {
	for i, line := range strings.Split(block, "\n") {
		if h.Plain {
			line = ansi.Strip(line)
		}
		fmt.Print(moveTo(row+i, max(col, 1)) + line)
	}
}

// Render draws the overlay for a width x height terminal.
func (h *HUD) Render(width, height int, s *game.Session) {
	// Always clear the bar rows so toggling off works.
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)

	st := s.Status()
	if h.ShowHUD {
		bar := barStyle.Width(width).MaxWidth(width).MaxHeight(1)
		h.place(bar.Render(h.topBar(st, s.PowerUps())), 1, 1)
		h.place(bar.Render(h.bottomBar(st)), height, 1)
	}
	if h.ShowMinimap {
		mm := renderMinimap(s.Minimap())
		h.place(mm, 2, width-lipgloss.Width(mm)+1)
	}
	if banner := bannerFor(st); banner != "" {
		b := bannerStyle.Render(banner)
		h.place(b, (height-lipgloss.Height(b))/2, (width-lipgloss.Width(b))/2)
	}
}

func (h *HUD) topBar(st game.Status, powers []items.PowerUp) string {
	clock := clockStyle
	if st.Remaining < 30 {
		clock = lowTimeStyle
	}
	parts := []string{
		titleStyle.Render(fmt.Sprintf(" L%d %s ", st.Level, st.LevelName)),
		livesStyle.Render(strings.Repeat("♥", st.Lives)),
		clock.Render(fmt.Sprintf("%d:%02d", int(st.Remaining)/60, int(st.Remaining)%60)),
		coinStyle.Render(fmt.Sprintf("$ %d/%d", st.Coins, st.TotalCoins)),
	}
	if st.KeysRequired > 0 {
		parts = append(parts, keyStyle.Render(fmt.Sprintf("keys %d/%d", st.Keys, st.KeysRequired)))
	}
	for _, p := range powers {
		parts = append(parts, powerStyle[p.Kind].Render(fmt.Sprintf("%s %.0fs", p.Kind, p.Remaining)))
	}
	if st.Chased {
		parts = append(parts, alertStyle.Render("CHASED"))
	}
	parts = append(parts,
		dimStyle.Render(fmt.Sprintf("shift %.0fs", st.NextShift)),
		barStyle.Render(fmt.Sprintf("%d pts", st.Score)),
		dimStyle.Render(fmt.Sprintf("%.0f FPS", h.fps)),
	)
	return strings.Join(parts, barStyle.Render("  "))
}

func (h *HUD) bottomBar(st game.Status) string {
	hint := dimStyle.Render("WASD move · mouse/←→ look · E door · P pause · M map · ? hud · Esc quit")
	if st.Message == "" {
		return hint
	}
	return barStyle.Render(" "+st.Message+"  ") + hint
}

func renderMinimap(rows []string) string {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, r := range row {
			g := string(r)
			switch r {
			case game.GlyphPlayer:
				g = playerGlyph.Render(g)
			case game.GlyphEnemy:
				g = enemyGlyph.Render(g)
			case game.GlyphExit:
				g = exitGlyph.Render(g)
			case game.GlyphCoin, game.GlyphKey, game.GlyphPowerUp:
				g = itemGlyph.Render(g)
			}
			b.WriteString(g)
		}
	}
	return minimapStyle.Render(b.String())
}

func bannerFor(st game.Status) string {
	switch st.State {
	case game.Paused:
		return "PAUSED\n\nP to resume"
	case game.Won:
		return fmt.Sprintf("%s\n\n+%d points\n\nN for the next level", strings.ToUpper(st.Message), st.LevelScore)
	case game.Victory:
		return fmt.Sprintf("YOU ESCAPED EVERY MAZE\n\nFinal score %d\n\nR to play again", st.Score)
	case game.GameOver:
		return fmt.Sprintf("GAME OVER\n\n%s\n\nScore %d\n\nR to restart", st.Message, st.Score)
	}
	return ""
}
