package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Color is a framebuffer pixel.
type Color = color.RGBA

var (
	ColorBlack = RGB(0, 0, 0)
	ColorWhite = RGB(255, 255, 255)
	ColorRed   = RGB(255, 0, 0)
	ColorGreen = RGB(0, 255, 0)
	ColorBlue  = RGB(0, 0, 255)
	ColorGold  = RGB(255, 217, 0)
	ColorCyan  = RGB(0, 255, 255)
	ColorGray  = RGB(128, 128, 128)
)

// RGB returns an opaque colour.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// CellSetter is the part of uv.Screen the framebuffer draws into.
type CellSetter interface {
	SetCell(x, y int, c *uv.Cell)
}

// Presenter is a screen that can push drawn cells to the terminal.
// *uv.Terminal satisfies it.
type Presenter interface {
	CellSetter
	Display() error
}

const upperHalf = "▀"

// Draw writes the framebuffer into area of scr, two pixel rows per cell:
// the upper half block takes the top pixel as foreground and the bottom one
// as background. Cells whose halves match are drawn as a plain space.
func (fb *Framebuffer) Draw(scr CellSetter, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		for col := area.Min.X; col < min(area.Max.X, fb.Width); col++ {
			top, bot := fb.GetPixel(col, 2*row), fb.GetPixel(col, 2*row+1)
			cell := &uv.Cell{Content: upperHalf, Width: 1}
			if top == bot {
				cell.Content = " "
			} else {
				cell.Style.Fg = termColor(top)
			}
			cell.Style.Bg = termColor(bot)
			scr.SetCell(col, row, cell)
		}
	}
}

// termColor leaves transparent pixels uncoloured so the terminal's own
// background shows through.
func termColor(c Color) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// TerminalRenderer presents a framebuffer on a cols x rows terminal area.
type TerminalRenderer struct {
	screen     Presenter
	cols, rows int
}

func NewTerminalRenderer(screen Presenter, cols, rows int) *TerminalRenderer {
	return &TerminalRenderer{screen: screen, cols: max(cols, 1), rows: max(rows, 1)}
}

// FramebufferSize is the framebuffer that exactly fills the area.
func (t *TerminalRenderer) FramebufferSize() (width, height int) {
	return t.cols, t.rows * 2
}

// Render copies fb into the screen's cell buffer.
func (t *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(t.screen, uv.Rect(0, 0, t.cols, t.rows))
}

// Flush pushes the drawn cells to the terminal.
func (t *TerminalRenderer) Flush() error {
	return t.screen.Display()
}
