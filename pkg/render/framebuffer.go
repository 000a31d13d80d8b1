// Package render draws pre-shaded triangles into a z-buffered framebuffer
// and presents it in the terminal as half-block cells.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// Framebuffer holds the rendered view. Each terminal cell shows two pixels
// stacked vertically, so Height is twice the number of rows.
//
// It implements draw.Image so it can be scaled and encoded directly.
type Framebuffer struct {
	Width, Height int
	Pixels        []color.RGBA // row-major
}

var _ draw.Image = (*Framebuffer)(nil)

// NewFramebuffer allocates a black, fully transparent framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	width, height = max(width, 0), max(height, 0)
	return &Framebuffer{Width: width, Height: height, Pixels: make([]color.RGBA, width*height)}
}

func (fb *Framebuffer) inside(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

// Clear paints every pixel c.
func (fb *Framebuffer) Clear(c color.RGBA) {
	if len(fb.Pixels) == 0 {
		return
	}
	fb.Pixels[0] = c
	for i := 1; i < len(fb.Pixels); i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
}

// SetPixel writes (x, y); writes off the buffer are dropped.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if fb.inside(x, y) {
		fb.Pixels[y*fb.Width+x] = c
	}
}

// GetPixel reads (x, y), or the zero colour off the buffer.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if !fb.inside(x, y) {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

func (fb *Framebuffer) ColorModel() color.Model { return color.RGBAModel }

func (fb *Framebuffer) Bounds() image.Rectangle { return image.Rect(0, 0, fb.Width, fb.Height) }

func (fb *Framebuffer) At(x, y int) color.Color { return fb.GetPixel(x, y) }

func (fb *Framebuffer) Set(x, y int, c color.Color) {
	fb.SetPixel(x, y, color.RGBAModel.Convert(c).(color.RGBA))
}

// DrawLine plots a one pixel line between two points, endpoints included.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx, sx := x1-x0, 1
	if dx < 0 {
		dx, sx = -dx, -1
	}
	dy, sy := y1-y0, 1
	if dy < 0 {
		dy, sy = -dy, -1
	}
	e := dx - dy
	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 > -dy {
			e -= dy
			x0 += sx
		}
		if e2 < dx {
			e += dx
			y0 += sy
		}
	}
}

// Crosshair marks the centre of the view with arms of length arm.
func (fb *Framebuffer) Crosshair(arm int, c color.RGBA) {
	cx, cy := fb.Width/2, fb.Height/2
	fb.DrawLine(cx-arm, cy, cx+arm, cy, c)
	fb.DrawLine(cx, cy-arm, cx, cy+arm, c)
}

// ToImage copies the framebuffer into a new image.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(fb.Bounds())
	for i, p := range fb.Pixels {
		img.Pix[4*i], img.Pix[4*i+1], img.Pix[4*i+2], img.Pix[4*i+3] = p.R, p.G, p.B, p.A
	}
	return img
}

// Scaled enlarges the framebuffer by scale with nearest-neighbour sampling,
// so each pixel stays a crisp block.
func (fb *Framebuffer) Scaled(scale int) *image.RGBA {
	scale = max(scale, 1)
	dst := image.NewRGBA(image.Rect(0, 0, fb.Width*scale, fb.Height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), fb, fb.Bounds(), draw.Src, nil)
	return dst
}

// SavePNG writes the framebuffer to path.
func (fb *Framebuffer) SavePNG(path string) error {
	return savePNG(path, fb)
}

// SaveScaledPNG writes the framebuffer enlarged by scale.
func (fb *Framebuffer) SaveScaledPNG(path string, scale int) error {
	if scale <= 1 {
		return fb.SavePNG(path)
	}
	return savePNG(path, fb.Scaled(scale))
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
