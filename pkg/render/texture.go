package render

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"

	"github.com/aquilax/go-perlin"
	"golang.org/x/image/draw"
)

// WrapMode determines how texture coordinates outside [0,1] are handled.
type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapClamp
)

// FilterMode determines how texels are combined when sampling.
type FilterMode int

const (
	FilterNearest FilterMode = iota
	FilterBilinear
)

// Texture is an RGBA image sampled by UV. V runs bottom to top, so row 0 of
// Pixels is the top of the image at v=1.
type Texture struct {
	Width, Height int
	Pixels        []Color
	Wrap          WrapMode
	Filter        FilterMode
}

// NewTexture returns a transparent black texture.
func NewTexture(width, height int) *Texture {
	width, height = max(width, 1), max(height, 1)
	return &Texture{Width: width, Height: height, Pixels: make([]Color, width*height)}
}

// LoadTexture decodes a PNG or JPEG file.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage copies any image into a texture, converting it to RGBA.
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	tex := NewTexture(b.Dx(), b.Dy())
	for i := range b.Dx() * b.Dy() {
		p := rgba.Pix[i*4 : i*4+4 : i*4+4]
		tex.Pixels[i] = Color{R: p[0], G: p[1], B: p[2], A: p[3]}
	}
	return tex
}

// fill sets every texel from f.
func (t *Texture) fill(f func(x, y int) Color) *Texture {
	for y := range t.Height {
		for x := range t.Width {
			t.Pixels[y*t.Width+x] = f(x, y)
		}
	}
	return t
}

// NewCheckerTexture alternates c1 and c2 in squares of check texels.
func NewCheckerTexture(width, height, check int, c1, c2 Color) *Texture {
	check = max(check, 1)
	return NewTexture(width, height).fill(func(x, y int) Color {
		if (x/check+y/check)%2 == 0 {
			return c1
		}
		return c2
	})
}

// NewNoiseTexture shades between dark and light with Perlin noise. scale is
// the number of noise periods across the texture; the same seed always
// gives the same texture.
func NewNoiseTexture(width, height int, scale float64, seed int64, dark, light Color) *Texture {
	p := perlin.NewPerlin(2, 2, 3, seed)
	t := NewTexture(width, height)
	return t.fill(func(x, y int) Color {
		n := p.Noise2D(float64(x)/float64(t.Width)*scale, float64(y)/float64(t.Height)*scale)
		return lerpColor(dark, light, clamp01(n*0.5+0.5))
	})
}

// NewBrickTexture lays rows of bricks in a running bond, two rows and two
// bricks per row per tile, with mortar lines one texel wide. Each brick is
// tinted by noise so the wall does not look printed.
func NewBrickTexture(size int, seed int64, brick, mortar Color) *Texture {
	size = max(size, 8)
	p := perlin.NewPerlin(2, 3, 2, seed)
	rowH, brickW := size/2, size/2
	return NewTexture(size, size).fill(func(x, y int) Color {
		row := y / rowH
		bx := x
		if row%2 == 1 {
			bx += brickW / 2
		}
		if y%rowH == 0 || bx%brickW == 0 {
			return mortar
		}
		n := p.Noise2D(float64(bx/brickW)+0.5, float64(row)+0.5)
		shade := 0.85 + 0.3*clamp01(n*0.5+0.5)
		return scaleColor(brick, shade)
	})
}

// SetPixel writes the texel at (x, y); out of range writes are dropped.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x >= 0 && x < t.Width && y >= 0 && y < t.Height {
		t.Pixels[y*t.Width+x] = c
	}
}

// GetPixel reads the texel at (x, y) after applying the wrap mode.
func (t *Texture) GetPixel(x, y int) Color {
	return t.Pixels[wrap(y, t.Height, t.Wrap)*t.Width+wrap(x, t.Width, t.Wrap)]
}

// Sample returns the colour at (u, v).
func (t *Texture) Sample(u, v float64) Color {
	fx := u * float64(t.Width)
	fy := (1 - v) * float64(t.Height)
	if t.Filter == FilterNearest {
		if t.Wrap == WrapClamp {
			fx = math.Max(0, math.Min(fx, float64(t.Width)-1))
			fy = math.Max(0, math.Min(fy, float64(t.Height)-1))
		}
		return t.GetPixel(int(math.Floor(fx)), int(math.Floor(fy)))
	}

	fx, fy = fx-0.5, fy-0.5
	x0, y0 := math.Floor(fx), math.Floor(fy)
	tx, ty := fx-x0, fy-y0
	ix, iy := int(x0), int(y0)
	top := lerpColor(t.GetPixel(ix, iy), t.GetPixel(ix+1, iy), tx)
	bot := lerpColor(t.GetPixel(ix, iy+1), t.GetPixel(ix+1, iy+1), tx)
	return lerpColor(top, bot, ty)
}

// wrap maps texel index i into [0, n).
func wrap(i, n int, mode WrapMode) int {
	if mode == WrapClamp {
		return max(0, min(i, n-1))
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func lerpColor(a, b Color, t float64) Color {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

func scaleColor(c Color, s float64) Color {
	ch := func(v uint8) uint8 { return uint8(math.Min(255, math.Round(float64(v)*s))) }
	return Color{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: c.A}
}
