package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/shiftmaze/pkg/math3d"
)

// PhiEpsilon keeps the camera pitch strictly inside (-pi/2, pi/2) so the
// look direction never becomes parallel to the up vector.
const PhiEpsilon = 0.1

// ErrInvalidCamera is returned by Camera.Validate.
var ErrInvalidCamera = errors.New("render: invalid camera")

// Projection selects the camera projection.
type Projection int

const (
	Perspective Projection = iota
	Orthographic
)

// Camera is a first-person camera described by a position, a yaw angle
// Theta about +Y and a pitch angle Phi. Theta=0, Phi=0 looks down -Z.
type Camera struct {
	// Position in world space
	Position math3d.Vec3

	// Orientation in radians
	Theta float64
	Phi   float64

	// World units per second for the Move* helpers.
	MoveSpeed float64

	// Projection parameters
	Projection  Projection
	FOV         float64 // Vertical field of view in degrees
	AspectRatio float64 // Width / Height
	Near        float64
	Far         float64
	OrthoHeight float64 // Visible world height in orthographic mode

	// Cached matrices (computed on demand)
	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
	vpDirty        bool
}

// NewCamera creates a new camera with default settings.
func NewCamera() *Camera {
	return &Camera{
		Position:    math3d.V3(0, 1.6, 0),
		MoveSpeed:   5,
		FOV:         60,
		AspectRatio: 16.0 / 9.0,
		Near:        0.1,
		Far:         100,
		OrthoHeight: 20,
		viewDirty:   true,
		projDirty:   true,
		vpDirty:     true,
	}
}

// Validate reports projection parameters that cannot produce a matrix.
func (c *Camera) Validate() error {
	switch {
	case c.AspectRatio <= 0 || math.IsNaN(c.AspectRatio):
		return fmt.Errorf("aspect %v: %w", c.AspectRatio, ErrInvalidCamera)
	case c.Near <= 0:
		return fmt.Errorf("near %v: %w", c.Near, ErrInvalidCamera)
	case c.Near >= c.Far:
		return fmt.Errorf("near %v >= far %v: %w", c.Near, c.Far, ErrInvalidCamera)
	case c.Projection == Perspective && (c.FOV <= 0 || c.FOV >= 180):
		return fmt.Errorf("fov %v: %w", c.FOV, ErrInvalidCamera)
	case c.Projection == Orthographic && c.OrthoHeight <= 0:
		return fmt.Errorf("ortho height %v: %w", c.OrthoHeight, ErrInvalidCamera)
	case !c.Position.IsFinite():
		return fmt.Errorf("position %v: %w", c.Position, ErrInvalidCamera)
	}
	return nil
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.markView()
}

// SetAngles sets theta and phi directly. Phi is clamped.
func (c *Camera) SetAngles(theta, phi float64) {
	c.Theta = theta
	c.Phi = clampPhi(phi)
	c.markView()
}

// SetFOV sets the vertical field of view in degrees.
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.markProj()
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.markProj()
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.markProj()
}

// SetProjection switches between perspective and orthographic projection.
func (c *Camera) SetProjection(p Projection) {
	c.Projection = p
	c.markProj()
}

// Rotate adds to theta and phi, clamping phi away from the poles.
func (c *Camera) Rotate(dTheta, dPhi float64) {
	c.Theta += dTheta
	c.Phi = clampPhi(c.Phi + dPhi)
	c.markView()
}

func clampPhi(phi float64) float64 {
	limit := math.Pi/2 - PhiEpsilon
	return math.Max(-limit, math.Min(limit, phi))
}

// Forward returns the unit look direction.
func (c *Camera) Forward() math3d.Vec3 {
	return math3d.Heading(c.Theta).Scale(math.Cos(c.Phi)).WithY(math.Sin(c.Phi))
}

// HorizontalForward returns the look direction projected onto the ground
// plane. Walking uses this so looking up does not slow the player down.
func (c *Camera) HorizontalForward() math3d.Vec3 {
	return math3d.Heading(c.Theta)
}

// Right returns the strafe direction.
func (c *Camera) Right() math3d.Vec3 {
	return math3d.Heading(c.Theta + math.Pi/2)
}

// Up returns the camera's up direction.
func (c *Camera) Up() math3d.Vec3 {
	return c.Right().Cross(c.Forward())
}

// Target returns the point one unit in front of the camera.
func (c *Camera) Target() math3d.Vec3 {
	return c.Position.Add(c.Forward())
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = math3d.LookAt(c.Position, c.Target(), math3d.Up())
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.computeProjectionMatrix()
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.vpDirty {
		c.viewProjMatrix = c.ProjectionMatrix().Mul(c.ViewMatrix())
		c.vpDirty = false
	}
	return c.viewProjMatrix
}

func (c *Camera) computeProjectionMatrix() {
	if c.Projection == Orthographic {
		h := c.OrthoHeight / 2
		w := h * c.AspectRatio
		c.projMatrix = math3d.Orthographic(-w, w, -h, h, c.Near, c.Far)
		return
	}
	c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
}

func (c *Camera) markView() {
	c.viewDirty = true
	c.vpDirty = true
}

func (c *Camera) markProj() {
	c.projDirty = true
	c.vpDirty = true
}

// MoveForward walks along the horizontal look direction for dt seconds.
func (c *Camera) MoveForward(dt float64) {
	c.Translate(c.HorizontalForward().Scale(c.MoveSpeed * dt))
}

// MoveBackward walks against the horizontal look direction for dt seconds.
func (c *Camera) MoveBackward(dt float64) {
	c.Translate(c.HorizontalForward().Scale(-c.MoveSpeed * dt))
}

// MoveRight strafes right for dt seconds.
func (c *Camera) MoveRight(dt float64) {
	c.Translate(c.Right().Scale(c.MoveSpeed * dt))
}

// MoveLeft strafes left for dt seconds.
func (c *Camera) MoveLeft(dt float64) {
	c.Translate(c.Right().Scale(-c.MoveSpeed * dt))
}

// Translate offsets the camera position. No collision is performed.
func (c *Camera) Translate(d math3d.Vec3) {
	c.Position = c.Position.Add(d)
	c.markView()
}

// LookAt points the camera at target, deriving theta and phi.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()
	if dir.LenSq() == 0 {
		return
	}
	c.Theta = dir.Yaw()
	c.Phi = clampPhi(math.Asin(math.Max(-1, math.Min(1, dir.Y))))
	c.markView()
}

// WorldToScreen projects a world point onto a screen of the given size.
// visible is false for points outside the view volume.
func (c *Camera) WorldToScreen(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, visible bool) {
	clip := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(worldPos, 1))
	if clip.W <= 0 || !clip.InClipVolume() {
		return 0, 0, 0, false
	}
	ndc := clip.PerspectiveDivide()
	x = (ndc.X + 1) * 0.5 * float64(screenWidth)
	y = (1 - ndc.Y) * 0.5 * float64(screenHeight)
	return x, y, ndc.Z, true
}
