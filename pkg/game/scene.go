package game

import (
	"fmt"
	"math"

	"github.com/taigrr/shiftmaze/pkg/bezier"
	"github.com/taigrr/shiftmaze/pkg/doors"
	"github.com/taigrr/shiftmaze/pkg/enemy"
	"github.com/taigrr/shiftmaze/pkg/items"
	"github.com/taigrr/shiftmaze/pkg/lighting"
	"github.com/taigrr/shiftmaze/pkg/math3d"
	"github.com/taigrr/shiftmaze/pkg/maze"
	"github.com/taigrr/shiftmaze/pkg/models"
	"github.com/taigrr/shiftmaze/pkg/render"
)

// SceneOptions customise how a session is drawn.
type SceneOptions struct {
	// EnemyMesh replaces the default enemy sphere. It is fitted to the
	// enemy radius.
	EnemyMesh *models.Mesh
	// FloorTexture replaces the generated noise texture.
	FloorTexture *render.Texture
	// Wireframe overlays dynamic wall bounds and motion paths.
	Wireframe bool
}

var dynamicTint = map[maze.Cell]lighting.Color{
	maze.DynamicRotate: lighting.RGB(0.7, 0.35, 0.3),
	maze.DynamicSlide:  lighting.RGB(0.3, 0.45, 0.7),
	maze.DynamicScale:  lighting.RGB(0.35, 0.65, 0.35),
}

var (
	exitColor      = lighting.RGB(0.2, 0.9, 0.4)
	trapColor      = lighting.RGB(0.8, 0.1, 0.1)
	crosshair      = render.RGB(230, 230, 230)
	wireWall       = render.RGB(255, 255, 0)
	wirePath       = render.RGB(0, 255, 255)
	wireEnemyPath  = render.RGB(255, 0, 255)
	playerLightOff = math3d.V3(0, 0.5, 0)
)

// Scene draws a session. Level geometry is rebuilt whenever the session
// moves to another level.
type Scene struct {
	session *Session
	opts    SceneOptions

	builtFor *maze.Maze
	wall     *models.Mesh
	floor    *models.Mesh
	gate     *models.Mesh
	trap     *models.Mesh
	doorX    *models.Mesh
	doorZ    *models.Mesh
	enemy    *models.Mesh
	itemMesh map[items.Kind]*models.Mesh

	floorTex *render.Texture
	wallTex  *render.Texture
	gateTex  *render.Texture
	enemyTex *render.Texture

	fb *render.Framebuffer
	r  *render.Rasterizer
}

// NewScene prepares the meshes shared by every level.
func NewScene(s *Session, opts SceneOptions) *Scene {
	sc := &Scene{
		session:  s,
		opts:     opts,
		doorX:    models.NewBox("door", math3d.V3(doors.Width, doors.Height, doors.Thickness), doors.PanelColor),
		doorZ:    models.NewBox("door", math3d.V3(doors.Thickness, doors.Height, doors.Width), doors.PanelColor),
		itemMesh: make(map[items.Kind]*models.Mesh),
		gateTex:  render.NewCheckerTexture(32, 32, 4, render.RGB(255, 255, 255), render.RGB(40, 160, 80)),
	}
	if opts.EnemyMesh != nil {
		sc.enemy = opts.EnemyMesh.Clone()
		sc.enemy.FitToRadius(1)
		if mats := sc.enemy.Materials; len(mats) > 0 && mats[0].Texture != nil {
			sc.enemyTex = render.TextureFromImage(mats[0].Texture)
		}
	} else {
		sc.enemy = models.NewSphere("enemy", 1, 12, 8, lighting.Gray(1))
	}
	for _, k := range []items.Kind{items.Coin, items.Key, items.SpeedBoost, items.Invincibility, items.TimeBonus, items.Health} {
		sc.itemMesh[k] = itemMesh(k)
	}
	return sc
}

// SetWireframe turns the debug overlay on or off.
func (sc *Scene) SetWireframe(on bool) { sc.opts.Wireframe = on }

// Wireframe reports whether the debug overlay is drawn.
func (sc *Scene) Wireframe() bool { return sc.opts.Wireframe }

// itemMesh builds a shape for each kind: a standing disc for coins, a bar
// for keys and an orb for power-ups.
func itemMesh(k items.Kind) *models.Mesh {
	p := items.PropertiesOf(k)
	switch k {
	case items.Coin:
		m := models.NewCylinder(k.String(), p.Radius, 0.05, 12, p.Color)
		m.Transform(math3d.RotateX(math.Pi / 2).Mul(math3d.Translate(math3d.V3(0, -0.025, 0))))
		return m
	case items.Key:
		return models.NewBox(k.String(), math3d.V3(p.Radius*1.6, p.Radius*0.5, p.Radius*0.3), p.Color)
	}
	return models.NewSphere(k.String(), p.Radius*0.7, 10, 6, p.Color)
}

// build rebuilds the per-level meshes for the current maze.
func (sc *Scene) build() error {
	mz := sc.session.Maze()
	lv, idx := sc.session.Level()
	cs, wh := mz.CellSize(), mz.WallHeight()
	half := float64(mz.Size()) * cs / 2

	sc.wall = models.NewBox("wall", math3d.V3(cs, wh, cs), lv.WallColor)
	sc.trap = models.NewBox("trap", math3d.V3(cs*0.8, 0.05, cs*0.8), trapColor)

	t := sc.session.cfg.Terrain
	floor, err := models.NewTerrain("floor", bezier.Terrain{
		Amplitude:  t.Amplitude,
		FreqX:      t.Frequency,
		FreqZ:      t.Frequency,
		Min:        math3d.V2(-half, -half),
		Max:        math3d.V2(half, half),
		Resolution: t.Resolution,
	}, float64(mz.Size()), lv.FloorColor)
	if err != nil {
		return fmt.Errorf("floor: %w", err)
	}
	sc.floor = floor

	gate, err := exitGate(cs, wh)
	if err != nil {
		return fmt.Errorf("exit gate: %w", err)
	}
	sc.gate = gate

	sc.floorTex = sc.opts.FloorTexture
	if sc.floorTex == nil {
		dark := lv.FloorColor.Scale(0.6).RGBA()
		light := lv.FloorColor.Scale(1.2).Clamp().RGBA()
		sc.floorTex = render.NewNoiseTexture(64, 64, 6, int64(idx)+1, dark, light)
	}
	sc.wallTex = render.NewBrickTexture(32, int64(idx)+1, render.RGB(235, 235, 235), render.RGB(120, 120, 120))
	sc.builtFor = mz
	return nil
}

// exitGate is a bulged Bézier panel spanning the exit cell, centred on the
// origin at floor level.
func exitGate(cs, wh float64) (*models.Mesh, error) {
	w := cs * 0.8
	grid := make([][]math3d.Vec3, 3)
	for j := range 3 {
		y := wh * float64(j) / 2
		grid[j] = []math3d.Vec3{
			math3d.V3(-w/2, y, 0),
			math3d.V3(0, y+0.3*float64(j), -0.4),
			math3d.V3(w/2, y, 0),
		}
	}
	s, err := bezier.NewSurface(grid)
	if err != nil {
		return nil, err
	}
	return models.NewPatch("exit", s, 8, exitColor), nil
}

// shader lights the scene from above the maze centre and from a lamp
// carried just above the player's eye.
func (sc *Scene) shader() *lighting.Shader {
	lv, _ := sc.session.Level()
	cam := sc.session.Camera()

	sun := lighting.DefaultLight()
	sun.Position = math3d.V3(0, 10, 0)
	sun.Linear, sun.Quadratic = 0.01, 0.001

	lamp := lighting.DefaultLight()
	lamp.Position = cam.Position.Add(playerLightOff)
	lamp.Ambient = lighting.Gray(0)
	lamp.Diffuse = lighting.RGB(1, 0.9, 0.7)
	lamp.Specular = lighting.Gray(0.5)
	lamp.Linear, lamp.Quadratic = 0.1, 0.05

	return &lighting.Shader{
		Lights: []lighting.Light{sun, lamp},
		Model:  lighting.Phong,
		Eye:    cam.Position,
		Fog:    lv.Fog(),
	}
}

// Render draws the session from the player's camera into fb.
func (sc *Scene) Render(fb *render.Framebuffer) error {
	if sc.builtFor != sc.session.Maze() {
		if err := sc.build(); err != nil {
			return err
		}
	}
	cam := sc.session.Camera()
	if fb.Height > 0 {
		cam.SetAspectRatio(float64(fb.Width) / float64(fb.Height))
	}
	if sc.fb != fb || sc.r == nil {
		sc.fb = fb
		sc.r = render.NewRasterizer(cam, fb)
	}
	r := sc.r
	lv, _ := sc.session.Level()
	r.BeginFrame(lv.FogColor)
	sh := sc.shader()

	r.DrawTexturedMesh(sc.floor, math3d.Identity(), lighting.MaterialFromColor(lighting.Gray(1)), sh, sc.floorTex)

	sc.drawMaze(r, sh)
	sc.drawDoors(r, sh)
	sc.drawEnemies(r, sh)
	sc.drawItems(r, sh)

	if sc.opts.Wireframe {
		sc.drawWireframe(fb)
	}
	fb.Crosshair(1, crosshair)
	return nil
}

func (sc *Scene) drawMaze(r *render.Rasterizer, sh *lighting.Shader) {
	mz := sc.session.Maze()
	lv, _ := sc.session.Level()
	wallMat := lighting.MaterialFromColor(lv.WallColor)
	trapMat := lighting.MaterialFromColor(trapColor)

	for z := range mz.Size() {
		for x := range mz.Size() {
			p := maze.GridPos{X: x, Z: z}
			switch mz.CellAt(x, z) {
			case maze.Wall:
				r.DrawTexturedMesh(sc.wall, math3d.Translate(mz.CellCenter(p)), wallMat, sh, sc.wallTex)
			case maze.Trap:
				r.DrawMesh(sc.trap, math3d.Translate(mz.GridToWorld(x, z).WithY(0.03)), trapMat, sh)
			case maze.Exit:
				sc.drawGate(r, sh, mz.GridToWorld(x, z))
			}
		}
	}

	for _, w := range mz.Walls() {
		tint := lv.WallColor.Lerp(dynamicTint[w.Kind()], 0.6)
		r.DrawMesh(sc.wall, w.Behavior.Transform(mz.CellCenter(w.Cell)), lighting.MaterialFromColor(tint), sh)
	}
}

// drawGate draws the one-sided gate patch twice, back to back.
func (sc *Scene) drawGate(r *render.Rasterizer, sh *lighting.Shader, at math3d.Vec3) {
	mat := lighting.MaterialFromColor(lighting.Gray(1))
	for _, angle := range [2]float64{0, math.Pi} {
		r.DrawTexturedMesh(sc.gate, math3d.Translate(at).Mul(math3d.RotateY(angle)), mat, sh, sc.gateTex)
	}
}

func (sc *Scene) drawDoors(r *render.Rasterizer, sh *lighting.Shader) {
	for _, d := range sc.session.Doors().Doors() {
		mesh := sc.doorZ
		if d.AlongX {
			mesh = sc.doorX
		}
		r.DrawMesh(mesh, d.Transform(), lighting.MaterialFromColor(d.Color()), sh)
	}
}

func (sc *Scene) drawEnemies(r *render.Rasterizer, sh *lighting.Shader) {
	for _, e := range sc.session.Enemies().Enemies() {
		if !e.Alive {
			continue
		}
		c := e.Color
		if e.Chasing {
			c = c.Lerp(lighting.RGB(1, 1, 0.6), 0.3)
		}
		mat := lighting.MaterialFromColor(c)
		if sc.opts.EnemyMesh != nil {
			mat = sc.enemy.PrimaryMaterial(mat)
		}
		xf := math3d.Translate(e.Position).
			Mul(math3d.RotateY(e.Spin)).
			Mul(math3d.ScaleUniform(e.Radius * e.PulseScale()))
		r.DrawTexturedMesh(sc.enemy, xf, mat, sh, sc.enemyTex)
	}
}

func (sc *Scene) drawItems(r *render.Rasterizer, sh *lighting.Shader) {
	for _, it := range sc.session.Items().Items() {
		if it.Collected {
			continue
		}
		c := it.Properties().Color.Scale(it.Glow() + 0.25).Clamp()
		r.DrawMesh(sc.itemMesh[it.Kind], it.Transform(), lighting.MaterialFromColor(c), sh)
	}
}

// drawWireframe outlines dynamic walls and traces every Bézier path.
func (sc *Scene) drawWireframe(fb *render.Framebuffer) {
	mz := sc.session.Maze()
	wf := render.NewWireframe(sc.session.Camera(), fb)
	size := math3d.V3(mz.CellSize(), mz.WallHeight(), mz.CellSize())
	for _, w := range mz.Walls() {
		wf.DrawTransformedBox(w.Behavior.Transform(mz.CellCenter(w.Cell)), size, wireWall)
		if sl, ok := w.Behavior.(*maze.Slider); ok {
			wf.DrawPolyline(sl.Path.Sample(16), wirePath)
		}
	}
	for _, e := range sc.session.Enemies().Enemies() {
		if pm, ok := e.Mode.(*enemy.PathMode); ok {
			wf.DrawPolyline(pm.Path.Sample(24), wireEnemyPath)
		}
	}
}
