package game

import (
	"fmt"

	"github.com/taigrr/shiftmaze/pkg/math3d"
	"github.com/taigrr/shiftmaze/pkg/maze"
	"github.com/taigrr/shiftmaze/pkg/models"
)

// Meshes bakes the current frame into world-space meshes: static walls,
// dynamic walls, floor, exit gate, doors, enemies and items.
func (sc *Scene) Meshes() ([]*models.Mesh, error) {
	if sc.builtFor != sc.session.Maze() {
		if err := sc.build(); err != nil {
			return nil, err
		}
	}
	mz := sc.session.Maze()

	walls := models.NewMesh("walls")
	traps := models.NewMesh("traps")
	gate := models.NewMesh("exit")
	for z := range mz.Size() {
		for x := range mz.Size() {
			switch mz.CellAt(x, z) {
			case maze.Wall:
				walls.Append(sc.wall, math3d.Translate(mz.CellCenter(maze.GridPos{X: x, Z: z})))
			case maze.Trap:
				traps.Append(sc.trap, math3d.Translate(mz.GridToWorld(x, z).WithY(0.03)))
			case maze.Exit:
				gate.Append(sc.gate, math3d.Translate(mz.GridToWorld(x, z)))
			}
		}
	}

	dynamic := models.NewMesh("dynamic")
	for _, w := range mz.Walls() {
		dynamic.Append(sc.wall, w.Behavior.Transform(mz.CellCenter(w.Cell)))
	}

	doorMesh := models.NewMesh("doors")
	for _, d := range sc.session.Doors().Doors() {
		mesh := sc.doorZ
		if d.AlongX {
			mesh = sc.doorX
		}
		doorMesh.Append(mesh, d.Transform())
	}

	enemies := models.NewMesh("enemies")
	for _, e := range sc.session.Enemies().Enemies() {
		if e.Alive {
			enemies.Append(sc.enemy, math3d.Translate(e.Position).Mul(math3d.ScaleUniform(e.Radius)))
		}
	}

	pickups := models.NewMesh("items")
	for _, it := range sc.session.Items().Items() {
		if !it.Collected {
			pickups.Append(sc.itemMesh[it.Kind], it.Transform())
		}
	}

	var out []*models.Mesh
	for _, m := range []*models.Mesh{sc.floor, walls, dynamic, traps, gate, doorMesh, enemies, pickups} {
		if m.TriangleCount() > 0 {
			out = append(out, m)
		}
	}
	return out, nil
}

// ExportScene writes the current frame to a binary glTF file.
func (sc *Scene) ExportScene(path string) error {
	meshes, err := sc.Meshes()
	if err != nil {
		return err
	}
	if err := models.ExportGLB(path, meshes...); err != nil {
		return fmt.Errorf("export scene: %w", err)
	}
	sc.session.log.Info("exported scene", "path", path, "meshes", len(meshes))
	return nil
}
