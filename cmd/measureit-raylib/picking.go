package main

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/logx"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/measurement"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/geometry"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/viewer"
)

// entityPickRadius is how far in pixels a right click may land from a measurement
const entityPickRadius = 8

// pickVertex selects the vertex under the mouse
func (app *App) pickVertex() {
	mouse := rl.GetMousePosition()
	ray := app.camera.Ray(float64(mouse.X), float64(mouse.Y), rl.GetScreenWidth(), rl.GetScreenHeight())
	threshold := viewer.PickThreshold(app.sess.Scene().Bounds())

	object, idx, ok := app.sess.PickVertex(ray, threshold)
	if !ok {
		app.status = fmt.Sprintf("no vertex within %.3g", threshold)
		return
	}
	app.status = fmt.Sprintf("picked %s vertex %d", object, idx)
}

// pickEntity selects the measurement under the mouse for deletion
func (app *App) pickEntity() {
	mouse := rl.GetMousePosition()
	width, height := rl.GetScreenWidth(), rl.GetScreenHeight()
	if !app.sess.PickEntity(app.camera.ViewProj(width, height), width, height, float64(mouse.X), float64(mouse.Y), entityPickRadius) {
		app.status = "no measurement under the cursor"
	}
}

// add runs an add operation on the picks; the saved scene is reloaded by the watcher
func (app *App) add(kind string, axis geometry.Axis) {
	res, err := app.sess.Add(kind, axis)
	switch {
	case err != nil:
		app.status = err.Error()
		logx.Logger().Warn("add failed", "kind", kind, "error", err)
	case len(res.Created) == 0:
		app.status = fmt.Sprintf("%s already exists", kind)
	default:
		app.status = fmt.Sprintf("added %d %s", len(res.Created), kind)
		app.updateSums()
	}
}

func (app *App) deletePicked() {
	err := app.sess.DeletePicked()
	switch {
	case errors.Is(err, measurement.ErrNotFound):
		app.status = "measurement is already gone"
	case err != nil:
		app.status = err.Error()
		logx.Logger().Warn("delete failed", "error", err)
	default:
		app.status = "measurement deleted"
		app.updateSums()
	}
}

// drawPicks rings the picked vertices and numbers them in pick order
func (app *App) drawPicks(viewProj mgl64.Mat4, width, height int) {
	object, picks := app.sess.Picks()
	obj, ok := app.sess.Scene().Object(object)
	if !ok {
		return
	}
	highlight := rl.NewColor(255, 200, 40, 255)
	for n, idx := range picks {
		if idx < 0 || idx >= len(obj.Vertices()) {
			continue
		}
		world := geometry.TransformPoint(obj.Transform(), obj.Vertices()[idx])
		x, y, _, ok := viewer.Project(viewProj, world, width, height)
		if !ok {
			continue
		}
		center := rl.Vector2{X: float32(x), Y: float32(y)}
		rl.DrawCircleLines(int32(x), int32(y), 6, highlight)
		rl.DrawTextEx(app.font, fmt.Sprint(n+1), rl.Vector2{X: center.X + 8, Y: center.Y - 8}, 14, 0, highlight)
	}
}
