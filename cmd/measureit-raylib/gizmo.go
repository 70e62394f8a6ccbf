package main

import (
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
)

// drawAxisGizmo draws the world axes as seen by the camera in the top-right corner
func (app *App) drawAxisGizmo() {
	length := float32(40.0)
	offset := float32(20.0)
	origin := rl.Vector2{X: float32(rl.GetScreenWidth()) - length - offset - 20, Y: offset + length + 20}

	view := app.camera.View()
	type axis struct {
		label string
		dir   mgl64.Vec3
		color rl.Color
		depth float64
	}
	axes := []axis{
		{label: "X", dir: mgl64.Vec3{1, 0, 0}, color: rl.NewColor(230, 70, 70, 255)},
		{label: "Y", dir: mgl64.Vec3{0, 1, 0}, color: rl.NewColor(90, 200, 90, 255)},
		{label: "Z", dir: mgl64.Vec3{0, 0, 1}, color: rl.NewColor(80, 130, 240, 255)},
	}
	for i := range axes {
		axes[i].dir = view.Mul4x1(axes[i].dir.Vec4(0)).Vec3()
		axes[i].depth = axes[i].dir.Z()
	}

	// Back to front; camera space looks down -Z
	slices.SortFunc(axes, func(a, b axis) int {
		switch {
		case a.depth < b.depth:
			return -1
		case a.depth > b.depth:
			return 1
		}
		return 0
	})

	for _, a := range axes {
		tip := rl.Vector2{X: origin.X + float32(a.dir.X())*length, Y: origin.Y - float32(a.dir.Y())*length}
		col := a.color
		if a.depth < 0 {
			col = rl.ColorAlpha(col, 0.5)
		}
		rl.DrawLineEx(origin, tip, 2, col)
		rl.DrawTextEx(app.font, a.label, rl.Vector2{X: tip.X + 3, Y: tip.Y - 8}, 16, 0, col)
	}
}
