package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/config"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/draw"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/logx"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/measurement"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/session"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/tessellate"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/geometry"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/viewer"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/watcher"
	"golang.org/x/image/font/gofont/goregular"
)

// fontBaseSize is the atlas size; text is scaled down from it
const fontBaseSize = 64

// App holds the viewer state
type App struct {
	cfg    *config.Config
	sess   *session.Session
	meshes []objectMesh

	camera  *viewer.Camera
	home    viewer.Camera
	options draw.Options
	orch    *draw.Orchestrator
	fonts   *tessellate.FontCache
	font    rl.Font

	showWireframe bool
	needsReload   atomic.Bool
	stats         draw.FrameStats
	sums          measurement.GroupSums

	dragged bool   // The left button moved since it went down
	status  string // Result of the last edit
}

// Run opens the window and blocks until it is closed
func Run(path, configPath string, cfg *config.Config) error {
	logx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	fonts, err := tessellate.NewFontCache()
	if err != nil {
		return err
	}
	app := &App{
		cfg:           cfg,
		fonts:         fonts,
		orch:          draw.NewOrchestrator(),
		showWireframe: cfg.Render.Wireframe,
	}

	// Step 1: reload on change, applied on the main thread
	w, err := watcher.New(300*time.Millisecond, func([]string) { app.needsReload.Store(true) })
	if err != nil {
		return err
	}
	if configPath != "" {
		if err := w.Add(configPath); err != nil {
			return err
		}
	}
	app.sess, err = session.New(path, w.Add)
	if err != nil {
		return err
	}
	app.options = app.drawOptions()
	app.camera = viewer.NewCamera(app.sess.Scene().Bounds(), cfg.Render.FOV)
	app.home = *app.camera
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := w.Run(ctx); err != nil {
			logx.Logger().Warn("watcher stopped", "error", err)
		}
	}()

	// Step 2: window
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Render.Width), int32(cfg.Render.Height), "MeasureIt - "+path)
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	app.font = rl.LoadFontFromMemory(".ttf", goregular.TTF, fontBaseSize, fontRunes())
	defer rl.UnloadFont(app.font)
	rl.SetTextureFilter(app.font.Texture, rl.FilterBilinear)

	app.upload()
	defer app.unload()
	app.orch.Start()

	material := rl.LoadMaterialDefault()
	for !rl.WindowShouldClose() {
		if app.needsReload.CompareAndSwap(true, false) {
			app.reload(configPath)
		}
		app.handleInput()

		width, height := rl.GetScreenWidth(), rl.GetScreenHeight()
		viewProj := app.camera.ViewProj(width, height)

		rl.BeginDrawing()
		rl.ClearBackground(toColor(app.cfg.Render.Background))

		rl.BeginMode3D(app.rlCamera())
		for i, obj := range app.sess.Scene().All() {
			if !obj.Visible() || app.meshes[i].empty {
				continue
			}
			rl.DrawMesh(app.meshes[i].mesh, material, rl.MatrixIdentity())
			if app.showWireframe {
				wire := toColor(app.cfg.Render.WireColor)
				for _, e := range app.meshes[i].edges {
					rl.DrawLine3D(e[0], e[1], wire)
				}
			}
		}
		rl.EndMode3D()

		// Overlay in screen space after the 3D pass
		sink := &screenSink{width: float32(width), height: float32(height), font: app.font}
		fc := draw.FrameContext{
			Scene:    app.sess.Scene(),
			ViewProj: viewProj,
			Viewport: tessellate.Viewport{Width: float32(width), Height: float32(height)},
			Sink:     sink,
			Options:  app.options,
		}
		if stats, drawn := app.orch.OnRedraw(fc); drawn {
			app.stats = stats
		}

		app.drawPicks(viewProj, width, height)
		app.drawAxisGizmo()
		app.drawUI()
		rl.EndDrawing()
	}

	app.orch.Stop()
	return nil
}

func (app *App) drawOptions() draw.Options {
	opts := app.cfg.Options(app.fonts)
	opts.Units = app.sess.Scene().ResolveUnits(opts.Units)
	return opts
}

// rlCamera mirrors the orbit camera for the 3D pass
func (app *App) rlCamera() rl.Camera3D {
	return rl.Camera3D{
		Position:   toRL(app.camera.Position()),
		Target:     toRL(app.camera.Target),
		Up:         rl.Vector3{X: 0, Y: 0, Z: 1},
		Fovy:       float32(mgl64.RadToDeg(app.camera.FOV)),
		Projection: rl.CameraPerspective,
	}
}

func (app *App) upload() {
	objects := app.sess.Scene().All()
	app.meshes = make([]objectMesh, 0, len(objects))
	for _, obj := range objects {
		app.meshes = append(app.meshes, uploadObject(obj))
	}
	app.updateSums()
}

func (app *App) updateSums() {
	s := app.sess.Scene()
	app.sums = measurement.GroupSums{}
	for _, obj := range s.All() {
		app.sums.Merge(draw.Sums(obj, s, app.options.Units))
	}
}

func (app *App) unload() {
	for i := range app.meshes {
		app.meshes[i].unload()
	}
	app.meshes = nil
}

// reload swaps in the changed scene, keeping the camera
func (app *App) reload(configPath string) {
	start := time.Now()
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			logx.Logger().Warn("config reload failed", "error", err)
			return
		}
		app.cfg = cfg
	}
	if err := app.sess.Reload(); err != nil {
		logx.Logger().Warn("scene reload failed", "error", err)
		return
	}

	app.unload()
	app.options = app.drawOptions()
	app.upload()
	logx.Logger().Info("scene reloaded", "objects", len(app.sess.Scene().All()), "elapsed", time.Since(start))
}

func (app *App) handleInput() {
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		app.dragged = false
	}
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			app.dragged = true
			app.camera.Rotate(float64(delta.Y)*0.01, -float64(delta.X)*0.01)
		}
	}
	// A click without drag picks a vertex, a right click picks a measurement
	if rl.IsMouseButtonReleased(rl.MouseLeftButton) && !app.dragged {
		app.pickVertex()
	}
	if rl.IsMouseButtonPressed(rl.MouseRightButton) {
		app.pickEntity()
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		app.camera.Zoom(-float64(wheel) * 0.1)
	}

	switch {
	case rl.IsKeyPressed(rl.KeyM):
		if app.orch.Running() {
			app.orch.Stop()
		} else {
			app.orch.Start()
		}
	case rl.IsKeyPressed(rl.KeyG):
		app.options.Ghost = !app.options.Ghost
	case rl.IsKeyPressed(rl.KeyD):
		app.options.Debug.Vertices = !app.options.Debug.Vertices
		app.options.Debug.VertexIndices = app.options.Debug.Vertices
	case rl.IsKeyPressed(rl.KeyW):
		app.showWireframe = !app.showWireframe
	case rl.IsKeyPressed(rl.KeyHome):
		*app.camera = app.home
	case rl.IsKeyPressed(rl.KeyS):
		app.add("segment", geometry.AxisX)
	case rl.IsKeyPressed(rl.KeyA):
		app.add("angle", geometry.AxisX)
	case rl.IsKeyPressed(rl.KeyC):
		app.add("arc", geometry.AxisX)
	case rl.IsKeyPressed(rl.KeyX):
		app.add("projected", geometry.AxisX)
	case rl.IsKeyPressed(rl.KeyY):
		app.add("projected", geometry.AxisY)
	case rl.IsKeyPressed(rl.KeyZ):
		app.add("projected", geometry.AxisZ)
	case rl.IsKeyPressed(rl.KeyDelete):
		app.deletePicked()
	case rl.IsKeyPressed(rl.KeyBackspace):
		app.sess.ClearPicks()
		app.status = "picks cleared"
	}
}

func (app *App) drawUI() {
	text := rl.NewColor(220, 220, 220, 255)
	lines := []string{
		fmt.Sprintf("Objects: %d  Measures: %d  Skipped: %d", app.stats.Objects, app.stats.Entities, app.stats.Skipped),
		fmt.Sprintf("Overlay: %s  Ghost: %t", onOff(app.orch.Running()), app.options.Ghost),
	}
	if object, picks := app.sess.Picks(); object != "" {
		lines = append(lines, fmt.Sprintf("Picked %s: %v", object, picks))
	}
	if pick, ok := app.sess.PickedEntity(); ok {
		lines = append(lines, fmt.Sprintf("Measure %s %s (Delete removes it)", pick.Object, pick.ID))
	}
	if app.status != "" {
		lines = append(lines, app.status)
	}
	style := app.options.Defaults
	meters := measurement.Units{System: app.options.Units.System, Scale: 1}
	for b, total := range app.sums.Buckets() {
		lines = append(lines, fmt.Sprintf("Group %s: %s", b, measurement.FormatDistance(total, meters, style.Precision, style.HideUnits)))
	}
	for i, line := range lines {
		rl.DrawTextEx(app.font, line, rl.Vector2{X: 10, Y: float32(10 + i*20)}, 16, 0, text)
	}
}

// fontRunes is printable ASCII plus the unit symbols labels use
func fontRunes() []rune {
	runes := make([]rune, 0, 100)
	for r := rune(32); r < 127; r++ {
		runes = append(runes, r)
	}
	return append(runes, '°', '²')
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
