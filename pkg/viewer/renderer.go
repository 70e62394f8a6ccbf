package viewer

import (
	"image"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/draw"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/tessellate"
)

// RenderOptions controls how meshes are drawn beneath the overlay
type RenderOptions struct {
	Width, Height int
	Background    color.RGBA
	Surface       bool
	SurfaceColor  color.RGBA
	Wireframe     bool
	WireColor     color.RGBA
}

// Render draws the visible meshes and then the measurement overlay into a new raster.
// With a non-nil orchestrator the overlay only appears while it is running.
func Render(scene draw.Scene, cam *Camera, opts draw.Options, ro RenderOptions, fonts *tessellate.FontCache, orch *draw.Orchestrator) (*Raster, draw.FrameStats) {
	r := NewRaster(ro.Width, ro.Height, ro.Background, fonts)
	viewProj := cam.ViewProj(ro.Width, ro.Height)
	eye := cam.Position()

	// Step 1: meshes
	for _, obj := range scene.Objects() {
		if !obj.Visible() {
			continue
		}
		if ro.Surface {
			r.Surface(viewProj, eye, obj, ro.SurfaceColor)
		}
		if ro.Wireframe {
			r.Wireframe(viewProj, obj, ro.WireColor)
		}
	}

	// Step 2: overlay
	if opts.Metrics == nil && fonts != nil {
		opts.Metrics = fonts
	}
	fc := draw.FrameContext{
		Scene:    scene,
		ViewProj: viewProj,
		Viewport: r.Viewport(),
		Sink:     r,
		Options:  opts,
	}
	if orch == nil {
		return r, draw.DrawFrame(fc)
	}
	stats, _ := orch.OnRedraw(fc)
	return r, stats
}

// OverlayView is a fyne widget showing the software-rendered scene with its
// measurement overlay. Drag orbits the camera and scrolling zooms.
type OverlayView struct {
	widget.BaseWidget

	mu        sync.Mutex
	scene     draw.Scene
	camera    *Camera
	options   draw.Options
	render    RenderOptions
	fonts     *tessellate.FontCache
	orch      *draw.Orchestrator
	image     *canvas.Raster
	dragStart *fyne.Position
	onStats   func(draw.FrameStats)
}

// NewOverlayView creates the widget; the overlay orchestrator starts running
func NewOverlayView(scene draw.Scene, cam *Camera, opts draw.Options, ro RenderOptions, fonts *tessellate.FontCache) *OverlayView {
	v := &OverlayView{
		scene:   scene,
		camera:  cam,
		options: opts,
		render:  ro,
		fonts:   fonts,
		orch:    draw.NewOrchestrator(),
	}
	v.orch.Start()
	v.image = canvas.NewRaster(v.generate)
	v.ExtendBaseWidget(v)
	return v
}

// Orchestrator returns the overlay lifecycle
func (v *OverlayView) Orchestrator() *draw.Orchestrator {
	return v.orch
}

// SetScene swaps the scene and options, for reloads
func (v *OverlayView) SetScene(scene draw.Scene, opts draw.Options) {
	v.mu.Lock()
	v.scene = scene
	v.options = opts
	v.mu.Unlock()
	v.Refresh()
}

// SetOnStats sets a callback receiving the statistics of every drawn frame
func (v *OverlayView) SetOnStats(fn func(draw.FrameStats)) {
	v.mu.Lock()
	v.onStats = fn
	v.mu.Unlock()
}

// generate renders a frame at the raster's pixel size
func (v *OverlayView) generate(w, h int) image.Image {
	v.mu.Lock()
	defer v.mu.Unlock()

	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	ro := v.render
	ro.Width, ro.Height = w, h

	r, stats := Render(v.scene, v.camera, v.options, ro, v.fonts, v.orch)
	if v.onStats != nil {
		v.onStats(stats)
	}
	return r.Image()
}

// CreateRenderer creates the renderer for the widget
func (v *OverlayView) CreateRenderer() fyne.WidgetRenderer {
	return &overlayWidgetRenderer{view: v}
}

// Refresh redraws the raster
func (v *OverlayView) Refresh() {
	if v.image != nil {
		v.image.Refresh()
	}
	v.BaseWidget.Refresh()
}

// Dragged orbits the camera
func (v *OverlayView) Dragged(event *fyne.DragEvent) {
	if v.dragStart != nil {
		v.mu.Lock()
		v.camera.Rotate(float64(event.Dragged.DY)*0.01, float64(-event.Dragged.DX)*0.01)
		v.mu.Unlock()
		v.Refresh()
	}
	v.dragStart = &event.Position
}

// DragEnd ends the orbit drag
func (v *OverlayView) DragEnd() {
	v.dragStart = nil
}

// Scrolled zooms the camera
func (v *OverlayView) Scrolled(event *fyne.ScrollEvent) {
	v.mu.Lock()
	v.camera.Zoom(-float64(event.Scrolled.DY) * 0.001)
	v.mu.Unlock()
	v.Refresh()
}

// overlayWidgetRenderer implements fyne.WidgetRenderer
type overlayWidgetRenderer struct {
	view *OverlayView
}

func (o *overlayWidgetRenderer) Layout(size fyne.Size) {
	o.view.image.Resize(size)
}

func (o *overlayWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 400)
}

func (o *overlayWidgetRenderer) Refresh() {
	canvas.Refresh(o.view.image)
}

func (o *overlayWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{o.view.image}
}

func (o *overlayWidgetRenderer) Destroy() {}
