package main

import (
	"fmt"
	"image/color"
	"os"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/config"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/draw"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/measurement"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/scene"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/tessellate"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/viewer"
)

type App struct {
	window fyne.Window
	cfg    *config.Config
	fonts  *tessellate.FontCache
	path   string
	scene  *scene.Scene
	view   *viewer.OverlayView

	statsLabel *widget.Label
	sumsLabel  *widget.Label
	toggle     *widget.Button
}

func main() {
	a := app.New()
	w := a.NewWindow("MeasureIt - Scene Viewer")

	fonts, err := tessellate.NewFontCache()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading font: %v\n", err)
		os.Exit(1)
	}

	appInstance := &App{
		window: w,
		cfg:    config.Default(),
		fonts:  fonts,
	}

	// Check if a scene was provided as argument
	if len(os.Args) > 1 {
		appInstance.loadFile(os.Args[1])
	} else {
		appInstance.showWelcomeScreen()
	}

	w.Resize(fyne.NewSize(1200, 800))
	w.ShowAndRun()
}

func (a *App) showWelcomeScreen() {
	welcomeLabel := widget.NewLabel("Welcome to MeasureIt")
	welcomeLabel.TextStyle = fyne.TextStyle{Bold: true}

	instructionLabel := widget.NewLabel("Click 'Open Scene' to load a scene document")

	openButton := widget.NewButton("Open Scene", func() {
		a.showFileDialog()
	})

	content := container.NewVBox(
		layout.NewSpacer(),
		container.NewCenter(welcomeLabel),
		container.NewCenter(instructionLabel),
		layout.NewSpacer(),
		container.NewCenter(openButton),
		layout.NewSpacer(),
	)

	a.window.SetContent(content)
}

func (a *App) showFileDialog() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		a.loadFile(reader.URI().Path())
	}, a.window)
}

func (a *App) loadFile(filename string) {
	s, err := scene.Load(filename)
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to load scene: %w", err), a.window)
		return
	}

	a.path = filename
	a.scene = s
	if a.view == nil {
		a.setupMainUI()
		return
	}
	a.view.SetScene(s, a.drawOptions())
}

func (a *App) drawOptions() draw.Options {
	opts := a.cfg.Options(a.fonts)
	opts.Units = a.scene.ResolveUnits(opts.Units)
	return opts
}

func (a *App) setupMainUI() {
	a.statsLabel = widget.NewLabel("")
	a.sumsLabel = widget.NewLabel("")
	a.sumsLabel.TextStyle = fyne.TextStyle{Bold: true}

	ro := viewer.RenderOptions{
		Background:   viewer.RGBA(a.cfg.Render.Background),
		Surface:      true,
		SurfaceColor: color.RGBA{R: 150, G: 150, B: 155, A: 255},
		Wireframe:    a.cfg.Render.Wireframe,
		WireColor:    viewer.RGBA(a.cfg.Render.WireColor),
	}
	cam := viewer.NewCamera(a.scene.Bounds(), a.cfg.Render.FOV)
	a.view = viewer.NewOverlayView(a.scene, cam, a.drawOptions(), ro, a.fonts)
	a.view.SetOnStats(func(stats draw.FrameStats) {
		fyne.Do(func() { a.showStats(stats) })
	})

	// Overlay lifecycle
	a.toggle = widget.NewButton("Stop Overlay", nil)
	a.toggle.OnTapped = func() {
		orch := a.view.Orchestrator()
		if orch.Running() {
			orch.Stop()
			a.toggle.SetText("Start Overlay")
		} else {
			orch.Start()
			a.toggle.SetText("Stop Overlay")
		}
		a.view.Refresh()
	}

	ghostCheck := widget.NewCheck("Ghost (show unselected objects)", func(checked bool) {
		a.cfg.Draw.Ghost = checked
		a.view.SetScene(a.scene, a.drawOptions())
	})
	ghostCheck.SetChecked(a.cfg.Draw.Ghost)

	debugCheck := widget.NewCheck("Debug vertices", func(checked bool) {
		a.cfg.Debug.Vertices = checked
		a.cfg.Debug.VertexIndices = checked
		a.view.SetScene(a.scene, a.drawOptions())
	})

	openButton := widget.NewButton("Open Scene", func() {
		a.showFileDialog()
	})
	reloadButton := widget.NewButton("Reload", func() {
		a.loadFile(a.path)
	})

	instructions := widget.NewLabel(
		"Instructions:\n" +
			"• Drag to rotate the view\n" +
			"• Scroll to zoom in/out\n" +
			"• Edit the scene with the measureit command and reload",
	)
	instructions.Wrapping = fyne.TextWrapWord

	infoPanel := container.NewVBox(
		widget.NewLabel("Frame:"),
		widget.NewSeparator(),
		a.statsLabel,
		widget.NewSeparator(),
		widget.NewLabel("Group Sums:"),
		a.sumsLabel,
		widget.NewSeparator(),
		widget.NewLabel("Display Options:"),
		ghostCheck,
		debugCheck,
		a.toggle,
		widget.NewSeparator(),
		instructions,
		widget.NewSeparator(),
		openButton,
		reloadButton,
	)

	infoScroll := container.NewVScroll(infoPanel)
	infoScroll.SetMinSize(fyne.NewSize(300, 0))

	content := container.NewBorder(nil, nil, nil, infoScroll, a.view)
	a.window.SetContent(content)
}

func (a *App) showStats(stats draw.FrameStats) {
	a.statsLabel.SetText(fmt.Sprintf(
		"Objects: %d\nMeasures: %d\nSkipped: %d\nAxis warnings: %d\nBatches: %d\nText lines: %d",
		stats.Objects, stats.Entities, stats.Skipped, stats.Warnings, stats.Batches, stats.TextLines,
	))

	if stats.Sums.Empty() {
		a.sumsLabel.SetText("-")
		return
	}
	units := a.drawOptions().Units
	meters := measurement.Units{System: units.System, Scale: 1}
	style := a.cfg.Style()
	var b strings.Builder
	for bucket, total := range stats.Sums.Buckets() {
		fmt.Fprintf(&b, "%s: %s\n", bucket, measurement.FormatDistance(total, meters, style.Precision, style.HideUnits))
	}
	fmt.Fprintf(&b, "Total: %s", measurement.FormatDistance(stats.Sums.Total, meters, style.Precision, style.HideUnits))
	a.sumsLabel.SetText(b.String())
}
