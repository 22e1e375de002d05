// Package viewer is the interactive side of the pad: an ebiten game that turns
// mouse clicks into worker requests and paints worker frames.
package viewer

import (
	"fmt"
	"image/color"
	"io"
	"log/slog"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Galaxy-Pad/internal/pad"
)

const hudLineHeight = 14

var backgroundColor = color.RGBA{R: 236, G: 236, B: 232, A: 255}

// Link is the interactive side's view of the worker.
type Link interface {
	Send(pad.Request) error
	Drain() []pad.Response
	State() pad.State
}

// Viewer implements ebiten.Game.
type Viewer struct {
	link    Link
	comp    *pad.Compositor
	palette pad.Palette
	log     *slog.Logger

	raster *ebiten.Image
	dirty  bool
	outW   int
	outH   int

	status  *StatusLog
	face    text.Face
	showHUD bool
	frame   int

	lastClick pad.Point
	hasClick  bool

	prevKeys      map[ebiten.Key]bool
	prevMouseLeft bool
}

// New creates the viewer and sends the one-time initialize request.
func New(link Link, palette pad.Palette, log *slog.Logger) *Viewer {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if len(palette) == 0 {
		palette = pad.DefaultPalette
	}
	v := &Viewer{
		link:     link,
		comp:     pad.NewCompositor(),
		palette:  palette,
		log:      log,
		outW:     pad.Width,
		outH:     pad.Height,
		status:   NewStatusLog(),
		face:     text.NewGoXFace(basicfont.Face7x13),
		showHUD:  true,
		prevKeys: make(map[ebiten.Key]bool),
	}
	if err := link.Send(pad.InitRequest{}); err != nil {
		v.report(err)
	}
	return v
}

func (v *Viewer) Update() error {
	v.frame++
	v.handleInput()
	v.applyResponses(v.link.Drain())
	return nil
}

// handleInput processes the pointer and key toggles (edge-triggered).
func (v *Viewer) handleInput() {
	// Clicks fire on release, like a DOM mouseup.
	down := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if v.prevMouseLeft && !down {
		mx, my := ebiten.CursorPosition()
		v.click(pad.Vec{X: float64(mx), Y: float64(my)})
	}
	v.prevMouseLeft = down

	currentKeys := map[ebiten.Key]bool{}

	// H: toggle HUD.
	currentKeys[ebiten.KeyH] = ebiten.IsKeyPressed(ebiten.KeyH)
	if currentKeys[ebiten.KeyH] && !v.prevKeys[ebiten.KeyH] {
		v.showHUD = !v.showHUD
	}

	// C: copy the last engine coordinate to the clipboard.
	currentKeys[ebiten.KeyC] = ebiten.IsKeyPressed(ebiten.KeyC)
	if currentKeys[ebiten.KeyC] && !v.prevKeys[ebiten.KeyC] {
		v.copyLastClick()
	}

	v.prevKeys = currentKeys
}

// click maps a window position into engine space and sends it to the worker.
func (v *Viewer) click(pos pad.Vec) {
	rendered := pad.Size{W: float64(v.outW), H: float64(v.outH)}
	p := pad.EngineCoords(pos, rendered)
	c := pad.CanvasCoords(pos, rendered)
	v.log.Debug("click",
		"element", fmt.Sprintf("(%.0f,%.0f)", pos.X, pos.Y),
		"canvas", fmt.Sprintf("(%.1f,%.1f)", c.X, c.Y),
		"engine", fmt.Sprintf("(%d,%d)", p.X, p.Y),
	)
	v.lastClick, v.hasClick = p, true
	if err := v.link.Send(pad.ClickRequest{Point: p}); err != nil {
		v.report(err)
	}
}

// applyResponses composites every frame in arrival order and records errors.
func (v *Viewer) applyResponses(rs []pad.Response) {
	for _, r := range rs {
		switch r := r.(type) {
		case pad.LayersResponse:
			cols, err := v.palette.For(len(r.Layers))
			if err != nil {
				v.report(err)
				continue
			}
			if err := v.comp.DrawLayers(r.Layers, cols); err != nil {
				v.report(err)
				continue
			}
			v.dirty = true
		case pad.ErrResponse:
			v.report(r)
		}
	}
}

func (v *Viewer) copyLastClick() {
	if !v.hasClick {
		return
	}
	s := fmt.Sprintf("%d,%d", v.lastClick.X, v.lastClick.Y)
	if err := clipboard.WriteAll(s); err != nil {
		v.report(fmt.Errorf("clipboard: %w", err))
		return
	}
	v.status.Add(v.frame, StatusInfo, "copied "+s)
}

func (v *Viewer) report(err error) {
	v.log.Warn("pad error", "error", err)
	v.status.Add(v.frame, StatusError, err.Error())
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	if v.raster == nil {
		v.raster = ebiten.NewImage(pad.Width, pad.Height)
		v.dirty = true
	}
	if v.dirty {
		v.raster.WritePixels(v.comp.Pix())
		v.dirty = false
	}

	// Stretch the raster over the window without smoothing.
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterNearest}
	op.GeoM.Scale(float64(v.outW)/pad.Width, float64(v.outH)/pad.Height)
	screen.DrawImage(v.raster, op)

	if v.showHUD {
		v.drawHUD(screen)
	}
	v.status.Draw(screen, v.face, v.outW, v.outH)
}

func (v *Viewer) drawHUD(screen *ebiten.Image) {
	lines := []string{
		fmt.Sprintf("engine: %s  frames: %d  clipped: %d  errors: %d", v.link.State(), v.comp.Frames(), v.comp.Clipped(), v.status.Errors()),
	}
	if v.hasClick {
		lines = append(lines, fmt.Sprintf("last click: (%d,%d)", v.lastClick.X, v.lastClick.Y))
	}
	lines = append(lines, "H: hud  C: copy click")

	for i, l := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(6, float64(4+i*hudLineHeight))
		op.ColorScale.ScaleWithColor(color.RGBA{R: 40, G: 40, B: 40, A: 255})
		text.Draw(screen, l, v.face, op)
	}
}

// Layout uses the window's own size; clicks are rescaled to the raster by
// pad.EngineCoords.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		v.outW, v.outH = outsideWidth, outsideHeight
	}
	return v.outW, v.outH
}
