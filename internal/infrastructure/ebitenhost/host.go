package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/younwookim/stagehand/internal/application/director"
)

// Host implements ebiten.Game. Each ebiten tick runs one director
// iteration; Draw blits the canvas the iteration rendered into.
type Host struct {
	director *director.Director
	renderer *Renderer
	width    int
	height   int
	input    func()
	log      zerolog.Logger
}

// NewHost creates a host with a fixed logical screen size.
func NewHost(d *director.Director, r *Renderer, width, height int, log zerolog.Logger) *Host {
	return &Host{
		director: d,
		renderer: r,
		width:    width,
		height:   height,
		log:      log,
	}
}

// OnInput sets a function polled every tick before the loop iteration.
// It also runs while the director is paused.
func (h *Host) OnInput(fn func()) {
	h.input = fn
}

// Update runs one MainLoop iteration. It returns ebiten.Termination once
// the director ended.
// Implements ebiten.Game interface.
func (h *Host) Update() error {
	if h.director.IsEnded() {
		return ebiten.Termination
	}
	if h.input != nil {
		h.input()
	}
	if err := h.director.MainLoop(); err != nil {
		h.log.Error().Err(err).Uint64("frame", h.director.TotalFrames()).Msg("main loop failed")
		return err
	}
	if h.director.IsEnded() {
		return ebiten.Termination
	}
	return nil
}

// Draw copies the canvas to the screen.
// Implements ebiten.Game interface.
func (h *Host) Draw(screen *ebiten.Image) {
	canvas := h.renderer.Canvas()
	if canvas == nil {
		return
	}
	screen.DrawImage(canvas, nil)
}

// Layout returns the logical screen size.
// Implements ebiten.Game interface.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	return h.width, h.height
}

var _ ebiten.Game = (*Host)(nil)
