package ebitenhost

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/younwookim/stagehand/internal/application/director"
	"github.com/younwookim/stagehand/internal/application/scene"
)

// ErrNoTarget is returned when rendering before a canvas exists.
var ErrNoTarget = errors.New("no render target")

// Renderer draws scenes into an offscreen canvas that the host blits to
// the screen.
type Renderer struct {
	canvas     *ebiten.Image
	clearColor color.Color
	statsText  string
}

// NewRenderer creates a renderer with a width x height canvas. A zero size
// leaves it without a target until Resize.
func NewRenderer(width, height int, clearColor color.Color) *Renderer {
	r := &Renderer{clearColor: clearColor}
	r.Resize(width, height)
	return r
}

// Resize replaces the canvas when the size changed.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if r.canvas != nil {
		b := r.canvas.Bounds()
		if b.Dx() == width && b.Dy() == height {
			return
		}
		r.canvas.Deallocate()
	}
	r.canvas = ebiten.NewImage(width, height)
}

// Clear fills the canvas with the clear color.
func (r *Renderer) Clear() {
	r.statsText = ""
	if r.canvas != nil {
		r.canvas.Fill(r.clearColor)
	}
}

// Render draws s into the canvas.
func (r *Renderer) Render(s scene.Scene, viewProj mgl32.Mat4) error {
	if r.canvas == nil {
		return fmt.Errorf("render %s: %w", s.Name(), ErrNoTarget)
	}
	s.Draw(r.canvas, viewProj)
	return nil
}

// RenderStats prints the stats overlay in the top left corner.
func (r *Renderer) RenderStats(s director.Stats) {
	r.statsText = formatStats(s)
	if r.canvas != nil {
		ebitenutil.DebugPrintAt(r.canvas, r.statsText, 4, 4)
	}
}

// Canvas returns the render target, nil before the first Resize.
func (r *Renderer) Canvas() *ebiten.Image {
	return r.canvas
}

func formatStats(s director.Stats) string {
	text := fmt.Sprintf("FPS: %.1f\nDelta: %.1f ms\nSPF: %.4f\nFrames: %d\nScene: %s (%d)",
		s.FPS, s.Delta*1000, s.SecondsPerFrame, s.Frames, s.Scene, s.Depth)
	if s.Paused {
		text += "\nPAUSED"
	}
	return text
}

var (
	_ director.Renderer      = (*Renderer)(nil)
	_ director.StatsRenderer = (*Renderer)(nil)
)
