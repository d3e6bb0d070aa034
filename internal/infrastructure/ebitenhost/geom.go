package ebitenhost

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// WorldToScreen returns the GeoM that maps world points to pixels of a
// width x height target through the affine part of viewProj. Clip space
// is y-up, the target is y-down.
func WorldToScreen(viewProj mgl32.Mat4, width, height int) ebiten.GeoM {
	w := float64(width) / 2
	h := float64(height) / 2

	// mgl32 is column-major: m[col*4+row]
	a, b, tx := float64(viewProj[0]), float64(viewProj[4]), float64(viewProj[12])
	c, d, ty := float64(viewProj[1]), float64(viewProj[5]), float64(viewProj[13])

	var g ebiten.GeoM
	g.SetElement(0, 0, a*w)
	g.SetElement(0, 1, b*w)
	g.SetElement(0, 2, (tx+1)*w)
	g.SetElement(1, 0, -c*h)
	g.SetElement(1, 1, -d*h)
	g.SetElement(1, 2, (1-ty)*h)
	return g
}
