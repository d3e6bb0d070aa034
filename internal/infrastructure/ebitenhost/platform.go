// Package ebitenhost runs the director inside ebiten's game loop.
package ebitenhost

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Platform maps the director's animation interval to ebiten's ticks per
// second.
type Platform struct {
	setTPS func(int)
	tps    int
}

// NewPlatform creates a platform that sets ebiten's TPS.
func NewPlatform() *Platform {
	return &Platform{setTPS: ebiten.SetTPS}
}

// SetAnimationInterval sets the TPS to the rate closest to 1/seconds.
func (p *Platform) SetAnimationInterval(seconds float64) {
	p.tps = tpsFor(seconds)
	p.setTPS(p.tps)
}

// TPS returns the last rate set.
func (p *Platform) TPS() int {
	return p.tps
}

func tpsFor(seconds float64) int {
	if seconds <= 0 {
		return ebiten.DefaultTPS
	}
	tps := int(math.Round(1 / seconds))
	if tps < 1 {
		tps = 1
	}
	return tps
}
