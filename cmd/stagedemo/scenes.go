package main

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"

	"github.com/younwookim/stagehand/internal/application/action"
	"github.com/younwookim/stagehand/internal/application/director"
	"github.com/younwookim/stagehand/internal/application/scene"
	"github.com/younwookim/stagehand/internal/infrastructure/cache"
	"github.com/younwookim/stagehand/internal/infrastructure/ebitenhost"
)

const (
	bannerFile = "configs/banner.txt"
	spriteSize = 24
	fadeTime   = 0.6
)

// Colors for rendering
var (
	colorBG     = color.RGBA{26, 26, 46, 255}
	colorTitle  = color.RGBA{255, 215, 0, 255}
	colorPlayer = color.RGBA{100, 200, 100, 255}
)

// assets are shared by every scene of the demo
type assets struct {
	textures *cache.TextureStore
	files    *cache.FileCache
	log      zerolog.Logger
}

// sprite returns a solid square for c, creating it on first use. The key
// stays retained until the scene exits, so PurgeCachedData keeps it.
func (a *assets) sprite(key string, c color.Color) *ebiten.Image {
	img, ok := a.textures.Get(key)
	if !ok {
		img = ebiten.NewImage(spriteSize, spriteSize)
		img.Fill(c)
		a.textures.Set(key, img)
	}
	a.textures.Retain(key)
	return img
}

// drawAt draws img with its bottom left corner at world (x, y).
func drawAt(target, img *ebiten.Image, viewProj mgl32.Mat4, x, y float64) {
	b := target.Bounds()
	world := ebitenhost.WorldToScreen(viewProj, b.Dx(), b.Dy())
	sx, sy := world.Apply(x, y)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(sx, sy-float64(img.Bounds().Dy()))
	target.DrawImage(img, op)
}

// titleScene shows the banner and a bouncing marker until Enter is pressed.
type titleScene struct {
	scene.Base
	d       *director.Director
	assets  *assets
	banner  string
	marker  *ebiten.Image
	offset  float64
	leaving bool
}

func newTitleScene(d *director.Director, a *assets) *titleScene {
	return &titleScene{Base: scene.NewBase("title"), d: d, assets: a}
}

func (s *titleScene) OnEnter() {
	s.Base.OnEnter()
	s.leaving = false

	data, err := s.assets.files.ReadFile(bannerFile)
	if err != nil {
		s.assets.log.Warn().Err(err).Msg("banner unavailable")
		data = []byte("STAGEHAND")
	}
	s.banner = string(data)
	s.marker = s.assets.sprite("title", colorTitle)

	s.d.Scheduler().ScheduleUpdate(s, 0, false)
	s.bounce()
}

func (s *titleScene) bounce() {
	s.d.ActionManager().Run(s, action.NewSequence(
		action.NewTween(0.5, func(t float64) { s.offset = t }),
		action.NewTween(0.5, func(t float64) { s.offset = 1 - t }),
		&action.Call{Fn: s.bounce},
	))
}

func (s *titleScene) OnExit() {
	s.d.Scheduler().Unschedule(s)
	s.d.ActionManager().RemoveAllFor(s)
	s.assets.textures.Release("title")
	s.Base.OnExit()
}

func (s *titleScene) Update(dt float64) error {
	if s.leaving {
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		s.leaving = true
		s.d.ReplaceScene(scene.NewTransition("fade", fadeTime, newPlayScene(s.d, s.assets, 1), s.d))
	}
	return nil
}

func (s *titleScene) Draw(target *ebiten.Image, viewProj mgl32.Mat4) {
	w, h := s.d.WinSize()
	ebitenutil.DebugPrintAt(target, s.banner, int(w)/2-60, int(h)/3)
	if s.marker != nil {
		drawAt(target, s.marker, viewProj, float64(w)/2-spriteSize/2, float64(h)/3+s.offset*40)
	}
}

// playScene moves a square across the screen. Scenes stack on Space.
type playScene struct {
	scene.Base
	d       *director.Director
	assets  *assets
	level   int
	player  *ebiten.Image
	x       float64
	leaving bool
}

func newPlayScene(d *director.Director, a *assets, level int) *playScene {
	return &playScene{Base: scene.NewBase(fmt.Sprintf("play-%d", level)), d: d, assets: a, level: level}
}

func (s *playScene) OnEnter() {
	s.Base.OnEnter()
	s.leaving = false
	s.player = s.assets.sprite("player", colorPlayer)
	s.d.Scheduler().ScheduleUpdate(s, 0, false)
	s.sweep()
}

func (s *playScene) sweep() {
	w, _ := s.d.WinSize()
	s.d.ActionManager().Run(s, action.NewSequence(
		action.NewTween(2, func(t float64) { s.x = t * float64(w-spriteSize) }),
		&action.Delay{Duration: 0.25},
		&action.Call{Fn: s.sweep},
	))
}

func (s *playScene) OnExit() {
	s.d.Scheduler().Unschedule(s)
	s.d.ActionManager().RemoveAllFor(s)
	s.assets.textures.Release("player")
	s.Base.OnExit()
}

func (s *playScene) Update(dt float64) error {
	if s.leaving {
		return nil
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		s.d.PushScene(newPlayScene(s.d, s.assets, s.level+1))
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		s.d.PopScene()
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		s.d.PopToRootScene()
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		s.leaving = true
		s.d.ReplaceScene(scene.NewTransition("fade", fadeTime, newTitleScene(s.d, s.assets), s.d))
	}
	return nil
}

func (s *playScene) Draw(target *ebiten.Image, viewProj mgl32.Mat4) {
	_, h := s.d.WinSize()
	y := float64(h)/2 - float64(s.level*(spriteSize+4))
	if s.player != nil {
		drawAt(target, s.player, viewProj, s.x, y)
	}
	text := fmt.Sprintf("Level %d\n\nSpace: push | Backspace: pop | Home: root | T: title\nP: pause | R: restart | F3: stats | F5: purge | Esc: quit", s.level)
	ebitenutil.DebugPrintAt(target, text, 10, int(h)-70)
}
