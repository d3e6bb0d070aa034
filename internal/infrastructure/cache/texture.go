package cache

import "github.com/hajimehoshi/ebiten/v2"

// TextureStore caches GPU images and deallocates them on eviction.
type TextureStore = Store[*ebiten.Image]

// NewTextureStore creates an image cache with the given capacity.
func NewTextureStore(maxSize int) *TextureStore {
	return NewStore(maxSize, func(img *ebiten.Image) {
		if img != nil {
			img.Deallocate()
		}
	})
}
