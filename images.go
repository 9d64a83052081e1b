package main

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/commojun/adventure/assets"
	"github.com/commojun/adventure/render"
)

// imageCache turns decoded registry images into GPU images on first draw.
// It must only be used from the ebiten goroutine.
type imageCache struct {
	reg         *render.Registry
	images      map[string]*ebiten.Image
	sources     map[string]image.Image
	placeholder *ebiten.Image
}

func newImageCache(reg *render.Registry) *imageCache {
	return &imageCache{
		reg:         reg,
		images:      map[string]*ebiten.Image{},
		sources:     map[string]image.Image{},
		placeholder: ebiten.NewImageFromImage(assets.Placeholder()),
	}
}

// Get returns the image for ref, or the placeholder while it is missing. The
// placeholder is not cached so a late background load still shows up. A
// registry entry replaced by a reload is uploaded again.
func (c *imageCache) Get(ref string) *ebiten.Image {
	if ref == "" {
		return nil
	}
	src, ok := c.reg.Get(ref)
	if !ok {
		return c.placeholder
	}
	if img, ok := c.images[ref]; ok && c.sources[ref] == src {
		return img
	}
	if old, ok := c.images[ref]; ok {
		old.Deallocate()
	}
	img := ebiten.NewImageFromImage(src)
	c.images[ref] = img
	c.sources[ref] = src
	return img
}
