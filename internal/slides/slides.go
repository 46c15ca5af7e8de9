// Package slides loads slide rasters and caches them scaled to the frame.
package slides

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"github.com/slidereel/slidereel/internal/platform/errors"
)

// Decoder resolves a slide id to its raster image.
type Decoder interface {
	Decode(ctx context.Context, slideID string) (image.Image, error)
}

// DirDecoder resolves slide ids to PNG or JPEG files in a directory.
type DirDecoder struct {
	dir string
}

// NewDirDecoder creates a decoder reading <dir>/<slideID>.(png|jpg|jpeg).
func NewDirDecoder(dir string) *DirDecoder {
	return &DirDecoder{dir: dir}
}

// Decode loads and decodes the slide raster.
func (d *DirDecoder) Decode(ctx context.Context, slideID string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var lastErr error
	for _, ext := range []string{".png", ".jpg", ".jpeg"} {
		path := filepath.Join(d.dir, slideID+ext)
		f, err := os.Open(path)
		if err != nil {
			lastErr = err
			continue
		}
		img, _, err := image.Decode(f)
		_ = f.Close()
		if err != nil {
			return nil, errors.Wrap(errors.CodeSlideDecodeFailed,
				fmt.Sprintf("decode slide %s", path), err)
		}
		return img, nil
	}
	return nil, errors.Wrap(errors.CodeSlideDecodeFailed,
		fmt.Sprintf("no raster found for slide %s", slideID), lastErr)
}

// Cache memoizes decoded slides scaled to a base size. Scaling uses
// Catmull-Rom resampling once per slide; per-frame pan/zoom is applied by
// the compositor from the cached base raster.
type Cache struct {
	decoder       Decoder
	width, height int
	scaled        map[string]*image.RGBA
}

// NewCache creates a cache producing rasters of the given base size.
func NewCache(decoder Decoder, width, height int) *Cache {
	return &Cache{
		decoder: decoder,
		width:   width,
		height:  height,
		scaled:  make(map[string]*image.RGBA),
	}
}

// Slide returns the slide raster scaled to the base size, decoding it on
// first use.
func (c *Cache) Slide(ctx context.Context, slideID string) (*image.RGBA, error) {
	if cached, ok := c.scaled[slideID]; ok {
		return cached, nil
	}

	src, err := c.decoder.Decode(ctx, slideID)
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	c.scaled[slideID] = dst
	return dst, nil
}

// Release drops every cached raster.
func (c *Cache) Release() {
	c.scaled = make(map[string]*image.RGBA)
}
