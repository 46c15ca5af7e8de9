// Package text shapes and draws annotation text onto frame images.
package text

import (
	"bytes"
	"fmt"
	"image/color"
	"image/draw"
	"os"
	"strings"

	"github.com/go-text/render"
	"github.com/go-text/typesetting/font"

	"github.com/slidereel/slidereel/internal/platform/errors"
)

// lineSpacing is the baseline-to-baseline distance in font sizes.
const lineSpacing = 1.2

// LoadFace parses a TTF/OTF font file.
func LoadFace(path string) (*font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.CodeFontLoadFailed,
			fmt.Sprintf("read font %s", path), err)
	}
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.CodeFontLoadFailed,
			fmt.Sprintf("parse font %s", path), err)
	}
	return face, nil
}

// Drawer renders text runs with one loaded face.
type Drawer struct {
	face *font.Face
}

// NewDrawer creates a drawer for the face. A nil face yields a drawer that
// silently skips text, for runs without fonts configured.
func NewDrawer(face *font.Face) *Drawer {
	return &Drawer{face: face}
}

// Draw paints content onto img with its top-left corner at (x, y). Newlines
// start fresh lines spaced at 1.2 font sizes.
func (d *Drawer) Draw(img draw.Image, content string, x, y, size float64, col color.Color) {
	if d == nil || d.face == nil || content == "" {
		return
	}

	r := render.Renderer{
		FontSize: float32(size),
		PixScale: 1,
		Color:    col,
	}

	baseline := y + size
	for _, line := range strings.Split(content, "\n") {
		if line != "" {
			r.DrawStringAt(line, img, int(x+0.5), int(baseline+0.5), d.face)
		}
		baseline += size * lineSpacing
	}
}
