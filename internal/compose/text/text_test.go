package text

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/slidereel/slidereel/internal/platform/errors"
)

func loadTestFace(t *testing.T) *Drawer {
	t.Helper()
	path := filepath.Join(t.TempDir(), "go-regular.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o600); err != nil {
		t.Fatalf("write font: %v", err)
	}
	face, err := LoadFace(path)
	if err != nil {
		t.Fatalf("load face: %v", err)
	}
	return NewDrawer(face)
}

func TestLoadFaceMissingFile(t *testing.T) {
	_, err := LoadFace(filepath.Join(t.TempDir(), "missing.ttf"))
	if errors.CodeOf(err) != errors.CodeFontLoadFailed {
		t.Fatalf("expected font load failure, got %v", err)
	}
}

func TestLoadFaceCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.ttf")
	if err := os.WriteFile(path, []byte("not a font"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	_, err := LoadFace(path)
	if errors.CodeOf(err) != errors.CodeFontLoadFailed {
		t.Fatalf("expected font load failure, got %v", err)
	}
}

func TestDrawPaintsGlyphs(t *testing.T) {
	drawer := loadTestFace(t)
	img := image.NewRGBA(image.Rect(0, 0, 120, 60))

	drawer.Draw(img, "Hi", 4, 4, 24, color.RGBA{A: 255})

	painted := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			painted++
		}
	}
	if painted == 0 {
		t.Fatal("expected glyph pixels to be painted")
	}
}

func TestDrawWithoutFaceIsNoop(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	NewDrawer(nil).Draw(img, "ignored", 0, 0, 12, color.RGBA{A: 255})

	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			t.Fatal("expected image untouched without a face")
		}
	}
}
