package extractor

import (
	"image"
	"image/color"
	"testing"
)

// flatGray returns a w x h gray image filled with v.
func flatGray(w, h int, v uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return g
}

func TestAdaptiveThreshold(t *testing.T) {
	// Dark glyph pixels on a light background binarize to black on white.
	g := flatGray(64, 64, 200)
	for x := 20; x < 30; x++ {
		g.SetGray(x, 32, color.Gray{Y: 10})
	}

	out := adaptiveThreshold(g, adaptiveWindow, adaptiveBias)
	if v := out.GrayAt(25, 32).Y; v != 0 {
		t.Errorf("glyph pixel = %d, want 0", v)
	}
	if v := out.GrayAt(5, 5).Y; v != 255 {
		t.Errorf("background pixel = %d, want 255", v)
	}
}

func TestToGray(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			rgba.Set(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	g := toGray(rgba)
	if g.Bounds().Dx() != 4 || g.Bounds().Dy() != 4 {
		t.Fatalf("bounds = %v", g.Bounds())
	}
	if v := g.GrayAt(1, 1).Y; v != 255 {
		t.Errorf("white converts to %d", v)
	}

	// Gray input passes through untouched.
	orig := flatGray(4, 4, 128)
	if toGray(orig) != orig {
		t.Error("gray input should be returned as is")
	}
}

func TestUpscaleIfSmall(t *testing.T) {
	small := flatGray(600, 300, 128)
	up := upscaleIfSmall(small)
	if up.Bounds().Dx() != minOCRWidth {
		t.Errorf("width = %d, want %d", up.Bounds().Dx(), minOCRWidth)
	}
	if up.Bounds().Dy() != 600 {
		t.Errorf("height = %d, want 600 (aspect preserved)", up.Bounds().Dy())
	}

	big := flatGray(2000, 1000, 128)
	if upscaleIfSmall(big) != big {
		t.Error("large input should be returned as is")
	}
}

func TestCropTop(t *testing.T) {
	img := flatGray(100, 200, 128)
	top := cropTop(img, 0.10)
	if top.Bounds().Dy() != 20 {
		t.Errorf("cropped height = %d, want 20", top.Bounds().Dy())
	}
	if top.Bounds().Dx() != 100 {
		t.Errorf("cropped width = %d", top.Bounds().Dx())
	}
}

func TestEncodePNG(t *testing.T) {
	data, err := encodePNG(flatGray(8, 8, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Errorf("not a PNG, first bytes %v", data[:8])
	}
}
