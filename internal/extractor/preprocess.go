package extractor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

// Preprocessing constants tuned for 300 DPI statement scans.
const (
	adaptiveWindow = 31 // odd window size for local mean thresholding
	adaptiveBias   = 2  // subtracted from the local mean
	minOCRWidth    = 1200
)

// prepareForOCR converts a rendered page to a binarized grayscale image.
// Tesseract's accuracy on faint scans improves markedly with local-mean
// thresholding compared to feeding it the raw render.
func prepareForOCR(img image.Image) *image.Gray {
	g := toGray(upscaleIfSmall(img))
	return adaptiveThreshold(g, adaptiveWindow, adaptiveBias)
}

// upscaleIfSmall enlarges low-resolution renders so glyphs have enough
// pixels for recognition.
func upscaleIfSmall(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() >= minOCRWidth {
		return img
	}
	scale := float64(minOCRWidth) / float64(b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, minOCRWidth, int(float64(b.Dy())*scale)))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g.Set(x-b.Min.X, y-b.Min.Y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return g
}

// adaptiveThreshold binarizes using the mean of a window x window
// neighborhood minus bias, computed with an integral image so the cost is
// independent of window size.
func adaptiveThreshold(g *image.Gray, window, bias int) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))

	// integral[y][x] = sum of pixels in [0,y) x [0,x)
	integral := make([][]int64, h+1)
	for y := range integral {
		integral[y] = make([]int64, w+1)
	}
	for y := 0; y < h; y++ {
		var rowSum int64
		for x := 0; x < w; x++ {
			rowSum += int64(g.GrayAt(x, y).Y)
			integral[y+1][x+1] = integral[y][x+1] + rowSum
		}
	}

	half := window / 2
	for y := 0; y < h; y++ {
		y0 := max(0, y-half)
		y1 := min(h, y+half+1)
		for x := 0; x < w; x++ {
			x0 := max(0, x-half)
			x1 := min(w, x+half+1)
			area := int64((y1 - y0) * (x1 - x0))
			sum := integral[y1][x1] - integral[y0][x1] - integral[y1][x0] + integral[y0][x0]
			mean := sum / area
			if int64(g.GrayAt(x, y).Y) > mean-int64(bias) {
				out.SetGray(x, y, color.Gray{Y: 255})
			} else {
				out.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return out
}

// cropTop returns the top fraction of the image. Used when only the header
// band of a page is of interest.
func cropTop(img image.Image, fraction float64) image.Image {
	b := img.Bounds()
	height := int(float64(b.Dy()) * fraction)
	if height < 1 {
		height = 1
	}
	rect := image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+height)
	if sub, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(rect)
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	xdraw.Copy(dst, image.Point{}, img, rect, xdraw.Over, nil)
	return dst
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
