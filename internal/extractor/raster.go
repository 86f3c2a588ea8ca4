package extractor

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
)

// Rasterizer renders PDF pages to images with pdftoppm (poppler-utils).
type Rasterizer struct {
	popplerPath string
	dpi         int
}

// NewRasterizer returns a rasterizer. popplerPath may be empty, in which
// case the tools are resolved from PATH. dpi falls back to 300 when zero.
func NewRasterizer(popplerPath string, dpi int) *Rasterizer {
	if dpi <= 0 {
		dpi = 300
	}
	return &Rasterizer{popplerPath: popplerPath, dpi: dpi}
}

func (r *Rasterizer) tool(name string) string {
	if r.popplerPath == "" {
		return name
	}
	return filepath.Join(r.popplerPath, name)
}

// PageCount returns the number of pages in the document.
func (r *Rasterizer) PageCount(ctx context.Context, path string) (int, error) {
	n := pageCount(ctx, path)
	if n == 0 {
		return 0, fmt.Errorf("pdfinfo could not read %s", path)
	}
	return n, nil
}

// RenderRange rasterizes pages first..last (1-based, inclusive) and returns
// the decoded images in page order. last <= 0 means through end of document.
func (r *Rasterizer) RenderRange(ctx context.Context, path string, first, last int) ([]image.Image, error) {
	tmpDir, err := os.MkdirTemp("", "rasterpages")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	args := []string{
		"-png",
		"-r", fmt.Sprintf("%d", r.dpi),
		"-f", fmt.Sprintf("%d", first),
	}
	if last > 0 {
		args = append(args, "-l", fmt.Sprintf("%d", last))
	}
	args = append(args, path, filepath.Join(tmpDir, "page"))

	cmd := exec.CommandContext(ctx, r.tool("pdftoppm"), args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w (%s)", err, string(out))
	}

	files, err := filepath.Glob(filepath.Join(tmpDir, "page*.png"))
	if err != nil || len(files) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no pages for %s", path)
	}
	sort.Strings(files)

	images := make([]image.Image, 0, len(files))
	for _, f := range files {
		img, err := decodePNG(f)
		if err != nil {
			return nil, fmt.Errorf("decoding rendered page %s: %w", f, err)
		}
		images = append(images, img)
	}
	return images, nil
}

// RenderFirstPage rasterizes only page 1.
func (r *Rasterizer) RenderFirstPage(ctx context.Context, path string) (image.Image, error) {
	images, err := r.RenderRange(ctx, path, 1, 1)
	if err != nil {
		return nil, err
	}
	return images[0], nil
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}
