package extractor

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// PageMode controls how much of the document a backend reads.
type PageMode int

const (
	// FirstPage limits extraction to the opening of the document, where
	// statement headers live.
	FirstPage PageMode = iota
	// AllPages reads the whole document.
	AllPages
)

// Backend names. Fingerprints reference backends by these names.
const (
	BackendTextLayer       = "textlayer"
	BackendOCR             = "ocr"
	BackendReflow          = "reflow"
	BackendLayoutReflex    = "layout_reflex"
	BackendLayoutHongLeong = "layout_hongleong"
)

// pageBreak separates pages in the combined text a backend returns.
const pageBreak = "\f"

// Backend is one extraction strategy. Extract returns the document text
// (pages separated by form feeds) or structured rows serialized as JSON,
// depending on the strategy.
type Backend interface {
	Name() string
	Extract(ctx context.Context, path string, mode PageMode) (string, error)
}

// Engine dispatches extraction to the backend a bank's fingerprint names,
// falling back to the plain text layer when that backend fails. Every
// supported bank's documents have at least a partially readable text layer,
// so the fallback always produces something the parser can inspect even if
// the specialised strategy crashed.
type Engine struct {
	backends map[string]Backend
	fallback Backend
	log      *zap.Logger
}

// NewEngine wires the standard backend set.
func NewEngine(log *zap.Logger, opts Options) *Engine {
	text := NewTextLayerBackend(log)
	raster := NewRasterizer(opts.PopplerPath, opts.RasterDPI)
	ocr := NewOCRBackend(log, raster, opts.OCRLanguages)

	e := &Engine{
		backends: make(map[string]Backend),
		fallback: text,
		log:      log,
	}
	for _, b := range []Backend{
		text,
		ocr,
		NewReflowBackend(log, ocr),
		NewReflexLayoutBackend(log),
		NewHongLeongLayoutBackend(log, text),
	} {
		e.backends[b.Name()] = b
	}
	return e
}

// Options carries the external-tool knobs backends need.
type Options struct {
	PopplerPath  string
	RasterDPI    int
	OCRLanguages []string
}

// Extract runs the named backend over path. On backend failure it logs and
// retries with the text-layer fallback; the error of the fallback, if any,
// is what the caller sees.
func (e *Engine) Extract(ctx context.Context, path, backend string, mode PageMode) (string, error) {
	b, ok := e.backends[backend]
	if !ok {
		return "", fmt.Errorf("unknown extraction backend %q", backend)
	}

	text, err := b.Extract(ctx, path, mode)
	if err == nil {
		return text, nil
	}
	if b == e.fallback {
		return "", err
	}

	e.log.Warn("extraction backend failed, falling back to text layer",
		zap.String("backend", backend),
		zap.String("path", path),
		zap.Error(err))

	text, fbErr := e.fallback.Extract(ctx, path, mode)
	if fbErr != nil {
		return "", fmt.Errorf("backend %s failed (%v), fallback failed: %w", backend, err, fbErr)
	}
	return text, nil
}

// joinPages combines per-page text according to mode. In FirstPage mode,
// when no page boundary survived extraction, the opening slice of the blob
// is returned instead: the first 10% of the text, but never less than 3000
// characters. Statement headers always fit in that window.
func joinPages(pages []string, mode PageMode) string {
	if mode == AllPages {
		return strings.Join(pages, "\n"+pageBreak+"\n")
	}
	if len(pages) > 1 {
		return pages[0]
	}
	if len(pages) == 0 {
		return ""
	}
	return firstPageSlice(pages[0])
}

func firstPageSlice(text string) string {
	if idx := strings.IndexByte(text, '\f'); idx >= 0 {
		return text[:idx]
	}
	n := len(text) / 10
	if n < 3000 {
		n = 3000
	}
	if n >= len(text) {
		return text
	}
	// Do not split a UTF-8 sequence.
	for n < len(text) && text[n]&0xC0 == 0x80 {
		n++
	}
	return text[:n]
}
