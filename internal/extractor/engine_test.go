package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

type fakeBackend struct {
	name string
	text string
	err  error
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Extract(ctx context.Context, path string, mode PageMode) (string, error) {
	return f.text, f.err
}

func newTestEngine(t *testing.T, backends ...*fakeBackend) *Engine {
	e := &Engine{
		backends: make(map[string]Backend),
		log:      zaptest.NewLogger(t),
	}
	for _, b := range backends {
		e.backends[b.name] = b
		if b.name == BackendTextLayer {
			e.fallback = b
		}
	}
	return e
}

func TestEngineExtract(t *testing.T) {
	primary := &fakeBackend{name: BackendOCR, text: "ocr text"}
	fallback := &fakeBackend{name: BackendTextLayer, text: "layer text"}
	e := newTestEngine(t, primary, fallback)

	got, err := e.Extract(context.Background(), "doc.pdf", BackendOCR, AllPages)
	if err != nil {
		t.Fatal(err)
	}
	if got != "ocr text" {
		t.Errorf("got %q", got)
	}
}

func TestEngineExtractUnknownBackend(t *testing.T) {
	e := newTestEngine(t, &fakeBackend{name: BackendTextLayer})
	if _, err := e.Extract(context.Background(), "doc.pdf", "nonsense", AllPages); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestEngineExtractFallsBack(t *testing.T) {
	primary := &fakeBackend{name: BackendOCR, err: errors.New("tesseract exploded")}
	fallback := &fakeBackend{name: BackendTextLayer, text: "layer text"}
	e := newTestEngine(t, primary, fallback)

	got, err := e.Extract(context.Background(), "doc.pdf", BackendOCR, AllPages)
	if err != nil {
		t.Fatal(err)
	}
	if got != "layer text" {
		t.Errorf("got %q", got)
	}
}

func TestEngineExtractFallbackAlsoFails(t *testing.T) {
	primary := &fakeBackend{name: BackendOCR, err: errors.New("primary broke")}
	fallback := &fakeBackend{name: BackendTextLayer, err: errors.New("no text layer")}
	e := newTestEngine(t, primary, fallback)

	_, err := e.Extract(context.Background(), "doc.pdf", BackendOCR, AllPages)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "no text layer") {
		t.Errorf("error should carry the fallback failure: %v", err)
	}
}

func TestEngineExtractNoDoubleFallback(t *testing.T) {
	fallback := &fakeBackend{name: BackendTextLayer, err: errors.New("no text layer")}
	e := newTestEngine(t, fallback)

	// When the requested backend is the fallback itself, its error is
	// returned directly.
	_, err := e.Extract(context.Background(), "doc.pdf", BackendTextLayer, AllPages)
	if err == nil || err.Error() != "no text layer" {
		t.Errorf("got %v", err)
	}
}

func TestJoinPages(t *testing.T) {
	pages := []string{"page one", "page two"}

	if got := joinPages(pages, AllPages); got != "page one\n\f\npage two" {
		t.Errorf("AllPages join = %q", got)
	}
	if got := joinPages(pages, FirstPage); got != "page one" {
		t.Errorf("FirstPage with boundaries = %q", got)
	}
	if got := joinPages(nil, FirstPage); got != "" {
		t.Errorf("empty input = %q", got)
	}
}

func TestFirstPageSlice(t *testing.T) {
	if got := firstPageSlice("short header text"); got != "short header text" {
		t.Errorf("short text should pass through, got %q", got)
	}

	// An embedded form feed marks the page boundary.
	if got := firstPageSlice("header\ftail"); got != "header" {
		t.Errorf("form-feed split = %q", got)
	}

	// Long single-blob text yields the opening slice, never less than
	// 3000 characters.
	long := strings.Repeat("a", 40000)
	if got := firstPageSlice(long); len(got) != 4000 {
		t.Errorf("10%% slice length = %d", len(got))
	}
	medium := strings.Repeat("b", 10000)
	if got := firstPageSlice(medium); len(got) != 3000 {
		t.Errorf("minimum slice length = %d", len(got))
	}
}
