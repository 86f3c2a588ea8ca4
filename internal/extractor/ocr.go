package extractor

import (
	"context"
	"fmt"
	"image"
	"sort"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"
)

// Tesseract page segmentation modes used by the pipeline.
const (
	PSMSingleBlock  = 6 // uniform block of text, used for header bands
	PSMSingleColumn = 4 // variable-size column, used for full statement pages
)

// OCRBackend rasterizes pages and recognizes them with Tesseract. Scanned
// statements have no text layer at all, so everything the parsers see for
// these banks comes from here.
type OCRBackend struct {
	log       *zap.Logger
	raster    *Rasterizer
	languages []string
}

func NewOCRBackend(log *zap.Logger, raster *Rasterizer, languages []string) *OCRBackend {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &OCRBackend{log: log, raster: raster, languages: languages}
}

func (b *OCRBackend) Name() string { return BackendOCR }

func (b *OCRBackend) Extract(ctx context.Context, path string, mode PageMode) (string, error) {
	last := 0
	if mode == FirstPage {
		last = 1
	}
	images, err := b.raster.RenderRange(ctx, path, 1, last)
	if err != nil {
		return "", err
	}

	pages := make([]string, 0, len(images))
	for i, img := range images {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		text, err := b.RecognizeImage(img, PSMSingleColumn)
		if err != nil {
			return "", fmt.Errorf("ocr on page %d: %w", i+1, err)
		}
		pages = append(pages, text)
	}
	return joinPages(pages, mode), nil
}

// RecognizeImage runs Tesseract over a single image after binarization.
func (b *OCRBackend) RecognizeImage(img image.Image, psm int) (string, error) {
	data, err := encodePNG(prepareForOCR(img))
	if err != nil {
		return "", fmt.Errorf("encoding page for ocr: %w", err)
	}
	return b.recognizeBytes(data, psm)
}

// RecognizeRegion crops the top fraction of the image before recognition.
// Used for statement header bands where only the masthead matters.
func (b *OCRBackend) RecognizeRegion(img image.Image, topFraction float64, psm int) (string, error) {
	return b.RecognizeImage(cropTop(img, topFraction), psm)
}

func (b *OCRBackend) recognizeBytes(png []byte, psm int) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(png); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if err := client.SetLanguage(b.languages...); err != nil {
		return "", fmt.Errorf("set languages: %w", err)
	}
	if err := client.SetVariable("tessedit_pageseg_mode", strconv.Itoa(psm)); err != nil {
		return "", fmt.Errorf("set page segmentation mode: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// RecognizeLines recognizes an image and reconstructs lines from word
// bounding boxes instead of trusting Tesseract's plain-text layout. Words
// are grouped by block, paragraph and line, then sorted left to right.
func (b *OCRBackend) RecognizeLines(img image.Image, psm int) ([]string, error) {
	data, err := encodePNG(prepareForOCR(img))
	if err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	if err := client.SetLanguage(b.languages...); err != nil {
		return nil, fmt.Errorf("set languages: %w", err)
	}
	if err := client.SetVariable("tessedit_pageseg_mode", strconv.Itoa(psm)); err != nil {
		return nil, fmt.Errorf("set page segmentation mode: %w", err)
	}

	boxes, err := client.GetBoundingBoxesVerbose()
	if err != nil {
		return nil, fmt.Errorf("bounding boxes: %w", err)
	}

	type lineKey struct{ block, par, line int }
	grouped := make(map[lineKey][]gosseract.BoundingBox)
	for _, box := range boxes {
		word := strings.TrimSpace(box.Word)
		if word == "" {
			continue
		}
		k := lineKey{box.BlockNum, box.ParNum, box.LineNum}
		grouped[k] = append(grouped[k], box)
	}

	keys := make([]lineKey, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, c := keys[i], keys[j]
		if a.block != c.block {
			return a.block < c.block
		}
		if a.par != c.par {
			return a.par < c.par
		}
		return a.line < c.line
	})

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		words := grouped[k]
		sort.Slice(words, func(i, j int) bool {
			return words[i].Box.Min.X < words[j].Box.Min.X
		})
		parts := make([]string, 0, len(words))
		for _, w := range words {
			parts = append(parts, strings.TrimSpace(w.Word))
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return lines, nil
}

// ReflowBackend is the heavyweight strategy for statements whose text layer
// exists but is visually scrambled. It discards the embedded text and
// re-reads every page through OCR with line reconstruction.
type ReflowBackend struct {
	log *zap.Logger
	ocr *OCRBackend
}

func NewReflowBackend(log *zap.Logger, ocr *OCRBackend) *ReflowBackend {
	return &ReflowBackend{log: log, ocr: ocr}
}

func (b *ReflowBackend) Name() string { return BackendReflow }

func (b *ReflowBackend) Extract(ctx context.Context, path string, mode PageMode) (string, error) {
	last := 0
	if mode == FirstPage {
		last = 1
	}
	images, err := b.ocr.raster.RenderRange(ctx, path, 1, last)
	if err != nil {
		return "", err
	}

	pages := make([]string, 0, len(images))
	for i, img := range images {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		lines, err := b.ocr.RecognizeLines(img, PSMSingleColumn)
		if err != nil {
			return "", fmt.Errorf("reflow on page %d: %w", i+1, err)
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return joinPages(pages, mode), nil
}
