package extractor

import (
	"context"
	"fmt"
	"io"
	"math"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// TextLayerBackend reads the embedded text layer of a PDF, page by page.
// It tries several extraction methods because bank PDFs vary wildly in how
// their text objects are encoded; the first method that yields readable
// text wins. As a last resort it shells out to pdftotext (poppler-utils).
type TextLayerBackend struct {
	log *zap.Logger
}

// NewTextLayerBackend returns the direct text-layer extraction strategy.
func NewTextLayerBackend(log *zap.Logger) *TextLayerBackend {
	return &TextLayerBackend{log: log}
}

func (b *TextLayerBackend) Name() string { return BackendTextLayer }

func (b *TextLayerBackend) Extract(ctx context.Context, path string, mode PageMode) (string, error) {
	pages, err := b.extractPages(ctx, path)
	if err != nil {
		return "", err
	}
	return joinPages(pages, mode), nil
}

func (b *TextLayerBackend) extractPages(ctx context.Context, path string) ([]string, error) {
	pages, libErr := extractWithLibrary(path)
	if libErr == nil && isReadableText(pages) {
		return pages, nil
	}

	// Library failed or returned garbage; poppler handles many encodings
	// the Go library cannot decode.
	popplerPages, popplerErr := extractWithPdftotext(ctx, path)
	if popplerErr == nil && isReadableText(popplerPages) {
		b.log.Debug("text layer recovered via pdftotext", zap.String("path", path))
		return popplerPages, nil
	}

	if libErr != nil {
		return nil, fmt.Errorf("text-layer extraction failed: %w", libErr)
	}
	return nil, fmt.Errorf("no readable text layer in %s", path)
}

// textQuality returns the ratio of basic ASCII readable characters to total
// characters. A strict ASCII check is used on purpose: unicode.IsLetter
// matches the accented garbage produced by identity-encoded fonts.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				strings.ContainsRune(".,-/:;()'\"%&@#!?+=*\t", r) ||
				r == '£' || r == '$' || r == '€' {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// commonWords that appear in virtually all bank statements. If the
// extracted text contains none of these, it's likely garbage.
var commonWords = []string{
	"bank", "account", "balance", "date", "payment", "statement",
	"total", "amount", "credit", "debit", "transaction",
	"deposit", "withdrawal", "transfer", "number", "page", "baki",
	"tarikh", "akaun", "urusniaga",
}

func containsCommonWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range commonWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// isReadableText checks that pages contain enough text, that it's actually
// readable (not binary garbage), and that it contains recognizable words.
func isReadableText(pages []string) bool {
	if totalTextLen(pages) <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsCommonWords(pages)
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}

// extractWithLibrary uses the ledongthuc/pdf library with multiple methods.
func extractWithLibrary(path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf library crashed: %v", r)
		}
	}()

	f, r, openErr := pdf.Open(path)
	if openErr != nil {
		return nil, openErr
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	pages = extractByRow(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	pages = extractByContent(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	pages = extractByPagePlainText(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	plainText := extractByReaderPlainText(r)
	if isReadableText([]string{plainText}) {
		return []string{plainText}, nil
	}

	return pages, nil
}

// extractByRow uses GetTextByRow, the best method for well-structured PDFs.
func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractByContent groups text objects by Y coordinate to reconstruct rows,
// then sorts each row by X. A gap above ~15pt between items is treated as a
// column separator.
func extractByContent(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		type textItem struct {
			x float64
			s string
		}
		rowMap := make(map[int][]textItem)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			yKey := int(math.Round(t.Y))
			rowMap[yKey] = append(rowMap[yKey], textItem{x: t.X, s: t.S})
		}

		yKeys := make([]int, 0, len(rowMap))
		for y := range rowMap {
			yKeys = append(yKeys, y)
		}
		// PDF Y grows bottom-to-top.
		sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

		var lines []string
		for _, y := range yKeys {
			items := rowMap[y]
			sort.Slice(items, func(a, b int) bool {
				return items[a].x < items[b].x
			})

			var parts []string
			var prevX float64
			for j, item := range items {
				if j > 0 && item.x-prevX > 15 {
					parts = append(parts, "  ")
				}
				parts = append(parts, item.s)
				prevX = item.x
			}
			line := strings.TrimSpace(strings.Join(parts, ""))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func extractByPagePlainText(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		fontNames := page.Fonts()
		fonts := make(map[string]*pdf.Font)
		for _, name := range fontNames {
			f := page.Font(name)
			fonts[name] = &f
		}

		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text != "" {
			pages = append(pages, text)
		}
	}
	return pages
}

func extractByReaderPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// extractWithPdftotext uses the external pdftotext command (poppler-utils)
// as a fallback for PDFs with encodings the Go library cannot handle.
func extractWithPdftotext(ctx context.Context, path string) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %w", err)
	}

	numPages := pageCount(ctx, path)
	if numPages == 0 {
		numPages = 1
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		pageStr := strconv.Itoa(i)
		out, err := exec.CommandContext(ctx, "pdftotext", "-layout", "-f", pageStr, "-l", pageStr, path, "-").Output()
		if err != nil {
			continue
		}
		text := strings.TrimSpace(string(out))
		if text != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		out, err := exec.CommandContext(ctx, "pdftotext", "-layout", path, "-").Output()
		if err != nil {
			return nil, fmt.Errorf("pdftotext failed: %w", err)
		}
		text := strings.TrimSpace(string(out))
		if text == "" {
			return nil, fmt.Errorf("pdftotext produced no output")
		}
		return []string{text}, nil
	}

	return pages, nil
}

// pageCount returns the number of pages reported by pdfinfo, or 0.
func pageCount(ctx context.Context, path string) int {
	out, err := exec.CommandContext(ctx, "pdfinfo", path).Output()
	if err != nil {
		return 0
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.HasPrefix(line, "Pages:") {
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:")))
			if err == nil {
				return n
			}
		}
	}
	return 0
}
