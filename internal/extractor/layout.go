package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/transmatch/transmatch/internal/models"
)

// word is a positioned token from the text layer. Y is flipped to grow
// top-to-bottom so row ordering matches reading order.
type word struct {
	x, y, w float64
	text    string
}

// extractWords returns per-page positioned words. Adjacent text fragments
// on the same baseline are merged when the horizontal gap between them is
// below mergeGap, since many generators emit words in several fragments.
func extractWords(path string) (pages [][]word, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf library crashed: %v", r)
		}
	}()

	const mergeGap = 2.0

	f, r, openErr := pdf.Open(path)
	if openErr != nil {
		return nil, openErr
	}
	defer f.Close()

	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, nil)
			continue
		}
		box := page.V.Key("MediaBox")
		pageH := 842.0
		if box.Len() == 4 {
			pageH = box.Index(3).Float64()
		}

		content := page.Content()
		items := make([]pdf.Text, 0, len(content.Text))
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) != "" || t.S == " " {
				items = append(items, t)
			}
		}
		sort.Slice(items, func(a, b int) bool {
			if items[a].Y != items[b].Y {
				return items[a].Y > items[b].Y // PDF Y grows upward
			}
			return items[a].X < items[b].X
		})

		var words []word
		var cur *word
		var curEnd float64
		for _, t := range items {
			y := pageH - t.Y
			if cur != nil && abs(cur.y-y) < 1.0 && t.X-curEnd < mergeGap {
				cur.text += t.S
				cur.w = t.X + t.W - cur.x
				curEnd = t.X + t.W
				continue
			}
			if cur != nil {
				flushWord(&words, cur)
			}
			cur = &word{x: t.X, y: y, w: t.W, text: t.S}
			curEnd = t.X + t.W
		}
		if cur != nil {
			flushWord(&words, cur)
		}
		pages = append(pages, words)
	}
	return pages, nil
}

func flushWord(words *[]word, w *word) {
	w.text = strings.TrimSpace(w.text)
	if w.text != "" {
		*words = append(*words, *w)
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// bucketRows groups words whose Y falls within tol of the bucket anchor.
// Words are assumed sorted top-to-bottom; within a bucket they keep their
// (y, x) order.
func bucketRows(words []word, tol float64) [][]word {
	sort.SliceStable(words, func(a, b int) bool {
		if words[a].y != words[b].y {
			return words[a].y < words[b].y
		}
		return words[a].x < words[b].x
	})
	var rows [][]word
	var anchor float64
	for _, w := range words {
		if len(rows) == 0 || w.y-anchor > tol {
			rows = append(rows, []word{w})
			anchor = w.y
			continue
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], w)
	}
	return rows
}

func rowText(row []word) string {
	sort.SliceStable(row, func(a, b int) bool {
		if row[a].y != row[b].y {
			return row[a].y < row[b].y
		}
		return row[a].x < row[b].x
	})
	parts := make([]string, 0, len(row))
	for _, w := range row {
		parts = append(parts, w.text)
	}
	return strings.Join(parts, " ")
}

// reflexColumn is one named vertical band of the Reflex transaction table.
type reflexColumn struct {
	name   string
	x0, x1 float64
}

// Reflex table geometry. The template is machine generated and the bands
// are stable across statements.
var reflexColumns = []reflexColumn{
	{"date", 10, 58},
	{"branch", 59, 85},
	{"description", 86, 130},
	{"sender", 135, 185},
	{"reference1", 191, 245},
	{"reference2", 246, 305},
	{"referenceNumber", 306, 350},
	{"amountDebit", 351, 435},
	{"amountCredit", 436, 515},
	{"balance", 516, 585},
}

// Row buckets are tall because Reflex wraps description and sender cells
// over several text lines inside one logical row.
const reflexRowTolerance = 30.0

var reflexDateRe = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)

// reflexHeaderBox is a fixed page-1 region holding one header field.
type reflexHeaderBox struct {
	field          string
	x0, x1, y0, y1 float64
}

// Reflex statement header geometry. Fields without a printed region keep
// their defaults.
var reflexHeaderBoxes = []reflexHeaderBox{
	{"customerName", 10, 300, 60, 72},
	{"customerAddress", 10, 300, 73, 130},
	{"statementDate", 320, 375, 150, 160},
	{"accountNumber", 10, 200, 180, 195},
}

// ReflexLayoutBackend reconstructs the RHB Reflex transaction table from
// word coordinates. Reflex statements interleave the ten columns so badly
// in the text stream that plain extraction scrambles every row; bucketing
// by position is the only reliable read.
type ReflexLayoutBackend struct {
	log *zap.Logger
}

func NewReflexLayoutBackend(log *zap.Logger) *ReflexLayoutBackend {
	return &ReflexLayoutBackend{log: log}
}

func (b *ReflexLayoutBackend) Name() string { return BackendLayoutReflex }

// Extract returns a JSON document header in FirstPage mode (fields read
// from fixed page-1 regions) and a JSON array of models.ReflexRow otherwise.
func (b *ReflexLayoutBackend) Extract(ctx context.Context, path string, mode PageMode) (string, error) {
	pages, err := extractWords(path)
	if err != nil {
		return "", err
	}
	if len(pages) == 0 {
		return "", fmt.Errorf("no pages in %s", path)
	}

	if mode == FirstPage {
		header := models.DocumentHeader{
			BankName:           "RHB Bank Berhad",
			BankRegistrationNo: models.NotAvailable,
			BankAddress:        models.NotAvailable,
			CustomerName:       models.UnknownCustomer,
			CustomerAddress:    models.NotAvailable,
			StatementDate:      models.NotAvailable,
			AccountNumber:      models.NotAvailable,
		}
		for _, box := range reflexHeaderBoxes {
			var cell []word
			for _, w := range pages[0] {
				if w.x >= box.x0 && w.x < box.x1 && w.y >= box.y0 && w.y < box.y1 {
					cell = append(cell, w)
				}
			}
			if len(cell) == 0 {
				continue
			}
			value := rowText(cell)
			switch box.field {
			case "customerName":
				header.CustomerName = value
			case "customerAddress":
				header.CustomerAddress = value
			case "statementDate":
				header.StatementDate = value
			case "accountNumber":
				header.AccountNumber = value
			}
		}
		data, err := json.Marshal(header)
		if err != nil {
			return "", fmt.Errorf("encoding reflex header: %w", err)
		}
		return string(data), nil
	}

	var rows []models.ReflexRow
	for _, words := range pages {
		// Anchor buckets on dated rows so a wrapped description never
		// starts its own bucket.
		for _, bucket := range bucketRows(words, reflexRowTolerance) {
			row := assignReflexColumns(bucket)
			if reflexDateRe.MatchString(row.Date) {
				rows = append(rows, row)
			}
		}
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encoding reflex rows: %w", err)
	}
	return string(data), nil
}

func assignReflexColumns(bucket []word) models.ReflexRow {
	cells := make(map[string][]word, len(reflexColumns))
	for _, w := range bucket {
		for _, col := range reflexColumns {
			if w.x >= col.x0 && w.x <= col.x1 {
				cells[col.name] = append(cells[col.name], w)
				break
			}
		}
	}
	get := func(name string) string { return rowText(cells[name]) }
	return models.ReflexRow{
		Date:            firstToken(get("date")),
		Branch:          get("branch"),
		Description:     get("description"),
		Sender:          get("sender"),
		Reference1:      get("reference1"),
		Reference2:      get("reference2"),
		ReferenceNumber: get("referenceNumber"),
		AmountDebit:     get("amountDebit"),
		AmountCredit:    get("amountCredit"),
		Balance:         get("balance"),
	}
}

// firstToken trims a cell down to its first whitespace-separated token.
// The date band sometimes catches the trailing time stamp of the row.
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Hong Leong amount bands, in page points. Credit and debit cells are
// printed identically; only their horizontal position differs.
const (
	hlCreditX0  = 350.0
	hlCreditX1  = 400.0
	hlDebitX0   = 450.0
	hlDebitX1   = 500.0
	hlBalanceX0 = 501.0
)

var amountTokenRe = regexp.MustCompile(`^-?[\d,]+\.\d{2}$`)

// HongLeongLayoutBackend tags each money token in a row with the column
// its X position falls in. Header extraction does not need coordinates, so
// FirstPage mode delegates to the plain text layer.
type HongLeongLayoutBackend struct {
	log  *zap.Logger
	text *TextLayerBackend
}

func NewHongLeongLayoutBackend(log *zap.Logger, text *TextLayerBackend) *HongLeongLayoutBackend {
	return &HongLeongLayoutBackend{log: log, text: text}
}

func (b *HongLeongLayoutBackend) Name() string { return BackendLayoutHongLeong }

func (b *HongLeongLayoutBackend) Extract(ctx context.Context, path string, mode PageMode) (string, error) {
	if mode == FirstPage {
		return b.text.Extract(ctx, path, mode)
	}

	pages, err := extractWords(path)
	if err != nil {
		return "", err
	}

	var rows []models.PositionedRow
	for _, words := range pages {
		for _, bucket := range bucketRows(words, 3.0) {
			sort.SliceStable(bucket, func(a, c int) bool {
				return bucket[a].x < bucket[c].x
			})
			row := models.PositionedRow{Text: rowText(bucket)}
			for _, w := range bucket {
				if !amountTokenRe.MatchString(w.text) {
					continue
				}
				switch {
				case w.x > hlCreditX0 && w.x < hlCreditX1:
					row.Credit = w.text
				case w.x > hlDebitX0 && w.x < hlDebitX1:
					row.Debit = w.text
				case w.x >= hlBalanceX0:
					row.Balance = w.text
				}
			}
			rows = append(rows, row)
		}
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encoding positioned rows: %w", err)
	}
	return string(data), nil
}
