// Package identify determines which bank issued a statement by reading the
// masthead of page 1 with OCR. Identification is visual on purpose: the
// header band carries the bank logo and name even when the text layer is
// missing, mangled, or belongs to a different language.
package identify

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/transmatch/transmatch/internal/extractor"
	"github.com/transmatch/transmatch/internal/models"
)

// headerBand is the fraction of page 1 that is cropped before OCR. Bank
// mastheads sit inside the top tenth of every supported template.
const headerBand = 0.10

// Fingerprint maps header phrases to a bank. Phrases are matched as
// substrings of the lowercased OCR text; All lists additional phrases that
// must all be present.
type Fingerprint struct {
	Phrase  string
	All     []string
	BankID  models.BankID
	Backend string
}

// fingerprints is ordered. More specific phrases come before their generic
// prefixes ("public islamic bank" before "public bank"), and the first
// match wins, so the order is load bearing.
var fingerprints = []Fingerprint{
	{Phrase: "public islamic bank", BankID: models.BankPublicIslamic, Backend: extractor.BackendTextLayer},
	{Phrase: "public bank", BankID: models.BankPublic, Backend: extractor.BackendTextLayer},
	{Phrase: "maybank islamic berhad", BankID: models.BankMaybankIslamic, Backend: extractor.BackendTextLayer},
	{Phrase: "malayan banking berhad", BankID: models.BankMaybank, Backend: extractor.BackendTextLayer},
	{Phrase: "cimb islamic bank berhad", BankID: models.BankCIMBIslamic, Backend: extractor.BackendTextLayer},
	{Phrase: "cimb cdcks", BankID: models.BankCIMB, Backend: extractor.BackendTextLayer},
	{Phrase: "rhb islamic bank berhad", BankID: models.BankRHBIslamic, Backend: extractor.BackendTextLayer},
	{Phrase: "rbs", All: []string{"reflex"}, BankID: models.BankRHBReflex, Backend: extractor.BackendLayoutReflex},
	{Phrase: "rhb bank berhad", BankID: models.BankRHB, Backend: extractor.BackendTextLayer},
	{Phrase: "hongleong islamic bank", BankID: models.BankHongLeongIslamic, Backend: extractor.BackendLayoutHongLeong},
	{Phrase: "hongleong bank", BankID: models.BankHongLeong, Backend: extractor.BackendLayoutHongLeong},
	{Phrase: "ambank islamic berhad", BankID: models.BankAmBankIslamic, Backend: extractor.BackendTextLayer},
	{Phrase: "ambank", BankID: models.BankAmBank, Backend: extractor.BackendTextLayer},
	{Phrase: "itt uob islamic berhad", BankID: models.BankUOBIslamic, Backend: extractor.BackendTextLayer},
	{Phrase: "itt uob", BankID: models.BankUOB, Backend: extractor.BackendTextLayer},
	{Phrase: "aeon islamic berhad bank", BankID: models.BankAeonIslamic, Backend: extractor.BackendTextLayer},
	{Phrase: "aeon bank", BankID: models.BankAeon, Backend: extractor.BackendTextLayer},
	{Phrase: "affin islamic berhad bank", BankID: models.BankAffinIslamic, Backend: extractor.BackendTextLayer},
	{Phrase: "affin bank", BankID: models.BankAffin, Backend: extractor.BackendTextLayer},
	{Phrase: "bsn islamic", BankID: models.BankBSNIslamic, Backend: extractor.BackendTextLayer},
	{Phrase: "bsn", BankID: models.BankBSN, Backend: extractor.BackendTextLayer},
	{Phrase: "bank muamalat", BankID: models.BankMuamalat, Backend: extractor.BackendTextLayer},
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Identifier resolves statements to bank IDs.
type Identifier struct {
	log    *zap.Logger
	raster *extractor.Rasterizer
	ocr    *extractor.OCRBackend
}

func New(log *zap.Logger, raster *extractor.Rasterizer, ocr *extractor.OCRBackend) *Identifier {
	return &Identifier{log: log, raster: raster, ocr: ocr}
}

// Identify OCRs the header band of page 1 and walks the fingerprint list
// in order. It never returns an error: a render or OCR failure yields
// (BankUnknown, ErrBankUnsupported) and a clean scan that matches nothing
// yields (BankUnknown, ErrBankUndefined). The caller maps these straight
// onto the result error code.
func (id *Identifier) Identify(ctx context.Context, path string) (models.BankID, string, int) {
	page, err := id.raster.RenderFirstPage(ctx, path)
	if err != nil {
		id.log.Warn("could not render page 1 for identification",
			zap.String("path", path), zap.Error(err))
		return models.BankUnknown, "", models.ErrBankUnsupported
	}

	text, err := id.ocr.RecognizeRegion(page, headerBand, extractor.PSMSingleBlock)
	if err != nil {
		id.log.Warn("header band ocr failed",
			zap.String("path", path), zap.Error(err))
		return models.BankUnknown, "", models.ErrBankUnsupported
	}

	header := normalizeHeader(text)
	for _, fp := range fingerprints {
		if !strings.Contains(header, fp.Phrase) {
			continue
		}
		if !containsAll(header, fp.All) {
			continue
		}
		id.log.Info("bank identified",
			zap.String("path", path),
			zap.Int("bank_id", int(fp.BankID)),
			zap.String("backend", fp.Backend))
		return fp.BankID, fp.Backend, 0
	}

	id.log.Info("no fingerprint matched", zap.String("path", path),
		zap.String("header", header))
	return models.BankUnknown, "", models.ErrBankUndefined
}

// Match runs only the fingerprint walk over already-recognized header
// text. Split out so the ordering property is testable without Tesseract.
func Match(headerText string) (models.BankID, string, bool) {
	header := normalizeHeader(headerText)
	for _, fp := range fingerprints {
		if strings.Contains(header, fp.Phrase) && containsAll(header, fp.All) {
			return fp.BankID, fp.Backend, true
		}
	}
	return models.BankUnknown, "", false
}

func normalizeHeader(text string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(text), " ")
}

func containsAll(header string, phrases []string) bool {
	for _, p := range phrases {
		if !strings.Contains(header, p) {
			return false
		}
	}
	return true
}
