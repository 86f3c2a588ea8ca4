// Package pipeline ties identification, extraction, and parsing into the
// single Process entry point: PDF in, ExtractionResult out. Failures are
// reported through the numeric error code on the result, never through a
// panic or a Go error, so a batch run can always account for every input.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/transmatch/transmatch/internal/config"
	"github.com/transmatch/transmatch/internal/extractor"
	"github.com/transmatch/transmatch/internal/identify"
	"github.com/transmatch/transmatch/internal/models"
	"github.com/transmatch/transmatch/internal/ner"
	"github.com/transmatch/transmatch/internal/parser"
)

// Pipeline converts bank statement PDFs into structured results.
type Pipeline struct {
	log        *zap.Logger
	engine     *extractor.Engine
	identifier *identify.Identifier
	names      parser.NameResolver
	metrics    *Metrics
}

// enrichedNames upgrades every resolution to the embedding path for
// deployments that opt in via config.
type enrichedNames struct {
	*ner.Resolver
}

func (e enrichedNames) Resolve(text string) string {
	return e.ResolveEnriched(text)
}

// New assembles the full pipeline from configuration. The metrics argument
// may be nil when no collector endpoint is exposed.
func New(log *zap.Logger, cfg config.Config, metrics *Metrics) *Pipeline {
	raster := extractor.NewRasterizer(cfg.PopplerPath, cfg.RasterDPI)
	ocr := extractor.NewOCRBackend(log, raster, cfg.OCRLanguages)

	resolver := ner.NewResolver(log, ner.WithModelDir(cfg.ModelDir()))
	var names parser.NameResolver = resolver
	if cfg.EnrichedNER {
		names = enrichedNames{resolver}
	}

	return &Pipeline{
		log: log,
		engine: extractor.NewEngine(log, extractor.Options{
			PopplerPath:  cfg.PopplerPath,
			RasterDPI:    cfg.RasterDPI,
			OCRLanguages: cfg.OCRLanguages,
		}),
		identifier: identify.New(log, raster, ocr),
		names:      names,
		metrics:    metrics,
	}
}

// Process runs one statement end to end. A non-zero Error on the result
// means the document was not parsed; the code explains why.
func (p *Pipeline) Process(ctx context.Context, path string) (result models.ExtractionResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("pipeline panic recovered",
				zap.String("path", path), zap.Any("panic", r))
			result = models.ExtractionResult{Error: models.ErrDispatch}
		}
		outcome := "ok"
		if result.Failed() {
			outcome = outcomeLabel(result.Error)
		}
		p.metrics.observeResult(outcome, time.Since(start).Seconds())
	}()

	bankID, backend, errCode := p.identifier.Identify(ctx, path)
	if errCode != 0 {
		return models.ExtractionResult{Error: errCode}
	}
	if !parser.Supported(bankID) {
		p.log.Warn("bank recognized but not supported",
			zap.String("path", path), zap.Int("bank_id", int(bankID)))
		return models.ExtractionResult{Error: models.ErrBankUnsupported}
	}

	tmpl, err := parser.New(bankID, p.names)
	if err != nil {
		p.log.Error("parser lookup failed",
			zap.String("path", path), zap.Int("bank_id", int(bankID)), zap.Error(err))
		return models.ExtractionResult{Error: models.ErrDispatch}
	}

	headerText, err := p.engine.Extract(ctx, path, backend, extractor.FirstPage)
	if err != nil {
		p.log.Error("header extraction failed",
			zap.String("path", path), zap.String("backend", backend), zap.Error(err))
		return models.ExtractionResult{Error: models.ErrDispatch}
	}
	header := tmpl.Header(headerText)

	bodyText, err := p.engine.Extract(ctx, path, backend, extractor.AllPages)
	if err != nil {
		p.log.Error("body extraction failed",
			zap.String("path", path), zap.String("backend", backend), zap.Error(err))
		return models.ExtractionResult{Error: models.ErrDispatch}
	}

	txns, err := tmpl.Transactions(bodyText)
	if err != nil {
		p.log.Error("transaction parsing failed",
			zap.String("path", path), zap.String("bank", tmpl.BankName()), zap.Error(err))
		return models.ExtractionResult{Error: models.ErrDispatch}
	}

	named := 0
	for _, t := range txns {
		if t.CounterpartyName != "" {
			named++
		}
	}
	p.metrics.observeTransactions(len(txns), named)

	p.log.Info("statement processed",
		zap.String("path", path),
		zap.String("bank", tmpl.BankName()),
		zap.Int("transactions", len(txns)))

	return models.ExtractionResult{Header: header, Transactions: txns}
}

func outcomeLabel(code int) string {
	switch code {
	case models.ErrBankUndefined:
		return "bank_undefined"
	case models.ErrBankUnsupported:
		return "bank_unsupported"
	default:
		return "dispatch_error"
	}
}
