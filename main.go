package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/transmatch/transmatch/internal/config"
	"github.com/transmatch/transmatch/internal/models"
	"github.com/transmatch/transmatch/internal/pipeline"
	"github.com/transmatch/transmatch/internal/writer"
)

const version = "1.0.0"

func main() {
	configFlag := flag.String("config", "", "Config file path (defaults to transmatch.yaml if present)")
	outputFlag := flag.String("output", "", "Output file path (defaults to input filename with the format extension)")
	formatFlag := flag.String("format", "csv", "Output format: csv or json")
	headerFlag := flag.Bool("header", true, "Include statement metadata rows in CSV output")
	metricsFlag := flag.String("metrics-addr", "", "Expose Prometheus metrics on this address, e.g. :9090")
	enrichedFlag := flag.Bool("enriched-ner", false, "Resolve counterparty names with the embedding classifier for every bank")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `TransMatch statement extractor

Converts Malaysian bank statement PDFs into structured CSV or JSON.
The bank template is recognized automatically from the page 1 header.

Usage:
  transmatch [flags] <input.pdf> [input2.pdf ...]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Convert a statement to CSV next to the input
  transmatch statement.pdf

  # JSON output with an explicit path
  transmatch --format=json --output=statement.json statement.pdf

  # Batch conversion
  transmatch jan.pdf feb.pdf mar.pdf
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("transmatch v%s\n", version)
		os.Exit(0)
	}
	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	format := strings.ToLower(*formatFlag)
	if format != "csv" && format != "json" {
		fatalf("Unknown output format %q. Supported: csv, json\n", *formatFlag)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fatalf("Config load failed: %v\n", err)
	}
	if *enrichedFlag {
		cfg.EnrichedNER = true
	}

	log, err := buildLogger(cfg.LogLevel)
	if err != nil {
		fatalf("Logger setup failed: %v\n", err)
	}
	defer log.Sync()

	var metrics *pipeline.Metrics
	if *metricsFlag != "" {
		reg := prometheus.NewRegistry()
		metrics = pipeline.NewMetrics(reg)
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			if err := http.ListenAndServe(*metricsFlag, mux); err != nil {
				log.Warn("metrics endpoint stopped", zap.Error(err))
			}
		}()
	}

	pipe := pipeline.New(log, cfg, metrics)
	ctx := context.Background()

	failures := 0
	for _, inputPath := range flag.Args() {
		if err := processFile(ctx, pipe, inputPath, *outputFlag, format, *headerFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			failures++
		}
	}
	if failures > 0 {
		os.Exit(1)
	}
}

func processFile(ctx context.Context, pipe *pipeline.Pipeline, inputPath, outputPath, format string, includeHeader bool) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}
	if ext := strings.ToLower(filepath.Ext(inputPath)); ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	fmt.Printf("Processing: %s\n", inputPath)

	result := pipe.Process(ctx, inputPath)
	if result.Failed() {
		return fmt.Errorf("extraction failed with code %d (%s)", result.Error, errorHint(result.Error))
	}

	fmt.Printf("  Bank: %s\n", result.Header.BankName)
	fmt.Printf("  Found %d transaction(s)\n", len(result.Transactions))
	if len(result.Transactions) == 0 {
		fmt.Println("  Warning: no transaction rows matched. The statement may be empty or scanned at low quality.")
	}

	outPath := outputPath
	if outPath == "" {
		base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
		outPath = base + "." + format
	}

	var err error
	switch format {
	case "json":
		w := &writer.JSONWriter{Indent: true}
		err = w.WriteToFile(outPath, result)
	default:
		w := &writer.CSVWriter{IncludeHeader: includeHeader}
		err = w.WriteToFile(outPath, result)
	}
	if err != nil {
		return fmt.Errorf("output write failed: %w", err)
	}

	fmt.Printf("  Output: %s\n", outPath)
	if result.Header.CustomerName != models.UnknownCustomer {
		fmt.Printf("  Customer: %s\n", result.Header.CustomerName)
	}
	if result.Header.AccountNumber != models.UnknownValue {
		fmt.Printf("  Account number: %s\n", result.Header.AccountNumber)
	}
	if result.Header.StatementDate != models.NotAvailable {
		fmt.Printf("  Statement date: %s\n", result.Header.StatementDate)
	}

	fmt.Println("  Done.")
	return nil
}

func buildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = lvl
	}
	return cfg.Build()
}

func errorHint(code int) string {
	switch code {
	case models.ErrBankUndefined:
		return "bank could not be identified from the page 1 header"
	case models.ErrBankUnsupported:
		return "bank recognized but this template is not supported"
	default:
		return "internal dispatch error"
	}
}
