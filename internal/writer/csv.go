// Package writer serializes extraction results for delivery: CSV for
// spreadsheet reconciliation workflows, JSON for downstream services.
package writer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/transmatch/transmatch/internal/models"
)

// CSVWriter writes a statement result as CSV: optional statement metadata
// rows, then one row per transaction.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the result to a CSV file at path.
func (w *CSVWriter) WriteToFile(path string, result models.ExtractionResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, result)
}

// Write streams the result as CSV to out. Failed results produce a single
// error row so batch outputs stay aligned with their inputs.
func (w *CSVWriter) Write(out io.Writer, result models.ExtractionResult) error {
	if result.Failed() {
		cw := csv.NewWriter(out)
		defer cw.Flush()
		return cw.Write([]string{"# Error", fmt.Sprintf("%d", result.Error)})
	}

	if w.IncludeHeader {
		cw := csv.NewWriter(out)
		h := result.Header
		meta := [][]string{
			{"# Bank", h.BankName},
			{"# Registration No", h.BankRegistrationNo},
			{"# Customer", h.CustomerName},
			{"# Account Number", h.AccountNumber},
			{"# Statement Date", h.StatementDate},
		}
		for _, row := range meta {
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write metadata row: %w", err)
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
	}

	txns := result.Transactions
	if txns == nil {
		txns = []models.TransactionRecord{}
	}
	if err := gocsv.Marshal(&txns, out); err != nil {
		return fmt.Errorf("write transaction rows: %w", err)
	}
	return nil
}

// JSONWriter writes the full result, header and transactions, as a single
// JSON document.
type JSONWriter struct {
	Indent bool
}

// WriteToFile writes the result to a JSON file at path.
func (w *JSONWriter) WriteToFile(path string, result models.ExtractionResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, result)
}

func (w *JSONWriter) Write(out io.Writer, result models.ExtractionResult) error {
	enc := json.NewEncoder(out)
	if w.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}
