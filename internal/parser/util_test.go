package parser

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1,234.56", "1234.56"},
		{"27,764.33-", "-27764.33"},
		{"-1,200.00", "-1200"},
		{"+500.00", "500"},
		{"0.01", "0.01"},
	}
	for _, tt := range tests {
		got, err := parseAmount(tt.input)
		if err != nil {
			t.Fatalf("parseAmount(%q): %v", tt.input, err)
		}
		if got.String() != tt.want {
			t.Errorf("parseAmount(%q): got %s, want %s", tt.input, got, tt.want)
		}
	}

	if _, err := parseAmount("not a number"); err == nil {
		t.Error("expected error for junk input")
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		raw  string
		year int
		want string
	}{
		{"03/06/24", 0, "03/06/24"},   // already normalized
		{"03/06/2024", 0, "03/06/24"}, // full year collapses
		{"14-02-2025", 0, "14/02/25"},
		{"03/06", 2024, "03/06/24"}, // year completion
		{"03/06", 0, "03/06"},       // no year known
		{"18 Mar 2025", 0, "18/03/25"},
		{"30 JUNE 2025", 0, "30/06/25"},
		{"5 Jun", 2024, "05/06/24"}, // named date without year
	}
	for _, tt := range tests {
		if got := normalizeDate(tt.raw, tt.year); got != tt.want {
			t.Errorf("normalizeDate(%q, %d): got %q, want %q", tt.raw, tt.year, got, tt.want)
		}
	}
}

func TestNormalizeDateIdempotent(t *testing.T) {
	inputs := []string{"03/06/2024", "14-02-2025", "18 Mar 2025"}
	for _, raw := range inputs {
		once := normalizeDate(raw, 0)
		twice := normalizeDate(once, 0)
		if once != twice {
			t.Errorf("normalizeDate not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestClassifyByBalance(t *testing.T) {
	amt := decimal.RequireFromString("100.00")

	credit, debit := classifyByBalance(amt,
		decimal.RequireFromString("1100.00"), decimal.RequireFromString("1000.00"))
	if !credit.Equal(amt) || !debit.IsZero() {
		t.Errorf("rising balance: got credit=%s debit=%s", credit, debit)
	}

	credit, debit = classifyByBalance(amt,
		decimal.RequireFromString("900.00"), decimal.RequireFromString("1000.00"))
	if !debit.Equal(amt) || !credit.IsZero() {
		t.Errorf("falling balance: got credit=%s debit=%s", credit, debit)
	}

	// Unchanged balance counts as credit, matching zero-amount info rows.
	credit, debit = classifyByBalance(amt,
		decimal.RequireFromString("1000.00"), decimal.RequireFromString("1000.00"))
	if !credit.Equal(amt) || !debit.IsZero() {
		t.Errorf("flat balance: got credit=%s debit=%s", credit, debit)
	}
}

func TestSanitizeOCRAmounts(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1,234;56", "1,234.56"},
		{"1,234:56", "1,234.56"},
		{"100: something", "100 something"},
		{"trailing 100:", "trailing 100"},
		{"no digits here", "no digits here"},
	}
	for _, tt := range tests {
		if got := sanitizeOCRAmounts(tt.input); got != tt.want {
			t.Errorf("sanitizeOCRAmounts(%q): got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDropBetween(t *testing.T) {
	lines := []string{
		"keep 1",
		"HEADER START",
		"noise",
		"BALANCE",
		"keep 2",
		"header start again",
		"more noise",
		"BALANCE",
		"keep 3",
	}

	got := dropBetween(lines, "header start", "balance", false)
	joined := strings.Join(got, "|")
	if joined != "keep 1|BALANCE|keep 2|BALANCE|keep 3" {
		t.Errorf("stop kept: got %q", joined)
	}

	got = dropBetween(lines, "header start", "balance", true)
	joined = strings.Join(got, "|")
	if joined != "keep 1|keep 2|keep 3" {
		t.Errorf("stop dropped: got %q", joined)
	}
}

func TestDropFrom(t *testing.T) {
	lines := []string{"a", "b", "CLOSING BALANCE", "c"}
	got := dropFrom(lines, "closing balance")
	if len(got) != 2 || got[1] != "b" {
		t.Errorf("got %v", got)
	}
}
