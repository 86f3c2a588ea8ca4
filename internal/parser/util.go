package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date shapes that appear across the supported templates.
var (
	dateShortRe = regexp.MustCompile(`^\d{2}/\d{2}$`)
	dateSlashRe = regexp.MustCompile(`^\d{2}/\d{2}/\d{2}$`)
	dateFullRe  = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	dateDashRe  = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
	dateNamedRe = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]{3,})\.?\s*(\d{2,4})?$`)
)

var twoDecimalRe = regexp.MustCompile(`^\d+\.\d{2}$`)

// amountLineRe matches values like "27,764.33", "27,764.33-" or "-1,200.00".
var amountLineRe = regexp.MustCompile(`^-?[\d,]+\.\d{2}-?$`)

// parseAmount converts "1,234.56", "1,234.56-" or "-1,234.56" into a
// decimal. Trailing minus is the legacy statement convention for negatives.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(strings.TrimPrefix(s, "+"), "+")
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	if strings.HasSuffix(s, "-") {
		neg = true
		s = s[:len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// mustAmount is parseAmount for values already shape-checked by a regex.
func mustAmount(s string) decimal.Decimal {
	d, err := parseAmount(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// isTwoDecimalNumeric reports whether the value is a bare money amount
// like "1,234.56".
func isTwoDecimalNumeric(s string) bool {
	return twoDecimalRe.MatchString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
}

// sanitizeOCRAmounts fixes Tesseract's habit of misreading the decimal
// point in amounts as a colon or semicolon.
func sanitizeOCRAmounts(line string) string {
	line = ocrSemicolonRe.ReplaceAllString(line, "$1.$3")
	line = ocrColonRe.ReplaceAllString(line, "$1.$2")
	line = ocrTrailingColonSpaceRe.ReplaceAllString(line, "$1 ")
	line = ocrTrailingColonRe.ReplaceAllString(line, "$1")
	return line
}

var (
	ocrSemicolonRe          = regexp.MustCompile(`(\d);(\s*)(\d)`)
	ocrColonRe              = regexp.MustCompile(`(\d):(\d)`)
	ocrTrailingColonSpaceRe = regexp.MustCompile(`(\d):\s`)
	ocrTrailingColonRe      = regexp.MustCompile(`(\d):$`)
)

var monthNames = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// parseNamedDate handles "18 Mar 2025", "30 JUNE 2025" and "1 Jul 24".
func parseNamedDate(raw string) (time.Time, bool) {
	m := dateNamedRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil || m[3] == "" {
		return time.Time{}, false
	}
	month, ok := monthNames[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, false
	}
	day := atoi(m[1])
	year := atoi(m[3])
	if year < 100 {
		year += 2000
	}
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

// normalizeDate renders any supported date shape as DD/MM/YY. year fills
// in templates that omit it from transaction rows; pass 0 when unknown.
// Dates already in DD/MM/YY pass through unchanged, so the function is
// idempotent.
func normalizeDate(raw string, year int) string {
	raw = strings.TrimSpace(raw)
	switch {
	case dateSlashRe.MatchString(raw):
		return raw
	case dateFullRe.MatchString(raw):
		return raw[:6] + raw[8:]
	case dateDashRe.MatchString(raw):
		return strings.ReplaceAll(raw[:6], "-", "/") + raw[8:]
	case dateShortRe.MatchString(raw):
		if year > 0 {
			return raw + "/" + twoDigitYear(year)
		}
		return raw
	}
	if t, ok := parseNamedDate(raw); ok {
		return t.Format("02/01/06")
	}
	if m := dateNamedRe.FindStringSubmatch(raw); m != nil && year > 0 {
		if month, ok := monthNames[strings.ToLower(m[2])]; ok {
			t := time.Date(year, month, atoi(m[1]), 0, 0, 0, 0, time.UTC)
			return t.Format("02/01/06")
		}
	}
	return raw
}

func twoDigitYear(year int) string {
	y := year % 100
	return string([]byte{'0' + byte(y/10), '0' + byte(y%10)})
}

// classifyByBalance assigns the amount to credit or debit by comparing the
// row balance against the running balance. Statement rows never move the
// balance by anything but the row amount, so the direction of the movement
// is the direction of the money.
func classifyByBalance(amount, balance, previous decimal.Decimal) (credit, debit decimal.Decimal) {
	if balance.LessThan(previous) {
		return decimal.Zero, amount
	}
	return amount, decimal.Zero
}

// dropBetween removes every line from the first one containing start
// through the one containing stop. The stop line itself is removed when
// dropStop is set. Markers match case-insensitively as substrings; the
// cleaning repeats until no start marker remains so per-page repeats of a
// header block all go.
func dropBetween(lines []string, start, stop string, dropStop bool) []string {
	start = strings.ToUpper(start)
	stop = strings.ToUpper(stop)
	var out []string
	skip := false
	for _, line := range lines {
		upper := strings.ToUpper(line)
		if !skip && strings.Contains(upper, start) {
			skip = true
		} else if skip && strings.Contains(upper, stop) {
			skip = false
			if dropStop {
				continue
			}
		}
		if !skip {
			out = append(out, line)
		}
	}
	return out
}

// dropFrom removes everything from the first line containing marker to the
// end of the text.
func dropFrom(lines []string, marker string) []string {
	marker = strings.ToUpper(marker)
	for i, line := range lines {
		if strings.Contains(strings.ToUpper(line), marker) {
			return lines[:i]
		}
	}
	return lines
}

// splitLines splits text into lines, dropping form feeds left by page
// joining.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\f", "")
	return strings.Split(text, "\n")
}

// nonEmptyLines returns trimmed, non-blank lines.
func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range splitLines(text) {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
