package parser

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/transmatch/transmatch/internal/models"
)

// RHBParser handles three RHB templates. Reflex corporate statements (bank
// id 8) arrive as coordinate JSON from the layout backend and already carry
// separate debit and credit cells. Retail RHB and RHB Islamic statements
// are plain text: one value per line, transaction blocks opened by a
// year-less "02 Jul" date, classified by balance movement from the brought-
// forward balance.
type RHBParser struct {
	bankID models.BankID
	names  NameResolver
}

func newRHB(bankID models.BankID, names NameResolver) Parser {
	return &RHBParser{bankID: bankID, names: names}
}

func (p *RHBParser) BankName() string {
	if p.bankID == models.BankRHBIslamic {
		return "RHB Islamic Bank Berhad"
	}
	return "RHB Bank Berhad"
}

var (
	rhbRegNoRe     = regexp.MustCompile(`(?i)RHB\s+Bank\s+Berhad\s*(.+)`)
	rhbPeriodRe    = regexp.MustCompile(`(?i)Statement\s+Period|Tempoh\s+Penyata`)
	rhbPeriodDates = regexp.MustCompile(`(\d{1,2}\s+\w+\s+\d{2,4})\s*[\x{2013}-]\s*(\d{1,2}\s+\w+\s+\d{2,4})`)
	rhbBlockDateRe = regexp.MustCompile(`^\d{1,2}\s+[A-Za-z]{3,}$`)
	rhbTenDigitRe  = regexp.MustCompile(`^\d{10}$`)
	nonDigitRe     = regexp.MustCompile(`\D`)

	// OCR splits tokens directly attached to the DISTRIBUTO narration tag.
	distributoSplitRe = regexp.MustCompile(`(DISTRIBUTO)([A-Z0-9])`)
	distributoTailRe  = regexp.MustCompile(`DISTRIBUTO\S*`)
	multiSpaceRe      = regexp.MustCompile(`\s{2,}`)
)

func (p *RHBParser) Header(text string) models.DocumentHeader {
	if p.bankID == models.BankRHBReflex {
		return p.reflexHeader(text)
	}

	header := models.NewDocumentHeader()
	header.BankName = "RHB Bank Berhad"

	if m := rhbRegNoRe.FindStringSubmatch(text); m != nil {
		header.BankRegistrationNo = strings.TrimSpace(m[1])
	}

	lines := nonEmptyLines(text)
	if len(lines) > 0 {
		header.CustomerName = titleCase(lines[0])
	}
	var addr []string
	for _, line := range sliceRange(lines, 1, len(lines)) {
		if strings.Contains(strings.ToUpper(line), "ACCOUNT STATEMENT / PENYATA AKAUN") {
			break
		}
		addr = append(addr, line)
	}
	if len(addr) > 0 {
		header.CustomerAddress = strings.Join(addr, " ")
	}

	for _, line := range lines {
		digits := nonDigitRe.ReplaceAllString(line, "")
		if len(digits) == 14 {
			header.AccountNumber = digits
			break
		}
	}

	if _, last, ok := statementPeriod(lines); ok {
		header.StatementDate = last.Format("02/01/06")
	}
	return header
}

// reflexHeader decodes the coordinate-box JSON the layout backend produced
// for page 1 and normalizes the long-form statement date.
func (p *RHBParser) reflexHeader(text string) models.DocumentHeader {
	header := models.NewDocumentHeader()
	header.BankName = "RHB Bank Berhad"
	if err := json.Unmarshal([]byte(text), &header); err != nil {
		return models.DocumentHeader{
			BankName:           "RHB Bank Berhad",
			BankRegistrationNo: models.NotAvailable,
			BankAddress:        models.NotAvailable,
			CustomerName:       models.UnknownCustomer,
			CustomerAddress:    models.NotAvailable,
			StatementDate:      models.NotAvailable,
			AccountNumber:      models.NotAvailable,
		}
	}
	if t, ok := parseNamedDate(header.StatementDate); ok {
		header.StatementDate = t.Format("02/01/06")
	}
	return header
}

func (p *RHBParser) Transactions(text string) ([]models.TransactionRecord, error) {
	if p.bankID == models.BankRHBReflex {
		return p.reflexTransactions(text)
	}
	return p.textTransactions(text)
}

func (p *RHBParser) reflexTransactions(text string) ([]models.TransactionRecord, error) {
	var rows []models.ReflexRow
	if err := json.Unmarshal([]byte(text), &rows); err != nil {
		return nil, err
	}

	records := make([]models.TransactionRecord, 0, len(rows))
	for _, row := range rows {
		sender := distributoSplitRe.ReplaceAllString(row.Sender, "$1 $2")
		var otherParts []string
		for _, part := range []string{sender, row.Reference1, row.Reference2} {
			if part != "" {
				otherParts = append(otherParts, part)
			}
		}

		name := row.Sender
		if name == "" {
			name = strings.TrimSpace(row.Reference1 + " " + row.Reference2)
		}
		name = distributoTailRe.ReplaceAllString(name, "DISTRIBUTO")
		name = strings.TrimSpace(multiSpaceRe.ReplaceAllString(name, " "))

		records = append(records, models.TransactionRecord{
			Date:             normalizeDate(row.Date, 0),
			Description:      row.Description,
			DescriptionOther: strings.Join(otherParts, " "),
			CounterpartyName: name,
			Credit:           mustAmount(row.AmountCredit).Abs(),
			Debit:            mustAmount(row.AmountDebit).Abs(),
			Balance:          mustAmount(row.Balance),
		})
	}
	return records, nil
}

func (p *RHBParser) textTransactions(text string) ([]models.TransactionRecord, error) {
	all := nonEmptyLines(text)

	openingBalance, haveOpening := rhbOpeningBalance(all)
	statementYear := 0
	if _, last, ok := statementPeriod(all); ok {
		statementYear = last.Year()
	}

	lines := rhbCleanLines(splitLines(text))

	var records []models.TransactionRecord
	prevBalance := openingBalance
	havePrev := haveOpening

	for _, block := range groupByDateLine(lines, rhbBlockDateRe) {
		if len(block) < 2 {
			continue
		}
		date := block[0]
		description := block[1]

		var amounts []decimal.Decimal
		for _, line := range block {
			if amountLineRe.MatchString(line) {
				amounts = append(amounts, mustAmount(line).Abs())
			}
		}
		if len(amounts) < 2 {
			continue
		}
		amount, balance := amounts[0], amounts[1]

		// Narration lines between the description and the amounts; a bare
		// ten-digit reference is moved to the end.
		var others []string
		tenDigit := ""
		for _, line := range block[2:] {
			val := strings.TrimSuffix(strings.TrimSpace(line), "-")
			val = strings.TrimSpace(val)
			if val == "" || val == description {
				continue
			}
			if rhbTenDigitRe.MatchString(val) {
				tenDigit = val
				continue
			}
			if amountLineRe.MatchString(line) {
				continue
			}
			others = append(others, val)
		}
		if tenDigit != "" {
			others = append(others, tenDigit)
		}

		rec := models.TransactionRecord{
			Date:             normalizeDate(date, statementYear),
			Description:      description,
			DescriptionOther: strings.Join(others, " "),
			Balance:          balance,
		}
		if havePrev {
			rec.Credit, rec.Debit = classifyByBalance(amount, balance, prevBalance)
		}
		rec.CounterpartyName = p.names.Resolve(description + " " + rec.DescriptionOther)

		records = append(records, rec)
		prevBalance = balance
		havePrev = true
	}
	return records, nil
}

// rhbOpeningBalance finds the numeric line that follows "B/F BALANCE".
func rhbOpeningBalance(lines []string) (decimal.Decimal, bool) {
	for i, line := range lines {
		if !strings.Contains(strings.ToUpper(line), "B/F BALANCE") {
			continue
		}
		for _, next := range lines[i+1:] {
			val := strings.TrimSuffix(strings.ReplaceAll(strings.TrimSpace(next), ",", ""), "-")
			if twoDecimalRe.MatchString(val) {
				return mustAmount(val), true
			}
		}
		return decimal.Zero, false
	}
	return decimal.Zero, false
}

// statementPeriod parses "Statement Period / Tempoh Penyata : 1 Jul 24 –
// 31 Jul 24" and returns both dates.
func statementPeriod(lines []string) (first, last time.Time, ok bool) {
	for _, line := range lines {
		if !rhbPeriodRe.MatchString(line) {
			continue
		}
		m := rhbPeriodDates.FindStringSubmatch(line)
		if m == nil {
			return time.Time{}, time.Time{}, false
		}
		f, okF := parseNamedDate(m[1])
		l, okL := parseNamedDate(m[2])
		if !okF || !okL {
			return time.Time{}, time.Time{}, false
		}
		return f, l, true
	}
	return time.Time{}, time.Time{}, false
}

// rhbCleanLines strips the page preamble (everything up to and including
// the B/F balance figure), repeated page banners up to the "Baki" column
// header, and the carry-forward footer.
func rhbCleanLines(lines []string) []string {
	var trimmed []string
	seenBF := false
	skippedValue := false
	for _, line := range lines {
		s := sanitizeOCRAmounts(strings.TrimSpace(line))
		if !seenBF {
			if strings.Contains(strings.ToUpper(s), "B/F BALANCE") {
				seenBF = true
			}
			continue
		}
		if !skippedValue {
			skippedValue = true
			continue
		}
		trimmed = append(trimmed, s)
	}

	banner := ""
	for _, s := range lines {
		if strings.TrimSpace(s) != "" {
			banner = strings.TrimSpace(s)
			break
		}
	}

	var out []string
	skip := false
	prev := ""
	for _, s := range trimmed {
		if s == "" {
			continue
		}
		if banner != "" && s == banner {
			skip = true
		} else if prev == "Balance" && s == "Baki" {
			skip = false
			prev = s
			continue
		}
		if !skip {
			out = append(out, s)
		}
		prev = s
	}

	var final []string
	for i, s := range out {
		if i+1 < len(out) && strings.Contains(strings.ToUpper(out[i+1]), "C/F BALANCE") {
			break
		}
		if strings.Contains(strings.ToUpper(s), "C/F BALANCE") {
			break
		}
		final = append(final, s)
	}
	return final
}
