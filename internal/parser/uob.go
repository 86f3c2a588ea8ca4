package parser

import (
	"regexp"
	"strings"

	"github.com/transmatch/transmatch/internal/models"
)

// UOBParser handles UOB corporate current-account statements. Blocks open
// with a bare DD/MM/YYYY line and carry exactly three money lines in fixed
// order: withdrawals, deposits, running balance. Counterparty names use the
// enriched resolver because UOB narration rarely matches the regex cascade.
type UOBParser struct {
	bankID models.BankID
	names  NameResolver
}

func newUOB(bankID models.BankID, names NameResolver) Parser {
	return &UOBParser{bankID: bankID, names: names}
}

func (p *UOBParser) BankName() string { return "UOB Bank Berhad" }

var (
	uobCompanyRe   = regexp.MustCompile(`(?i)\bSDN\.?\s+BHD\.?\b`)
	uobAccountRe   = regexp.MustCompile(`(?i)Current\s+Account.*?(\d{6,})`)
	uobFullDateRe  = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
	uobBlockDateRe = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	uobTimestampRe = regexp.MustCompile(`\d{2}/\d{2}/\d{4}\s+\d{1,2}:\d{2}:\d{2}`)
)

func (p *UOBParser) Header(text string) models.DocumentHeader {
	header := models.NewDocumentHeader()
	header.BankName = p.BankName()

	lines := nonEmptyLines(text)
	for _, line := range lines {
		if uobCompanyRe.MatchString(line) {
			header.CustomerName = titleCase(line)
			break
		}
	}
	for _, line := range lines {
		if strings.Contains(strings.ToUpper(line), "CURRENT ACCOUNT") {
			if m := uobAccountRe.FindStringSubmatch(line); m != nil {
				header.AccountNumber = m[1]
				break
			}
		}
	}
	// The statement period prints below a "Statement Date" label; the
	// statement date is the later end of the period.
	for i, line := range lines {
		if strings.EqualFold(line, "statement date") {
			dates := uobFullDateRe.FindAllString(lineAt(lines, i+1), -1)
			var latest string
			for _, d := range dates {
				norm := normalizeDate(d, 0)
				if latest == "" || laterDate(norm, latest) {
					latest = norm
				}
			}
			if latest != "" {
				header.StatementDate = latest
			}
			break
		}
	}
	return header
}

// laterDate reports whether a is after b; both are DD/MM/YY.
func laterDate(a, b string) bool {
	ka := a[6:] + a[3:5] + a[:2]
	kb := b[6:] + b[3:5] + b[:2]
	return ka > kb
}

func (p *UOBParser) Transactions(text string) ([]models.TransactionRecord, error) {
	lines := splitLines(text)
	lines = dropBetween(lines, "ACCOUNT ACTIVITIES", "LEDGER BALANCE(MYR)", true)
	lines = dropFrom(lines, "TOTAL DEPOSITS(MYR)")

	// Each block ends with an entry timestamp split over two lines
	// ("01/06/2024 10:33:32" then "AM"); both are noise.
	var cleaned []string
	skipNext := false
	for _, line := range lines {
		s := strings.TrimSpace(line)
		if s == "" {
			continue
		}
		if skipNext {
			skipNext = false
			continue
		}
		if uobTimestampRe.MatchString(s) {
			skipNext = true
			continue
		}
		cleaned = append(cleaned, s)
	}

	var records []models.TransactionRecord
	for _, block := range groupByDateLine(cleaned, uobBlockDateRe) {
		if len(block) < 5 {
			continue
		}
		date := block[0]
		description := block[1]

		var amounts []string
		firstAmountIdx := -1
		for i, line := range block {
			if amountLineRe.MatchString(line) {
				if firstAmountIdx < 0 {
					firstAmountIdx = i
				}
				amounts = append(amounts, line)
			}
		}
		if len(amounts) < 3 {
			continue
		}

		others := ""
		if firstAmountIdx > 2 {
			others = strings.Join(block[2:firstAmountIdx], " ")
		}

		records = append(records, models.TransactionRecord{
			Date:             normalizeDate(date, 0),
			Description:      description,
			DescriptionOther: others,
			CounterpartyName: p.names.ResolveEnriched(strings.TrimSpace(description + " " + others)),
			Debit:            mustAmount(amounts[0]).Abs(),
			Credit:           mustAmount(amounts[1]).Abs(),
			Balance:          mustAmount(amounts[2]),
		})
	}
	return records, nil
}
