package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/transmatch/transmatch/internal/models"
)

// PublicBankParser handles Public Bank and Public Islamic Bank statements.
//
// The text layer of this template emits one value per line: a bare DD/MM
// date line opens a day, then each transaction under it appears as an
// amount line, a balance line, and one or more narration lines. Credit or
// debit is decided purely by the balance movement against the running
// balance, seeded from the "BALANCE FROM LAST STATEMENT" figure.
type PublicBankParser struct {
	bankID models.BankID
	names  NameResolver
}

func newPublicBank(bankID models.BankID, names NameResolver) Parser {
	return &PublicBankParser{bankID: bankID, names: names}
}

func (p *PublicBankParser) BankName() string {
	if p.bankID == models.BankPublicIslamic {
		return "Public Islamic Bank"
	}
	return "Public Bank"
}

var pbbDateOnlyRe = regexp.MustCompile(`^\d{2}/\d{2}$`)

func (p *PublicBankParser) Header(text string) models.DocumentHeader {
	header := models.NewDocumentHeader()
	header.BankName = p.BankName()

	lines := splitLines(text)

	// The bank address block sits between a template-specific banner line
	// and the branch phone line.
	banner := "T&C APPLY"
	if p.bankID == models.BankPublicIslamic {
		banner = "CALL 03-2170 8000 OR VISIT OUR WEBSITE"
	}
	var bankAddr []string
	collect := false
	for _, line := range lines {
		upper := strings.ToUpper(line)
		if strings.Contains(upper, banner) {
			collect = true
			continue
		}
		if strings.Contains(upper, "TEL:") {
			break
		}
		if collect {
			if s := strings.TrimSpace(line); s != "" {
				bankAddr = append(bankAddr, s)
			}
		}
	}
	if len(bankAddr) > 0 {
		header.BankAddress = strings.Join(bankAddr, " ")
	}

	// Customer name is the second line of the page; the address follows
	// until the first line containing a period.
	if name := strings.TrimSpace(lineAt(lines, 1)); name != "" {
		header.CustomerName = name
	}
	var custAddr []string
	for _, line := range sliceRange(lines, 2, len(lines)) {
		if strings.Contains(line, ".") {
			break
		}
		if s := strings.TrimSpace(line); s != "" {
			custAddr = append(custAddr, s)
		}
	}
	if len(custAddr) > 0 {
		header.CustomerAddress = strings.Join(custAddr, " ")
	}

	for i, line := range lines {
		upper := strings.ToUpper(line)
		if strings.Contains(upper, "STATEMENT DATE") && header.StatementDate == models.NotAvailable {
			if t, ok := parseNamedDate(lineAt(lines, i+1)); ok {
				header.StatementDate = t.Format("02/01/06")
			}
		}
		if strings.Contains(upper, "ACCOUNT NUMBER") && header.AccountNumber == models.UnknownValue {
			if acct := strings.TrimSpace(lineAt(lines, i+1)); acct != "" {
				header.AccountNumber = acct
			}
		}
	}
	return header
}

func (p *PublicBankParser) Transactions(text string) ([]models.TransactionRecord, error) {
	statementYear := p.statementYear(text)
	lines := splitLines(text)

	// Page furniture: everything from the repeated page banner (the first
	// line of the document) down to the opening balance marker, carry-
	// forward and brought-forward blocks, and the closing summary.
	if banner := strings.TrimSpace(lineAt(nonEmptyLines(text), 0)); banner != "" {
		lines = dropBetween(lines, banner, "BALANCE FROM LAST STATEMENT", false)
	}
	lines = dropCarryForward(lines)
	lines = dropFrom(lines, "CLOSING BALANCE IN THIS STATEMENT")

	var records []models.TransactionRecord
	var prevBalance decimal.Decimal
	havePrev := false
	date := ""
	var fields []string

	flush := func() {
		if len(fields) < 2 || date == "" {
			fields = nil
			return
		}
		amount := mustAmount(fields[0])
		balance := mustAmount(fields[1])
		rec := models.TransactionRecord{
			Date:    normalizeDate(date, statementYear),
			Balance: balance,
		}
		if len(fields) > 2 {
			rec.Description = fields[2]
		}
		if len(fields) > 3 {
			rec.DescriptionOther = strings.Join(fields[3:], " ")
		}
		if havePrev {
			rec.Credit, rec.Debit = classifyByBalance(amount, balance, prevBalance)
		}
		rec.CounterpartyName = p.names.Resolve(rec.Description + " " + rec.DescriptionOther)
		records = append(records, rec)
		prevBalance = balance
		havePrev = true
		fields = nil
	}

	prevWasDate := false
	prevNumeric := false
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if pbbDateOnlyRe.MatchString(line) {
			flush()
			date = line
			prevWasDate = true
			prevNumeric = false
			continue
		}
		numeric := isTwoDecimalNumeric(line)
		startsTxn := prevWasDate || (numeric && !prevNumeric)
		switch {
		case date == "":
			// Before the first date line the only tagged value is the
			// opening balance.
			if startsTxn && numeric && !havePrev {
				prevBalance = mustAmount(line)
				havePrev = true
			}
		case startsTxn:
			flush()
			fields = []string{line}
		default:
			fields = append(fields, line)
		}
		prevWasDate = false
		prevNumeric = numeric
	}
	flush()

	return records, nil
}

func (p *PublicBankParser) statementYear(text string) int {
	lines := splitLines(text)
	for i, line := range lines {
		if strings.Contains(strings.ToUpper(line), "STATEMENT DATE") {
			if t, ok := parseNamedDate(lineAt(lines, i+1)); ok {
				return t.Year()
			}
		}
	}
	return 0
}

// dropCarryForward removes the per-page "BALANCE C/F" and "BALANCE B/F"
// blocks, including the date line that immediately precedes the B/F row.
func dropCarryForward(lines []string) []string {
	var out []string
	skip := false
	for i, line := range lines {
		upper := strings.ToUpper(strings.TrimSpace(line))
		next := ""
		if i+1 < len(lines) {
			next = strings.ToUpper(strings.TrimSpace(lines[i+1]))
		}
		if strings.Contains(upper, "BALANCE C/F") || strings.Contains(next, "BALANCE B/F") {
			skip = true
			continue
		}
		if strings.Contains(upper, "BALANCE B/F") {
			skip = false
			continue
		}
		if !skip {
			out = append(out, line)
		}
	}
	return out
}
