package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/transmatch/transmatch/internal/models"
)

// MaybankParser handles Maybank and Maybank Islamic statements.
//
// The template prints one transaction per visual row but the text layer
// wraps narration onto continuation lines, so rows are regrouped by their
// leading DD/MM date before matching. Amounts carry a trailing +/- sign
// that tells credit from debit; some rows omit the sign and are classified
// by balance movement instead.
type MaybankParser struct {
	bankID models.BankID
	names  NameResolver
}

func newMaybank(bankID models.BankID, names NameResolver) Parser {
	return &MaybankParser{bankID: bankID, names: names}
}

func (p *MaybankParser) BankName() string {
	if p.bankID == models.BankMaybankIslamic {
		return "Maybank Islamic Berhad"
	}
	return "Malayan Banking Berhad"
}

var (
	maybankNameRe     = regexp.MustCompile(`(?:\b[A-Za-z]+\s+)?(?:Bank|Berhad|Islamic)[A-Za-z\s]*`)
	maybankCustomerRe = regexp.MustCompile(`MR / ENCIK [^\n]+`)
	maybankStmtDateRe = regexp.MustCompile(`STATEMENT DATE\s*:\s*(\d{2}/\d{2}/\d{2})`)
	maybankAccountRe  = regexp.MustCompile(`ACCOUNT\s*NUMBER\s*:\s*([\d\-]+)`)

	// date  description  amount  sign?  balance  trailing-narration
	maybankRowFullRe = regexp.MustCompile(
		`^\s*(\d{2}/\d{2}(?:/\d{2})?)\s+(.+?)\s+([\d,]+(?:\.\d{2})?)([-+]?)\s+([\d,]+(?:\.\d{2})?)\s+(.+)`)
	maybankRowShortRe = regexp.MustCompile(
		`^\s*(\d{2}/\d{2}(?:/\d{2})?)\s+(.+?)\s+([\d,]+(?:\.\d{2})?)([-+]?)\s+([\d,]+(?:\.\d{2})?)`)
	maybankRowStartRe = regexp.MustCompile(`^\d{2}/\d{2}`)
	maybankRowDateRe  = regexp.MustCompile(`^\s*\d{2}/\d{2}(/\d{2})?\s`)
)

func (p *MaybankParser) Header(text string) models.DocumentHeader {
	header := models.NewDocumentHeader()

	if loc := maybankNameRe.FindStringIndex(text); loc != nil {
		header.BankName = strings.TrimSpace(text[loc[0]:loc[1]])
		block := regexp.MustCompile(`\n\s*`).Split(text[loc[0]:], -1)
		if len(block) > 0 {
			header.BankRegistrationNo = strings.TrimSpace(block[0])
		}
		if len(block) > 1 {
			header.BankAddress = strings.TrimSpace(block[1])
		}
	}

	lines := splitLines(text)

	if m := maybankCustomerRe.FindStringIndex(text); m != nil {
		header.CustomerName = strings.TrimSpace(text[m[0]:m[1]])
		// Address is the next few lines after the customer line.
		after := splitLines(text[m[0]:])
		var addr []string
		for _, line := range sliceRange(after, 1, 5) {
			if s := strings.TrimSpace(line); s != "" {
				addr = append(addr, s)
			}
		}
		if len(addr) > 0 {
			header.CustomerAddress = strings.Join(addr, " ")
		}
	} else {
		// Statements without the salutation print the customer block a
		// fixed distance below the bank masthead, ending at the page
		// footer ("MUKA").
		for i, line := range lines {
			if !strings.Contains(line, "Maybank Islamic Berhad") {
				continue
			}
			if name := strings.TrimSpace(lineAt(lines, i+3)); name != "" {
				header.CustomerName = name
			}
			var addr []string
			for j := i + 4; j < len(lines); j++ {
				if strings.Contains(strings.ToUpper(lines[j]), "MUKA") {
					break
				}
				if s := strings.TrimSpace(lines[j]); s != "" {
					addr = append(addr, s)
				}
			}
			if len(addr) > 0 {
				header.CustomerAddress = strings.Join(addr, " ")
			}
			break
		}
	}

	if m := maybankStmtDateRe.FindStringSubmatch(text); m != nil {
		header.StatementDate = m[1]
	}
	if m := maybankAccountRe.FindStringSubmatch(text); m != nil {
		header.AccountNumber = strings.ReplaceAll(m[1], "-", "")
	}
	return header
}

func (p *MaybankParser) Transactions(text string) ([]models.TransactionRecord, error) {
	statementYear := 0
	if m := maybankStmtDateRe.FindStringSubmatch(text); m != nil {
		statementYear = 2000 + atoi(m[1][6:])
	}

	lines := splitLines(text)
	// Each page repeats the masthead and column headers between the last
	// row of one page and the first row of the next.
	lines = dropBetween(lines, "MAYBANK ISLAMIC BERHAD", "URUSNIAGA AKAUN", true)
	lines = dropBetween(lines, "TARIKH MASUK", "STATEMENT BALANCE", true)
	lines = dropFrom(lines, "ENDING BALANCE :")

	rows := regroupByDate(lines, maybankRowStartRe)

	var records []models.TransactionRecord
	var prevBalance decimal.Decimal
	havePrev := false

	for _, row := range rows {
		if !maybankRowDateRe.MatchString(row) {
			continue
		}
		m := maybankRowFullRe.FindStringSubmatch(row)
		tail := ""
		if m != nil {
			tail = strings.TrimSpace(m[6])
		} else {
			m = maybankRowShortRe.FindStringSubmatch(row)
		}
		if m == nil {
			continue
		}

		amount := mustAmount(m[3])
		balance := mustAmount(m[5])
		description := strings.TrimSpace(m[2])

		rec := models.TransactionRecord{
			Date:             normalizeDate(m[1], statementYear),
			Description:      description,
			DescriptionOther: tail,
			Balance:          balance,
		}
		switch m[4] {
		case "+":
			rec.Credit = amount
		case "-":
			rec.Debit = amount
		default:
			if havePrev {
				rec.Credit, rec.Debit = classifyByBalance(amount, balance, prevBalance)
			}
		}
		rec.CounterpartyName = p.names.Resolve(description + " " + tail)

		records = append(records, rec)
		prevBalance = balance
		havePrev = true
	}
	return records, nil
}

// regroupByDate flattens wrapped narration back onto its transaction row:
// every line starting a new date opens a row, every other line is appended
// to the current one.
func regroupByDate(lines []string, rowStart *regexp.Regexp) []string {
	var rows []string
	current := -1
	for _, line := range lines {
		if rowStart.MatchString(strings.TrimLeft(line, " ")) {
			rows = append(rows, strings.TrimSpace(line))
			current = len(rows) - 1
			continue
		}
		if current >= 0 {
			rows[current] += " " + strings.TrimSpace(line)
		}
	}
	return rows
}

func sliceRange(s []string, from, to int) []string {
	if from > len(s) {
		return nil
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}

func lineAt(lines []string, i int) string {
	if i < 0 || i >= len(lines) {
		return ""
	}
	return lines[i]
}
