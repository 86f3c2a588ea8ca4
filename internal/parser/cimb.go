package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/transmatch/transmatch/internal/models"
)

// CIMBParser handles CIMB Bank and CIMB Islamic statements exported from
// CIMB Clicks. The export carries no bank address or registration number,
// and every transaction block opens with a bare DD/MM/YYYY line followed by
// the narration, the amount, and the running balance. Credit and debit are
// told apart by balance movement.
type CIMBParser struct {
	bankID models.BankID
	names  NameResolver
}

func newCIMB(bankID models.BankID, names NameResolver) Parser {
	return &CIMBParser{bankID: bankID, names: names}
}

func (p *CIMBParser) BankName() string {
	if p.bankID == models.BankCIMBIslamic {
		return "CIMB Islamic Bank Berhad"
	}
	return "CIMB Bank Berhad"
}

var (
	cimbHolderRe = regexp.MustCompile(`(?i)Account\s+Holder\s+([A-Z\s]+?)\s+Account\s+Details`)
	cimbAsAtRe   = regexp.MustCompile(`(?i)Account\s+Details\s+as\s+at\s+([0-9]{1,2}\s+[A-Za-z]{3}\s+[0-9]{4})\s+\d{1,2}:\d{2}:\d{2}\s*(?:AM|PM)`)
	cimbAcctRe   = regexp.MustCompile(`(?i)ACCOUNT\s+SAVINGS[^\d]*(\d[\d\s]+)`)
	cimbDateRe   = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
)

func (p *CIMBParser) Header(text string) models.DocumentHeader {
	header := models.NewDocumentHeader()
	header.BankName = p.BankName()

	flat := strings.Join(strings.Fields(strings.ReplaceAll(text, " ", " ")), " ")
	if m := cimbHolderRe.FindStringSubmatch(flat); m != nil {
		header.CustomerName = titleCase(strings.TrimSpace(m[1]))
	}
	if m := cimbAsAtRe.FindStringSubmatch(text); m != nil {
		if t, ok := parseNamedDate(m[1]); ok {
			header.StatementDate = t.Format("02/01/06")
		}
	}
	if m := cimbAcctRe.FindStringSubmatch(text); m != nil {
		acct := strings.NewReplacer(" ", "", "\n", "").Replace(m[1])
		header.AccountNumber = strings.TrimSpace(acct)
	}
	return header
}

func (p *CIMBParser) Transactions(text string) ([]models.TransactionRecord, error) {
	statementYear := 0
	if m := cimbAsAtRe.FindStringSubmatch(text); m != nil {
		if t, ok := parseNamedDate(m[1]); ok {
			statementYear = t.Year()
		}
	}

	var lines []string
	for _, line := range splitLines(text) {
		if strings.Contains(strings.ToUpper(line), "ACCOUNT DETAILS AS AT") {
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, strings.TrimSpace(line))
	}
	lines = dropBetween(lines, "ACCOUNT DETAILS AND TRANSACTION HISTORY", "BALANCE", true)

	var records []models.TransactionRecord
	var prevBalance decimal.Decimal
	havePrev := false

	for _, block := range groupByDateLine(lines, cimbDateRe) {
		if len(block) < 3 {
			continue
		}
		date := block[0]
		description := block[1]

		var amounts []decimal.Decimal
		var others []string
		for _, line := range block[2:] {
			if amountLineRe.MatchString(line) {
				amounts = append(amounts, mustAmount(line))
				continue
			}
			others = append(others, line)
		}
		if len(amounts) < 2 {
			continue
		}
		amount, balance := amounts[0].Abs(), amounts[1]

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

// groupByDateLine splits lines into blocks opened by lines matching dateRe.
// Lines before the first date are dropped.
func groupByDateLine(lines []string, dateRe *regexp.Regexp) [][]string {
	var blocks [][]string
	for _, line := range lines {
		if dateRe.MatchString(line) {
			blocks = append(blocks, []string{line})
			continue
		}
		if len(blocks) > 0 {
			blocks[len(blocks)-1] = append(blocks[len(blocks)-1], line)
		}
	}
	return blocks
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
