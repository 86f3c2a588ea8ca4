package parser

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/transmatch/transmatch/internal/models"
)

// HongLeongParser handles Hong Leong Bank and Hong Leong Islamic
// statements. The template prints credit and debit amounts with identical
// formatting and distinguishes them only by which column they sit in, so
// transactions come from the layout backend as positioned rows whose money
// tokens are already tagged credit, debit or balance. The header is plain
// text.
type HongLeongParser struct {
	bankID models.BankID
	names  NameResolver
}

func newHongLeong(bankID models.BankID, names NameResolver) Parser {
	return &HongLeongParser{bankID: bankID, names: names}
}

func (p *HongLeongParser) BankName() string {
	if p.bankID == models.BankHongLeongIslamic {
		return "Hong Leong Islamic Bank Berhad"
	}
	return "Hong Leong Bank Berhad"
}

var (
	hlRegIslamicRe = regexp.MustCompile(`(?i)Hong\s+Leong\s+Islamic\s+Bank\s+Berhad\s*\(([\d\-Xx]+)\)`)
	hlRegRe        = regexp.MustCompile(`(?i)Hong\s+Leong\s+Bank\s+Berhad\s*\(([\d\-Xx]+)\)`)
	hlBranchRe     = regexp.MustCompile(`Branch\s*/\s*Cawangan\s*:\s*(.+)`)
	hlTelRe        = regexp.MustCompile(`Tel No\s*/\s*No Tel\s*:\s*(.+)`)
	hlCustomerRe   = regexp.MustCompile(`\n([A-Z][A-Z\s]+)\nDate\s*/\s*Tarikh`)
	hlAddressRe    = regexp.MustCompile(`(?s)Date\s*/\s*Tarikh\s*:\s*[^\n]+\n(.+?)\nA/C No`)
	hlStmtDateRe   = regexp.MustCompile(`Date\s*/\s*Tarikh\s*:\s*(\d{2}-\d{2}-\d{4})`)
	hlAcctRe       = regexp.MustCompile(`A/C No\s*/\s*No Akaun\s*:\s*([\d\-]+)`)
	hlRowDateRe    = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}\b`)
)

func (p *HongLeongParser) Header(text string) models.DocumentHeader {
	header := models.NewDocumentHeader()
	header.BankName = p.BankName()

	regRe := hlRegRe
	if p.bankID == models.BankHongLeongIslamic {
		regRe = hlRegIslamicRe
	}
	if m := regRe.FindStringSubmatch(text); m != nil {
		header.BankRegistrationNo = m[1]
	}

	branch := hlBranchRe.FindStringSubmatch(text)
	tel := hlTelRe.FindStringSubmatch(text)
	if branch != nil && tel != nil {
		header.BankAddress = strings.TrimSpace(branch[1]) + " (" + strings.TrimSpace(tel[1]) + ")"
	}

	if m := hlCustomerRe.FindStringSubmatch(text); m != nil {
		header.CustomerName = titleCase(strings.TrimSpace(m[1]))
	}
	if m := hlAddressRe.FindStringSubmatch(text); m != nil {
		var addr []string
		for _, line := range strings.Split(m[1], "\n") {
			if s := strings.TrimSpace(line); s != "" {
				addr = append(addr, s)
			}
		}
		if len(addr) > 0 {
			header.CustomerAddress = strings.Join(addr, " ")
		}
	}
	if m := hlStmtDateRe.FindStringSubmatch(text); m != nil {
		header.StatementDate = normalizeDate(m[1], 0)
	}
	if m := hlAcctRe.FindStringSubmatch(text); m != nil {
		header.AccountNumber = strings.ReplaceAll(m[1], "-", "")
	}
	return header
}

func (p *HongLeongParser) Transactions(text string) ([]models.TransactionRecord, error) {
	var rows []models.PositionedRow
	if err := json.Unmarshal([]byte(text), &rows); err != nil {
		return nil, err
	}

	stopKeys := []string{"HONG LEONG BANK BERHAD"}
	if p.bankID == models.BankHongLeongIslamic {
		stopKeys = []string{"HONG LEONG ISLAMIC BANK BERHAD", "TOTAL WITHDRAWALS"}
	}

	var records []models.TransactionRecord
	var current *models.TransactionRecord
	var content []string

	flush := func() {
		if current == nil || len(content) == 0 {
			current = nil
			content = nil
			return
		}
		current.Description = content[0]
		if len(content) > 1 {
			current.DescriptionOther = strings.Join(content[1:], " ")
		}
		current.CounterpartyName = p.names.Resolve(
			strings.TrimSpace(current.Description + " " + current.DescriptionOther))
		records = append(records, *current)
		current = nil
		content = nil
	}

	skipping := false
	for _, row := range rows {
		rowText := strings.TrimSpace(row.Text)
		if rowText == "" {
			continue
		}
		upper := strings.ToUpper(rowText)

		for _, key := range stopKeys {
			if strings.Contains(upper, key) {
				skipping = true
			}
		}
		if upper == "BAKI" {
			skipping = false
			continue
		}
		if skipping {
			continue
		}

		narration := stripAmountTokens(rowText)

		if hlRowDateRe.MatchString(rowText) {
			flush()
			fields := strings.Fields(narration)
			current = &models.TransactionRecord{Date: normalizeDate(fields[0], 0)}
			if rest := strings.Join(fields[1:], " "); rest != "" {
				content = append(content, rest)
			}
		} else if current != nil && narration != "" {
			content = append(content, narration)
		}

		if current != nil {
			if row.Credit != "" {
				current.Credit = mustAmount(row.Credit)
			}
			if row.Debit != "" {
				current.Debit = mustAmount(row.Debit)
			}
			if row.Balance != "" {
				current.Balance = mustAmount(row.Balance)
			}
		}
	}
	flush()

	return records, nil
}

// stripAmountTokens removes money-shaped tokens from a row so narration
// and amounts never mix.
func stripAmountTokens(rowText string) string {
	var kept []string
	for _, tok := range strings.Fields(rowText) {
		if amountLineRe.MatchString(tok) {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}
