package parser

import (
	"encoding/json"
	"testing"

	"github.com/transmatch/transmatch/internal/models"
)

const hlFirstPage = `Hong Leong Bank Berhad (97141-X)
Branch / Cawangan : KEPONG
Tel No / No Tel : 03-6257 1322
AHMAD FAUZI BIN OMAR
Date / Tarikh : 30-06-2024
NO 7 JALAN KEPONG
52100 KUALA LUMPUR
A/C No / No Akaun : 123-45-67890
`

func TestHongLeongHeader(t *testing.T) {
	p, err := New(models.BankHongLeong, stubResolver{})
	if err != nil {
		t.Fatal(err)
	}
	h := p.Header(hlFirstPage)

	if h.BankName != "Hong Leong Bank Berhad" {
		t.Errorf("BankName = %q", h.BankName)
	}
	if h.BankRegistrationNo != "97141-X" {
		t.Errorf("BankRegistrationNo = %q", h.BankRegistrationNo)
	}
	if h.BankAddress != "KEPONG (03-6257 1322)" {
		t.Errorf("BankAddress = %q", h.BankAddress)
	}
	if h.CustomerName != "Ahmad Fauzi Bin Omar" {
		t.Errorf("CustomerName = %q", h.CustomerName)
	}
	if h.CustomerAddress != "NO 7 JALAN KEPONG 52100 KUALA LUMPUR" {
		t.Errorf("CustomerAddress = %q", h.CustomerAddress)
	}
	if h.StatementDate != "30/06/24" {
		t.Errorf("StatementDate = %q", h.StatementDate)
	}
	if h.AccountNumber != "1234567890" {
		t.Errorf("AccountNumber = %q", h.AccountNumber)
	}
}

func TestHongLeongTransactions(t *testing.T) {
	p, err := New(models.BankHongLeong, stubResolver{name: "Acme Trading"})
	if err != nil {
		t.Fatal(err)
	}

	rows := []models.PositionedRow{
		{Text: "01-06-2024 IBG CREDIT 2,500.00 5,500.00", Credit: "2,500.00", Balance: "5,500.00"},
		{Text: "SALARY PAYMENT"},
		{Text: "02-06-2024 ATM WITHDRAWAL 200.00 5,300.00", Debit: "200.00", Balance: "5,300.00"},
		// Page furniture between the repeated masthead and the column
		// footer is skipped.
		{Text: "HONG LEONG BANK BERHAD (97141-X)"},
		{Text: "Statement of Account"},
		{Text: "Baki"},
		{Text: "03-06-2024 CHEQUE DEPOSIT 1,000.00 6,300.00", Credit: "1,000.00", Balance: "6,300.00"},
	}
	body, err := json.Marshal(rows)
	if err != nil {
		t.Fatal(err)
	}

	records, err := p.Transactions(string(body))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	// Money tokens never leak into the narration; continuation rows join
	// the open transaction.
	r := records[0]
	if r.Date != "01/06/24" || r.Description != "IBG CREDIT" {
		t.Errorf("record 0: date %q description %q", r.Date, r.Description)
	}
	if r.DescriptionOther != "SALARY PAYMENT" {
		t.Errorf("record 0: other %q", r.DescriptionOther)
	}
	if r.Credit.String() != "2500" || !r.Debit.IsZero() || r.Balance.String() != "5500" {
		t.Errorf("record 0: credit %s debit %s balance %s", r.Credit, r.Debit, r.Balance)
	}
	if r.CounterpartyName != "Acme Trading" {
		t.Errorf("record 0: counterparty %q", r.CounterpartyName)
	}

	r = records[1]
	if r.Description != "ATM WITHDRAWAL" || r.DescriptionOther != "" {
		t.Errorf("record 1: description %q other %q", r.Description, r.DescriptionOther)
	}
	if r.Debit.String() != "200" || !r.Credit.IsZero() || r.Balance.String() != "5300" {
		t.Errorf("record 1: credit %s debit %s balance %s", r.Credit, r.Debit, r.Balance)
	}

	r = records[2]
	if r.Description != "CHEQUE DEPOSIT" {
		t.Errorf("record 2: description %q", r.Description)
	}
	if r.Credit.String() != "1000" || r.Balance.String() != "6300" {
		t.Errorf("record 2: credit %s balance %s", r.Credit, r.Balance)
	}
}

func TestHongLeongTransactionsBadInput(t *testing.T) {
	p, err := New(models.BankHongLeong, stubResolver{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Transactions("plain text, not positioned rows"); err == nil {
		t.Error("expected error for non-JSON input")
	}
}

func TestStripAmountTokens(t *testing.T) {
	got := stripAmountTokens("01-06-2024 IBG CREDIT 2,500.00 5,500.00")
	if got != "01-06-2024 IBG CREDIT" {
		t.Errorf("stripAmountTokens = %q", got)
	}
}
