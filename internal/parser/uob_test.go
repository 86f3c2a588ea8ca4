package parser

import (
	"testing"

	"github.com/transmatch/transmatch/internal/models"
)

const uobFirstPage = `UNITED OVERSEAS BANK (MALAYSIA) BHD
SYARIKAT MAJU JAYA SDN BHD
Current Account 9876543210
Statement Date
01/06/2024 30/06/2024
`

const uobBody = `ACCOUNT ACTIVITIES
Date Description Withdrawals Deposits
LEDGER BALANCE(MYR)
01/06/2024
IBG CREDIT
SYARIKAT MAJU JAYA SDN BHD
0.00
2,500.00
5,500.00
01/06/2024 10:33:32
AM
02/06/2024
CHEQUE PAID
200.00
0.00
5,300.00
02/06/2024 11:05:10
AM
TOTAL DEPOSITS(MYR)
2,500.00
`

func TestUOBHeader(t *testing.T) {
	p, err := New(models.BankUOB, stubResolver{})
	if err != nil {
		t.Fatal(err)
	}
	h := p.Header(uobFirstPage)

	if h.BankName != "UOB Bank Berhad" {
		t.Errorf("BankName = %q", h.BankName)
	}
	if h.CustomerName != "Syarikat Maju Jaya Sdn Bhd" {
		t.Errorf("CustomerName = %q", h.CustomerName)
	}
	if h.AccountNumber != "9876543210" {
		t.Errorf("AccountNumber = %q", h.AccountNumber)
	}
	// The statement date is the later end of the period.
	if h.StatementDate != "30/06/24" {
		t.Errorf("StatementDate = %q", h.StatementDate)
	}
}

func TestUOBTransactions(t *testing.T) {
	p, err := New(models.BankUOB, stubResolver{enriched: "Syarikat Maju Jaya"})
	if err != nil {
		t.Fatal(err)
	}
	records, err := p.Transactions(uobBody)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	// Fixed money-line order: withdrawals, deposits, balance. Lines between
	// the description and the first amount are extra narration.
	r := records[0]
	if r.Date != "01/06/24" || r.Description != "IBG CREDIT" {
		t.Errorf("record 0: date %q description %q", r.Date, r.Description)
	}
	if r.DescriptionOther != "SYARIKAT MAJU JAYA SDN BHD" {
		t.Errorf("record 0: other %q", r.DescriptionOther)
	}
	if r.Credit.String() != "2500" || !r.Debit.IsZero() || r.Balance.String() != "5500" {
		t.Errorf("record 0: credit %s debit %s balance %s", r.Credit, r.Debit, r.Balance)
	}
	// Names come from the enriched resolver for this template.
	if r.CounterpartyName != "Syarikat Maju Jaya" {
		t.Errorf("record 0: counterparty %q", r.CounterpartyName)
	}

	r = records[1]
	if r.Description != "CHEQUE PAID" || r.DescriptionOther != "" {
		t.Errorf("record 1: description %q other %q", r.Description, r.DescriptionOther)
	}
	if r.Debit.String() != "200" || !r.Credit.IsZero() || r.Balance.String() != "5300" {
		t.Errorf("record 1: credit %s debit %s balance %s", r.Credit, r.Debit, r.Balance)
	}
}

func TestLaterDate(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"30/06/24", "01/06/24", true},
		{"01/06/24", "30/06/24", false},
		{"01/01/25", "31/12/24", true},
	}
	for _, tt := range tests {
		if got := laterDate(tt.a, tt.b); got != tt.want {
			t.Errorf("laterDate(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
